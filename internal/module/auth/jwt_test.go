package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultJWTConfig(t *testing.T) {
	config := DefaultJWTConfig()
	assert.Equal(t, 7*24*time.Hour, config.TokenExpiry)
	assert.Equal(t, "prof", config.Issuer)
}

func TestNewJWTManager(t *testing.T) {
	t.Run("creates with custom config", func(t *testing.T) {
		config := &JWTConfig{
			Secret:      "test-secret-key-that-is-long-enough",
			TokenExpiry: 24 * time.Hour,
			Issuer:      "custom-issuer",
		}
		manager := NewJWTManager(config)
		assert.NotNil(t, manager)
		assert.Equal(t, 24*time.Hour, manager.GetTokenExpiry())
	})

	t.Run("creates with nil config uses defaults", func(t *testing.T) {
		manager := NewJWTManager(nil)
		assert.NotNil(t, manager)
		assert.Equal(t, 7*24*time.Hour, manager.GetTokenExpiry())
	})

	t.Run("zero expiry falls back to default", func(t *testing.T) {
		manager := NewJWTManager(&JWTConfig{Secret: "s"})
		assert.Equal(t, 7*24*time.Hour, manager.GetTokenExpiry())
	})
}

func TestJWTManager_GenerateToken(t *testing.T) {
	config := &JWTConfig{
		Secret:      "test-secret-key-that-is-long-enough",
		TokenExpiry: 7 * 24 * time.Hour,
		Issuer:      "test",
	}
	manager := NewJWTManager(config)

	token, expiresAt, err := manager.GenerateToken(uuid.New(), "test@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now().Add(6*24*time.Hour)))
	assert.True(t, expiresAt.Before(time.Now().Add(8*24*time.Hour)))
}

func TestJWTManager_ValidateToken(t *testing.T) {
	config := &JWTConfig{
		Secret:      "test-secret-key-that-is-long-enough",
		TokenExpiry: 7 * 24 * time.Hour,
		Issuer:      "test",
	}
	manager := NewJWTManager(config)

	userID := uuid.New()
	email := "test@example.com"

	t.Run("validates valid token", func(t *testing.T) {
		token, _, err := manager.GenerateToken(userID, email)
		require.NoError(t, err)

		claims, err := manager.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, email, claims.Email)
	})

	t.Run("rejects invalid token", func(t *testing.T) {
		_, err := manager.ValidateToken("invalid-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects token with wrong secret", func(t *testing.T) {
		token, _, err := manager.GenerateToken(userID, email)
		require.NoError(t, err)

		otherManager := NewJWTManager(&JWTConfig{
			Secret:      "different-secret-key-that-is-also-long",
			TokenExpiry: time.Hour,
		})

		_, err = otherManager.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		expiredManager := NewJWTManager(&JWTConfig{
			Secret:      "test-secret-key-that-is-long-enough",
			TokenExpiry: time.Nanosecond,
			Issuer:      "test",
		})

		token, _, err := expiredManager.GenerateToken(userID, email)
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
		_, err = expiredManager.ValidateToken(token)
		assert.Error(t, err)
	})
}
