package user

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	in := time.Date(2026, 3, 15, 2, 30, 0, 0, loc) // 2026-03-14 21:30 UTC
	got := DateOf(in)

	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, got, DateOf(got))
}

func TestEffectiveUsedToday(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("same day keeps counter", func(t *testing.T) {
		u := &User{MessagesUsedToday: 7, LastMessageDate: DateOf(now)}
		assert.Equal(t, 7, u.EffectiveUsedToday(now))
	})

	t.Run("earlier date counts as zero", func(t *testing.T) {
		u := &User{MessagesUsedToday: 15, LastMessageDate: DateOf(now.AddDate(0, 0, -1))}
		assert.Equal(t, 0, u.EffectiveUsedToday(now))
	})

	t.Run("later the same calendar day", func(t *testing.T) {
		u := &User{MessagesUsedToday: 3, LastMessageDate: now.Add(-6 * time.Hour)}
		assert.Equal(t, 3, u.EffectiveUsedToday(now))
	})
}

func TestRemainingQuota(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("free tier", func(t *testing.T) {
		u := &User{MessagesUsedToday: 4, LastMessageDate: DateOf(now)}
		rem := u.RemainingQuota(15, now)
		require.NotNil(t, rem)
		assert.Equal(t, 11, *rem)
	})

	t.Run("exhausted clamps to zero", func(t *testing.T) {
		u := &User{MessagesUsedToday: 17, LastMessageDate: DateOf(now)}
		rem := u.RemainingQuota(15, now)
		require.NotNil(t, rem)
		assert.Equal(t, 0, *rem)
	})

	t.Run("stale counter resets", func(t *testing.T) {
		u := &User{MessagesUsedToday: 15, LastMessageDate: DateOf(now.AddDate(0, 0, -3))}
		rem := u.RemainingQuota(15, now)
		require.NotNil(t, rem)
		assert.Equal(t, 15, *rem)
	})

	t.Run("premium is nil", func(t *testing.T) {
		u := &User{IsPremium: true, MessagesUsedToday: 99, LastMessageDate: DateOf(now)}
		assert.Nil(t, u.RemainingQuota(15, now))
	})
}

func TestToPublic(t *testing.T) {
	now := time.Now()
	u := &User{
		ID:              uuid.New(),
		Email:           "a@b.sn",
		Name:            "Awa",
		LastMessageDate: DateOf(now),
	}
	u.MessagesUsedToday = 2

	pub := u.ToPublic(15, now)
	assert.Equal(t, u.ID.String(), pub.ID)
	assert.Equal(t, "a@b.sn", pub.Email)
	assert.False(t, pub.IsPremium)
	require.NotNil(t, pub.MessagesRemaining)
	assert.Equal(t, 13, *pub.MessagesRemaining)
}
