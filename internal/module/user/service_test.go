package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prof/server/internal/module/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type memoryRepo struct {
	byID    map[uuid.UUID]*User
	byEmail map[string]*User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		byID:    make(map[uuid.UUID]*User),
		byEmail: make(map[string]*User),
	}
}

func (r *memoryRepo) Create(_ context.Context, u *User) error {
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (r *memoryRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (r *memoryRepo) Update(_ context.Context, u *User) error {
	r.byID[u.ID] = u
	return nil
}

func (r *memoryRepo) ConsumeDailyMessage(_ context.Context, id uuid.UUID, today time.Time, limit int) (int, error) {
	u, ok := r.byID[id]
	if !ok || u.IsPremium {
		return 0, ErrDailyLimitReached
	}
	if DateOf(u.LastMessageDate).Before(DateOf(today)) {
		u.MessagesUsedToday = 0
		u.LastMessageDate = DateOf(today)
	}
	if u.MessagesUsedToday >= limit {
		return 0, ErrDailyLimitReached
	}
	u.MessagesUsedToday++
	return u.MessagesUsedToday, nil
}

func (r *memoryRepo) ReleaseDailyMessage(_ context.Context, id uuid.UUID) error {
	if u, ok := r.byID[id]; ok && u.MessagesUsedToday > 0 {
		u.MessagesUsedToday--
	}
	return nil
}

func newTestService(repo Repository) *Service {
	jwt := auth.NewJWTManager(&auth.JWTConfig{
		Secret:      "test-secret",
		TokenExpiry: time.Hour,
		Issuer:      "prof",
	})
	return NewService(repo, jwt, 15, zap.NewNop())
}

func TestSignup(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	resp, err := svc.Signup(context.Background(), &SignupRequest{
		Email:    "awa@example.sn",
		Password: "secret123",
		Name:     "Awa Diop",
	})
	require.NoError(t, err)

	assert.Equal(t, "User created successfully", resp.Message)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "awa@example.sn", resp.User.Email)
	assert.False(t, resp.User.IsPremium)
	require.NotNil(t, resp.User.MessagesRemaining)
	assert.Equal(t, 15, *resp.User.MessagesRemaining)

	stored := repo.byEmail["awa@example.sn"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")))
}

func TestSignup_Validation(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	tests := []SignupRequest{
		{Email: "", Password: "x", Name: "n"},
		{Email: "a@b.sn", Password: "", Name: "n"},
		{Email: "a@b.sn", Password: "x", Name: "   "},
	}
	for _, req := range tests {
		_, err := svc.Signup(context.Background(), &req)
		assert.ErrorIs(t, err, ErrMissingFields)
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	req := &SignupRequest{Email: "awa@example.sn", Password: "secret123", Name: "Awa"}
	_, err := svc.Signup(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	_, err := svc.Signup(context.Background(), &SignupRequest{
		Email: "awa@example.sn", Password: "secret123", Name: "Awa",
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), &LoginRequest{
			Email: "awa@example.sn", Password: "secret123",
		})
		require.NoError(t, err)
		assert.Equal(t, "Login successful", resp.Message)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &LoginRequest{
			Email: "awa@example.sn", Password: "wrong",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email is indistinguishable", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &LoginRequest{
			Email: "nobody@example.sn", Password: "secret123",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("empty fields", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &LoginRequest{})
		assert.ErrorIs(t, err, ErrMissingFields)
	})
}

func TestProfile(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	resp, err := svc.Signup(context.Background(), &SignupRequest{
		Email: "awa@example.sn", Password: "secret123", Name: "Awa",
	})
	require.NoError(t, err)

	id := uuid.MustParse(resp.User.ID)

	// Spend a few messages, then check the snapshot
	for i := 0; i < 3; i++ {
		_, err := repo.ConsumeDailyMessage(context.Background(), id, time.Now(), 15)
		require.NoError(t, err)
	}

	pub, err := svc.Profile(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, pub.MessagesRemaining)
	assert.Equal(t, 12, *pub.MessagesRemaining)

	_, err = svc.Profile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
