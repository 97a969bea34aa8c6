package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prof/server/internal/module/auth"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Service provides account registration, authentication and profile lookup.
type Service struct {
	repo           Repository
	jwt            *auth.JWTManager
	dailyFreeLimit int
	logger         *zap.Logger
}

// NewService creates a new user service.
func NewService(repo Repository, jwt *auth.JWTManager, dailyFreeLimit int, logger *zap.Logger) *Service {
	return &Service{
		repo:           repo,
		jwt:            jwt,
		dailyFreeLimit: dailyFreeLimit,
		logger:         logger,
	}
}

// Signup creates a new free-tier account and issues a session token.
func (s *Service) Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" || strings.TrimSpace(req.Name) == "" {
		return nil, ErrMissingFields
	}

	if existing, err := s.repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailAlreadyExists
	} else if err != nil && err != ErrUserNotFound {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	u := &User{
		ID:                uuid.New(),
		Email:             email,
		Name:              strings.TrimSpace(req.Name),
		PasswordHash:      string(hash),
		IsPremium:         false,
		MessagesUsedToday: 0,
		LastMessageDate:   DateOf(now),
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, _, err := s.jwt.GenerateToken(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("user signed up", zap.String("user_id", u.ID.String()))

	return &AuthResponse{
		Message: "User created successfully",
		Token:   token,
		User:    u.ToPublic(s.dailyFreeLimit, now),
	}, nil
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}

	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if err == ErrUserNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, _, err := s.jwt.GenerateToken(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    u.ToPublic(s.dailyFreeLimit, time.Now()),
	}, nil
}

// Profile returns the public projection for an account.
func (s *Service) Profile(ctx context.Context, id uuid.UUID) (*PublicUser, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.ToPublic(s.dailyFreeLimit, time.Now()), nil
}
