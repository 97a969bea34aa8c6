package user

import "errors"

var (
	// ErrUserNotFound is returned when no account matches the reference.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailAlreadyExists is returned when signing up with a taken email.
	ErrEmailAlreadyExists = errors.New("email already exists")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingFields is returned when a required signup/login field is absent.
	ErrMissingFields = errors.New("all fields required")
	// ErrDailyLimitReached is returned when the free-tier daily allowance is spent.
	ErrDailyLimitReached = errors.New("daily message limit reached")
)
