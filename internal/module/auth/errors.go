package auth

import "errors"

var (
	// ErrInvalidToken is returned when a session token fails parsing or verification.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidTokenClaims is returned when token claims have an unexpected shape.
	ErrInvalidTokenClaims = errors.New("invalid token claims")
)
