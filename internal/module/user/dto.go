package user

import "time"

// SignupRequest is the signup payload.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PublicUser is the account projection returned to clients.
// MessagesRemaining is null for premium accounts (unlimited).
type PublicUser struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	Name              string `json:"name"`
	IsPremium         bool   `json:"isPremium"`
	MessagesRemaining *int   `json:"messagesRemaining"`
}

// ToPublic builds the public projection with a remaining-quota snapshot.
func (u *User) ToPublic(limit int, now time.Time) *PublicUser {
	return &PublicUser{
		ID:                u.ID.String(),
		Email:             u.Email,
		Name:              u.Name,
		IsPremium:         u.IsPremium,
		MessagesRemaining: u.RemainingQuota(limit, now),
	}
}

// AuthResponse is the signup/login payload: a session token plus the
// public account projection.
type AuthResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    *PublicUser `json:"user"`
}
