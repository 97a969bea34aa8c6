package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered student account.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`

	// Tier and daily usage. MessagesUsedToday is only meaningful relative
	// to LastMessageDate: a stored count from a previous calendar date
	// counts as zero.
	IsPremium         bool      `json:"is_premium" gorm:"column:is_premium;default:false"`
	MessagesUsedToday int       `json:"-" gorm:"column:messages_used_today;default:0"`
	LastMessageDate   time.Time `json:"-" gorm:"column:last_message_date"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// TableName returns the database table name.
func (User) TableName() string {
	return "users"
}

// DateOf truncates a time to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EffectiveUsedToday returns the usage count valid for the given instant,
// treating a counter from an earlier calendar date as zero.
func (u *User) EffectiveUsedToday(now time.Time) int {
	if DateOf(u.LastMessageDate).Before(DateOf(now)) {
		return 0
	}
	return u.MessagesUsedToday
}

// RemainingQuota returns how many free-tier messages are left today.
// Premium accounts have no cap, reported as nil.
func (u *User) RemainingQuota(limit int, now time.Time) *int {
	if u.IsPremium {
		return nil
	}
	remaining := limit - u.EffectiveUsedToday(now)
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}
