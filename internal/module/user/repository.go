package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for user data access.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error

	// ConsumeDailyMessage atomically spends one free-tier message for today.
	// It rolls the counter over when the stored date is older than today and
	// increments only while the count is below limit, in a single statement,
	// so two concurrent requests cannot both pass at the ceiling. Returns
	// the count after the increment, or ErrDailyLimitReached.
	ConsumeDailyMessage(ctx context.Context, id uuid.UUID, today time.Time, limit int) (int, error)

	// ReleaseDailyMessage returns one previously consumed message, used when
	// generation fails after the slot was reserved. The count never drops
	// below zero.
	ReleaseDailyMessage(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new user repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) Update(ctx context.Context, user *User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *repository) ConsumeDailyMessage(ctx context.Context, id uuid.UUID, today time.Time, limit int) (int, error) {
	today = DateOf(today)

	var used int
	tx := r.db.WithContext(ctx).Raw(`
		UPDATE users
		SET messages_used_today = CASE
				WHEN last_message_date < @today THEN 1
				ELSE messages_used_today + 1
			END,
			last_message_date = @today,
			updated_at = NOW()
		WHERE id = @id
		  AND is_premium = FALSE
		  AND (last_message_date < @today OR messages_used_today < @limit)
		RETURNING messages_used_today`,
		map[string]any{"id": id, "today": today, "limit": limit},
	).Scan(&used)
	if tx.Error != nil {
		return 0, tx.Error
	}
	if tx.RowsAffected == 0 {
		return 0, ErrDailyLimitReached
	}
	return used, nil
}

func (r *repository) ReleaseDailyMessage(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE users
		SET messages_used_today = GREATEST(messages_used_today - 1, 0),
			updated_at = NOW()
		WHERE id = ? AND is_premium = FALSE`,
		id,
	).Error
}
