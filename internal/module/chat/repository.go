package chat

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for conversation data access.
type Repository interface {
	CreateConversation(ctx context.Context, conv *Conversation) error
	// GetConversation loads a conversation with its messages in insertion order.
	GetConversation(ctx context.Context, id uuid.UUID) (*Conversation, error)
	// AppendMessages appends messages to an existing conversation and bumps
	// its last-modified timestamp, atomically.
	AppendMessages(ctx context.Context, convID uuid.UUID, msgs []Message) error
	// ListByUser returns the most recently updated conversations for a user,
	// newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*Conversation, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new conversation repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateConversation(ctx context.Context, conv *Conversation) error {
	return r.db.WithContext(ctx).Create(conv).Error
}

func (r *repository) GetConversation(ctx context.Context, id uuid.UUID) (*Conversation, error) {
	var conv Conversation
	err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		}).
		Where("id = ?", id).
		First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conv, nil
}

func (r *repository) AppendMessages(ctx context.Context, convID uuid.UUID, msgs []Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range msgs {
			msgs[i].ConversationID = convID
		}
		if err := tx.Create(&msgs).Error; err != nil {
			return err
		}
		return tx.Model(&Conversation{}).
			Where("id = ?", convID).
			Update("updated_at", time.Now()).Error
	})
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*Conversation, error) {
	var convs []*Conversation
	err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		}).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&convs).Error
	if err != nil {
		return nil, err
	}
	return convs, nil
}
