package chat

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Conversation is an ordered, append-only log of question/answer turns
// owned by one account.
type Conversation struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;index"`
	Subject   string    `json:"subject" gorm:"not null"`
	Level     string    `json:"level" gorm:"not null"`
	Messages  []Message `json:"messages" gorm:"foreignKey:ConversationID"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updated_at;index"`
}

// TableName returns the database table name.
func (Conversation) TableName() string {
	return "conversations"
}

// Message is a single immutable turn in a conversation. Seq is the
// per-conversation insertion order, starting at 1.
type Message struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConversationID uuid.UUID `json:"-" gorm:"type:uuid;not null;index:idx_messages_conversation_seq,priority:1"`
	Seq            int       `json:"-" gorm:"not null;index:idx_messages_conversation_seq,priority:2"`
	Role           Role      `json:"role" gorm:"not null"`
	Content        string    `json:"content" gorm:"not null"`
	CreatedAt      time.Time `json:"timestamp" gorm:"column:created_at"`
}

// TableName returns the database table name.
func (Message) TableName() string {
	return "messages"
}

// HistoryEntry is the neutral (role, content) pair replayed to the
// completion provider as dialogue history.
type HistoryEntry struct {
	Role    string
	Content string
}

// History maps the most recent window of stored messages to provider
// history entries, preserving insertion order.
func (c *Conversation) History(window int) []HistoryEntry {
	msgs := c.Messages
	if window > 0 && len(msgs) > window {
		msgs = msgs[len(msgs)-window:]
	}
	entries := make([]HistoryEntry, 0, len(msgs))
	for _, m := range msgs {
		entries = append(entries, HistoryEntry{Role: string(m.Role), Content: m.Content})
	}
	return entries
}

// NextSeq returns the sequence number for the next appended message.
func (c *Conversation) NextSeq() int {
	return len(c.Messages) + 1
}
