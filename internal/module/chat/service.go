package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prof/server/internal/module/chat/provider"
	"github.com/prof/server/internal/module/user"
	"github.com/prof/server/internal/utils/metrics"
	"go.uber.org/zap"
)

// UserStore is the slice of account storage the coordinator needs.
// Satisfied by user.Repository.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	ConsumeDailyMessage(ctx context.Context, id uuid.UUID, today time.Time, limit int) (int, error)
	ReleaseDailyMessage(ctx context.Context, id uuid.UUID) error
}

// Config holds coordinator policy.
type Config struct {
	// DailyFreeLimit is the free-tier daily message allowance.
	DailyFreeLimit int
	// HistoryWindow caps how many stored messages are replayed to the
	// provider. Fixed policy, not per-call.
	HistoryWindow int
	// ConversationLimit caps conversation listings.
	ConversationLimit int
	// AllowUnknownUser controls what happens when a user reference does
	// not resolve: proceed as an unmetered request (the historical
	// behavior) or reject.
	AllowUnknownUser bool
}

// DefaultConfig returns the default coordinator policy.
func DefaultConfig() Config {
	return Config{
		DailyFreeLimit:    15,
		HistoryWindow:     6,
		ConversationLimit: 20,
		AllowUnknownUser:  true,
	}
}

// Service coordinates quota enforcement, prompt assembly, generation and
// conversation persistence for chat requests.
type Service struct {
	repo     Repository
	users    UserStore
	provider provider.Client
	config   Config
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewService creates a new chat service. Metrics may be nil.
func NewService(repo Repository, users UserStore, prov provider.Client, config Config, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		users:    users,
		provider: prov,
		config:   config,
		metrics:  m,
		logger:   logger,
	}
}

// SolveInput is the coordinator's request.
type SolveInput struct {
	Question       string
	Subject        string
	Level          string
	Mode           string
	ConversationID string
	UserID         string
}

// SolveResult is the coordinator's response. MessagesRemaining is nil for
// premium accounts and unmetered requests.
type SolveResult struct {
	Solution          string
	ConversationID    string
	MessagesRemaining *int
}

// Solve handles one chat request end to end:
//
//  1. validate the question,
//  2. resolve the optional account and conversation references,
//  3. reserve one free-tier message atomically (the reservation is
//     released if generation fails, so a failed call never costs quota),
//  4. assemble the capped history and mode-specific system prompt,
//  5. call the completion provider,
//  6. persist the new user/assistant message pair.
func (s *Service) Solve(ctx context.Context, in *SolveInput) (*SolveResult, error) {
	question := strings.TrimSpace(in.Question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	subject := in.Subject
	if subject == "" {
		subject = DefaultSubject
	}
	level := in.Level
	if level == "" {
		level = DefaultLevel
	}
	mode := ParseMode(in.Mode)

	u, err := s.resolveUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	conv := s.resolveConversation(ctx, in.ConversationID)

	// Reserve a free-tier slot before spending money on the provider.
	// ConsumeDailyMessage applies the calendar-date rollover and the
	// ceiling check in one atomic statement.
	reserved := false
	usedToday := 0
	if u != nil && !u.IsPremium {
		used, err := s.users.ConsumeDailyMessage(ctx, u.ID, time.Now(), s.config.DailyFreeLimit)
		if err != nil {
			if errors.Is(err, user.ErrDailyLimitReached) {
				if s.metrics != nil {
					s.metrics.QuotaRejectionsTotal.Inc()
				}
				return nil, err
			}
			return nil, fmt.Errorf("consume daily quota: %w", err)
		}
		reserved = true
		usedToday = used
	}

	messages := s.buildPrompt(conv, subject, level, mode, question)

	start := time.Now()
	completion, err := s.provider.Complete(ctx, &provider.CompletionRequest{
		Messages: messages,
		Premium:  u != nil && u.IsPremium,
	})
	if err != nil {
		if reserved {
			if relErr := s.users.ReleaseDailyMessage(ctx, u.ID); relErr != nil {
				s.logger.Error("release reserved daily message failed",
					zap.Error(relErr),
					zap.String("user_id", u.ID.String()),
				)
			}
		}
		if s.metrics != nil {
			s.metrics.RecordCompletion("unknown", "error", time.Since(start))
		}
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if s.metrics != nil {
		s.metrics.RecordCompletion(completion.Model, "success", time.Since(start))
	}

	convID, err := s.persist(ctx, conv, u, subject, level, question, completion.Content)
	if err != nil {
		// Quota stays spent: the provider call happened and was paid for.
		s.logger.Error("persist conversation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	var remaining *int
	if u != nil && !u.IsPremium {
		rem := s.config.DailyFreeLimit - usedToday
		if rem < 0 {
			rem = 0
		}
		remaining = &rem
	}

	return &SolveResult{
		Solution:          completion.Content,
		ConversationID:    convID,
		MessagesRemaining: remaining,
	}, nil
}

// ListConversations returns the most recently updated conversations for an
// account, newest first.
func (s *Service) ListConversations(ctx context.Context, userID uuid.UUID) ([]*Conversation, error) {
	return s.repo.ListByUser(ctx, userID, s.config.ConversationLimit)
}

// resolveUser loads the account for an optional reference. An absent or
// unresolvable reference yields a nil user (unmetered request) unless
// AllowUnknownUser is off, in which case unresolvable references are
// rejected.
func (s *Service) resolveUser(ctx context.Context, ref string) (*user.User, error) {
	if ref == "" {
		return nil, nil
	}

	id, parseErr := uuid.Parse(ref)
	if parseErr == nil {
		u, err := s.users.GetByID(ctx, id)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, user.ErrUserNotFound) {
			return nil, fmt.Errorf("load user: %w", err)
		}
	}

	if !s.config.AllowUnknownUser {
		return nil, user.ErrUserNotFound
	}
	s.logger.Warn("unknown user reference, proceeding unmetered", zap.String("user_ref", ref))
	return nil, nil
}

// resolveConversation loads the conversation for an optional reference.
// Unresolvable references are treated as absent: a new conversation is
// started instead.
func (s *Service) resolveConversation(ctx context.Context, ref string) *Conversation {
	if ref == "" {
		return nil
	}
	id, err := uuid.Parse(ref)
	if err != nil {
		return nil
	}
	conv, err := s.repo.GetConversation(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrConversationNotFound) {
			s.logger.Warn("load conversation failed, starting fresh",
				zap.Error(err), zap.String("conversation_id", ref))
		}
		return nil
	}
	return conv
}

// buildPrompt assembles the provider message sequence: system instruction,
// capped history, then the new question as the final user turn.
func (s *Service) buildPrompt(conv *Conversation, subject, level string, mode Mode, question string) []provider.Message {
	messages := make([]provider.Message, 0, s.config.HistoryWindow+2)
	messages = append(messages, provider.Message{
		Role:    "system",
		Content: SystemPrompt(subject, level, mode),
	})
	if conv != nil {
		for _, h := range conv.History(s.config.HistoryWindow) {
			messages = append(messages, provider.Message{Role: h.Role, Content: h.Content})
		}
	}
	return append(messages, provider.Message{Role: "user", Content: question})
}

// persist reconciles the exchange back to storage: append to an existing
// conversation, create one for an account's first message, or skip
// entirely for ephemeral (anonymous, conversation-less) requests.
// Returns the conversation id, or "" when nothing was persisted.
func (s *Service) persist(ctx context.Context, conv *Conversation, u *user.User, subject, level, question, answer string) (string, error) {
	now := time.Now()
	pair := []Message{
		{ID: uuid.New(), Role: RoleUser, Content: question, CreatedAt: now},
		{ID: uuid.New(), Role: RoleAssistant, Content: answer, CreatedAt: now},
	}

	switch {
	case conv != nil:
		pair[0].Seq = conv.NextSeq()
		pair[1].Seq = conv.NextSeq() + 1
		if err := s.repo.AppendMessages(ctx, conv.ID, pair); err != nil {
			return "", err
		}
		return conv.ID.String(), nil

	case u != nil:
		newConv := &Conversation{
			ID:      uuid.New(),
			UserID:  u.ID,
			Subject: subject,
			Level:   level,
		}
		pair[0].Seq, pair[1].Seq = 1, 2
		pair[0].ConversationID = newConv.ID
		pair[1].ConversationID = newConv.ID
		newConv.Messages = pair
		if err := s.repo.CreateConversation(ctx, newConv); err != nil {
			return "", err
		}
		return newConv.ID.String(), nil

	default:
		// Neither a conversation nor an account: the exchange is ephemeral.
		return "", nil
	}
}
