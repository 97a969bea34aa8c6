package chat

import "errors"

var (
	// ErrEmptyQuestion is returned when the question field is missing or blank.
	ErrEmptyQuestion = errors.New("problem is required")
	// ErrConversationNotFound is returned when a conversation id does not resolve.
	ErrConversationNotFound = errors.New("conversation not found")
	// ErrGenerationFailed wraps completion provider failures.
	ErrGenerationFailed = errors.New("failed to solve problem")
	// ErrPersistenceFailed wraps storage failures after a successful generation.
	ErrPersistenceFailed = errors.New("failed to save conversation")
)
