package chat

// SolveRequest is the chat request payload. Only Problem is required;
// subject, level and mode fall back to defaults, and the conversation and
// user references are optional.
type SolveRequest struct {
	Problem        string `json:"problem"`
	Subject        string `json:"subject"`
	Level          string `json:"level"`
	Mode           string `json:"mode"`
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
}

// SolveResponse carries the generated answer. MessagesRemaining is null
// for premium accounts and anonymous requests (unlimited/unmetered).
type SolveResponse struct {
	Solution          string `json:"solution"`
	ConversationID    string `json:"conversationId,omitempty"`
	MessagesRemaining *int   `json:"messagesRemaining"`
}

// ConversationsResponse wraps a conversation listing.
type ConversationsResponse struct {
	Conversations []*Conversation `json:"conversations"`
}
