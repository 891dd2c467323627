package domain

import "time"

// CreateSessionRequest is the request to create a new session.
type CreateSessionRequest struct {
	Title string `json:"title,omitempty"`
}

// UpdateTitleRequest is the request to rename a session.
type UpdateTitleRequest struct {
	Title string `json:"title"`
}

// ChatRequest is the request to send a message in a session.
// MaxTokens and Temperature override the server defaults when set.
type ChatRequest struct {
	Message     string   `json:"message"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// ChatResponse is the result of a completed conversational turn.
type ChatResponse struct {
	SessionID   string    `json:"session_id"`
	Reply       string    `json:"reply"`
	ContextUsed bool      `json:"context_used"`
	SourcesUsed []string  `json:"sources_used"`
	Timestamp   time.Time `json:"timestamp"`
}

// SessionListResponse wraps a session listing.
type SessionListResponse struct {
	Sessions []Session `json:"sessions"`
	Count    int       `json:"count"`
}

// ConversationResponse wraps a session's message history.
type ConversationResponse struct {
	SessionID    string    `json:"session_id"`
	Title        string    `json:"title"`
	Messages     []Message `json:"messages"`
	MessageCount int       `json:"message_count"`
}

// IndexStatus reports the document index readiness and size.
type IndexStatus struct {
	Backend       string `json:"backend"`
	Ready         bool   `json:"ready"`
	DocumentCount int    `json:"document_count"`
	PassageCount  int    `json:"passage_count"`
}
