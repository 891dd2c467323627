// Package domain defines the core domain models for the chatbot backend.
package domain

import "time"

// Session represents a conversation session. SessionID is the external,
// client-facing identifier; the numeric storage rowid never leaves the store.
type Session struct {
	SessionID string    `json:"session_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	IsActive  bool      `json:"is_active"`
}

// Message represents a single message in a session. Messages are immutable
// once stored.
type Message struct {
	SessionID  string    `json:"session_id"`
	Role       Role      `json:"role"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	TokenCount *int      `json:"token_count,omitempty"`
}

// RetrievedPassage is a scored excerpt returned by the document index.
// Passages are ephemeral: they are never persisted, only used to build the
// prompt and to report sources back to the caller.
type RetrievedPassage struct {
	Source string  `json:"source"`
	Text   string  `json:"text"`
	Score  float64 `json:"score"`
}

// Document is a text file loaded from the documents directory.
type Document struct {
	FileName     string    `json:"file_name"`
	Path         string    `json:"path"`
	Content      string    `json:"content"`
	LastModified time.Time `json:"last_modified"`
	SizeBytes    int64     `json:"size_bytes"`
}
