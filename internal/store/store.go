// Package store defines the session storage interface and implementations.
package store

import (
	"context"

	"github.com/Tony427/chatbot-api/internal/domain"
)

// Store defines the interface for session and message persistence.
type Store interface {
	// Session operations
	CreateSession(ctx context.Context, title string) (*domain.Session, error)
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	ListActiveSessions(ctx context.Context, limit int) ([]domain.Session, error)
	UpdateTitle(ctx context.Context, sessionID, title string) (bool, error)
	Archive(ctx context.Context, sessionID string) (bool, error)

	// Message operations
	AppendMessage(ctx context.Context, sessionID string, role domain.Role, content string, tokenCount *int) (*domain.Message, error)
	ListMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error)
	CountMessages(ctx context.Context, sessionID string) (int, error)
	ClearMessages(ctx context.Context, sessionID string) (bool, error)

	// Lifecycle
	Close() error
}
