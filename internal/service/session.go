package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Tony427/chatbot-api/internal/domain"
)

// CreateSession creates a new conversation session. The title is optional.
func (s *Service) CreateSession(ctx context.Context, title string) (*domain.Session, error) {
	session, err := s.store.CreateSession(ctx, strings.TrimSpace(title))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	log.Printf("INFO: created session %s", session.SessionID)
	return session, nil
}

// ListSessions lists active sessions, most recently updated first.
func (s *Service) ListSessions(ctx context.Context, limit int) ([]domain.Session, error) {
	sessions, err := s.store.ListActiveSessions(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// UpdateTitle renames a session.
func (s *Service) UpdateTitle(ctx context.Context, sessionID, title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	ok, err := s.store.UpdateTitle(ctx, sessionID, title)
	if err != nil {
		return fmt.Errorf("failed to update title: %w", err)
	}
	if !ok {
		return domain.ErrSessionNotFound
	}
	return nil
}

// ArchiveSession soft-deletes a session. Archived sessions disappear from
// listings and can no longer be chatted against.
func (s *Service) ArchiveSession(ctx context.Context, sessionID string) error {
	ok, err := s.store.Archive(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to archive session: %w", err)
	}
	if !ok {
		return domain.ErrSessionNotFound
	}
	log.Printf("INFO: archived session %s", sessionID)
	return nil
}

// GetConversation returns a session's title and message history.
func (s *Service) GetConversation(ctx context.Context, sessionID string, limit int) (*domain.ConversationResponse, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound
	}
	messages, err := s.store.ListMessages(ctx, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return &domain.ConversationResponse{
		SessionID:    sessionID,
		Title:        session.Title,
		Messages:     messages,
		MessageCount: len(messages),
	}, nil
}

// CountMessages returns the number of messages stored for a session.
func (s *Service) CountMessages(ctx context.Context, sessionID string) (int, error) {
	count, err := s.store.CountMessages(ctx, sessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

// ClearMessages removes all messages from a session without deleting it.
func (s *Service) ClearMessages(ctx context.Context, sessionID string) error {
	ok, err := s.store.ClearMessages(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}
	if !ok {
		return domain.ErrSessionNotFound
	}
	log.Printf("INFO: cleared messages for session %s", sessionID)
	return nil
}
