package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Tony427/chatbot-api/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			is_active INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_active_updated ON sessions(is_active, updated_at)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_row_id INTEGER NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			token_count INTEGER,
			FOREIGN KEY (session_row_id) REFERENCES sessions(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_row_id, created_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSession generates a fresh session id and persists a new active session.
// An empty title defaults to a timestamp-derived label.
func (s *SQLiteStore) CreateSession(ctx context.Context, title string) (*domain.Session, error) {
	now := time.Now().UTC()
	if title == "" {
		title = "Chat Session " + now.Format("2006-01-02 15:04")
	}
	session := &domain.Session{
		SessionID: "sess_" + uuid.New().String(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
		IsActive:  true,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, title, created_at, updated_at, is_active) VALUES (?, ?, ?, ?, 1)`,
		session.SessionID, session.Title, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// GetSession retrieves an active session by its external id. Archived and
// unknown ids both return nil.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	var session domain.Session
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, title, created_at, updated_at, is_active FROM sessions WHERE session_id = ? AND is_active = 1`,
		sessionID).Scan(&session.SessionID, &session.Title, &session.CreatedAt, &session.UpdatedAt, &session.IsActive)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListActiveSessions lists active sessions, most recently updated first.
func (s *SQLiteStore) ListActiveSessions(ctx context.Context, limit int) ([]domain.Session, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, title, created_at, updated_at, is_active FROM sessions WHERE is_active = 1 ORDER BY updated_at DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var session domain.Session
		if err := rows.Scan(&session.SessionID, &session.Title, &session.CreatedAt, &session.UpdatedAt, &session.IsActive); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// UpdateTitle renames an active session and bumps its updated_at.
// Returns false if the session is unknown or archived.
func (s *SQLiteStore) UpdateTitle(ctx context.Context, sessionID, title string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET title = ?, updated_at = ? WHERE session_id = ? AND is_active = 1`,
		title, time.Now().UTC(), sessionID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Archive soft-deletes a session by flipping its active flag.
// Returns false if the session is unknown or already archived.
func (s *SQLiteStore) Archive(ctx context.Context, sessionID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET is_active = 0, updated_at = ? WHERE session_id = ? AND is_active = 1`,
		time.Now().UTC(), sessionID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// AppendMessage inserts a message and bumps the session's updated_at in a
// single transaction, so a message can never exist without its bump.
// Returns domain.ErrSessionNotFound if the session is unknown or archived.
func (s *SQLiteStore) AppendMessage(ctx context.Context, sessionID string, role domain.Role, content string, tokenCount *int) (*domain.Message, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rowID, err := activeSessionRowID(ctx, tx, sessionID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	msg := &domain.Message{
		SessionID:  sessionID,
		Role:       role,
		Content:    content,
		CreatedAt:  now,
		TokenCount: tokenCount,
	}
	var tokens sql.NullInt64
	if tokenCount != nil {
		tokens = sql.NullInt64{Int64: int64(*tokenCount), Valid: true}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO messages (session_row_id, role, content, created_at, token_count) VALUES (?, ?, ?, ?, ?)`,
		rowID, msg.Role, msg.Content, msg.CreatedAt, tokens); err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE sessions SET updated_at = ? WHERE id = ?`,
		now, rowID); err != nil {
		return nil, fmt.Errorf("failed to bump session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListMessages returns the most recent `limit` messages of a session in
// chronological order, oldest first. Unknown sessions yield an empty slice.
func (s *SQLiteStore) ListMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	// Take the newest `limit` rows, then flip back to chronological order so
	// long sessions do not lose their recent turns to truncation.
	rows, err := s.db.QueryContext(ctx, `
		SELECT role, content, created_at, token_count FROM (
			SELECT m.id, m.role, m.content, m.created_at, m.token_count
			FROM messages m
			JOIN sessions s ON s.id = m.session_row_id
			WHERE s.session_id = ?
			ORDER BY m.created_at DESC, m.id DESC
			LIMIT ?
		) ORDER BY created_at ASC, id ASC`,
		sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		var tokens sql.NullInt64
		if err := rows.Scan(&msg.Role, &msg.Content, &msg.CreatedAt, &tokens); err != nil {
			return nil, err
		}
		msg.SessionID = sessionID
		if tokens.Valid {
			n := int(tokens.Int64)
			msg.TokenCount = &n
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// CountMessages returns the number of messages in a session.
func (s *SQLiteStore) CountMessages(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM messages m
		JOIN sessions s ON s.id = m.session_row_id
		WHERE s.session_id = ?`,
		sessionID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ClearMessages removes all messages for a session without deleting the
// session itself, bumping updated_at. Returns false for unknown or archived
// sessions.
func (s *SQLiteStore) ClearMessages(ctx context.Context, sessionID string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	rowID, err := activeSessionRowID(ctx, tx, sessionID)
	if err == domain.ErrSessionNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE session_row_id = ?`, rowID); err != nil {
		return false, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE sessions SET updated_at = ? WHERE id = ?`,
		time.Now().UTC(), rowID); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func activeSessionRowID(ctx context.Context, tx *sql.Tx, sessionID string) (int64, error) {
	var rowID int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM sessions WHERE session_id = ? AND is_active = 1`,
		sessionID).Scan(&rowID)
	if err == sql.ErrNoRows {
		return 0, domain.ErrSessionNotFound
	}
	if err != nil {
		return 0, err
	}
	return rowID, nil
}
