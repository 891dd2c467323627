package v1

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Tony427/chatbot-api/internal/domain"
)

// CreateSession creates a new chat session.
// POST /v1/sessions
func (h *Handler) CreateSession(c echo.Context) error {
	var req domain.CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	session, err := h.service.CreateSession(c.Request().Context(), req.Title)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, session)
}

// ListSessions lists active sessions, most recently updated first.
// GET /v1/sessions?limit=20
func (h *Handler) ListSessions(c echo.Context) error {
	limit := queryInt(c, "limit", 20)

	sessions, err := h.service.ListSessions(c.Request().Context(), limit)
	if err != nil {
		return errorResponse(c, err)
	}
	if sessions == nil {
		sessions = []domain.Session{}
	}
	return c.JSON(http.StatusOK, domain.SessionListResponse{
		Sessions: sessions,
		Count:    len(sessions),
	})
}

// Chat runs one conversational turn in a session.
// POST /v1/sessions/:session_id/chat
func (h *Handler) Chat(c echo.Context) error {
	sessionID := c.Param("session_id")

	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	resp, err := h.service.Converse(c.Request().Context(), sessionID, req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetConversation returns a session's message history.
// GET /v1/sessions/:session_id/messages?limit=50
func (h *Handler) GetConversation(c echo.Context) error {
	sessionID := c.Param("session_id")
	limit := queryInt(c, "limit", 50)

	conversation, err := h.service.GetConversation(c.Request().Context(), sessionID, limit)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, conversation)
}

// CountMessages returns the number of messages in a session.
// GET /v1/sessions/:session_id/messages/count
func (h *Handler) CountMessages(c echo.Context) error {
	sessionID := c.Param("session_id")

	count, err := h.service.CountMessages(c.Request().Context(), sessionID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int{"count": count})
}

// ClearMessages removes all messages from a session.
// DELETE /v1/sessions/:session_id/messages
func (h *Handler) ClearMessages(c echo.Context) error {
	sessionID := c.Param("session_id")

	if err := h.service.ClearMessages(c.Request().Context(), sessionID); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": fmt.Sprintf("messages cleared for session %s", sessionID),
	})
}

// UpdateTitle renames a session.
// PUT /v1/sessions/:session_id/title
func (h *Handler) UpdateTitle(c echo.Context) error {
	sessionID := c.Param("session_id")

	var req domain.UpdateTitleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := h.service.UpdateTitle(c.Request().Context(), sessionID, req.Title); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "session title updated"})
}

// ArchiveSession soft-deletes a session.
// DELETE /v1/sessions/:session_id
func (h *Handler) ArchiveSession(c echo.Context) error {
	sessionID := c.Param("session_id")

	if err := h.service.ArchiveSession(c.Request().Context(), sessionID); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": fmt.Sprintf("session %s archived", sessionID),
	})
}

func queryInt(c echo.Context, name string, defaultVal int) int {
	if v := c.QueryParam(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}
