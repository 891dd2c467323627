// Package v1 provides the v1 REST handlers for the chatbot backend.
package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Tony427/chatbot-api/internal/domain"
	"github.com/Tony427/chatbot-api/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers the v1 routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Session API
	e.POST("/v1/sessions", h.CreateSession)
	e.GET("/v1/sessions", h.ListSessions)
	e.POST("/v1/sessions/:session_id/chat", h.Chat)
	e.GET("/v1/sessions/:session_id/messages", h.GetConversation)
	e.GET("/v1/sessions/:session_id/messages/count", h.CountMessages)
	e.DELETE("/v1/sessions/:session_id/messages", h.ClearMessages)
	e.PUT("/v1/sessions/:session_id/title", h.UpdateTitle)
	e.DELETE("/v1/sessions/:session_id", h.ArchiveSession)

	// Documents API
	e.GET("/v1/documents", h.ListDocuments)
	e.GET("/v1/documents/count", h.CountDocuments)
	e.GET("/v1/documents/:file_name", h.GetDocument)
	e.POST("/v1/documents/refresh", h.RefreshDocuments)

	// Index API
	e.GET("/v1/index/status", h.IndexStatus)
	e.GET("/v1/index/search", h.SearchIndex)
	e.POST("/v1/index/reload", h.ReloadIndex)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// errorResponse maps domain errors to status codes.
func errorResponse(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
