package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Tony427/chatbot-api/internal/domain"
)

const previewLength = 200

// ListDocuments returns the loaded corpus with content previews.
// GET /v1/documents
func (h *Handler) ListDocuments(c echo.Context) error {
	docs, err := h.service.ListDocuments(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}

	type docSummary struct {
		FileName       string `json:"file_name"`
		LastModified   string `json:"last_modified"`
		SizeBytes      int64  `json:"size_bytes"`
		ContentPreview string `json:"content_preview"`
	}
	summaries := make([]docSummary, 0, len(docs))
	for _, d := range docs {
		preview := d.Content
		if len(preview) > previewLength {
			preview = preview[:previewLength] + "..."
		}
		summaries = append(summaries, docSummary{
			FileName:       d.FileName,
			LastModified:   d.LastModified.UTC().Format("2006-01-02T15:04:05Z07:00"),
			SizeBytes:      d.SizeBytes,
			ContentPreview: preview,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"documents": summaries,
		"count":     len(summaries),
	})
}

// GetDocument returns a single document by file name.
// GET /v1/documents/:file_name
func (h *Handler) GetDocument(c echo.Context) error {
	fileName := c.Param("file_name")

	doc, err := h.service.GetDocument(c.Request().Context(), fileName)
	if err != nil {
		return errorResponse(c, err)
	}
	if doc == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "document not found: " + fileName})
	}
	return c.JSON(http.StatusOK, doc)
}

// CountDocuments returns the number of loaded documents.
// GET /v1/documents/count
func (h *Handler) CountDocuments(c echo.Context) error {
	count, err := h.service.CountDocuments(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int{"count": count})
}

// RefreshDocuments reloads the corpus from disk and rebuilds the index.
// POST /v1/documents/refresh
func (h *Handler) RefreshDocuments(c echo.Context) error {
	count, err := h.service.RefreshDocuments(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":        "documents refreshed",
		"document_count": count,
	})
}

// IndexStatus reports the document index readiness.
// GET /v1/index/status
func (h *Handler) IndexStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.IndexStatus(c.Request().Context()))
}

// SearchIndex runs an ad-hoc search against the document index.
// GET /v1/index/search?query=...&limit=3
func (h *Handler) SearchIndex(c echo.Context) error {
	query := c.QueryParam("query")
	limit := queryInt(c, "limit", 0)

	passages, err := h.service.SearchIndex(c.Request().Context(), query, limit)
	if err != nil {
		return errorResponse(c, err)
	}
	if passages == nil {
		passages = []domain.RetrievedPassage{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": passages,
	})
}

// ReloadIndex rebuilds the document index from the cached corpus.
// POST /v1/index/reload
func (h *Handler) ReloadIndex(c echo.Context) error {
	count, err := h.service.ReloadIndex(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":        "index reloaded",
		"document_count": count,
	})
}
