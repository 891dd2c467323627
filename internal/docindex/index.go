// Package docindex provides semantic search over the document corpus.
package docindex

import (
	"context"

	"github.com/Tony427/chatbot-api/internal/domain"
)

// Index is the document search capability consumed by the orchestrator.
// An Index is constructed unready and becomes ready after a successful Load;
// readiness is an attribute of the handle, not shared mutable state.
type Index interface {
	// Load (re)builds the index from the given documents.
	Load(ctx context.Context, docs []domain.Document) error

	// Search returns passages relevant to the query, sorted by descending
	// score, each with score >= minRelevance, at most limit entries.
	// No matches is an empty slice, not an error.
	Search(ctx context.Context, query string, limit int, minRelevance float64) ([]domain.RetrievedPassage, error)

	// Status reports readiness and index size.
	Status() domain.IndexStatus
}
