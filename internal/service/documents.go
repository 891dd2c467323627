package service

import (
	"context"
	"fmt"

	"github.com/Tony427/chatbot-api/internal/domain"
)

// ListDocuments returns the loaded document corpus.
func (s *Service) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	docs, err := s.reader.All()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

// GetDocument returns a single document by file name, or nil if unknown.
func (s *Service) GetDocument(ctx context.Context, fileName string) (*domain.Document, error) {
	doc, err := s.reader.ByFileName(fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

// CountDocuments returns the number of loaded documents.
func (s *Service) CountDocuments(ctx context.Context) (int, error) {
	count, err := s.reader.Count()
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// RefreshDocuments reloads the corpus from disk and rebuilds the index.
func (s *Service) RefreshDocuments(ctx context.Context) (int, error) {
	if err := s.reader.Refresh(); err != nil {
		return 0, fmt.Errorf("failed to refresh documents: %w", err)
	}
	count, err := s.ReloadIndex(ctx)
	if err != nil {
		return count, err
	}
	return count, nil
}

// ReloadIndex rebuilds the document index from the current corpus and
// returns the number of indexed documents.
func (s *Service) ReloadIndex(ctx context.Context) (int, error) {
	docs, err := s.reader.All()
	if err != nil {
		return 0, fmt.Errorf("failed to read documents: %w", err)
	}
	if err := s.index.Load(ctx, docs); err != nil {
		return 0, fmt.Errorf("failed to load index: %w", err)
	}
	return len(docs), nil
}

// IndexStatus reports the document index readiness.
func (s *Service) IndexStatus(ctx context.Context) domain.IndexStatus {
	return s.index.Status()
}

// SearchIndex runs an ad-hoc search against the document index.
func (s *Service) SearchIndex(ctx context.Context, query string, limit int) ([]domain.RetrievedPassage, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrValidation)
	}
	if limit <= 0 {
		limit = s.config.RetrievalLimit
	}
	passages, err := s.index.Search(ctx, query, limit, s.config.RetrievalMinRelevance)
	if err != nil {
		return nil, fmt.Errorf("index search failed: %w", err)
	}
	return passages, nil
}
