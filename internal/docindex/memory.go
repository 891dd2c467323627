package docindex

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Tony427/chatbot-api/internal/domain"
)

// MemoryIndex is the baseline in-process index: TF-IDF vectors with
// brute-force cosine search. It needs no external services and is the
// fallback for every other backend.
type MemoryIndex struct {
	mu         sync.RWMutex
	vectorizer *vectorizer
	passages   []passage
	vectors    [][]float64
	docCount   int
	ready      bool
}

// NewMemoryIndex creates an unready in-process index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{}
}

// Load rebuilds the index from the given documents. An empty corpus leaves
// the index ready but with nothing to retrieve.
func (m *MemoryIndex) Load(ctx context.Context, docs []domain.Document) error {
	passages := chunkDocuments(docs)

	v := newVectorizer()
	var vectors [][]float64
	if len(passages) > 0 {
		corpus := make([]string, len(passages))
		for i, p := range passages {
			corpus[i] = p.Text
		}
		if err := v.fit(corpus); err != nil {
			return err
		}
		vectors = make([][]float64, len(passages))
		for i, p := range passages {
			vec, err := v.embed(p.Text)
			if err != nil {
				return err
			}
			vectors[i] = vec
		}
	}

	m.mu.Lock()
	m.vectorizer = v
	m.passages = passages
	m.vectors = vectors
	m.docCount = len(docs)
	m.ready = true
	m.mu.Unlock()
	return nil
}

// Search returns the passages most similar to the query.
func (m *MemoryIndex) Search(ctx context.Context, query string, limit int, minRelevance float64) ([]domain.RetrievedPassage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.ready {
		return nil, errors.New("document index not ready")
	}
	if limit <= 0 {
		limit = 3
	}
	if len(m.passages) == 0 {
		return []domain.RetrievedPassage{}, nil
	}

	queryVec, err := m.vectorizer.embed(query)
	if err != nil {
		return nil, err
	}

	results := make([]domain.RetrievedPassage, 0, limit)
	for i := range m.vectors {
		score := dot(m.vectors[i], queryVec)
		if score < minRelevance {
			continue
		}
		results = append(results, domain.RetrievedPassage{
			Source: m.passages[i].Source,
			Text:   m.passages[i].Text,
			Score:  score,
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Status reports readiness and index size.
func (m *MemoryIndex) Status() domain.IndexStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return domain.IndexStatus{
		Backend:       "memory",
		Ready:         m.ready,
		DocumentCount: m.docCount,
		PassageCount:  len(m.passages),
	}
}
