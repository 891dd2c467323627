package docindex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/Tony427/chatbot-api/internal/config"
	"github.com/Tony427/chatbot-api/internal/domain"
)

// QdrantIndex stores passage vectors in a Qdrant collection over its REST
// API. Vectors come from the same TF-IDF vectorizer as the in-process
// backend, so the collection is rebuilt on every Load (the vocabulary, and
// with it the vector dimension, depends on the corpus).
type QdrantIndex struct {
	url        string
	apiKey     string
	collection string
	httpClient *http.Client

	mu         sync.RWMutex
	vectorizer *vectorizer
	docCount   int
	passages   int
	ready      bool
}

// NewQdrantIndex creates an unready Qdrant-backed index.
func NewQdrantIndex(cfg *config.QdrantIndexConfig) *QdrantIndex {
	return &QdrantIndex{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
	}
}

// Load rebuilds the collection from the given documents.
func (q *QdrantIndex) Load(ctx context.Context, docs []domain.Document) error {
	passages := chunkDocuments(docs)
	if len(passages) == 0 {
		q.mu.Lock()
		q.vectorizer = newVectorizer()
		q.docCount = len(docs)
		q.passages = 0
		q.ready = true
		q.mu.Unlock()
		return nil
	}

	v := newVectorizer()
	corpus := make([]string, len(passages))
	for i, p := range passages {
		corpus[i] = p.Text
	}
	if err := v.fit(corpus); err != nil {
		return err
	}

	if err := q.recreateCollection(ctx, len(v.idf)); err != nil {
		return fmt.Errorf("qdrant collection setup: %w", err)
	}

	points := make([]map[string]any, len(passages))
	for i, p := range passages {
		vec, err := v.embed(p.Text)
		if err != nil {
			return err
		}
		points[i] = map[string]any{
			"id":     i,
			"vector": vec,
			"payload": map[string]any{
				"source": p.Source,
				"text":   p.Text,
			},
		}
	}
	if err := q.do(ctx, http.MethodPut,
		fmt.Sprintf("/collections/%s/points?wait=true", q.collection),
		map[string]any{"points": points}, nil); err != nil {
		return fmt.Errorf("qdrant upsert: %w", err)
	}

	q.mu.Lock()
	q.vectorizer = v
	q.docCount = len(docs)
	q.passages = len(passages)
	q.ready = true
	q.mu.Unlock()
	return nil
}

// Search queries the collection with a score threshold.
func (q *QdrantIndex) Search(ctx context.Context, query string, limit int, minRelevance float64) ([]domain.RetrievedPassage, error) {
	q.mu.RLock()
	v := q.vectorizer
	ready := q.ready
	empty := q.passages == 0
	q.mu.RUnlock()
	if !ready {
		return nil, errors.New("document index not ready")
	}
	if limit <= 0 {
		limit = 3
	}
	if empty {
		return []domain.RetrievedPassage{}, nil
	}

	vec, err := v.embed(query)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Result []struct {
			Score   float64 `json:"score"`
			Payload struct {
				Source string `json:"source"`
				Text   string `json:"text"`
			} `json:"payload"`
		} `json:"result"`
	}
	body := map[string]any{
		"vector":          vec,
		"limit":           limit,
		"score_threshold": minRelevance,
		"with_payload":    true,
	}
	if err := q.do(ctx, http.MethodPost,
		fmt.Sprintf("/collections/%s/points/search", q.collection), body, &resp); err != nil {
		return nil, fmt.Errorf("qdrant search: %w", err)
	}

	results := make([]domain.RetrievedPassage, 0, len(resp.Result))
	for _, r := range resp.Result {
		results = append(results, domain.RetrievedPassage{
			Source: r.Payload.Source,
			Text:   r.Payload.Text,
			Score:  r.Score,
		})
	}
	return results, nil
}

// Status reports readiness and index size.
func (q *QdrantIndex) Status() domain.IndexStatus {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return domain.IndexStatus{
		Backend:       "qdrant",
		Ready:         q.ready,
		DocumentCount: q.docCount,
		PassageCount:  q.passages,
	}
}

func (q *QdrantIndex) recreateCollection(ctx context.Context, dimension int) error {
	// Drop and recreate: TF-IDF dimensions change with the corpus, and Qdrant
	// rejects vectors whose size differs from the collection schema. The
	// delete may 404 when the collection does not exist yet.
	if err := q.do(ctx, http.MethodDelete, fmt.Sprintf("/collections/%s", q.collection), nil, nil); err != nil && !isNotFound(err) {
		return err
	}
	return q.do(ctx, http.MethodPut, fmt.Sprintf("/collections/%s", q.collection), map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}, nil)
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("qdrant returned status %d: %s", e.code, e.body)
}

func isNotFound(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.code == http.StatusNotFound
}

func (q *QdrantIndex) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, q.url+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if q.apiKey != "" {
		req.Header.Set("api-key", q.apiKey)
	}
	resp, err := q.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return &statusError{code: resp.StatusCode, body: string(data)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
