// Package docs reads the plain-text document corpus from disk.
package docs

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Tony427/chatbot-api/internal/domain"
)

const cacheExpiry = 5 * time.Minute

// Reader loads *.txt documents from a directory and caches them.
// The cache is refreshed lazily after the expiry window, or eagerly via
// Refresh.
type Reader struct {
	dir string

	mu          sync.RWMutex
	documents   []domain.Document
	lastRefresh time.Time
}

// NewReader creates a reader over the given documents directory.
func NewReader(dir string) *Reader {
	return &Reader{dir: dir}
}

// All returns all cached documents, refreshing first if the cache is stale.
func (r *Reader) All() ([]domain.Document, error) {
	if err := r.refreshIfNeeded(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Document, len(r.documents))
	copy(out, r.documents)
	return out, nil
}

// ByFileName returns a single document by file name (case-insensitive),
// or nil if no such document exists.
func (r *Reader) ByFileName(fileName string) (*domain.Document, error) {
	docs, err := r.All()
	if err != nil {
		return nil, err
	}
	for i := range docs {
		if strings.EqualFold(docs[i].FileName, fileName) {
			return &docs[i], nil
		}
	}
	return nil, nil
}

// Count returns the number of cached documents.
func (r *Reader) Count() (int, error) {
	docs, err := r.All()
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

// Refresh reloads the document cache from disk. A missing directory is
// created and treated as an empty corpus. Unreadable files are logged and
// skipped.
func (r *Reader) Refresh() error {
	if _, err := os.Stat(r.dir); os.IsNotExist(err) {
		log.Printf("WARN: documents directory does not exist, creating: %s", r.dir)
		if err := os.MkdirAll(r.dir, 0o755); err != nil {
			return fmt.Errorf("failed to create documents directory: %w", err)
		}
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("failed to read documents directory: %w", err)
	}

	var documents []domain.Document
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			continue
		}
		path := filepath.Join(r.dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			log.Printf("ERROR: failed to stat file %s: %v", path, err)
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			log.Printf("ERROR: failed to read file %s: %v", path, err)
			continue
		}
		documents = append(documents, domain.Document{
			FileName:     entry.Name(),
			Path:         path,
			Content:      string(content),
			LastModified: info.ModTime(),
			SizeBytes:    info.Size(),
		})
	}

	r.mu.Lock()
	r.documents = documents
	r.lastRefresh = time.Now()
	r.mu.Unlock()

	log.Printf("INFO: loaded %d documents from %s", len(documents), r.dir)
	return nil
}

func (r *Reader) refreshIfNeeded() error {
	r.mu.RLock()
	stale := time.Since(r.lastRefresh) > cacheExpiry
	r.mu.RUnlock()
	if stale {
		return r.Refresh()
	}
	return nil
}
