package docindex

import (
	"log"

	"github.com/Tony427/chatbot-api/internal/config"
)

// New creates a document index from the backend configuration. Unknown or
// incompletely configured backends fall back to the in-process baseline with
// a configuration warning, never an error.
func New(cfg *config.IndexConfig) Index {
	switch cfg.Type {
	case config.IndexBackendMemory, "":
		return NewMemoryIndex()
	case config.IndexBackendQdrant:
		if cfg.Qdrant == nil || cfg.Qdrant.URL == "" || cfg.Qdrant.Collection == "" {
			log.Printf("WARN: qdrant index backend selected but not configured, falling back to memory backend")
			return NewMemoryIndex()
		}
		return NewQdrantIndex(cfg.Qdrant)
	default:
		log.Printf("WARN: unknown index backend %q, falling back to memory backend", cfg.Type)
		return NewMemoryIndex()
	}
}
