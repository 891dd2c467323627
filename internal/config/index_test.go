package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadIndexConfigEmptyPath(t *testing.T) {
	cfg, err := LoadIndexConfig("")
	if err != nil {
		t.Fatalf("LoadIndexConfig failed: %v", err)
	}
	if cfg.Type != IndexBackendMemory {
		t.Fatalf("expected memory backend, got %q", cfg.Type)
	}
}

func TestLoadIndexConfigQdrant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.yaml")
	content := `type: qdrant
qdrant:
  url: http://localhost:6333
  api_key: secret
  collection: documents
  timeout_secs: 30
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadIndexConfig(path)
	if err != nil {
		t.Fatalf("LoadIndexConfig failed: %v", err)
	}
	if cfg.Type != IndexBackendQdrant {
		t.Fatalf("expected qdrant backend, got %q", cfg.Type)
	}
	if cfg.Qdrant == nil || cfg.Qdrant.URL != "http://localhost:6333" || cfg.Qdrant.Collection != "documents" {
		t.Fatalf("unexpected qdrant config: %+v", cfg.Qdrant)
	}
	if cfg.Qdrant.Timeout() != 30*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.Qdrant.Timeout())
	}
}

func TestLoadIndexConfigDefaultsType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadIndexConfig(path)
	if err != nil {
		t.Fatalf("LoadIndexConfig failed: %v", err)
	}
	if cfg.Type != IndexBackendMemory {
		t.Fatalf("expected memory default, got %q", cfg.Type)
	}
}

func TestLoadIndexConfigMissingFile(t *testing.T) {
	_, err := LoadIndexConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestQdrantTimeoutDefault(t *testing.T) {
	cfg := &QdrantIndexConfig{}
	if cfg.Timeout() != 15*time.Second {
		t.Fatalf("unexpected default timeout: %v", cfg.Timeout())
	}
}
