package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Index backend types.
const (
	IndexBackendMemory = "memory"
	IndexBackendQdrant = "qdrant"
)

// QdrantIndexConfig configures the Qdrant-backed document index.
type QdrantIndexConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// Timeout returns the configured request timeout with a sane default.
func (c *QdrantIndexConfig) Timeout() time.Duration {
	if c.TimeoutSecs <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSecs) * time.Second
}

// IndexConfig selects and configures the document index backend.
type IndexConfig struct {
	Type   string             `yaml:"type"`
	Qdrant *QdrantIndexConfig `yaml:"qdrant,omitempty"`
}

// LoadIndexConfig reads the index backend configuration from a YAML file.
// An empty path yields the default in-process backend.
func LoadIndexConfig(path string) (*IndexConfig, error) {
	if path == "" {
		return &IndexConfig{Type: IndexBackendMemory}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read index config: %w", err)
	}
	var cfg IndexConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse index config: %w", err)
	}
	if cfg.Type == "" {
		cfg.Type = IndexBackendMemory
	}
	return &cfg, nil
}
