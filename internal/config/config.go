// Package config provides configuration for the chatbot backend.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the service configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// Documents corpus
	DocumentsPath   string
	IndexConfigPath string

	// Generation gateway (OpenAI-compatible)
	OpenAIBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string
	LLMTimeout    time.Duration

	// Generation defaults (client-overridable per request)
	MaxTokens   int
	Temperature float64

	// Retrieval settings
	RetrievalLimit        int
	RetrievalMinRelevance float64

	// Prompt assembly
	HistoryLimit int

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:              getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:           getEnv("DATABASE_URL", "file:chatbot.db?cache=shared&mode=rwc"),
		DocumentsPath:         getEnv("DOCUMENTS_PATH", "./documents"),
		IndexConfigPath:       getEnv("INDEX_CONFIG_PATH", ""),
		OpenAIBaseURL:         getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:           getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		LLMTimeout:            time.Duration(getEnvInt("LLM_TIMEOUT_MS", 60000)) * time.Millisecond,
		MaxTokens:             getEnvInt("MAX_TOKENS", 1000),
		Temperature:           getEnvFloat("TEMPERATURE", 0.7),
		RetrievalLimit:        getEnvInt("RETRIEVAL_LIMIT", 3),
		RetrievalMinRelevance: getEnvFloat("RETRIEVAL_MIN_RELEVANCE", 0.7),
		HistoryLimit:          getEnvInt("HISTORY_LIMIT", 10),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if floatVal, err := strconv.ParseFloat(val, 64); err == nil {
			return floatVal
		}
	}
	return defaultVal
}
