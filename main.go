package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Tony427/chatbot-api/internal/adapter/llm"
	"github.com/Tony427/chatbot-api/internal/config"
	"github.com/Tony427/chatbot-api/internal/docindex"
	"github.com/Tony427/chatbot-api/internal/docs"
	"github.com/Tony427/chatbot-api/internal/service"
	"github.com/Tony427/chatbot-api/internal/store"
	transport "github.com/Tony427/chatbot-api/internal/transport/http"
)

func main() {
	// Load .env if present, then configuration
	if err := godotenv.Load(); err == nil {
		log.Printf("INFO: loaded .env file")
	}
	cfg := config.Load()

	log.Printf("Starting chatbot backend...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("Documents: %s", cfg.DocumentsPath)
	log.Printf("Model: %s", cfg.OpenAIModel)

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Load the document corpus
	reader := docs.NewReader(cfg.DocumentsPath)
	if err := reader.Refresh(); err != nil {
		log.Fatalf("Failed to load documents: %v", err)
	}

	// Build the document index from backend configuration
	indexCfg, err := config.LoadIndexConfig(cfg.IndexConfigPath)
	if err != nil {
		log.Fatalf("Failed to load index config: %v", err)
	}
	index := docindex.New(indexCfg)

	ctx := context.Background()
	documents, err := reader.All()
	if err != nil {
		log.Fatalf("Failed to read documents: %v", err)
	}
	if err := index.Load(ctx, documents); err != nil {
		log.Fatalf("Failed to load document index: %v", err)
	}
	status := index.Status()
	log.Printf("Document index ready: backend=%s documents=%d passages=%d",
		status.Backend, status.DocumentCount, status.PassageCount)

	// Initialize LLM client
	llmClient := llm.NewLLMClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.LLMTimeout)

	// Initialize service
	svc := service.New(db, index, llmClient, reader, cfg)

	// Create HTTP server
	server := transport.NewServer(svc)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Stopped")
}
