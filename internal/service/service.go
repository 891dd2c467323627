// Package service implements the conversation orchestrator and the
// session-management operations exposed to the transport layer.
package service

import (
	"github.com/Tony427/chatbot-api/internal/adapter/llm"
	"github.com/Tony427/chatbot-api/internal/config"
	"github.com/Tony427/chatbot-api/internal/docindex"
	"github.com/Tony427/chatbot-api/internal/docs"
	"github.com/Tony427/chatbot-api/internal/prompt"
	"github.com/Tony427/chatbot-api/internal/store"
)

type Service struct {
	store     store.Store
	index     docindex.Index
	llmClient llm.LLMClient
	assembler *prompt.Assembler
	reader    *docs.Reader
	config    *config.Config
}

func New(store store.Store, index docindex.Index, llmClient llm.LLMClient, reader *docs.Reader, cfg *config.Config) *Service {
	return &Service{
		store:     store,
		index:     index,
		llmClient: llmClient,
		assembler: prompt.NewAssembler(cfg.HistoryLimit),
		reader:    reader,
		config:    cfg,
	}
}
