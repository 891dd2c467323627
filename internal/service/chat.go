package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Tony427/chatbot-api/internal/adapter/llm"
	"github.com/Tony427/chatbot-api/internal/domain"
)

// Converse runs one conversational turn: session lookup, retrieval, prompt
// assembly, generation, and commit. History is only written after generation
// succeeds, so a failed or cancelled generation never leaves a half-written
// exchange.
func (s *Service) Converse(ctx context.Context, sessionID string, req domain.ChatRequest) (*domain.ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("%w: message is required", domain.ErrValidation)
	}

	// SessionLookup
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound
	}

	// Retrieval. An index failure degrades to an uncontextualized turn
	// rather than failing the request; a cancelled context still aborts.
	passages, err := s.index.Search(ctx, req.Message, s.config.RetrievalLimit, s.config.RetrievalMinRelevance)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, ctxErr)
		}
		log.Printf("WARN: document index search failed, proceeding without context: %v", err)
		passages = nil
	}

	// PromptAssembly
	history, err := s.store.ListMessages(ctx, sessionID, s.config.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	turns := s.assembler.Build(req.Message, passages, history)

	// Generation
	maxTokens := s.config.MaxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}
	temperature := s.config.Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	completion, err := s.llmClient.CreateChatCompletion(ctx, &llm.ChatCompletionRequest{
		Model:       s.config.OpenAIModel,
		Messages:    turns,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	reply := completion.ReplyText()
	if reply == "" {
		reply = "I apologize, but I couldn't generate a response at this time."
	}

	// Commit. Once generation has succeeded the exchange is persisted even
	// if the caller has gone away, so a late cancel cannot split the pair.
	commitCtx := context.WithoutCancel(ctx)
	var promptTokens, completionTokens *int
	if completion.Usage != nil {
		promptTokens = &completion.Usage.PromptTokens
		completionTokens = &completion.Usage.CompletionTokens
	}
	if _, err := s.store.AppendMessage(commitCtx, sessionID, domain.RoleUser, req.Message, promptTokens); err != nil {
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}
	if _, err := s.store.AppendMessage(commitCtx, sessionID, domain.RoleAssistant, reply, completionTokens); err != nil {
		return nil, fmt.Errorf("failed to save assistant message: %w", err)
	}

	return &domain.ChatResponse{
		SessionID:   sessionID,
		Reply:       reply,
		ContextUsed: len(passages) > 0,
		SourcesUsed: distinctSources(passages),
		Timestamp:   time.Now().UTC(),
	}, nil
}

// distinctSources returns the source identifiers in order of first
// appearance, for client-side citation display.
func distinctSources(passages []domain.RetrievedPassage) []string {
	sources := make([]string, 0, len(passages))
	seen := make(map[string]struct{}, len(passages))
	for _, p := range passages {
		if _, ok := seen[p.Source]; ok {
			continue
		}
		seen[p.Source] = struct{}{}
		sources = append(sources, p.Source)
	}
	return sources
}
