package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Tony427/chatbot-api/internal/adapter/llm"
	"github.com/Tony427/chatbot-api/internal/config"
	"github.com/Tony427/chatbot-api/internal/docindex"
	"github.com/Tony427/chatbot-api/internal/docs"
	"github.com/Tony427/chatbot-api/internal/domain"
	"github.com/Tony427/chatbot-api/internal/store"
)

// failingIndex simulates an unavailable index backend.
type failingIndex struct{}

func (f *failingIndex) Load(ctx context.Context, docs []domain.Document) error { return nil }
func (f *failingIndex) Search(ctx context.Context, query string, limit int, minRelevance float64) ([]domain.RetrievedPassage, error) {
	return nil, errors.New("backend unavailable")
}
func (f *failingIndex) Status() domain.IndexStatus {
	return domain.IndexStatus{Backend: "failing"}
}

// failingLLM simulates an upstream generation failure.
type failingLLM struct{}

func (f *failingLLM) CreateChatCompletion(ctx context.Context, req *llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	return nil, errors.New("upstream error")
}

// capturingLLM records the request it was given and returns a fixed reply.
type capturingLLM struct {
	lastRequest *llm.ChatCompletionRequest
	reply       string
}

func (c *capturingLLM) CreateChatCompletion(ctx context.Context, req *llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	c.lastRequest = req
	return &llm.ChatCompletionResponse{
		Choices: []llm.Choice{{
			Message: &llm.ChatMessage{Role: domain.RoleAssistant, Content: c.reply},
		}},
		Usage: &llm.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		OpenAIModel:           "gpt-4o-mini",
		MaxTokens:             1000,
		Temperature:           0.7,
		RetrievalLimit:        3,
		RetrievalMinRelevance: 0.1,
		HistoryLimit:          10,
	}
}

func newTestService(t *testing.T, index docindex.Index, client llm.LLMClient) (*Service, *store.SQLiteStore) {
	t.Helper()
	db, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	reader := docs.NewReader(t.TempDir())
	if err := reader.Refresh(); err != nil {
		t.Fatalf("failed to refresh documents: %v", err)
	}
	return New(db, index, client, reader, testConfig()), db
}

func TestConverseValidatesMessage(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestService(t, docindex.NewMemoryIndex(), llm.NewMockClient())

	session, err := db.CreateSession(ctx, "chat")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	_, err = svc.Converse(ctx, session.SessionID, domain.ChatRequest{Message: "   "})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestConverseUnknownSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, docindex.NewMemoryIndex(), llm.NewMockClient())

	_, err := svc.Converse(ctx, "sess_missing", domain.ChatRequest{Message: "hello"})
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestConverseArchivedSession(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestService(t, docindex.NewMemoryIndex(), llm.NewMockClient())

	session, err := db.CreateSession(ctx, "archived")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if _, err := db.Archive(ctx, session.SessionID); err != nil {
		t.Fatalf("Archive failed: %v", err)
	}

	_, err = svc.Converse(ctx, session.SessionID, domain.ChatRequest{Message: "hello"})
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestConverseCommitsExchange(t *testing.T) {
	ctx := context.Background()
	index := docindex.NewMemoryIndex()
	if err := index.Load(ctx, nil); err != nil {
		t.Fatalf("index load failed: %v", err)
	}
	svc, db := newTestService(t, index, llm.NewMockClient())

	session, err := db.CreateSession(ctx, "chat")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	resp, err := svc.Converse(ctx, session.SessionID, domain.ChatRequest{Message: "hello there"})
	if err != nil {
		t.Fatalf("Converse failed: %v", err)
	}
	if resp.Reply == "" || resp.SessionID != session.SessionID {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.ContextUsed {
		t.Fatalf("no documents loaded, context should be unused")
	}

	count, err := db.CountMessages(ctx, session.SessionID)
	if err != nil {
		t.Fatalf("CountMessages failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected user and assistant messages persisted, got %d", count)
	}

	messages, err := db.ListMessages(ctx, session.SessionID, 10)
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if messages[0].Role != domain.RoleUser || messages[0].Content != "hello there" {
		t.Fatalf("unexpected first message: %+v", messages[0])
	}
	if messages[1].Role != domain.RoleAssistant || messages[1].Content != resp.Reply {
		t.Fatalf("unexpected second message: %+v", messages[1])
	}
}

func TestConverseGenerationFailureCommitsNothing(t *testing.T) {
	ctx := context.Background()
	index := docindex.NewMemoryIndex()
	if err := index.Load(ctx, nil); err != nil {
		t.Fatalf("index load failed: %v", err)
	}
	svc, db := newTestService(t, index, &failingLLM{})

	session, err := db.CreateSession(ctx, "chat")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	_, err = svc.Converse(ctx, session.SessionID, domain.ChatRequest{Message: "hello"})
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}

	count, err := db.CountMessages(ctx, session.SessionID)
	if err != nil {
		t.Fatalf("CountMessages failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("failed generation must not persist messages, got %d", count)
	}
}

func TestConverseRetrievalFailureDegrades(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestService(t, &failingIndex{}, llm.NewMockClient())

	session, err := db.CreateSession(ctx, "chat")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	resp, err := svc.Converse(ctx, session.SessionID, domain.ChatRequest{Message: "hello"})
	if err != nil {
		t.Fatalf("retrieval failure should not fail the turn: %v", err)
	}
	if resp.ContextUsed || len(resp.SourcesUsed) != 0 {
		t.Fatalf("degraded turn should carry no context: %+v", resp)
	}

	count, err := db.CountMessages(ctx, session.SessionID)
	if err != nil {
		t.Fatalf("CountMessages failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("degraded turn should still commit, got %d messages", count)
	}
}

func TestConverseUsesRetrievedContext(t *testing.T) {
	ctx := context.Background()
	index := docindex.NewMemoryIndex()
	corpus := []domain.Document{
		{FileName: "policy.txt", Content: "Refunds are available within 30 days of purchase. A receipt is required for all refund requests."},
		{FileName: "shipping.txt", Content: "Orders ship within two business days. Tracking numbers are emailed on dispatch."},
	}
	if err := index.Load(ctx, corpus); err != nil {
		t.Fatalf("index load failed: %v", err)
	}

	client := &capturingLLM{reply: "You can get a refund within 30 days."}
	svc, db := newTestService(t, index, client)

	session, err := db.CreateSession(ctx, "chat")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	resp, err := svc.Converse(ctx, session.SessionID, domain.ChatRequest{Message: "what is the refund policy?"})
	if err != nil {
		t.Fatalf("Converse failed: %v", err)
	}
	if !resp.ContextUsed {
		t.Fatalf("expected context to be used")
	}
	found := false
	for _, src := range resp.SourcesUsed {
		if src == "policy.txt" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected policy.txt among sources, got %v", resp.SourcesUsed)
	}

	// Retrieved passages land in the single system turn.
	req := client.lastRequest
	if req == nil || len(req.Messages) < 2 {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.Messages[0].Role != domain.RoleSystem || !strings.Contains(req.Messages[0].Content, "[Source: policy.txt]") {
		t.Fatalf("system turn missing retrieved context: %+v", req.Messages[0])
	}
	last := req.Messages[len(req.Messages)-1]
	if last.Role != domain.RoleUser || last.Content != "what is the refund policy?" {
		t.Fatalf("query must be the final turn: %+v", last)
	}
}

func TestConverseCarriesHistory(t *testing.T) {
	ctx := context.Background()
	index := docindex.NewMemoryIndex()
	if err := index.Load(ctx, nil); err != nil {
		t.Fatalf("index load failed: %v", err)
	}

	client := &capturingLLM{reply: "second answer"}
	svc, db := newTestService(t, index, client)

	session, err := db.CreateSession(ctx, "chat")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if _, err := svc.Converse(ctx, session.SessionID, domain.ChatRequest{Message: "first question"}); err != nil {
		t.Fatalf("first turn failed: %v", err)
	}
	if _, err := svc.Converse(ctx, session.SessionID, domain.ChatRequest{Message: "second question"}); err != nil {
		t.Fatalf("second turn failed: %v", err)
	}

	// system, first user, first assistant, second user
	req := client.lastRequest
	if len(req.Messages) != 4 {
		t.Fatalf("expected 4 turns, got %d", len(req.Messages))
	}
	if req.Messages[1].Content != "first question" || req.Messages[2].Content != "second answer" {
		t.Fatalf("history out of order: %+v", req.Messages)
	}
}

func TestConverseEmptyReplyFallback(t *testing.T) {
	ctx := context.Background()
	index := docindex.NewMemoryIndex()
	if err := index.Load(ctx, nil); err != nil {
		t.Fatalf("index load failed: %v", err)
	}

	client := &capturingLLM{reply: ""}
	svc, db := newTestService(t, index, client)

	session, err := db.CreateSession(ctx, "chat")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	resp, err := svc.Converse(ctx, session.SessionID, domain.ChatRequest{Message: "hello"})
	if err != nil {
		t.Fatalf("Converse failed: %v", err)
	}
	if resp.Reply != "I apologize, but I couldn't generate a response at this time." {
		t.Fatalf("unexpected fallback reply: %q", resp.Reply)
	}
}

func TestDistinctSources(t *testing.T) {
	passages := []domain.RetrievedPassage{
		{Source: "a.txt"},
		{Source: "b.txt"},
		{Source: "a.txt"},
		{Source: "c.txt"},
	}
	sources := distinctSources(passages)
	want := []string{"a.txt", "b.txt", "c.txt"}
	if len(sources) != len(want) {
		t.Fatalf("expected %v, got %v", want, sources)
	}
	for i := range want {
		if sources[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, sources)
		}
	}
}
