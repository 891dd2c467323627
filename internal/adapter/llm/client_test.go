package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Tony427/chatbot-api/internal/domain"
)

func TestCreateChatCompletion(t *testing.T) {
	var gotAuth string
	var gotReq ChatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotReq)

		json.NewEncoder(w).Encode(ChatCompletionResponse{
			ID:    "chatcmpl-123",
			Model: gotReq.Model,
			Choices: []Choice{{
				Message:      &ChatMessage{Role: domain.RoleAssistant, Content: "the answer"},
				FinishReason: "stop",
			}},
			Usage: &Usage{PromptTokens: 12, CompletionTokens: 3, TotalTokens: 15},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 5*time.Second)
	resp, err := client.CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Model: "gpt-4o-mini",
		Messages: []ChatMessage{
			{Role: domain.RoleSystem, Content: "You are helpful."},
			{Role: domain.RoleUser, Content: "question"},
		},
	})
	if err != nil {
		t.Fatalf("CreateChatCompletion failed: %v", err)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if gotReq.Model != "gpt-4o-mini" || len(gotReq.Messages) != 2 {
		t.Fatalf("unexpected upstream request: %+v", gotReq)
	}
	if resp.ReplyText() != "the answer" {
		t.Fatalf("unexpected reply: %q", resp.ReplyText())
	}
	if resp.Usage == nil || resp.Usage.TotalTokens != 15 {
		t.Fatalf("unexpected usage: %+v", resp.Usage)
	}
}

func TestCreateChatCompletionUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 5*time.Second)
	_, err := client.CreateChatCompletion(context.Background(), &ChatCompletionRequest{Model: "m"})
	if err == nil {
		t.Fatalf("expected an error for non-200 status")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

func TestReplyTextEmpty(t *testing.T) {
	resp := &ChatCompletionResponse{}
	if resp.ReplyText() != "" {
		t.Fatalf("expected empty reply for no choices")
	}
	resp = &ChatCompletionResponse{Choices: []Choice{{Message: nil}}}
	if resp.ReplyText() != "" {
		t.Fatalf("expected empty reply for nil message")
	}
}

func TestMockClientEchoesUserMessage(t *testing.T) {
	client := NewMockClient()

	resp, err := client.CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Model: "mock",
		Messages: []ChatMessage{
			{Role: domain.RoleSystem, Content: "instructions"},
			{Role: domain.RoleUser, Content: "what time is it?"},
		},
	})
	if err != nil {
		t.Fatalf("CreateChatCompletion failed: %v", err)
	}
	reply := resp.ReplyText()
	if !strings.Contains(reply, "what time is it?") {
		t.Fatalf("mock should echo the user message, got %q", reply)
	}
	if resp.Usage == nil || resp.Usage.PromptTokens == 0 {
		t.Fatalf("expected estimated usage, got %+v", resp.Usage)
	}
}

func TestMockClientCancelledContext(t *testing.T) {
	client := NewMockClient()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.CreateChatCompletion(ctx, &ChatCompletionRequest{Model: "mock"})
	if err == nil {
		t.Fatalf("expected an error for a cancelled context")
	}
}
