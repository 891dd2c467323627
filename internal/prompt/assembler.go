// Package prompt assembles bounded chat prompts from retrieved context and
// conversation history. It performs no I/O and is deterministic for
// identical inputs.
package prompt

import (
	"strings"

	"github.com/Tony427/chatbot-api/internal/adapter/llm"
	"github.com/Tony427/chatbot-api/internal/domain"
)

const (
	systemInstruction = "You are a helpful AI assistant."
	contextHeader     = "Use the following context to inform your responses when relevant:"

	defaultHistoryLimit = 10
)

// Assembler builds the ordered turn sequence sent to the generation gateway.
type Assembler struct {
	historyLimit int
}

// NewAssembler creates an assembler that includes at most historyLimit
// history turns.
func NewAssembler(historyLimit int) *Assembler {
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	return &Assembler{historyLimit: historyLimit}
}

// Build produces the prompt: exactly one system turn (with retrieved
// passages inlined when present), then recent history in chronological
// order, then the new user message. History entries with unknown roles are
// dropped.
func (a *Assembler) Build(query string, passages []domain.RetrievedPassage, history []domain.Message) []llm.ChatMessage {
	turns := make([]llm.ChatMessage, 0, len(history)+2)
	turns = append(turns, llm.ChatMessage{
		Role:    domain.RoleSystem,
		Content: systemContent(passages),
	})

	recent := history
	if len(recent) > a.historyLimit {
		recent = recent[len(recent)-a.historyLimit:]
	}
	for _, msg := range recent {
		role, ok := domain.ParseRole(string(msg.Role))
		if !ok {
			continue
		}
		turns = append(turns, llm.ChatMessage{Role: role, Content: msg.Content})
	}

	turns = append(turns, llm.ChatMessage{Role: domain.RoleUser, Content: query})
	return turns
}

// systemContent renders the single system turn. Retrieved context is inlined
// here rather than issued as separate turns, so token-budget accounting has
// one context turn to trim.
func systemContent(passages []domain.RetrievedPassage) string {
	if len(passages) == 0 {
		return systemInstruction
	}
	var b strings.Builder
	b.WriteString(systemInstruction)
	b.WriteString("\n\n")
	b.WriteString(contextHeader)
	for _, p := range passages {
		b.WriteString("\n\n[Source: ")
		b.WriteString(p.Source)
		b.WriteString("]\n")
		b.WriteString(p.Text)
	}
	return b.String()
}
