package docindex

import (
	"regexp"
	"strings"

	"github.com/Tony427/chatbot-api/internal/domain"
)

const sentencesPerPassage = 5

var sentencePattern = regexp.MustCompile(`[^.!?\n]+[.!?]?`)

// passage is an indexed excerpt of a document.
type passage struct {
	Source string
	Text   string
}

// chunkDocuments splits documents into sentence-grouped passages. Source is
// the originating file name, which is what gets reported back as a citation.
func chunkDocuments(docs []domain.Document) []passage {
	var passages []passage
	for _, doc := range docs {
		sentences := sentencePattern.FindAllString(doc.Content, -1)
		var kept []string
		for _, s := range sentences {
			if s = strings.TrimSpace(s); s != "" {
				kept = append(kept, s)
			}
		}
		for i := 0; i < len(kept); i += sentencesPerPassage {
			end := i + sentencesPerPassage
			if end > len(kept) {
				end = len(kept)
			}
			passages = append(passages, passage{
				Source: doc.FileName,
				Text:   strings.Join(kept[i:end], " "),
			})
		}
	}
	return passages
}
