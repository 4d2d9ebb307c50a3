package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/clearview/faq-assistant/pkg/llm"
	"github.com/clearview/faq-assistant/pkg/models"
)

const suggestionCount = 3

// genericSuggestions steer the user when there is nothing to ground
// specifics in.
var genericSuggestions = []string{
	"How much does LASIK cost, and what financing options are available?",
	"Am I a good candidate for laser vision correction?",
	"What is recovery like after refractive surgery?",
}

// Suggester derives clarifying follow-up questions from retrieved chunks.
// It never fails: any model problem falls back to the generic set.
type Suggester struct {
	llm llm.Client
}

// NewSuggester creates a Suggester backed by the given model client.
func NewSuggester(client llm.Client) *Suggester {
	return &Suggester{llm: client}
}

// Suggest returns exactly 3 non-empty questions, each ending in a question
// mark. With chunks available the questions are grounded in their content;
// otherwise, or on any model failure, the static generics come back.
func (s *Suggester) Suggest(ctx context.Context, question string, chunks []models.ScoredChunk) []string {
	if len(chunks) == 0 {
		return append([]string(nil), genericSuggestions...)
	}

	prompt := fmt.Sprintf(suggestionPromptTemplate, question, buildContext(topChunks(chunks, suggestionCount)))
	text, err := s.llm.Generate(ctx, prompt, llm.ModelConfig{
		Temperature: 0.5,
		MaxTokens:   150,
	})
	if err != nil {
		return append([]string(nil), genericSuggestions...)
	}

	suggestions := parseSuggestions(text)
	for i := 0; len(suggestions) < suggestionCount; i++ {
		suggestions = append(suggestions, genericSuggestions[i%len(genericSuggestions)])
	}
	return suggestions[:suggestionCount]
}

// parseSuggestions extracts well-formed questions from the model output,
// one per line, tolerating stray numbering or bullets.
func parseSuggestions(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*0123456789.) ")
		line = strings.Trim(line, `"`)
		if line == "" || !strings.HasSuffix(line, "?") {
			continue
		}
		out = append(out, line)
		if len(out) == suggestionCount {
			break
		}
	}
	return out
}

func topChunks(chunks []models.ScoredChunk, n int) []models.ScoredChunk {
	if len(chunks) > n {
		return chunks[:n]
	}
	return chunks
}
