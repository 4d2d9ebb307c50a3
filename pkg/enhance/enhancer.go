// Package enhance rewrites vague, context-dependent follow-ups into
// self-contained search queries and detects comparison-style questions.
package enhance

import (
	"context"
	"fmt"
	"strings"

	"github.com/clearview/faq-assistant/pkg/intent"
	"github.com/clearview/faq-assistant/pkg/llm"
	"github.com/clearview/faq-assistant/pkg/models"
)

// selfContainedWords is the length above which a message is assumed to
// already carry its own context.
const selfContainedWords = 8

// historyTurns is how many trailing turns the rewrite prompt sees.
const historyTurns = 4

// Comparison flags a query that pits exactly two procedures against each
// other; the retriever searches each side independently.
type Comparison struct {
	A string
	B string
}

// Enhancer rewrites vague queries using conversation history. Enhancement
// is strictly best-effort: any model failure returns the original message.
type Enhancer struct {
	llm llm.Client
}

// NewEnhancer creates an Enhancer backed by the given model client.
func NewEnhancer(client llm.Client) *Enhancer {
	return &Enhancer{llm: client}
}

// Enhance returns a search-ready query for question. The second return
// reports whether a rewrite actually happened. Never errors and never
// returns an empty string.
func (e *Enhancer) Enhance(ctx context.Context, question string, history []models.ConversationMessage) (string, bool) {
	question = strings.TrimSpace(question)

	if len(strings.Fields(question)) > selfContainedWords || len(history) == 0 {
		return question, false
	}
	if !isVague(question) {
		return question, false
	}

	prompt := buildRewritePrompt(question, history)
	rewritten, err := e.llm.Generate(ctx, prompt, llm.ModelConfig{
		Temperature: 0.2,
		MaxTokens:   100,
	})
	if err != nil {
		return question, false
	}

	rewritten = cleanRewrite(rewritten)
	if rewritten == "" {
		return question, false
	}
	return rewritten, true
}

// isVague reports whether the message matches one of the patterns that
// signal a context-dependent follow-up.
func isVague(question string) bool {
	msg := strings.ToLower(question)

	if strings.HasPrefix(msg, "what about") || strings.HasPrefix(msg, "how about") {
		return true
	}
	if strings.Contains(msg, "compared to") || strings.Contains(msg, "versus") || hasWord(msg, "vs") {
		return true
	}
	// Affirmation immediately followed by a question.
	for _, lead := range []string{"yes", "yeah", "ok", "okay", "sure"} {
		if strings.HasPrefix(msg, lead+" ") || strings.HasPrefix(msg, lead+",") {
			if strings.Contains(msg, "?") {
				return true
			}
		}
	}
	// A bare interrogative with no object: "how?", "is it?", "why?".
	if strings.HasSuffix(msg, "?") && len(strings.Fields(msg)) <= 2 {
		return true
	}
	// Pronouns pointing back at the prior topic.
	for _, pronoun := range []string{"it", "this", "that", "they", "them"} {
		if hasWord(msg, pronoun) {
			return true
		}
	}
	return false
}

func buildRewritePrompt(question string, history []models.ConversationMessage) string {
	var sb strings.Builder
	sb.WriteString("Rewrite the user's latest message as one fully self-contained search query.\n")
	sb.WriteString("Preserve the aspect being asked about (cost, safety, recovery, candidacy, ...) ")
	sb.WriteString("and the procedure or topic from the most recent exchange.\n")
	sb.WriteString("Respond with the rewritten query only, no explanation.\n\n")
	sb.WriteString("Conversation:\n")
	for _, msg := range models.LastN(history, historyTurns) {
		sb.WriteString(fmt.Sprintf("%s: %s\n", msg.Role, msg.Content))
	}
	sb.WriteString(fmt.Sprintf("user: %s\n\nRewritten query:", question))
	return sb.String()
}

// cleanRewrite strips quoting and keeps the first non-empty line of the
// model output.
func cleanRewrite(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.Trim(strings.TrimSpace(line), `"'`)
		if line != "" {
			return line
		}
	}
	return ""
}

// comparisonKeywords mark a query as pitting options against each other.
var comparisonKeywords = []string{
	"better", "versus", "vs", "compare", "compared", "comparison",
	"difference", "worse", "or",
}

// DetectComparison reports whether query compares exactly two distinct
// procedures. Uses the shared procedure vocabulary so the enhancer and the
// retriever always recognize the same names.
func DetectComparison(query string) (Comparison, bool) {
	msg := strings.ToLower(query)

	found := false
	for _, k := range comparisonKeywords {
		if hasWord(msg, k) {
			found = true
			break
		}
	}
	if !found {
		return Comparison{}, false
	}

	procs := intent.FindProcedures(query)
	if len(procs) != 2 {
		return Comparison{}, false
	}
	return Comparison{A: procs[0], B: procs[1]}, true
}

// hasWord reports whether w appears in msg as a standalone word.
func hasWord(msg, w string) bool {
	for _, field := range strings.Fields(msg) {
		if strings.Trim(field, ".,!?;:\"'") == w {
			return true
		}
	}
	return false
}
