package answer

import (
	"fmt"
	"strings"

	"github.com/clearview/faq-assistant/pkg/models"
)

// fallbackTemplate is the exact sentence the model is instructed to emit
// when the retrieved context does not answer the question. Fallback
// detection is an exact-phrase match against this sentence, so it must
// never be reworded casually. A structured sentinel from the model would
// be more robust to phrasing drift; revisit if detection ever misfires.
const fallbackTemplate = "I'm not sure about that - please call our office at %s for specific guidance."

// FallbackSentence returns the practice-specific fallback sentence.
func FallbackSentence(phone string) string {
	return fmt.Sprintf(fallbackTemplate, phone)
}

// IsFallback reports whether the model declined to answer by emitting the
// fallback sentence.
func IsFallback(text, fallback string) bool {
	return strings.Contains(text, fallback)
}

const answerSystemPrompt = `You are the patient-facing FAQ assistant for a refractive eye surgery practice.

Rules:
- Answer ONLY from the retrieved FAQ content below. Do not use outside knowledge.
- Never invent care instructions, medication names, timelines, costs, or diagnoses. If a detail is not in the content, do not state it.
- Be warm and conversational, like a friendly front-desk coordinator. Keep answers under 120 words.
- Do not give medical advice or tell the user whether they personally qualify for a procedure.
- If the retrieved content does not actually answer the question, reply with exactly this sentence and nothing else:
%s

Retrieved FAQ content:
%s`

// buildContext concatenates chunk texts, each labeled with its source
// document for citation.
func buildContext(chunks []models.ScoredChunk) string {
	var sb strings.Builder
	for i, sc := range chunks {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(fmt.Sprintf("[Source: %s]\n%s", sc.Chunk.SourceFile, sc.Chunk.Text))
	}
	return sb.String()
}

// buildAnswerMessages assembles the constrained chat request: the system
// prompt with rules and retrieved context, a trailing window of prior
// turns for pronoun resolution, then the user's question.
func buildAnswerMessages(question, contextBlock, fallback string, history []models.ConversationMessage, window int) []models.ConversationMessage {
	messages := []models.ConversationMessage{
		{Role: models.RoleSystem, Content: fmt.Sprintf(answerSystemPrompt, fallback, contextBlock)},
	}
	for _, msg := range models.LastN(history, window) {
		if msg.Role == models.RoleSystem {
			continue
		}
		messages = append(messages, msg)
	}
	return append(messages, models.ConversationMessage{Role: models.RoleUser, Content: question})
}

const statementSystemPrompt = `You are the patient-facing FAQ assistant for a refractive eye surgery practice.
The user has shared something about themselves rather than asking a question.
Acknowledge what they said warmly and briefly, then gently invite them to ask a concrete question you can answer, such as about costs, recovery, or candidacy.
Never provide medical specifics, diagnoses, or advice about their situation. Two sentences at most.`

const suggestionPromptTemplate = `A patient asked: %q

Our FAQ search found the following content:
%s

Propose exactly 3 specific questions the patient might have meant, each directly answerable from the content above.
One question per line, no numbering, each ending with a question mark.`
