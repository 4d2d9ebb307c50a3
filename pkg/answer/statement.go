package answer

import (
	"context"
	"strings"

	"github.com/clearview/faq-assistant/pkg/llm"
	"github.com/clearview/faq-assistant/pkg/models"
)

// statementSteeringReply is the static reply when the model call fails.
const statementSteeringReply = "Thanks for sharing that! Is there anything specific about vision correction I can answer for you - like costs, recovery, or whether you might be a candidate?"

// StatementHandler responds to pure conversational statements without
// touching retrieval: acknowledge, then steer toward an answerable
// question. Never fails.
type StatementHandler struct {
	llm    llm.Client
	window int
}

// NewStatementHandler creates a StatementHandler.
func NewStatementHandler(client llm.Client, historyWindow int) *StatementHandler {
	if historyWindow <= 0 {
		historyWindow = 6
	}
	return &StatementHandler{llm: client, window: historyWindow}
}

// Respond acknowledges statement and invites a concrete question. No
// facts are being grounded here, so the temperature leans toward natural
// phrasing over strict consistency.
func (h *StatementHandler) Respond(ctx context.Context, statement string, history []models.ConversationMessage) string {
	messages := []models.ConversationMessage{
		{Role: models.RoleSystem, Content: statementSystemPrompt},
	}
	for _, msg := range models.LastN(history, h.window) {
		if msg.Role == models.RoleSystem {
			continue
		}
		messages = append(messages, msg)
	}
	messages = append(messages, models.ConversationMessage{Role: models.RoleUser, Content: statement})

	text, err := h.llm.Chat(ctx, messages, llm.ModelConfig{
		Temperature: 0.8,
		MaxTokens:   120,
	})
	if err != nil || strings.TrimSpace(text) == "" {
		return statementSteeringReply
	}
	return text
}
