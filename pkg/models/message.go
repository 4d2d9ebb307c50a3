package models

// Role represents the role of a message sender
type Role string

const (
	// RoleUser represents a message from the user
	RoleUser Role = "user"
	// RoleAssistant represents a message from the assistant
	RoleAssistant Role = "assistant"
	// RoleSystem represents a system message
	RoleSystem Role = "system"
)

// ConversationMessage represents a single turn of the conversation.
// The pipeline only ever looks at a bounded trailing window of these;
// callers may keep more, but older turns are invisible to it.
type ConversationMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// LastN returns the trailing window of at most n messages.
func LastN(history []ConversationMessage, n int) []ConversationMessage {
	if n <= 0 || len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
