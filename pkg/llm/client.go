package llm

import (
	"context"
	"os"

	"github.com/clearview/faq-assistant/pkg/models"
)

// StreamFunc receives partial response text in generation order.
type StreamFunc func(content string) error

// Client is the interface for interacting with LLMs
type Client interface {
	Chat(ctx context.Context, messages []models.ConversationMessage, config ModelConfig) (string, error)
	ChatStream(ctx context.Context, messages []models.ConversationMessage, config ModelConfig, fn StreamFunc) (string, error)
	Generate(ctx context.Context, prompt string, config ModelConfig) (string, error)
	EmbedText(ctx context.Context, text string) ([]float32, error)
	Close() error
}

// ModelConfig holds configuration parameters for model generation
type ModelConfig struct {
	Temperature float32
	TopP        float32
	MaxTokens   int
}

// DefaultModelConfig returns a default configuration
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		Temperature: 0.7,
		TopP:        0.9,
		MaxTokens:   2048,
	}
}

// NewClient creates a new LLM client, defaulting to Ollama
func NewClient() (Client, error) {
	modelName := os.Getenv("OLLAMA_MODEL")
	if modelName == "" {
		modelName = "llama3.2"
	}

	embedModel := os.Getenv("OLLAMA_EMBED_MODEL")
	if embedModel == "" {
		embedModel = "nomic-embed-text"
	}

	ollamaURL := os.Getenv("OLLAMA_API_URL")

	return NewOllamaClient(modelName, embedModel, ollamaURL), nil
}
