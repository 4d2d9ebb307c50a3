package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/clearview/faq-assistant/pkg/models"
)

// OllamaClient is a client that uses the Ollama API to interact with LLM models
type OllamaClient struct {
	baseURL    string
	httpClient *http.Client
	modelName  string
	embedModel string
}

// OllamaRequest represents a request to the Ollama API
type OllamaRequest struct {
	Model    string    `json:"model"`
	Prompt   string    `json:"prompt,omitempty"`
	Messages []Message `json:"messages,omitempty"`
	Stream   bool      `json:"stream"`
	Options  Options   `json:"options,omitempty"`
}

// Message represents a chat message in Ollama wire format
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options represents parameter options for the model
type Options struct {
	Temperature float32 `json:"temperature,omitempty"`
	TopP        float32 `json:"top_p,omitempty"`
	MaxTokens   int     `json:"num_predict,omitempty"`
}

// OllamaResponse represents a response chunk from the Ollama API.
// The generate endpoint populates Response; the chat endpoint populates
// Message.Content.
type OllamaResponse struct {
	Response string  `json:"response"`
	Message  Message `json:"message"`
	Done     bool    `json:"done"`
}

// EmbeddingResponse represents a response from the Ollama embeddings API
type EmbeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

// NewOllamaClient creates a new client for interacting with a local Ollama server
func NewOllamaClient(modelName, embedModel, baseURL string) *OllamaClient {
	if baseURL == "" {
		baseURL = "http://localhost:11434/api"
	}
	if embedModel == "" {
		embedModel = modelName
	}

	return &OllamaClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: time.Minute * 5, // generations can run long
		},
		modelName:  modelName,
		embedModel: embedModel,
	}
}

// Chat processes a conversation and returns the complete response.
func (c *OllamaClient) Chat(ctx context.Context, messages []models.ConversationMessage, config ModelConfig) (string, error) {
	return c.chat(ctx, messages, config, nil)
}

// ChatStream processes a conversation, forwarding partial content to fn as
// it arrives, and returns the assembled response.
func (c *OllamaClient) ChatStream(ctx context.Context, messages []models.ConversationMessage, config ModelConfig, fn StreamFunc) (string, error) {
	return c.chat(ctx, messages, config, fn)
}

func (c *OllamaClient) chat(ctx context.Context, messages []models.ConversationMessage, config ModelConfig, fn StreamFunc) (string, error) {
	ollamaMessages := make([]Message, len(messages))
	for i, msg := range messages {
		ollamaMessages[i] = Message{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}

	req := OllamaRequest{
		Model:    c.modelName,
		Messages: ollamaMessages,
		Stream:   true,
		Options: Options{
			Temperature: config.Temperature,
			TopP:        config.TopP,
			MaxTokens:   config.MaxTokens,
		},
	}

	return c.streamRequest(ctx, "/chat", req, fn)
}

// Generate processes a single prompt and returns a completion
func (c *OllamaClient) Generate(ctx context.Context, prompt string, config ModelConfig) (string, error) {
	req := OllamaRequest{
		Model:  c.modelName,
		Prompt: prompt,
		Stream: true,
		Options: Options{
			Temperature: config.Temperature,
			TopP:        config.TopP,
			MaxTokens:   config.MaxTokens,
		},
	}

	return c.streamRequest(ctx, "/generate", req, nil)
}

// streamRequest sends a request to a streaming endpoint. Ollama returns a
// stream of JSON objects, one per line; each chunk's content is forwarded
// to fn (when non-nil) and concatenated into the returned string.
func (c *OllamaClient) streamRequest(ctx context.Context, endpoint string, req OllamaRequest, fn StreamFunc) (string, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Ollama API error (status %d): %s", resp.StatusCode, body)
	}

	var fullResponse strings.Builder
	scanner := bufio.NewScanner(resp.Body)

	for scanner.Scan() {
		line := scanner.Text()
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}

		var chunk OllamaResponse
		if err := json.Unmarshal([]byte(line), &chunk); err != nil {
			return "", fmt.Errorf("failed to parse Ollama response chunk: %w", err)
		}

		content := chunk.Response
		if content == "" {
			content = chunk.Message.Content
		}

		if content != "" {
			if fn != nil {
				if err := fn(content); err != nil {
					return "", fmt.Errorf("stream callback: %w", err)
				}
			}
			fullResponse.WriteString(content)
		}
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("error reading response stream: %w", err)
	}

	return fullResponse.String(), nil
}

// EmbedText generates a vector embedding for the given text. Single call,
// no caching, no retry; errors propagate to the caller.
func (c *OllamaClient) EmbedText(ctx context.Context, text string) ([]float32, error) {
	req := OllamaRequest{
		Model:  c.embedModel,
		Prompt: text,
	}

	resp, err := c.sendRequest(ctx, "/embeddings", req)
	if err != nil {
		return nil, err
	}

	var embedResp EmbeddingResponse
	if err := json.Unmarshal(resp, &embedResp); err != nil {
		return nil, fmt.Errorf("failed to parse Ollama embeddings response: %w", err)
	}

	return embedResp.Embedding, nil
}

// sendRequest sends a request to the Ollama API - used for non-streaming endpoints
func (c *OllamaClient) sendRequest(ctx context.Context, endpoint string, req interface{}) ([]byte, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Ollama API error (status %d): %s", resp.StatusCode, body)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return respBody, nil
}

// Close cleans up any resources
func (c *OllamaClient) Close() error {
	return nil
}
