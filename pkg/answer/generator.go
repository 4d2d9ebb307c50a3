// Package answer turns retrieved FAQ chunks into safety-constrained
// generated answers, with suggestion and conversational fallbacks.
package answer

import (
	"context"
	"fmt"

	"github.com/clearview/faq-assistant/pkg/llm"
	"github.com/clearview/faq-assistant/pkg/models"
)

// Config holds the fixed parameters of the answer generator.
type Config struct {
	// Phone is the practice phone number baked into the fallback sentence.
	Phone string

	// MinContextChars is the floor below which retrieved context is
	// treated as too thin to ground an answer.
	MinContextChars int

	// HistoryWindow is how many trailing conversation turns the prompt
	// includes.
	HistoryWindow int

	Temperature float32
	MaxTokens   int
}

// DefaultConfig returns the generator defaults: low randomness, bounded
// output.
func DefaultConfig(phone string) Config {
	return Config{
		Phone:           phone,
		MinContextChars: 80,
		HistoryWindow:   6,
		Temperature:     0.3,
		MaxTokens:       300,
	}
}

// Generated is the generator's output for one question.
type Generated struct {
	Answer       string
	UsedFallback bool
	Suggestions  []string
}

// Generator produces grounded answers from retrieved chunks.
type Generator struct {
	llm       llm.Client
	suggester *Suggester
	cfg       Config
	fallback  string
}

// NewGenerator creates a Generator with injected dependencies.
func NewGenerator(client llm.Client, suggester *Suggester, cfg Config) *Generator {
	return &Generator{
		llm:       client,
		suggester: suggester,
		cfg:       cfg,
		fallback:  FallbackSentence(cfg.Phone),
	}
}

// Fallback returns the fixed fallback sentence for this practice.
func (g *Generator) Fallback() string {
	return g.fallback
}

// Generate answers question from chunks. With no chunks, or with context
// too thin to be plausible grounding, the model is never called: the
// fallback sentence and clarifying suggestions come back immediately.
// A failed model call propagates as an error for the pipeline boundary to
// absorb.
func (g *Generator) Generate(ctx context.Context, question string, chunks []models.ScoredChunk, history []models.ConversationMessage) (*Generated, error) {
	return g.generate(ctx, question, chunks, history, nil)
}

// GenerateStream behaves like Generate but forwards partial answer text to
// fn in generation order. Fallback-path answers arrive as one increment.
func (g *Generator) GenerateStream(ctx context.Context, question string, chunks []models.ScoredChunk, history []models.ConversationMessage, fn llm.StreamFunc) (*Generated, error) {
	return g.generate(ctx, question, chunks, history, fn)
}

func (g *Generator) generate(ctx context.Context, question string, chunks []models.ScoredChunk, history []models.ConversationMessage, fn llm.StreamFunc) (*Generated, error) {
	contextBlock := buildContext(chunks)
	if len(chunks) == 0 || len(contextBlock) < g.cfg.MinContextChars {
		return g.fallbackAnswer(ctx, question, chunks, fn)
	}

	messages := buildAnswerMessages(question, contextBlock, g.fallback, history, g.cfg.HistoryWindow)
	config := llm.ModelConfig{
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.MaxTokens,
	}

	var text string
	var err error
	if fn != nil {
		text, err = g.llm.ChatStream(ctx, messages, config, fn)
	} else {
		text, err = g.llm.Chat(ctx, messages, config)
	}
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	// The model self-reports insufficient grounding by emitting the
	// exact fallback sentence; give the user steering instead of a dead
	// end.
	if IsFallback(text, g.fallback) {
		return &Generated{
			Answer:       g.fallback,
			UsedFallback: true,
			Suggestions:  g.suggester.Suggest(ctx, question, chunks),
		}, nil
	}

	return &Generated{Answer: text}, nil
}

func (g *Generator) fallbackAnswer(ctx context.Context, question string, chunks []models.ScoredChunk, fn llm.StreamFunc) (*Generated, error) {
	if fn != nil {
		if err := fn(g.fallback); err != nil {
			return nil, fmt.Errorf("stream callback: %w", err)
		}
	}
	return &Generated{
		Answer:       g.fallback,
		UsedFallback: true,
		Suggestions:  g.suggester.Suggest(ctx, question, chunks),
	}, nil
}
