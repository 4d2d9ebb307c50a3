package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/clearview/faq-assistant/pkg/llm"
	"github.com/clearview/faq-assistant/pkg/models"
)

// fakeLLM implements llm.Client for testing
type fakeLLM struct {
	chatResponse     string
	chatErr          error
	chatCalls        int
	generateResponse string
	generateErr      error
	generateCalls    int
	lastMessages     []models.ConversationMessage
}

func (f *fakeLLM) Chat(ctx context.Context, messages []models.ConversationMessage, config llm.ModelConfig) (string, error) {
	f.chatCalls++
	f.lastMessages = messages
	return f.chatResponse, f.chatErr
}

func (f *fakeLLM) ChatStream(ctx context.Context, messages []models.ConversationMessage, config llm.ModelConfig, fn llm.StreamFunc) (string, error) {
	f.chatCalls++
	f.lastMessages = messages
	if f.chatErr != nil {
		return "", f.chatErr
	}
	for _, part := range strings.SplitAfter(f.chatResponse, " ") {
		if err := fn(part); err != nil {
			return "", err
		}
	}
	return f.chatResponse, nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, config llm.ModelConfig) (string, error) {
	f.generateCalls++
	return f.generateResponse, f.generateErr
}

func (f *fakeLLM) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return []float32{1}, nil
}

func (f *fakeLLM) Close() error { return nil }

const testPhone = "(555) 014-2020"

func newTestGenerator(fake *fakeLLM) *Generator {
	return NewGenerator(fake, NewSuggester(fake), DefaultConfig(testPhone))
}

func scored(id, source, text string) models.ScoredChunk {
	return models.ScoredChunk{
		Chunk:      models.ContentChunk{ID: id, SourceFile: source, Text: text},
		Similarity: 0.9,
	}
}

var groundedChunks = []models.ScoredChunk{
	scored("c1", "cost.md", "LASIK at our practice costs $2,500 per eye, with financing plans available for qualified patients."),
	scored("c2", "cost.md", "Financing starts around $89 per month with zero-interest options over 24 months."),
}

func TestGenerate_NoChunksNeverCallsModel(t *testing.T) {
	fake := &fakeLLM{}
	g := newTestGenerator(fake)

	got, err := g.Generate(context.Background(), "how much?", nil, nil)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if !got.UsedFallback {
		t.Error("expected fallback with no chunks")
	}
	if got.Answer != FallbackSentence(testPhone) {
		t.Errorf("unexpected answer: %q", got.Answer)
	}
	if fake.chatCalls != 0 {
		t.Error("model must never be called with zero chunks")
	}
	if len(got.Suggestions) != 3 {
		t.Errorf("expected 3 suggestions, got %d", len(got.Suggestions))
	}
}

func TestGenerate_ThinContextFallsBack(t *testing.T) {
	fake := &fakeLLM{}
	g := newTestGenerator(fake)

	thin := []models.ScoredChunk{scored("c1", "a.md", "ok")}
	got, err := g.Generate(context.Background(), "how much?", thin, nil)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !got.UsedFallback {
		t.Error("implausibly short context should take the fallback path")
	}
	if fake.chatCalls != 0 {
		t.Error("model must not be called on thin context")
	}
}

func TestGenerate_GroundedAnswer(t *testing.T) {
	fake := &fakeLLM{chatResponse: "LASIK is $2,500 per eye, and financing starts around $89 a month."}
	g := newTestGenerator(fake)

	got, err := g.Generate(context.Background(), "how much is lasik?", groundedChunks, nil)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if got.UsedFallback {
		t.Error("grounded answer should not be a fallback")
	}
	if got.Answer != fake.chatResponse {
		t.Errorf("unexpected answer: %q", got.Answer)
	}
	if len(got.Suggestions) != 0 {
		t.Error("grounded answers carry no suggestions")
	}

	system := fake.lastMessages[0]
	if system.Role != models.RoleSystem {
		t.Fatal("first message should be the system prompt")
	}
	if !strings.Contains(system.Content, "[Source: cost.md]") {
		t.Error("system prompt should label chunk sources")
	}
	if !strings.Contains(system.Content, FallbackSentence(testPhone)) {
		t.Error("system prompt should carry the exact fallback sentence")
	}
}

func TestGenerate_ModelSelfReportsFallback(t *testing.T) {
	fake := &fakeLLM{
		chatResponse:     FallbackSentence(testPhone),
		generateResponse: "What does LASIK cost?\nIs financing available?\nWhat is the recovery like?",
	}
	g := newTestGenerator(fake)

	got, err := g.Generate(context.Background(), "can you fix my knee?", groundedChunks, nil)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if !got.UsedFallback {
		t.Error("fallback sentence in model output should be detected")
	}
	if len(got.Suggestions) != 3 {
		t.Errorf("expected 3 suggestions alongside the fallback, got %d", len(got.Suggestions))
	}
}

func TestGenerate_HistoryWindowBoundsPrompt(t *testing.T) {
	fake := &fakeLLM{chatResponse: "answer"}
	g := newTestGenerator(fake)

	var history []models.ConversationMessage
	for i := 0; i < 20; i++ {
		history = append(history, models.ConversationMessage{Role: models.RoleUser, Content: "older turn"})
	}

	if _, err := g.Generate(context.Background(), "how much?", groundedChunks, history); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	// system prompt + bounded window + current question
	want := 1 + DefaultConfig(testPhone).HistoryWindow + 1
	if len(fake.lastMessages) != want {
		t.Errorf("prompt carried %d messages, want %d", len(fake.lastMessages), want)
	}
}

func TestGenerate_ModelErrorPropagates(t *testing.T) {
	fake := &fakeLLM{chatErr: errors.New("ollama down")}
	g := newTestGenerator(fake)

	if _, err := g.Generate(context.Background(), "how much?", groundedChunks, nil); err == nil {
		t.Error("expected model error to propagate to the pipeline boundary")
	}
}

func TestGenerateStream_ForwardsContent(t *testing.T) {
	fake := &fakeLLM{chatResponse: "LASIK is $2,500 per eye."}
	g := newTestGenerator(fake)

	var streamed strings.Builder
	got, err := g.GenerateStream(context.Background(), "how much?", groundedChunks, nil, func(content string) error {
		streamed.WriteString(content)
		return nil
	})
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}
	if streamed.String() != got.Answer {
		t.Errorf("streamed %q, answer %q", streamed.String(), got.Answer)
	}
}

func TestGenerateStream_FallbackEmittedOnce(t *testing.T) {
	fake := &fakeLLM{}
	g := newTestGenerator(fake)

	var events []string
	got, err := g.GenerateStream(context.Background(), "how much?", nil, nil, func(content string) error {
		events = append(events, content)
		return nil
	})
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}
	if len(events) != 1 || events[0] != got.Answer {
		t.Errorf("fallback should stream as one increment, got %v", events)
	}
}
