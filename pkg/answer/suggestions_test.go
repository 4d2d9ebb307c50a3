package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

)

func assertThreeQuestions(t *testing.T, got []string) {
	t.Helper()
	if len(got) != 3 {
		t.Fatalf("expected exactly 3 suggestions, got %d: %v", len(got), got)
	}
	for _, s := range got {
		if strings.TrimSpace(s) == "" {
			t.Error("suggestion must not be empty")
		}
		if !strings.HasSuffix(s, "?") {
			t.Errorf("suggestion must end with a question mark: %q", s)
		}
	}
}

func TestSuggest_NoChunksReturnsGenerics(t *testing.T) {
	fake := &fakeLLM{}
	s := NewSuggester(fake)

	got := s.Suggest(context.Background(), "help", nil)
	assertThreeQuestions(t, got)
	if fake.generateCalls != 0 {
		t.Error("no model call expected without chunks")
	}
}

func TestSuggest_ParsesModelOutput(t *testing.T) {
	fake := &fakeLLM{generateResponse: "1. What does LASIK cost per eye?\n2) Is financing available?\n- How long is recovery?"}
	s := NewSuggester(fake)

	got := s.Suggest(context.Background(), "costs?", groundedChunks)
	assertThreeQuestions(t, got)
	if got[0] != "What does LASIK cost per eye?" {
		t.Errorf("numbering should be stripped: %q", got[0])
	}
}

func TestSuggest_PadsShortOutput(t *testing.T) {
	fake := &fakeLLM{generateResponse: "What does LASIK cost per eye?\nnot a question line"}
	s := NewSuggester(fake)

	got := s.Suggest(context.Background(), "costs?", groundedChunks)
	assertThreeQuestions(t, got)
}

func TestSuggest_ModelFailureReturnsGenerics(t *testing.T) {
	fake := &fakeLLM{generateErr: errors.New("ollama down")}
	s := NewSuggester(fake)

	got := s.Suggest(context.Background(), "costs?", groundedChunks)
	assertThreeQuestions(t, got)
}

func TestSuggest_IgnoresExcessOutput(t *testing.T) {
	fake := &fakeLLM{generateResponse: "Q one?\nQ two?\nQ three?\nQ four?\nQ five?"}
	s := NewSuggester(fake)

	got := s.Suggest(context.Background(), "costs?", groundedChunks)
	assertThreeQuestions(t, got)
	if got[2] != "Q three?" {
		t.Errorf("expected first three questions kept, got %v", got)
	}
}

func TestStatementHandler_RespondsConversationally(t *testing.T) {
	fake := &fakeLLM{chatResponse: "That sounds exciting! What would you like to know about the procedures?"}
	h := NewStatementHandler(fake, 6)

	got := h.Respond(context.Background(), "I work at a computer all day", nil)
	if got != fake.chatResponse {
		t.Errorf("unexpected reply: %q", got)
	}
}

func TestStatementHandler_FailureReturnsStaticSteer(t *testing.T) {
	fake := &fakeLLM{chatErr: errors.New("ollama down")}
	h := NewStatementHandler(fake, 6)

	got := h.Respond(context.Background(), "I work at a computer all day", nil)
	if got != statementSteeringReply {
		t.Errorf("expected static steering reply, got %q", got)
	}
}

func TestStatementHandler_BlankReplyReturnsStaticSteer(t *testing.T) {
	fake := &fakeLLM{chatResponse: "   "}
	h := NewStatementHandler(fake, 6)

	got := h.Respond(context.Background(), "I wear glasses", nil)
	if got != statementSteeringReply {
		t.Errorf("expected static steering reply, got %q", got)
	}
}

func TestFallbackDetection(t *testing.T) {
	fallback := FallbackSentence("(555) 014-2020")

	if !IsFallback(fallback, fallback) {
		t.Error("exact sentence should match")
	}
	if !IsFallback("Well... "+fallback, fallback) {
		t.Error("embedded sentence should match")
	}
	if IsFallback("LASIK costs $2,500 per eye.", fallback) {
		t.Error("grounded answer should not match")
	}
}
