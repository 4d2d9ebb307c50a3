package pipeline

import (
	"context"
	"log"
	"strings"

	"github.com/clearview/faq-assistant/pkg/models"
)

// EmitFunc receives stream events in order. Returning an error aborts the
// stream.
type EmitFunc func(models.StreamEvent) error

// AnswerStream mirrors Answer's semantics but emits incremental events:
// content events carry partial text in generation order, and the final
// done event carries the assembled response. Canned and fallback answers
// arrive as a single content event.
func (p *Pipeline) AnswerStream(ctx context.Context, question string, history []models.ConversationMessage, emit EmitFunc) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return ErrEmptyQuestion
	}
	history = models.LastN(history, p.window)

	signal := p.classifier.Classify(question)

	switch signal.Route {
	case models.RouteGreeting, models.RouteAffirmation, models.RouteObjection:
		return emitWhole(emit, &models.AnswerResponse{
			Answer: signal.CannedReply,
			Intent: signal,
		})

	case models.RouteStatement:
		return emitWhole(emit, &models.AnswerResponse{
			Answer: p.statements.Respond(ctx, question, history),
			Intent: signal,
		})
	}

	streamed := false
	forward := func(content string) error {
		streamed = true
		return emit(models.StreamEvent{Type: models.StreamContent, Content: content})
	}

	resp, err := p.retrievalAnswer(ctx, question, history, signal, forward)
	if err != nil {
		log.Printf("pipeline: retrieval path failed: %v", err)
		if streamed {
			// Partial text already went out; a clean fallback answer is
			// no longer possible, so surface the break in the stream.
			return emit(models.StreamEvent{Type: models.StreamError, Err: "answer generation was interrupted"})
		}
		return emitWhole(emit, p.outageResponse(ctx, question, signal))
	}

	return emit(models.StreamEvent{Type: models.StreamDone, Response: resp})
}

// emitWhole sends a complete answer as one content event followed by done.
func emitWhole(emit EmitFunc, resp *models.AnswerResponse) error {
	if err := emit(models.StreamEvent{Type: models.StreamContent, Content: resp.Answer}); err != nil {
		return err
	}
	return emit(models.StreamEvent{Type: models.StreamDone, Response: resp})
}
