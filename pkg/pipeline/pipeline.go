// Package pipeline wires the intent classifier, query enhancer, retriever
// and answer generator into the single entry point the application calls
// for every inbound message.
package pipeline

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/clearview/faq-assistant/pkg/answer"
	"github.com/clearview/faq-assistant/pkg/enhance"
	"github.com/clearview/faq-assistant/pkg/intent"
	"github.com/clearview/faq-assistant/pkg/models"
	"github.com/clearview/faq-assistant/pkg/retrieval"
)

// ErrEmptyQuestion rejects blank input before any external call is made.
var ErrEmptyQuestion = errors.New("question is empty")

// defaultHistoryWindow bounds how many trailing conversation turns the
// pipeline looks at, regardless of how much the caller retains.
const defaultHistoryWindow = 10

// Pipeline is request-scoped and stateless between invocations; concurrent
// calls share only the read-only chunk store and configuration.
type Pipeline struct {
	classifier *intent.Classifier
	enhancer   *enhance.Enhancer
	retriever  *retrieval.Retriever
	generator  *answer.Generator
	statements *answer.StatementHandler
	window     int
}

// New creates a Pipeline with injected components.
func New(classifier *intent.Classifier, enhancer *enhance.Enhancer, retriever *retrieval.Retriever, generator *answer.Generator, statements *answer.StatementHandler, historyWindow int) *Pipeline {
	if historyWindow <= 0 {
		historyWindow = defaultHistoryWindow
	}
	return &Pipeline{
		classifier: classifier,
		enhancer:   enhancer,
		retriever:  retriever,
		generator:  generator,
		statements: statements,
		window:     historyWindow,
	}
}

// Answer processes one inbound message and always returns a well-formed
// response: external-call failures are absorbed here and converge on the
// fixed fallback sentence. The only error returned is ErrEmptyQuestion.
func (p *Pipeline) Answer(ctx context.Context, question string, history []models.ConversationMessage) (*models.AnswerResponse, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	history = models.LastN(history, p.window)

	signal := p.classifier.Classify(question)

	switch signal.Route {
	case models.RouteGreeting, models.RouteAffirmation, models.RouteObjection:
		return &models.AnswerResponse{
			Answer: signal.CannedReply,
			Intent: signal,
		}, nil

	case models.RouteStatement:
		return &models.AnswerResponse{
			Answer: p.statements.Respond(ctx, question, history),
			Intent: signal,
		}, nil
	}

	resp, err := p.retrievalAnswer(ctx, question, history, signal, nil)
	if err != nil {
		// One boundary for every backend failure: log it, answer with
		// the fallback sentence. Raw error text never reaches the user.
		log.Printf("pipeline: retrieval path failed: %v", err)
		return p.outageResponse(ctx, question, signal), nil
	}
	return resp, nil
}

// retrievalAnswer runs the full retrieval path: enhance, retrieve,
// generate. streamFn, when non-nil, receives partial answer text.
func (p *Pipeline) retrievalAnswer(ctx context.Context, question string, history []models.ConversationMessage, signal models.IntentSignal, streamFn func(string) error) (*models.AnswerResponse, error) {
	query, enhanced := p.enhancer.Enhance(ctx, question, history)

	var comparison *enhance.Comparison
	if cmp, ok := enhance.DetectComparison(query); ok {
		comparison = &cmp
	}

	retrieved, err := p.retriever.Retrieve(ctx, query, comparison)
	if err != nil {
		return nil, err
	}

	var generated *answer.Generated
	if streamFn != nil {
		generated, err = p.generator.GenerateStream(ctx, question, retrieved.Chunks, history, streamFn)
	} else {
		generated, err = p.generator.Generate(ctx, question, retrieved.Chunks, history)
	}
	if err != nil {
		return nil, err
	}

	return &models.AnswerResponse{
		Answer:          generated.Answer,
		GroundingChunks: retrieved.Chunks,
		UsedFallback:    generated.UsedFallback,
		Intent:          signal,
		Suggestions:     generated.Suggestions,
		Debug: &models.DebugInfo{
			Candidates:    retrieved.Candidates,
			Threshold:     p.retriever.DefaultThreshold(),
			QueryEnhanced: enhanced,
			SearchQuery:   query,
		},
	}, nil
}

// outageResponse is the total-failure answer: the fixed fallback sentence
// plus the static steering suggestions, no model involved.
func (p *Pipeline) outageResponse(ctx context.Context, question string, signal models.IntentSignal) *models.AnswerResponse {
	generated, _ := p.generator.Generate(ctx, question, nil, nil)
	return &models.AnswerResponse{
		Answer:       generated.Answer,
		UsedFallback: true,
		Intent:       signal,
		Suggestions:  generated.Suggestions,
	}
}
