// faq-service exposes the answer pipeline over HTTP for the web chat
// widget. It is a thin wrapper: routing, CORS, auth and lead capture live
// in the surrounding application.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/clearview/faq-assistant/pkg/answer"
	"github.com/clearview/faq-assistant/pkg/config"
	"github.com/clearview/faq-assistant/pkg/enhance"
	"github.com/clearview/faq-assistant/pkg/intent"
	"github.com/clearview/faq-assistant/pkg/llm"
	"github.com/clearview/faq-assistant/pkg/models"
	"github.com/clearview/faq-assistant/pkg/pipeline"
	"github.com/clearview/faq-assistant/pkg/retrieval"
	"github.com/clearview/faq-assistant/pkg/vector"
)

type chatRequest struct {
	Message string                       `json:"message"`
	History []models.ConversationMessage `json:"history,omitempty"`
}

var (
	port       = flag.Int("port", 8080, "Port to listen on")
	configPath = flag.String("config", "config.yaml", "Path to the config file")
)

func main() {
	flag.Parse()
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Println("\nShutting down...")
		cancel()
	}()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	p, closeFn, err := buildPipeline(cfg)
	if err != nil {
		log.Fatalf("building pipeline: %v", err)
	}
	defer closeFn()

	http.HandleFunc("/chat", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		resp, err := p.Answer(r.Context(), req.Message, req.History)
		if err != nil {
			if errors.Is(err, pipeline.ErrEmptyQuestion) {
				http.Error(w, "Message is empty", http.StatusBadRequest)
				return
			}
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Printf("encoding response: %v", err)
		}
	})

	http.HandleFunc("/chat/stream", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return
		}

		// One JSON event per line, flushed as generated.
		w.Header().Set("Content-Type", "application/x-ndjson")
		enc := json.NewEncoder(w)

		err := p.AnswerStream(r.Context(), req.Message, req.History, func(ev models.StreamEvent) error {
			if err := enc.Encode(ev); err != nil {
				return err
			}
			flusher.Flush()
			return nil
		})
		if errors.Is(err, pipeline.ErrEmptyQuestion) {
			http.Error(w, "Message is empty", http.StatusBadRequest)
		} else if err != nil {
			log.Printf("stream aborted: %v", err)
		}
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: nil,
	}

	go func() {
		log.Printf("Starting FAQ service on port %d\n", *port)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
}

// buildPipeline wires every component from config.
func buildPipeline(cfg *config.AppConfig) (*pipeline.Pipeline, func(), error) {
	client := llm.NewOllamaClient(cfg.Ollama.Model, cfg.Ollama.EmbedModel, cfg.Ollama.URL)

	store, err := vector.NewQdrantStore(vector.Config{
		Addr:       cfg.Qdrant.Addr,
		Collection: cfg.Qdrant.Collection,
		Dimension:  cfg.Qdrant.Dimension,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to vector store: %w", err)
	}

	classifier := intent.NewClassifier(intent.DefaultPhrases())
	enhancer := enhance.NewEnhancer(client)
	retriever := retrieval.NewRetriever(client, store, classifier, retrieval.Config{
		TopK:               cfg.Retrieval.TopK,
		ScoreThreshold:     cfg.Retrieval.ScoreThreshold,
		SensitiveThreshold: cfg.Retrieval.SensitiveThreshold,
		SensitiveSources:   cfg.Retrieval.SensitiveSources,
	})
	suggester := answer.NewSuggester(client)
	generator := answer.NewGenerator(client, suggester, answer.Config{
		Phone:           cfg.Answer.Phone,
		MinContextChars: cfg.Answer.MinContextChars,
		HistoryWindow:   cfg.Answer.HistoryWindow,
		Temperature:     cfg.Answer.Temperature,
		MaxTokens:       cfg.Answer.MaxTokens,
	})
	statements := answer.NewStatementHandler(client, cfg.Answer.HistoryWindow)

	p := pipeline.New(classifier, enhancer, retriever, generator, statements, 0)

	closeFn := func() {
		store.Close()
		client.Close()
	}
	return p, closeFn, nil
}
