// faq-chat is an interactive terminal session against the answer pipeline,
// useful for exercising the assistant without the web frontend.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
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

var (
	configPath = flag.String("config", "config.yaml", "Path to the config file")
	showDebug  = flag.Bool("debug", false, "Print retrieval debug info after each answer")
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
		os.Exit(0)
	}()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	p, closeFn, err := buildPipeline(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeFn()

	boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fmt.Println(boldGreen("Clearview Vision FAQ Assistant"))
	fmt.Printf("Using model: %s\n", boldCyan(cfg.Ollama.Model))
	fmt.Println("Type your message and press Enter. Type 'exit' or press Ctrl+C to quit.")
	fmt.Println()

	var history []models.ConversationMessage
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(boldGreen("You: "))
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())

		if strings.EqualFold(question, "exit") || strings.EqualFold(question, "quit") {
			break
		}
		if question == "" {
			continue
		}

		fmt.Print(boldCyan("Assistant: "))

		var resp *models.AnswerResponse
		err := p.AnswerStream(ctx, question, history, func(ev models.StreamEvent) error {
			switch ev.Type {
			case models.StreamContent:
				fmt.Print(ev.Content)
			case models.StreamDone:
				resp = ev.Response
			case models.StreamError:
				fmt.Print(dim("[" + ev.Err + "]"))
			}
			return nil
		})
		fmt.Println()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}

		if resp != nil {
			if len(resp.Suggestions) > 0 {
				fmt.Println(dim("You could ask:"))
				for _, s := range resp.Suggestions {
					fmt.Println(dim("  - " + s))
				}
			}
			if *showDebug && resp.Debug != nil {
				printDebug(resp)
			}
			history = append(history,
				models.ConversationMessage{Role: models.RoleUser, Content: question},
				models.ConversationMessage{Role: models.RoleAssistant, Content: resp.Answer},
			)
		}
		fmt.Println()
	}
}

// buildPipeline wires every component from config. The returned func
// closes the underlying connections.
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

func printDebug(resp *models.AnswerResponse) {
	fmt.Printf("\n[debug] route=%s buying_intent=%d enhanced=%v query=%q threshold=%.2f\n",
		resp.Intent.Route, resp.Intent.BuyingIntent, resp.Debug.QueryEnhanced,
		resp.Debug.SearchQuery, resp.Debug.Threshold)
	for _, cand := range resp.Debug.Candidates {
		mark := "FAIL"
		if cand.Passed {
			mark = "pass"
		}
		fmt.Printf("[debug]   %s %s score=%.3f threshold=%.2f (%s)\n",
			mark, cand.ChunkID, cand.Similarity, cand.Threshold, cand.SourceFile)
	}
}
