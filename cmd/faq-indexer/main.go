// faq-indexer runs the offline indexing pass: it walks a directory of
// markdown FAQ documents, splits them into overlapping chunks, embeds each
// chunk via Ollama and replaces the Qdrant collection wholesale.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/ollama/ollama/api"

	"github.com/clearview/faq-assistant/pkg/config"
	"github.com/clearview/faq-assistant/pkg/models"
	"github.com/clearview/faq-assistant/pkg/vector"
)

// logError logs an error with file and line information
func logError(err error) {
	_, file, line, _ := runtime.Caller(1)
	log.Fatalf("%s:%d - %v", file, line, err)
}

// logDebug prints debug information only when debug mode is enabled
func logDebug(format string, args ...interface{}) {
	if debugMode {
		fmt.Printf(format+"\n", args...)
	}
}

var (
	debugMode = false // Global debug flag
)

const (
	chunkSize    = 400
	chunkOverlap = 50
	upsertBatch  = 100
)

func main() {
	debug := flag.Bool("debug", false, "Enable debug output")
	configPath := flag.String("config", "config.yaml", "Path to the config file")
	contentDir := flag.String("content-dir", "content", "Directory containing markdown FAQ files")
	flag.Parse()

	debugMode = *debug
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logError(fmt.Errorf("failed to load config: %w", err))
	}

	ctx := context.Background()

	store, err := vector.NewQdrantStore(vector.Config{
		Addr:       cfg.Qdrant.Addr,
		Collection: cfg.Qdrant.Collection,
		Dimension:  cfg.Qdrant.Dimension,
	})
	if err != nil {
		logError(err)
	}
	defer store.Close()
	logDebug("Connected to Qdrant at %s", cfg.Qdrant.Addr)

	// A full rebuild invalidates and replaces the entire chunk set.
	if err := store.EnsureCollection(ctx, true); err != nil {
		logError(fmt.Errorf("failed to setup collection: %w", err))
	}

	ollamaClient := setupOllamaClient()

	if err := indexContentFiles(ctx, ollamaClient, cfg, store, *contentDir); err != nil {
		logError(fmt.Errorf("indexing failed: %w", err))
	}

	color.Green("FAQ content successfully indexed in Qdrant")
}

// indexContentFiles chunks and embeds every markdown file under contentDir
// and upserts the results in batches.
func indexContentFiles(ctx context.Context, ollamaClient *api.Client, cfg *config.AppConfig, store *vector.QdrantStore, contentDir string) error {
	contentFiles, err := getAllContentFiles(contentDir)
	if err != nil {
		return fmt.Errorf("error finding content files: %w", err)
	}
	if len(contentFiles) == 0 {
		return fmt.Errorf("no markdown files found under %s", contentDir)
	}

	fmt.Printf("Processing %d content files\n", len(contentFiles))

	var totalChunks int
	var pending []models.ContentChunk

	for fileIndex, filePath := range contentFiles {
		contentBytes, err := os.ReadFile(filePath)
		if err != nil {
			logDebug("Error reading file %s: %v", filePath, err)
			continue
		}

		relPath, _ := filepath.Rel(contentDir, filePath)
		fmt.Printf("[%d/%d] %s (%d bytes)\n", fileIndex+1, len(contentFiles), relPath, len(contentBytes))

		chunks := ChunkText(string(contentBytes), chunkSize, chunkOverlap)
		logDebug("Split into %d chunks", len(chunks))
		totalChunks += len(chunks)

		for chunkIndex, chunkText := range chunks {
			embedding, err := getEmbedding(ctx, ollamaClient, cfg.Ollama.EmbedModel, chunkText)
			if err != nil {
				return fmt.Errorf("embedding chunk %d of %s: %w", chunkIndex, relPath, err)
			}

			pending = append(pending, models.ContentChunk{
				ID:         fmt.Sprintf("%s#%d", relPath, chunkIndex),
				Text:       chunkText,
				SourceFile: relPath,
				ChunkIndex: chunkIndex,
				Embedding:  embedding,
			})

			if len(pending) >= upsertBatch {
				if err := store.Upsert(ctx, pending); err != nil {
					return err
				}
				logDebug("Upserted batch of %d points", len(pending))
				pending = pending[:0]
			}
		}
	}

	if len(pending) > 0 {
		if err := store.Upsert(ctx, pending); err != nil {
			return err
		}
	}

	fmt.Printf("Indexed %d chunks from %d files\n", totalChunks, len(contentFiles))
	return nil
}

// getAllContentFiles recursively finds all markdown files in a directory
func getAllContentFiles(rootDir string) ([]string, error) {
	var files []string

	err := filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if filepath.Ext(path) == ".md" {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

// setupOllamaClient configures and tests the Ollama API client
func setupOllamaClient() *api.Client {
	var ollamaRawUrl string
	if ollamaRawUrl = os.Getenv("OLLAMA_HOST"); ollamaRawUrl == "" {
		ollamaRawUrl = "http://localhost:11434"
	}

	ollamaUrl, err := url.Parse(ollamaRawUrl)
	if err != nil {
		logError(fmt.Errorf("invalid OLLAMA_HOST URL: %w", err))
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	client := api.NewClient(ollamaUrl, httpClient)

	logDebug("Connecting to Ollama server at %s", ollamaRawUrl)
	resp, err := http.Get(ollamaRawUrl + "/api/tags")
	if err != nil {
		logError(fmt.Errorf("cannot connect to Ollama server at %s: %w", ollamaRawUrl, err))
	}
	resp.Body.Close()
	logDebug("Connected to Ollama server")

	return client
}

// ChunkText splits a text into chunks of specified size with overlap, so
// context is not lost at chunk boundaries.
func ChunkText(text string, chunkSize, overlap int) []string {
	chunks := []string{}
	for start := 0; start < len(text); start += chunkSize - overlap {
		end := start + chunkSize
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
		if end == len(text) {
			break
		}
	}
	return chunks
}

// getEmbedding gets an embedding vector for a text chunk.
func getEmbedding(ctx context.Context, client *api.Client, model, doc string) ([]float32, error) {
	reqCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	resp, err := client.Embeddings(reqCtx, &api.EmbeddingRequest{
		Model:  model,
		Prompt: doc,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}

	vec := make([]float32, len(resp.Embedding))
	for i, v := range resp.Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}
