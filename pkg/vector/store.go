package vector

import (
	"context"

	"github.com/clearview/faq-assistant/pkg/models"
)

// SearchHit is one nearest-neighbor result. Distance is the raw vector
// distance reported by the store; callers convert it to a similarity with
// a single monotonic transform (1 - distance).
type SearchHit struct {
	Chunk    models.ContentChunk
	Distance float32
}

// Store defines the interface for vector database operations. The chunk
// set is read-only at query time; Upsert/Clear only run during the
// offline indexing pass.
type Store interface {
	// Upsert inserts or replaces chunks with their embeddings.
	Upsert(ctx context.Context, chunks []models.ContentChunk) error

	// Search finds the topK nearest chunks to the query vector,
	// ordered by ascending distance.
	Search(ctx context.Context, queryVector []float32, topK int) ([]SearchHit, error)

	// Clear removes every chunk, for a full re-index.
	Clear(ctx context.Context) error

	// Close releases resources used by the vector store.
	Close() error
}

// Config contains configuration for a vector database
type Config struct {
	Type       string // Type of vector database (e.g., "memory", "qdrant")
	Dimension  int    // Vector dimension size
	Addr       string // host:port for remote stores
	Collection string // Collection name for remote stores
}
