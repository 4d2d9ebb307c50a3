package vector

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/clearview/faq-assistant/pkg/models"
)

// MemoryStore is a brute-force cosine-distance store. Useful for tests and
// for running the assistant without a Qdrant server.
type MemoryStore struct {
	mu     sync.RWMutex
	chunks []models.ContentChunk
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Upsert appends chunks, replacing any chunk with the same ID.
func (s *MemoryStore) Upsert(ctx context.Context, chunks []models.ContentChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, chunk := range chunks {
		if len(chunk.Embedding) == 0 {
			return errors.New("chunk has no embedding")
		}
		replaced := false
		for i := range s.chunks {
			if s.chunks[i].ID == chunk.ID {
				s.chunks[i] = chunk
				replaced = true
				break
			}
		}
		if !replaced {
			s.chunks = append(s.chunks, chunk)
		}
	}
	return nil
}

// Search scans every chunk and returns the topK nearest by cosine
// distance, ascending. Ties break on chunk ID so results are stable.
func (s *MemoryStore) Search(ctx context.Context, queryVector []float32, topK int) ([]SearchHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]SearchHit, 0, len(s.chunks))
	for _, chunk := range s.chunks {
		hits = append(hits, SearchHit{
			Chunk:    chunk,
			Distance: 1 - cosineSimilarity(queryVector, chunk.Embedding),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].Chunk.ID < hits[j].Chunk.ID
	})

	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// Clear removes every chunk.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = nil
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

func cosineSimilarity(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
