package retrieval

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/clearview/faq-assistant/pkg/enhance"
	"github.com/clearview/faq-assistant/pkg/intent"
	"github.com/clearview/faq-assistant/pkg/models"
	"github.com/clearview/faq-assistant/pkg/vector"
)

// fakeEmbedder returns a fixed vector for any text
type fakeEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (f *fakeEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	return f.vector, f.err
}

// fakeStore returns canned hits and records searches
type fakeStore struct {
	hits     [][]vector.SearchHit
	searches int
	err      error
}

func (f *fakeStore) Upsert(ctx context.Context, chunks []models.ContentChunk) error { return nil }

func (f *fakeStore) Search(ctx context.Context, queryVector []float32, topK int) ([]vector.SearchHit, error) {
	if f.err != nil {
		return nil, f.err
	}
	i := f.searches
	f.searches++
	if i >= len(f.hits) {
		return nil, nil
	}
	return f.hits[i], nil
}

func (f *fakeStore) Clear(ctx context.Context) error { return nil }
func (f *fakeStore) Close() error                    { return nil }

func hit(id, source string, distance float32) vector.SearchHit {
	return vector.SearchHit{
		Chunk:    models.ContentChunk{ID: id, Text: "text " + id, SourceFile: source},
		Distance: distance,
	}
}

func newTestRetriever(embedder Embedder, store vector.Store, cfg Config) *Retriever {
	return NewRetriever(embedder, store, intent.NewClassifier(intent.DefaultPhrases()), cfg)
}

func TestRetrieve_ThresholdAsymmetry(t *testing.T) {
	// Two chunks with the same similarity falling between the two
	// thresholds: the sensitive-source chunk passes, the other fails.
	store := &fakeStore{hits: [][]vector.SearchHit{{
		hit("plain", "procedures.md", 0.3),  // similarity 0.7
		hit("tender", "fears-and-safety.md", 0.3), // similarity 0.7
	}}}
	r := newTestRetriever(&fakeEmbedder{vector: []float32{1, 0}}, store, Config{
		TopK:               5,
		ScoreThreshold:     0.8,
		SensitiveThreshold: 0.6,
		SensitiveSources:   []string{"fears-and-safety.md"},
	})

	result, err := r.Retrieve(context.Background(), "how are flaps created", nil)
	if err != nil {
		t.Fatalf("retrieve failed: %v", err)
	}

	if len(result.Chunks) != 1 || result.Chunks[0].Chunk.ID != "tender" {
		t.Fatalf("expected only the sensitive chunk to pass, got %+v", result.Chunks)
	}
	if len(result.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(result.Candidates))
	}
	for _, cand := range result.Candidates {
		switch cand.ChunkID {
		case "plain":
			if cand.Passed || cand.Threshold != 0.8 {
				t.Errorf("plain candidate: %+v", cand)
			}
		case "tender":
			if !cand.Passed || cand.Threshold != 0.6 {
				t.Errorf("tender candidate: %+v", cand)
			}
		}
	}
}

func TestRetrieve_SensitiveQueryLowersAllThresholds(t *testing.T) {
	store := &fakeStore{hits: [][]vector.SearchHit{{
		hit("plain", "procedures.md", 0.3), // similarity 0.7
	}}}
	r := newTestRetriever(&fakeEmbedder{vector: []float32{1, 0}}, store, Config{
		TopK:               5,
		ScoreThreshold:     0.8,
		SensitiveThreshold: 0.6,
	})

	result, err := r.Retrieve(context.Background(), "I'm worried about going blind", nil)
	if err != nil {
		t.Fatalf("retrieve failed: %v", err)
	}
	if len(result.Chunks) != 1 {
		t.Errorf("distressed query should use the lower threshold for every chunk")
	}
}

func TestRetrieve_ComparisonIssuesTwoSearchesAndDeduplicates(t *testing.T) {
	store := &fakeStore{hits: [][]vector.SearchHit{
		{hit("a", "lasik.md", 0.1), hit("shared", "procedures.md", 0.2)},
		{hit("b", "smile.md", 0.15), hit("shared", "procedures.md", 0.2)},
	}}
	embedder := &fakeEmbedder{vector: []float32{1, 0}}
	r := newTestRetriever(embedder, store, Config{TopK: 5, ScoreThreshold: 0.5})

	cmp := &enhance.Comparison{A: "LASIK", B: "SMILE"}
	result, err := r.Retrieve(context.Background(), "Is LASIK or SMILE better?", cmp)
	if err != nil {
		t.Fatalf("retrieve failed: %v", err)
	}

	if store.searches != 2 {
		t.Errorf("expected 2 searches, got %d", store.searches)
	}
	if embedder.calls != 2 {
		t.Errorf("expected 2 embeddings, got %d", embedder.calls)
	}
	if len(result.Chunks) != 3 {
		t.Fatalf("expected 3 deduplicated chunks, got %d", len(result.Chunks))
	}
	if result.Chunks[0].Chunk.ID != "a" || result.Chunks[1].Chunk.ID != "b" {
		t.Errorf("chunks should be ordered by similarity: %+v", result.Chunks)
	}
}

func TestRetrieve_ComparisonCapsAtTopK(t *testing.T) {
	store := &fakeStore{hits: [][]vector.SearchHit{
		{hit("a", "x.md", 0.1), hit("b", "x.md", 0.2)},
		{hit("c", "x.md", 0.15), hit("d", "x.md", 0.25)},
	}}
	r := newTestRetriever(&fakeEmbedder{vector: []float32{1, 0}}, store, Config{TopK: 3, ScoreThreshold: 0.1})

	result, err := r.Retrieve(context.Background(), "lasik vs smile", &enhance.Comparison{A: "LASIK", B: "SMILE"})
	if err != nil {
		t.Fatalf("retrieve failed: %v", err)
	}
	if len(result.Candidates) != 3 {
		t.Errorf("expected TopK candidates overall, got %d", len(result.Candidates))
	}
}

func TestRetrieve_Idempotent(t *testing.T) {
	mkStore := func() vector.Store {
		s := vector.NewMemoryStore()
		_ = s.Upsert(context.Background(), []models.ContentChunk{
			{ID: "1", Text: "lasik costs", SourceFile: "cost.md", Embedding: []float32{1, 0}},
			{ID: "2", Text: "prk recovery", SourceFile: "recovery.md", Embedding: []float32{0, 1}},
			{ID: "3", Text: "smile details", SourceFile: "smile.md", Embedding: []float32{1, 1}},
		})
		return s
	}

	run := func() *models.RetrievalResult {
		r := newTestRetriever(&fakeEmbedder{vector: []float32{1, 0}}, mkStore(), Config{TopK: 3, ScoreThreshold: 0.5})
		result, err := r.Retrieve(context.Background(), "lasik cost", nil)
		if err != nil {
			t.Fatalf("retrieve failed: %v", err)
		}
		return result
	}

	first := run()
	second := run()
	if !reflect.DeepEqual(first, second) {
		t.Error("identical query and store state must produce identical results")
	}
}

func TestRetrieve_EmbedderErrorPropagates(t *testing.T) {
	r := newTestRetriever(&fakeEmbedder{err: errors.New("embedding service down")}, &fakeStore{}, Config{TopK: 5})
	if _, err := r.Retrieve(context.Background(), "anything", nil); err == nil {
		t.Error("expected embedder error to propagate")
	}
}

func TestRetrieve_StoreErrorPropagates(t *testing.T) {
	r := newTestRetriever(&fakeEmbedder{vector: []float32{1}}, &fakeStore{err: errors.New("qdrant down")}, Config{TopK: 5})
	if _, err := r.Retrieve(context.Background(), "anything", nil); err == nil {
		t.Error("expected store error to propagate")
	}
}
