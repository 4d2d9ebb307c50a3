// Package retrieval orchestrates embedding, vector search and threshold
// filtering for the answer pipeline.
package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/clearview/faq-assistant/pkg/enhance"
	"github.com/clearview/faq-assistant/pkg/intent"
	"github.com/clearview/faq-assistant/pkg/models"
	"github.com/clearview/faq-assistant/pkg/vector"
)

// Embedder turns text into a query vector. Satisfied by llm.Client.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Config contains configuration for a retrieval service. All values are
// fixed at construction, never per-query.
type Config struct {
	// TopK is the number of candidates considered per search.
	TopK int

	// ScoreThreshold is the default minimum similarity for results.
	ScoreThreshold float32

	// SensitiveThreshold is the lower bar applied to emotionally or
	// financially sensitive content. Missing a reassurance chunk costs
	// more than surfacing a marginal one.
	SensitiveThreshold float32

	// SensitiveSources lists source files whose chunks always use the
	// sensitive threshold.
	SensitiveSources []string
}

// comparisonSuffix is appended to each procedure name when a comparison
// query fans out into per-procedure searches.
const comparisonSuffix = "benefits features characteristics"

// Retriever runs similarity search with per-chunk threshold overrides.
type Retriever struct {
	embedder   Embedder
	store      vector.Store
	classifier *intent.Classifier
	cfg        Config
	sensitive  map[string]bool
}

// NewRetriever creates a Retriever with injected dependencies.
func NewRetriever(embedder Embedder, store vector.Store, classifier *intent.Classifier, cfg Config) *Retriever {
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	sensitive := make(map[string]bool, len(cfg.SensitiveSources))
	for _, src := range cfg.SensitiveSources {
		sensitive[src] = true
	}
	return &Retriever{
		embedder:   embedder,
		store:      store,
		classifier: classifier,
		cfg:        cfg,
		sensitive:  sensitive,
	}
}

// DefaultThreshold returns the baseline similarity threshold, for
// observability output.
func (r *Retriever) DefaultThreshold() float32 {
	return r.cfg.ScoreThreshold
}

// Retrieve returns the threshold-passing chunks for query, ordered by
// similarity descending, plus the full candidate list for observability.
// Errors from the embedder or the store propagate unchanged; retrieval
// never returns partial results.
func (r *Retriever) Retrieve(ctx context.Context, query string, comparison *enhance.Comparison) (*models.RetrievalResult, error) {
	var hits []vector.SearchHit
	var err error

	if comparison != nil {
		hits, err = r.searchComparison(ctx, comparison)
	} else {
		hits, err = r.searchOne(ctx, query)
	}
	if err != nil {
		return nil, err
	}

	// A distressed query lowers the bar for every chunk, not just the
	// flagged sources.
	queryIsSensitive := r.classifier.IsEmotionalConcern(query) || r.classifier.IsFinancialConcern(query)

	result := &models.RetrievalResult{}
	for _, hit := range hits {
		similarity := 1 - hit.Distance

		threshold := r.cfg.ScoreThreshold
		if queryIsSensitive || r.sensitive[hit.Chunk.SourceFile] {
			threshold = r.cfg.SensitiveThreshold
		}

		passed := similarity >= threshold
		result.Candidates = append(result.Candidates, models.Candidate{
			ChunkID:    hit.Chunk.ID,
			SourceFile: hit.Chunk.SourceFile,
			Similarity: similarity,
			Threshold:  threshold,
			Passed:     passed,
		})
		if passed {
			result.Chunks = append(result.Chunks, models.ScoredChunk{
				Chunk:      hit.Chunk,
				Similarity: similarity,
			})
		}
	}

	sort.SliceStable(result.Chunks, func(i, j int) bool {
		return result.Chunks[i].Similarity > result.Chunks[j].Similarity
	})

	return result, nil
}

func (r *Retriever) searchOne(ctx context.Context, query string) ([]vector.SearchHit, error) {
	embedding, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	hits, err := r.store.Search(ctx, embedding, r.cfg.TopK)
	if err != nil {
		return nil, fmt.Errorf("searching vectors: %w", err)
	}
	return hits, nil
}

// searchComparison issues one search per compared procedure and merges the
// results, deduplicated by chunk ID and capped at TopK overall.
func (r *Retriever) searchComparison(ctx context.Context, cmp *enhance.Comparison) ([]vector.SearchHit, error) {
	var merged []vector.SearchHit
	seen := make(map[string]bool)

	for _, procedure := range []string{cmp.A, cmp.B} {
		subQuery := strings.TrimSpace(procedure + " " + comparisonSuffix)
		hits, err := r.searchOne(ctx, subQuery)
		if err != nil {
			return nil, err
		}
		for _, hit := range hits {
			if seen[hit.Chunk.ID] {
				continue
			}
			seen[hit.Chunk.ID] = true
			merged = append(merged, hit)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Distance < merged[j].Distance
	})
	if len(merged) > r.cfg.TopK {
		merged = merged[:r.cfg.TopK]
	}
	return merged, nil
}
