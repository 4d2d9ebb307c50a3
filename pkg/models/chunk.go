package models

// ContentChunk represents an indexed fragment of a source FAQ document.
// Chunks are built once during the offline indexing pass and are read-only
// at query time; a re-index replaces the whole set.
type ContentChunk struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	SourceFile string    `json:"source_file"`
	ChunkIndex int       `json:"chunk_index"`
	Embedding  []float32 `json:"embedding,omitempty"`
}

// ScoredChunk pairs a chunk with its similarity to the query.
type ScoredChunk struct {
	Chunk      ContentChunk `json:"chunk"`
	Similarity float32      `json:"similarity"`
}

// Candidate records the scoring outcome for every chunk the retriever
// considered, whether or not it passed the threshold. Debug-only: never
// shown to the end user.
type Candidate struct {
	ChunkID    string  `json:"chunk_id"`
	SourceFile string  `json:"source_file"`
	Similarity float32 `json:"similarity"`
	Threshold  float32 `json:"threshold"`
	Passed     bool    `json:"passed"`
}

// RetrievalResult is the per-query output of the retriever.
type RetrievalResult struct {
	Chunks     []ScoredChunk `json:"chunks"`
	Candidates []Candidate   `json:"candidates"`
}
