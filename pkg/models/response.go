package models

// DebugInfo carries retrieval observability data attached to a response.
// Logged, never rendered to the end user.
type DebugInfo struct {
	Candidates    []Candidate `json:"candidates,omitempty"`
	Threshold     float32     `json:"threshold"`
	QueryEnhanced bool        `json:"query_enhanced"`
	SearchQuery   string      `json:"search_query,omitempty"`
}

// AnswerResponse is the pipeline's final payload for one message.
type AnswerResponse struct {
	Answer          string        `json:"answer"`
	GroundingChunks []ScoredChunk `json:"grounding_chunks,omitempty"`
	UsedFallback    bool          `json:"used_fallback"`
	Intent          IntentSignal  `json:"intent"`
	Suggestions     []string      `json:"suggestions,omitempty"`
	Debug           *DebugInfo    `json:"debug,omitempty"`
}

// StreamEventType discriminates increments of a streaming answer.
type StreamEventType string

const (
	StreamContent StreamEventType = "content"
	StreamDone    StreamEventType = "done"
	StreamError   StreamEventType = "error"
)

// StreamEvent is one increment of the streaming answer variant. Content
// events carry partial text in generation order; the final done event
// carries the assembled AnswerResponse.
type StreamEvent struct {
	Type     StreamEventType `json:"type"`
	Content  string          `json:"content,omitempty"`
	Response *AnswerResponse `json:"response,omitempty"`
	Err      string          `json:"error,omitempty"`
}
