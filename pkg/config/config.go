// Package config loads the assistant's on-disk configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// OllamaConfig points the assistant at an Ollama server.
type OllamaConfig struct {
	URL        string `yaml:"url"`
	Model      string `yaml:"model"`
	EmbedModel string `yaml:"embed_model"`
}

// QdrantConfig contains connection details for the vector store.
type QdrantConfig struct {
	Addr       string `yaml:"addr"`
	Collection string `yaml:"collection"`
	Dimension  int    `yaml:"dimension"`
}

// RetrievalConfig holds the fixed retrieval constants.
type RetrievalConfig struct {
	TopK               int      `yaml:"top_k"`
	ScoreThreshold     float32  `yaml:"score_threshold"`
	SensitiveThreshold float32  `yaml:"sensitive_threshold"`
	SensitiveSources   []string `yaml:"sensitive_sources"`
}

// AnswerConfig holds answer-generation constants.
type AnswerConfig struct {
	Phone           string  `yaml:"phone"`
	MinContextChars int     `yaml:"min_context_chars"`
	HistoryWindow   int     `yaml:"history_window"`
	Temperature     float32 `yaml:"temperature"`
	MaxTokens       int     `yaml:"max_tokens"`
}

// AppConfig is the root configuration structure.
type AppConfig struct {
	Ollama    OllamaConfig    `yaml:"ollama"`
	Qdrant    QdrantConfig    `yaml:"qdrant"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Answer    AnswerConfig    `yaml:"answer"`
}

// Load reads a config from path. A missing file returns the defaults;
// present fields override them, absent ones keep their default value.
func Load(path string) (*AppConfig, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)
	return cfg, nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Ollama: OllamaConfig{
			URL:        "http://localhost:11434/api",
			Model:      "llama3.2",
			EmbedModel: "nomic-embed-text",
		},
		Qdrant: QdrantConfig{
			Addr:       "localhost:6334",
			Collection: "clearview_faq",
			Dimension:  768,
		},
		Retrieval: RetrievalConfig{
			TopK:               5,
			ScoreThreshold:     0.55,
			SensitiveThreshold: 0.40,
			SensitiveSources: []string{
				"fears-and-safety.md",
				"cost-and-financing.md",
			},
		},
		Answer: AnswerConfig{
			Phone:           "(555) 014-2020",
			MinContextChars: 80,
			HistoryWindow:   6,
			Temperature:     0.3,
			MaxTokens:       300,
		},
	}
}

func applyDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.Ollama.URL == "" {
		cfg.Ollama.URL = def.Ollama.URL
	}
	if cfg.Ollama.Model == "" {
		cfg.Ollama.Model = def.Ollama.Model
	}
	if cfg.Ollama.EmbedModel == "" {
		cfg.Ollama.EmbedModel = def.Ollama.EmbedModel
	}
	if cfg.Qdrant.Addr == "" {
		cfg.Qdrant.Addr = def.Qdrant.Addr
	}
	if cfg.Qdrant.Collection == "" {
		cfg.Qdrant.Collection = def.Qdrant.Collection
	}
	if cfg.Qdrant.Dimension == 0 {
		cfg.Qdrant.Dimension = def.Qdrant.Dimension
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = def.Retrieval.TopK
	}
	if cfg.Retrieval.ScoreThreshold == 0 {
		cfg.Retrieval.ScoreThreshold = def.Retrieval.ScoreThreshold
	}
	if cfg.Retrieval.SensitiveThreshold == 0 {
		cfg.Retrieval.SensitiveThreshold = def.Retrieval.SensitiveThreshold
	}
	if cfg.Answer.Phone == "" {
		cfg.Answer.Phone = def.Answer.Phone
	}
	if cfg.Answer.MinContextChars == 0 {
		cfg.Answer.MinContextChars = def.Answer.MinContextChars
	}
	if cfg.Answer.HistoryWindow == 0 {
		cfg.Answer.HistoryWindow = def.Answer.HistoryWindow
	}
	if cfg.Answer.Temperature == 0 {
		cfg.Answer.Temperature = def.Answer.Temperature
	}
	if cfg.Answer.MaxTokens == 0 {
		cfg.Answer.MaxTokens = def.Answer.MaxTokens
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("OLLAMA_API_URL"); v != "" {
		cfg.Ollama.URL = v
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		cfg.Ollama.Model = v
	}
	if v := os.Getenv("OLLAMA_EMBED_MODEL"); v != "" {
		cfg.Ollama.EmbedModel = v
	}
	if v := os.Getenv("QDRANT_ADDR"); v != "" {
		cfg.Qdrant.Addr = v
	}
}
