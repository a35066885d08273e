// Package config loads service configuration from a YAML file with
// environment-variable fallbacks for the paths and hosts that differ
// between deployments.
package config

import (
	"fmt"
	"os"

	"github.com/sagedoc/docchat/ai"
	"gopkg.in/yaml.v3"
)

// Config is the top-level service configuration.
type Config struct {
	// DBPath is the session database directory.
	DBPath string `yaml:"db_path"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	AI        AIConfig        `yaml:"ai"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
}

// AIConfig configures the completion and embedding collaborators.
type AIConfig struct {
	CompletionHost  string  `yaml:"completion_host"`
	EmbeddingHost   string  `yaml:"embedding_host"`
	CompletionModel string  `yaml:"completion_model"`
	EmbeddingModel  string  `yaml:"embedding_model"`
	Temperature     float64 `yaml:"temperature"`
	MaxTokens       int     `yaml:"max_tokens"`
}

// RetrievalConfig configures per-question chunk retrieval.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// ChunkingConfig configures document chunk packing.
type ChunkingConfig struct {
	MaxChars int `yaml:"max_chars"`
}

// Default returns a configuration suitable for a local Ollama setup.
func Default() *Config {
	aiDefaults := ai.DefaultConfig()
	return &Config{
		DBPath:   "docchat.db",
		LogLevel: "info",
		AI: AIConfig{
			CompletionHost:  aiDefaults.CompletionHost,
			EmbeddingHost:   aiDefaults.EmbeddingHost,
			CompletionModel: aiDefaults.CompletionModel,
			EmbeddingModel:  aiDefaults.EmbeddingModel,
			Temperature:     aiDefaults.Temperature,
			MaxTokens:       aiDefaults.MaxTokens,
		},
		Retrieval: RetrievalConfig{TopK: 4},
		Chunking:  ChunkingConfig{MaxChars: 4000},
	}
}

// Load reads a YAML config file and fills unset fields with defaults.
// A missing file is not an error; the defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.applyDefaults()

	return cfg, nil
}

// applyDefaults restores any field zeroed by an explicit empty value in the
// file.
func (c *Config) applyDefaults() {
	def := Default()
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.AI.CompletionHost == "" {
		c.AI.CompletionHost = def.AI.CompletionHost
	}
	if c.AI.EmbeddingHost == "" {
		c.AI.EmbeddingHost = def.AI.EmbeddingHost
	}
	if c.AI.CompletionModel == "" {
		c.AI.CompletionModel = def.AI.CompletionModel
	}
	if c.AI.EmbeddingModel == "" {
		c.AI.EmbeddingModel = def.AI.EmbeddingModel
	}
	if c.AI.Temperature == 0 {
		c.AI.Temperature = def.AI.Temperature
	}
	if c.AI.MaxTokens == 0 {
		c.AI.MaxTokens = def.AI.MaxTokens
	}
	if c.Retrieval.TopK == 0 {
		c.Retrieval.TopK = def.Retrieval.TopK
	}
	if c.Chunking.MaxChars == 0 {
		c.Chunking.MaxChars = def.Chunking.MaxChars
	}
}

// AIConfig converts the AI section into the provider configuration.
func (c *Config) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithCompletionHost(c.AI.CompletionHost),
		ai.WithEmbeddingHost(c.AI.EmbeddingHost),
		ai.WithCompletionModel(c.AI.CompletionModel),
		ai.WithEmbeddingModel(c.AI.EmbeddingModel),
		ai.WithTemperature(c.AI.Temperature),
		ai.WithMaxTokens(c.AI.MaxTokens),
	)
}
