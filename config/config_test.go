package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 4, cfg.Retrieval.TopK)
	assert.Equal(t, 4000, cfg.Chunking.MaxChars)
}

func TestLoad_OverridesAndDefaultsMix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
db_path: /var/lib/docchat
ai:
  completion_model: qwen2.5:3b
  temperature: 0.7
retrieval:
  top_k: 8
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/docchat", cfg.DBPath)
	assert.Equal(t, "qwen2.5:3b", cfg.AI.CompletionModel)
	assert.Equal(t, 0.7, cfg.AI.Temperature)
	assert.Equal(t, 8, cfg.Retrieval.TopK)

	// Untouched fields keep their defaults
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, Default().AI.EmbeddingModel, cfg.AI.EmbeddingModel)
	assert.Equal(t, 4000, cfg.Chunking.MaxChars)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: [unterminated"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestAIConfig_Conversion(t *testing.T) {
	cfg := Default()
	cfg.AI.CompletionModel = "llama3"
	cfg.AI.MaxTokens = 2048

	aiCfg := cfg.AIConfig()
	require.NoError(t, aiCfg.Validate())
	assert.Equal(t, "llama3", aiCfg.CompletionModel)
	assert.Equal(t, 2048, aiCfg.MaxTokens)
}
