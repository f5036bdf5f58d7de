package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/wellmate")
	t.Setenv("OPENAI_API_KEY", "sk-test")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", cfg.ChatModel)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10, cfg.MaxHistory)
	assert.Equal(t, "static", cfg.StaticDir)
	assert.Equal(t, []string{"http://localhost:8000", "http://127.0.0.1:8000"}, cfg.AllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("OPENAI_MODEL_CHAT", "gpt-4o")
	t.Setenv("MAX_HISTORY", "20")
	t.Setenv("ALLOWED_ORIGINS", "https://wellmate.example.com, https://staging.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", cfg.ChatModel)
	assert.Equal(t, 20, cfg.MaxHistory)
	assert.Equal(t, []string{"https://wellmate.example.com", "https://staging.example.com"}, cfg.AllowedOrigins)
}

func TestLoadUnparsableIntFallsBack(t *testing.T) {
	setRequired(t)
	t.Setenv("MAX_HISTORY", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.MaxHistory)
}

func TestLoadMissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadMissingOpenAIKey(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/wellmate")
	t.Setenv("OPENAI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestValidateRejectsNonPositiveMaxHistory(t *testing.T) {
	setRequired(t)
	t.Setenv("MAX_HISTORY", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_HISTORY")
}
