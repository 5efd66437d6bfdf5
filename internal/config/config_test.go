package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jweber/bonscan/internal/config"
)

func TestInitializeConfig_Defaults(t *testing.T) {
	cfg, err := config.InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)

	assert.Equal(t, "data", cfg.Data.Directory)
	assert.Equal(t, "mappings.yaml", cfg.Data.MappingsFile)
	assert.Equal(t, "receipts.db", cfg.Data.ReceiptsFile)

	assert.Equal(t, 45, cfg.AI.TimeoutSeconds)
	assert.Equal(t, 3, cfg.AI.MaxAttempts)
	assert.True(t, cfg.AI.OpenAI.Enabled)
	assert.Equal(t, "https://api.openai.com/v1", cfg.AI.OpenAI.BaseURL)
	assert.False(t, cfg.AI.Ollama.Enabled)
	assert.Equal(t, "http://localhost:11434", cfg.AI.Ollama.BaseURL)
	assert.True(t, cfg.AI.Gemini.Enabled)
}

func TestInitializeConfig_EnvOverrides(t *testing.T) {
	t.Setenv("BONSCAN_LOG_LEVEL", "debug")
	t.Setenv("BONSCAN_AI_MAX_ATTEMPTS", "5")

	cfg, err := config.InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5, cfg.AI.MaxAttempts)
}

func TestInitializeConfig_APIKeysFromConventionalEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GEMINI_API_KEY", "gm-test")

	cfg, err := config.InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.AI.OpenAI.APIKey)
	assert.Equal(t, "gm-test", cfg.AI.Gemini.APIKey)
}

func TestInitializeConfig_InvalidLevelRejected(t *testing.T) {
	t.Setenv("BONSCAN_LOG_LEVEL", "loud")

	_, err := config.InitializeConfig()
	assert.Error(t, err)
}
