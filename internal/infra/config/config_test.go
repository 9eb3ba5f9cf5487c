package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_CachingParameters_Defaults(t *testing.T) {
	envVars := []string{
		"CACHE_TTL_HOURS",
		"RECOMMENDATION_COUNT",
		"LLM_TEMPERATURE",
	}
	for _, key := range envVars {
		_ = os.Unsetenv(key)
	}

	cfg := Load()

	assert.Equal(t, 24, cfg.CacheTTLHours, "cache TTL should default to 24h")
	assert.Equal(t, 15, cfg.RecommendationCount, "count should default to 15")
	assert.Equal(t, 0.7, cfg.LLMTemperature)
	assert.False(t, cfg.RefreshEnabled, "refresh worker should be off by default")
}

func TestLoad_CachingParameters_FromEnv(t *testing.T) {
	t.Setenv("CACHE_TTL_HOURS", "6")
	t.Setenv("RECOMMENDATION_COUNT", "10")
	t.Setenv("LLM_TEMPERATURE", "0.2")
	t.Setenv("REFRESH_ENABLED", "true")

	cfg := Load()

	assert.Equal(t, 6, cfg.CacheTTLHours)
	assert.Equal(t, 10, cfg.RecommendationCount)
	assert.Equal(t, 0.2, cfg.LLMTemperature)
	assert.True(t, cfg.RefreshEnabled)
}

func TestLoad_SecretFromFile(t *testing.T) {
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "llm_api_key")
	if err := os.WriteFile(keyFile, []byte("sk-test-key\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_ = os.Unsetenv("LLM_API_KEY")
	t.Setenv("LLM_API_KEY_FILE", keyFile)

	cfg := Load()
	assert.Equal(t, "sk-test-key", cfg.LLMAPIKey, "file content should be trimmed")
}

func TestLoad_DirectEnvWinsOverFile(t *testing.T) {
	t.Setenv("LLM_API_KEY", "sk-direct")
	t.Setenv("LLM_API_KEY_FILE", "/nonexistent")

	cfg := Load()
	assert.Equal(t, "sk-direct", cfg.LLMAPIKey)
}
