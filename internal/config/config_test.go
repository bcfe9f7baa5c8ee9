package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"linksum/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://api.groq.com/openai/v1/", cfg.LLMBaseURL)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.DefaultModel)
	assert.Equal(t, 300, cfg.SummaryWords)
	assert.Equal(t, []string{"en", "hi"}, cfg.TranscriptLangs)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.False(t, cfg.InsecureSkipVerify)
	assert.Equal(t, "db.sqlite", cfg.DBPath)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.AllowedUsers)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("LLM_API_KEY", "secret")
	t.Setenv("TRANSCRIPT_LANGUAGES", "de,en")
	t.Setenv("ALLOWED_USERS", "1,2")
	t.Setenv("INSECURE_SKIP_VERIFY", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SUMMARY_WORDS", "120")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.LLMAPIKey)
	assert.Equal(t, []string{"de", "en"}, cfg.TranscriptLangs)
	assert.Equal(t, []int64{1, 2}, cfg.AllowedUsers)
	assert.True(t, cfg.InsecureSkipVerify)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 120, cfg.SummaryWords)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	t.Setenv("SUMMARY_WORDS", "0")
	t.Setenv("REQUESTS_PER_MINUTE", "-1")

	_, err := config.LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUMMARY_WORDS")
	assert.Contains(t, err.Error(), "REQUESTS_PER_MINUTE")
}

func TestLoadConfigRejectsMalformedAllowedUsers(t *testing.T) {
	t.Setenv("ALLOWED_USERS", "1,abc")

	_, err := config.LoadConfig()
	require.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DEFAULT_MODEL=from-dotenv\n"), 0o600))

	t.Setenv("DEFAULT_MODEL", "")
	require.NoError(t, os.Unsetenv("DEFAULT_MODEL"))

	require.NoError(t, config.LoadDotEnv(path))
	t.Cleanup(func() { _ = os.Unsetenv("DEFAULT_MODEL") })

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.DefaultModel)

	require.NoError(t, config.LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}
