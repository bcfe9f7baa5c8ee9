package modelconfig_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"linksum/internal/modelconfig"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileWritesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "llm_config.json")

	cfg, err := modelconfig.Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, modelconfig.DefaultModel, cfg.Model)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"model":"llama-3.1-8b-instant"}`, string(data))
}

func TestLoadUsesFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "llm_config.json")

	cfg, err := modelconfig.Load(path, " gemma2-9b-it ")
	require.NoError(t, err)
	assert.Equal(t, "gemma2-9b-it", cfg.Model)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "llm_config.json")

	require.NoError(t, modelconfig.Save(path, modelconfig.Config{Model: "openai/gpt-oss-20b"}))

	cfg, err := modelconfig.Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "openai/gpt-oss-20b", cfg.Model)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestLoadEmptyFileYieldsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "llm_config.json")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))

	cfg, err := modelconfig.Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, modelconfig.DefaultModel, cfg.Model)
}

func TestLoadCorruptFileReturnsDefaultAndError(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Invalid JSON", "\x80\x04\x95pickle"},
		{"Empty model", `{"model": ""}`},
		{"Bad characters", `{"model": "drop table; --"}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "llm_config.json")
			require.NoError(t, os.WriteFile(path, []byte(test.content), 0o600))

			cfg, err := modelconfig.Load(path, "")
			require.Error(t, err)
			assert.Equal(t, modelconfig.DefaultModel, cfg.Model)
		})
	}
}

func TestSaveRejectsInvalidModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "llm_config.json")

	require.Error(t, modelconfig.Save(path, modelconfig.Config{Model: " "}))
	require.Error(t, modelconfig.Save(path, modelconfig.Config{Model: strings.Repeat("m", 129)}))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
