package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perrydahl/skipper/internal/envfile"
)

func writeEnv(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, envfile.Name), []byte(content), 0o644))
}

// unsetEnv clears key for the test's duration so host values cannot leak in.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func clearHostEnv(t *testing.T) {
	t.Helper()
	unsetEnv(t, "GOOGLE_API_KEY")
	unsetEnv(t, "GEMINI_MODEL")
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	clearHostEnv(t)
	dir := t.TempDir()
	writeEnv(t, dir, "GOOGLE_API_KEY=abc123\nGEMINI_MODEL=gemini-2.5-pro\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "abc123", cfg.GoogleAPIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.GeminiModel)
}

func TestLoad_DefaultsModelWhenAbsent(t *testing.T) {
	clearHostEnv(t)
	dir := t.TempDir()
	writeEnv(t, dir, "GOOGLE_API_KEY=abc123\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
}

func TestLoad_ProcessEnvironmentWins(t *testing.T) {
	clearHostEnv(t)
	dir := t.TempDir()
	writeEnv(t, dir, "GOOGLE_API_KEY=from-file\n")
	t.Setenv("GOOGLE_API_KEY", "from-env")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.GoogleAPIKey)
}

func TestLoad_MissingFileIsAnError(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestAPIKeyConfigured(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want bool
	}{
		{"real key", "AIzaSyExample", true},
		{"placeholder", envfile.PlaceholderAPIKey, false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{GoogleAPIKey: tt.key}
			assert.Equal(t, tt.want, cfg.APIKeyConfigured())
		})
	}
}

func TestEnviron(t *testing.T) {
	cfg := &Config{GoogleAPIKey: "k", GeminiModel: "m"}
	assert.Equal(t, []string{"GOOGLE_API_KEY=k", "GEMINI_MODEL=m"}, cfg.Environ())
}
