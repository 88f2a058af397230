package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvModel, "")
	t.Setenv(EnvLogLevel, "")
}

func TestLoad(t *testing.T) {
	t.Run("ファイルがなければデフォルト値なのだ", func(t *testing.T) {
		clearEnv(t)
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
		assert.Equal(t, 5*time.Second, cfg.Booth.PrintDelay)
	})

	t.Run("YAMLの値で上書きする", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "ggsnap.yaml")
		yml := `
gemini:
  model: gemini-custom
  jpeg_quality: 80
capture:
  output_size: 256
  snapshot_url: http://192.0.2.10/snapshot.jpg
booth:
  countdown_from: 5
  print_delay: 2s
output_dir: /tmp/prints
`
		require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "gemini-custom", cfg.Gemini.Model)
		assert.Equal(t, 80, cfg.Gemini.JPEGQuality)
		assert.Equal(t, 256, cfg.Capture.OutputSize)
		assert.Equal(t, 720, cfg.Capture.IdealWidth, "unset keys keep defaults")
		assert.Equal(t, "http://192.0.2.10/snapshot.jpg", cfg.Capture.SnapshotURL)
		assert.Equal(t, 5, cfg.Booth.CountdownFrom)
		assert.Equal(t, 2*time.Second, cfg.Booth.PrintDelay)
		assert.Equal(t, 4*time.Second, cfg.Booth.DevelopDuration)
		assert.Equal(t, "/tmp/prints", cfg.OutputDir)
	})

	t.Run("環境変数が優先されるのだ", func(t *testing.T) {
		t.Setenv(EnvAPIKey, "secret")
		t.Setenv(EnvModel, "gemini-env")
		t.Setenv(EnvLogLevel, "debug")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "secret", cfg.Gemini.APIKey)
		assert.Equal(t, "gemini-env", cfg.Gemini.Model)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("不正なYAMLはエラー", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("booth: [1, 2"), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty model", func(c *Config) { c.Gemini.Model = " " }},
		{"jpeg quality", func(c *Config) { c.Gemini.JPEGQuality = 0 }},
		{"output size", func(c *Config) { c.Capture.OutputSize = 0 }},
		{"ideal resolution", func(c *Config) { c.Capture.IdealHeight = -1 }},
		{"countdown", func(c *Config) { c.Booth.CountdownFrom = -1 }},
		{"print delay", func(c *Config) { c.Booth.PrintDelay = -time.Second }},
		{"http timeout", func(c *Config) { c.HTTPTimeout = 0 }},
		{"log level", func(c *Config) { c.LogLevel = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	level, err = ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}
