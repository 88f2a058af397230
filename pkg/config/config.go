package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// 環境変数名
const (
	EnvAPIKey   = "GEMINI_API_KEY"
	EnvModel    = "GGSNAP_MODEL"
	EnvLogLevel = "GGSNAP_LOG_LEVEL"
)

// Config は ggsnap の設定です。
type Config struct {
	Gemini  GeminiConfig  `yaml:"gemini"`
	Capture CaptureConfig `yaml:"capture"`
	Booth   BoothConfig   `yaml:"booth"`

	HTTPTimeout time.Duration `yaml:"http_timeout"`
	OutputDir   string        `yaml:"output_dir"`
	// CatalogPath が空の場合は組み込みのキャラクター一覧を使います
	CatalogPath string `yaml:"catalog_path"`
	LogLevel    string `yaml:"log_level"`
}

type GeminiConfig struct {
	APIKey       string `yaml:"api_key"`
	Model        string `yaml:"model"`
	SystemPrompt string `yaml:"system_prompt"`
	JPEGQuality  int    `yaml:"jpeg_quality"`
}

type CaptureConfig struct {
	OutputSize  int    `yaml:"output_size"`
	IdealWidth  int    `yaml:"ideal_width"`
	IdealHeight int    `yaml:"ideal_height"`
	SnapshotURL string `yaml:"snapshot_url"`
}

type BoothConfig struct {
	CountdownFrom   int           `yaml:"countdown_from"`
	CountdownTick   time.Duration `yaml:"countdown_tick"`
	PrintDelay      time.Duration `yaml:"print_delay"`
	DevelopDuration time.Duration `yaml:"develop_duration"`
}

// Default はデフォルト値の設定を返します。
func Default() *Config {
	return &Config{
		Gemini: GeminiConfig{
			Model:       "gemini-2.5-flash-image",
			JPEGQuality: 90,
		},
		Capture: CaptureConfig{
			OutputSize:  512,
			IdealWidth:  720,
			IdealHeight: 720,
		},
		Booth: BoothConfig{
			CountdownFrom:   3,
			CountdownTick:   time.Second,
			PrintDelay:      5 * time.Second,
			DevelopDuration: 4 * time.Second,
		},
		HTTPTimeout: 30 * time.Second,
		OutputDir:   ".",
		LogLevel:    "info",
	}
}

// Load は設定ファイルを読み込み、環境変数で上書きして検証します。
// path が空、またはファイルが存在しない場合はデフォルト値から始めます。
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("設定ファイルの読み込みに失敗しました: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("設定ファイルの解析に失敗しました (%s): %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Gemini.APIKey = getEnv(EnvAPIKey, c.Gemini.APIKey)
	c.Gemini.Model = getEnv(EnvModel, c.Gemini.Model)
	c.LogLevel = getEnv(EnvLogLevel, c.LogLevel)
}

// Validate は値の範囲を検証します。API キーの有無は生成時に確認します。
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Gemini.Model) == "" {
		return fmt.Errorf("gemini.model is required")
	}
	if c.Gemini.JPEGQuality < 1 || c.Gemini.JPEGQuality > 100 {
		return fmt.Errorf("gemini.jpeg_quality must be between 1 and 100: %d", c.Gemini.JPEGQuality)
	}
	if c.Capture.OutputSize <= 0 {
		return fmt.Errorf("capture.output_size must be positive: %d", c.Capture.OutputSize)
	}
	if c.Capture.IdealWidth <= 0 || c.Capture.IdealHeight <= 0 {
		return fmt.Errorf("capture ideal resolution must be positive")
	}
	if c.Booth.CountdownFrom < 0 {
		return fmt.Errorf("booth.countdown_from must not be negative")
	}
	if c.Booth.CountdownTick < 0 || c.Booth.PrintDelay < 0 || c.Booth.DevelopDuration < 0 {
		return fmt.Errorf("booth durations must not be negative")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel はログレベル名を slog.Level に変換します。
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
