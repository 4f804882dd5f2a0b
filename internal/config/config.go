package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Renderer backends.
const (
	BackendChromium = "chromium"
	BackendHeadless = "headless"
)

// Cookie sources.
const (
	SourceDocument = "document"
	SourceStore    = "store"
)

// Config holds all helper configuration.
type Config struct {
	Logging  LogConfig
	Renderer RendererConfig
	Metrics  MetricsConfig
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RendererConfig selects and tunes the page renderer.
type RendererConfig struct {
	Backend      string        `envconfig:"CEIBA_HELPER_RENDERER" default:"chromium"`
	CookieSource string        `envconfig:"CEIBA_HELPER_COOKIE_SOURCE" default:"document"`
	Browser      string        `envconfig:"CEIBA_HELPER_BROWSER"`
	Headless     bool          `envconfig:"CEIBA_HELPER_BROWSER_HEADLESS" default:"false"`
	WindowWidth  int           `envconfig:"CEIBA_HELPER_WINDOW_WIDTH" default:"1050"`
	WindowHeight int           `envconfig:"CEIBA_HELPER_WINDOW_HEIGHT" default:"550"`
	HTTPTimeout  time.Duration `envconfig:"CEIBA_HELPER_HTTP_TIMEOUT" default:"30s"`
	HTTPRetries  int           `envconfig:"CEIBA_HELPER_HTTP_RETRIES" default:"3"`
	MaxRedirects int           `envconfig:"CEIBA_HELPER_MAX_REDIRECTS" default:"20"`
	UserAgent    string        `envconfig:"CEIBA_HELPER_USER_AGENT" default:"Mozilla/5.0 (ceiba-dl helper)"`
}

// MetricsConfig holds metrics output configuration.
type MetricsConfig struct {
	Textfile string `envconfig:"CEIBA_HELPER_METRICS_TEXTFILE"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Renderer: RendererConfig{
			Backend:      BackendChromium,
			CookieSource: SourceDocument,
			WindowWidth:  1050,
			WindowHeight: 550,
			HTTPTimeout:  30 * time.Second,
			HTTPRetries:  3,
			MaxRedirects: 20,
			UserAgent:    "Mozilla/5.0 (ceiba-dl helper)",
		},
	}
}

// Validate checks the values envconfig cannot check on its own.
func (c *Config) Validate() error {
	switch c.Renderer.Backend {
	case BackendChromium, BackendHeadless:
	default:
		return fmt.Errorf("unknown renderer %q", c.Renderer.Backend)
	}

	switch c.Renderer.CookieSource {
	case SourceDocument, SourceStore:
	default:
		return fmt.Errorf("unknown cookie source %q", c.Renderer.CookieSource)
	}

	if c.Renderer.WindowWidth <= 0 || c.Renderer.WindowHeight <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Renderer.WindowWidth, c.Renderer.WindowHeight)
	}
	if c.Renderer.MaxRedirects < 0 {
		return fmt.Errorf("invalid redirect limit %d", c.Renderer.MaxRedirects)
	}
	return nil
}
