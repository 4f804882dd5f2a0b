package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Renderer config
	assert.Equal(t, BackendChromium, cfg.Renderer.Backend)
	assert.Equal(t, SourceDocument, cfg.Renderer.CookieSource)
	assert.Equal(t, 1050, cfg.Renderer.WindowWidth)
	assert.Equal(t, 550, cfg.Renderer.WindowHeight)
	assert.Equal(t, 30*time.Second, cfg.Renderer.HTTPTimeout)
	assert.Equal(t, 20, cfg.Renderer.MaxRedirects)

	// Metrics config
	assert.Empty(t, cfg.Metrics.Textfile)

	require.NoError(t, cfg.Validate())
}

func TestLoadMatchesDefault(t *testing.T) {
	// Should match the defaults when no env vars are set
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"LOG_LEVEL":                     "debug",
		"LOG_DEV":                       "true",
		"CEIBA_HELPER_RENDERER":         "headless",
		"CEIBA_HELPER_COOKIE_SOURCE":    "store",
		"CEIBA_HELPER_BROWSER":          "/usr/bin/chromium",
		"CEIBA_HELPER_BROWSER_HEADLESS": "true",
		"CEIBA_HELPER_WINDOW_WIDTH":     "800",
		"CEIBA_HELPER_WINDOW_HEIGHT":    "600",
		"CEIBA_HELPER_HTTP_TIMEOUT":     "5s",
		"CEIBA_HELPER_HTTP_RETRIES":     "0",
		"CEIBA_HELPER_MAX_REDIRECTS":    "3",
		"CEIBA_HELPER_USER_AGENT":       "test-agent",
		"CEIBA_HELPER_METRICS_TEXTFILE": "/tmp/helper.prom",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)

	assert.Equal(t, BackendHeadless, cfg.Renderer.Backend)
	assert.Equal(t, SourceStore, cfg.Renderer.CookieSource)
	assert.Equal(t, "/usr/bin/chromium", cfg.Renderer.Browser)
	assert.True(t, cfg.Renderer.Headless)
	assert.Equal(t, 800, cfg.Renderer.WindowWidth)
	assert.Equal(t, 600, cfg.Renderer.WindowHeight)
	assert.Equal(t, 5*time.Second, cfg.Renderer.HTTPTimeout)
	assert.Equal(t, 0, cfg.Renderer.HTTPRetries)
	assert.Equal(t, 3, cfg.Renderer.MaxRedirects)
	assert.Equal(t, "test-agent", cfg.Renderer.UserAgent)

	assert.Equal(t, "/tmp/helper.prom", cfg.Metrics.Textfile)
	require.NoError(t, cfg.Validate())
}

func TestLoadInvalidValue(t *testing.T) {
	t.Setenv("CEIBA_HELPER_HTTP_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)

	// LoadOrDefault falls back instead of failing
	cfg := LoadOrDefault()
	assert.Equal(t, 30*time.Second, cfg.Renderer.HTTPTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}, wantErr: false},
		{name: "headless store", mutate: func(c *Config) {
			c.Renderer.Backend = BackendHeadless
			c.Renderer.CookieSource = SourceStore
		}, wantErr: false},
		{name: "unknown renderer", mutate: func(c *Config) { c.Renderer.Backend = "webkit" }, wantErr: true},
		{name: "unknown cookie source", mutate: func(c *Config) { c.Renderer.CookieSource = "jar" }, wantErr: true},
		{name: "zero window", mutate: func(c *Config) { c.Renderer.WindowWidth = 0 }, wantErr: true},
		{name: "negative redirects", mutate: func(c *Config) { c.Renderer.MaxRedirects = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
