// Package config provides environment-based configuration for the login helper.
//
// Configuration is loaded from environment variables with defaults. Both
// the supervisor and the helper process load the same configuration; the
// helper inherits the supervisor's environment.
//
// Configuration Sections:
//   - Logging: Log level and output format
//   - Renderer: Renderer backend, cookie source and browser settings
//   - Metrics: Optional Prometheus textfile output
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	if err := cfg.Validate(); err != nil {
//	    return exitcode.New(exitcode.RendererInitError, err)
//	}
//
// Environment Variables:
//   - LOG_LEVEL, LOG_DEV
//   - CEIBA_HELPER_RENDERER, CEIBA_HELPER_COOKIE_SOURCE
//   - CEIBA_HELPER_BROWSER, CEIBA_HELPER_BROWSER_HEADLESS
//   - CEIBA_HELPER_WINDOW_WIDTH, CEIBA_HELPER_WINDOW_HEIGHT
//   - CEIBA_HELPER_HTTP_TIMEOUT, CEIBA_HELPER_HTTP_RETRIES
//   - CEIBA_HELPER_MAX_REDIRECTS, CEIBA_HELPER_USER_AGENT
//   - CEIBA_HELPER_METRICS_TEXTFILE
package config
