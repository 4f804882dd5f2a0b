package app

import (
	"context"
	"fmt"

	"github.com/lantw44/ceiba-dl/internal/config"
	"github.com/lantw44/ceiba-dl/internal/exitcode"
	"github.com/lantw44/ceiba-dl/internal/logging"
	"github.com/lantw44/ceiba-dl/internal/providers/chromium"
	"github.com/lantw44/ceiba-dl/internal/providers/headless"
	"github.com/lantw44/ceiba-dl/internal/providers/http/client"
	"github.com/lantw44/ceiba-dl/internal/providers/sandbox"
	"github.com/lantw44/ceiba-dl/internal/renderer"
)

// RendererFactory builds the renderer for a session.
type RendererFactory func(ctx context.Context, cfg config.RendererConfig, title string, logger *logging.Logger) (renderer.Renderer, error)

// NewRenderer builds the configured renderer backend. Failures carry the
// renderer initialization exit status.
func NewRenderer(ctx context.Context, cfg config.RendererConfig, title string, logger *logging.Logger) (renderer.Renderer, error) {
	var (
		r   renderer.Renderer
		err error
	)
	switch cfg.Backend {
	case config.BackendChromium:
		r, err = chromium.New(ctx, chromium.Config{
			Bin:      cfg.Browser,
			Headless: cfg.Headless,
			Title:    title,
			Width:    cfg.WindowWidth,
			Height:   cfg.WindowHeight,
			Logger:   logger,
		})
	case config.BackendHeadless:
		r, err = headless.New(headless.Config{
			Client: client.Options{
				Timeout: cfg.HTTPTimeout,
				Retry: client.RetryConfig{
					MaxRetries: cfg.HTTPRetries,
				},
				UserAgent:    cfg.UserAgent,
				MaxRedirects: cfg.MaxRedirects,
			},
			Sandbox: sandbox.DefaultConfig(),
			Logger:  logger,
		})
	default:
		err = fmt.Errorf("unknown renderer %q", cfg.Backend)
	}
	if err != nil {
		return nil, exitcode.New(exitcode.RendererInitError, err)
	}
	return r, nil
}
