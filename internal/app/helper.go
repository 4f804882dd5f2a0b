package app

import (
	"context"
	"io"

	"github.com/lantw44/ceiba-dl/internal/channel"
	"github.com/lantw44/ceiba-dl/internal/config"
	"github.com/lantw44/ceiba-dl/internal/logging"
	"github.com/lantw44/ceiba-dl/internal/metrics"
	"go.uber.org/zap"
)

// Session is the I/O of one helper run.
type Session struct {
	Args   []string
	Stdin  io.Reader
	Result io.Writer
}

// Helper runs the helper side of the program.
type Helper struct {
	cfg         *config.Config
	logger      *logging.Logger
	metrics     *metrics.Metrics
	newRenderer RendererFactory
}

// NewHelper creates a helper using the configured renderer backend.
func NewHelper(cfg *config.Config, logger *logging.Logger) *Helper {
	return &Helper{
		cfg:         cfg,
		logger:      logger,
		metrics:     metrics.New(),
		newRenderer: NewRenderer,
	}
}

// WithRenderer replaces the renderer factory.
func (h *Helper) WithRenderer(f RendererFactory) *Helper {
	h.newRenderer = f
	return h
}

// Run runs one session. It returns nil on a clean shutdown and an error
// carrying the exit status otherwise.
func (h *Helper) Run(ctx context.Context, s Session) error {
	title := Title(s.Args)
	h.logger.Debug("Starting helper",
		zap.String("title", title),
		zap.String("renderer", h.cfg.Renderer.Backend),
		zap.String("cookie_source", h.cfg.Renderer.CookieSource))

	r, err := h.newRenderer(ctx, h.cfg.Renderer, title, h.logger)
	if err != nil {
		h.logger.Error("Failed to initialize renderer", zap.Error(err))
		return err
	}
	defer func() {
		if err := r.Close(); err != nil {
			h.logger.Warn("Failed to close renderer", zap.Error(err))
		}
	}()

	ch := channel.New(channel.Config{
		Renderer: r,
		Input:    s.Stdin,
		Result:   s.Result,
		Source:   h.cfg.Renderer.CookieSource,
		Metrics:  h.metrics,
		Logger:   h.logger,
	})
	if err := ch.Run(ctx); err != nil {
		return err
	}

	h.writeMetrics()
	return nil
}

func (h *Helper) writeMetrics() {
	path := h.cfg.Metrics.Textfile
	if path == "" {
		return
	}
	if err := h.metrics.WriteTextfile(path); err != nil {
		h.logger.Warn("Failed to write metrics", zap.String("path", path), zap.Error(err))
	}
}
