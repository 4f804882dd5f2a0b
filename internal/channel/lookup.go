package channel

import (
	"context"
	"errors"

	"github.com/lantw44/ceiba-dl/internal/config"
	"github.com/lantw44/ceiba-dl/internal/metrics"
	"github.com/lantw44/ceiba-dl/internal/renderer"
	"go.uber.org/zap"
)

// lookup answers one cookie request. Failures are logged and answered with
// an empty value.
func (c *Channel) lookup(ctx context.Context, name string) string {
	var (
		value  string
		result string
	)
	switch c.source {
	case config.SourceStore:
		value, result = c.lookupStore(ctx, name)
	default:
		value, result = c.lookupDocument(ctx, name)
	}

	c.metrics.LookupDone(c.source, result)
	c.logger.Debug("Cookie lookup done",
		zap.String("name", name),
		zap.String("source", c.source),
		zap.String("result", result))
	return value
}

// lookupDocument reads the cookie through document.cookie, then falls back
// to HttpOnly cookies in the store, which scripts cannot see.
func (c *Channel) lookupDocument(ctx context.Context, name string) (string, string) {
	value, ok, err := c.renderer.EvaluateCookie(ctx, name)
	if errors.Is(err, renderer.ErrUnexpectedValue) {
		c.logger.Warn("Cookie script returned neither null nor a string", zap.String("name", name), zap.Error(err))
		return "", metrics.ResultFailed
	}
	if err != nil {
		c.logger.Warn("Cookie script failed", zap.String("name", name), zap.Error(err))
		return "", metrics.ResultFailed
	}
	if ok {
		return value, metrics.ResultFound
	}

	cookies, err := c.renderer.Cookies(ctx, c.renderer.URL())
	if err != nil {
		c.logger.Warn("Failed to read cookie store", zap.String("name", name), zap.Error(err))
		return "", metrics.ResultFailed
	}
	for _, cookie := range cookies {
		if cookie.Name != name {
			continue
		}
		if cookie.HTTPOnly {
			return cookie.Value, metrics.ResultFound
		}
		c.logger.Warn("Script cannot see the cookie but it is not HttpOnly", zap.String("name", name))
	}
	return "", metrics.ResultMissing
}

func (c *Channel) lookupStore(ctx context.Context, name string) (string, string) {
	cookies, err := c.renderer.Cookies(ctx, c.renderer.URL())
	if err != nil {
		c.logger.Warn("Failed to read cookie store", zap.String("name", name), zap.Error(err))
		return "", metrics.ResultFailed
	}
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie.Value, metrics.ResultFound
		}
	}
	return "", metrics.ResultMissing
}
