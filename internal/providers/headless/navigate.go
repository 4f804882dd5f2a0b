package headless

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/lantw44/ceiba-dl/internal/providers/http/client"
	"github.com/lantw44/ceiba-dl/internal/renderer"
	"go.uber.org/zap"
)

// Load implements renderer.Renderer. The load runs in the background and
// replaces any load still in progress.
func (r *Renderer) Load(ctx context.Context, rawURL string) error {
	target, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if !navigable(target) {
		r.logger.Warn("Refusing to navigate", zap.String("url", rawURL))
		return fmt.Errorf("%w: %q", ErrUnsupportedScheme, target.Scheme)
	}

	r.mu.Lock()
	if r.isClosed() {
		r.mu.Unlock()
		return errors.New("renderer is closed")
	}
	if r.cancel != nil {
		r.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		defer cancel()
		r.run(loadCtx, target)
	}()
	return nil
}

// run loads target and then follows meta refresh hops.
func (r *Renderer) run(ctx context.Context, target *url.URL) {
	for hop := 0; ; hop++ {
		next := r.navigate(ctx, target)
		if next == nil || ctx.Err() != nil {
			return
		}
		if hop >= r.maxRefreshes {
			r.logger.Warn("Meta refresh limit reached", zap.Stringer("url", next.target))
			return
		}

		timer := time.NewTimer(next.delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return
		}

		if !navigable(next.target) {
			r.logger.Warn("Refusing to navigate", zap.Stringer("url", next.target))
			return
		}
		target = next.target
	}
}

// navigate performs one load and reports it through events. It returns the
// meta refresh of the loaded page, if any.
func (r *Renderer) navigate(ctx context.Context, target *url.URL) *refresh {
	r.debug("Load started", target)
	r.setURL(ctx, target, &page{})
	r.emit(ctx, renderer.Event{Kind: renderer.LoadStarted, URL: target.String()})

	resp, err := r.client.Get(ctx, target.String())
	if ctx.Err() != nil {
		return nil
	}
	if err == nil && client.IsRedirect(resp.StatusCode()) && resp.Header().Get("Location") != "" {
		err = client.ErrTooManyRedirects
	}
	if err != nil {
		r.logger.Warn("Load failed", zap.Stringer("url", target), zap.Error(err))
		r.emit(ctx, renderer.Event{Kind: renderer.LoadFailed, URL: r.URL(), Err: err})
		r.emit(ctx, renderer.Event{Kind: renderer.LoadFinished, URL: r.URL()})
		return nil
	}

	final := resp.RawResponse.Request.URL
	if resp.StatusCode() >= http.StatusBadRequest {
		r.logger.Warn("Server returned an error page",
			zap.Stringer("url", final),
			zap.Int("status", resp.StatusCode()))
	}

	p, err := parsePage(final, resp.Header().Get("Content-Type"), resp.Body())
	if err != nil {
		r.logger.Warn("Failed to parse page", zap.Stringer("url", final), zap.Error(err))
		p = &page{}
	}
	r.setURL(ctx, final, p)
	r.debug("Load committed", final)
	r.emit(ctx, renderer.Event{Kind: renderer.LoadCommitted, URL: final.String()})

	r.logger.Debug("Load finished",
		zap.Stringer("url", final),
		zap.String("title", p.title),
		zap.String("charset", p.charset))
	r.emit(ctx, renderer.Event{Kind: renderer.LoadFinished, URL: final.String()})
	return p.refresh
}

// onRedirect reports each server redirect hop.
func (r *Renderer) onRedirect(req *http.Request, via []*http.Request) error {
	if !navigable(req.URL) {
		r.logger.Warn("Refusing to follow redirect", zap.Stringer("url", req.URL))
		return fmt.Errorf("%w: %q", ErrUnsupportedScheme, req.URL.Scheme)
	}

	ctx := req.Context()
	r.setURL(ctx, req.URL, &page{})
	r.debug("Load redirected", req.URL)
	r.emit(ctx, renderer.Event{Kind: renderer.LoadRedirected, URL: req.URL.String()})
	return nil
}

// setURL records the current document unless ctx's load was superseded.
func (r *Renderer) setURL(ctx context.Context, u *url.URL, p *page) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ctx.Err() != nil {
		return
	}
	r.url = u
	r.page = p
}

func navigable(u *url.URL) bool {
	return u.Scheme == "http" || u.Scheme == "https"
}
