package headless

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/lantw44/ceiba-dl/internal/logging"
	"github.com/lantw44/ceiba-dl/internal/providers/http/client"
	"github.com/lantw44/ceiba-dl/internal/providers/sandbox"
	"github.com/lantw44/ceiba-dl/internal/renderer"
	"go.uber.org/zap"
)

// ErrUnsupportedScheme is returned by Load for targets other than http and
// https.
var ErrUnsupportedScheme = errors.New("unsupported URL scheme")

const eventBuffer = 64

// Config configures the headless renderer.
type Config struct {
	Client       client.Options
	Sandbox      sandbox.Config
	MaxRefreshes int
	Logger       *logging.Logger
}

// Renderer is a renderer.Renderer that fetches pages over HTTP.
type Renderer struct {
	client  *client.Client
	jar     *Jar
	runtime *sandbox.Runtime
	logger  *logging.Logger

	maxRefreshes int

	events chan renderer.Event
	closed chan struct{}
	once   sync.Once
	wg     sync.WaitGroup

	mu     sync.RWMutex
	url    *url.URL
	page   *page
	cancel context.CancelFunc
}

var _ renderer.Renderer = (*Renderer)(nil)

// New creates a headless renderer with an empty cookie jar.
func New(cfg Config) (*Renderer, error) {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}

	jar, err := NewJar()
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	rt, err := sandbox.New(cfg.Sandbox)
	if err != nil {
		return nil, fmt.Errorf("failed to create sandbox: %w", err)
	}

	r := &Renderer{
		jar:          jar,
		runtime:      rt,
		logger:       cfg.Logger.Named("headless"),
		maxRefreshes: cfg.MaxRefreshes,
		events:       make(chan renderer.Event, eventBuffer),
		closed:       make(chan struct{}),
		page:         &page{},
	}
	if r.maxRefreshes <= 0 {
		r.maxRefreshes = cfg.Client.MaxRedirects
	}

	opts := cfg.Client
	opts.Jar = jar
	opts.CheckRedirect = r.onRedirect
	opts.Logger = r.logger.Sugar()
	r.client = client.NewClient(opts)
	return r, nil
}

// Events implements renderer.Renderer.
func (r *Renderer) Events() <-chan renderer.Event {
	return r.events
}

// URL implements renderer.Renderer.
func (r *Renderer) URL() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.url == nil {
		return ""
	}
	return r.url.String()
}

// Title returns the title of the current document.
func (r *Renderer) Title() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.page.title
}

// EvaluateCookie implements renderer.Renderer.
func (r *Renderer) EvaluateCookie(ctx context.Context, name string) (string, bool, error) {
	r.mu.RLock()
	current := r.url
	title := r.page.title
	r.mu.RUnlock()

	doc := sandbox.Document{Title: title}
	if current != nil {
		doc.URL = current.String()
		doc.Cookie = r.jar.DocumentCookie(current)
	}

	res, err := r.call(ctx, renderer.CookieLookupScript, doc, name)
	if err != nil {
		return "", false, err
	}
	switch v := res.Value.(type) {
	case nil:
		return "", false, nil
	case string:
		return v, true, nil
	default:
		return "", false, fmt.Errorf("%w: %T", renderer.ErrUnexpectedValue, v)
	}
}

// call runs script in the sandbox and forwards its console output to the
// debug log.
func (r *Renderer) call(ctx context.Context, script string, doc sandbox.Document, args ...interface{}) (*sandbox.Result, error) {
	res, err := r.runtime.Call(ctx, script, doc, args...)
	if res != nil {
		for _, e := range res.Console {
			r.logger.Debug("Script console", zap.String("level", e.Level), zap.String("message", e.Message))
		}
	}
	return res, err
}

// Cookies implements renderer.Renderer.
func (r *Renderer) Cookies(ctx context.Context, rawURL string) ([]renderer.Cookie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	return r.jar.Entries(u), nil
}

// Close cancels any load in progress and stops event delivery.
func (r *Renderer) Close() error {
	r.once.Do(func() {
		close(r.closed)
		r.mu.Lock()
		if r.cancel != nil {
			r.cancel()
		}
		r.mu.Unlock()
	})
	r.wg.Wait()
	return r.runtime.Close()
}

// emit delivers ev unless the load was superseded or the renderer closed.
func (r *Renderer) emit(ctx context.Context, ev renderer.Event) {
	select {
	case r.events <- ev:
	case <-ctx.Done():
	case <-r.closed:
	}
}

func (r *Renderer) isClosed() bool {
	select {
	case <-r.closed:
		return true
	default:
		return false
	}
}

func (r *Renderer) debug(msg string, u *url.URL) {
	r.logger.Debug(msg, zap.Stringer("url", u))
}
