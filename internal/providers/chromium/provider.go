package chromium

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/lantw44/ceiba-dl/internal/logging"
	"github.com/lantw44/ceiba-dl/internal/renderer"
	"go.uber.org/zap"
)

const eventBuffer = 64

// Config configures the Chromium renderer.
type Config struct {
	Bin      string // browser binary, empty to let rod find or download one
	Headless bool
	Title    string
	Width    int
	Height   int
	Logger   *logging.Logger
}

// Renderer is a renderer.Renderer backed by a Chromium page.
type Renderer struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	title    string
	logger   *logging.Logger

	events chan renderer.Event
	closed chan struct{}
	once   sync.Once
	wg     sync.WaitGroup

	mu        sync.RWMutex
	url       string
	requestID proto.NetworkRequestID
}

var _ renderer.Renderer = (*Renderer)(nil)

// New launches Chromium and opens the page that all loads go to.
func New(ctx context.Context, cfg Config) (*Renderer, error) {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid window size %dx%d", cfg.Width, cfg.Height)
	}

	l := launcher.New().
		Context(ctx).
		Headless(cfg.Headless).
		Set(flags.Flag("window-size"), strconv.Itoa(cfg.Width)+","+strconv.Itoa(cfg.Height)).
		Set(flags.Flag("no-first-run")).
		Set(flags.Flag("no-default-browser-check"))
	if cfg.Title != "" {
		l = l.Set(flags.Flag("window-name"), cfg.Title)
	}
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().Context(ctx).ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	r := &Renderer{
		launcher: l,
		browser:  browser,
		title:    cfg.Title,
		logger:   cfg.Logger.Named("chromium"),
		events:   make(chan renderer.Event, eventBuffer),
		closed:   make(chan struct{}),
	}

	if err := r.openPage(); err != nil {
		r.shutdown()
		return nil, err
	}
	return r, nil
}

// openPage adopts the window Chromium opened on startup, or creates one.
func (r *Renderer) openPage() error {
	pages, err := r.browser.Pages()
	if err != nil {
		return fmt.Errorf("failed to list pages: %w", err)
	}
	if len(pages) > 0 {
		r.page = pages.First()
	} else {
		r.page, err = r.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
		if err != nil {
			return fmt.Errorf("failed to open page: %w", err)
		}
	}

	if err := (proto.TargetSetDiscoverTargets{Discover: true}).Call(r.browser); err != nil {
		return fmt.Errorf("failed to watch targets: %w", err)
	}
	if err := (proto.PageEnable{}).Call(r.page); err != nil {
		return fmt.Errorf("failed to enable page events: %w", err)
	}
	if err := (proto.NetworkEnable{}).Call(r.page); err != nil {
		return fmt.Errorf("failed to enable network events: %w", err)
	}
	if err := (proto.PageSetLifecycleEventsEnabled{Enabled: true}).Call(r.page); err != nil {
		return fmt.Errorf("failed to enable lifecycle events: %w", err)
	}

	r.watch()
	return nil
}

// Events implements renderer.Renderer.
func (r *Renderer) Events() <-chan renderer.Event {
	return r.events
}

// URL implements renderer.Renderer.
func (r *Renderer) URL() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.url
}

// Load implements renderer.Renderer. Navigation runs in the background;
// its failures are reported as LoadFailed events by the browser.
func (r *Renderer) Load(ctx context.Context, url string) error {
	if r.isClosed() {
		return errors.New("renderer is closed")
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.page.Context(ctx).Navigate(url); err != nil {
			r.logger.Warn("Navigation failed", zap.String("url", url), zap.Error(err))
		}
	}()
	return nil
}

// EvaluateCookie implements renderer.Renderer.
func (r *Renderer) EvaluateCookie(ctx context.Context, name string) (string, bool, error) {
	obj, err := r.page.Context(ctx).Eval(renderer.CookieLookupScript, name)
	if err != nil {
		return "", false, err
	}

	switch {
	case obj.Type == proto.RuntimeRemoteObjectTypeString:
		return obj.Value.Str(), true, nil
	case obj.Type == proto.RuntimeRemoteObjectTypeObject && obj.Subtype == proto.RuntimeRemoteObjectSubtypeNull:
		return "", false, nil
	default:
		return "", false, fmt.Errorf("%w: %s", renderer.ErrUnexpectedValue, obj.Type)
	}
}

// Cookies implements renderer.Renderer.
func (r *Renderer) Cookies(ctx context.Context, url string) ([]renderer.Cookie, error) {
	cookies, err := r.page.Context(ctx).Cookies([]string{url})
	if err != nil {
		return nil, err
	}

	out := make([]renderer.Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, renderer.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
		})
	}
	return out, nil
}

// Close shuts the browser down and removes its profile.
func (r *Renderer) Close() error {
	var err error
	r.once.Do(func() {
		close(r.closed)
		err = r.shutdown()
	})
	r.wg.Wait()
	return err
}

func (r *Renderer) shutdown() error {
	err := r.browser.Close()
	r.launcher.Cleanup()
	return err
}

func (r *Renderer) emit(ev renderer.Event) {
	select {
	case r.events <- ev:
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
