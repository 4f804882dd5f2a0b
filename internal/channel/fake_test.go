package channel

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lantw44/ceiba-dl/internal/renderer"
)

// fakeRenderer plays back scripted events and answers lookups from maps.
type fakeRenderer struct {
	mu     sync.Mutex
	events chan renderer.Event
	url    string
	loads  []string

	// onLoad runs synchronously inside Load.
	onLoad func(f *fakeRenderer, url string)

	scriptValues map[string]string // absent means null
	scriptErr    error
	cookies      []renderer.Cookie
	storeErr     error
	delay        time.Duration

	inflight    int32
	maxInflight int32
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		events:       make(chan renderer.Event, 64),
		scriptValues: make(map[string]string),
	}
}

// loginFlow emits the events of a login that redirects to target.
func loginFlow(target string) func(f *fakeRenderer, url string) {
	return func(f *fakeRenderer, url string) {
		f.send(renderer.LoadStarted, url)
		f.send(renderer.LoadRedirected, target)
		f.send(renderer.LoadCommitted, target)
		f.send(renderer.LoadFinished, target)
	}
}

func (f *fakeRenderer) send(kind renderer.EventKind, url string) {
	if kind != renderer.WindowClosed {
		f.mu.Lock()
		f.url = url
		f.mu.Unlock()
	}
	f.events <- renderer.Event{Kind: kind, URL: url}
}

func (f *fakeRenderer) Load(ctx context.Context, url string) error {
	f.mu.Lock()
	f.loads = append(f.loads, url)
	f.mu.Unlock()
	if f.onLoad != nil {
		f.onLoad(f, url)
	}
	return nil
}

func (f *fakeRenderer) Events() <-chan renderer.Event {
	return f.events
}

func (f *fakeRenderer) URL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.url
}

func (f *fakeRenderer) EvaluateCookie(ctx context.Context, name string) (string, bool, error) {
	n := atomic.AddInt32(&f.inflight, 1)
	defer atomic.AddInt32(&f.inflight, -1)
	for {
		peak := atomic.LoadInt32(&f.maxInflight)
		if n <= peak || atomic.CompareAndSwapInt32(&f.maxInflight, peak, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	if f.scriptErr != nil {
		return "", false, f.scriptErr
	}
	value, ok := f.scriptValues[name]
	return value, ok, nil
}

func (f *fakeRenderer) Cookies(ctx context.Context, url string) ([]renderer.Cookie, error) {
	if f.storeErr != nil {
		return nil, f.storeErr
	}
	return f.cookies, nil
}

func (f *fakeRenderer) Close() error {
	return nil
}
