package chromium

import (
	"fmt"

	"github.com/go-rod/rod/lib/proto"
	"github.com/lantw44/ceiba-dl/internal/renderer"
	"go.uber.org/zap"
)

// watch translates DevTools events of the page into renderer events. When
// the page target goes away, or the connection drops, WindowClosed is
// emitted once.
func (r *Renderer) watch() {
	pageEvents := r.page.EachEvent(
		r.onRequest,
		r.onNavigated,
		r.onLoaded,
		r.onLoadingFailed,
		r.onLifecycle,
	)
	browserEvents := r.browser.EachEvent(
		r.onTargetCreated,
		func(e *proto.TargetTargetDestroyed) bool {
			return e.TargetID == r.page.TargetID
		},
		func(e *proto.InspectorDetached) bool {
			r.logger.Debug("Inspector detached", zap.String("reason", e.Reason))
			return true
		},
	)

	done := make(chan struct{}, 2)
	r.wg.Add(3)
	go func() {
		defer r.wg.Done()
		pageEvents()
		done <- struct{}{}
	}()
	go func() {
		defer r.wg.Done()
		browserEvents()
		done <- struct{}{}
	}()
	go func() {
		defer r.wg.Done()
		select {
		case <-done:
		case <-r.closed:
			return
		}
		r.logger.Debug("Window closed")
		r.emit(renderer.Event{Kind: renderer.WindowClosed, URL: r.URL()})
	}()
}

func (r *Renderer) mainFrame(id proto.PageFrameID) bool {
	return id == r.page.FrameID
}

// onRequest reports the start of a document load and its redirects.
func (r *Renderer) onRequest(e *proto.NetworkRequestWillBeSent) {
	if e.Type != proto.NetworkResourceTypeDocument || !r.mainFrame(e.FrameID) {
		return
	}
	if string(e.RequestID) != string(e.LoaderID) {
		return
	}

	r.mu.Lock()
	r.requestID = e.RequestID
	r.url = e.Request.URL
	r.mu.Unlock()

	if e.RedirectResponse != nil {
		r.logger.Debug("Load redirected", zap.String("url", e.Request.URL))
		r.emit(renderer.Event{Kind: renderer.LoadRedirected, URL: e.Request.URL})
		return
	}
	r.logger.Debug("Load started", zap.String("url", e.Request.URL))
	r.emit(renderer.Event{Kind: renderer.LoadStarted, URL: e.Request.URL})
}

func (r *Renderer) onNavigated(e *proto.PageFrameNavigated) {
	if e.Frame.ParentID != "" {
		return
	}

	r.mu.Lock()
	r.url = e.Frame.URL
	r.mu.Unlock()

	r.logger.Debug("Load committed", zap.String("url", e.Frame.URL))
	r.emit(renderer.Event{Kind: renderer.LoadCommitted, URL: e.Frame.URL})
}

func (r *Renderer) onLoaded(e *proto.PageLoadEventFired) {
	url := r.URL()
	r.logger.Debug("Load finished", zap.String("url", url))
	r.emit(renderer.Event{Kind: renderer.LoadFinished, URL: url})
}

func (r *Renderer) onLoadingFailed(e *proto.NetworkLoadingFailed) {
	r.mu.RLock()
	current := r.requestID
	url := r.url
	r.mu.RUnlock()

	if e.RequestID != current {
		return
	}
	r.logger.Warn("Load failed", zap.String("url", url), zap.String("error", e.ErrorText))
	r.emit(renderer.Event{Kind: renderer.LoadFailed, URL: url, Err: &LoadError{Text: e.ErrorText, Canceled: e.Canceled}})
}

// lifecycleProgress maps main frame lifecycle milestones to an estimated
// load percentage. Other events carry no progress.
var lifecycleProgress = map[string]int{
	"init":             10,
	"firstPaint":       30,
	"DOMContentLoaded": 60,
	"load":             90,
	"networkIdle":      100,
}

// progressLine formats load progress the way it is logged: "<title> - NN%".
func progressLine(title string, name proto.PageLifecycleEventName) (string, bool) {
	pct, ok := lifecycleProgress[string(name)]
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s - %d%%", title, pct), true
}

// onLifecycle logs load progress of the main frame.
func (r *Renderer) onLifecycle(e *proto.PageLifecycleEvent) {
	if !r.mainFrame(e.FrameID) {
		return
	}
	if line, ok := progressLine(r.title, e.Name); ok {
		r.logger.Debug(line, zap.String("url", r.URL()))
	}
}

func (r *Renderer) onTargetCreated(e *proto.TargetTargetCreated) {
	info := e.TargetInfo
	if info.Type == proto.TargetTargetInfoTypePage && info.OpenerID == r.page.TargetID {
		r.logger.Warn("New windows are not supported", zap.String("url", info.URL))
	}
}

// LoadError is a navigation failure reported by the browser.
type LoadError struct {
	Text     string
	Canceled bool
}

func (e *LoadError) Error() string {
	if e.Canceled {
		return e.Text + " (canceled)"
	}
	return e.Text
}
