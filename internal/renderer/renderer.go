package renderer

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnexpectedValue is returned when the cookie script yields something
// other than a string or null.
var ErrUnexpectedValue = errors.New("script result is neither null nor a string")

// EventKind identifies a renderer event.
type EventKind int

const (
	LoadStarted EventKind = iota
	LoadRedirected
	LoadCommitted
	LoadFinished
	LoadFailed
	WindowClosed
)

// String returns the event name
func (k EventKind) String() string {
	switch k {
	case LoadStarted:
		return "load-started"
	case LoadRedirected:
		return "load-redirected"
	case LoadCommitted:
		return "load-committed"
	case LoadFinished:
		return "load-finished"
	case LoadFailed:
		return "load-failed"
	case WindowClosed:
		return "window-closed"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is one notification from the renderer.
type Event struct {
	Kind EventKind
	URL  string
	Err  error
}

// Cookie is a cookie held by the renderer's cookie store.
type Cookie struct {
	Name     string
	Value    string
	Domain   string
	Path     string
	Secure   bool
	HTTPOnly bool
}

// Renderer is the page renderer collaborator.
type Renderer interface {
	// Load starts loading url. Progress is reported through Events.
	Load(ctx context.Context, url string) error
	// Events delivers load progress and window events.
	Events() <-chan Event
	// URL returns the current location.
	URL() string
	// EvaluateCookie runs the document.cookie lookup for name in the
	// current page. ok is false when the script returned null.
	EvaluateCookie(ctx context.Context, name string) (value string, ok bool, err error)
	// Cookies returns the cookies the store would send to url.
	Cookies(ctx context.Context, url string) ([]Cookie, error)
	// Close releases the renderer.
	Close() error
}
