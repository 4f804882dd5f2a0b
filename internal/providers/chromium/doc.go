// Package chromium implements the renderer with a visible Chromium window.
//
// The browser is launched and driven over the DevTools protocol with
// go-rod. The profile lives in a temporary directory that is removed when
// the renderer closes, so nothing persists between runs. Closing the window
// or losing the browser is reported as a WindowClosed event.
package chromium
