// Package sandbox provides a goja JavaScript runtime for page scripts.
//
// The headless renderer has no browser engine. It evaluates page scripts,
// such as the cookie lookup, in a goja VM whose document object exposes
// only what the renderer knows about the current page.
//
// Security Model:
//   - No require, process, module or exports
//   - Timers are no-ops
//   - Execution is interrupted on timeout or context cancellation
//
// Example Usage:
//
//	rt, _ := sandbox.New(sandbox.DefaultConfig())
//	res, err := rt.Call(ctx, renderer.CookieLookupScript, sandbox.Document{Cookie: "a=1"}, "a")
package sandbox
