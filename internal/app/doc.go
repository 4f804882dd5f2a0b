// Package app wires the two processes of the login helper together.
//
// The supervisor side starts the helper and relays its output. The helper
// side builds the renderer, runs the command channel and reports how the
// session ended as an exit status.
//
// Key Components:
//   - Supervise: supervisor process entry point
//   - Helper: helper process entry point
//   - NewRenderer: renderer backend selection
//   - Title: window title from the command line
//
// Example Usage:
//
//	h := app.NewHelper(cfg, logger)
//	err := h.Run(ctx, app.Session{Args: os.Args, Stdin: os.Stdin, Result: result})
//	os.Exit(int(exitcode.Of(err)))
package app
