// Package supervisor separates the helper's diagnostic output from its
// protocol output by running the helper as a second process.
//
// A third-party renderer writes its own logging to standard output, where
// the controlling process expects only result lines. The supervisor starts
// a copy of the current executable as the helper and relays three pipes:
//
//	helper stdout  ─┐
//	helper stderr  ─┼─► supervisor stderr
//	result channel ───► supervisor stdout
//
// A fourth pipe carries child-exit notifications. A goroutine subscribed to
// SIGCHLD writes one byte into it, so the relay observes helper exit in the
// same poll call that waits for data. The relay only stops after it has
// reaped the helper, and the supervisor exits with the helper's exit code,
// or 128 plus the signal number when the helper was killed.
//
// Helper side descriptors:
//
//	fd 3: write end of the stdout pipe, moved onto fd 1 by Attach
//	fd 4: write end of the stderr pipe, moved onto fd 2 by Attach
//	fd 5: write end of the result pipe, returned by Attach
//
// The notification pipe is close-on-exec and never reaches the helper, and
// execve resets the helper's signal handlers.
//
// Example Usage:
//
//	if supervisor.IsHelper() {
//	    result, err := supervisor.Attach()
//	    ...
//	}
//	code, err := supervisor.Run(supervisor.Config{Stdout: os.Stdout, Stderr: os.Stderr})
//	os.Exit(code)
package supervisor
