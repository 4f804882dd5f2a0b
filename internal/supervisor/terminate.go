//go:build linux

package supervisor

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// NotifyTermination returns a context that is cancelled on SIGINT or
// SIGTERM, and a function to call once cleanup is done. If a signal was
// received, that function kills the process with it again, so the exit
// status still shows death by signal.
func NotifyTermination(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, unix.SIGINT, unix.SIGTERM)

	var (
		mu       sync.Mutex
		received unix.Signal
	)
	done := make(chan struct{})
	go func() {
		select {
		case sig := <-signals:
			mu.Lock()
			received = sig.(unix.Signal)
			mu.Unlock()
			cancel()
		case <-done:
		}
	}()

	return ctx, func() {
		close(done)
		signal.Stop(signals)
		cancel()

		mu.Lock()
		sig := received
		mu.Unlock()
		if sig == 0 {
			return
		}
		signal.Reset(sig)
		_ = unix.Kill(os.Getpid(), sig)
		// Delivery is asynchronous; give it time to land.
		time.Sleep(time.Second)
	}
}
