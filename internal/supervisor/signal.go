//go:build linux

package supervisor

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// exitBridge turns SIGCHLD into a readable byte on the notification pipe.
//
// The write end is bound once when the bridge is armed and never changes.
// Writes are non-blocking; a full pipe already holds a pending wake-up.
type exitBridge struct {
	fd      int
	signals chan os.Signal
	done    chan struct{}
	stopped chan struct{}
}

// armExitBridge subscribes to SIGCHLD. It must run before the helper starts
// so that an early exit is never missed.
func armExitBridge(fd int) *exitBridge {
	b := &exitBridge{
		fd:      fd,
		signals: make(chan os.Signal, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	signal.Notify(b.signals, unix.SIGCHLD)
	go b.forward()
	return b
}

func (b *exitBridge) forward() {
	defer close(b.stopped)
	for {
		select {
		case <-b.signals:
			b.notify()
		case <-b.done:
			return
		}
	}
}

func (b *exitBridge) notify() {
	for {
		_, err := unix.Write(b.fd, []byte{1})
		if err != unix.EINTR {
			return
		}
	}
}

// disarm restores the previous SIGCHLD disposition and stops forwarding.
func (b *exitBridge) disarm() {
	signal.Stop(b.signals)
	close(b.done)
	<-b.stopped
}
