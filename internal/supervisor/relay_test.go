//go:build linux

package supervisor

import (
	"bytes"
	"testing"

	"github.com/lantw44/ceiba-dl/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func writeAll(t *testing.T, fd int, s string) {
	t.Helper()
	_, err := unix.Write(fd, []byte(s))
	require.NoError(t, err)
}

func TestRelayForwardsAndStopsOnExit(t *testing.T) {
	pipes, err := newPipeSet()
	require.NoError(t, err)
	defer pipes.close()

	var logs, results bytes.Buffer
	reaps := 0
	reap := func() (unix.WaitStatus, bool, error) {
		reaps++
		if reaps == 1 {
			// Spurious wake-up: more output arrives, then the real exit.
			writeAll(t, pipes.result.w, "second\n")
			writeAll(t, pipes.notify.w, "\x01")
			return 0, false, nil
		}
		return unix.WaitStatus(3 << 8), true, nil
	}

	writeAll(t, pipes.stdout.w, "from stdout\n")
	writeAll(t, pipes.stderr.w, "from stderr\n")
	writeAll(t, pipes.result.w, "first\n")
	writeAll(t, pipes.notify.w, "\x01")

	r := newRelay(pipes.notify.r, reap, logging.NewNop(),
		&stream{name: "stdout", fd: pipes.stdout.r, dst: &logs},
		&stream{name: "stderr", fd: pipes.stderr.r, dst: &logs},
		&stream{name: "result", fd: pipes.result.r, dst: &results},
	)
	status := r.run()

	assert.Equal(t, 2, reaps)
	assert.Equal(t, 3, status.ExitStatus())
	assert.Equal(t, "first\nsecond\n", results.String())
	assert.Contains(t, logs.String(), "from stdout\n")
	assert.Contains(t, logs.String(), "from stderr\n")
}

func TestRelayDropsClosedStreams(t *testing.T) {
	pipes, err := newPipeSet()
	require.NoError(t, err)
	defer pipes.close()

	var out bytes.Buffer
	writeAll(t, pipes.result.w, "last words\n")
	pipes.stdout.closeWrite()
	pipes.stderr.closeWrite()
	pipes.result.closeWrite()
	writeAll(t, pipes.notify.w, "\x01")

	streams := []*stream{
		{name: "stdout", fd: pipes.stdout.r, dst: &out},
		{name: "stderr", fd: pipes.stderr.r, dst: &out},
		{name: "result", fd: pipes.result.r, dst: &out},
	}
	r := newRelay(pipes.notify.r, func() (unix.WaitStatus, bool, error) {
		return 0, true, nil
	}, logging.NewNop(), streams...)
	r.run()

	assert.Equal(t, "last words\n", out.String())
	for _, s := range streams {
		assert.False(t, s.open, s.name)
	}
	assert.Equal(t, int64(len("last words\n")), streams[2].bytes)
}

func TestExitBridgeWritesOnSigchld(t *testing.T) {
	pipes, err := newPipeSet()
	require.NoError(t, err)
	defer pipes.close()

	bridge := armExitBridge(pipes.notify.w)
	defer bridge.disarm()

	require.NoError(t, unix.Kill(unix.Getpid(), unix.SIGCHLD))

	fds := []unix.PollFd{{Fd: int32(pipes.notify.r), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, 5000)
	for err == unix.EINTR {
		n, err = unix.Poll(fds, 5000)
	}
	require.NoError(t, err)
	require.Equal(t, 1, n)

	var b [1]byte
	_, err = unix.Read(pipes.notify.r, b[:])
	require.NoError(t, err)
	assert.Equal(t, byte(1), b[0])
}
