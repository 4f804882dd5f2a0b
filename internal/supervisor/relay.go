//go:build linux

package supervisor

import (
	"io"

	"github.com/lantw44/ceiba-dl/internal/logging"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// chunkSize bounds a single read from a data pipe.
const chunkSize = 8192

const readable = unix.POLLIN | unix.POLLPRI

// stream forwards one pipe read end to a fixed destination.
type stream struct {
	name  string
	fd    int
	dst   io.Writer
	open  bool
	bytes int64
}

// reapFunc performs one non-blocking reap of the helper.
type reapFunc func() (status unix.WaitStatus, exited bool, err error)

// relay multiplexes the data pipes and the notification pipe.
type relay struct {
	streams []*stream
	notify  int
	reap    reapFunc
	logger  *logging.Logger
	buf     []byte
}

func newRelay(notify int, reap reapFunc, logger *logging.Logger, streams ...*stream) *relay {
	for _, s := range streams {
		s.open = true
	}
	return &relay{
		streams: streams,
		notify:  notify,
		reap:    reap,
		logger:  logger,
		buf:     make([]byte, chunkSize),
	}
}

// run blocks until the helper has been reaped and returns its wait status.
func (r *relay) run() unix.WaitStatus {
	fds := make([]unix.PollFd, len(r.streams)+1)
	last := len(r.streams)

	for {
		for i, s := range r.streams {
			fd := int32(-1)
			if s.open {
				fd = int32(s.fd)
			}
			fds[i] = unix.PollFd{Fd: fd, Events: readable}
		}
		fds[last] = unix.PollFd{Fd: int32(r.notify), Events: readable}

		if _, err := unix.Poll(fds, -1); err != nil {
			if err != unix.EINTR {
				r.logger.Error("poll failed", zap.Error(err))
			}
			continue
		}

		for i, s := range r.streams {
			if fds[i].Revents != 0 {
				r.pump(s)
			}
		}

		if fds[last].Revents&readable != 0 {
			r.drainNotify()
			status, exited, err := r.reap()
			if err != nil {
				r.logger.Error("wait failed", zap.Error(err))
				continue
			}
			if exited {
				r.flush()
				r.logSummary()
				return status
			}
		}
	}
}

// pump performs one read from s and forwards everything read.
func (r *relay) pump(s *stream) {
	n, err := unix.Read(s.fd, r.buf)
	switch {
	case err == unix.EINTR || err == unix.EAGAIN:
		return
	case err != nil:
		r.logger.Error("read failed", zap.String("stream", s.name), zap.Error(err))
		s.open = false
		return
	case n <= 0:
		r.logger.Debug("stream closed", zap.String("stream", s.name))
		s.open = false
		return
	}

	if _, err := s.dst.Write(r.buf[:n]); err != nil {
		r.logger.Error("write failed", zap.String("stream", s.name), zap.Error(err))
	}
	s.bytes += int64(n)
}

// flush forwards whatever the helper wrote before it exited without
// waiting on descriptors that other processes may still hold open.
func (r *relay) flush() {
	fds := make([]unix.PollFd, 0, len(r.streams))
	for {
		fds = fds[:0]
		var ready []*stream
		for _, s := range r.streams {
			if s.open {
				ready = append(ready, s)
				fds = append(fds, unix.PollFd{Fd: int32(s.fd), Events: readable})
			}
		}
		if len(fds) == 0 {
			return
		}

		n, err := unix.Poll(fds, 0)
		if err == unix.EINTR {
			continue
		}
		if err != nil || n == 0 {
			return
		}
		for i, s := range ready {
			if fds[i].Revents != 0 {
				r.pump(s)
			}
		}
	}
}

func (r *relay) drainNotify() {
	var b [64]byte
	for {
		_, err := unix.Read(r.notify, b[:])
		if err != unix.EINTR {
			return
		}
	}
}

func (r *relay) logSummary() {
	fields := make([]zap.Field, 0, len(r.streams))
	for _, s := range r.streams {
		fields = append(fields, zap.Int64(s.name+"_bytes", s.bytes))
	}
	r.logger.Debug("relay finished", fields...)
}
