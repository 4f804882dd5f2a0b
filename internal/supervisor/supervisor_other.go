//go:build !linux

package supervisor

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/lantw44/ceiba-dl/internal/exitcode"
	"github.com/lantw44/ceiba-dl/internal/logging"
)

// Config describes the helper process and where its output goes.
type Config struct {
	Path   string
	Args   []string
	Env    []string
	RunID  string
	Stdout io.Writer
	Stderr io.Writer
	Logger *logging.Logger
}

// Run is only implemented on Linux.
func Run(cfg Config) (int, error) {
	return int(exitcode.ForkError), exitcode.New(exitcode.ForkError, errors.ErrUnsupported)
}

// Attach is only implemented on Linux.
func Attach() (*os.File, error) {
	return nil, exitcode.New(exitcode.DupError, errors.ErrUnsupported)
}

// NotifyTermination cancels the context on SIGINT or SIGTERM.
func NotifyTermination(parent context.Context) (context.Context, func()) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
