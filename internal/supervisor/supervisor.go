//go:build linux

package supervisor

import (
	"fmt"
	"io"
	"os"

	"github.com/lantw44/ceiba-dl/internal/exitcode"
	"github.com/lantw44/ceiba-dl/internal/logging"
	"go.uber.org/zap"
)

// Config describes the helper process and where its output goes.
type Config struct {
	// Path is the helper executable. Empty means os.Executable.
	Path string
	// Args is the helper argv including argv[0]. Empty means os.Args.
	Args []string
	// Env is the base environment. Nil means os.Environ.
	Env []string
	// RunID is handed to the helper for log correlation.
	RunID string

	// Stdout receives the result channel.
	Stdout io.Writer
	// Stderr receives the helper's stdout and stderr.
	Stderr io.Writer

	Logger *logging.Logger
}

func (c *Config) setDefaults() error {
	if c.Path == "" {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("locating executable: %w", err)
		}
		c.Path = exe
	}
	if len(c.Args) == 0 {
		c.Args = os.Args
	}
	if c.Env == nil {
		c.Env = os.Environ()
	}
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	if c.Logger == nil {
		c.Logger = logging.NewNop()
	}
	return nil
}

// Run starts the helper, relays its output until it has exited and
// returns the exit code the supervisor must exit with. A non-nil error is
// an *exitcode.Error describing a supervisory failure before the helper
// could run.
func Run(cfg Config) (int, error) {
	if err := cfg.setDefaults(); err != nil {
		return int(exitcode.ForkError), exitcode.New(exitcode.ForkError, err)
	}
	logger := cfg.Logger

	pipes, err := newPipeSet()
	if err != nil {
		return int(exitcode.PipeError), exitcode.New(exitcode.PipeError, err)
	}
	defer pipes.close()

	bridge := armExitBridge(pipes.notify.w)
	defer bridge.disarm()

	// The *os.File wrappers own the write ends from here on.
	stdout := os.NewFile(uintptr(pipes.stdout.w), "helper-stdout")
	stderr := os.NewFile(uintptr(pipes.stderr.w), "helper-stderr")
	result := os.NewFile(uintptr(pipes.result.w), "helper-result")
	pipes.stdout.w, pipes.stderr.w, pipes.result.w = -1, -1, -1

	proc, err := os.StartProcess(cfg.Path, cfg.Args, &os.ProcAttr{
		Env:   helperEnv(cfg.Env, cfg.RunID),
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr, stdout, stderr, result},
	})
	stdout.Close()
	stderr.Close()
	result.Close()
	if err != nil {
		return int(exitcode.ForkError), exitcode.New(exitcode.ForkError, fmt.Errorf("start helper: %w", err))
	}
	defer proc.Release()

	logger.Debug("helper started", zap.Int("pid", proc.Pid), zap.String("path", cfg.Path))

	r := newRelay(pipes.notify.r, reapPID(proc.Pid), logger,
		&stream{name: "stdout", fd: pipes.stdout.r, dst: cfg.Stderr},
		&stream{name: "stderr", fd: pipes.stderr.r, dst: cfg.Stderr},
		&stream{name: "result", fd: pipes.result.r, dst: cfg.Stdout},
	)
	status := r.run()

	code := translateStatus(status)
	logger.Debug("helper exited", zap.Int("code", int(code)), zap.Stringer("status", code))
	return int(code), nil
}
