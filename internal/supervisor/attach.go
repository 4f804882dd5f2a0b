//go:build linux

package supervisor

import (
	"fmt"
	"os"

	"github.com/lantw44/ceiba-dl/internal/exitcode"
	"golang.org/x/sys/unix"
)

// Attach rewires the helper's standard output and standard error onto the
// pipes provided by the supervisor and returns the result channel. It must
// run before anything else in the helper writes output.
//
// Standard output stays unbuffered: *os.File writes go straight to the
// descriptor. The caller is responsible for flushing the result channel
// after every line.
func Attach() (*os.File, error) {
	if err := unix.Dup3(helperStdoutFD, unix.Stdout, 0); err != nil {
		return nil, exitcode.New(exitcode.DupError, fmt.Errorf("dup stdout: %w", err))
	}
	if err := unix.Dup3(helperStderrFD, unix.Stderr, 0); err != nil {
		return nil, exitcode.New(exitcode.DupError, fmt.Errorf("dup stderr: %w", err))
	}

	if _, err := unix.FcntlInt(helperResultFD, unix.F_GETFD, 0); err != nil {
		return nil, exitcode.New(exitcode.StdioError, fmt.Errorf("result channel: %w", err))
	}
	unix.CloseOnExec(helperResultFD)
	result := os.NewFile(helperResultFD, "result")
	if result == nil {
		return nil, exitcode.Errorf(exitcode.StdioError, "result channel: invalid descriptor %d", helperResultFD)
	}

	_ = unix.Close(helperStdoutFD)
	_ = unix.Close(helperStderrFD)
	return result, nil
}
