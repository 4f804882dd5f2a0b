//go:build linux

package supervisor

import (
	"fmt"

	"github.com/lantw44/ceiba-dl/internal/exitcode"
	"golang.org/x/sys/unix"
)

// translateStatus maps a reaped wait status onto the supervisor's own exit
// code: the helper's exit code, or 128 plus the terminating signal.
func translateStatus(ws unix.WaitStatus) exitcode.Code {
	switch {
	case ws.Exited():
		return exitcode.Code(ws.ExitStatus())
	case ws.Signaled():
		return exitcode.SignalBase + exitcode.Code(ws.Signal())
	default:
		panic(fmt.Sprintf("supervisor: unexpected wait status %#x", uint32(ws)))
	}
}

// reapPID returns a reapFunc performing WNOHANG waits on pid.
func reapPID(pid int) reapFunc {
	return func() (unix.WaitStatus, bool, error) {
		var ws unix.WaitStatus
		for {
			wpid, err := unix.Wait4(pid, &ws, unix.WNOHANG, nil)
			switch {
			case err == unix.EINTR:
				continue
			case err != nil:
				return 0, false, err
			case wpid <= 0:
				return 0, false, nil
			case ws.Stopped() || ws.Continued():
				return 0, false, nil
			default:
				return ws, true, nil
			}
		}
	}
}
