// Package exitcode enumerates the process exit statuses of the login helper.
//
// Supervisory failures, command channel protocol violations and user
// cancellation each have their own status so the controlling process can
// tell them apart without parsing diagnostic text.
package exitcode

import (
	"errors"
	"fmt"
)

// Code is a process exit status.
type Code int

const (
	OK Code = iota
	PipeError
	ForkError
	DupError
	StdioError
	RendererInitError
	ClosedByUser
	StdinEarlyEOF
	StdinReadError
)

// Software is used for failures that carry no Code of their own (EX_SOFTWARE).
const Software Code = 70

// SignalBase is added to a signal number when the helper died from a signal.
const SignalBase = 128

// String returns a short description of the status
func (c Code) String() string {
	switch c {
	case OK:
		return "ok"
	case PipeError:
		return "pipe creation failed"
	case ForkError:
		return "process creation failed"
	case DupError:
		return "descriptor duplication failed"
	case StdioError:
		return "result stream setup failed"
	case RendererInitError:
		return "renderer initialization failed"
	case ClosedByUser:
		return "window closed by user"
	case StdinEarlyEOF:
		return "standard input ended before startup lines"
	case StdinReadError:
		return "standard input read error"
	case Software:
		return "internal error"
	default:
		if c > SignalBase {
			return fmt.Sprintf("terminated by signal %d", int(c-SignalBase))
		}
		return fmt.Sprintf("exit status %d", int(c))
	}
}

// Error is a fatal condition tied to an exit status.
type Error struct {
	Code Code
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err with an exit status. err may be nil.
func New(code Code, err error) error {
	return &Error{Code: code, Err: err}
}

// Errorf formats a message and wraps it with an exit status.
func Errorf(code Code, format string, args ...interface{}) error {
	return &Error{Code: code, Err: fmt.Errorf(format, args...)}
}

// Of returns the exit status carried by err: OK for nil, the wrapped Code
// for an *Error anywhere in the chain, Software otherwise.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Software
}
