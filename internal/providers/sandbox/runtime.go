package sandbox

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"
)

// ErrNotFunction is returned when Call is given source that does not
// evaluate to a function.
var ErrNotFunction = errors.New("script is not a function")

// Runtime wraps goja VM with security controls
type Runtime struct {
	vm     *goja.Runtime
	config Config
	mu     sync.Mutex

	console []LogEntry
}

// New creates a new sandboxed runtime
func New(config Config) (*Runtime, error) {
	r := &Runtime{
		vm:     goja.New(),
		config: config,
	}
	r.vm.SetMaxCallStackSize(1024)

	if err := r.setupGlobals(); err != nil {
		return nil, err
	}
	return r, nil
}

// Execute runs a script against doc and returns its completion value.
func (r *Runtime) Execute(ctx context.Context, script string, doc Document) (*Result, error) {
	return r.run(ctx, doc, func() (goja.Value, error) {
		return r.vm.RunString(script)
	})
}

// Call evaluates fn, which must be a function expression, and calls it
// with args.
func (r *Runtime) Call(ctx context.Context, fn string, doc Document, args ...interface{}) (*Result, error) {
	return r.run(ctx, doc, func() (goja.Value, error) {
		v, err := r.vm.RunString("(" + fn + ")")
		if err != nil {
			return nil, err
		}
		callable, ok := goja.AssertFunction(v)
		if !ok {
			return nil, ErrNotFunction
		}

		values := make([]goja.Value, len(args))
		for i, a := range args {
			values[i] = r.vm.ToValue(a)
		}
		return callable(goja.Undefined(), values...)
	})
}

func (r *Runtime) run(ctx context.Context, doc Document, body func() (goja.Value, error)) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.vm == nil {
		return nil, errors.New("sandbox is closed")
	}

	start := time.Now()
	r.console = nil

	if err := r.injectDocument(doc); err != nil {
		return nil, fmt.Errorf("failed to inject document: %w", err)
	}

	timeout := r.config.Timeout
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	finished := make(chan struct{})
	watcher := make(chan struct{})
	go func() {
		defer close(watcher)
		select {
		case <-timer.C:
			r.vm.Interrupt("execution timeout exceeded")
		case <-ctx.Done():
			r.vm.Interrupt("context cancelled")
		case <-finished:
		}
	}()

	val, err := body()
	close(finished)
	<-watcher
	r.vm.ClearInterrupt()

	result := &Result{
		Console:  append([]LogEntry(nil), r.console...),
		Duration: time.Since(start),
	}
	if err != nil {
		return result, err
	}
	result.Value = exportValue(val)
	return result, nil
}

// setupGlobals configures global objects and security
func (r *Runtime) setupGlobals() error {
	for _, name := range []string{"require", "process", "module", "exports"} {
		if err := r.vm.Set(name, goja.Undefined()); err != nil {
			return err
		}
	}

	if r.config.EnableConsole {
		console := r.vm.NewObject()
		for _, level := range []string{"log", "warn", "error", "info"} {
			if err := console.Set(level, r.makeConsoleFunc(level)); err != nil {
				return err
			}
		}
		if err := r.vm.Set("console", console); err != nil {
			return err
		}
	}

	noop := func(call goja.FunctionCall) goja.Value {
		return goja.Undefined()
	}
	if err := r.vm.Set("setTimeout", noop); err != nil {
		return err
	}
	return r.vm.Set("setInterval", noop)
}

// makeConsoleFunc creates a console function
func (r *Runtime) makeConsoleFunc(level string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		r.console = append(r.console, LogEntry{
			Level:   level,
			Message: strings.Join(parts, " "),
			Time:    time.Now(),
		})
		return goja.Undefined()
	}
}

// injectDocument replaces the global document with doc.
func (r *Runtime) injectDocument(doc Document) error {
	document := r.vm.NewObject()
	for name, value := range map[string]string{
		"cookie": doc.Cookie,
		"URL":    doc.URL,
		"title":  doc.Title,
	} {
		if err := document.Set(name, value); err != nil {
			return err
		}
	}
	return r.vm.Set("document", document)
}

// exportValue converts goja value to Go value
func exportValue(val goja.Value) interface{} {
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return nil
	}
	return val.Export()
}

// Close releases resources
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.vm = nil
	r.console = nil
	return nil
}
