package channel

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lantw44/ceiba-dl/internal/config"
	"github.com/lantw44/ceiba-dl/internal/exitcode"
	"github.com/lantw44/ceiba-dl/internal/logging"
	"github.com/lantw44/ceiba-dl/internal/metrics"
	"github.com/lantw44/ceiba-dl/internal/renderer"
	"go.uber.org/zap"
)

// LoginLine is written to the result channel once login succeeded.
const LoginLine = "OK"

// State is the channel state.
type State int

const (
	AwaitLoginTarget State = iota
	AwaitCommand
)

func (s State) String() string {
	switch s {
	case AwaitLoginTarget:
		return "await-login-target"
	case AwaitCommand:
		return "await-command"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Config configures a Channel.
type Config struct {
	Renderer renderer.Renderer
	Input    io.Reader
	Result   io.Writer
	Source   string // config.SourceDocument or config.SourceStore
	Metrics  *metrics.Metrics
	Logger   *logging.Logger
}

// Channel connects stdin, the renderer and the result channel.
type Channel struct {
	renderer renderer.Renderer
	lines    *lineReader
	result   *bufio.Writer
	source   string
	metrics  *metrics.Metrics
	logger   *logging.Logger

	state      State
	loginURL   string
	expected   string
	redirected bool
	loadFailed bool
}

// pending is the one lookup in flight. done receives the value to write.
type pending struct {
	name string
	done chan string
}

// New creates a channel. Nothing is read before Run.
func New(cfg Config) *Channel {
	if cfg.Source == "" {
		cfg.Source = config.SourceDocument
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}

	return &Channel{
		renderer: cfg.Renderer,
		lines:    newLineReader(cfg.Input),
		result:   bufio.NewWriter(cfg.Result),
		source:   cfg.Source,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger.Named("channel"),
		state:    AwaitLoginTarget,
	}
}

// State returns the current state.
func (c *Channel) State() State {
	return c.state
}

// Run drives the session until it ends. It returns nil on a clean shutdown
// and an *exitcode.Error otherwise.
func (c *Channel) Run(ctx context.Context) error {
	defer c.lines.stop()

	loginURL, err := c.startupLine(ctx, "login URL")
	if err != nil {
		return err
	}
	expected, err := c.startupLine(ctx, "expected URL")
	if err != nil {
		return err
	}
	c.loginURL, c.expected = loginURL, expected
	c.logger.Debug("Startup complete",
		zap.String("login_url", loginURL),
		zap.String("expected_url", expected))

	if err := c.renderer.Load(ctx, loginURL); err != nil {
		c.logger.Warn("Failed to load login page", zap.String("url", loginURL), zap.Error(err))
	}

	var p *pending
	for {
		var (
			input <-chan lineResult
			done  <-chan string
		)
		if p != nil {
			done = p.done
		} else if c.state == AwaitCommand {
			input = c.lines.results
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-c.renderer.Events():
			if !ok {
				ev = renderer.Event{Kind: renderer.WindowClosed}
			}
			if err := c.handleEvent(ev); err != nil {
				return err
			}

		case line := <-input:
			switch {
			case errors.Is(line.err, io.EOF):
				c.logger.Debug("End of input, shutting down")
				return nil
			case line.err != nil:
				return exitcode.New(exitcode.StdinReadError, fmt.Errorf("failed to read from stdin: %w", line.err))
			case line.text == "":
				c.logger.Debug("Blank line, shutting down")
				return nil
			}
			p = c.dispatch(ctx, line.text)

		case value := <-done:
			c.logger.Debug("Answering request", zap.String("name", p.name))
			if err := c.writeLine(Escape(value)); err != nil {
				return err
			}
			p = nil
			c.lines.request()
		}
	}
}

// startupLine reads one mandatory startup line. Renderer events other than
// a closed window are ignored until both lines are in.
func (c *Channel) startupLine(ctx context.Context, what string) (string, error) {
	c.lines.request()
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()

		case ev, ok := <-c.renderer.Events():
			if !ok || ev.Kind == renderer.WindowClosed {
				return "", exitcode.Errorf(exitcode.ClosedByUser, "window closed")
			}

		case line := <-c.lines.results:
			switch {
			case errors.Is(line.err, io.EOF), line.err == nil && line.text == "":
				return "", exitcode.Errorf(exitcode.StdinEarlyEOF, "input ended before the %s", what)
			case line.err != nil:
				return "", exitcode.New(exitcode.StdinReadError, fmt.Errorf("failed to read the %s: %w", what, line.err))
			}
			return line.text, nil
		}
	}
}

func (c *Channel) handleEvent(ev renderer.Event) error {
	switch ev.Kind {
	case renderer.LoadStarted:
		c.loadFailed = false
	case renderer.LoadRedirected:
		c.redirected = true
	case renderer.LoadFailed:
		c.loadFailed = true
	case renderer.LoadFinished:
		c.logger.Debug("Load finished", zap.String("url", ev.URL))
		if c.loggedIn(c.renderer.URL()) {
			return c.acceptCommands()
		}
	case renderer.WindowClosed:
		c.logger.Info("Window closed by user")
		return exitcode.Errorf(exitcode.ClosedByUser, "window closed")
	}
	return nil
}

// loggedIn reports whether url is the post-login page.
func (c *Channel) loggedIn(url string) bool {
	return c.redirected &&
		!c.loadFailed &&
		c.state == AwaitLoginTarget &&
		!strings.HasPrefix(url, c.loginURL) &&
		strings.HasPrefix(url, c.expected)
}

func (c *Channel) acceptCommands() error {
	c.logger.Debug("Login detected, accepting commands", zap.String("url", c.renderer.URL()))
	if err := c.writeLine(LoginLine); err != nil {
		return err
	}
	c.state = AwaitCommand
	c.metrics.LoggedIn()
	c.lines.request()
	return nil
}

// dispatch starts the lookup for name.
func (c *Channel) dispatch(ctx context.Context, name string) *pending {
	c.logger.Debug("Cookie requested", zap.String("name", name))
	c.metrics.CommandAccepted()

	p := &pending{name: name, done: make(chan string, 1)}
	go func() {
		p.done <- c.lookup(ctx, name)
	}()
	return p
}

// writeLine writes one result line and flushes it.
func (c *Channel) writeLine(line string) error {
	if _, err := c.result.WriteString(line + "\n"); err != nil {
		return exitcode.New(exitcode.StdioError, fmt.Errorf("failed to write result: %w", err))
	}
	if err := c.result.Flush(); err != nil {
		return exitcode.New(exitcode.StdioError, fmt.Errorf("failed to write result: %w", err))
	}
	return nil
}
