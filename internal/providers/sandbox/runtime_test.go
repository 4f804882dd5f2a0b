package sandbox

import (
	"context"
	"testing"
	"time"

	"github.com/lantw44/ceiba-dl/internal/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRuntime(t *testing.T) *Runtime {
	t.Helper()
	rt, err := New(DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { rt.Close() })
	return rt
}

func TestRuntimeExecution(t *testing.T) {
	rt := newRuntime(t)

	tests := []struct {
		name   string
		script string
		want   interface{}
	}{
		{name: "number", script: "6 * 7", want: int64(42)},
		{name: "string", script: "'hello'.toUpperCase()", want: "HELLO"},
		{name: "null", script: "null", want: nil},
		{name: "undefined", script: "undefined", want: nil},
		{name: "document", script: "document.URL + ' ' + document.title", want: "https://a.example/ A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := rt.Execute(context.Background(), tt.script, Document{URL: "https://a.example/", Title: "A"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Value)
		})
	}
}

func TestRuntimeSecurity(t *testing.T) {
	rt := newRuntime(t)

	for _, script := range []string{"require('fs')", "process.exit(1)"} {
		t.Run(script, func(t *testing.T) {
			_, err := rt.Execute(context.Background(), script, Document{})
			assert.Error(t, err)
		})
	}
}

func TestRuntimeConsole(t *testing.T) {
	rt := newRuntime(t)

	res, err := rt.Execute(context.Background(), "console.warn('a', 1); 'ok'", Document{})
	require.NoError(t, err)

	require.Len(t, res.Console, 1)
	assert.Equal(t, "warn", res.Console[0].Level)
	assert.Equal(t, "a 1", res.Console[0].Message)
}

func TestRuntimeTimeout(t *testing.T) {
	rt, err := New(Config{Timeout: 50 * time.Millisecond})
	require.NoError(t, err)
	defer rt.Close()

	_, err = rt.Execute(context.Background(), "for (;;) {}", Document{})
	assert.Error(t, err)

	// The runtime stays usable after an interrupt.
	res, err := rt.Execute(context.Background(), "1 + 1", Document{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Value)
}

func TestRuntimeCancelled(t *testing.T) {
	rt := newRuntime(t)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := rt.Execute(ctx, "for (;;) {}", Document{})
	assert.Error(t, err)
}

func TestCallNotFunction(t *testing.T) {
	rt := newRuntime(t)

	_, err := rt.Call(context.Background(), "42", Document{})
	assert.ErrorIs(t, err, ErrNotFunction)
}

func TestCookieLookupScript(t *testing.T) {
	rt := newRuntime(t)
	jar := "PHPSESSID=abc123; user=b01234567; a.b=dotted; empty="

	tests := []struct {
		name string
		key  string
		want interface{}
	}{
		{name: "first", key: "PHPSESSID", want: "abc123"},
		{name: "last", key: "user", want: "b01234567"},
		{name: "escaped dot", key: "a.b", want: "dotted"},
		{name: "empty value", key: "empty", want: ""},
		{name: "missing", key: "session_id", want: nil},
		{name: "prefix only", key: "use", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := rt.Call(context.Background(), renderer.CookieLookupScript, Document{Cookie: jar}, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Value)
		})
	}
}
