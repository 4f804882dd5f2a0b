//go:build linux

package supervisor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

// Environment understood by the re-executed test binary.
const (
	scenarioEnv = "SUPERVISOR_TEST_SCENARIO"
	codeEnv     = "SUPERVISOR_TEST_CODE"
)

func TestMain(m *testing.M) {
	if IsHelper() {
		os.Exit(helperMain())
	}
	os.Exit(m.Run())
}

// helperMain plays the helper process for the supervisor tests.
func helperMain() int {
	result, err := Attach()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 99
	}
	code, _ := strconv.Atoi(os.Getenv(codeEnv))

	switch os.Getenv(scenarioEnv) {
	case "exit":
		fmt.Fprint(os.Stdout, "stdout line\n")
		fmt.Fprint(os.Stderr, "stderr line\n")
		fmt.Fprint(result, "result line\n")
		return code

	case "signal":
		fmt.Fprint(result, "before signal\n")
		_ = unix.Kill(os.Getpid(), unix.Signal(code))
		time.Sleep(time.Minute)
		return 97

	case "terminate":
		ctx, reraise := NotifyTermination(context.Background())
		fmt.Fprint(result, "waiting\n")
		_ = unix.Kill(os.Getpid(), unix.Signal(code))
		<-ctx.Done()
		fmt.Fprint(result, "cleaned up\n")
		reraise()
		return 96

	case "bulk":
		for i := 0; i < 2000; i++ {
			fmt.Fprintf(os.Stderr, "log %04d %s\n", i, strings.Repeat("x", 64))
			fmt.Fprintf(result, "value %04d\n", i)
		}
		return 0

	case "env":
		fmt.Fprintf(result, "%s\n", RunID())
		return 0

	default:
		fmt.Fprintln(os.Stderr, "unknown scenario")
		return 98
	}
}

func runScenario(t *testing.T, scenario string, code int) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	env := append(os.Environ(),
		scenarioEnv+"="+scenario,
		codeEnv+"="+strconv.Itoa(code),
	)

	exit, err := Run(Config{
		Args:   []string{os.Args[0], "-test.run=^$"},
		Env:    env,
		RunID:  "run-" + scenario,
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return exit, stdout.String(), stderr.String()
}
