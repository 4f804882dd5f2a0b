package supervisor

import "os"

// Environment variables set on the helper process.
const (
	RoleEnv  = "CEIBA_HELPER_ROLE"
	RunIDEnv = "CEIBA_HELPER_RUN_ID"

	roleHelper = "helper"
)

// Descriptor numbers of the pipe write ends inside the helper.
const (
	helperStdoutFD = 3
	helperStderrFD = 4
	helperResultFD = 5
)

// IsHelper reports whether this process was started by the supervisor.
func IsHelper() bool {
	return os.Getenv(RoleEnv) == roleHelper
}

// RunID returns the run id handed down by the supervisor.
func RunID() string {
	return os.Getenv(RunIDEnv)
}

// helperEnv returns env with the role and run id variables replaced.
func helperEnv(env []string, runID string) []string {
	out := make([]string, 0, len(env)+2)
	for _, kv := range env {
		if hasKey(kv, RoleEnv) || hasKey(kv, RunIDEnv) {
			continue
		}
		out = append(out, kv)
	}
	out = append(out, RoleEnv+"="+roleHelper)
	if runID != "" {
		out = append(out, RunIDEnv+"="+runID)
	}
	return out
}

func hasKey(kv, key string) bool {
	return len(kv) > len(key) && kv[len(key)] == '=' && kv[:len(key)] == key
}
