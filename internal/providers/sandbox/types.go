package sandbox

import "time"

// Config defines sandbox configuration
type Config struct {
	Timeout       time.Duration // Execution timeout
	EnableConsole bool          // Allow console.log/warn/error
}

// Document is the page state visible to scripts as `document`.
type Document struct {
	Cookie string
	URL    string
	Title  string
}

// Result holds execution result
type Result struct {
	Value    interface{}   // Return value, nil for null and undefined
	Console  []LogEntry    // Console output
	Duration time.Duration // Execution time
}

// LogEntry represents console output
type LogEntry struct {
	Level   string    // log, warn, error, info
	Message string    // Log message
	Time    time.Time // Timestamp
}

// DefaultConfig returns the default sandbox configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:       5 * time.Second,
		EnableConsole: true,
	}
}
