package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "default", cfg: DefaultConfig()},
		{name: "development", cfg: DevelopmentConfig()},
		{name: "no outputs", cfg: Config{Level: "warn"}},
		{name: "bad level", cfg: Config{Level: "loud"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger.Logger)
		})
	}
}

func TestDefaultConfigUsesStderr(t *testing.T) {
	assert.Equal(t, []string{"stderr"}, DefaultConfig().OutputPaths)
	assert.Equal(t, []string{"stderr"}, DevelopmentConfig().OutputPaths)
}

func TestForRole(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := &Logger{Logger: zap.New(core)}

	base.ForRole("helper", "run-1").Info("hello")
	base.ForRole("supervisor", "").Info("bare")

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "helper", first["role"])
	assert.Equal(t, "run-1", first["run"])
	assert.Equal(t, "helper", entries[0].LoggerName)

	second := entries[1].ContextMap()
	assert.Equal(t, "supervisor", second["role"])
	_, hasRun := second["run"]
	assert.False(t, hasRun)
}
