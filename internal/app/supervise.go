package app

import (
	"github.com/lantw44/ceiba-dl/internal/logging"
	"github.com/lantw44/ceiba-dl/internal/supervisor"
	"go.uber.org/zap"
)

// Supervise starts the helper as a second process and relays its output
// until it exits. It returns the exit status for this process.
func Supervise(runID string, logger *logging.Logger) int {
	code, err := supervisor.Run(supervisor.Config{
		RunID:  runID,
		Logger: logger,
	})
	if err != nil {
		logger.Error("Supervisor failed", zap.Error(err))
	}
	return code
}
