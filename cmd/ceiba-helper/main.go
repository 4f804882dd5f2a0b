package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/lantw44/ceiba-dl/internal/app"
	"github.com/lantw44/ceiba-dl/internal/config"
	"github.com/lantw44/ceiba-dl/internal/exitcode"
	"github.com/lantw44/ceiba-dl/internal/logging"
	"github.com/lantw44/ceiba-dl/internal/supervisor"
	"go.uber.org/zap"
)

func main() {
	if supervisor.IsHelper() {
		os.Exit(runHelper())
	}
	os.Exit(runSupervisor())
}

func runSupervisor() int {
	cfg, logger := setup()
	defer logger.Sync()

	runID := uuid.New().String()
	logger = logger.ForRole("supervisor", runID)
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", zap.Error(err))
		return int(exitcode.RendererInitError)
	}
	return app.Supervise(runID, logger)
}

func runHelper() int {
	// Stdout and stderr belong to the supervisor's pipes from here on.
	result, err := supervisor.Attach()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ceiba-helper: %v\n", err)
		return int(exitcode.Of(err))
	}
	defer result.Close()

	cfg, logger := setup()
	defer logger.Sync()
	logger = logger.ForRole("helper", supervisor.RunID())

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", zap.Error(err))
		return int(exitcode.RendererInitError)
	}

	// A termination signal cancels the session so the renderer is shut
	// down, then kills the helper with the same signal.
	ctx, reraise := supervisor.NotifyTermination(context.Background())

	err = app.NewHelper(cfg, logger).Run(ctx, app.Session{
		Args:   os.Args,
		Stdin:  os.Stdin,
		Result: result,
	})
	switch {
	case err != nil && ctx.Err() != nil:
		logger.Info("Terminated by signal")
	case err != nil:
		logger.Error("Helper stopped", zap.Error(err), zap.Stringer("status", exitcode.Of(err)))
	}

	_ = logger.Sync()
	reraise()
	return int(exitcode.Of(err))
}

// setup loads the configuration and builds the logger.
func setup() (*config.Config, *logging.Logger) {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}

	logger, lerr := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if lerr != nil {
		logger = logging.NewDefault()
		logger.Warn("Invalid log level, using defaults", zap.Error(lerr))
	}
	if err != nil {
		logger.Warn("Failed to load configuration, using defaults", zap.Error(err))
	}
	return cfg, logger
}
