// Package logging provides structured logging using uber/zap.
//
// Standard output of the helper carries protocol data, so every logger
// built here writes to standard error. Records from the supervisor and the
// helper process end up interleaved on the same stream; the role and run
// fields keep them attributable.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger = logger.ForRole("helper", runID)
//	logger.Debug("page load finished", zap.String("url", url))
package logging
