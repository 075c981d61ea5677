// Package applog sets up structured logging for a generation job.
// Grounded in the teacher's internal/infrastructure/logger.Setup shape
// (level string -> configured logger, set as the package default) but
// using github.com/rs/zerolog -- the teacher's own node executors log
// through the zerolog global (internal/application/executor/
// node_executors.go's "github.com/rs/zerolog/log" import) rather than the
// slog-based Setup its infra/logger package happens to also carry, so this
// module follows the teacher's actually-exercised logging library.
package applog

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Setup sets zerolog's global level and returns a base Logger writing
// timestamped lines to stdout. It carries no job fields; ForJob derives the
// per-job child logger from it.
func Setup(level string) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(level))
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	return logger
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ForJob returns a child logger scoped to one generation job, so every
// line from that job's orchestrator/placement/filler run carries jobID
// without threading it through every function signature.
func ForJob(base zerolog.Logger, jobID string) zerolog.Logger {
	return base.With().Str("job_id", jobID).Logger()
}
