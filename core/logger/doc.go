// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production)
// and integrates with the Fiber web framework used by the serve command.
//
// # Context Awareness
//
// The WithRayID helper extracts the RayID from a Fiber context and attaches it to the
// log entry, ensuring that all logs related to a specific request can be correlated.
// WithRun does the same for import runs, so every line written while reconciling a
// ruleset carries the run id and ruleset name.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Import started")
//
//	l := logger.WithRun(log, run.ID.String(), run.Ruleset)
//	l.Error("Import failed", zap.Error(err))
package logger
