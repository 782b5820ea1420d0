// Package logging provides structured logging for accordo.
//
// It wraps Go's log/slog to emit JSON-formatted entries into the
// coordination directory, so the history of who touched the board and
// when survives next to the board itself and can be inspected after
// the agents are gone.
//
// # Features
//
//   - JSON-formatted structured logging via slog
//   - Configurable log levels (DEBUG, INFO, WARN, ERROR)
//   - Persistent context attributes (agent ID, chain ID)
//   - Size-based log rotation with numbered backups
//   - Read-back and filtering of past entries for the logs command
//
// # Thread Safety
//
// All types in this package are safe for concurrent use. Child loggers
// created via With* methods share the underlying writer safely.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger(dir, "INFO", logging.DefaultRotationConfig())
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	agentLog := logger.WithAgent("a1")
//	agentLog.Info("claim granted", "resources", 2)
//
// Every entry from agentLog carries agent_id alongside the per-call
// attributes. Pass an empty dir to log to stderr instead of a file,
// and use [NopLogger] in tests.
package logging
