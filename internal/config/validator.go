package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "board.lock_timeout_seconds")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// agentIDRegex validates agent identifiers. IDs start with an
// alphanumeric and may contain alphanumerics, dots, hyphens,
// underscores, and the @ of the user@host fallback; they appear in
// file contents and log lines, never as paths.
var agentIDRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._@-]*$`)

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// IsValidAgentID checks whether id is acceptable as an agent identifier
func IsValidAgentID(id string) bool {
	return agentIDRegex.MatchString(id)
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateBoard()...)
	errors = append(errors, c.validateClaims()...)
	errors = append(errors, c.validateAgent()...)
	errors = append(errors, c.validateWatch()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateBoard validates the BoardConfig
func (c *Config) validateBoard() []ValidationError {
	var errors []ValidationError

	const maxLockTimeoutSeconds = 600
	if c.Board.LockTimeoutSeconds < 1 {
		errors = append(errors, ValidationError{
			Field:   "board.lock_timeout_seconds",
			Value:   c.Board.LockTimeoutSeconds,
			Message: "must be at least 1 second",
		})
	}
	if c.Board.LockTimeoutSeconds > maxLockTimeoutSeconds {
		errors = append(errors, ValidationError{
			Field:   "board.lock_timeout_seconds",
			Value:   c.Board.LockTimeoutSeconds,
			Message: fmt.Sprintf("exceeds maximum of %d seconds", maxLockTimeoutSeconds),
		})
	}

	return errors
}

// validateClaims validates the ClaimsConfig
func (c *Config) validateClaims() []ValidationError {
	var errors []ValidationError

	const maxTTLMinutes = 24 * 60
	if c.Claims.DefaultTTLMinutes < 1 {
		errors = append(errors, ValidationError{
			Field:   "claims.default_ttl_minutes",
			Value:   c.Claims.DefaultTTLMinutes,
			Message: "must be at least 1 minute",
		})
	}
	if c.Claims.DefaultTTLMinutes > maxTTLMinutes {
		errors = append(errors, ValidationError{
			Field:   "claims.default_ttl_minutes",
			Value:   c.Claims.DefaultTTLMinutes,
			Message: fmt.Sprintf("exceeds maximum of %d minutes (24h)", maxTTLMinutes),
		})
	}

	if c.Claims.PruneAfterHours < 0 {
		errors = append(errors, ValidationError{
			Field:   "claims.prune_after_hours",
			Value:   c.Claims.PruneAfterHours,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateAgent validates the AgentConfig
func (c *Config) validateAgent() []ValidationError {
	var errors []ValidationError

	if c.Agent.ID != "" && !IsValidAgentID(c.Agent.ID) {
		errors = append(errors, ValidationError{
			Field:   "agent.id",
			Value:   c.Agent.ID,
			Message: "must start with an alphanumeric and contain only alphanumerics, dots, hyphens, and underscores",
		})
	}

	if c.Agent.StaleAfterMinutes < 0 {
		errors = append(errors, ValidationError{
			Field:   "agent.stale_after_minutes",
			Value:   c.Agent.StaleAfterMinutes,
			Message: "must be non-negative (0 disables staleness)",
		})
	}

	return errors
}

// validateWatch validates the WatchConfig
func (c *Config) validateWatch() []ValidationError {
	var errors []ValidationError

	const maxDebounceMs = 10_000
	if c.Watch.DebounceMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "watch.debounce_ms",
			Value:   c.Watch.DebounceMs,
			Message: "must be non-negative",
		})
	}
	if c.Watch.DebounceMs > maxDebounceMs {
		errors = append(errors, ValidationError{
			Field:   "watch.debounce_ms",
			Value:   c.Watch.DebounceMs,
			Message: fmt.Sprintf("exceeds maximum of %dms", maxDebounceMs),
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	const maxLogSizeMB = 1024
	if c.Logging.MaxSizeMB < 1 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be at least 1MB",
		})
	}
	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	const maxLogBackups = 20
	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}
	if c.Logging.MaxBackups > maxLogBackups {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: fmt.Sprintf("exceeds maximum of %d", maxLogBackups),
		})
	}

	return errors
}
