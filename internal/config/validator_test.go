package config

import (
	"strings"
	"testing"
)

// hasFieldError reports whether errs contains an error for field.
func hasFieldError(errs []ValidationError, field string) bool {
	for _, err := range errs {
		if err.Field == field {
			return true
		}
	}
	return false
}

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Field:   "test.field",
		Value:   123,
		Message: "must be greater than zero",
	}

	expected := "test.field: must be greater than zero (got: 123)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty errors", func(t *testing.T) {
		var errs ValidationErrors
		if errs.Error() != "" {
			t.Errorf("Error() for empty = %q, want empty string", errs.Error())
		}
	})

	t.Run("single error", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "test.field", Value: 123, Message: "is invalid"},
		}
		expected := "test.field: is invalid (got: 123)"
		if errs.Error() != expected {
			t.Errorf("Error() = %q, want %q", errs.Error(), expected)
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "field1", Value: "bad", Message: "is invalid"},
			{Field: "field2", Value: -1, Message: "must be positive"},
		}
		result := errs.Error()
		if !strings.Contains(result, "2 validation errors") {
			t.Errorf("Error() should mention 2 errors: %s", result)
		}
		if !strings.Contains(result, "field1") || !strings.Contains(result, "field2") {
			t.Errorf("Error() should mention both fields: %s", result)
		}
	})
}

func TestConfig_Validate_DefaultConfig(t *testing.T) {
	cfg := Default()
	errs := cfg.Validate()
	if len(errs) != 0 {
		t.Errorf("Default config should be valid, got %d errors: %v", len(errs), errs)
	}
}

func TestConfig_Validate_Board(t *testing.T) {
	tests := []struct {
		name     string
		seconds  int
		hasError bool
	}{
		{"valid", 30, false},
		{"minimum", 1, false},
		{"maximum", 600, false},
		{"zero", 0, true},
		{"negative", -5, true},
		{"too large", 601, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Board.LockTimeoutSeconds = tt.seconds
			errs := cfg.Validate()

			if got := hasFieldError(errs, "board.lock_timeout_seconds"); got != tt.hasError {
				t.Errorf("Validate() for %d seconds: hasError=%v, want %v", tt.seconds, got, tt.hasError)
			}
		})
	}
}

func TestConfig_Validate_Claims(t *testing.T) {
	t.Run("ttl bounds", func(t *testing.T) {
		tests := []struct {
			name     string
			minutes  int
			hasError bool
		}{
			{"valid", 15, false},
			{"minimum", 1, false},
			{"maximum", 24 * 60, false},
			{"zero", 0, true},
			{"too large", 24*60 + 1, true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				cfg := Default()
				cfg.Claims.DefaultTTLMinutes = tt.minutes
				errs := cfg.Validate()

				if got := hasFieldError(errs, "claims.default_ttl_minutes"); got != tt.hasError {
					t.Errorf("Validate() for %d minutes: hasError=%v, want %v", tt.minutes, got, tt.hasError)
				}
			})
		}
	})

	t.Run("negative prune_after_hours", func(t *testing.T) {
		cfg := Default()
		cfg.Claims.PruneAfterHours = -1
		errs := cfg.Validate()
		if !hasFieldError(errs, "claims.prune_after_hours") {
			t.Error("expected error for negative prune_after_hours")
		}
	})

	t.Run("zero prune_after_hours is valid", func(t *testing.T) {
		cfg := Default()
		cfg.Claims.PruneAfterHours = 0
		errs := cfg.Validate()
		if hasFieldError(errs, "claims.prune_after_hours") {
			t.Error("zero prune_after_hours should validate")
		}
	})
}

func TestConfig_Validate_Agent(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		hasError bool
	}{
		{"empty is valid", "", false},
		{"simple", "a1", false},
		{"with punctuation", "build_bot.east-2", false},
		{"leading dash", "-bad", true},
		{"space", "two words", true},
		{"slash", "a/b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Agent.ID = tt.id
			errs := cfg.Validate()

			if got := hasFieldError(errs, "agent.id"); got != tt.hasError {
				t.Errorf("Validate() for id=%q: hasError=%v, want %v", tt.id, got, tt.hasError)
			}
		})
	}

	t.Run("negative stale_after_minutes", func(t *testing.T) {
		cfg := Default()
		cfg.Agent.StaleAfterMinutes = -1
		errs := cfg.Validate()
		if !hasFieldError(errs, "agent.stale_after_minutes") {
			t.Error("expected error for negative stale_after_minutes")
		}
	})
}

func TestConfig_Validate_Watch(t *testing.T) {
	t.Run("negative debounce", func(t *testing.T) {
		cfg := Default()
		cfg.Watch.DebounceMs = -1
		errs := cfg.Validate()
		if !hasFieldError(errs, "watch.debounce_ms") {
			t.Error("expected error for negative debounce_ms")
		}
	})

	t.Run("excessive debounce", func(t *testing.T) {
		cfg := Default()
		cfg.Watch.DebounceMs = 60_000
		errs := cfg.Validate()
		if !hasFieldError(errs, "watch.debounce_ms") {
			t.Error("expected error for excessive debounce_ms")
		}
	})

	t.Run("zero debounce is valid", func(t *testing.T) {
		cfg := Default()
		cfg.Watch.DebounceMs = 0
		errs := cfg.Validate()
		if hasFieldError(errs, "watch.debounce_ms") {
			t.Error("zero debounce_ms should validate")
		}
	})
}

func TestConfig_Validate_Logging(t *testing.T) {
	t.Run("levels", func(t *testing.T) {
		tests := []struct {
			level    string
			hasError bool
		}{
			{"debug", false},
			{"info", false},
			{"warn", false},
			{"error", false},
			{"", false},
			{"trace", true},
			{"INFO", true},
		}

		for _, tt := range tests {
			t.Run(tt.level, func(t *testing.T) {
				cfg := Default()
				cfg.Logging.Level = tt.level
				errs := cfg.Validate()

				if got := hasFieldError(errs, "logging.level"); got != tt.hasError {
					t.Errorf("Validate() for level=%q: hasError=%v, want %v", tt.level, got, tt.hasError)
				}
			})
		}
	})

	t.Run("size bounds", func(t *testing.T) {
		cfg := Default()
		cfg.Logging.MaxSizeMB = 0
		if errs := cfg.Validate(); !hasFieldError(errs, "logging.max_size_mb") {
			t.Error("expected error for zero max_size_mb")
		}

		cfg = Default()
		cfg.Logging.MaxSizeMB = 4096
		if errs := cfg.Validate(); !hasFieldError(errs, "logging.max_size_mb") {
			t.Error("expected error for oversized max_size_mb")
		}
	})

	t.Run("backup bounds", func(t *testing.T) {
		cfg := Default()
		cfg.Logging.MaxBackups = -1
		if errs := cfg.Validate(); !hasFieldError(errs, "logging.max_backups") {
			t.Error("expected error for negative max_backups")
		}

		cfg = Default()
		cfg.Logging.MaxBackups = 50
		if errs := cfg.Validate(); !hasFieldError(errs, "logging.max_backups") {
			t.Error("expected error for excessive max_backups")
		}
	})
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := Default()
	cfg.Board.LockTimeoutSeconds = 0
	cfg.Claims.DefaultTTLMinutes = 0
	cfg.Logging.Level = "nope"

	errs := cfg.Validate()
	if len(errs) != 3 {
		t.Errorf("Validate() returned %d errors, want 3: %v", len(errs), errs)
	}
}
