package cmd

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/Iron-Ham/accordo/internal/logging"
)

func TestLevelPriority(t *testing.T) {
	tests := []struct {
		level string
		want  int
	}{
		{"debug", 0},
		{"DEBUG", 0},
		{"info", 1},
		{"warn", 2},
		{"error", 3},
		{"bogus", -1},
		{"", -1},
	}
	for _, tt := range tests {
		if got := levelPriority(tt.level); got != tt.want {
			t.Errorf("levelPriority(%q) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestPassesFilters(t *testing.T) {
	now := time.Now()
	entry := logging.Entry{
		Timestamp: now,
		Level:     "INFO",
		Message:   "claim created",
		AgentID:   "agent-a",
		Attrs:     map[string]any{"resource": "src/auth.py"},
	}

	t.Run("no filters", func(t *testing.T) {
		if !passesFilters(&entry, -1, time.Time{}, nil) {
			t.Error("unfiltered entry should pass")
		}
	})

	t.Run("level threshold", func(t *testing.T) {
		if passesFilters(&entry, levelPriority("warn"), time.Time{}, nil) {
			t.Error("INFO should not pass a warn threshold")
		}
		if !passesFilters(&entry, levelPriority("debug"), time.Time{}, nil) {
			t.Error("INFO should pass a debug threshold")
		}
	})

	t.Run("since cutoff", func(t *testing.T) {
		if passesFilters(&entry, -1, now.Add(time.Minute), nil) {
			t.Error("entry before cutoff should not pass")
		}
		if !passesFilters(&entry, -1, now.Add(-time.Minute), nil) {
			t.Error("entry after cutoff should pass")
		}
	})

	t.Run("grep matches message and attrs", func(t *testing.T) {
		if !passesFilters(&entry, -1, time.Time{}, regexp.MustCompile("claim")) {
			t.Error("message match should pass")
		}
		if !passesFilters(&entry, -1, time.Time{}, regexp.MustCompile(`auth\.py`)) {
			t.Error("attribute match should pass")
		}
		if passesFilters(&entry, -1, time.Time{}, regexp.MustCompile("unrelated")) {
			t.Error("non-matching grep should not pass")
		}
	})
}

func TestFormatLogEntry(t *testing.T) {
	entry := logging.Entry{
		Timestamp: time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
		Level:     "WARN",
		Message:   "lock contention",
		ChainID:   "abc123",
	}

	got := formatLogEntry(&entry)
	for _, want := range []string{"09:30:00", "WARN", "lock contention", "chain_id=abc123"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatted entry %q missing %q", got, want)
		}
	}
}
