// Package testutil provides testing utilities for accordo tests.
package testutil

import (
	"encoding/json"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Iron-Ham/accordo/internal/board"
)

// TempBoard creates a board store over a fresh temporary coordination
// directory with a short lock timeout, so contention bugs fail fast
// instead of hanging the suite. The directory is cleaned up when the
// test completes.
func TempBoard(t *testing.T) (*board.Store, string) {
	t.Helper()

	dir := t.TempDir()
	store := board.NewStore(dir, board.WithLockTimeout(2*time.Second))
	if err := store.Init(); err != nil {
		t.Fatalf("init board store: %v", err)
	}
	return store, dir
}

// ReadRawDocument decodes the board file at path without going through
// the store, for asserting on the persisted shape directly.
func ReadRawDocument(t *testing.T, path string) map[string]any {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read board document: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode board document: %v", err)
	}
	return doc
}

// CorruptDocument overwrites the board file at path with junk that is
// not valid JSON.
func CorruptDocument(t *testing.T, path string) {
	t.Helper()

	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt board document: %v", err)
	}
}

// FakeClock is a controllable time source for lease expiry tests.
// Advance moves time forward without sleeping.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock starts a clock at the given instant.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now returns the clock's current instant. Pass this method as the
// manager's clock.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
