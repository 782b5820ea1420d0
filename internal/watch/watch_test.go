package watch

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/Iron-Ham/accordo/internal/board"
)

func newTestWatcher(t *testing.T) (*Watcher, *board.Store) {
	t.Helper()

	store := board.NewStore(t.TempDir(), board.WithLockTimeout(2*time.Second))
	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	w, err := New(store.Dir(), WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(w.Stop)
	return w, store
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestWatcher_NotifiesOnSave(t *testing.T) {
	w, store := newTestWatcher(t)

	var notified atomic.Int64
	w.SetOnChange(func() { notified.Add(1) })
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := store.SetContext("k", "v"); err != nil {
		t.Fatalf("SetContext: %v", err)
	}

	if !waitFor(t, 2*time.Second, func() bool { return notified.Load() > 0 }) {
		t.Fatal("no notification after a board save")
	}
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	w, store := newTestWatcher(t)

	var notified atomic.Int64
	w.SetOnChange(func() { notified.Add(1) })
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	const saves = 10
	for range saves {
		if err := store.SetContext("k", "v"); err != nil {
			t.Fatalf("SetContext: %v", err)
		}
	}

	if !waitFor(t, 2*time.Second, func() bool { return notified.Load() > 0 }) {
		t.Fatal("no notification after a burst of saves")
	}
	// Give any trailing debounce windows time to fire, then confirm
	// the burst collapsed.
	time.Sleep(200 * time.Millisecond)
	if got := notified.Load(); got >= saves {
		t.Errorf("notifications = %d for %d saves, want fewer", got, saves)
	}
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	w, store := newTestWatcher(t)

	var notified atomic.Int64
	w.SetOnChange(func() { notified.Add(1) })
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Taking and releasing the lock touches only the sentinel.
	if err := store.View(func(d *board.Document) error { return nil }); err != nil {
		t.Fatalf("View: %v", err)
	}

	time.Sleep(200 * time.Millisecond)
	if got := notified.Load(); got != 0 {
		t.Errorf("notifications = %d for a lock-only touch, want 0", got)
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, _ := newTestWatcher(t)

	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	w.Stop()
	w.Stop()
}
