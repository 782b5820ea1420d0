package board

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Iron-Ham/accordo/internal/lockfile"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store := NewStore(t.TempDir(), WithLockTimeout(2*time.Second))
	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return store
}

func TestInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", ".accordo")
	store := NewStore(dir, WithLockTimeout(2*time.Second))

	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := os.Stat(store.Path()); err != nil {
		t.Fatalf("document should exist after Init: %v", err)
	}

	// Raw document carries the schema version.
	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("document is not valid JSON: %v", err)
	}
	if v, ok := raw["version"].(float64); !ok || int(v) != Version {
		t.Errorf("version = %v, want %d", raw["version"], Version)
	}
}

func TestInit_PreservesExistingDocument(t *testing.T) {
	store := newTestStore(t)

	if err := store.SetContext("branch", "main"); err != nil {
		t.Fatalf("SetContext: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("second Init: %v", err)
	}

	value, ok, err := store.GetContext("branch")
	if err != nil {
		t.Fatalf("GetContext: %v", err)
	}
	if !ok || value != "main" {
		t.Errorf("context after re-Init = %q, %v; want main, true", value, ok)
	}
}

func TestUpdate_VisibleToOtherStores(t *testing.T) {
	store := newTestStore(t)

	if err := store.SetContext("k", "v"); err != nil {
		t.Fatalf("SetContext: %v", err)
	}

	// A second store over the same directory models another process.
	other := NewStore(store.Dir(), WithLockTimeout(2*time.Second))
	value, ok, err := other.GetContext("k")
	if err != nil {
		t.Fatalf("GetContext via second store: %v", err)
	}
	if !ok || value != "v" {
		t.Errorf("second store sees %q, %v; want v, true", value, ok)
	}
}

func TestView_DoesNotRewriteFile(t *testing.T) {
	store := newTestStore(t)

	if err := store.SetContext("k", "v"); err != nil {
		t.Fatalf("SetContext: %v", err)
	}
	before, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	err = store.View(func(d *Document) error { return nil })
	if err != nil {
		t.Fatalf("View: %v", err)
	}

	after, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(before) != string(after) {
		t.Error("View rewrote the document")
	}
}

func TestApply_SavesOnlyWhenChanged(t *testing.T) {
	store := newTestStore(t)

	err := store.Apply(func(d *Document) (bool, error) {
		d.Context["dropped"] = "yes"
		return false, nil
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if _, ok, _ := store.GetContext("dropped"); ok {
		t.Error("unchanged Apply should not persist mutations")
	}

	err = store.Apply(func(d *Document) (bool, error) {
		d.Context["kept"] = "yes"
		return true, nil
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if _, ok, _ := store.GetContext("kept"); !ok {
		t.Error("changed Apply should persist mutations")
	}
}

func TestUpdate_ErrorAbortsSave(t *testing.T) {
	store := newTestStore(t)

	wantErr := errors.New("boom")
	err := store.Update(func(d *Document) error {
		d.Context["partial"] = "yes"
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Update = %v, want %v", err, wantErr)
	}

	if _, ok, _ := store.GetContext("partial"); ok {
		t.Error("failed Update should not persist mutations")
	}
}

func TestLoad_CorruptDocumentStartsFresh(t *testing.T) {
	store := newTestStore(t)

	if err := store.SetContext("k", "v"); err != nil {
		t.Fatalf("SetContext: %v", err)
	}
	if err := os.WriteFile(store.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	// Reads see an empty document and leave the corrupt file alone.
	snapshot, err := store.ContextSnapshot()
	if err != nil {
		t.Fatalf("ContextSnapshot: %v", err)
	}
	if len(snapshot) != 0 {
		t.Errorf("snapshot = %v, want empty after corruption", snapshot)
	}
	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "{not json" {
		t.Error("read should not rewrite the corrupt file")
	}

	// The next write replaces it with a valid document.
	if err := store.SetContext("k2", "v2"); err != nil {
		t.Fatalf("SetContext after corruption: %v", err)
	}
	data, err = os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("document still invalid after write: %v", err)
	}
	if doc.Context["k2"] != "v2" {
		t.Errorf("Context = %v, want k2=v2", doc.Context)
	}
}

func TestLoad_EmptyFileStartsFresh(t *testing.T) {
	store := newTestStore(t)

	if err := os.WriteFile(store.Path(), nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	agents, err := store.Agents()
	if err != nil {
		t.Fatalf("Agents over empty file: %v", err)
	}
	if len(agents) != 0 {
		t.Errorf("Agents = %v, want none", agents)
	}
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	store := newTestStore(t)

	for range 5 {
		if err := store.SetContext("k", "v"); err != nil {
			t.Fatalf("SetContext: %v", err)
		}
	}

	matches, err := filepath.Glob(filepath.Join(store.Dir(), ".board-*.tmp"))
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("temp files left behind: %v", matches)
	}
}

func TestApply_LockTimeout(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, WithLockTimeout(150*time.Millisecond))
	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	holder := lockfile.New(dir)
	if err := holder.Acquire(time.Second); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer holder.Release()

	err := store.SetContext("k", "v")
	if !errors.Is(err, lockfile.ErrLockTimeout) {
		t.Errorf("err = %v, want ErrLockTimeout", err)
	}
}

func TestConcurrentUpdates(t *testing.T) {
	store := newTestStore(t)

	const (
		writers    = 4
		perWriter  = 5
		totalPosts = writers * perWriter
	)

	var wg sync.WaitGroup
	for w := range writers {
		// Half the writers go through an independent store so the file
		// lock, not the process-local mutex, does the serializing.
		s := store
		if w%2 == 1 {
			s = NewStore(store.Dir(), WithLockTimeout(5*time.Second))
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWriter {
				if _, err := s.PostFinding("agent", "note", nil); err != nil {
					t.Errorf("PostFinding: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	findings, err := store.Findings()
	if err != nil {
		t.Fatalf("Findings: %v", err)
	}
	if len(findings) != totalPosts {
		t.Errorf("Findings = %d, want %d", len(findings), totalPosts)
	}
}
