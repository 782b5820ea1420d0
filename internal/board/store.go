package board

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Iron-Ham/accordo/internal/lockfile"
	"github.com/Iron-Ham/accordo/internal/logging"
)

// DocumentName is the name of the board document inside the
// coordination directory. The lock sentinel is a sibling file, see
// lockfile.SentinelName.
const DocumentName = "board.json"

// Store persists the coordination document. Every access runs under
// the cross-process board lock, and same-process callers are
// additionally serialized by an internal mutex taken before the file
// lock. Each operation decodes a fresh document, so values handed to
// callers are private to that call.
type Store struct {
	dir     string
	path    string
	lock    *lockfile.FileLock
	timeout time.Duration
	logger  *logging.Logger

	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithLockTimeout bounds how long operations wait for the board lock.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.timeout = d
	}
}

// WithLogger sets the logger used for storage warnings.
func WithLogger(l *logging.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a Store over dir's board document. The directory is
// not created; call Init (or create it beforehand) before the first
// operation.
func NewStore(dir string, opts ...Option) *Store {
	s := &Store{
		dir:     dir,
		path:    filepath.Join(dir, DocumentName),
		lock:    lockfile.New(dir),
		timeout: lockfile.DefaultTimeout,
		logger:  logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the coordination directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the board document path.
func (s *Store) Path() string {
	return s.path
}

// Init creates the coordination directory if needed and materializes
// an empty document if none exists.
func (s *Store) Init() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create coordination dir: %w", err)
	}
	return s.Apply(func(d *Document) (bool, error) {
		_, err := os.Stat(s.path)
		return os.IsNotExist(err), nil
	})
}

// Update runs fn against the current document under the board lock and
// persists the result. An error from fn aborts the save; the lock is
// released on every path.
func (s *Store) Update(fn func(*Document) error) error {
	return s.Apply(func(d *Document) (bool, error) {
		return true, fn(d)
	})
}

// View runs fn against a point-in-time document under the board lock
// without persisting. Reads take the lock too: the document on disk is
// only guaranteed consistent between a writer's rename and the next
// writer's.
func (s *Store) View(fn func(*Document) error) error {
	return s.Apply(func(d *Document) (bool, error) {
		return false, fn(d)
	})
}

// Apply is the single engine behind Update and View: acquire the lock,
// load, run fn, save if fn reports it changed the document, release.
// Callers that only sometimes mutate (lazy lease expiry) use Apply
// directly so clean reads don't rewrite the file.
func (s *Store) Apply(fn func(*Document) (changed bool, err error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Acquire(s.timeout); err != nil {
		return err
	}
	defer s.lock.Release()

	doc := s.load()
	changed, err := fn(doc)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return s.save(doc)
}

// load reads and decodes the board document. An absent, empty, or
// unparsable file yields the default empty document: the board is
// advisory coordination state, so availability wins over preserving a
// corrupt history. Never call without holding the lock.
func (s *Store) load() *Document {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("board document unreadable, starting fresh",
				"path", s.path, "error", err)
		}
		return NewDocument()
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return NewDocument()
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("board document corrupt, starting fresh",
			"path", s.path, "error", err)
		return NewDocument()
	}
	doc.normalize()
	return &doc
}

// save serializes and atomically replaces the board document. Never
// call without holding the lock.
func (s *Store) save(doc *Document) error {
	doc.UpdatedAt = time.Now().UTC()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal board document: %w", err)
	}
	if err := atomicWriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write board document: %w", err)
	}
	return nil
}

// atomicWriteFile writes data to path via a temp file in the same
// directory followed by a rename, so readers never observe a partial
// document.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, ".board-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	success = true
	return nil
}
