package lockfile

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"
)

// SentinelName is the name of the lock sentinel file inside the
// coordination directory. Its content is never read.
const SentinelName = "board.lock"

// DefaultTimeout bounds Acquire when the caller passes a non-positive
// timeout.
const DefaultTimeout = 30 * time.Second

// Backoff window between acquisition attempts. Each retry sleeps a
// random duration in [backoffMin, backoffMax) so competing processes
// don't retry in lockstep.
const (
	backoffMin = 20 * time.Millisecond
	backoffMax = 120 * time.Millisecond
)

// ErrLockTimeout is returned by Acquire when the lock could not be
// obtained within the timeout window. The whole operation is safe to
// retry.
var ErrLockTimeout = errors.New("lock acquisition timed out")

// FileLock provides cross-process mutual exclusion via an exclusive
// advisory lock on a sentinel file.
type FileLock struct {
	path string
	file *os.File
}

// New creates a FileLock whose sentinel lives inside dir. The sentinel
// file is created on first acquisition.
func New(dir string) *FileLock {
	return &FileLock{path: filepath.Join(dir, SentinelName)}
}

// Path returns the sentinel file path.
func (fl *FileLock) Path() string {
	return fl.path
}

// Acquire obtains the exclusive lock, retrying with randomized backoff
// until it is granted or timeout elapses. A non-positive timeout uses
// DefaultTimeout. On timeout the returned error matches ErrLockTimeout
// via errors.Is.
func (fl *FileLock) Acquire(timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	deadline := time.Now().Add(timeout)

	for {
		acquired, err := fl.TryAcquire()
		if err != nil {
			return err
		}
		if acquired {
			return nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return fmt.Errorf("%w after %s: %s", ErrLockTimeout, timeout, fl.path)
		}
		sleep := backoffMin + rand.N(backoffMax-backoffMin)
		if sleep > remaining {
			sleep = remaining
		}
		time.Sleep(sleep)
	}
}

// AcquireContext is Acquire bounded by ctx instead of a duration. It
// returns ctx.Err() wrapped in ErrLockTimeout semantics when the context
// ends first.
func (fl *FileLock) AcquireContext(ctx context.Context) error {
	for {
		acquired, err := fl.TryAcquire()
		if err != nil {
			return err
		}
		if acquired {
			return nil
		}

		sleep := backoffMin + rand.N(backoffMax-backoffMin)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrLockTimeout, ctx.Err())
		case <-time.After(sleep):
		}
	}
}

// TryAcquire attempts a single non-blocking acquisition. It returns true
// if the lock was obtained, false if another process holds it.
func (fl *FileLock) TryAcquire() (bool, error) {
	f, err := os.OpenFile(fl.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return false, fmt.Errorf("open lock sentinel: %w", err)
	}

	acquired, err := flockTry(f)
	if err != nil {
		_ = f.Close()
		return false, fmt.Errorf("lock %s: %w", fl.path, err)
	}
	if !acquired {
		_ = f.Close()
		return false, nil
	}

	fl.file = f
	return true, nil
}

// Release drops the lock and closes the sentinel. Calling Release on an
// unheld lock is a no-op, so it is safe on every exit path.
func (fl *FileLock) Release() error {
	if fl.file == nil {
		return nil
	}

	if err := flockRelease(fl.file); err != nil {
		_ = fl.file.Close()
		fl.file = nil
		return fmt.Errorf("unlock %s: %w", fl.path, err)
	}

	err := fl.file.Close()
	fl.file = nil
	return err
}
