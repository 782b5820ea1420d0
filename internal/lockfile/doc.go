// Package lockfile provides cross-process mutual exclusion over a sentinel
// file using the operating system's advisory locking primitive.
//
// The lock guards the shared coordination document: every reader and writer
// of the document acquires the sentinel lock first, so concurrent accordo
// processes on one host never observe a half-written document. The sentinel
// is a separate file from the document itself, which keeps lock contention
// independent of document I/O.
//
// # Architecture
//
// FileLock wraps one open file descriptor on the sentinel. Acquire retries a
// non-blocking exclusive lock with small randomized backoff until it is
// granted or the timeout window elapses; Release drops the lock and closes
// the descriptor. The OS releases the lock automatically if the holding
// process dies, so a crashed holder never starves the others.
//
// Platform support is split by build tag: flock(2) on Unix, LockFileEx on
// Windows.
//
// # Basic Usage
//
//	fl := lockfile.New(dir)
//	if err := fl.Acquire(30 * time.Second); err != nil {
//	    return err // errors.Is(err, lockfile.ErrLockTimeout) when contended
//	}
//	defer fl.Release()
//
// # Thread Safety
//
// A FileLock is not safe for concurrent use by multiple goroutines; callers
// serialize same-process access with their own mutex before reaching for the
// cross-process lock.
package lockfile
