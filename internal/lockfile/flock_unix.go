//go:build unix

package lockfile

import (
	"os"
	"syscall"
)

// flockTry attempts a non-blocking exclusive flock(2) on f. It returns
// false without error when another process already holds the lock.
func flockTry(f *os.File) (bool, error) {
	err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
	if err == nil {
		return true, nil
	}
	if err == syscall.EWOULDBLOCK {
		return false, nil
	}
	return false, err
}

// flockRelease drops the flock held on f.
func flockRelease(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
}
