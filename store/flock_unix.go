//go:build !windows
// +build !windows

package store

import (
	"fmt"
	"os"
	"syscall"
)

// Advisory file locking for the gob tally file. A watch process and ad hoc
// CLI invocations can touch the same file, so writers take an exclusive lock
// and readers a shared one. Locks are advisory only; both sides must go
// through these helpers.

// flockExclusive blocks until an exclusive (writer) lock is held.
func flockExclusive(f *os.File) error {
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("failed to acquire exclusive lock: %w", err)
	}
	return nil
}

// flockShared blocks until a shared (reader) lock is held. Any number of
// readers may hold one at once.
func flockShared(f *os.File) error {
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_SH); err != nil {
		return fmt.Errorf("failed to acquire shared lock: %w", err)
	}
	return nil
}

// funlock drops whichever lock the file holds.
func funlock(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
}
