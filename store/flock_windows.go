//go:build windows
// +build windows

package store

import (
	"fmt"
	"os"
	"syscall"
	"unsafe"
)

// Advisory locking for the gob tally file on Windows, built on LockFileEx.
// Same contract as the unix shim: writers exclusive, readers shared, and
// everyone locks through these helpers.

var (
	modkernel32    = syscall.NewLazyDLL("kernel32.dll")
	procLockFileEx = modkernel32.NewProc("LockFileEx")
	procUnlockFile = modkernel32.NewProc("UnlockFileEx")
)

const winLockfileExclusiveLock = 0x00000002

// flockExclusive blocks until an exclusive (writer) lock is held.
func flockExclusive(f *os.File) error {
	var overlapped syscall.Overlapped
	ret, _, err := procLockFileEx.Call(
		f.Fd(),
		uintptr(winLockfileExclusiveLock),
		0,
		1,
		0,
		uintptr(unsafe.Pointer(&overlapped)),
	)
	if ret == 0 {
		return fmt.Errorf("failed to acquire exclusive lock: %w", err)
	}
	return nil
}

// flockShared blocks until a shared (reader) lock is held. LockFileEx with
// no exclusive flag grants a shared lock.
func flockShared(f *os.File) error {
	var overlapped syscall.Overlapped
	ret, _, err := procLockFileEx.Call(
		f.Fd(),
		0,
		0,
		1,
		0,
		uintptr(unsafe.Pointer(&overlapped)),
	)
	if ret == 0 {
		return fmt.Errorf("failed to acquire shared lock: %w", err)
	}
	return nil
}

// funlock drops whichever lock the file holds.
func funlock(f *os.File) error {
	var overlapped syscall.Overlapped
	ret, _, err := procUnlockFile.Call(
		f.Fd(),
		0,
		1,
		0,
		uintptr(unsafe.Pointer(&overlapped)),
	)
	if ret == 0 {
		return fmt.Errorf("failed to unlock file: %w", err)
	}
	return nil
}
