//go:build unix

package lockfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// flockFile places an advisory flock(2) lock on f in the requested mode.
func flockFile(f *os.File, mode Mode, block bool) error {
	how := unix.LOCK_SH
	if mode == Exclusive {
		how = unix.LOCK_EX
	}
	if !block {
		how |= unix.LOCK_NB
	}
	for {
		err := unix.Flock(int(f.Fd()), how)
		if err == unix.EINTR {
			continue
		}
		if err == unix.EWOULDBLOCK {
			return ErrWouldBlock
		}
		return err
	}
}

// funlockFile releases any advisory lock held on f.
func funlockFile(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
