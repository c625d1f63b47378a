package lockfile

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"storaged/internal/domain"
)

// Mode selects the lock discipline for one acquisition.
type Mode int

const (
	// Shared admits any number of concurrent Shared holders.
	Shared Mode = iota
	// Exclusive excludes every other holder, Shared or Exclusive.
	Exclusive
)

func (m Mode) String() string {
	if m == Exclusive {
		return "exclusive"
	}
	return "shared"
}

// ErrWouldBlock is returned by TryAcquire when another process holds a
// conflicting lock.
var ErrWouldBlock = errors.New("lock held by another process")

// Lock is a handle factory for one on-disk lock file. The file is created
// empty on first acquisition and never deleted in normal operation.
type Lock struct {
	path string
}

// New returns a Lock backed by the marker file at path.
func New(path string) *Lock { return &Lock{path: path} }

// Path returns the marker file location.
func (l *Lock) Path() string { return l.path }

// Acquire blocks until the lock is granted in the requested mode.
func (l *Lock) Acquire(mode Mode) (*Handle, error) {
	return l.acquire(mode, true)
}

// TryAcquire attempts the lock without blocking and fails with
// ErrWouldBlock when a conflicting holder exists.
func (l *Lock) TryAcquire(mode Mode) (*Handle, error) {
	return l.acquire(mode, false)
}

func (l *Lock) acquire(mode Mode, block bool) (*Handle, error) {
	f, err := os.OpenFile(l.path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrLock, l.path, err)
	}
	if err := flockFile(f, mode, block); err != nil {
		f.Close()
		if errors.Is(err, ErrWouldBlock) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrLock, err)
	}
	return &Handle{file: f}, nil
}

// Handle is one granted acquisition. Release is idempotent so deferred
// and explicit releases on the same handle are safe.
type Handle struct {
	once sync.Once
	file *os.File
}

// Release drops the lock and closes the underlying descriptor.
func (h *Handle) Release() error {
	var err error
	h.once.Do(func() {
		if unlockErr := funlockFile(h.file); unlockErr != nil {
			err = unlockErr
		}
		if closeErr := h.file.Close(); err == nil {
			err = closeErr
		}
	})
	return err
}
