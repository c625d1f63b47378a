package lockfile_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storaged/internal/lockfile"
)

// Each acquisition opens its own descriptor, so flock semantics apply
// between handles inside one test process exactly as they do between
// independent handler processes.

func newLock(t *testing.T) *lockfile.Lock {
	t.Helper()
	return lockfile.New(filepath.Join(t.TempDir(), ".lock"))
}

func TestAcquire_CreatesMarkerFile(t *testing.T) {
	l := newLock(t)

	h, err := l.Acquire(lockfile.Shared)
	require.NoError(t, err)
	defer h.Release()

	info, err := os.Stat(l.Path())
	require.NoError(t, err)
	assert.Zero(t, info.Size(), "marker file carries no content")
}

func TestSharedHoldersCoexist(t *testing.T) {
	l := newLock(t)

	h1, err := l.Acquire(lockfile.Shared)
	require.NoError(t, err)
	defer h1.Release()

	h2, err := l.TryAcquire(lockfile.Shared)
	require.NoError(t, err, "second shared holder must be admitted")
	defer h2.Release()
}

func TestExclusiveExcludesShared(t *testing.T) {
	l := newLock(t)

	ex, err := l.Acquire(lockfile.Exclusive)
	require.NoError(t, err)

	_, err = l.TryAcquire(lockfile.Shared)
	assert.ErrorIs(t, err, lockfile.ErrWouldBlock)

	require.NoError(t, ex.Release())

	sh, err := l.TryAcquire(lockfile.Shared)
	require.NoError(t, err, "release must admit waiting readers")
	sh.Release()
}

func TestSharedExcludesExclusive(t *testing.T) {
	l := newLock(t)

	sh, err := l.Acquire(lockfile.Shared)
	require.NoError(t, err)

	_, err = l.TryAcquire(lockfile.Exclusive)
	assert.ErrorIs(t, err, lockfile.ErrWouldBlock)

	require.NoError(t, sh.Release())
}

func TestAcquire_BlocksUntilReleased(t *testing.T) {
	l := newLock(t)

	ex, err := l.Acquire(lockfile.Exclusive)
	require.NoError(t, err)

	acquired := make(chan *lockfile.Handle)
	go func() {
		h, err := l.Acquire(lockfile.Exclusive)
		assert.NoError(t, err)
		acquired <- h
	}()

	select {
	case <-acquired:
		t.Fatal("second exclusive acquisition granted while first is held")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, ex.Release())

	select {
	case h := <-acquired:
		h.Release()
	case <-time.After(2 * time.Second):
		t.Fatal("blocked acquirer never granted after release")
	}
}

func TestRelease_Idempotent(t *testing.T) {
	l := newLock(t)

	h, err := l.Acquire(lockfile.Exclusive)
	require.NoError(t, err)

	require.NoError(t, h.Release())
	require.NoError(t, h.Release(), "double release must be a no-op")

	h2, err := l.TryAcquire(lockfile.Exclusive)
	require.NoError(t, err)
	h2.Release()
}
