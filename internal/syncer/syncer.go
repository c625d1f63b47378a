package syncer

import (
	"context"
	"fmt"
	"time"

	"pkt.systems/pslog"

	"storaged/internal/lockfile"
	"storaged/internal/store"
)

// Syncer runs reconciliation passes between a working store and its
// persistent mirror under the shared lock file.
type Syncer struct {
	Working *store.Store
	Mirror  *store.Store
	Lock    *lockfile.Lock
	Log     pslog.Logger
}

// New returns a syncer over the two stores serialized by lk. A nil
// logger disables diagnostics.
func New(working, mirror *store.Store, lk *lockfile.Lock, log pslog.Logger) *Syncer {
	if log == nil {
		log = pslog.NoopLogger()
	}
	return &Syncer{Working: working, Mirror: mirror, Lock: lk, Log: log}
}

// Run performs one reconciliation pass: restore the working directory
// from the mirror when the working side starts empty, then rebuild the
// mirror from the working directory. Per-entry copy failures are logged
// and skipped; the lock is released on every exit path.
func (s *Syncer) Run() error {
	if err := s.Working.Ensure(); err != nil {
		return fmt.Errorf("working directory: %w", err)
	}
	if err := s.Mirror.Ensure(); err != nil {
		return fmt.Errorf("mirror directory: %w", err)
	}

	handle, err := s.Lock.Acquire(lockfile.Exclusive)
	if err != nil {
		return err
	}
	defer handle.Release()

	if err := s.restoreIfEmpty(); err != nil {
		// A failed restore leaves the working directory partially
		// populated; the flush below would then persist that partial
		// state over the mirror, so the pass stops here.
		return err
	}
	return s.flush()
}

// restoreIfEmpty copies the mirror into the working directory iff the
// working directory holds no entry and the mirror holds at least one.
func (s *Syncer) restoreIfEmpty() error {
	workingEmpty, err := s.Working.Empty()
	if err != nil {
		return err
	}
	mirrorEmpty, err := s.Mirror.Empty()
	if err != nil {
		return err
	}
	if !workingEmpty || mirrorEmpty {
		return nil
	}

	n, err := s.Mirror.CopyAll(s.Working, s.Log)
	if err != nil {
		s.Log.Error("syncer.restore.incomplete", "restored", n, "error", err)
		return fmt.Errorf("restore: %w", err)
	}
	s.Log.Info("syncer.restore.done", "restored", n)
	return nil
}

// flush rebuilds the mirror so it ends byte-identical to the working
// directory, discarding whatever the mirror held before.
func (s *Syncer) flush() error {
	if err := s.Mirror.Clear(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	n, err := s.Working.CopyAll(s.Mirror, s.Log)
	if err != nil {
		s.Log.Error("syncer.flush.incomplete", "flushed", n, "error", err)
		return fmt.Errorf("flush: %w", err)
	}
	s.Log.Info("syncer.flush.done", "flushed", n)
	return nil
}

// RunEvery repeats Run on each tick of interval until ctx is cancelled.
// A failed pass is logged and the loop continues; an unattended
// synchronizer must outlive transient disk trouble.
func (s *Syncer) RunEvery(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := s.Run(); err != nil {
			s.Log.Error("syncer.pass_failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
