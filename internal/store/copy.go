package store

import (
	"fmt"
	"path/filepath"

	"pkt.systems/pslog"

	"storaged/internal/domain"
)

// CopyAll recreates every entry of s under dst, overwriting existing
// files and recreating nested directories. Callers hold the exclusive
// lock over both stores. The copy is not atomic as a whole: per-entry
// failures are logged and skipped so one bad file cannot abort a whole
// reconciliation, and the number of entries copied is returned.
func (s *Store) CopyAll(dst *Store, log pslog.Logger) (int, error) {
	if log == nil {
		log = pslog.NoopLogger()
	}
	entries, err := s.Entries()
	if err != nil {
		return 0, err
	}
	if err := dst.Ensure(); err != nil {
		return 0, err
	}
	copied := 0
	for _, e := range entries {
		path := filepath.Join(dst.dir, filepath.FromSlash(e.Key))
		if err := mkdirForFile(path, dirMode); err != nil {
			log.Warn("store.copy.mkdir_failed", "key", e.Key, "error", err)
			continue
		}
		if err := writeFileAtomic(path, e.Value, fileMode); err != nil {
			log.Warn("store.copy.write_failed", "key", e.Key, "error", err)
			continue
		}
		copied++
	}
	if copied < len(entries) {
		return copied, fmt.Errorf("%w: copied %d of %d entries", domain.ErrIO, copied, len(entries))
	}
	return copied, nil
}
