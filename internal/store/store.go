package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"storaged/internal/domain"
)

const (
	dirMode  = 0o700
	fileMode = 0o600
)

// Store maps keys to files inside one directory.
type Store struct {
	dir string
}

// New returns a store rooted at dir. The directory is not touched until
// Ensure or the first write.
func New(dir string) *Store { return &Store{dir: filepath.Clean(dir)} }

// Dir returns the store's root directory.
func (s *Store) Dir() string { return s.dir }

// Ensure creates the store directory (owner-only access) when absent and
// verifies it is a usable directory. Handlers treat a failure here as
// fatal for the invocation.
func (s *Store) Ensure() error {
	if err := os.MkdirAll(s.dir, dirMode); err != nil {
		return fmt.Errorf("%w: create %s: %v", domain.ErrIO, s.dir, err)
	}
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("%w: stat %s: %v", domain.ErrIO, s.dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrIO, s.dir)
	}
	return nil
}

// Get reads the full value of key. Callers hold at least a shared lock.
// An absent key fails with domain.ErrNotFound.
func (s *Store) Get(key string) ([]byte, error) {
	path, err := s.safePath(key)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrIO, key, err)
	}
	return b, nil
}

// Put replaces the value of key atomically. Callers hold the exclusive
// lock. The payload is staged in a temp file beside the destination and
// published with a rename; on any earlier failure the temp file is
// removed and the previous value stays intact.
func (s *Store) Put(key string, value []byte) error {
	path, err := s.safePath(key)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(path, value, fileMode); err != nil {
		return fmt.Errorf("%w: put %s: %v", domain.ErrIO, key, err)
	}
	return nil
}

// Entries enumerates every regular file under the store recursively,
// keyed by slash-separated path relative to the root. Callers hold at
// least a shared lock.
func (s *Store) Entries() ([]domain.Entry, error) {
	var entries []domain.Entry
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			return err
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		entries = append(entries, domain.Entry{Key: filepath.ToSlash(rel), Value: b})
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", domain.ErrIO, s.dir, err)
	}
	return entries, nil
}

// Empty reports whether the store directory is absent or holds no entry.
func (s *Store) Empty() (bool, error) {
	names, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: read %s: %v", domain.ErrIO, s.dir, err)
	}
	return len(names) == 0, nil
}

// Clear removes every entry and subdirectory without removing the store
// directory itself. Callers hold the exclusive lock.
func (s *Store) Clear() error {
	names, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", domain.ErrIO, s.dir, err)
	}
	for _, name := range names {
		if err := os.RemoveAll(filepath.Join(s.dir, name.Name())); err != nil {
			return fmt.Errorf("%w: remove %s: %v", domain.ErrIO, name.Name(), err)
		}
	}
	return nil
}

// safePath joins key onto the store directory after rejecting anything
// that could escape it. ValidKey upstream already excludes these bytes;
// this guard stands on its own so the store never trusts its caller.
func (s *Store) safePath(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, key), nil
}
