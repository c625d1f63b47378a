package store

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// writeFileAtomic writes b via a temp file in the target's directory,
// then atomically replaces the target. The temp name carries a random
// disambiguator so concurrent retries never collide.
func writeFileAtomic(path string, b []byte, mode os.FileMode) error {
	tmp := path + ".tmp-" + uuid.NewString()

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return err
	}

	// Best-effort cleanup if anything fails before rename.
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

// mkdirForFile creates the parent directory chain for path.
func mkdirForFile(path string, mode os.FileMode) error {
	return os.MkdirAll(filepath.Dir(path), mode)
}
