//go:build !unix

package lockfile

import "os"

// flockFile is a stub on non-Unix platforms; the deployment is expected
// to provide its own serialization semantics there.
func flockFile(f *os.File, mode Mode, block bool) error { return nil }

// funlockFile is the stub counterpart to flockFile.
func funlockFile(f *os.File) error { return nil }
