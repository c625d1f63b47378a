package app

import "path/filepath"

// Default filesystem locations. The working directory sits on volatile
// storage, the mirror on persistent storage; deployments override both.
const (
	DefaultDataDir   = "/tmp/storaged"
	DefaultMirrorDir = "/var/lib/storaged"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	DataDir   string // working directory holding the live entries
	MirrorDir string // persistent mirror maintained by the synchronizer
	LockFile  string // advisory lock marker; defaults to <DataDir>.lock
	LogLevel  string // pslog level name; empty disables logging
}

// withDefaults fills unset fields with the package defaults. The lock
// marker defaults to a sibling of the working directory, never inside
// it: an in-tree marker would count as an entry and defeat the
// synchronizer's emptiness check.
func (c Config) withDefaults() Config {
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.MirrorDir == "" {
		c.MirrorDir = DefaultMirrorDir
	}
	if c.LockFile == "" {
		c.LockFile = filepath.Clean(c.DataDir) + ".lock"
	}
	return c
}
