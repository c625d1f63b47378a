package app

import (
	"fmt"
	"os"

	"pkt.systems/pslog"

	"storaged/internal/cgi"
	"storaged/internal/lockfile"
	"storaged/internal/store"
	"storaged/internal/syncer"
)

// Wire bundles the stores, lock, handler and synchronizer for the CLI.
type Wire struct {
	Working *store.Store
	Mirror  *store.Store
	Lock    *lockfile.Lock
	Handler *cgi.Handler
	Syncer  *syncer.Syncer
	Log     pslog.Logger
}

// NewWire constructs the dependency graph from cfg. Logs go to stderr:
// stdout belongs to the response stream.
func NewWire(cfg Config) (*Wire, error) {
	cfg = cfg.withDefaults()

	log := pslog.NoopLogger()
	if cfg.LogLevel != "" {
		level, ok := pslog.ParseLevel(cfg.LogLevel)
		if !ok {
			return nil, fmt.Errorf("invalid log level %q", cfg.LogLevel)
		}
		if level != pslog.Disabled && level != pslog.NoLevel {
			log = pslog.NewStructured(os.Stderr).LogLevel(level).With("app", "storaged")
		}
	}

	working := store.New(cfg.DataDir)
	mirror := store.New(cfg.MirrorDir)
	lock := lockfile.New(cfg.LockFile)

	return &Wire{
		Working: working,
		Mirror:  mirror,
		Lock:    lock,
		Handler: cgi.New(working, lock, log),
		Syncer:  syncer.New(working, mirror, lock, log),
		Log:     log,
	}, nil
}
