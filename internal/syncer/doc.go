// Package syncer reconciles the volatile working directory with the
// persistent mirror directory.
//
// One pass holds the exclusive lock throughout: when the working
// directory starts empty and the mirror is populated the mirror is
// restored into it (cold start after a volatile-storage wipe), then the
// mirror is unconditionally rebuilt from the working directory. The
// working directory is the source of truth whenever it is non-empty;
// mirror-only entries are discarded by the flush.
package syncer
