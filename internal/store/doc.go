// Package store provides the file-per-entry key-value store backing both
// the working directory and the persistent mirror.
//
// Each entry is one regular file whose name is the key and whose content
// is the verbatim value. Writes go to a temp file in the same directory
// and are published with an atomic rename, so a reader never observes a
// partially written value and a crash mid-write leaves the previous value
// intact. The store performs no locking of its own: callers hold the
// lockfile coordinator at the mode each operation documents.
package store
