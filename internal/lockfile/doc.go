// Package lockfile implements the cross-process reader/writer lock that
// serializes every store mutation and synchronizer run. The lock state
// lives in the kernel against one zero-length marker file, so independent
// handler processes and the synchronizer all contend on the same lock
// without sharing memory.
package lockfile
