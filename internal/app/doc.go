// Package app wires application dependencies for the CLI.
//
// It builds the stores, the lock coordinator, the request handler and
// the synchronizer from Config, exposing them via the Wire struct for
// commands to use.
package app
