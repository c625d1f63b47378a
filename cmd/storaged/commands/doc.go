// Package commands defines the storaged CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - handle  Serve one gateway-interface request from env + stdin
//   - sync    Reconcile the working directory with the mirror
//   - get     Print the value of one key
//   - put     Store one key-value pair
//   - list    Enumerate stored keys
//
// # Implementation
//
// The root command binds flags and STORAGED_* environment variables via
// viper and builds the dependency graph (stores, lock coordinator,
// handler, synchronizer) before any subcommand runs. All diagnostics go
// to stderr; stdout carries only command output, which for handle is the
// response the dispatcher relays to the client.
package commands
