// Package cgi interprets one gateway-interface request against the store
// and produces one plain-text response.
//
// A handler invocation is a pure function from an environment snapshot
// plus a body stream to a response line plus an exit code; all state
// lives on disk behind the cross-process lock. The external dispatcher
// owns request framing, process startup and the response transport.
package cgi
