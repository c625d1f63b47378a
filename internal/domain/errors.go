package domain

import "errors"

// Every failure the handler can surface maps onto one of these sentinels.
// Callers wrap them with context via fmt.Errorf("...: %w", err) and match
// with errors.Is.
var (
	// ErrDecode reports a malformed percent-escape in an encoded field.
	ErrDecode = errors.New("malformed escape sequence")
	// ErrInvalidKey reports a key that fails the key grammar.
	ErrInvalidKey = errors.New("invalid key")
	// ErrNotFound reports a read of an absent key.
	ErrNotFound = errors.New("key not found")
	// ErrLock reports a failure to open or acquire the lock file.
	ErrLock = errors.New("lock unavailable")
	// ErrIO reports a directory, file, write or rename failure.
	ErrIO = errors.New("storage i/o failure")
	// ErrMissingParameter reports an absent key, value or content length.
	ErrMissingParameter = errors.New("missing parameter")
	// ErrOversizeInput reports an out-of-bounds content length or field.
	ErrOversizeInput = errors.New("input too large")
	// ErrUnsupportedMethod reports a request method other than GET or POST.
	ErrUnsupportedMethod = errors.New("unsupported method")
)
