package cgi

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"pkt.systems/pslog"

	"storaged/internal/codec"
	"storaged/internal/domain"
	"storaged/internal/lockfile"
	"storaged/internal/store"
)

// Literal response body lines. The dispatcher and its clients match on
// these, so they are fixed vocabulary rather than error text.
const (
	lineOK             = "OK"
	lineNotFound       = "Not found"
	lineNoKey          = "No key provided"
	lineMissingKey     = "Missing key parameter"
	lineKeyTooLong     = "Key too long"
	lineInvalidKey     = "Invalid key format"
	lineBadEncoding    = "Malformed encoding"
	lineLockError      = "Lock error"
	lineMissingLength  = "Missing CONTENT_LENGTH"
	lineInvalidLength  = "Invalid content length"
	lineMissingParams  = "Missing parameters"
	lineReadError      = "Read error"
	lineWriteError     = "Write error"
	lineMissingMethod  = "Missing REQUEST_METHOD"
	unsupportedMethodF = "Unsupported method: %s"
)

// Handler drives one request against the working-directory store under
// the cross-process lock.
type Handler struct {
	Store *store.Store
	Lock  *lockfile.Lock
	Log   pslog.Logger
}

// New returns a handler over st serialized by lk. A nil logger disables
// diagnostics.
func New(st *store.Store, lk *lockfile.Lock, log pslog.Logger) *Handler {
	if log == nil {
		log = pslog.NoopLogger()
	}
	return &Handler{Store: st, Lock: lk, Log: log}
}

// Serve interprets req and returns the response to emit. Every failure
// is converted to a response line here; nothing escapes as a panic or a
// bare error. Only a missing or unsupported method yields a non-zero
// exit code.
func (h *Handler) Serve(req Request) Response {
	switch req.Method {
	case "GET":
		return Response{Line: h.get(req)}
	case "POST":
		return Response{Line: h.post(req)}
	case "":
		return Response{Line: lineMissingMethod, ExitCode: 1}
	default:
		return Response{Line: fmt.Sprintf(unsupportedMethodF, req.Method), ExitCode: 1}
	}
}

// get serves the read path under a shared lock.
func (h *Handler) get(req Request) string {
	handle, err := h.Lock.Acquire(lockfile.Shared)
	if err != nil {
		h.Log.Debug("cgi.get.lock_failed", "error", err)
		return lineLockError
	}
	defer handle.Release()

	if req.Query == "" {
		return lineNoKey
	}
	enc, err := codec.Field(req.Query, "key", domain.MaxKeyLen)
	if err != nil {
		return keyFieldLine(err)
	}
	key, err := codec.Decode(enc, domain.MaxKeyLen)
	if err != nil {
		return lineBadEncoding
	}
	if err := codec.ValidKey(key); err != nil {
		return lineInvalidKey
	}

	value, err := h.Store.Get(key)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return lineNotFound
	case err != nil:
		h.Log.Debug("cgi.get.read_failed", "key", key, "error", err)
		return lineReadError
	}
	return string(scrub(value))
}

// post serves the write path under the exclusive lock.
func (h *Handler) post(req Request) string {
	handle, err := h.Lock.Acquire(lockfile.Exclusive)
	if err != nil {
		h.Log.Debug("cgi.post.lock_failed", "error", err)
		return lineLockError
	}
	defer handle.Release()

	if req.ContentLength == "" {
		return lineMissingLength
	}
	length, err := strconv.Atoi(req.ContentLength)
	if err != nil || length <= 0 || length > domain.MaxContentLength {
		return lineInvalidLength
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(req.Body, body); err != nil {
		return lineReadError
	}

	encKey, err := codec.Field(string(body), "key", domain.MaxKeyLen)
	if err != nil {
		if errors.Is(err, domain.ErrOversizeInput) {
			return lineKeyTooLong
		}
		return lineMissingParams
	}
	encValue, err := codec.Field(string(body), "value", domain.MaxContentLength)
	if err != nil {
		return lineMissingParams
	}

	key, err := codec.Decode(encKey, domain.MaxKeyLen)
	if err != nil {
		return lineBadEncoding
	}
	value, err := codec.Decode(encValue, domain.MaxValueLen)
	if err != nil {
		return lineBadEncoding
	}
	if err := codec.ValidKey(key); err != nil {
		return lineInvalidKey
	}

	if err := h.Store.Put(key, []byte(value)); err != nil {
		h.Log.Debug("cgi.post.write_failed", "key", key, "error", err)
		return lineWriteError
	}
	return lineOK
}

// keyFieldLine maps a key-field extraction failure to its response line.
func keyFieldLine(err error) string {
	if errors.Is(err, domain.ErrOversizeInput) {
		return lineKeyTooLong
	}
	return lineMissingKey
}

// scrub replaces every byte that is neither printable ASCII nor
// whitespace with '?' so stored binary junk cannot reach the terminal or
// browser of a caller.
func scrub(value []byte) []byte {
	out := make([]byte, len(value))
	for i, c := range value {
		if isPrint(c) || isSpace(c) {
			out[i] = c
		} else {
			out[i] = '?'
		}
	}
	return out
}

func isPrint(c byte) bool { return c >= 0x20 && c <= 0x7e }

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
