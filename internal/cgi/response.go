package cgi

import (
	"fmt"
	"io"
)

// Response is the complete outcome of one invocation: a single body line
// and the process exit code the dispatcher observes.
type Response struct {
	Line     string
	ExitCode int
}

// Fixed response headers. The store serves untrusted callers, so the
// body is never cacheable, sniffable or frameable.
const headerBlock = "Content-Type: text/plain; charset=UTF-8\r\n" +
	"Cache-Control: no-store\r\n" +
	"X-Content-Type-Options: nosniff\r\n" +
	"X-Frame-Options: DENY\r\n" +
	"\r\n"

// Emit writes the fixed header block followed by the response body line
// to w.
func (r Response) Emit(w io.Writer) error {
	if _, err := io.WriteString(w, headerBlock); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s\n", r.Line)
	return err
}
