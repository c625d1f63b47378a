package cgi

import "io"

// Request is the snapshot of one inbound invocation: the three gateway
// environment fields the handler consumes plus the body stream.
type Request struct {
	Method        string
	Query         string
	ContentLength string
	Body          io.Reader
}

// FromEnv builds a Request from an environment lookup function and the
// body stream. Passing the lookup explicitly keeps handler invocations
// reproducible in tests without mutating the process environment.
func FromEnv(getenv func(string) string, body io.Reader) Request {
	return Request{
		Method:        getenv("REQUEST_METHOD"),
		Query:         getenv("QUERY_STRING"),
		ContentLength: getenv("CONTENT_LENGTH"),
		Body:          body,
	}
}
