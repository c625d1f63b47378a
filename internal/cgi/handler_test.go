package cgi_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storaged/internal/cgi"
	"storaged/internal/lockfile"
	"storaged/internal/store"
)

type fixture struct {
	handler *cgi.Handler
	store   *store.Store
	lock    *lockfile.Lock
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	st := store.New(filepath.Join(dir, "data"))
	require.NoError(t, st.Ensure())
	lk := lockfile.New(filepath.Join(dir, ".lock"))
	return fixture{handler: cgi.New(st, lk, nil), store: st, lock: lk}
}

func get(query string) cgi.Request {
	return cgi.Request{Method: "GET", Query: query}
}

func post(body string) cgi.Request {
	return cgi.Request{
		Method:        "POST",
		ContentLength: strconv.Itoa(len(body)),
		Body:          strings.NewReader(body),
	}
}

func TestServe_WriteThenRead(t *testing.T) {
	f := newFixture(t)

	resp := f.handler.Serve(post("key=a&value=hello"))
	require.Equal(t, "OK", resp.Line)
	require.Zero(t, resp.ExitCode)

	resp = f.handler.Serve(get("key=a"))
	assert.Equal(t, "hello", resp.Line)
	assert.Zero(t, resp.ExitCode)
}

func TestServe_Get_MissingKeyIsNotFound(t *testing.T) {
	f := newFixture(t)

	resp := f.handler.Serve(get("key=missing"))
	assert.Equal(t, "Not found", resp.Line)
	assert.Zero(t, resp.ExitCode, "not-found is a handled outcome")
}

func TestServe_Get_EmptyValueDiffersFromMissing(t *testing.T) {
	f := newFixture(t)

	require.Equal(t, "OK", f.handler.Serve(post("key=empty&value=")).Line)

	resp := f.handler.Serve(get("key=empty"))
	assert.Equal(t, "", resp.Line)

	resp = f.handler.Serve(get("key=absent"))
	assert.Equal(t, "Not found", resp.Line)
}

func TestServe_Get_QueryErrors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"empty query", "", "No key provided"},
		{"no key field", "value=x", "Missing key parameter"},
		{"encoded key too long", "key=" + strings.Repeat("x", 257), "Key too long"},
		{"bad escape", "key=a%2", "Malformed encoding"},
		{"slash in key", "key=a%2Fb", "Invalid key format"},
		{"dotdot key", "key=..", "Invalid key format"},
		{"space in key", "key=a+b", "Invalid key format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.handler.Serve(get(tt.query))
			assert.Equal(t, tt.want, resp.Line)
			assert.Zero(t, resp.ExitCode)
		})
	}
}

func TestServe_RejectedKeysTouchNoFiles(t *testing.T) {
	f := newFixture(t)

	f.handler.Serve(get("key=..%2F..%2Fetc%2Fpasswd"))
	f.handler.Serve(post("key=..&value=x"))
	f.handler.Serve(post("key=a%2Fb&value=x"))

	names, err := os.ReadDir(f.store.Dir())
	require.NoError(t, err)
	assert.Empty(t, names, "rejected keys must not reach the filesystem")
}

func TestServe_Post_ContentLengthErrors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		length string
		want   string
	}{
		{"missing", "", "Missing CONTENT_LENGTH"},
		{"zero", "0", "Invalid content length"},
		{"negative", "-5", "Invalid content length"},
		{"non-numeric", "ten", "Invalid content length"},
		{"over cap", "8513", "Invalid content length"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := cgi.Request{
				Method:        "POST",
				ContentLength: tt.length,
				Body:          strings.NewReader("key=a&value=b"),
			}
			resp := f.handler.Serve(req)
			assert.Equal(t, tt.want, resp.Line)
			assert.Zero(t, resp.ExitCode)
		})
	}

	names, err := os.ReadDir(f.store.Dir())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestServe_Post_ShortBodyIsReadError(t *testing.T) {
	f := newFixture(t)

	req := cgi.Request{
		Method:        "POST",
		ContentLength: "100",
		Body:          strings.NewReader("key=a&value=b"),
	}
	resp := f.handler.Serve(req)
	assert.Equal(t, "Read error", resp.Line)
}

func TestServe_Post_MissingParameters(t *testing.T) {
	f := newFixture(t)

	for _, body := range []string{"key=a", "value=b", "neither=1"} {
		resp := f.handler.Serve(post(body))
		assert.Equal(t, "Missing parameters", resp.Line, "body %q", body)
	}
}

func TestServe_Post_FieldsAreOrderIndependent(t *testing.T) {
	f := newFixture(t)

	require.Equal(t, "OK", f.handler.Serve(post("value=world&key=b")).Line)
	assert.Equal(t, "world", f.handler.Serve(get("key=b")).Line)
}

func TestServe_Post_OverwriteReplacesValue(t *testing.T) {
	f := newFixture(t)

	require.Equal(t, "OK", f.handler.Serve(post("key=k&value=first+version")).Line)
	require.Equal(t, "OK", f.handler.Serve(post("key=k&value=v2")).Line)

	assert.Equal(t, "v2", f.handler.Serve(get("key=k")).Line)
}

func TestServe_Post_DecodesPercentAndPlus(t *testing.T) {
	f := newFixture(t)

	require.Equal(t, "OK", f.handler.Serve(post("key=msg&value=hello+there%21")).Line)
	assert.Equal(t, "hello there!", f.handler.Serve(get("key=msg")).Line)
}

func TestServe_Get_ScrubsNonPrintableBytes(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.store.Put("bin", []byte("ok\x01\x02 tail\n")))

	resp := f.handler.Serve(get("key=bin"))
	assert.Equal(t, "ok?? tail\n", resp.Line)
}

func TestServe_MethodErrors(t *testing.T) {
	f := newFixture(t)

	resp := f.handler.Serve(cgi.Request{Method: "DELETE"})
	assert.Equal(t, "Unsupported method: DELETE", resp.Line)
	assert.Equal(t, 1, resp.ExitCode)

	resp = f.handler.Serve(cgi.Request{})
	assert.Equal(t, "Missing REQUEST_METHOD", resp.Line)
	assert.Equal(t, 1, resp.ExitCode)
}

func TestServe_ReleasesLockOnEveryPath(t *testing.T) {
	f := newFixture(t)

	// Error paths and success paths alike must leave the lock free.
	f.handler.Serve(get(""))
	f.handler.Serve(get("key=nope"))
	f.handler.Serve(post("key=a&value=b"))
	f.handler.Serve(post("garbage"))

	h, err := f.lock.TryAcquire(lockfile.Exclusive)
	require.NoError(t, err, "a leaked holder would starve this acquisition")
	h.Release()
}

func TestServe_ReaderWaitsOutTheWriter(t *testing.T) {
	f := newFixture(t)

	require.Equal(t, "OK", f.handler.Serve(post("key=k&value=before")).Line)

	// Hold the writer's lock and update the entry underneath it, the way
	// a half-finished exclusive section looks to a concurrent reader.
	writer, err := f.lock.Acquire(lockfile.Exclusive)
	require.NoError(t, err)

	read := make(chan string, 1)
	go func() { read <- f.handler.Serve(get("key=k")).Line }()

	select {
	case line := <-read:
		t.Fatalf("reader admitted during exclusive section, saw %q", line)
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, f.store.Put("k", []byte("after")))
	require.NoError(t, writer.Release())

	select {
	case line := <-read:
		assert.Equal(t, "after", line, "reader sees the full new value, never a mixture")
	case <-time.After(2 * time.Second):
		t.Fatal("reader never admitted after writer release")
	}
}

func TestFromEnv(t *testing.T) {
	env := map[string]string{
		"REQUEST_METHOD": "POST",
		"QUERY_STRING":   "key=a",
		"CONTENT_LENGTH": "13",
	}
	body := strings.NewReader("key=a&value=b")

	req := cgi.FromEnv(func(k string) string { return env[k] }, body)
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "key=a", req.Query)
	assert.Equal(t, "13", req.ContentLength)
	assert.Equal(t, body, req.Body)
}

func TestResponse_EmitHeaders(t *testing.T) {
	var b strings.Builder
	require.NoError(t, cgi.Response{Line: "OK"}.Emit(&b))

	want := "Content-Type: text/plain; charset=UTF-8\r\n" +
		"Cache-Control: no-store\r\n" +
		"X-Content-Type-Options: nosniff\r\n" +
		"X-Frame-Options: DENY\r\n" +
		"\r\n" +
		"OK\n"
	assert.Equal(t, want, b.String())
}

func TestServe_ConcurrentWritersDistinctKeys(t *testing.T) {
	f := newFixture(t)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			body := fmt.Sprintf("key=k%d&value=v%d", i, i)
			assert.Equal(t, "OK", f.handler.Serve(post(body)).Line)
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	for i := 0; i < 8; i++ {
		resp := f.handler.Serve(get(fmt.Sprintf("key=k%d", i)))
		assert.Equal(t, fmt.Sprintf("v%d", i), resp.Line)
	}
}
