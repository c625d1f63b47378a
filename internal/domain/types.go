package domain

// Size limits for a single entry. A request body carries one encoded key
// and one encoded value plus the form framing, which bounds CONTENT_LENGTH.
const (
	// MaxKeyLen bounds the key both encoded and decoded.
	MaxKeyLen = 256
	// MaxValueLen bounds the decoded value payload.
	MaxValueLen = 8192
	// MaxContentLength is the largest POST body the handler accepts:
	// worst-case encoded key + value plus field names and separators.
	MaxContentLength = MaxKeyLen + MaxValueLen + 64
)

// Entry is one key-value pair in the store. Key doubles as the file name
// inside the working and mirror directories; Value is the verbatim file
// content.
type Entry struct {
	Key   string
	Value []byte
}
