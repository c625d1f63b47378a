package codec

import (
	"fmt"
	"strings"

	"storaged/internal/domain"
)

// Decode url-decodes s: "+" becomes a space and "%XX" becomes the byte
// with hex value XX. A "%" not followed by two hex digits is a malformed
// escape and fails with domain.ErrDecode. The result is truncated at max
// bytes and never overruns it.
func Decode(s string, max int) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s) && b.Len() < max; i++ {
		switch s[i] {
		case '+':
			b.WriteByte(' ')
		case '%':
			if i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2]) {
				return "", fmt.Errorf("%w at offset %d", domain.ErrDecode, i)
			}
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String(), nil
}

// ValidKey reports whether k may name a file in the store: non-empty,
// at most domain.MaxKeyLen bytes, every byte in [A-Za-z0-9_-]. The
// grammar excludes path separators, "." and control characters, so a
// valid key cannot escape the store directory.
func ValidKey(k string) error {
	if k == "" {
		return fmt.Errorf("%w: empty", domain.ErrInvalidKey)
	}
	if len(k) > domain.MaxKeyLen {
		return fmt.Errorf("%w: longer than %d bytes", domain.ErrInvalidKey, domain.MaxKeyLen)
	}
	for i := 0; i < len(k); i++ {
		if !isKeyByte(k[i]) {
			return fmt.Errorf("%w: byte %q", domain.ErrInvalidKey, k[i])
		}
	}
	return nil
}

// Field extracts the still-encoded value of the first "name=" field from
// a &-separated query or form body. Absence fails with
// domain.ErrMissingParameter; an encoded segment longer than max fails
// with domain.ErrOversizeInput.
func Field(query, name string, max int) (string, error) {
	for _, seg := range strings.Split(query, "&") {
		enc, ok := strings.CutPrefix(seg, name+"=")
		if !ok {
			continue
		}
		if len(enc) > max {
			return "", fmt.Errorf("%w: field %s", domain.ErrOversizeInput, name)
		}
		return enc, nil
	}
	return "", fmt.Errorf("%w: %s", domain.ErrMissingParameter, name)
}

func isHex(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	default:
		return c - '0'
	}
}

func isKeyByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' || c == '-' || c == '_'
}
