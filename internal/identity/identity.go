// internal/identity/identity.go
package identity

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// Length is the size of a freshly minted identifier in characters.
const Length = 32

// New mints a fresh identifier: 16 random bytes rendered as 32 lowercase
// hex characters.
func New() string {
	var b [Length / 2]byte
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// Valid reports whether id can travel through every channel unchanged:
// cookie value, ETag quoted-string and pixel strip of maxLen bytes.
// maxLen <= 0 disables the length check.
func Valid(id string, maxLen int) bool {
	if id == "" || id == "*" {
		return false
	}
	if maxLen > 0 && len(id) > maxLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if c < 0x21 || c > 0x7E {
			return false
		}
		switch c {
		case '"', ',', ';', '\\':
			return false
		}
	}
	return true
}

// Validator renders id as an HTTP entity tag. The protocol equates the
// cache validator with the identifier itself.
func Validator(id string) string {
	return `"` + id + `"`
}

// FromValidator extracts the identifier from an ETag or If-None-Match
// value. A weak prefix and surrounding quotes are stripped; only the
// first tag of a list is used. The "*" wildcard names no entity.
func FromValidator(v string) string {
	v = strings.TrimSpace(v)
	if v == "*" {
		return ""
	}
	if i := strings.IndexByte(v, ','); i >= 0 {
		v = strings.TrimSpace(v[:i])
	}
	v = strings.TrimPrefix(v, "W/")
	return strings.Trim(v, `"`)
}
