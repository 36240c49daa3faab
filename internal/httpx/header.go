package httpx

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/ajnavarro/httpwire/internal/wireproto"
)

// Header is a canonical-keyed multimap of header values: the
// convenience view handed to callers after decode, and the input shape
// accepted by the encoder. HeaderBlock (headerblock.go) is the
// lower-level, order-preserving, lowercase-keyed structure the decoder
// builds while parsing; ToHeader() converts one into the other.
type Header map[string][]string

// canonicalExceptions lists the header name tokens (matched against a
// lowercased "-"-split token) whose canonical form is not simple
// title-case, per spec §4.8/§6.
var canonicalExceptions = map[string]string{
	"te":   "TE",
	"dnt":  "DNT",
	"etag": "ETag",
	"www":  "WWW",
	"md5":  "MD5",
	"csrf": "CSRF",
}

// CanonicalHeaderKey returns the canonical format of the HTTP header
// key: lowercase, split on "-", each token title-cased, rejoined on
// "-" — except for the canonicalExceptions tokens, emitted verbatim
// (so "www-authenticate" -> "WWW-Authenticate", "content-md5" ->
// "Content-MD5", "x-csrf-token" -> "X-CSRF-Token").
func CanonicalHeaderKey(s string) string {
	if s == "" {
		return ""
	}
	parts := strings.Split(s, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		lower := strings.ToLower(p)
		if exc, ok := canonicalExceptions[lower]; ok {
			parts[i] = exc
			continue
		}
		runes := []rune(lower)
		runes[0] = unicode.ToUpper(runes[0])
		parts[i] = string(runes)
	}
	return strings.Join(parts, "-")
}

// Add appends a value to the header key, canonicalizing the key first.
func (h Header) Add(key, value string) {
	k := CanonicalHeaderKey(key)
	h[k] = append(h[k], value)
}

// Set replaces any existing values for key with a single value.
func (h Header) Set(key, value string) {
	k := CanonicalHeaderKey(key)
	h[k] = []string{value}
}

// Get returns the first value associated with key, or "" if none.
func (h Header) Get(key string) string {
	k := CanonicalHeaderKey(key)
	if v, ok := h[k]; ok && len(v) > 0 {
		return v[0]
	}
	return ""
}

// Values returns all values associated with key (the original slice, not a copy).
func (h Header) Values(key string) []string {
	return h[CanonicalHeaderKey(key)]
}

// Del deletes the header key (case-insensitive).
func (h Header) Del(key string) {
	delete(h, CanonicalHeaderKey(key))
}

// Clone returns a deep copy of the header map.
func (h Header) Clone() Header {
	if h == nil {
		return nil
	}
	c := make(Header, len(h))
	for k, v := range h {
		vv := make([]string, len(v))
		copy(vv, v)
		c[k] = vv
	}
	return c
}

// Write serializes headers to wire format: "Key: Value\r\n..." followed
// by the terminating blank line.
func (h Header) Write(w io.Writer) error {
	for k, vals := range h {
		for _, v := range vals {
			if _, err := fmt.Fprintf(w, "%s: %s\r\n", k, v); err != nil {
				return err
			}
		}
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}

// -----------------------------------------------------------------------------
// Validation
// -----------------------------------------------------------------------------

// isValidFieldName reports whether s is a valid HTTP header field name,
// per the token grammar in spec §6:
// [!#$%&'*+\-.^_`|~0-9A-Za-z]+
func isValidFieldName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z',
			c >= 'a' && c <= 'z',
			c >= '0' && c <= '9',
			c == '!', c == '#', c == '$', c == '%', c == '&', c == '\'',
			c == '*', c == '+', c == '-', c == '.', c == '^', c == '_',
			c == '`', c == '|', c == '~':
			continue
		default:
			return false
		}
	}
	return true
}

// isValidValue checks that a value contains only printable ASCII or HTAB,
// per RFC 9110 §5.5 (no CTL except HTAB).
func isValidValue(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\t' {
			continue
		}
		if c < 32 || c == 127 {
			return false
		}
	}
	return true
}

// ValidateHeader enforces field counts, name/value size limits, and
// valid characters on an already-assembled Header, reusing the same
// wireproto.Limits and closed wireproto.Error Kind taxonomy the decoder
// enforces per-line while parsing (headerblock.go); a caller-supplied
// header block that would never have been accepted coming in is
// rejected here going out, through the identical Kind values (spec §7).
// The encoder calls this before serialization; a nil result means ok.
func ValidateHeader(h Header, lim wireproto.Limits) *wireproto.Error {
	if lim.MaxHeaderCount > 0 && len(h) > lim.MaxHeaderCount {
		return wireproto.New(wireproto.KindHeadersTooMany, "%d header fields exceeds limit of %d", len(h), lim.MaxHeaderCount)
	}

	totalBytes := 0
	for k, vals := range h {
		if !isValidFieldName(k) {
			return wireproto.New(wireproto.KindInvalidHeaderName, "invalid header field name %q", k)
		}
		if lim.MaxHeaderNameBytes > 0 && len(k) > lim.MaxHeaderNameBytes {
			return wireproto.New(wireproto.KindHeaderNameTooLarge, "header name %q exceeds %d bytes", k, lim.MaxHeaderNameBytes)
		}
		for _, v := range vals {
			if lim.MaxHeaderValueBytes > 0 && len(v) > lim.MaxHeaderValueBytes {
				return wireproto.New(wireproto.KindHeaderValueTooLarge, "value for %q exceeds %d bytes", k, lim.MaxHeaderValueBytes)
			}
			if !isValidValue(v) {
				return wireproto.New(wireproto.KindInvalidSyntax, "invalid control byte in value for %q", k)
			}
			totalBytes += len(k) + len(v)
		}
	}
	if lim.MaxHeaderBytes > 0 && totalBytes > lim.MaxHeaderBytes {
		return wireproto.New(wireproto.KindHeadersTooLarge, "header block totals %d bytes, exceeds %d", totalBytes, lim.MaxHeaderBytes)
	}
	return nil
}
