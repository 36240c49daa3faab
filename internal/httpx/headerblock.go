package httpx

import (
	"strings"

	"github.com/ajnavarro/httpwire/internal/netx"
	"github.com/ajnavarro/httpwire/internal/wireproto"
)

// HeaderBlock is the normalized result of parsing the header section of
// a message: a lowercase-keyed multimap preserving value order, plus a
// parallel ordered list of (raw-name, value) pairs for round-trip
// fidelity. Spec §3 "Headers".
type HeaderBlock struct {
	Normalized map[string][]string
	Raw        []RawHeaderField
}

// RawHeaderField preserves the original casing and source order of one
// header field line.
type RawHeaderField struct {
	Name  string
	Value string
}

func newHeaderBlock() *HeaderBlock {
	return &HeaderBlock{Normalized: make(map[string][]string)}
}

// Get returns the first value for the lowercased name, or "" if absent.
func (b *HeaderBlock) Get(name string) string {
	vs := b.Normalized[strings.ToLower(name)]
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

// Values returns all values for the lowercased name, in receipt order.
func (b *HeaderBlock) Values(name string) []string {
	return b.Normalized[strings.ToLower(name)]
}

// Count returns the number of header lines accumulated so far.
func (b *HeaderBlock) Count() int {
	return len(b.Raw)
}

// ToHeader converts the block into a caller-facing Header keyed by
// CanonicalHeaderKey.
func (b *HeaderBlock) ToHeader() Header {
	h := make(Header, len(b.Normalized))
	for _, f := range b.Raw {
		h.Add(f.Name, f.Value)
	}
	return h
}

// headerBlockParser drives the header-block state machine described in
// spec §4.3: repeatedly scan a line, split it on the first colon,
// validate and trim name/value, and accumulate until the terminating
// blank line.
type headerBlockParser struct {
	block         *HeaderBlock
	receivedBytes int
	limits        wireproto.Limits
}

func newHeaderBlockParser(limits wireproto.Limits) *headerBlockParser {
	return &headerBlockParser{block: newHeaderBlock(), limits: limits}
}

// feed consumes as many complete header lines as are present in buf
// (starting at offset 0), returning the number of bytes consumed, a
// done flag (the blank-line terminator was seen), and any error.
//
// If the line scanner reports "incomplete" but the carry already
// exceeds MaxHeaderBytes, this raises headers-too-large immediately
// rather than waiting for more bytes (spec §4.3 "Partial input").
func (p *headerBlockParser) feed(buf []byte) (consumed int, done bool, err *wireproto.Error) {
	offset := 0
	for {
		remaining := buf[offset:]
		line, n, ok, lerr := netx.ScanLine(remaining, p.limits.MaxHeaderLineBytes)
		if lerr != nil {
			return offset, false, promoteLineError(lerr)
		}
		if !ok {
			if p.receivedBytes+len(remaining) > p.limits.MaxHeaderBytes {
				return offset, false, wireproto.New(wireproto.KindHeadersTooLarge,
					"header block exceeds %d byte limit", p.limits.MaxHeaderBytes)
			}
			return offset, false, nil
		}

		offset += n
		p.receivedBytes += n
		if p.receivedBytes > p.limits.MaxHeaderBytes {
			return offset, false, wireproto.New(wireproto.KindHeadersTooLarge,
				"header block exceeds %d byte limit", p.limits.MaxHeaderBytes)
		}

		if len(line) == 0 {
			return offset, true, nil
		}

		if err := p.parseLine(line); err != nil {
			return offset, false, err
		}

		if p.block.Count() >= p.limits.MaxHeaderCount {
			return offset, false, wireproto.New(wireproto.KindHeadersTooMany,
				"header field count reached limit of %d", p.limits.MaxHeaderCount)
		}
	}
}

func (p *headerBlockParser) parseLine(line []byte) *wireproto.Error {
	colon := indexByte(line, ':')
	if colon < 0 {
		return wireproto.New(wireproto.KindHeaderMissingColon, "no colon in header line %q", line)
	}
	if colon == 0 {
		return wireproto.New(wireproto.KindHeaderNameEmpty, "empty header name")
	}

	rawName := line[:colon]
	if isHTAB(rawName[0]) || rawName[0] == ' ' {
		return wireproto.New(wireproto.KindInvalidHeaderName,
			"leading whitespace in header field name %q", rawName)
	}
	name := trimOWS(rawName)
	if len(name) > p.limits.MaxHeaderNameBytes {
		return wireproto.New(wireproto.KindHeaderNameTooLarge,
			"header name exceeds %d bytes", p.limits.MaxHeaderNameBytes)
	}
	if !isValidFieldName(string(name)) {
		return wireproto.New(wireproto.KindInvalidHeaderName, "invalid header field name %q", name)
	}

	value := trimOWS(line[colon+1:])
	if len(value) > p.limits.MaxHeaderValueBytes {
		return wireproto.New(wireproto.KindHeaderValueTooLarge,
			"header value exceeds %d bytes", p.limits.MaxHeaderValueBytes)
	}

	nameStr := string(name)
	valueStr := string(value)
	lower := strings.ToLower(nameStr)
	p.block.Normalized[lower] = append(p.block.Normalized[lower], valueStr)
	p.block.Raw = append(p.block.Raw, RawHeaderField{Name: nameStr, Value: valueStr})
	return nil
}

func indexByte(b []byte, c byte) int {
	for i, x := range b {
		if x == c {
			return i
		}
	}
	return -1
}

func isHTAB(c byte) bool { return c == '\t' }

// toLowerASCII returns an ASCII-lowercased copy of s, used for
// normalizing header names into HeaderBlock.Normalized's keys.
func toLowerASCII(s string) string {
	out := []byte(s)
	for i, c := range out {
		if c >= 'A' && c <= 'Z' {
			out[i] = c + ('a' - 'A')
		}
	}
	return string(out)
}

// trimOWS trims leading/trailing SP/HTAB ("optional whitespace" per RFC 9110).
func trimOWS(b []byte) []byte {
	start := 0
	for start < len(b) && (b[start] == ' ' || b[start] == '\t') {
		start++
	}
	end := len(b)
	for end > start && (b[end-1] == ' ' || b[end-1] == '\t') {
		end--
	}
	return b[start:end]
}

// promoteLineError re-tags a line-scanner error raised while reading a
// header line as the header-specific "line too large" kind, per spec §7
// (header-line-too-large is distinct from the generic line-too-large
// used for the start line).
func promoteLineError(e *wireproto.Error) *wireproto.Error {
	if e.Kind == wireproto.KindLineTooLarge {
		return wireproto.NewAt(wireproto.KindHeaderLineTooLarge, e.Offset, "%s", e.Message)
	}
	return e
}
