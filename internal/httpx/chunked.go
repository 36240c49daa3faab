package httpx

import (
	"github.com/ajnavarro/httpwire/internal/netx"
	"github.com/ajnavarro/httpwire/internal/wireproto"
)

// chunkedSubstate enumerates the five substates of spec §4.5.
type chunkedSubstate int

const (
	chunkSize chunkedSubstate = iota
	chunkData
	chunkCRLF
	chunkTrailer
	chunkDone
)

// ChunkedBodyState drives the chunked-transfer body parser of spec
// §4.5: a push-driven generalization of the teacher's blocking
// chunkedReader (body.go), keeping the same five substates
// (sChunkHeader/sChunkData/sChunkCRLF/sTrailer/sDone there, renamed
// here to match the spec's SIZE/DATA/CRLF/TRAILER/DONE vocabulary) but
// driven by repeated feed() calls over caller-owned byte slices instead
// of blocking Read calls on a bufio.Reader.
type ChunkedBodyState struct {
	substate chunkedSubstate
	remain   uint64
	total    int64
	trailer  *headerBlockParser
	limits   wireproto.Limits
}

func newChunkedBodyState(limits wireproto.Limits) *ChunkedBodyState {
	return &ChunkedBodyState{limits: limits}
}

func (c *ChunkedBodyState) done() bool { return c.substate == chunkDone }

// TotalSize returns the cumulative number of body-data bytes delivered
// so far (the value body-complete carries once done() is true).
func (c *ChunkedBodyState) TotalSize() int64 { return c.total }

// Trailers returns the trailer header block parsed after the final
// zero-size chunk, or nil if the body has not yet reached TRAILER/DONE.
func (c *ChunkedBodyState) Trailers() *HeaderBlock {
	if c.trailer == nil {
		return nil
	}
	return c.trailer.block
}

// feed advances the chunked state machine as far as buf allows,
// invoking onData once per contiguous slice of chunk payload bytes
// consumed. It returns the number of bytes consumed from buf and, once
// the terminating trailer block's blank line has been seen, done=true.
func (c *ChunkedBodyState) feed(buf []byte, onData func([]byte)) (consumed int, done bool, err *wireproto.Error) {
	offset := 0
	for {
		remaining := buf[offset:]
		switch c.substate {
		case chunkSize:
			line, n, ok, lerr := netx.ScanLine(remaining, c.limits.MaxChunkSizeLineBytes)
			if lerr != nil {
				return offset, false, promoteChunkSizeError(lerr)
			}
			if !ok {
				return offset, false, nil
			}
			size, perr := parseChunkSizeLine(line)
			if perr != nil {
				return offset, false, perr
			}
			offset += n
			if size == 0 {
				c.substate = chunkTrailer
				c.trailer = newHeaderBlockParser(c.limits)
				continue
			}
			c.remain = size
			c.substate = chunkData
			continue

		case chunkData:
			if c.remain == 0 {
				c.substate = chunkCRLF
				continue
			}
			avail := uint64(len(remaining))
			n := c.remain
			if avail < n {
				n = avail
			}
			if n == 0 {
				return offset, false, nil
			}
			onData(remaining[:n])
			c.total += int64(n)
			c.remain -= n
			offset += int(n)
			if c.remain == 0 {
				c.substate = chunkCRLF
			}
			continue

		case chunkCRLF:
			if len(remaining) < 2 {
				if len(remaining) == 1 && remaining[0] != wireproto.CR {
					return offset, false, wireproto.New(wireproto.KindInvalidSyntax,
						"missing CRLF after chunk data")
				}
				return offset, false, nil
			}
			if remaining[0] != wireproto.CR || remaining[1] != wireproto.LF {
				return offset, false, wireproto.New(wireproto.KindInvalidSyntax,
					"missing CRLF after chunk data")
			}
			offset += 2
			c.substate = chunkSize
			continue

		case chunkTrailer:
			n, trailerDone, terr := c.trailer.feed(remaining)
			offset += n
			if terr != nil {
				return offset, false, terr
			}
			if !trailerDone {
				return offset, false, nil
			}
			c.substate = chunkDone
			return offset, true, nil

		case chunkDone:
			return offset, true, nil
		}
	}
}

// parseChunkSizeLine parses "<hex-digits>[;ext...]", tolerating
// surrounding whitespace and ignoring (but not surfacing) chunk
// extensions, per spec §4.5.
func parseChunkSizeLine(line []byte) (uint64, *wireproto.Error) {
	trimmed := trimOWS(line)
	if semi := indexByte(trimmed, ';'); semi >= 0 {
		trimmed = trimOWS(trimmed[:semi])
	}
	if len(trimmed) == 0 || !isHexDigit(trimmed[0]) {
		return 0, wireproto.New(wireproto.KindInvalidSyntax, "invalid chunk size line %q", line)
	}
	var size uint64
	for _, b := range trimmed {
		v, ok := hexVal(b)
		if !ok {
			return 0, wireproto.New(wireproto.KindInvalidSyntax, "invalid chunk size line %q", line)
		}
		size = size*16 + uint64(v)
	}
	return size, nil
}

func isHexDigit(b byte) bool {
	_, ok := hexVal(b)
	return ok
}

func hexVal(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	default:
		return 0, false
	}
}

// promoteChunkSizeError re-tags a too-large chunk-size line as
// invalid-syntax rather than the generic line-too-large, since spec §7
// doesn't carry a distinct kind for it and §4.5 treats an oversized
// chunk-size line as a framing violation.
func promoteChunkSizeError(e *wireproto.Error) *wireproto.Error {
	if e.Kind == wireproto.KindLineTooLarge {
		return wireproto.NewAt(wireproto.KindInvalidSyntax, e.Offset, "%s", e.Message)
	}
	return e
}
