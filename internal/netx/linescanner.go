// Package netx holds the push-driven byte scanning primitive the
// message-level codec in internal/httpx builds on: locating the next
// CRLF-terminated line inside a caller-owned buffer without blocking on
// any io.Reader.
//
// This generalizes the teacher's CRLFFastReader, which wrapped a
// bufio.Reader and blocked until a line (or the reader's own buffer cap)
// was available. A streaming codec that accepts arbitrary byte
// fragments cannot block: ScanLine instead reports "incomplete" and
// leaves it to the caller (internal/httpx's decoder driver) to retain
// the unconsumed bytes in its carry buffer and try again on the next
// feed.
package netx

import "github.com/ajnavarro/httpwire/internal/wireproto"

// ScanLine looks for the next CRLF-terminated line in buf starting at
// offset 0, enforcing limit bytes of running line length.
//
// On success it returns the line (excluding the terminating CRLF), the
// number of bytes consumed (len(line)+2), and ok=true.
//
// If no CRLF is found within the buffer and the running length has not
// exceeded limit, it returns ok=false, err=nil: the caller should retain
// buf and call again once more bytes have been fed.
//
// Bare CR (not followed by LF) or bare LF (not preceded by CR) is
// rejected with KindInvalidLineEnding. Exceeding limit before a CRLF is
// found is rejected with KindLineTooLarge.
func ScanLine(buf []byte, limit int) (line []byte, consumed int, ok bool, err *wireproto.Error) {
	crPending := false
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if crPending {
			if b != wireproto.LF {
				return nil, 0, false, wireproto.NewAt(wireproto.KindInvalidLineEnding, i,
					"expected LF after CR")
			}
			// i is the LF; the line runs [0, i-1), consumed is i+1.
			return buf[:i-1], i + 1, true, nil
		}
		if b == wireproto.CR {
			crPending = true
			continue
		}
		if b == wireproto.LF {
			return nil, 0, false, wireproto.NewAt(wireproto.KindInvalidLineEnding, i,
				"LF without preceding CR")
		}
		// i+1 is the running length of the line seen so far (excluding CR/LF).
		if i+1 > limit {
			return nil, 0, false, wireproto.NewAt(wireproto.KindLineTooLarge, i,
				"line exceeds %d byte limit", limit)
		}
	}
	return nil, 0, false, nil
}
