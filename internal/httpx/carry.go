package httpx

import "github.com/valyala/bytebufferpool"

// bytebufferCarry owns the decoder's rolling carry buffer: the tail of
// fed-but-not-yet-consumed bytes described in spec §3 "Byte buffer".
// Backed by a pooled bytebufferpool.ByteBuffer (bufpool.go) instead of a
// bare []byte so repeated Feed/consume cycles reuse one allocation
// across the decoder's lifetime instead of letting append regrow it
// from scratch for every message.
type bytebufferCarry struct {
	buf *bytebufferpool.ByteBuffer
}

func newBytebufferCarry() *bytebufferCarry {
	return &bytebufferCarry{buf: getCarryBuffer()}
}

// append adds data to the end of the carry.
func (c *bytebufferCarry) append(data []byte) {
	c.buf.B = append(c.buf.B, data...)
}

// bytes returns the current unconsumed suffix. The returned slice is
// only valid until the next append/consume call.
func (c *bytebufferCarry) bytes() []byte {
	return c.buf.B
}

// consume drops the first n bytes, shifting the remainder to the front.
// Invariant: after every Feed call returns, the carry holds exactly the
// unconsumed suffix (spec §3).
func (c *bytebufferCarry) consume(n int) {
	if n <= 0 {
		return
	}
	copy(c.buf.B, c.buf.B[n:])
	c.buf.B = c.buf.B[:len(c.buf.B)-n]
}

// release returns the backing buffer to the pool. Call once the
// decoder's state is discarded.
func (c *bytebufferCarry) release() {
	putCarryBuffer(c.buf)
	c.buf = nil
}
