package httpx

// FixedBodyState drives the fixed-length body parser of spec §4.6: a
// push-driven generalization of the teacher's blocking fixedReader
// (body.go) that consumes exactly Expected bytes across however many
// feed calls it takes, without ever touching an io.Reader or a
// context.Context — the decoder never suspends (spec §5).
type FixedBodyState struct {
	Expected uint64
	Received uint64
}

func newFixedBodyState(expected uint64) *FixedBodyState {
	return &FixedBodyState{Expected: expected}
}

// done reports whether Received has reached Expected.
func (f *FixedBodyState) done() bool {
	return f.Received >= f.Expected
}

// feed consumes min(Expected-Received, len(buf)) bytes from buf and
// returns them as a single slice (a borrow into buf — the caller owns
// copying it out before buf is reused), plus the number of bytes
// consumed. Bytes beyond Expected are left untouched in buf for the
// caller's carry, per spec §4.6.
func (f *FixedBodyState) feed(buf []byte) (data []byte, consumed int) {
	remaining := f.Expected - f.Received
	if remaining == 0 {
		return nil, 0
	}
	n := uint64(len(buf))
	if n > remaining {
		n = remaining
	}
	f.Received += n
	return buf[:n], int(n)
}
