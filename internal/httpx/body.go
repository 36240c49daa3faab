package httpx

import (
	"context"
	"io"

	"github.com/ajnavarro/httpwire/internal/wireproto"
)

// ReadRequest drives a fresh request DecoderState from a blocking
// io.Reader (e.g. a net.Conn) until the request is fully parsed, and
// assembles the result into a Request. This is the blocking-io
// convenience the teacher's NewBodyReader/fixedReader/chunkedReader/
// closeReader provided around blocking Read calls; those readers
// couldn't be reused directly because body framing is now decided
// up front by DecideBodyStrategy and driven by Feed rather than
// sniffed per Read call, so the read loop is rebuilt here on top of
// DecoderState instead of re-deriving chunk/fixed/until-close framing
// from headers a second time.
//
// maxBodyBytes caps the cumulative body size read before the message
// completes; 0 means unlimited. ctx is checked before each underlying
// Read.
func ReadRequest(ctx context.Context, r io.Reader, limits wireproto.Limits, maxBodyBytes int64) (*Request, error) {
	d := NewRequestDecoder(limits)
	body, err := driveDecoder(ctx, d, r, maxBodyBytes)
	if err != nil {
		return nil, err
	}
	return RequestFromDecoder(d, body)
}

// ReadResponse drives a fresh response DecoderState from a blocking
// io.Reader until the response is fully parsed, returning the finished
// decoder (StatusLine()/Headers() on it) and the assembled body bytes.
// expectNoBody mirrors NewResponseDecoder's same-named parameter (spec
// §9, second Open Question: responses to HEAD carry no body regardless
// of Content-Length).
func ReadResponse(ctx context.Context, r io.Reader, limits wireproto.Limits, expectNoBody bool, maxBodyBytes int64) (*DecoderState, []byte, error) {
	d := NewResponseDecoder(limits, expectNoBody)
	body, err := driveDecoder(ctx, d, r, maxBodyBytes)
	if err != nil {
		return nil, nil, err
	}
	return d, body, nil
}

// driveDecoder reads from r in bursts of up to 32 KiB, feeding each burst to
// d, until d finishes or errors. d's carry buffer is always released
// back to the pool before returning, however the loop exits.
func driveDecoder(ctx context.Context, d *DecoderState, r io.Reader, maxBodyBytes int64) ([]byte, error) {
	defer d.Close()

	var body []byte
	buf := make([]byte, 32*1024)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		n, readErr := r.Read(buf)
		if n > 0 {
			if err := d.Feed(buf[:n]); err != nil {
				return nil, err
			}
			for _, e := range d.Events() {
				if e.Kind != EventBodyData {
					continue
				}
				if maxBodyBytes > 0 && int64(len(body)+len(e.Data)) > maxBodyBytes {
					return nil, wireproto.New(wireproto.KindMessageTooLarge,
						"body exceeds %d byte limit", maxBodyBytes)
				}
				body = append(body, e.Data...)
			}
			if d.IsFinished() {
				return body, nil
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, readErr
		}
	}
}
