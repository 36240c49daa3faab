package httpx

import (
	"context"
	"io"
	"strings"
)

// Response is the caller-facing shape for building an outgoing response,
// kept from the teacher (response.go) with StatusCode/Status/Header/Body
// unchanged; WriteResponse is now a thin adapter onto the shared
// encodeMessage core (encoder.go) instead of hand-rolling status-line
// formatting and a second copy of the Content-Length/chunked/until-close
// branch.
type Response struct {
	Proto      string    // e.g. "HTTP/1.1" (defaults to "HTTP/1.1" if empty)
	StatusCode int       // e.g. 200
	Status     string    // e.g. "OK"
	Header     Header    // response headers
	Body       io.Reader // may be nil
}

// WriteResponse serializes an HTTP/1.x response (status line, headers,
// body) onto w. Body strategy is chosen from resp.Header, per spec §4.9:
//   - Transfer-Encoding: chunked -> stream resp.Body as a chunked body,
//     pulling one BodyProducer yield per Read call so a caller controlling
//     Read boundaries controls chunk boundaries.
//   - else -> resp.Body is read to completion and sent as a single byte
//     buffer with a freshly computed Content-Length (any caller-supplied
//     Content-Length is recomputed, per spec §4.9 step 3 "apply body
//     framing"; the teacher's until-close fallback is subsumed by this,
//     since a fully buffered body always has a known length).
func WriteResponse(ctx context.Context, w io.Writer, resp *Response) error {
	proto := resp.Proto
	if proto == "" {
		proto = "HTTP/1.1"
	}
	status := resp.Status
	if status == "" {
		status = StatusText(resp.StatusCode)
	}
	major, minor := 1, 1
	if proto != "HTTP/1.1" {
		major, minor = protoVersion(proto)
	}
	sl := StatusLine{Major: major, Minor: minor, StatusCode: resp.StatusCode, Reason: status}

	header := resp.Header
	if header == nil {
		header = Header{}
	}

	if resp.Body == nil {
		return EncodeResponse(ctx, w, sl, header, EncodeBody{Kind: BodyInputEmpty})
	}

	if strings.EqualFold(header.Get("Transfer-Encoding"), "chunked") {
		producer := &readerProducer{r: resp.Body}
		return EncodeResponse(ctx, w, sl, header, EncodeBody{Kind: BodyInputAsync, Producer: producer})
	}

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return EncodeResponse(ctx, w, sl, header, EncodeBody{Kind: BodyInputBytes, Bytes: buf})
}

func protoVersion(proto string) (major, minor int) {
	major, minor, err := parseHTTPVersion([]byte(proto))
	if err != nil {
		return 1, 1
	}
	return major, minor
}

// readerProducer adapts an io.Reader into a BodyProducer: each Next call
// issues exactly one Read, so a caller that controls Read boundaries (as
// the teacher's response_test.go splitReader does) controls chunk
// boundaries, matching the teacher's one-chunk-per-Write behavior.
type readerProducer struct {
	r   io.Reader
	buf [32 * 1024]byte
}

func (p *readerProducer) Next(ctx context.Context) ([]byte, bool, error) {
	n, err := p.r.Read(p.buf[:])
	if n > 0 {
		out := append([]byte(nil), p.buf[:n]...)
		if err == io.EOF {
			return out, false, nil
		}
		return out, false, err
	}
	if err == io.EOF || err == nil {
		return nil, true, nil
	}
	return nil, false, err
}
