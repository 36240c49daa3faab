package httpx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
)

// Request is the caller-facing decoded request, kept from the teacher
// (request.go) with URL/Header/Host/ContentLength/Body/ctx unchanged in
// shape; the embedded requestLine is replaced by the push-driven
// decoder's RequestLine (startline.go). The teacher built this directly
// from a blocking netx.CRLFFastReader inside ParseRequest; here it is
// assembled from a finished DecoderState plus the body bytes the caller
// collected from EventBodyData events while feeding it (the decoder
// itself never holds a complete in-memory body, per spec §5).
type Request struct {
	RequestLine
	URL           *URL
	Header        Header
	Host          string
	ContentLength int64
	Body          io.ReadCloser
	ctx           context.Context
}

// NewRequest builds a Request from an already-parsed RequestLine and
// HeaderBlock plus the fully-collected body bytes. Most callers will use
// RequestFromDecoder instead, which pulls the first two from a finished
// DecoderState.
func NewRequest(rl RequestLine, headers *HeaderBlock, body []byte) (*Request, error) {
	u, err := ParseRequestURI(rl.RequestURI)
	if err != nil {
		return nil, err
	}

	h := headers.ToHeader()
	req := &Request{
		RequestLine:   rl,
		URL:           u,
		Header:        h,
		ContentLength: int64(len(body)),
		Body:          io.NopCloser(bytes.NewReader(body)),
		ctx:           context.Background(),
	}

	switch {
	case u.Host != "":
		req.Host = strings.ToLower(u.Host)
	case h.Get("Host") != "":
		req.Host = strings.ToLower(h.Get("Host"))
	}

	return req, nil
}

// RequestFromDecoder builds a Request from a DecoderState that has
// parsed at least the request line and the complete header block (it
// need not have reached PhaseFinished: callers streaming a large body
// may assemble a Request as soon as headers are complete and keep
// appending to body themselves). body is the concatenation of every
// EventBodyData.Data the caller observed from d's event log.
func RequestFromDecoder(d *DecoderState, body []byte) (*Request, error) {
	if d.msgType != MessageRequest {
		return nil, errors.New("httpx: decoder is not a request decoder")
	}
	rl := d.RequestLine()
	if rl == nil {
		return nil, errors.New("httpx: decoder has not parsed a request line yet")
	}
	if d.phase == PhaseStartLine || d.phase == PhaseHeaders {
		return nil, errors.New("httpx: decoder has not completed headers yet")
	}
	headers := d.Headers()
	if headers == nil {
		return nil, errors.New("httpx: decoder has not completed headers yet")
	}
	return NewRequest(*rl, headers, body)
}

// Context returns the request's context.
func (r *Request) Context() context.Context {
	if r == nil || r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// WithContext returns a shallow copy of r with its context replaced by ctx.
func (r *Request) WithContext(ctx context.Context) *Request {
	if r == nil {
		return nil
	}
	cp := *r
	cp.ctx = ctx
	return &cp
}

// String returns a human-readable representation of the request line.
func (r *Request) String() string {
	if r == nil {
		return "<nil request>"
	}
	return r.RequestLine.String()
}
