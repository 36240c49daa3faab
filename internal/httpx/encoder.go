package httpx

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/ajnavarro/httpwire/internal/wireproto"
)

// BodyKindInput tags which of the four body variants spec §4.9/§9 names
// an encode call carries: the encoder's input-side counterpart to
// BodyStrategy, which instead tags the decoder's output-side strategy.
type BodyKindInput int

const (
	BodyInputEmpty BodyKindInput = iota
	BodyInputText
	BodyInputBytes
	BodyInputAsync
)

// EncodeBody is the tagged union the message encoder accepts for a
// message body, generalized from spec §9's "Dynamic typing / polymorphic
// body" note: replaces a duck-typed async-iterable check with an
// explicit Kind discriminant plus a BodyProducer capability for the
// async case.
type EncodeBody struct {
	Kind     BodyKindInput
	Text     string
	Bytes    []byte
	Producer BodyProducer

	// ChunkSize overrides DefaultChunkSize for the AsyncBytes variant; 0 means default.
	ChunkSize int
	// Trailers are emitted after the zero-chunk when Kind is BodyInputAsync.
	Trailers Header
}

// hopByHop lists the header names stripped by the encoder per spec §4.9
// step 2, regardless of what the caller supplies.
var hopByHop = map[string]bool{
	"connection":          true,
	"keep-alive":          true,
	"proxy-authenticate":  true,
	"proxy-authorization": true,
	"te":                  true,
	"trailer":             true,
	"transfer-encoding":   true,
	"upgrade":             true,
	"content-length":      true,
}

// EncodeRequest writes a request message: start-line, prepared headers,
// and body, per spec §4.9. It never blocks on anything but w and the
// body's BodyProducer (for the async variant).
func EncodeRequest(ctx context.Context, w io.Writer, rl RequestLine, headers Header, body EncodeBody) error {
	return encodeMessage(ctx, w, rl.String(), headers, body)
}

// EncodeResponse writes a response message: status-line, prepared
// headers, and body, per spec §4.9.
func EncodeResponse(ctx context.Context, w io.Writer, sl StatusLine, headers Header, body EncodeBody) error {
	return encodeMessage(ctx, w, sl.String(), headers, body)
}

// encodeMessage is the shared core behind EncodeRequest/EncodeResponse,
// generalized from the teacher's WriteResponse (response.go): that
// function inlined status-line formatting, header emission, and a
// three-way body-strategy branch (Content-Length / chunked / until-close)
// all specific to *Response. Here the start-line is pre-rendered by the
// caller (RequestLine.String()/StatusLine.String()) and the body-strategy
// decision is driven by the explicit EncodeBody union instead of
// sniffing headers the caller already set.
func encodeMessage(ctx context.Context, w io.Writer, startLine string, headers Header, body EncodeBody) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	prepared := prepareHeaders(headers, body)
	if werr := ValidateHeader(prepared, wireproto.DefaultLimits()); werr != nil {
		return werr
	}

	// Stage the start-line and header block in a pooled buffer and write
	// it to the destination as one call, rather than interleaving many
	// small bw.WriteString calls with whatever the destination io.Writer
	// does per Write (e.g. a syscall per line on an unbuffered net.Conn).
	staging := getStagingBuffer()
	defer putStagingBuffer(staging)
	staging.WriteString(startLine)
	staging.WriteString("\r\n")
	if err := prepared.Write(staging); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(staging.Bytes()); err != nil {
		return err
	}

	// Atomicity guarantee (spec §4.9/§5): the start-line and full header
	// block must be irrevocably on the wire before the first body byte
	// is pulled from an async producer, so we flush here, before any
	// BodyProducer.Next call happens below.
	if err := bw.Flush(); err != nil {
		return err
	}

	switch body.Kind {
	case BodyInputEmpty:
		return nil
	case BodyInputText:
		if _, err := bw.WriteString(body.Text); err != nil {
			return err
		}
		return bw.Flush()
	case BodyInputBytes:
		if _, err := bw.Write(body.Bytes); err != nil {
			return err
		}
		return bw.Flush()
	case BodyInputAsync:
		cw := newChunkedWriter(bw, body.ChunkSize, body.Trailers)
		if err := cw.drain(ctx, body.Producer); err != nil {
			return err
		}
		return bw.Flush()
	default:
		return nil
	}
}

// prepareHeaders implements spec §4.9 steps 1-3: normalize, strip
// hop-by-hop headers (including any header named by a Connection token),
// and set the framing header matching the body variant.
func prepareHeaders(headers Header, body EncodeBody) Header {
	out := make(Header, len(headers)+1)
	for k, vals := range headers {
		name := CanonicalHeaderKey(k)
		lower := toLowerASCII(name)
		if hopByHop[lower] {
			continue
		}
		cp := make([]string, len(vals))
		copy(cp, vals)
		out[name] = cp
	}

	for _, tok := range connectionTokens(headers) {
		out.Del(tok)
	}

	switch body.Kind {
	case BodyInputEmpty:
		// no framing header
	case BodyInputText:
		out.Set("Content-Length", strconv.Itoa(len(body.Text)))
	case BodyInputBytes:
		out.Set("Content-Length", strconv.Itoa(len(body.Bytes)))
	case BodyInputAsync:
		out.Set("Transfer-Encoding", "chunked")
	}
	return out
}

// connectionTokens returns the comma-separated tokens of any Connection
// header value(s), so the caller can additionally strip headers they name
// per RFC 9110 §7.6.1.
func connectionTokens(headers Header) []string {
	var toks []string
	for k, vals := range headers {
		if toLowerASCII(CanonicalHeaderKey(k)) != "connection" {
			continue
		}
		for _, v := range vals {
			for _, tok := range strings.Split(v, ",") {
				tok = strings.TrimSpace(tok)
				if tok != "" {
					toks = append(toks, tok)
				}
			}
		}
	}
	return toks
}
