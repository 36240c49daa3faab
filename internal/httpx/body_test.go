package httpx

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/ajnavarro/httpwire/internal/wireproto"
)

func TestReadRequestFixedLengthBody(t *testing.T) {
	raw := "POST /submit HTTP/1.1\r\nHost: ex.com\r\nContent-Length: 11\r\n\r\nhello world"
	req, err := ReadRequest(context.Background(), strings.NewReader(raw), wireproto.DefaultLimits(), 0)
	if err != nil {
		t.Fatal(err)
	}
	data, err := io.ReadAll(req.Body)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello world" {
		t.Fatalf("got %q, want %q", data, "hello world")
	}
	if req.ContentLength != 11 {
		t.Fatalf("expected ContentLength 11, got %d", req.ContentLength)
	}
}

func TestReadRequestTooShortBodyReportsUnexpectedEOF(t *testing.T) {
	raw := "POST / HTTP/1.1\r\nHost: ex.com\r\nContent-Length: 5\r\n\r\nab"
	_, err := ReadRequest(context.Background(), strings.NewReader(raw), wireproto.DefaultLimits(), 0)
	if err == nil {
		t.Fatal("expected error for a body shorter than Content-Length")
	}
}

func TestReadRequestChunkedBodyWithTrailer(t *testing.T) {
	raw := "" +
		"POST /upload HTTP/1.1\r\n" +
		"Host: ex.com\r\n" +
		"Transfer-Encoding: chunked\r\n" +
		"\r\n" +
		"4\r\nWiki\r\n" +
		"5\r\npedia\r\n" +
		"0\r\nX-T: v\r\n\r\n"

	req, err := ReadRequest(context.Background(), strings.NewReader(raw), wireproto.DefaultLimits(), 0)
	if err != nil {
		t.Fatal(err)
	}
	data, err := io.ReadAll(req.Body)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Wikipedia" {
		t.Fatalf("got %q, want %q", data, "Wikipedia")
	}
}

func TestReadRequestBadChunkEncoding(t *testing.T) {
	raw := "POST / HTTP/1.1\r\nHost: ex.com\r\nTransfer-Encoding: chunked\r\n\r\nZZZ\r\nbad\r\n"
	_, err := ReadRequest(context.Background(), strings.NewReader(raw), wireproto.DefaultLimits(), 0)
	if err == nil {
		t.Fatal("expected error for invalid chunk size line")
	}
}

func TestReadRequestBodyTooLarge(t *testing.T) {
	raw := "POST / HTTP/1.1\r\nHost: ex.com\r\nContent-Length: 5\r\n\r\nhello"
	_, err := ReadRequest(context.Background(), strings.NewReader(raw), wireproto.DefaultLimits(), 2)
	if err == nil {
		t.Fatal("expected error when body exceeds maxBodyBytes")
	}
}

func TestReadResponseNoBody(t *testing.T) {
	raw := "HTTP/1.1 204 No Content\r\n\r\n"
	d, body, err := ReadResponse(context.Background(), strings.NewReader(raw), wireproto.DefaultLimits(), false, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(body) != 0 {
		t.Fatalf("expected empty body, got %q", body)
	}
	if d.StatusLine().StatusCode != 204 {
		t.Fatalf("expected status 204, got %d", d.StatusLine().StatusCode)
	}
}

func TestContextCancelDuringReadRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadRequest(ctx, strings.NewReader("GET / HTTP/1.1\r\n\r\n"), wireproto.DefaultLimits(), 0)
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
	if ctx.Err() == nil {
		t.Fatal("expected ctx.Err() to be non-nil")
	}
}
