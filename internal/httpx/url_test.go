package httpx

import (
	"testing"

	"github.com/ajnavarro/httpwire/internal/wireproto"
)

func TestParseRequestURI_OriginForm(t *testing.T) {
	u, err := ParseRequestURI("/index.html?x=1")
	if err != nil {
		t.Fatal(err)
	}
	if u.Scheme != "" || u.Host != "" {
		t.Fatalf("unexpected scheme/host: %+v", u)
	}
	if u.Path != "/index.html" || u.RawQuery != "x=1" {
		t.Fatalf("wrong origin-form parse: %+v", u)
	}
}

func TestParseRequestURI_AbsoluteForm(t *testing.T) {
	cases := []struct {
		raw, wantScheme, wantHost, wantPath, wantQuery string
	}{
		{"http://example.com/a/b?y=2", "http", "example.com", "/a/b", "y=2"},
		{"https://foo/bar", "https", "foo", "/bar", ""},
		{"http://example.com", "http", "example.com", "/", ""},
	}
	for _, c := range cases {
		u, err := ParseRequestURI(c.raw)
		if err != nil {
			t.Fatalf("parse %q: %v", c.raw, err)
		}
		if u.Scheme != c.wantScheme || u.Host != c.wantHost ||
			u.Path != c.wantPath || u.RawQuery != c.wantQuery {
			t.Fatalf("%q → got %+v", c.raw, u)
		}
	}
}

func TestParseRequestURI_AsteriskForm(t *testing.T) {
	u, err := ParseRequestURI("*")
	if err != nil {
		t.Fatal(err)
	}
	if u.Path != "*" {
		t.Fatalf("expected * path, got %q", u.Path)
	}
}

// ParseRequestURI failures must carry the codec's own KindInvalidStartLine,
// not a bare errors.New — every start-line-adjacent defect reports through
// the same closed Kind taxonomy spec §7 describes.
func TestParseRequestURI_InvalidReportsKindInvalidStartLine(t *testing.T) {
	cases := []string{
		"",
		" bad",
		"/path with space",
		"http://exa mple.com/",
		"http://exa<mple.com/",
	}
	for _, raw := range cases {
		_, err := ParseRequestURI(raw)
		if err == nil {
			t.Fatalf("expected error for %q", raw)
		}
		werr, ok := err.(*wireproto.Error)
		if !ok {
			t.Fatalf("%q: expected *wireproto.Error, got %T", raw, err)
		}
		if werr.Kind != wireproto.KindInvalidStartLine {
			t.Fatalf("%q: got kind %v, want KindInvalidStartLine", raw, werr.Kind)
		}
	}
}

func TestURL_DecodedPath(t *testing.T) {
	u, err := ParseRequestURI("/a%20b/c%2Fd")
	if err != nil {
		t.Fatal(err)
	}
	got, err := u.DecodedPath()
	if err != nil {
		t.Fatal(err)
	}
	if got != "/a b/c/d" {
		t.Fatalf("got %q", got)
	}
}

func TestURL_DecodedPathRejectsTruncatedEscape(t *testing.T) {
	u, err := ParseRequestURI("/a%2")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := u.DecodedPath(); err == nil {
		t.Fatal("expected error for truncated percent-escape")
	}
}

func TestURL_Query(t *testing.T) {
	u, err := ParseRequestURI("/search?q=go%20lang&tag=a&tag=b&empty")
	if err != nil {
		t.Fatal(err)
	}
	q, err := u.Query()
	if err != nil {
		t.Fatal(err)
	}
	if got := q["q"]; len(got) != 1 || got[0] != "go lang" {
		t.Fatalf("q = %+v", got)
	}
	if got := q["tag"]; len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("tag = %+v", got)
	}
	if got := q["empty"]; len(got) != 1 || got[0] != "" {
		t.Fatalf("empty = %+v", got)
	}
}

func TestURL_QueryRejectsBadEscape(t *testing.T) {
	u, err := ParseRequestURI("/x?bad=%zz")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := u.Query(); err == nil {
		t.Fatal("expected error for invalid percent-escape in query")
	}
}

func TestURL_QueryEmpty(t *testing.T) {
	u, err := ParseRequestURI("/no-query")
	if err != nil {
		t.Fatal(err)
	}
	q, err := u.Query()
	if err != nil {
		t.Fatal(err)
	}
	if len(q) != 0 {
		t.Fatalf("expected empty query map, got %+v", q)
	}
}
