package httpx

import (
	"strconv"
	"strings"

	"github.com/ajnavarro/httpwire/internal/wireproto"
)

// RequestLine models the first line of an HTTP/1.x request. Generalized
// from the teacher's requestLine (request.go), which only ever produced
// upper-case methods and fixed-field request lines; RequestURI stays
// opaque per spec §3 ("the core treats target as opaque").
type RequestLine struct {
	Method     string
	RequestURI string
	Major      int
	Minor      int
}

// StatusLine models the first line of an HTTP/1.x response.
type StatusLine struct {
	Major      int
	Minor      int
	StatusCode int
	Reason     string
}

// ParseRequestLine parses "METHOD SP Request-URI SP HTTP/x.y", per spec
// §4.2. Unlike the teacher's strings.Fields-based split (which silently
// tolerates runs of tabs), this collapses runs of spaces between fields
// but otherwise enforces the three-field shape exactly.
func ParseRequestLine(line []byte) (RequestLine, *wireproto.Error) {
	fields := splitFields(line)
	if len(fields) != 3 {
		return RequestLine{}, wireproto.New(wireproto.KindInvalidStartLine,
			"malformed request line: %q", line)
	}

	method := string(fields[0])
	target := string(fields[1])

	if method == "" {
		return RequestLine{}, wireproto.New(wireproto.KindInvalidStartLine, "empty method")
	}
	if target == "" {
		return RequestLine{}, wireproto.New(wireproto.KindInvalidStartLine, "empty request target")
	}
	method = strings.ToUpper(method)

	major, minor, verr := parseHTTPVersion(fields[2])
	if verr != nil {
		return RequestLine{}, verr
	}

	return RequestLine{Method: method, RequestURI: target, Major: major, Minor: minor}, nil
}

// ParseStatusLine parses "HTTP/x.y SP status-code SP [reason-phrase]"
// per spec §4.2. The reason phrase may be empty or entirely absent; in
// either case it is filled from StatusText.
func ParseStatusLine(line []byte) (StatusLine, *wireproto.Error) {
	trimmed := trimOWS(line)
	sp1 := indexByte(trimmed, ' ')
	if sp1 < 0 {
		return StatusLine{}, wireproto.New(wireproto.KindInvalidStartLine, "malformed status line: %q", line)
	}
	major, minor, verr := parseHTTPVersion(trimmed[:sp1])
	if verr != nil {
		return StatusLine{}, verr
	}

	rest := trimOWS(trimmed[sp1+1:])
	var codeField, reason []byte
	if sp2 := indexByte(rest, ' '); sp2 >= 0 {
		codeField = rest[:sp2]
		reason = trimOWS(rest[sp2+1:])
	} else {
		codeField = rest
	}

	code, cerr := strconv.Atoi(string(codeField))
	if cerr != nil || code < 100 || code > 599 {
		return StatusLine{}, wireproto.New(wireproto.KindInvalidStatusCode,
			"invalid status code %q", codeField)
	}

	reasonStr := string(reason)
	if reasonStr == "" {
		reasonStr = StatusText(code)
	}

	return StatusLine{Major: major, Minor: minor, StatusCode: code, Reason: reasonStr}, nil
}

// parseHTTPVersion parses "HTTP/<major>.<minor>", accepting only 1.0 and 1.1.
func parseHTTPVersion(field []byte) (major, minor int, err *wireproto.Error) {
	s := string(field)
	const prefix = "HTTP/"
	if len(s) <= len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return 0, 0, wireproto.New(wireproto.KindUnsupportedHTTPVersion, "invalid protocol: %q", s)
	}
	ver := s[len(prefix):]
	dot := strings.IndexByte(ver, '.')
	if dot < 0 {
		return 0, 0, wireproto.New(wireproto.KindUnsupportedHTTPVersion, "invalid HTTP version: %q", s)
	}
	maj, e1 := strconv.Atoi(ver[:dot])
	min, e2 := strconv.Atoi(ver[dot+1:])
	if e1 != nil || e2 != nil {
		return 0, 0, wireproto.New(wireproto.KindUnsupportedHTTPVersion, "invalid HTTP version numbers: %q", s)
	}
	if maj != 1 || (min != 0 && min != 1) {
		return 0, 0, wireproto.New(wireproto.KindUnsupportedHTTPVersion,
			"unsupported HTTP version %d.%d", maj, min)
	}
	return maj, min, nil
}

// splitFields splits on runs of spaces (not tabs: the wire grammar uses
// SP as the field separator), after trimming leading/trailing spaces.
func splitFields(line []byte) [][]byte {
	trimmed := strings.Trim(string(line), " ")
	if trimmed == "" {
		return nil
	}
	return toByteSlices(strings.FieldsFunc(trimmed, func(r rune) bool { return r == ' ' }))
}

func toByteSlices(ss []string) [][]byte {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = []byte(s)
	}
	return out
}

// String renders the request line in wire form (without trailing CRLF).
func (r RequestLine) String() string {
	return r.Method + " " + r.RequestURI + " HTTP/" + strconv.Itoa(r.Major) + "." + strconv.Itoa(r.Minor)
}

// String renders the status line in wire form (without trailing CRLF).
func (s StatusLine) String() string {
	return "HTTP/" + strconv.Itoa(s.Major) + "." + strconv.Itoa(s.Minor) + " " +
		strconv.Itoa(s.StatusCode) + " " + s.Reason
}
