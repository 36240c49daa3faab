package httpx

import (
	"strconv"
	"strings"

	"github.com/ajnavarro/httpwire/internal/wireproto"
)

// BodyKind discriminates the three body shapes a message can have, per
// spec §3 "Body shapes".
type BodyKind int

const (
	BodyNone BodyKind = iota
	BodyFixed
	BodyChunked
)

func (k BodyKind) String() string {
	switch k {
	case BodyNone:
		return "none"
	case BodyFixed:
		return "fixed"
	case BodyChunked:
		return "chunked"
	default:
		return "unknown"
	}
}

// BodyStrategy is the result of the body-framing decision (spec §4.4):
// a BodyKind plus, for BodyFixed, the expected byte count.
type BodyStrategy struct {
	Kind      BodyKind
	FixedSize int64
}

// MessageType distinguishes a request from a response for the purposes
// of the framing decision (a response to HEAD, or with a 1xx/204/304
// status, is body-less regardless of headers).
type MessageType int

const (
	MessageRequest MessageType = iota
	MessageResponse
)

// DecideBodyStrategy applies spec §4.4's ordered rules to decide how
// the body of a message should be framed.
//
// expectNoBody corresponds to the integrator-supplied hint described in
// spec §9's second Open Question: a response to a HEAD request (or any
// other context where the core's header-only view cannot know the body
// is absent) forces BodyNone regardless of what the headers say.
func DecideBodyStrategy(h *HeaderBlock, msgType MessageType, statusCode int, expectNoBody bool) (BodyStrategy, *wireproto.Error) {
	if expectNoBody {
		return BodyStrategy{Kind: BodyNone}, nil
	}
	if msgType == MessageResponse && isBodylessStatus(statusCode) {
		return BodyStrategy{Kind: BodyNone}, nil
	}

	teValues := h.Values("transfer-encoding")
	if len(teValues) > 0 {
		return decideTransferEncoding(teValues, h)
	}

	clValues := h.Values("content-length")
	if len(clValues) > 0 {
		return decideContentLength(clValues)
	}

	return BodyStrategy{Kind: BodyNone}, nil
}

func isBodylessStatus(code int) bool {
	if code >= 100 && code < 200 {
		return true
	}
	return code == 204 || code == 304
}

func decideTransferEncoding(teValues []string, h *HeaderBlock) (BodyStrategy, *wireproto.Error) {
	var tokens []string
	for _, v := range teValues {
		for _, tok := range strings.Split(v, ",") {
			tok = strings.TrimSpace(tok)
			if tok != "" {
				tokens = append(tokens, tok)
			}
		}
	}
	if len(tokens) != 1 || !strings.EqualFold(tokens[0], "chunked") {
		return BodyStrategy{}, wireproto.New(wireproto.KindUnsupportedFeature,
			"unsupported Transfer-Encoding: %v", tokens)
	}

	if len(h.Values("content-length")) > 0 {
		return BodyStrategy{}, wireproto.New(wireproto.KindInvalidSyntax,
			"Content-Length with Transfer-Encoding")
	}

	return BodyStrategy{Kind: BodyChunked}, nil
}

func decideContentLength(clValues []string) (BodyStrategy, *wireproto.Error) {
	if len(clValues) > 1 {
		first := strings.TrimSpace(clValues[0])
		for _, v := range clValues[1:] {
			if strings.TrimSpace(v) != first {
				return BodyStrategy{}, wireproto.New(wireproto.KindInvalidSyntax,
					"multiple distinct Content-Length values: %v", clValues)
			}
		}
	}

	trimmed := strings.TrimSpace(clValues[0])
	if !isAllDigits(trimmed) {
		return BodyStrategy{}, wireproto.New(wireproto.KindInvalidSyntax,
			"invalid Content-Length: %q", clValues[0])
	}

	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return BodyStrategy{}, wireproto.New(wireproto.KindMessageTooLarge,
			"Content-Length exceeds safe integer range: %q", trimmed)
	}

	if n == 0 {
		return BodyStrategy{Kind: BodyNone}, nil
	}
	return BodyStrategy{Kind: BodyFixed, FixedSize: n}, nil
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
