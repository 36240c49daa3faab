package httpx

import (
	"testing"

	"github.com/ajnavarro/httpwire/internal/wireproto"
	"github.com/stretchr/testify/require"
)

func TestHeaderCanonicalAndAddSetGet(t *testing.T) {
	h := Header{}
	h.Add("content-type", "text/plain")
	h.Add("Content-Type", "charset=utf-8")
	h.Add("HOST", "example.com")
	h.Set("x-powered-by", "go")

	require.Equal(t, "text/plain", h.Get("CONTENT-TYPE")) // FIRST value only
	require.Equal(t, "example.com", h.Get("host"))

	h.Set("X-Powered-By", "rust? no, go")
	require.Equal(t, "rust? no, go", h.Get("x-powered-by"))
}

func TestHeaderValuesAndDel(t *testing.T) {
	h := Header{}
	h.Add("Accept", "text/html")
	h.Add("ACCEPT", "application/json")

	vals := h.Values("accept")
	require.Equal(t, []string{"text/html", "application/json"}, vals)

	// Values must NOT be a copy (mutations reflect in map),
	// mirroring stdlib's documented behavior.
	vals[0] = "text/plain"
	require.Equal(t, "text/plain", h.Values("Accept")[0])

	h.Del("ACCEPT")
	require.Empty(t, h.Values("Accept"))
}

func TestHeaderValidationLimits(t *testing.T) {
	h := Header{}
	for i := 0; i < 5; i++ {
		h.Add("X-K"+string(rune('A'+i)), "v")
	}
	lim := wireproto.Limits{
		MaxHeaderCount:      4,
		MaxHeaderNameBytes:  32,
		MaxHeaderValueBytes: 8,
		MaxHeaderBytes:      32,
	}
	werr := ValidateHeader(h, lim)
	require.NotNil(t, werr)
	require.Equal(t, wireproto.KindHeadersTooMany, werr.Kind)

	h = Header{"Bad Name": {"v"}}
	werr = ValidateHeader(h, lim)
	require.NotNil(t, werr)
	require.Equal(t, wireproto.KindInvalidHeaderName, werr.Kind)

	h = Header{"X-K": {"ok\tb\x01l"}} // \x01 is a control char -> invalid (6 bytes, within MaxHeaderValueBytes)
	werr = ValidateHeader(h, lim)
	require.NotNil(t, werr)
	require.Equal(t, wireproto.KindInvalidSyntax, werr.Kind)

	h = Header{"X-K": {"123456789"}} // 9 bytes > MaxHeaderValueBytes(8)
	werr = ValidateHeader(h, lim)
	require.NotNil(t, werr)
	require.Equal(t, wireproto.KindHeaderValueTooLarge, werr.Kind)

	h = Header{"A": {"1234567"}, "B": {"1234567"}, "C": {"1"}}
	lim.MaxHeaderCount = 0
	lim.MaxHeaderValueBytes = 0
	lim.MaxHeaderBytes = 16 // total name+value bytes = 18 > 16
	werr = ValidateHeader(h, lim)
	require.NotNil(t, werr)
	require.Equal(t, wireproto.KindHeadersTooLarge, werr.Kind)

	h = Header{"Content-Type": {"text/plain"}, "Host": {"ex.com"}}
	lim = wireproto.Limits{MaxHeaderCount: 8, MaxHeaderNameBytes: 64, MaxHeaderValueBytes: 64}
	require.Nil(t, ValidateHeader(h, lim))
}

func TestCanonicalHeaderKeyBehavior(t *testing.T) {
	cases := map[string]string{
		"content-type": "Content-Type",
		"HOST":         "Host",
		"x-custom-id":  "X-Custom-Id",
		"r":            "R",
		"":             "",
	}
	for in, want := range cases {
		require.Equal(t, want, CanonicalHeaderKey(in), "input %q", in)
	}
}

func TestCanonicalHeaderKeyExceptions(t *testing.T) {
	cases := map[string]string{
		"te":             "TE",
		"dnt":            "DNT",
		"etag":           "ETag",
		"www-authenticate": "WWW-Authenticate",
		"content-md5":    "Content-MD5",
		"x-csrf-token":   "X-CSRF-Token",
	}
	for in, want := range cases {
		require.Equal(t, want, CanonicalHeaderKey(in), "input %q", in)
	}
}
