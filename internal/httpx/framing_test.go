package httpx

import (
	"testing"

	"github.com/ajnavarro/httpwire/internal/wireproto"
	"github.com/stretchr/testify/require"
)

func blockWith(pairs ...string) *HeaderBlock {
	b := newHeaderBlock()
	for i := 0; i+1 < len(pairs); i += 2 {
		name, value := pairs[i], pairs[i+1]
		lower := toLowerASCII(name)
		b.Normalized[lower] = append(b.Normalized[lower], value)
		b.Raw = append(b.Raw, RawHeaderField{Name: name, Value: value})
	}
	return b
}

func TestDecideBodyStrategyNone(t *testing.T) {
	s, err := DecideBodyStrategy(blockWith(), MessageRequest, 0, false)
	require.Nil(t, err)
	require.Equal(t, BodyNone, s.Kind)
}

func TestDecideBodyStrategyFixed(t *testing.T) {
	s, err := DecideBodyStrategy(blockWith("Content-Length", "5"), MessageRequest, 0, false)
	require.Nil(t, err)
	require.Equal(t, BodyFixed, s.Kind)
	require.Equal(t, int64(5), s.FixedSize)
}

func TestDecideBodyStrategyZeroContentLength(t *testing.T) {
	s, err := DecideBodyStrategy(blockWith("Content-Length", "0"), MessageRequest, 0, false)
	require.Nil(t, err)
	require.Equal(t, BodyNone, s.Kind)
}

func TestDecideBodyStrategyChunked(t *testing.T) {
	s, err := DecideBodyStrategy(blockWith("Transfer-Encoding", "chunked"), MessageRequest, 0, false)
	require.Nil(t, err)
	require.Equal(t, BodyChunked, s.Kind)
}

func TestDecideBodyStrategyCLTEConflict(t *testing.T) {
	h := blockWith("Transfer-Encoding", "chunked")
	h.Normalized["content-length"] = []string{"10"}
	h.Raw = append(h.Raw, RawHeaderField{Name: "Content-Length", Value: "10"})
	_, err := DecideBodyStrategy(h, MessageRequest, 0, false)
	require.NotNil(t, err)
	require.Equal(t, wireproto.KindInvalidSyntax, err.Kind)
}

func TestDecideBodyStrategyMultipleTE(t *testing.T) {
	_, err := DecideBodyStrategy(blockWith("Transfer-Encoding", "gzip, chunked"), MessageRequest, 0, false)
	require.NotNil(t, err)
	require.Equal(t, wireproto.KindUnsupportedFeature, err.Kind)
}

func TestDecideBodyStrategyInvalidContentLength(t *testing.T) {
	_, err := DecideBodyStrategy(blockWith("Content-Length", "abc"), MessageRequest, 0, false)
	require.NotNil(t, err)
	require.Equal(t, wireproto.KindInvalidSyntax, err.Kind)
}

func TestDecideBodyStrategyMultipleDistinctContentLength(t *testing.T) {
	h := newHeaderBlock()
	h.Normalized["content-length"] = []string{"5", "6"}
	_, err := DecideBodyStrategy(h, MessageRequest, 0, false)
	require.NotNil(t, err)
	require.Equal(t, wireproto.KindInvalidSyntax, err.Kind)
}

func TestDecideBodyStrategyMultipleIdenticalContentLength(t *testing.T) {
	h := newHeaderBlock()
	h.Normalized["content-length"] = []string{"5", "5"}
	s, err := DecideBodyStrategy(h, MessageRequest, 0, false)
	require.Nil(t, err)
	require.Equal(t, BodyFixed, s.Kind)
	require.Equal(t, int64(5), s.FixedSize)
}

func TestDecideBodyStrategyBodylessResponseStatus(t *testing.T) {
	for _, code := range []int{100, 204, 304} {
		s, err := DecideBodyStrategy(blockWith("Content-Length", "5"), MessageResponse, code, false)
		require.Nil(t, err)
		require.Equal(t, BodyNone, s.Kind, "status %d", code)
	}
}

func TestDecideBodyStrategyExpectNoBody(t *testing.T) {
	s, err := DecideBodyStrategy(blockWith("Content-Length", "5"), MessageResponse, 200, true)
	require.Nil(t, err)
	require.Equal(t, BodyNone, s.Kind)
}
