// Package wireproto holds the byte-level primitives shared by the line
// scanner and the message-level codec in internal/httpx: the CRLF
// constants, the configurable safety limits, and the closed error
// taxonomy every parsing step reports through.
package wireproto

// CR and LF are the two bytes that make up the line terminator on the wire.
// A bare CR or a bare LF (either one without its pair) is always an error.
const (
	CR byte = 0x0D
	LF byte = 0x0A
)

// Limits bounds the resources a single decode may consume. The decoder
// enforces every field as given, so a zero field is a limit of zero
// there (httpx.ValidateHeader instead skips a zero field). Use
// DefaultLimits as a base and override individual fields.
type Limits struct {
	MaxStartLineBytes    int
	MaxHeaderLineBytes   int
	MaxHeaderNameBytes   int
	MaxHeaderValueBytes  int
	MaxHeaderBytes       int
	MaxHeaderCount       int
	MaxChunkSizeLineBytes int
}

// DefaultLimits returns the limits named in the specification: 16 KiB
// start line, 8 KiB header line, 256 byte header name, 8 KiB header
// value, 64 KiB header block, 100 headers, 64 byte chunk-size line.
func DefaultLimits() Limits {
	return Limits{
		MaxStartLineBytes:     16 << 10,
		MaxHeaderLineBytes:    8 << 10,
		MaxHeaderNameBytes:    256,
		MaxHeaderValueBytes:   8 << 10,
		MaxHeaderBytes:        64 << 10,
		MaxHeaderCount:        100,
		MaxChunkSizeLineBytes: 64,
	}
}
