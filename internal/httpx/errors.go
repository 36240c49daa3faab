package httpx

import "github.com/ajnavarro/httpwire/internal/wireproto"

// Error and Kind are re-exported from wireproto so callers of this
// package never need to import internal/wireproto directly.
type Error = wireproto.Error
type Kind = wireproto.Kind

const (
	KindInvalidLineEnding      = wireproto.KindInvalidLineEnding
	KindLineTooLarge           = wireproto.KindLineTooLarge
	KindInvalidStartLine       = wireproto.KindInvalidStartLine
	KindUnsupportedHTTPVersion = wireproto.KindUnsupportedHTTPVersion
	KindInvalidStatusCode      = wireproto.KindInvalidStatusCode
	KindHeaderMissingColon     = wireproto.KindHeaderMissingColon
	KindHeaderNameEmpty        = wireproto.KindHeaderNameEmpty
	KindInvalidHeaderName      = wireproto.KindInvalidHeaderName
	KindHeaderLineTooLarge     = wireproto.KindHeaderLineTooLarge
	KindHeaderNameTooLarge     = wireproto.KindHeaderNameTooLarge
	KindHeaderValueTooLarge    = wireproto.KindHeaderValueTooLarge
	KindHeadersTooLarge        = wireproto.KindHeadersTooLarge
	KindHeadersTooMany         = wireproto.KindHeadersTooMany
	KindInvalidSyntax          = wireproto.KindInvalidSyntax
	KindUnsupportedFeature     = wireproto.KindUnsupportedFeature
	KindMessageTooLarge        = wireproto.KindMessageTooLarge
	KindAlreadyFinished        = wireproto.KindAlreadyFinished
	KindAlreadyErrored         = wireproto.KindAlreadyErrored
)

// Limits re-exports wireproto.Limits / DefaultLimits so callers
// configure the codec entirely through this package.
type Limits = wireproto.Limits

// DefaultLimits returns the specification's default limits.
func DefaultLimits() Limits {
	return wireproto.DefaultLimits()
}
