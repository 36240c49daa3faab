package wireproto

import "fmt"

// Kind enumerates the closed set of error conditions the codec can
// surface. Every decode or encode failure is tagged with exactly one
// Kind so a caller can switch on it without string matching.
type Kind int

const (
	_ Kind = iota
	KindInvalidLineEnding
	KindLineTooLarge
	KindInvalidStartLine
	KindUnsupportedHTTPVersion
	KindInvalidStatusCode
	KindHeaderMissingColon
	KindHeaderNameEmpty
	KindInvalidHeaderName
	KindHeaderLineTooLarge
	KindHeaderNameTooLarge
	KindHeaderValueTooLarge
	KindHeadersTooLarge
	KindHeadersTooMany
	KindInvalidSyntax
	KindUnsupportedFeature
	KindMessageTooLarge
	KindAlreadyFinished
	KindAlreadyErrored
)

var kindNames = map[Kind]string{
	KindInvalidLineEnding:      "invalid-line-ending",
	KindLineTooLarge:           "line-too-large",
	KindInvalidStartLine:       "invalid-start-line",
	KindUnsupportedHTTPVersion: "unsupported-http-version",
	KindInvalidStatusCode:      "invalid-status-code",
	KindHeaderMissingColon:     "header-missing-colon",
	KindHeaderNameEmpty:        "header-name-empty",
	KindInvalidHeaderName:      "invalid-header-name",
	KindHeaderLineTooLarge:     "header-line-too-large",
	KindHeaderNameTooLarge:     "header-name-too-large",
	KindHeaderValueTooLarge:    "header-value-too-large",
	KindHeadersTooLarge:        "headers-too-large",
	KindHeadersTooMany:         "headers-too-many",
	KindInvalidSyntax:          "invalid-syntax",
	KindUnsupportedFeature:     "unsupported-feature",
	KindMessageTooLarge:        "message-too-large",
	KindAlreadyFinished:        "already-finished",
	KindAlreadyErrored:         "already-errored",
}

// String renders the wire name of the kind, e.g. "invalid-line-ending".
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown-error"
}

// Error is the single error type every codec operation returns. It
// carries the closed Kind, a human-readable message, and — when
// meaningful — the byte offset into the input where the problem was
// detected.
type Error struct {
	Kind    Kind
	Message string
	Offset  int // -1 when not meaningful
}

// New constructs an Error with no offset information.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Offset: -1}
}

// NewAt constructs an Error anchored to a byte offset in the input.
func NewAt(kind Kind, offset int, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Offset: offset}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil httpwire error>"
	}
	if e.Offset >= 0 {
		return fmt.Sprintf("%s: %s (offset %d)", e.Kind, e.Message, e.Offset)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is allows errors.Is(err, wireproto.KindXxx) style comparisons against
// a bare Kind value wrapped in an Error with no message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
