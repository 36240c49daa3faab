package httpx

import (
	"github.com/google/uuid"

	"github.com/ajnavarro/httpwire/internal/netx"
	"github.com/ajnavarro/httpwire/internal/wireproto"
)

// Phase enumerates the decoder's states, per spec §4.7.
type Phase int

const (
	PhaseStartLine Phase = iota
	PhaseHeaders
	PhaseBodyFixed
	PhaseBodyChunked
	PhaseFinished
	PhaseError
)

// DecoderState is the owned, single-threaded state of one in-progress
// decode, per spec §3 "Decoder state". It is mutated only by Feed and
// reaches a terminal Phase (PhaseFinished or PhaseError) exactly once.
//
// Generalized from the teacher's ParseRequest (request.go) / the
// response-reading half implied by body.go's NewBodyReader: those were
// single-shot, blocking-io.Reader operations; DecoderState instead
// accumulates a carry buffer across repeated Feed calls and never reads
// from or blocks on anything itself (spec §5).
type DecoderState struct {
	// ID correlates this decode's events/errors across an integrator's
	// own logs, grounded on damianoneill-net's go.mod dependency on
	// github.com/google/uuid for exactly this per-session tagging.
	ID string

	msgType MessageType
	phase   Phase
	limits  wireproto.Limits

	carry *bytebufferCarry

	requestLine *RequestLine
	statusLine  *StatusLine
	headerBlock *headerBlockParser

	bodyStrategy BodyStrategy
	fixedBody    *FixedBodyState
	chunkedBody  *ChunkedBodyState

	expectNoBody bool
	statusCode   int

	events   []Event
	err      *wireproto.Error
	began    bool
	observer *Observer
}

// NewRequestDecoder constructs a fresh decoder state for a request message.
func NewRequestDecoder(limits wireproto.Limits) *DecoderState {
	return newDecoderState(MessageRequest, limits)
}

// NewResponseDecoder constructs a fresh decoder state for a response
// message. expectNoBody forces BodyNone regardless of headers (spec §9,
// second Open Question — used for responses to a HEAD request).
func NewResponseDecoder(limits wireproto.Limits, expectNoBody bool) *DecoderState {
	s := newDecoderState(MessageResponse, limits)
	s.expectNoBody = expectNoBody
	return s
}

func newDecoderState(msgType MessageType, limits wireproto.Limits) *DecoderState {
	return &DecoderState{
		ID:      uuid.NewString(),
		msgType: msgType,
		phase:   PhaseStartLine,
		limits:  limits,
		carry:   newBytebufferCarry(),
	}
}

// Close returns the decoder's carry buffer to the pool (bufpool.go).
// Call it once the decoder will not be fed again — reached a terminal
// phase, or abandoned after a read error/cancellation upstream — so the
// pool's buffers actually get reused across decodes instead of being
// garbage-collected one per connection. Safe to call more than once;
// Feed must not be called again afterward.
func (s *DecoderState) Close() {
	if s.carry != nil {
		s.carry.release()
		s.carry = nil
	}
}

// SetObserver attaches an Observer that is notified of every event/error
// in addition to them being recorded in Events(). Pass nil to detach.
func (s *DecoderState) SetObserver(o *Observer) { s.observer = o }

// IsFinished reports whether the decoder has reached PhaseFinished.
func (s *DecoderState) IsFinished() bool { return s.phase == PhaseFinished }

// IsErrored reports whether the decoder has reached PhaseError.
func (s *DecoderState) IsErrored() bool { return s.phase == PhaseError }

// Err returns the terminal error, if the decoder reached PhaseError.
func (s *DecoderState) Err() *wireproto.Error { return s.err }

// Events returns the event-log delta produced by the most recent Feed call.
func (s *DecoderState) Events() []Event { return s.events }

// RequestLine returns the parsed request line, or nil if not yet parsed
// or this is a response decoder.
func (s *DecoderState) RequestLine() *RequestLine { return s.requestLine }

// StatusLine returns the parsed status line, or nil if not yet parsed
// or this is a request decoder.
func (s *DecoderState) StatusLine() *StatusLine { return s.statusLine }

// Headers returns the header block parsed so far, or nil before the
// start line has been parsed. While the decoder is in PhaseHeaders the
// block is still partial; it is complete once the phase has moved on.
func (s *DecoderState) Headers() *HeaderBlock {
	if s.headerBlock == nil {
		return nil
	}
	return s.headerBlock.block
}

// Feed appends data to the decoder's carry buffer and advances through
// as many phases as the accumulated bytes allow, per spec §4.7. The
// event log is reset to empty at the start of every call. Feeding a
// decoder already in PhaseFinished or PhaseError raises
// already-finished / already-errored.
func (s *DecoderState) Feed(data []byte) error {
	s.events = s.events[:0]

	if s.phase == PhaseFinished {
		return s.raise(wireproto.New(wireproto.KindAlreadyFinished, "decoder already finished"))
	}
	if s.phase == PhaseError {
		return s.raise(wireproto.New(wireproto.KindAlreadyErrored, "decoder already in error state"))
	}

	if !s.began {
		s.began = true
		s.emit(Event{Kind: EventMessageBegin})
	}

	s.carry.append(data)

	for {
		progressed, err := s.step()
		if err != nil {
			return s.raise(err)
		}
		if s.phase == PhaseFinished {
			return nil
		}
		if !progressed {
			return nil
		}
	}
}

// step attempts to complete exactly one phase transition using the
// bytes currently in the carry buffer. progressed=false means the
// scanner reported "incomplete": the caller should stop looping and
// wait for the next Feed.
func (s *DecoderState) step() (progressed bool, err *wireproto.Error) {
	switch s.phase {
	case PhaseStartLine:
		return s.stepStartLine()
	case PhaseHeaders:
		return s.stepHeaders()
	case PhaseBodyFixed:
		return s.stepBodyFixed()
	case PhaseBodyChunked:
		return s.stepBodyChunked()
	default:
		return false, nil
	}
}

func (s *DecoderState) stepStartLine() (bool, *wireproto.Error) {
	buf := s.carry.bytes()
	line, n, ok, lerr := netx.ScanLine(buf, s.limits.MaxStartLineBytes)
	if lerr != nil {
		return false, promoteStartLineError(lerr)
	}
	if !ok {
		return false, nil
	}
	s.carry.consume(n)

	if s.msgType == MessageRequest {
		rl, perr := ParseRequestLine(line)
		if perr != nil {
			return false, perr
		}
		s.requestLine = &rl
		s.emit(Event{Kind: EventStartLine, RequestLine: &rl})
	} else {
		sl, perr := ParseStatusLine(line)
		if perr != nil {
			return false, perr
		}
		s.statusLine = &sl
		s.statusCode = sl.StatusCode
		s.emit(Event{Kind: EventStartLine, StatusLine: &sl})
	}

	s.headerBlock = newHeaderBlockParser(s.limits)
	s.phase = PhaseHeaders
	s.emit(Event{Kind: EventHeadersBegin})
	return true, nil
}

func (s *DecoderState) stepHeaders() (bool, *wireproto.Error) {
	buf := s.carry.bytes()
	before := s.headerBlock.block.Count()
	n, done, herr := s.headerBlock.feed(buf)
	s.carry.consume(n)
	if herr != nil {
		return false, herr
	}
	for _, f := range s.headerBlock.block.Raw[before:] {
		s.emit(Event{Kind: EventHeader, HeaderName: toLowerASCII(f.Name), HeaderValue: f.Value})
	}
	if !done {
		return n > 0, nil
	}

	s.emit(Event{Kind: EventHeadersComplete, Headers: s.headerBlock.block})

	strategy, ferr := DecideBodyStrategy(s.headerBlock.block, s.msgType, s.statusCode, s.expectNoBody)
	if ferr != nil {
		return false, ferr
	}
	s.bodyStrategy = strategy
	s.emit(Event{Kind: EventBodyBegin, Strategy: strategy})

	switch strategy.Kind {
	case BodyNone:
		s.finish(0)
		return true, nil
	case BodyFixed:
		if strategy.FixedSize == 0 {
			s.finish(0)
			return true, nil
		}
		s.fixedBody = newFixedBodyState(uint64(strategy.FixedSize))
		s.phase = PhaseBodyFixed
		return true, nil
	case BodyChunked:
		s.chunkedBody = newChunkedBodyState(s.limits)
		s.phase = PhaseBodyChunked
		return true, nil
	}
	return true, nil
}

func (s *DecoderState) stepBodyFixed() (bool, *wireproto.Error) {
	buf := s.carry.bytes()
	if len(buf) == 0 {
		return false, nil
	}
	data, n := s.fixedBody.feed(buf)
	if n == 0 {
		return false, nil
	}
	owned := append([]byte(nil), data...)
	s.carry.consume(n)
	s.emit(Event{Kind: EventBodyData, Data: owned, TotalSize: int64(len(owned))})
	if s.fixedBody.done() {
		s.finish(int64(s.fixedBody.Received))
	}
	return true, nil
}

func (s *DecoderState) stepBodyChunked() (bool, *wireproto.Error) {
	buf := s.carry.bytes()
	var emitted bool
	n, done, cerr := s.chunkedBody.feed(buf, func(b []byte) {
		emitted = true
		owned := append([]byte(nil), b...)
		s.emit(Event{Kind: EventBodyData, Data: owned, TotalSize: int64(len(owned))})
	})
	s.carry.consume(n)
	if cerr != nil {
		return false, cerr
	}
	if done {
		s.finish(s.chunkedBody.TotalSize())
		return true, nil
	}
	return n > 0 || emitted, nil
}

func (s *DecoderState) finish(totalSize int64) {
	s.emit(Event{Kind: EventBodyComplete, TotalSize: totalSize})
	s.phase = PhaseFinished
	s.emit(Event{Kind: EventMessageComplete})
}

func (s *DecoderState) emit(e Event) {
	s.events = append(s.events, e)
	s.observer.emit(e)
}

func (s *DecoderState) raise(err *wireproto.Error) error {
	s.phase = PhaseError
	s.err = err
	s.observer.emitError(err)
	return err
}

func promoteStartLineError(e *wireproto.Error) *wireproto.Error {
	switch e.Kind {
	case wireproto.KindInvalidLineEnding:
		return e
	case wireproto.KindLineTooLarge:
		return wireproto.NewAt(wireproto.KindLineTooLarge, e.Offset, "start line exceeds limit")
	default:
		return e
	}
}
