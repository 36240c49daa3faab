package httpx

import "log"

// LoggingObserver returns an Observer whose hooks write one line per
// event/error to logger, generalized from damianoneill-net/netconf's
// DiagnosticLoggingHooks (a ClientTrace wired to log.Printf). The core
// codec never constructs or requires this itself — per spec §1, logging
// is an external collaborator — this is offered purely as an opt-in
// convenience for integrators who want a quick trace without writing
// their own Observer.
func LoggingObserver(logger *log.Logger) *Observer {
	if logger == nil {
		logger = log.Default()
	}
	return &Observer{
		OnEvent: func(e Event) {
			switch e.Kind {
			case EventStartLine:
				logger.Printf("start-line request=%v status=%v", e.RequestLine, e.StatusLine)
			case EventHeader:
				logger.Printf("header %s: %s", e.HeaderName, e.HeaderValue)
			case EventBodyBegin:
				logger.Printf("body-begin strategy=%v", e.Strategy)
			case EventBodyData:
				logger.Printf("body-data %d bytes", len(e.Data))
			case EventBodyComplete:
				logger.Printf("body-complete total=%d", e.TotalSize)
			case EventMessageComplete:
				logger.Printf("message-complete")
			default:
				logger.Printf("%s", e.Kind)
			}
		},
		OnError: func(err *Error) {
			logger.Printf("error: %v", err)
		},
	}
}
