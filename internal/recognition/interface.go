package recognition

import "context"

// Options configures a recognition session.
type Options struct {
	Language       string
	Continuous     bool
	InterimResults bool
}

// Handlers receives the session's event callbacks. Implementations invoke
// them from their own goroutines; consumers are expected to hand the events
// off to their own scheduling (the session controller posts them into its
// mailbox).
type Handlers struct {
	OnSessionStarted func()
	OnFragment       func(isFinal bool, text string)
	OnError          func(code Code, message string)
	OnSessionEnded   func()
}

// Service is the boundary to an external speech recognition provider. The
// session controller is its exclusive owner; exactly one session may be open
// at a time.
type Service interface {
	// RequestAccess performs the capture-device authorization check. A
	// non-nil error is a permission denial and must prevent the session
	// from starting.
	RequestAccess(ctx context.Context) error
	// Open starts a recognition session and begins delivering events.
	Open(ctx context.Context, opts Options, h Handlers) error
	// Restart resumes capture in-place after a transient interruption
	// without ending the session.
	Restart(ctx context.Context) error
	// RequestStop asks the provider to end the session gracefully,
	// flushing any pending final fragment before OnSessionEnded.
	RequestStop() error
	// ForceTerminate tears the session down immediately. No further
	// events are delivered after it returns.
	ForceTerminate() error
}
