package session

import (
	"time"

	"github.com/transcribeia/transcribeia/internal/recognition"
)

// Status is the recording session lifecycle state.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusRecording  Status = "recording"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Diagnostic describes the last recognition failure. A zero Diagnostic
// means no error.
type Diagnostic struct {
	Code    recognition.Code
	Message string
}

// IsZero reports whether the diagnostic is empty.
func (d Diagnostic) IsZero() bool {
	return d.Code == "" && d.Message == ""
}

// State is the controller's session snapshot. It is a value: subscribers
// receive copies and cannot mutate controller state.
type State struct {
	Status Status

	// FinalText holds permanently accumulated final fragments.
	// InterimText holds the current provisional tail; it is replaced, not
	// concatenated, by the next fragment.
	FinalText   string
	InterimText string

	// TranscriptText is FinalText plus the interim tail; WordCount is
	// always recomputed from it, never incremented independently.
	TranscriptText string
	WordCount      int

	DurationSeconds int
	StartedAt       time.Time

	LastError Diagnostic

	// settleSeq invalidates stale settle timers across stop/reset cycles.
	settleSeq uint64
}

// NoticeLevel distinguishes advisory notifications from terminal failures.
type NoticeLevel int

const (
	// NoticeAdvisory is informational and auto-dismisses.
	NoticeAdvisory NoticeLevel = iota
	// NoticeTerminal accompanies a transition into the error state.
	NoticeTerminal
)

// Notice is a user-facing notification emitted by the controller.
type Notice struct {
	Level       NoticeLevel
	Code        recognition.Code
	Message     string
	AutoDismiss time.Duration
}
