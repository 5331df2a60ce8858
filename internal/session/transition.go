package session

import (
	"time"

	"github.com/transcribeia/transcribeia/internal/recognition"
)

const noticeDismissAfter = 5 * time.Second

// transition is the session state machine: (current state, event) → (new
// state, effects). It never touches the outside world, which keeps every
// lifecycle rule testable without a recognition service or timers.
func transition(s State, ev event) (State, []effect) {
	switch ev := ev.(type) {

	case evStart:
		// Starting from completed or error is a reset-then-start; the
		// actual reset happens when access is granted.
		switch s.Status {
		case StatusIdle, StatusCompleted, StatusError:
			return s, []effect{fxRequestAccess{}}
		}
		return s, nil

	case evAccessGranted:
		switch s.Status {
		case StatusIdle, StatusCompleted, StatusError:
		default:
			return s, nil
		}
		next := State{
			Status:    StatusRecording,
			StartedAt: ev.at,
			settleSeq: s.settleSeq,
		}
		return next, []effect{fxOpenRecognition{}, fxStartTicker{at: ev.at}}

	case evAccessDenied:
		switch s.Status {
		case StatusIdle, StatusCompleted, StatusError:
		default:
			return s, nil
		}
		s.Status = StatusError
		s.LastError = Diagnostic{Code: recognition.CodeNotAllowed, Message: ev.message}
		return s, []effect{fxNotify{notice: Notice{
			Level:   NoticeTerminal,
			Code:    recognition.CodeNotAllowed,
			Message: ev.message,
		}}}

	case evFragment:
		if s.Status != StatusRecording {
			return s, nil
		}
		if ev.isFinal {
			s.FinalText = appendFragment(s.FinalText, ev.text)
			s.InterimText = ""
		} else {
			s.InterimText = ev.text
		}
		s.TranscriptText, s.WordCount = Accumulate(s.FinalText, "", s.InterimText)
		return s, nil

	case evRecognitionError:
		if s.Status == StatusRecording && ev.code.Transient() {
			// Normal conversational silence: restart capture in
			// place, clear the previous error, stay recording.
			s.LastError = Diagnostic{}
			return s, []effect{
				fxRestartRecognition{},
				fxNotify{notice: Notice{
					Level:       NoticeAdvisory,
					Code:        ev.code,
					Message:     ev.message,
					AutoDismiss: noticeDismissAfter,
				}},
			}
		}
		if s.Status != StatusRecording && s.Status != StatusProcessing {
			return s, nil
		}
		s.Status = StatusError
		s.InterimText = ""
		s.LastError = Diagnostic{Code: ev.code, Message: ev.message}
		return s, []effect{
			fxStopTicker{},
			fxTerminateRecognition{},
			fxNotify{notice: Notice{Level: NoticeTerminal, Code: ev.code, Message: ev.message}},
		}

	case evStop:
		if s.Status != StatusRecording {
			return s, nil
		}
		s.Status = StatusProcessing
		s.settleSeq++
		return s, []effect{
			fxStopTicker{},
			fxStopRecognition{},
			fxScheduleSettle{seq: s.settleSeq},
		}

	case evSettled:
		if s.Status == StatusProcessing && ev.seq == s.settleSeq {
			s.Status = StatusCompleted
		}
		return s, nil

	case evSessionEnded:
		switch s.Status {
		case StatusRecording:
			// The provider ended the session on its own.
			s.Status = StatusCompleted
			return s, []effect{fxStopTicker{}}
		case StatusProcessing:
			// Graceful stop confirmed before the settle delay.
			s.Status = StatusCompleted
		}
		return s, nil

	case evTick:
		if s.Status == StatusRecording {
			s.DurationSeconds = elapsedSeconds(s.StartedAt, ev.now)
		}
		return s, nil

	case evReset:
		next := State{Status: StatusIdle, settleSeq: s.settleSeq}
		return next, []effect{fxStopTicker{}, fxTerminateRecognition{}}

	case evRecover:
		if s.Status != StatusError {
			return s, nil
		}
		// Recovery resets controller state, not accumulated data.
		s.Status = StatusIdle
		s.LastError = Diagnostic{}
		return s, []effect{fxTerminateRecognition{}}
	}

	return s, nil
}
