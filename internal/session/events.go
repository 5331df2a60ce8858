package session

import (
	"time"

	"github.com/transcribeia/transcribeia/internal/recognition"
)

// event is an input to the transition function: user intent, recognition
// callbacks, timer ticks, and scheduled continuations all arrive as events.
type event interface{ isEvent() }

type evStart struct{}
type evAccessGranted struct{ at time.Time }
type evAccessDenied struct{ message string }
type evFragment struct {
	isFinal bool
	text    string
}
type evRecognitionError struct {
	code    recognition.Code
	message string
}
type evSessionEnded struct{}
type evStop struct{}
type evSettled struct{ seq uint64 }
type evTick struct{ now time.Time }
type evReset struct{}
type evRecover struct{}

func (evStart) isEvent()            {}
func (evAccessGranted) isEvent()    {}
func (evAccessDenied) isEvent()     {}
func (evFragment) isEvent()         {}
func (evRecognitionError) isEvent() {}
func (evSessionEnded) isEvent()     {}
func (evStop) isEvent()             {}
func (evSettled) isEvent()          {}
func (evTick) isEvent()             {}
func (evReset) isEvent()            {}
func (evRecover) isEvent()          {}

// effect is a side effect requested by a transition. The controller's event
// loop performs effects after committing the new state; the transition
// function itself stays pure.
type effect interface{ isEffect() }

type fxRequestAccess struct{}
type fxOpenRecognition struct{}
type fxRestartRecognition struct{}
type fxStopRecognition struct{}
type fxTerminateRecognition struct{}
type fxStartTicker struct{ at time.Time }
type fxStopTicker struct{}
type fxScheduleSettle struct{ seq uint64 }
type fxNotify struct{ notice Notice }

func (fxRequestAccess) isEffect()        {}
func (fxOpenRecognition) isEffect()      {}
func (fxRestartRecognition) isEffect()   {}
func (fxStopRecognition) isEffect()      {}
func (fxTerminateRecognition) isEffect() {}
func (fxStartTicker) isEffect()          {}
func (fxStopTicker) isEffect()           {}
func (fxScheduleSettle) isEffect()       {}
func (fxNotify) isEffect()               {}
