package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transcribeia/transcribeia/internal/logger"
	"github.com/transcribeia/transcribeia/internal/recognition"
)

// fakeService drives the controller from tests by invoking the handlers it
// was opened with.
type fakeService struct {
	mu         sync.Mutex
	denyAccess bool
	handlers   recognition.Handlers
	opened     int
	restarts   int
	stops      int
	terminates int
}

func (f *fakeService) RequestAccess(ctx context.Context) error {
	if f.denyAccess {
		return errors.New("permission denied by user")
	}
	return nil
}

func (f *fakeService) Open(ctx context.Context, opts recognition.Options, h recognition.Handlers) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers = h
	f.opened++
	return nil
}

func (f *fakeService) Restart(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.restarts++
	return nil
}

func (f *fakeService) RequestStop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	return nil
}

func (f *fakeService) ForceTerminate() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terminates++
	return nil
}

func (f *fakeService) emit(fn func(recognition.Handlers)) {
	f.mu.Lock()
	h := f.handlers
	f.mu.Unlock()
	fn(h)
}

func (f *fakeService) counts() (opened, restarts, stops, terminates int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opened, f.restarts, f.stops, f.terminates
}

type harness struct {
	ctrl   *Controller
	svc    *fakeService
	cancel context.CancelFunc

	mu      sync.Mutex
	states  []State
	notices []Notice
}

func newHarness(t *testing.T, svc *fakeService) *harness {
	t.Helper()
	h := &harness{svc: svc}
	h.ctrl = NewController(ControllerConfig{
		Service:     svc,
		Logger:      logger.Nop(),
		Language:    "es-ES",
		SettleDelay: 30 * time.Millisecond,
	})
	h.ctrl.Subscribe(func(s State) {
		h.mu.Lock()
		h.states = append(h.states, s)
		h.mu.Unlock()
	})
	h.ctrl.SubscribeNotices(func(n Notice) {
		h.mu.Lock()
		h.notices = append(h.notices, n)
		h.mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go h.ctrl.Run(ctx)
	t.Cleanup(cancel)
	return h
}

func (h *harness) waitStatus(t *testing.T, want Status) State {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s := h.ctrl.State()
		if s.Status == want {
			return s
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for status %q, current %q", want, h.ctrl.State().Status)
	return State{}
}

func TestControllerHappyPath(t *testing.T) {
	svc := &fakeService{}
	h := newHarness(t, svc)

	h.ctrl.Start()
	h.waitStatus(t, StatusRecording)

	svc.emit(func(hd recognition.Handlers) {
		hd.OnFragment(false, "hola")
		hd.OnFragment(true, "hola equipo")
		hd.OnFragment(true, "empezamos el daily")
	})

	deadline := time.Now().Add(time.Second)
	for h.ctrl.State().WordCount < 5 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	require.Equal(t, "hola equipo empezamos el daily", h.ctrl.State().TranscriptText)

	h.ctrl.Stop()
	h.waitStatus(t, StatusProcessing)
	final := h.waitStatus(t, StatusCompleted)

	assert.Equal(t, "hola equipo empezamos el daily", final.TranscriptText)
	assert.Equal(t, 5, final.WordCount)

	_, _, stops, _ := svc.counts()
	assert.Equal(t, 1, stops, "graceful stop must reach the provider once")
}

func TestControllerAccessDenied(t *testing.T) {
	svc := &fakeService{denyAccess: true}
	h := newHarness(t, svc)

	h.ctrl.Start()
	s := h.waitStatus(t, StatusError)

	assert.Equal(t, recognition.CodeNotAllowed, s.LastError.Code)
	assert.Empty(t, s.TranscriptText)

	opened, _, _, _ := svc.counts()
	assert.Zero(t, opened, "denied access must never open a session")

	h.mu.Lock()
	defer h.mu.Unlock()
	require.NotEmpty(t, h.notices)
	assert.Equal(t, NoticeTerminal, h.notices[len(h.notices)-1].Level)
}

func TestControllerNoSpeechRestartsInPlace(t *testing.T) {
	svc := &fakeService{}
	h := newHarness(t, svc)

	h.ctrl.Start()
	h.waitStatus(t, StatusRecording)
	svc.emit(func(hd recognition.Handlers) {
		hd.OnFragment(true, "antes del silencio")
		hd.OnError(recognition.CodeNoSpeech, "silence timeout")
	})

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if _, restarts, _, _ := svc.counts(); restarts == 1 {
			break
		}
		time.Sleep(2 * time.Millisecond)
	}
	_, restarts, _, _ := svc.counts()
	require.Equal(t, 1, restarts, "no-speech must restart capture")

	s := h.ctrl.State()
	assert.Equal(t, StatusRecording, s.Status)
	assert.Equal(t, "antes del silencio", s.TranscriptText)
	assert.True(t, s.LastError.IsZero())

	h.mu.Lock()
	defer h.mu.Unlock()
	require.NotEmpty(t, h.notices)
	assert.Equal(t, NoticeAdvisory, h.notices[len(h.notices)-1].Level)
}

func TestControllerProviderEndsSession(t *testing.T) {
	svc := &fakeService{}
	h := newHarness(t, svc)

	h.ctrl.Start()
	h.waitStatus(t, StatusRecording)
	svc.emit(func(hd recognition.Handlers) {
		hd.OnFragment(true, "hasta luego")
		hd.OnSessionEnded()
	})

	s := h.waitStatus(t, StatusCompleted)
	assert.Equal(t, "hasta luego", s.TranscriptText)
}

func TestControllerRecoverAfterDeviceError(t *testing.T) {
	svc := &fakeService{}
	h := newHarness(t, svc)

	h.ctrl.Start()
	h.waitStatus(t, StatusRecording)
	svc.emit(func(hd recognition.Handlers) {
		hd.OnFragment(true, "texto previo")
		hd.OnError(recognition.CodeAudioCapture, "device disappeared")
	})
	h.waitStatus(t, StatusError)

	h.ctrl.RecoverFromError()
	s := h.waitStatus(t, StatusIdle)

	assert.True(t, s.LastError.IsZero())
	assert.Equal(t, "texto previo", s.TranscriptText)
}

func TestControllerResetFromRecording(t *testing.T) {
	svc := &fakeService{}
	h := newHarness(t, svc)

	h.ctrl.Start()
	h.waitStatus(t, StatusRecording)
	svc.emit(func(hd recognition.Handlers) {
		hd.OnFragment(true, "algo de texto")
	})

	h.ctrl.Reset()
	s := h.waitStatus(t, StatusIdle)

	assert.Empty(t, s.TranscriptText)
	assert.Zero(t, s.WordCount)
	assert.Zero(t, s.DurationSeconds)

	_, _, _, terminates := svc.counts()
	assert.GreaterOrEqual(t, terminates, 1, "reset must terminate the provider session")
}
