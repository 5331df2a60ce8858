package summary

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transcribeia/transcribeia/internal/logger"
	"github.com/transcribeia/transcribeia/internal/meeting"
	"github.com/transcribeia/transcribeia/internal/session"
	"github.com/transcribeia/transcribeia/internal/store"
)

type countingService struct {
	calls atomic.Int32
	out   Outcome
}

func (s *countingService) Generate(ctx context.Context, in Input, meta meeting.Metadata) Outcome {
	s.calls.Add(1)
	return s.out
}

func newTestTrigger(svc Service) (*Trigger, *store.Store) {
	st := store.New()
	tr := NewTrigger(st, svc, logger.Nop())
	tr.delay = 10 * time.Millisecond
	return tr, st
}

func completedState(words int) session.State {
	return session.State{Status: session.StatusCompleted, WordCount: words, TranscriptText: "texto"}
}

func waitCalls(t *testing.T, svc *countingService, want int32) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if svc.calls.Load() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, want, svc.calls.Load())
}

func TestTriggerFiresOnceAboveThreshold(t *testing.T) {
	svc := &countingService{out: Outcome{Success: true, Summary: "resumen"}}
	tr, st := newTestTrigger(svc)
	ctx := context.Background()

	tr.OnSessionState(ctx, completedState(75))
	waitCalls(t, svc, 1)

	// Repeated completed snapshots for the same session must not re-fire.
	tr.OnSessionState(ctx, completedState(75))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), svc.calls.Load())

	assert.Equal(t, "resumen", st.Summary().Content)
	assert.False(t, st.Summary().IsLoading)
}

func TestTriggerIgnoresShortTranscripts(t *testing.T) {
	svc := &countingService{out: Outcome{Success: true}}
	tr, _ := newTestTrigger(svc)

	tr.OnSessionState(context.Background(), completedState(49))
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, svc.calls.Load())
}

func TestTriggerRearmsOnNewRecording(t *testing.T) {
	svc := &countingService{out: Outcome{Success: true}}
	tr, _ := newTestTrigger(svc)
	ctx := context.Background()

	tr.OnSessionState(ctx, completedState(60))
	waitCalls(t, svc, 1)

	tr.OnSessionState(ctx, session.State{Status: session.StatusRecording})
	tr.OnSessionState(ctx, completedState(60))
	waitCalls(t, svc, 2)
}

func TestRecordingCancelsPendingTimer(t *testing.T) {
	svc := &countingService{out: Outcome{Success: true}}
	tr, _ := newTestTrigger(svc)
	ctx := context.Background()

	tr.OnSessionState(ctx, completedState(60))
	tr.OnSessionState(ctx, session.State{Status: session.StatusRecording})
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, svc.calls.Load(), "restart before the delay elapses must cancel the scheduled generation")
}

func TestGenerateNowRespectsLoadingGate(t *testing.T) {
	svc := &countingService{out: Outcome{Success: true, Summary: "resumen"}}
	tr, st := newTestTrigger(svc)
	ctx := context.Background()

	require.True(t, st.BeginSummary(), "arrange: mark a generation in flight")
	assert.False(t, tr.GenerateNow(ctx), "second request while loading is a no-op")
	assert.Zero(t, svc.calls.Load())

	st.FinishSummary("previo", "")
	assert.True(t, tr.GenerateNow(ctx))
	assert.Equal(t, int32(1), svc.calls.Load())
}

func TestGenerateNowStoresFailure(t *testing.T) {
	svc := &countingService{out: Outcome{Success: false, Error: "No hay texto para procesar"}}
	tr, st := newTestTrigger(svc)

	assert.False(t, tr.GenerateNow(context.Background()))
	assert.Equal(t, "No hay texto para procesar", st.Summary().Error)
	assert.False(t, st.Summary().IsLoading)
}
