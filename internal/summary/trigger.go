package summary

import (
	"context"
	"sync"
	"time"

	"github.com/transcribeia/transcribeia/internal/logger"
	"github.com/transcribeia/transcribeia/internal/session"
	"github.com/transcribeia/transcribeia/internal/store"
)

const (
	// DefaultAutoThreshold is the minimum word count before a completed
	// session qualifies for automatic generation.
	DefaultAutoThreshold = 50
	// DefaultAutoDelay is how long after completion the automatic trigger
	// waits before firing.
	DefaultAutoDelay = 2 * time.Second
)

// Trigger watches session completions and fires summary generation: once
// per session automatically when enough words were captured, and on demand
// for everything else. All paths go through the store's IsLoading gate.
type Trigger struct {
	store  *store.Store
	svc    Service
	logger logger.Logger

	threshold int
	delay     time.Duration

	mu        sync.Mutex
	generated bool
	pending   *time.Timer
}

// NewTrigger creates a Trigger with the default threshold and delay.
func NewTrigger(st *store.Store, svc Service, log logger.Logger) *Trigger {
	return &Trigger{
		store:     st,
		svc:       svc,
		logger:    log,
		threshold: DefaultAutoThreshold,
		delay:     DefaultAutoDelay,
	}
}

// OnSessionState reacts to controller snapshots. A completed session with
// enough words schedules one automatic generation after a short delay; a
// new recording re-arms the trigger and cancels any pending timer.
func (t *Trigger) OnSessionState(ctx context.Context, st session.State) {
	t.mu.Lock()
	switch st.Status {
	case session.StatusRecording:
		t.generated = false
		t.cancelPendingLocked()
		t.mu.Unlock()

	case session.StatusCompleted:
		if t.generated || st.WordCount < t.threshold {
			t.mu.Unlock()
			return
		}
		t.generated = true
		t.pending = time.AfterFunc(t.delay, func() {
			t.generate(ctx)
		})
		t.mu.Unlock()

	default:
		t.mu.Unlock()
	}
}

// GenerateNow fires a manual generation immediately, regardless of word
// count. Returns false when a generation is already in flight.
func (t *Trigger) GenerateNow(ctx context.Context) bool {
	t.mu.Lock()
	t.cancelPendingLocked()
	t.mu.Unlock()
	return t.generate(ctx)
}

// Reset re-arms the automatic trigger and drops any pending timer. Called
// when a new session starts.
func (t *Trigger) Reset() {
	t.mu.Lock()
	t.generated = false
	t.cancelPendingLocked()
	t.mu.Unlock()
}

func (t *Trigger) cancelPendingLocked() {
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}

func (t *Trigger) generate(ctx context.Context) bool {
	if !t.store.BeginSummary() {
		t.logger.Debug(ctx, "Summary generation already in flight, ignoring request")
		return false
	}

	td := t.store.Transcript()
	meta := t.store.Meeting()

	out := t.svc.Generate(ctx, Input{
		Text:      td.Text,
		WordCount: td.WordCount,
		Duration:  td.Duration,
	}, meta)

	if out.Success {
		t.store.FinishSummary(out.Summary, "")
		t.logger.Info(ctx, "Summary generated (%d words in)", td.WordCount)
	} else {
		t.store.FinishSummary("", out.Error)
		t.logger.Warn(ctx, "Summary generation failed: %s", out.Error)
	}
	return out.Success
}
