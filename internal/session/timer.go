package session

import (
	"sync"
	"time"
)

// DurationTimer delivers a periodic tick while a recording is active.
// Elapsed time is always computed from the start timestamp, so a delayed
// tick does not accumulate drift.
type DurationTimer struct {
	interval time.Duration
	onTick   func(now time.Time)

	mu    sync.Mutex
	start time.Time
	stop  chan struct{}
}

// NewDurationTimer creates a timer invoking onTick once per interval.
func NewDurationTimer(interval time.Duration, onTick func(now time.Time)) *DurationTimer {
	if interval <= 0 {
		interval = time.Second
	}
	return &DurationTimer{interval: interval, onTick: onTick}
}

// StartTicking begins ticking with the given session start time. A timer
// that is already ticking is restarted.
func (t *DurationTimer) StartTicking(start time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		close(t.stop)
	}
	t.start = start
	stop := make(chan struct{})
	t.stop = stop

	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				t.onTick(now)
			}
		}
	}()
}

// StopTicking halts the timer. The last tick may still be in flight; it is
// guaranteed to stop within one tick period.
func (t *DurationTimer) StopTicking() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

// Elapsed returns whole seconds since the start timestamp.
func (t *DurationTimer) Elapsed(now time.Time) int {
	t.mu.Lock()
	start := t.start
	t.mu.Unlock()
	return elapsedSeconds(start, now)
}

func elapsedSeconds(start, now time.Time) int {
	if start.IsZero() || now.Before(start) {
		return 0
	}
	return int(now.Sub(start) / time.Second)
}
