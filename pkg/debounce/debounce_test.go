package debounce

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestCoalescesBursts(t *testing.T) {
	var calls atomic.Int32
	d := New(20*time.Millisecond, func() { calls.Add(1) })
	defer d.Stop()

	for range 10 {
		d.Trigger()
		time.Sleep(time.Millisecond)
	}

	time.Sleep(60 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestFlushRunsImmediately(t *testing.T) {
	var calls atomic.Int32
	d := New(time.Hour, func() { calls.Add(1) })
	defer d.Stop()

	d.Trigger()
	d.Flush()

	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestFlushWithoutPendingIsNoop(t *testing.T) {
	var calls atomic.Int32
	d := New(time.Millisecond, func() { calls.Add(1) })
	defer d.Stop()

	d.Flush()
	if got := calls.Load(); got != 0 {
		t.Errorf("calls = %d, want 0", got)
	}
}

func TestStopCancelsPending(t *testing.T) {
	var calls atomic.Int32
	d := New(10*time.Millisecond, func() { calls.Add(1) })

	d.Trigger()
	d.Stop()

	time.Sleep(30 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("calls = %d, want 0", got)
	}

	// Triggers after Stop are ignored.
	d.Trigger()
	time.Sleep(30 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("calls after Stop = %d, want 0", got)
	}
}

func TestSeparateBurstsFireSeparately(t *testing.T) {
	var calls atomic.Int32
	d := New(10*time.Millisecond, func() { calls.Add(1) })
	defer d.Stop()

	d.Trigger()
	time.Sleep(30 * time.Millisecond)
	d.Trigger()
	time.Sleep(30 * time.Millisecond)

	if got := calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}
