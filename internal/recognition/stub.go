package recognition

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/transcribeia/transcribeia/internal/logger"
)

// ScriptStep is one scripted recognition event for the stub service.
type ScriptStep struct {
	IsFinal bool
	Text    string
}

// implStub replays a fixed script of fragments on a timer. It produces
// deterministic transcripts without any capture device, which keeps the
// whole pipeline exercisable offline.
type implStub struct {
	logger   logger.Logger
	script   []ScriptStep
	interval time.Duration
	deny     bool

	mu       sync.Mutex
	cancel   context.CancelFunc
	handlers Handlers
	running  bool
}

// NewStub creates a stub Service that delivers the given script, one step
// per interval. If deny is set, RequestAccess fails, modelling a refused
// capture permission.
func NewStub(log logger.Logger, script []ScriptStep, interval time.Duration, deny bool) Service {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return &implStub{
		logger:   log,
		script:   script,
		interval: interval,
		deny:     deny,
	}
}

func (s *implStub) RequestAccess(ctx context.Context) error {
	if s.deny {
		return fmt.Errorf("capture permission denied")
	}
	return nil
}

func (s *implStub) Open(ctx context.Context, opts Options, h Handlers) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("stub session already open")
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.handlers = h
	s.running = true
	s.mu.Unlock()

	if h.OnSessionStarted != nil {
		h.OnSessionStarted()
	}

	go s.replay(runCtx, opts, h)
	return nil
}

func (s *implStub) replay(ctx context.Context, opts Options, h Handlers) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for _, step := range s.script {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if step.IsFinal || opts.InterimResults {
			if h.OnFragment != nil {
				h.OnFragment(step.IsFinal, step.Text)
			}
		}
	}

	// Script exhausted: in continuous mode the session stays open until
	// the owner stops it, otherwise it ends on its own.
	if !opts.Continuous {
		s.end()
	}
}

func (s *implStub) Restart(ctx context.Context) error {
	s.logger.Debug(ctx, "stub recognition restart requested")
	return nil
}

// RequestStop ends the session gracefully, delivering OnSessionEnded.
func (s *implStub) RequestStop() error {
	s.end()
	return nil
}

// ForceTerminate tears the session down without delivering further events.
func (s *implStub) ForceTerminate() error {
	s.teardown()
	return nil
}

func (s *implStub) end() {
	h, wasRunning := s.teardownLocked()
	if wasRunning && h.OnSessionEnded != nil {
		h.OnSessionEnded()
	}
}

func (s *implStub) teardown() {
	s.teardownLocked()
}

func (s *implStub) teardownLocked() (Handlers, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wasRunning := s.running
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.running = false
	return s.handlers, wasRunning
}
