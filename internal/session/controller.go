package session

import (
	"context"
	"sync"
	"time"

	"github.com/transcribeia/transcribeia/internal/logger"
	"github.com/transcribeia/transcribeia/internal/recognition"
)

const (
	defaultSettleDelay  = 1500 * time.Millisecond
	defaultTickInterval = time.Second
	mailboxCapacity     = 64
)

// ControllerConfig wires a Controller to its collaborators.
type ControllerConfig struct {
	Service  recognition.Service
	Logger   logger.Logger
	Language string
	// SettleDelay is the wait between a graceful stop and completion,
	// covering the provider's final-result flush. Defaults to 1.5s.
	SettleDelay time.Duration
	// TickInterval drives the duration counter. Defaults to 1s.
	TickInterval time.Duration
}

// Controller owns the recording session lifecycle. All mutations flow
// through a single event loop: user commands, recognition callbacks, timer
// ticks and scheduled continuations are posted to a mailbox and applied in
// arrival order by the pure transition function.
type Controller struct {
	svc         recognition.Service
	logger      logger.Logger
	opts        recognition.Options
	settleDelay time.Duration

	mailbox chan event
	quit    chan struct{}
	qonce   sync.Once

	timer *DurationTimer

	stateMu sync.RWMutex
	state   State

	subs       []func(State)
	noticeSubs []func(Notice)
}

// NewController creates a Controller. Subscriptions must be registered
// before Run is called.
func NewController(cfg ControllerConfig) *Controller {
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = defaultSettleDelay
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = defaultTickInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}

	c := &Controller{
		svc:    cfg.Service,
		logger: cfg.Logger,
		opts: recognition.Options{
			Language:       cfg.Language,
			Continuous:     true,
			InterimResults: true,
		},
		settleDelay: cfg.SettleDelay,
		mailbox:     make(chan event, mailboxCapacity),
		quit:        make(chan struct{}),
		state:       State{Status: StatusIdle},
	}
	c.timer = NewDurationTimer(cfg.TickInterval, func(now time.Time) {
		c.post(evTick{now: now})
	})
	return c
}

// Subscribe registers a snapshot subscriber, invoked from the event loop
// after every state change.
func (c *Controller) Subscribe(fn func(State)) {
	c.subs = append(c.subs, fn)
}

// SubscribeNotices registers a notification subscriber.
func (c *Controller) SubscribeNotices(fn func(Notice)) {
	c.noticeSubs = append(c.noticeSubs, fn)
}

// State returns the current session snapshot.
func (c *Controller) State() State {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

// Start requests a new recording session. Valid from idle, completed and
// error; a no-op otherwise.
func (c *Controller) Start() { c.post(evStart{}) }

// Stop ends the active recording gracefully. Valid only while recording.
func (c *Controller) Stop() { c.post(evStop{}) }

// Reset forcibly terminates any session and returns to a fresh idle state.
func (c *Controller) Reset() { c.post(evReset{}) }

// RecoverFromError leaves the error state without clearing accumulated
// transcript data.
func (c *Controller) RecoverFromError() { c.post(evRecover{}) }

// Run executes the event loop until ctx is cancelled. It must be called
// exactly once.
func (c *Controller) Run(ctx context.Context) {
	defer c.qonce.Do(func() { close(c.quit) })
	defer c.timer.StopTicking()
	defer func() {
		if err := c.svc.ForceTerminate(); err != nil {
			c.logger.Warn(ctx, "terminate recognition on shutdown: %v", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-c.mailbox:
			c.apply(ctx, ev)
		}
	}
}

func (c *Controller) post(ev event) {
	select {
	case c.mailbox <- ev:
	case <-c.quit:
	}
}

func (c *Controller) apply(ctx context.Context, ev event) {
	old := c.State()
	next, effects := transition(old, ev)

	c.stateMu.Lock()
	c.state = next
	c.stateMu.Unlock()

	for _, fx := range effects {
		c.perform(ctx, fx)
	}

	if next != old {
		for _, fn := range c.subs {
			fn(next)
		}
	}
}

func (c *Controller) perform(ctx context.Context, fx effect) {
	switch fx := fx.(type) {

	case fxRequestAccess:
		if err := c.svc.RequestAccess(ctx); err != nil {
			c.logger.Warn(ctx, "capture access denied: %v", err)
			c.post(evAccessDenied{message: err.Error()})
			return
		}
		c.post(evAccessGranted{at: time.Now()})

	case fxOpenRecognition:
		err := c.svc.Open(ctx, c.opts, recognition.Handlers{
			OnSessionStarted: func() {
				c.logger.Debug(ctx, "recognition session started")
			},
			OnFragment: func(isFinal bool, text string) {
				c.post(evFragment{isFinal: isFinal, text: text})
			},
			OnError: func(code recognition.Code, message string) {
				c.post(evRecognitionError{code: code, message: message})
			},
			OnSessionEnded: func() {
				c.post(evSessionEnded{})
			},
		})
		if err != nil {
			c.logger.Error(ctx, "open recognition session: %v", err)
			c.post(evRecognitionError{code: recognition.CodeAudioCapture, message: err.Error()})
		}

	case fxRestartRecognition:
		if err := c.svc.Restart(ctx); err != nil {
			c.logger.Warn(ctx, "restart recognition after silence: %v", err)
		}

	case fxStopRecognition:
		if err := c.svc.RequestStop(); err != nil {
			c.logger.Warn(ctx, "stop recognition session: %v", err)
		}

	case fxTerminateRecognition:
		if err := c.svc.ForceTerminate(); err != nil {
			c.logger.Warn(ctx, "terminate recognition session: %v", err)
		}

	case fxStartTicker:
		c.timer.StartTicking(fx.at)

	case fxStopTicker:
		c.timer.StopTicking()

	case fxScheduleSettle:
		seq := fx.seq
		time.AfterFunc(c.settleDelay, func() {
			c.post(evSettled{seq: seq})
		})

	case fxNotify:
		for _, fn := range c.noticeSubs {
			fn(fx.notice)
		}
	}
}
