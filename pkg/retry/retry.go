package retry

import (
	"context"
	"time"
)

// Config controls the backoff schedule for Do.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// InitialDelay is the wait before the second attempt; it is multiplied
	// by Multiplier after every failed attempt.
	InitialDelay time.Duration
	// Multiplier defaults to 2 when zero or negative.
	Multiplier float64
	// MaxDelay caps the per-attempt delay. Zero means uncapped.
	MaxDelay time.Duration
}

// OnRetry, when set, is invoked before each wait with the attempt number
// that just failed (1-based) and the upcoming delay.
type OnRetry func(attempt int, err error, nextDelay time.Duration)

// Do runs op until it succeeds, attempts are exhausted, or the context is
// cancelled. The delay doubles (or grows by cfg.Multiplier) after each
// failed attempt.
func Do[T any](ctx context.Context, cfg Config, op func(ctx context.Context) (T, error), onRetry OnRetry) (T, error) {
	var zero T

	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	multiplier := cfg.Multiplier
	if multiplier <= 0 {
		multiplier = 2
	}

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		if onRetry != nil {
			onRetry(attempt, err, delay)
		}
		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
		delay = time.Duration(float64(delay) * multiplier)
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return zero, lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
