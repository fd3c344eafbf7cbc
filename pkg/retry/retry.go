// Package retry wraps a fallible operation with bounded retry and
// exponential backoff. The schedule is fixed and deliberately simple:
// attempt 1 runs immediately, attempt n+1 runs after initialDelay*2^(n-1),
// so the waits double (1x, 2x, 4x, ...). No jitter, no failure-kind
// discrimination; after the attempt budget is spent the last error is
// returned unchanged.
package retry

import (
	"context"
	"time"
)

const (
	// DefaultMaxAttempts is the total number of calls made before giving up.
	DefaultMaxAttempts = 3

	// DefaultInitialDelay is the wait before the second attempt.
	DefaultInitialDelay = 1000 * time.Millisecond
)

// Retrier executes operations with the fixed doubling backoff schedule.
type Retrier struct {
	maxAttempts  int
	initialDelay time.Duration

	// sleep is swapped out in tests to observe the schedule.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Retrier. Non-positive arguments fall back to the defaults.
func New(maxAttempts int, initialDelay time.Duration) *Retrier {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if initialDelay <= 0 {
		initialDelay = DefaultInitialDelay
	}
	return &Retrier{
		maxAttempts:  maxAttempts,
		initialDelay: initialDelay,
		sleep:        sleepContext,
	}
}

// Do runs op until it succeeds or the attempt budget is exhausted. The last
// failure is propagated unchanged. Context cancellation aborts the backoff
// wait and returns the context error.
func (r *Retrier) Do(ctx context.Context, op func() error) error {
	delay := r.initialDelay

	var err error
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		if attempt > 0 {
			if serr := r.sleep(ctx, delay); serr != nil {
				return serr
			}
			delay *= 2
		}

		if err = op(); err == nil {
			return nil
		}
	}
	return err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
