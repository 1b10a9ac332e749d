package remote

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RetryPolicy controls how transient failures are retried.
type RetryPolicy struct {
	// Retries is the number of retries after the first attempt.
	Retries int
	// BaseDelay is the first backoff; each retry doubles it.
	BaseDelay time.Duration
	// Sleep waits for d or until ctx is done.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy retries four times starting at eight seconds.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Retries: 4, BaseDelay: 8 * time.Second, Sleep: sleepContext}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// withRetry runs fn, retrying transient errors with doubling backoff.
// Non-transient errors are returned immediately.
func withRetry[T any](ctx context.Context, p RetryPolicy, l *zap.Logger, op string, fn func() (T, error)) (T, error) {
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	delay := p.BaseDelay
	for attempt := 0; ; attempt++ {
		res, err := fn()
		if err == nil {
			return res, nil
		}
		if !IsTransient(err) {
			return res, err
		}
		if attempt >= p.Retries {
			var zero T
			return zero, &RetriesExhaustedError{Op: op, Attempts: attempt + 1, Err: err}
		}

		l.Warn("Transient remote failure, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", delay),
			zap.Error(err),
		)
		if err := sleep(ctx, delay); err != nil {
			var zero T
			return zero, err
		}
		delay *= 2
	}
}
