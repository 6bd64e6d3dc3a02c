package retry

import (
	"context"
	"errors"
	"time"
)

// ErrRetry asks Blocking to call the function again after backoff.
var ErrRetry = errors.New("retry")

// Backoff is a (blocking) function which returns when it is time to retry.
//
// It should return ctx.Err() when the context is canceled before that.
type Backoff func(context.Context) error

// StaticBackoff waits a fixed interval between attempts.
func StaticBackoff(interval time.Duration) Backoff {
	return ExponentialBackoff(interval, 1)
}

// ExponentialBackoff waits initialInterval * r^N before the N-th retry.
func ExponentialBackoff(initialInterval time.Duration, r float64) Backoff {
	interval := initialInterval
	return func(ctx context.Context) error {
		timer := time.NewTimer(interval)
		defer func() {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			interval = time.Duration(float64(interval) * r)
			return nil
		}
	}
}

// Blocking calls f until it returns nil or a non-retry error.
//
// While f returns an error wrapping ErrRetry, Blocking waits with b and
// calls f again. Any other error (or nil) is returned as-is. When the
// context is canceled during backoff, the context error is returned.
func Blocking(ctx context.Context, b Backoff, f func() error) error {
	for {
		err := f()
		if err == nil || !errors.Is(err, ErrRetry) {
			return err
		}
		if err := b(ctx); err != nil {
			return err
		}
	}
}
