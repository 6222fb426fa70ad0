// Package retry is the single retry-with-backoff utility used for talking
// to the settings store.
package retry

import (
	"context"
	"time"
)

// Policy bounds a retry loop.
type Policy struct {
	MaxAttempts int
	Base        time.Duration
	Cap         time.Duration
}

// Default matches the settings-load contract: five attempts starting at
// half a second, doubling, capped at ten seconds.
func Default() Policy {
	return Policy{MaxAttempts: 5, Base: 500 * time.Millisecond, Cap: 10 * time.Second}
}

// Backoff returns the delay before the given zero-based retry attempt.
func (p Policy) Backoff(attempt int) time.Duration {
	d := p.Base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= p.Cap {
			return p.Cap
		}
	}
	if d > p.Cap {
		return p.Cap
	}
	return d
}

// Do runs op until it succeeds, the attempt budget is spent, or ctx is
// done. The last error is returned; callers fall back to safe defaults.
func (p Policy) Do(ctx context.Context, op func() error) error {
	var err error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if attempt > 0 {
			t := time.NewTimer(p.Backoff(attempt - 1))
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}
		if err = op(); err == nil {
			return nil
		}
	}
	return err
}
