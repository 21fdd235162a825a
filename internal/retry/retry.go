// Package retry holds the backoff helper used by background jobs.
package retry

import (
	"context"
	"time"
)

// DoWithRetry runs fn up to attempts times, doubling the wait between
// tries. A canceled context aborts both the call and the wait; when
// every attempt fails the last error is returned.
func DoWithRetry(ctx context.Context, attempts int, baseDelay time.Duration, fn func() error) error {
	wait := baseDelay
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
	return lastErr
}
