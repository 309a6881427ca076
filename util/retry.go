package util

import (
	"context"
	"fmt"
	"time"
)

// Retry calls f up to 1+retries times, doubling the delay between attempts, until it succeeds
// or ctx is done.
func Retry[T any](ctx context.Context, retries int, d time.Duration, f func(context.Context) (T, error)) (v T, err error) {
	for i := 0; ; i++ {
		if v, err = f(ctx); err == nil {
			return v, nil
		} else if i >= retries {
			break
		}
		Debugf(ctx, "attempt %d/%d failed: %s", i+1, retries+1, err)
		t := time.NewTimer(d)
		select {
		case <-ctx.Done():
			t.Stop()
			return *new(T), ctx.Err()
		case <-t.C:
			d *= 2
		}
	}
	if retries == 0 {
		return v, err
	}
	return v, fmt.Errorf("max retries reached: %w", err)
}
