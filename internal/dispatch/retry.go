package dispatch

import (
	"context"
	"fmt"
)

// Retry runs fn up to maxAttempts times, retrying immediately with no
// backoff whenever fn returns an error. An attempt that completes, even with a nil
// result, is never retried. A panic inside fn counts as a fault. When every
// attempt faults, the last fault is returned wrapped in ErrRetryExhausted.
//
// Retries of the same call are sequential with respect to each other; Retry
// adds no concurrency of its own.
func Retry[T any](ctx context.Context, maxAttempts int, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := protect(ctx, fn)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	return zero, fmt.Errorf("%w after %d attempts: %v", ErrRetryExhausted, maxAttempts, lastErr)
}

// protect invokes fn, converting a panic into an error so one bad attempt
// cannot take down the worker.
func protect[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) (result T, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("job attempt panicked: %v", p)
		}
	}()
	return fn(ctx)
}
