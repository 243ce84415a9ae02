package http

import (
	"context"
	"errors"
	"math"
	"time"
)

// RetryPolicy describes exponential backoff between attempts.
//
// The wait before attempt n+1 is Cooldown * Exponent^n seconds.
type RetryPolicy struct {
	MaxAttempts int
	Cooldown    float64
	Exponent    float64
}

// DefaultRetryPolicy returns 3 attempts with a 0.2 s cooldown doubling each try.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Cooldown: 0.2, Exponent: 2}
}

// permanentError marks an error that must not be retried.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so Retry returns it at once.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Retry calls fn until it succeeds, the attempts run out or ctx is done.
// An error wrapped with Permanent ends the loop and is returned unwrapped.
// onRetry, when set, is called before each wait with the attempt number
// (starting at 1) and the error that caused it.
//
// Example:
//
//	err := http.Retry(ctx, policy, func() error {
//	    return client.GetJSON(ctx, url, &res)
//	}, nil)
func Retry(ctx context.Context, p RetryPolicy, fn func() error, onRetry func(attempt int, err error)) error {
	attempts := max(p.MaxAttempts, 1)

	var err error
	for tries := 0; tries < attempts; tries++ {
		if err = fn(); err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if tries == attempts-1 {
			break
		}
		if onRetry != nil {
			onRetry(tries+1, err)
		}
		if werr := wait(ctx, p, tries); werr != nil {
			return err
		}
	}
	return err
}

func wait(ctx context.Context, p RetryPolicy, tries int) error {
	cooldown := p.Cooldown * math.Pow(p.Exponent, float64(tries))
	t := time.NewTimer(time.Duration(cooldown * float64(time.Second)))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
