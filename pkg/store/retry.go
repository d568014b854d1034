package store

import (
	"context"
	"time"

	"garage_backend/pkg/apperr"
)

// RetryPolicy bounds how often a failed store call is attempted again
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
}

// DefaultRetry is used when the caller does not configure one
var DefaultRetry = RetryPolicy{Attempts: 3, BaseDelay: 100 * time.Millisecond}

// Retry runs fn until it succeeds, returns a non-retryable error, or the
// attempts are used up. The delay doubles after every failed attempt.
func Retry(ctx context.Context, policy RetryPolicy, retryable func(error) bool, fn func() error) error {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || attempt >= policy.Attempts || !retryable(err) {
			return err
		}

		delay := policy.BaseDelay << (attempt - 1)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}

// RetryTransient retries only TransientErrors
func RetryTransient(ctx context.Context, policy RetryPolicy, fn func() error) error {
	return Retry(ctx, policy, apperr.IsTransient, fn)
}
