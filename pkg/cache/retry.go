package cache

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks an error as transient. Backend constructors wrap
// connection and ping failures with it so RetryWithBackoff knows which
// failures are worth another attempt.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err is wrapped as transient.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

const (
	retryAttempts  = 3
	retryBaseDelay = time.Second
)

// RetryWithBackoff runs fn up to three times, doubling the delay between
// attempts. Only transient errors retry; anything else returns immediately.
// The Redis and MongoDB backends use it around their initial connect, where
// a briefly unreachable server should not fail the whole command.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	var lastErr error
	delay := retryBaseDelay

	for attempt := 0; attempt < retryAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		if attempt == retryAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return lastErr
}
