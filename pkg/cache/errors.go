package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound reports a key with no stored value.
	ErrNotFound = errors.New("not found")

	// ErrNetwork reports a backend connectivity failure, e.g. a redis
	// instance that went away between serve-mode requests.
	ErrNetwork = errors.New("network error")
)

// RetryableError marks an error as transient. Backends wrap connectivity
// failures with it; everything else fails immediately.
type RetryableError struct{ Err error }

// Retryable wraps err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err carries a RetryableError anywhere in
// its chain.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff runs fn up to 3 times, doubling the delay from one
// second between attempts. Only retryable errors are retried; the
// context cancels the wait.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	const attempts = 3
	delay := time.Second
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
