package middleware

import (
	"errors"
	"fmt"
)

var (
	// ErrRetryExhausted is returned by [Retry] when every attempt failed. It
	// wraps the last provider error as well.
	ErrRetryExhausted = errors.New("toolloop: all retry attempts exhausted")

	// ErrTransient marks provider errors worth retrying. See [Transient].
	ErrTransient = errors.New("toolloop: transient provider error")
)

// Transient marks err as retryable by the default [RetryConfig].
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrTransient, err)
}
