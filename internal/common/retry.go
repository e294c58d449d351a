package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var (
	// ErrRateLimit marks a call rejected by a remote quota. The next attempt
	// waits the full MaxDelay.
	ErrRateLimit = errors.New("rate limit exceeded")
	// ErrMaxRetries is returned once every attempt has failed.
	ErrMaxRetries = errors.New("max retries exceeded")
)

// RetryOptions configures WithRetry. Zero values take the defaults of
// DefaultRetryOptions.
type RetryOptions struct {
	// ShouldRetry classifies a failure. Nil retries everything except a
	// RetryableError marked permanent.
	ShouldRetry  func(error) bool
	Logger       *slog.Logger
	Operation    string
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// DefaultRetryOptions returns the backoff used for Google Sheets calls.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
	}
}

// RetryableError tags an error as transient or permanent.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// WithRetry calls operation until it succeeds, fails permanently or runs out
// of attempts. The delay doubles after every failure, capped at MaxDelay.
func WithRetry(ctx context.Context, operation func() error, opts RetryOptions) error {
	opts = opts.withDefaults()

	delay := opts.InitialDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = operation(); err == nil {
			return nil
		}
		if !opts.ShouldRetry(err) {
			return err
		}
		if attempt >= opts.MaxAttempts {
			break
		}
		if errors.Is(err, ErrRateLimit) {
			delay = opts.MaxDelay
		}

		opts.Logger.Warn("Retrying after failure",
			"operation", opts.Operation,
			"attempt", attempt,
			"max_attempts", opts.MaxAttempts,
			"delay", delay,
			"error", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay = min(2*delay, opts.MaxDelay)
	}

	if opts.Operation != "" {
		return fmt.Errorf("%s: %w after %d attempts: %w", opts.Operation, ErrMaxRetries, opts.MaxAttempts, err)
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrMaxRetries, opts.MaxAttempts, err)
}

func (o RetryOptions) withDefaults() RetryOptions {
	def := DefaultRetryOptions()
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = def.MaxAttempts
	}
	if o.InitialDelay <= 0 {
		o.InitialDelay = def.InitialDelay
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = def.MaxDelay
	}
	if o.MaxDelay < o.InitialDelay {
		o.MaxDelay = o.InitialDelay
	}
	if o.ShouldRetry == nil {
		o.ShouldRetry = notPermanent
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

func notPermanent(err error) bool {
	var re *RetryableError
	return !errors.As(err, &re) || re.Retryable
}
