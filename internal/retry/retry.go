// Package retry implements the exponential backoff loop used for all
// Crawlpoint API calls. Failures are retried with exponentially growing,
// jittered delays; an operation can mark an error with Bail to stop the
// loop immediately.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

const (
	// DefaultMaxRetries is the number of retries performed after the
	// initial attempt when the policy does not specify one.
	DefaultMaxRetries = 8

	// DefaultMinDelay is the base delay before the first retry.
	DefaultMinDelay = 500 * time.Millisecond

	// DefaultMaxDelay caps the computed backoff so large attempt counts
	// do not produce hour-long sleeps or overflow.
	DefaultMaxDelay = 30 * time.Second
)

// Policy configures a single retry run. The zero value is usable; unset
// fields fall back to the package defaults. A Policy is constructed per
// call so concurrent callers with different settings never interfere.
type Policy struct {
	// MaxRetries is the number of retries after the initial attempt.
	// 0 means exactly one attempt.
	MaxRetries int

	// MinDelay is the backoff before the first retry; attempt k waits
	// MinDelay * 2^(k-1), jittered.
	MinDelay time.Duration

	// MaxDelay caps the computed backoff.
	MaxDelay time.Duration

	// OnRetry, if set, is called before each backoff sleep with the
	// 1-based attempt number that just failed, the sleep duration, and
	// the error that triggered the retry.
	OnRetry func(attempt int, delay time.Duration, err error)
}

func (p Policy) withDefaults() Policy {
	if p.MinDelay <= 0 {
		p.MinDelay = DefaultMinDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = DefaultMaxDelay
	}
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	return p
}

type bailError struct {
	err error
}

func (e *bailError) Error() string {
	return e.err.Error()
}

func (e *bailError) Unwrap() error {
	return e.err
}

// Bail marks err as terminal: Do returns it immediately without further
// attempts. Returns nil if err is nil.
func Bail(err error) error {
	if err == nil {
		return nil
	}
	return &bailError{err: err}
}

// IsBail reports whether err carries a Bail marking.
func IsBail(err error) bool {
	var be *bailError
	return errors.As(err, &be)
}

// Do invokes op until it succeeds, bails, or the policy is exhausted.
// Every failed attempt other than the last sleeps for an exponentially
// growing jittered delay. Cancellation of ctx during the sleep aborts
// the run with ctx.Err().
//
// On exhaustion the last underlying error is returned wrapped with the
// attempt count; errors.Is and errors.As still reach the cause.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	p = p.withDefaults()

	var lastErr error
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}

		var be *bailError
		if errors.As(err, &be) {
			return zero, be.err
		}
		lastErr = err

		if attempt >= p.MaxRetries {
			if attempt == 0 {
				return zero, lastErr
			}
			return zero, fmt.Errorf("failed after %d attempts: %w", attempt+1, lastErr)
		}

		delay := backoff(p, attempt+1)
		if p.OnRetry != nil {
			p.OnRetry(attempt+1, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}

// backoff computes the jittered delay before retry attempt k (1-based):
// MinDelay * 2^(k-1), scaled by a uniform factor in [0.5, 1.5] and
// capped at MaxDelay.
func backoff(p Policy, attempt int) time.Duration {
	delay := p.MinDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= p.MaxDelay {
			delay = p.MaxDelay
			break
		}
	}
	if delay > p.MaxDelay {
		delay = p.MaxDelay
	}

	jittered := time.Duration(float64(delay) * (0.5 + rand.Float64()))
	if jittered > p.MaxDelay {
		jittered = p.MaxDelay
	}
	return jittered
}
