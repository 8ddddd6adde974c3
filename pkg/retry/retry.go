package retry

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Default policy values.
const (
	DefaultMaxAttempts  = 3
	DefaultInitialDelay = 500 * time.Millisecond
	DefaultMaxDelay     = 5 * time.Second
	DefaultMultiplier   = 2.0
	DefaultJitter       = 0.2
)

// errAttemptFailed marks a failed attempt for the backoff loop. The caller
// never sees it: the last Result is returned instead.
var errAttemptFailed = errors.New("attempt failed")

// Policy bounds how an operation is retried.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// InitialDelay is the wait before the second attempt.
	InitialDelay time.Duration

	// MaxDelay caps the wait between attempts.
	MaxDelay time.Duration

	// Multiplier grows the wait after each failed attempt.
	Multiplier float64

	// Jitter randomizes each wait by +/- this fraction (0 disables it).
	Jitter float64

	// RetryIf decides whether a failed attempt with the given status should
	// be retried. Status 0 means no response was received. Nil retries every
	// failure.
	RetryIf func(status int) bool
}

// DefaultPolicy returns the policy used when callers do not supply one.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  DefaultMaxAttempts,
		InitialDelay: DefaultInitialDelay,
		MaxDelay:     DefaultMaxDelay,
		Multiplier:   DefaultMultiplier,
		Jitter:       DefaultJitter,
	}
}

// Option adjusts a policy for a single call.
type Option func(*Policy)

// Attempts sets the total number of attempts.
func Attempts(n int) Option {
	return func(p *Policy) { p.MaxAttempts = n }
}

// Delay sets the initial wait between attempts.
func Delay(d time.Duration) Option {
	return func(p *Policy) { p.InitialDelay = d }
}

// MaxDelay caps the wait between attempts.
func MaxDelay(d time.Duration) Option {
	return func(p *Policy) { p.MaxDelay = d }
}

// NoJitter disables randomization of the wait.
func NoJitter() Option {
	return func(p *Policy) { p.Jitter = 0 }
}

// RetryIf sets the retry predicate.
func RetryIf(fn func(status int) bool) Option {
	return func(p *Policy) { p.RetryIf = fn }
}

// With returns a copy of p with opts applied.
func (p Policy) With(opts ...Option) Policy {
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Transient reports whether a failure status is worth retrying: no response,
// request timeout, rate limiting or a server error.
func Transient(status int) bool {
	return status == 0 ||
		status == http.StatusRequestTimeout ||
		status == http.StatusTooManyRequests ||
		status >= 500
}

func (p Policy) normalized() Policy {
	d := DefaultPolicy()
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.InitialDelay < 0 {
		p.InitialDelay = 0
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = d.MaxDelay
	}
	if p.MaxDelay < p.InitialDelay {
		p.MaxDelay = p.InitialDelay
	}
	if p.Multiplier < 1 {
		p.Multiplier = 1
	}
	if p.Jitter < 0 || p.Jitter >= 1 {
		p.Jitter = 0
	}
	return p
}

func (p Policy) backOff(ctx context.Context) backoff.BackOffContext {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.InitialDelay
	exp.MaxInterval = p.MaxDelay
	exp.Multiplier = p.Multiplier
	exp.RandomizationFactor = p.Jitter
	exp.MaxElapsedTime = 0

	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(p.MaxAttempts-1)), ctx)
}

// Do runs op until it succeeds, the policy is exhausted, RetryIf rejects a
// failure, or ctx is done. Every attempt receives ctx, so cancelling it
// aborts the attempt in flight and prevents further attempts. An aborted
// call returns a result whose Err is the context error.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) Result[T]) Result[T] {
	p = p.normalized()

	var (
		last     Result[T]
		attempts int
	)

	if err := ctx.Err(); err != nil {
		return aborted[T](last, err, attempts)
	}

	operation := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}

		attempts++
		last = op(ctx)
		if last.OK {
			return nil
		}

		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		if p.RetryIf != nil && !p.RetryIf(last.Status) {
			return backoff.Permanent(errAttemptFailed)
		}
		return errAttemptFailed
	}

	notify := func(_ error, wait time.Duration) {
		slog.DebugContext(ctx, "retrying request",
			"attempt", attempts,
			"status", last.Status,
			"error", last.Error,
			"wait", wait,
		)
	}

	_ = backoff.RetryNotify(operation, p.backOff(ctx), notify)

	if err := ctx.Err(); err != nil && !last.OK {
		return aborted[T](last, err, attempts)
	}

	last.Attempts = attempts
	return last
}

func aborted[T any](last Result[T], err error, attempts int) Result[T] {
	var zero T
	return Result[T]{
		Status:   last.Status,
		Data:     zero,
		Error:    "request aborted",
		Err:      err,
		Attempts: attempts,
	}
}
