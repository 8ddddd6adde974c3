package retry

import (
	"context"
	"errors"
)

// Result is the discriminated outcome of a retry-capable operation. Callers
// inspect OK instead of handling an error, so "no data yet" and "confirmed
// failure" stay distinguishable.
type Result[T any] struct {
	// OK reports whether the operation succeeded.
	OK bool

	// Status is the HTTP status of the last attempt, or 0 when no response
	// was received.
	Status int

	// Data holds the decoded payload when OK is true. It is the zero value
	// otherwise.
	Data T

	// Error is the human readable failure message when OK is false.
	Error string

	// Err is the underlying cause for transport failures and aborts.
	Err error

	// Attempts is the number of times the operation ran.
	Attempts int
}

// Success builds a successful result.
func Success[T any](status int, data T) Result[T] {
	return Result[T]{OK: true, Status: status, Data: data}
}

// Failure builds a failed result for a response the server rejected.
func Failure[T any](status int, message string) Result[T] {
	return Result[T]{Status: status, Error: message}
}

// TransportFailure builds a failed result for a request that produced no
// usable response.
func TransportFailure[T any](message string, err error) Result[T] {
	return Result[T]{Error: message, Err: err}
}

// Aborted reports whether the result ended because its context was cancelled
// or timed out, as opposed to the server rejecting every attempt.
func (r Result[T]) Aborted() bool {
	return !r.OK && (errors.Is(r.Err, context.Canceled) || errors.Is(r.Err, context.DeadlineExceeded))
}
