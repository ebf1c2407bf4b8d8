// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrDead indicates that the actor is no longer alive or has been terminated.
	ErrDead = errors.New("actor is not alive")

	// ErrActorAlreadyExists is returned when trying to register an actor under a name that is still live.
	ErrActorAlreadyExists = errors.New("actor already exists")

	// ErrSystemStopped is returned when an operation is attempted on a stopped actor system.
	ErrSystemStopped = errors.New("actor system is stopped")

	// ErrAlreadyStarted is returned when starting an actor that is already running.
	ErrAlreadyStarted = errors.New("actor has already started")

	// ErrInitFailure is returned when the actor's preStart hook fails during initialization.
	ErrInitFailure = errors.New("preStart failed")

	// ErrInvalidName is returned when an actor or system name segment is empty or malformed.
	ErrInvalidName = errors.New("invalid name, a segment must be non-empty and must not contain dots or whitespace")

	// ErrReservedName is returned when attempting to register an actor with a reserved name.
	ErrReservedName = errors.New("actor name is reserved")

	// ErrInvalidMaxTries is returned when a retrier is configured with a non-positive number of tries.
	ErrInvalidMaxTries = errors.New("invalid max tries, must be greater than zero")

	// ErrDeliveryFailed is returned when a message could not be handed to the actor's execution loop.
	ErrDeliveryFailed = errors.New("message delivery failed")

	// ErrUnknownControlCode is returned when a control message carries a code the runtime does not know.
	ErrUnknownControlCode = errors.New("unknown control code")

	// ErrUndefinedActor is returned when an actor reference is undefined or unknown in the system.
	ErrUndefinedActor = errors.New("actor is not defined")

	// ErrInvalidMessage indicates that a message is structurally invalid.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrActorNotFound indicates that the specified actor could not be found in the system.
	ErrActorNotFound = errors.New("actor not found")

	// ErrTypeMismatch is returned when a typed lookup finds an actor handling a different message type.
	ErrTypeMismatch = errors.New("actor message type mismatch")

	// ErrSchedulerNotStarted is returned when the scheduler cannot accept jobs.
	ErrSchedulerNotStarted = errors.New("scheduler has not started")

	// ErrInvalidThroughput is returned when the per-drain message budget is not positive.
	ErrInvalidThroughput = errors.New("invalid throughput, must be greater than zero")

	// ErrInvalidRetryBackoff is returned when the delivery retry delays are negative or inverted.
	ErrInvalidRetryBackoff = errors.New("invalid retry backoff")
)

// NewErrInitFailure returns an error wrapping ErrInitFailure with the original cause.
func NewErrInitFailure(err error) error {
	return fmt.Errorf("%w: %w", ErrInitFailure, err)
}

// NewErrActorAlreadyExists returns an error wrapping ErrActorAlreadyExists for the given actor name.
func NewErrActorAlreadyExists(name string) error {
	return fmt.Errorf("%w: %s", ErrActorAlreadyExists, name)
}

// NewErrActorNotFound returns an error wrapping ErrActorNotFound for the given actor name.
func NewErrActorNotFound(name string) error {
	return fmt.Errorf("%w: %s", ErrActorNotFound, name)
}

// NewErrInvalidName returns an error wrapping ErrInvalidName with the offending value.
func NewErrInvalidName(value string) error {
	return fmt.Errorf("%w: %q", ErrInvalidName, value)
}

// NewErrDeliveryFailed returns an error wrapping ErrDeliveryFailed with the original cause.
func NewErrDeliveryFailed(err error) error {
	return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
}

// PanicError defines the panic error
// wrapping the underlying error
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError
func NewPanicError(err error) *PanicError {
	return &PanicError{err}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

// Unwrap returns the recovered cause.
func (e *PanicError) Unwrap() error {
	return e.err
}

// FromRecovered converts a value returned by recover() into a PanicError.
func FromRecovered(r any) *PanicError {
	switch v := r.(type) {
	case *PanicError:
		return v
	case error:
		return NewPanicError(v)
	default:
		return NewPanicError(fmt.Errorf("%v", r))
	}
}
