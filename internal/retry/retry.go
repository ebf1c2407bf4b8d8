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

package retry

import (
	"context"
	"errors"
	"time"

	fretry "github.com/flowchartsman/retry"

	gerrors "github.com/tochemey/loopactor/errors"
)

const (
	// DefaultInitialDelay is the wait before the second attempt
	DefaultInitialDelay = time.Millisecond
	// DefaultMaxDelay caps the exponential wait between attempts
	DefaultMaxDelay = 10 * time.Millisecond
)

// Option configures a Retrier
type Option func(*Retrier)

// WithOnRetry sets a hook invoked after every failed attempt that will be
// followed by another one. triesLeft is the number of attempts remaining.
func WithOnRetry(fn func(triesLeft int)) Option {
	return func(r *Retrier) {
		r.onRetry = fn
	}
}

// WithOnNoMoreRetries sets a hook invoked once when every attempt failed.
func WithOnNoMoreRetries(fn func()) Option {
	return func(r *Retrier) {
		r.onNoMoreRetries = fn
	}
}

// WithBackoff sets the wait between attempts.
func WithBackoff(initial, maxDelay time.Duration) Option {
	return func(r *Retrier) {
		r.initialDelay = initial
		r.maxDelay = maxDelay
	}
}

// Retrier runs a fallible action a bounded number of times.
// A Retrier holds no per-run state and is safe for concurrent use.
type Retrier struct {
	maxTries        int
	initialDelay    time.Duration
	maxDelay        time.Duration
	onRetry         func(triesLeft int)
	onNoMoreRetries func()
}

// New creates a Retrier that makes at most maxTries attempts.
func New(maxTries int, opts ...Option) (*Retrier, error) {
	if maxTries <= 0 {
		return nil, gerrors.ErrInvalidMaxTries
	}

	r := &Retrier{
		maxTries:     maxTries,
		initialDelay: DefaultInitialDelay,
		maxDelay:     DefaultMaxDelay,
	}

	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// MaxTries returns the attempt bound
func (r *Retrier) MaxTries() int {
	return r.maxTries
}

// Run executes action until it succeeds, returns an error wrapped by Permanent,
// the attempts are exhausted or ctx is done. It returns nil on success, the
// last action error once attempts are exhausted or a permanent error occurs,
// and the context error when ctx ends the run early.
func (r *Retrier) Run(ctx context.Context, action func(ctx context.Context) error) error {
	var (
		attempts int
		finalErr error
	)

	retrier := fretry.NewRetrier(r.maxTries, r.initialDelay, r.maxDelay)
	err := retrier.RunContext(ctx, func(ctx context.Context) error {
		attempts++
		err := action(ctx)
		if err == nil {
			return nil
		}

		var permanent *permanentError
		if errors.As(err, &permanent) {
			finalErr = permanent.err
			return fretry.Stop(finalErr)
		}

		if attempts >= r.maxTries {
			finalErr = err
			if r.onNoMoreRetries != nil {
				r.onNoMoreRetries()
			}
			return fretry.Stop(err)
		}

		if r.onRetry != nil {
			r.onRetry(r.maxTries - attempts)
		}
		return err
	})

	switch {
	case err == nil:
		return nil
	case finalErr != nil:
		return finalErr
	default:
		return err
	}
}

// Permanent wraps err so that Run stops retrying and returns err.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string {
	return e.err.Error()
}

func (e *permanentError) Unwrap() error {
	return e.err
}
