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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/loopactor/errors"
)

func TestRetrier(t *testing.T) {
	ctx := context.Background()

	t.Run("With invalid max tries", func(t *testing.T) {
		r, err := New(0)
		require.ErrorIs(t, err, gerrors.ErrInvalidMaxTries)
		require.Nil(t, r)

		_, err = New(-3)
		require.ErrorIs(t, err, gerrors.ErrInvalidMaxTries)
	})
	t.Run("With first attempt success", func(t *testing.T) {
		retries := 0
		r, err := New(3, WithOnRetry(func(int) { retries++ }))
		require.NoError(t, err)
		require.Equal(t, 3, r.MaxTries())

		calls := 0
		require.NoError(t, r.Run(ctx, func(context.Context) error {
			calls++
			return nil
		}))
		assert.Equal(t, 1, calls)
		assert.Zero(t, retries)
	})
	t.Run("With eventual success", func(t *testing.T) {
		var triesLeft []int
		exhausted := false
		r, err := New(5,
			WithBackoff(time.Microsecond, time.Millisecond),
			WithOnRetry(func(left int) { triesLeft = append(triesLeft, left) }),
			WithOnNoMoreRetries(func() { exhausted = true }))
		require.NoError(t, err)

		calls := 0
		err = r.Run(ctx, func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []int{4, 3}, triesLeft)
		assert.False(t, exhausted)
	})
	t.Run("With attempts exhausted", func(t *testing.T) {
		var triesLeft []int
		exhausted := 0
		r, err := New(3,
			WithBackoff(time.Microsecond, time.Millisecond),
			WithOnRetry(func(left int) { triesLeft = append(triesLeft, left) }),
			WithOnNoMoreRetries(func() { exhausted++ }))
		require.NoError(t, err)

		failure := errors.New("always")
		calls := 0
		err = r.Run(ctx, func(context.Context) error {
			calls++
			return failure
		})
		require.ErrorIs(t, err, failure)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []int{2, 1}, triesLeft)
		assert.Equal(t, 1, exhausted)
	})
	t.Run("With permanent error", func(t *testing.T) {
		exhausted := false
		r, err := New(10,
			WithBackoff(time.Microsecond, time.Millisecond),
			WithOnNoMoreRetries(func() { exhausted = true }))
		require.NoError(t, err)

		failure := errors.New("fatal")
		calls := 0
		err = r.Run(ctx, func(context.Context) error {
			calls++
			return Permanent(failure)
		})
		require.ErrorIs(t, err, failure)
		assert.Equal(t, 1, calls)
		assert.False(t, exhausted)
	})
	t.Run("Permanent of nil is nil", func(t *testing.T) {
		assert.NoError(t, Permanent(nil))
	})
}
