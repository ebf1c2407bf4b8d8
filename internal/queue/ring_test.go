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

package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRing(t *testing.T) {
	t.Run("With FIFO order across growth", func(t *testing.T) {
		ring := NewRing[int]()
		require.True(t, ring.IsEmpty())
		for i := range 100 {
			ring.Push(i)
		}
		require.EqualValues(t, 100, ring.Len())

		head, ok := ring.Peek()
		require.True(t, ok)
		require.Equal(t, 0, head)

		for i := range 100 {
			v, ok := ring.Pop()
			require.True(t, ok)
			require.Equal(t, i, v)
		}
		_, ok = ring.Pop()
		require.False(t, ok)
		_, ok = ring.Peek()
		require.False(t, ok)
	})
	t.Run("With wrap around", func(t *testing.T) {
		ring := NewRing[int]()
		next := 0
		expected := 0
		for range 10 {
			for range 12 {
				ring.Push(next)
				next++
			}
			for range 10 {
				v, ok := ring.Pop()
				require.True(t, ok)
				require.Equal(t, expected, v)
				expected++
			}
		}
		for !ring.IsEmpty() {
			v, _ := ring.Pop()
			require.Equal(t, expected, v)
			expected++
		}
		assert.Equal(t, next, expected)
	})
	t.Run("With drain", func(t *testing.T) {
		ring := NewRing[string]()
		ring.Push("a")
		ring.Push("b")
		ring.Push("c")
		require.Equal(t, []string{"a", "b", "c"}, ring.Drain())
		require.Zero(t, ring.Len())
		require.Empty(t, ring.Drain())

		ring.Push("d")
		v, ok := ring.Pop()
		require.True(t, ok)
		require.Equal(t, "d", v)
	})
}
