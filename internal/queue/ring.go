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

// minRingLen is the smallest capacity that a ring may have.
// Must be power of 2 for bitwise modulus: x % n == x & (n - 1).
const minRingLen = 16

// Ring is a FIFO ring buffer. It is not safe for concurrent use;
// callers guard it with their own lock.
// reference: https://github.com/eapache/queue
type Ring[T any] struct {
	nodes []T
	head  int
	tail  int
	count int
}

// NewRing creates an empty Ring
func NewRing[T any]() *Ring[T] {
	return &Ring[T]{nodes: make([]T, minRingLen)}
}

// Push adds an item to the back of the ring
func (r *Ring[T]) Push(item T) {
	if r.count == len(r.nodes) {
		r.resize()
	}
	r.nodes[r.tail] = item
	// bitwise modulus
	r.tail = (r.tail + 1) & (len(r.nodes) - 1)
	r.count++
}

// Pop removes the item from the front of the ring.
// It returns false when the ring is empty.
func (r *Ring[T]) Pop() (T, bool) {
	var zero T
	if r.count == 0 {
		return zero, false
	}
	item := r.nodes[r.head]
	r.nodes[r.head] = zero
	r.head = (r.head + 1) & (len(r.nodes) - 1)
	r.count--
	// Resize down if buffer 1/4 full.
	if len(r.nodes) > minRingLen && (r.count<<2) == len(r.nodes) {
		r.resize()
	}
	return item, true
}

// Peek returns the item at the front of the ring without removing it
func (r *Ring[T]) Peek() (T, bool) {
	if r.count == 0 {
		var zero T
		return zero, false
	}
	return r.nodes[r.head], true
}

// Len returns the number of items in the ring
func (r *Ring[T]) Len() int {
	return r.count
}

// IsEmpty returns true when the ring is empty
func (r *Ring[T]) IsEmpty() bool {
	return r.count == 0
}

// Drain removes and returns every item in FIFO order
func (r *Ring[T]) Drain() []T {
	items := make([]T, 0, r.count)
	for r.count > 0 {
		item, _ := r.Pop()
		items = append(items, item)
	}
	r.nodes = make([]T, minRingLen)
	r.head, r.tail = 0, 0
	return items
}

// resize the ring to fit exactly twice its current contents.
// The result may be smaller when shrinking.
func (r *Ring[T]) resize() {
	nodes := make([]T, max(r.count<<1, minRingLen))
	if r.tail > r.head {
		copy(nodes, r.nodes[r.head:r.tail])
	} else if r.count > 0 {
		n := copy(nodes, r.nodes[r.head:])
		copy(nodes[n:], r.nodes[:r.tail])
	}
	r.tail = r.count
	r.head = 0
	r.nodes = nodes
}
