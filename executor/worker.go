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

package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	gods "github.com/Workiva/go-datastructures/queue"
	"github.com/google/uuid"

	"github.com/tochemey/loopactor/log"
)

// workQueue abstracts the Workiva unbounded queue and ring buffer
type workQueue interface {
	// offer enqueues without blocking and reports whether there was room
	offer(work func()) (bool, error)
	// put enqueues and blocks while a bounded queue is full
	put(work func()) error
	// take blocks until work is available or the queue is disposed
	take() (func(), error)
	dispose()
	len() int
}

type unboundedQueue struct {
	underlying *gods.Queue
}

func (q *unboundedQueue) offer(work func()) (bool, error) {
	if err := q.underlying.Put(work); err != nil {
		return false, err
	}
	return true, nil
}

func (q *unboundedQueue) put(work func()) error {
	return q.underlying.Put(work)
}

func (q *unboundedQueue) take() (func(), error) {
	items, err := q.underlying.Get(1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, gods.ErrDisposed
	}
	work, _ := items[0].(func())
	return work, nil
}

func (q *unboundedQueue) dispose() {
	q.underlying.Dispose()
}

func (q *unboundedQueue) len() int {
	return int(q.underlying.Len())
}

type boundedQueue struct {
	underlying *gods.RingBuffer
}

func (q *boundedQueue) offer(work func()) (bool, error) {
	return q.underlying.Offer(work)
}

func (q *boundedQueue) put(work func()) error {
	return q.underlying.Put(work)
}

func (q *boundedQueue) take() (func(), error) {
	item, err := q.underlying.Get()
	if err != nil {
		return nil, err
	}
	work, _ := item.(func())
	return work, nil
}

func (q *boundedQueue) dispose() {
	q.underlying.Dispose()
}

func (q *boundedQueue) len() int {
	return int(q.underlying.Len())
}

// minCapacity is the smallest ring the Workiva buffer reports full on
const minCapacity = 2

func newWorkQueue(capacity int) workQueue {
	if capacity > 0 {
		return &boundedQueue{underlying: gods.NewRingBuffer(uint64(max(capacity, minCapacity)))}
	}
	return &unboundedQueue{underlying: gods.New(16)}
}

// worker drains a work queue on its own goroutine.
// A nil work item is the stop sentinel: it is queued after every accepted item.
type worker struct {
	id     string
	queue  workQueue
	logger log.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
	onExit func(*worker)
}

func newWorker(cfg *config, onExit func(*worker)) *worker {
	w := &worker{
		id:     uuid.NewString(),
		queue:  newWorkQueue(cfg.capacity),
		logger: cfg.logger,
		done:   make(chan struct{}),
		onExit: onExit,
	}
	go w.run()
	return w
}

func (w *worker) run() {
	defer func() {
		if w.onExit != nil {
			w.onExit(w)
		}
		close(w.done)
	}()

	for {
		work, err := w.queue.take()
		if err != nil || work == nil {
			w.queue.dispose()
			return
		}
		w.execute(work)
	}
}

func (w *worker) execute(work func()) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Errorf("worker=(%s) recovered from panic: %v", w.id, r)
		}
	}()
	work()
}

func (w *worker) post(work func()) error {
	if work == nil {
		return errors.New("nil work")
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return ErrLoopStopped
	}

	ok, err := w.queue.offer(work)
	switch {
	case err != nil:
		return fmt.Errorf("%w: %w", ErrLoopStopped, err)
	case !ok:
		return ErrLoopSaturated
	default:
		return nil
	}
}

// close refuses further posts and queues the stop sentinel.
// Work accepted before close still runs.
func (w *worker) close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()

	// put blocks on a full ring until the goroutine makes room
	go func() {
		_ = w.queue.put(nil)
	}()
}

// wait blocks until the worker exits or ctx is done. On ctx expiry pending
// work is dropped.
func (w *worker) wait(ctx context.Context) error {
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.queue.dispose()
		return ctx.Err()
	}
}

func (w *worker) pending() int {
	return w.queue.len()
}
