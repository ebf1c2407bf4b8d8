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
	"sync"

	"github.com/zeebo/xxh3"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

// Pool runs tasks on a fixed set of workers. Keyed tasks are placed by the
// hash of their key, the others round robin. Tasks sharing a worker never
// run concurrently.
type Pool struct {
	config  *config
	workers []*worker
	next    *atomic.Uint64

	mu       sync.Mutex
	shutdown bool
	lanes    map[*lane]struct{}
}

var _ Executor = (*Pool)(nil)

// NewPool creates a Pool with size workers
func NewPool(size int, opts ...Option) (*Pool, error) {
	if size <= 0 {
		return nil, ErrInvalidWorkers
	}

	cfg := newConfig(opts...)
	workers := make([]*worker, size)
	for i := range workers {
		workers[i] = newWorker(cfg, nil)
	}

	return &Pool{
		config:  cfg,
		workers: workers,
		next:    atomic.NewUint64(0),
		lanes:   make(map[*lane]struct{}),
	}, nil
}

// Size returns the number of workers
func (x *Pool) Size() int {
	return len(x.workers)
}

// Execute attaches the task to one of the workers
func (x *Pool) Execute(task Task) (Submission, error) {
	x.mu.Lock()
	if x.shutdown {
		x.mu.Unlock()
		return nil, ErrShutdown
	}

	l := newLane(x.placement(task), task, x.forgetLane)
	x.lanes[l] = struct{}{}
	x.mu.Unlock()

	if !task.Attach(l) {
		l.stopped.Store(true)
		x.forgetLane(l)
		return nil, ErrAttachFailed
	}
	return l, nil
}

// Shutdown stops every live submission, lets the workers drain their queues
// and waits for them to exit
func (x *Pool) Shutdown(ctx context.Context) error {
	x.mu.Lock()
	if x.shutdown {
		x.mu.Unlock()
		return nil
	}
	x.shutdown = true
	lanes := make([]*lane, 0, len(x.lanes))
	for l := range x.lanes {
		lanes = append(lanes, l)
	}
	x.mu.Unlock()

	for _, l := range lanes {
		l.Stop()
	}

	eg, ctx := errgroup.WithContext(ctx)
	for _, w := range x.workers {
		w.close()
		eg.Go(func() error {
			return w.wait(ctx)
		})
	}
	return eg.Wait()
}

func (x *Pool) placement(task Task) *worker {
	size := uint64(len(x.workers))
	if keyed, ok := task.(Keyed); ok {
		return x.workers[xxh3.HashString(keyed.Key())%size]
	}
	return x.workers[(x.next.Inc()-1)%size]
}

func (x *Pool) forgetLane(l *lane) {
	x.mu.Lock()
	delete(x.lanes, l)
	x.mu.Unlock()
}
