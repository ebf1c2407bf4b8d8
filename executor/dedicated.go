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

	"golang.org/x/sync/errgroup"
)

// Dedicated runs every task on a goroutine of its own.
// The goroutine exits once the task submission is stopped and the work
// already queued has run.
type Dedicated struct {
	config *config

	mu       sync.Mutex
	shutdown bool
	lanes    map[*lane]struct{}
	workers  map[*worker]struct{}
}

var _ Executor = (*Dedicated)(nil)

// NewDedicated creates a Dedicated executor
func NewDedicated(opts ...Option) *Dedicated {
	return &Dedicated{
		config:  newConfig(opts...),
		lanes:   make(map[*lane]struct{}),
		workers: make(map[*worker]struct{}),
	}
}

// Execute starts a goroutine for the task and attaches the task to it
func (x *Dedicated) Execute(task Task) (Submission, error) {
	x.mu.Lock()
	if x.shutdown {
		x.mu.Unlock()
		return nil, ErrShutdown
	}

	w := newWorker(x.config, x.forgetWorker)
	l := newLane(w, task, func(l *lane) {
		x.forgetLane(l)
		l.worker.close()
	})
	x.workers[w] = struct{}{}
	x.lanes[l] = struct{}{}
	x.mu.Unlock()

	if !task.Attach(l) {
		l.stopped.Store(true)
		x.forgetLane(l)
		w.close()
		return nil, ErrAttachFailed
	}
	return l, nil
}

// Shutdown stops every live submission and waits for the goroutines to exit
func (x *Dedicated) Shutdown(ctx context.Context) error {
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
	workers := make([]*worker, 0, len(x.workers))
	for w := range x.workers {
		workers = append(workers, w)
	}
	x.mu.Unlock()

	for _, l := range lanes {
		l.Stop()
	}

	eg, ctx := errgroup.WithContext(ctx)
	for _, w := range workers {
		w.close()
		eg.Go(func() error {
			return w.wait(ctx)
		})
	}
	return eg.Wait()
}

// Live returns the number of goroutines still running
func (x *Dedicated) Live() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.workers)
}

func (x *Dedicated) forgetLane(l *lane) {
	x.mu.Lock()
	delete(x.lanes, l)
	x.mu.Unlock()
}

func (x *Dedicated) forgetWorker(w *worker) {
	x.mu.Lock()
	delete(x.workers, w)
	x.mu.Unlock()
}
