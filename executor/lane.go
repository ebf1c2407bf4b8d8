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
	"sync"

	"go.uber.org/atomic"
)

// lane is the Loop and Submission handed to a single task.
// It posts to a worker that may be shared with other lanes.
type lane struct {
	worker   *worker
	task     Task
	stopped  *atomic.Bool
	once     sync.Once
	detached bool
	onStop   func(*lane)
}

var (
	_ Loop       = (*lane)(nil)
	_ Submission = (*lane)(nil)
)

func newLane(worker *worker, task Task, onStop func(*lane)) *lane {
	return &lane{
		worker:  worker,
		task:    task,
		stopped: atomic.NewBool(false),
		onStop:  onStop,
	}
}

// Post enqueues work on the underlying worker
func (l *lane) Post(work func()) error {
	if l.stopped.Load() {
		return ErrLoopStopped
	}
	return l.worker.post(work)
}

// Worker returns the id of the underlying worker
func (l *lane) Worker() string {
	return l.worker.id
}

// Stop refuses further posts and detaches the task
func (l *lane) Stop() bool {
	l.once.Do(func() {
		// detach first so the task never sees its own loop refuse work
		l.detached = l.task.Detach()
		l.stopped.Store(true)
		if l.onStop != nil {
			l.onStop(l)
		}
	})
	return l.detached
}
