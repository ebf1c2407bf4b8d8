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

// Package executor provides the execution substrate actors run on.
//
// An Executor hands every submitted Task a Loop: a FIFO queue of work drained
// by a single goroutine. The Task keeps the Loop until its Submission is
// stopped, after which the Loop refuses new work. Work already queued still
// runs; tasks are expected to notice they were detached and do nothing.
package executor

import "context"

// Loop runs posted work items one at a time, in posting order.
type Loop interface {
	// Post enqueues work. It returns ErrLoopStopped once the loop no longer
	// accepts work and ErrLoopSaturated when a bounded loop is full.
	Post(work func()) error
	// Worker identifies the goroutine draining the loop. Two loops sharing
	// a worker run their work on the same goroutine.
	Worker() string
}

// Task is a unit of work bound to a Loop for as long as it is executed.
type Task interface {
	// Attach is called once when the task receives its loop.
	// Returning false aborts the execution.
	Attach(loop Loop) bool
	// Detach is called once when the task loses its loop.
	Detach() bool
}

// Keyed is implemented by tasks that want a stable placement on pooled
// executors. Tasks with the same key always land on the same worker.
type Keyed interface {
	Key() string
}

// Submission is the handle of an executed task.
type Submission interface {
	// Stop detaches the task and closes its loop. It returns the result
	// of the task Detach and is idempotent.
	Stop() bool
}

// Executor runs tasks.
type Executor interface {
	// Execute attaches the task to a loop.
	Execute(task Task) (Submission, error)
	// Shutdown refuses new tasks, stops every live submission and waits
	// for the workers to finish their queued work or for ctx to be done.
	Shutdown(ctx context.Context) error
}
