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

package actor

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/atomic"

	"github.com/tochemey/loopactor/executor"
	"github.com/tochemey/loopactor/internal/queue"
	"github.com/tochemey/loopactor/internal/retry"
)

const (
	idle int32 = iota
	busy
)

// dispatcher is the execution binding of a reference. It is the executor
// Task of the reference for its whole life: attaching binds it to a loop,
// detaching unbinds it, and its backlog survives in between.
//
// The drain token guarantees a single goroutine runs the actor at any time,
// whether the messages are drained on the loop or delivered inline by a
// sender running on the same worker.
type dispatcher[M any] struct {
	ref        *Reference[M]
	throughput int
	retrier    *retry.Retrier
	token      *atomic.Int32
	failed     *atomic.Bool

	mu         sync.Mutex
	loop       executor.Loop
	submission executor.Submission
	backlog    *queue.Ring[Message[M]]
	closed     bool
	immediate  bool
	terminated bool
}

var (
	_ executor.Task  = (*dispatcher[any])(nil)
	_ executor.Keyed = (*dispatcher[any])(nil)
	_ Channel[any]   = (*dispatcher[any])(nil)
)

func newDispatcher[M any](ref *Reference[M], throughput int, retrier *retry.Retrier) *dispatcher[M] {
	return &dispatcher[M]{
		ref:        ref,
		throughput: throughput,
		retrier:    retrier,
		token:      atomic.NewInt32(idle),
		failed:     atomic.NewBool(false),
		backlog:    queue.NewRing[Message[M]](),
	}
}

// Key places every incarnation of the actor on the same pooled worker
func (x *dispatcher[M]) Key() string {
	return x.ref.name.String()
}

// Attach binds the dispatcher to loop and schedules the pending backlog
func (x *dispatcher[M]) Attach(loop executor.Loop) bool {
	x.mu.Lock()
	if x.terminated {
		x.mu.Unlock()
		return false
	}
	x.loop = loop
	x.mu.Unlock()

	x.kick()
	return true
}

// Detach unbinds the dispatcher. Drains already queued on the old loop
// notice it and deliver nothing.
func (x *dispatcher[M]) Detach() bool {
	x.mu.Lock()
	x.loop = nil
	x.mu.Unlock()
	return true
}

func (x *dispatcher[M]) setSubmission(submission executor.Submission) {
	x.mu.Lock()
	x.submission = submission
	x.mu.Unlock()
}

func (x *dispatcher[M]) takeSubmission() executor.Submission {
	x.mu.Lock()
	defer x.mu.Unlock()
	submission := x.submission
	x.submission = nil
	return submission
}

// Send delivers message inline when possible, otherwise queues it
func (x *dispatcher[M]) Send(ctx context.Context, message Message[M]) DeliveryResult {
	if result := x.direct(ctx, message); result != DeliveryFailureCanRetry {
		return result
	}
	return x.enqueue(message)
}

// direct delivers message on the calling goroutine. It only succeeds when
// the caller runs on the worker of the actor loop, the actor is idle and
// nothing is queued ahead of message.
func (x *dispatcher[M]) direct(ctx context.Context, message Message[M]) DeliveryResult {
	caller := loopFrom(ctx)
	if caller == nil {
		return DeliveryFailureCanRetry
	}

	x.mu.Lock()
	switch {
	case x.closed:
		x.mu.Unlock()
		return DeliveryFailureNoRetry
	case x.loop == nil,
		x.loop.Worker() != caller.Worker(),
		!x.backlog.IsEmpty(),
		!x.token.CompareAndSwap(idle, busy):
		x.mu.Unlock()
		return DeliveryFailureCanRetry
	}
	loop := x.loop
	x.mu.Unlock()

	x.handle(withLoop(x.ref.baseCtx, loop), message)
	x.release()
	return DeliverySuccess
}

// enqueue appends message to the backlog and schedules a drain
func (x *dispatcher[M]) enqueue(message Message[M]) DeliveryResult {
	x.mu.Lock()
	if x.closed {
		x.mu.Unlock()
		return DeliveryFailureNoRetry
	}
	x.backlog.Push(message)
	x.mu.Unlock()

	if err := x.kick(); err != nil {
		return DeliveryFailureNoRetry
	}
	return DeliverySuccess
}

// Stop appends the terminate marker. Immediate stops drop the backlog first.
func (x *dispatcher[M]) Stop(immediate bool) bool {
	x.mu.Lock()
	if x.terminated {
		x.mu.Unlock()
		return true
	}

	var dropped []Message[M]
	if immediate {
		dropped = x.backlog.Drain()
		x.backlog.Push(ControlMessage[M](terminateCode))
		x.immediate = true
	} else if !x.closed {
		x.backlog.Push(ControlMessage[M](terminateCode))
	}
	x.closed = true
	x.mu.Unlock()

	x.ref.deadLetters(dropped)
	_ = x.kick()
	return true
}

// kick schedules a drain on the attached loop when there is a backlog and
// the token is free. A closed dispatcher without loop terminates inline.
func (x *dispatcher[M]) kick() error {
	x.mu.Lock()
	if x.terminated || x.backlog.IsEmpty() || x.token.Load() == busy {
		x.mu.Unlock()
		return nil
	}

	loop := x.loop
	if loop == nil {
		closed := x.closed
		x.mu.Unlock()
		if closed {
			x.terminateDetached()
		}
		return nil
	}
	x.mu.Unlock()

	err := x.retrier.Run(x.ref.baseCtx, func(context.Context) error {
		err := loop.Post(func() { x.drain(loop) })
		switch {
		case err == nil:
			return nil
		case errors.Is(err, executor.ErrLoopSaturated):
			return err
		default:
			return retry.Permanent(err)
		}
	})

	if err == nil {
		return nil
	}

	// the loop was swapped meanwhile: retry against the current binding
	x.mu.Lock()
	detached := x.loop != loop
	x.mu.Unlock()
	if detached {
		return x.kick()
	}

	x.failStop(loop, err)
	return err
}

// drain runs on loop. It handles at most throughput messages then yields
// the worker.
func (x *dispatcher[M]) drain(loop executor.Loop) {
	if !x.token.CompareAndSwap(idle, busy) {
		return
	}

	ctx := withLoop(x.ref.baseCtx, loop)
	for range x.throughput {
		x.mu.Lock()
		if x.loop != loop {
			x.mu.Unlock()
			break
		}
		message, ok := x.backlog.Pop()
		x.mu.Unlock()

		if !ok {
			break
		}

		if message.isTerminate() {
			x.terminate(true)
			return
		}

		x.handle(ctx, message)
	}

	x.release()
}

// release frees the token and schedules the remaining backlog
func (x *dispatcher[M]) release() {
	x.token.Store(idle)
	_ = x.kick()
}

func (x *dispatcher[M]) handle(ctx context.Context, message Message[M]) {
	if message.IsControl() {
		x.ref.control(message.Code())
		return
	}
	x.ref.receive(ctx, message.Payload())
}

// terminateDetached terminates a closed dispatcher that lost its loop,
// dropping whatever is left ahead of the marker.
func (x *dispatcher[M]) terminateDetached() {
	if !x.token.CompareAndSwap(idle, busy) {
		return
	}
	x.terminate(true)
}

// terminate must be called with the token held. The token is never released.
func (x *dispatcher[M]) terminate(postStop bool) {
	x.mu.Lock()
	if x.terminated {
		x.mu.Unlock()
		return
	}
	x.terminated = true
	x.loop = nil
	leftovers := x.backlog.Drain()
	immediate := x.immediate
	x.mu.Unlock()

	dropped := leftovers[:0]
	for _, message := range leftovers {
		if !message.isTerminate() {
			dropped = append(dropped, message)
		}
	}
	x.ref.deadLetters(dropped)
	x.ref.finish(immediate, postStop)
}

// abandon terminates a dispatcher that never ran the actor
func (x *dispatcher[M]) abandon() {
	x.mu.Lock()
	x.closed = true
	x.immediate = true
	x.mu.Unlock()

	if x.token.CompareAndSwap(idle, busy) {
		x.terminate(false)
	}
}

// failStop handles a loop that refused work for good: the dispatcher drops
// the loop and the reference is stopped immediately.
func (x *dispatcher[M]) failStop(loop executor.Loop, err error) {
	x.failed.Store(true)

	x.mu.Lock()
	if x.loop == loop {
		x.loop = nil
	}
	x.mu.Unlock()

	x.ref.logger.Errorf("actor=(%s) loop refused work: %v", x.ref.name, err)

	// the caller may hold the mailbox lock
	go func() {
		x.ref.Stop(true)
		x.Stop(true)
	}()
}

func (x *dispatcher[M]) hasFailed() bool {
	return x.failed.Load()
}

func (x *dispatcher[M]) isTerminated() bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.terminated
}
