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

	gerrors "github.com/tochemey/loopactor/errors"
	"github.com/tochemey/loopactor/executor"
	"github.com/tochemey/loopactor/internal/retry"
	"github.com/tochemey/loopactor/log"
)

// Ref is the untyped view of a Reference used by the registry.
type Ref interface {
	// Name returns the actor name
	Name() Name
	// State returns the current lifecycle state
	State() State
	// Start starts an Unstarted reference or resumes a Paused one on exec
	Start(ctx context.Context, exec executor.Executor) error
	// Pause detaches the actor from its loop. Sends are buffered meanwhile.
	Pause() error
	// Stop stops the actor. See Reference.Stop.
	Stop(immediate bool) bool
	// Done is closed once the actor is fully terminated
	Done() <-chan struct{}
	// IsAlive reports whether the actor accepts messages
	IsAlive() bool
}

// Reference is the handle of a registered actor. It is safe for concurrent use.
//
// Messages sent to a reference go through its Mailbox. While the reference is
// started the mailbox forwards them to the dispatcher that runs the actor on an
// executor loop; otherwise they are buffered until the next start.
type Reference[M any] struct {
	name       Name
	system     *System
	actor      Actor[M]
	logger     log.Logger
	baseCtx    context.Context
	scope      *Context
	mailbox    *Mailbox[M]
	dispatcher *dispatcher[M]
	done       chan struct{}

	// mu guards the lifecycle fields below. It is acquired before the mailbox
	// and dispatcher locks and never held while actor code runs.
	mu            sync.Mutex
	state         State
	executor      executor.Executor
	pendingPause  bool
	stopRequested bool
	stopImmediate bool
	stopResult    bool
}

var (
	_ Ref          = (*Reference[any])(nil)
	_ Channel[any] = (*Reference[any])(nil)
)

func newReference[M any](ctx context.Context, system *System, name Name, actor Actor[M], cfg *registerConfig) (*Reference[M], error) {
	logger := cfg.logger
	if logger == nil {
		logger = system.logger
	}

	ref := &Reference[M]{
		name:    name,
		system:  system,
		actor:   actor,
		logger:  logger,
		baseCtx: context.WithoutCancel(ctx),
		done:    make(chan struct{}),
		state:   Unstarted,
	}

	retrier, err := retry.New(system.deliveryRetries,
		retry.WithBackoff(system.retryInitialDelay, system.retryMaxDelay),
		retry.WithOnRetry(func(triesLeft int) {
			system.recordRetry(ref.baseCtx)
			ref.logger.Debugf("actor=(%s) loop saturated, %d tries left", name, triesLeft)
		}),
		retry.WithOnNoMoreRetries(func() {
			ref.logger.Warnf("actor=(%s) loop still saturated after %d tries", name, system.deliveryRetries)
		}))
	if err != nil {
		return nil, err
	}

	ref.scope = newContext(ref.baseCtx, system, name)
	ref.mailbox = NewMailbox[M](ref.onDetachedControl)
	ref.dispatcher = newDispatcher(ref, system.throughput, retrier)
	return ref, nil
}

// Name returns the actor name
func (x *Reference[M]) Name() Name {
	return x.name
}

// State returns the current lifecycle state
func (x *Reference[M]) State() State {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.state
}

// IsAlive reports whether the reference accepts messages
func (x *Reference[M]) IsAlive() bool {
	return x.State() != Stopped
}

// Done is closed once the actor is terminated: PostStop ran, children were
// asked to stop and the name was released.
func (x *Reference[M]) Done() <-chan struct{} {
	return x.done
}

// Scope returns the registration scope of the actor
func (x *Reference[M]) Scope() *Context {
	return x.scope
}

// Logger returns the actor logger
func (x *Reference[M]) Logger() log.Logger {
	return x.logger
}

// Tell sends message to the actor. It returns ErrDead once the actor is stopped.
//
// When ctx comes from a ReceiveContext running on the worker of this actor,
// the actor is idle and nothing is queued, the message is handled inline
// before Tell returns. Otherwise it is queued for asynchronous handling.
func (x *Reference[M]) Tell(ctx context.Context, message M) error {
	if !x.IsAlive() {
		return gerrors.ErrDead
	}

	switch x.mailbox.Send(ctx, UserMessage(message)) {
	case DeliverySuccess:
		return nil
	default:
		if x.dispatcher.hasFailed() {
			return gerrors.NewErrDeliveryFailed(executor.ErrLoopStopped)
		}
		if !x.IsAlive() {
			return gerrors.ErrDead
		}
		return gerrors.ErrDeliveryFailed
	}
}

// Send implements Channel. Control messages with an unknown code are refused.
func (x *Reference[M]) Send(ctx context.Context, message Message[M]) DeliveryResult {
	if message.IsControl() && !message.Code().Valid() {
		x.logger.Warnf("actor=(%s) %v: %s", x.name, gerrors.ErrUnknownControlCode, message.Code())
		return DeliveryFailureNoRetry
	}

	if !x.IsAlive() {
		return DeliveryFailureNoRetry
	}
	return x.mailbox.Send(ctx, message)
}

// Start runs PreStart on the calling goroutine and attaches the actor to exec.
// A Paused reference is re-attached without PreStart.
//
// A failing PreStart stops the reference and Start returns ErrInitFailure.
// When a pause was requested during PreStart, or the owning system is
// paused, the reference lands in Paused.
func (x *Reference[M]) Start(ctx context.Context, exec executor.Executor) error {
	x.mu.Lock()
	switch x.state {
	case Stopped:
		x.mu.Unlock()
		return gerrors.ErrDead
	case Started:
		x.mu.Unlock()
		return gerrors.ErrAlreadyStarted
	case Starting:
		x.pendingPause = false
		x.mu.Unlock()
		return nil
	case Paused:
		defer x.mu.Unlock()
		x.executor = exec
		if err := x.attach(); err != nil {
			return err
		}
		x.state = Started
		x.mailbox.Connect(x.dispatcher)
		x.system.publish(TopicLifecycle, &ActorResumed{Name: x.name})
		return nil
	}

	x.state = Starting
	x.pendingPause = false
	x.executor = exec
	x.mu.Unlock()

	if err := x.preStart(ctx); err != nil {
		x.logger.Errorf("actor=(%s) failed to start: %v", x.name, err)
		x.mu.Lock()
		x.state = Stopped
		if !x.stopRequested {
			x.stopRequested = true
			x.stopResult = true
		}
		x.mu.Unlock()
		x.abandon()
		return gerrors.NewErrInitFailure(err)
	}

	x.mu.Lock()
	if x.state == Stopped {
		graceful := !x.stopImmediate && x.attach() == nil
		x.mu.Unlock()
		x.finishDetached(graceful)
		return nil
	}

	if x.pendingPause || !x.system.isStarted() {
		x.state = Paused
		x.pendingPause = false
		x.mu.Unlock()
		x.system.publish(TopicLifecycle, &ActorStarted{Name: x.name})
		return nil
	}

	if err := x.attach(); err != nil {
		x.state = Stopped
		x.stopRequested = true
		x.stopImmediate = true
		x.stopResult = true
		x.mu.Unlock()
		x.logger.Errorf("actor=(%s) failed to attach: %v", x.name, err)
		x.finishDetached(false)
		return err
	}

	x.state = Started
	x.mailbox.Connect(x.dispatcher)
	x.mu.Unlock()

	x.system.publish(TopicLifecycle, &ActorStarted{Name: x.name})
	x.logger.Debugf("actor=(%s) started", x.name)
	return nil
}

// Pause detaches the actor from its loop without informing it. Messages sent
// while paused are buffered and delivered in order on the next Start.
func (x *Reference[M]) Pause() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	switch x.state {
	case Stopped:
		return gerrors.ErrDead
	case Starting:
		x.pendingPause = true
		return nil
	case Unstarted, Paused:
		return nil
	}

	x.state = Paused
	x.mailbox.Disconnect()
	if submission := x.dispatcher.takeSubmission(); submission != nil {
		submission.Stop()
	}

	x.system.publish(TopicLifecycle, &ActorPaused{Name: x.name})
	x.logger.Debugf("actor=(%s) paused", x.name)
	return nil
}

// Stop stops the actor and returns immediately; Done reports completion.
//
// A graceful stop delivers every accepted message first, re-attaching a
// paused actor to do so. An immediate stop drops undelivered messages as dead
// letters. PostStop then runs once, children are asked to stop and the name
// is released. An Unstarted actor is released without any callback.
//
// Stop is idempotent: later calls return the first call's result.
func (x *Reference[M]) Stop(immediate bool) bool {
	x.mu.Lock()
	if x.stopRequested {
		result := x.stopResult
		x.mu.Unlock()
		return result
	}

	previous := x.state
	x.state = Stopped
	x.stopRequested = true
	x.stopImmediate = immediate
	x.stopResult = true

	switch previous {
	case Unstarted:
		x.mu.Unlock()
		x.abandon()
	case Starting:
		// Start finishes the job once PreStart returns
		x.mu.Unlock()
	case Started:
		x.mu.Unlock()
		x.mailbox.Stop(immediate)
	case Paused:
		graceful := !immediate && x.attach() == nil
		result := graceful || immediate
		x.stopResult = result
		x.mu.Unlock()
		x.finishDetached(graceful)
		return result
	default:
		x.mu.Unlock()
	}
	return true
}

// attach must be called with x.mu held
func (x *Reference[M]) attach() error {
	if x.executor == nil {
		return executor.ErrShutdown
	}
	submission, err := x.executor.Execute(x.dispatcher)
	if err != nil {
		return err
	}
	x.dispatcher.setSubmission(submission)
	return nil
}

// finishDetached stops a detached actor. When graceful, the dispatcher was
// re-attached and the buffered messages are flushed before the stop.
func (x *Reference[M]) finishDetached(graceful bool) {
	if graceful {
		x.mailbox.Stop(false)
		x.mailbox.Connect(x.dispatcher)
		return
	}

	x.mailbox.Stop(true)
	x.deadLetters(x.mailbox.Drain())
	x.dispatcher.Stop(true)
}

// abandon releases an actor whose PreStart never completed
func (x *Reference[M]) abandon() {
	x.mailbox.Stop(true)
	x.deadLetters(x.mailbox.Drain())
	x.dispatcher.abandon()
}

// finish runs once on termination, with the drain token held
func (x *Reference[M]) finish(immediate, postStop bool) {
	if submission := x.dispatcher.takeSubmission(); submission != nil {
		submission.Stop()
	}

	x.system.stopDescendants(x.name, immediate)

	if postStop {
		x.postStop()
	}

	x.system.deregister(x)
	x.system.publish(TopicLifecycle, &ActorStopped{Name: x.name})
	x.logger.Debugf("actor=(%s) stopped", x.name)
	close(x.done)
}

func (x *Reference[M]) preStart(ctx context.Context) (err error) {
	defer func() {
		if rc := recover(); rc != nil {
			err = gerrors.FromRecovered(rc)
		}
	}()
	return x.actor.PreStart(x.scope.WithContext(ctx), x)
}

func (x *Reference[M]) postStop() {
	defer func() {
		if rc := recover(); rc != nil {
			x.logger.Errorf("actor=(%s) PostStop panicked: %v", x.name, gerrors.FromRecovered(rc))
		}
	}()
	if err := x.actor.PostStop(x.baseCtx); err != nil {
		x.logger.Errorf("actor=(%s) PostStop failed: %v", x.name, err)
	}
}

// receive hands one user message to the actor. Failures stop it immediately.
func (x *Reference[M]) receive(ctx context.Context, message M) {
	rctx := newReceiveContext(ctx, x, message)
	if err := x.safeReceive(rctx); err != nil {
		x.logger.Errorf("actor=(%s) failed to handle message: %v", x.name, err)
		x.Stop(true)
		return
	}
	x.system.recordDelivered(ctx)
}

func (x *Reference[M]) safeReceive(rctx *ReceiveContext[M]) (err error) {
	defer func() {
		if rc := recover(); rc != nil {
			err = gerrors.FromRecovered(rc)
		}
	}()
	x.actor.Receive(rctx)
	return rctx.getError()
}

// control applies a control message dequeued in order with user traffic
func (x *Reference[M]) control(code ControlCode) {
	switch code {
	case PauseCode:
		if err := x.Pause(); err != nil && !errors.Is(err, gerrors.ErrDead) {
			x.logger.Warnf("actor=(%s) failed to pause: %v", x.name, err)
		}
	case StopCode:
		x.Stop(false)
	case StopNowCode:
		x.Stop(true)
	}
}

// onDetachedControl handles a control message reaching an empty, disconnected mailbox
func (x *Reference[M]) onDetachedControl(_ context.Context, message Message[M]) DeliveryResult {
	x.control(message.Code())
	return DeliverySuccess
}

func (x *Reference[M]) deadLetters(messages []Message[M]) {
	for _, message := range messages {
		if message.IsControl() {
			continue
		}
		x.system.recordDeadletter(x.baseCtx)
		x.system.publish(TopicDeadletters, &Deadletter{Name: x.name, Message: message.Payload()})
	}
}
