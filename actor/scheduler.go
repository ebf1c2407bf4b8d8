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
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/reugn/go-quartz/job"
	quartzlogger "github.com/reugn/go-quartz/logger"
	"github.com/reugn/go-quartz/quartz"

	gerrors "github.com/tochemey/loopactor/errors"
	"github.com/tochemey/loopactor/log"
)

// schedulerStopTimeout bounds the wait for running jobs when the scheduler stops
const schedulerStopTimeout = time.Second

// Delayed is a message held by the scheduler until its deadline.
// Use NewDelay to create one.
type Delayed interface {
	// Deadline returns the earliest delivery time
	Deadline() time.Time
	deliver(ctx context.Context) error
}

// Delay holds a message for a target reference until its deadline
type Delay[M any] struct {
	ref      *Reference[M]
	message  M
	deadline time.Time
}

var _ Delayed = (*Delay[any])(nil)

// NewDelay creates a Delay delivering message to ref once delay has elapsed
func NewDelay[M any](ref *Reference[M], message M, delay time.Duration) *Delay[M] {
	return &Delay[M]{
		ref:      ref,
		message:  message,
		deadline: time.Now().Add(delay),
	}
}

// Deadline returns the earliest delivery time
func (x *Delay[M]) Deadline() time.Time {
	if x == nil {
		return time.Time{}
	}
	return x.deadline
}

// Ref returns the target reference
func (x *Delay[M]) Ref() *Reference[M] {
	return x.ref
}

// Message returns the held message
func (x *Delay[M]) Message() M {
	return x.message
}

func (x *Delay[M]) deliver(ctx context.Context) error {
	if x == nil || x.ref == nil {
		return gerrors.ErrUndefinedActor
	}
	return x.ref.Tell(ctx, x.message)
}

// ScheduleOnce asks the system scheduler to deliver message to ref once
// delay has elapsed
func ScheduleOnce[M any](ctx context.Context, system *System, ref *Reference[M], message M, delay time.Duration) error {
	if ref == nil {
		return gerrors.ErrUndefinedActor
	}
	if err := system.Scheduler().Tell(ctx, NewDelay(ref, message, delay)); err != nil {
		if errors.Is(err, gerrors.ErrDead) {
			return gerrors.ErrSchedulerNotStarted
		}
		return err
	}
	return nil
}

// scheduler is the actor behind every system scheduler. Pending deliveries are
// quartz run-once jobs; stopping the actor cancels the ones not yet fired.
type scheduler struct {
	mu      sync.Mutex
	quartz  quartz.Scheduler
	pending mapset.Set[string]
	closed  bool
	ctx     context.Context
	logger  log.Logger
}

var _ Actor[Delayed] = (*scheduler)(nil)

func newScheduler() *scheduler {
	return &scheduler{
		pending: mapset.NewThreadUnsafeSet[string](),
		logger:  log.DiscardLogger,
	}
}

// PreStart starts the quartz scheduler
func (x *scheduler) PreStart(ctx *Context, self *Reference[Delayed]) error {
	// create an instance of quartz scheduler with logger off
	sched, err := quartz.NewStdScheduler(quartz.WithLogger(quartzlogger.NewSimpleLogger(nil, quartzlogger.LevelOff)))
	if err != nil {
		return err
	}

	runCtx := context.WithoutCancel(ctx.Context())
	sched.Start(runCtx)

	x.mu.Lock()
	x.quartz = sched
	x.ctx = runCtx
	x.logger = self.Logger()
	x.mu.Unlock()
	return nil
}

// Receive delivers a due message at once and schedules the others
func (x *scheduler) Receive(ctx *ReceiveContext[Delayed]) {
	delayed := ctx.Message()
	if delayed == nil {
		x.logger.Warn(gerrors.ErrInvalidMessage)
		return
	}

	remaining := time.Until(delayed.Deadline())
	if remaining <= 0 {
		if err := delayed.deliver(ctx.Context()); err != nil {
			x.logger.Warnf("failed to deliver delayed message: %v", err)
		}
		return
	}

	key := uuid.NewString()

	x.mu.Lock()
	if x.closed {
		x.mu.Unlock()
		return
	}
	x.pending.Add(key)
	x.mu.Unlock()

	fire := job.NewFunctionJob[bool](func(context.Context) (bool, error) {
		x.fire(key, delayed)
		return true, nil
	})

	detail := quartz.NewJobDetail(fire, quartz.NewJobKey(key))
	if err := x.quartz.ScheduleJob(detail, quartz.NewRunOnceTrigger(remaining)); err != nil {
		x.mu.Lock()
		x.pending.Remove(key)
		x.mu.Unlock()
		x.logger.Errorf("failed to schedule delayed message: %v", err)
	}
}

// PostStop cancels the pending jobs and stops quartz
func (x *scheduler) PostStop(context.Context) error {
	x.mu.Lock()
	x.closed = true
	keys := x.pending.ToSlice()
	x.pending.Clear()
	sched := x.quartz
	x.mu.Unlock()

	if sched == nil {
		return nil
	}

	for _, key := range keys {
		// the job may be firing right now
		_ = sched.DeleteJob(quartz.NewJobKey(key))
	}

	_ = sched.Clear()
	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), schedulerStopTimeout)
	defer cancel()
	sched.Wait(ctx)
	return nil
}

// fire delivers a due message unless the scheduler stopped in between.
// The lock is held during delivery so nothing is delivered once PostStop ran.
func (x *scheduler) fire(key string, delayed Delayed) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.closed || !x.pending.Contains(key) {
		return
	}

	if err := delayed.deliver(x.ctx); err != nil {
		x.logger.Warnf("failed to deliver delayed message: %v", err)
	}
	x.pending.Remove(key)
}

// Scheduled returns the number of messages waiting for their deadline
func (x *System) Scheduled() int {
	actor, ok := x.scheduler.actor.(*scheduler)
	if !ok {
		return 0
	}

	actor.mu.Lock()
	defer actor.mu.Unlock()
	return actor.pending.Cardinality()
}
