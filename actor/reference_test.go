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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/loopactor/errors"
	"github.com/tochemey/loopactor/executor"
	"github.com/tochemey/loopactor/internal/pause"
)

func TestReference(t *testing.T) {
	ctx := context.TODO()
	t.Run("With FIFO delivery", func(t *testing.T) {
		system := newTestSystem(t)
		actor := newCollector[int]()
		ref, err := Register[int](system.Context(), "fifo", actor)
		require.NoError(t, err)
		require.Equal(t, Started, ref.State())

		for i := 1; i <= 100; i++ {
			require.NoError(t, ref.Tell(ctx, i))
		}

		require.Eventually(t, func() bool { return actor.count() == 100 }, time.Second, 5*time.Millisecond)
		assert.Equal(t, sequence(1, 100), actor.messages())
	})
	t.Run("With FIFO delivery across pause and resume", func(t *testing.T) {
		system := newTestSystem(t)
		actor := newCollector[int]()
		ref, err := Register[int](system.Context(), "fifo", actor)
		require.NoError(t, err)

		for i := 1; i <= 50; i++ {
			require.NoError(t, ref.Tell(ctx, i))
		}
		require.NoError(t, ref.Pause())
		require.Equal(t, Paused, ref.State())
		require.True(t, ref.IsAlive())

		for i := 51; i <= 100; i++ {
			require.NoError(t, ref.Tell(ctx, i))
		}

		require.NoError(t, ref.Start(ctx, system.executor))
		require.Equal(t, Started, ref.State())
		require.ErrorIs(t, ref.Start(ctx, system.executor), gerrors.ErrAlreadyStarted)

		require.Eventually(t, func() bool { return actor.count() == 100 }, time.Second, 5*time.Millisecond)
		assert.Equal(t, sequence(1, 100), actor.messages())
	})
	t.Run("With sends racing pause and resume", func(t *testing.T) {
		pool, err := executor.NewPool(2)
		require.NoError(t, err)
		t.Cleanup(func() { require.NoError(t, pool.Shutdown(context.Background())) })

		executors := map[string][]Option{
			"dedicated": nil,
			"pool":      {WithExecutor(pool)},
		}
		for kind, opts := range executors {
			system := newTestSystem(t, opts...)
			actor := newCollector[int]()
			ref, err := Register[int](system.Context(), "racy-"+kind, actor)
			require.NoError(t, err)

			const count = 5000
			stop := make(chan struct{})
			toggled := make(chan struct{})
			go func() {
				defer close(toggled)
				for {
					select {
					case <-stop:
						return
					default:
					}
					assert.NoError(t, ref.Pause())
					assert.NoError(t, ref.Start(ctx, system.executor))
				}
			}()

			for i := 1; i <= count; i++ {
				require.NoError(t, ref.Tell(ctx, i), kind)
			}
			close(stop)
			<-toggled

			require.Equal(t, Started, ref.State(), kind)
			require.Eventually(t, func() bool { return actor.count() == count }, 5*time.Second, 5*time.Millisecond, kind)
			assert.Equal(t, sequence(1, count), actor.messages(), kind)
			assert.True(t, ref.IsAlive(), kind)
		}
	})
	t.Run("With graceful stop delivering buffered messages", func(t *testing.T) {
		system := newTestSystem(t)
		actor := newCollector[int]()
		ref, err := Register[int](system.Context(), "graceful", actor)
		require.NoError(t, err)

		require.NoError(t, ref.Pause())
		for i := 1; i <= 20; i++ {
			require.NoError(t, ref.Tell(ctx, i))
		}

		require.True(t, ref.Stop(false))
		require.False(t, ref.IsAlive())
		<-ref.Done()

		assert.Equal(t, sequence(1, 20), actor.messages())
		assert.EqualValues(t, 20, actor.atPostStop.Load())
		assert.EqualValues(t, 1, actor.postStops.Load())
	})
	t.Run("With graceful stop of a busy actor", func(t *testing.T) {
		system := newTestSystem(t)
		actor := newCollector[int]()
		gate := actor.gated()
		ref, err := Register[int](system.Context(), "busy", actor)
		require.NoError(t, err)

		for i := 1; i <= 10; i++ {
			require.NoError(t, ref.Tell(ctx, i))
		}
		require.True(t, ref.Stop(false))
		require.ErrorIs(t, ref.Tell(ctx, 11), gerrors.ErrDead)
		close(gate)
		<-ref.Done()

		assert.Equal(t, sequence(1, 10), actor.messages())
		assert.EqualValues(t, 10, actor.atPostStop.Load())
	})
	t.Run("With immediate stop dropping buffered messages", func(t *testing.T) {
		system := newTestSystem(t)
		subscriber := system.Subscribe(TopicDeadletters)
		actor := newCollector[int]()
		ref, err := Register[int](system.Context(), "immediate", actor)
		require.NoError(t, err)

		require.NoError(t, ref.Pause())
		for i := 1; i <= 5; i++ {
			require.NoError(t, ref.Tell(ctx, i))
		}

		require.True(t, ref.Stop(true))
		<-ref.Done()

		assert.Empty(t, actor.messages())
		assert.EqualValues(t, 1, actor.postStops.Load())

		for i := 1; i <= 5; i++ {
			message, err := subscriber.Next(time.Second)
			require.NoError(t, err)
			deadletter, ok := message.Payload().(*Deadletter)
			require.True(t, ok)
			assert.Equal(t, ref.Name(), deadletter.Name)
			assert.Equal(t, i, deadletter.Message)
		}
	})
	t.Run("With immediate stop of a busy actor", func(t *testing.T) {
		system := newTestSystem(t)
		actor := newCollector[int]()
		gate := actor.gated()
		ref, err := Register[int](system.Context(), "busy", actor)
		require.NoError(t, err)

		require.NoError(t, ref.Tell(ctx, 1))
		require.Eventually(t, func() bool { return ref.dispatcher.token.Load() == busy }, time.Second, time.Millisecond)
		for i := 2; i <= 10; i++ {
			require.NoError(t, ref.Tell(ctx, i))
		}

		require.True(t, ref.Stop(true))
		close(gate)
		<-ref.Done()

		assert.Equal(t, []int{1}, actor.messages())
	})
	t.Run("With idempotent stop", func(t *testing.T) {
		system := newTestSystem(t)
		actor := newCollector[int]()
		ref, err := Register[int](system.Context(), "twice", actor)
		require.NoError(t, err)

		require.True(t, ref.Stop(false))
		require.True(t, ref.Stop(true))
		<-ref.Done()
		require.True(t, ref.Stop(false))

		pause.For(20 * time.Millisecond)
		assert.EqualValues(t, 1, actor.postStops.Load())
		assert.Equal(t, Stopped, ref.State())
		require.ErrorIs(t, ref.Tell(ctx, 1), gerrors.ErrDead)
		require.ErrorIs(t, ref.Pause(), gerrors.ErrDead)
		require.ErrorIs(t, ref.Start(ctx, system.executor), gerrors.ErrDead)
	})
	t.Run("With stop of an unstarted actor", func(t *testing.T) {
		system := newTestSystem(t)
		require.NoError(t, system.Pause())

		actor := newCollector[int]()
		ref, err := Register[int](system.Context(), "unstarted", actor)
		require.NoError(t, err)
		require.Equal(t, Unstarted, ref.State())
		require.NoError(t, ref.Tell(ctx, 1))

		require.True(t, ref.Stop(false))
		<-ref.Done()
		assert.Empty(t, actor.messages())
		assert.Zero(t, actor.postStops.Load())
	})
	t.Run("With PreStart failure", func(t *testing.T) {
		system := newTestSystem(t)
		postStops := atomic.NewInt32(0)
		cause := errors.New("boom")
		actor := NewFuncActor(func(*ReceiveContext[int]) {},
			WithPreStart(func(*Context, *Reference[int]) error { return cause }),
			WithPostStop[int](func(context.Context) error {
				postStops.Inc()
				return nil
			}))

		ref, err := Register[int](system.Context(), "failing", actor)
		require.ErrorIs(t, err, gerrors.ErrInitFailure)
		require.ErrorIs(t, err, cause)
		require.Nil(t, ref)

		name, _ := NewName("failing")
		_, ok := system.Lookup(name)
		assert.False(t, ok)
		assert.Zero(t, postStops.Load())
	})
	t.Run("With PreStart panic", func(t *testing.T) {
		system := newTestSystem(t)
		actor := NewFuncActor(func(*ReceiveContext[int]) {},
			WithPreStart(func(*Context, *Reference[int]) error { panic("boom") }))

		_, err := Register[int](system.Context(), "panicking", actor)
		require.ErrorIs(t, err, gerrors.ErrInitFailure)
		var panicErr *gerrors.PanicError
		require.ErrorAs(t, err, &panicErr)
	})
	t.Run("With messages sent from PreStart", func(t *testing.T) {
		system := newTestSystem(t)
		actor := newCollector[int]()
		starter := NewFuncActor(actor.Receive,
			WithPreStart(func(ctx *Context, self *Reference[int]) error {
				return self.Tell(ctx.Context(), 7)
			}))

		_, err := Register[int](system.Context(), "self", starter)
		require.NoError(t, err)
		require.Eventually(t, func() bool { return actor.count() == 1 }, time.Second, 5*time.Millisecond)
	})
	t.Run("With Receive panic", func(t *testing.T) {
		system := newTestSystem(t)
		postStops := atomic.NewInt32(0)
		actor := NewFuncActor(func(ctx *ReceiveContext[int]) {
			if ctx.Message() == 2 {
				panic("boom")
			}
		}, WithPostStop[int](func(context.Context) error {
			postStops.Inc()
			return errors.New("ignored")
		}))

		ref, err := Register[int](system.Context(), "panicking", actor)
		require.NoError(t, err)
		require.NoError(t, ref.Tell(ctx, 1))
		require.NoError(t, ref.Tell(ctx, 2))

		select {
		case <-ref.Done():
		case <-time.After(time.Second):
			t.Fatal("actor not stopped")
		}
		assert.EqualValues(t, 1, postStops.Load())
		require.ErrorIs(t, ref.Tell(ctx, 3), gerrors.ErrDead)
	})
	t.Run("With Receive reporting an error", func(t *testing.T) {
		system := newTestSystem(t)
		actor := NewFuncActor(func(ctx *ReceiveContext[int]) {
			ctx.Err(errors.New("failed"))
		})

		ref, err := Register[int](system.Context(), "failing", actor)
		require.NoError(t, err)
		require.NoError(t, ref.Tell(ctx, 1))

		select {
		case <-ref.Done():
		case <-time.After(time.Second):
			t.Fatal("actor not stopped")
		}
	})
	t.Run("With self stop from Receive", func(t *testing.T) {
		system := newTestSystem(t)
		actor := newCollector[int]()
		stopper := NewFuncActor(func(ctx *ReceiveContext[int]) {
			actor.Receive(ctx)
			if ctx.Message() == 3 {
				ctx.Stop()
			}
		})

		ref, err := Register[int](system.Context(), "stopper", stopper)
		require.NoError(t, err)
		for i := 1; i <= 3; i++ {
			require.NoError(t, ref.Tell(ctx, i))
		}
		<-ref.Done()
		assert.Equal(t, sequence(1, 3), actor.messages())
	})
	t.Run("With nested self sends", func(t *testing.T) {
		system := newTestSystem(t)
		actor := newCollector[int]()
		counter := NewFuncActor(func(ctx *ReceiveContext[int]) {
			actor.Receive(ctx)
			if next := ctx.Message() + 1; next <= 1000 {
				assert.NoError(t, ctx.Self().Tell(ctx.Context(), next))
			}
		})

		ref, err := Register[int](system.Context(), "counter", counter)
		require.NoError(t, err)
		require.NoError(t, ref.Tell(ctx, 1))

		require.Eventually(t, func() bool { return actor.count() == 1000 }, 5*time.Second, 5*time.Millisecond)
		assert.Equal(t, sequence(1, 1000), actor.messages())
	})
	t.Run("With control messages", func(t *testing.T) {
		system := newTestSystem(t)
		actor := newCollector[int]()
		ref, err := Register[int](system.Context(), "controlled", actor)
		require.NoError(t, err)

		require.Equal(t, DeliveryFailureNoRetry, ref.Send(ctx, ControlMessage[int](ControlCode(42))))
		require.Equal(t, DeliveryFailureNoRetry, ref.Send(ctx, ControlMessage[int](terminateCode)))

		require.Equal(t, DeliverySuccess, ref.Send(ctx, UserMessage(1)))
		require.Equal(t, DeliverySuccess, ref.Send(ctx, ControlMessage[int](PauseCode)))
		require.Eventually(t, func() bool { return ref.State() == Paused }, time.Second, 5*time.Millisecond)
		require.Equal(t, []int{1}, actor.messages())

		require.Equal(t, DeliverySuccess, ref.Send(ctx, UserMessage(2)))
		require.Equal(t, DeliverySuccess, ref.Send(ctx, ControlMessage[int](StopCode)))
		require.NoError(t, ref.Start(ctx, system.executor))
		<-ref.Done()

		assert.Equal(t, []int{1, 2}, actor.messages())
		require.Equal(t, DeliveryFailureNoRetry, ref.Send(ctx, UserMessage(3)))
	})
	t.Run("With stop control on a paused actor", func(t *testing.T) {
		system := newTestSystem(t)
		actor := newCollector[int]()
		ref, err := Register[int](system.Context(), "paused", actor)
		require.NoError(t, err)
		require.NoError(t, ref.Pause())

		require.Equal(t, DeliverySuccess, ref.Send(ctx, ControlMessage[int](StopNowCode)))
		<-ref.Done()
		assert.EqualValues(t, 1, actor.postStops.Load())
	})
	t.Run("With children stopped with their parent", func(t *testing.T) {
		system := newTestSystem(t)
		child := newCollector[int]()
		var childRef *Reference[int]
		parent := NewFuncActor(func(*ReceiveContext[int]) {},
			WithPreStart(func(ctx *Context, _ *Reference[int]) error {
				var err error
				childRef, err = Register[int](ctx, "child", child)
				return err
			}))

		parentRef, err := Register[int](system.Context(), "parent", parent)
		require.NoError(t, err)
		require.NotNil(t, childRef)
		assert.Equal(t, "parent.child", childRef.Name().String())

		require.True(t, parentRef.Stop(false))
		<-parentRef.Done()
		<-childRef.Done()
		assert.EqualValues(t, 1, child.postStops.Load())
	})
}
