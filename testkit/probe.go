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

package testkit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/loopactor/actor"
)

const (
	MessagesQueueMax int           = 1000
	DefaultTimeout   time.Duration = 3 * time.Second
)

// Probe is a test actor recording the messages it receives so that tests can
// assert on them
type Probe[M any] struct {
	kit            *TestKit
	testCtx        context.Context
	ref            *actor.Reference[M]
	lastMessage    *M
	messageQueue   chan M
	defaultTimeout time.Duration
}

// NewProbe registers a probe actor in the testkit system
func NewProbe[M any](ctx context.Context, kit *TestKit) *Probe[M] {
	// create the message queue
	messageQueue := make(chan M, MessagesQueueMax)
	behavior := actor.NewFuncActor(func(rctx *actor.ReceiveContext[M]) {
		// any message received is pushed to the queue
		messageQueue <- rctx.Message()
	})

	return &Probe[M]{
		kit:            kit,
		testCtx:        ctx,
		ref:            Spawn[M](kit, "probe-"+uuid.NewString(), behavior),
		messageQueue:   messageQueue,
		defaultTimeout: DefaultTimeout,
	}
}

// Ref returns the reference of the probe actor
func (x *Probe[M]) Ref() *actor.Reference[M] {
	return x.ref
}

// ExpectMessage asserts that the next message received is the expected one
func (x *Probe[M]) ExpectMessage(message M) {
	x.expectMessage(x.defaultTimeout, message)
}

// ExpectMessageWithin asserts that the expected message is received within duration
func (x *Probe[M]) ExpectMessageWithin(duration time.Duration, message M) {
	x.expectMessage(duration, message)
}

// ExpectNoMessage asserts that no message is received within duration
func (x *Probe[M]) ExpectNoMessage(duration time.Duration) {
	_, ok := x.receiveOne(duration)
	require.False(x.kit.kt, ok, fmt.Sprintf("received unexpected message %v", x.lastMessage))
}

// ExpectAnyMessage waits for any message and returns it
func (x *Probe[M]) ExpectAnyMessage() M {
	return x.expectAnyMessage(x.defaultTimeout)
}

// ExpectAnyMessageWithin waits for any message within duration and returns it
func (x *Probe[M]) ExpectAnyMessageWithin(duration time.Duration) M {
	return x.expectAnyMessage(duration)
}

// LastMessage returns the last received message
func (x *Probe[M]) LastMessage() (M, bool) {
	if x.lastMessage == nil {
		var zero M
		return zero, false
	}
	return *x.lastMessage, true
}

// Stop stops the probe actor and waits for it to terminate
func (x *Probe[M]) Stop() {
	require.True(x.kit.kt, x.ref.Stop(true))
	select {
	case <-x.ref.Done():
	case <-time.After(x.defaultTimeout):
		x.kit.kt.Fatal("timeout while stopping the probe")
	}
}

// receiveOne receives one message within a maximum time duration
func (x *Probe[M]) receiveOne(max time.Duration) (M, bool) {
	timer := time.NewTimer(max)
	defer timer.Stop()

	select {
	case message := <-x.messageQueue:
		x.lastMessage = &message
		return message, true
	case <-timer.C:
		var zero M
		return zero, false
	}
}

func (x *Probe[M]) expectMessage(max time.Duration, message M) {
	received, ok := x.receiveOne(max)
	require.True(x.kit.kt, ok, fmt.Sprintf("timeout (%v) during expectMessage while waiting for %v", max, message))
	require.Equal(x.kit.kt, message, received, fmt.Sprintf("expected %v, found %v", message, received))
}

func (x *Probe[M]) expectAnyMessage(max time.Duration) M {
	received, ok := x.receiveOne(max)
	require.True(x.kit.kt, ok, fmt.Sprintf("timeout (%v) during expectAnyMessage while waiting", max))
	return received
}
