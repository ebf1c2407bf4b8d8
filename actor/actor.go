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
)

// Actor defines the contract of a unit of behavior processing messages of type M.
//
// Actors communicate exclusively via message passing. Each actor owns a
// mailbox and processes messages one at a time, so its state needs no
// synchronization as long as it is only touched from its hooks.
//
// The lifecycle of an actor follows three phases:
//  1. PreStart – setup before the actor becomes reachable for delivery
//  2. Receive – message handling
//  3. PostStop – cleanup once the last message has been handled
type Actor[M any] interface {
	// PreStart is invoked once, synchronously on the goroutine registering or
	// starting the actor, before any message is handled.
	//
	// ctx is the registration scope of the actor: actors registered through it
	// become its children and are stopped with it. self is the actor's own
	// reference; messages sent to it are buffered until PreStart returns.
	//
	// When an error is returned or PreStart panics, the actor is stopped
	// without PostStop being called.
	PreStart(ctx *Context, self *Reference[M]) error

	// Receive handles one message. Receive is never invoked concurrently for
	// the same actor. A panic or an error reported with ReceiveContext.Err
	// stops the actor immediately.
	Receive(ctx *ReceiveContext[M])

	// PostStop is invoked once after the actor handled its final message.
	// Errors and panics are logged and never prevent the stop from completing.
	PostStop(ctx context.Context) error
}
