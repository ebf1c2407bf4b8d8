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
	"sync"

	"github.com/tochemey/loopactor/internal/queue"
)

// ControlHandler handles a control message that reached a disconnected,
// empty mailbox.
type ControlHandler[M any] func(ctx context.Context, message Message[M]) DeliveryResult

// Mailbox sits between senders and the channel of a running actor.
//
// While connected, sends pass straight through to the channel. While
// disconnected, messages are buffered in FIFO order and flushed on the next
// connect. A control message reaching an empty disconnected mailbox is handed
// to the control handler at once so a detached actor can still be stopped.
// Once stopped the mailbox refuses every send, and a stop received while
// disconnected is applied to the next connected channel.
type Mailbox[M any] struct {
	mu        sync.Mutex
	channel   Channel[M]
	buffer    *queue.Ring[Message[M]]
	stopped   bool
	immediate bool
	onControl ControlHandler[M]
}

// NewMailbox creates a disconnected Mailbox
func NewMailbox[M any](onControl ControlHandler[M]) *Mailbox[M] {
	return &Mailbox[M]{
		buffer:    queue.NewRing[Message[M]](),
		onControl: onControl,
	}
}

// Send delivers message to the connected channel or buffers it
func (x *Mailbox[M]) Send(ctx context.Context, message Message[M]) DeliveryResult {
	x.mu.Lock()
	if x.stopped {
		x.mu.Unlock()
		return DeliveryFailureNoRetry
	}

	if x.channel != nil {
		channel := x.channel
		x.mu.Unlock()
		return channel.Send(ctx, message)
	}

	if message.IsControl() && x.buffer.IsEmpty() && x.onControl != nil {
		x.mu.Unlock()
		return x.onControl(ctx, message)
	}

	x.buffer.Push(message)
	x.mu.Unlock()
	return DeliverySuccess
}

// Connect flushes the buffer into channel, in order, then passes later sends
// through. When the mailbox was stopped while disconnected, channel is
// stopped right after the flush.
func (x *Mailbox[M]) Connect(channel Channel[M]) {
	// flushed messages are never delivered inline
	ctx := context.Background()

	x.mu.Lock()
	for _, message := range x.buffer.Drain() {
		channel.Send(ctx, message)
	}
	x.channel = channel
	stopped, immediate := x.stopped, x.immediate
	x.mu.Unlock()

	if stopped {
		channel.Stop(immediate)
	}
}

// Disconnect forgets the channel. Later sends are buffered.
func (x *Mailbox[M]) Disconnect() {
	x.mu.Lock()
	x.channel = nil
	x.mu.Unlock()
}

// Stop refuses further sends. A connected channel is stopped at once,
// otherwise the stop is remembered for the next Connect.
func (x *Mailbox[M]) Stop(immediate bool) bool {
	x.mu.Lock()
	if x.stopped {
		x.mu.Unlock()
		return true
	}
	x.stopped = true
	x.immediate = immediate
	channel := x.channel
	x.mu.Unlock()

	if channel != nil {
		return channel.Stop(immediate)
	}
	return true
}

// Drain removes and returns the buffered messages
func (x *Mailbox[M]) Drain() []Message[M] {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.buffer.Drain()
}

// IsConnected reports whether a channel is connected
func (x *Mailbox[M]) IsConnected() bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.channel != nil
}

// IsStopped reports whether the mailbox refuses sends
func (x *Mailbox[M]) IsStopped() bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.stopped
}

// Len returns the number of buffered messages
func (x *Mailbox[M]) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.buffer.Len()
}
