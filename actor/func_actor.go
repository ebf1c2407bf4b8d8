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

// ReceiveFunc is a message handling placeholder
type ReceiveFunc[M any] = func(ctx *ReceiveContext[M])

// PreStartFunc defines the PreStart hook of a FuncActor
type PreStartFunc[M any] = func(ctx *Context, self *Reference[M]) error

// PostStopFunc defines the PostStop hook of a FuncActor
type PostStopFunc = func(ctx context.Context) error

// FuncOption configures a FuncActor
type FuncOption[M any] func(actor *FuncActor[M])

// WithPreStart defines the PreStart hook
func WithPreStart[M any](fn PreStartFunc[M]) FuncOption[M] {
	return func(actor *FuncActor[M]) {
		actor.preStart = fn
	}
}

// WithPostStop defines the PostStop hook
func WithPostStop[M any](fn PostStopFunc) FuncOption[M] {
	return func(actor *FuncActor[M]) {
		actor.postStop = fn
	}
}

// FuncActor is an actor built from plain functions
type FuncActor[M any] struct {
	receive  ReceiveFunc[M]
	preStart PreStartFunc[M]
	postStop PostStopFunc
}

// enforce compilation error
var _ Actor[any] = (*FuncActor[any])(nil)

// NewFuncActor creates an actor that handles messages with receive
func NewFuncActor[M any](receive ReceiveFunc[M], opts ...FuncOption[M]) *FuncActor[M] {
	actor := &FuncActor[M]{receive: receive}
	for _, opt := range opts {
		opt(actor)
	}
	return actor
}

// PreStart runs the PreStart hook when set
func (x *FuncActor[M]) PreStart(ctx *Context, self *Reference[M]) error {
	if x.preStart != nil {
		return x.preStart(ctx, self)
	}
	return nil
}

// Receive handles the message
func (x *FuncActor[M]) Receive(ctx *ReceiveContext[M]) {
	if x.receive != nil {
		x.receive(ctx)
	}
}

// PostStop runs the PostStop hook when set
func (x *FuncActor[M]) PostStop(ctx context.Context) error {
	if x.postStop != nil {
		return x.postStop(ctx)
	}
	return nil
}
