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

	"github.com/tochemey/loopactor/executor"
	"github.com/tochemey/loopactor/log"
)

// Context is a registration scope. Actors registered through a Context are
// named under it. The root Context of a system registers top-level actors.
type Context struct {
	ctx    context.Context
	system *System
	name   Name
}

func newContext(ctx context.Context, system *System, name Name) *Context {
	return &Context{
		ctx:    ctx,
		system: system,
		name:   name,
	}
}

// Context returns the underlying context
func (c *Context) Context() context.Context {
	return c.ctx
}

// System returns the owning actor system
func (c *Context) System() *System {
	return c.system
}

// Name returns the name of the scope. It is the root Name for the system context.
func (c *Context) Name() Name {
	return c.name
}

// IsRoot reports whether actors registered here are top-level
func (c *Context) IsRoot() bool {
	return c.name.IsRoot()
}

// Scope returns a nested scope, without registering any actor under it
func (c *Context) Scope(segment string) (*Context, error) {
	name, err := c.name.Child(segment)
	if err != nil {
		return nil, err
	}
	return newContext(c.ctx, c.system, name), nil
}

// WithContext returns a copy of the scope carrying ctx
func (c *Context) WithContext(ctx context.Context) *Context {
	return newContext(ctx, c.system, c.name)
}

type loopKey struct{}

// withLoop marks ctx as running on loop. Sends made with such a context from
// the same worker may be delivered inline.
func withLoop(ctx context.Context, loop executor.Loop) context.Context {
	return context.WithValue(ctx, loopKey{}, loop)
}

func loopFrom(ctx context.Context) executor.Loop {
	if ctx == nil {
		return nil
	}
	loop, _ := ctx.Value(loopKey{}).(executor.Loop)
	return loop
}

// ReceiveContext is handed to Actor.Receive for every user message.
type ReceiveContext[M any] struct {
	ctx     context.Context
	self    *Reference[M]
	message M
	err     error
}

func newReceiveContext[M any](ctx context.Context, self *Reference[M], message M) *ReceiveContext[M] {
	return &ReceiveContext[M]{
		ctx:     ctx,
		self:    self,
		message: message,
	}
}

// Context returns the context of the delivery. Pass it to Reference.Tell so
// that the runtime can deliver to an idle actor sharing this worker inline.
func (rctx *ReceiveContext[M]) Context() context.Context {
	return rctx.ctx
}

// Self returns the reference of the receiving actor
func (rctx *ReceiveContext[M]) Self() *Reference[M] {
	return rctx.self
}

// Message returns the message being handled
func (rctx *ReceiveContext[M]) Message() M {
	return rctx.message
}

// Err reports a processing failure. The actor is stopped immediately once
// Receive returns.
func (rctx *ReceiveContext[M]) Err(err error) {
	if err != nil {
		rctx.err = err
	}
}

// Logger returns the actor logger
func (rctx *ReceiveContext[M]) Logger() log.Logger {
	return rctx.self.logger
}

// Scope returns the registration scope of the receiving actor
func (rctx *ReceiveContext[M]) Scope() *Context {
	return rctx.self.scope.WithContext(rctx.ctx)
}

// Stop stops the receiving actor once every accepted message is handled
func (rctx *ReceiveContext[M]) Stop() {
	rctx.self.Stop(false)
}

func (rctx *ReceiveContext[M]) getError() error {
	return rctx.err
}
