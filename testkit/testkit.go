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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tochemey/loopactor/actor"
	"github.com/tochemey/loopactor/log"
)

// TestKit defines actor test kit
type TestKit struct {
	system *actor.System
	kt     *testing.T
	logger log.Logger
}

// New creates an instance of TestKit with a started actor system
func New(t *testing.T, opts ...Option) *TestKit {
	// create the testkit instance
	testkit := &TestKit{
		kt:     t,
		logger: log.DiscardLogger,
	}
	// apply the various options
	for _, opt := range opts {
		opt.Apply(testkit)
	}

	system, err := actor.NewSystem("testkit", actor.WithLogger(testkit.logger))
	if err != nil {
		t.Fatal(err.Error())
	}

	testkit.system = system
	return testkit
}

// ActorSystem returns the testkit actor system
func (k *TestKit) ActorSystem() *actor.System {
	return k.system
}

// Shutdown stops the testkit actor system
func (k *TestKit) Shutdown(ctx context.Context) {
	require.NoError(k.kt, k.system.Stop(ctx, false))
}

// Spawn registers a top-level actor and fails the test on error
func Spawn[M any](kit *TestKit, name string, behavior actor.Actor[M]) *actor.Reference[M] {
	ref, err := actor.Register(kit.system.Context(), name, behavior)
	require.NoError(kit.kt, err)
	return ref
}
