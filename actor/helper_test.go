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
	"testing"

	"github.com/stretchr/testify/require"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/atomic"
	"go.uber.org/goleak"

	"github.com/tochemey/loopactor/log"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// newTestSystem creates a system stopped at the end of the test
func newTestSystem(t *testing.T, opts ...Option) *System {
	t.Helper()
	system, err := NewSystem("testSys", append([]Option{WithLogger(log.DiscardLogger)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, system.Stop(context.Background(), true))
	})
	return system
}

// collector records every message it receives
type collector[M any] struct {
	mu        sync.Mutex
	received  []M
	postStops *atomic.Int32
	// atPostStop is the number of messages received when PostStop ran
	atPostStop *atomic.Int32
	gate       chan struct{}
}

var _ Actor[int] = (*collector[int])(nil)

func newCollector[M any]() *collector[M] {
	return &collector[M]{
		postStops:  atomic.NewInt32(0),
		atPostStop: atomic.NewInt32(-1),
	}
}

// gated makes Receive wait on the returned channel before recording
func (x *collector[M]) gated() chan struct{} {
	x.gate = make(chan struct{})
	return x.gate
}

func (x *collector[M]) PreStart(*Context, *Reference[M]) error {
	return nil
}

func (x *collector[M]) Receive(ctx *ReceiveContext[M]) {
	if x.gate != nil {
		<-x.gate
	}
	x.mu.Lock()
	x.received = append(x.received, ctx.Message())
	x.mu.Unlock()
}

func (x *collector[M]) PostStop(context.Context) error {
	x.atPostStop.Store(int32(x.count()))
	x.postStops.Inc()
	return nil
}

func (x *collector[M]) messages() []M {
	x.mu.Lock()
	defer x.mu.Unlock()
	out := make([]M, len(x.received))
	copy(out, x.received)
	return out
}

func (x *collector[M]) count() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.received)
}

func sequence(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

// fakeChannel records what a mailbox hands over
type fakeChannel[M any] struct {
	mu     sync.Mutex
	sent   []Message[M]
	stops  []bool
	result DeliveryResult
}

func (x *fakeChannel[M]) Send(_ context.Context, message Message[M]) DeliveryResult {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.sent = append(x.sent, message)
	return x.result
}

func (x *fakeChannel[M]) Stop(immediate bool) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.stops = append(x.stops, immediate)
	return true
}

// countingMeterProvider sums every Int64Counter by instrument name
type countingMeterProvider struct {
	otelmetric.MeterProvider
	mu       sync.Mutex
	counters map[string]*atomic.Int64
}

func newCountingMeterProvider() *countingMeterProvider {
	return &countingMeterProvider{
		MeterProvider: noop.NewMeterProvider(),
		counters:      make(map[string]*atomic.Int64),
	}
}

func (x *countingMeterProvider) Meter(name string, opts ...otelmetric.MeterOption) otelmetric.Meter {
	return &countingMeter{Meter: x.MeterProvider.Meter(name, opts...), provider: x}
}

func (x *countingMeterProvider) counter(name string) *atomic.Int64 {
	x.mu.Lock()
	defer x.mu.Unlock()
	counter, ok := x.counters[name]
	if !ok {
		counter = atomic.NewInt64(0)
		x.counters[name] = counter
	}
	return counter
}

func (x *countingMeterProvider) value(name string) int64 {
	return x.counter(name).Load()
}

type countingMeter struct {
	otelmetric.Meter
	provider *countingMeterProvider
}

func (x *countingMeter) Int64Counter(name string, opts ...otelmetric.Int64CounterOption) (otelmetric.Int64Counter, error) {
	counter, err := x.Meter.Int64Counter(name, opts...)
	if err != nil {
		return nil, err
	}
	return &countingCounter{Int64Counter: counter, value: x.provider.counter(name)}, nil
}

type countingCounter struct {
	otelmetric.Int64Counter
	value *atomic.Int64
}

func (x *countingCounter) Add(_ context.Context, incr int64, _ ...otelmetric.AddOption) {
	x.value.Add(incr)
}
