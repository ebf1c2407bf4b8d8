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

package metric

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/tochemey/loopactor"

// Meter returns the runtime meter from the given provider,
// falling back to the global provider when nil.
func Meter(provider metric.MeterProvider) metric.Meter {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	return provider.Meter(instrumentationName)
}

// RuntimeMetric defines the actor runtime instrumentation
type RuntimeMetric struct {
	// Specifies the total number of messages handed to actors
	delivered metric.Int64Counter
	// Specifies the total number of messages dropped without delivery
	deadletters metric.Int64Counter
	// Specifies the total number of retried loop submissions
	retries metric.Int64Counter
	// Specifies the number of live actors
	actors metric.Int64UpDownCounter
}

// NewRuntimeMetric creates an instance of RuntimeMetric
func NewRuntimeMetric(meter metric.Meter) (*RuntimeMetric, error) {
	runtimeMetric := new(RuntimeMetric)
	var err error

	if runtimeMetric.delivered, err = meter.Int64Counter(
		"actor.messages.delivered",
		metric.WithDescription("Total number of messages delivered to actors"),
	); err != nil {
		return nil, fmt.Errorf("failed to create delivered instrument, %w", err)
	}

	if runtimeMetric.deadletters, err = meter.Int64Counter(
		"actor.messages.deadletters",
		metric.WithDescription("Total number of messages dropped without delivery"),
	); err != nil {
		return nil, fmt.Errorf("failed to create deadletters instrument, %w", err)
	}

	if runtimeMetric.retries, err = meter.Int64Counter(
		"actor.delivery.retries",
		metric.WithDescription("Total number of retried submissions to an execution loop"),
	); err != nil {
		return nil, fmt.Errorf("failed to create retries instrument, %w", err)
	}

	if runtimeMetric.actors, err = meter.Int64UpDownCounter(
		"actorsystem.actors.count",
		metric.WithDescription("Number of live actors"),
	); err != nil {
		return nil, fmt.Errorf("failed to create actors instrument, %w", err)
	}

	return runtimeMetric, nil
}

// Delivered returns the delivered messages counter
func (x *RuntimeMetric) Delivered() metric.Int64Counter {
	return x.delivered
}

// Deadletters returns the dead letters counter
func (x *RuntimeMetric) Deadletters() metric.Int64Counter {
	return x.deadletters
}

// Retries returns the delivery retries counter
func (x *RuntimeMetric) Retries() metric.Int64Counter {
	return x.retries
}

// Actors returns the live actors counter
func (x *RuntimeMetric) Actors() metric.Int64UpDownCounter {
	return x.actors
}
