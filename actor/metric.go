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

	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/tochemey/loopactor/internal/metric"
)

// instruments records the runtime metrics of a system
type instruments struct {
	metrics    *metric.RuntimeMetric
	attributes otelmetric.MeasurementOption
}

func newInstruments(provider otelmetric.MeterProvider, systemName string) (*instruments, error) {
	metrics, err := metric.NewRuntimeMetric(metric.Meter(provider))
	if err != nil {
		return nil, err
	}
	return &instruments{
		metrics:    metrics,
		attributes: otelmetric.WithAttributeSet(attribute.NewSet(attribute.String("actor.system", systemName))),
	}, nil
}

func (s *System) recordDelivered(ctx context.Context) {
	s.instruments.metrics.Delivered().Add(ctx, 1, s.instruments.attributes)
}

func (s *System) recordDeadletter(ctx context.Context) {
	s.instruments.metrics.Deadletters().Add(ctx, 1, s.instruments.attributes)
}

func (s *System) recordRetry(ctx context.Context) {
	s.instruments.metrics.Retries().Add(ctx, 1, s.instruments.attributes)
}

func (s *System) recordActors(ctx context.Context, delta int64) {
	s.instruments.metrics.Actors().Add(ctx, delta, s.instruments.attributes)
}
