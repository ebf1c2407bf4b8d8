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
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestRuntimeMetric(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	instruments, err := NewRuntimeMetric(meter)
	require.NoError(t, err)
	require.NotNil(t, instruments)

	require.NotNil(t, instruments.Delivered())
	require.NotNil(t, instruments.Deadletters())
	require.NotNil(t, instruments.Retries())
	require.NotNil(t, instruments.Actors())
}

func TestRuntimeMetricErrors(t *testing.T) {
	errBoom := errors.New("boom")
	baseMeter := noop.NewMeterProvider().Meter("test")

	for _, failKey := range []string{
		"actor.messages.delivered",
		"actor.messages.deadletters",
		"actor.delivery.retries",
		"actorsystem.actors.count",
	} {
		t.Run(failKey, func(t *testing.T) {
			meter := instrumentFailingMeter{
				Meter:    baseMeter,
				failures: map[string]error{failKey: errBoom},
			}

			instruments, err := NewRuntimeMetric(meter)
			require.ErrorIs(t, err, errBoom)
			require.Nil(t, instruments)
		})
	}
}

func TestMeter(t *testing.T) {
	prevProvider := otel.GetMeterProvider()
	recorder := &recorderMeterProvider{MeterProvider: noop.NewMeterProvider()}
	otel.SetMeterProvider(recorder)
	t.Cleanup(func() {
		otel.SetMeterProvider(prevProvider)
	})

	require.NotNil(t, Meter(nil))
	require.Equal(t, []string{instrumentationName}, recorder.called)

	custom := &recorderMeterProvider{MeterProvider: noop.NewMeterProvider()}
	require.NotNil(t, Meter(custom))
	require.Equal(t, []string{instrumentationName}, custom.called)
	require.Len(t, recorder.called, 1)
}

type recorderMeterProvider struct {
	metric.MeterProvider
	called []string
}

func (r *recorderMeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	r.called = append(r.called, name)
	return r.MeterProvider.Meter(name, opts...)
}

type instrumentFailingMeter struct {
	metric.Meter
	failures map[string]error
}

func (m instrumentFailingMeter) Int64Counter(name string, opts ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	if err, ok := m.failures[name]; ok {
		return nil, err
	}
	return m.Meter.Int64Counter(name, opts...)
}

func (m instrumentFailingMeter) Int64UpDownCounter(name string, opts ...metric.Int64UpDownCounterOption) (metric.Int64UpDownCounter, error) {
	if err, ok := m.failures[name]; ok {
		return nil, err
	}
	return m.Meter.Int64UpDownCounter(name, opts...)
}
