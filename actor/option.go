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
	"time"

	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/tochemey/loopactor/executor"
	"github.com/tochemey/loopactor/log"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(sys *System)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(sys *System)

// Apply applies the option to the actor system
func (f OptionFunc) Apply(sys *System) {
	f(sys)
}

// WithLogger sets the system logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(sys *System) {
		sys.logger = logger
	})
}

// WithExecutor sets the executor actors run on. The caller keeps ownership:
// stopping the system does not shut it down.
func WithExecutor(exec executor.Executor) Option {
	return OptionFunc(func(sys *System) {
		sys.executor = exec
	})
}

// WithThroughput sets the number of messages an actor handles before
// yielding its worker
func WithThroughput(throughput int) Option {
	return OptionFunc(func(sys *System) {
		sys.throughput = throughput
	})
}

// WithDeliveryRetries sets the number of attempts made to hand work to a
// saturated loop before the actor is stopped
func WithDeliveryRetries(tries int) Option {
	return OptionFunc(func(sys *System) {
		sys.deliveryRetries = tries
	})
}

// WithRetryBackoff sets the wait between delivery attempts
func WithRetryBackoff(initial, maxDelay time.Duration) Option {
	return OptionFunc(func(sys *System) {
		sys.retryInitialDelay = initial
		sys.retryMaxDelay = maxDelay
	})
}

// WithMeterProvider sets the OpenTelemetry meter provider.
// The global provider is used by default.
func WithMeterProvider(provider otelmetric.MeterProvider) Option {
	return OptionFunc(func(sys *System) {
		sys.meterProvider = provider
	})
}

// RegisterOption configures a registration
type RegisterOption func(cfg *registerConfig)

type registerConfig struct {
	logger log.Logger
}

func newRegisterConfig(opts ...RegisterOption) *registerConfig {
	cfg := new(registerConfig)
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithActorLogger sets the logger of the registered actor.
// The system logger is used by default.
func WithActorLogger(logger log.Logger) RegisterOption {
	return func(cfg *registerConfig) {
		cfg.logger = logger
	}
}
