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

package executor

import "github.com/tochemey/loopactor/log"

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(cfg *config)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(cfg *config)

// Apply applies the options to the config
func (f OptionFunc) Apply(cfg *config) {
	f(cfg)
}

type config struct {
	capacity int
	logger   log.Logger
}

func newConfig(opts ...Option) *config {
	cfg := &config{logger: log.DiscardLogger}
	for _, opt := range opts {
		opt.Apply(cfg)
	}
	return cfg
}

// WithCapacity bounds every loop queue. Posting to a full loop fails with
// ErrLoopSaturated. The capacity is rounded up to a power of two, with a
// minimum of two. Zero or negative means unbounded.
func WithCapacity(capacity int) Option {
	return OptionFunc(func(cfg *config) {
		cfg.capacity = capacity
	})
}

// WithLogger sets the logger used to report panics escaping work items.
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	})
}
