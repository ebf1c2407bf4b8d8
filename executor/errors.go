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

import "errors"

var (
	// ErrLoopStopped is returned when posting to a loop that no longer accepts work
	ErrLoopStopped = errors.New("loop is stopped")
	// ErrLoopSaturated is returned when posting to a bounded loop that is full
	ErrLoopSaturated = errors.New("loop is saturated")
	// ErrShutdown is returned when executing a task on an executor that has been shut down
	ErrShutdown = errors.New("executor is shut down")
	// ErrAttachFailed is returned when the task refused its loop
	ErrAttachFailed = errors.New("task refused to attach")
	// ErrInvalidWorkers is returned when a pool is created without workers
	ErrInvalidWorkers = errors.New("invalid number of workers, must be greater than zero")
)
