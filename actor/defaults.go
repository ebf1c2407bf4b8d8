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

import "time"

const (
	// DefaultThroughput is the number of messages an actor handles before
	// yielding its worker
	DefaultThroughput = 10
	// DefaultDeliveryRetries is the number of attempts made to hand work to a saturated loop
	DefaultDeliveryRetries = 3
	// DefaultRetryInitialDelay is the wait before the second attempt
	DefaultRetryInitialDelay = time.Millisecond
	// DefaultRetryMaxDelay caps the wait between attempts
	DefaultRetryMaxDelay = 10 * time.Millisecond

	// schedulerName is reserved for the scheduler of every system
	schedulerName = "scheduler"
)
