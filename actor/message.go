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
	"fmt"
)

// ControlCode is a lifecycle signal carried on the same channel as user messages
type ControlCode int

const (
	// PauseCode pauses the receiving actor
	PauseCode ControlCode = iota + 1
	// StopCode stops the receiving actor once every accepted message is delivered
	StopCode
	// StopNowCode stops the receiving actor and discards undelivered messages
	StopNowCode

	// terminateCode marks the end of an actor backlog. It is never accepted from senders.
	terminateCode ControlCode = -1
)

// String returns the name of the code
func (c ControlCode) String() string {
	switch c {
	case PauseCode:
		return "Pause"
	case StopCode:
		return "Stop"
	case StopNowCode:
		return "StopNow"
	case terminateCode:
		return "terminate"
	default:
		return fmt.Sprintf("ControlCode(%d)", int(c))
	}
}

// Valid reports whether senders may use the code
func (c ControlCode) Valid() bool {
	return c == PauseCode || c == StopCode || c == StopNowCode
}

// Message is either a user payload or a control code.
type Message[M any] struct {
	payload M
	code    ControlCode
}

// UserMessage wraps a user payload
func UserMessage[M any](payload M) Message[M] {
	return Message[M]{payload: payload}
}

// ControlMessage wraps a control code
func ControlMessage[M any](code ControlCode) Message[M] {
	return Message[M]{code: code}
}

// IsControl reports whether the message carries a control code
func (m Message[M]) IsControl() bool {
	return m.code != 0
}

// Code returns the control code, zero for user messages
func (m Message[M]) Code() ControlCode {
	return m.code
}

// Payload returns the user payload, the zero value for control messages
func (m Message[M]) Payload() M {
	return m.payload
}

func (m Message[M]) isTerminate() bool {
	return m.code == terminateCode
}

// DeliveryResult is the outcome of a single send attempt
type DeliveryResult int

const (
	// DeliverySuccess means the message was accepted
	DeliverySuccess DeliveryResult = iota
	// DeliveryFailureCanRetry means the attempt failed but the message may be
	// sent again through another path
	DeliveryFailureCanRetry
	// DeliveryFailureNoRetry means the message is refused for good
	DeliveryFailureNoRetry
)

// String returns the name of the result
func (r DeliveryResult) String() string {
	switch r {
	case DeliverySuccess:
		return "Success"
	case DeliveryFailureCanRetry:
		return "FailureCanRetry"
	case DeliveryFailureNoRetry:
		return "FailureNoRetry"
	default:
		return fmt.Sprintf("DeliveryResult(%d)", int(r))
	}
}

// Channel is the send side of an actor.
type Channel[M any] interface {
	// Send hands message to the channel
	Send(ctx context.Context, message Message[M]) DeliveryResult
	// Stop stops the channel. Immediate stops discard undelivered messages;
	// graceful ones deliver every accepted message first. Stop is idempotent
	// and later calls return the first call's result.
	Stop(immediate bool) bool
}
