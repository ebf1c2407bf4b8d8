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

// State is the lifecycle state of a reference.
//
//	Unstarted → Starting → Started ⇄ Paused → Stopped
//
// Every state may move to Stopped; nothing leaves Stopped.
type State int

const (
	// Unstarted is the state of a reference that never ran PreStart
	Unstarted State = iota
	// Starting is the window while PreStart runs
	Starting
	// Started means attached to a loop with the mailbox connected
	Started
	// Paused means detached with the mailbox buffering
	Paused
	// Stopped is terminal
	Stopped
)

// String returns the name of the state
func (s State) String() string {
	switch s {
	case Unstarted:
		return "Unstarted"
	case Starting:
		return "Starting"
	case Started:
		return "Started"
	case Paused:
		return "Paused"
	case Stopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}
