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
	"strings"
	"unicode"

	gerrors "github.com/tochemey/loopactor/errors"
)

const nameSeparator = "."

// Name identifies an actor within a system. It is a dot-free segment with an
// optional parent name, kept as its canonical dotted path so that names
// compare with == and can be used as map keys.
//
// The zero Name is the root: it has no segment and is the parent of every
// top-level name.
type Name struct {
	path string
}

// NewName creates a top-level Name
func NewName(segment string) (Name, error) {
	if err := validateSegment(segment); err != nil {
		return Name{}, err
	}
	return Name{path: segment}, nil
}

// ParseName parses a dotted path such as "app.workers.0"
func ParseName(path string) (Name, error) {
	if path == "" {
		return Name{}, gerrors.NewErrInvalidName(path)
	}
	for segment := range strings.SplitSeq(path, nameSeparator) {
		if err := validateSegment(segment); err != nil {
			return Name{}, err
		}
	}
	return Name{path: path}, nil
}

// Child returns the Name of segment under n
func (n Name) Child(segment string) (Name, error) {
	if err := validateSegment(segment); err != nil {
		return Name{}, err
	}
	if n.IsRoot() {
		return Name{path: segment}, nil
	}
	return Name{path: n.path + nameSeparator + segment}, nil
}

// Segment returns the last segment of the name
func (n Name) Segment() string {
	if i := strings.LastIndex(n.path, nameSeparator); i >= 0 {
		return n.path[i+1:]
	}
	return n.path
}

// Parent returns the parent name. Top-level names have the root as parent;
// the root has none.
func (n Name) Parent() (Name, bool) {
	if n.IsRoot() {
		return Name{}, false
	}
	if i := strings.LastIndex(n.path, nameSeparator); i >= 0 {
		return Name{path: n.path[:i]}, true
	}
	return Name{}, true
}

// IsRoot reports whether n is the root name
func (n Name) IsRoot() bool {
	return n.path == ""
}

// IsParentOf reports whether n is the direct parent of other
func (n Name) IsParentOf(other Name) bool {
	parent, ok := other.Parent()
	return ok && parent == n
}

// IsAncestorOf reports whether other is nested anywhere under n
func (n Name) IsAncestorOf(other Name) bool {
	if other.IsRoot() {
		return false
	}
	if n.IsRoot() {
		return true
	}
	return strings.HasPrefix(other.path, n.path+nameSeparator)
}

// Depth returns the number of segments
func (n Name) Depth() int {
	if n.IsRoot() {
		return 0
	}
	return strings.Count(n.path, nameSeparator) + 1
}

// String returns the dotted path
func (n Name) String() string {
	return n.path
}

func validateSegment(segment string) error {
	if segment == "" ||
		strings.Contains(segment, nameSeparator) ||
		strings.IndexFunc(segment, unicode.IsSpace) >= 0 {
		return gerrors.NewErrInvalidName(segment)
	}
	return nil
}
