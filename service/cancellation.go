// Copyright (c) 2026 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package service

import (
	"fmt"
	"strings"
)

// CancellationPolicy decides what an enumerator does with a target that
// fails while the context of the current step is done.
type CancellationPolicy int

const (
	// CancelStep returns the failure from the current step only. The target
	// is discarded, nothing is recorded, and a later step with a live
	// context continues with the remaining targets.
	CancelStep CancellationPolicy = iota

	// CancelFold records the failure like any other target failure and
	// keeps walking targets within the same step. The cancellation surfaces
	// once all targets are exhausted.
	CancelFold
)

var _cancellationNames = map[CancellationPolicy]string{
	CancelStep: "step",
	CancelFold: "fold",
}

func (p CancellationPolicy) String() string {
	if s, ok := _cancellationNames[p]; ok {
		return s
	}
	return fmt.Sprintf("CancellationPolicy(%d)", int(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p CancellationPolicy) MarshalText() ([]byte, error) {
	s, ok := _cancellationNames[p]
	if !ok {
		return nil, fmt.Errorf("unknown cancellation policy: %d", int(p))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *CancellationPolicy) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "", "step":
		*p = CancelStep
	case "fold":
		*p = CancelFold
	default:
		return fmt.Errorf("unknown cancellation policy: %q", text)
	}
	return nil
}
