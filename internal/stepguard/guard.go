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

// Package stepguard enforces the one-outstanding-step rule of asynchronous
// address enumerators.
package stepguard

import (
	"go.uber.org/atomic"
	"go.uber.org/netsvc/netsvcerrors"
)

// Guard tracks whether an asynchronous step is in flight. The zero value is
// ready to use.
type Guard struct {
	busy atomic.Bool
}

// Begin marks the start of a step. It fails with CodeFailedPrecondition if a
// step started by an earlier Begin has not ended yet.
func (g *Guard) Begin(owner string) error {
	if !g.busy.CompareAndSwap(false, true) {
		return netsvcerrors.FailedPreconditionErrorf(
			"%s: an asynchronous step is already outstanding", owner)
	}
	return nil
}

// End marks the step as complete. It must be called before the step's
// completion callback runs so that the callback may start the next step.
func (g *Guard) End() {
	g.busy.Store(false)
}

// Busy reports whether a step is in flight.
func (g *Guard) Busy() bool {
	return g.busy.Load()
}
