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

package connectabletest

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/netsvc/api/connectable"
	"go.uber.org/netsvc/internal/stepguard"
	"go.uber.org/netsvc/netsvcerrors"
)

// _maxDrainSteps bounds Drain and DrainAsync so a misbehaving enumerator
// fails the test instead of hanging it.
const _maxDrainSteps = 10000

// Step is one scripted outcome of a FakeEnumerator.
type Step struct {
	Addr net.Addr
	Err  error

	// WaitForCancel makes the step block until the step's context ends and
	// then fail with a Status describing the cancellation.
	WaitForCancel bool
}

// TCPAddr builds a *net.TCPAddr from an IP literal and a port.
func TCPAddr(ip string, port int) *net.TCPAddr {
	return &net.TCPAddr{IP: net.ParseIP(ip), Port: port}
}

// FakeEnumeratorOption customizes a FakeEnumerator.
type FakeEnumeratorOption func(*FakeEnumerator)

// AsyncOnGoroutine makes NextAsync complete on a new goroutine instead of
// before it returns.
func AsyncOnGoroutine() FakeEnumeratorOption {
	return func(e *FakeEnumerator) {
		e.goroutine = true
	}
}

// NewFakeEnumerator returns an enumerator that replays steps in order and
// then reports exhaustion.
func NewFakeEnumerator(steps []Step, opts ...FakeEnumeratorOption) *FakeEnumerator {
	e := &FakeEnumerator{steps: append([]Step(nil), steps...)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FakeEnumerator is a scripted connectable.AddressEnumerator.
type FakeEnumerator struct {
	lock sync.Mutex

	steps     []Step
	goroutine bool
	guard     stepguard.Guard
	calls     int
	closed    bool
}

var _ connectable.AddressEnumerator = (*FakeEnumerator)(nil)

// Next replays the next step.
func (e *FakeEnumerator) Next(ctx context.Context) (net.Addr, error) {
	return e.pop(ctx)
}

// NextAsync replays the next step through done.
func (e *FakeEnumerator) NextAsync(ctx context.Context, done connectable.NextFunc) error {
	if err := e.guard.Begin("fake enumerator"); err != nil {
		return err
	}
	run := func() {
		addr, err := e.pop(ctx)
		e.guard.End()
		done(addr, err)
	}
	if e.goroutine {
		go run()
	} else {
		run()
	}
	return nil
}

// Close records that the enumerator was closed.
func (e *FakeEnumerator) Close() error {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.closed = true
	return nil
}

// Closed reports whether Close was called.
func (e *FakeEnumerator) Closed() bool {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.closed
}

// Calls returns the number of steps taken so far, including the ones that
// reported exhaustion.
func (e *FakeEnumerator) Calls() int {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.calls
}

func (e *FakeEnumerator) pop(ctx context.Context) (net.Addr, error) {
	e.lock.Lock()
	e.calls++
	if len(e.steps) == 0 {
		e.lock.Unlock()
		return nil, nil
	}
	step := e.steps[0]
	e.steps = e.steps[1:]
	e.lock.Unlock()

	if step.WaitForCancel {
		<-ctx.Done()
		return nil, netsvcerrors.FromContext(ctx, "fake enumerator step")
	}
	return step.Addr, step.Err
}

// NewFakeConnectable returns a Connectable whose Enumerate and
// ProxyEnumerate replay the given steps. Every call builds a fresh
// FakeEnumerator.
func NewFakeConnectable(direct, proxy []Step, opts ...FakeEnumeratorOption) *FakeConnectable {
	return &FakeConnectable{direct: direct, proxy: proxy, opts: opts}
}

// FakeConnectable is a scripted connectable.Connectable.
type FakeConnectable struct {
	lock sync.Mutex

	direct, proxy []Step
	opts          []FakeEnumeratorOption
	enumerators   []*FakeEnumerator
	proxied       []bool
}

var _ connectable.Connectable = (*FakeConnectable)(nil)

// Enumerate returns a FakeEnumerator over the direct steps.
func (c *FakeConnectable) Enumerate() connectable.AddressEnumerator {
	return c.build(c.direct, false)
}

// ProxyEnumerate returns a FakeEnumerator over the proxy steps.
func (c *FakeConnectable) ProxyEnumerate() connectable.AddressEnumerator {
	return c.build(c.proxy, true)
}

// Enumerators returns every enumerator built so far, and whether each one
// came from ProxyEnumerate.
func (c *FakeConnectable) Enumerators() ([]*FakeEnumerator, []bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return append([]*FakeEnumerator(nil), c.enumerators...), append([]bool(nil), c.proxied...)
}

func (c *FakeConnectable) build(steps []Step, proxy bool) *FakeEnumerator {
	e := NewFakeEnumerator(steps, c.opts...)
	c.lock.Lock()
	c.enumerators = append(c.enumerators, e)
	c.proxied = append(c.proxied, proxy)
	c.lock.Unlock()
	return e
}

// Result is one non-terminal outcome observed while draining an enumerator.
type Result struct {
	Addr net.Addr
	Err  error
}

func (r Result) String() string {
	if r.Err != nil {
		return "error: " + r.Err.Error()
	}
	return r.Addr.Network() + "/" + r.Addr.String()
}

// Drain calls Next until the enumerator reports exhaustion and returns every
// address and error seen on the way.
func Drain(ctx context.Context, e connectable.AddressEnumerator) ([]Result, error) {
	var results []Result
	for i := 0; i < _maxDrainSteps; i++ {
		addr, err := e.Next(ctx)
		if addr == nil && err == nil {
			return results, nil
		}
		results = append(results, Result{Addr: addr, Err: err})
	}
	return results, fmt.Errorf("enumerator not exhausted after %d steps", _maxDrainSteps)
}

// DrainAsync is Drain for NextAsync: it chains one step after the other and
// waits at most timeout for each completion.
func DrainAsync(ctx context.Context, e connectable.AddressEnumerator, timeout time.Duration) ([]Result, error) {
	var results []Result
	for i := 0; i < _maxDrainSteps; i++ {
		ch := make(chan Result, 1)
		if err := e.NextAsync(ctx, func(addr net.Addr, err error) {
			ch <- Result{Addr: addr, Err: err}
		}); err != nil {
			return results, err
		}

		select {
		case r := <-ch:
			if r.Addr == nil && r.Err == nil {
				return results, nil
			}
			results = append(results, r)
		case <-time.After(timeout):
			return results, fmt.Errorf("timed out waiting for step %d after %v", i+1, timeout)
		}
	}
	return results, fmt.Errorf("enumerator not exhausted after %d steps", _maxDrainSteps)
}

// Strings renders results with Result.String, which keeps test expectations
// short.
func Strings(results []Result) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.String())
	}
	return out
}
