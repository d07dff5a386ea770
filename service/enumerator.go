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
	"context"
	"net"

	"go.uber.org/multierr"
	"go.uber.org/netsvc/api/connectable"
	"go.uber.org/netsvc/api/srv"
	"go.uber.org/netsvc/internal/observer"
	"go.uber.org/netsvc/internal/stepguard"
	"go.uber.org/netsvc/netsvcerrors"
	"go.uber.org/zap"
)

type state int

const (
	stateResolvingTargets state = iota
	stateExpandingTarget
	statePullingAddress
	stateExhausted
	stateFailed
)

func (s state) String() string {
	switch s {
	case stateResolvingTargets:
		return "resolving-targets"
	case stateExpandingTarget:
		return "expanding-target"
	case statePullingAddress:
		return "pulling-address"
	case stateExhausted:
		return "exhausted"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// enumerator walks the targets of a Service and the addresses of each
// target in turn.
//
// It is not safe for concurrent use. An asynchronous step owns the
// enumerator until its completion runs.
type enumerator struct {
	svc    *Service
	proxy  bool
	mode   string
	logger *zap.Logger
	guard  stepguard.Guard

	state   state
	targets []srv.Target
	next    int

	child       connectable.AddressEnumerator
	childTarget srv.Target

	// err holds the first target failure until it is reported.
	err      error
	closeErr error
}

var _ connectable.AddressEnumerator = (*enumerator)(nil)

func (s *Service) newEnumerator(proxy bool) *enumerator {
	mode := observer.ModeDirect
	if proxy {
		mode = observer.ModeProxy
	}
	return &enumerator{
		svc:    s,
		proxy:  proxy,
		mode:   mode,
		logger: s.logger.With(zap.String("mode", mode)),
	}
}

func (e *enumerator) Next(ctx context.Context) (net.Addr, error) {
	if e.guard.Busy() {
		return nil, netsvcerrors.FailedPreconditionErrorf(
			"service enumerator: an asynchronous step is already outstanding")
	}
	if e.state == stateResolvingTargets {
		targets, err := e.svc.lookupTargets(ctx)
		if !e.resolved(targets, err) {
			return nil, err
		}
	}

	for {
		switch e.state {
		case stateExpandingTarget:
			if !e.expand() {
				return e.finish()
			}
		case statePullingAddress:
			next, err := e.child.Next(ctx)
			if addr, ok, err := e.pulled(ctx, next, err); ok {
				return addr, err
			}
		default:
			return nil, nil
		}
	}
}

func (e *enumerator) NextAsync(ctx context.Context, done connectable.NextFunc) error {
	if err := e.guard.Begin("service enumerator"); err != nil {
		return err
	}
	e.stepAsync(ctx, func(addr net.Addr, err error) {
		e.guard.End()
		done(addr, err)
	})
	return nil
}

func (e *enumerator) stepAsync(ctx context.Context, done connectable.NextFunc) {
	if e.state == stateResolvingTargets {
		e.svc.lookupTargetsAsync(ctx, func(targets []srv.Target, err error) {
			if !e.resolved(targets, err) {
				done(nil, err)
				return
			}
			e.stepAsync(ctx, done)
		})
		return
	}

	for {
		switch e.state {
		case stateExpandingTarget:
			if !e.expand() {
				done(e.finish())
				return
			}
		case statePullingAddress:
			err := e.child.NextAsync(ctx, func(next net.Addr, childErr error) {
				if addr, ok, err := e.pulled(ctx, next, childErr); ok {
					done(addr, err)
					return
				}
				e.stepAsync(ctx, done)
			})
			if err == nil {
				return
			}
			// The child refused to start a step; treat it as a failed target.
			if addr, ok, perr := e.pulled(ctx, nil, err); ok {
				done(addr, perr)
				return
			}
		default:
			done(nil, nil)
			return
		}
	}
}

// Close releases the active child. The enumerator yields nothing afterwards.
// It must not be called while an asynchronous step is outstanding.
func (e *enumerator) Close() error {
	e.dropChild()
	if e.state != stateFailed {
		e.state = stateExhausted
	}
	err := e.closeErr
	e.closeErr = nil
	return err
}

// resolved applies the outcome of the target lookup. A failed lookup is
// fatal to the enumerator.
func (e *enumerator) resolved(targets []srv.Target, err error) bool {
	if err != nil {
		e.state = stateFailed
		e.logger.Debug("enumeration failed", zap.Error(err))
		return false
	}
	e.targets = targets
	e.state = stateExpandingTarget
	return true
}

// expand makes the next usable target the active child. It returns false
// once no targets are left.
func (e *enumerator) expand() bool {
	for e.next < len(e.targets) {
		t := e.targets[e.next]
		e.next++

		c, err := e.svc.connectable(t)
		if err != nil {
			e.skip(t, err)
			continue
		}
		if e.proxy {
			e.child = c.ProxyEnumerate()
		} else {
			e.child = c.Enumerate()
		}
		e.childTarget = t
		e.state = statePullingAddress
		return true
	}
	return false
}

// pulled handles one outcome of the active child and reports whether the
// step ends with it.
func (e *enumerator) pulled(ctx context.Context, addr net.Addr, err error) (net.Addr, bool, error) {
	if err == nil && addr != nil {
		e.svc.observer.IncAddresses(e.mode)
		return addr, true, nil
	}

	t := e.childTarget
	e.dropChild()
	e.state = stateExpandingTarget
	if err == nil {
		return nil, false, nil
	}

	if ctx.Err() != nil && e.svc.opts.cancellation == CancelStep {
		e.logger.Debug("step cancelled",
			zap.Stringer("target", t),
			zap.Error(err))
		return nil, true, err
	}
	e.skip(t, err)
	return nil, false, nil
}

func (e *enumerator) skip(t srv.Target, err error) {
	e.logger.Debug("skipping target",
		zap.Stringer("target", t),
		zap.Error(err))
	e.svc.observer.IncSkippedTargets(err)
	if e.err == nil {
		e.err = err
	}
}

// finish exhausts the enumerator and reports the first recorded failure, if
// any.
func (e *enumerator) finish() (net.Addr, error) {
	e.state = stateExhausted
	err := e.err
	e.err = nil
	return nil, err
}

func (e *enumerator) dropChild() {
	if e.child == nil {
		return
	}
	e.closeErr = multierr.Append(e.closeErr, e.child.Close())
	e.child = nil
}
