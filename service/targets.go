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
	"sync"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	opentracinglog "github.com/opentracing/opentracing-go/log"
	"go.uber.org/netsvc/api/srv"
	"go.uber.org/netsvc/netsvcerrors"
	"go.uber.org/zap"
)

const _lookupOperation = "netsvc.lookup-service"

type lookupResult struct {
	targets []srv.Target
	err     error
}

// targetCache memoizes the targets of a Service. Concurrent first lookups
// share one resolver call.
type targetCache struct {
	lock sync.Mutex

	resolved bool
	targets  []srv.Target
	inflight bool
	waiters  []chan lookupResult
}

// acquire returns the memoized targets if there are any. Otherwise it
// returns a channel delivering the outcome of the lookup in flight, or nil
// when the caller must look the targets up itself and call release.
func (c *targetCache) acquire() (targets []srv.Target, resolved bool, wait <-chan lookupResult) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.resolved {
		return c.targets, true, nil
	}
	if !c.inflight {
		c.inflight = true
		return nil, false, nil
	}
	ch := make(chan lookupResult, 1)
	c.waiters = append(c.waiters, ch)
	return nil, false, ch
}

// release ends the lookup in flight. Failures are not memoized.
func (c *targetCache) release(targets []srv.Target, err error) []srv.Target {
	c.lock.Lock()
	if err == nil {
		c.resolved = true
		c.targets = append([]srv.Target{}, targets...)
		targets = c.targets
	}
	c.inflight = false
	waiters := c.waiters
	c.waiters = nil
	c.lock.Unlock()

	for _, w := range waiters {
		w <- lookupResult{targets: targets, err: err}
	}
	return targets
}

func (c *targetCache) snapshot() ([]srv.Target, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if !c.resolved {
		return nil, false
	}
	return append([]srv.Target(nil), c.targets...), true
}

// retryable reports whether a waiter should start its own lookup after the
// one it waited on failed: the lookup was cut short by its caller's context
// while the waiter's context is still live.
func retryable(ctx context.Context, err error) bool {
	return netsvcerrors.IsCancellation(err) && ctx.Err() == nil
}

// lookupTargets blocks until the targets are known.
func (s *Service) lookupTargets(ctx context.Context) ([]srv.Target, error) {
	for {
		targets, resolved, wait := s.targets.acquire()
		if resolved {
			return targets, nil
		}
		if wait == nil {
			span, ctx := s.startLookup(ctx)
			targets, err := s.opts.resolver.LookupService(ctx, s.service, s.protocol, s.domain)
			return s.finishLookup(span, targets, err)
		}

		select {
		case r := <-wait:
			if r.err != nil && retryable(ctx, r.err) {
				continue
			}
			return r.targets, r.err
		case <-ctx.Done():
			return nil, netsvcerrors.FromContext(ctx, "waiting for targets of %s", s.name)
		}
	}
}

// lookupTargetsAsync calls done once the targets are known. done may run
// before lookupTargetsAsync returns.
func (s *Service) lookupTargetsAsync(ctx context.Context, done srv.LookupFunc) {
	targets, resolved, wait := s.targets.acquire()
	switch {
	case resolved:
		done(targets, nil)
	case wait == nil:
		span, ctx := s.startLookup(ctx)
		s.opts.resolver.LookupServiceAsync(ctx, s.service, s.protocol, s.domain, func(targets []srv.Target, err error) {
			done(s.finishLookup(span, targets, err))
		})
	default:
		go func() {
			select {
			case r := <-wait:
				if r.err != nil && retryable(ctx, r.err) {
					s.lookupTargetsAsync(ctx, done)
					return
				}
				done(r.targets, r.err)
			case <-ctx.Done():
				done(nil, netsvcerrors.FromContext(ctx, "waiting for targets of %s", s.name))
			}
		}()
	}
}

func (s *Service) startLookup(ctx context.Context) (opentracing.Span, context.Context) {
	s.observer.IncLookups()
	span, ctx := opentracing.StartSpanFromContextWithTracer(ctx, s.opts.tracer, _lookupOperation,
		opentracing.Tags{
			"netsvc.service":  s.service,
			"netsvc.protocol": s.protocol,
			"netsvc.domain":   s.domain,
		},
	)
	ext.SpanKindRPCClient.Set(span)
	return span, ctx
}

func (s *Service) finishLookup(span opentracing.Span, targets []srv.Target, err error) ([]srv.Target, error) {
	defer span.Finish()

	if err != nil {
		switch {
		case netsvcerrors.IsStatus(err):
		case netsvcerrors.IsCancellation(err):
			err = netsvcerrors.FromError(err)
		default:
			err = netsvcerrors.ResolutionFailureErrorf("error resolving %q: %w", s.name, err)
		}
		ext.Error.Set(span, true)
		span.LogFields(opentracinglog.Error(err))
		s.observer.IncLookupFailures(err)
		s.logger.Debug("service lookup failed", zap.Error(err))
		s.targets.release(nil, err)
		return nil, err
	}

	span.SetTag("netsvc.targets", len(targets))
	s.logger.Debug("resolved service", zap.Int("targets", len(targets)))
	return s.targets.release(targets, nil), nil
}
