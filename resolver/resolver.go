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

// Package resolver provides srv.Resolver implementations: the system
// resolver, a DNS client speaking to explicit nameservers, and a static
// table for tests and local setups.
package resolver

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/netsvc/api/srv"
	"go.uber.org/netsvc/netsvcerrors"
	"go.uber.org/zap"
)

type options struct {
	logger *zap.Logger
	rand   *rand.Rand
}

// Option customizes a resolver.
type Option func(*options)

// Logger sets the logger of a resolver.
func Logger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Rand sets the source of randomness used to order targets of equal
// priority by weight.
func Rand(r *rand.Rand) Option {
	return func(o *options) {
		o.rand = r
	}
}

func newOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rand == nil {
		o.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o
}

// shuffler serializes access to a *rand.Rand, which is not safe for
// concurrent use.
type shuffler struct {
	sync.Mutex

	rand *rand.Rand
}

func (s *shuffler) order(targets []srv.Target) []srv.Target {
	s.Lock()
	defer s.Unlock()
	return Order(targets, s.rand)
}

// blockingResolver is the half of srv.Resolver every implementation here
// writes by hand.
type blockingResolver interface {
	LookupService(ctx context.Context, service, protocol, domain string) ([]srv.Target, error)
}

// lookupAsync runs a blocking lookup on its own goroutine.
func lookupAsync(ctx context.Context, r blockingResolver, service, protocol, domain string, done srv.LookupFunc) {
	go func() {
		done(r.LookupService(ctx, service, protocol, domain))
	}()
}

func lookupError(ctx context.Context, name string, err error) error {
	if st := netsvcerrors.FromContext(ctx, "resolving %q", name); st != nil {
		return st
	}
	if netsvcerrors.IsStatus(err) {
		return err
	}
	return netsvcerrors.ResolutionFailureErrorf("error resolving %q: %w", name, err)
}
