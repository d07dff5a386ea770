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

package resolver

import (
	"context"
	"strings"

	"go.uber.org/netsvc/api/srv"
	"go.uber.org/netsvc/netsvcerrors"
)

// Static answers lookups from a fixed table keyed by "_service._proto.domain".
type Static struct {
	records  map[string][]srv.Target
	shuffler shuffler
}

var _ srv.Resolver = (*Static)(nil)

// NewStatic builds a Static resolver. Names missing from records fail with
// CodeResolutionFailure; names mapped to an empty list resolve to no targets.
func NewStatic(records map[string][]srv.Target, opts ...Option) *Static {
	o := newOptions(opts)
	s := &Static{
		records:  make(map[string][]srv.Target, len(records)),
		shuffler: shuffler{rand: o.rand},
	}
	for name, targets := range records {
		s.records[staticKey(name)] = append([]srv.Target(nil), targets...)
	}
	return s
}

// LookupService implements srv.Resolver.
func (s *Static) LookupService(ctx context.Context, service, protocol, domain string) ([]srv.Target, error) {
	name := srv.Name(service, protocol, domain)
	if err := ctx.Err(); err != nil {
		return nil, lookupError(ctx, name, err)
	}

	targets, ok := s.records[staticKey(name)]
	if !ok {
		return nil, netsvcerrors.ResolutionFailureErrorf("no service records found for %q", name)
	}
	return s.shuffler.order(append([]srv.Target(nil), targets...)), nil
}

// LookupServiceAsync implements srv.Resolver.
func (s *Static) LookupServiceAsync(ctx context.Context, service, protocol, domain string, done srv.LookupFunc) {
	lookupAsync(ctx, s, service, protocol, domain, done)
}

func staticKey(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, "."))
}
