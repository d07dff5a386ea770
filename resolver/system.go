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
	"net"
	"strings"

	"go.uber.org/netsvc/api/srv"
	"go.uber.org/zap"
)

// System resolves services through a *net.Resolver, which already returns
// targets in RFC 2782 order.
type System struct {
	resolver *net.Resolver
	opts     options
}

var _ srv.Resolver = (*System)(nil)

// NewSystem builds a System resolver backed by net.DefaultResolver.
func NewSystem(opts ...Option) *System {
	return NewSystemFrom(net.DefaultResolver, opts...)
}

// NewSystemFrom builds a System resolver backed by the given *net.Resolver.
func NewSystemFrom(r *net.Resolver, opts ...Option) *System {
	return &System{resolver: r, opts: newOptions(opts)}
}

// LookupService implements srv.Resolver.
func (s *System) LookupService(ctx context.Context, service, protocol, domain string) ([]srv.Target, error) {
	name := srv.Name(service, protocol, domain)
	_, records, err := s.resolver.LookupSRV(ctx, service, protocol, domain)
	if err != nil {
		return nil, lookupError(ctx, name, err)
	}

	targets := make([]srv.Target, 0, len(records))
	for _, r := range records {
		host := strings.TrimSuffix(r.Target, ".")
		if host == "" {
			// A lone "." means the service is decidedly not available.
			continue
		}
		targets = append(targets, srv.Target{
			Hostname: host,
			Port:     r.Port,
			Priority: r.Priority,
			Weight:   r.Weight,
		})
	}
	s.opts.logger.Debug("resolved service",
		zap.String("name", name),
		zap.Int("targets", len(targets)))
	return targets, nil
}

// LookupServiceAsync implements srv.Resolver.
func (s *System) LookupServiceAsync(ctx context.Context, service, protocol, domain string, done srv.LookupFunc) {
	lookupAsync(ctx, s, service, protocol, domain, done)
}
