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

package network

import (
	"context"
	"net"
	"net/netip"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/netsvc/api/connectable"
	"go.uber.org/netsvc/internal/stepguard"
	"go.uber.org/netsvc/netsvcerrors"
	"go.uber.org/zap"
)

// enumerator expands an Address once and then hands out the candidates in
// lookup order.
type enumerator struct {
	addr  *Address
	proxy bool
	guard stepguard.Guard

	expanded   bool
	candidates []net.Addr
	next       int
}

var _ connectable.AddressEnumerator = (*enumerator)(nil)

func (e *enumerator) Next(ctx context.Context) (net.Addr, error) {
	if !e.expanded {
		// Failures are reported once; the enumerator is exhausted afterwards.
		e.expanded = true
		candidates, err := e.expand(ctx)
		if err != nil {
			return nil, err
		}
		e.candidates = candidates
	}
	return e.pop(), nil
}

func (e *enumerator) NextAsync(ctx context.Context, done connectable.NextFunc) error {
	if err := e.guard.Begin("network enumerator"); err != nil {
		return err
	}
	if e.expanded {
		addr := e.pop()
		e.guard.End()
		done(addr, nil)
		return nil
	}
	go func() {
		addr, err := e.Next(ctx)
		e.guard.End()
		done(addr, err)
	}()
	return nil
}

func (e *enumerator) Close() error {
	e.candidates = nil
	e.next = 0
	e.expanded = true
	return nil
}

func (e *enumerator) pop() net.Addr {
	if e.next >= len(e.candidates) {
		return nil
	}
	addr := e.candidates[e.next]
	e.next++
	return addr
}

func (e *enumerator) expand(ctx context.Context) ([]net.Addr, error) {
	a := e.addr
	if !e.proxy {
		ips, err := e.lookup(ctx, a.hostname)
		if err != nil {
			return nil, err
		}
		addrs := make([]net.Addr, 0, len(ips))
		for _, ip := range ips {
			addrs = append(addrs, a.socketAddr(ip, a.port))
		}
		return addrs, nil
	}

	destURI := a.URI()
	dest, err := url.Parse(destURI)
	if err != nil {
		return nil, netsvcerrors.AddressExpansionFailureErrorf("invalid destination URI %q: %w", destURI, err)
	}
	proxyURL, err := a.opts.proxy(dest)
	if err != nil {
		return nil, netsvcerrors.AddressExpansionFailureErrorf("cannot determine proxy for %q: %w", destURI, err)
	}

	host, port, protocol := a.hostname, a.port, ProtocolDirect
	if proxyURL != nil {
		var ok bool
		if port, ok = proxyPort(proxyURL); !ok {
			return nil, netsvcerrors.AddressExpansionFailureErrorf("proxy %q for %q has no usable port", proxyURL.Redacted(), destURI)
		}
		host, protocol = proxyURL.Hostname(), proxyURL.Scheme
	}

	ips, err := e.lookup(ctx, host)
	if err != nil {
		return nil, err
	}
	addrs := make([]net.Addr, 0, len(ips))
	for _, ip := range ips {
		addrs = append(addrs, &ProxyAddress{
			Addr:                a.socketAddr(ip, port),
			Protocol:            protocol,
			Proxy:               proxyURL,
			DestinationURI:      destURI,
			DestinationHostname: a.hostname,
			DestinationPort:     a.port,
		})
	}
	return addrs, nil
}

func (e *enumerator) lookup(ctx context.Context, host string) ([]net.IPAddr, error) {
	if ip, err := netip.ParseAddr(strings.Trim(host, "[]")); err == nil {
		return []net.IPAddr{{IP: net.IP(ip.AsSlice()), Zone: ip.Zone()}}, nil
	}

	logger := e.addr.opts.logger.With(zap.String("host", host))
	ips, err := e.addr.opts.lookuper.LookupIPAddr(ctx, host)
	if err != nil {
		if st := netsvcerrors.FromContext(ctx, "expanding %q", host); st != nil {
			return nil, st
		}
		logger.Debug("address expansion failed", zap.Error(err))
		return nil, netsvcerrors.AddressExpansionFailureErrorf("cannot resolve %q: %w", host, err)
	}
	if len(ips) == 0 {
		return nil, netsvcerrors.AddressExpansionFailureErrorf("no addresses found for %q", host)
	}
	logger.Debug("expanded address", zap.Int("candidates", len(ips)))
	return ips, nil
}

func parsePort(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	return uint16(n), err
}
