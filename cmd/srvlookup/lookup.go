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

package main

import (
	"context"
	"errors"
	"net"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/config"
	"go.uber.org/netsvc/api/connectable"
	"go.uber.org/netsvc/api/srv"
	"go.uber.org/netsvc/netsvcfx"
	"go.uber.org/netsvc/network"
	"go.uber.org/netsvc/resolver"
	"go.uber.org/netsvc/service"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const _maxConcurrentLookups = 8

type lookupOptions struct {
	resolver     srv.Resolver
	logger       *zap.Logger
	scheme       string
	proxy        bool
	async        bool
	cancellation service.CancellationPolicy
}

type candidate struct {
	Network     string `json:"network" yaml:"network"`
	Address     string `json:"address" yaml:"address"`
	Proxy       string `json:"proxy,omitempty" yaml:"proxy,omitempty"`
	Destination string `json:"destination,omitempty" yaml:"destination,omitempty"`
}

type report struct {
	Service    string       `json:"service" yaml:"service"`
	Targets    []srv.Target `json:"targets" yaml:"targets"`
	Candidates []candidate  `json:"candidates" yaml:"candidates"`
	Errors     []string     `json:"errors,omitempty" yaml:"errors,omitempty"`

	svc *service.Service
}

func newLookupOptions(cCtx *cli.Context, logger *zap.Logger) (lookupOptions, error) {
	cfg := netsvcfx.Config{}
	if path := cCtx.String("config"); path != "" {
		provider, err := config.NewYAML(config.File(path), config.Expand(os.LookupEnv))
		if err != nil {
			return lookupOptions{}, err
		}
		res, err := netsvcfx.NewConfig(netsvcfx.ConfigParams{Provider: provider})
		if err != nil {
			return lookupOptions{}, err
		}
		cfg = res.Config
	}
	if kind := cCtx.String("resolver"); kind != "" {
		cfg.Resolver.Kind = kind
	}
	if servers := cCtx.StringSlice("nameserver"); len(servers) > 0 {
		cfg.Resolver.Nameservers = servers
		if cfg.Resolver.Kind == "" {
			cfg.Resolver.Kind = resolver.KindDNS
		}
	}

	r, err := cfg.Resolver.Build(resolver.Logger(logger.Named("resolver")))
	if err != nil {
		return lookupOptions{}, err
	}
	return lookupOptions{
		resolver:     r,
		logger:       logger,
		scheme:       cCtx.String("scheme"),
		proxy:        cCtx.Bool("proxy"),
		async:        cCtx.Bool("async"),
		cancellation: cfg.Cancellation,
	}, nil
}

// lookup enumerates every name concurrently. Reports come back in the order
// of names.
func lookup(ctx context.Context, opts lookupOptions, names []string) ([]*report, error) {
	if len(names) == 0 {
		return nil, errors.New("at least one service name is required")
	}

	reports := make([]*report, len(names))
	for i, name := range names {
		svcName, proto, domain, err := service.ParseName(name)
		if err != nil {
			return nil, err
		}
		svc, err := service.New(svcName, proto, domain,
			service.Resolver(opts.resolver),
			service.Logger(opts.logger),
			service.Scheme(opts.scheme),
			service.Cancellation(opts.cancellation),
		)
		if err != nil {
			return nil, err
		}
		reports[i] = &report{Service: svc.String(), svc: svc}
	}

	var g errgroup.Group
	g.SetLimit(_maxConcurrentLookups)
	for _, r := range reports {
		r := r
		g.Go(func() error {
			enumerate(ctx, opts, r)
			return nil
		})
	}
	return reports, g.Wait()
}

func enumerate(ctx context.Context, opts lookupOptions, r *report) {
	e := r.svc.Enumerate()
	if opts.proxy {
		e = r.svc.ProxyEnumerate()
	}
	defer func() {
		if err := e.Close(); err != nil {
			r.Errors = append(r.Errors, err.Error())
		}
	}()

	next := e.Next
	if opts.async {
		next = func(ctx context.Context) (net.Addr, error) {
			return nextAsync(ctx, e)
		}
	}

	for {
		addr, err := next(ctx)
		if err != nil {
			opts.logger.Debug("step failed", zap.String("service", r.Service), zap.Error(err))
			r.Errors = append(r.Errors, err.Error())
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if addr == nil {
			break
		}
		r.Candidates = append(r.Candidates, newCandidate(addr))
	}
	r.Targets, _ = r.svc.Targets()
}

func nextAsync(ctx context.Context, e connectable.AddressEnumerator) (net.Addr, error) {
	type result struct {
		addr net.Addr
		err  error
	}
	ch := make(chan result, 1)
	if err := e.NextAsync(ctx, func(addr net.Addr, err error) {
		ch <- result{addr, err}
	}); err != nil {
		return nil, err
	}
	r := <-ch
	return r.addr, r.err
}

func newCandidate(addr net.Addr) candidate {
	c := candidate{Network: addr.Network(), Address: addr.String()}
	if pa, ok := addr.(*network.ProxyAddress); ok {
		c.Destination = pa.DestinationURI
		if !pa.Direct() {
			c.Proxy = pa.Proxy.Redacted()
		}
	}
	return c
}

func (c candidate) String() string {
	var b strings.Builder
	b.WriteString(c.Network)
	b.WriteString(" ")
	b.WriteString(c.Address)
	if c.Proxy != "" {
		b.WriteString(" via ")
		b.WriteString(c.Proxy)
	}
	if c.Destination != "" {
		b.WriteString(" for ")
		b.WriteString(c.Destination)
	}
	return b.String()
}
