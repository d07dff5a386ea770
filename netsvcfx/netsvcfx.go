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

// Package netsvcfx provides a resolver and named services to an fx
// application from configuration.
//
//	netsvc:
//	  resolver:
//	    kind: dns
//	    nameservers: [10.0.0.53]
//	  cancellation: step
//	  services:
//	    directory:
//	      name: _ldap._tcp.example.com
//	      scheme: ldaps
package netsvcfx

import (
	"fmt"

	"github.com/opentracing/opentracing-go"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/net/metrics"
	"go.uber.org/netsvc/api/srv"
	"go.uber.org/netsvc/network"
	"go.uber.org/netsvc/resolver"
	"go.uber.org/netsvc/service"
	"go.uber.org/zap"
)

const _configurationKey = "netsvc"

// Module produces a srv.Resolver and the configured Services.
var Module = fx.Options(
	fx.Provide(NewConfig),
	fx.Provide(NewResolver),
	fx.Provide(NewServices),
)

// Config is the configuration of the module.
type Config struct {
	Resolver     resolver.Config          `yaml:"resolver"`
	Cancellation service.CancellationPolicy `yaml:"cancellation"`
	Services     map[string]ServiceConfig `yaml:"services"`
}

// ServiceConfig is the configuration of one named service.
type ServiceConfig struct {
	// Name is the RFC 2782 name of the service, "_ldap._tcp.example.com".
	Name   string `yaml:"name"`
	Scheme string `yaml:"scheme"`
	// Network is the network of produced addresses, "tcp" or "udp".
	Network string `yaml:"network"`
	// NoProxy disables proxy lookups from the environment.
	NoProxy bool `yaml:"noProxy"`
}

// Services are the configured services by name.
type Services map[string]*service.Service

// Get returns the service configured under name.
func (s Services) Get(name string) (*service.Service, bool) {
	svc, ok := s[name]
	return svc, ok
}

// ConfigParams defines the dependencies of this module.
type ConfigParams struct {
	fx.In

	Provider config.Provider
}

// ConfigResult defines the values produced by this module.
type ConfigResult struct {
	fx.Out

	Config Config
}

// NewConfig produces a Config.
func NewConfig(p ConfigParams) (ConfigResult, error) {
	c := Config{}
	if err := p.Provider.Get(_configurationKey).Populate(&c); err != nil {
		return ConfigResult{}, err
	}
	return ConfigResult{
		Config: c,
	}, nil
}

// ResolverParams defines the dependencies of this module.
type ResolverParams struct {
	fx.In

	Config Config
	Logger *zap.Logger `optional:"true"`
}

// ResolverResult defines the values produced by this module.
type ResolverResult struct {
	fx.Out

	Resolver srv.Resolver
}

// NewResolver produces the srv.Resolver described by the configuration.
func NewResolver(p ResolverParams) (ResolverResult, error) {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	r, err := p.Config.Resolver.Build(resolver.Logger(logger.Named("resolver")))
	if err != nil {
		return ResolverResult{}, err
	}
	return ResolverResult{
		Resolver: r,
	}, nil
}

// ServicesParams defines the dependencies of this module.
type ServicesParams struct {
	fx.In

	Config   Config
	Resolver srv.Resolver
	Logger   *zap.Logger        `optional:"true"`
	Meter    *metrics.Scope     `optional:"true"`
	Tracer   opentracing.Tracer `optional:"true"`
}

// ServicesResult defines the values produced by this module.
type ServicesResult struct {
	fx.Out

	Services Services
}

// NewServices produces a Service for every configured entry. All services
// share the resolver.
func NewServices(p ServicesParams) (ServicesResult, error) {
	services := make(Services, len(p.Config.Services))
	for name, c := range p.Config.Services {
		svcName, proto, domain, err := service.ParseName(c.Name)
		if err != nil {
			return ServicesResult{}, fmt.Errorf("failed to configure service %q: %w", name, err)
		}

		opts := []service.Option{
			service.Resolver(p.Resolver),
			service.Cancellation(p.Config.Cancellation),
			service.Scheme(c.Scheme),
		}
		if p.Logger != nil {
			opts = append(opts, service.Logger(p.Logger.Named("netsvc")))
		}
		if p.Meter != nil {
			opts = append(opts, service.Meter(p.Meter))
		}
		if p.Tracer != nil {
			opts = append(opts, service.Tracer(p.Tracer))
		}
		if c.Network != "" {
			opts = append(opts, service.AddressOptions(network.Network(c.Network)))
		}
		if c.NoProxy {
			opts = append(opts, service.AddressOptions(network.Proxy(network.NoProxy)))
		}

		svc, err := service.New(svcName, proto, domain, opts...)
		if err != nil {
			return ServicesResult{}, fmt.Errorf("failed to configure service %q: %w", name, err)
		}
		services[name] = svc
	}
	return ServicesResult{
		Services: services,
	}, nil
}
