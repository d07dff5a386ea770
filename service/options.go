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
	"github.com/opentracing/opentracing-go"
	"go.uber.org/net/metrics"
	"go.uber.org/netsvc/api/connectable"
	"go.uber.org/netsvc/api/srv"
	"go.uber.org/netsvc/hostname"
	"go.uber.org/netsvc/network"
	"go.uber.org/netsvc/resolver"
	"go.uber.org/zap"
)

// AddressFunc builds the Connectable of one target from its URI,
// "scheme://host:port", and its port.
type AddressFunc func(uri string, port uint16) (connectable.Connectable, error)

// NormalizeFunc converts a target hostname into the form handed to the
// AddressFunc. It reports false when the hostname is invalid.
type NormalizeFunc func(string) (string, bool)

type options struct {
	resolver       srv.Resolver
	normalize      NormalizeFunc
	addressFunc    AddressFunc
	addressOptions []network.Option
	logger         *zap.Logger
	meter          *metrics.Scope
	tracer         opentracing.Tracer
	cancellation   CancellationPolicy
	scheme         string
}

// Option customizes a Service.
type Option func(*options)

// Resolver sets the resolver used to look up targets. Defaults to the
// system resolver.
func Resolver(r srv.Resolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}

// Normalizer sets the hostname normalizer. Defaults to hostname.ToASCII.
func Normalizer(f NormalizeFunc) Option {
	return func(o *options) {
		o.normalize = f
	}
}

// AddressFactory sets the function building per-target Connectables.
// Defaults to network.ParseURI with the options given to AddressOptions.
func AddressFactory(f AddressFunc) Option {
	return func(o *options) {
		o.addressFunc = f
	}
}

// AddressOptions are passed to network.ParseURI by the default
// AddressFactory.
func AddressOptions(opts ...network.Option) Option {
	return func(o *options) {
		o.addressOptions = append(o.addressOptions, opts...)
	}
}

// Logger sets the logger of the Service and its enumerators.
func Logger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Meter sets the metrics scope. Without one no metrics are emitted.
func Meter(meter *metrics.Scope) Option {
	return func(o *options) {
		o.meter = meter
	}
}

// Tracer sets the tracer used for service lookups. Defaults to
// opentracing.GlobalTracer().
func Tracer(tracer opentracing.Tracer) Option {
	return func(o *options) {
		o.tracer = tracer
	}
}

// Cancellation sets how enumerators treat targets that fail while the
// step's context is done. Defaults to CancelStep.
func Cancellation(p CancellationPolicy) Option {
	return func(o *options) {
		o.cancellation = p
	}
}

// Scheme sets the initial scheme override.
func Scheme(scheme string) Option {
	return func(o *options) {
		o.scheme = scheme
	}
}

func newOptions(opts []Option) options {
	o := options{
		normalize: hostname.ToASCII,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.resolver == nil {
		o.resolver = resolver.NewSystem(resolver.Logger(o.logger))
	}
	if o.tracer == nil {
		o.tracer = opentracing.GlobalTracer()
	}
	if o.addressFunc == nil {
		addressOptions := append([]network.Option{network.Logger(o.logger)}, o.addressOptions...)
		o.addressFunc = func(uri string, port uint16) (connectable.Connectable, error) {
			addr, err := network.ParseURI(uri, port, addressOptions...)
			if err != nil {
				return nil, err
			}
			return addr, nil
		}
	}
	return o
}
