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
	"time"

	"go.uber.org/netsvc/api/srv"
	"go.uber.org/netsvc/netsvcerrors"
)

// Kinds of resolvers a Config can build.
const (
	KindSystem = "system"
	KindDNS    = "dns"
	KindStatic = "static"
)

// Config describes a resolver in YAML.
//
//	kind: dns
//	nameservers: [10.0.0.53, "10.0.1.53:5353"]
//	net: udp
//	timeout: 2s
type Config struct {
	Kind        string                  `yaml:"kind"`
	Nameservers []string                `yaml:"nameservers"`
	Net         string                  `yaml:"net"`
	Timeout     time.Duration           `yaml:"timeout"`
	ResolvConf  string                  `yaml:"resolvConf"`
	Static      map[string][]srv.Target `yaml:"static"`
}

// Build builds the resolver the Config describes. An empty Kind means
// KindSystem.
func (c Config) Build(opts ...Option) (srv.Resolver, error) {
	switch c.Kind {
	case "", KindSystem:
		return NewSystem(opts...), nil
	case KindDNS:
		return NewDNS(DNSConfig{
			Nameservers: c.Nameservers,
			Net:         c.Net,
			Timeout:     c.Timeout,
			ResolvConf:  c.ResolvConf,
		}, opts...)
	case KindStatic:
		return NewStatic(c.Static, opts...), nil
	default:
		return nil, netsvcerrors.InvalidArgumentErrorf("unknown resolver kind %q", c.Kind)
	}
}
