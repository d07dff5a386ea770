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

// Package network implements connectable.Connectable for a single host and
// port.
//
// Enumerate resolves the hostname and yields one socket address per IP.
// ProxyEnumerate first asks the configured proxy function whether the
// destination URI should go through a proxy, and yields ProxyAddress values
// that carry the destination along with the socket address to dial.
package network

import (
	"context"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"go.uber.org/netsvc/api/connectable"
	"go.uber.org/netsvc/netsvcerrors"
	"go.uber.org/zap"
	"golang.org/x/net/http/httpproxy"
)

// _noScheme stands in for the scheme of addresses built without one when a
// destination URI is needed.
const _noScheme = "none"

// IPLookuper looks up the IP addresses of a host. *net.Resolver implements
// it.
type IPLookuper interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// ProxyFunc returns the proxy to use for a destination URI, or nil for a
// direct connection.
type ProxyFunc func(*url.URL) (*url.URL, error)

// NoProxy is a ProxyFunc that never proxies.
func NoProxy(*url.URL) (*url.URL, error) { return nil, nil }

type addressOptions struct {
	lookuper IPLookuper
	proxy    ProxyFunc
	network  string
	logger   *zap.Logger
}

// Option customizes an Address.
type Option func(*addressOptions)

// Lookuper sets the IP lookuper used to expand hostnames. Defaults to
// net.DefaultResolver.
func Lookuper(l IPLookuper) Option {
	return func(o *addressOptions) {
		o.lookuper = l
	}
}

// Proxy sets the function deciding which proxy, if any, ProxyEnumerate goes
// through. Defaults to EnvironmentProxy.
func Proxy(f ProxyFunc) Option {
	return func(o *addressOptions) {
		o.proxy = f
	}
}

// Network sets the network of produced socket addresses: "tcp" (default) or
// "udp".
func Network(network string) Option {
	return func(o *addressOptions) {
		o.network = network
	}
}

// Logger sets the logger for the address and its enumerators.
func Logger(logger *zap.Logger) Option {
	return func(o *addressOptions) {
		o.logger = logger
	}
}

func newOptions(opts []Option) addressOptions {
	options := addressOptions{
		lookuper: net.DefaultResolver,
		network:  "tcp",
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.proxy == nil {
		options.proxy = EnvironmentProxy()
	}
	return options
}

// EnvironmentProxy returns a ProxyFunc configured from the environment.
// http and https URIs follow HTTP_PROXY, HTTPS_PROXY and NO_PROXY the way
// net/http does. URIs of any other scheme go through ALL_PROXY (or
// all_proxy), also subject to NO_PROXY.
func EnvironmentProxy() ProxyFunc {
	env := httpproxy.FromEnvironment()
	web := env.ProxyFunc()

	all := os.Getenv("ALL_PROXY")
	if all == "" {
		all = os.Getenv("all_proxy")
	}
	if all == "" {
		return web
	}

	// httpproxy only knows http and https, so other schemes are evaluated
	// as https with ALL_PROXY in place of HTTPS_PROXY.
	other := (&httpproxy.Config{HTTPSProxy: all, NoProxy: env.NoProxy}).ProxyFunc()
	return func(u *url.URL) (*url.URL, error) {
		switch u.Scheme {
		case "http", "https":
			return web(u)
		}
		as := *u
		as.Scheme = "https"
		return other(&as)
	}
}

// Address is a Connectable for one host and port.
type Address struct {
	hostname string
	port     uint16
	scheme   string
	opts     addressOptions
}

var _ connectable.Connectable = (*Address)(nil)

// New builds an Address without a scheme.
func New(hostname string, port uint16, opts ...Option) *Address {
	return &Address{
		hostname: hostname,
		port:     port,
		opts:     newOptions(opts),
	}
}

// ParseURI builds an Address from a URI such as "ldaps://ldap1.example.com:636".
// The port comes from the URI, or defaultPort if the URI has none.
func ParseURI(uri string, defaultPort uint16, opts ...Option) (*Address, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, netsvcerrors.InvalidArgumentErrorf("invalid URI %q: %w", uri, err)
	}
	if u.Scheme == "" || u.Hostname() == "" {
		return nil, netsvcerrors.InvalidArgumentErrorf("invalid URI %q: scheme and host are required", uri)
	}

	port := defaultPort
	if p := u.Port(); p != "" {
		n, err := parsePort(p)
		if err != nil {
			return nil, netsvcerrors.InvalidArgumentErrorf("invalid port in URI %q: %w", uri, err)
		}
		port = n
	}

	return &Address{
		hostname: u.Hostname(),
		port:     port,
		scheme:   strings.ToLower(u.Scheme),
		opts:     newOptions(opts),
	}, nil
}

// URIFromAuthority builds "scheme://host:port". IPv6 literals are bracketed
// and their zone separator is escaped, "[fe80::1%25eth0]".
func URIFromAuthority(scheme, host string, port uint16) string {
	host = strings.Trim(host, "[]")
	if strings.Contains(host, ":") {
		host = strings.Replace(host, "%", "%25", 1)
	}
	return scheme + "://" + net.JoinHostPort(host, strconv.Itoa(int(port)))
}

// Hostname returns the host of the address.
func (a *Address) Hostname() string { return a.hostname }

// Port returns the port of the address.
func (a *Address) Port() uint16 { return a.port }

// Scheme returns the scheme of the address, or an empty string.
func (a *Address) Scheme() string { return a.scheme }

// URI returns the address as a URI. Addresses without a scheme use "none".
func (a *Address) URI() string {
	scheme := a.scheme
	if scheme == "" {
		scheme = _noScheme
	}
	return URIFromAuthority(scheme, a.hostname, a.port)
}

func (a *Address) String() string {
	return a.URI()
}

// Enumerate returns an enumerator over the socket addresses of the host.
func (a *Address) Enumerate() connectable.AddressEnumerator {
	return &enumerator{addr: a}
}

// ProxyEnumerate returns an enumerator over ProxyAddress values.
func (a *Address) ProxyEnumerate() connectable.AddressEnumerator {
	return &enumerator{addr: a, proxy: true}
}

func (a *Address) socketAddr(ip net.IPAddr, port uint16) net.Addr {
	if strings.HasPrefix(a.opts.network, "udp") {
		return &net.UDPAddr{IP: ip.IP, Port: int(port), Zone: ip.Zone}
	}
	return &net.TCPAddr{IP: ip.IP, Port: int(port), Zone: ip.Zone}
}
