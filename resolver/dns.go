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
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
	"go.uber.org/multierr"
	"go.uber.org/netsvc/api/srv"
	"go.uber.org/netsvc/netsvcerrors"
	"go.uber.org/zap"
)

const (
	_defaultResolvConf = "/etc/resolv.conf"
	_defaultDNSTimeout = 5 * time.Second
	_dnsPort           = "53"
)

// DNSConfig configures a DNS resolver.
type DNSConfig struct {
	// Nameservers are tried in order. Entries without a port use 53. When
	// empty, the nameservers of ResolvConf are used.
	Nameservers []string

	// Net is "udp" (default) or "tcp". UDP answers that come back truncated
	// are retried over TCP.
	Net string

	// Timeout bounds each exchange with a nameserver. Defaults to 5s.
	Timeout time.Duration

	// ResolvConf defaults to /etc/resolv.conf.
	ResolvConf string
}

// DNS resolves services by querying nameservers directly.
type DNS struct {
	servers  []string
	client   *dns.Client
	tcp      *dns.Client
	logger   *zap.Logger
	shuffler shuffler
}

var _ srv.Resolver = (*DNS)(nil)

// NewDNS builds a DNS resolver.
func NewDNS(cfg DNSConfig, opts ...Option) (*DNS, error) {
	o := newOptions(opts)

	servers := cfg.Nameservers
	if len(servers) == 0 {
		path := cfg.ResolvConf
		if path == "" {
			path = _defaultResolvConf
		}
		conf, err := dns.ClientConfigFromFile(path)
		if err != nil {
			return nil, netsvcerrors.InvalidArgumentErrorf("cannot read nameservers from %q: %w", path, err)
		}
		for _, s := range conf.Servers {
			servers = append(servers, net.JoinHostPort(s, conf.Port))
		}
	}
	if len(servers) == 0 {
		return nil, netsvcerrors.InvalidArgumentErrorf("no nameservers configured")
	}

	network := cfg.Net
	if network == "" {
		network = "udp"
	}
	if network != "udp" && network != "tcp" {
		return nil, netsvcerrors.InvalidArgumentErrorf("unsupported DNS network %q", network)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = _defaultDNSTimeout
	}

	d := &DNS{
		client:   &dns.Client{Net: network, Timeout: timeout},
		tcp:      &dns.Client{Net: "tcp", Timeout: timeout},
		logger:   o.logger,
		shuffler: shuffler{rand: o.rand},
	}
	for _, s := range servers {
		d.servers = append(d.servers, withDefaultPort(s))
	}
	return d, nil
}

// Nameservers returns the nameservers queried, in order.
func (d *DNS) Nameservers() []string {
	return append([]string(nil), d.servers...)
}

// LookupService implements srv.Resolver.
func (d *DNS) LookupService(ctx context.Context, service, protocol, domain string) ([]srv.Target, error) {
	name := dns.Fqdn(srv.Name(service, protocol, domain))

	req := new(dns.Msg)
	req.SetQuestion(name, dns.TypeSRV)
	req.RecursionDesired = true

	var errs error
	for _, server := range d.servers {
		resp, err := d.exchange(ctx, req, server)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			errs = multierr.Append(errs, err)
			continue
		}

		switch resp.Rcode {
		case dns.RcodeSuccess:
			targets := d.shuffler.order(targetsFrom(resp))
			d.logger.Debug("resolved service",
				zap.String("name", name),
				zap.String("nameserver", server),
				zap.Int("targets", len(targets)))
			return targets, nil
		case dns.RcodeNameError:
			return nil, netsvcerrors.ResolutionFailureErrorf("no service records found for %q", strings.TrimSuffix(name, "."))
		default:
			errs = multierr.Append(errs, fmt.Errorf("nameserver %s answered %s", server, dns.RcodeToString[resp.Rcode]))
		}
	}
	return nil, lookupError(ctx, strings.TrimSuffix(name, "."), errs)
}

// LookupServiceAsync implements srv.Resolver.
func (d *DNS) LookupServiceAsync(ctx context.Context, service, protocol, domain string, done srv.LookupFunc) {
	lookupAsync(ctx, d, service, protocol, domain, done)
}

func (d *DNS) exchange(ctx context.Context, req *dns.Msg, server string) (*dns.Msg, error) {
	resp, _, err := d.client.ExchangeContext(ctx, req, server)
	if err != nil {
		return nil, err
	}
	if resp.Truncated && d.client.Net != "tcp" {
		d.logger.Debug("retrying truncated answer over tcp", zap.String("nameserver", server))
		resp, _, err = d.tcp.ExchangeContext(ctx, req, server)
	}
	return resp, err
}

func targetsFrom(resp *dns.Msg) []srv.Target {
	targets := make([]srv.Target, 0, len(resp.Answer))
	for _, rr := range resp.Answer {
		record, ok := rr.(*dns.SRV)
		if !ok {
			continue
		}
		host := strings.TrimSuffix(record.Target, ".")
		if host == "" {
			continue
		}
		targets = append(targets, srv.Target{
			Hostname: host,
			Port:     record.Port,
			Priority: record.Priority,
			Weight:   record.Weight,
		})
	}
	return targets
}

func withDefaultPort(server string) string {
	if _, _, err := net.SplitHostPort(server); err != nil {
		return net.JoinHostPort(strings.Trim(server, "[]"), _dnsPort)
	}
	return server
}
