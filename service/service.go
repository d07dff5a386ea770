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

// Package service resolves a network service, named by a (service,
// protocol, domain) triple the way SRV records name them, into a lazy
// stream of socket addresses a client can try in order.
//
// A Service looks its targets up once and shares them with every
// enumerator built from it. Each enumerator walks the targets in the order
// the resolver returned them, expands one target at a time into addresses,
// and skips targets that cannot be expanded. The first such failure is
// reported once, after the last address, if nothing else was returned in
// the meantime.
//
//	svc, err := service.New("ldap", "tcp", "example.com")
//	...
//	e := svc.Enumerate()
//	defer e.Close()
//	for {
//		addr, err := e.Next(ctx)
//		if err != nil || addr == nil {
//			break
//		}
//		// dial addr
//	}
package service

import (
	"strings"
	"sync"

	"go.uber.org/netsvc/api/connectable"
	"go.uber.org/netsvc/api/srv"
	"go.uber.org/netsvc/internal/observer"
	"go.uber.org/netsvc/netsvcerrors"
	"go.uber.org/netsvc/network"
	"go.uber.org/zap"
)

// SchemeSubscriber is notified when the scheme of a Service changes.
type SchemeSubscriber interface {
	NotifySchemeChanged(*Service)
}

// Service identifies a network service and memoizes its targets.
type Service struct {
	service  string
	protocol string
	domain   string
	name     string

	opts     options
	logger   *zap.Logger
	observer *observer.Observer
	targets  targetCache

	lock        sync.RWMutex
	scheme      string
	subscribers map[SchemeSubscriber]struct{}
}

var _ connectable.Connectable = (*Service)(nil)

// New builds a Service for "_service._protocol.domain". All three parts are
// required.
func New(service, protocol, domain string, opts ...Option) (*Service, error) {
	if service == "" || protocol == "" || domain == "" {
		return nil, netsvcerrors.InvalidArgumentErrorf(
			"service, protocol and domain are required, got %q, %q, %q", service, protocol, domain)
	}

	o := newOptions(opts)
	name := srv.Name(service, protocol, domain)
	return &Service{
		service:  service,
		protocol: protocol,
		domain:   domain,
		name:     name,
		opts:     o,
		logger:   o.logger.With(zap.String("service", name)),
		observer: observer.NewObserver(observer.Params{
			Meter:   o.meter,
			Logger:  o.logger,
			Service: name,
		}),
		scheme:      o.scheme,
		subscribers: make(map[SchemeSubscriber]struct{}),
	}, nil
}

// ParseName splits an RFC 2782 owner name such as "_ldap._tcp.example.com"
// into its service, protocol and domain.
func ParseName(name string) (service, protocol, domain string, err error) {
	parts := strings.SplitN(strings.TrimSuffix(name, "."), ".", 3)
	if len(parts) != 3 || len(parts[0]) < 2 || len(parts[1]) < 2 ||
		parts[0][0] != '_' || parts[1][0] != '_' || parts[2] == "" {
		return "", "", "", netsvcerrors.InvalidArgumentErrorf(
			"%q is not a service name of the form _service._protocol.domain", name)
	}
	return parts[0][1:], parts[1][1:], parts[2], nil
}

// Service returns the service label, "ldap" for "_ldap._tcp.example.com".
func (s *Service) Service() string { return s.service }

// Protocol returns the protocol label, "tcp" for "_ldap._tcp.example.com".
func (s *Service) Protocol() string { return s.protocol }

// Domain returns the domain, "example.com" for "_ldap._tcp.example.com".
func (s *Service) Domain() string { return s.domain }

// Scheme returns the URI scheme used to build per-target addresses: the
// override if one is set, the service label otherwise.
func (s *Service) Scheme() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.scheme != "" {
		return s.scheme
	}
	return s.service
}

// SetScheme overrides the scheme and notifies subscribers. An empty scheme
// clears the override. Targets expanded after the call use the new scheme.
func (s *Service) SetScheme(scheme string) {
	s.lock.Lock()
	s.scheme = scheme
	subs := make([]SchemeSubscriber, 0, len(s.subscribers))
	for sub := range s.subscribers {
		subs = append(subs, sub)
	}
	s.lock.Unlock()

	s.logger.Debug("scheme changed", zap.String("scheme", scheme))
	for _, sub := range subs {
		sub.NotifySchemeChanged(s)
	}
}

// Subscribe adds a subscriber for scheme changes.
func (s *Service) Subscribe(sub SchemeSubscriber) {
	s.lock.Lock()
	s.subscribers[sub] = struct{}{}
	s.lock.Unlock()
}

// Unsubscribe removes a subscriber added with Subscribe.
func (s *Service) Unsubscribe(sub SchemeSubscriber) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.subscribers[sub]; !ok {
		return netsvcerrors.InvalidArgumentErrorf("%v is not subscribed to %s", sub, s.name)
	}
	delete(s.subscribers, sub)
	return nil
}

// NumSubscribers returns the number of scheme subscribers.
func (s *Service) NumSubscribers() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.subscribers)
}

// Targets returns the memoized targets, and false if no lookup has
// succeeded yet.
func (s *Service) Targets() ([]srv.Target, bool) {
	return s.targets.snapshot()
}

// Enumerate returns an enumerator over direct socket addresses.
func (s *Service) Enumerate() connectable.AddressEnumerator {
	return s.newEnumerator(false)
}

// ProxyEnumerate returns an enumerator whose addresses take configured
// proxies into account.
func (s *Service) ProxyEnumerate() connectable.AddressEnumerator {
	return s.newEnumerator(true)
}

func (s *Service) String() string {
	return s.name
}

// connectable builds the Connectable of one target.
func (s *Service) connectable(t srv.Target) (connectable.Connectable, error) {
	host, ok := s.opts.normalize(t.Hostname)
	if !ok {
		return nil, netsvcerrors.InvalidArgumentErrorf("received invalid hostname %q from %s", t.Hostname, s.name)
	}
	return s.opts.addressFunc(network.URIFromAuthority(s.Scheme(), host, t.Port), t.Port)
}
