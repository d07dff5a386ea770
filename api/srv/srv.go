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

// Package srv defines SRV targets and the Resolver contract that turns a
// (service, protocol, domain) triple into an ordered target list.
package srv

//go:generate mockgen -destination=srvtest/resolver.go -package=srvtest go.uber.org/netsvc/api/srv Resolver

import (
	"context"
	"fmt"
	"net"
	"strconv"
)

// Target is one entry of a resolved service: a host and port that
// implements the service, with the priority and weight from its SRV record.
type Target struct {
	Hostname string `json:"hostname" yaml:"hostname"`
	Port     uint16 `json:"port" yaml:"port"`
	Priority uint16 `json:"priority" yaml:"priority"`
	Weight   uint16 `json:"weight" yaml:"weight"`
}

// HostPort returns the target as a "host:port" string.
func (t Target) HostPort() string {
	return net.JoinHostPort(t.Hostname, strconv.Itoa(int(t.Port)))
}

func (t Target) String() string {
	return fmt.Sprintf("%s (priority %d, weight %d)", t.HostPort(), t.Priority, t.Weight)
}

// Name returns the RFC 2782 owner name for a service, for example
// "_ldap._tcp.example.com".
func Name(service, protocol, domain string) string {
	return "_" + service + "._" + protocol + "." + domain
}

// LookupFunc receives the outcome of an asynchronous service lookup.
type LookupFunc func([]Target, error)

// Resolver resolves services into ordered target lists.
//
// Implementations own the ordering of the returned targets: ascending
// priority, randomized by weight within a priority. Callers never re-sort.
// An empty list with a nil error is a valid answer.
type Resolver interface {
	// LookupService blocks until the targets of the service are known.
	LookupService(ctx context.Context, service, protocol, domain string) ([]Target, error)

	// LookupServiceAsync starts a lookup and calls done exactly once with
	// its outcome. done may be called on another goroutine.
	LookupServiceAsync(ctx context.Context, service, protocol, domain string, done LookupFunc)
}
