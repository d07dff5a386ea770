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

// Package connectable defines the capability of producing a sequence of
// socket addresses to attempt a connection against.
//
// Both a whole service (resolved through SRV records) and a single
// host:port implement Connectable. A client walks the AddressEnumerator and
// tries each address in turn until a connection succeeds.
//
//	enum := svc.Enumerate()
//	defer enum.Close()
//	for {
//		addr, err := enum.Next(ctx)
//		if err != nil {
//			return err
//		}
//		if addr == nil {
//			break // exhausted
//		}
//		// dial addr
//	}
package connectable

//go:generate mockgen -destination=connectabletest/connectable.go -package=connectabletest go.uber.org/netsvc/api/connectable Connectable,AddressEnumerator

import (
	"context"
	"net"
)

// Connectable produces address enumerators.
type Connectable interface {
	// Enumerate returns an enumerator over the socket addresses of this
	// Connectable, ignoring any configured proxy.
	Enumerate() AddressEnumerator

	// ProxyEnumerate returns an enumerator that accounts for configured
	// network proxies. Addresses it produces may be the proxy's own.
	ProxyEnumerate() AddressEnumerator
}

// NextFunc receives the outcome of one asynchronous enumeration step.
//
// A nil address with a nil error means the enumerator is exhausted.
type NextFunc func(net.Addr, error)

// AddressEnumerator is a lazy, finite, non-restartable sequence of socket
// addresses.
//
// An AddressEnumerator is owned by a single caller and must not be driven
// from several goroutines at once.
type AddressEnumerator interface {
	// Next blocks until the next address is available. It returns a nil
	// address and a nil error once the sequence is exhausted.
	//
	// Cancellation and deadlines of ctx are honored by the lookups Next
	// delegates to.
	Next(ctx context.Context) (net.Addr, error)

	// NextAsync schedules exactly one invocation of done with the outcome of
	// the next step. done may run before NextAsync returns, and may run on
	// another goroutine.
	//
	// Only one step may be outstanding at a time: NextAsync fails with
	// CodeFailedPrecondition, without scheduling anything, if the previous
	// step has not completed.
	NextAsync(ctx context.Context, done NextFunc) error

	// Close releases any resources held by the enumerator. Close must not be
	// called while an asynchronous step is outstanding.
	Close() error
}
