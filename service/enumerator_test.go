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
	"context"
	"errors"
	"net"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/net/metrics"
	"go.uber.org/netsvc/api/connectable"
	"go.uber.org/netsvc/api/connectable/connectabletest"
	"go.uber.org/netsvc/api/srv"
	"go.uber.org/netsvc/api/srv/srvtest"
	"go.uber.org/netsvc/internal/testtime"
	"go.uber.org/netsvc/netsvcerrors"
	"go.uber.org/netsvc/resolver"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// stepMode drains an enumerator with Next or NextAsync.
type stepMode struct {
	name  string
	drain func(context.Context, connectable.AddressEnumerator) ([]connectabletest.Result, error)
}

var stepModes = []stepMode{
	{
		name:  "blocking",
		drain: connectabletest.Drain,
	},
	{
		name: "async",
		drain: func(ctx context.Context, e connectable.AddressEnumerator) ([]connectabletest.Result, error) {
			return connectabletest.DrainAsync(ctx, e, testtime.Second)
		},
	},
}

func staticResolver(targets ...srv.Target) srv.Resolver {
	return resolver.NewStatic(map[string][]srv.Target{
		"_ldap._tcp.example.com": targets,
	})
}

// fixedResolver answers every lookup with the same targets, whatever the
// state of the context.
type fixedResolver []srv.Target

func (r fixedResolver) LookupService(context.Context, string, string, string) ([]srv.Target, error) {
	return r, nil
}

func (r fixedResolver) LookupServiceAsync(_ context.Context, _, _, _ string, done srv.LookupFunc) {
	done(r, nil)
}

func TestEnumerate(t *testing.T) {
	for _, mode := range stepModes {
		t.Run(mode.name, func(t *testing.T) {
			book := newAddressBook(connectabletest.AsyncOnGoroutine())
			svc := newLDAP(t, staticResolver(ldap2, ldap1), book)

			results, err := mode.drain(context.Background(), svc.Enumerate())
			require.NoError(t, err)
			assert.Equal(t, []string{
				"tcp/10.0.0.1:389",
				"tcp/10.0.0.2:389",
				"tcp/10.0.1.1:389",
			}, connectabletest.Strings(results))
			assert.Equal(t, []string{
				"ldap://ldap1.example.com:389",
				"ldap://ldap2.example.com:389",
			}, book.URIs())

			enumerators, proxied := book.conns["ldap1.example.com"].Enumerators()
			require.Len(t, enumerators, 1)
			assert.False(t, proxied[0])
			assert.True(t, enumerators[0].Closed(), "exhausted children are closed")
		})
	}
}

func TestProxyEnumerate(t *testing.T) {
	for _, mode := range stepModes {
		t.Run(mode.name, func(t *testing.T) {
			book := newAddressBook()
			svc := newLDAP(t, staticResolver(ldap1, ldap2), book, Scheme("ldaps"))

			results, err := mode.drain(context.Background(), svc.ProxyEnumerate())
			require.NoError(t, err)
			assert.Equal(t, []string{"tcp/10.9.9.9:1080", "tcp/10.9.9.9:1080"}, connectabletest.Strings(results))
			assert.Equal(t, []string{
				"ldaps://ldap1.example.com:389",
				"ldaps://ldap2.example.com:389",
			}, book.URIs())

			_, proxied := book.conns["ldap2.example.com"].Enumerators()
			assert.Equal(t, []bool{true}, proxied)
		})
	}
}

func TestEnumerateNoTargets(t *testing.T) {
	for _, mode := range stepModes {
		t.Run(mode.name, func(t *testing.T) {
			svc := newLDAP(t, staticResolver(), newAddressBook())

			results, err := mode.drain(context.Background(), svc.Enumerate())
			require.NoError(t, err)
			assert.Empty(t, results)
		})
	}
}

func TestEnumerateSkipsBadTargets(t *testing.T) {
	bad := srv.Target{Hostname: "bad.example.com", Port: 389, Priority: 0}
	unknown := srv.Target{Hostname: "unknown.example.com", Port: 389, Priority: 5}
	rejectBad := func(host string) (string, bool) {
		return host, host != "bad.example.com"
	}

	for _, mode := range stepModes {
		t.Run(mode.name, func(t *testing.T) {
			book := newAddressBook()
			svc := newLDAP(t, staticResolver(bad, unknown, ldap2), book, Normalizer(rejectBad))

			results, err := mode.drain(context.Background(), svc.Enumerate())
			require.NoError(t, err)
			assert.Equal(t, []string{
				"tcp/10.0.1.1:389",
				`error: code:invalid-argument message:received invalid hostname "bad.example.com" from _ldap._tcp.example.com`,
			}, connectabletest.Strings(results), "only the first failure is reported, after the last address")
		})
	}
}

func TestEnumerateUnderscoreHostname(t *testing.T) {
	dc := srv.Target{Hostname: "DC_1.example.com", Port: 389, Priority: 5}

	for _, mode := range stepModes {
		t.Run(mode.name, func(t *testing.T) {
			book := newAddressBook()
			book.set("dc_1.example.com", connectabletest.NewFakeConnectable(
				[]connectabletest.Step{{Addr: connectabletest.TCPAddr("10.0.2.1", 389)}}, nil))
			svc := newLDAP(t, staticResolver(dc, ldap2), book)

			results, err := mode.drain(context.Background(), svc.Enumerate())
			require.NoError(t, err)
			assert.Equal(t, []string{"tcp/10.0.2.1:389", "tcp/10.0.1.1:389"}, connectabletest.Strings(results))
			assert.Equal(t, []string{
				"ldap://dc_1.example.com:389",
				"ldap://ldap2.example.com:389",
			}, book.URIs())
		})
	}
}

func TestEnumerateChildFailures(t *testing.T) {
	first := netsvcerrors.AddressExpansionFailureErrorf("ldap1 is gone")
	second := netsvcerrors.AddressExpansionFailureErrorf("ldap2 is gone")

	for _, mode := range stepModes {
		t.Run(mode.name, func(t *testing.T) {
			book := newAddressBook()
			book.set("ldap1.example.com", connectabletest.NewFakeConnectable(
				[]connectabletest.Step{{Err: first}}, nil))
			book.set("ldap2.example.com", connectabletest.NewFakeConnectable(
				[]connectabletest.Step{{Err: second}}, nil))
			svc := newLDAP(t, staticResolver(ldap1, ldap2), book)

			e := svc.Enumerate()
			results, err := mode.drain(context.Background(), e)
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, first, results[0].Err)

			addr, err := e.Next(context.Background())
			assert.NoError(t, err, "the error is surfaced once")
			assert.Nil(t, addr)
		})
	}
}

func TestEnumerateEmptyChild(t *testing.T) {
	book := newAddressBook()
	book.set("ldap1.example.com", connectabletest.NewFakeConnectable(nil, nil))
	svc := newLDAP(t, staticResolver(ldap1, ldap2), book)

	results, err := connectabletest.Drain(context.Background(), svc.Enumerate())
	require.NoError(t, err)
	assert.Equal(t, []string{"tcp/10.0.1.1:389"}, connectabletest.Strings(results))
}

func TestEnumerateCancellation(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	newBook := func() *addressBook {
		book := newAddressBook()
		book.set("ldap1.example.com", connectabletest.NewFakeConnectable(
			[]connectabletest.Step{{WaitForCancel: true}}, nil))
		return book
	}

	t.Run("step", func(t *testing.T) {
		svc := newLDAP(t, fixedResolver{ldap1, ldap2}, newBook(), Cancellation(CancelStep))
		e := svc.Enumerate()

		addr, err := e.Next(cancelled)
		assert.Nil(t, addr)
		require.Error(t, err)
		assert.Equal(t, netsvcerrors.CodeCancelled, netsvcerrors.FromError(err).Code())

		results, err := connectabletest.Drain(context.Background(), e)
		require.NoError(t, err)
		assert.Equal(t, []string{"tcp/10.0.1.1:389"}, connectabletest.Strings(results),
			"a cancelled step is not recorded and the walk resumes with the next target")
	})

	t.Run("fold", func(t *testing.T) {
		svc := newLDAP(t, fixedResolver{ldap1, ldap2}, newBook(), Cancellation(CancelFold))
		e := svc.Enumerate()

		addr, err := e.Next(cancelled)
		require.NoError(t, err)
		assert.Equal(t, "10.0.1.1:389", addr.String())

		addr, err = e.Next(context.Background())
		assert.Nil(t, addr)
		require.Error(t, err)
		assert.Equal(t, netsvcerrors.CodeCancelled, netsvcerrors.FromError(err).Code())

		addr, err = e.Next(context.Background())
		assert.NoError(t, err)
		assert.Nil(t, addr)
	})

	t.Run("async step", func(t *testing.T) {
		book := newBook()
		book.set("ldap1.example.com", connectabletest.NewFakeConnectable(
			[]connectabletest.Step{{WaitForCancel: true}}, nil, connectabletest.AsyncOnGoroutine()))
		svc := newLDAP(t, fixedResolver{ldap1, ldap2}, book)
		e := svc.Enumerate()

		ctx, cancel := context.WithCancel(context.Background())
		results := make(chan connectabletest.Result, 1)
		require.NoError(t, e.NextAsync(ctx, func(addr net.Addr, err error) {
			results <- connectabletest.Result{Addr: addr, Err: err}
		}))
		cancel()

		res := <-results
		assert.Nil(t, res.Addr)
		assert.Equal(t, netsvcerrors.CodeCancelled, netsvcerrors.FromError(res.Err).Code())

		rest, err := connectabletest.DrainAsync(context.Background(), e, testtime.Second)
		require.NoError(t, err)
		assert.Equal(t, []string{"tcp/10.0.1.1:389"}, connectabletest.Strings(rest))
	})

	t.Run("during lookup", func(t *testing.T) {
		svc := newLDAP(t, resolver.NewStatic(nil), newBook())
		e := svc.Enumerate()

		_, err := e.Next(cancelled)
		assert.Equal(t, netsvcerrors.CodeCancelled, netsvcerrors.FromError(err).Code())

		addr, err := e.Next(context.Background())
		assert.NoError(t, err, "a failed lookup is fatal to the enumerator")
		assert.Nil(t, addr)
	})
}

func TestNextAsyncFailsFast(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	pending := make(chan srv.LookupFunc, 1)
	r := srvtest.NewMockResolver(mockCtrl)
	r.EXPECT().
		LookupServiceAsync(gomock.Any(), "ldap", "tcp", "example.com", gomock.Any()).
		Do(func(_ context.Context, _, _, _ string, done srv.LookupFunc) {
			pending <- done
		})

	svc := newLDAP(t, r, newAddressBook())
	e := svc.Enumerate()

	results := make(chan connectabletest.Result, 2)
	record := func(addr net.Addr, err error) {
		results <- connectabletest.Result{Addr: addr, Err: err}
	}

	require.NoError(t, e.NextAsync(context.Background(), record))
	err := e.NextAsync(context.Background(), record)
	require.Error(t, err)
	assert.Equal(t, netsvcerrors.CodeFailedPrecondition, netsvcerrors.FromError(err).Code())

	(<-pending)([]srv.Target{ldap2}, nil)
	res := <-results
	require.NoError(t, res.Err)
	assert.Equal(t, "10.0.1.1:389", res.Addr.String())
	assert.Empty(t, results, "the rejected step must not complete")

	// The completion has ended the step, so the next one starts from it.
	require.NoError(t, e.NextAsync(context.Background(), func(addr net.Addr, err error) {
		assert.NoError(t, err)
		assert.Nil(t, addr)
		require.NoError(t, e.NextAsync(context.Background(), record))
	}))
	res = <-results
	assert.Nil(t, res.Addr)
	assert.NoError(t, res.Err)
}

func TestNextDuringAsyncStep(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	pending := make(chan srv.LookupFunc, 1)
	r := srvtest.NewMockResolver(mockCtrl)
	r.EXPECT().
		LookupServiceAsync(gomock.Any(), "ldap", "tcp", "example.com", gomock.Any()).
		Do(func(_ context.Context, _, _, _ string, done srv.LookupFunc) {
			pending <- done
		})

	svc := newLDAP(t, r, newAddressBook())
	e := svc.Enumerate()

	results := make(chan connectabletest.Result, 1)
	require.NoError(t, e.NextAsync(context.Background(), func(addr net.Addr, err error) {
		results <- connectabletest.Result{Addr: addr, Err: err}
	}))

	addr, err := e.Next(context.Background())
	assert.Nil(t, addr)
	require.Error(t, err)
	assert.Equal(t, netsvcerrors.CodeFailedPrecondition, netsvcerrors.FromError(err).Code())

	(<-pending)([]srv.Target{ldap2}, nil)
	res := <-results
	require.NoError(t, res.Err)
	assert.Equal(t, "10.0.1.1:389", res.Addr.String())

	addr, err = e.Next(context.Background())
	assert.NoError(t, err, "blocking steps work again once the async step completed")
	assert.Nil(t, addr)
}

func TestChildRefusesAsyncStep(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	busy := netsvcerrors.FailedPreconditionErrorf("child is busy")
	child := connectabletest.NewMockAddressEnumerator(mockCtrl)
	child.EXPECT().NextAsync(gomock.Any(), gomock.Any()).Return(busy)
	child.EXPECT().Close().Return(nil)

	refusing := connectabletest.NewMockConnectable(mockCtrl)
	refusing.EXPECT().Enumerate().Return(child)

	book := newAddressBook()
	svc, err := New("ldap", "tcp", "example.com",
		Resolver(staticResolver(ldap1, ldap2)),
		AddressFactory(func(uri string, port uint16) (connectable.Connectable, error) {
			if uri == "ldap://ldap1.example.com:389" {
				return refusing, nil
			}
			return book.address(uri, port)
		}),
	)
	require.NoError(t, err)

	results, err := connectabletest.DrainAsync(context.Background(), svc.Enumerate(), testtime.Second)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"tcp/10.0.1.1:389",
		"error: code:failed-precondition message:child is busy",
	}, connectabletest.Strings(results), "a refused step counts as a failed target")
}

func TestSchemeChangeMidEnumeration(t *testing.T) {
	book := newAddressBook()
	svc := newLDAP(t, staticResolver(ldap1, ldap2), book)
	e := svc.Enumerate()

	addr, err := e.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1:389", addr.String())

	svc.SetScheme("ldaps")

	_, err = connectabletest.Drain(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"ldap://ldap1.example.com:389",
		"ldaps://ldap2.example.com:389",
	}, book.URIs())
}

func TestClose(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	child := connectabletest.NewMockAddressEnumerator(mockCtrl)
	child.EXPECT().Next(gomock.Any()).Return(connectabletest.TCPAddr("10.0.0.1", 389), nil)
	child.EXPECT().Close().Return(errors.New("close failed"))

	conn := connectabletest.NewMockConnectable(mockCtrl)
	conn.EXPECT().Enumerate().Return(child)

	svc, err := New("ldap", "tcp", "example.com",
		Resolver(staticResolver(ldap1)),
		AddressFactory(func(string, uint16) (connectable.Connectable, error) { return conn, nil }),
	)
	require.NoError(t, err)

	e := svc.Enumerate()
	addr, err := e.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1:389", addr.String())

	assert.EqualError(t, e.Close(), "close failed")

	addr, err = e.Next(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, addr, "closed enumerators are exhausted")
	assert.NoError(t, e.Close())
}

func TestEnumerateObservability(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	root := metrics.New()
	tracer := mocktracer.New()

	book := newAddressBook()
	book.set("ldap1.example.com", connectabletest.NewFakeConnectable(
		[]connectabletest.Step{{Err: netsvcerrors.AddressExpansionFailureErrorf("gone")}}, nil))
	svc := newLDAP(t, staticResolver(ldap1, ldap2), book,
		Logger(zap.New(core)),
		Meter(root.Scope()),
		Tracer(tracer),
	)

	_, err := connectabletest.Drain(context.Background(), svc.Enumerate())
	require.NoError(t, err)

	skipped := logs.FilterMessage("skipping target").All()
	require.Len(t, skipped, 1)
	fields := skipped[0].ContextMap()
	assert.Equal(t, "_ldap._tcp.example.com", fields["service"])
	assert.Equal(t, "direct", fields["mode"])
	assert.Equal(t, ldap1.String(), fields["target"])
	assert.Equal(t, 1, logs.FilterMessage("resolved service").Len())

	assert.Equal(t, int64(1), counterValue(t, root, "netsvc_service_lookups", nil))
	assert.Equal(t, int64(1), counterValue(t, root, "netsvc_skipped_targets", metrics.Tags{"code": "address-expansion-failure"}))
	assert.Equal(t, int64(1), counterValue(t, root, "netsvc_addresses", metrics.Tags{"mode": "direct"}))

	spans := tracer.FinishedSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "netsvc.lookup-service", spans[0].OperationName)
	assert.Equal(t, "ldap", spans[0].Tag("netsvc.service"))
	assert.Equal(t, 2, spans[0].Tag("netsvc.targets"))
	assert.Nil(t, spans[0].Tag("error"))
}

func TestLookupFailureIsTraced(t *testing.T) {
	tracer := mocktracer.New()
	root := metrics.New()
	svc := newLDAP(t, resolver.NewStatic(nil), newAddressBook(), Tracer(tracer), Meter(root.Scope()))

	_, err := svc.Enumerate().Next(context.Background())
	require.Error(t, err)

	spans := tracer.FinishedSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, true, spans[0].Tag("error"))
	assert.Equal(t, int64(1), counterValue(t, root, "netsvc_service_lookup_failures", metrics.Tags{"code": "resolution-failure"}))
}

func counterValue(t *testing.T, root *metrics.Root, name string, tags metrics.Tags) int64 {
	t.Helper()
	for _, c := range root.Snapshot().Counters {
		if c.Name != name {
			continue
		}
		matched := true
		for k, v := range tags {
			if c.Tags[k] != v {
				matched = false
			}
		}
		if matched {
			return c.Value
		}
	}
	t.Fatalf("no counter %q with tags %v", name, tags)
	return 0
}
