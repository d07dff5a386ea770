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
	"math/rand"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/netsvc/api/srv"
	"go.uber.org/netsvc/internal/testtime"
	"go.uber.org/netsvc/netsvcerrors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const _ldapName = "_ldap._tcp.example.com."

func srvRecord(name, target string, port, priority, weight uint16) *dns.SRV {
	return &dns.SRV{
		Hdr: dns.RR_Header{
			Name:   name,
			Rrtype: dns.TypeSRV,
			Class:  dns.ClassINET,
			Ttl:    60,
		},
		Priority: priority,
		Weight:   weight,
		Port:     port,
		Target:   target,
	}
}

// ldapRecords serves two LDAP servers at distinct priorities and the
// "service not available" target under another name.
var ldapRecords = map[string][]dns.RR{
	_ldapName: {
		srvRecord(_ldapName, "ldap2.example.com.", 389, 20, 0),
		srvRecord(_ldapName, "ldap1.example.com.", 389, 10, 0),
	},
	"_none._tcp.example.com.": {
		srvRecord("_none._tcp.example.com.", ".", 0, 0, 0),
	},
}

// srvHandler answers SRV queries from records. With truncateUDP, answers
// over UDP are empty and truncated so clients must retry over TCP.
func srvHandler(records map[string][]dns.RR, truncateUDP bool) dns.HandlerFunc {
	return func(w dns.ResponseWriter, req *dns.Msg) {
		resp := new(dns.Msg)
		resp.SetReply(req)
		resp.Authoritative = true
		resp.RecursionAvailable = true

		rrs, ok := records[req.Question[0].Name]
		switch {
		case !ok:
			resp.Rcode = dns.RcodeNameError
		case truncateUDP && w.RemoteAddr().Network() == "udp":
			resp.Truncated = true
		default:
			resp.Answer = append(resp.Answer, rrs...)
		}
		_ = w.WriteMsg(resp)
	}
}

// startDNSServer serves handler over UDP and TCP on the same loopback port.
func startDNSServer(t *testing.T, handler dns.Handler) string {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	conn, err := net.ListenPacket("udp", listener.Addr().String())
	require.NoError(t, err)

	for _, server := range []*dns.Server{
		{Listener: listener, Handler: handler},
		{PacketConn: conn, Handler: handler},
	} {
		server := server
		started := make(chan struct{})
		server.NotifyStartedFunc = func() { close(started) }
		go func() { _ = server.ActivateAndServe() }()
		require.NoError(t, testtime.Await(started, testtime.Second))
		t.Cleanup(func() { _ = server.Shutdown() })
	}
	return listener.Addr().String()
}

func TestDNSLookupService(t *testing.T) {
	addr := startDNSServer(t, srvHandler(ldapRecords, false))
	r, err := NewDNS(DNSConfig{Nameservers: []string{addr}, Timeout: testtime.Second})
	require.NoError(t, err)

	targets, err := r.LookupService(context.Background(), "ldap", "tcp", "example.com")
	require.NoError(t, err)
	assert.Equal(t, []srv.Target{
		{Hostname: "ldap1.example.com", Port: 389, Priority: 10},
		{Hostname: "ldap2.example.com", Port: 389, Priority: 20},
	}, targets)

	targets, err = r.LookupService(context.Background(), "none", "tcp", "example.com")
	require.NoError(t, err)
	assert.Empty(t, targets)

	_, err = r.LookupService(context.Background(), "http", "tcp", "example.com")
	require.Error(t, err)
	assert.Equal(t, netsvcerrors.CodeResolutionFailure, netsvcerrors.FromError(err).Code())
	assert.Contains(t, err.Error(), "_http._tcp.example.com")
}

func TestDNSRetriesTruncatedOverTCP(t *testing.T) {
	addr := startDNSServer(t, srvHandler(ldapRecords, true))
	r, err := NewDNS(DNSConfig{Nameservers: []string{addr}, Timeout: testtime.Second})
	require.NoError(t, err)

	targets, err := r.LookupService(context.Background(), "ldap", "tcp", "example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"ldap1.example.com", "ldap2.example.com"}, hostnames(targets))
}

func TestDNSFallsBackToNextNameserver(t *testing.T) {
	refused := startDNSServer(t, dns.HandlerFunc(func(w dns.ResponseWriter, req *dns.Msg) {
		resp := new(dns.Msg)
		resp.SetRcode(req, dns.RcodeRefused)
		_ = w.WriteMsg(resp)
	}))
	good := startDNSServer(t, srvHandler(ldapRecords, false))

	r, err := NewDNS(DNSConfig{Nameservers: []string{refused, good}, Timeout: testtime.Second})
	require.NoError(t, err)

	targets, err := r.LookupService(context.Background(), "ldap", "tcp", "example.com")
	require.NoError(t, err)
	assert.Len(t, targets, 2)
}

func TestDNSAllNameserversFail(t *testing.T) {
	refused := startDNSServer(t, dns.HandlerFunc(func(w dns.ResponseWriter, req *dns.Msg) {
		resp := new(dns.Msg)
		resp.SetRcode(req, dns.RcodeServerFailure)
		_ = w.WriteMsg(resp)
	}))

	r, err := NewDNS(DNSConfig{Nameservers: []string{refused}, Timeout: testtime.Second})
	require.NoError(t, err)

	_, err = r.LookupService(context.Background(), "ldap", "tcp", "example.com")
	require.Error(t, err)
	assert.Equal(t, netsvcerrors.CodeResolutionFailure, netsvcerrors.FromError(err).Code())
	assert.Contains(t, err.Error(), "SERVFAIL")
}

func TestDNSCancelled(t *testing.T) {
	addr := startDNSServer(t, srvHandler(ldapRecords, false))
	r, err := NewDNS(DNSConfig{Nameservers: []string{addr}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.LookupService(ctx, "ldap", "tcp", "example.com")
	require.Error(t, err)
	assert.Equal(t, netsvcerrors.CodeCancelled, netsvcerrors.FromError(err).Code())
}

func TestNewDNS(t *testing.T) {
	t.Run("default port", func(t *testing.T) {
		r, err := NewDNS(DNSConfig{Nameservers: []string{"10.0.0.53", "[2001:db8::53]", "10.0.0.54:5353"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"10.0.0.53:53", "[2001:db8::53]:53", "10.0.0.54:5353"}, r.Nameservers())
	})

	t.Run("resolv.conf", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "resolv.conf")
		require.NoError(t, os.WriteFile(path, []byte("nameserver 192.0.2.53\nnameserver 192.0.2.54\n"), 0o644))

		r, err := NewDNS(DNSConfig{ResolvConf: path})
		require.NoError(t, err)
		assert.Equal(t, []string{"192.0.2.53:53", "192.0.2.54:53"}, r.Nameservers())
	})

	t.Run("missing resolv.conf", func(t *testing.T) {
		_, err := NewDNS(DNSConfig{ResolvConf: filepath.Join(t.TempDir(), "missing")})
		require.Error(t, err)
		assert.Equal(t, netsvcerrors.CodeInvalidArgument, netsvcerrors.FromError(err).Code())
	})

	t.Run("bad network", func(t *testing.T) {
		_, err := NewDNS(DNSConfig{Nameservers: []string{"10.0.0.53"}, Net: "sctp"})
		require.Error(t, err)
	})
}

func TestSystemLookupService(t *testing.T) {
	addr := startDNSServer(t, srvHandler(ldapRecords, false))
	var dialer net.Dialer
	r := NewSystemFrom(&net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, network, _ string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, addr)
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*testtime.Second)
	defer cancel()

	targets, err := r.LookupService(ctx, "ldap", "tcp", "example.com")
	require.NoError(t, err)
	assert.Equal(t, []srv.Target{
		{Hostname: "ldap1.example.com", Port: 389, Priority: 10},
		{Hostname: "ldap2.example.com", Port: 389, Priority: 20},
	}, targets)

	targets, err = r.LookupService(ctx, "none", "tcp", "example.com")
	require.NoError(t, err)
	assert.Empty(t, targets)
}

func TestStatic(t *testing.T) {
	r := NewStatic(map[string][]srv.Target{
		"_ldap._tcp.Example.com.": {
			{Hostname: "ldap2.example.com", Port: 389, Priority: 20},
			{Hostname: "ldap1.example.com", Port: 389, Priority: 10},
		},
		"_empty._tcp.example.com": {},
	}, Rand(rand.New(rand.NewSource(1))))

	targets, err := r.LookupService(context.Background(), "ldap", "tcp", "example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"ldap1.example.com", "ldap2.example.com"}, hostnames(targets))

	targets, err = r.LookupService(context.Background(), "empty", "tcp", "example.com")
	require.NoError(t, err)
	assert.Empty(t, targets)

	_, err = r.LookupService(context.Background(), "http", "tcp", "example.com")
	assert.Equal(t, netsvcerrors.CodeResolutionFailure, netsvcerrors.FromError(err).Code())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.LookupService(ctx, "ldap", "tcp", "example.com")
	assert.Equal(t, netsvcerrors.CodeCancelled, netsvcerrors.FromError(err).Code())
}

func TestLookupServiceAsync(t *testing.T) {
	r := NewStatic(map[string][]srv.Target{
		"_ldap._tcp.example.com": {{Hostname: "ldap1.example.com", Port: 389}},
	})

	type result struct {
		targets []srv.Target
		err     error
	}
	results := make(chan result, 1)
	r.LookupServiceAsync(context.Background(), "ldap", "tcp", "example.com", func(targets []srv.Target, err error) {
		results <- result{targets, err}
	})

	select {
	case res := <-results:
		require.NoError(t, res.err)
		assert.Equal(t, []string{"ldap1.example.com"}, hostnames(res.targets))
	case <-time.After(testtime.Second):
		t.Fatal("lookup did not complete")
	}
}

func TestConfigBuild(t *testing.T) {
	tests := []struct {
		desc    string
		cfg     Config
		want    interface{}
		wantErr bool
	}{
		{desc: "default", cfg: Config{}, want: &System{}},
		{desc: "system", cfg: Config{Kind: KindSystem}, want: &System{}},
		{desc: "dns", cfg: Config{Kind: KindDNS, Nameservers: []string{"10.0.0.53"}}, want: &DNS{}},
		{desc: "static", cfg: Config{Kind: KindStatic}, want: &Static{}},
		{desc: "unknown", cfg: Config{Kind: "mdns"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			r, err := tt.cfg.Build()
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, netsvcerrors.CodeInvalidArgument, netsvcerrors.FromError(err).Code())
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, r)
		})
	}
}
