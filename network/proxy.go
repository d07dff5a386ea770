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

package network

import (
	"net"
	"net/url"
)

// ProtocolDirect is the ProxyAddress protocol of connections that bypass
// any proxy.
const ProtocolDirect = "direct"

// _defaultProxyPorts are used when a proxy URL carries no port.
var _defaultProxyPorts = map[string]uint16{
	"http":    80,
	"https":   443,
	"socks":   1080,
	"socks4":  1080,
	"socks4a": 1080,
	"socks5":  1080,
}

// ProxyAddress is a socket address to dial along with the destination it
// leads to. With a proxy, the embedded address is the proxy's; otherwise it
// is the destination's own.
type ProxyAddress struct {
	net.Addr

	// Protocol is the proxy scheme, or ProtocolDirect.
	Protocol string
	// Proxy is nil for direct connections.
	Proxy *url.URL

	DestinationURI      string
	DestinationHostname string
	DestinationPort     uint16
}

// Direct reports whether the address bypasses any proxy.
func (p *ProxyAddress) Direct() bool {
	return p.Proxy == nil
}

func proxyPort(u *url.URL) (uint16, bool) {
	if p := u.Port(); p != "" {
		port, err := parsePort(p)
		return port, err == nil
	}
	port, ok := _defaultProxyPorts[u.Scheme]
	return port, ok
}
