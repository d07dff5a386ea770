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

// Package hostname converts possibly internationalized hostnames into their
// ASCII-compatible form.
package hostname

import (
	"net/netip"
	"strings"

	"golang.org/x/net/idna"
)

// _profile maps like idna.Lookup but leaves STD3 rules off, so labels such
// as "dc_1" that SRV records commonly carry are accepted.
var _profile = idna.New(
	idna.MapForLookup(),
	idna.BidiRule(),
	idna.StrictDomainName(false),
)

// ToASCII returns the ASCII-compatible (punycode) form of name, lowercased.
// IP literals, zoned IPv6 ones included, are returned unchanged. Underscores are allowed. It returns
// false if name is empty or is not a valid hostname.
func ToASCII(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if _, err := netip.ParseAddr(strings.Trim(name, "[]")); err == nil {
		return name, true
	}

	ascii, err := _profile.ToASCII(name)
	if err != nil || ascii == "" || !validASCII(ascii) {
		return "", false
	}
	return ascii, true
}

// validASCII allows letters, digits, '-', '_' and '.'.
func validASCII(name string) bool {
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		case c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}

// IsASCIIEncoded reports whether name contains an ACE label, for example
// "xn--bcher-kva.example".
func IsASCIIEncoded(name string) bool {
	for _, label := range strings.Split(name, ".") {
		if len(label) > 4 && strings.EqualFold(label[:4], "xn--") {
			return true
		}
	}
	return false
}

// ToUnicode converts an ASCII-compatible hostname back to Unicode for
// display. Names that cannot be decoded are returned as is.
func ToUnicode(name string) string {
	u, err := _profile.ToUnicode(name)
	if err != nil {
		return name
	}
	return u
}
