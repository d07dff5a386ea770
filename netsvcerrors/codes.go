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

package netsvcerrors

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// CodeOK means no error; returned on success
	CodeOK Code = 0

	// CodeCancelled means the operation was cancelled, typically by the caller
	// cancelling the context of a lookup or an enumeration step.
	CodeCancelled Code = 1

	// CodeUnknown means an unknown error. Errors raised by collaborators that
	// do not carry a Status may be converted to this error.
	CodeUnknown Code = 2

	// CodeInvalidArgument means malformed input: an empty service, protocol,
	// or domain, an unparsable address URI, or a target hostname that cannot
	// be converted to an ASCII-compatible form.
	CodeInvalidArgument Code = 3

	// CodeDeadlineExceeded means the context deadline expired before the
	// lookup or expansion could complete.
	CodeDeadlineExceeded Code = 4

	// CodeFailedPrecondition means the operation was rejected because the
	// enumerator is not in a state required for it, for example a second
	// asynchronous step issued while the first one is still outstanding.
	CodeFailedPrecondition Code = 9

	// CodeInternal means some invariant expected by the enumerator has been
	// broken. This error code is reserved for serious errors.
	CodeInternal Code = 13

	// CodeResolutionFailure means the whole-service lookup failed. It is
	// fatal for an enumeration: no targets are produced.
	CodeResolutionFailure Code = 17

	// CodeAddressExpansionFailure means a single target could not be expanded
	// into socket addresses. It is recoverable: the target is skipped and the
	// enumeration moves on.
	CodeAddressExpansionFailure Code = 18
)

var (
	_codeToString = map[Code]string{
		CodeOK:                      "ok",
		CodeCancelled:               "cancelled",
		CodeUnknown:                 "unknown",
		CodeInvalidArgument:         "invalid-argument",
		CodeDeadlineExceeded:        "deadline-exceeded",
		CodeFailedPrecondition:      "failed-precondition",
		CodeInternal:                "internal",
		CodeResolutionFailure:       "resolution-failure",
		CodeAddressExpansionFailure: "address-expansion-failure",
	}
	_stringToCode = map[string]Code{
		"ok":                        CodeOK,
		"cancelled":                 CodeCancelled,
		"unknown":                   CodeUnknown,
		"invalid-argument":          CodeInvalidArgument,
		"deadline-exceeded":         CodeDeadlineExceeded,
		"failed-precondition":       CodeFailedPrecondition,
		"internal":                  CodeInternal,
		"resolution-failure":        CodeResolutionFailure,
		"address-expansion-failure": CodeAddressExpansionFailure,
	}
)

// Code represents the type of error for a service lookup or an address
// enumeration step.
//
// Codes shared with gRPC status codes keep the same numeric values.
// CodeResolutionFailure and CodeAddressExpansionFailure are specific to
// service enumeration.
type Code int

// String returns the the string representation of the Code.
func (c Code) String() string {
	s, ok := _codeToString[c]
	if ok {
		return s
	}
	return strconv.Itoa(int(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c Code) MarshalText() ([]byte, error) {
	s, ok := _codeToString[c]
	if ok {
		return []byte(s), nil
	}
	return nil, fmt.Errorf("unknown code: %d", int(c))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Code) UnmarshalText(text []byte) error {
	i, ok := _stringToCode[strings.ToLower(string(text))]
	if !ok {
		return fmt.Errorf("unknown code string: %s", string(text))
	}
	*c = i
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c Code) MarshalJSON() ([]byte, error) {
	s, ok := _codeToString[c]
	if ok {
		return []byte(`"` + s + `"`), nil
	}
	return nil, fmt.Errorf("unknown code: %d", int(c))
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Code) UnmarshalJSON(text []byte) error {
	s := string(text)
	if len(s) < 3 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid code string: %s", s)
	}
	i, ok := _stringToCode[strings.ToLower(s[1:len(s)-1])]
	if !ok {
		return fmt.Errorf("unknown code string: %s", s)
	}
	*c = i
	return nil
}
