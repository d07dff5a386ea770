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

// Package observer holds the counters a Service emits while resolving and
// enumerating.
package observer

import (
	"go.uber.org/net/metrics"
	"go.uber.org/netsvc/netsvcerrors"
	"go.uber.org/zap"
)

const (
	_componentTag = "component"
	_serviceTag   = "service"
	_codeTag      = "code"
	_modeTag      = "mode"
)

// Modes of enumeration, used as the mode tag of the addresses counter.
const (
	ModeDirect = "direct"
	ModeProxy  = "proxy"
)

// Params holds parameters needed for creating new observer.
type Params struct {
	Meter   *metrics.Scope
	Logger  *zap.Logger
	Service string // RFC 2782 name of the service, "_ldap._tcp.example.com".
}

// Observer holds service metrics. A nil *Observer drops everything.
type Observer struct {
	lookups        *metrics.Counter
	lookupFailures *metrics.CounterVector
	skippedTargets *metrics.CounterVector
	addresses      *metrics.CounterVector
}

// NewObserver returns an observer emitting service metrics to p.Meter.
func NewObserver(p Params) *Observer {
	if p.Meter == nil {
		return nil
	}
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tags := metrics.Tags{
		_componentTag: "netsvc",
		_serviceTag:   p.Service,
	}

	lookups, err := p.Meter.Counter(metrics.Spec{
		Name:      "netsvc_service_lookups",
		Help:      "Total number of service lookups started.",
		ConstTags: tags,
	})
	if err != nil {
		logger.Error("failed to create service lookups counter", zap.Error(err))
	}

	lookupFailures, err := p.Meter.CounterVector(metrics.Spec{
		Name:      "netsvc_service_lookup_failures",
		Help:      "Total number of failed service lookups.",
		ConstTags: tags,
		VarTags:   []string{_codeTag},
	})
	if err != nil {
		logger.Error("failed to create service lookup failures counter", zap.Error(err))
	}

	skipped, err := p.Meter.CounterVector(metrics.Spec{
		Name:      "netsvc_skipped_targets",
		Help:      "Total number of targets skipped because they could not be expanded.",
		ConstTags: tags,
		VarTags:   []string{_codeTag},
	})
	if err != nil {
		logger.Error("failed to create skipped targets counter", zap.Error(err))
	}

	addresses, err := p.Meter.CounterVector(metrics.Spec{
		Name:      "netsvc_addresses",
		Help:      "Total number of socket addresses handed out.",
		ConstTags: tags,
		VarTags:   []string{_modeTag},
	})
	if err != nil {
		logger.Error("failed to create addresses counter", zap.Error(err))
	}

	return &Observer{
		lookups:        lookups,
		lookupFailures: lookupFailures,
		skippedTargets: skipped,
		addresses:      addresses,
	}
}

// IncLookups increments the service lookups metric.
func (o *Observer) IncLookups() {
	if o == nil || o.lookups == nil {
		return
	}
	o.lookups.Inc()
}

// IncLookupFailures increments the lookup failures metric for the code of err.
func (o *Observer) IncLookupFailures(err error) {
	if o == nil {
		return
	}
	inc(o.lookupFailures, _codeTag, netsvcerrors.FromError(err).Code().String())
}

// IncSkippedTargets increments the skipped targets metric for the code of
// err.
func (o *Observer) IncSkippedTargets(err error) {
	if o == nil {
		return
	}
	inc(o.skippedTargets, _codeTag, netsvcerrors.FromError(err).Code().String())
}

// IncAddresses increments the addresses metric for an enumeration mode.
func (o *Observer) IncAddresses(mode string) {
	if o == nil {
		return
	}
	inc(o.addresses, _modeTag, mode)
}

func inc(cv *metrics.CounterVector, tag, value string) {
	if cv == nil {
		return
	}
	cv.MustGet(tag, value).Inc()
}
