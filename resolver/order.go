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
	"math/rand"
	"sort"

	"go.uber.org/netsvc/api/srv"
)

// Order sorts targets as RFC 2782 asks clients to try them: ascending
// priority, and within a priority a random permutation in which targets
// with a larger weight tend to come first. Zero-weight targets follow the
// weighted ones. targets is sorted in place and returned.
func Order(targets []srv.Target, r *rand.Rand) []srv.Target {
	sort.SliceStable(targets, func(i, j int) bool {
		if targets[i].Priority != targets[j].Priority {
			return targets[i].Priority < targets[j].Priority
		}
		return targets[i].Weight < targets[j].Weight
	})

	for start := 0; start < len(targets); {
		end := start + 1
		for end < len(targets) && targets[end].Priority == targets[start].Priority {
			end++
		}
		shuffleByWeight(targets[start:end], r)
		start = end
	}
	return targets
}

func shuffleByWeight(targets []srv.Target, r *rand.Rand) {
	sum := 0
	for _, t := range targets {
		sum += int(t.Weight)
	}
	for sum > 0 && len(targets) > 1 {
		n := r.Intn(sum)
		s := 0
		for i := range targets {
			s += int(targets[i].Weight)
			if s > n {
				targets[0], targets[i] = targets[i], targets[0]
				break
			}
		}
		sum -= int(targets[0].Weight)
		targets = targets[1:]
	}
}
