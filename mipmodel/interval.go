// Copyright 2024-2026 The optkit Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mipmodel

import (
	"fmt"
	"math"
)

// ClosedInterval is an inclusive interval of float64 values. Either endpoint
// may be infinite.
type ClosedInterval struct {
	Start, End float64
}

// AllValues returns the interval containing every value.
func AllValues() ClosedInterval {
	return ClosedInterval{math.Inf(-1), math.Inf(1)}
}

// String formats the interval as `[Start,End]`, or `[Start]` when both
// endpoints coincide.
func (c ClosedInterval) String() string {
	if c.Start == c.End {
		return fmt.Sprintf("[%v]", c.Start)
	}
	return fmt.Sprintf("[%v,%v]", c.Start, c.End)
}

// IsEmpty returns true if the interval contains no values.
func (c ClosedInterval) IsEmpty() bool {
	return c.Start > c.End || math.IsNaN(c.Start) || math.IsNaN(c.End)
}

// Offset returns the interval shifted by `d`. Infinite endpoints stay
// infinite.
func (c ClosedInterval) Offset(d float64) ClosedInterval {
	return ClosedInterval{c.Start + d, c.End + d}
}

// Contains reports whether `v` lies in the interval, allowing the given
// absolute tolerance at both endpoints.
func (c ClosedInterval) Contains(v, tol float64) bool {
	return v >= c.Start-tol && v <= c.End+tol
}
