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

// Model is the plain-data form of a mixed-integer linear program and the
// input to the solve entry points. A Builder assembles one incrementally;
// the solver consumes it read-only. The zero value is an empty minimization
// model.
type Model struct {
	// Name is an optional display name used by exports.
	Name string
	// Maximize flips the optimization sense from the default minimization.
	Maximize bool
	// ObjectiveOffset is added to the objective value of every solution.
	ObjectiveOffset float64
	Variables       []Variable
	Constraints     []LinearConstraint
	// SolutionHint optionally suggests a starting assignment. A hint that
	// covers every variable and is feasible seeds the incumbent.
	SolutionHint *PartialAssignment
}

// Variable is one decision variable of a Model.
type Variable struct {
	Name string
	// LowerBound and UpperBound delimit the feasible values. The lower
	// bound must be finite; the upper bound may be +infinity.
	LowerBound float64
	UpperBound float64
	// ObjectiveCoefficient is the variable's multiplier in the objective.
	ObjectiveCoefficient float64
	// IsInteger restricts the variable to integer values.
	IsInteger bool
}

// LinearConstraint restricts a weighted sum of variables:
// LowerBound <= sum(Coefficients[k] * x[VarIndexes[k]]) <= UpperBound.
// VarIndexes and Coefficients are parallel slices sorted by strictly
// increasing variable index. Either bound may be infinite.
type LinearConstraint struct {
	Name         string
	VarIndexes   []int32
	Coefficients []float64
	LowerBound   float64
	UpperBound   float64
}

// PartialAssignment pairs variable indexes with suggested values, sorted by
// strictly increasing index.
type PartialAssignment struct {
	VarIndexes []int32
	Values     []float64
}

// validateModel checks the structural invariants the solver relies on. The
// solve entry points report violations as StatusModelInvalid rather than as
// Go errors.
func validateModel(m *Model) error {
	if math.IsNaN(m.ObjectiveOffset) || math.IsInf(m.ObjectiveOffset, 0) {
		return fmt.Errorf("objective offset %v is not finite", m.ObjectiveOffset)
	}
	for i, v := range m.Variables {
		if math.IsNaN(v.LowerBound) || math.IsInf(v.LowerBound, 0) {
			return fmt.Errorf("variable %d (%q): lower bound %v must be finite", i, v.Name, v.LowerBound)
		}
		if math.IsNaN(v.UpperBound) || math.IsInf(v.UpperBound, -1) {
			return fmt.Errorf("variable %d (%q): upper bound %v must be finite or +Inf", i, v.Name, v.UpperBound)
		}
		if v.LowerBound > v.UpperBound {
			return fmt.Errorf("variable %d (%q): bounds %v are empty", i, v.Name, ClosedInterval{v.LowerBound, v.UpperBound})
		}
		if math.IsNaN(v.ObjectiveCoefficient) || math.IsInf(v.ObjectiveCoefficient, 0) {
			return fmt.Errorf("variable %d (%q): objective coefficient %v is not finite", i, v.Name, v.ObjectiveCoefficient)
		}
	}
	for ci, c := range m.Constraints {
		if len(c.VarIndexes) != len(c.Coefficients) {
			return fmt.Errorf("constraint %d (%q): %d variable indexes but %d coefficients", ci, c.Name, len(c.VarIndexes), len(c.Coefficients))
		}
		if math.IsNaN(c.LowerBound) || math.IsNaN(c.UpperBound) {
			return fmt.Errorf("constraint %d (%q): bounds %v contain NaN", ci, c.Name, ClosedInterval{c.LowerBound, c.UpperBound})
		}
		prev := int32(-1)
		for k, ind := range c.VarIndexes {
			if ind < 0 || int(ind) >= len(m.Variables) {
				return fmt.Errorf("constraint %d (%q): variable index %d out of range", ci, c.Name, ind)
			}
			if ind <= prev {
				return fmt.Errorf("constraint %d (%q): variable indexes must be strictly increasing, got %d after %d", ci, c.Name, ind, prev)
			}
			if coeff := c.Coefficients[k]; math.IsNaN(coeff) || math.IsInf(coeff, 0) {
				return fmt.Errorf("constraint %d (%q): coefficient %v on variable %d is not finite", ci, c.Name, coeff, ind)
			}
			prev = ind
		}
	}
	if h := m.SolutionHint; h != nil {
		if len(h.VarIndexes) != len(h.Values) {
			return fmt.Errorf("solution hint: %d variable indexes but %d values", len(h.VarIndexes), len(h.Values))
		}
		prev := int32(-1)
		for k, ind := range h.VarIndexes {
			if ind < 0 || int(ind) >= len(m.Variables) {
				return fmt.Errorf("solution hint: variable index %d out of range", ind)
			}
			if ind <= prev {
				return fmt.Errorf("solution hint: variable indexes must be strictly increasing, got %d after %d", ind, prev)
			}
			if v := h.Values[k]; math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("solution hint: value %v for variable %d is not finite", v, ind)
			}
			prev = ind
		}
	}
	return nil
}
