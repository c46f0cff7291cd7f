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

// varLabel names a variable in messages and exports, falling back to a
// positional name when the model left it unnamed.
func varLabel(i int, name string) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("x%d", i)
}

func constraintLabel(i int, name string) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("c%d", i)
}

// VerifySolution checks values against a model's variable bounds,
// integrality requirements, and constraints, with tol as the absolute
// tolerance. It returns nil for a feasible solution and an error naming the
// first violation otherwise.
func VerifySolution(m *Model, values []float64, tol float64) error {
	if err := validateModel(m); err != nil {
		return fmt.Errorf("invalid model: %w", err)
	}
	if len(values) != len(m.Variables) {
		return fmt.Errorf("got %d values for %d variables", len(values), len(m.Variables))
	}
	for i, v := range m.Variables {
		x := values[i]
		if math.IsNaN(x) {
			return fmt.Errorf("variable %s has value NaN", varLabel(i, v.Name))
		}
		bounds := ClosedInterval{Start: v.LowerBound, End: v.UpperBound}
		if !bounds.Contains(x, tol) {
			return fmt.Errorf("variable %s value %v violates bounds %v", varLabel(i, v.Name), x, bounds)
		}
		if v.IsInteger && math.Abs(x-math.Round(x)) > tol {
			return fmt.Errorf("integer variable %s has fractional value %v", varLabel(i, v.Name), x)
		}
	}
	for ci, c := range m.Constraints {
		activity := 0.0
		for k, ind := range c.VarIndexes {
			activity += c.Coefficients[k] * values[ind]
		}
		bounds := ClosedInterval{Start: c.LowerBound, End: c.UpperBound}
		if !bounds.Contains(activity, tol) {
			return fmt.Errorf("constraint %s activity %v violates bounds %v", constraintLabel(ci, c.Name), activity, bounds)
		}
	}
	return nil
}
