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
	"strings"
)

// ExportModelAsLpFormat writes a model in the CPLEX LP text format, which is
// handy for inspecting a model or feeding it to external solvers.
func ExportModelAsLpFormat(m *Model) (string, error) {
	if err := validateModel(m); err != nil {
		return "", fmt.Errorf("cannot export an invalid model as LP format: %w", err)
	}
	name := m.Name
	if name == "" {
		name = "model"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\\ Model %s\n", name)
	if m.Maximize {
		b.WriteString("Maximize\n")
	} else {
		b.WriteString("Minimize\n")
	}
	b.WriteString(" Obj:")
	for i, v := range m.Variables {
		if v.ObjectiveCoefficient != 0 {
			fmt.Fprintf(&b, " %+g %s", v.ObjectiveCoefficient, varLabel(i, v.Name))
		}
	}
	if m.ObjectiveOffset != 0 {
		fmt.Fprintf(&b, " %+g", m.ObjectiveOffset)
	}
	b.WriteString("\n")

	b.WriteString("Subject to\n")
	for ci, c := range m.Constraints {
		label := constraintLabel(ci, c.Name)
		lbFree := math.IsInf(c.LowerBound, -1)
		ubFree := math.IsInf(c.UpperBound, 1)
		switch {
		case lbFree && ubFree:
			// A free row constrains nothing.
		case c.LowerBound == c.UpperBound:
			fmt.Fprintf(&b, " %s:%s = %g\n", label, lpTerms(m, c), c.LowerBound)
		case lbFree:
			fmt.Fprintf(&b, " %s:%s <= %g\n", label, lpTerms(m, c), c.UpperBound)
		case ubFree:
			fmt.Fprintf(&b, " %s:%s >= %g\n", label, lpTerms(m, c), c.LowerBound)
		default:
			fmt.Fprintf(&b, " %s_lb:%s >= %g\n", label, lpTerms(m, c), c.LowerBound)
			fmt.Fprintf(&b, " %s_ub:%s <= %g\n", label, lpTerms(m, c), c.UpperBound)
		}
	}

	b.WriteString("Bounds\n")
	for i, v := range m.Variables {
		label := varLabel(i, v.Name)
		switch {
		case v.LowerBound == v.UpperBound:
			fmt.Fprintf(&b, " %s = %g\n", label, v.LowerBound)
		case v.LowerBound == 0 && math.IsInf(v.UpperBound, 1):
			// The LP format default, nothing to emit.
		case math.IsInf(v.UpperBound, 1):
			fmt.Fprintf(&b, " %s >= %g\n", label, v.LowerBound)
		default:
			fmt.Fprintf(&b, " %g <= %s <= %g\n", v.LowerBound, label, v.UpperBound)
		}
	}

	var binaries, generals []string
	for i, v := range m.Variables {
		switch {
		case !v.IsInteger:
		case v.LowerBound == 0 && v.UpperBound == 1:
			binaries = append(binaries, varLabel(i, v.Name))
		default:
			generals = append(generals, varLabel(i, v.Name))
		}
	}
	if len(binaries) > 0 {
		fmt.Fprintf(&b, "Binaries\n %s\n", strings.Join(binaries, " "))
	}
	if len(generals) > 0 {
		fmt.Fprintf(&b, "Generals\n %s\n", strings.Join(generals, " "))
	}

	b.WriteString("End\n")
	return b.String(), nil
}

func lpTerms(m *Model, c LinearConstraint) string {
	var b strings.Builder
	for k, ind := range c.VarIndexes {
		fmt.Fprintf(&b, " %+g %s", c.Coefficients[k], varLabel(int(ind), m.Variables[ind].Name))
	}
	return b.String()
}
