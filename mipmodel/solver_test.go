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
	"testing"
)

func approxEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

var solverEngines = []struct {
	name   string
	engine LPEngine
}{
	{"gonum", EngineGonum},
	{"lpsimplex", EngineLPSimplex},
}

func TestSolve_PureLP(t *testing.T) {
	for _, e := range solverEngines {
		t.Run(e.name, func(t *testing.T) {
			model := NewMipModelBuilder()
			x := model.NewNumVar(0, 4)
			y := model.NewNumVar(0, 3)
			model.AddLessOrEqual(NewLinearExpr().AddSum(x, y), NewConstant(5))
			model.Maximize(NewLinearExpr().AddTerm(x, 2).Add(y))

			m := mustModel(t, model)
			res, err := SolveWithParameters(m, SolveParameters{LPEngine: e.engine})
			if err != nil {
				t.Fatalf("SolveWithParameters() returned with unexpected err: %v", err)
			}
			if got, want := res.Status, StatusOptimal; got != want {
				t.Errorf("SolveWithParameters() returned status = %v, want %v", got, want)
			}
			if !approxEq(res.ObjectiveValue, 9) {
				t.Errorf("SolveWithParameters() returned objective = %v, want 9", res.ObjectiveValue)
			}
			if !approxEq(res.BestObjectiveBound, 9) {
				t.Errorf("SolveWithParameters() returned bound = %v, want 9", res.BestObjectiveBound)
			}
			gotX := SolutionValue(res, x)
			gotY := SolutionValue(res, y)
			if !approxEq(gotX, 4) || !approxEq(gotY, 1) {
				t.Errorf("SolutionValue() returned (x, y) = (%v, %v), want (4, 1)", gotX, gotY)
			}
		})
	}
}

func TestSolve_BinaryMip(t *testing.T) {
	for _, e := range solverEngines {
		t.Run(e.name, func(t *testing.T) {
			model := NewMipModelBuilder()
			x := model.NewBoolVar()
			y := model.NewBoolVar()
			model.AddLinearConstraint(NewLinearExpr().AddTerm(x, 6).AddTerm(y, 5), 0, 10)
			model.Maximize(NewLinearExpr().AddTerm(x, 5).AddTerm(y, 4))

			m := mustModel(t, model)
			res, err := SolveWithParameters(m, SolveParameters{LPEngine: e.engine})
			if err != nil {
				t.Fatalf("SolveWithParameters() returned with unexpected err: %v", err)
			}
			if got, want := res.Status, StatusOptimal; got != want {
				t.Errorf("SolveWithParameters() returned status = %v, want %v", got, want)
			}
			if !approxEq(res.ObjectiveValue, 5) {
				t.Errorf("SolveWithParameters() returned objective = %v, want 5", res.ObjectiveValue)
			}
			if !SolutionBooleanValue(res, x) || SolutionBooleanValue(res, y) {
				t.Errorf("SolutionBooleanValue() returned (x, y) = (%v, %v), want (true, false)",
					SolutionBooleanValue(res, x), SolutionBooleanValue(res, y))
			}
			if err := VerifySolution(m, res.VariableValues, 1e-6); err != nil {
				t.Errorf("VerifySolution() returned with unexpected err: %v", err)
			}
			if res.NumBranchAndBoundNodes < 1 {
				t.Errorf("NumBranchAndBoundNodes = %v, want at least 1", res.NumBranchAndBoundNodes)
			}
		})
	}
}

func TestSolve_EqualityConstraint(t *testing.T) {
	for _, e := range solverEngines {
		t.Run(e.name, func(t *testing.T) {
			model := NewMipModelBuilder()
			x := model.NewIntVar(0, 4)
			y := model.NewIntVar(0, 4)
			model.AddEquality(NewLinearExpr().AddSum(x, y), NewConstant(5))
			model.Maximize(NewLinearExpr().Add(x).AddTerm(y, 2))

			m := mustModel(t, model)
			res, err := SolveWithParameters(m, SolveParameters{LPEngine: e.engine})
			if err != nil {
				t.Fatalf("SolveWithParameters() returned with unexpected err: %v", err)
			}
			if got, want := res.Status, StatusOptimal; got != want {
				t.Errorf("SolveWithParameters() returned status = %v, want %v", got, want)
			}
			if !approxEq(res.ObjectiveValue, 9) {
				t.Errorf("SolveWithParameters() returned objective = %v, want 9", res.ObjectiveValue)
			}
			gotX := SolutionValue(res, x)
			gotY := SolutionValue(res, y)
			if !approxEq(gotX, 1) || !approxEq(gotY, 4) {
				t.Errorf("SolutionValue() returned (x, y) = (%v, %v), want (1, 4)", gotX, gotY)
			}
		})
	}
}

func TestSolve_NegativeBoundsAndOffset(t *testing.T) {
	model := NewMipModelBuilder()
	x := model.NewNumVar(-5, 5)
	model.AddGreaterOrEqual(x, NewConstant(-3))
	model.Minimize(NewLinearExpr().Add(x).AddConstant(2.5))

	m := mustModel(t, model)
	res, err := Solve(m)
	if err != nil {
		t.Fatalf("Solve() returned with unexpected err: %v", err)
	}
	if got, want := res.Status, StatusOptimal; got != want {
		t.Errorf("Solve() returned status = %v, want %v", got, want)
	}
	if !approxEq(res.ObjectiveValue, -0.5) {
		t.Errorf("Solve() returned objective = %v, want -0.5", res.ObjectiveValue)
	}
	if got := SolutionValue(res, x); !approxEq(got, -3) {
		t.Errorf("SolutionValue(x) = %v, want -3", got)
	}
}

func TestSolve_Infeasible(t *testing.T) {
	for _, e := range solverEngines {
		t.Run(e.name, func(t *testing.T) {
			model := NewMipModelBuilder()
			x := model.NewNumVar(0, 10)
			model.AddGreaterOrEqual(x, NewConstant(2))
			model.AddLessOrEqual(x, NewConstant(1))
			model.Minimize(x)

			m := mustModel(t, model)
			res, err := SolveWithParameters(m, SolveParameters{LPEngine: e.engine})
			if err != nil {
				t.Fatalf("SolveWithParameters() returned with unexpected err: %v", err)
			}
			if got, want := res.Status, StatusInfeasible; got != want {
				t.Errorf("SolveWithParameters() returned status = %v, want %v", got, want)
			}
			if len(res.VariableValues) != 0 {
				t.Errorf("VariableValues = %v, want empty", res.VariableValues)
			}
		})
	}
}

func TestSolve_UnboundedWithoutRows(t *testing.T) {
	model := NewMipModelBuilder()
	x := model.NewNumVar(0, math.Inf(1))
	model.Maximize(x)

	m := mustModel(t, model)
	res, err := Solve(m)
	if err != nil {
		t.Fatalf("Solve() returned with unexpected err: %v", err)
	}
	if got, want := res.Status, StatusUnbounded; got != want {
		t.Errorf("Solve() returned status = %v, want %v", got, want)
	}
}

func TestSolve_UnboundedWithRows(t *testing.T) {
	for _, e := range solverEngines {
		t.Run(e.name, func(t *testing.T) {
			model := NewMipModelBuilder()
			x := model.NewNumVar(0, math.Inf(1))
			model.AddGreaterOrEqual(x, NewConstant(1))
			model.Maximize(x)

			m := mustModel(t, model)
			res, err := SolveWithParameters(m, SolveParameters{LPEngine: e.engine})
			if err != nil {
				t.Fatalf("SolveWithParameters() returned with unexpected err: %v", err)
			}
			if got, want := res.Status, StatusUnbounded; got != want {
				t.Errorf("SolveWithParameters() returned status = %v, want %v", got, want)
			}
		})
	}
}

func TestSolve_UnusedObjectiveVariable(t *testing.T) {
	// x appears in no constraint, so growing it improves the objective
	// without limit, but only a model whose rows admit a feasible point
	// is unbounded.
	testCases := []struct {
		name       string
		lowerBound float64
		want       Status
	}{
		{name: "RowsInfeasible", lowerBound: 2, want: StatusInfeasible},
		{name: "RowsFeasible", lowerBound: 1, want: StatusUnbounded},
	}

	for _, test := range testCases {
		for _, e := range solverEngines {
			t.Run(test.name+"/"+e.name, func(t *testing.T) {
				model := NewMipModelBuilder()
				x := model.NewNumVar(0, math.Inf(1))
				y := model.NewBoolVar()
				model.AddGreaterOrEqual(y, NewConstant(test.lowerBound))
				model.Maximize(x)

				m := mustModel(t, model)
				res, err := SolveWithParameters(m, SolveParameters{LPEngine: e.engine})
				if err != nil {
					t.Fatalf("SolveWithParameters() returned with unexpected err: %v", err)
				}
				if got, want := res.Status, test.want; got != want {
					t.Errorf("SolveWithParameters() returned status = %v, want %v", got, want)
				}
				if len(res.VariableValues) != 0 {
					t.Errorf("VariableValues = %v, want empty", res.VariableValues)
				}
			})
		}
	}
}

func TestSolve_InvalidModel(t *testing.T) {
	testCases := []struct {
		name  string
		build func() *Builder
	}{
		{
			name: "EmptyVariableBounds",
			build: func() *Builder {
				model := NewMipModelBuilder()
				model.NewNumVar(1, 0)
				return model
			},
		},
		{
			name: "NaNLowerBound",
			build: func() *Builder {
				model := NewMipModelBuilder()
				model.NewNumVar(math.NaN(), 5)
				return model
			},
		},
		{
			name: "InfiniteLowerBound",
			build: func() *Builder {
				model := NewMipModelBuilder()
				model.NewNumVar(math.Inf(-1), 5)
				return model
			},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			m := mustModel(t, test.build())
			res, err := Solve(m)
			if err != nil {
				t.Fatalf("Solve() returned with unexpected err: %v", err)
			}
			if got, want := res.Status, StatusModelInvalid; got != want {
				t.Errorf("Solve() returned status = %v, want %v", got, want)
			}
			if res.StatusDetail == "" {
				t.Errorf("StatusDetail is empty, want a validation message")
			}
		})
	}
}

func TestSolve_InvalidParameters(t *testing.T) {
	testCases := []struct {
		name   string
		params SolveParameters
	}{
		{name: "NegativeTimeLimit", params: SolveParameters{MaxTimeInSeconds: -1}},
		{name: "NegativeNodeLimit", params: SolveParameters{MaxBranchAndBoundNodes: -1}},
		{name: "NegativeIntegralityTolerance", params: SolveParameters{IntegralityTolerance: -1e-6}},
		{name: "NegativeGapTolerance", params: SolveParameters{RelativeGapTolerance: -0.1}},
		{name: "UnknownEngine", params: SolveParameters{LPEngine: LPEngine(42)}},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			model := NewMipModelBuilder()
			x := model.NewBoolVar()
			model.Maximize(x)

			m := mustModel(t, model)
			res, err := SolveWithParameters(m, test.params)
			if err != nil {
				t.Fatalf("SolveWithParameters() returned with unexpected err: %v", err)
			}
			if got, want := res.Status, StatusModelInvalid; got != want {
				t.Errorf("SolveWithParameters() returned status = %v, want %v", got, want)
			}
		})
	}
}

func TestSolve_WithTimeLimit(t *testing.T) {
	model := NewMipModelBuilder()
	x := model.NewIntVar(0, 5)
	y := model.NewIntVar(0, 5)
	model.AddLessOrEqual(NewLinearExpr().AddSum(x, y), NewConstant(7))
	model.Maximize(NewLinearExpr().AddTerm(x, 5).AddTerm(y, 6))

	m := mustModel(t, model)
	res, err := SolveWithParameters(m, SolveParameters{MaxTimeInSeconds: 10})
	if err != nil {
		t.Fatalf("SolveWithParameters() returned with unexpected err: %v", err)
	}
	if got, want := res.Status, StatusOptimal; got != want {
		t.Errorf("SolveWithParameters() returned status = %v, want %v", got, want)
	}
	if !approxEq(res.ObjectiveValue, 40) {
		t.Errorf("SolveWithParameters() returned objective = %v, want 40", res.ObjectiveValue)
	}
}

func TestSolve_NodeLimitStopsSearch(t *testing.T) {
	model := NewMipModelBuilder()
	x := model.NewBoolVar()
	y := model.NewBoolVar()
	z := model.NewBoolVar()
	weight := NewLinearExpr().AddTerm(x, 6).AddTerm(y, 5).AddTerm(z, 4)
	model.AddLinearConstraint(weight, 0, 10)
	model.Maximize(NewLinearExpr().AddTerm(x, 5).AddTerm(y, 4).AddTerm(z, 3))

	m := mustModel(t, model)
	res, err := SolveWithParameters(m, SolveParameters{MaxBranchAndBoundNodes: 1})
	if err != nil {
		t.Fatalf("SolveWithParameters() returned with unexpected err: %v", err)
	}
	if got, want := res.Status, StatusNotSolved; got != want {
		t.Errorf("SolveWithParameters() returned status = %v, want %v", got, want)
	}
	if got, want := res.StatusDetail, "node limit reached"; got != want {
		t.Errorf("StatusDetail = %q, want %q", got, want)
	}
	if got, want := res.NumBranchAndBoundNodes, int64(1); got != want {
		t.Errorf("NumBranchAndBoundNodes = %v, want %v", got, want)
	}
	// The root relaxation bound survives as the best bound: x = 1, y = 4/5.
	if !approxEq(res.BestObjectiveBound, 8.2) {
		t.Errorf("BestObjectiveBound = %v, want 8.2", res.BestObjectiveBound)
	}
}

func TestSolve_HintSeedsIncumbent(t *testing.T) {
	model := NewMipModelBuilder()
	x := model.NewBoolVar()
	y := model.NewBoolVar()
	z := model.NewBoolVar()
	weight := NewLinearExpr().AddTerm(x, 6).AddTerm(y, 5).AddTerm(z, 4)
	model.AddLinearConstraint(weight, 0, 10)
	model.Maximize(NewLinearExpr().AddTerm(x, 5).AddTerm(y, 4).AddTerm(z, 3))
	model.SetHint(&Hint{Values: map[Var]float64{x: 1, y: 0, z: 1}})

	m := mustModel(t, model)
	res, err := SolveWithParameters(m, SolveParameters{MaxBranchAndBoundNodes: 1})
	if err != nil {
		t.Fatalf("SolveWithParameters() returned with unexpected err: %v", err)
	}
	// The node limit stops the search before optimality is proven, but the
	// hint already provides a feasible solution.
	if got, want := res.Status, StatusFeasible; got != want {
		t.Errorf("SolveWithParameters() returned status = %v, want %v", got, want)
	}
	if got, want := res.StatusDetail, "node limit reached"; got != want {
		t.Errorf("StatusDetail = %q, want %q", got, want)
	}
	if !approxEq(res.ObjectiveValue, 8) {
		t.Errorf("SolveWithParameters() returned objective = %v, want 8", res.ObjectiveValue)
	}
	if !SolutionBooleanValue(res, x) || SolutionBooleanValue(res, y) || !SolutionBooleanValue(res, z) {
		t.Errorf("SolutionBooleanValue() returned (x, y, z) = (%v, %v, %v), want (true, false, true)",
			SolutionBooleanValue(res, x), SolutionBooleanValue(res, y), SolutionBooleanValue(res, z))
	}
}

func TestSolve_IgnoresIncompleteHint(t *testing.T) {
	model := NewMipModelBuilder()
	x := model.NewBoolVar()
	y := model.NewBoolVar()
	z := model.NewBoolVar()
	weight := NewLinearExpr().AddTerm(x, 6).AddTerm(y, 5).AddTerm(z, 4)
	model.AddLinearConstraint(weight, 0, 10)
	model.Maximize(NewLinearExpr().AddTerm(x, 5).AddTerm(y, 4).AddTerm(z, 3))
	// The hint covers only one of the three variables, so it must not seed
	// the incumbent: stopping right after the root node leaves the search
	// without a solution.
	model.SetHint(&Hint{Values: map[Var]float64{x: 1}})

	m := mustModel(t, model)
	res, err := SolveWithParameters(m, SolveParameters{MaxBranchAndBoundNodes: 1})
	if err != nil {
		t.Fatalf("SolveWithParameters() returned with unexpected err: %v", err)
	}
	if got, want := res.Status, StatusNotSolved; got != want {
		t.Errorf("SolveWithParameters() returned status = %v, want %v", got, want)
	}
	if got, want := res.StatusDetail, "node limit reached"; got != want {
		t.Errorf("StatusDetail = %q, want %q", got, want)
	}
	if len(res.VariableValues) != 0 {
		t.Errorf("VariableValues = %v, want empty", res.VariableValues)
	}

	res, err = Solve(m)
	if err != nil {
		t.Fatalf("Solve() returned with unexpected err: %v", err)
	}
	if got, want := res.Status, StatusOptimal; got != want {
		t.Errorf("Solve() returned status = %v, want %v", got, want)
	}
	if !approxEq(res.ObjectiveValue, 8) {
		t.Errorf("Solve() returned objective = %v, want 8", res.ObjectiveValue)
	}
}

func TestSolve_IgnoresInfeasibleHint(t *testing.T) {
	model := NewMipModelBuilder()
	x := model.NewBoolVar()
	y := model.NewBoolVar()
	z := model.NewBoolVar()
	weight := NewLinearExpr().AddTerm(x, 6).AddTerm(y, 5).AddTerm(z, 4)
	model.AddLinearConstraint(weight, 0, 10)
	model.Maximize(NewLinearExpr().AddTerm(x, 5).AddTerm(y, 4).AddTerm(z, 3))
	// The hinted values weigh 15 and violate the weight row, so the hint
	// must not seed the incumbent.
	model.SetHint(&Hint{Values: map[Var]float64{x: 1, y: 1, z: 1}})

	m := mustModel(t, model)
	res, err := SolveWithParameters(m, SolveParameters{MaxBranchAndBoundNodes: 1})
	if err != nil {
		t.Fatalf("SolveWithParameters() returned with unexpected err: %v", err)
	}
	if got, want := res.Status, StatusNotSolved; got != want {
		t.Errorf("SolveWithParameters() returned status = %v, want %v", got, want)
	}
	if len(res.VariableValues) != 0 {
		t.Errorf("VariableValues = %v, want empty", res.VariableValues)
	}

	res, err = Solve(m)
	if err != nil {
		t.Fatalf("Solve() returned with unexpected err: %v", err)
	}
	if got, want := res.Status, StatusOptimal; got != want {
		t.Errorf("Solve() returned status = %v, want %v", got, want)
	}
	if !approxEq(res.ObjectiveValue, 8) {
		t.Errorf("Solve() returned objective = %v, want 8", res.ObjectiveValue)
	}
}

func TestSolve_Interruptible(t *testing.T) {
	interrupt := make(chan struct{})
	close(interrupt)

	model := NewMipModelBuilder()
	x := model.NewBoolVar()
	y := model.NewBoolVar()
	model.AddLinearConstraint(NewLinearExpr().AddTerm(x, 6).AddTerm(y, 5), 0, 10)
	model.Maximize(NewLinearExpr().AddTerm(x, 5).AddTerm(y, 4))

	m := mustModel(t, model)
	res, err := SolveInterruptible(m, interrupt)
	if err != nil {
		t.Fatalf("SolveInterruptible() returned with unexpected err: %v", err)
	}
	if got, want := res.Status, StatusNotSolved; got != want {
		t.Errorf("SolveInterruptible() returned status = %v, want %v", got, want)
	}
	if got, want := res.StatusDetail, "interrupted"; got != want {
		t.Errorf("StatusDetail = %q, want %q", got, want)
	}
}

func TestSolve_InterruptibleWithoutInterrupt(t *testing.T) {
	interrupt := make(chan struct{})

	model := NewMipModelBuilder()
	x := model.NewBoolVar()
	y := model.NewBoolVar()
	model.AddLinearConstraint(NewLinearExpr().AddTerm(x, 6).AddTerm(y, 5), 0, 10)
	model.Maximize(NewLinearExpr().AddTerm(x, 5).AddTerm(y, 4))

	m := mustModel(t, model)
	res, err := SolveInterruptibleWithParameters(m, SolveParameters{MaxTimeInSeconds: 10}, interrupt)
	if err != nil {
		t.Fatalf("SolveInterruptibleWithParameters() returned with unexpected err: %v", err)
	}
	if got, want := res.Status, StatusOptimal; got != want {
		t.Errorf("SolveInterruptibleWithParameters() returned status = %v, want %v", got, want)
	}
	if !approxEq(res.ObjectiveValue, 5) {
		t.Errorf("SolveInterruptibleWithParameters() returned objective = %v, want 5", res.ObjectiveValue)
	}
}

func TestSolve_NilModel(t *testing.T) {
	if _, err := Solve(nil); err == nil {
		t.Errorf("Solve(nil) returned nil error, want an error")
	}
}

func TestSolutionValue_Expressions(t *testing.T) {
	model := NewMipModelBuilder()
	x := model.NewNumVar(0, 4)
	y := model.NewNumVar(0, 3)
	model.AddLessOrEqual(NewLinearExpr().AddSum(x, y), NewConstant(5))
	model.Maximize(NewLinearExpr().AddTerm(x, 2).Add(y))

	m := mustModel(t, model)
	res, err := Solve(m)
	if err != nil {
		t.Fatalf("Solve() returned with unexpected err: %v", err)
	}

	expr := NewLinearExpr().AddTerm(x, 2).Add(y).AddConstant(1)
	if got := SolutionValue(res, expr); !approxEq(got, 10) {
		t.Errorf("SolutionValue(2x+y+1) = %v, want 10", got)
	}
}

func TestSolutionValue_NoSolution(t *testing.T) {
	model := NewMipModelBuilder()
	x := model.NewNumVar(0, 10)
	model.AddGreaterOrEqual(x, NewConstant(2))
	model.AddLessOrEqual(x, NewConstant(1))
	model.Minimize(x)

	m := mustModel(t, model)
	res, err := Solve(m)
	if err != nil {
		t.Fatalf("Solve() returned with unexpected err: %v", err)
	}
	if got := SolutionValue(res, x); got != 0 {
		t.Errorf("SolutionValue() on a response without solution = %v, want 0", got)
	}
}

func TestStatus_String(t *testing.T) {
	testCases := []struct {
		status Status
		want   string
	}{
		{StatusNotSolved, "NOT_SOLVED"},
		{StatusOptimal, "OPTIMAL"},
		{StatusFeasible, "FEASIBLE"},
		{StatusInfeasible, "INFEASIBLE"},
		{StatusUnbounded, "UNBOUNDED"},
		{StatusAbnormal, "ABNORMAL"},
		{StatusModelInvalid, "MODEL_INVALID"},
		{Status(99), "UNKNOWN_STATUS"},
	}

	for _, test := range testCases {
		if got := test.status.String(); got != test.want {
			t.Errorf("Status(%d).String() = %q, want %q", int32(test.status), got, test.want)
		}
	}
}

func ExampleSolve() {
	model := NewMipModelBuilder()
	x := model.NewBoolVar().WithName("x")
	y := model.NewBoolVar().WithName("y")
	model.AddLessOrEqual(NewLinearExpr().AddSum(x, y), NewConstant(1))
	model.Maximize(NewLinearExpr().AddTerm(x, 2).AddTerm(y, 3))

	m, err := model.Model()
	if err != nil {
		fmt.Println(err)
		return
	}
	res, err := Solve(m)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("Status: %v\n", res.Status)
	fmt.Printf("Objective: %g\n", res.ObjectiveValue)
	fmt.Printf("x = %g, y = %g\n", SolutionValue(res, x), SolutionValue(res, y))
	// Output:
	// Status: OPTIMAL
	// Objective: 3
	// x = 0, y = 1
}
