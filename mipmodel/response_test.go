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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSolveResponse_Struct(t *testing.T) {
	r := &SolveResponse{
		Status:                 StatusOptimal,
		ObjectiveValue:         40.09,
		BestObjectiveBound:     40.09,
		VariableValues:         []float64{0, 1, 1},
		WallTime:               0.25,
		NumBranchAndBoundNodes: 7,
	}

	got, err := r.Struct()
	if err != nil {
		t.Fatalf("Struct() returned with unexpected err: %v", err)
	}

	want := map[string]any{
		"status":                     "OPTIMAL",
		"status_detail":              "",
		"objective_value":            40.09,
		"best_objective_bound":       40.09,
		"variable_values":            []any{0.0, 1.0, 1.0},
		"wall_time":                  0.25,
		"num_branch_and_bound_nodes": 7.0,
	}
	if diff := cmp.Diff(want, got.AsMap()); diff != "" {
		t.Errorf("Struct().AsMap() returned with unexpected diff (-want+got):\n%s", diff)
	}
}

func TestSolveResponse_StructFromSolve(t *testing.T) {
	model := NewMipModelBuilder()
	x := model.NewBoolVar()
	model.Maximize(x)

	m := mustModel(t, model)
	res, err := Solve(m)
	if err != nil {
		t.Fatalf("Solve() returned with unexpected err: %v", err)
	}

	s, err := res.Struct()
	if err != nil {
		t.Fatalf("Struct() returned with unexpected err: %v", err)
	}
	fields := s.AsMap()
	if got, want := fields["status"], "OPTIMAL"; got != want {
		t.Errorf(`Struct() status = %v, want %v`, got, want)
	}
	if got, want := fields["objective_value"], 1.0; got != want {
		t.Errorf(`Struct() objective_value = %v, want %v`, got, want)
	}
}
