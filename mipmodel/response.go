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
	"google.golang.org/protobuf/types/known/structpb"
)

// SolveResponse is the result of solving a model.
type SolveResponse struct {
	// Status classifies the outcome.
	Status Status
	// StatusDetail explains non-success outcomes: the validation failure
	// for MODEL_INVALID, the engine failure for ABNORMAL, or the limit
	// that stopped an unfinished search.
	StatusDetail string
	// ObjectiveValue is the objective of the returned solution. It is only
	// meaningful for OPTIMAL and FEASIBLE outcomes.
	ObjectiveValue float64
	// BestObjectiveBound bounds how good any solution can be: for OPTIMAL
	// it equals ObjectiveValue, for an unfinished search it reports the
	// best relaxation bound still open.
	BestObjectiveBound float64
	// VariableValues holds one value per model variable, indexed like
	// Model.Variables. It is empty when no solution was found.
	VariableValues []float64
	// WallTime is the solve duration in seconds.
	WallTime float64
	// NumBranchAndBoundNodes counts the subproblems the search expanded.
	NumBranchAndBoundNodes int64
}

// Struct converts the response to a protobuf struct, the JSON-like form used
// to hand results to other tooling.
func (r *SolveResponse) Struct() (*structpb.Struct, error) {
	values := make([]any, len(r.VariableValues))
	for i, v := range r.VariableValues {
		values[i] = v
	}
	return structpb.NewStruct(map[string]any{
		"status":                     r.Status.String(),
		"status_detail":              r.StatusDetail,
		"objective_value":            r.ObjectiveValue,
		"best_objective_bound":       r.BestObjectiveBound,
		"variable_values":            values,
		"wall_time":                  r.WallTime,
		"num_branch_and_bound_nodes": r.NumBranchAndBoundNodes,
	})
}
