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

// Package assignment solves linear assignment problems as mixed-integer
// programs: give every task to exactly one resource, with no resource
// taking more than one task, at the smallest possible total cost.
package assignment

import (
	"errors"
	"fmt"
	"math"
	"strings"

	log "github.com/golang/glog"
	"gonum.org/v1/gonum/mat"

	"github.com/optkit/mip/mipmodel"
)

// Validation errors for instances.
var (
	ErrEmptyInstance = errors.New("instance must have at least one resource and one task")
	ErrNotSquare     = errors.New("cost matrix must be square")
	ErrBadCost       = errors.New("costs must be finite")
)

// Instance is a linear assignment problem over an equal number of resources
// and tasks with a dense cost matrix.
type Instance struct {
	costs *mat.Dense
}

// NewInstance builds an instance from a dense cost matrix with one row per
// resource and one column per task.
func NewInstance(costs [][]float64) (*Instance, error) {
	n := len(costs)
	if n == 0 {
		return nil, ErrEmptyInstance
	}
	flat := make([]float64, 0, n*n)
	for i, row := range costs {
		if len(row) != n {
			return nil, fmt.Errorf("row %d has %d entries for %d rows: %w", i, len(row), n, ErrNotSquare)
		}
		for j, c := range row {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return nil, fmt.Errorf("cost[%d][%d] = %v: %w", i, j, c, ErrBadCost)
			}
			flat = append(flat, c)
		}
	}
	return &Instance{costs: mat.NewDense(n, n, flat)}, nil
}

// NumResources returns the number of resources.
func (inst *Instance) NumResources() int {
	r, _ := inst.costs.Dims()
	return r
}

// NumTasks returns the number of tasks.
func (inst *Instance) NumTasks() int {
	_, c := inst.costs.Dims()
	return c
}

// Cost returns the cost of giving task j to resource i.
func (inst *Instance) Cost(i, j int) float64 {
	return inst.costs.At(i, j)
}

// Solution is the outcome of solving an instance.
type Solution struct {
	// Status is the solver outcome. The remaining fields are only
	// meaningful for StatusOptimal and StatusFeasible.
	Status mipmodel.Status
	// TotalCost is the cost of the assignment.
	TotalCost float64
	// TaskOfResource maps each resource index to its assigned task index.
	TaskOfResource []int
}

func (s *Solution) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Status: %v\n", s.Status)
	fmt.Fprintf(&b, "Total cost: %g", s.TotalCost)
	for i, j := range s.TaskOfResource {
		fmt.Fprintf(&b, "\nResource %d -> task %d", i+1, j+1)
	}
	return b.String()
}

// Solve finds the cheapest assignment with default solve parameters.
func Solve(inst *Instance) (*Solution, error) {
	return SolveWithParameters(inst, mipmodel.SolveParameters{})
}

// SolveWithParameters finds the cheapest assignment. The formulation uses
// one boolean variable per resource and task pair, keeps every resource at
// no more than one task, and requires every task to be taken exactly once,
// which for a square instance forces a perfect matching.
func SolveWithParameters(inst *Instance, params mipmodel.SolveParameters) (*Solution, error) {
	if inst == nil || inst.costs == nil {
		return nil, fmt.Errorf("invalid assignment instance: %w", ErrEmptyInstance)
	}
	n := inst.NumResources()

	model := mipmodel.NewMipModelBuilder()
	assign := make([][]mipmodel.Var, n)
	for i := range assign {
		assign[i] = make([]mipmodel.Var, n)
		for j := range assign[i] {
			assign[i][j] = model.NewBoolVar().WithName(fmt.Sprintf("assign_%d_%d", i, j))
		}
	}
	for i := 0; i < n; i++ {
		row := mipmodel.NewLinearExpr()
		for j := 0; j < n; j++ {
			row.Add(assign[i][j])
		}
		model.AddLinearConstraint(row, 0, 1).WithName(fmt.Sprintf("resource_%d", i))
	}
	for j := 0; j < n; j++ {
		col := mipmodel.NewLinearExpr()
		for i := 0; i < n; i++ {
			col.Add(assign[i][j])
		}
		model.AddEquality(col, mipmodel.NewConstant(1)).WithName(fmt.Sprintf("task_%d", j))
	}
	total := mipmodel.NewLinearExpr()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			total.AddTerm(assign[i][j], inst.costs.At(i, j))
		}
	}
	model.Minimize(total)

	m, err := model.Model()
	if err != nil {
		return nil, fmt.Errorf("failed to build the assignment model: %w", err)
	}
	m.Name = "assignment"

	log.V(1).Infof("solving an assignment model with %d resources and %d tasks", n, n)
	res, err := mipmodel.SolveWithParameters(m, params)
	if err != nil {
		return nil, fmt.Errorf("failed to solve the assignment model: %w", err)
	}

	sol := &Solution{Status: res.Status}
	if res.Status != mipmodel.StatusOptimal && res.Status != mipmodel.StatusFeasible {
		return sol, nil
	}

	// The total is recomputed from the cost matrix in resource order so it
	// comes out identical across LP engines.
	sol.TaskOfResource = make([]int, n)
	for i := range sol.TaskOfResource {
		sol.TaskOfResource[i] = -1
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if mipmodel.SolutionBooleanValue(res, assign[i][j]) {
				sol.TaskOfResource[i] = j
				sol.TotalCost += inst.costs.At(i, j)
			}
		}
	}
	return sol, nil
}
