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

// Package knapsack solves 0/1 knapsack problems as mixed-integer programs:
// pick the subset of items with the largest total value whose total weight
// stays within a capacity, each item taken whole or not at all.
package knapsack

import (
	"errors"
	"fmt"
	"math"
	"strings"

	log "github.com/golang/glog"
	"gonum.org/v1/gonum/floats"

	"github.com/optkit/mip/mipmodel"
)

// Validation errors for instances.
var (
	ErrBadItemValue  = errors.New("item value must be positive and finite")
	ErrBadItemWeight = errors.New("item weight must be positive and finite")
	ErrBadCapacity   = errors.New("capacity must be non-negative and finite")
)

// Item is one selectable object.
type Item struct {
	Name   string
	Value  float64
	Weight float64
}

// Instance is a 0/1 knapsack problem.
type Instance struct {
	Items    []Item
	Capacity float64
}

// Validate checks that every item has positive finite value and weight and
// that the capacity is non-negative and finite. An instance without items is
// valid and solves to the empty selection.
func (inst *Instance) Validate() error {
	for i, item := range inst.Items {
		if !(item.Value > 0) || math.IsInf(item.Value, 1) {
			return fmt.Errorf("item %d (%q): value %v: %w", i, item.Name, item.Value, ErrBadItemValue)
		}
		if !(item.Weight > 0) || math.IsInf(item.Weight, 1) {
			return fmt.Errorf("item %d (%q): weight %v: %w", i, item.Name, item.Weight, ErrBadItemWeight)
		}
	}
	if !(inst.Capacity >= 0) || math.IsInf(inst.Capacity, 1) {
		return fmt.Errorf("capacity %v: %w", inst.Capacity, ErrBadCapacity)
	}
	return nil
}

// Solution is the outcome of solving an instance.
type Solution struct {
	// Status is the solver outcome. The remaining fields are only
	// meaningful for StatusOptimal and StatusFeasible.
	Status mipmodel.Status
	// TotalValue and TotalWeight describe the selection.
	TotalValue  float64
	TotalWeight float64
	// Selected lists the chosen item indexes in increasing order.
	Selected []int
}

func (s *Solution) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Status: %v\n", s.Status)
	fmt.Fprintf(&b, "Total value: %g\n", s.TotalValue)
	fmt.Fprintf(&b, "Total weight: %g\n", s.TotalWeight)
	fmt.Fprintf(&b, "Selected items: %v", s.Selected)
	return b.String()
}

// Solve picks the most valuable feasible subset of items with default solve
// parameters.
func Solve(inst *Instance) (*Solution, error) {
	return SolveWithParameters(inst, mipmodel.SolveParameters{})
}

// SolveWithParameters picks the most valuable feasible subset of items,
// formulated with one boolean variable per item and a single capacity
// constraint.
func SolveWithParameters(inst *Instance, params mipmodel.SolveParameters) (*Solution, error) {
	if err := inst.Validate(); err != nil {
		return nil, fmt.Errorf("invalid knapsack instance: %w", err)
	}

	model := mipmodel.NewMipModelBuilder()
	take := make([]mipmodel.Var, len(inst.Items))
	weight := mipmodel.NewLinearExpr()
	value := mipmodel.NewLinearExpr()
	for i, item := range inst.Items {
		take[i] = model.NewBoolVar().WithName(fmt.Sprintf("take_%d", i))
		weight.AddTerm(take[i], item.Weight)
		value.AddTerm(take[i], item.Value)
	}
	model.AddLinearConstraint(weight, 0, inst.Capacity).WithName("capacity")
	model.Maximize(value)

	m, err := model.Model()
	if err != nil {
		return nil, fmt.Errorf("failed to build the knapsack model: %w", err)
	}
	m.Name = "knapsack"

	log.V(1).Infof("solving a knapsack model with %d items and capacity %v", len(inst.Items), inst.Capacity)
	res, err := mipmodel.SolveWithParameters(m, params)
	if err != nil {
		return nil, fmt.Errorf("failed to solve the knapsack model: %w", err)
	}

	sol := &Solution{Status: res.Status}
	if res.Status != mipmodel.StatusOptimal && res.Status != mipmodel.StatusFeasible {
		return sol, nil
	}

	// Totals are recomputed from the instance data in item order so they
	// come out identical across LP engines.
	indicator := make([]float64, len(inst.Items))
	values := make([]float64, len(inst.Items))
	weights := make([]float64, len(inst.Items))
	for i, item := range inst.Items {
		values[i] = item.Value
		weights[i] = item.Weight
		if mipmodel.SolutionBooleanValue(res, take[i]) {
			indicator[i] = 1
			sol.Selected = append(sol.Selected, i)
		}
	}
	sol.TotalValue = floats.Dot(values, indicator)
	sol.TotalWeight = floats.Dot(weights, indicator)
	return sol, nil
}
