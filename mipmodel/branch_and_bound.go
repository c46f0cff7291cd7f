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
	"errors"
	"math"
	"sync/atomic"
	"time"

	log "github.com/golang/glog"
	"gonum.org/v1/gonum/floats"
)

// search runs branch and bound over LP relaxations of one model.
type search struct {
	model  *Model
	params SolveParameters
	sf     *standardForm
	engine lpEngine

	stop     *atomic.Bool
	deadline time.Time
	intTol   float64
	gapTol   float64
	maxNodes int64

	// incumbent holds the best integral solution so far in shifted values,
	// with incumbentZ its standard-form objective.
	incumbent     []float64
	incumbentZ    float64
	haveIncumbent bool
	nodes         int64
}

// subProblem is one open node: the branch rows that define it and the parent
// relaxation objective, which bounds every solution below the node.
type subProblem struct {
	branches []branchRow
	bound    float64
}

func newSearch(m *Model, params SolveParameters, engine lpEngine, stop *atomic.Bool) *search {
	intTol := params.IntegralityTolerance
	if intTol == 0 {
		intTol = defaultIntegralityTolerance
	}
	var deadline time.Time
	if params.MaxTimeInSeconds > 0 {
		deadline = time.Now().Add(time.Duration(params.MaxTimeInSeconds * float64(time.Second)))
	}
	return &search{
		model:    m,
		params:   params,
		sf:       newStandardForm(m),
		engine:   engine,
		stop:     stop,
		deadline: deadline,
		intTol:   intTol,
		gapTol:   params.RelativeGapTolerance,
		maxNodes: params.MaxBranchAndBoundNodes,
	}
}

func (s *search) run() *SolveResponse {
	resp := &SolveResponse{Status: StatusNotSolved}
	switch {
	case s.sf.infeasible:
		resp.Status = StatusInfeasible
		return resp
	case s.sf.nvars == 0:
		resp.Status = StatusOptimal
		resp.ObjectiveValue = s.sf.objConst
		resp.BestObjectiveBound = s.sf.objConst
		return resp
	}

	s.seedIncumbentFromHint()

	queue := []subProblem{{bound: math.Inf(-1)}}
	var stopReason string
	for len(queue) > 0 {
		if reason := s.stopReason(); reason != "" {
			stopReason = reason
			break
		}
		p := queue[0]
		queue = queue[1:]
		if s.haveIncumbent && !s.improves(p.bound) {
			continue
		}
		s.nodes++

		z, x, err := s.relax(p.branches)
		switch {
		case err == nil:
		case errors.Is(err, errRelaxationInfeasible):
			continue
		case errors.Is(err, errRelaxationUnbounded):
			if len(p.branches) == 0 {
				resp.Status = StatusUnbounded
				resp.NumBranchAndBoundNodes = s.nodes
				return resp
			}
			continue
		default:
			resp.Status = StatusAbnormal
			resp.StatusDetail = err.Error()
			resp.NumBranchAndBoundNodes = s.nodes
			return resp
		}
		// A feasible relaxation turns the pinned improving ray on an unused
		// variable into an actual unbounded direction.
		if s.sf.unbounded {
			resp.Status = StatusUnbounded
			resp.NumBranchAndBoundNodes = s.nodes
			return resp
		}
		if s.haveIncumbent && !s.improves(z) {
			continue
		}

		f := s.mostFractional(x)
		if f < 0 {
			s.setIncumbent(z, x)
			continue
		}
		v := x[f] + s.sf.shift[f]
		down := append(append([]branchRow(nil), p.branches...),
			branchRow{variable: f, factor: 1, rhs: math.Floor(v) - s.sf.shift[f]})
		up := append(append([]branchRow(nil), p.branches...),
			branchRow{variable: f, factor: -1, rhs: -(math.Ceil(v) - s.sf.shift[f])})
		queue = append(queue, subProblem{down, z}, subProblem{up, z})
	}

	resp.NumBranchAndBoundNodes = s.nodes
	if stopReason == "" {
		if s.haveIncumbent {
			resp.Status = StatusOptimal
			resp.ObjectiveValue = s.userObjective(s.incumbentZ)
			resp.BestObjectiveBound = resp.ObjectiveValue
			resp.VariableValues = s.unshift(s.incumbent)
		} else {
			resp.Status = StatusInfeasible
		}
		return resp
	}
	resp.StatusDetail = stopReason
	if s.haveIncumbent {
		resp.Status = StatusFeasible
		resp.ObjectiveValue = s.userObjective(s.incumbentZ)
		resp.VariableValues = s.unshift(s.incumbent)
	}
	resp.BestObjectiveBound = s.remainingBound(queue)
	return resp
}

func (s *search) stopReason() string {
	if s.stop != nil && s.stop.Load() {
		return "interrupted"
	}
	if !s.deadline.IsZero() && time.Now().After(s.deadline) {
		return "time limit reached"
	}
	if s.maxNodes > 0 && s.nodes >= s.maxNodes {
		return "node limit reached"
	}
	return ""
}

func (s *search) relax(extra []branchRow) (float64, []float64, error) {
	if len(s.sf.aeq)+len(s.sf.g)+len(extra) == 0 {
		return solveUnconstrained(s.sf)
	}
	return s.engine.solveRelaxation(s.sf, extra)
}

// improves reports whether a node with relaxation objective z could still
// beat the incumbent by more than the relative gap tolerance.
func (s *search) improves(z float64) bool {
	slack := s.gapTol * math.Max(1, math.Abs(s.incumbentZ))
	return z < s.incumbentZ-slack
}

// mostFractional picks the integer variable whose value sits farthest from an
// integer, or -1 when every integer variable is within tolerance.
func (s *search) mostFractional(x []float64) int {
	best, bestDist := -1, s.intTol
	for i, xi := range x {
		if !s.sf.integer[i] {
			continue
		}
		v := xi + s.sf.shift[i]
		if d := math.Abs(v - math.Round(v)); d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func (s *search) setIncumbent(z float64, x []float64) {
	if s.haveIncumbent && z >= s.incumbentZ {
		return
	}
	s.incumbent = append([]float64(nil), x...)
	s.incumbentZ = z
	s.haveIncumbent = true
	s.logProgressf("new solution with objective %v after %d nodes", s.userObjective(z), s.nodes)
}

// seedIncumbentFromHint warm-starts the incumbent from a solution hint that
// covers every variable and verifies as feasible.
func (s *search) seedIncumbentFromHint() {
	hint := s.model.SolutionHint
	if hint == nil {
		return
	}
	if len(hint.VarIndexes) != s.sf.nvars {
		log.V(1).Infof("ignoring solution hint: covers %d of %d variables", len(hint.VarIndexes), s.sf.nvars)
		return
	}
	values := make([]float64, s.sf.nvars)
	for k, ind := range hint.VarIndexes {
		values[ind] = hint.Values[k]
	}
	if err := VerifySolution(s.model, values, s.intTol); err != nil {
		log.V(1).Infof("ignoring solution hint: %v", err)
		return
	}
	shifted := make([]float64, s.sf.nvars)
	for i, v := range values {
		shifted[i] = v - s.sf.shift[i]
	}
	s.incumbent = shifted
	s.incumbentZ = floats.Dot(s.sf.c, shifted)
	s.haveIncumbent = true
	s.logProgressf("solution hint gives objective %v", s.userObjective(s.incumbentZ))
}

// remainingBound is the tightest objective bound available when the search
// stops early: no solution below an open node can beat the node's relaxation
// bound, and the incumbent itself bounds the optimum once it exists.
func (s *search) remainingBound(queue []subProblem) float64 {
	z := math.Inf(1)
	for _, p := range queue {
		if p.bound < z {
			z = p.bound
		}
	}
	if s.haveIncumbent && s.incumbentZ < z {
		z = s.incumbentZ
	}
	return s.userObjective(z)
}

// unshift maps shifted values back to model space, snapping integer
// variables to the nearest integer when they are within tolerance.
func (s *search) unshift(x []float64) []float64 {
	values := make([]float64, len(x))
	for i, xi := range x {
		v := xi + s.sf.shift[i]
		if s.sf.integer[i] {
			if r := math.Round(v); math.Abs(v-r) <= s.intTol {
				v = r
			}
		}
		values[i] = v
	}
	return values
}

// userObjective converts a standard-form objective back to the model's
// optimization sense.
func (s *search) userObjective(z float64) float64 {
	return s.sf.sign*z + s.sf.objConst
}

func (s *search) logProgressf(format string, args ...any) {
	if s.params.EnableSearchLogging {
		log.Infof(format, args...)
		return
	}
	log.V(1).Infof(format, args...)
}
