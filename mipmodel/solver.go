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
)

// Status describes the outcome of a solve.
type Status int32

const (
	// StatusNotSolved means the search stopped before finding any solution.
	StatusNotSolved Status = iota
	// StatusOptimal means the returned solution is proven optimal.
	StatusOptimal
	// StatusFeasible means a solution was found but the search stopped
	// before proving it optimal.
	StatusFeasible
	// StatusInfeasible means the model has no solution.
	StatusInfeasible
	// StatusUnbounded means the objective can be improved without limit.
	StatusUnbounded
	// StatusAbnormal means the underlying LP engine failed numerically.
	StatusAbnormal
	// StatusModelInvalid means the model or the parameters fail validation.
	StatusModelInvalid
)

func (s Status) String() string {
	switch s {
	case StatusNotSolved:
		return "NOT_SOLVED"
	case StatusOptimal:
		return "OPTIMAL"
	case StatusFeasible:
		return "FEASIBLE"
	case StatusInfeasible:
		return "INFEASIBLE"
	case StatusUnbounded:
		return "UNBOUNDED"
	case StatusAbnormal:
		return "ABNORMAL"
	case StatusModelInvalid:
		return "MODEL_INVALID"
	}
	return "UNKNOWN_STATUS"
}

// LPEngine selects which simplex implementation solves the LP relaxations.
type LPEngine int32

const (
	// EngineGonum uses gonum's simplex in equality form.
	EngineGonum LPEngine = iota
	// EngineLPSimplex uses the lpsimplex solver.
	EngineLPSimplex
)

func (e LPEngine) String() string {
	switch e {
	case EngineGonum:
		return "GONUM"
	case EngineLPSimplex:
		return "LPSIMPLEX"
	}
	return "UNKNOWN_ENGINE"
}

// defaultIntegralityTolerance bounds how far an integer variable's value may
// sit from an integer in an accepted solution.
const defaultIntegralityTolerance = 1e-6

// SolveParameters tunes a solve. The zero value asks for the defaults: no
// time or node limit, the gonum LP engine, and the default tolerances.
type SolveParameters struct {
	// MaxTimeInSeconds limits the wall time of the search. Zero means no
	// limit.
	MaxTimeInSeconds float64
	// MaxBranchAndBoundNodes limits how many subproblems the search may
	// expand. Zero means no limit.
	MaxBranchAndBoundNodes int64
	// LPEngine selects the simplex implementation for the relaxations.
	LPEngine LPEngine
	// IntegralityTolerance is how far an integer variable's value may sit
	// from an integer and still count as integral. Zero means the default
	// of 1e-6.
	IntegralityTolerance float64
	// RelativeGapTolerance prunes subproblems whose relaxation bound
	// improves on the incumbent by less than this relative amount. Zero
	// prunes only subproblems that cannot improve at all.
	RelativeGapTolerance float64
	// EnableSearchLogging promotes search progress lines from verbose
	// logging to Info.
	EnableSearchLogging bool
}

func validateParameters(params *SolveParameters) error {
	if params.MaxTimeInSeconds < 0 || math.IsNaN(params.MaxTimeInSeconds) {
		return errors.New("MaxTimeInSeconds must not be negative or NaN")
	}
	if params.MaxBranchAndBoundNodes < 0 {
		return errors.New("MaxBranchAndBoundNodes must not be negative")
	}
	if params.IntegralityTolerance < 0 || math.IsNaN(params.IntegralityTolerance) {
		return errors.New("IntegralityTolerance must not be negative or NaN")
	}
	if params.RelativeGapTolerance < 0 || math.IsNaN(params.RelativeGapTolerance) {
		return errors.New("RelativeGapTolerance must not be negative or NaN")
	}
	return nil
}

// Solve solves a model with default parameters.
func Solve(m *Model) (*SolveResponse, error) {
	return solve(m, nil, nil)
}

// SolveWithParameters solves a model with the given parameters.
func SolveWithParameters(m *Model, params SolveParameters) (*SolveResponse, error) {
	return solve(m, &params, nil)
}

// SolveInterruptible solves a model with default parameters. The solve stops
// with the best solution found so far when the interrupt channel is closed
// or receives a value.
func SolveInterruptible(m *Model, interrupt <-chan struct{}) (*SolveResponse, error) {
	return SolveInterruptibleWithParameters(m, SolveParameters{}, interrupt)
}

// SolveInterruptibleWithParameters solves a model with the given parameters.
// The solve stops with the best solution found so far when the interrupt
// channel is closed or receives a value.
func SolveInterruptibleWithParameters(m *Model, params SolveParameters, interrupt <-chan struct{}) (*SolveResponse, error) {
	var stop atomic.Bool
	solveDone := make(chan struct{})
	defer close(solveDone)
	go func() {
		select {
		case <-interrupt:
			stop.Store(true)
		case <-solveDone:
		}
	}()
	// The goroutine above is not guaranteed to be scheduled before the
	// search starts, check directly for interrupts that are already
	// pending.
	select {
	case <-interrupt:
		stop.Store(true)
	default:
	}
	return solve(m, &params, &stop)
}

func solve(m *Model, params *SolveParameters, stop *atomic.Bool) (*SolveResponse, error) {
	if m == nil {
		return nil, errors.New("model must not be nil")
	}
	start := time.Now()
	var p SolveParameters
	if params != nil {
		p = *params
	}
	invalid := func(err error) (*SolveResponse, error) {
		log.Errorf("invalid solve request: %v", err)
		return &SolveResponse{
			Status:       StatusModelInvalid,
			StatusDetail: err.Error(),
			WallTime:     time.Since(start).Seconds(),
		}, nil
	}
	if err := validateParameters(&p); err != nil {
		return invalid(err)
	}
	engine, err := engineFor(p.LPEngine)
	if err != nil {
		return invalid(err)
	}
	if err := validateModel(m); err != nil {
		return invalid(err)
	}
	resp := newSearch(m, p, engine, stop).run()
	resp.WallTime = time.Since(start).Seconds()
	return resp, nil
}

// SolutionValue evaluates a linear argument against the variable values of a
// response. It returns 0 when the response carries no solution.
func SolutionValue(response *SolveResponse, la LinearArgument) float64 {
	if len(response.VariableValues) == 0 {
		return 0
	}
	return la.evaluateSolutionValue(response)
}

// SolutionBooleanValue reports whether a variable is nonzero in the solution
// of a response, rounding to absorb solver tolerances.
func SolutionBooleanValue(response *SolveResponse, v Var) bool {
	return math.Round(SolutionValue(response, v)) != 0
}
