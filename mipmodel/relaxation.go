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
	"fmt"
	"math"

	"github.com/willauld/lpsimplex"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

var (
	errRelaxationInfeasible = errors.New("relaxation is infeasible")
	errRelaxationUnbounded  = errors.New("relaxation is unbounded")
)

// standardForm is a model rewritten as `minimize c*x` over variables shifted
// by their lower bounds so that x >= 0. Two-sided constraints split into
// equality rows (aeq, beq) and <= rows (g, h); finite variable upper bounds
// become <= rows of their own.
type standardForm struct {
	nvars int
	// c is the minimization objective over the shifted variables.
	c []float64
	// sign is +1 for minimization models and -1 for maximization. objConst
	// restores objective values in the model's sense:
	// user objective = sign*z + objConst.
	sign     float64
	objConst float64
	// shift holds each variable's lower bound: x_model = x + shift.
	shift   []float64
	integer []bool
	aeq     [][]float64
	beq     []float64
	g       [][]float64
	h       []float64
	// infeasible is set when the conversion can already tell the model has
	// no feasible point. unbounded is set when an unused variable improves
	// the objective without limit, which makes any feasible model
	// unbounded; such variables are still pinned so that the root
	// relaxation settles feasibility first.
	infeasible bool
	unbounded  bool
}

// branchRow is one branching decision in the shifted variable space:
// factor*x[variable] <= rhs, with factor +1 for upper branches and -1 for
// lower branches.
type branchRow struct {
	variable int
	factor   float64
	rhs      float64
}

// newStandardForm converts a validated model. Rows with no effective terms
// are resolved here: bounds that exclude zero make the whole model
// infeasible, anything else drops the row. Variables that end up in no row
// at all are pinned to their lower bound so that no simplex column is all
// zeros; when the objective wants such a variable arbitrarily large, the
// unbounded flag records that the model is unbounded as soon as the
// remaining rows admit a feasible point.
func newStandardForm(m *Model) *standardForm {
	n := len(m.Variables)
	sf := &standardForm{
		nvars:    n,
		c:        make([]float64, n),
		sign:     1,
		objConst: m.ObjectiveOffset,
		shift:    make([]float64, n),
		integer:  make([]bool, n),
	}
	if m.Maximize {
		sf.sign = -1
	}

	used := make([]bool, n)
	for i, v := range m.Variables {
		sf.shift[i] = v.LowerBound
		sf.integer[i] = v.IsInteger
		sf.c[i] = sf.sign * v.ObjectiveCoefficient
		sf.objConst += v.ObjectiveCoefficient * v.LowerBound
		if ub := v.UpperBound - v.LowerBound; !math.IsInf(ub, 1) {
			row := make([]float64, n)
			row[i] = 1
			sf.g = append(sf.g, row)
			sf.h = append(sf.h, ub)
			used[i] = true
		}
	}

	for _, c := range m.Constraints {
		if math.IsInf(c.UpperBound, -1) || math.IsInf(c.LowerBound, 1) {
			sf.infeasible = true
			continue
		}
		row := make([]float64, n)
		zero := true
		shiftSum := 0.0
		for k, ind := range c.VarIndexes {
			coeff := c.Coefficients[k]
			row[ind] = coeff
			shiftSum += coeff * sf.shift[ind]
			if coeff != 0 {
				zero = false
				used[ind] = true
			}
		}
		lb := c.LowerBound - shiftSum
		ub := c.UpperBound - shiftSum
		if zero {
			if !(ClosedInterval{lb, ub}).Contains(0, 0) {
				sf.infeasible = true
			}
			continue
		}
		if lb == ub {
			sf.aeq = append(sf.aeq, row)
			sf.beq = append(sf.beq, lb)
			continue
		}
		if !math.IsInf(ub, 1) {
			sf.g = append(sf.g, row)
			sf.h = append(sf.h, ub)
		}
		if !math.IsInf(lb, -1) {
			neg := make([]float64, n)
			for j, a := range row {
				neg[j] = -a
			}
			sf.g = append(sf.g, neg)
			sf.h = append(sf.h, -lb)
		}
	}

	for i := range used {
		if used[i] {
			continue
		}
		if sf.c[i] < 0 {
			sf.unbounded = true
		}
		row := make([]float64, n)
		row[i] = 1
		sf.g = append(sf.g, row)
		sf.h = append(sf.h, 0)
	}

	return sf
}

// lpEngine solves one linear relaxation in standard form.
type lpEngine interface {
	// solveRelaxation minimizes sf.c subject to the base rows plus the
	// extra branch rows and returns the relaxation objective and the
	// shifted variable values. It reports infeasible and unbounded
	// relaxations with errRelaxationInfeasible and errRelaxationUnbounded,
	// and numerical failures with any other error. It is only called with
	// at least one variable and at least one row.
	solveRelaxation(sf *standardForm, extra []branchRow) (float64, []float64, error)
}

func engineFor(e LPEngine) (lpEngine, error) {
	switch e {
	case EngineGonum:
		return gonumEngine{}, nil
	case EngineLPSimplex:
		return lpsimplexEngine{}, nil
	}
	return nil, fmt.Errorf("unsupported LP engine %v", e)
}

// solveUnconstrained handles the degenerate relaxation with no rows at all:
// every shifted variable sits at zero unless decreasing the objective by
// growing it has no limit.
func solveUnconstrained(sf *standardForm) (float64, []float64, error) {
	for _, ci := range sf.c {
		if ci < 0 {
			return 0, nil, errRelaxationUnbounded
		}
	}
	return 0, make([]float64, sf.nvars), nil
}

// gonumEngine computes relaxations with gonum's simplex, which expects the
// equality form Ax = b, x >= 0. Every <= row gets one slack variable.
type gonumEngine struct{}

func (gonumEngine) solveRelaxation(sf *standardForm, extra []branchRow) (float64, []float64, error) {
	nIneq := len(sf.g) + len(extra)
	rows := len(sf.aeq) + nIneq
	cols := sf.nvars + nIneq

	a := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)
	c := make([]float64, cols)
	copy(c, sf.c)

	r := 0
	for i, row := range sf.aeq {
		for j, v := range row {
			a.Set(r, j, v)
		}
		b[r] = sf.beq[i]
		r++
	}
	slack := sf.nvars
	for i, row := range sf.g {
		for j, v := range row {
			a.Set(r, j, v)
		}
		a.Set(r, slack, 1)
		b[r] = sf.h[i]
		r++
		slack++
	}
	for _, br := range extra {
		a.Set(r, br.variable, br.factor)
		a.Set(r, slack, 1)
		b[r] = br.rhs
		r++
		slack++
	}

	z, x, err := lp.Simplex(c, a, b, 0, nil)
	if err != nil {
		switch {
		case errors.Is(err, lp.ErrInfeasible):
			return 0, nil, errRelaxationInfeasible
		case errors.Is(err, lp.ErrUnbounded):
			return 0, nil, errRelaxationUnbounded
		}
		return 0, nil, fmt.Errorf("gonum simplex: %w", err)
	}
	return z, x[:sf.nvars], nil
}

// lpsimplexEngine computes relaxations with the lpsimplex solver, which
// accepts <= rows and equality rows directly and defaults variable bounds
// to x >= 0.
type lpsimplexEngine struct{}

// Iteration and tolerance settings for lpsimplex calls.
const (
	lpsimplexMaxIter = 4000
	lpsimplexTol     = 1e-12
)

func (lpsimplexEngine) solveRelaxation(sf *standardForm, extra []branchRow) (float64, []float64, error) {
	var aub [][]float64
	var bub []float64
	for i, row := range sf.g {
		aub = append(aub, row)
		bub = append(bub, sf.h[i])
	}
	for _, br := range extra {
		row := make([]float64, sf.nvars)
		row[br.variable] = br.factor
		aub = append(aub, row)
		bub = append(bub, br.rhs)
	}

	callback := lpsimplex.Callbackfunc(nil)
	res := lpsimplex.LPSimplex(sf.c, aub, bub, sf.aeq, sf.beq, nil, callback, false, lpsimplexMaxIter, lpsimplexTol, false)
	switch {
	case res.Success:
		return res.Fun, res.X, nil
	case res.Status == 2:
		return 0, nil, errRelaxationInfeasible
	case res.Status == 3:
		return 0, nil, errRelaxationUnbounded
	}
	return 0, nil, fmt.Errorf("lpsimplex: %s (status %d)", res.Message, res.Status)
}
