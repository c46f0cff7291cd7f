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

// Package mipmodel offers a user-friendly API to build and solve
// mixed-integer linear programs.
//
// The `Builder` struct wraps a Model and provides helper methods for adding
// constraints and variables to the model.
// The `Var` struct is a reference to a specific variable in the Model and
// provides helpful methods for interacting with that variable.
// The `LinearExpr` struct provides helper methods for creating constraints
// and the objective from expressions with many variables and coefficients.
// The solve entry points run a branch-and-bound search over simplex-solved
// linear relaxations and return a SolveResponse carrying the solver status,
// the objective value, and the value of every variable.
package mipmodel

import (
	"errors"
	"fmt"
	"math"
	"sort"

	log "github.com/golang/glog"
)

// ErrMixedModels holds the error when elements added to a model are different.
var ErrMixedModels = errors.New("elements are not part of the same model")

type (
	// VarIndex is the index of a variable in the model.
	VarIndex int32
	// ConstrIndex is the index of a constraint in the model.
	ConstrIndex int32
)

// LinearArgument provides an interface for Var and LinearExpr.
type LinearArgument interface {
	addToLinearExpr(e *LinearExpr, c float64)
	evaluateSolutionValue(r *SolveResponse) float64
}

// LinearExpr is a container for a linear expression.
type LinearExpr struct {
	varCoeffs []varCoeff
	offset    float64
	// mb is the builder owning the referenced variables, nil while the
	// expression is constant. mixed is set when variables from different
	// builders have been combined.
	mb    *Builder
	mixed bool
}

type varCoeff struct {
	ind   VarIndex
	coeff float64
}

// NewLinearExpr creates a new empty LinearExpr.
func NewLinearExpr() *LinearExpr {
	return &LinearExpr{}
}

// NewConstant creates and returns a LinearExpr containing the constant `c`.
func NewConstant(c float64) *LinearExpr {
	return &LinearExpr{offset: c}
}

// Add adds the linear argument term to the LinearExpr and returns itself.
func (l *LinearExpr) Add(la LinearArgument) *LinearExpr {
	l.AddTerm(la, 1)
	return l
}

// AddConstant adds the constant to the LinearExpr and returns itself.
func (l *LinearExpr) AddConstant(c float64) *LinearExpr {
	l.offset += c
	return l
}

// AddTerm adds the linear argument term with the given coefficient to the
// LinearExpr and returns itself.
func (l *LinearExpr) AddTerm(la LinearArgument, coeff float64) *LinearExpr {
	la.addToLinearExpr(l, coeff)
	return l
}

// AddSum adds the sum of the linear arguments to the LinearExpr and returns
// itself.
func (l *LinearExpr) AddSum(las ...LinearArgument) *LinearExpr {
	for _, la := range las {
		l.Add(la)
	}
	return l
}

// AddWeightedSum adds the linear arguments with the corresponding
// coefficients to the LinearExpr and returns itself.
func (l *LinearExpr) AddWeightedSum(las []LinearArgument, coeffs []float64) *LinearExpr {
	if len(coeffs) != len(las) {
		log.Fatalf("las and coeffs must be the same length: %v != %v", len(las), len(coeffs))
	}
	for i, la := range las {
		l.AddTerm(la, coeffs[i])
	}
	return l
}

func (l *LinearExpr) addToLinearExpr(e *LinearExpr, c float64) {
	for _, vc := range l.varCoeffs {
		e.varCoeffs = append(e.varCoeffs, varCoeff{ind: vc.ind, coeff: vc.coeff * c})
	}
	e.offset += l.offset * c
	e.noteBuilder(l.mb)
	if l.mixed {
		e.mixed = true
	}
}

func (l *LinearExpr) evaluateSolutionValue(r *SolveResponse) float64 {
	result := l.offset
	for _, vc := range l.varCoeffs {
		result += r.VariableValues[vc.ind] * vc.coeff
	}
	return result
}

func (l *LinearExpr) noteBuilder(mb *Builder) {
	if mb == nil {
		return
	}
	if l.mb == nil {
		l.mb = mb
	} else if l.mb != mb {
		l.mixed = true
	}
}

// Var is a reference to a variable in the model.
type Var struct {
	ind VarIndex
	mb  *Builder
}

// Name returns the name of the variable.
func (v Var) Name() string {
	return v.mb.model.Variables[v.ind].Name
}

// Bounds returns the bounds of the variable.
func (v Var) Bounds() ClosedInterval {
	pv := v.mb.model.Variables[v.ind]
	return ClosedInterval{pv.LowerBound, pv.UpperBound}
}

// IsInteger returns whether the variable is restricted to integer values.
func (v Var) IsInteger() bool {
	return v.mb.model.Variables[v.ind].IsInteger
}

// Index returns the index of the variable.
func (v Var) Index() VarIndex {
	return v.ind
}

// WithName sets the name of the variable.
func (v Var) WithName(s string) Var {
	v.mb.model.Variables[v.ind].Name = s
	return v
}

func (v Var) addToLinearExpr(e *LinearExpr, c float64) {
	e.varCoeffs = append(e.varCoeffs, varCoeff{ind: v.ind, coeff: c})
	e.noteBuilder(v.mb)
}

func (v Var) evaluateSolutionValue(r *SolveResponse) float64 {
	return r.VariableValues[v.ind]
}

// Constraint is a reference to a constraint in the model.
type Constraint struct {
	ind ConstrIndex
	mb  *Builder
}

// WithName sets the name of the constraint.
func (c Constraint) WithName(s string) Constraint {
	c.mb.model.Constraints[c.ind].Name = s
	return c
}

// Name returns the name of the constraint.
func (c Constraint) Name() string {
	return c.mb.model.Constraints[c.ind].Name
}

// Index returns the index of the constraint.
func (c Constraint) Index() ConstrIndex {
	return c.ind
}

// checkExprAndSetErrorf returns true if every variable referenced by `e` was
// created by `b`. If not, an error with the error message `format` wrapping
// ErrMixedModels is set on `b` if `b.err` is nil.
func (b *Builder) checkExprAndSetErrorf(e *LinearExpr, format string, a ...any) bool {
	if !e.mixed && (e.mb == nil || e.mb == b) {
		return true
	}
	args := make([]any, len(a)+1)
	copy(args, a)
	args[len(a)] = ErrMixedModels
	err := fmt.Errorf(format+": %w", args...)
	log.Errorf("%v; use `-log_backtrace_at` flag to get the error stack", err)
	if b.err == nil {
		b.err = err
	}
	return false
}

// Builder provides a wrapper for assembling a Model incrementally.
type Builder struct {
	model     *Model
	constants map[float64]VarIndex
	// The first and only the first error is reported in Model().
	err error
}

// NewMipModelBuilder creates and returns a new model Builder.
func NewMipModelBuilder() *Builder {
	return &Builder{model: &Model{}, constants: make(map[float64]VarIndex)}
}

// NewNumVar creates a new continuous variable with domain [lb, ub].
func (b *Builder) NewNumVar(lb, ub float64) Var {
	return b.newVar(lb, ub, false)
}

// NewIntVar creates a new integer variable with domain [lb, ub].
func (b *Builder) NewIntVar(lb, ub float64) Var {
	return b.newVar(lb, ub, true)
}

// NewBoolVar creates a new Boolean variable, an integer variable with
// domain [0, 1].
func (b *Builder) NewBoolVar() Var {
	return b.newVar(0, 1, true)
}

func (b *Builder) newVar(lb, ub float64, integer bool) Var {
	v := Var{mb: b, ind: VarIndex(len(b.model.Variables))}
	b.model.Variables = append(b.model.Variables, Variable{LowerBound: lb, UpperBound: ub, IsInteger: integer})
	return v
}

// NewConstant creates a constant variable. If this is called multiple times
// with the same value, the same variable will always be returned.
func (b *Builder) NewConstant(v float64) Var {
	if i, ok := b.constants[v]; ok {
		return Var{mb: b, ind: i}
	}
	constVar := b.NewNumVar(v, v)
	b.constants[v] = constVar.ind
	return constVar
}

// addLinearConstraint appends a constraint row built from `le` with the given
// bounds. The expression's constant offset shifts the bounds, duplicate
// variable terms merge into one coefficient, and the row is stored sorted by
// variable index.
func (b *Builder) addLinearConstraint(le *LinearExpr, iv ClosedInterval) Constraint {
	b.checkExprAndSetErrorf(le, "invalid expression added as linear constraint %d", len(b.model.Constraints))

	merged := make(map[VarIndex]float64, len(le.varCoeffs))
	for _, vc := range le.varCoeffs {
		merged[vc.ind] += vc.coeff
	}
	inds := make([]int32, 0, len(merged))
	for ind := range merged {
		inds = append(inds, int32(ind))
	}
	sort.Slice(inds, func(i, j int) bool { return inds[i] < inds[j] })
	coeffs := make([]float64, len(inds))
	for i, ind := range inds {
		coeffs[i] = merged[VarIndex(ind)]
	}

	shifted := iv.Offset(-le.offset)
	c := Constraint{mb: b, ind: ConstrIndex(len(b.model.Constraints))}
	b.model.Constraints = append(b.model.Constraints, LinearConstraint{
		VarIndexes:   inds,
		Coefficients: coeffs,
		LowerBound:   shifted.Start,
		UpperBound:   shifted.End,
	})
	return c
}

// AddLinearConstraintForInterval adds the linear constraint `expr` in `iv`.
func (b *Builder) AddLinearConstraintForInterval(expr LinearArgument, iv ClosedInterval) Constraint {
	linExpr := NewLinearExpr().Add(expr)
	return b.addLinearConstraint(linExpr, iv)
}

// AddLinearConstraint adds the linear constraint `lb <= expr <= ub`.
func (b *Builder) AddLinearConstraint(expr LinearArgument, lb, ub float64) Constraint {
	linExpr := NewLinearExpr().Add(expr)
	return b.addLinearConstraint(linExpr, ClosedInterval{lb, ub})
}

// AddEquality adds the linear constraint `lhs == rhs`.
func (b *Builder) AddEquality(lhs, rhs LinearArgument) Constraint {
	diff := NewLinearExpr().Add(lhs).AddTerm(rhs, -1)
	return b.addLinearConstraint(diff, ClosedInterval{0, 0})
}

// AddLessOrEqual adds the linear constraint `lhs <= rhs`.
func (b *Builder) AddLessOrEqual(lhs, rhs LinearArgument) Constraint {
	diff := NewLinearExpr().Add(lhs).AddTerm(rhs, -1)
	return b.addLinearConstraint(diff, ClosedInterval{math.Inf(-1), 0})
}

// AddGreaterOrEqual adds the linear constraint `lhs >= rhs`.
func (b *Builder) AddGreaterOrEqual(lhs, rhs LinearArgument) Constraint {
	diff := NewLinearExpr().Add(lhs).AddTerm(rhs, -1)
	return b.addLinearConstraint(diff, ClosedInterval{0, math.Inf(1)})
}

// Minimize sets a linear minimization objective, replacing any previously
// set objective.
func (b *Builder) Minimize(obj LinearArgument) {
	b.setObjective(obj, false)
}

// Maximize sets a linear maximization objective, replacing any previously
// set objective.
func (b *Builder) Maximize(obj LinearArgument) {
	b.setObjective(obj, true)
}

func (b *Builder) setObjective(obj LinearArgument, maximize bool) {
	o := NewLinearExpr().Add(obj)
	b.checkExprAndSetErrorf(o, "invalid expression set as the objective")

	for i := range b.model.Variables {
		b.model.Variables[i].ObjectiveCoefficient = 0
	}
	for _, vc := range o.varCoeffs {
		if int(vc.ind) < len(b.model.Variables) {
			b.model.Variables[vc.ind].ObjectiveCoefficient += vc.coeff
		}
	}
	b.model.ObjectiveOffset = o.offset
	b.model.Maximize = maximize
}

// Hint is a container for variable hints to seed the search with.
type Hint struct {
	Values map[Var]float64
}

type indexValueSlices struct {
	indices []int32
	values  []float64
}

func (ivs indexValueSlices) Len() int {
	return len(ivs.indices)
}

func (ivs indexValueSlices) Less(i, j int) bool {
	return ivs.indices[i] < ivs.indices[j]
}

func (ivs indexValueSlices) Swap(i, j int) {
	ivs.indices[i], ivs.indices[j] = ivs.indices[j], ivs.indices[i]
	ivs.values[i], ivs.values[j] = ivs.values[j], ivs.values[i]
}

func (h *Hint) assignment() *PartialAssignment {
	if h == nil {
		return nil
	}

	var vars []int32
	var values []float64
	for v, hint := range h.Values {
		vars = append(vars, int32(v.ind))
		values = append(values, hint)
	}
	sort.Sort(indexValueSlices{vars, values})

	return &PartialAssignment{VarIndexes: vars, Values: values}
}

// SetHint sets the hint on the model.
func (b *Builder) SetHint(hint *Hint) {
	b.model.SolutionHint = hint.assignment()
}

// ClearHint clears any hints on the model.
func (b *Builder) ClearHint() {
	b.model.SolutionHint = nil
}

// Model returns the built model. The model returned is a pointer to the
// model in Builder, and modifying it may result in unexpected changes to the
// model builder functionality. For example, multiple calls to
// `NewConstant()` will return the same variable even if the variable's
// bounds have been changed to make it no longer a constant.
//
// Model returns an error when invalid parameters have been used during model
// building (e.g. passing variables from other builders).
func (b *Builder) Model() (*Model, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.model, nil
}
