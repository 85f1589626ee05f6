// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ad

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/adtape/pkg/core/sparsity"
	"github.com/gomlx/adtape/pkg/core/sweep"
	"github.com/gomlx/adtape/pkg/core/tape"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
	"k8s.io/klog/v2"
)

// Function is a recorded function y = f(x), with n independent variables x and m dependent
// variables y, created by Recording.Stop.
//
// It holds the Taylor coefficients of the last forward evaluations, so it must be used by one
// goroutine at a time: use Clone to evaluate the same function concurrently.
type Function[T constraints.Float] struct {
	tape *tape.Tape[T]

	// dep holds the variable of each dependent.
	dep   []int
	state *sweep.State[T]

	// numOrders is the number of orders of Taylor coefficients currently computed.
	numOrders int

	storage sparsity.Storage

	// forJac is the per variable result of the last ForSparseJac, used by RevSparseHes.
	forJac sparsity.SetVector
}

func newFunction[T constraints.Float](t *tape.Tape[T], dep []int, print io.Writer) *Function[T] {
	f := &Function[T]{
		tape:    t,
		dep:     dep,
		state:   sweep.NewState(t, 1),
		storage: sparsity.StoragePack,
	}
	f.state.Print = print
	return f
}

// Tape returns the underlying tape.
func (f *Function[T]) Tape() *tape.Tape[T] { return f.tape }

// NumIndependent returns n, the number of independent variables.
func (f *Function[T]) NumIndependent() int { return f.tape.NumInd() }

// NumDependent returns m, the number of dependent variables.
func (f *Function[T]) NumDependent() int { return len(f.dep) }

// NumOrders returns the number of orders of Taylor coefficients computed by the last Forward calls.
func (f *Function[T]) NumOrders() int { return f.numOrders }

// CompareChange returns the number of recorded comparisons whose result differs, for the values of
// the independent variables of the last zero order Forward, from the result during the recording.
// If it is not zero the tape may not represent the function at these values.
func (f *Function[T]) CompareChange() int { return f.state.CompareChange }

// SetSparsityStorage selects the set container used by the sparsity computations.
func (f *Function[T]) SetSparsityStorage(storage sparsity.Storage) {
	f.storage = storage
	f.forJac = nil
}

// SetPrintWriter sets where the values recorded with Recording.PrintFor are printed. If nil they are ignored.
func (f *Function[T]) SetPrintWriter(w io.Writer) {
	f.state.Print = w
}

// Clone returns a Function that shares the (immutable) tape of f, with its own Taylor
// coefficients, so it can be used concurrently with f.
func (f *Function[T]) Clone() *Function[T] {
	g := newFunction(f.tape, f.dep, f.state.Print)
	g.storage = f.storage
	return g
}

// String returns a short description of the function.
func (f *Function[T]) String() string {
	return fmt.Sprintf("Function(n=%d, m=%d, tape %s: %d operations, %d variables, %s)",
		f.NumIndependent(), f.NumDependent(), f.tape.ID(), f.tape.NumOp(), f.tape.NumVar(),
		humanize.Bytes(f.tape.MemoryBytes()))
}

// Forward computes Taylor coefficients of the dependent variables.
//
// If len(xq) == n, xq holds the coefficients of order q of the independent variables, and the
// orders below q must have been computed by previous calls. The coefficients of order q of the
// dependent variables are returned.
//
// If len(xq) == n*(q+1), xq holds the coefficients of orders 0 to q, with the coefficient of
// order k of x_j at xq[j*(q+1)+k]. The coefficients of orders 0 to q of the dependent variables
// are returned with the same layout.
//
// The zero order (q == 0) evaluates the function: conditional expressions and VecAD indices are
// resolved with these values, and CompareChange is updated.
func (f *Function[T]) Forward(q int, xq []T) ([]T, error) {
	n, m := f.NumIndependent(), f.NumDependent()
	if q < 0 {
		return nil, errors.Errorf("Function.Forward: invalid order %d", q)
	}
	var p int
	switch len(xq) {
	case n:
		p = q
		if q > f.numOrders {
			return nil, errors.Errorf("Function.Forward: order %d requested but only %d orders were computed", q, f.numOrders)
		}
	case n * (q + 1):
		p = 0
	default:
		return nil, errors.Errorf("Function.Forward: order %d requires %d or %d values for %d independent variables, got %d",
			q, n, n*(q+1), n, len(xq))
	}

	s := f.state
	s.Taylor.Grow(q + 1)
	for j := range n {
		row := s.Taylor.Row(j + 1)
		if p == q {
			row[q] = xq[j]
		} else {
			copy(row[:q+1], xq[j*(q+1):(j+1)*(q+1)])
		}
	}
	if err := sweep.Forward(s, p, q); err != nil {
		f.numOrders = 0
		return nil, errors.WithMessagef(err, "Function.Forward(%d)", q)
	}
	f.numOrders = q + 1

	if p == q {
		y := make([]T, m)
		for i, z := range f.dep {
			y[i] = s.Taylor.At(z, q)
		}
		return y, nil
	}
	y := make([]T, m*(q+1))
	for i, z := range f.dep {
		copy(y[i*(q+1):(i+1)*(q+1)], s.Taylor.Row(z)[:q+1])
	}
	return y, nil
}

// Reverse computes the partials of a weighted sum of the Taylor coefficients of orders 0 to q-1
// of the dependent variables, with respect to the Taylor coefficients of orders 0 to q-1 of the
// independent variables. The orders 0 to q-1 must have been computed by Forward.
//
// If len(w) == m, the weighted sum is sum_i w[i] * y_i^(q-1). If len(w) == m*q, it is
// sum_{i,k} w[i*q+k] * y_i^(k).
//
// The partial with respect to x_j^(k) is returned in dw[j*q+k]. In particular, after a zero
// order Forward, Reverse(1, w) returns the gradient of w . f(x).
func (f *Function[T]) Reverse(q int, w []T) ([]T, error) {
	n, m := f.NumIndependent(), f.NumDependent()
	if q < 1 || q > f.numOrders {
		return nil, errors.Errorf("Function.Reverse: order %d requested, %d orders were computed by Forward", q, f.numOrders)
	}
	if len(w) != m && len(w) != m*q {
		return nil, errors.Errorf("Function.Reverse: %d weights given, %d or %d expected", len(w), m, m*q)
	}
	partial := sweep.NewMatrix[T](f.tape.NumVar(), q)
	for i, z := range f.dep {
		row := partial.Row(z)
		if len(w) == m {
			row[q-1] += w[i]
			continue
		}
		for k := range q {
			row[k] += w[i*q+k]
		}
	}
	if err := sweep.Reverse(f.state, q-1, partial); err != nil {
		return nil, errors.WithMessagef(err, "Function.Reverse(%d)", q)
	}
	dw := make([]T, n*q)
	for j := range n {
		copy(dw[j*q:(j+1)*q], partial.Row(j + 1))
	}
	klog.V(2).Infof("tape %s: reverse of order %d", f.tape.ID(), q)
	return dw, nil
}
