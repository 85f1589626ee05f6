// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ad

import (
	"slices"
	"sync"

	"github.com/gomlx/adtape/internal/workerspool"
	"github.com/gomlx/adtape/pkg/core/sparsity"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/mat"
)

// unitVector returns e_j of dimension n, reusing buf.
func unitVector[T constraints.Float](buf []T, j int) []T {
	clear(buf)
	buf[j] = 1
	return buf
}

// Jacobian evaluates the function at x and returns its m x n Jacobian in row-major order.
// It uses n forward sweeps if n <= m, and m reverse sweeps otherwise.
func (f *Function[T]) Jacobian(x []T) ([]T, error) {
	n, m := f.NumIndependent(), f.NumDependent()
	if _, err := f.Forward(0, x); err != nil {
		return nil, err
	}
	jac := make([]T, m*n)
	if n <= m {
		dx := make([]T, n)
		for j := range n {
			dy, err := f.Forward(1, unitVector(dx, j))
			if err != nil {
				return nil, err
			}
			for i := range m {
				jac[i*n+j] = dy[i]
			}
		}
		return jac, nil
	}
	w := make([]T, m)
	for i := range m {
		dw, err := f.Reverse(1, unitVector(w, i))
		if err != nil {
			return nil, err
		}
		copy(jac[i*n:(i+1)*n], dw)
	}
	return jac, nil
}

// JacobianDense returns the Jacobian as a gonum matrix.
func (f *Function[T]) JacobianDense(x []T) (*mat.Dense, error) {
	jac, err := f.Jacobian(x)
	if err != nil {
		return nil, err
	}
	data := make([]float64, len(jac))
	for ii, v := range jac {
		data[ii] = float64(v)
	}
	return mat.NewDense(f.NumDependent(), f.NumIndependent(), data), nil
}

// Hessian evaluates the function at x and returns the n x n Hessian of w . f(x) in row-major order.
func (f *Function[T]) Hessian(x, w []T) ([]T, error) {
	n, m := f.NumIndependent(), f.NumDependent()
	if len(w) != m {
		return nil, errors.Errorf("Function.Hessian: %d weights given for %d dependent variables", len(w), m)
	}
	if _, err := f.Forward(0, x); err != nil {
		return nil, err
	}
	hes := make([]T, n*n)
	dx := make([]T, n)
	for j := range n {
		if _, err := f.Forward(1, unitVector(dx, j)); err != nil {
			return nil, err
		}
		// Partials of w . f'(x) e_j with respect to x_k are in dw[2*k].
		dw, err := f.Reverse(2, w)
		if err != nil {
			return nil, err
		}
		for k := range n {
			hes[k*n+j] = dw[2*k]
		}
	}
	return hes, nil
}

// SparseMatrix holds the values of the possibly non-zero entries of a matrix.
type SparseMatrix[T constraints.Float] struct {
	Pattern *sparsity.Pattern

	// Values of the entries of Pattern, row by row, with increasing columns.
	Values []T
}

func newSparseMatrix[T constraints.Float](p *sparsity.Pattern) *SparseMatrix[T] {
	return &SparseMatrix[T]{Pattern: p, Values: make([]T, p.NumNonZeros())}
}

// index returns the position in Values of the entry (i, j), or -1 if it is not in the pattern.
func (s *SparseMatrix[T]) index(i, j int) int {
	offset := 0
	for row := range i {
		offset += len(s.Pattern.Row(row))
	}
	pos, found := slices.BinarySearch(s.Pattern.Row(i), j)
	if !found {
		return -1
	}
	return offset + pos
}

// At returns the entry (i, j), 0 if it is not in the pattern.
func (s *SparseMatrix[T]) At(i, j int) T {
	if idx := s.index(i, j); idx >= 0 {
		return s.Values[idx]
	}
	return 0
}

// Dense returns the matrix in row-major order.
func (s *SparseMatrix[T]) Dense() []T {
	cols := s.Pattern.Cols()
	dense := make([]T, s.Pattern.Rows()*cols)
	idx := 0
	for i := range s.Pattern.Rows() {
		for _, j := range s.Pattern.Row(i) {
			dense[i*cols+j] = s.Values[idx]
			idx++
		}
	}
	return dense
}

// SparseJacobian evaluates the function at x and returns its Jacobian, computing only the entries
// of its sparsity pattern: columns that don't share a row are computed by the same forward sweep.
func (f *Function[T]) SparseJacobian(x []T) (*SparseMatrix[T], error) {
	n := f.NumIndependent()
	pattern := f.JacobianPattern()
	colors, numColors := sparsity.ColorColumns(pattern)
	if _, err := f.Forward(0, x); err != nil {
		return nil, err
	}
	jac := newSparseMatrix[T](pattern)
	dx := make([]T, n)
	for color := range numColors {
		for j := range n {
			dx[j] = 0
			if colors[j] == color {
				dx[j] = 1
			}
		}
		dy, err := f.Forward(1, dx)
		if err != nil {
			return nil, err
		}
		idx := 0
		for i := range pattern.Rows() {
			for _, j := range pattern.Row(i) {
				if colors[j] == color {
					jac.Values[idx] = dy[i]
				}
				idx++
			}
		}
	}
	return jac, nil
}

// SparseHessian evaluates the function at x and returns the Hessian of w . f(x), computing only
// the entries of its sparsity pattern. Dependent variables with w[i] == 0 are not included.
func (f *Function[T]) SparseHessian(x, w []T) (*SparseMatrix[T], error) {
	n, m := f.NumIndependent(), f.NumDependent()
	if len(w) != m {
		return nil, errors.Errorf("Function.SparseHessian: %d weights given for %d dependent variables", len(w), m)
	}
	selected := make([]bool, m)
	for i, wi := range w {
		selected[i] = wi != 0
	}
	pattern, err := f.HessianPattern(selected)
	if err != nil {
		return nil, err
	}
	colors, numColors := sparsity.ColorColumns(pattern)
	if _, err := f.Forward(0, x); err != nil {
		return nil, err
	}
	hes := newSparseMatrix[T](pattern)
	dx := make([]T, n)
	for color := range numColors {
		for j := range n {
			dx[j] = 0
			if colors[j] == color {
				dx[j] = 1
			}
		}
		if _, err := f.Forward(1, dx); err != nil {
			return nil, err
		}
		dw, err := f.Reverse(2, w)
		if err != nil {
			return nil, err
		}
		idx := 0
		for k := range pattern.Rows() {
			for _, j := range pattern.Row(k) {
				if colors[j] == color {
					hes.Values[idx] = dw[2*k]
				}
				idx++
			}
		}
	}
	return hes, nil
}

// JacobianParallel computes the same as Jacobian using forward sweeps, with the columns split
// among the workers of the pool. Each worker evaluates its own Clone of the function.
func (f *Function[T]) JacobianParallel(x []T, pool *workerspool.Pool) ([]T, error) {
	n, m := f.NumIndependent(), f.NumDependent()
	columns := make(chan int, n)
	for j := range n {
		columns <- j
	}
	close(columns)

	jac := make([]T, m*n)
	var mu sync.Mutex
	var firstErr error
	setErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}
	pool.Saturate(func() {
		g := f.Clone()
		if _, err := g.Forward(0, x); err != nil {
			setErr(err)
			return
		}
		dx := make([]T, n)
		for j := range columns {
			dy, err := g.Forward(1, unitVector(dx, j))
			if err != nil {
				setErr(err)
				return
			}
			for i := range m {
				jac[i*n+j] = dy[i]
			}
		}
	})
	if firstErr != nil {
		return nil, errors.WithMessage(firstErr, "Function.JacobianParallel")
	}
	return jac, nil
}
