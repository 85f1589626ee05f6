// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ad

import (
	"github.com/gomlx/adtape/pkg/core/sparsity"
	"github.com/gomlx/adtape/pkg/core/sweep"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
)

// ForSparseJac computes the sparsity pattern of J * R, where J is the m x n Jacobian of the
// function and R is an n x q pattern. The result is m x q.
//
// With R the identity (sparsity.Identity(n)) it is the sparsity pattern of the Jacobian.
// The results for all variables are kept for RevSparseHes.
func (f *Function[T]) ForSparseJac(q int, r *sparsity.Pattern) (*sparsity.Pattern, error) {
	n := f.NumIndependent()
	if r.Rows() != n || r.Cols() != q {
		return nil, errors.Errorf("Function.ForSparseJac: pattern R must be %d x %d, got %d x %d", n, q, r.Rows(), r.Cols())
	}
	v := sparsity.New(f.storage, sweep.NumSparsitySets(f.tape), q)
	for j := range n {
		for _, k := range r.Row(j) {
			v.AddElement(j+1, k)
		}
	}
	sweep.ForJac(f.tape, v)
	f.forJac = v
	return sparsity.FromSetVector(v, f.dep), nil
}

// RevSparseJac computes the sparsity pattern of S * J, where J is the m x n Jacobian of the
// function and S is a q x m pattern. The result is q x n.
func (f *Function[T]) RevSparseJac(q int, s *sparsity.Pattern) (*sparsity.Pattern, error) {
	n, m := f.NumIndependent(), f.NumDependent()
	if s.Rows() != q || s.Cols() != m {
		return nil, errors.Errorf("Function.RevSparseJac: pattern S must be %d x %d, got %d x %d", q, m, s.Rows(), s.Cols())
	}
	v := sparsity.New(f.storage, sweep.NumSparsitySets(f.tape), q)
	for k := range q {
		for _, i := range s.Row(k) {
			v.AddElement(f.dep[i], k)
		}
	}
	sweep.RevJac(f.tape, v)
	result := sparsity.NewPattern(q, n)
	for j := range n {
		for _, k := range sparsity.Elements(v, j+1) {
			result.Add(k, j)
		}
	}
	return result, nil
}

// RevSparseHes computes the sparsity pattern of R^T * H, where H is the n x n Hessian of the sum
// of the dependent variables selected by s, and R is the n x q pattern given to the last
// ForSparseJac. The result is q x n.
//
// With R the identity it is the sparsity pattern of the Hessian.
func (f *Function[T]) RevSparseHes(q int, s []bool) (*sparsity.Pattern, error) {
	n, m := f.NumIndependent(), f.NumDependent()
	if f.forJac == nil || f.forJac.End() != q {
		return nil, errors.Errorf("Function.RevSparseHes: ForSparseJac with q=%d must be called first", q)
	}
	if len(s) != m {
		return nil, errors.Errorf("Function.RevSparseHes: %d selection values given for %d dependent variables", len(s), m)
	}
	numSets := sweep.NumSparsitySets(f.tape)
	revJac := make([]bool, numSets)
	for i, selected := range s {
		if selected {
			revJac[f.dep[i]] = true
		}
	}
	h := sparsity.New(f.storage, numSets, q)
	sweep.RevHes(f.tape, f.forJac, revJac, h)
	result := sparsity.NewPattern(q, n)
	for j := range n {
		for _, k := range sparsity.Elements(h, j+1) {
			result.Add(k, j)
		}
	}
	return result, nil
}

// JacobianPattern returns the sparsity pattern of the m x n Jacobian.
func (f *Function[T]) JacobianPattern() *sparsity.Pattern {
	return must.M1(f.ForSparseJac(f.NumIndependent(), sparsity.Identity(f.NumIndependent())))
}

// HessianPattern returns the sparsity pattern of the n x n Hessian of the sum of the dependent
// variables selected by s.
func (f *Function[T]) HessianPattern(s []bool) (*sparsity.Pattern, error) {
	n := f.NumIndependent()
	if _, err := f.ForSparseJac(n, sparsity.Identity(n)); err != nil {
		return nil, err
	}
	return f.RevSparseHes(n, s)
}
