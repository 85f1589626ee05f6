// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package atomic defines the contract of user supplied "atomic" functions: black-box
// operations y = f(x) recorded on the tape as a single call, whose derivatives and sparsity
// patterns are computed by the implementation itself.
//
// Taylor coefficients are packed by argument then order: for an atomic function with n
// arguments evaluated up to order q, the coefficient of order k of argument j is tx[j*(q+1)+k].
// The same layout is used for ty, px and py.
package atomic

import "golang.org/x/exp/constraints"

// Function is implemented by atomic functions.
//
// Returning false from Forward or Reverse means the requested orders are not supported:
// the sweep that called it fails with an error.
type Function[T constraints.Float] interface {
	// Name is used in error messages and tape listings.
	Name() string

	// Forward computes the Taylor coefficients of orders p to q (inclusive) of the results ty,
	// given the coefficients of orders 0 to q of the arguments in tx. The coefficients of orders
	// below p in ty are already set.
	//
	// vx and vy are only given (non-nil) while recording, with p == q == 0: vx tells which
	// arguments are variables, and the implementation must set in vy which results are variables.
	// Results that are not variables are recorded as parameters.
	Forward(p, q int, vx, vy []bool, tx, ty []T) bool

	// Reverse accumulates into px the partials with respect to tx of the scalar function
	// G(ty), given the partials py of G with respect to ty. Orders 0 to q are given.
	Reverse(q int, tx, ty, px, py []T) bool

	// JacSparsity returns, for each result i, the sorted argument indices j for which
	// dy_i/dx_j may be non-zero. Arguments with selectX[j] == false, and results with
	// selectY[i] == false may be skipped (returned as empty).
	JacSparsity(selectX, selectY []bool) [][]int

	// HesSparsity returns, for each argument j, the sorted argument indices k for which
	// d^2/(dx_j dx_k) of sum_{i: selectY[i]} y_i may be non-zero. Arguments with
	// selectX[j] == false may be skipped.
	HesSparsity(selectX, selectY []bool) [][]int
}

// DenseJacSparsity returns the JacSparsity of a function where every result depends on every argument.
func DenseJacSparsity(selectX, selectY []bool) [][]int {
	pattern := make([][]int, len(selectY))
	for i, selected := range selectY {
		if !selected {
			continue
		}
		for j, xSelected := range selectX {
			if xSelected {
				pattern[i] = append(pattern[i], j)
			}
		}
	}
	return pattern
}

// DenseHesSparsity returns the HesSparsity of a function where every pair of arguments may interact.
func DenseHesSparsity(selectX, selectY []bool) [][]int {
	anyY := false
	for _, selected := range selectY {
		anyY = anyY || selected
	}
	pattern := make([][]int, len(selectX))
	if !anyY {
		return pattern
	}
	for j, selected := range selectX {
		if !selected {
			continue
		}
		for k, kSelected := range selectX {
			if kSelected {
				pattern[j] = append(pattern[j], k)
			}
		}
	}
	return pattern
}
