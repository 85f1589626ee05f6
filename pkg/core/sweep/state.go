// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package sweep implements the traversals of a tape: the Taylor coefficient forward sweeps
// (Forward0 and ForwardAny), the Reverse sweep computing partials, and the sparsity sweeps
// (ForJac, RevJac and RevHes).
//
// Multi-result operations store their auxiliary results right before the primary one.
// For instance Erf stores, at Var-4 to Var: x*x, -x*x, exp(-x*x), 2/sqrt(pi)*exp(-x*x) and
// finally erf(x), and its Taylor recurrences are the chain of the recurrences of each step.
//
// Sweeps only read the tape: all mutable state (Taylor coefficients, VecAD load resolutions,
// comparison changes) is kept in a State, owned by the caller.
package sweep

import (
	"io"

	"github.com/gomlx/adtape/pkg/core/tape"
	"golang.org/x/exp/constraints"
)

// State holds the Taylor coefficients computed by the forward sweeps of one tape, and the
// values resolved during the last zero order forward sweep.
//
// A State must only be used by one goroutine at a time: create one State per goroutine to
// evaluate the same tape concurrently.
type State[T constraints.Float] struct {
	Tape *tape.Tape[T]

	// Taylor holds in row i the Taylor coefficients of variable i, and has at least one column
	// per order computed.
	Taylor *Matrix[T]

	// Loads maps the ordinal of each VecAD load operation to the variable it resolved to in the
	// last zero order forward sweep, or 0 if it resolved to a parameter.
	Loads []int

	// CompareChange is the number of comparison operations whose result, in the last zero order
	// forward sweep, differed from the one at recording.
	CompareChange int

	// CompareChangeOp is the index of the first operation counted in CompareChange, -1 if none.
	CompareChangeOp int

	// Print is where Pri operations write to. If nil they are ignored.
	Print io.Writer

	// vecad holds the current content of the VecAD vectors during a zero order sweep.
	vecad []vecadElement
}

// NewState creates a State for the tape with room for numOrders orders of Taylor coefficients.
func NewState[T constraints.Float](t *tape.Tape[T], numOrders int) *State[T] {
	return &State[T]{
		Tape:            t,
		Taylor:          NewMatrix[T](t.NumVar(), max(numOrders, 1)),
		Loads:           make([]int, t.NumLoad()),
		CompareChangeOp: -1,
	}
}
