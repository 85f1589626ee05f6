// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ad

import (
	"math"

	"github.com/gomlx/adtape/pkg/core/opcode"
	"github.com/gomlx/exceptions"
	"golang.org/x/exp/constraints"
)

// VecAD is a vector of AD values that can be read and written with indices that are variables:
// the element used is resolved again every time the Function is evaluated.
//
// Indices are truncated towards zero. Out of range indices panic during recording, and make the
// evaluation of the Function fail with an error.
type VecAD[T constraints.Float] struct {
	r        *Recording[T]
	offset   int
	elements []AD[T]
}

// NewVecAD creates a VecAD in the recording, with the given initial values.
func (r *Recording[T]) NewVecAD(values []T) *VecAD[T] {
	r.checkActive()
	if len(values) == 0 {
		exceptions.Panicf("ad: VecAD must have at least one element")
	}
	offset := r.rec.PutVecInd(len(values))
	for _, value := range values {
		r.rec.PutVecInd(r.rec.PutPar(value))
	}
	return &VecAD[T]{r: r, offset: offset, elements: Consts(values)}
}

// Len returns the number of elements of the vector.
func (v *VecAD[T]) Len() int { return len(v.elements) }

func (v *VecAD[T]) position(index AD[T]) int {
	f := math.Trunc(float64(index.value))
	if math.IsNaN(f) || f < 0 || f >= float64(len(v.elements)) {
		exceptions.Panicf("ad: VecAD index %v out of range for vector of length %d", index.value, len(v.elements))
	}
	return int(f)
}

// Get returns the element at index.
func (v *VecAD[T]) Get(index AD[T]) AD[T] {
	r := v.r
	r.own(index)
	element := v.elements[v.position(index)]
	op := opcode.Ldp
	if index.IsVariable() {
		op = opcode.Ldv
	}
	indexArg := r.operand(index)
	z, ordinal := r.rec.PutLoadOp(op)
	r.rec.PutArg(v.offset, indexArg, ordinal)
	return r.variable(z, element.value)
}

// Set the element at index to value.
func (v *VecAD[T]) Set(index, value AD[T]) {
	r := v.r
	r.own(index, value)
	pos := v.position(index)
	var op opcode.OpCode
	switch {
	case !index.IsVariable() && !value.IsVariable():
		op = opcode.Stpp
	case !index.IsVariable():
		op = opcode.Stpv
	case !value.IsVariable():
		op = opcode.Stvp
	default:
		op = opcode.Stvv
	}
	r.record(op, v.offset, r.operand(index), r.operand(value))
	v.elements[pos] = value
}
