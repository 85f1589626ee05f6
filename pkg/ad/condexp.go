// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ad

import (
	"github.com/gomlx/adtape/pkg/core/opcode"
	"golang.org/x/exp/constraints"
)

// CondExp returns ifTrue if "left cop right" holds, ifFalse otherwise.
//
// If left or right are variables, the comparison is recorded: it is evaluated again every time
// the Function is evaluated, and the derivatives are those of the branch selected by the
// current values. Only the selected branch is differentiated.
func CondExp[T constraints.Float](cop opcode.CompareOp, left, right, ifTrue, ifFalse AD[T]) AD[T] {
	selected := ifFalse
	if opcode.Compare(cop, left.value, right.value) {
		selected = ifTrue
	}
	r := recordingOf(left, right, ifTrue, ifFalse)
	if r == nil || (!left.IsVariable() && !right.IsVariable()) {
		return selected
	}
	flags := 0
	for bit, x := range []AD[T]{left, right, ifTrue, ifFalse} {
		if x.IsVariable() {
			flags |= 1 << bit
		}
	}
	return r.put(opcode.CExp, selected.value, int(cop), flags,
		r.operand(left), r.operand(right), r.operand(ifTrue), r.operand(ifFalse))
}

// CondExpLt returns ifTrue if left < right, ifFalse otherwise. See CondExp.
func CondExpLt[T constraints.Float](left, right, ifTrue, ifFalse AD[T]) AD[T] {
	return CondExp(opcode.CompareLt, left, right, ifTrue, ifFalse)
}

// CondExpLe returns ifTrue if left <= right, ifFalse otherwise. See CondExp.
func CondExpLe[T constraints.Float](left, right, ifTrue, ifFalse AD[T]) AD[T] {
	return CondExp(opcode.CompareLe, left, right, ifTrue, ifFalse)
}

// CondExpEq returns ifTrue if left == right, ifFalse otherwise. See CondExp.
func CondExpEq[T constraints.Float](left, right, ifTrue, ifFalse AD[T]) AD[T] {
	return CondExp(opcode.CompareEq, left, right, ifTrue, ifFalse)
}

// CondExpGe returns ifTrue if left >= right, ifFalse otherwise. See CondExp.
func CondExpGe[T constraints.Float](left, right, ifTrue, ifFalse AD[T]) AD[T] {
	return CondExp(opcode.CompareGe, left, right, ifTrue, ifFalse)
}

// CondExpGt returns ifTrue if left > right, ifFalse otherwise. See CondExp.
func CondExpGt[T constraints.Float](left, right, ifTrue, ifFalse AD[T]) AD[T] {
	return CondExp(opcode.CompareGt, left, right, ifTrue, ifFalse)
}

// Max returns the largest of x and y.
func Max[T constraints.Float](x, y AD[T]) AD[T] {
	return CondExpGt(x, y, x, y)
}

// Min returns the smallest of x and y.
func Min[T constraints.Float](x, y AD[T]) AD[T] {
	return CondExpLt(x, y, x, y)
}

// Lt returns whether x < y.
//
// Comparisons involving variables are recorded, and Function.CompareChange reports how many of
// them have a different result for the current values of the independent variables.
func Lt[T constraints.Float](x, y AD[T]) bool {
	result := x.value < y.value
	if result {
		recordLess(false, x, y)
	} else {
		recordLess(true, y, x)
	}
	return result
}

// Le returns whether x <= y. See Lt.
func Le[T constraints.Float](x, y AD[T]) bool {
	result := x.value <= y.value
	if result {
		recordLess(true, x, y)
	} else {
		recordLess(false, y, x)
	}
	return result
}

// Gt returns whether x > y. See Lt.
func Gt[T constraints.Float](x, y AD[T]) bool { return Lt(y, x) }

// Ge returns whether x >= y. See Lt.
func Ge[T constraints.Float](x, y AD[T]) bool { return Le(y, x) }

// Eq returns whether x == y. See Lt.
func Eq[T constraints.Float](x, y AD[T]) bool {
	result := x.value == y.value
	recordEqual(result, x, y)
	return result
}

// Ne returns whether x != y. See Lt.
func Ne[T constraints.Float](x, y AD[T]) bool {
	result := x.value != y.value
	recordEqual(!result, x, y)
	return result
}

// recordLess records the relation x < y (or x <= y) that held during recording.
func recordLess[T constraints.Float](orEqual bool, x, y AD[T]) {
	r := recordingOf(x, y)
	if r == nil {
		return
	}
	pv, vp, vv := opcode.Ltpv, opcode.Ltvp, opcode.Ltvv
	if orEqual {
		pv, vp, vv = opcode.Lepv, opcode.Levp, opcode.Levv
	}
	switch {
	case !x.IsVariable():
		r.record(pv, r.operand(x), y.taddr)
	case !y.IsVariable():
		r.record(vp, x.taddr, r.operand(y))
	default:
		r.record(vv, x.taddr, y.taddr)
	}
}

// recordEqual records the relation x == y (or x != y) that held during recording.
func recordEqual[T constraints.Float](equal bool, x, y AD[T]) {
	r := recordingOf(x, y)
	if r == nil {
		return
	}
	pv, vv := opcode.Nepv, opcode.Nevv
	if equal {
		pv, vv = opcode.Eqpv, opcode.Eqvv
	}
	if !y.IsVariable() {
		x, y = y, x
	}
	if !x.IsVariable() {
		r.record(pv, r.operand(x), y.taddr)
		return
	}
	r.record(vv, x.taddr, y.taddr)
}
