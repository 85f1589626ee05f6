// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ad

import (
	"github.com/gomlx/adtape/pkg/core/opcode"
	"github.com/gomlx/adtape/pkg/core/sweep"
	"golang.org/x/exp/constraints"
)

// Add returns x + y.
func Add[T constraints.Float](x, y AD[T]) AD[T] {
	value := x.value + y.value
	r := recordingOf(x, y)
	switch {
	case r == nil:
		return Const(value)
	case !x.IsVariable():
		if x.value == 0 {
			return y
		}
		return r.put(opcode.Addpv, value, r.operand(x), y.taddr)
	case !y.IsVariable():
		if y.value == 0 {
			return x
		}
		return r.put(opcode.Addpv, value, r.operand(y), x.taddr)
	}
	return r.put(opcode.Addvv, value, x.taddr, y.taddr)
}

// Sub returns x - y.
func Sub[T constraints.Float](x, y AD[T]) AD[T] {
	value := x.value - y.value
	r := recordingOf(x, y)
	switch {
	case r == nil:
		return Const(value)
	case !x.IsVariable():
		return r.put(opcode.Subpv, value, r.operand(x), y.taddr)
	case !y.IsVariable():
		if y.value == 0 {
			return x
		}
		return r.put(opcode.Subvp, value, x.taddr, r.operand(y))
	}
	return r.put(opcode.Subvv, value, x.taddr, y.taddr)
}

// Mul returns x * y.
//
// The product of a variable by the constant 0 is the constant 0.
func Mul[T constraints.Float](x, y AD[T]) AD[T] {
	value := x.value * y.value
	r := recordingOf(x, y)
	if r == nil {
		return Const(value)
	}
	if !y.IsVariable() {
		x, y = y, x
	}
	if !x.IsVariable() {
		switch x.value {
		case 0:
			return Const[T](0)
		case 1:
			return y
		}
		return r.put(opcode.Mulpv, value, r.operand(x), y.taddr)
	}
	return r.put(opcode.Mulvv, value, x.taddr, y.taddr)
}

// Div returns x / y.
//
// The constant 0 divided by a variable is the constant 0.
func Div[T constraints.Float](x, y AD[T]) AD[T] {
	value := x.value / y.value
	r := recordingOf(x, y)
	switch {
	case r == nil:
		return Const(value)
	case !x.IsVariable():
		if x.value == 0 {
			return Const[T](0)
		}
		return r.put(opcode.Divpv, value, r.operand(x), y.taddr)
	case !y.IsVariable():
		if y.value == 1 {
			return x
		}
		return r.put(opcode.Divvp, value, x.taddr, r.operand(y))
	}
	return r.put(opcode.Divvv, value, x.taddr, y.taddr)
}

// Azmul is the absolute zero multiplication: it returns 0 whenever x is 0, even if y is
// infinite or NaN, and the same holds for all its derivatives.
func Azmul[T constraints.Float](x, y AD[T]) AD[T] {
	value := sweep.Azmul(x.value, y.value)
	r := recordingOf(x, y)
	switch {
	case r == nil:
		return Const(value)
	case !x.IsVariable():
		if x.value == 0 {
			return Const[T](0)
		}
		return r.put(opcode.Zmulpv, value, r.operand(x), y.taddr)
	case !y.IsVariable():
		return r.put(opcode.Zmulvp, value, x.taddr, r.operand(y))
	}
	return r.put(opcode.Zmulvv, value, x.taddr, y.taddr)
}

// Pow returns x**y. With a variable exponent the derivatives are those of exp(log(x) * y), so
// they are only defined for x > 0. With a constant exponent they are computed directly, and
// are all 0 where x is 0.
func Pow[T constraints.Float](x, y AD[T]) AD[T] {
	value := sweep.Pow(x.value, y.value)
	r := recordingOf(x, y)
	switch {
	case r == nil:
		return Const(value)
	case !x.IsVariable():
		return r.put(opcode.Powpv, value, r.operand(x), y.taddr)
	case !y.IsVariable():
		return r.put(opcode.Powvp, value, x.taddr, r.operand(y))
	}
	return r.put(opcode.Powvv, value, x.taddr, y.taddr)
}

// AddScalar returns x + c.
func AddScalar[T constraints.Float](x AD[T], c T) AD[T] { return Add(x, Const(c)) }

// SubScalar returns x - c.
func SubScalar[T constraints.Float](x AD[T], c T) AD[T] { return Sub(x, Const(c)) }

// MulScalar returns x * c.
func MulScalar[T constraints.Float](x AD[T], c T) AD[T] { return Mul(x, Const(c)) }

// DivScalar returns x / c.
func DivScalar[T constraints.Float](x AD[T], c T) AD[T] { return Div(x, Const(c)) }

// PowScalar returns x**c.
func PowScalar[T constraints.Float](x AD[T], c T) AD[T] { return Pow(x, Const(c)) }

// Sum returns the sum of xs, recorded as one operation.
func Sum[T constraints.Float](xs ...AD[T]) AD[T] {
	return SumDiff(xs, nil)
}

// SumDiff returns sum(add) - sum(sub), recorded as one operation.
func SumDiff[T constraints.Float](add, sub []AD[T]) AD[T] {
	all := make([]AD[T], 0, len(add)+len(sub))
	all = append(append(all, add...), sub...)
	r := recordingOf(all...)
	var value, constant T
	var addVars, subVars []int
	var last AD[T]
	for _, x := range add {
		value += x.value
		if x.IsVariable() {
			addVars = append(addVars, x.taddr)
			last = x
		} else {
			constant += x.value
		}
	}
	for _, x := range sub {
		value -= x.value
		if x.IsVariable() {
			subVars = append(subVars, x.taddr)
		} else {
			constant -= x.value
		}
	}
	if r == nil {
		return Const(value)
	}
	if len(addVars) == 1 && len(subVars) == 0 && constant == 0 {
		return last
	}
	args := make([]int, 0, 3+len(addVars)+len(subVars))
	args = append(args, r.rec.PutPar(constant), len(addVars), len(subVars))
	args = append(append(args, addVars...), subVars...)
	return r.put(opcode.CSum, value, args...)
}
