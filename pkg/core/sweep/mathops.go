// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package sweep

import (
	"math"

	"github.com/gomlx/adtape/pkg/core/opcode"
	"github.com/gomlx/exceptions"
	"golang.org/x/exp/constraints"
)

// UnaryFunc returns the order 0 function of a one argument operation: Abs, Acos, Acosh, Asin,
// Asinh, Atan, Atanh, Cos, Cosh, Erf, Erfc, Exp, Expm1, Log, Log1p, Neg, Sign, Sin, Sinh, Sqrt, Tan
// or Tanh.
func UnaryFunc[T constraints.Float](op opcode.OpCode) func(T) T {
	var fn func(float64) float64
	switch op {
	case opcode.Abs:
		fn = math.Abs
	case opcode.Acos:
		fn = math.Acos
	case opcode.Acosh:
		fn = math.Acosh
	case opcode.Asin:
		fn = math.Asin
	case opcode.Asinh:
		fn = math.Asinh
	case opcode.Atan:
		fn = math.Atan
	case opcode.Atanh:
		fn = math.Atanh
	case opcode.Cos:
		fn = math.Cos
	case opcode.Cosh:
		fn = math.Cosh
	case opcode.Erf:
		fn = math.Erf
	case opcode.Erfc:
		fn = math.Erfc
	case opcode.Exp:
		fn = math.Exp
	case opcode.Expm1:
		fn = math.Expm1
	case opcode.Log:
		fn = math.Log
	case opcode.Log1p:
		fn = math.Log1p
	case opcode.Neg:
		return func(x T) T { return -x }
	case opcode.Sign:
		return Sign[T]
	case opcode.Sin:
		fn = math.Sin
	case opcode.Sinh:
		fn = math.Sinh
	case opcode.Sqrt:
		fn = math.Sqrt
	case opcode.Tan:
		fn = math.Tan
	case opcode.Tanh:
		fn = math.Tanh
	default:
		exceptions.Panicf("sweep: %s is not a unary operation", op)
	}
	return func(x T) T { return T(fn(float64(x))) }
}

// Sign returns -1, 0 or 1 according to the sign of x.
func Sign[T constraints.Float](x T) T {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// Azmul is the absolute zero multiplication: it is 0 when x is 0, even if y is infinite or NaN.
func Azmul[T constraints.Float](x, y T) T {
	if x == 0 {
		return 0
	}
	return x * y
}

// Pow returns x**y.
func Pow[T constraints.Float](x, y T) T {
	return T(math.Pow(float64(x), float64(y)))
}

// auxiliary returns the order 0 value of the auxiliary result of a two results operation.
func auxiliary[T constraints.Float](op opcode.OpCode, x T) T {
	switch op {
	case opcode.Sin:
		return T(math.Cos(float64(x)))
	case opcode.Cos:
		return T(math.Sin(float64(x)))
	case opcode.Sinh:
		return T(math.Cosh(float64(x)))
	case opcode.Cosh:
		return T(math.Sinh(float64(x)))
	case opcode.Asin, opcode.Acos:
		return T(math.Sqrt(float64(1 - x*x)))
	case opcode.Asinh:
		return T(math.Sqrt(float64(1 + x*x)))
	case opcode.Acosh:
		return T(math.Sqrt(float64(x*x - 1)))
	case opcode.Atan:
		return 1 + x*x
	case opcode.Atanh:
		return 1 - x*x
	}
	exceptions.Panicf("sweep: %s has no auxiliary result", op)
	return 0
}
