// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ad

import (
	"math"

	"github.com/gomlx/adtape/pkg/core/opcode"
	"github.com/gomlx/adtape/pkg/core/sweep"
	"golang.org/x/exp/constraints"
)

// unary records the one argument operation op on x.
func unary[T constraints.Float](op opcode.OpCode, x AD[T]) AD[T] {
	value := sweep.UnaryFunc[T](op)(x.value)
	r := recordingOf(x)
	if r == nil {
		return Const(value)
	}
	return r.put(op, value, x.taddr)
}

// Abs returns |x|. Its derivative at 0 is 0.
func Abs[T constraints.Float](x AD[T]) AD[T] { return unary(opcode.Abs, x) }

// Acos returns the arc cosine of x.
func Acos[T constraints.Float](x AD[T]) AD[T] { return unary(opcode.Acos, x) }

// Acosh returns the inverse hyperbolic cosine of x.
func Acosh[T constraints.Float](x AD[T]) AD[T] { return unary(opcode.Acosh, x) }

// Asin returns the arc sine of x.
func Asin[T constraints.Float](x AD[T]) AD[T] { return unary(opcode.Asin, x) }

// Asinh returns the inverse hyperbolic sine of x.
func Asinh[T constraints.Float](x AD[T]) AD[T] { return unary(opcode.Asinh, x) }

// Atan returns the arc tangent of x.
func Atan[T constraints.Float](x AD[T]) AD[T] { return unary(opcode.Atan, x) }

// Atanh returns the inverse hyperbolic tangent of x.
func Atanh[T constraints.Float](x AD[T]) AD[T] { return unary(opcode.Atanh, x) }

// Cos returns the cosine of x.
func Cos[T constraints.Float](x AD[T]) AD[T] { return unary(opcode.Cos, x) }

// Cosh returns the hyperbolic cosine of x.
func Cosh[T constraints.Float](x AD[T]) AD[T] { return unary(opcode.Cosh, x) }

// Exp returns e**x.
func Exp[T constraints.Float](x AD[T]) AD[T] { return unary(opcode.Exp, x) }

// Expm1 returns e**x - 1.
func Expm1[T constraints.Float](x AD[T]) AD[T] { return unary(opcode.Expm1, x) }

// Log returns the natural logarithm of x.
func Log[T constraints.Float](x AD[T]) AD[T] { return unary(opcode.Log, x) }

// Log1p returns the natural logarithm of 1 + x.
func Log1p[T constraints.Float](x AD[T]) AD[T] { return unary(opcode.Log1p, x) }

// Log10 returns the decimal logarithm of x.
func Log10[T constraints.Float](x AD[T]) AD[T] {
	return MulScalar(Log(x), T(1/math.Ln10))
}

// Neg returns -x.
func Neg[T constraints.Float](x AD[T]) AD[T] { return unary(opcode.Neg, x) }

// Sign returns -1, 0 or 1 according to the sign of x. Its derivatives are 0.
func Sign[T constraints.Float](x AD[T]) AD[T] { return unary(opcode.Sign, x) }

// Sin returns the sine of x.
func Sin[T constraints.Float](x AD[T]) AD[T] { return unary(opcode.Sin, x) }

// Sinh returns the hyperbolic sine of x.
func Sinh[T constraints.Float](x AD[T]) AD[T] { return unary(opcode.Sinh, x) }

// Sqrt returns the square root of x.
func Sqrt[T constraints.Float](x AD[T]) AD[T] { return unary(opcode.Sqrt, x) }

// Tan returns the tangent of x.
func Tan[T constraints.Float](x AD[T]) AD[T] { return unary(opcode.Tan, x) }

// Tanh returns the hyperbolic tangent of x.
func Tanh[T constraints.Float](x AD[T]) AD[T] { return unary(opcode.Tanh, x) }

// Erf returns the error function of x.
func Erf[T constraints.Float](x AD[T]) AD[T] { return errorFunction(opcode.Erf, x) }

// Erfc returns the complementary error function of x.
func Erfc[T constraints.Float](x AD[T]) AD[T] { return errorFunction(opcode.Erfc, x) }

// errorFunction records Erf or Erfc, whose derivative is c * exp(-x*x) with c = +/- 2/sqrt(pi).
func errorFunction[T constraints.Float](op opcode.OpCode, x AD[T]) AD[T] {
	value := sweep.UnaryFunc[T](op)(x.value)
	r := recordingOf(x)
	if r == nil {
		return Const(value)
	}
	c := T(2 / math.Sqrt(math.Pi))
	if op == opcode.Erfc {
		c = -c
	}
	return r.put(op, value, x.taddr, r.rec.PutPar(0), r.rec.PutPar(c))
}
