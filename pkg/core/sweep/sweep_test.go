// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package sweep

import (
	"bytes"
	"fmt"
	"math"
	"testing"

	"github.com/gomlx/adtape/pkg/core/opcode"
	"github.com/gomlx/adtape/pkg/core/tape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/num/hyperdual"
	"k8s.io/klog/v2"
)

func init() {
	klog.InitFlags(nil)
}

// record creates a tape with n independent variables, and returns it along with the variable
// returned by body.
func record(n int, body func(r *tape.Recorder[float64], x []int) int) (*tape.Tape[float64], int) {
	ctx := tape.NewRecordingContext[float64]()
	r := ctx.NewRecorder()
	x := make([]int, n)
	for j := range x {
		x[j] = r.PutOp(opcode.Inv)
	}
	z := body(r, x)
	return r.Finish(), z
}

// put records one operation with its arguments and returns its primary result.
func put(r *tape.Recorder[float64], op opcode.OpCode, args ...int) int {
	z := r.PutOp(op)
	r.PutArg(args...)
	return z
}

// evaluate runs the forward sweeps with the Taylor coefficients xs[j] for the independent
// variable j: all independent variables must have the same number of coefficients.
func evaluate(t *testing.T, tp *tape.Tape[float64], xs [][]float64) *State[float64] {
	q := len(xs[0]) - 1
	s := NewState(tp, q+1)
	for j, coefs := range xs {
		for k, value := range coefs {
			s.Taylor.Set(j+1, k, value)
		}
	}
	require.NoError(t, Forward(s, 0, q))
	return s
}

// reverse runs a reverse sweep of order d with the partials w for the variable z.
func reverse(t *testing.T, s *State[float64], d, z int, w []float64) *Matrix[float64] {
	partial := NewMatrix[float64](s.Tape.NumVar(), d+1)
	copy(partial.Row(z), w)
	require.NoError(t, Reverse(s, d, partial))
	return partial
}

func TestProduct(t *testing.T) {
	tp, z := record(2, func(r *tape.Recorder[float64], x []int) int {
		return put(r, opcode.Mulvv, x[0], x[1])
	})
	s := evaluate(t, tp, [][]float64{{3, 1}, {4, 0}})
	assert.Equal(t, 12.0, s.Taylor.At(z, 0))
	assert.Equal(t, 4.0, s.Taylor.At(z, 1))
	assert.True(t, math.IsNaN(s.Taylor.At(0, 0)))

	partial := reverse(t, s, 0, z, []float64{1})
	assert.Equal(t, 4.0, partial.At(1, 0))
	assert.Equal(t, 3.0, partial.At(2, 0))
}

func TestSinCos(t *testing.T) {
	tp, z := record(1, func(r *tape.Recorder[float64], x []int) int {
		return put(r, opcode.Sin, x[0])
	})
	s := evaluate(t, tp, [][]float64{{0, 1}})
	assert.Equal(t, 0.0, s.Taylor.At(z, 0))
	assert.Equal(t, 1.0, s.Taylor.At(z-1, 0))
	assert.Equal(t, 1.0, s.Taylor.At(z, 1))
}

func TestExpTaylorSeries(t *testing.T) {
	// exp(x0 + t) = exp(x0) * sum_k t^k / k!.
	tp, z := record(1, func(r *tape.Recorder[float64], x []int) int {
		return put(r, opcode.Exp, x[0])
	})
	s := evaluate(t, tp, [][]float64{{0.5, 1, 0, 0, 0}})
	factorial := 1.0
	for k := range 5 {
		if k > 0 {
			factorial *= float64(k)
		}
		assert.InDelta(t, math.Exp(0.5)/factorial, s.Taylor.At(z, k), 1e-12, "order %d", k)
	}

	// Reverse of order 4: G = z4, dG/dx0 = exp(x0)/4!.
	partial := reverse(t, s, 4, z, []float64{0, 0, 0, 0, 1})
	assert.InDelta(t, math.Exp(0.5)/24, partial.At(1, 0), 1e-12)
	assert.InDelta(t, math.Exp(0.5)/6, partial.At(1, 1), 1e-12)
}

var unaryCases = []struct {
	op opcode.OpCode
	fn func(float64) float64
	x  float64
}{
	{opcode.Abs, math.Abs, -0.3},
	{opcode.Neg, func(x float64) float64 { return -x }, 0.3},
	{opcode.Exp, math.Exp, 0.3},
	{opcode.Expm1, math.Expm1, 0.3},
	{opcode.Log, math.Log, 0.7},
	{opcode.Log1p, math.Log1p, 0.4},
	{opcode.Sqrt, math.Sqrt, 0.7},
	{opcode.Sin, math.Sin, 0.3},
	{opcode.Cos, math.Cos, 0.3},
	{opcode.Sinh, math.Sinh, 0.3},
	{opcode.Cosh, math.Cosh, 0.3},
	{opcode.Tan, math.Tan, 0.3},
	{opcode.Tanh, math.Tanh, 0.3},
	{opcode.Asin, math.Asin, 0.3},
	{opcode.Acos, math.Acos, 0.3},
	{opcode.Asinh, math.Asinh, 0.3},
	{opcode.Acosh, math.Acosh, 1.5},
	{opcode.Atan, math.Atan, 0.3},
	{opcode.Atanh, math.Atanh, 0.3},
	{opcode.Erf, math.Erf, 0.3},
	{opcode.Erfc, math.Erfc, 0.3},
}

// putUnary records op(x), including the parameters of the error functions.
func putUnary(r *tape.Recorder[float64], op opcode.OpCode, x int) int {
	z := r.PutOp(op)
	r.PutArg(x)
	if op == opcode.Erf || op == opcode.Erfc {
		c := 2 / math.Sqrt(math.Pi)
		if op == opcode.Erfc {
			c = -c
		}
		r.PutArg(r.PutPar(0), r.PutPar(c))
	}
	return z
}

func TestUnaryDerivatives(t *testing.T) {
	for _, tc := range unaryCases {
		t.Run(tc.op.String(), func(t *testing.T) {
			tp, z := record(1, func(r *tape.Recorder[float64], x []int) int {
				return putUnary(r, tc.op, x[0])
			})
			d1 := fd.Derivative(tc.fn, tc.x, &fd.Settings{Formula: fd.Central})
			d2 := fd.Derivative(tc.fn, tc.x, &fd.Settings{Formula: fd.Central2nd})

			s := evaluate(t, tp, [][]float64{{tc.x, 1, 0}})
			row := s.Taylor.Row(z)
			assert.InDelta(t, tc.fn(tc.x), row[0], 1e-12)
			assert.InDelta(t, d1, row[1], 1e-6)
			assert.InDelta(t, d2/2, row[2], 1e-4)

			// G = z1 = f'(x0) * x1.
			partial := reverse(t, s, 1, z, []float64{0, 1})
			assert.InDelta(t, d2, partial.At(1, 0), 1e-4)
			assert.InDelta(t, d1, partial.At(1, 1), 1e-6)

			partial = reverse(t, s, 0, z, []float64{1})
			assert.InDelta(t, d1, partial.At(1, 0), 1e-6)
		})
	}
}

var binaryCases = []struct {
	op opcode.OpCode
	fn func(x, y float64) float64
	hd func(x, y hyperdual.Number) hyperdual.Number
}{
	{opcode.Addpv, func(x, y float64) float64 { return x + y }, nil},
	{opcode.Addvv, func(x, y float64) float64 { return x + y }, hyperdual.Add},
	{opcode.Subpv, func(x, y float64) float64 { return x - y }, nil},
	{opcode.Subvp, func(x, y float64) float64 { return x - y }, nil},
	{opcode.Subvv, func(x, y float64) float64 { return x - y }, hyperdual.Sub},
	{opcode.Mulpv, func(x, y float64) float64 { return x * y }, nil},
	{opcode.Mulvv, func(x, y float64) float64 { return x * y }, hyperdual.Mul},
	{opcode.Divpv, func(x, y float64) float64 { return x / y }, nil},
	{opcode.Divvp, func(x, y float64) float64 { return x / y }, nil},
	{opcode.Divvv, func(x, y float64) float64 { return x / y },
		func(x, y hyperdual.Number) hyperdual.Number { return hyperdual.Mul(x, hyperdual.Inv(y)) }},
	{opcode.Zmulpv, func(x, y float64) float64 { return x * y }, nil},
	{opcode.Zmulvp, func(x, y float64) float64 { return x * y }, nil},
	{opcode.Zmulvv, func(x, y float64) float64 { return x * y }, hyperdual.Mul},
	{opcode.Powpv, math.Pow, nil},
	{opcode.Powvp, math.Pow, nil},
	{opcode.Powvv, math.Pow, hyperdual.Pow},
}

// recordBinary records op over two independent variables, replacing its parameter arguments
// by x0 and y0. It returns the direction (dx, dy) moving along the variable arguments only.
func recordBinary(op opcode.OpCode, x0, y0 float64) (tp *tape.Tape[float64], z int, dx, dy float64) {
	kinds := opcode.ArgKinds(op, nil)
	if kinds[0] == opcode.ArgVariable {
		dx = 1
	}
	if kinds[1] == opcode.ArgVariable {
		dy = 1
	}
	tp, z = record(2, func(r *tape.Recorder[float64], x []int) int {
		args := []int{x[0], x[1]}
		if dx == 0 {
			args[0] = r.PutPar(x0)
		}
		if dy == 0 {
			args[1] = r.PutPar(y0)
		}
		return put(r, op, args...)
	})
	return
}

func TestBinaryDerivatives(t *testing.T) {
	const x0, y0 = 1.3, 0.7
	for _, tc := range binaryCases {
		t.Run(tc.op.String(), func(t *testing.T) {
			tp, z, dx, dy := recordBinary(tc.op, x0, y0)
			xIsVar, yIsVar := dx != 0, dy != 0
			g := func(step float64) float64 { return tc.fn(x0+step*dx, y0+step*dy) }
			s := evaluate(t, tp, [][]float64{{x0, dx, 0}, {y0, dy, 0}})
			row := s.Taylor.Row(z)
			assert.InDelta(t, tc.fn(x0, y0), row[0], 1e-12)
			assert.InDelta(t, fd.Derivative(g, 0, &fd.Settings{Formula: fd.Central}), row[1], 1e-6)
			assert.InDelta(t, fd.Derivative(g, 0, &fd.Settings{Formula: fd.Central2nd})/2, row[2], 1e-4)

			partial := reverse(t, s, 0, z, []float64{1})
			if xIsVar {
				fx := fd.Derivative(func(x float64) float64 { return tc.fn(x, y0) }, x0, &fd.Settings{Formula: fd.Central})
				assert.InDelta(t, fx, partial.At(1, 0), 1e-6)
			} else {
				assert.Zero(t, partial.At(1, 0))
			}
			if yIsVar {
				fy := fd.Derivative(func(y float64) float64 { return tc.fn(x0, y) }, y0, &fd.Settings{Formula: fd.Central})
				assert.InDelta(t, fy, partial.At(2, 0), 1e-6)
			} else {
				assert.Zero(t, partial.At(2, 0))
			}

			if tc.hd == nil {
				return
			}
			// Second order partials: direction (1, 0) and G = z1 = f_x.
			xx := tc.hd(hyperdual.Number{Real: x0, E1mag: 1, E2mag: 1}, hyperdual.Number{Real: y0})
			xy := tc.hd(hyperdual.Number{Real: x0, E1mag: 1}, hyperdual.Number{Real: y0, E2mag: 1})
			s = evaluate(t, tp, [][]float64{{x0, 1}, {y0, 0}})
			partial = reverse(t, s, 1, z, []float64{0, 1})
			assert.InDelta(t, xx.E1E2mag, partial.At(1, 0), 1e-10)
			assert.InDelta(t, xy.E1E2mag, partial.At(2, 0), 1e-10)
			assert.InDelta(t, xy.E1mag, partial.At(1, 1), 1e-10)
			assert.InDelta(t, xy.E2mag, partial.At(2, 1), 1e-10)
		})
	}
}

func TestReverseThirdOrder(t *testing.T) {
	// G = z_3 along x(t) = x_0 + t: the order 3 reverse sweep gives dG/dx_0, checked against
	// finite differences of the forward sweep, and dG/dx_3 = f'(x_0).
	central := &fd.Settings{Formula: fd.Central}
	for _, tc := range unaryCases {
		t.Run(tc.op.String(), func(t *testing.T) {
			tp, z := record(1, func(r *tape.Recorder[float64], x []int) int {
				return putUnary(r, tc.op, x[0])
			})
			z3 := func(x0 float64) float64 {
				return evaluate(t, tp, [][]float64{{x0, 1, 0, 0}}).Taylor.At(z, 3)
			}
			s := evaluate(t, tp, [][]float64{{tc.x, 1, 0, 0}})
			partial := reverse(t, s, 3, z, []float64{0, 0, 0, 1})
			assert.InDelta(t, fd.Derivative(z3, tc.x, central), partial.At(1, 0), 1e-5)
			assert.InDelta(t, fd.Derivative(tc.fn, tc.x, central), partial.At(1, 3), 1e-6)
		})
	}

	const x0, y0 = 1.3, 0.7
	for _, tc := range binaryCases {
		t.Run(tc.op.String(), func(t *testing.T) {
			tp, z, dx, dy := recordBinary(tc.op, x0, y0)
			z3 := func(x, y float64) float64 {
				return evaluate(t, tp, [][]float64{{x, dx, 0, 0}, {y, dy, 0, 0}}).Taylor.At(z, 3)
			}
			s := evaluate(t, tp, [][]float64{{x0, dx, 0, 0}, {y0, dy, 0, 0}})
			partial := reverse(t, s, 3, z, []float64{0, 0, 0, 1})
			if dx != 0 {
				want := fd.Derivative(func(x float64) float64 { return z3(x, y0) }, x0, central)
				assert.InDelta(t, want, partial.At(1, 0), 1e-5)
			}
			if dy != 0 {
				want := fd.Derivative(func(y float64) float64 { return z3(x0, y) }, y0, central)
				assert.InDelta(t, want, partial.At(2, 0), 1e-5)
			}
		})
	}
}

func TestAbsoluteZeroMultiplication(t *testing.T) {
	inf := math.Inf(1)
	// A zero partial times an infinite parameter is 0.
	for _, op := range []opcode.OpCode{opcode.Zmulpv, opcode.Zmulvp} {
		t.Run(op.String(), func(t *testing.T) {
			tp, z := record(1, func(r *tape.Recorder[float64], x []int) int {
				if op == opcode.Zmulpv {
					return put(r, op, r.PutPar(inf), x[0])
				}
				return put(r, op, x[0], r.PutPar(inf))
			})
			s := evaluate(t, tp, [][]float64{{2, 0}})
			assert.Equal(t, inf, s.Taylor.At(z, 0))
			partial := reverse(t, s, 1, z, []float64{0, 0})
			assert.Equal(t, []float64{0, 0}, partial.Row(1))
			partial = reverse(t, s, 0, z, []float64{1})
			assert.Equal(t, inf, partial.At(1, 0))
		})
	}

	// Zero parameter times an infinite variable.
	tp, z := record(1, func(r *tape.Recorder[float64], x []int) int {
		return put(r, opcode.Zmulpv, r.PutPar(0), x[0])
	})
	s := evaluate(t, tp, [][]float64{{inf, 1}})
	assert.Equal(t, []float64{0, 0}, s.Taylor.Row(z))
	partial := reverse(t, s, 1, z, []float64{1, 1})
	assert.Equal(t, []float64{0, 0}, partial.Row(1))

	// Zero variable times an infinite variable.
	tp, z = record(2, func(r *tape.Recorder[float64], x []int) int {
		return put(r, opcode.Zmulvv, x[0], x[1])
	})
	s = evaluate(t, tp, [][]float64{{0, 0}, {inf, 1}})
	assert.Equal(t, []float64{0, 0}, s.Taylor.Row(z))
	partial = reverse(t, s, 1, z, []float64{0, 1})
	assert.Equal(t, 1.0, partial.At(1, 0))
	assert.Equal(t, []float64{0, 0}, partial.Row(2))
}

func TestPowerConstantExponent(t *testing.T) {
	// (x0 + t)**3 = x0^3 + 3*x0^2*t + 3*x0*t^2 + t^3, also for a negative base.
	tp, z := record(1, func(r *tape.Recorder[float64], x []int) int {
		return put(r, opcode.Powvp, x[0], r.PutPar(3))
	})
	const x0 = -1.5
	s := evaluate(t, tp, [][]float64{{x0, 1, 0, 0}})
	assert.InDeltaSlice(t, []float64{x0 * x0 * x0, 3 * x0 * x0, 3 * x0, 1}, s.Taylor.Row(z), 1e-12)
	partial := reverse(t, s, 0, z, []float64{1})
	assert.InDelta(t, 3*x0*x0, partial.At(1, 0), 1e-12)

	// At a zero base all derivatives are 0, in both directions.
	for _, y := range []float64{1, 2, 3, 2.5} {
		tp, z := record(1, func(r *tape.Recorder[float64], x []int) int {
			return put(r, opcode.Powvp, x[0], r.PutPar(y))
		})
		s := evaluate(t, tp, [][]float64{{0, 1, 0, 0}})
		assert.Equal(t, []float64{0, 0, 0, 0}, s.Taylor.Row(z), "y=%g", y)
		partial := reverse(t, s, 3, z, []float64{1, 1, 1, 1})
		assert.Equal(t, []float64{0, 0, 0, 0}, partial.Row(1), "y=%g", y)
	}
}

func TestConditionalExpression(t *testing.T) {
	// z = x0 < x1 ? 3*x0 : x1
	tp, z := record(2, func(r *tape.Recorder[float64], x []int) int {
		a := put(r, opcode.Mulpv, r.PutPar(3), x[0])
		flags := opcode.CExpLeftIsVar | opcode.CExpRightIsVar | opcode.CExpTrueIsVar | opcode.CExpFalseIsVar
		return put(r, opcode.CExp, int(opcode.CompareLt), flags, x[0], x[1], a, x[1])
	})

	s := evaluate(t, tp, [][]float64{{1, 1}, {2, 1}})
	assert.Equal(t, 3.0, s.Taylor.At(z, 0))
	assert.Equal(t, 3.0, s.Taylor.At(z, 1))
	partial := reverse(t, s, 0, z, []float64{1})
	assert.Equal(t, []float64{3, 0}, []float64{partial.At(1, 0), partial.At(2, 0)})

	// The branch follows the current values.
	s = evaluate(t, tp, [][]float64{{3, 1}, {2, 1}})
	assert.Equal(t, 2.0, s.Taylor.At(z, 0))
	assert.Equal(t, 1.0, s.Taylor.At(z, 1))
	assert.Zero(t, s.CompareChange)
	partial = reverse(t, s, 0, z, []float64{1})
	assert.Equal(t, []float64{0, 1}, []float64{partial.At(1, 0), partial.At(2, 0)})
}

func TestCompareChange(t *testing.T) {
	var ltIndex int
	tp, z := record(2, func(r *tape.Recorder[float64], x []int) int {
		put(r, opcode.Ltvv, x[0], x[1])
		ltIndex = r.NumOp() - 1
		put(r, opcode.Eqpv, r.PutPar(1), x[0])
		return put(r, opcode.Addvv, x[0], x[1])
	})
	s := evaluate(t, tp, [][]float64{{1}, {2}})
	assert.Equal(t, 0, s.CompareChange)
	assert.Equal(t, -1, s.CompareChangeOp)
	assert.Equal(t, 3.0, s.Taylor.At(z, 0))

	s = evaluate(t, tp, [][]float64{{3}, {2}})
	assert.Equal(t, 2, s.CompareChange)
	assert.Equal(t, ltIndex, s.CompareChangeOp)
}

func TestCSumDiscreteAndPrint(t *testing.T) {
	floor := &tape.Discrete[float64]{Name: "floor", Fn: math.Floor}
	var sum, dis int
	tp, _ := record(2, func(r *tape.Recorder[float64], x []int) int {
		// sum = 1 + x0 - x1
		sum = put(r, opcode.CSum, r.PutPar(1), 1, 1, x[0], x[1])
		dis = put(r, opcode.Dis, r.PutDiscrete(floor), x[0])
		put(r, opcode.Pri, opcode.PriValueIsVar, r.PutPar(0), r.PutTxt("x0="), x[0], r.PutTxt("\n"))
		// Not printed: position is positive.
		put(r, opcode.Pri, opcode.PriValueIsVar, r.PutPar(1), r.PutTxt("never"), x[0], r.PutTxt("\n"))
		return sum
	})

	s := NewState(tp, 2)
	var buf bytes.Buffer
	s.Print = &buf
	s.Taylor.Set(1, 0, 2.5)
	s.Taylor.Set(2, 0, 0.5)
	s.Taylor.Set(1, 1, 1)
	require.NoError(t, Forward(s, 0, 1))
	assert.Equal(t, 3.0, s.Taylor.At(sum, 0))
	assert.Equal(t, 1.0, s.Taylor.At(sum, 1))
	assert.Equal(t, 2.0, s.Taylor.At(dis, 0))
	assert.Equal(t, 0.0, s.Taylor.At(dis, 1))
	assert.Equal(t, "x0=2.5\n", buf.String())

	partial := reverse(t, s, 0, sum, []float64{1})
	assert.Equal(t, 1.0, partial.At(1, 0))
	assert.Equal(t, -1.0, partial.At(2, 0))
}

// recordVecAD records: v = [10, 20]; v[x1] = x0; z = v[x1] * v[1].
func recordVecAD() (tp *tape.Tape[float64], z int) {
	return record(2, func(r *tape.Recorder[float64], x []int) int {
		offset := r.PutVecInd(2)
		r.PutVecInd(r.PutPar(10))
		r.PutVecInd(r.PutPar(20))
		put(r, opcode.Stvv, offset, x[1], x[0])
		a, ord := r.PutLoadOp(opcode.Ldv)
		r.PutArg(offset, x[1], ord)
		b, ord := r.PutLoadOp(opcode.Ldp)
		r.PutArg(offset, r.PutPar(1), ord)
		return put(r, opcode.Mulvv, a, b)
	})
}

func TestVecAD(t *testing.T) {
	tp, z := recordVecAD()

	// x1 = 0.7 truncates to 0: z = x0 * 20.
	s := evaluate(t, tp, [][]float64{{5, 1}, {0.7, 0}})
	assert.Equal(t, 100.0, s.Taylor.At(z, 0))
	assert.Equal(t, 20.0, s.Taylor.At(z, 1))
	assert.Equal(t, []int{1, 0}, s.Loads)
	partial := reverse(t, s, 0, z, []float64{1})
	assert.Equal(t, 20.0, partial.At(1, 0))

	// x1 = 1: z = x0 * x0.
	s = evaluate(t, tp, [][]float64{{5, 1}, {1, 0}})
	assert.Equal(t, 25.0, s.Taylor.At(z, 0))
	assert.Equal(t, 10.0, s.Taylor.At(z, 1))
	assert.Equal(t, []int{1, 1}, s.Loads)
	partial = reverse(t, s, 0, z, []float64{1})
	assert.Equal(t, 10.0, partial.At(1, 0))

	// Out of range.
	s = NewState(tp, 1)
	s.Taylor.Set(1, 0, 5)
	s.Taylor.Set(2, 0, 2)
	err := Forward0(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

// productAtom is an atomic function computing y = x0 * x1 for any order.
type productAtom struct {
	maxOrder int
}

func (productAtom) Name() string { return "product" }

func (a productAtom) Forward(p, q int, vx, vy []bool, tx, ty []float64) bool {
	if q > a.maxOrder {
		return false
	}
	if vy != nil {
		vy[0] = vx[0] || vx[1]
	}
	nOrd := q + 1
	for d := p; d <= q; d++ {
		ty[d] = 0
		for k := 0; k <= d; k++ {
			ty[d] += tx[k] * tx[nOrd+d-k]
		}
	}
	return true
}

func (productAtom) Reverse(q int, tx, ty, px, py []float64) bool {
	nOrd := q + 1
	for d := 0; d <= q; d++ {
		for k := 0; k <= d; k++ {
			px[k] += py[d] * tx[nOrd+d-k]
			px[nOrd+d-k] += py[d] * tx[k]
		}
	}
	return true
}

func (productAtom) JacSparsity(selectX, selectY []bool) [][]int {
	return [][]int{{0, 1}}
}

func (productAtom) HesSparsity(selectX, selectY []bool) [][]int {
	if !selectY[0] {
		return make([][]int, 2)
	}
	return [][]int{{1}, {0}}
}

// recordAtomic records z = 2 * product(x0, x1).
func recordAtomic(atom productAtom) (*tape.Tape[float64], int) {
	return record(2, func(r *tape.Recorder[float64], x []int) int {
		idx := r.PutAtomic(atom)
		put(r, opcode.AFun, idx, 0, 2, 1)
		put(r, opcode.Funav, x[0])
		put(r, opcode.Funav, x[1])
		y := r.PutOp(opcode.Funrv)
		put(r, opcode.AFun, idx, 0, 2, 1)
		return put(r, opcode.Mulpv, r.PutPar(2), y)
	})
}

func TestAtomic(t *testing.T) {
	tp, z := recordAtomic(productAtom{maxOrder: 2})
	s := evaluate(t, tp, [][]float64{{3, 1, 0}, {4, 0, 0}})
	assert.Equal(t, 24.0, s.Taylor.At(z, 0))
	assert.Equal(t, 8.0, s.Taylor.At(z, 1))
	assert.Equal(t, 0.0, s.Taylor.At(z, 2))

	partial := reverse(t, s, 0, z, []float64{1})
	assert.Equal(t, 8.0, partial.At(1, 0))
	assert.Equal(t, 6.0, partial.At(2, 0))

	// G = z1 = 2 * x1: dG/dx1 = 2.
	partial = reverse(t, s, 1, z, []float64{0, 1})
	assert.Equal(t, 0.0, partial.At(1, 0))
	assert.Equal(t, 2.0, partial.At(2, 0))
	assert.Equal(t, 8.0, partial.At(1, 1))

	// Orders not supported are reported as errors.
	tp, _ = recordAtomic(productAtom{maxOrder: 0})
	s = NewState(tp, 2)
	require.NoError(t, Forward(s, 0, 0))
	err := Forward(s, 1, 1)
	require.Error(t, err)
	assert.True(t, IsAtomicError(err))
	assert.Contains(t, err.Error(), `"product"`)
}

func TestMatrix(t *testing.T) {
	m := NewMatrix[float32](3, 2)
	m.Set(1, 1, 5)
	m.Row(2)[0] = 7
	assert.Equal(t, float32(5), m.At(1, 1))
	assert.Equal(t, float32(7), m.At(2, 0))
	assert.Panics(t, func() { m.At(0, 2) })
	assert.Len(t, m.Row(0), 2)
	assert.Equal(t, 2, cap(m.Row(0)))

	m.Grow(4)
	assert.Equal(t, 4, m.Cols())
	assert.Equal(t, float32(5), m.At(1, 1))
	assert.Equal(t, float32(7), m.At(2, 0))
	assert.Equal(t, float32(0), m.At(2, 3))
	m.Zero()
	assert.Equal(t, float32(0), m.At(1, 1))
}

func TestFloat32(t *testing.T) {
	ctx := tape.NewRecordingContext[float32]()
	r := ctx.NewRecorder()
	x := r.PutOp(opcode.Inv)
	z := r.PutOp(opcode.Sqrt)
	r.PutArg(x)
	tp := r.Finish()

	s := NewState(tp, 2)
	s.Taylor.Set(x, 0, 4)
	s.Taylor.Set(x, 1, 1)
	require.NoError(t, Forward(s, 0, 1))
	assert.Equal(t, float32(2), s.Taylor.At(z, 0))
	assert.Equal(t, float32(0.25), s.Taylor.At(z, 1))
	assert.Equal(t, "2", fmt.Sprint(s.Taylor.At(z, 0)))
}
