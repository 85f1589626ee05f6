// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package sweep

import (
	"github.com/gomlx/adtape/pkg/core/opcode"
	"github.com/gomlx/exceptions"
	"golang.org/x/exp/constraints"
	"k8s.io/klog/v2"
)

// ForwardAny computes the Taylor coefficients of orders p to q (1 <= p <= q) of all variables.
//
// The coefficients of orders 0..q of the independent variables, and of orders 0..p-1 of all the
// other variables (from previous forward sweeps), must already be in s.Taylor.
// Branches of conditional expressions and VecAD loads use the resolutions of the last Forward0.
func ForwardAny[T constraints.Float](s *State[T], p, q int) error {
	t := s.Tape
	taylor := s.Taylor
	if p < 1 || q < p {
		exceptions.Panicf("sweep.ForwardAny: invalid orders p=%d, q=%d", p, q)
	}
	if taylor.Cols() <= q {
		exceptions.Panicf("sweep.ForwardAny: Taylor matrix has room for %d orders, order %d requested", taylor.Cols(), q)
	}
	var call atomicCall[T]
	row := taylor.Row
	par := t.Par
	val := func(i int) T { return taylor.At(i, 0) }

	it := t.ForwardIterator()
	for op, ok := it.Next(); ok; op, ok = it.Next() {
		args, iZ := op.Args, op.Var
		var z []T
		if opcode.NumRes(op.Code) > 0 {
			z = row(iZ)
		}
		switch op.Code {
		case opcode.Begin, opcode.End, opcode.Inv, opcode.Pri,
			opcode.Stpp, opcode.Stpv, opcode.Stvp, opcode.Stvv,
			opcode.Eqpv, opcode.Eqvv, opcode.Nepv, opcode.Nevv, opcode.Ltpv, opcode.Ltvp, opcode.Ltvv,
			opcode.Lepv, opcode.Levp, opcode.Levv:
			// No Taylor coefficients.

		case opcode.Par, opcode.Sign, opcode.Dis:
			clear(z[p : q+1])

		case opcode.Abs:
			x := row(args[0])
			sx := Sign(x[0])
			for d := p; d <= q; d++ {
				z[d] = sx * x[d]
			}
		case opcode.Neg:
			x := row(args[0])
			for d := p; d <= q; d++ {
				z[d] = -x[d]
			}
		case opcode.Exp:
			x := row(args[0])
			for d := p; d <= q; d++ {
				chain(d, z, x, z)
			}
		case opcode.Expm1:
			x := row(args[0])
			for d := p; d <= q; d++ {
				chain(d, z, x, z)
				z[d] += x[d]
			}
		case opcode.Log:
			x := row(args[0])
			for d := p; d <= q; d++ {
				logarithm(d, z, x, x[0])
			}
		case opcode.Log1p:
			x := row(args[0])
			for d := p; d <= q; d++ {
				logarithm(d, z, x, 1+x[0])
			}
		case opcode.Sqrt:
			x := row(args[0])
			for d := p; d <= q; d++ {
				squareRoot(d, z, x[d])
			}

		case opcode.Sin, opcode.Sinh, opcode.Cos, opcode.Cosh:
			x, aux := row(args[0]), row(iZ-1)
			// s is the sine (hyperbolic or not) and c the cosine.
			sn, cs := z, aux
			if op.Code == opcode.Cos || op.Code == opcode.Cosh {
				sn, cs = aux, z
			}
			hyperbolic := op.Code == opcode.Sinh || op.Code == opcode.Cosh
			for d := p; d <= q; d++ {
				chain(d, sn, x, cs)
				chain(d, cs, x, sn)
				if !hyperbolic {
					cs[d] = -cs[d]
				}
			}
		case opcode.Tan, opcode.Tanh:
			// aux = z*z, z' = x' * (1 +/- aux).
			x, y := row(args[0]), row(iZ-1)
			for d := p; d <= q; d++ {
				chain(d, z, x, y)
				if op.Code == opcode.Tanh {
					z[d] = -z[d]
				}
				z[d] += x[d]
				y[d] = squareCoef(d, z)
			}
		case opcode.Atan, opcode.Atanh:
			// b = 1 +/- x*x, z' * b = x'.
			x, b := row(args[0]), row(iZ-1)
			for d := p; d <= q; d++ {
				b[d] = squareCoef(d, x)
				if op.Code == opcode.Atanh {
					b[d] = -b[d]
				}
				quotient(d, z, x, b, 1)
			}
		case opcode.Asin, opcode.Acos, opcode.Asinh, opcode.Acosh:
			// b = sqrt(+/- 1 +/- x*x), z' * b = +/- x'.
			x, b := row(args[0]), row(iZ-1)
			sq, s := arcSigns[T](op.Code)
			for d := p; d <= q; d++ {
				squareRoot(d, b, sq*squareCoef(d, x))
				quotient(d, z, x, b, s)
			}

		case opcode.Addpv:
			copy(z[p:q+1], row(args[1])[p:q+1])
		case opcode.Addvv:
			x, y := row(args[0]), row(args[1])
			for d := p; d <= q; d++ {
				z[d] = x[d] + y[d]
			}
		case opcode.Subpv:
			y := row(args[1])
			for d := p; d <= q; d++ {
				z[d] = -y[d]
			}
		case opcode.Subvp:
			copy(z[p:q+1], row(args[0])[p:q+1])
		case opcode.Subvv:
			x, y := row(args[0]), row(args[1])
			for d := p; d <= q; d++ {
				z[d] = x[d] - y[d]
			}
		case opcode.Mulpv:
			x, y := par(args[0]), row(args[1])
			for d := p; d <= q; d++ {
				z[d] = x * y[d]
			}
		case opcode.Mulvv:
			x, y := row(args[0]), row(args[1])
			for d := p; d <= q; d++ {
				product(d, z, x, y)
			}
		case opcode.Divpv:
			y := row(args[1])
			for d := p; d <= q; d++ {
				division(d, z, nil, y)
			}
		case opcode.Divvp:
			x, y := row(args[0]), par(args[1])
			for d := p; d <= q; d++ {
				z[d] = x[d] / y
			}
		case opcode.Divvv:
			x, y := row(args[0]), row(args[1])
			for d := p; d <= q; d++ {
				division(d, z, x, y)
			}
		case opcode.Zmulpv:
			x, y := par(args[0]), row(args[1])
			for d := p; d <= q; d++ {
				z[d] = Azmul(x, y[d])
			}
		case opcode.Zmulvp:
			x, y := row(args[0]), par(args[1])
			for d := p; d <= q; d++ {
				z[d] = Azmul(x[d], y)
			}
		case opcode.Zmulvv:
			x, y := row(args[0]), row(args[1])
			for d := p; d <= q; d++ {
				azProduct(d, z, x, y)
			}

		case opcode.Powvp:
			x, y := row(args[0]), par(args[1])
			if p == 0 {
				z[0] = Pow(x[0], y)
			}
			for d := max(p, 1); d <= q; d++ {
				parPower(d, z, x, y)
			}
		case opcode.Powpv, opcode.Powvv:
			// z0 = log(x), z1 = z0 * y, z = exp(z1).
			z0, z1 := row(iZ-2), row(iZ-1)
			for d := p; d <= q; d++ {
				switch op.Code {
				case opcode.Powpv:
					y := row(args[1])
					z0[d] = 0
					z1[d] = z0[0] * y[d]
				default:
					x, y := row(args[0]), row(args[1])
					logarithm(d, z0, x, x[0])
					product(d, z1, z0, y)
				}
				chain(d, z, z1, z)
			}

		case opcode.Erf, opcode.Erfc:
			// z0 = x*x, z1 = -z0, z2 = exp(z1), z3 = c*z2, z' = x' * z3.
			x := row(args[0])
			z0, z1, z2, z3 := row(iZ-4), row(iZ-3), row(iZ-2), row(iZ-1)
			c := par(args[2])
			for d := p; d <= q; d++ {
				product(d, z0, x, x)
				z1[d] = -z0[d]
				chain(d, z2, z1, z2)
				z3[d] = c * z2[d]
				chain(d, z, x, z3)
			}

		case opcode.CExp:
			branch := cexpBranch(args, val, par)
			if args[1]&branch.flag != 0 {
				copy(z[p:q+1], row(args[branch.arg])[p:q+1])
			} else {
				clear(z[p : q+1])
			}

		case opcode.CSum:
			numAdd := args[1]
			clear(z[p : q+1])
			for ii, v := range args[3:] {
				x := row(v)
				for d := p; d <= q; d++ {
					if ii < numAdd {
						z[d] += x[d]
					} else {
						z[d] -= x[d]
					}
				}
			}

		case opcode.Ldp, opcode.Ldv:
			if v := s.Loads[args[2]]; v > 0 {
				copy(z[p:q+1], row(v)[p:q+1])
			} else {
				clear(z[p : q+1])
			}

		case opcode.AFun, opcode.Funap, opcode.Funav, opcode.Funrp, opcode.Funrv:
			if err := call.forward(s, op, p, q); err != nil {
				return err
			}

		default:
			exceptions.Panicf("sweep.ForwardAny: unknown operation %s", op.Code)
		}
	}
	klog.V(2).Infof("tape %s: forward sweep of orders %d to %d over %d operations", t.ID(), p, q, t.NumOp())
	return nil
}

// arcSigns returns, for the inverse trigonometric and hyperbolic functions, the sign sq of x*x in
// the auxiliary b = sqrt(q), and the sign s in z' * b = s * x'.
func arcSigns[T constraints.Float](op opcode.OpCode) (sq, s T) {
	switch op {
	case opcode.Asin:
		return -1, 1
	case opcode.Acos:
		return -1, -1
	case opcode.Asinh, opcode.Acosh:
		return 1, 1
	}
	exceptions.Panicf("sweep: %s is not an inverse trigonometric function", op)
	return 0, 0
}

// Forward computes the Taylor coefficients of orders p to q, calling Forward0 if p == 0.
func Forward[T constraints.Float](s *State[T], p, q int) error {
	if p == 0 {
		if err := Forward0(s); err != nil {
			return err
		}
		p = 1
	}
	if q < p {
		return nil
	}
	return ForwardAny(s, p, q)
}
