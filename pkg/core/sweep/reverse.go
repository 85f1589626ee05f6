// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package sweep

import (
	"github.com/gomlx/adtape/pkg/core/opcode"
	"github.com/gomlx/exceptions"
	"golang.org/x/exp/constraints"
	"k8s.io/klog/v2"
)

// Reverse computes the partials of a scalar function G of the Taylor coefficients, with respect
// to the Taylor coefficients of orders 0 to d of all variables.
//
// On input, partial (NumVar x (d+1) at least) holds the partials of G with respect to the
// coefficients of the dependent variables, and zero elsewhere. On output, the rows of the
// independent variables hold their partials; the rows of other variables are left in an
// unspecified state.
//
// The Taylor coefficients of orders 0 to d must have been computed by the forward sweeps.
func Reverse[T constraints.Float](s *State[T], d int, partial *Matrix[T]) error {
	t := s.Tape
	taylor := s.Taylor
	if d < 0 || taylor.Cols() <= d || partial.Cols() <= d {
		exceptions.Panicf("sweep.Reverse: order %d not available (Taylor has %d orders, partials %d)",
			d, taylor.Cols(), partial.Cols())
	}
	if partial.Rows() != t.NumVar() {
		exceptions.Panicf("sweep.Reverse: partial matrix has %d rows, tape has %d variables", partial.Rows(), t.NumVar())
	}
	var call atomicCall[T]
	row := taylor.Row
	pRow := partial.Row
	par := t.Par
	val := func(i int) T { return taylor.At(i, 0) }

	it := t.ReverseIterator()
	for op, ok := it.Next(); ok; op, ok = it.Next() {
		args, iZ := op.Args, op.Var
		var z, pz []T
		if opcode.NumRes(op.Code) > 0 {
			z, pz = row(iZ), pRow(iZ)
		}
		switch op.Code {
		case opcode.Begin, opcode.End, opcode.Inv, opcode.Par, opcode.Sign, opcode.Dis, opcode.Pri,
			opcode.Stpp, opcode.Stpv, opcode.Stvp, opcode.Stvv,
			opcode.Eqpv, opcode.Eqvv, opcode.Nepv, opcode.Nevv, opcode.Ltpv, opcode.Ltvp, opcode.Ltvv,
			opcode.Lepv, opcode.Levp, opcode.Levv:
			// No partials to propagate.

		case opcode.Abs:
			x, px := row(args[0]), pRow(args[0])
			sx := Sign(x[0])
			for k := 0; k <= d; k++ {
				px[k] += sx * pz[k]
			}
		case opcode.Neg:
			px := pRow(args[0])
			for k := 0; k <= d; k++ {
				px[k] -= pz[k]
			}
		case opcode.Exp, opcode.Expm1:
			reverseExp(d, z, row(args[0]), pz, pRow(args[0]), op.Code == opcode.Expm1)
		case opcode.Log:
			x := row(args[0])
			reverseLog(d, z, x, pz, pRow(args[0]), x[0])
		case opcode.Log1p:
			x := row(args[0])
			reverseLog(d, z, x, pz, pRow(args[0]), 1+x[0])
		case opcode.Sqrt:
			px := pRow(args[0])
			for j := d; j > 0; j-- {
				px[j] += reverseSquareRootOrder(j, z, pz)
			}
			if pz[0] != 0 {
				px[0] += pz[0] / (2 * z[0])
			}

		case opcode.Sin, opcode.Sinh, opcode.Cos, opcode.Cosh:
			x, px := row(args[0]), pRow(args[0])
			sn, cs, psn, pcs := z, row(iZ-1), pz, pRow(iZ-1)
			if op.Code == opcode.Cos || op.Code == opcode.Cosh {
				sn, cs, psn, pcs = cs, sn, pcs, psn
			}
			var sign T = -1
			if op.Code == opcode.Sinh || op.Code == opcode.Cosh {
				sign = 1
			}
			for j := d; j > 0; j-- {
				pcs[j] *= sign
				reverseChainOrder(j, pcs, x, sn, px, psn)
				reverseChainOrder(j, psn, x, cs, px, pcs)
			}
			px[0] += psn[0]*cs[0] + sign*pcs[0]*sn[0]
		case opcode.Tan, opcode.Tanh:
			x, px := row(args[0]), pRow(args[0])
			y, py := row(iZ-1), pRow(iZ-1)
			var sign T = 1
			if op.Code == opcode.Tanh {
				sign = -1
			}
			for j := d; j > 0; j-- {
				reverseSquareCoef(j, z, pz, py[j])
				px[j] += pz[j]
				pz[j] *= sign
				reverseChainOrder(j, pz, x, y, px, py)
			}
			pz[0] += 2 * py[0] * z[0]
			px[0] += pz[0] * (1 + sign*y[0])
		case opcode.Atan, opcode.Atanh:
			x, px := row(args[0]), pRow(args[0])
			b, pb := row(iZ-1), pRow(iZ-1)
			var sign T = 1
			if op.Code == opcode.Atanh {
				sign = -1
			}
			for j := d; j > 0; j-- {
				reverseQuotientOrder(j, z, b, pz, px, pb, 1)
				reverseSquareCoef(j, x, px, sign*pb[j])
			}
			if pz[0] != 0 {
				px[0] += pz[0] / b[0]
			}
			px[0] += sign * 2 * pb[0] * x[0]
		case opcode.Asin, opcode.Acos, opcode.Asinh, opcode.Acosh:
			x, px := row(args[0]), pRow(args[0])
			b, pb := row(iZ-1), pRow(iZ-1)
			sq, sign := arcSigns[T](op.Code)
			for j := d; j > 0; j-- {
				reverseQuotientOrder(j, z, b, pz, px, pb, sign)
				reverseSquareCoef(j, x, px, sq*reverseSquareRootOrder(j, b, pb))
			}
			if pz[0] != 0 {
				px[0] += sign * pz[0] / b[0]
			}
			if pb[0] != 0 {
				px[0] += sq * pb[0] * x[0] / b[0]
			}

		case opcode.Addpv:
			addTo(pRow(args[1]), pz, d, 1)
		case opcode.Addvv:
			addTo(pRow(args[0]), pz, d, 1)
			addTo(pRow(args[1]), pz, d, 1)
		case opcode.Subpv:
			addTo(pRow(args[1]), pz, d, -1)
		case opcode.Subvp:
			addTo(pRow(args[0]), pz, d, 1)
		case opcode.Subvv:
			addTo(pRow(args[0]), pz, d, 1)
			addTo(pRow(args[1]), pz, d, -1)
		case opcode.Mulpv:
			addTo(pRow(args[1]), pz, d, par(args[0]))
		case opcode.Mulvv:
			reverseProduct(d, row(args[0]), row(args[1]), pz, pRow(args[0]), pRow(args[1]))
		case opcode.Divpv:
			reverseDivision(d, z, row(args[1]), pz, nil, pRow(args[1]))
		case opcode.Divvp:
			addTo(pRow(args[0]), pz, d, 1/par(args[1]))
		case opcode.Divvv:
			reverseDivision(d, z, row(args[1]), pz, pRow(args[0]), pRow(args[1]))
		case opcode.Zmulpv:
			x, py := par(args[0]), pRow(args[1])
			for k := 0; k <= d; k++ {
				py[k] += Azmul(pz[k], x)
			}
		case opcode.Zmulvp:
			px, y := pRow(args[0]), par(args[1])
			for k := 0; k <= d; k++ {
				px[k] += Azmul(pz[k], y)
			}
		case opcode.Zmulvv:
			reverseAzProduct(d, row(args[0]), row(args[1]), pz, pRow(args[0]), pRow(args[1]))

		case opcode.Powvp:
			reverseParPower(d, z, row(args[0]), pz, pRow(args[0]), par(args[1]))
		case opcode.Powpv, opcode.Powvv:
			z0, z1 := row(iZ-2), row(iZ-1)
			pz0, pz1 := pRow(iZ-2), pRow(iZ-1)
			reverseExp(d, z, z1, pz, pz1, false)
			switch op.Code {
			case opcode.Powpv:
				addTo(pRow(args[1]), pz1, d, z0[0])
			default:
				reverseProduct(d, z0, row(args[1]), pz1, pz0, pRow(args[1]))
				x := row(args[0])
				reverseLog(d, z0, x, pz0, pRow(args[0]), x[0])
			}

		case opcode.Erf, opcode.Erfc:
			x, px := row(args[0]), pRow(args[0])
			z1, z2, z3 := row(iZ-3), row(iZ-2), row(iZ-1)
			pz0, pz1, pz2, pz3 := pRow(iZ-4), pRow(iZ-3), pRow(iZ-2), pRow(iZ-1)
			for j := d; j > 0; j-- {
				reverseChainOrder(j, pz, x, z3, px, pz3)
			}
			px[0] += pz[0] * z3[0]
			addTo(pz2, pz3, d, par(args[2]))
			reverseExp(d, z2, z1, pz2, pz1, false)
			addTo(pz0, pz1, d, -1)
			reverseProduct(d, x, x, pz0, px, px)

		case opcode.CExp:
			branch := cexpBranch(args, val, par)
			if args[1]&branch.flag != 0 {
				addTo(pRow(args[branch.arg]), pz, d, 1)
			}

		case opcode.CSum:
			numAdd := args[1]
			for ii, v := range args[3:] {
				if ii < numAdd {
					addTo(pRow(v), pz, d, 1)
				} else {
					addTo(pRow(v), pz, d, -1)
				}
			}

		case opcode.Ldp, opcode.Ldv:
			if v := s.Loads[args[2]]; v > 0 {
				addTo(pRow(v), pz, d, 1)
			}

		case opcode.AFun, opcode.Funap, opcode.Funav, opcode.Funrp, opcode.Funrv:
			if err := call.reverse(s, partial, op, d); err != nil {
				return err
			}

		default:
			exceptions.Panicf("sweep.Reverse: unknown operation %s", op.Code)
		}
	}
	klog.V(2).Infof("tape %s: reverse sweep of order %d over %d operations", t.ID(), d, t.NumOp())
	return nil
}

// addTo accumulates scale * pz[k] into px[k], for k = 0..d.
func addTo[T constraints.Float](px, pz []T, d int, scale T) {
	for k := 0; k <= d; k++ {
		px[k] += scale * pz[k]
	}
}
