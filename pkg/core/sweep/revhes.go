// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package sweep

import (
	"github.com/gomlx/adtape/pkg/core/opcode"
	"github.com/gomlx/adtape/pkg/core/sparsity"
	"github.com/gomlx/adtape/pkg/core/tape"
	"github.com/gomlx/exceptions"
	"golang.org/x/exp/constraints"
	"k8s.io/klog/v2"
)

// RevHes computes the reverse Hessian sparsity of G = sum of the selected dependent variables.
//
// forJac is the result of ForJac, with seeds over some universe R (typically the independent
// variables). revJac has one entry per set, and on input it is true for the selected dependent
// variables only: on output it tells which variables G may depend on. h must have
// NumSparsitySets(t) empty sets with the same universe as forJac: on output the set of each
// independent variable x_j holds the seeds r for which d^2 G / (dx_j dr) may be non-zero.
func RevHes[T constraints.Float](t *tape.Tape[T], forJac sparsity.SetVector, revJac []bool, h sparsity.SetVector) {
	numSets := NumSparsitySets(t)
	if forJac.NumSets() != numSets || h.NumSets() != numSets || len(revJac) != numSets {
		exceptions.Panicf("sweep.RevHes: got %d forward sets, %d Hessian sets and %d reverse flags, %d required",
			forJac.NumSets(), h.NumSets(), len(revJac), numSets)
	}
	if forJac.End() != h.End() {
		exceptions.Panicf("sweep.RevHes: forward Jacobian universe %d differs from Hessian universe %d", forJac.End(), h.End())
	}

	// linear propagates the first order dependencies of z to x.
	linear := func(x, z int) {
		h.BinaryUnion(x, x, z, h)
		revJac[x] = revJac[x] || revJac[z]
	}
	// cross adds the forward Jacobian of y to the Hessian set of x, if G depends on z.
	cross := func(x, y, z int) {
		if revJac[z] {
			h.BinaryUnion(x, x, y, forJac)
		}
	}

	vecSet := vecadSetIndex(t)
	var call atomicCall[T]
	it := t.ReverseIterator()
	for op, ok := it.Next(); ok; op, ok = it.Next() {
		args, z := op.Args, op.Var
		switch op.Code {
		case opcode.Begin, opcode.End, opcode.Inv, opcode.Par, opcode.Sign, opcode.Dis, opcode.Pri,
			opcode.Stpp, opcode.Stvp,
			opcode.Eqpv, opcode.Eqvv, opcode.Nepv, opcode.Nevv, opcode.Ltpv, opcode.Ltvp, opcode.Ltvv,
			opcode.Lepv, opcode.Levp, opcode.Levv:
			// Nothing to propagate.

		case opcode.Abs, opcode.Neg:
			linear(args[0], z)
		case opcode.Addpv, opcode.Subpv, opcode.Mulpv, opcode.Zmulpv:
			linear(args[1], z)
		case opcode.Subvp, opcode.Divvp, opcode.Zmulvp:
			linear(args[0], z)
		case opcode.Addvv, opcode.Subvv:
			linear(args[0], z)
			linear(args[1], z)
		case opcode.CExp, opcode.CSum:
			for _, x := range derivativeArgs(op.Code, args) {
				linear(x, z)
			}

		case opcode.Exp, opcode.Expm1, opcode.Log, opcode.Log1p, opcode.Sqrt,
			opcode.Sin, opcode.Cos, opcode.Sinh, opcode.Cosh, opcode.Tan, opcode.Tanh,
			opcode.Asin, opcode.Acos, opcode.Asinh, opcode.Acosh, opcode.Atan, opcode.Atanh,
			opcode.Erf, opcode.Erfc, opcode.Powvp:
			linear(args[0], z)
			cross(args[0], args[0], z)
		case opcode.Divpv, opcode.Powpv:
			linear(args[1], z)
			cross(args[1], args[1], z)

		case opcode.Mulvv, opcode.Zmulvv:
			x, y := args[0], args[1]
			linear(x, z)
			linear(y, z)
			cross(x, y, z)
			cross(y, x, z)
		case opcode.Divvv:
			x, y := args[0], args[1]
			linear(x, z)
			linear(y, z)
			cross(x, y, z)
			cross(y, x, z)
			cross(y, y, z)
		case opcode.Powvv:
			x, y := args[0], args[1]
			linear(x, z)
			linear(y, z)
			cross(x, x, z)
			cross(x, y, z)
			cross(y, x, z)
			cross(y, y, z)

		case opcode.Ldp, opcode.Ldv:
			linear(vecSet[args[0]], z)
		case opcode.Stpv, opcode.Stvv:
			linear(args[2], vecSet[args[0]])

		case opcode.AFun, opcode.Funap, opcode.Funav, opcode.Funrp, opcode.Funrv:
			if !call.collect(t, op, true) {
				continue
			}
			selectX := selectedVars(call.argVar)
			selectY := make([]bool, call.m)
			for i, zi := range call.resVar {
				selectY[i] = zi > 0 && revJac[zi]
			}
			jac := call.fn.JacSparsity(selectX, selectedVars(call.resVar))
			hes := call.fn.HesSparsity(selectX, selectY)
			for i, zi := range call.resVar {
				if zi == 0 {
					continue
				}
				for _, j := range jac[i] {
					if x := call.argVar[j]; x > 0 {
						linear(x, zi)
					}
				}
			}
			for j, x := range call.argVar {
				if x == 0 {
					continue
				}
				for _, k := range hes[j] {
					if y := call.argVar[k]; y > 0 {
						h.BinaryUnion(x, x, y, forJac)
					}
				}
			}

		default:
			exceptions.Panicf("sweep.RevHes: unknown operation %s", op.Code)
		}
	}
	klog.V(2).Infof("tape %s: reverse Hessian sparsity sweep, %d seeds", t.ID(), h.End())
}
