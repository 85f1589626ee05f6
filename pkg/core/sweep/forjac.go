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

// NumSparsitySets returns the number of sets the sparsity sweeps need: one per variable,
// followed by one per VecAD vector.
func NumSparsitySets[T constraints.Float](t *tape.Tape[T]) int {
	return t.NumVar() + len(t.VecADs())
}

// vecadSetIndex maps the offset of each VecAD vector to its set in the sparsity sweeps.
func vecadSetIndex[T constraints.Float](t *tape.Tape[T]) map[int]int {
	index := make(map[int]int)
	for ii, offset := range t.VecADs() {
		index[offset] = t.NumVar() + ii
	}
	return index
}

// derivativeArgs returns the variable arguments whose value the results of op may depend on,
// for differentiable operations. It returns nil for operations handled separately by the
// sparsity sweeps (VecAD, atomic calls) and for operations with zero derivatives.
func derivativeArgs(op opcode.OpCode, args []int) []int {
	switch op {
	case opcode.Begin, opcode.End, opcode.Inv, opcode.Par, opcode.Sign, opcode.Dis, opcode.Pri,
		opcode.Ldp, opcode.Ldv, opcode.Stpp, opcode.Stpv, opcode.Stvp, opcode.Stvv,
		opcode.AFun, opcode.Funap, opcode.Funav, opcode.Funrp, opcode.Funrv:
		return nil
	case opcode.CExp:
		var vars []int
		if args[1]&opcode.CExpTrueIsVar != 0 {
			vars = append(vars, args[4])
		}
		if args[1]&opcode.CExpFalseIsVar != 0 {
			vars = append(vars, args[5])
		}
		return vars
	}
	if opcode.IsComparison(op) {
		return nil
	}
	var vars []int
	for ii, kind := range opcode.ArgKinds(op, args) {
		if kind == opcode.ArgVariable {
			vars = append(vars, args[ii])
		}
	}
	return vars
}

// ForJac computes the forward Jacobian sparsity: for each variable, the set of seeds it may
// depend on.
//
// v must have NumSparsitySets(t) sets; on input the sets of the independent variables (1..NumInd)
// hold their seeds and the other sets are empty.
func ForJac[T constraints.Float](t *tape.Tape[T], v sparsity.SetVector) {
	if v.NumSets() != NumSparsitySets(t) {
		exceptions.Panicf("sweep.ForJac: set vector has %d sets, %d required", v.NumSets(), NumSparsitySets(t))
	}
	vecSet := vecadSetIndex(t)
	var call atomicCall[T]
	it := t.ForwardIterator()
	for op, ok := it.Next(); ok; op, ok = it.Next() {
		args, iZ := op.Args, op.Var
		switch op.Code {
		case opcode.Begin, opcode.Inv:
			// Seeds are given.
		case opcode.Ldp, opcode.Ldv:
			v.Assignment(iZ, vecSet[args[0]], v)
		case opcode.Stpv, opcode.Stvv:
			vec := vecSet[args[0]]
			v.BinaryUnion(vec, vec, args[2], v)
		case opcode.AFun, opcode.Funap, opcode.Funav, opcode.Funrp, opcode.Funrv:
			if !call.collect(t, op, false) {
				continue
			}
			jac := call.fn.JacSparsity(selectedVars(call.argVar), selectedVars(call.resVar))
			for i, z := range call.resVar {
				if z == 0 {
					continue
				}
				v.Clear(z)
				for _, j := range jac[i] {
					if x := call.argVar[j]; x > 0 {
						v.BinaryUnion(z, z, x, v)
					}
				}
			}
		default:
			numRes := opcode.NumRes(op.Code)
			if numRes == 0 {
				continue
			}
			vars := derivativeArgs(op.Code, args)
			for res := iZ - numRes + 1; res <= iZ; res++ {
				v.Clear(res)
				for _, x := range vars {
					v.BinaryUnion(res, res, x, v)
				}
			}
		}
	}
	klog.V(2).Infof("tape %s: forward Jacobian sparsity sweep, %d seeds", t.ID(), v.End())
}
