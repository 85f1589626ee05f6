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

// RevJac computes the reverse Jacobian sparsity: for each variable, the set of seeds
// (typically dependent variables) that may depend on it.
//
// v must have NumSparsitySets(t) sets; on input the sets of the dependent variables hold
// their seeds and the other sets are empty. On output the sets of the independent variables
// hold the result.
func RevJac[T constraints.Float](t *tape.Tape[T], v sparsity.SetVector) {
	if v.NumSets() != NumSparsitySets(t) {
		exceptions.Panicf("sweep.RevJac: set vector has %d sets, %d required", v.NumSets(), NumSparsitySets(t))
	}
	vecSet := vecadSetIndex(t)
	var call atomicCall[T]
	it := t.ReverseIterator()
	for op, ok := it.Next(); ok; op, ok = it.Next() {
		args, iZ := op.Args, op.Var
		switch op.Code {
		case opcode.Ldp, opcode.Ldv:
			vec := vecSet[args[0]]
			v.BinaryUnion(vec, vec, iZ, v)
		case opcode.Stpv, opcode.Stvv:
			v.BinaryUnion(args[2], args[2], vecSet[args[0]], v)
		case opcode.AFun, opcode.Funap, opcode.Funav, opcode.Funrp, opcode.Funrv:
			if !call.collect(t, op, true) {
				continue
			}
			jac := call.fn.JacSparsity(selectedVars(call.argVar), selectedVars(call.resVar))
			for i, z := range call.resVar {
				if z == 0 {
					continue
				}
				for _, j := range jac[i] {
					if x := call.argVar[j]; x > 0 {
						v.BinaryUnion(x, x, z, v)
					}
				}
			}
		default:
			for _, x := range derivativeArgs(op.Code, args) {
				v.BinaryUnion(x, x, iZ, v)
			}
		}
	}
	klog.V(2).Infof("tape %s: reverse Jacobian sparsity sweep, %d seeds", t.ID(), v.End())
}
