// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ad

import (
	"slices"

	"github.com/gomlx/adtape/pkg/core/atomic"
	"github.com/gomlx/adtape/pkg/core/opcode"
	"github.com/gomlx/exceptions"
)

// CallAtomic records a call to the atomic function fn with arguments x, and returns its m results.
//
// fn is evaluated (order 0) during the recording, and tells which results are variables.
// If no argument is a variable the call is not recorded and all results are constants.
func (r *Recording[T]) CallAtomic(fn atomic.Function[T], x []AD[T], m int) []AD[T] {
	r.own(x...)
	n := len(x)
	tx := Values(x)
	vx := make([]bool, n)
	for j, xj := range x {
		vx[j] = xj.IsVariable()
	}
	ty := make([]T, m)
	vy := make([]bool, m)
	if !fn.Forward(0, 0, vx, vy, tx, ty) {
		exceptions.Panicf("ad: atomic function %q failed to evaluate while recording tape %s", fn.Name(), r.rec.ID())
	}
	y := make([]AD[T], m)
	if !slices.Contains(vx, true) {
		for i := range m {
			y[i] = Const(ty[i])
		}
		return y
	}

	idx := r.rec.PutAtomic(fn)
	callID := r.numAtomicCalls
	r.numAtomicCalls++
	r.record(opcode.AFun, idx, callID, n, m)
	for _, xj := range x {
		if xj.IsVariable() {
			r.record(opcode.Funav, xj.taddr)
		} else {
			r.record(opcode.Funap, r.rec.PutPar(xj.value))
		}
	}
	for i := range m {
		if vy[i] {
			y[i] = r.variable(r.record(opcode.Funrv), ty[i])
		} else {
			r.record(opcode.Funrp, r.rec.PutPar(ty[i]))
			y[i] = Const(ty[i])
		}
	}
	r.record(opcode.AFun, idx, callID, n, m)
	return y
}
