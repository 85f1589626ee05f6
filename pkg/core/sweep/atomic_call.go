// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package sweep

import (
	"slices"

	"github.com/gomlx/adtape/pkg/core/atomic"
	"github.com/gomlx/adtape/pkg/core/opcode"
	"github.com/gomlx/adtape/pkg/core/tape"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// atomicCall tracks an atomic function call while a sweep goes through its operations.
//
// A call with n arguments and m results is recorded as:
//
//	AFun(atom, callID, n, m), n x (Funap | Funav), m x (Funrp | Funrv), AFun(atom, callID, n, m)
//
// Forward sweeps see the opening AFun first, reverse sweeps see the closing one first.
type atomicCall[T constraints.Float] struct {
	fn      atomic.Function[T]
	opIndex int
	n, m    int
	open    bool

	// j and i count the arguments and results seen so far (counting down in reverse sweeps).
	j, i int

	// argVar and resVar hold the variable of each argument and result, 0 for parameters.
	// argPar and resPar hold the parameter index for parameters.
	argVar, resVar []int
	argPar, resPar []int

	numOrders      int
	tx, ty, px, py []T
}

// collect updates the call structure with the operation op. It returns true when the call
// is complete: the closing AFun in forward sweeps, the opening one in reverse sweeps.
func (c *atomicCall[T]) collect(t *tape.Tape[T], op tape.Op, reverse bool) (complete bool) {
	args := op.Args
	switch op.Code {
	case opcode.AFun:
		if c.open {
			c.open = false
			return true
		}
		c.open = true
		c.fn = t.Atomic(args[0])
		c.opIndex = op.Index
		c.n, c.m = args[2], args[3]
		c.argVar = resize(c.argVar, c.n)
		c.argPar = resize(c.argPar, c.n)
		c.resVar = resize(c.resVar, c.m)
		c.resPar = resize(c.resPar, c.m)
		if reverse {
			c.j, c.i = c.n, c.m
		} else {
			c.j, c.i = 0, 0
		}
		return false
	}
	if !c.open {
		exceptions.Panicf("sweep: operation #%d (%s) outside of an atomic call", op.Index, op.Code)
	}
	switch op.Code {
	case opcode.Funap, opcode.Funav:
		if reverse {
			c.j--
		}
		if op.Code == opcode.Funav {
			c.argVar[c.j], c.argPar[c.j] = args[0], 0
		} else {
			c.argVar[c.j], c.argPar[c.j] = 0, args[0]
		}
		if !reverse {
			c.j++
		}
	case opcode.Funrp, opcode.Funrv:
		if reverse {
			c.i--
		}
		if op.Code == opcode.Funrv {
			c.resVar[c.i], c.resPar[c.i] = op.Var, 0
		} else {
			c.resVar[c.i], c.resPar[c.i] = 0, args[0]
		}
		if !reverse {
			c.i++
		}
	default:
		exceptions.Panicf("sweep: %s is not part of an atomic call", op.Code)
	}
	return false
}

// resize returns a slice of length n, reusing s if it has enough capacity.
func resize[E any](s []E, n int) []E {
	if cap(s) < n {
		return make([]E, n)
	}
	s = s[:n]
	clear(s)
	return s
}

// loadCoefficients fills tx (and ty if withResults) with the Taylor coefficients of orders 0 to q
// of the arguments (and results) of the call.
func (c *atomicCall[T]) loadCoefficients(s *State[T], q int, withResults bool) {
	c.numOrders = q + 1
	nOrd := c.numOrders
	c.tx = resize(c.tx, c.n*nOrd)
	c.ty = resize(c.ty, c.m*nOrd)
	for j := range c.n {
		if v := c.argVar[j]; v > 0 {
			copy(c.tx[j*nOrd:(j+1)*nOrd], s.Taylor.Row(v)[:nOrd])
		} else {
			c.tx[j*nOrd] = s.Tape.Par(c.argPar[j])
		}
	}
	if !withResults {
		return
	}
	for i := range c.m {
		if v := c.resVar[i]; v > 0 {
			copy(c.ty[i*nOrd:(i+1)*nOrd], s.Taylor.Row(v)[:nOrd])
		} else {
			c.ty[i*nOrd] = s.Tape.Par(c.resPar[i])
		}
	}
}

// forward processes an atomic call operation in a forward sweep of orders p to q.
func (c *atomicCall[T]) forward(s *State[T], op tape.Op, p, q int) error {
	if !c.collect(s.Tape, op, false) {
		return nil
	}
	// Lower orders of the results are already computed.
	c.loadCoefficients(s, q, true)
	nOrd := c.numOrders
	for i := range c.m {
		clear(c.ty[i*nOrd+p : (i+1)*nOrd])
	}
	if !c.fn.Forward(p, q, nil, nil, c.tx, c.ty) {
		return errors.Wrapf(errAtomic, "atomic function %q, call at operation #%d: forward orders %d to %d not supported",
			c.fn.Name(), c.opIndex, p, q)
	}
	for i, v := range c.resVar {
		if v > 0 {
			copy(s.Taylor.Row(v)[p:q+1], c.ty[i*nOrd+p:(i+1)*nOrd])
		}
	}
	return nil
}

// reverse processes an atomic call operation in a reverse sweep of orders 0 to q.
func (c *atomicCall[T]) reverse(s *State[T], partial *Matrix[T], op tape.Op, q int) error {
	if !c.collect(s.Tape, op, true) {
		return nil
	}
	c.loadCoefficients(s, q, true)
	nOrd := c.numOrders
	c.px = resize(c.px, c.n*nOrd)
	c.py = resize(c.py, c.m*nOrd)
	for i, v := range c.resVar {
		if v > 0 {
			copy(c.py[i*nOrd:(i+1)*nOrd], partial.Row(v)[:nOrd])
		}
	}
	if !slices.ContainsFunc(c.py, func(x T) bool { return x != 0 }) {
		return nil
	}
	if !c.fn.Reverse(q, c.tx, c.ty, c.px, c.py) {
		return errors.Wrapf(errAtomic, "atomic function %q, call at operation #%d: reverse of order %d not supported",
			c.fn.Name(), c.opIndex, q)
	}
	for j, v := range c.argVar {
		if v == 0 {
			continue
		}
		row := partial.Row(v)
		for k := range nOrd {
			row[k] += c.px[j*nOrd+k]
		}
	}
	return nil
}

// selectedVars returns which entries of vars are variables.
func selectedVars(vars []int) []bool {
	selected := make([]bool, len(vars))
	for ii, v := range vars {
		selected[ii] = v > 0
	}
	return selected
}
