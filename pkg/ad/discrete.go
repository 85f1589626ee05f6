// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ad

import (
	"github.com/gomlx/adtape/pkg/core/opcode"
	"github.com/gomlx/adtape/pkg/core/tape"
	"golang.org/x/exp/constraints"
)

// Discrete is a piecewise constant function of one argument (a table lookup, rounding, etc.),
// evaluated again every time the Function is evaluated. Its derivatives are 0.
type Discrete[T constraints.Float] struct {
	d *tape.Discrete[T]
}

// NewDiscrete creates a discrete function. The name is used in tape listings.
func NewDiscrete[T constraints.Float](name string, fn func(T) T) *Discrete[T] {
	return &Discrete[T]{d: &tape.Discrete[T]{Name: name, Fn: fn}}
}

// Name of the discrete function.
func (d *Discrete[T]) Name() string { return d.d.Name }

// Call returns fn(x).
func (d *Discrete[T]) Call(x AD[T]) AD[T] {
	value := d.d.Fn(x.value)
	r := recordingOf(x)
	if r == nil {
		return Const(value)
	}
	return r.put(opcode.Dis, value, r.rec.PutDiscrete(d.d), x.taddr)
}

// PrintFor records the printing of before, value and after, every time the Function is
// evaluated at order 0 and pos <= 0. It prints nothing during the recording.
func (r *Recording[T]) PrintFor(pos AD[T], before string, value AD[T], after string) {
	r.own(pos, value)
	flags := 0
	if pos.IsVariable() {
		flags |= opcode.PriPosIsVar
	}
	if value.IsVariable() {
		flags |= opcode.PriValueIsVar
	}
	r.record(opcode.Pri, flags, r.operand(pos), r.rec.PutTxt(before), r.operand(value), r.rec.PutTxt(after))
}
