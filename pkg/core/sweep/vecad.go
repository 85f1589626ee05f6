// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package sweep

import (
	"math"

	"github.com/gomlx/adtape/pkg/core/opcode"
	"github.com/pkg/errors"
)

// vecadElement is the current content of an element of a VecAD vector: a variable or a parameter.
type vecadElement struct {
	isVar bool
	index int
}

// resetVecAD sets every VecAD element to the parameter it held when it was first recorded.
// Elements are indexed by their position in the VecAD index table.
func (s *State[T]) resetVecAD() {
	t := s.Tape
	n := t.NumVecInd()
	if cap(s.vecad) < n {
		s.vecad = make([]vecadElement, n)
	}
	s.vecad = s.vecad[:n]
	for _, offset := range t.VecADs() {
		length := t.VecInd(offset)
		for i := range length {
			pos := offset + 1 + i
			s.vecad[pos] = vecadElement{index: t.VecInd(pos)}
		}
	}
}

// vecadIndex returns the VecAD index value (order 0) of a load or store, whose index argument is
// args[1] and is a variable for Ldv, Stvp and Stvv.
func (s *State[T]) vecadIndex(op opcode.OpCode, args []int) T {
	if op == opcode.Ldv || op == opcode.Stvp || op == opcode.Stvv {
		return s.Taylor.At(args[1], 0)
	}
	return s.Tape.Par(args[1])
}

// vecadPosition returns the position in the VecAD index table of the element addressed by
// index in the vector at offset. The index is truncated towards zero, as an integer conversion.
func (s *State[T]) vecadPosition(opIdx, offset int, index T) (int, error) {
	length := s.Tape.VecInd(offset)
	f := math.Trunc(float64(index))
	if math.IsNaN(f) || f < 0 || f >= float64(length) {
		return 0, errors.Errorf("operation #%d (%s): VecAD index %g out of range for vector of length %d",
			opIdx, s.Tape.Describe(opIdx), float64(index), length)
	}
	return offset + 1 + int(f), nil
}

// vecadStore updates the element addressed by a store operation.
func (s *State[T]) vecadStore(opIdx int, op opcode.OpCode, args []int) error {
	pos, err := s.vecadPosition(opIdx, args[0], s.vecadIndex(op, args))
	if err != nil {
		return err
	}
	isVar := op == opcode.Stpv || op == opcode.Stvv
	s.vecad[pos] = vecadElement{isVar: isVar, index: args[2]}
	return nil
}

// vecadLoad resolves a load operation: it caches the loaded variable (or 0 for a parameter)
// in Loads and returns the order 0 value.
func (s *State[T]) vecadLoad(opIdx int, op opcode.OpCode, args []int) (T, error) {
	pos, err := s.vecadPosition(opIdx, args[0], s.vecadIndex(op, args))
	if err != nil {
		return 0, err
	}
	element := s.vecad[pos]
	if element.isVar {
		s.Loads[args[2]] = element.index
		return s.Taylor.At(element.index, 0), nil
	}
	s.Loads[args[2]] = 0
	return s.Tape.Par(element.index), nil
}
