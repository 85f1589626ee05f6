// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package tape holds the operation sequence recorded from active computations.
//
// A Recorder accepts one operation at a time (PutOp followed by PutArg), along with the
// parameter (PutPar), VecAD index (PutVecInd) and text (PutTxt) tables. Recorder.Finish
// transfers its content to an immutable Tape, which all sweeps read through independent
// iterators.
//
// Variable index 0 is reserved: it is the result of the Begin operation and is never a real
// variable. The independent variables occupy indices 1..NumInd, and every other variable
// is created, in increasing index order, by the operations that follow.
package tape

import (
	"unsafe"

	"github.com/gomlx/adtape/pkg/core/atomic"
	"github.com/gomlx/adtape/pkg/core/opcode"
	"github.com/gomlx/exceptions"
	"github.com/google/uuid"
	"golang.org/x/exp/constraints"
)

// Discrete is a piecewise-constant function of one variable. Its derivatives are zero, so the
// tape only needs to evaluate it during zero order forward sweeps.
type Discrete[T constraints.Float] struct {
	Name string
	Fn   func(x T) T
}

// Tape is an immutable recorded operation sequence.
//
// It is safe to read a Tape from multiple goroutines: all mutable sweep state (Taylor
// coefficients, partials, VecAD load resolutions, atomic call buffers) lives outside it.
type Tape[T constraints.Float] struct {
	id uuid.UUID

	ops        []opcode.OpCode
	argOffsets []int // len(ops)+1 offsets into args.
	args       []int
	opVar      []int // Primary (last) result variable of each operation.

	numVar, numInd, numLoad int

	pars      []T
	vecInd    []int
	txt       []string
	discretes []*Discrete[T]
	atomics   []atomic.Function[T]
}

// ID uniquely identifies the tape (and the recording that produced it).
func (t *Tape[T]) ID() uuid.UUID { return t.id }

// NumVar returns the number of variables, including the reserved variable 0.
func (t *Tape[T]) NumVar() int { return t.numVar }

// NumInd returns the number of independent variables.
func (t *Tape[T]) NumInd() int { return t.numInd }

// NumOp returns the number of operations, including Begin and End.
func (t *Tape[T]) NumOp() int { return len(t.ops) }

// NumPar returns the number of entries in the parameter table.
func (t *Tape[T]) NumPar() int { return len(t.pars) }

// NumVecInd returns the number of entries in the VecAD index table.
func (t *Tape[T]) NumVecInd() int { return len(t.vecInd) }

// NumLoad returns the number of VecAD load operations.
func (t *Tape[T]) NumLoad() int { return t.numLoad }

// NumTxt returns the number of entries in the text table.
func (t *Tape[T]) NumTxt() int { return len(t.txt) }

// NumAtomic returns the number of atomic functions referenced by the tape.
func (t *Tape[T]) NumAtomic() int { return len(t.atomics) }

// NumDiscrete returns the number of discrete functions referenced by the tape.
func (t *Tape[T]) NumDiscrete() int { return len(t.discretes) }

// Op returns the opcode of the i-th operation.
func (t *Tape[T]) Op(i int) opcode.OpCode { return t.ops[i] }

// Args returns the arguments of the i-th operation. The returned slice must not be modified.
func (t *Tape[T]) Args(i int) []int { return t.args[t.argOffsets[i]:t.argOffsets[i+1]] }

// Var returns the primary result variable of the i-th operation. For operations without results
// it is the last variable created before the operation.
func (t *Tape[T]) Var(i int) int { return t.opVar[i] }

// Par returns the i-th parameter value.
func (t *Tape[T]) Par(i int) T { return t.pars[i] }

// Pars returns the parameter table. The returned slice must not be modified.
func (t *Tape[T]) Pars() []T { return t.pars }

// VecInd returns the i-th entry of the VecAD index table.
//
// Each VecAD vector occupies a block starting at its offset: the first entry is its length,
// followed by the parameter index of the initial value of each element.
func (t *Tape[T]) VecInd(i int) int { return t.vecInd[i] }

// Txt returns the i-th text table entry.
func (t *Tape[T]) Txt(i int) string { return t.txt[i] }

// Discrete returns the i-th discrete function.
func (t *Tape[T]) Discrete(i int) *Discrete[T] { return t.discretes[i] }

// Atomic returns the i-th atomic function.
func (t *Tape[T]) Atomic(i int) atomic.Function[T] { return t.atomics[i] }

// VecADs returns the offset (into the VecAD index table) of each VecAD vector in the tape.
func (t *Tape[T]) VecADs() []int {
	var offsets []int
	for offset := 0; offset < len(t.vecInd); offset += t.vecInd[offset] + 1 {
		offsets = append(offsets, offset)
	}
	return offsets
}

// MemoryBytes returns an estimate of the memory used by the tape tables.
func (t *Tape[T]) MemoryBytes() uint64 {
	var zero T
	intSize := uint64(unsafe.Sizeof(int(0)))
	total := uint64(len(t.ops)) * uint64(unsafe.Sizeof(opcode.Invalid))
	total += uint64(len(t.argOffsets)+len(t.args)+len(t.opVar)+len(t.vecInd)) * intSize
	total += uint64(len(t.pars)) * uint64(unsafe.Sizeof(zero))
	for _, s := range t.txt {
		total += uint64(len(s))
	}
	return total
}

// checkOp verifies the arguments of operation opIdx are consistent with the tables recorded
// so far: variables must come strictly before the operation's results.
func (t *Tape[T]) checkOp(opIdx int) {
	op := t.ops[opIdx]
	args := t.Args(opIdx)
	if nArg := opcode.NumArg(op); nArg != opcode.Variadic && nArg != len(args) {
		exceptions.Panicf("tape: operation #%d (%s) expects %d arguments, got %d", opIdx, op, nArg, len(args))
	}
	if op == opcode.CSum && (len(args) < 3 || opcode.CSumNumArg(args) != len(args)) {
		exceptions.Panicf("tape: operation #%d (CSum) has inconsistent arguments %v", opIdx, args)
	}
	firstRes := t.opVar[opIdx] + 1 - opcode.NumRes(op)
	for ii, kind := range opcode.ArgKinds(op, args) {
		arg := args[ii]
		var limit int
		switch kind {
		case opcode.ArgVariable:
			if op != opcode.Begin && arg == 0 {
				exceptions.Panicf("tape: operation #%d (%s) references the reserved variable 0", opIdx, op)
			}
			limit = firstRes
		case opcode.ArgParameter:
			limit = len(t.pars)
		case opcode.ArgText:
			limit = len(t.txt)
		case opcode.ArgVecAD:
			limit = len(t.vecInd)
		default:
			continue
		}
		if arg < 0 || arg >= limit {
			exceptions.Panicf("tape: operation #%d (%s) argument #%d (%s) is %d, must be in [0, %d)",
				opIdx, op, ii, kind, arg, limit)
		}
	}
	switch op {
	case opcode.Dis:
		if args[0] >= len(t.discretes) {
			exceptions.Panicf("tape: operation #%d (Dis) references unknown discrete function %d", opIdx, args[0])
		}
	case opcode.AFun:
		if args[0] >= len(t.atomics) {
			exceptions.Panicf("tape: operation #%d (AFun) references unknown atomic function %d", opIdx, args[0])
		}
	case opcode.Ldp, opcode.Ldv:
		if args[2] >= t.numLoad {
			exceptions.Panicf("tape: operation #%d (%s) has load ordinal %d, only %d loads", opIdx, op, args[2], t.numLoad)
		}
	}
}
