// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tape

import (
	"iter"

	"github.com/gomlx/adtape/pkg/core/opcode"
	"golang.org/x/exp/constraints"
)

// Op is one operation of a tape as yielded by the iterators.
type Op struct {
	Code opcode.OpCode

	// Args of the operation, it must not be modified.
	Args []int

	// Index of the operation in the tape.
	Index int

	// Var is the index of the primary (last) result of the operation. For operations without
	// results it is the last variable created before it.
	Var int
}

// Iterator is a cursor over the operations of a tape, in forward or reverse order.
//
// Iterators are independent values: any number of them can traverse the same Tape at the
// same time.
type Iterator[T constraints.Float] struct {
	tape    *Tape[T]
	next    int
	reverse bool
}

// ForwardIterator returns an iterator positioned at the Begin operation.
// The first call to Next returns Begin and the last returns End.
func (t *Tape[T]) ForwardIterator() *Iterator[T] {
	return &Iterator[T]{tape: t, next: 0}
}

// ReverseIterator returns an iterator positioned after the End operation.
// The first call to Next returns End and the last returns Begin.
func (t *Tape[T]) ReverseIterator() *Iterator[T] {
	return &Iterator[T]{tape: t, next: len(t.ops) - 1, reverse: true}
}

// Next returns the next operation, or false if the traversal is over.
func (it *Iterator[T]) Next() (Op, bool) {
	if it.next < 0 || it.next >= len(it.tape.ops) {
		return Op{}, false
	}
	op := it.tape.opAt(it.next)
	if it.reverse {
		it.next--
	} else {
		it.next++
	}
	return op, true
}

func (t *Tape[T]) opAt(i int) Op {
	return Op{Code: t.ops[i], Args: t.Args(i), Index: i, Var: t.opVar[i]}
}

// All iterates over the operations in tape order.
func (t *Tape[T]) All() iter.Seq[Op] {
	return func(yield func(Op) bool) {
		for i := range t.ops {
			if !yield(t.opAt(i)) {
				return
			}
		}
	}
}

// Backward iterates over the operations in reverse tape order.
func (t *Tape[T]) Backward() iter.Seq[Op] {
	return func(yield func(Op) bool) {
		for i := len(t.ops) - 1; i >= 0; i-- {
			if !yield(t.opAt(i)) {
				return
			}
		}
	}
}
