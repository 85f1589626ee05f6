// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package sparsity

import (
	"math/bits"
)

// PackVector is a SetVector that stores each set as a bit mask of End() bits.
type PackVector struct {
	numSets, end, words int
	data               []uint64
}

var _ SetVector = (*PackVector)(nil)

// Resize implements SetVector.
func (v *PackVector) Resize(numSets, end int) {
	v.numSets, v.end = numSets, end
	v.words = (end + 63) / 64
	v.data = make([]uint64, numSets*v.words)
}

// NumSets implements SetVector.
func (v *PackVector) NumSets() int { return v.numSets }

// End implements SetVector.
func (v *PackVector) End() int { return v.end }

func (v *PackVector) row(i int) []uint64 {
	checkSet(v, i)
	return v.data[i*v.words : (i+1)*v.words]
}

// AddElement implements SetVector.
func (v *PackVector) AddElement(i, element int) {
	checkElement(v, element)
	v.row(i)[element/64] |= 1 << (element % 64)
}

// IsElement implements SetVector.
func (v *PackVector) IsElement(i, element int) bool {
	checkElement(v, element)
	return v.row(i)[element/64]&(1<<(element%64)) != 0
}

// Clear implements SetVector.
func (v *PackVector) Clear(i int) {
	clear(v.row(i))
}

// Assignment implements SetVector.
func (v *PackVector) Assignment(target, source int, other SetVector) {
	if o, ok := other.(*PackVector); ok && o.words == v.words {
		copy(v.row(target), o.row(source))
		return
	}
	v.Clear(target)
	unionElements(v, target, other, source)
}

// BinaryUnion implements SetVector.
func (v *PackVector) BinaryUnion(target, left, right int, other SetVector) {
	if o, ok := other.(*PackVector); ok && o.words == v.words {
		t, l, r := v.row(target), v.row(left), o.row(right)
		for w := range t {
			t[w] = l[w] | r[w]
		}
		return
	}
	if target != left {
		copy(v.row(target), v.row(left))
	}
	unionElements(v, target, other, right)
}

// NumberElements implements SetVector.
func (v *PackVector) NumberElements(i int) int {
	count := 0
	for _, w := range v.row(i) {
		count += bits.OnesCount64(w)
	}
	return count
}

// Iterator implements SetVector.
func (v *PackVector) Iterator(i int) ElementIterator {
	return &packIterator{row: v.row(i), end: v.end}
}

// MemoryBytes implements SetVector.
func (v *PackVector) MemoryBytes() uint64 {
	return uint64(len(v.data)) * 8
}

type packIterator struct {
	row  []uint64
	next int
	end  int
}

func (it *packIterator) Next() int {
	for it.next < it.end {
		w := it.row[it.next/64] >> (it.next % 64)
		if w == 0 {
			it.next = (it.next/64 + 1) * 64
			continue
		}
		element := it.next + bits.TrailingZeros64(w)
		it.next = element + 1
		return element
	}
	return it.end
}
