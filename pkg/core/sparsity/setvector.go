// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package sparsity implements the "vector of sets" containers used by the sparsity sweeps,
// and the Pattern type used to exchange sparsity patterns with users.
//
// A SetVector holds NumSets sets, each a subset of {0, ..., End()-1}. Sets only grow during
// a sweep: the mutating operations are AddElement, Assignment, BinaryUnion and Clear.
package sparsity

import (
	"github.com/gomlx/exceptions"
)

// SetVector is a vector of sets of non-negative integers less than End().
type SetVector interface {
	// Resize discards all the content and sets the number of sets and the end of the universe.
	Resize(numSets, end int)

	// NumSets returns the number of sets in the vector.
	NumSets() int

	// End returns the bound on the elements: all elements are < End().
	End() int

	// AddElement adds element to set i.
	AddElement(i, element int)

	// IsElement returns whether element is in set i.
	IsElement(i, element int) bool

	// Clear empties set i.
	Clear(i int)

	// Assignment sets set target of this vector to a copy of set source of other.
	// other may be this vector itself.
	Assignment(target, source int, other SetVector)

	// BinaryUnion sets set target of this vector to the union of its set left with the set right of other.
	// target may be equal to left, and other may be this vector itself.
	BinaryUnion(target, left, right int, other SetVector)

	// NumberElements returns the number of elements in set i.
	NumberElements(i int) int

	// Iterator returns a cursor over the elements of set i in increasing order.
	// The set must not be modified while the cursor is in use.
	Iterator(i int) ElementIterator

	// MemoryBytes returns an estimate of the memory used by the container.
	MemoryBytes() uint64
}

// ElementIterator is a cursor over the elements of a set, in strictly increasing order.
type ElementIterator interface {
	// Next returns the next element, or the End() of the vector when there are no more elements.
	Next() int
}

// Storage selects the SetVector implementation.
type Storage int

const (
	// StoragePack uses one bit per possible element: fast for small universes or dense sets.
	StoragePack Storage = iota

	// StorageList uses sorted linked lists: compact for large universes with sparse sets.
	StorageList
)

func (s Storage) String() string {
	switch s {
	case StoragePack:
		return "pack"
	case StorageList:
		return "list"
	}
	return "Storage(?)"
}

// New creates a SetVector with the given storage.
func New(storage Storage, numSets, end int) SetVector {
	var v SetVector
	switch storage {
	case StoragePack:
		v = &PackVector{}
	case StorageList:
		v = &ListVector{}
	default:
		exceptions.Panicf("sparsity.New: unknown storage %d", storage)
	}
	v.Resize(numSets, end)
	return v
}

// Elements returns the elements of set i, in increasing order.
func Elements(v SetVector, i int) []int {
	elements := make([]int, 0, v.NumberElements(i))
	it := v.Iterator(i)
	for e := it.Next(); e < v.End(); e = it.Next() {
		elements = append(elements, e)
	}
	return elements
}

// unionElements adds the elements of set source of other into set target of v.
// It works for any combination of implementations.
func unionElements(v SetVector, target int, other SetVector, source int) {
	it := other.Iterator(source)
	for e := it.Next(); e < other.End(); e = it.Next() {
		v.AddElement(target, e)
	}
}

func checkSet(v SetVector, i int) {
	if i < 0 || i >= v.NumSets() {
		exceptions.Panicf("sparsity: set index %d out of range [0, %d)", i, v.NumSets())
	}
}

func checkElement(v SetVector, element int) {
	if element < 0 || element >= v.End() {
		exceptions.Panicf("sparsity: element %d out of range [0, %d)", element, v.End())
	}
}
