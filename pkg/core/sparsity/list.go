// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package sparsity

// ListVector is a SetVector that stores each set as a sorted linked list, with all the
// nodes in one shared store. Nodes of cleared sets are recycled through a free list.
type ListVector struct {
	numSets, end int

	// start[i] is the first node of set i, 0 if the set is empty.
	start []int
	size  []int

	// nodes[0] is a sentinel, never part of a list.
	nodes []listNode
	free  int
}

type listNode struct {
	value, next int
}

var _ SetVector = (*ListVector)(nil)

// Resize implements SetVector.
func (v *ListVector) Resize(numSets, end int) {
	v.numSets, v.end = numSets, end
	v.start = make([]int, numSets)
	v.size = make([]int, numSets)
	v.nodes = make([]listNode, 1, numSets+1)
	v.free = 0
}

// NumSets implements SetVector.
func (v *ListVector) NumSets() int { return v.numSets }

// End implements SetVector.
func (v *ListVector) End() int { return v.end }

func (v *ListVector) newNode(value, next int) int {
	if v.free != 0 {
		n := v.free
		v.free = v.nodes[n].next
		v.nodes[n] = listNode{value: value, next: next}
		return n
	}
	v.nodes = append(v.nodes, listNode{value: value, next: next})
	return len(v.nodes) - 1
}

// AddElement implements SetVector.
func (v *ListVector) AddElement(i, element int) {
	checkSet(v, i)
	checkElement(v, element)
	prev := 0
	n := v.start[i]
	for n != 0 && v.nodes[n].value < element {
		prev, n = n, v.nodes[n].next
	}
	if n != 0 && v.nodes[n].value == element {
		return
	}
	node := v.newNode(element, n)
	if prev == 0 {
		v.start[i] = node
	} else {
		v.nodes[prev].next = node
	}
	v.size[i]++
}

// IsElement implements SetVector.
func (v *ListVector) IsElement(i, element int) bool {
	checkSet(v, i)
	checkElement(v, element)
	for n := v.start[i]; n != 0; n = v.nodes[n].next {
		if value := v.nodes[n].value; value >= element {
			return value == element
		}
	}
	return false
}

// Clear implements SetVector.
func (v *ListVector) Clear(i int) {
	checkSet(v, i)
	n := v.start[i]
	if n == 0 {
		return
	}
	last := n
	for v.nodes[last].next != 0 {
		last = v.nodes[last].next
	}
	v.nodes[last].next = v.free
	v.free = n
	v.start[i] = 0
	v.size[i] = 0
}

// setFromSorted replaces set i by the given sorted elements.
func (v *ListVector) setFromSorted(i int, elements []int) {
	v.Clear(i)
	next := 0
	for ii := len(elements) - 1; ii >= 0; ii-- {
		next = v.newNode(elements[ii], next)
	}
	v.start[i] = next
	v.size[i] = len(elements)
}

// Assignment implements SetVector.
func (v *ListVector) Assignment(target, source int, other SetVector) {
	if other == SetVector(v) && target == source {
		return
	}
	v.setFromSorted(target, Elements(other, source))
}

// BinaryUnion implements SetVector.
//
// Unions of two lists into the left operand insert the missing nodes in
// place: if right is a subset of left nothing is allocated.
func (v *ListVector) BinaryUnion(target, left, right int, other SetVector) {
	if o, ok := other.(*ListVector); ok {
		checkSet(v, target)
		checkSet(v, left)
		checkSet(o, right)
		switch {
		case o == v && left == right, o.size[right] == 0:
			v.Assignment(target, left, v)
			return
		case target == left:
			v.insertList(target, o, o.start[right])
			return
		}
	}
	leftElements := Elements(v, left)
	rightElements := Elements(other, right)
	merged := make([]int, 0, len(leftElements)+len(rightElements))
	li, ri := 0, 0
	for li < len(leftElements) || ri < len(rightElements) {
		switch {
		case ri == len(rightElements) || (li < len(leftElements) && leftElements[li] < rightElements[ri]):
			merged = append(merged, leftElements[li])
			li++
		case li == len(leftElements) || rightElements[ri] < leftElements[li]:
			merged = append(merged, rightElements[ri])
			ri++
		default:
			merged = append(merged, leftElements[li])
			li++
			ri++
		}
	}
	if target == left && len(merged) == len(leftElements) {
		return
	}
	v.setFromSorted(target, merged)
}

// insertList adds to set i the elements of the list of o starting at node n.
// The list must not be set i itself.
func (v *ListVector) insertList(i int, o *ListVector, n int) {
	prev, cur := 0, v.start[i]
	for ; n != 0; n = o.nodes[n].next {
		element := o.nodes[n].value
		for cur != 0 && v.nodes[cur].value < element {
			prev, cur = cur, v.nodes[cur].next
		}
		if cur != 0 && v.nodes[cur].value == element {
			continue
		}
		node := v.newNode(element, cur)
		if prev == 0 {
			v.start[i] = node
		} else {
			v.nodes[prev].next = node
		}
		prev = node
		v.size[i]++
	}
}

// NumberElements implements SetVector.
func (v *ListVector) NumberElements(i int) int {
	checkSet(v, i)
	return v.size[i]
}

// Iterator implements SetVector.
func (v *ListVector) Iterator(i int) ElementIterator {
	checkSet(v, i)
	return &listIterator{v: v, node: v.start[i]}
}

// MemoryBytes implements SetVector.
func (v *ListVector) MemoryBytes() uint64 {
	return uint64(len(v.start)+len(v.size))*8 + uint64(cap(v.nodes))*16
}

type listIterator struct {
	v    *ListVector
	node int
}

func (it *listIterator) Next() int {
	if it.node == 0 {
		return it.v.end
	}
	value := it.v.nodes[it.node].value
	it.node = it.v.nodes[it.node].next
	return value
}
