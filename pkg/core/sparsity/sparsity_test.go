// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package sparsity

import (
	"maps"
	"testing"

	"github.com/gomlx/adtape/pkg/support/sets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func forEachStorage(t *testing.T, testFn func(t *testing.T, storage Storage)) {
	for _, storage := range []Storage{StoragePack, StorageList} {
		t.Run(storage.String(), func(t *testing.T) { testFn(t, storage) })
	}
}

func TestSetVector(t *testing.T) {
	forEachStorage(t, func(t *testing.T, storage Storage) {
		v := New(storage, 4, 130)
		assert.Equal(t, 4, v.NumSets())
		assert.Equal(t, 130, v.End())

		v.AddElement(0, 129)
		v.AddElement(0, 3)
		v.AddElement(0, 64)
		v.AddElement(0, 3)
		assert.Equal(t, []int{3, 64, 129}, Elements(v, 0))
		assert.Equal(t, 3, v.NumberElements(0))
		assert.True(t, v.IsElement(0, 64))
		assert.False(t, v.IsElement(0, 65))
		assert.Panics(t, func() { v.AddElement(0, 130) })
		assert.Panics(t, func() { v.AddElement(4, 0) })

		v.AddElement(1, 0)
		v.AddElement(1, 64)
		v.BinaryUnion(2, 0, 1, v)
		assert.Equal(t, []int{0, 3, 64, 129}, Elements(v, 2))

		// target aliasing left.
		v.AddElement(3, 100)
		v.BinaryUnion(3, 3, 1, v)
		assert.Equal(t, []int{0, 64, 100}, Elements(v, 3))

		v.Assignment(1, 0, v)
		assert.Equal(t, []int{3, 64, 129}, Elements(v, 1))

		v.Clear(0)
		assert.Empty(t, Elements(v, 0))
		assert.Equal(t, 0, v.NumberElements(0))
		assert.Equal(t, []int{3, 64, 129}, Elements(v, 1))

		// Reuses freed storage.
		v.AddElement(0, 7)
		assert.Equal(t, []int{7}, Elements(v, 0))

		it := v.Iterator(0)
		assert.Equal(t, 7, it.Next())
		assert.Equal(t, v.End(), it.Next())
		assert.Greater(t, v.MemoryBytes(), uint64(0))
	})
}

func TestCrossContainer(t *testing.T) {
	pack := New(StoragePack, 2, 10)
	list := New(StorageList, 2, 10)
	pack.AddElement(0, 1)
	pack.AddElement(0, 5)
	list.AddElement(0, 2)
	list.AddElement(0, 5)

	pack.BinaryUnion(1, 0, 0, list)
	assert.Equal(t, []int{1, 2, 5}, Elements(pack, 1))
	list.BinaryUnion(1, 0, 0, pack)
	assert.Equal(t, []int{1, 2, 5}, Elements(list, 1))

	list.Assignment(0, 0, pack)
	assert.Equal(t, []int{1, 5}, Elements(list, 0))
	pack.Assignment(1, 0, list)
	assert.Equal(t, []int{1, 5}, Elements(pack, 1))
}

func TestListUnionInPlace(t *testing.T) {
	v := New(StorageList, 3, 10).(*ListVector)
	for _, e := range []int{1, 4, 7} {
		v.AddElement(0, e)
	}
	v.AddElement(1, 4)
	v.AddElement(1, 7)

	// Subset and identical sets: no new nodes.
	numNodes := len(v.nodes)
	v.BinaryUnion(0, 0, 1, v)
	v.BinaryUnion(0, 0, 0, v)
	assert.Equal(t, numNodes, len(v.nodes))
	assert.Equal(t, []int{1, 4, 7}, Elements(v, 0))

	// Only the missing elements get new nodes.
	for _, e := range []int{0, 4, 9} {
		v.AddElement(2, e)
	}
	numNodes = len(v.nodes)
	v.BinaryUnion(0, 0, 2, v)
	assert.Equal(t, []int{0, 1, 4, 7, 9}, Elements(v, 0))
	assert.Equal(t, 5, v.NumberElements(0))
	assert.Equal(t, numNodes+2, len(v.nodes))

	// From another container.
	other := New(StorageList, 1, 10)
	other.AddElement(0, 3)
	v.BinaryUnion(1, 1, 0, other)
	assert.Equal(t, []int{3, 4, 7}, Elements(v, 1))

	// Empty right operand into another target.
	v.Clear(2)
	v.BinaryUnion(2, 1, 2, v)
	assert.Equal(t, []int{3, 4, 7}, Elements(v, 2))
	assert.Equal(t, []int{3, 4, 7}, Elements(v, 1))
}

func TestRandomizedAgainstSets(t *testing.T) {
	const numSets, end = 8, 200
	forEachStorage(t, func(t *testing.T, storage Storage) {
		v := New(storage, numSets, end)
		want := make([]sets.Set[int], numSets)
		for i := range want {
			want[i] = sets.Make[int]()
		}
		seed := uint64(17)
		next := func(n int) int {
			seed = seed*6364136223846793005 + 1442695040888963407
			return int((seed >> 33) % uint64(n))
		}
		for step := range 2000 {
			i := next(numSets)
			switch next(4) {
			case 0, 1:
				e := next(end)
				v.AddElement(i, e)
				want[i].Insert(e)
			case 2:
				j, k := next(numSets), next(numSets)
				v.BinaryUnion(i, j, k, v)
				expected := maps.Clone(want[j])
				maps.Copy(expected, want[k])
				require.Equal(t, expected, sets.MakeWith(Elements(v, i)...), "step %d: union mismatch", step)
				want[i] = expected
			case 3:
				if next(10) == 0 {
					v.Clear(i)
					want[i] = sets.Make[int]()
				}
			}
			got := sets.MakeWith(Elements(v, i)...)
			require.Equal(t, want[i], got, "step %d: set %d mismatch", step, i)
			require.Equal(t, len(want[i]), v.NumberElements(i))
		}
	})
}

func TestPattern(t *testing.T) {
	p := FromBools(2, 3, []bool{
		true, false, true,
		false, false, true,
	})
	assert.Equal(t, 3, p.NumNonZeros())
	assert.True(t, p.Has(0, 2))
	assert.False(t, p.Has(1, 0))
	assert.Equal(t, []int{0, 2}, p.Row(0))
	assert.Equal(t, "x.x\n..x\n", p.String())

	pt := p.Transpose()
	assert.Equal(t, 3, pt.Rows())
	assert.Equal(t, []int{0, 1}, pt.Row(2))
	assert.True(t, p.Equal(pt.Transpose()))
	assert.Equal(t, []bool{true, false, true, false, false, true}, p.ToBools())

	p.Add(1, 0)
	p.Add(1, 0)
	assert.Equal(t, []int{0, 2}, p.Row(1))
	assert.Equal(t, sets.MakeWith(0, 2), p.Sets()[1])
	assert.True(t, p.Equal(FromSets(3, p.Sets())))
	assert.Panics(t, func() { p.Add(2, 0) })

	assert.True(t, Identity(3).IsSymmetric())
	assert.False(t, p.IsSymmetric())
}

func TestColorColumns(t *testing.T) {
	// Arrow pattern: row 0 is dense, other rows only have the diagonal.
	n := 5
	p := NewPattern(n, n)
	for j := range n {
		p.Add(0, j)
		p.Add(j, j)
	}
	colors, numColors := ColorColumns(p)
	assert.Equal(t, n, numColors)
	assert.Len(t, colors, n)

	// Diagonal: one color suffices.
	colors, numColors = ColorColumns(Identity(n))
	assert.Equal(t, 1, numColors)
	for _, c := range colors {
		assert.Equal(t, 0, c)
	}

	// Empty column.
	p = NewPattern(2, 3)
	p.Add(0, 0)
	p.Add(1, 2)
	colors, numColors = ColorColumns(p)
	assert.Equal(t, []int{0, -1, 0}, colors)
	assert.Equal(t, 1, numColors)
}
