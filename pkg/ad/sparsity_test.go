// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ad

import (
	"testing"

	"github.com/gomlx/adtape/pkg/core/sparsity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductSparsity(t *testing.T) {
	for _, storage := range []sparsity.Storage{sparsity.StoragePack, sparsity.StorageList} {
		t.Run(storage.String(), func(t *testing.T) {
			f := productFunction()
			f.SetSparsityStorage(storage)
			jac := f.JacobianPattern()
			assert.Equal(t, []int{0, 1}, jac.Row(0))

			hes, err := f.HessianPattern([]bool{true})
			require.NoError(t, err)
			want := sparsity.NewPattern(2, 2)
			want.Add(0, 1)
			want.Add(1, 0)
			assert.True(t, want.Equal(hes), "got %s", hes)
			assert.False(t, hes.Has(0, 0))
			assert.False(t, hes.Has(1, 1))

			hes, err = f.HessianPattern([]bool{false})
			require.NoError(t, err)
			assert.Equal(t, 0, hes.NumNonZeros())
		})
	}
}

func TestSparsityDirections(t *testing.T) {
	// y0 = x0 * x1, y1 = exp(x2), y2 = x1 + x2.
	rec := Independent([]float64{1, 2, 3})
	x := rec.X()
	f := rec.Stop([]AD[float64]{Mul(x[0], x[1]), Exp(x[2]), Add(x[1], x[2])})

	// J * R with R selecting the direction {x0 + x2} as column 0 and {x1} as column 1.
	r := sparsity.NewPattern(3, 2)
	r.Add(0, 0)
	r.Add(2, 0)
	r.Add(1, 1)
	jr, err := f.ForSparseJac(2, r)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, jr.Row(0))
	assert.Equal(t, []int{0}, jr.Row(1))
	assert.Equal(t, []int{0, 1}, jr.Row(2))

	// S * J with S selecting y1 and y2 in one row, y0 in another.
	s := sparsity.NewPattern(2, 3)
	s.Add(0, 1)
	s.Add(0, 2)
	s.Add(1, 0)
	sj, err := f.RevSparseJac(2, s)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, sj.Row(0))
	assert.Equal(t, []int{0, 1}, sj.Row(1))

	// With the identity both directions give the Jacobian pattern.
	full, err := f.RevSparseJac(3, sparsity.Identity(3))
	require.NoError(t, err)
	assert.True(t, full.Equal(f.JacobianPattern()), "reverse %s, forward %s", full, f.JacobianPattern())

	// R^T H for the Hessian of y0 + y1, with the R of the last ForSparseJac.
	_, err = f.ForSparseJac(2, r)
	require.NoError(t, err)
	rh, err := f.RevSparseHes(2, []bool{true, true, false})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, rh.Row(0))
	assert.Equal(t, []int{0}, rh.Row(1))
}

func TestSparsityErrors(t *testing.T) {
	f := productFunction()
	_, err := f.RevSparseHes(2, []bool{true})
	assert.Error(t, err, "ForSparseJac not called")
	_, err = f.ForSparseJac(2, sparsity.NewPattern(3, 2))
	assert.Error(t, err)
	_, err = f.RevSparseJac(1, sparsity.NewPattern(1, 2))
	assert.Error(t, err)
	_, err = f.ForSparseJac(2, sparsity.Identity(2))
	require.NoError(t, err)
	_, err = f.RevSparseHes(3, []bool{true})
	assert.Error(t, err)
	_, err = f.RevSparseHes(2, []bool{true, false})
	assert.Error(t, err)
	_, err = f.HessianPattern(nil)
	assert.Error(t, err)

	// Changing the storage requires a new ForSparseJac.
	f.SetSparsityStorage(sparsity.StorageList)
	_, err = f.RevSparseHes(2, []bool{true})
	assert.Error(t, err)
}

func TestHessianPatternSymmetry(t *testing.T) {
	f := recordMixed()
	for _, selected := range [][]bool{
		{true, false, false, false},
		{false, true, false, false},
		{false, false, true, false},
		{false, false, false, true},
		{true, true, true, true},
	} {
		hes, err := f.HessianPattern(selected)
		require.NoError(t, err)
		assert.True(t, hes.IsSymmetric(), "pattern %s for %v", hes, selected)
	}

	// y2 = x2 / x0 only: no x1 entries.
	hes, err := f.HessianPattern([]bool{false, false, true, false})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, hes.Row(0))
	assert.Empty(t, hes.Row(1))
	assert.Equal(t, []int{0}, hes.Row(2))
}
