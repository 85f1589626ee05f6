// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package sweep

import (
	"fmt"
	"testing"

	"github.com/gomlx/adtape/pkg/core/opcode"
	"github.com/gomlx/adtape/pkg/core/sparsity"
	"github.com/gomlx/adtape/pkg/core/tape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var storages = []sparsity.Storage{sparsity.StoragePack, sparsity.StorageList}

// forJac runs ForJac seeded with the identity over the independent variables.
func forJac(tp *tape.Tape[float64], storage sparsity.Storage) sparsity.SetVector {
	v := sparsity.New(storage, NumSparsitySets(tp), tp.NumInd())
	for j := range tp.NumInd() {
		v.AddElement(j+1, j)
	}
	ForJac(tp, v)
	return v
}

// revJac runs RevJac seeded with the dependent variables deps.
func revJac(tp *tape.Tape[float64], storage sparsity.Storage, deps ...int) sparsity.SetVector {
	v := sparsity.New(storage, NumSparsitySets(tp), len(deps))
	for i, z := range deps {
		v.AddElement(z, i)
	}
	RevJac(tp, v)
	return v
}

// revHes runs RevHes for the sum of the dependent variables deps and returns the pattern
// n x n of the Hessian.
func revHes(tp *tape.Tape[float64], storage sparsity.Storage, deps ...int) *sparsity.Pattern {
	fj := forJac(tp, storage)
	rj := make([]bool, NumSparsitySets(tp))
	for _, z := range deps {
		rj[z] = true
	}
	h := sparsity.New(storage, NumSparsitySets(tp), tp.NumInd())
	RevHes(tp, fj, rj, h)
	independents := make([]int, tp.NumInd())
	for j := range independents {
		independents[j] = j + 1
	}
	return sparsity.FromSetVector(h, independents)
}

func TestSparsityProduct(t *testing.T) {
	tp, z := record(3, func(r *tape.Recorder[float64], x []int) int {
		return put(r, opcode.Mulvv, x[0], x[1])
	})
	for _, storage := range storages {
		t.Run(storage.String(), func(t *testing.T) {
			fj := forJac(tp, storage)
			assert.Equal(t, []int{0, 1}, sparsity.Elements(fj, z))

			rj := revJac(tp, storage, z)
			assert.Equal(t, []int{0}, sparsity.Elements(rj, 1))
			assert.Equal(t, []int{0}, sparsity.Elements(rj, 2))
			assert.Empty(t, sparsity.Elements(rj, 3))

			hes := revHes(tp, storage, z)
			want := sparsity.NewPattern(3, 3)
			want.Add(0, 1)
			want.Add(1, 0)
			assert.True(t, want.Equal(hes), "got Hessian pattern:\n%s", hes)
			assert.True(t, hes.IsSymmetric())
		})
	}
}

func TestSparsityOperations(t *testing.T) {
	testCases := []struct {
		name   string
		body   func(r *tape.Recorder[float64], x []int) int
		jac    []int
		hesOne [][2]int // Hessian non-zeros, besides the symmetric ones.
	}{
		{"linear", func(r *tape.Recorder[float64], x []int) int {
			a := put(r, opcode.Addvv, x[0], x[1])
			b := put(r, opcode.Mulpv, r.PutPar(2), a)
			return put(r, opcode.Subvp, b, r.PutPar(1))
		}, []int{0, 1}, nil},
		{"exp", func(r *tape.Recorder[float64], x []int) int {
			a := put(r, opcode.Addvv, x[0], x[1])
			return put(r, opcode.Exp, a)
		}, []int{0, 1}, [][2]int{{0, 0}, {0, 1}, {1, 1}}},
		{"sin_of_one", func(r *tape.Recorder[float64], x []int) int {
			a := put(r, opcode.Sin, x[1])
			return put(r, opcode.Addvv, a, x[2])
		}, []int{1, 2}, [][2]int{{1, 1}}},
		{"divide", func(r *tape.Recorder[float64], x []int) int {
			return put(r, opcode.Divvv, x[0], x[1])
		}, []int{0, 1}, [][2]int{{0, 1}, {1, 1}}},
		{"pow", func(r *tape.Recorder[float64], x []int) int {
			return put(r, opcode.Powvv, x[0], x[2])
		}, []int{0, 2}, [][2]int{{0, 0}, {0, 2}, {2, 2}}},
		{"erf", func(r *tape.Recorder[float64], x []int) int {
			return putUnary(r, opcode.Erf, x[2])
		}, []int{2}, [][2]int{{2, 2}}},
		{"csum", func(r *tape.Recorder[float64], x []int) int {
			return put(r, opcode.CSum, r.PutPar(0), 2, 1, x[0], x[1], x[2])
		}, []int{0, 1, 2}, nil},
		{"condexp", func(r *tape.Recorder[float64], x []int) int {
			sq := put(r, opcode.Mulvv, x[1], x[1])
			flags := opcode.CExpLeftIsVar | opcode.CExpTrueIsVar
			return put(r, opcode.CExp, int(opcode.CompareLt), flags, x[0], r.PutPar(0), sq, r.PutPar(1))
		}, []int{1}, [][2]int{{1, 1}}},
		{"sign_and_comparison", func(r *tape.Recorder[float64], x []int) int {
			put(r, opcode.Ltvv, x[0], x[1])
			s := put(r, opcode.Sign, x[0])
			return put(r, opcode.Mulvv, s, x[2])
		}, []int{2}, nil},
		{"discrete", func(r *tape.Recorder[float64], x []int) int {
			d := put(r, opcode.Dis, r.PutDiscrete(&tape.Discrete[float64]{Name: "id", Fn: func(x float64) float64 { return x }}), x[0])
			return put(r, opcode.Mulvv, d, x[1])
		}, []int{1}, nil},
	}
	for _, tc := range testCases {
		for _, storage := range storages {
			t.Run(fmt.Sprintf("%s/%s", tc.name, storage), func(t *testing.T) {
				tp, z := record(3, tc.body)
				fj := forJac(tp, storage)
				assert.Equal(t, tc.jac, sparsity.Elements(fj, z))

				rj := revJac(tp, storage, z)
				for j := range 3 {
					got := len(sparsity.Elements(rj, j+1)) > 0
					assert.Equal(t, contains(tc.jac, j), got, "reverse Jacobian of x%d", j)
				}

				hes := revHes(tp, storage, z)
				want := sparsity.NewPattern(3, 3)
				for _, e := range tc.hesOne {
					want.Add(e[0], e[1])
					want.Add(e[1], e[0])
				}
				assert.True(t, want.Equal(hes), "want Hessian pattern:\n%s\ngot:\n%s", want, hes)
			})
		}
	}
}

func contains(values []int, value int) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func TestSparsityVecAD(t *testing.T) {
	// z = v[x1] * v[1] with v[x1] = x0: depends on x0 only, quadratically.
	tp, z := recordVecAD()
	assert.Equal(t, tp.NumVar()+1, NumSparsitySets(tp))
	for _, storage := range storages {
		t.Run(storage.String(), func(t *testing.T) {
			fj := forJac(tp, storage)
			assert.Equal(t, []int{0}, sparsity.Elements(fj, z))
			assert.Equal(t, []int{0}, sparsity.Elements(fj, tp.NumVar()))

			rj := revJac(tp, storage, z)
			assert.Equal(t, []int{0}, sparsity.Elements(rj, 1))
			assert.Empty(t, sparsity.Elements(rj, 2))

			hes := revHes(tp, storage, z)
			want := sparsity.NewPattern(2, 2)
			want.Add(0, 0)
			assert.True(t, want.Equal(hes), "got Hessian pattern:\n%s", hes)
		})
	}
}

func TestSparsityAtomic(t *testing.T) {
	tp, z := recordAtomic(productAtom{maxOrder: 1})
	for _, storage := range storages {
		t.Run(storage.String(), func(t *testing.T) {
			fj := forJac(tp, storage)
			assert.Equal(t, []int{0, 1}, sparsity.Elements(fj, z))

			rj := revJac(tp, storage, z)
			assert.Equal(t, []int{0}, sparsity.Elements(rj, 1))
			assert.Equal(t, []int{0}, sparsity.Elements(rj, 2))

			hes := revHes(tp, storage, z)
			want := sparsity.NewPattern(2, 2)
			want.Add(0, 1)
			want.Add(1, 0)
			assert.True(t, want.Equal(hes), "got Hessian pattern:\n%s", hes)
		})
	}
}

func TestSparsityNotSelected(t *testing.T) {
	// Two dependents, only the first (linear) is selected for the Hessian.
	var linear, square int
	tp, _ := record(2, func(r *tape.Recorder[float64], x []int) int {
		linear = put(r, opcode.Addvv, x[0], x[1])
		square = put(r, opcode.Mulvv, x[0], x[0])
		return square
	})
	hes := revHes(tp, sparsity.StoragePack, linear)
	assert.Equal(t, 0, hes.NumNonZeros())
	hes = revHes(tp, sparsity.StoragePack, square)
	assert.True(t, hes.Has(0, 0))
	assert.Equal(t, 1, hes.NumNonZeros())
}

func TestSparsitySizeChecks(t *testing.T) {
	tp, _ := record(1, func(r *tape.Recorder[float64], x []int) int {
		return put(r, opcode.Exp, x[0])
	})
	v := sparsity.New(sparsity.StoragePack, tp.NumVar()+1, 1)
	assert.Panics(t, func() { ForJac(tp, v) })
	assert.Panics(t, func() { RevJac(tp, v) })
	fj := forJac(tp, sparsity.StoragePack)
	h := sparsity.New(sparsity.StoragePack, NumSparsitySets(tp), 2)
	require.Panics(t, func() { RevHes(tp, fj, make([]bool, NumSparsitySets(tp)), h) })
}
