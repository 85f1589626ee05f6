// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package sparsity

import (
	"slices"
	"strings"

	"github.com/gomlx/adtape/pkg/support/sets"
	"github.com/gomlx/exceptions"
)

// Pattern is a sparsity pattern of a Rows x Cols matrix: for each row, the sorted columns
// of the entries that may be non-zero.
type Pattern struct {
	rows, cols int
	sets       [][]int
}

// NewPattern returns an empty (all zeros) pattern.
func NewPattern(rows, cols int) *Pattern {
	return &Pattern{rows: rows, cols: cols, sets: make([][]int, rows)}
}

// Identity returns the n x n identity pattern.
func Identity(n int) *Pattern {
	p := NewPattern(n, n)
	for i := range n {
		p.sets[i] = []int{i}
	}
	return p
}

// FromBools creates a pattern from a row-major boolean matrix.
func FromBools(rows, cols int, values []bool) *Pattern {
	if len(values) != rows*cols {
		exceptions.Panicf("sparsity.FromBools: %d values given for a %d x %d pattern", len(values), rows, cols)
	}
	p := NewPattern(rows, cols)
	for i := range rows {
		for j := range cols {
			if values[i*cols+j] {
				p.sets[i] = append(p.sets[i], j)
			}
		}
	}
	return p
}

// FromSetVector creates a pattern with the given sets of v as rows.
func FromSetVector(v SetVector, rowSets []int) *Pattern {
	p := NewPattern(len(rowSets), v.End())
	for i, set := range rowSets {
		p.sets[i] = Elements(v, set)
	}
	return p
}

// Rows of the pattern.
func (p *Pattern) Rows() int { return p.rows }

// Cols of the pattern.
func (p *Pattern) Cols() int { return p.cols }

// Add marks entry (i, j) as possibly non-zero.
func (p *Pattern) Add(i, j int) {
	p.checkEntry(i, j)
	row := p.sets[i]
	pos, found := slices.BinarySearch(row, j)
	if found {
		return
	}
	p.sets[i] = slices.Insert(row, pos, j)
}

// Has returns whether entry (i, j) may be non-zero.
func (p *Pattern) Has(i, j int) bool {
	p.checkEntry(i, j)
	_, found := slices.BinarySearch(p.sets[i], j)
	return found
}

// Row returns the sorted columns of row i. The returned slice must not be modified.
func (p *Pattern) Row(i int) []int {
	return p.sets[i]
}

// NumNonZeros returns the number of possibly non-zero entries.
func (p *Pattern) NumNonZeros() int {
	count := 0
	for _, row := range p.sets {
		count += len(row)
	}
	return count
}

// ToBools returns the pattern as a row-major boolean matrix.
func (p *Pattern) ToBools() []bool {
	values := make([]bool, p.rows*p.cols)
	for i, row := range p.sets {
		for _, j := range row {
			values[i*p.cols+j] = true
		}
	}
	return values
}

// Sets returns each row as a set of columns.
func (p *Pattern) Sets() []sets.Set[int] {
	result := make([]sets.Set[int], p.rows)
	for i, row := range p.sets {
		result[i] = sets.MakeWith(row...)
	}
	return result
}

// FromSets creates a pattern with the given sets of columns as rows.
func FromSets(cols int, rows []sets.Set[int]) *Pattern {
	p := NewPattern(len(rows), cols)
	for i, row := range rows {
		p.sets[i] = sets.Sorted(row)
		for _, j := range p.sets[i] {
			p.checkEntry(i, j)
		}
	}
	return p
}

// Transpose returns the Cols x Rows transposed pattern.
func (p *Pattern) Transpose() *Pattern {
	t := NewPattern(p.cols, p.rows)
	for i, row := range p.sets {
		for _, j := range row {
			t.sets[j] = append(t.sets[j], i)
		}
	}
	return t
}

// Equal returns whether both patterns have the same shape and entries.
func (p *Pattern) Equal(p2 *Pattern) bool {
	if p.rows != p2.rows || p.cols != p2.cols {
		return false
	}
	for i := range p.sets {
		if !slices.Equal(p.sets[i], p2.sets[i]) {
			return false
		}
	}
	return true
}

// IsSymmetric returns whether the pattern is square and (i, j) is present iff (j, i) is.
func (p *Pattern) IsSymmetric() bool {
	if p.rows != p.cols {
		return false
	}
	return p.Equal(p.Transpose())
}

// String renders the pattern as a grid with "x" for possibly non-zero entries and "." otherwise.
func (p *Pattern) String() string {
	var sb strings.Builder
	for i := range p.rows {
		line := []byte(strings.Repeat(".", p.cols))
		for _, j := range p.sets[i] {
			line[j] = 'x'
		}
		sb.Write(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (p *Pattern) checkEntry(i, j int) {
	if i < 0 || i >= p.rows || j < 0 || j >= p.cols {
		exceptions.Panicf("sparsity.Pattern: entry (%d, %d) out of range for a %d x %d pattern", i, j, p.rows, p.cols)
	}
}
