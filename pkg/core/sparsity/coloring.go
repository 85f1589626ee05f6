// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package sparsity

import "github.com/gomlx/adtape/pkg/support/sets"

// ColorColumns assigns a color to each column of the pattern such that no two columns with the
// same color have an entry in the same row. Columns without entries get color -1.
//
// All columns of one color can be evaluated with a single directional derivative, whose
// result row i holds the entry of the only column of that color present in row i.
//
// It returns the colors and the number of colors used.
func ColorColumns(p *Pattern) (colors []int, numColors int) {
	cols := p.Transpose()
	colors = make([]int, p.cols)
	for j := range colors {
		colors[j] = -1
	}
	for j := range p.cols {
		if len(cols.sets[j]) == 0 {
			continue
		}
		forbidden := sets.Make[int]()
		for _, i := range cols.sets[j] {
			for _, k := range p.sets[i] {
				if k < j && colors[k] >= 0 {
					forbidden.Insert(colors[k])
				}
			}
		}
		color := 0
		for forbidden.Has(color) {
			color++
		}
		colors[j] = color
		numColors = max(numColors, color+1)
	}
	return colors, numColors
}
