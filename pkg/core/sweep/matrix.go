// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package sweep

import (
	"github.com/gomlx/exceptions"
	"golang.org/x/exp/constraints"
)

// Matrix is a dense row-major rows x cols matrix, used for the Taylor coefficients and the
// partials of the variables: row i holds the coefficients of variable i, column k the order k.
type Matrix[T constraints.Float] struct {
	rows, cols int
	data       []T
}

// NewMatrix returns a zero initialized matrix.
func NewMatrix[T constraints.Float](rows, cols int) *Matrix[T] {
	return &Matrix[T]{rows: rows, cols: cols, data: make([]T, rows*cols)}
}

// Rows of the matrix.
func (m *Matrix[T]) Rows() int { return m.rows }

// Cols of the matrix.
func (m *Matrix[T]) Cols() int { return m.cols }

// Row returns a view of row i: changes to it change the matrix.
func (m *Matrix[T]) Row(i int) []T {
	return m.data[i*m.cols : (i+1)*m.cols : (i+1)*m.cols]
}

// At returns the element (i, k).
func (m *Matrix[T]) At(i, k int) T {
	if k < 0 || k >= m.cols {
		exceptions.Panicf("sweep.Matrix: column %d out of range [0, %d)", k, m.cols)
	}
	return m.data[i*m.cols+k]
}

// Set the element (i, k).
func (m *Matrix[T]) Set(i, k int, value T) {
	if k < 0 || k >= m.cols {
		exceptions.Panicf("sweep.Matrix: column %d out of range [0, %d)", k, m.cols)
	}
	m.data[i*m.cols+k] = value
}

// Zero sets all elements to 0.
func (m *Matrix[T]) Zero() {
	clear(m.data)
}

// Grow increases the number of columns to at least cols, preserving the current content.
func (m *Matrix[T]) Grow(cols int) {
	if cols <= m.cols {
		return
	}
	data := make([]T, m.rows*cols)
	for i := range m.rows {
		copy(data[i*cols:], m.data[i*m.cols:(i+1)*m.cols])
	}
	m.cols, m.data = cols, data
}
