// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ad

import (
	"sync"

	"github.com/gomlx/adtape/pkg/core/atomic"
	"github.com/gomlx/adtape/pkg/core/sparsity"
	"golang.org/x/exp/constraints"
	"k8s.io/klog/v2"
)

// Checkpoint wraps a Function as an atomic function, so it can be called from other recordings
// as a single operation: the outer tape stores only the call, and the derivatives are computed
// by the wrapped Function.
//
// Calls are serialized, since they evaluate the same wrapped Function.
type Checkpoint[T constraints.Float] struct {
	name string

	mu          sync.Mutex
	f           *Function[T]
	jacobianPat *sparsity.Pattern
}

var _ atomic.Function[float64] = (*Checkpoint[float64])(nil)

// NewCheckpoint returns an atomic function that evaluates f.
// Use it with Recording.CallAtomic, with m = f.NumDependent().
func NewCheckpoint[T constraints.Float](name string, f *Function[T]) *Checkpoint[T] {
	return &Checkpoint[T]{name: name, f: f}
}

// Name implements atomic.Function.
func (c *Checkpoint[T]) Name() string { return c.name }

func (c *Checkpoint[T]) lockedJacobianPattern() *sparsity.Pattern {
	if c.jacobianPat == nil {
		c.jacobianPat = c.f.JacobianPattern()
	}
	return c.jacobianPat
}

// Forward implements atomic.Function. All orders up to q are evaluated again.
func (c *Checkpoint[T]) Forward(p, q int, vx, vy []bool, tx, ty []T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	y, err := c.f.Forward(q, tx)
	if err != nil {
		klog.Warningf("checkpoint %q: %+v", c.name, err)
		return false
	}
	nOrd := q + 1
	for i := range c.f.NumDependent() {
		copy(ty[i*nOrd+p:(i+1)*nOrd], y[i*nOrd+p:(i+1)*nOrd])
	}
	if vy != nil {
		pattern := c.lockedJacobianPattern()
		for i := range vy {
			vy[i] = false
			for _, j := range pattern.Row(i) {
				if vx[j] {
					vy[i] = true
					break
				}
			}
		}
	}
	return true
}

// Reverse implements atomic.Function.
func (c *Checkpoint[T]) Reverse(q int, tx, ty, px, py []T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.f.Forward(q, tx); err != nil {
		klog.Warningf("checkpoint %q: %+v", c.name, err)
		return false
	}
	dw, err := c.f.Reverse(q+1, py)
	if err != nil {
		klog.Warningf("checkpoint %q: %+v", c.name, err)
		return false
	}
	for ii, d := range dw {
		px[ii] += d
	}
	return true
}

// JacSparsity implements atomic.Function.
func (c *Checkpoint[T]) JacSparsity(selectX, selectY []bool) [][]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	pattern := c.lockedJacobianPattern()
	result := make([][]int, len(selectY))
	for i, selected := range selectY {
		if !selected {
			continue
		}
		for _, j := range pattern.Row(i) {
			if selectX[j] {
				result[i] = append(result[i], j)
			}
		}
	}
	return result
}

// HesSparsity implements atomic.Function.
func (c *Checkpoint[T]) HesSparsity(selectX, selectY []bool) [][]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([][]int, len(selectX))
	pattern, err := c.f.HessianPattern(selectY)
	if err != nil {
		klog.Warningf("checkpoint %q: %+v", c.name, err)
		return result
	}
	for j, selected := range selectX {
		if !selected {
			continue
		}
		for _, k := range pattern.Row(j) {
			if selectX[k] {
				result[j] = append(result[j], k)
			}
		}
	}
	return result
}
