// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tape

import (
	"github.com/gomlx/exceptions"
	"golang.org/x/exp/constraints"
)

// RecordingContext owns the state shared by the recordings of one worker: the parameter
// deduplication table. Each goroutine recording tapes concurrently should use its own context.
//
// Only one recording can be active in a context at a time. The zero value is not valid,
// use NewRecordingContext.
type RecordingContext[T constraints.Float] struct {
	// parIndex maps the bit representation of a parameter value to its index in the parameter
	// table of the active recording.
	parIndex map[uint64]int
	active   *Recorder[T]
}

// NewRecordingContext creates a new context for recordings of type T.
func NewRecordingContext[T constraints.Float]() *RecordingContext[T] {
	return &RecordingContext[T]{parIndex: make(map[uint64]int)}
}

// NewRecorder starts a new recording in this context.
// It panics if the context already has an active recording.
func (c *RecordingContext[T]) NewRecorder() *Recorder[T] {
	if c.active != nil {
		exceptions.Panicf("tape: recording context already has an active recording (tape %s)", c.active.tape.id)
	}
	c.active = newRecorder(c)
	return c.active
}

// Active returns the active recorder, or nil if there is none.
func (c *RecordingContext[T]) Active() *Recorder[T] {
	return c.active
}

func (c *RecordingContext[T]) release(r *Recorder[T]) {
	if c.active != r {
		exceptions.Panicf("tape: releasing a recorder that is not the active one in its context")
	}
	c.active = nil
	clear(c.parIndex)
}
