// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tape

import (
	"math"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/adtape/pkg/core/atomic"
	"github.com/gomlx/adtape/pkg/core/opcode"
	"github.com/gomlx/exceptions"
	"github.com/google/uuid"
	"golang.org/x/exp/constraints"
	"k8s.io/klog/v2"
)

// Recorder appends operations to a tape under construction.
//
// It is created by RecordingContext.NewRecorder and must only be used by the goroutine
// owning the context. Misuse (wrong number of arguments, out of range indices, appending after
// Finish) panics: callers are expected to produce consistent operations by construction.
type Recorder[T constraints.Float] struct {
	ctx  *RecordingContext[T]
	tape *Tape[T]

	// pendingOp is the index of the last operation started, whose arguments may still be appended.
	pendingOp int
	finished  bool
}

// newRecorder creates the recorder and records the Begin operation, whose argument is
// the parameter 0 (a NaN) and whose result is the reserved variable 0.
func newRecorder[T constraints.Float](ctx *RecordingContext[T]) *Recorder[T] {
	r := &Recorder[T]{
		ctx: ctx,
		tape: &Tape[T]{
			id:         uuid.New(),
			argOffsets: []int{0},
		},
		pendingOp: -1,
	}
	r.tape.pars = append(r.tape.pars, T(math.NaN()))
	r.PutOp(opcode.Begin)
	r.PutArg(0)
	return r
}

// ID of the tape being recorded.
func (r *Recorder[T]) ID() uuid.UUID { return r.tape.id }

// NumVar returns the number of variables recorded so far.
func (r *Recorder[T]) NumVar() int { return r.tape.numVar }

// NumOp returns the number of operations recorded so far.
func (r *Recorder[T]) NumOp() int { return len(r.tape.ops) }

// NumPar returns the number of parameters recorded so far.
func (r *Recorder[T]) NumPar() int { return len(r.tape.pars) }

// Par returns the value of the parameter with the given index.
func (r *Recorder[T]) Par(i int) T { return r.tape.pars[i] }

// VecInd returns the given entry of the VecAD index table.
func (r *Recorder[T]) VecInd(i int) int { return r.tape.vecInd[i] }

// IsFinished returns whether Finish or Abort was called.
func (r *Recorder[T]) IsFinished() bool { return r.finished }

func (r *Recorder[T]) checkActive() {
	if r.finished {
		exceptions.Panicf("tape: recorder %s already finished", r.tape.id)
	}
}

// closePending verifies the arguments of the pending operation, if any.
func (r *Recorder[T]) closePending() {
	if r.pendingOp < 0 {
		return
	}
	r.tape.checkOp(r.pendingOp)
	r.pendingOp = -1
}

// PutOp starts a new operation and returns the index of its primary (last) result variable.
// For operations without results it returns the index of the last variable created so far.
func (r *Recorder[T]) PutOp(op opcode.OpCode) int {
	r.checkActive()
	r.closePending()
	t := r.tape
	if op == opcode.Inv {
		if t.numVar != t.numInd+1 {
			exceptions.Panicf("tape: independent variables must be recorded right after Begin")
		}
		t.numInd++
	}
	if opcode.IsLoad(op) {
		t.numLoad++
	}
	t.ops = append(t.ops, op)
	t.argOffsets = append(t.argOffsets, len(t.args))
	t.numVar += opcode.NumRes(op)
	t.opVar = append(t.opVar, t.numVar-1)
	r.pendingOp = len(t.ops) - 1
	return t.numVar - 1
}

// PutArg appends arguments to the operation started by the last PutOp.
// It can be called multiple times, the total must match opcode.NumArg of the operation.
func (r *Recorder[T]) PutArg(args ...int) {
	r.checkActive()
	if r.pendingOp < 0 {
		exceptions.Panicf("tape: PutArg called without a pending operation")
	}
	t := r.tape
	t.args = append(t.args, args...)
	t.argOffsets[len(t.argOffsets)-1] = len(t.args)
}

// PutLoadOp starts a VecAD load operation (Ldp or Ldv) and returns its result variable and
// its load ordinal, to be used as its third argument.
func (r *Recorder[T]) PutLoadOp(op opcode.OpCode) (iZ, ordinal int) {
	if !opcode.IsLoad(op) {
		exceptions.Panicf("tape: PutLoadOp called with %s", op)
	}
	iZ = r.PutOp(op)
	return iZ, r.tape.numLoad - 1
}

// PutPar returns the index of value in the parameter table, appending it if an identical
// value was not yet recorded in this recording.
//
// Values are identical if they have the same bit representation: so 0 and -0 get different
// slots, while two NaNs with the same payload share one.
func (r *Recorder[T]) PutPar(value T) int {
	r.checkActive()
	key := math.Float64bits(float64(value))
	if idx, found := r.ctx.parIndex[key]; found {
		return idx
	}
	idx := len(r.tape.pars)
	r.tape.pars = append(r.tape.pars, value)
	r.ctx.parIndex[key] = idx
	return idx
}

// PutVecInd appends an entry to the VecAD index table and returns its index.
func (r *Recorder[T]) PutVecInd(value int) int {
	r.checkActive()
	r.tape.vecInd = append(r.tape.vecInd, value)
	return len(r.tape.vecInd) - 1
}

// PutTxt appends a text entry (used by print operations) and returns its index.
func (r *Recorder[T]) PutTxt(text string) int {
	r.checkActive()
	r.tape.txt = append(r.tape.txt, text)
	return len(r.tape.txt) - 1
}

// PutDiscrete registers a discrete function and returns its index, reusing the index
// if the same function was already registered.
func (r *Recorder[T]) PutDiscrete(d *Discrete[T]) int {
	r.checkActive()
	for ii, existing := range r.tape.discretes {
		if existing == d {
			return ii
		}
	}
	r.tape.discretes = append(r.tape.discretes, d)
	return len(r.tape.discretes) - 1
}

// PutAtomic registers an atomic function and returns its index.
func (r *Recorder[T]) PutAtomic(fn atomic.Function[T]) int {
	r.checkActive()
	r.tape.atomics = append(r.tape.atomics, fn)
	return len(r.tape.atomics) - 1
}

// Finish records the End operation and transfers the recorded content to an immutable Tape.
// The recorder can no longer be used afterwards, and the context becomes available for a new recording.
func (r *Recorder[T]) Finish() *Tape[T] {
	r.PutOp(opcode.End)
	r.closePending()
	t := r.tape
	r.release()
	if klog.V(1).Enabled() {
		klog.Infof("tape %s: %d operations, %d variables (%d independent), %d parameters, %s",
			t.id, len(t.ops), t.numVar, t.numInd, len(t.pars), humanize.Bytes(t.MemoryBytes()))
	}
	return t
}

// Abort discards the recording. It is a no-op if the recorder was already finished.
func (r *Recorder[T]) Abort() {
	if r.finished {
		return
	}
	klog.V(1).Infof("tape %s: recording aborted after %d operations", r.tape.id, len(r.tape.ops))
	r.release()
}

func (r *Recorder[T]) release() {
	r.finished = true
	r.tape = &Tape[T]{id: r.tape.id}
	r.ctx.release(r)
}
