// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package ad records computations on AD values into a tape, and turns the tape into a Function
// that computes derivatives of any order (forward and reverse mode) and sparsity patterns.
//
// A typical use:
//
//	rec := ad.Independent([]float64{3, 4})
//	x := rec.X()
//	y := ad.Mul(x[0], ad.Sin(x[1]))
//	f := rec.Stop([]ad.AD[float64]{y})
//	jac, err := f.Jacobian([]float64{1, 2})
//
// Values that don't depend on the independent variables are "constants" (parameters of the
// tape): operations on constants only are evaluated directly and not recorded.
//
// A Recording must be used by one goroutine. Functions can be cloned to be evaluated
// concurrently, see Function.Clone.
package ad

import (
	"fmt"
	"io"
	"os"

	"github.com/gomlx/adtape/pkg/core/opcode"
	"github.com/gomlx/adtape/pkg/core/tape"
	"github.com/gomlx/exceptions"
	"github.com/google/uuid"
	"golang.org/x/exp/constraints"
)

// AD is a value of type T that is either a constant or a variable of a Recording.
//
// The zero value is the constant 0.
type AD[T constraints.Float] struct {
	value T

	// taddr is the index of the variable in the tape, 0 for constants.
	taddr int
	rec   *Recording[T]
}

// Const returns a constant AD value.
func Const[T constraints.Float](value T) AD[T] {
	return AD[T]{value: value}
}

// Consts converts a slice of values to constants.
func Consts[T constraints.Float](values []T) []AD[T] {
	result := make([]AD[T], len(values))
	for ii, v := range values {
		result[ii] = Const(v)
	}
	return result
}

// Value returns the value of x at the time it was recorded.
func (x AD[T]) Value() T { return x.value }

// IsVariable returns whether x depends on the independent variables of a recording.
func (x AD[T]) IsVariable() bool { return x.taddr > 0 }

// String implements fmt.Stringer.
func (x AD[T]) String() string {
	if !x.IsVariable() {
		return fmt.Sprintf("%v", x.value)
	}
	return fmt.Sprintf("%v(v%d)", x.value, x.taddr)
}

// Values returns the recorded values of xs.
func Values[T constraints.Float](xs []AD[T]) []T {
	values := make([]T, len(xs))
	for ii, x := range xs {
		values[ii] = x.value
	}
	return values
}

// Recording is an active recording of operations on AD values, started by Independent and
// finished by Stop or Abort.
type Recording[T constraints.Float] struct {
	rec   *tape.Recorder[T]
	x     []AD[T]
	print io.Writer

	numAtomicCalls int
	done           bool
}

type options struct {
	ctx   any
	print io.Writer
}

// Option configures a Recording, see Independent.
type Option func(*options)

// WithContext sets the recording context used, which holds the parameter deduplication table.
// A context can only have one active recording at a time: goroutines recording concurrently
// must use different contexts. By default each recording uses a new context.
func WithContext[T constraints.Float](ctx *tape.RecordingContext[T]) Option {
	return func(o *options) { o.ctx = ctx }
}

// WithPrintWriter sets where the values recorded with Recording.PrintFor are printed, when the
// Function is evaluated. The default is os.Stdout. It can be changed with Function.SetPrintWriter.
func WithPrintWriter(w io.Writer) Option {
	return func(o *options) { o.print = w }
}

// Independent starts a recording with the independent variables set to x.
// Use Recording.X to get the AD values of the independent variables.
func Independent[T constraints.Float](x []T, opts ...Option) *Recording[T] {
	if len(x) == 0 {
		exceptions.Panicf("ad.Independent: at least one independent variable is required")
	}
	cfg := &options{print: os.Stdout}
	for _, opt := range opts {
		opt(cfg)
	}
	var ctx *tape.RecordingContext[T]
	if cfg.ctx == nil {
		ctx = tape.NewRecordingContext[T]()
	} else {
		var ok bool
		ctx, ok = cfg.ctx.(*tape.RecordingContext[T])
		if !ok {
			exceptions.Panicf("ad.Independent: recording context of type %T can't be used for values of type %T", cfg.ctx, x[0])
		}
	}
	r := &Recording[T]{
		rec:   ctx.NewRecorder(),
		x:     make([]AD[T], len(x)),
		print: cfg.print,
	}
	for j, value := range x {
		r.x[j] = AD[T]{value: value, taddr: r.rec.PutOp(opcode.Inv), rec: r}
	}
	return r
}

// ID of the tape being recorded.
func (r *Recording[T]) ID() uuid.UUID { return r.rec.ID() }

// X returns the independent variables.
func (r *Recording[T]) X() []AD[T] {
	r.checkActive()
	x := make([]AD[T], len(r.x))
	copy(x, r.x)
	return x
}

func (r *Recording[T]) checkActive() {
	if r.done {
		exceptions.Panicf("ad: recording of tape %s is already finished", r.rec.ID())
	}
}

// Stop finishes the recording and returns the Function mapping the independent variables
// to the dependent variables y.
//
// Dependent values that are constants are recorded as parameters.
func (r *Recording[T]) Stop(y []AD[T]) *Function[T] {
	r.checkActive()
	if len(y) == 0 {
		exceptions.Panicf("ad: Stop requires at least one dependent variable")
	}
	dep := make([]int, len(y))
	for i, yi := range y {
		if yi.IsVariable() {
			if yi.rec != r {
				exceptions.Panicf("ad: dependent variable #%d was not recorded in tape %s", i, r.rec.ID())
			}
			dep[i] = yi.taddr
			continue
		}
		dep[i] = r.rec.PutOp(opcode.Par)
		r.rec.PutArg(r.rec.PutPar(yi.value))
	}
	r.done = true
	t := r.rec.Finish()
	return newFunction(t, dep, r.print)
}

// Abort discards the recording.
func (r *Recording[T]) Abort() {
	if r.done {
		return
	}
	r.done = true
	r.rec.Abort()
}

// recordingOf returns the recording of the variables among xs, or nil if all of them are constants.
// It panics if the variables belong to different recordings, or to a finished one.
func recordingOf[T constraints.Float](xs ...AD[T]) *Recording[T] {
	var r *Recording[T]
	for _, x := range xs {
		if !x.IsVariable() {
			continue
		}
		if r == nil {
			r = x.rec
		} else if x.rec != r {
			exceptions.Panicf("ad: operation mixes variables of tapes %s and %s", r.rec.ID(), x.rec.ID())
		}
	}
	if r != nil {
		r.checkActive()
	}
	return r
}

// own panics if any of the variables among xs was not recorded in r, or if r is finished.
func (r *Recording[T]) own(xs ...AD[T]) {
	r.checkActive()
	for _, x := range xs {
		if x.IsVariable() && x.rec != r {
			exceptions.Panicf("ad: variable of tape %s used in the recording of tape %s", x.rec.rec.ID(), r.rec.ID())
		}
	}
}

// variable returns the AD value of the variable z of the recording.
func (r *Recording[T]) variable(z int, value T) AD[T] {
	return AD[T]{value: value, taddr: z, rec: r}
}

// operand returns the tape argument for x: its variable index or its parameter index.
func (r *Recording[T]) operand(x AD[T]) int {
	if x.IsVariable() {
		return x.taddr
	}
	return r.rec.PutPar(x.value)
}

// record appends an operation with the given arguments and returns its primary result.
func (r *Recording[T]) record(op opcode.OpCode, args ...int) int {
	z := r.rec.PutOp(op)
	r.rec.PutArg(args...)
	return z
}

// put records an operation with the given arguments and returns its result.
func (r *Recording[T]) put(op opcode.OpCode, value T, args ...int) AD[T] {
	return r.variable(r.record(op, args...), value)
}
