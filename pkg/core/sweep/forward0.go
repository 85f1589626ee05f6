// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package sweep

import (
	"fmt"

	"github.com/gomlx/adtape/pkg/core/opcode"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
	"k8s.io/klog/v2"
)

// Forward0 computes the order 0 Taylor coefficients (the values) of all variables, given the
// values of the independent variables in column 0 of the rows 1..NumInd of s.Taylor.
//
// It also resolves the VecAD loads (s.Loads), counts the comparisons that changed
// (s.CompareChange) and executes the print operations.
func Forward0[T constraints.Float](s *State[T]) error {
	t := s.Tape
	taylor := s.Taylor
	if taylor.Rows() != t.NumVar() {
		exceptions.Panicf("sweep.Forward0: Taylor matrix has %d rows, tape has %d variables", taylor.Rows(), t.NumVar())
	}
	s.resetVecAD()
	s.CompareChange, s.CompareChangeOp = 0, -1
	var call atomicCall[T]
	val := func(i int) T { return taylor.At(i, 0) }
	par := t.Par

	it := t.ForwardIterator()
	for op, ok := it.Next(); ok; op, ok = it.Next() {
		args, iZ := op.Args, op.Var
		switch op.Code {
		case opcode.Begin:
			taylor.Set(0, 0, par(args[0]))
		case opcode.End, opcode.Inv:
			// Nothing to do.
		case opcode.Par:
			taylor.Set(iZ, 0, par(args[0]))

		case opcode.Abs, opcode.Exp, opcode.Expm1, opcode.Log, opcode.Log1p, opcode.Neg, opcode.Sign, opcode.Sqrt:
			taylor.Set(iZ, 0, UnaryFunc[T](op.Code)(val(args[0])))

		case opcode.Sin, opcode.Cos, opcode.Sinh, opcode.Cosh,
			opcode.Asin, opcode.Acos, opcode.Asinh, opcode.Acosh, opcode.Atan, opcode.Atanh:
			x := val(args[0])
			taylor.Set(iZ, 0, UnaryFunc[T](op.Code)(x))
			taylor.Set(iZ-1, 0, auxiliary(op.Code, x))
		case opcode.Tan, opcode.Tanh:
			z := UnaryFunc[T](op.Code)(val(args[0]))
			taylor.Set(iZ, 0, z)
			taylor.Set(iZ-1, 0, z*z)

		case opcode.Addpv:
			taylor.Set(iZ, 0, par(args[0])+val(args[1]))
		case opcode.Addvv:
			taylor.Set(iZ, 0, val(args[0])+val(args[1]))
		case opcode.Subpv:
			taylor.Set(iZ, 0, par(args[0])-val(args[1]))
		case opcode.Subvp:
			taylor.Set(iZ, 0, val(args[0])-par(args[1]))
		case opcode.Subvv:
			taylor.Set(iZ, 0, val(args[0])-val(args[1]))
		case opcode.Mulpv:
			taylor.Set(iZ, 0, par(args[0])*val(args[1]))
		case opcode.Mulvv:
			taylor.Set(iZ, 0, val(args[0])*val(args[1]))
		case opcode.Divpv:
			taylor.Set(iZ, 0, par(args[0])/val(args[1]))
		case opcode.Divvp:
			taylor.Set(iZ, 0, val(args[0])/par(args[1]))
		case opcode.Divvv:
			taylor.Set(iZ, 0, val(args[0])/val(args[1]))
		case opcode.Zmulpv:
			taylor.Set(iZ, 0, Azmul(par(args[0]), val(args[1])))
		case opcode.Zmulvp:
			taylor.Set(iZ, 0, Azmul(val(args[0]), par(args[1])))
		case opcode.Zmulvv:
			taylor.Set(iZ, 0, Azmul(val(args[0]), val(args[1])))

		case opcode.Powvp:
			taylor.Set(iZ, 0, Pow(val(args[0]), par(args[1])))
		case opcode.Powpv, opcode.Powvv:
			x, y := binaryOperands(op.Code, args, val, par)
			logX := UnaryFunc[T](opcode.Log)(x)
			taylor.Set(iZ-2, 0, logX)
			taylor.Set(iZ-1, 0, logX*y)
			taylor.Set(iZ, 0, Pow(x, y))

		case opcode.Erf, opcode.Erfc:
			x := val(args[0])
			z0 := x * x
			z1 := par(args[1]) - z0
			z2 := UnaryFunc[T](opcode.Exp)(z1)
			taylor.Set(iZ-4, 0, z0)
			taylor.Set(iZ-3, 0, z1)
			taylor.Set(iZ-2, 0, z2)
			taylor.Set(iZ-1, 0, par(args[2])*z2)
			taylor.Set(iZ, 0, UnaryFunc[T](op.Code)(x))

		case opcode.CExp:
			branch := cexpBranch(args, val, par)
			if args[1]&branch.flag != 0 {
				taylor.Set(iZ, 0, val(args[branch.arg]))
			} else {
				taylor.Set(iZ, 0, par(args[branch.arg]))
			}

		case opcode.CSum:
			taylor.Set(iZ, 0, csum(args, val, par))

		case opcode.Dis:
			taylor.Set(iZ, 0, t.Discrete(args[0]).Fn(val(args[1])))

		case opcode.Pri:
			if s.Print == nil {
				break
			}
			pos := argValue(args[0]&opcode.PriPosIsVar != 0, args[1], val, par)
			if pos <= 0 {
				value := argValue(args[0]&opcode.PriValueIsVar != 0, args[3], val, par)
				_, _ = fmt.Fprintf(s.Print, "%s%v%s", t.Txt(args[2]), value, t.Txt(args[4]))
			}

		case opcode.Ldp, opcode.Ldv:
			value, err := s.vecadLoad(op.Index, op.Code, args)
			if err != nil {
				return err
			}
			taylor.Set(iZ, 0, value)
		case opcode.Stpp, opcode.Stpv, opcode.Stvp, opcode.Stvv:
			if err := s.vecadStore(op.Index, op.Code, args); err != nil {
				return err
			}

		case opcode.Eqpv, opcode.Eqvv, opcode.Nepv, opcode.Nevv, opcode.Ltpv, opcode.Ltvp, opcode.Ltvv,
			opcode.Lepv, opcode.Levp, opcode.Levv:
			if !comparisonHolds(op.Code, args, val, par) {
				if s.CompareChange == 0 {
					s.CompareChangeOp = op.Index
				}
				s.CompareChange++
			}

		case opcode.AFun, opcode.Funap, opcode.Funav, opcode.Funrp, opcode.Funrv:
			if err := call.forward(s, op, 0, 0); err != nil {
				return err
			}

		default:
			exceptions.Panicf("sweep.Forward0: unknown operation %s", op.Code)
		}
	}
	if s.CompareChange > 0 {
		klog.Warningf("tape %s: %d comparison(s) changed since recording, first at operation #%d (%s)",
			t.ID(), s.CompareChange, s.CompareChangeOp, t.Describe(s.CompareChangeOp))
	}
	klog.V(2).Infof("tape %s: zero order forward sweep over %d operations", t.ID(), t.NumOp())
	return nil
}

// binaryOperands returns the order 0 values of the two operands of a binary operation.
func binaryOperands[T constraints.Float](op opcode.OpCode, args []int, val, par func(int) T) (x, y T) {
	kinds := opcode.ArgKinds(op, args)
	return argValue(kinds[0] == opcode.ArgVariable, args[0], val, par),
		argValue(kinds[1] == opcode.ArgVariable, args[1], val, par)
}

func argValue[T constraints.Float](isVar bool, arg int, val, par func(int) T) T {
	if isVar {
		return val(arg)
	}
	return par(arg)
}

// cexpChoice is the branch selected by a conditional expression: the argument index and its flag bit.
type cexpChoice struct {
	arg, flag int
}

// cexpBranch evaluates the comparison of a CExp operation with the current order 0 values.
func cexpBranch[T constraints.Float](args []int, val, par func(int) T) cexpChoice {
	left := argValue(args[1]&opcode.CExpLeftIsVar != 0, args[2], val, par)
	right := argValue(args[1]&opcode.CExpRightIsVar != 0, args[3], val, par)
	if opcode.Compare(opcode.CompareOp(args[0]), left, right) {
		return cexpChoice{arg: 4, flag: opcode.CExpTrueIsVar}
	}
	return cexpChoice{arg: 5, flag: opcode.CExpFalseIsVar}
}

// csum returns the order 0 value of a CSum operation.
func csum[T constraints.Float](args []int, val, par func(int) T) T {
	numAdd := args[1]
	sum := par(args[0])
	for ii, v := range args[3:] {
		if ii < numAdd {
			sum += val(v)
		} else {
			sum -= val(v)
		}
	}
	return sum
}

// comparisonHolds returns whether the relation recorded by a comparison operation still holds.
func comparisonHolds[T constraints.Float](op opcode.OpCode, args []int, val, par func(int) T) bool {
	x, y := binaryOperands(op, args, val, par)
	switch op {
	case opcode.Eqpv, opcode.Eqvv:
		return x == y
	case opcode.Nepv, opcode.Nevv:
		return x != y
	case opcode.Ltpv, opcode.Ltvp, opcode.Ltvv:
		return x < y
	case opcode.Lepv, opcode.Levp, opcode.Levv:
		return x <= y
	}
	exceptions.Panicf("sweep: %s is not a comparison", op)
	return false
}

// errAtomic is returned (wrapped) when an atomic function declines a request.
var errAtomic = errors.New("atomic function failed")

// IsAtomicError returns whether err was caused by an atomic function returning false.
func IsAtomicError(err error) bool {
	return errors.Is(err, errAtomic)
}
