// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package opcode

import "github.com/gomlx/exceptions"

// ArgKind tells how an argument of an operation is interpreted.
type ArgKind int

const (
	// ArgImmediate is a plain integer: a count, flags, comparison operator, ordinal, etc.
	ArgImmediate ArgKind = iota
	// ArgVariable is an index into the variables of the tape.
	ArgVariable
	// ArgParameter is an index into the parameter table of the tape.
	ArgParameter
	// ArgText is an offset into the text table of the tape.
	ArgText
	// ArgVecAD is an offset into the VecAD index table of the tape.
	ArgVecAD
)

var argKindNames = [...]string{"imm", "var", "par", "txt", "vec"}

func (k ArgKind) String() string {
	if k < 0 || int(k) >= len(argKindNames) {
		return "ArgKind(?)"
	}
	return argKindNames[k]
}

const (
	kv = ArgVariable
	kp = ArgParameter
	ki = ArgImmediate
)

// fixedKinds holds the kinds of the arguments for operations whose kinds don't depend
// on the values of the arguments.
var fixedKinds = map[OpCode][]ArgKind{
	Begin: {kp}, End: nil, Inv: nil, Par: {kp},

	Abs: {kv}, Acos: {kv}, Acosh: {kv}, Asin: {kv}, Asinh: {kv}, Atan: {kv}, Atanh: {kv},
	Cos: {kv}, Cosh: {kv}, Exp: {kv}, Expm1: {kv}, Log: {kv}, Log1p: {kv}, Neg: {kv},
	Sign: {kv}, Sin: {kv}, Sinh: {kv}, Sqrt: {kv}, Tan: {kv}, Tanh: {kv},

	Addpv: {kp, kv}, Addvv: {kv, kv},
	Subpv: {kp, kv}, Subvp: {kv, kp}, Subvv: {kv, kv},
	Mulpv: {kp, kv}, Mulvv: {kv, kv},
	Divpv: {kp, kv}, Divvp: {kv, kp}, Divvv: {kv, kv},
	Zmulpv: {kp, kv}, Zmulvp: {kv, kp}, Zmulvv: {kv, kv},
	Powpv: {kp, kv}, Powvp: {kv, kp}, Powvv: {kv, kv},
	Erf: {kv, kp, kp}, Erfc: {kv, kp, kp},

	Dis: {ki, kv},

	Ldp: {ArgVecAD, kp, ki}, Ldv: {ArgVecAD, kv, ki},
	Stpp: {ArgVecAD, kp, kp}, Stpv: {ArgVecAD, kp, kv}, Stvp: {ArgVecAD, kv, kp}, Stvv: {ArgVecAD, kv, kv},

	Eqpv: {kp, kv}, Eqvv: {kv, kv}, Nepv: {kp, kv}, Nevv: {kv, kv},
	Ltpv: {kp, kv}, Ltvp: {kv, kp}, Ltvv: {kv, kv},
	Lepv: {kp, kv}, Levp: {kv, kp}, Levv: {kv, kv},

	AFun: {ki, ki, ki, ki}, Funap: {kp}, Funav: {kv}, Funrp: {kp}, Funrv: nil,
}

// ArgKinds returns the kind of each argument of the operation op with the given args.
// For CExp, CSum and Pri the kinds depend on the flags or counts stored in args.
func ArgKinds(op OpCode, args []int) []ArgKind {
	switch op {
	case CExp:
		kinds := []ArgKind{ki, ki, kp, kp, kp, kp}
		for bit := 0; bit < 4; bit++ {
			if args[1]&(1<<bit) != 0 {
				kinds[2+bit] = kv
			}
		}
		return kinds
	case Pri:
		kinds := []ArgKind{ki, kp, ArgText, kp, ArgText}
		if args[0]&PriPosIsVar != 0 {
			kinds[1] = kv
		}
		if args[0]&PriValueIsVar != 0 {
			kinds[3] = kv
		}
		return kinds
	case CSum:
		n := CSumNumArg(args)
		kinds := make([]ArgKind, n)
		kinds[0] = kp
		kinds[1], kinds[2] = ki, ki
		for i := 3; i < n; i++ {
			kinds[i] = kv
		}
		return kinds
	}
	kinds, found := fixedKinds[op]
	if !found {
		exceptions.Panicf("opcode.ArgKinds: unknown operation %s", op)
	}
	return kinds
}

// CSumNumArg returns the number of arguments of a CSum operation, given its arguments.
// CSum arguments are laid out as [constant, numAdd, numSub, added variables..., subtracted variables...].
func CSumNumArg(args []int) int {
	return 3 + args[1] + args[2]
}
