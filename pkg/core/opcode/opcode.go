// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package opcode defines the closed set of elementary operations that can be recorded on a tape,
// along with the number of arguments (NumArg) and results (NumRes) of each.
//
// Naming convention for binary operations and comparisons: the suffix tells the kind of the
// left and right operands, "p" for a parameter index and "v" for a variable index. So Addpv is
// `parameter + variable`, and Divvp is `variable / parameter`.
//
// Every sweep over a tape honors this table identically: the fixed arity and result count is
// what lets the sweeps address arguments and results with plain index arithmetic.
package opcode

// OpCode is an enum of all operations that can be recorded on a tape.
type OpCode int

//go:generate go tool enumer -type=OpCode -output=gen_opcode_enumer.go opcode.go

const (
	Invalid OpCode = iota

	// Begin marks the start of the tape. It has one argument (parameter index 0, a NaN) and one
	// result, the variable slot 0, which is never a real variable.
	Begin
	// End marks the end of the tape.
	End
	// Inv is an independent variable: no arguments, one result.
	Inv
	// Par creates a variable equal to a parameter (all its derivatives are zero).
	Par

	Abs
	Acos  // Auxiliary result: sqrt(1 - x*x).
	Acosh // Auxiliary result: sqrt(x*x - 1).
	Addpv
	Addvv
	AFun  // Opens and closes an atomic function call, see Funap, Funav, Funrp, Funrv.
	Asin  // Auxiliary result: sqrt(1 - x*x).
	Asinh // Auxiliary result: sqrt(1 + x*x).
	Atan  // Auxiliary result: 1 + x*x.
	Atanh // Auxiliary result: 1 - x*x.
	CExp  // Conditional expression.
	CSum  // Cumulative summation, variadic.
	Cos   // Auxiliary result: sin(x).
	Cosh  // Auxiliary result: sinh(x).
	Dis   // Discrete function call.
	Divpv
	Divvp
	Divvv
	Eqpv
	Eqvv
	Erf  // Four auxiliary results, see package documentation of sweep.
	Erfc // Four auxiliary results, see package documentation of sweep.
	Exp
	Expm1
	Funap // Atomic function argument that is a parameter.
	Funav // Atomic function argument that is a variable.
	Funrp // Atomic function result that is a parameter.
	Funrv // Atomic function result that is a variable.
	Ldp   // Load from a VecAD vector with a parameter index.
	Ldv   // Load from a VecAD vector with a variable index.
	Lepv
	Levp
	Levv
	Log
	Log1p
	Ltpv
	Ltvp
	Ltvv
	Mulpv
	Mulvv
	Neg
	Nepv
	Nevv
	Powpv // Results: log(x), log(x)*y, exp(log(x)*y).
	Powvp // Result: x**y.
	Powvv // Results: log(x), log(x)*y, exp(log(x)*y).
	Pri   // Print during zero order forward.
	Sign
	Sin  // Auxiliary result: cos(x).
	Sinh // Auxiliary result: cosh(x).
	Sqrt
	Stpp // Store into a VecAD vector: parameter index, parameter value.
	Stpv // Store into a VecAD vector: parameter index, variable value.
	Stvp // Store into a VecAD vector: variable index, parameter value.
	Stvv // Store into a VecAD vector: variable index, variable value.
	Subpv
	Subvp
	Subvv
	Tan  // Auxiliary result: tan(x)^2.
	Tanh // Auxiliary result: tanh(x)^2.
	Zmulpv
	Zmulvp
	Zmulvv

	// Last should always be kept the last, it is used as a counter/marker for OpCode.
	Last
)

// Variadic is returned by NumArg for operations whose number of arguments is read from
// the arguments themselves (only CSum).
const Variadic = -1

var (
	numArgTable [Last]int
	numResTable [Last]int
)

func init() {
	for op, counts := range map[OpCode][2]int{
		Begin: {1, 1}, End: {0, 0}, Inv: {0, 1}, Par: {1, 1},

		Abs: {1, 1}, Exp: {1, 1}, Expm1: {1, 1}, Log: {1, 1}, Log1p: {1, 1},
		Neg: {1, 1}, Sign: {1, 1}, Sqrt: {1, 1},

		Acos: {1, 2}, Acosh: {1, 2}, Asin: {1, 2}, Asinh: {1, 2}, Atan: {1, 2}, Atanh: {1, 2},
		Cos: {1, 2}, Cosh: {1, 2}, Sin: {1, 2}, Sinh: {1, 2}, Tan: {1, 2}, Tanh: {1, 2},

		Addpv: {2, 1}, Addvv: {2, 1},
		Subpv: {2, 1}, Subvp: {2, 1}, Subvv: {2, 1},
		Mulpv: {2, 1}, Mulvv: {2, 1},
		Divpv: {2, 1}, Divvp: {2, 1}, Divvv: {2, 1},
		Zmulpv: {2, 1}, Zmulvp: {2, 1}, Zmulvv: {2, 1},
		Powpv: {2, 3}, Powvp: {2, 1}, Powvv: {2, 3},
		Erf: {3, 5}, Erfc: {3, 5},

		CExp: {6, 1}, CSum: {Variadic, 1}, Dis: {2, 1}, Pri: {5, 0},

		Ldp: {3, 1}, Ldv: {3, 1},
		Stpp: {3, 0}, Stpv: {3, 0}, Stvp: {3, 0}, Stvv: {3, 0},

		Eqpv: {2, 0}, Eqvv: {2, 0}, Nepv: {2, 0}, Nevv: {2, 0},
		Ltpv: {2, 0}, Ltvp: {2, 0}, Ltvv: {2, 0},
		Lepv: {2, 0}, Levp: {2, 0}, Levv: {2, 0},

		AFun: {4, 0}, Funap: {1, 0}, Funav: {1, 0}, Funrp: {1, 0}, Funrv: {0, 1},
	} {
		numArgTable[op] = counts[0]
		numResTable[op] = counts[1]
	}
}

// NumArg returns the number of arguments of the operation, or Variadic for CSum.
func NumArg(op OpCode) int {
	checkValid(op)
	return numArgTable[op]
}

// NumRes returns the number of variables (results) created by the operation.
// The last of them is the primary result, the others are auxiliary values needed
// by the recurrences of the primary one.
func NumRes(op OpCode) int {
	checkValid(op)
	return numResTable[op]
}

// IsComparison returns whether op only records a comparison result (no variables created).
func IsComparison(op OpCode) bool {
	switch op {
	case Eqpv, Eqvv, Nepv, Nevv, Ltpv, Ltvp, Ltvv, Lepv, Levp, Levv:
		return true
	}
	return false
}

// IsStore returns whether op is one of the VecAD store operations.
func IsStore(op OpCode) bool {
	return op == Stpp || op == Stpv || op == Stvp || op == Stvv
}

// IsLoad returns whether op is one of the VecAD load operations.
func IsLoad(op OpCode) bool {
	return op == Ldp || op == Ldv
}

func checkValid(op OpCode) {
	if op <= Invalid || op >= Last {
		panic(invalidOpCodeError(op))
	}
}

type invalidOpCodeError OpCode

func (e invalidOpCodeError) Error() string {
	return "invalid opcode " + OpCode(e).String()
}
