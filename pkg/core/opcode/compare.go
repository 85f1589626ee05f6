// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package opcode

// CompareOp is the comparison used by a conditional expression (CExp).
type CompareOp int

const (
	CompareLt CompareOp = iota
	CompareLe
	CompareEq
	CompareGe
	CompareGt
	CompareNe
	CompareLast
)

var compareNames = [CompareLast]string{"Lt", "Le", "Eq", "Ge", "Gt", "Ne"}

func (c CompareOp) String() string {
	if c < 0 || c >= CompareLast {
		return "CompareOp(?)"
	}
	return compareNames[c]
}

// Compare returns the result of `left <c> right`.
func Compare[T ~float32 | ~float64](c CompareOp, left, right T) bool {
	switch c {
	case CompareLt:
		return left < right
	case CompareLe:
		return left <= right
	case CompareEq:
		return left == right
	case CompareGe:
		return left >= right
	case CompareGt:
		return left > right
	case CompareNe:
		return left != right
	}
	panic(invalidCompareError(c))
}

type invalidCompareError CompareOp

func (e invalidCompareError) Error() string {
	return "invalid comparison " + CompareOp(e).String()
}

// Bits of the flags argument (second argument) of CExp, telling which of the other
// four arguments are variable indices. Arguments whose bit is unset are parameter indices.
const (
	CExpLeftIsVar  = 1 << iota // left, args[2].
	CExpRightIsVar             // right, args[3].
	CExpTrueIsVar              // trueCase, args[4].
	CExpFalseIsVar             // falseCase, args[5].
)

// Bits of the flags argument (first argument) of Pri.
const (
	PriPosIsVar   = 1 << iota // pos, args[1].
	PriValueIsVar             // value, args[3].
)
