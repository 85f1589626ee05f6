// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tape

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gomlx/adtape/pkg/core/opcode"
)

// Describe returns a one-line human readable description of the i-th operation, e.g.:
//
//	o=5    v=7    Mulvv  v3 v6
//	o=6    v=8    Addpv  p2=1.5 v7
func (t *Tape[T]) Describe(i int) string {
	op := t.ops[i]
	args := t.Args(i)
	var sb strings.Builder
	_, _ = fmt.Fprintf(&sb, "o=%-5d v=%-5d %-6s", i, t.opVar[i], op)
	for ii, kind := range opcode.ArgKinds(op, args) {
		sb.WriteByte(' ')
		arg := args[ii]
		switch {
		case op == opcode.CExp && ii == 0:
			sb.WriteString(opcode.CompareOp(arg).String())
		case op == opcode.AFun && ii == 0:
			sb.WriteString(t.atomics[arg].Name())
		case op == opcode.Dis && ii == 0:
			sb.WriteString(t.discretes[arg].Name)
		case kind == opcode.ArgVariable:
			_, _ = fmt.Fprintf(&sb, "v%d", arg)
		case kind == opcode.ArgParameter:
			_, _ = fmt.Fprintf(&sb, "p%d=%g", arg, t.pars[arg])
		case kind == opcode.ArgText:
			sb.WriteString(strconv.Quote(t.txt[arg]))
		case kind == opcode.ArgVecAD:
			_, _ = fmt.Fprintf(&sb, "vec@%d[%d]", arg, t.vecInd[arg])
		default:
			sb.WriteString(strconv.Itoa(arg))
		}
	}
	return sb.String()
}

// String returns a summary of the tape sizes.
func (t *Tape[T]) String() string {
	return fmt.Sprintf("Tape(%s: %d ops, %d vars, %d independent, %d pars)",
		t.id, len(t.ops), t.numVar, t.numInd, len(t.pars))
}
