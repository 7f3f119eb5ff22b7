// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package verifier

import (
	"fmt"

	"github.com/consensys/go-bcverify/pkg/bytecode"
	"github.com/consensys/go-bcverify/pkg/bytecode/dfa"
	"github.com/consensys/go-bcverify/pkg/bytecode/insn"
	"github.com/consensys/go-bcverify/pkg/bytecode/lattice"
	"github.com/consensys/go-bcverify/pkg/bytecode/register"
	"github.com/consensys/go-bcverify/pkg/bytecode/report"
)

// transfer checks the instruction at a given position against a working
// state, returning the first violation it detects.  Otherwise, the effect of
// the instruction is applied to the state.  All operands read by an
// instruction are checked (in operand order) before any of its results are
// written.
func transfer(method *bytecode.Method, pc uint, state dfa.State) *report.Violation {
	if violation := check(method, pc, state); violation != nil {
		return violation
	}
	//
	apply(method, pc, state)
	//
	return nil
}

// check determines whether the operands of the instruction at a given
// position are suitable, without updating the state.
func check(method *bytecode.Method, pc uint, state dfa.State) *report.Violation {
	var instr = &method.Code[pc]
	//
	switch instr.Opcode.Family() {
	case insn.NOP, insn.GOTO:
		return nil
	case insn.MOVE:
		return checkUse(state, pc, instr.Registers[1], instr.Opcode.Operands()[1].Constraint)
	case insn.RETURN_VOID:
		if method.Returns != lattice.VOID {
			return report.NewViolation(report.TYPE_CATEGORY_MISMATCH, pc, "%s in method returning %s",
				instr.Opcode.Name(), method.Returns)
		}
		//
		return nil
	case insn.RETURN:
		return checkReturn(instr, pc, method.Returns, state)
	case insn.CONST, insn.UNARY, insn.BINARY, insn.BINARY_2ADDR, insn.BINARY_LIT, insn.COMPARE, insn.IF, insn.IFZ,
		insn.SWITCH, insn.THROW, insn.ARRAY, insn.OBJECT:
		return checkOperands(instr, pc, state)
	}
	//
	panic(fmt.Sprintf("unknown opcode family %s", instr.Opcode.Family()))
}

// apply updates a working state with the effect of the instruction at a
// given position, regardless of whether its operands are suitable.  Moves
// copy the value (or register pair) held in the source, whilst all other
// instructions write values of their declared result types.
func apply(method *bytecode.Method, pc uint, state dfa.State) {
	var instr = &method.Code[pc]
	//
	if instr.Opcode.Family() == insn.MOVE {
		write(state, instr.Registers[0], state.Get(instr.Registers[1]))
		return
	}
	//
	for i, operand := range instr.Opcode.Operands() {
		if operand.IsDef() {
			write(state, instr.Registers[i], operand.Constraint.Value())
		}
	}
}

// checkOperands checks every register read by an instruction.
func checkOperands(instr *insn.Instruction, pc uint, state dfa.State) *report.Violation {
	for i, operand := range instr.Opcode.Operands() {
		if operand.IsUse() {
			if violation := checkUse(state, pc, instr.Registers[i], operand.Constraint); violation != nil {
				return violation
			}
		}
	}
	//
	return nil
}

// checkReturn checks the returned register against the declared return type
// of the enclosing method.
func checkReturn(instr *insn.Instruction, pc uint, returns lattice.Type, state dfa.State) *report.Violation {
	var (
		constraint = instr.Opcode.Operands()[0].Constraint
		reg        = instr.Registers[0]
	)
	//
	if violation := checkUse(state, pc, reg, constraint); violation != nil {
		return violation
	} else if !constraint.Admits(returns) {
		return report.NewViolation(report.TYPE_CATEGORY_MISMATCH, pc, "%s in method returning %s",
			instr.Opcode.Name(), returns)
	}
	// Returned value must match declared type exactly
	return checkUse(state, pc, reg, insn.ConstraintOf(returns))
}

// checkUse checks that a register read with a given constraint holds a
// suitable value.  For wide constraints, this checks the register pair
// starting at the given register.
func checkUse(state dfa.State, pc uint, reg register.Id, constraint insn.Constraint) *report.Violation {
	var value = state.Get(reg)
	//
	switch {
	case !value.IsDefined():
		return report.NewViolation(report.UNINITIALIZED_REGISTER_READ, pc, "%s read whilst %s", reg, value)
	case value.IsWideHigh():
		return report.NewViolation(report.WIDE_REGISTER_MISALIGNMENT, pc, "%s holds upper half of %s pair",
			reg, value.Low())
	case !constraint.IsWide():
		if !constraint.Accepts(value) {
			return mismatch(pc, reg, constraint, value)
		}
		//
		return nil
	}
	// Wide constraint, so check continuation.
	next := state.Get(reg.Next())
	//
	switch {
	case value.IsWideLow() && next != value.High():
		return report.NewViolation(report.WIDE_REGISTER_MISALIGNMENT, pc, "%s holds %s without continuation (%s)",
			reg, value, next)
	case !value.IsWideLow() && !next.IsDefined():
		return report.NewViolation(report.WIDE_REGISTER_MISALIGNMENT, pc, "%s holds %s where %s pair expected",
			reg, value, constraint)
	case !constraint.Accepts(value):
		return mismatch(pc, reg, constraint, value)
	}
	//
	return nil
}

func mismatch(pc uint, reg register.Id, constraint insn.Constraint, value lattice.Value) *report.Violation {
	return report.NewViolation(report.TYPE_CATEGORY_MISMATCH, pc, "%s holds %s (expected %s)", reg, value, constraint)
}

// write assigns a value to a given register (or register pair, for a wide
// value).  Any wide pair partially overwritten by this is broken, such that
// its surviving half holds CONFLICT.
func write(state dfa.State, reg register.Id, value lattice.Value) {
	clobber(state, reg)
	//
	if value.IsWideLow() {
		clobber(state, reg.Next())
		state.Set(reg, value)
		state.Set(reg.Next(), value.High())
	} else {
		state.Set(reg, value)
	}
}

// clobber breaks any wide pair of which the given register is part.
func clobber(state dfa.State, reg register.Id) {
	var value = state.Get(reg)
	//
	switch {
	case value.IsWideLow():
		state.Set(reg.Next(), lattice.CONFLICT)
	case value.IsWideHigh():
		state.Set(register.NewId(reg.Unwrap()-1), lattice.CONFLICT)
	}
}
