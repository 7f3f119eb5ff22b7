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
package insn

import (
	"fmt"
	"strings"

	"github.com/consensys/go-bcverify/pkg/bytecode/register"
)

// Instruction represents a single decoded instruction within a method body.
// Register operands are given in the order declared by the opcode.  Branch
// targets are instruction indices within the enclosing method.
type Instruction struct {
	// Opcode of this instruction
	Opcode *Opcode
	// Register operands
	Registers []register.Id
	// Branch targets (for goto, if, ifz and switch)
	Targets []uint
	// Literal value (for constants and literal arithmetic).
	Literal int64
}

// New constructs an instruction with the given register operands.  This
// panics if the number of registers does not match the opcode, or if the
// opcode requires branch targets.
func New(op *Opcode, regs ...register.Id) Instruction {
	if op.Branches() {
		panic(fmt.Sprintf("%s requires branch targets", op.name))
	}
	//
	return newInstruction(op, nil, 0, regs...)
}

// NewLiteral constructs an instruction with the given register operands and a
// literal value.
func NewLiteral(op *Opcode, literal int64, regs ...register.Id) Instruction {
	if !op.HasLiteral() {
		panic(fmt.Sprintf("%s does not accept a literal", op.name))
	}
	//
	return newInstruction(op, nil, literal, regs...)
}

// Branch constructs an instruction with the given branch targets and register
// operands.
func Branch(op *Opcode, targets []uint, regs ...register.Id) Instruction {
	switch {
	case !op.Branches():
		panic(fmt.Sprintf("%s does not branch", op.name))
	case op.family != SWITCH && len(targets) != 1:
		panic(fmt.Sprintf("%s requires exactly one target", op.name))
	}
	//
	return newInstruction(op, targets, 0, regs...)
}

func newInstruction(op *Opcode, targets []uint, literal int64, regs ...register.Id) Instruction {
	if len(regs) != len(op.operands) {
		panic(fmt.Sprintf("%s expects %d registers (found %d)", op.name, len(op.operands), len(regs)))
	}
	//
	return Instruction{op, regs, targets, literal}
}

// Uses returns the set of registers used (i.e. read) by this instruction.
// For wide operands, only the low slot is returned.
func (p *Instruction) Uses() []register.Id {
	var regs []register.Id
	//
	for i, o := range p.Opcode.operands {
		if o.IsUse() {
			regs = append(regs, p.Registers[i])
		}
	}
	//
	return regs
}

// Definitions returns the set of registers defined (i.e. written) by this
// instruction.  For wide operands, only the low slot is returned.
func (p *Instruction) Definitions() []register.Id {
	var regs []register.Id
	//
	for i, o := range p.Opcode.operands {
		if o.IsDef() {
			regs = append(regs, p.Registers[i])
		}
	}
	//
	return regs
}

// IsTerminal determines whether this instruction ends a basic block.  That
// is, whether it may transfer control somewhere other than the following
// instruction.
func (p *Instruction) IsTerminal() bool {
	switch p.Opcode.family {
	case GOTO, IF, IFZ, SWITCH, RETURN_VOID, RETURN, THROW:
		return true
	default:
		return false
	}
}

// Falls determines whether control may continue to the following instruction
// after this instruction.
func (p *Instruction) Falls() bool {
	switch p.Opcode.family {
	case GOTO, RETURN_VOID, RETURN, THROW:
		return false
	default:
		return true
	}
}

func (p *Instruction) String() string {
	var builder strings.Builder
	//
	builder.WriteString(p.Opcode.name)
	//
	for i, r := range p.Registers {
		if i == 0 {
			builder.WriteString(" ")
		} else {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(r.String())
	}
	//
	if p.Opcode.HasLiteral() {
		builder.WriteString(fmt.Sprintf(", %d", p.Literal))
	}
	//
	switch {
	case p.Opcode.family == SWITCH:
		builder.WriteString(", {")
		//
		for i, t := range p.Targets {
			if i != 0 {
				builder.WriteString(", ")
			}
			//
			builder.WriteString(fmt.Sprintf("%d", t))
		}
		//
		builder.WriteString("}")
	case len(p.Targets) == 1 && len(p.Registers) > 0:
		builder.WriteString(fmt.Sprintf(", %d", p.Targets[0]))
	case len(p.Targets) == 1:
		builder.WriteString(fmt.Sprintf(" %d", p.Targets[0]))
	}
	//
	return builder.String()
}
