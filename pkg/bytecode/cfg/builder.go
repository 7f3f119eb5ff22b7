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
package cfg

import (
	"github.com/consensys/go-bcverify/pkg/bytecode/insn"
	"github.com/consensys/go-bcverify/pkg/bytecode/register"
	"github.com/consensys/go-bcverify/pkg/bytecode/report"
	"github.com/consensys/go-bcverify/pkg/util/collection/bit"
)

// Build partitions a method body into basic blocks, connected by their
// control-flow edges.  Structural problems are detected before any blocks are
// constructed, and reported as violations: namely, an operand register outside
// the register file, a wide operand naming the last register slot (since its
// continuation cannot fit), a missing or surplus operand register, or a
// branch target outside the method.  The first such problem (in instruction
// order) is reported.
func Build(code []insn.Instruction, registers register.File) (Graph, *report.Violation) {
	if err := checkStructure(code, registers); err != nil {
		return Graph{}, err
	}
	// Zero instructions gives an empty entry block.
	if len(code) == 0 {
		return Graph{[]Block{{}}, nil}, nil
	}
	//
	graph := partition(code, findLeaders(code))
	connect(&graph, code)
	//
	return graph, nil
}

// Check that all operand registers and branch targets lie within bounds.
func checkStructure(code []insn.Instruction, registers register.File) *report.Violation {
	var n = uint(len(code))
	//
	for pc, instruction := range code {
		var operands = instruction.Opcode.Operands()
		// Instructions need not have been constructed via insn.New
		if len(instruction.Registers) != len(operands) {
			return report.NewViolation(report.REGISTER_OUT_OF_RANGE, uint(pc),
				"%s requires %d registers (found %d)", instruction.Opcode.Name(), len(operands),
				len(instruction.Registers))
		}
		//
		for i, operand := range operands {
			reg := instruction.Registers[i]
			//
			if !registers.InRange(reg) {
				return report.NewViolation(report.REGISTER_OUT_OF_RANGE, uint(pc),
					"register %s out of range (%d registers)", reg, registers.Size())
			} else if operand.Constraint.IsWide() && !registers.InRange(reg.Next()) {
				return report.NewViolation(report.REGISTER_OUT_OF_RANGE, uint(pc),
					"register pair %s,%s out of range (%d registers)", reg, reg.Next(), registers.Size())
			}
		}
		//
		for _, target := range instruction.Targets {
			if target >= n {
				return report.NewViolation(report.REGISTER_OUT_OF_RANGE, uint(pc),
					"branch target %d out of range (%d instructions)", target, n)
			}
		}
	}
	//
	return nil
}

// Identify the first instruction of every block.  These are: the first
// instruction; every branch target; and, every instruction following one
// which ends a block.
func findLeaders(code []insn.Instruction) bit.Set {
	var (
		leaders bit.Set
		n       = uint(len(code))
	)
	//
	leaders.Insert(0)
	//
	for pc, instruction := range code {
		if instruction.IsTerminal() {
			leaders.InsertAll(instruction.Targets...)
			//
			if next := uint(pc) + 1; next < n {
				leaders.Insert(next)
			}
		}
	}
	//
	return leaders
}

// Split the instructions into blocks at the given leaders.
func partition(code []insn.Instruction, leaders bit.Set) Graph {
	var (
		starts  = leaders.Elements()
		blocks  = make([]Block, len(starts))
		blockOf = make([]uint, len(code))
	)
	//
	for i, start := range starts {
		end := uint(len(code))
		//
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		//
		blocks[i] = Block{index: uint(i), start: start, end: end}
		//
		for pc := start; pc < end; pc++ {
			blockOf[pc] = uint(i)
		}
	}
	//
	return Graph{blocks, blockOf}
}

// Add successor (and predecessor) edges between blocks based on the final
// instruction of each block.
func connect(graph *Graph, code []insn.Instruction) {
	var n = uint(len(code))
	//
	for i := range graph.blocks {
		var (
			block = &graph.blocks[i]
			last  = code[block.end-1]
		)
		// Fall through (unless this is the last block)
		if last.Falls() && block.end < n {
			block.addSuccessor(graph.blockOf[block.end])
		}
		// Branch targets
		for _, target := range last.Targets {
			block.addSuccessor(graph.blockOf[target])
		}
	}
	// Record predecessors
	for i := range graph.blocks {
		for _, succ := range graph.blocks[i].succs {
			succBlock := &graph.blocks[succ]
			succBlock.preds = append(succBlock.preds, uint(i))
		}
	}
}
