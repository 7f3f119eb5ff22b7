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
	"fmt"
	"slices"
	"strings"

	"github.com/consensys/go-bcverify/pkg/util/collection/bit"
)

// Block represents a basic block.  That is, a contiguous run of instructions
// with a single entry point, where only the final instruction may transfer
// control elsewhere.  A block owns no registers, only sequencing.
type Block struct {
	// Index of this block within its graph.
	index uint
	// First instruction of this block.
	start uint
	// One past the last instruction of this block.
	end uint
	// Successor blocks (fallthrough first, then branch targets).
	succs []uint
	// Predecessor blocks.
	preds []uint
}

// Index returns the index of this block within its graph.
func (p *Block) Index() uint {
	return p.index
}

// Start returns the index of the first instruction in this block.
func (p *Block) Start() uint {
	return p.start
}

// End returns one past the index of the last instruction in this block.
func (p *Block) End() uint {
	return p.end
}

// Len returns the number of instructions in this block.
func (p *Block) Len() uint {
	return p.end - p.start
}

// Successors returns the indices of blocks to which control may pass on exit
// from this block.
func (p *Block) Successors() []uint {
	return p.succs
}

// Predecessors returns the indices of blocks from which control may enter
// this block.
func (p *Block) Predecessors() []uint {
	return p.preds
}

// Graph is a control-flow graph over the instructions of a single method.
// Blocks are held in an arena and refer to each other by index, hence
// back-edges are just ordinary successor indices.  The first block is always
// the entry block.
type Graph struct {
	blocks []Block
	// Maps each instruction to its enclosing block.
	blockOf []uint
}

// Entry returns the entry block of this graph.
func (p *Graph) Entry() *Block {
	return &p.blocks[0]
}

// Blocks returns the number of blocks in this graph.
func (p *Graph) Blocks() uint {
	return uint(len(p.blocks))
}

// Block returns the block with the given index.
func (p *Graph) Block(index uint) *Block {
	return &p.blocks[index]
}

// BlockOf returns the block enclosing a given instruction.
func (p *Graph) BlockOf(pc uint) *Block {
	return &p.blocks[p.blockOf[pc]]
}

// Reachable returns the set of blocks reachable from the entry block.
func (p *Graph) Reachable() bit.Set {
	var (
		visited bit.Set
		stack   = []uint{0}
	)
	//
	visited.Insert(0)
	//
	for len(stack) > 0 {
		n := len(stack) - 1
		next := stack[n]
		stack = stack[:n]
		//
		for _, succ := range p.blocks[next].succs {
			if !visited.Contains(succ) {
				visited.Insert(succ)
				stack = append(stack, succ)
			}
		}
	}
	//
	return visited
}

func (p *Graph) String() string {
	var builder strings.Builder
	//
	for i, b := range p.blocks {
		if i != 0 {
			builder.WriteString("\n")
		}
		//
		builder.WriteString(fmt.Sprintf("#%d [%d,%d)", b.index, b.start, b.end))
		//
		if len(b.succs) > 0 {
			builder.WriteString(" ->")
			//
			for _, s := range b.succs {
				builder.WriteString(fmt.Sprintf(" #%d", s))
			}
		}
	}
	//
	return builder.String()
}

// Append a successor edge, ignoring duplicates.
func (p *Block) addSuccessor(succ uint) {
	if !slices.Contains(p.succs, succ) {
		p.succs = append(p.succs, succ)
	}
}
