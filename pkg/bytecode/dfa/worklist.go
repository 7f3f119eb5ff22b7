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
package dfa

import (
	"fmt"
	"strings"

	"github.com/consensys/go-bcverify/pkg/util"
	"github.com/consensys/go-bcverify/pkg/util/collection/bit"
)

// Worklist encapsulates the notion of a worklist, along with the dataflow
// states on entry to each basic block.  A block is (re)scheduled whenever its
// entry state changes, and the analysis reaches a fixed point once the
// worklist is empty.  Since states only ever move up a lattice of finite
// height, this is guaranteed to happen.
type Worklist struct {
	// Blocks which have been scheduled at least once.
	visited bit.Set
	// Blocks currently on the stack.
	pending bit.Set
	// Entry state for each block (if known).
	states []util.Option[State]
	// Blocks remaining to be processed.
	stack []uint
}

// NewWorklist constructs a new worklist for a given number of blocks, where
// the start block is scheduled with a given initial state.
func NewWorklist(nblocks uint, start uint, init State) Worklist {
	var worklist = Worklist{
		states: make([]util.Option[State], nblocks),
	}
	//
	worklist.Join(start, init)
	//
	return worklist
}

// Empty determines whether or not this worklist is empty.
func (p *Worklist) Empty() bool {
	return len(p.stack) == 0
}

// Visited checks whether a given block was reached during the analysis.
func (p *Worklist) Visited(block uint) bool {
	return p.visited.Contains(block)
}

// EntryOf returns the current entry state for a given block, which is empty
// if the block has not been reached.
func (p *Worklist) EntryOf(block uint) util.Option[State] {
	return p.states[block]
}

// Pop removes the next block from the stack, and also returns a working copy
// of its entry state.
func (p *Worklist) Pop() (uint, State) {
	n := len(p.stack) - 1
	block := p.stack[n]
	p.stack = p.stack[:n]
	p.pending.Remove(block)
	//
	return block, p.states[block].Unwrap().Clone()
}

// Join joins a given state into the entry state recorded for a given block.
// A block which has not been visited before, or whose entry state changes as
// a result, is scheduled for (re)processing.
func (p *Worklist) Join(block uint, state State) {
	var (
		entry   = p.states[block]
		changed bool
		nst     State
	)
	// Check for bottom
	if entry.HasValue() {
		nst, changed = entry.Unwrap().Join(state)
	} else {
		nst, changed = state.Clone(), true
	}
	//
	if changed {
		p.states[block] = util.Some(nst)
	}
	//
	if (changed || !p.visited.Contains(block)) && !p.pending.Contains(block) {
		p.visited.Insert(block)
		p.pending.Insert(block)
		p.stack = append(p.stack, block)
	}
}

func (p *Worklist) String() string {
	var builder strings.Builder
	//
	for i, st := range p.states {
		if i != 0 {
			builder.WriteString(" ")
		}
		//
		builder.WriteString(fmt.Sprintf("#%d:", i))
		//
		if st.HasValue() {
			builder.WriteString(st.Unwrap().String())
		} else {
			builder.WriteString("⊥")
		}
	}
	//
	return builder.String()
}
