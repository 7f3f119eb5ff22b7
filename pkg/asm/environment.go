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
package asm

import (
	"math"
	"strconv"

	"github.com/consensys/go-bcverify/pkg/bytecode/insn"
	"github.com/consensys/go-bcverify/pkg/bytecode/register"
	"github.com/consensys/go-bcverify/pkg/util/source"
)

// Label represents a potentially unresolved label within a method.
type Label struct {
	// Name of the label
	name string
	// PC position the label represents.  This will be math.MaxUint until the
	// label is officially declared.
	pc uint
	// Span of the first reference to this label
	span source.Span
}

// UnboundLabel constructs a label whose PC location is (as yet) unknown.
func UnboundLabel(name string, span source.Span) Label {
	return Label{name, math.MaxUint, span}
}

// BoundLabel constructs a label whose PC location is known.
func BoundLabel(name string, pc uint, span source.Span) Label {
	return Label{name, pc, span}
}

// Name returns the name of this label.
func (p *Label) Name() string {
	return p.name
}

// Span returns the span of the first reference to (or declaration of) this
// label.
func (p *Label) Span() source.Span {
	return p.span
}

// Environment captures useful information used whilst assembling a single
// method.
type Environment struct {
	// Labels identifies branch targets.
	labels []Label
	// Shape of the register file being assembled against.
	registers register.File
}

// NewEnvironment constructs an empty environment for a given register file.
func NewEnvironment(registers register.File) Environment {
	return Environment{nil, registers}
}

// BindLabel associates a label with a given index which can subsequently be
// used to determine a concrete program counter value.
func (p *Environment) BindLabel(name string, span source.Span) uint {
	// Check whether label already declared.
	for i, lab := range p.labels {
		if lab.name == name {
			return uint(i)
		}
	}
	// Determine index for new label
	index := uint(len(p.labels))
	// Create new label
	p.labels = append(p.labels, UnboundLabel(name, span))
	// Done
	return index
}

// DeclareLabel declares a given label at a given program counter position.
// This returns false if a label with the same name was already declared.
func (p *Environment) DeclareLabel(name string, pc uint, span source.Span) bool {
	// First, check whether the label already exists
	for i, lab := range p.labels {
		if lab.name == name {
			if lab.pc == math.MaxUint {
				p.labels[i].pc = pc
				return true
			}
			//
			return false
		}
	}
	// Create new label
	p.labels = append(p.labels, BoundLabel(name, pc, span))
	//
	return true
}

// LookupRegister looks up the register slot for a given name.  Registers are
// either named directly by slot (e.g. "v3"), or relative to the first
// incoming parameter (e.g. "p0").
func (p *Environment) LookupRegister(name string) (register.Id, bool) {
	if len(name) < 2 || (name[0] != 'v' && name[0] != 'p') {
		return register.Id{}, false
	}
	//
	index, err := strconv.ParseUint(name[1:], 10, 32)
	//
	if err != nil {
		return register.Id{}, false
	} else if name[0] == 'p' {
		params := p.registers.Params()
		// Parameters occupy the highest slots
		if len(params) == 0 || params[0].Slot.Unwrap()+uint(index) >= p.registers.Size() {
			return register.Id{}, false
		}
		//
		index += uint64(params[0].Slot.Unwrap())
	}
	//
	return register.NewId(uint(index)), true
}

// BindLabels processes a given set of instructions by mapping their label
// indexes to concrete program counter locations.  If any label was never
// declared, this is returned instead.
func (p *Environment) BindLabels(code []insn.Instruction) *Label {
	labels := make([]uint, len(p.labels))
	// Initial the label map
	for i := range labels {
		labels[i] = p.labels[i].pc
		// sanity check
		if labels[i] == math.MaxUint {
			return &p.labels[i]
		}
	}
	// Bind labels using the map
	for _, instr := range code {
		for i, target := range instr.Targets {
			instr.Targets[i] = labels[target]
		}
	}
	//
	return nil
}
