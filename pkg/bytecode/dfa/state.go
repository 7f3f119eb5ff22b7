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
	"slices"
	"strings"

	"github.com/consensys/go-bcverify/pkg/bytecode/lattice"
	"github.com/consensys/go-bcverify/pkg/bytecode/register"
)

// State represents the abstract content of every register slot at a given
// point in a method.  States published into a worklist are treated as
// immutable snapshots; only working copies (obtained via Clone) are updated
// with Set.
type State struct {
	values []lattice.Value
}

// NewState constructs a state of a given size where every register is
// uninitialized.
func NewState(size uint) State {
	return State{make([]lattice.Value, size)}
}

// Size returns the number of register slots covered by this state.
func (p State) Size() uint {
	return uint(len(p.values))
}

// Get returns the value held in a given register slot.
func (p State) Get(reg register.Id) lattice.Value {
	return p.values[reg.Unwrap()]
}

// Set updates the value held in a given register slot.  This should only be
// applied to a working copy.
func (p State) Set(reg register.Id, value lattice.Value) {
	p.values[reg.Unwrap()] = value
}

// Clone produces an otherwise identical but physically disjoint state.
func (p State) Clone() State {
	return State{slices.Clone(p.values)}
}

// Join combines this state with another, producing a state representing
// both.  Typically, this happens when two paths converge on the same
// location.  This also reports whether the result differs from this state.
func (p State) Join(other State) (State, bool) {
	var (
		nst     = p.Clone()
		changed = false
	)
	//
	for i, v := range other.values {
		joined := lattice.Join(nst.values[i], v)
		//
		if joined != nst.values[i] {
			nst.values[i] = joined
			changed = true
		}
	}
	//
	return nst, changed
}

// Equals determines whether two states hold identical values.
func (p State) Equals(other State) bool {
	return slices.Equal(p.values, other.values)
}

// String representation (primarily used for debugging).  Uninitialized
// registers are omitted.
func (p State) String() string {
	var (
		builder strings.Builder
		first   = true
	)
	//
	builder.WriteString("{")
	//
	for i, v := range p.values {
		if v == lattice.UNINITIALIZED {
			continue
		} else if !first {
			builder.WriteString(",")
		}
		//
		first = false
		//
		builder.WriteString(register.NewId(uint(i)).String())
		builder.WriteString(":")
		builder.WriteString(v.String())
	}
	//
	builder.WriteString("}")
	//
	return builder.String()
}
