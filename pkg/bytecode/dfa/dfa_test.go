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
	"testing"

	"github.com/consensys/go-bcverify/pkg/bytecode/lattice"
	"github.com/consensys/go-bcverify/pkg/bytecode/register"
	"github.com/consensys/go-bcverify/pkg/util/assert"
)

func Test_State_00(t *testing.T) {
	st := NewState(3)
	//
	assert.Equal(t, uint(3), st.Size())
	//
	for i := uint(0); i < 3; i++ {
		assert.Equal(t, lattice.UNINITIALIZED, st.Get(register.NewId(i)))
	}
	//
	assert.Equal(t, "{}", st.String())
}

func Test_State_01(t *testing.T) {
	// Clones are disjoint
	st := NewState(2)
	nst := st.Clone()
	nst.Set(register.NewId(0), lattice.INT_VALUE)
	//
	assert.Equal(t, lattice.UNINITIALIZED, st.Get(register.NewId(0)))
	assert.Equal(t, lattice.INT_VALUE, nst.Get(register.NewId(0)))
	assert.False(t, st.Equals(nst))
	assert.Equal(t, "{v0:int}", nst.String())
}

func Test_State_02(t *testing.T) {
	lhs := state(lattice.INT_VALUE, lattice.UNINITIALIZED, lattice.LONG_LO, lattice.LONG_HI)
	rhs := state(lattice.INT_VALUE, lattice.FLOAT_VALUE, lattice.DOUBLE_LO, lattice.DOUBLE_HI)
	//
	joined, changed := lhs.Join(rhs)
	//
	assert.True(t, changed)
	assert.True(t, joined.Equals(state(lattice.INT_VALUE, lattice.FLOAT_VALUE, lattice.CONFLICT, lattice.CONFLICT)))
	// Original left untouched
	assert.Equal(t, lattice.UNINITIALIZED, lhs.Get(register.NewId(1)))
}

func Test_State_03(t *testing.T) {
	// Joining with a subsumed state reports no change
	lhs := state(lattice.INT_VALUE, lattice.REFERENCE_VALUE)
	//
	_, changed := lhs.Join(state(lattice.UNINITIALIZED, lattice.REFERENCE_VALUE))
	assert.False(t, changed)
	//
	_, changed = lhs.Join(lhs)
	assert.False(t, changed)
}

func Test_Worklist_00(t *testing.T) {
	wl := NewWorklist(3, 0, state(lattice.INT_VALUE))
	//
	assert.False(t, wl.Empty())
	assert.True(t, wl.Visited(0))
	assert.False(t, wl.Visited(1))
	//
	block, st := wl.Pop()
	assert.Equal(t, uint(0), block)
	assert.Equal(t, lattice.INT_VALUE, st.Get(register.NewId(0)))
	assert.True(t, wl.Empty())
	// Working copy does not affect published state
	st.Set(register.NewId(0), lattice.FLOAT_VALUE)
	assert.Equal(t, lattice.INT_VALUE, wl.EntryOf(0).Unwrap().Get(register.NewId(0)))
	assert.True(t, wl.EntryOf(2).IsEmpty())
}

func Test_Worklist_01(t *testing.T) {
	// Unchanged entry state is not rescheduled
	wl := NewWorklist(2, 0, state(lattice.INT_VALUE))
	wl.Pop()
	wl.Join(1, state(lattice.INT_VALUE))
	wl.Pop()
	//
	wl.Join(1, state(lattice.INT_VALUE))
	assert.True(t, wl.Empty())
	wl.Join(1, state(lattice.UNINITIALIZED))
	assert.True(t, wl.Empty())
	// Changed entry state is rescheduled
	wl.Join(1, state(lattice.FLOAT_VALUE))
	assert.False(t, wl.Empty())
	//
	block, st := wl.Pop()
	assert.Equal(t, uint(1), block)
	assert.Equal(t, lattice.CONFLICT, st.Get(register.NewId(0)))
}

func Test_Worklist_02(t *testing.T) {
	// Pending blocks are not duplicated
	wl := NewWorklist(2, 0, state(lattice.UNINITIALIZED))
	wl.Pop()
	wl.Join(1, state(lattice.INT_VALUE))
	wl.Join(1, state(lattice.FLOAT_VALUE))
	//
	block, st := wl.Pop()
	assert.Equal(t, uint(1), block)
	assert.Equal(t, lattice.CONFLICT, st.Get(register.NewId(0)))
	assert.True(t, wl.Empty())
	assert.Equal(t, "#0:{} #1:{v0:⊤}", wl.String())
}

// ============================================================================
// Helpers
// ============================================================================

func state(values ...lattice.Value) State {
	st := NewState(uint(len(values)))
	//
	for i, v := range values {
		st.Set(register.NewId(uint(i)), v)
	}
	//
	return st
}
