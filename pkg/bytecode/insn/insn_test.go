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
	"testing"

	"github.com/consensys/go-bcverify/pkg/bytecode/register"
	"github.com/consensys/go-bcverify/pkg/util/assert"
)

func Test_Opcode_00(t *testing.T) {
	check_Opcode(t, "add-long", BINARY, Def(LONG), Use(LONG), Use(LONG))
	check_Opcode(t, "add-long/2addr", BINARY_2ADDR, UseDef(LONG), Use(LONG))
	check_Opcode(t, "shl-long", BINARY, Def(LONG), Use(LONG), Use(INT))
	check_Opcode(t, "long-to-double", UNARY, Def(DOUBLE), Use(LONG))
	check_Opcode(t, "cmp-long", COMPARE, Def(INT), Use(LONG), Use(LONG))
	check_Opcode(t, "move-wide/from16", MOVE, Def(WIDE), Use(WIDE))
	check_Opcode(t, "return-void", RETURN_VOID)
	check_Opcode(t, "aget-object", ARRAY, Def(REFERENCE), Use(REFERENCE), Use(INT))
}

func Test_Opcode_01(t *testing.T) {
	_, ok := Lookup("and-float")
	assert.False(t, ok)
	_, ok = Lookup("add-long/lit8")
	assert.False(t, ok)
}

func Test_Opcode_02(t *testing.T) {
	ops := Opcodes()
	//
	for i := 1; i < len(ops); i++ {
		assert.True(t, ops[i-1].Name() < ops[i].Name())
	}
}

func Test_Constraint_00(t *testing.T) {
	assert.True(t, LONG.IsWide())
	assert.True(t, WIDE.IsWide())
	assert.False(t, NARROW.IsWide())
	assert.False(t, REFERENCE.IsWide())
}

func Test_Instruction_00(t *testing.T) {
	var (
		op   = MustLookup("add-long")
		insn = New(op, register.Ids(0, 0, 2)...)
	)
	//
	assert.Equal(t, register.Ids(0, 2), insn.Uses())
	assert.Equal(t, register.Ids(0), insn.Definitions())
	assert.False(t, insn.IsTerminal())
	assert.True(t, insn.Falls())
	assert.Equal(t, "add-long v0, v0, v2", insn.String())
}

func Test_Instruction_01(t *testing.T) {
	insn := New(MustLookup("add-int/2addr"), register.Ids(1, 2)...)
	//
	assert.Equal(t, register.Ids(1, 2), insn.Uses())
	assert.Equal(t, register.Ids(1), insn.Definitions())
}

func Test_Instruction_02(t *testing.T) {
	var (
		ifz  = Branch(MustLookup("if-eqz"), []uint{4}, register.NewId(0))
		jmp  = Branch(MustLookup("goto"), []uint{0})
		swch = Branch(MustLookup("packed-switch"), []uint{3, 5}, register.NewId(1))
		ret  = New(MustLookup("return-void"))
	)
	//
	assert.True(t, ifz.IsTerminal() && ifz.Falls())
	assert.True(t, jmp.IsTerminal() && !jmp.Falls())
	assert.True(t, swch.IsTerminal() && swch.Falls())
	assert.True(t, ret.IsTerminal() && !ret.Falls())
	assert.Equal(t, "if-eqz v0, 4", ifz.String())
	assert.Equal(t, "goto 0", jmp.String())
	assert.Equal(t, "packed-switch v1, {3, 5}", swch.String())
}

func Test_Instruction_03(t *testing.T) {
	insn := NewLiteral(MustLookup("const-wide/16"), 5, register.NewId(2))
	assert.Equal(t, "const-wide/16 v2, 5", insn.String())
}

func Test_Instruction_04(t *testing.T) {
	check_Panics(t, func() { New(MustLookup("add-long"), register.Ids(0, 2)...) })
	check_Panics(t, func() { New(MustLookup("goto")) })
	check_Panics(t, func() { NewLiteral(MustLookup("add-int"), 1, register.Ids(0, 1, 2)...) })
	check_Panics(t, func() { Branch(MustLookup("if-eqz"), []uint{1, 2}, register.NewId(0)) })
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_Opcode(t *testing.T, name string, family Family, operands ...Operand) {
	op, ok := Lookup(name)
	//
	if !ok {
		t.Fatalf("missing opcode %s", name)
	}
	//
	assert.Equal(t, name, op.Name())
	assert.Equal(t, family, op.Family())
	assert.Equal(t, len(operands), len(op.Operands()))
	//
	for i, o := range operands {
		assert.Equal(t, o, op.Operands()[i])
	}
}

func check_Panics(t *testing.T, fn func()) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic")
		}
	}()
	//
	fn()
}
