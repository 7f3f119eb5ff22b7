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
	"testing"

	"github.com/consensys/go-bcverify/pkg/bytecode"
	"github.com/consensys/go-bcverify/pkg/bytecode/insn"
	"github.com/consensys/go-bcverify/pkg/bytecode/lattice"
	"github.com/consensys/go-bcverify/pkg/bytecode/register"
	"github.com/consensys/go-bcverify/pkg/bytecode/report"
	"github.com/consensys/go-bcverify/pkg/util/assert"
)

// ============================================================================
// add-long
// ============================================================================

func Test_AddLong_00(t *testing.T) {
	// Two long parameters
	shape := file(4, param(0, lattice.LONG), param(2, lattice.LONG))
	check_Verified(t, shape, lattice.VOID, op("add-long", 0, 0, 2))
}

func Test_AddLong_01(t *testing.T) {
	// Int where long expected, no room for a pair
	shape := file(4, param(0, lattice.LONG), param(2, lattice.INT))
	check_Rejected(t, shape, lattice.VOID, report.WIDE_REGISTER_MISALIGNMENT, 0, op("add-long", 0, 0, 2))
}

func Test_AddLong_02(t *testing.T) {
	// Float where long expected (slot 3 defined, so not half a pair)
	shape := file(4, param(0, lattice.LONG), param(2, lattice.FLOAT), param(3, lattice.INT))
	check_Rejected(t, shape, lattice.VOID, report.TYPE_CATEGORY_MISMATCH, 0, op("add-long", 0, 0, 2))
}

func Test_AddLong_03(t *testing.T) {
	// Reference where long expected (slot 3 defined, so not half a pair)
	shape := file(4, param(0, lattice.LONG), param(2, lattice.REFERENCE), param(3, lattice.REFERENCE))
	check_Rejected(t, shape, lattice.VOID, report.TYPE_CATEGORY_MISMATCH, 0, op("add-long", 0, 0, 2))
}

func Test_AddLong_04(t *testing.T) {
	// Double where long expected
	shape := file(4, param(0, lattice.LONG), param(2, lattice.DOUBLE))
	check_Rejected(t, shape, lattice.VOID, report.TYPE_CATEGORY_MISMATCH, 0, op("add-long", 0, 0, 2))
}

func Test_AddLong_05(t *testing.T) {
	// Operand beyond register file
	shape := file(4, param(0, lattice.LONG), param(2, lattice.LONG))
	check_Rejected(t, shape, lattice.VOID, report.REGISTER_OUT_OF_RANGE, 0, op("add-long", 0, 0, 4))
	// Pair extends beyond register file
	check_Rejected(t, shape, lattice.VOID, report.REGISTER_OUT_OF_RANGE, 0, op("add-long", 0, 0, 3))
}

func Test_AddLong_06(t *testing.T) {
	// Uninitialized source
	shape := file(4, param(0, lattice.LONG))
	check_Rejected(t, shape, lattice.VOID, report.UNINITIALIZED_REGISTER_READ, 0, op("add-long", 0, 0, 2))
}

func Test_AddLong_07(t *testing.T) {
	// Source starts on upper half of a pair
	shape := file(4, param(0, lattice.LONG), param(2, lattice.LONG))
	check_Rejected(t, shape, lattice.VOID, report.WIDE_REGISTER_MISALIGNMENT, 0, op("add-long", 0, 1, 2))
}

func Test_AddLong_08(t *testing.T) {
	// Float where long expected, with nothing following it.  This is half a
	// pair rather than a category mismatch; the float and reference cases
	// above only give a mismatch because slot 3 is also defined.
	shape := file(4, param(0, lattice.LONG), param(2, lattice.FLOAT))
	check_Rejected(t, shape, lattice.VOID, report.WIDE_REGISTER_MISALIGNMENT, 0, op("add-long", 0, 0, 2))
}

func Test_AddLong_09(t *testing.T) {
	// 2addr form
	shape := file(4, param(0, lattice.LONG), param(2, lattice.LONG))
	check_Verified(t, shape, lattice.LONG, op("add-long/2addr", 0, 2), op("return-wide", 0))
	//
	shape = file(4, param(0, lattice.LONG), param(2, lattice.DOUBLE))
	check_Rejected(t, shape, lattice.LONG, report.TYPE_CATEGORY_MISMATCH, 0, op("add-long/2addr", 0, 2))
}

// ============================================================================
// Straight-line code
// ============================================================================

func Test_Verify_00(t *testing.T) {
	// Empty method
	check_Verified(t, file(0), lattice.VOID)
	check_Verified(t, file(2), lattice.VOID, op("return-void"))
}

func Test_Verify_01(t *testing.T) {
	// Constants and arithmetic of every kind
	check_Verified(t, file(8), lattice.DOUBLE,
		op("const/4", 0),
		op("const-wide/16", 1),
		op("int-to-long", 3, 0),
		op("mul-long", 1, 1, 3),
		op("long-to-double", 5, 1),
		op("int-to-float", 7, 0),
		op("float-to-double", 3, 7),
		op("add-double/2addr", 5, 3),
		op("return-wide", 5))
}

func Test_Verify_02(t *testing.T) {
	// Narrow read of a long
	shape := file(4, param(0, lattice.LONG))
	check_Rejected(t, shape, lattice.VOID, report.TYPE_CATEGORY_MISMATCH, 0, op("add-int", 2, 0, 0))
	// Narrow read of upper half
	check_Rejected(t, shape, lattice.VOID, report.WIDE_REGISTER_MISALIGNMENT, 0, op("add-int", 2, 1, 1))
}

func Test_Verify_03(t *testing.T) {
	// Reference and numeric confusion
	shape := file(3, param(1, lattice.REFERENCE), param(2, lattice.INT))
	check_Verified(t, shape, lattice.INT, op("array-length", 0, 1), op("return", 0))
	check_Rejected(t, shape, lattice.VOID, report.TYPE_CATEGORY_MISMATCH, 0, op("array-length", 0, 2))
	check_Rejected(t, shape, lattice.VOID, report.TYPE_CATEGORY_MISMATCH, 0, op("add-int/lit8", 0, 1))
	check_Rejected(t, shape, lattice.VOID, report.TYPE_CATEGORY_MISMATCH, 0, op("throw", 2))
}

func Test_Verify_04(t *testing.T) {
	// Int and float confusion
	shape := file(3, param(1, lattice.FLOAT), param(2, lattice.INT))
	check_Verified(t, shape, lattice.VOID, op("add-float", 0, 1, 1), op("add-int", 0, 2, 2))
	check_Rejected(t, shape, lattice.VOID, report.TYPE_CATEGORY_MISMATCH, 0, op("add-float", 0, 1, 2))
	check_Rejected(t, shape, lattice.VOID, report.TYPE_CATEGORY_MISMATCH, 0, branch("if-eqz", 0, 1))
}

func Test_Verify_05(t *testing.T) {
	// First violation wins
	shape := file(4, param(3, lattice.INT))
	check_Rejected(t, shape, lattice.VOID, report.UNINITIALIZED_REGISTER_READ, 1,
		op("add-int", 0, 3, 3),
		op("add-int", 0, 1, 3),
		op("add-float", 0, 3, 3))
	// Uses checked in operand order
	check_Rejected(t, shape, lattice.VOID, report.UNINITIALIZED_REGISTER_READ, 0, op("add-int", 0, 1, 2))
	check_Rejected(t, shape, lattice.VOID, report.TYPE_CATEGORY_MISMATCH, 0, op("add-float", 0, 3, 2))
}

func Test_Verify_06(t *testing.T) {
	// Uses checked before definitions
	shape := file(2, param(1, lattice.FLOAT))
	check_Rejected(t, shape, lattice.VOID, report.TYPE_CATEGORY_MISMATCH, 0, op("add-int/2addr", 1, 1))
	check_Verified(t, shape, lattice.INT, op("float-to-int", 1, 1), op("return", 1))
}

func Test_Verify_07(t *testing.T) {
	// Redefinition clears uninitialized
	check_Verified(t, file(1), lattice.INT, op("const/16", 0), op("return", 0))
	check_Rejected(t, file(1), lattice.INT, report.UNINITIALIZED_REGISTER_READ, 0, op("return", 0))
}

// ============================================================================
// Wide pairs
// ============================================================================

func Test_Wide_00(t *testing.T) {
	// Overwriting upper half leaves conflict in lower half
	shape := file(4, param(0, lattice.LONG), param(2, lattice.LONG))
	check_Rejected(t, shape, lattice.VOID, report.UNINITIALIZED_REGISTER_READ, 1,
		op("const/4", 1),
		op("add-long", 2, 0, 2))
	// Two ints are not a long
	check_Rejected(t, shape, lattice.VOID, report.TYPE_CATEGORY_MISMATCH, 2,
		op("const/4", 1),
		op("const/4", 0),
		op("add-long", 2, 0, 2))
}

func Test_Wide_01(t *testing.T) {
	// Overwriting lower half leaves conflict in upper half
	shape := file(4, param(0, lattice.LONG))
	check_Rejected(t, shape, lattice.VOID, report.UNINITIALIZED_REGISTER_READ, 1,
		op("const/4", 0),
		op("add-int", 2, 1, 0))
	// But an unused conflict is fine
	check_Verified(t, shape, lattice.INT,
		op("const/4", 0),
		op("add-int", 2, 0, 0),
		op("return", 2))
}

func Test_Wide_02(t *testing.T) {
	// Overlapping wide write breaks both neighbouring pairs
	shape := file(4, param(0, lattice.LONG), param(2, lattice.LONG))
	check_Rejected(t, shape, lattice.VOID, report.UNINITIALIZED_REGISTER_READ, 1,
		op("const-wide/16", 1),
		op("neg-int", 0, 0))
	check_Rejected(t, shape, lattice.VOID, report.UNINITIALIZED_REGISTER_READ, 1,
		op("const-wide/16", 1),
		op("neg-int", 3, 3))
	check_Verified(t, shape, lattice.LONG,
		op("const-wide/16", 1),
		op("return-wide", 1))
}

func Test_Wide_03(t *testing.T) {
	// Wide result cannot start at last register
	shape := file(3, param(0, lattice.LONG))
	check_Rejected(t, shape, lattice.VOID, report.REGISTER_OUT_OF_RANGE, 0, op("const-wide/16", 2))
}

// ============================================================================
// Moves
// ============================================================================

func Test_Move_00(t *testing.T) {
	// Moves copy their source
	shape := file(6, param(0, lattice.LONG), param(2, lattice.FLOAT))
	check_Verified(t, shape, lattice.VOID,
		op("move-wide", 4, 0),
		op("add-long", 0, 0, 4),
		op("move", 3, 2),
		op("add-float", 2, 2, 3))
	check_Rejected(t, shape, lattice.VOID, report.TYPE_CATEGORY_MISMATCH, 1,
		op("move", 3, 2),
		op("add-int", 3, 3, 3))
}

func Test_Move_01(t *testing.T) {
	// Moves check their source
	shape := file(6, param(0, lattice.LONG), param(2, lattice.REFERENCE))
	check_Rejected(t, shape, lattice.VOID, report.TYPE_CATEGORY_MISMATCH, 0, op("move", 4, 0))
	check_Rejected(t, shape, lattice.VOID, report.TYPE_CATEGORY_MISMATCH, 0, op("move", 4, 2))
	check_Rejected(t, shape, lattice.VOID, report.TYPE_CATEGORY_MISMATCH, 0, op("move-object", 4, 0))
	check_Rejected(t, shape, lattice.VOID, report.UNINITIALIZED_REGISTER_READ, 0, op("move-wide", 0, 4))
	check_Rejected(t, shape, lattice.VOID, report.WIDE_REGISTER_MISALIGNMENT, 0, op("move-wide", 4, 1))
}

func Test_Move_02(t *testing.T) {
	// Overlapping wide move
	shape := file(4, param(0, lattice.DOUBLE))
	check_Verified(t, shape, lattice.DOUBLE,
		op("move-wide", 1, 0),
		op("return-wide", 1))
	check_Rejected(t, shape, lattice.VOID, report.UNINITIALIZED_REGISTER_READ, 1,
		op("move-wide", 1, 0),
		op("neg-int", 0, 0))
}

// ============================================================================
// Returns
// ============================================================================

func Test_Return_00(t *testing.T) {
	shape := file(4, param(0, lattice.LONG), param(2, lattice.INT), param(3, lattice.REFERENCE))
	//
	check_Verified(t, shape, lattice.LONG, op("return-wide", 0))
	check_Verified(t, shape, lattice.INT, op("return", 2))
	check_Verified(t, shape, lattice.REFERENCE, op("return-object", 3))
	check_Verified(t, shape, lattice.VOID, op("return-void"))
}

func Test_Return_01(t *testing.T) {
	shape := file(4, param(0, lattice.LONG), param(2, lattice.INT), param(3, lattice.REFERENCE))
	//
	check_Rejected(t, shape, lattice.INT, report.TYPE_CATEGORY_MISMATCH, 0, op("return-void"))
	check_Rejected(t, shape, lattice.VOID, report.TYPE_CATEGORY_MISMATCH, 0, op("return", 2))
	check_Rejected(t, shape, lattice.LONG, report.TYPE_CATEGORY_MISMATCH, 0, op("return", 2))
	check_Rejected(t, shape, lattice.FLOAT, report.TYPE_CATEGORY_MISMATCH, 0, op("return", 2))
	check_Rejected(t, shape, lattice.DOUBLE, report.TYPE_CATEGORY_MISMATCH, 0, op("return-wide", 0))
	check_Rejected(t, shape, lattice.INT, report.TYPE_CATEGORY_MISMATCH, 0, op("return-object", 3))
	check_Rejected(t, shape, lattice.REFERENCE, report.TYPE_CATEGORY_MISMATCH, 0, op("return-object", 2))
}

func Test_Return_02(t *testing.T) {
	shape := file(4, param(0, lattice.LONG))
	//
	check_Rejected(t, shape, lattice.INT, report.UNINITIALIZED_REGISTER_READ, 0, op("return", 2))
	check_Rejected(t, shape, lattice.LONG, report.WIDE_REGISTER_MISALIGNMENT, 0, op("return-wide", 1))
}

// ============================================================================
// Control flow
// ============================================================================

func Test_Flow_00(t *testing.T) {
	// Diamond with agreeing branches
	shape := file(3, param(2, lattice.INT))
	check_Verified(t, shape, lattice.INT,
		branch("if-eqz", 3, 2),
		op("const/4", 0),
		branch("goto", 4),
		op("add-int/lit8", 0, 2),
		op("return", 0))
}

func Test_Flow_01(t *testing.T) {
	// Diamond with disagreeing branches
	shape := file(3, param(2, lattice.INT))
	check_Rejected(t, shape, lattice.INT, report.UNINITIALIZED_REGISTER_READ, 4,
		branch("if-eqz", 3, 2),
		op("const/4", 0),
		branch("goto", 4),
		op("int-to-float", 0, 2),
		op("return", 0))
	// Tolerated when never read
	check_Verified(t, shape, lattice.INT,
		branch("if-eqz", 3, 2),
		op("const/4", 0),
		branch("goto", 4),
		op("int-to-float", 0, 2),
		op("return", 2))
}

func Test_Flow_02(t *testing.T) {
	// Defined on one path only (uninitialized is the identity for joins)
	shape := file(3, param(2, lattice.INT))
	check_Verified(t, shape, lattice.INT,
		branch("if-eqz", 2, 2),
		op("const/4", 0),
		op("return", 0))
}

func Test_Flow_03(t *testing.T) {
	// Loop preserving types
	shape := file(2, param(1, lattice.INT))
	check_Verified(t, shape, lattice.INT,
		op("const/4", 0),
		op("add-int/2addr", 0, 1),
		branch("if-lt", 1, 0, 1),
		op("return", 0))
}

func Test_Flow_04(t *testing.T) {
	// Loop changing type on back-edge
	shape := file(2, param(1, lattice.INT))
	check_Rejected(t, shape, lattice.VOID, report.UNINITIALIZED_REGISTER_READ, 1,
		op("const/4", 0),
		op("add-int/2addr", 0, 1),
		op("int-to-float", 0, 0),
		branch("if-nez", 1, 1),
		op("return-void"))
}

func Test_Flow_05(t *testing.T) {
	// Long/double disagreement across paths
	shape := file(4, param(0, lattice.LONG), param(2, lattice.INT))
	check_Rejected(t, shape, lattice.LONG, report.UNINITIALIZED_REGISTER_READ, 3,
		branch("if-eqz", 2, 2),
		op("long-to-double", 0, 0),
		op("nop"),
		op("return-wide", 0))
}

func Test_Flow_06(t *testing.T) {
	// Unreachable code is not checked
	shape := file(4, param(0, lattice.LONG))
	check_Verified(t, shape, lattice.VOID,
		op("return-void"),
		op("add-long", 0, 0, 2))
	check_Verified(t, shape, lattice.VOID,
		branch("goto", 2),
		op("add-long", 0, 0, 2),
		op("return-void"))
}

func Test_Flow_07(t *testing.T) {
	// Branch target out of range
	check_Rejected(t, file(1), lattice.VOID, report.REGISTER_OUT_OF_RANGE, 1,
		op("const/4", 0),
		branch("if-eqz", 3, 0))
}

func Test_Flow_08(t *testing.T) {
	// Switch with disagreeing cases
	shape := file(3, param(2, lattice.INT))
	check_Rejected(t, shape, lattice.INT, report.UNINITIALIZED_REGISTER_READ, 6,
		insn.Branch(insn.MustLookup("packed-switch"), []uint{3, 5}, register.NewId(2)),
		op("const/4", 0),
		branch("goto", 6),
		op("const/4", 0),
		branch("goto", 6),
		op("int-to-float", 0, 2),
		op("return", 0))
}

func Test_Flow_09(t *testing.T) {
	// Falling off the end
	shape := file(2, param(1, lattice.INT))
	check_Verified(t, shape, lattice.INT,
		op("const/4", 0),
		branch("if-eqz", 3, 1),
		op("return", 0),
		op("add-int", 0, 0, 1))
}

func Test_Flow_10(t *testing.T) {
	// Merge reached before its other predecessor
	shape := file(3, param(2, lattice.INT))
	check_Verified(t, shape, lattice.INT,
		branch("if-eqz", 2, 2),
		op("const/4", 0),
		op("return", 0))
	check_Verified(t, shape, lattice.INT,
		branch("if-eqz", 2, 2),
		branch("goto", 3),
		op("const/4", 0),
		op("return", 0))
}

func Test_Flow_11(t *testing.T) {
	// Conflict is only known once every predecessor has been joined
	shape := file(3, param(2, lattice.INT))
	check_Rejected(t, shape, lattice.INT, report.UNINITIALIZED_REGISTER_READ, 3,
		op("const/4", 0),
		branch("if-eqz", 3, 2),
		op("int-to-float", 0, 2),
		op("return", 0))
	check_Rejected(t, shape, lattice.INT, report.UNINITIALIZED_REGISTER_READ, 4,
		branch("if-eqz", 3, 2),
		op("int-to-float", 0, 2),
		branch("goto", 4),
		op("const/4", 0),
		op("return", 0))
}

func Test_Flow_12(t *testing.T) {
	// First violation by position, regardless of visiting order
	shape := file(3, param(2, lattice.INT))
	check_Rejected(t, shape, lattice.INT, report.UNINITIALIZED_REGISTER_READ, 1,
		branch("if-eqz", 3, 2),
		op("return", 0),
		op("nop"),
		op("return", 1))
}

// ============================================================================
// Idempotence
// ============================================================================

func Test_Idempotent_00(t *testing.T) {
	shape := file(4, param(0, lattice.LONG), param(2, lattice.DOUBLE))
	method := bytecode.NewMethod("m", shape, lattice.VOID, op("add-long", 0, 0, 2))
	//
	first := Verify(method)
	second := Verify(method)
	//
	assert.True(t, first.Equals(second))
	assert.Equal(t, "Rejected(TypeCategoryMismatch, 0)", second.String())
}

// ============================================================================
// Helpers
// ============================================================================

func op(name string, regs ...uint) insn.Instruction {
	opcode := insn.MustLookup(name)
	//
	if opcode.HasLiteral() {
		return insn.NewLiteral(opcode, 1, register.Ids(regs...)...)
	}
	//
	return insn.New(opcode, register.Ids(regs...)...)
}

func branch(name string, target uint, regs ...uint) insn.Instruction {
	return insn.Branch(insn.MustLookup(name), []uint{target}, register.Ids(regs...)...)
}

func param(slot uint, typ lattice.Type) register.Param {
	return register.NewParam(slot, typ)
}

func file(size uint, params ...register.Param) register.File {
	return register.MustNewFile(size, params...)
}

func check_Verified(t *testing.T, shape register.File, returns lattice.Type, code ...insn.Instruction) {
	t.Helper()
	//
	rep := Verify(bytecode.NewMethod("test", shape, returns, code...))
	//
	if !rep.IsVerified() {
		t.Errorf("expected Verified, got %s: %s", rep.String(), rep.Message())
	}
}

func check_Rejected(t *testing.T, shape register.File, returns lattice.Type, kind report.Kind, index uint,
	code ...insn.Instruction) {
	t.Helper()
	//
	rep := Verify(bytecode.NewMethod("test", shape, returns, code...))
	//
	if rep.IsVerified() {
		t.Errorf("expected Rejected(%s, %d), got Verified", kind, index)
	} else if rep.Kind() != kind || rep.Index() != index {
		t.Errorf("expected Rejected(%s, %d), got %s: %s", kind, index, rep.String(), rep.Message())
	}
}
