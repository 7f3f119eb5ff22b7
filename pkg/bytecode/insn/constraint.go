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

	"github.com/consensys/go-bcverify/pkg/bytecode/lattice"
)

// Family identifies a group of opcodes which share the same structure and
// control-flow behaviour.  This is a closed set: the verifier dispatches over
// it with a single exhaustive switch.
type Family uint8

const (
	// NOP does nothing.
	NOP Family = iota
	// MOVE copies a register (or register pair) into another.
	MOVE
	// CONST writes a constant into a register.
	CONST
	// UNARY computes a result from a single source.
	UNARY
	// BINARY computes a result from two sources.
	BINARY
	// BINARY_2ADDR computes a result from two sources, where the first is
	// also the destination.
	BINARY_2ADDR
	// BINARY_LIT computes a result from a source and a literal.
	BINARY_LIT
	// COMPARE compares two sources, producing an int.
	COMPARE
	// GOTO unconditionally transfers control.
	GOTO
	// IF conditionally transfers control based on two sources.
	IF
	// IFZ conditionally transfers control based on comparing a source with
	// zero.
	IFZ
	// SWITCH transfers control to one of several targets.
	SWITCH
	// RETURN_VOID returns from a method without a result.
	RETURN_VOID
	// RETURN returns from a method with a result.
	RETURN
	// THROW raises an exception.
	THROW
	// ARRAY reads, writes or queries an array.
	ARRAY
	// OBJECT creates, checks or locks an object.
	OBJECT
)

var familyNames = []string{
	"nop", "move", "const", "unary", "binary", "binary-2addr", "binary-lit", "compare", "goto", "if", "ifz",
	"switch", "return-void", "return", "throw", "array", "object",
}

func (p Family) String() string {
	if int(p) < len(familyNames) {
		return familyNames[p]
	}
	//
	return fmt.Sprintf("family(%d)", p)
}

// Constraint identifies what an operand register must hold (when read), or
// what it will hold (when written).
type Constraint uint8

const (
	// INT requires a 32-bit integer.
	INT Constraint = iota
	// FLOAT requires a 32-bit float.
	FLOAT
	// LONG requires a long register pair.
	LONG
	// DOUBLE requires a double register pair.
	DOUBLE
	// REFERENCE requires a reference.
	REFERENCE
	// NARROW accepts either an int or a float.
	NARROW
	// WIDE accepts either a long or a double register pair.
	WIDE
)

var constraintNames = []string{"int", "float", "long", "double", "reference", "narrow", "wide"}

// IsWide determines whether an operand with this constraint names a register
// pair.
func (p Constraint) IsWide() bool {
	return p == LONG || p == DOUBLE || p == WIDE
}

// Accepts determines whether a given (low slot) value satisfies this
// constraint.
func (p Constraint) Accepts(value lattice.Value) bool {
	switch p {
	case INT:
		return value == lattice.INT_VALUE
	case FLOAT:
		return value == lattice.FLOAT_VALUE
	case LONG:
		return value == lattice.LONG_LO
	case DOUBLE:
		return value == lattice.DOUBLE_LO
	case REFERENCE:
		return value == lattice.REFERENCE_VALUE
	case NARROW:
		return value == lattice.INT_VALUE || value == lattice.FLOAT_VALUE
	case WIDE:
		return value == lattice.LONG_LO || value == lattice.DOUBLE_LO
	}
	//
	return false
}

// Value returns the (low slot) value written by a definition with this
// constraint.  This is only defined for exact constraints.
func (p Constraint) Value() lattice.Value {
	switch p {
	case INT:
		return lattice.INT_VALUE
	case FLOAT:
		return lattice.FLOAT_VALUE
	case LONG:
		return lattice.LONG_LO
	case DOUBLE:
		return lattice.DOUBLE_LO
	case REFERENCE:
		return lattice.REFERENCE_VALUE
	}
	//
	panic(fmt.Sprintf("constraint %s does not determine a value", p))
}

// Admits determines whether a result of the given declared type can be
// returned by an operand with this constraint.
func (p Constraint) Admits(typ lattice.Type) bool {
	switch p {
	case NARROW:
		return typ == lattice.INT || typ == lattice.FLOAT
	case WIDE:
		return typ.IsWide()
	case REFERENCE:
		return typ == lattice.REFERENCE
	case INT:
		return typ == lattice.INT
	case FLOAT:
		return typ == lattice.FLOAT
	case LONG:
		return typ == lattice.LONG
	case DOUBLE:
		return typ == lattice.DOUBLE
	}
	//
	return false
}

// ConstraintOf returns the exact constraint matching a declared type.
func ConstraintOf(typ lattice.Type) Constraint {
	switch typ {
	case lattice.INT:
		return INT
	case lattice.FLOAT:
		return FLOAT
	case lattice.LONG:
		return LONG
	case lattice.DOUBLE:
		return DOUBLE
	case lattice.REFERENCE:
		return REFERENCE
	}
	//
	panic(fmt.Sprintf("no constraint for type %s", typ))
}

func (p Constraint) String() string {
	if int(p) < len(constraintNames) {
		return constraintNames[p]
	}
	//
	return fmt.Sprintf("constraint(%d)", p)
}

// Mode determines whether an operand is read, written, or both.
type Mode uint8

const (
	// USE signals an operand which is read.
	USE Mode = iota
	// DEF signals an operand which is written.
	DEF
	// USE_DEF signals an operand which is read and then written.
	USE_DEF
)

// Operand describes a single register operand of an opcode.
type Operand struct {
	Mode       Mode
	Constraint Constraint
}

// IsUse determines whether this operand is read.
func (p Operand) IsUse() bool {
	return p.Mode == USE || p.Mode == USE_DEF
}

// IsDef determines whether this operand is written.
func (p Operand) IsDef() bool {
	return p.Mode == DEF || p.Mode == USE_DEF
}

// Use constructs an operand which is read.
func Use(c Constraint) Operand {
	return Operand{USE, c}
}

// Def constructs an operand which is written.
func Def(c Constraint) Operand {
	return Operand{DEF, c}
}

// UseDef constructs an operand which is read and then written.
func UseDef(c Constraint) Operand {
	return Operand{USE_DEF, c}
}
