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
	"sort"
)

// Opcode describes a single operation, identified by its mnemonic.  Each
// opcode belongs to a family and statically declares the register operands
// it reads and writes.
type Opcode struct {
	name     string
	family   Family
	operands []Operand
}

// Name returns the mnemonic of this opcode (e.g. "add-long/2addr").
func (p *Opcode) Name() string {
	return p.name
}

// Family returns the family to which this opcode belongs.
func (p *Opcode) Family() Family {
	return p.family
}

// Operands returns the register operands of this opcode, in the order they
// are written in assembly.
func (p *Opcode) Operands() []Operand {
	return p.operands
}

// HasLiteral determines whether instructions of this opcode carry a literal.
func (p *Opcode) HasLiteral() bool {
	return p.family == CONST || p.family == BINARY_LIT
}

// Branches determines whether instructions of this opcode carry one or more
// branch targets.
func (p *Opcode) Branches() bool {
	switch p.family {
	case GOTO, IF, IFZ, SWITCH:
		return true
	default:
		return false
	}
}

func (p *Opcode) String() string {
	return p.name
}

var opcodes = make(map[string]*Opcode)

// Lookup finds the opcode with a given mnemonic, returning false if none
// exists.
func Lookup(name string) (*Opcode, bool) {
	op, ok := opcodes[name]
	return op, ok
}

// MustLookup finds the opcode with a given mnemonic, panicking if none exists.
func MustLookup(name string) *Opcode {
	if op, ok := opcodes[name]; ok {
		return op
	}
	//
	panic(fmt.Sprintf("unknown opcode \"%s\"", name))
}

// Opcodes returns all known opcodes, sorted by mnemonic.
func Opcodes() []*Opcode {
	ops := make([]*Opcode, 0, len(opcodes))
	//
	for _, op := range opcodes {
		ops = append(ops, op)
	}
	//
	sort.Slice(ops, func(i, j int) bool { return ops[i].name < ops[j].name })
	//
	return ops
}

func define(family Family, operands []Operand, names ...string) {
	for _, name := range names {
		if _, ok := opcodes[name]; ok {
			panic(fmt.Sprintf("duplicate opcode \"%s\"", name))
		}
		//
		opcodes[name] = &Opcode{name, family, operands}
	}
}

// Arithmetic type suffixes, along with the constraint they imply.
var arithTypes = []struct {
	suffix     string
	constraint Constraint
}{
	{"int", INT}, {"long", LONG}, {"float", FLOAT}, {"double", DOUBLE},
}

func init() {
	define(NOP, nil, "nop")
	// Moves
	define(MOVE, []Operand{Def(NARROW), Use(NARROW)}, "move", "move/from16", "move/16")
	define(MOVE, []Operand{Def(WIDE), Use(WIDE)}, "move-wide", "move-wide/from16", "move-wide/16")
	define(MOVE, []Operand{Def(REFERENCE), Use(REFERENCE)}, "move-object", "move-object/from16", "move-object/16")
	// Constants
	define(CONST, []Operand{Def(INT)}, "const/4", "const/16", "const", "const/high16")
	define(CONST, []Operand{Def(LONG)}, "const-wide/16", "const-wide/32", "const-wide", "const-wide/high16")
	define(CONST, []Operand{Def(REFERENCE)}, "const-string", "const-string/jumbo", "const-class")
	// Unary operations
	define(UNARY, []Operand{Def(INT), Use(INT)}, "neg-int", "not-int", "int-to-byte", "int-to-char", "int-to-short")
	define(UNARY, []Operand{Def(LONG), Use(LONG)}, "neg-long", "not-long")
	define(UNARY, []Operand{Def(FLOAT), Use(FLOAT)}, "neg-float")
	define(UNARY, []Operand{Def(DOUBLE), Use(DOUBLE)}, "neg-double")
	// Conversions
	for _, from := range arithTypes {
		for _, to := range arithTypes {
			if from != to {
				name := fmt.Sprintf("%s-to-%s", from.suffix, to.suffix)
				define(UNARY, []Operand{Def(to.constraint), Use(from.constraint)}, name)
			}
		}
	}
	// Binary operations
	defineBinary("add", INT, LONG, FLOAT, DOUBLE)
	defineBinary("sub", INT, LONG, FLOAT, DOUBLE)
	defineBinary("mul", INT, LONG, FLOAT, DOUBLE)
	defineBinary("div", INT, LONG, FLOAT, DOUBLE)
	defineBinary("rem", INT, LONG, FLOAT, DOUBLE)
	defineBinary("and", INT, LONG)
	defineBinary("or", INT, LONG)
	defineBinary("xor", INT, LONG)
	defineShift("shl")
	defineShift("shr")
	defineShift("ushr")
	// Literal operations
	define(BINARY_LIT, []Operand{Def(INT), Use(INT)},
		"add-int/lit16", "rsub-int", "mul-int/lit16", "div-int/lit16", "rem-int/lit16",
		"and-int/lit16", "or-int/lit16", "xor-int/lit16",
		"add-int/lit8", "rsub-int/lit8", "mul-int/lit8", "div-int/lit8", "rem-int/lit8",
		"and-int/lit8", "or-int/lit8", "xor-int/lit8", "shl-int/lit8", "shr-int/lit8", "ushr-int/lit8")
	// Comparisons
	define(COMPARE, []Operand{Def(INT), Use(FLOAT), Use(FLOAT)}, "cmpl-float", "cmpg-float")
	define(COMPARE, []Operand{Def(INT), Use(DOUBLE), Use(DOUBLE)}, "cmpl-double", "cmpg-double")
	define(COMPARE, []Operand{Def(INT), Use(LONG), Use(LONG)}, "cmp-long")
	// Control flow
	define(GOTO, nil, "goto", "goto/16", "goto/32")
	define(IF, []Operand{Use(INT), Use(INT)}, "if-eq", "if-ne", "if-lt", "if-ge", "if-gt", "if-le")
	define(IFZ, []Operand{Use(INT)}, "if-eqz", "if-nez", "if-ltz", "if-gez", "if-gtz", "if-lez")
	define(SWITCH, []Operand{Use(INT)}, "packed-switch", "sparse-switch")
	define(RETURN_VOID, nil, "return-void")
	define(RETURN, []Operand{Use(NARROW)}, "return")
	define(RETURN, []Operand{Use(WIDE)}, "return-wide")
	define(RETURN, []Operand{Use(REFERENCE)}, "return-object")
	define(THROW, []Operand{Use(REFERENCE)}, "throw")
	// Arrays
	define(ARRAY, []Operand{Def(INT), Use(REFERENCE)}, "array-length")
	define(ARRAY, []Operand{Def(REFERENCE), Use(INT)}, "new-array")
	define(ARRAY, []Operand{Use(REFERENCE)}, "fill-array-data")
	define(ARRAY, []Operand{Def(INT), Use(REFERENCE), Use(INT)},
		"aget", "aget-boolean", "aget-byte", "aget-char", "aget-short")
	define(ARRAY, []Operand{Def(LONG), Use(REFERENCE), Use(INT)}, "aget-wide")
	define(ARRAY, []Operand{Def(REFERENCE), Use(REFERENCE), Use(INT)}, "aget-object")
	define(ARRAY, []Operand{Use(NARROW), Use(REFERENCE), Use(INT)},
		"aput", "aput-boolean", "aput-byte", "aput-char", "aput-short")
	define(ARRAY, []Operand{Use(WIDE), Use(REFERENCE), Use(INT)}, "aput-wide")
	define(ARRAY, []Operand{Use(REFERENCE), Use(REFERENCE), Use(INT)}, "aput-object")
	// Objects
	define(OBJECT, []Operand{Def(REFERENCE)}, "new-instance")
	define(OBJECT, []Operand{Use(REFERENCE)}, "check-cast", "monitor-enter", "monitor-exit")
	define(OBJECT, []Operand{Def(INT), Use(REFERENCE)}, "instance-of")
}

// Define the three-address and two-address forms of a binary operation for
// each of the given operand types.
func defineBinary(op string, types ...Constraint) {
	for _, c := range types {
		name := fmt.Sprintf("%s-%s", op, c)
		define(BINARY, []Operand{Def(c), Use(c), Use(c)}, name)
		define(BINARY_2ADDR, []Operand{UseDef(c), Use(c)}, name+"/2addr")
	}
}

// Define a shift operation.  The shift amount is always an int, regardless of
// the type of value being shifted.
func defineShift(op string) {
	for _, c := range []Constraint{INT, LONG} {
		name := fmt.Sprintf("%s-%s", op, c)
		define(BINARY, []Operand{Def(c), Use(c), Use(INT)}, name)
		define(BINARY_2ADDR, []Operand{UseDef(c), Use(INT)}, name+"/2addr")
	}
}
