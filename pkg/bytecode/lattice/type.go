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
package lattice

import "fmt"

// Type identifies the declared type of a parameter or method result, as found
// in a method descriptor.  Declared types are coarser than the abstract values
// tracked during verification: for example, a LONG occupies two register slots
// and is tracked as a LONG_LO / LONG_HI pair.
type Type struct {
	kind uint8
}

var (
	// VOID signals the absence of a value (only meaningful for results).
	VOID = Type{0}
	// INT signals a 32-bit integral value (including boolean, byte, char and
	// short).
	INT = Type{1}
	// FLOAT signals a 32-bit floating point value.
	FLOAT = Type{2}
	// LONG signals a 64-bit integral value.
	LONG = Type{3}
	// DOUBLE signals a 64-bit floating point value.
	DOUBLE = Type{4}
	// REFERENCE signals an object or array reference.
	REFERENCE = Type{5}
)

// TypeOfDescriptor returns the declared type corresponding to the first
// character of a field descriptor (e.g. 'J' for long, 'L' for a class
// reference).
func TypeOfDescriptor(ch byte) (Type, error) {
	switch ch {
	case 'V':
		return VOID, nil
	case 'Z', 'B', 'S', 'C', 'I':
		return INT, nil
	case 'F':
		return FLOAT, nil
	case 'J':
		return LONG, nil
	case 'D':
		return DOUBLE, nil
	case 'L', '[':
		return REFERENCE, nil
	}
	//
	return VOID, fmt.Errorf("invalid type descriptor '%c'", ch)
}

// IsWide determines whether values of this type occupy two register slots.
func (p Type) IsWide() bool {
	return p == LONG || p == DOUBLE
}

// Width returns the number of register slots occupied by a value of this type.
func (p Type) Width() uint {
	switch {
	case p == VOID:
		return 0
	case p.IsWide():
		return 2
	default:
		return 1
	}
}

// Value returns the abstract value held in the (first) register slot of a
// value of this type.
func (p Type) Value() Value {
	switch p {
	case INT:
		return INT_VALUE
	case FLOAT:
		return FLOAT_VALUE
	case LONG:
		return LONG_LO
	case DOUBLE:
		return DOUBLE_LO
	case REFERENCE:
		return REFERENCE_VALUE
	}
	//
	panic("void has no value")
}

func (p Type) String() string {
	switch p {
	case VOID:
		return "void"
	case INT:
		return "int"
	case FLOAT:
		return "float"
	case LONG:
		return "long"
	case DOUBLE:
		return "double"
	case REFERENCE:
		return "reference"
	}
	//
	return fmt.Sprintf("type(%d)", p.kind)
}
