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

// Value represents the abstract content of a single register slot at some
// point in a method.  A value is either UNINITIALIZED (nothing written yet),
// a defined value of some category and kind, or CONFLICT (different values
// arrive along different paths).
type Value struct {
	tag uint8
}

// NUM_VALUES determines the number of distinct abstract values.
const NUM_VALUES = 9

var (
	// UNINITIALIZED signals a register which has not been written.
	UNINITIALIZED = Value{0}
	// INT_VALUE signals a register holding a 32-bit integer.
	INT_VALUE = Value{1}
	// FLOAT_VALUE signals a register holding a 32-bit float.
	FLOAT_VALUE = Value{2}
	// REFERENCE_VALUE signals a register holding a reference.
	REFERENCE_VALUE = Value{3}
	// LONG_LO signals the low slot of a long pair.
	LONG_LO = Value{4}
	// LONG_HI signals the high (continuation) slot of a long pair.
	LONG_HI = Value{5}
	// DOUBLE_LO signals the low slot of a double pair.
	DOUBLE_LO = Value{6}
	// DOUBLE_HI signals the high (continuation) slot of a double pair.
	DOUBLE_HI = Value{7}
	// CONFLICT signals a register holding different values on different
	// incoming paths.  Such a register cannot be read until it is redefined.
	CONFLICT = Value{8}
)

// Category identifies the coarse type of a defined value, as used for operand
// compatibility checks.
type Category uint8

const (
	// NO_CATEGORY is used for UNINITIALIZED and CONFLICT.
	NO_CATEGORY Category = iota
	// INT32 is the category of 32-bit integers.
	INT32
	// FLOAT32 is the category of 32-bit floats.
	FLOAT32
	// REFERENCE_CAT is the (single) category of references.
	REFERENCE_CAT
	// WIDE_LOW is the category of the low slot of a 64-bit pair.
	WIDE_LOW
	// WIDE_HIGH is the category of the high slot of a 64-bit pair.
	WIDE_HIGH
)

// Kind refines a category, distinguishing (for example) long from double
// within wide pairs.
type Kind uint8

const (
	// NO_KIND is used for UNINITIALIZED and CONFLICT.
	NO_KIND Kind = iota
	// INT_KIND identifies integers.
	INT_KIND
	// FLOAT_KIND identifies floats.
	FLOAT_KIND
	// LONG_KIND identifies longs.
	LONG_KIND
	// DOUBLE_KIND identifies doubles.
	DOUBLE_KIND
	// REF_KIND identifies references.
	REF_KIND
)

var categories = [NUM_VALUES]Category{
	NO_CATEGORY, INT32, FLOAT32, REFERENCE_CAT, WIDE_LOW, WIDE_HIGH, WIDE_LOW, WIDE_HIGH, NO_CATEGORY,
}

var kinds = [NUM_VALUES]Kind{
	NO_KIND, INT_KIND, FLOAT_KIND, REF_KIND, LONG_KIND, LONG_KIND, DOUBLE_KIND, DOUBLE_KIND, NO_KIND,
}

var names = [NUM_VALUES]string{
	"⊥", "int", "float", "ref", "long", "long'", "double", "double'", "⊤",
}

// Values returns every abstract value, in a fixed order.
func Values() []Value {
	values := make([]Value, NUM_VALUES)
	//
	for i := range values {
		values[i] = Value{uint8(i)}
	}
	//
	return values
}

// Category returns the category of this value.
func (p Value) Category() Category {
	return categories[p.tag]
}

// Kind returns the kind of this value.
func (p Value) Kind() Kind {
	return kinds[p.tag]
}

// Index returns the position of this value in the join table.
func (p Value) Index() uint {
	return uint(p.tag)
}

// IsDefined determines whether this value can be read, meaning it is
// neither UNINITIALIZED nor CONFLICT.
func (p Value) IsDefined() bool {
	return p != UNINITIALIZED && p != CONFLICT
}

// IsWideLow determines whether this is the low slot of a wide pair.
func (p Value) IsWideLow() bool {
	return p.Category() == WIDE_LOW
}

// IsWideHigh determines whether this is the high slot of a wide pair.
func (p Value) IsWideHigh() bool {
	return p.Category() == WIDE_HIGH
}

// IsNarrow determines whether this value occupies exactly one slot on its
// own (i.e. int, float or reference).
func (p Value) IsNarrow() bool {
	switch p.Category() {
	case INT32, FLOAT32, REFERENCE_CAT:
		return true
	default:
		return false
	}
}

// High returns the continuation marker which must follow this value in the
// next register slot.  This is only defined for the low slot of a wide pair.
func (p Value) High() Value {
	switch p {
	case LONG_LO:
		return LONG_HI
	case DOUBLE_LO:
		return DOUBLE_HI
	}
	//
	panic("value " + p.String() + " has no high slot")
}

// Low returns the low slot matching the continuation marker.  This is only
// defined for the high slot of a wide pair.
func (p Value) Low() Value {
	switch p {
	case LONG_HI:
		return LONG_LO
	case DOUBLE_HI:
		return DOUBLE_LO
	}
	//
	panic("value " + p.String() + " has no low slot")
}

// Join combines two values arriving along different paths.  This is
// commutative and idempotent, with UNINITIALIZED as its identity and CONFLICT
// as its absorbing element.
func Join(lhs Value, rhs Value) Value {
	return joinTable[lhs.tag][rhs.tag]
}

func (p Value) String() string {
	return names[p.tag]
}
