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
package report

import "fmt"

// Kind classifies the reason a method was rejected.
type Kind uint8

const (
	// REGISTER_OUT_OF_RANGE signals an operand (or the high slot of a wide
	// operand, or a branch target) which falls outside the method.
	REGISTER_OUT_OF_RANGE Kind = iota + 1
	// WIDE_REGISTER_MISALIGNMENT signals a wide operand which does not name
	// the low slot of a properly formed register pair.
	WIDE_REGISTER_MISALIGNMENT
	// TYPE_CATEGORY_MISMATCH signals an operand holding a value of the wrong
	// category or kind (e.g. a double where a long is required).
	TYPE_CATEGORY_MISMATCH
	// UNINITIALIZED_REGISTER_READ signals an operand which is read before
	// being written, or whilst holding conflicting values.
	UNINITIALIZED_REGISTER_READ
)

func (p Kind) String() string {
	switch p {
	case REGISTER_OUT_OF_RANGE:
		return "RegisterOutOfRange"
	case WIDE_REGISTER_MISALIGNMENT:
		return "WideRegisterMisalignment"
	case TYPE_CATEGORY_MISMATCH:
		return "TypeCategoryMismatch"
	case UNINITIALIZED_REGISTER_READ:
		return "UninitializedRegisterRead"
	}
	//
	return fmt.Sprintf("kind(%d)", uint8(p))
}

// Violation describes the first problem encountered whilst verifying a
// method, identifying the offending instruction by its index.
type Violation struct {
	Kind    Kind
	Index   uint
	Message string
}

// NewViolation constructs a violation of a given kind at a given instruction,
// with a formatted message.
func NewViolation(kind Kind, index uint, format string, args ...any) *Violation {
	return &Violation{kind, index, fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (p *Violation) Error() string {
	return fmt.Sprintf("%s at instruction %d: %s", p.Kind, p.Index, p.Message)
}
