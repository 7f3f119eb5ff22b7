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
package register

import "fmt"

// Id captures the notion of a register slot index.  That is, every register
// in a method's frame is allocated an index starting from 0.  The purpose of
// the wrapper is to avoid confusion between uint values and things which are
// expected to identify register slots.
type Id struct {
	index uint
}

// NewId constructs a new register ID from a given raw index.
func NewId(index uint) Id {
	return Id{index}
}

// Unwrap returns the underlying slot index.
func (p Id) Unwrap() uint {
	return p.index
}

// Next returns the slot immediately following this one.  For a wide value
// held in this register, this identifies the slot holding its continuation.
func (p Id) Next() Id {
	return Id{p.index + 1}
}

func (p Id) String() string {
	return fmt.Sprintf("v%d", p.index)
}

// Ids is a convenience function for constructing a list of register
// identifiers from raw indices.
func Ids(indices ...uint) []Id {
	ids := make([]Id, len(indices))
	//
	for i, index := range indices {
		ids[i] = NewId(index)
	}
	//
	return ids
}
