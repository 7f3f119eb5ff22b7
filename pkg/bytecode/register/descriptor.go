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

import (
	"fmt"
	"strings"

	"github.com/consensys/go-bcverify/pkg/bytecode/lattice"
)

// FromDescriptor constructs the register file for a method with a given
// number of registers and a given method descriptor, such as "(JI)J".  Under
// the calling convention, incoming arguments occupy the highest numbered
// slots of the frame.  For instance (i.e. non-static) methods the receiver
// comes first, as a reference.  The declared return type is also returned.
func FromDescriptor(registers uint, static bool, descriptor string) (File, lattice.Type, error) {
	var params []lattice.Type
	//
	args, ret, err := ParseDescriptor(descriptor)
	if err != nil {
		return File{}, lattice.VOID, err
	}
	// Receiver
	if !static {
		params = append(params, lattice.REFERENCE)
	}
	//
	params = append(params, args...)
	// Determine number of incoming slots
	ins := uint(0)
	for _, p := range params {
		ins += p.Width()
	}
	//
	if ins > registers {
		return File{}, lattice.VOID, fmt.Errorf("descriptor %s requires %d registers (found %d)",
			descriptor, ins, registers)
	}
	// Allocate incoming slots
	var (
		slot  = registers - ins
		slots = make([]Param, len(params))
	)
	//
	for i, p := range params {
		slots[i] = NewParam(slot, p)
		slot += p.Width()
	}
	//
	file, err := NewFile(registers, slots...)
	//
	return file, ret, err
}

// ParseDescriptor splits a method descriptor into the types of its arguments
// and its return type.
func ParseDescriptor(descriptor string) ([]lattice.Type, lattice.Type, error) {
	var args []lattice.Type
	// Parse between ( and )
	start := strings.Index(descriptor, "(")
	end := strings.Index(descriptor, ")")
	//
	if start != 0 || end == -1 || end+1 >= len(descriptor) {
		return nil, lattice.VOID, fmt.Errorf("invalid method descriptor: %s", descriptor)
	}
	//
	params := descriptor[start+1 : end]
	//
	for i := 0; i < len(params); {
		typ, n, err := parseFieldType(params[i:])
		//
		if err != nil {
			return nil, lattice.VOID, fmt.Errorf("%s in %s", err.Error(), descriptor)
		} else if typ == lattice.VOID {
			return nil, lattice.VOID, fmt.Errorf("void parameter in %s", descriptor)
		}
		//
		args = append(args, typ)
		i += n
	}
	// Parse return type
	ret, n, err := parseFieldType(descriptor[end+1:])
	//
	if err != nil {
		return nil, lattice.VOID, fmt.Errorf("%s in %s", err.Error(), descriptor)
	} else if end+1+n != len(descriptor) {
		return nil, lattice.VOID, fmt.Errorf("trailing characters in %s", descriptor)
	}
	//
	return args, ret, nil
}

// Parse a single field type from the start of a given string, returning the
// type and the number of characters consumed.
func parseFieldType(text string) (lattice.Type, int, error) {
	var i = 0
	// Arrays: skip dimensions, then the element type
	for i < len(text) && text[i] == '[' {
		i++
	}
	//
	if i >= len(text) {
		return lattice.VOID, 0, fmt.Errorf("truncated type descriptor")
	}
	//
	typ, err := lattice.TypeOfDescriptor(text[i])
	//
	if err != nil {
		return lattice.VOID, 0, err
	} else if text[i] == 'L' {
		// Skip until ';'
		semi := strings.IndexByte(text[i:], ';')
		if semi == -1 {
			return lattice.VOID, 0, fmt.Errorf("unterminated class descriptor")
		}
		//
		i += semi
	}
	//
	if i > 0 && text[0] == '[' {
		if typ == lattice.VOID {
			return lattice.VOID, 0, fmt.Errorf("array of void")
		}
		// Arrays are references, regardless of their element type.
		typ = lattice.REFERENCE
	}
	//
	return typ, i + 1, nil
}
