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

// Param describes an incoming parameter of a method, which is assigned on
// entry to the given slot (and the following slot for wide types).
type Param struct {
	Slot Id
	Type lattice.Type
}

// NewParam constructs a new parameter of the given type at a given slot.
func NewParam(slot uint, typ lattice.Type) Param {
	return Param{NewId(slot), typ}
}

func (p Param) String() string {
	return fmt.Sprintf("%s:%s", p.Slot, p.Type)
}

// File describes the shape of a method's register file.  This is fixed for
// the lifetime of a method, and identifies the total number of register slots
// available along with the slots assigned to incoming parameters.
type File struct {
	size   uint
	params []Param
}

// NewFile constructs a register file of a given size, containing the given
// parameters.  An error is returned if any parameter does not fit within the
// register file, or two parameters overlap.
func NewFile(size uint, params ...Param) (File, error) {
	var used = make([]bool, size)
	//
	for _, p := range params {
		var (
			start = p.Slot.Unwrap()
			width = p.Type.Width()
		)
		//
		if width == 0 {
			return File{}, fmt.Errorf("parameter %s cannot have void type", p.Slot)
		} else if start+width > size {
			return File{}, fmt.Errorf("parameter %s out of range (%d registers)", p, size)
		}
		//
		for i := start; i < start+width; i++ {
			if used[i] {
				return File{}, fmt.Errorf("parameter %s overlaps another parameter", p)
			}
			//
			used[i] = true
		}
	}
	//
	return File{size, params}, nil
}

// MustNewFile constructs a register file, panicking if it is malformed.
// This is primarily useful for tests.
func MustNewFile(size uint, params ...Param) File {
	file, err := NewFile(size, params...)
	//
	if err != nil {
		panic(err.Error())
	}
	//
	return file
}

// Size returns the number of register slots in this file.
func (p File) Size() uint {
	return p.size
}

// Params returns the incoming parameters of this file.
func (p File) Params() []Param {
	return p.params
}

// InRange determines whether a given register lies within this file.
func (p File) InRange(reg Id) bool {
	return reg.Unwrap() < p.size
}

func (p File) String() string {
	var builder strings.Builder
	//
	builder.WriteString(fmt.Sprintf("[%d](", p.size))
	//
	for i, param := range p.params {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(param.String())
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}
