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
package bytecode

import (
	"fmt"
	"strings"

	"github.com/consensys/go-bcverify/pkg/bytecode/insn"
	"github.com/consensys/go-bcverify/pkg/bytecode/lattice"
	"github.com/consensys/go-bcverify/pkg/bytecode/register"
)

// Method is the unit of verification.  It consists of an already-decoded
// instruction list, along with the shape of the register file on entry and
// the declared return type.
type Method struct {
	// Name of this method (used only for reporting).
	Name string
	// Register file shape, including incoming parameters.
	Registers register.File
	// Declared return type (VOID for none).
	Returns lattice.Type
	// Instructions making up the method body.
	Code []insn.Instruction
}

// NewMethod constructs a new method from its components.
func NewMethod(name string, registers register.File, returns lattice.Type, code ...insn.Instruction) Method {
	return Method{name, registers, returns, code}
}

func (p *Method) String() string {
	var builder strings.Builder
	//
	builder.WriteString(fmt.Sprintf("%s%s %s\n", p.Name, p.Registers.String(), p.Returns.String()))
	//
	for pc := range p.Code {
		builder.WriteString(fmt.Sprintf("\t%d: %s\n", pc, p.Code[pc].String()))
	}
	//
	return builder.String()
}
