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
package cmd

import (
	"testing"

	"github.com/consensys/go-bcverify/pkg/asm"
	"github.com/consensys/go-bcverify/pkg/bytecode/insn"
	"github.com/consensys/go-bcverify/pkg/util/assert"
	"github.com/consensys/go-bcverify/pkg/util/source"
)

func Test_Indent_00(t *testing.T) {
	assert.Equal(t, "", indent("add-long v0, v1, v2", 0))
}

func Test_Indent_01(t *testing.T) {
	assert.Equal(t, "    ", indent("add-long v0, v1, v2", 4))
}

func Test_Indent_02(t *testing.T) {
	assert.Equal(t, "\t\t ", indent("\t\tnop", 3))
}

func Test_Indent_03(t *testing.T) {
	// Indent cannot exceed the line
	assert.Equal(t, "   ", indent("nop", 10))
}

func Test_Bodies_00(t *testing.T) {
	var input = `.method static f(I)I
  .registers 1
  return p0
.end method
.method static g()V
  .registers 0
  return-void
.end method`
	//
	srcfile := source.NewSourceFile("test.dasm", []byte(input))
	methods, errs := asm.Parse(srcfile)
	assert.Equal(t, 0, len(errs))
	//
	bodies := bodiesOf(methods)
	assert.Equal(t, 2, len(bodies))
	assert.Equal(t, "f", bodies[0].Name)
	assert.Equal(t, "g", bodies[1].Name)
	assert.Equal(t, 1, len(bodies[0].Code))
}

func Test_Operands_00(t *testing.T) {
	assert.Equal(t, "w:long r:long r:long", operandsString(insn.MustLookup("add-long").Operands()))
	assert.Equal(t, "rw:int r:int", operandsString(insn.MustLookup("add-int/2addr").Operands()))
	assert.Equal(t, "", operandsString(insn.MustLookup("nop").Operands()))
}
