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
package asm

import (
	"path/filepath"
	"testing"

	"github.com/consensys/go-bcverify/pkg/util/source"
	"github.com/consensys/go-bcverify/pkg/verifier"
)

// Determines the (relative) location of the test directory.  That is where
// the assembly files used for testing are located.
const TestDir = "../../testdata/dasm"

func Test_Dasm_AddLong(t *testing.T) {
	check_Dasm(t, "add_long", map[string]string{
		"addLong":           "Verified",
		"addLongThreeAddr":  "Verified",
		"addLongInt":        "Rejected(WideRegisterMisalignment, 1)",
		"addLongFloat":      "Rejected(TypeCategoryMismatch, 2)",
		"addLongObject":     "Rejected(TypeCategoryMismatch, 2)",
		"addLongDouble":     "Rejected(TypeCategoryMismatch, 0)",
		"addLongThis":       "Verified",
		"addLongOutOfRange": "Rejected(RegisterOutOfRange, 0)",
	})
}

func Test_Dasm_Control(t *testing.T) {
	check_Dasm(t, "control", map[string]string{
		"sum":      "Verified",
		"choose":   "Verified",
		"mixed":    "Rejected(UninitializedRegisterRead, 3)",
		"dead":     "Verified",
		"select":   "Rejected(UninitializedRegisterRead, 6)",
		"loopType": "Rejected(UninitializedRegisterRead, 1)",
	})
}

func Test_Dasm_Objects(t *testing.T) {
	check_Dasm(t, "objects", map[string]string{
		"length":        "Verified",
		"element":       "Verified",
		"cast":          "Verified",
		"create":        "Verified",
		"name":          "Verified",
		"throwInt":      "Rejected(TypeCategoryMismatch, 0)",
		"returnNumber":  "Rejected(TypeCategoryMismatch, 0)",
		"uninitialised": "Rejected(UninitializedRegisterRead, 1)",
	})
}

// Assemble every method in a given test file, and check its verification
// outcome.
func check_Dasm(t *testing.T, name string, expected map[string]string) {
	t.Helper()
	//
	files, err := source.ReadFiles(filepath.Join(TestDir, name+".dasm"))
	if err != nil {
		t.Fatal(err)
	}
	//
	methods, errs := Parse(&files[0])
	if len(errs) > 0 {
		t.Fatalf("%s: %s", name, errs[0].Error())
	} else if len(methods) != len(expected) {
		t.Fatalf("%s: found %d methods, expected %d", name, len(methods), len(expected))
	}
	//
	for _, m := range methods {
		actual := verifier.Verify(m.Method).String()
		//
		if exp, ok := expected[m.Name]; !ok {
			t.Errorf("%s: unexpected method %s", name, m.Name)
		} else if actual != exp {
			t.Errorf("%s: method %s gave %s, expected %s", name, m.Name, actual, exp)
		}
	}
}
