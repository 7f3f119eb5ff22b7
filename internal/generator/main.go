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
package main

import (
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/consensys/bavard"
)

const copyrightHolder = "Consensys Software Inc."

// The abstract register values, in the order of their tags.  Observe that
// this must be kept in sync with pkg/bytecode/lattice/value.go.
var values = []string{
	"UNINITIALIZED",
	"INT_VALUE",
	"FLOAT_VALUE",
	"REFERENCE_VALUE",
	"LONG_LO",
	"LONG_HI",
	"DOUBLE_LO",
	"DOUBLE_HI",
	"CONFLICT",
}

const (
	bottom = "UNINITIALIZED"
	top    = "CONFLICT"
)

type joinConfig struct {
	Values []string
	Table  [][]string
}

//go:generate go run main.go
func main() {
	bgen := bavard.NewBatchGenerator(copyrightHolder, 2025, "go-bcverify")
	//
	assertNoError(bgen.Generate(joinTable(), "lattice", "templates",
		bavard.Entry{
			File:      "../../pkg/bytecode/lattice/join_table.go",
			Templates: []string{"join_table.go.tmpl"},
		},
	), "for join table")
	// run gofmt on generated file
	runCmd("gofmt", "-w", "../../pkg/bytecode/lattice/join_table.go")
}

// Construct the join table.  Joining with bottom yields the other value,
// joining a value with itself yields that value and everything else
// conflicts.
func joinTable() joinConfig {
	table := make([][]string, len(values))
	//
	for i, lhs := range values {
		table[i] = make([]string, len(values))
		//
		for j, rhs := range values {
			switch {
			case lhs == bottom:
				table[i][j] = rhs
			case rhs == bottom, lhs == rhs:
				table[i][j] = lhs
			default:
				table[i][j] = top
			}
		}
	}
	//
	return joinConfig{values, table}
}

func runCmd(name string, arg ...string) {
	fmt.Println(name, strings.Join(arg, " "))
	cmd := exec.Command(name, arg...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	assertNoError(cmd.Run(), "")
}

func assertNoError(err error, contextAndArgs ...any) {
	if err != nil {
		msg := err.Error()

		if len(contextAndArgs) > 0 {
			allArgs := append(slices.Clone(contextAndArgs[1:]), err)
			msg = fmt.Sprintf(contextAndArgs[0].(string)+": %v", allArgs...)
		}

		fmt.Println(msg)
		os.Exit(1)
	}
}
