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
	"fmt"
	"strings"

	"github.com/consensys/go-bcverify/pkg/bytecode/insn"
	"github.com/spf13/cobra"
)

// opcodesCmd represents the opcodes command
var opcodesCmd = &cobra.Command{
	Use:   "opcodes [flags]",
	Short: "List the instructions understood by the verifier.",
	Long: `List every instruction mnemonic understood by the assembler and
	verifier, along with its family and the registers it reads (r) and
	writes (w).`,
	Run: func(cmd *cobra.Command, args []string) {
		family := GetString(cmd, "family")
		//
		for _, op := range insn.Opcodes() {
			if family == "" || strings.EqualFold(family, op.Family().String()) {
				fmt.Printf("%-24s %-14s %s\n", op.Name(), op.Family(), operandsString(op.Operands()))
			}
		}
	},
}

func operandsString(operands []insn.Operand) string {
	var builder strings.Builder
	//
	for i, operand := range operands {
		if i != 0 {
			builder.WriteString(" ")
		}
		//
		switch operand.Mode {
		case insn.USE:
			builder.WriteString("r:")
		case insn.DEF:
			builder.WriteString("w:")
		default:
			builder.WriteString("rw:")
		}
		//
		builder.WriteString(operand.Constraint.String())
	}
	//
	return builder.String()
}

func init() {
	rootCmd.AddCommand(opcodesCmd)
	opcodesCmd.Flags().String("family", "", "only list opcodes of the given family (e.g. binary)")
}
