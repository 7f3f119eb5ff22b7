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
	"os"

	"github.com/consensys/go-bcverify/pkg/bytecode/cfg"
	"github.com/consensys/go-bcverify/pkg/util/termio"
	"github.com/spf13/cobra"
)

// cfgCmd represents the cfg command
var cfgCmd = &cobra.Command{
	Use:   "cfg [flags] file1.dasm file2.dasm ...",
	Short: "Print the control-flow graph of methods written in assembly language.",
	Long: `Assemble each method found in the given source files and print the
	basic blocks which make up its control-flow graph, along with the edges
	between them.  Blocks not reachable from the entry are marked.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		colour := GetFlag(cmd, "ansi-escapes") && termio.IsTerminal(os.Stdout)
		code := GetFlag(cmd, "code")
		methods := AssembleSourceFiles(args)
		failed := false
		//
		for _, m := range methods {
			title := termio.Colour(m.Name, termio.BoldAnsiEscape(), colour)
			fmt.Printf("%s:%s\n", m.File.Filename(), title)
			//
			if code {
				fmt.Print(m.Method.String())
			}
			//
			graph, err := cfg.Build(m.Code, m.Registers)
			//
			if err != nil {
				failed = true
				//
				printSyntaxError(m.Error(err.Index, err.Message))
			} else {
				fmt.Println(graph.String())
				printUnreachable(&graph)
			}
			//
			fmt.Println()
		}
		//
		if failed {
			os.Exit(5)
		}
	},
}

// Identify any blocks which cannot be reached from the entry block, and so
// are never checked by the verifier.
func printUnreachable(graph *cfg.Graph) {
	var (
		reachable = graph.Reachable()
		dead      []uint
	)
	//
	for i, n := uint(0), graph.Blocks(); i < n; i++ {
		if !reachable.Contains(i) {
			dead = append(dead, i)
		}
	}
	//
	if len(dead) > 0 {
		fmt.Printf("unreachable: %v\n", dead)
	}
}

func init() {
	rootCmd.AddCommand(cfgCmd)
	cfgCmd.Flags().Bool("ansi-escapes", true, "specify whether to allow ANSI escapes or not (e.g. for colour reports)")
	cfgCmd.Flags().Bool("code", false, "print the instructions of each method as well")
}
