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
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/consensys/go-bcverify/pkg/asm"
	"github.com/consensys/go-bcverify/pkg/bytecode"
	"github.com/consensys/go-bcverify/pkg/util"
	"github.com/consensys/go-bcverify/pkg/util/termio"
	"github.com/consensys/go-bcverify/pkg/verifier"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify [flags] file1.dasm file2.dasm ...",
	Short: "Verify one or more methods written in assembly language.",
	Long: `Assemble and then statically verify every method found in the given
	source files.  For each method, either "verified" is reported or the first
	violation found, along with the instruction responsible.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		config := verifier.DefaultConfig()
		config.Workers = GetUint(cmd, "workers")
		config.Timeout = GetDuration(cmd, "timeout")
		config.Cache = GetFlag(cmd, "cache")
		colour := GetFlag(cmd, "ansi-escapes") && termio.IsTerminal(os.Stdout)
		quiet := GetFlag(cmd, "quiet")
		//
		stats := util.NewPerfStats()
		// Assemble source files
		methods := AssembleSourceFiles(args)
		//
		stats.Log("Assembling source files")
		// Verify them all
		stats = util.NewPerfStats()
		//
		reports, err := verifier.New(config).VerifyAll(context.Background(), bodiesOf(methods))
		//
		if err != nil {
			fmt.Println(err)
			os.Exit(3)
		}
		//
		stats.Log(fmt.Sprintf("Verifying %d methods", len(methods)))
		// Report outcomes
		failed := 0
		//
		for i, rep := range reports {
			if rep.IsVerified() {
				if !quiet {
					printVerified(&methods[i], colour)
				}
			} else {
				failed++
				printRejected(&methods[i], rep.Index(), rep.Message(), colour)
			}
		}
		//
		log.Debugf("%d of %d methods verified", len(methods)-failed, len(methods))
		//
		if failed > 0 {
			os.Exit(5)
		}
	},
}

func bodiesOf(methods []asm.Method) []bytecode.Method {
	bodies := make([]bytecode.Method, len(methods))
	//
	for i := range methods {
		bodies[i] = methods[i].Method
	}
	//
	return bodies
}

func printVerified(method *asm.Method, colour bool) {
	ok := termio.Colour("verified", termio.BoldAnsiEscape().FgColour(termio.TERM_GREEN), colour)
	fmt.Printf("%s:%s %s\n", method.File.Filename(), method.Name, ok)
}

func printRejected(method *asm.Method, index uint, msg string, colour bool) {
	fail := termio.Colour("rejected", termio.BoldAnsiEscape().FgColour(termio.TERM_RED), colour)
	fmt.Printf("%s:%s %s\n", method.File.Filename(), method.Name, fail)
	printSyntaxError(method.Error(index, msg))
	fmt.Println()
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().Uint("workers", uint(runtime.NumCPU()), "number of methods to verify concurrently")
	verifyCmd.Flags().Duration("timeout", 0, "maximum time to spend on any one method (0 means unbounded)")
	verifyCmd.Flags().Bool("cache", true, "reuse reports for identical methods")
	verifyCmd.Flags().Bool("ansi-escapes", true, "specify whether to allow ANSI escapes or not (e.g. for colour reports)")
	verifyCmd.Flags().BoolP("quiet", "q", false, "only report methods which fail verification")
}
