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
	"io"
	"os"

	"github.com/consensys/go-semgus/pkg/semgus"
	"github.com/consensys/go-semgus/pkg/util/source"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] problem_file(s)",
	Short: "compile SemGuS problem file(s) into constrained Horn clauses.",
	Long: `Compile a given set of SemGuS problem file(s) into a single system of
	 constrained Horn clauses suitable for handing to a fixedpoint solver.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		if len(args) == 0 {
			fmt.Println("expected one or more problem files")
			os.Exit(2)
		}
		//
		output := GetString(cmd, "output")
		// Read problem files
		srcfiles, err := source.ReadFiles(args...)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		// Compile them as one unit
		system, diags := semgus.CompileSourceFiles(srcfiles)
		// Check for diagnostics
		if len(diags) != 0 {
			for i := range diags {
				printDiagnostic(&diags[i])
			}
			//
			os.Exit(1)
		}
		// Write out the clause system
		var out io.Writer = os.Stdout
		//
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				fmt.Println(err)
				os.Exit(2)
			}
			//
			defer f.Close()
			//
			out = f
		}
		//
		if err := system.Write(out); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringP("output", "o", "", "write clauses to a given file (defaults to stdout)")
}
