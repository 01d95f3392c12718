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

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/consensys/go-wick/pkg/graph"
	"github.com/consensys/go-wick/pkg/optimizer"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize [flags] session_file",
	Short: "factor a definition system into a cheap evaluation sequence.",
	Long: `Search the tensor definitions of a session file for repeated sub-contractions,
	 factoring them out into intermediate tensors so that the overall leading-order
	 evaluation cost never increases.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		session := ReadSessionFile(args[0])
		//
		sys, err := session.System()
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		cfg := optimizer.Config{
			MaxIterations: GetUint(cmd, "max-iterations"),
			Prefix:        GetString(cmd, "prefix"),
		}
		//
		seq, err := optimizer.Optimize(sys, session.Order, session.Registry, cfg)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		if !GetFlag(cmd, "no-verify") {
			if ok, err := optimizer.Verify(sys, seq, session.Registry); !ok {
				fmt.Printf("verification failed: %s\n", err)
				os.Exit(1)
			}
		}
		//
		for _, def := range seq.Definitions() {
			PrintDefinition(def)
		}
		//
		before := graph.SystemCost(sys, session.Order)
		after := seq.Cost(session.Order)
		fmt.Printf("cost %s -> %s (%d intermediates)\n",
			before.String(session.Order), after.String(session.Order), len(seq.Intermediates))
	},
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(optimizeCmd)
	optimizeCmd.Flags().Uint("max-iterations", 0, "bound the number of intermediates (0 = unbounded)")
	optimizeCmd.Flags().String("prefix", "tau", "naming prefix for intermediates")
	optimizeCmd.Flags().Bool("no-verify", false, "skip symbolic verification of the result")
}
