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

	"github.com/consensys/go-wick/pkg/wick"
)

var simplifyCmd = &cobra.Command{
	Use:   "simplify [flags] session_file",
	Short: "normal order and canonically simplify expressions.",
	Long: `Rewrite the expressions of a session file into normal order, then merge
	 equivalent terms under dummy relabelling and declared tensor symmetries.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		conv := ReadConvention(cmd)
		partitions := int(GetUint(cmd, "partitions"))
		session := ReadSessionFile(args[0])
		//
		if len(session.Exprs) == 0 {
			fmt.Println("session declares no expressions")
			os.Exit(2)
		}
		//
		PrintTerms(wick.Simplify(session.Exprs, conv, session.Registry, partitions))
	},
}

func init() {
	rootCmd.AddCommand(simplifyCmd)
}
