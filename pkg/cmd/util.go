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

	"github.com/consensys/go-wick/pkg/parser"
	"github.com/consensys/go-wick/pkg/term"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or panic if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected unsigned integer flag, or panic if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string flag, or panic if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// ReadSessionFile parses a session file, reporting a suitable error and
// exiting on failure.
func ReadSessionFile(filename string) *parser.Session {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	session, err := parser.Parse(string(bytes))
	if err != nil {
		fmt.Printf("%s: %s\n", filename, err)
		os.Exit(2)
	}
	//
	return session
}

// ReadConvention maps the --statistics flag onto a commutation convention,
// exiting on an unknown name.
func ReadConvention(cmd *cobra.Command) term.Convention {
	name := GetString(cmd, "statistics")
	//
	switch name {
	case "fermi":
		return term.Fermi
	case "bose":
		return term.Bose
	default:
		fmt.Printf("unknown statistics %q (expected fermi or bose)\n", name)
		os.Exit(2)
	}
	// unreachable
	return term.Convention{}
}

// PrintTerms writes a list of terms in the input syntax, one per line.
func PrintTerms(terms []term.Term) {
	if len(terms) == 0 {
		fmt.Println("0")
		return
	}
	//
	for _, t := range terms {
		fmt.Println(t.String())
	}
}

// PrintDefinition writes a definition as "lhs =" followed by its terms.
func PrintDefinition(def term.Definition) {
	fmt.Printf("%s =\n", def.LHS.String())
	//
	for _, t := range def.Terms {
		fmt.Printf("  %s\n", t.String())
	}
}
