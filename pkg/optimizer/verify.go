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
package optimizer

import (
	"fmt"

	"github.com/consensys/go-wick/pkg/algebra"
	"github.com/consensys/go-wick/pkg/canon"
	"github.com/consensys/go-wick/pkg/term"
)

// Verify re-expands every intermediate of an optimized sequence into its
// consumers and checks term-for-term equality against the original targets.
// A false result means the sequence is untrustworthy and must not be used;
// the accompanying error pinpoints the first mismatch.  Structural problems
// (e.g. a target missing from the sequence) also surface as errors.
func Verify(original term.System, seq Sequence, reg *canon.Registry) (bool, error) {
	if len(seq.Targets) != len(original) {
		return false, fmt.Errorf("sequence has %d targets, expected %d", len(seq.Targets), len(original))
	}
	//
	env := make(map[string]term.Definition, len(seq.Intermediates))
	//
	for _, def := range seq.Intermediates {
		env[def.LHS.Base] = def
	}
	//
	var fresh int
	//
	for i, def := range original {
		rewritten := seq.Targets[i]
		//
		if rewritten.LHS.Base != def.LHS.Base {
			return false, fmt.Errorf("target %d is %s, expected %s", i, rewritten.LHS.Base, def.LHS.Base)
		}
		// Re-expand all intermediate references transitively.
		var expanded []term.Term
		//
		for _, t := range rewritten.Terms {
			expanded = append(expanded, inline(t, env, &fresh)...)
		}
		//
		lhs := canon.Merge(expanded, reg)
		rhs := canon.Merge(def.Terms, reg)
		//
		if err := equalTerms(def.LHS.Base, lhs, rhs); err != nil {
			return false, err
		}
	}
	//
	return true, nil
}

// inline substitutes intermediate definitions into a term until none remain,
// renaming each inlined body's dummies to fresh indices so they cannot
// capture indices of the host term.
func inline(t term.Term, env map[string]term.Definition, fresh *int) []term.Term {
	at := -1
	//
	for i, f := range t.Tensors {
		if _, ok := env[f.Base]; ok {
			at = i
			break
		}
	}
	//
	if at < 0 {
		return []term.Term{t}
	}
	//
	var (
		factor = t.Tensors[at]
		def    = env[factor.Base]
		host   = t.Clone()
		res    []term.Term
	)
	//
	host.Tensors = append(host.Tensors[:at], host.Tensors[at+1:]...)
	//
	for _, body := range def.Terms {
		u := freshen(body, fresh)
		// Bind the definition's external indices to the occurrence's
		// arguments.
		for i, ext := range def.LHS.Args {
			u = u.Substitute(ext, factor.Args[i])
		}
		//
		merged := term.New(
			host.Coeff.Mul(u.Coeff),
			host.Ops,
			append(append([]term.Tensor{}, host.Tensors...), u.Tensors...),
			append(append([]algebra.Index{}, host.Sums...), u.Sums...),
		)
		//
		res = append(res, inline(merged, env, fresh)...)
	}
	//
	return res
}

// freshen renames every summed index of a term to a globally fresh name.
func freshen(t term.Term, fresh *int) term.Term {
	var (
		res  = t.Clone()
		sums []algebra.Index
	)
	//
	for _, idx := range t.Sums {
		*fresh++
		to := algebra.NewIndex(fmt.Sprintf("!%d", *fresh), idx.Range)
		res = res.Substitute(idx, to)
		sums = append(sums, to)
	}
	//
	return term.New(res.Coeff, res.Ops, res.Tensors, sums)
}

// equalTerms checks two canonicalized, merged term lists agree exactly.
func equalTerms(name string, lhs, rhs []term.Term) error {
	if len(lhs) != len(rhs) {
		return fmt.Errorf("definition %s: re-expansion yields %d terms, expected %d", name, len(lhs), len(rhs))
	}
	// Both sides are sorted by canonical key.
	for i := range lhs {
		if canon.Key(lhs[i]) != canon.Key(rhs[i]) {
			return fmt.Errorf("definition %s: re-expanded term %s does not match %s",
				name, lhs[i].String(), rhs[i].String())
		}
		//
		if !lhs[i].Coeff.Equal(rhs[i].Coeff) {
			return fmt.Errorf("definition %s: term %s has coefficient %s, expected %s",
				name, lhs[i].String(), lhs[i].Coeff.String(), rhs[i].Coeff.String())
		}
	}
	//
	return nil
}
