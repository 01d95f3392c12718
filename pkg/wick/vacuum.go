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
package wick

import (
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/consensys/go-wick/pkg/bag"
	"github.com/consensys/go-wick/pkg/canon"
	"github.com/consensys/go-wick/pkg/term"
)

// Simplify rewrites a sum of terms into normal-ordered form, then
// canonicalizes and merges.  Expansion and canonicalization run
// term-parallel; merging is a grouped reduction over canonical keys.
func Simplify(terms []term.Term, conv term.Convention, reg *canon.Registry, partitions int) []term.Term {
	return reduce(expand(terms, conv, partitions, false), reg)
}

// VacuumExpectation evaluates the vacuum expectation value of a sum of
// terms.  Terms which retain uncontracted operator factors after normal
// ordering evaluate to zero and are discarded silently; in particular, any
// term with unmatched creation/annihilation parity vanishes.
func VacuumExpectation(terms []term.Term, conv term.Convention, reg *canon.Registry, partitions int) []term.Term {
	return reduce(expand(terms, conv, partitions, true), reg)
}

func expand(terms []term.Term, conv term.Convention, partitions int, vacuum bool) *bag.Bag {
	b := bag.New(terms, partitions)
	//
	b.FlatMap(func(t term.Term) []term.Term {
		expanded := NormalOrder(t, conv)
		//
		if !vacuum {
			return expanded
		}
		// Under the vacuum expectation, only fully contracted terms survive.
		var res []term.Term
		//
		for _, e := range expanded {
			if len(e.Ops) == 0 {
				res = append(res, e)
			}
		}
		//
		return res
	})
	//
	b.Materialize()
	//
	log.Debugf("normal ordering expanded %d terms into %d", len(terms), b.Size())
	//
	return b
}

func reduce(b *bag.Bag, reg *canon.Registry) []term.Term {
	b.Map(func(t term.Term) term.Term {
		return canon.Canonicalize(t, reg)
	})
	//
	merged := b.GroupReduce(canon.Key, func(l, r term.Term) term.Term {
		l.Coeff = l.Coeff.Add(r.Coeff)
		return l
	})
	// Drop terms whose coefficients cancelled, and fix the output order.
	var res []term.Term
	//
	for _, t := range merged {
		if !t.IsZero() {
			res = append(res, t)
		}
	}
	//
	slices.SortFunc(res, func(l, r term.Term) int {
		return strings.Compare(canon.Key(l), canon.Key(r))
	})
	//
	log.Debugf("merged %d terms into %d", b.Size(), len(res))
	//
	return res
}
