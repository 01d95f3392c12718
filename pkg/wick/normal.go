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

// Package wick implements the algebraic simplification engine: rewriting of
// operator products into normal order under a commutation convention, with
// Wick contractions, and evaluation of vacuum expectation values.
package wick

import (
	"slices"
	"strconv"

	"github.com/consensys/go-wick/pkg/algebra"
	"github.com/consensys/go-wick/pkg/term"
)

// NormalOrder rewrites a single term into an equivalent sum of normal-ordered
// terms.  The rewrite is driven by an explicit worklist rather than
// recursion: each out-of-order adjacent operator pair spawns the swapped term
// (times the rule sign) plus, when the rule contracts, a term with both
// operators removed and their indices identified.  Termination holds because
// each rewrite strictly decreases either the inversion count (swap branch) or
// the operator count (contraction branch).
func NormalOrder(t term.Term, conv term.Convention) []term.Term {
	var (
		worklist = []term.Term{t}
		done     []term.Term
	)
	//
	for len(worklist) > 0 {
		n := len(worklist) - 1
		cur := worklist[n]
		worklist = worklist[:n]
		//
		i := firstInversion(cur.Ops, conv)
		if i < 0 {
			done = append(done, cur)
			continue
		}
		//
		rule, _ := conv.Rewrite(cur.Ops[i].Kind, cur.Ops[i+1].Kind)
		// Swap branch
		swapped := cur.Clone()
		swapped.Ops[i], swapped.Ops[i+1] = swapped.Ops[i+1], swapped.Ops[i]
		//
		if rule.Sign < 0 {
			swapped.Coeff = swapped.Coeff.Neg()
		}
		//
		worklist = append(worklist, swapped)
		// Contraction branch
		if rule.Contracts {
			if ct, ok := contract(cur, i); ok {
				worklist = append(worklist, ct)
			}
		}
	}
	//
	return done
}

// firstInversion returns the position of the leftmost adjacent operator pair
// which is out of normal order under the given convention, or -1.
func firstInversion(ops []term.Op, conv term.Convention) int {
	for i := 0; i+1 < len(ops); i++ {
		if _, ok := conv.Rewrite(ops[i].Kind, ops[i+1].Kind); ok {
			return i
		}
	}
	//
	return -1
}

// contract removes the adjacent operator pair at position i, identifying the
// two indices via a Kronecker delta.  Indices over different ranges make the
// delta vanish, killing the branch.  A dummy index is substituted away; two
// external indices leave an explicit delta factor.  Summations left without
// any occurrence afterwards contribute a factor of their range size.
func contract(t term.Term, i int) (term.Term, bool) {
	var (
		left  = t.Ops[i].Index
		right = t.Ops[i+1].Index
	)
	//
	if left.Range != right.Range {
		return term.Term{}, false
	}
	//
	res := t.Clone()
	res.Ops = slices.Delete(res.Ops, i, i+2)
	//
	switch {
	case left == right:
		// delta of an index with itself is one
	case t.IsSummed(left):
		res = res.Substitute(left, right)
	case t.IsSummed(right):
		res = res.Substitute(right, left)
	default:
		res.Tensors = append(res.Tensors, term.NewDelta(left, right))
	}
	// A summation whose index no longer occurs anywhere sums a constant, so
	// it collapses to a factor of the range size.
	for _, idx := range slices.Clone(res.Sums) {
		if !res.Occurs(idx) {
			res.Coeff = res.Coeff.Mul(sizeExpr(idx.Range))
			//
			if j, ok := slices.BinarySearchFunc(res.Sums, idx, algebra.Index.Cmp); ok {
				res.Sums = slices.Delete(res.Sums, j, j+1)
			}
		}
	}
	//
	return res, true
}

// sizeExpr returns the scalar expression for the size of a range, preferring
// a concrete value when the declared size is a decimal literal.
func sizeExpr(r algebra.Range) algebra.Expr {
	if v, err := strconv.ParseInt(r.SizeSymbol(), 10, 64); err == nil {
		return algebra.Int(v)
	}
	//
	return algebra.Symbol(r.SizeSymbol())
}
