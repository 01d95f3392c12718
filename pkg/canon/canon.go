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
package canon

import (
	"fmt"
	"slices"
	"strings"

	"github.com/consensys/go-wick/pkg/algebra"
	"github.com/consensys/go-wick/pkg/term"
)

// Canonicalize computes the canonical representative of a term.  Two terms
// related by dummy relabelling (within ranges), by declared tensor
// symmetries, or by reordering of tensor factors amongst themselves map to
// the same representative; the sign accumulated from symmetry applications
// multiplies the coefficient.  Operator factor order is never changed.  A
// term which is symmetric onto its own negation (e.g. an antisymmetric
// tensor with both slots bound to one dummy) canonicalizes to coefficient
// zero.
func Canonicalize(t term.Term, reg *Registry) term.Term {
	res, _ := canonicalise(t, nil, reg)
	return res
}

// CanonicalizeFree canonicalizes a term whilst additionally relabelling the
// given free indices, which is how sub-contractions are compared across terms
// by the optimizer.  The returned mapping takes each free and each summed
// index to its canonical replacement.
func CanonicalizeFree(t term.Term, free []algebra.Index, reg *Registry) (term.Term, map[algebra.Index]algebra.Index) {
	return canonicalise(t, free, reg)
}

// Key returns the structural encoding of a term, excluding its coefficient.
// Terms sharing a key after canonicalization are mergeable.
func Key(t term.Term) string {
	return encode(t.Ops, t.Tensors, t.Sums)
}

// ============================================================================
// Minimal-representative search
// ============================================================================

func canonicalise(t term.Term, free []algebra.Index, reg *Registry) (term.Term, map[algebra.Index]algebra.Index) {
	var (
		summed  = make(map[algebra.Index]bool, len(t.Sums))
		freeSet = make(map[algebra.Index]bool, len(free))
	)
	//
	for _, idx := range t.Sums {
		summed[idx] = true
	}
	//
	for _, idx := range free {
		freeSet[idx] = true
	}
	// Stable base arrangement: factors sorted by shape, equal shapes kept in
	// original relative order.
	factors := slices.Clone(t.Tensors)
	slices.SortStableFunc(factors, func(l, r term.Tensor) int {
		return strings.Compare(l.ShapeKey(), r.ShapeKey())
	})
	//
	var (
		groups = shapeGroups(factors)
		syms   = make([][]Symmetry, len(factors))
		best   *candidate
		zero   bool
	)
	//
	for i, f := range factors {
		syms[i] = groupOf(f, reg)
	}
	// Enumerate reorderings within equal-shape groups, crossed with one
	// symmetry element per factor.  Both spaces are small by construction:
	// symmetry groups are expanded from explicit generators, and equal-shape
	// factor multiplicities are low in practice.
	forEachOrdering(groups, len(factors), func(order []int) {
		forEachChoice(syms, order, func(choice []int) {
			var (
				sign     = 1
				arranged = make([]term.Tensor, len(factors))
			)
			//
			for i, fi := range order {
				sym := syms[fi][choice[i]]
				arranged[i] = term.Tensor{Base: factors[fi].Base, Args: sym.Perm.Apply(factors[fi].Args)}
				sign *= sym.Sign
			}
			//
			cand := rename(t.Ops, arranged, summed, freeSet)
			cand.sign = sign
			//
			switch {
			case best == nil || cand.enc < best.enc:
				best, zero = &cand, false
			case cand.enc == best.enc && cand.sign != best.sign && agreesOnFree(cand.freeMap, best.freeMap, freeSet):
				zero = true
			}
		})
	})
	//
	res := term.New(t.Coeff, best.ops, best.tensors, best.sums)
	//
	switch {
	case zero:
		res.Coeff = algebra.Zero()
	case best.sign < 0:
		res.Coeff = res.Coeff.Neg()
	}
	//
	return res, best.freeMap
}

// agreesOnFree reports whether two relabellings send every free index to the
// same canonical name.  A sign flip reachable only by permuting free indices
// relates two distinct labelings of the term rather than annihilating it, so
// the vanishing check is restricted to relabellings fixing the free indices.
func agreesOnFree(l, r map[algebra.Index]algebra.Index, free map[algebra.Index]bool) bool {
	for idx := range free {
		if l[idx] != r[idx] {
			return false
		}
	}
	//
	return true
}

// candidate holds one fully arranged and relabelled rendition of a term.
type candidate struct {
	ops     []term.Op
	tensors []term.Tensor
	sums    []algebra.Index
	freeMap map[algebra.Index]algebra.Index
	enc     string
	sign    int
}

// rename relabels dummies (and designated free indices) by first-appearance
// order within each range, walking operators first (their order is fixed) and
// then the arranged tensor factors.
func rename(ops []term.Op, tensors []term.Tensor, summed, free map[algebra.Index]bool) candidate {
	var (
		mapping  = make(map[algebra.Index]algebra.Index)
		freeMap  = make(map[algebra.Index]algebra.Index)
		counters = make(map[string]int)
	)
	//
	relabel := func(idx algebra.Index) algebra.Index {
		if to, ok := mapping[idx]; ok {
			return to
		}
		//
		var to algebra.Index
		//
		switch {
		case summed[idx]:
			n := counters["#"+idx.Range.Name]
			counters["#"+idx.Range.Name] = n + 1
			to = algebra.NewIndex(fmt.Sprintf("%s#%d", idx.Range.Name, n), idx.Range)
			freeMap[idx] = to
		case free[idx]:
			n := counters["~"+idx.Range.Name]
			counters["~"+idx.Range.Name] = n + 1
			to = algebra.NewIndex(fmt.Sprintf("%s~%d", idx.Range.Name, n), idx.Range)
			freeMap[idx] = to
		default:
			to = idx
		}
		//
		mapping[idx] = to
		//
		return to
	}
	//
	rops := make([]term.Op, len(ops))
	//
	for i, op := range ops {
		rops[i] = term.Op{Kind: op.Kind, Index: relabel(op.Index)}
	}
	//
	rtensors := make([]term.Tensor, len(tensors))
	//
	for i, f := range tensors {
		args := make([]algebra.Index, len(f.Args))
		//
		for j, arg := range f.Args {
			args[j] = relabel(arg)
		}
		//
		rtensors[i] = term.Tensor{Base: f.Base, Args: args}
	}
	//
	var sums []algebra.Index
	//
	for idx := range summed {
		sums = append(sums, mapping[idx])
	}
	//
	slices.SortFunc(sums, algebra.Index.Cmp)
	//
	return candidate{rops, rtensors, sums, freeMap, encode(rops, rtensors, sums), 1}
}

// encode produces a deterministic structural encoding of a term, used both
// for the minimality comparison and as the merge key.
func encode(ops []term.Op, tensors []term.Tensor, sums []algebra.Index) string {
	var builder strings.Builder
	//
	for _, op := range ops {
		builder.WriteString(op.Kind.String())
		builder.WriteString("(")
		writeIndex(&builder, op.Index)
		builder.WriteString(")")
	}
	//
	builder.WriteString("|")
	//
	for _, f := range tensors {
		builder.WriteString(f.Base)
		builder.WriteString("(")
		//
		for _, arg := range f.Args {
			writeIndex(&builder, arg)
			builder.WriteString(",")
		}
		//
		builder.WriteString(")")
	}
	//
	builder.WriteString("|")
	//
	for _, idx := range sums {
		writeIndex(&builder, idx)
		builder.WriteString(",")
	}
	//
	return builder.String()
}

func writeIndex(builder *strings.Builder, idx algebra.Index) {
	builder.WriteString(idx.Name)
	builder.WriteString("@")
	builder.WriteString(idx.Range.Name)
}

// groupOf returns the symmetry group attached to a factor occurrence.
// Kronecker deltas are symmetric without requiring a declaration, since
// they only ever arise over a single range.
func groupOf(f term.Tensor, reg *Registry) []Symmetry {
	if f.Base == term.DeltaBase && f.Rank() == 2 {
		return []Symmetry{{Perm{0, 1}, 1}, {Perm{1, 0}, 1}}
	}
	//
	return reg.Group(f.Base, f.Rank())
}

// shapeGroups identifies runs of factors sharing a shape key within a sorted
// factor list, returned as (start, end) pairs.
func shapeGroups(factors []term.Tensor) [][2]int {
	var res [][2]int
	//
	for i := 0; i < len(factors); {
		j := i + 1
		//
		for j < len(factors) && factors[j].ShapeKey() == factors[i].ShapeKey() {
			j++
		}
		//
		res = append(res, [2]int{i, j})
		i = j
	}
	//
	return res
}

// forEachOrdering enumerates every arrangement of n factor positions obtained
// by permuting factors within each equal-shape group.
func forEachOrdering(groups [][2]int, n int, fn func([]int)) {
	order := make([]int, n)
	//
	for i := range order {
		order[i] = i
	}
	//
	var recurse func(g int)
	//
	recurse = func(g int) {
		if g == len(groups) {
			fn(order)
			return
		}
		//
		lo, hi := groups[g][0], groups[g][1]
		permuteRange(order, lo, hi, func() { recurse(g + 1) })
	}
	//
	recurse(0)
}

// permuteRange enumerates in-place permutations of order[lo:hi], restoring
// the original arrangement before returning.
func permuteRange(order []int, lo, hi int, fn func()) {
	if lo >= hi-1 {
		fn()
		return
	}
	//
	for i := lo; i < hi; i++ {
		order[lo], order[i] = order[i], order[lo]
		permuteRange(order, lo+1, hi, fn)
		order[lo], order[i] = order[i], order[lo]
	}
}

// forEachChoice enumerates one symmetry element per factor, odometer style.
func forEachChoice(syms [][]Symmetry, order []int, fn func([]int)) {
	choice := make([]int, len(order))
	//
	for {
		fn(choice)
		// Advance odometer
		i := 0
		//
		for ; i < len(choice); i++ {
			choice[i]++
			if choice[i] < len(syms[order[i]]) {
				break
			}
			//
			choice[i] = 0
		}
		//
		if i == len(choice) {
			return
		}
	}
}
