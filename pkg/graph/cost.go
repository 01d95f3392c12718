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
package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/consensys/go-wick/pkg/algebra"
	"github.com/consensys/go-wick/pkg/term"
)

// Cost represents the leading-order operation count of a contraction as a
// monomial in range sizes: an exponent per range name, where the exponent is
// the number of distinct indices of that range touched by the contraction.
type Cost map[string]uint

// Degree returns the total degree of this cost monomial.
func (p Cost) Degree() uint {
	total := uint(0)
	//
	for _, e := range p {
		total += e
	}
	//
	return total
}

// Compare two cost monomials under a declared range-size ordering: first by
// total degree, then by the exponents of the ranges taken largest first (a
// higher power of an asymptotically larger range dominates).
func Compare(l, r Cost, order algebra.Order) int {
	if c := int(l.Degree()) - int(r.Degree()); c != 0 {
		return c
	}
	//
	for _, name := range rangeNames(l, r, order) {
		if c := int(l[name]) - int(r[name]); c != 0 {
			return c
		}
	}
	//
	return 0
}

// String renders this cost with ranges taken largest first, e.g. "v^4*o^2".
func (p Cost) String(order algebra.Order) string {
	var parts []string
	//
	for _, name := range rangeNames(p, nil, order) {
		if e := p[name]; e == 1 {
			parts = append(parts, sizeName(name, order))
		} else if e > 1 {
			parts = append(parts, fmt.Sprintf("%s^%d", sizeName(name, order), e))
		}
	}
	//
	if len(parts) == 0 {
		return "1"
	}
	//
	return strings.Join(parts, "*")
}

// TermSteps estimates the direct evaluation cost of a term as a sequence of
// pairwise array contractions, folding the factors in left to right.  Each
// step loops over every index live at that point; a summed index retires once
// its last factor has been absorbed.  Terms with fewer than two tensor
// factors evaluate in a single step over all their indices.
func TermSteps(t term.Term) []Cost {
	if len(t.Tensors) < 2 {
		return []Cost{indexCost(t.Indices())}
	}
	// Occurrences left per index across the factors.  Operator indices stay
	// live throughout, so they carry a floor of one occurrence.
	remaining := make(map[algebra.Index]int)
	//
	for _, f := range t.Tensors {
		for _, arg := range f.Args {
			remaining[arg]++
		}
	}
	//
	live := make(map[algebra.Index]bool)
	//
	for _, op := range t.Ops {
		remaining[op.Index]++
		live[op.Index] = true
	}
	//
	absorb := func(f term.Tensor) {
		for _, arg := range f.Args {
			live[arg] = true
			remaining[arg]--
		}
	}
	//
	absorb(t.Tensors[0])
	//
	steps := make([]Cost, 0, len(t.Tensors)-1)
	//
	for _, f := range t.Tensors[1:] {
		absorb(f)
		//
		step := make(Cost)
		//
		for idx := range live {
			step[idx.Range.Name]++
		}
		//
		steps = append(steps, step)
		//
		for idx := range live {
			if remaining[idx] == 0 && t.IsSummed(idx) {
				delete(live, idx)
			}
		}
	}
	//
	return steps
}

// TermCost returns the most expensive step of a term's direct evaluation.
func TermCost(t term.Term, order algebra.Order) Cost {
	var res Cost
	//
	for _, step := range TermSteps(t) {
		if res == nil || Compare(step, res, order) > 0 {
			res = step
		}
	}
	//
	return res
}

func indexCost(indices []algebra.Index) Cost {
	res := make(Cost)
	//
	for _, idx := range indices {
		res[idx.Range.Name]++
	}
	//
	return res
}

// Leading summarises a set of costs by its leading-order monomial and the
// number of terms attaining it.
type Leading struct {
	Cost  Cost
	Count uint
}

// String renders e.g. "3*v^4*o^2".
func (p Leading) String(order algebra.Order) string {
	return fmt.Sprintf("%d*%s", p.Count, p.Cost.String(order))
}

// LessEqual checks whether this leading-order cost is no worse than another:
// either a strictly smaller monomial, or the same monomial attained by no
// more terms.
func (p Leading) LessEqual(other Leading, order algebra.Order) bool {
	if c := Compare(p.Cost, other.Cost, order); c != 0 {
		return c < 0
	}
	//
	return p.Count <= other.Count
}

// SystemCost computes the leading-order cost of evaluating every definition
// of a system directly, accounting each pairwise contraction step of each
// term.
func SystemCost(sys term.System, order algebra.Order) Leading {
	var res Leading
	//
	for _, def := range sys {
		for _, t := range def.Terms {
			for _, cost := range TermSteps(t) {
				switch c := Compare(cost, res.Cost, order); {
				case res.Count == 0 || c > 0:
					res = Leading{cost, 1}
				case c == 0:
					res.Count++
				}
			}
		}
	}
	//
	return res
}

// rangeNames returns the union of range names of two costs, ordered largest
// first per the declared ordering, with undeclared ranges last by name.
func rangeNames(l, r Cost, order algebra.Order) []string {
	seen := make(map[string]bool)
	//
	var names []string
	//
	for name := range l {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	//
	for name := range r {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	//
	slices.SortFunc(names, func(a, b string) int {
		pa := order.Position(algebra.Range{Name: a})
		pb := order.Position(algebra.Range{Name: b})
		//
		if pa != pb {
			return pa - pb
		}
		//
		return strings.Compare(a, b)
	})
	//
	return names
}

func sizeName(name string, order algebra.Order) string {
	for _, r := range order.Ranges() {
		if r.Name == name {
			return r.SizeSymbol()
		}
	}
	//
	return name
}
