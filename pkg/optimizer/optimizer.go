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

// Package optimizer searches a system of tensor definitions for repeated
// sub-contractions, factoring them out into intermediate tensors so that the
// resulting evaluation sequence is never more expensive than the direct
// evaluation, and strictly cheaper whenever any sub-contraction repeats.
package optimizer

import (
	"fmt"
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/consensys/go-wick/pkg/algebra"
	"github.com/consensys/go-wick/pkg/canon"
	"github.com/consensys/go-wick/pkg/graph"
	"github.com/consensys/go-wick/pkg/term"
)

// Config controls the greedy factorization search.
type Config struct {
	// MaxIterations bounds the number of intermediates introduced; zero means
	// unbounded (the search always terminates regardless, since every
	// iteration strictly shrinks the terms it rewrites).
	MaxIterations uint
	// Prefix names synthesized intermediates (prefix1, prefix2, ...).
	Prefix string
}

// DefaultConfig returns the default search configuration.
func DefaultConfig() Config {
	return Config{Prefix: "tau"}
}

// Sequence is the optimizer's output: synthesized intermediates in dependency
// order, followed by the original targets rewritten in terms of them.
type Sequence struct {
	// Intermediates synthesized by the search, in dependency order.
	Intermediates []term.Definition
	// Targets are the rewritten original definitions.
	Targets []term.Definition
}

// Definitions returns every definition of this sequence in evaluation order.
func (p Sequence) Definitions() []term.Definition {
	return append(slices.Clone(p.Intermediates), p.Targets...)
}

// Cost computes the summed leading-order evaluation cost of this sequence.
func (p Sequence) Cost(order algebra.Order) graph.Leading {
	sys := term.System(p.Definitions())
	return graph.SystemCost(sys, order)
}

// Optimize rewrites a system of (operator-free) tensor definitions into an
// evaluation sequence.  When no repeated sub-contraction exists, the result
// is simply the canonicalized input with zero intermediates, which is a
// valid, non-erroneous outcome.
func Optimize(sys term.System, order algebra.Order, reg *canon.Registry, cfg Config) (Sequence, error) {
	if cfg.Prefix == "" {
		cfg.Prefix = "tau"
	}
	//
	for _, def := range sys {
		for _, t := range def.Terms {
			if len(t.Ops) > 0 {
				return Sequence{}, fmt.Errorf("definition %s: operator factors must be simplified away before optimization",
					def.LHS.Base)
			}
		}
	}
	// Work on a canonicalized copy of the targets.
	targets := make([]term.Definition, len(sys))
	//
	for i, def := range sys {
		targets[i] = term.NewDefinition(def.LHS, canon.Merge(def.Terms, reg)...)
	}
	//
	var (
		intermediates []term.Definition
		counter       uint
	)
	//
	for cfg.MaxIterations == 0 || counter < cfg.MaxIterations {
		best := selectCandidate(targets, order, reg)
		if best == nil {
			break
		}
		//
		counter++
		name := fmt.Sprintf("%s%d", cfg.Prefix, counter)
		intermediate := materialize(name, best)
		intermediates = append(intermediates, intermediate)
		//
		log.Debugf("iteration %d: %s = %s covers %d terms at cost %s",
			counter, intermediate.LHS.String(), intermediate.Terms[0].String(),
			len(best.instances), best.cost.String(order))
		// Substitute into every term containing an instance, then restore
		// canonical form.
		substitute(targets, intermediate, best)
		//
		for i := range targets {
			targets[i].Terms = canon.Merge(targets[i].Terms, reg)
		}
	}
	//
	if len(intermediates) == 0 {
		log.Debug("no repeated sub-contraction detected")
	}
	//
	res := Sequence{intermediates, targets}
	// Sanity check the emitted sequence remains a well-formed system.
	if _, err := term.NewSystem(res.Definitions()...); err != nil {
		return Sequence{}, fmt.Errorf("optimizer produced malformed sequence: %w", err)
	}
	//
	return res, nil
}

// ============================================================================
// Candidate search
// ============================================================================

// instance records one concrete occurrence of a candidate factorization.
type instance struct {
	// def and index of the containing term.
	def, idx int
	// factor positions of the pair within the term.
	pair [2]int
	// fromCanonical maps each canonical boundary index back to the concrete
	// index it stands for at this occurrence.
	fromCanonical map[algebra.Index]algebra.Index
	// sign relating this occurrence to the canonical sub-contraction.
	sign int
}

// candidate aggregates every occurrence of one canonical sub-contraction.
type candidate struct {
	// key is the canonical signature of the sub-contraction.
	key string
	// shape is the canonical sub-term, with unit coefficient.
	shape term.Term
	// cost of evaluating the sub-contraction once.
	cost graph.Cost
	// instances of this sub-contraction, at most one per term.
	instances []instance
}

// selectCandidate enumerates every pairwise factorization across all terms of
// all definitions and returns the highest-scoring repeated one, or nil.  The
// score of a candidate is its net saving, (terms covered - 1) x cost,
// compared leading-order first; ties break towards more covered terms and
// then towards the lexicographically smallest signature, making the search
// deterministic.
func selectCandidate(targets []term.Definition, order algebra.Order, reg *canon.Registry) *candidate {
	candidates := make(map[string]*candidate)
	//
	for di, def := range targets {
		for ti, t := range def.Terms {
			g := graph.Build(t)
			seen := make(map[string]bool)
			//
			for _, pair := range g.Pairs() {
				internal, boundary := g.PairIndices(pair[0], pair[1])
				sub := term.New(algebra.One(), nil,
					[]term.Tensor{t.Tensors[pair[0]], t.Tensors[pair[1]]}, internal)
				//
				csub, freeMap := canon.CanonicalizeFree(sub, boundary, reg)
				if csub.IsZero() {
					continue
				}
				//
				sign := 1
				if csub.Coeff.Neg().IsOne() {
					sign = -1
				}
				//
				key := canon.Key(csub)
				// Count each term once per candidate, since overlapping
				// occurrences within one term cannot all be substituted.
				if seen[key] {
					continue
				}
				//
				seen[key] = true
				//
				c, ok := candidates[key]
				if !ok {
					shape := csub.Clone()
					shape.Coeff = algebra.One()
					c = &candidate{key, shape, g.PairCost(pair[0], pair[1]), nil}
					candidates[key] = c
				}
				//
				c.instances = append(c.instances, instance{di, ti, pair, invert(freeMap), sign})
			}
		}
	}
	//
	var best *candidate
	//
	for _, c := range candidates {
		// A pair sharing no summed index is an outer product: substituting
		// it shrinks no consumer's loop nest, so it only pays off once the
		// shared product is reused often enough to cover its own evaluation.
		required := 2
		if len(c.shape.Sums) == 0 {
			required = 3
		}
		//
		if len(c.instances) < required {
			continue
		}
		//
		if best == nil || better(c, best, order) {
			best = c
		}
	}
	//
	return best
}

// better determines whether candidate l scores strictly higher than r.
func better(l, r *candidate, order algebra.Order) bool {
	if c := graph.Compare(l.cost, r.cost, order); c != 0 {
		return c > 0
	}
	//
	if len(l.instances) != len(r.instances) {
		return len(l.instances) > len(r.instances)
	}
	//
	return strings.Compare(l.key, r.key) < 0
}

// invert reverses the original-to-canonical boundary mapping.
func invert(mapping map[algebra.Index]algebra.Index) map[algebra.Index]algebra.Index {
	res := make(map[algebra.Index]algebra.Index, len(mapping))
	//
	for from, to := range mapping {
		res[to] = from
	}
	//
	return res
}

// ============================================================================
// Materialization
// ============================================================================

// materialize turns the winning candidate into an intermediate definition.
// The left-hand side carries the canonical boundary indices; the single term
// contracts the factor pair over the internal indices.
func materialize(name string, c *candidate) term.Definition {
	lhs := term.NewTensor(name, c.shape.Externals()...)
	return term.NewDefinition(lhs, c.shape)
}

// substitute replaces the factored pair by a reference to the intermediate in
// every covered term.
func substitute(targets []term.Definition, intermediate term.Definition, c *candidate) {
	for _, inst := range c.instances {
		t := targets[inst.def].Terms[inst.idx]
		// Reference the intermediate at the occurrence's concrete indices.
		args := make([]algebra.Index, len(intermediate.LHS.Args))
		//
		for i, arg := range intermediate.LHS.Args {
			args[i] = inst.fromCanonical[arg]
		}
		// Remove the pair (higher position first), insert the reference.
		lo, hi := inst.pair[0], inst.pair[1]
		if lo > hi {
			lo, hi = hi, lo
		}
		//
		tensors := slices.Clone(t.Tensors)
		tensors = slices.Delete(tensors, hi, hi+1)
		tensors = slices.Delete(tensors, lo, lo+1)
		tensors = append(tensors, term.NewTensor(intermediate.LHS.Base, args...))
		// Internal indices are now summed inside the intermediate.
		sums := slices.Clone(t.Sums)
		//
		for _, idx := range intermediate.Terms[0].Sums {
			concrete := inst.fromCanonical[idx]
			//
			if i, ok := slices.BinarySearchFunc(sums, concrete, algebra.Index.Cmp); ok {
				sums = slices.Delete(sums, i, i+1)
			}
		}
		//
		coeff := t.Coeff
		if inst.sign < 0 {
			coeff = coeff.Neg()
		}
		//
		targets[inst.def].Terms[inst.idx] = term.New(coeff, t.Ops, tensors, sums)
	}
}
