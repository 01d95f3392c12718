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

// Package bag provides a partitioned, data-parallel collection of terms.
// Transformations (Map, FlatMap) are recorded lazily and only executed by an
// explicit Materialize, which caches its result; nothing is memoised
// implicitly.  No ordering is guaranteed between terms of different
// partitions, which is sound because all term-level transformations in this
// engine are pure and merging is an associative, commutative reduction.
package bag

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/consensys/go-wick/pkg/term"
)

// stage is one recorded transformation, producing zero or more output terms
// per input term.
type stage func(term.Term) []term.Term

// Bag is a partitioned collection of terms with lazy transformations.
type Bag struct {
	// parts holds the materialized partitions.
	parts [][]term.Term
	// pending transformations, applied at the next Materialize.
	pending []stage
}

// New constructs a bag over the given terms, split into a given number of
// partitions (0 selects GOMAXPROCS).
func New(terms []term.Term, partitions int) *Bag {
	if partitions <= 0 {
		partitions = runtime.GOMAXPROCS(0)
	}
	//
	if partitions > len(terms) && len(terms) > 0 {
		partitions = len(terms)
	}
	//
	parts := make([][]term.Term, max(partitions, 1))
	//
	for i, t := range terms {
		parts[i%len(parts)] = append(parts[i%len(parts)], t)
	}
	//
	return &Bag{parts: parts}
}

// Map records a one-to-one transformation to be applied to every term.
func (p *Bag) Map(fn func(term.Term) term.Term) *Bag {
	p.pending = append(p.pending, func(t term.Term) []term.Term {
		return []term.Term{fn(t)}
	})
	//
	return p
}

// FlatMap records a transformation producing zero, one or more output terms
// per input term, as required by rewrite rules.
func (p *Bag) FlatMap(fn func(term.Term) []term.Term) *Bag {
	p.pending = append(p.pending, fn)
	//
	return p
}

// Materialize executes all pending transformations, partition-parallel, and
// caches the result.  Calling Materialize with no pending transformations is
// a no-op, so repeated consumers do not recompute.
func (p *Bag) Materialize() *Bag {
	if len(p.pending) == 0 {
		return p
	}
	//
	pending := p.pending
	p.pending = nil
	//
	var group errgroup.Group
	//
	for i := range p.parts {
		group.Go(func() error {
			part := p.parts[i]
			//
			for _, fn := range pending {
				var next []term.Term
				//
				for _, t := range part {
					next = append(next, fn(t)...)
				}
				//
				part = next
			}
			//
			p.parts[i] = part
			//
			return nil
		})
	}
	// Stages are pure, hence no errors can arise.
	if err := group.Wait(); err != nil {
		panic("unreachable")
	}
	//
	return p
}

// GroupReduce materializes the bag, groups terms by a given key and reduces
// each group with a given (associative, commutative) merge function.
// Grouping happens per partition first, so the sequential tail only combines
// one small map per partition.
func (p *Bag) GroupReduce(key func(term.Term) string, merge func(term.Term, term.Term) term.Term) []term.Term {
	p.Materialize()
	//
	var (
		group   errgroup.Group
		grouped = make([]map[string]term.Term, len(p.parts))
	)
	//
	for i := range p.parts {
		group.Go(func() error {
			m := make(map[string]term.Term)
			//
			for _, t := range p.parts[i] {
				k := key(t)
				//
				if prev, ok := m[k]; ok {
					m[k] = merge(prev, t)
				} else {
					m[k] = t
				}
			}
			//
			grouped[i] = m
			//
			return nil
		})
	}
	//
	if err := group.Wait(); err != nil {
		panic("unreachable")
	}
	// Sequential combine across partitions.
	acc := grouped[0]
	//
	for _, m := range grouped[1:] {
		for k, t := range m {
			if prev, ok := acc[k]; ok {
				acc[k] = merge(prev, t)
			} else {
				acc[k] = t
			}
		}
	}
	//
	var res []term.Term
	//
	for _, t := range acc {
		res = append(res, t)
	}
	//
	return res
}

// Terms materializes the bag and returns its contents as a single slice.
func (p *Bag) Terms() []term.Term {
	p.Materialize()
	//
	var res []term.Term
	//
	for _, part := range p.parts {
		res = append(res, part...)
	}
	//
	return res
}

// Size materializes the bag and returns the number of terms held.
func (p *Bag) Size() uint {
	p.Materialize()
	//
	count := uint(0)
	//
	for _, part := range p.parts {
		count += uint(len(part))
	}
	//
	return count
}
