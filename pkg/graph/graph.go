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

// Package graph builds, per term, the bipartite incidence between tensor
// factors and the indices they touch.  The incidence drives both cost
// estimation and the enumeration of candidate partial contractions for the
// evaluation-sequence optimizer.
package graph

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/consensys/go-wick/pkg/algebra"
	"github.com/consensys/go-wick/pkg/term"
)

// Graph captures which tensor factors of one (operator-free) term share
// which indices.  Factor and index positions are stable, so candidate
// enumeration can refer back into the underlying term.
type Graph struct {
	// Term underlying this graph.
	Term term.Term
	// Indices holds every distinct index of the term; bit positions below
	// refer into this slice.
	Indices []algebra.Index
	// incidence[f] holds the index bits touched by factor f.
	incidence []*bitset.BitSet
	// summed holds the bits of the term's summation set.
	summed *bitset.BitSet
}

// Build constructs the contraction graph of a given term.
func Build(t term.Term) *Graph {
	var (
		indices  = t.Indices()
		position = make(map[algebra.Index]uint, len(indices))
		nbits    = uint(len(indices))
	)
	//
	for i, idx := range indices {
		position[idx] = uint(i)
	}
	//
	incidence := make([]*bitset.BitSet, len(t.Tensors))
	//
	for f, factor := range t.Tensors {
		bits := bitset.New(nbits)
		//
		for _, arg := range factor.Args {
			bits.Set(position[arg])
		}
		//
		incidence[f] = bits
	}
	//
	summed := bitset.New(nbits)
	//
	for _, idx := range t.Sums {
		summed.Set(position[idx])
	}
	//
	return &Graph{t, indices, incidence, summed}
}

// Factors returns the number of tensor factors covered by this graph.
func (p *Graph) Factors() int {
	return len(p.incidence)
}

// Shared returns the indices shared by two factors.
func (p *Graph) Shared(i, j int) []algebra.Index {
	return p.collect(p.incidence[i].Intersection(p.incidence[j]))
}

// PairIndices splits the indices touched by a factor pair into internal
// indices (summed, and touched by no other factor) and boundary indices
// (everything else: externals, or dummies shared with the rest of the term).
// Internal indices are exactly those summed away by contracting the pair.
func (p *Graph) PairIndices(i, j int) (internal, boundary []algebra.Index) {
	touched := p.incidence[i].Union(p.incidence[j])
	others := bitset.New(uint(len(p.Indices)))
	//
	for f, bits := range p.incidence {
		if f != i && f != j {
			others.InPlaceUnion(bits)
		}
	}
	//
	internalBits := touched.Intersection(p.summed).Difference(others)
	//
	return p.collect(internalBits), p.collect(touched.Difference(internalBits))
}

// PairCost estimates the cost of contracting two factors: the product of the
// sizes of every distinct index touched by either factor.
func (p *Graph) PairCost(i, j int) Cost {
	res := make(Cost)
	//
	for _, idx := range p.collect(p.incidence[i].Union(p.incidence[j])) {
		res[idx.Range.Name]++
	}
	//
	return res
}

// Pairs enumerates every unordered pair of factors as factorization
// candidates.
func (p *Graph) Pairs() [][2]int {
	var res [][2]int
	//
	for i := 0; i < len(p.incidence); i++ {
		for j := i + 1; j < len(p.incidence); j++ {
			res = append(res, [2]int{i, j})
		}
	}
	//
	return res
}

func (p *Graph) collect(bits *bitset.BitSet) []algebra.Index {
	var res []algebra.Index
	//
	for i, ok := bits.NextSet(0); ok; i, ok = bits.NextSet(i + 1) {
		res = append(res, p.Indices[i])
	}
	//
	return res
}
