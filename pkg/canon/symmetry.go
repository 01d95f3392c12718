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

	"github.com/consensys/go-wick/pkg/algebra"
	"github.com/consensys/go-wick/pkg/term"
)

// Perm represents a permutation of tensor index positions: applying p to an
// argument list args yields args' where args'[i] = args[p[i]].
type Perm []uint

// Identity returns the identity permutation of a given rank.
func Identity(rank uint) Perm {
	res := make(Perm, rank)
	//
	for i := range res {
		res[i] = uint(i)
	}
	//
	return res
}

// Valid checks this is a well-formed permutation (a bijection on positions).
func (p Perm) Valid() bool {
	seen := make([]bool, len(p))
	//
	for _, v := range p {
		if v >= uint(len(p)) || seen[v] {
			return false
		}
		//
		seen[v] = true
	}
	//
	return true
}

// Apply this permutation to an argument list, producing a fresh list.
func (p Perm) Apply(args []algebra.Index) []algebra.Index {
	res := make([]algebra.Index, len(args))
	//
	for i, v := range p {
		res[i] = args[v]
	}
	//
	return res
}

// Compose returns the permutation equivalent to applying this permutation
// first, then the other.
func (p Perm) Compose(other Perm) Perm {
	res := make(Perm, len(p))
	//
	for i := range res {
		res[i] = p[other[i]]
	}
	//
	return res
}

// Symmetry pairs an index permutation with the sign picked up when it is
// applied, e.g. (swap, -1) for an antisymmetric index pair.
type Symmetry struct {
	Perm Perm
	Sign int
}

// symmKey identifies a declared symmetry group by tensor base name and rank.
type symmKey struct {
	base string
	rank uint
}

// Registry holds the fully expanded symmetry groups, keyed by (base name,
// rank), together with the declared range signature of each base.  Generators
// are expanded to the full group once, at declaration time, never per term.
// The registry is scoped to one derivation session and is safe for concurrent
// read once populated.
type Registry struct {
	groups     map[symmKey][]Symmetry
	signatures map[symmKey][]algebra.Range
}

// NewRegistry constructs an empty symmetry registry.
func NewRegistry() *Registry {
	return &Registry{
		groups:     make(map[symmKey][]Symmetry),
		signatures: make(map[symmKey][]algebra.Range),
	}
}

// Declare registers the symmetry generators for a tensor base over a given
// range signature, expanding them eagerly into the full group.  Declarations
// are rejected when a generator is malformed, permutes positions of unequal
// ranges, or when closure derives the same permutation with both signs (which
// would make every occurrence identically zero, and always indicates a
// misdeclaration).
func (p *Registry) Declare(base string, signature []algebra.Range, gens ...Symmetry) error {
	rank := uint(len(signature))
	k := symmKey{base, rank}
	//
	if _, ok := p.groups[k]; ok {
		return fmt.Errorf("tensor %s/%d: symmetry already declared", base, rank)
	}
	//
	for _, g := range gens {
		if uint(len(g.Perm)) != rank || !g.Perm.Valid() {
			return fmt.Errorf("tensor %s/%d: malformed generator %v", base, rank, g.Perm)
		}
		//
		if g.Sign != 1 && g.Sign != -1 {
			return fmt.Errorf("tensor %s/%d: generator sign must be +/-1, got %d", base, rank, g.Sign)
		}
		// A generator must map the range signature onto itself.
		for i, v := range g.Perm {
			if signature[v] != signature[i] {
				return fmt.Errorf("tensor %s/%d: generator %v permutes index %d across ranges %s and %s",
					base, rank, g.Perm, i, signature[i].Name, signature[v].Name)
			}
		}
	}
	//
	group, err := closure(rank, gens)
	if err != nil {
		return fmt.Errorf("tensor %s/%d: %w", base, rank, err)
	}
	//
	p.groups[k] = group
	p.signatures[k] = slices.Clone(signature)
	//
	return nil
}

// Group returns the full symmetry group for a given base and rank.  Bases
// without a declared symmetry have the trivial group.
func (p *Registry) Group(base string, rank uint) []Symmetry {
	if g, ok := p.groups[symmKey{base, rank}]; ok {
		return g
	}
	//
	return []Symmetry{{Identity(rank), 1}}
}

// CheckFactor validates a tensor factor occurrence against the declared range
// signature of its base, if any.
func (p *Registry) CheckFactor(f term.Tensor) error {
	sig, ok := p.signatures[symmKey{f.Base, f.Rank()}]
	if !ok {
		return nil
	}
	//
	for i, arg := range f.Args {
		if arg.Range != sig[i] {
			return fmt.Errorf("factor %s: index %s has range %s, symmetry of %s assumes range %s",
				f.String(), arg.Name, arg.Range.Name, f.Base, sig[i].Name)
		}
	}
	//
	return nil
}

// CheckTerm validates every tensor factor of a term against the registry.
func (p *Registry) CheckTerm(t term.Term) error {
	for _, f := range t.Tensors {
		if err := p.CheckFactor(f); err != nil {
			return err
		}
	}
	//
	return nil
}

// closure expands a generator set into the full group by repeated products,
// always including the identity.  Symmetry groups of physical tensors are
// small, so the expansion is cheap; it is nonetheless bounded by rank!.
func closure(rank uint, gens []Symmetry) ([]Symmetry, error) {
	var (
		group = []Symmetry{{Identity(rank), 1}}
		signs = map[string]int{encodePerm(Identity(rank)): 1}
	)
	// Worklist of elements whose products remain to be explored.
	worklist := slices.Clone(group)
	//
	for len(worklist) > 0 {
		next := worklist[0]
		worklist = worklist[1:]
		//
		for _, g := range gens {
			prod := Symmetry{next.Perm.Compose(g.Perm), next.Sign * g.Sign}
			k := encodePerm(prod.Perm)
			//
			if sign, ok := signs[k]; ok {
				if sign != prod.Sign {
					return nil, fmt.Errorf("inconsistent symmetry: permutation %v derived with both signs", prod.Perm)
				}
				//
				continue
			}
			//
			signs[k] = prod.Sign
			group = append(group, prod)
			worklist = append(worklist, prod)
		}
	}
	//
	return group, nil
}

func encodePerm(p Perm) string {
	return fmt.Sprint([]uint(p))
}
