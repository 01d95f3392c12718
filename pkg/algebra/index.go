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
package algebra

import (
	"fmt"
	"strings"
)

// Index represents a (dummy or external) symbol bound to exactly one range.
// Indices are immutable values; substitution produces a new index rather than
// mutating an existing one.  Whether an index is a dummy is not a property of
// the index itself, but of the term which declares it in its summation set.
type Index struct {
	// Name of this index (e.g. "i" or "a1").
	Name string
	// Range to which this index is bound.
	Range Range
}

// NewIndex constructs an index with a given name, bound to a given range.
func NewIndex(name string, r Range) Index {
	return Index{name, r}
}

// Cmp provides a total ordering of indices, first by range and then by name.
func (p Index) Cmp(other Index) int {
	if c := p.Range.Cmp(other.Range); c != 0 {
		return c
	}
	//
	return strings.Compare(p.Name, other.Name)
}

func (p Index) String() string {
	return p.Name
}

// Allocator manages the dummy-index families declared for each range, and
// hands out fresh dummies which do not collide with indices already live in
// the requesting term.  An allocator is scoped to one derivation session.
type Allocator struct {
	// families maps a range name to its declared dummy names, in declaration
	// order.
	families map[string][]string
	// ranges maps a range name back to the range itself.
	ranges map[string]Range
}

// NewAllocator constructs an empty allocator.
func NewAllocator() *Allocator {
	return &Allocator{
		families: make(map[string][]string),
		ranges:   make(map[string]Range),
	}
}

// Declare registers the dummy family for a given range.  Declaring a range
// twice extends its family.
func (p *Allocator) Declare(r Range, names ...string) {
	p.families[r.Name] = append(p.families[r.Name], names...)
	p.ranges[r.Name] = r
}

// Family returns the declared dummy family for a given range.
func (p *Allocator) Family(r Range) []string {
	return p.families[r.Name]
}

// IsDummy checks whether a given index belongs to the dummy family declared
// for its range.
func (p *Allocator) IsDummy(idx Index) bool {
	for _, n := range p.families[idx.Range.Name] {
		if n == idx.Name {
			return true
		}
	}
	//
	return false
}

// Fresh allocates a dummy index for a given range which does not occur in the
// given avoid set.  Declared family names are preferred; once exhausted,
// generated names are derived from the first family member (or the range name
// when no family was declared).
func (p *Allocator) Fresh(r Range, avoid map[Index]bool) Index {
	for _, n := range p.families[r.Name] {
		idx := NewIndex(n, r)
		if !avoid[idx] {
			return idx
		}
	}
	// Family exhausted, so generate.
	stem := strings.ToLower(r.Name)
	if family := p.families[r.Name]; len(family) > 0 {
		stem = family[0]
	}
	//
	for i := 1; ; i++ {
		idx := NewIndex(fmt.Sprintf("%s%d", stem, i), r)
		if !avoid[idx] {
			return idx
		}
	}
}
