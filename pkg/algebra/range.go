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

import "strings"

// Range represents a named summation domain, such as the set of occupied or
// virtual orbitals.  Two ranges with the same name denote the same domain.
// The size is an optional symbol (or decimal literal) used by the cost model;
// an empty size means the domain size is unknown.
type Range struct {
	// Name uniquely identifies this range.
	Name string
	// Size is an optional symbolic (or concrete) size for this range.
	Size string
}

// NewRange constructs a range with a given name and (possibly empty) size
// symbol.
func NewRange(name string, size string) Range {
	return Range{name, size}
}

// Cmp provides a total ordering of ranges by name.
func (p Range) Cmp(other Range) int {
	return strings.Compare(p.Name, other.Name)
}

// SizeSymbol returns the symbol used for this range within cost monomials.
// Ranges declared without a size fall back to their own name.
func (p Range) SizeSymbol() string {
	if p.Size != "" {
		return p.Size
	}
	//
	return p.Name
}

func (p Range) String() string {
	return p.Name
}

// Order captures a declared ordering of ranges by asymptotic size, largest
// first.  For example, virtual orbital ranges are conventionally assumed
// asymptotically larger than occupied ones.  The ordering is used to break
// ties between cost monomials of equal total degree.
type Order []Range

// NewOrder constructs an ordering from the given ranges, largest first.
func NewOrder(ranges ...Range) Order {
	return Order(ranges)
}

// Position returns the position of a given range within this ordering, where
// position 0 is the largest range.  Ranges not covered by the ordering come
// after all declared ranges, ordered by name.
func (p Order) Position(r Range) int {
	for i, ith := range p {
		if ith.Name == r.Name {
			return i
		}
	}
	//
	return len(p)
}

// Ranges returns all declared ranges, largest first.
func (p Order) Ranges() []Range {
	return p
}
