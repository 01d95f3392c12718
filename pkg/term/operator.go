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
package term

import (
	"fmt"

	"github.com/consensys/go-wick/pkg/algebra"
)

// OpKind identifies the algebraic kind of an operator factor.  This is a
// closed set: commutation behaviour is driven entirely by the rule table of a
// Convention, not by open-ended dispatch.
type OpKind uint8

const (
	// Create represents a creation operator.
	Create OpKind = iota
	// Annihilate represents an annihilation operator.
	Annihilate
)

func (k OpKind) String() string {
	switch k {
	case Create:
		return "create"
	case Annihilate:
		return "annihilate"
	}
	//
	panic("unreachable")
}

// Op represents a single operator factor, such as a creation or annihilation
// operator applied to one index.  Operator factors are ordered within a term;
// their order is semantically significant.
type Op struct {
	// Kind of this operator.
	Kind OpKind
	// Index argument of this operator.
	Index algebra.Index
}

// NewOp constructs an operator factor of a given kind over a given index.
func NewOp(kind OpKind, index algebra.Index) Op {
	return Op{kind, index}
}

func (p Op) String() string {
	if p.Kind == Create {
		return fmt.Sprintf("%s+", p.Index.Name)
	}
	//
	return fmt.Sprintf("%s-", p.Index.Name)
}

// Rule describes how an adjacent out-of-order operator pair rewrites: the
// swapped pair picks up Sign, and (when Contracts holds) an additional term
// arises with both operators removed and their indices identified by a
// Kronecker contraction.
type Rule struct {
	// Sign applied when the pair is swapped (+1 commute, -1 anticommute).
	Sign int
	// Contracts indicates whether swapping this pair also produces a
	// contraction term.
	Contracts bool
}

// Convention captures the algebraic (anti)commutation rules of an operator
// family as an explicit rule table, keyed by the adjacent (left, right) kind
// pair.  Only pairs present in the table are considered out of normal order.
type Convention struct {
	// Name of this convention, for diagnostics.
	Name string
	// rules maps out-of-order (left, right) kind pairs to their rewrite.
	rules map[[2]OpKind]Rule
}

// NewConvention constructs a convention with a given name and rule table.
func NewConvention(name string, rules map[[2]OpKind]Rule) Convention {
	return Convention{name, rules}
}

// Rewrite returns the rewrite rule for an adjacent (left, right) kind pair,
// or false when the pair is already in normal order.
func (p Convention) Rewrite(left, right OpKind) (Rule, bool) {
	r, ok := p.rules[[2]OpKind{left, right}]
	return r, ok
}

// Fermi is the fermionic convention: normal order places creation operators
// to the left, adjacent operators anticommute, and an annihilation operator
// swapped past a creation operator contracts to a Kronecker delta.
var Fermi = NewConvention("fermi", map[[2]OpKind]Rule{
	{Annihilate, Create}: {Sign: -1, Contracts: true},
})

// Bose is the bosonic convention: as Fermi, except adjacent operators
// commute.
var Bose = NewConvention("bose", map[[2]OpKind]Rule{
	{Annihilate, Create}: {Sign: 1, Contracts: true},
})
