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
	"slices"
	"strings"

	"github.com/consensys/go-wick/pkg/algebra"
)

// Term represents a single summand of a tensor expression: a scalar
// coefficient multiplied by an ordered list of operator factors and a
// multiset of tensor factors, summed over the declared dummy indices.  Terms
// are immutable by convention; every transformation returns a fresh term.
type Term struct {
	// Coeff is the scalar coefficient of this term.
	Coeff algebra.Expr
	// Ops are the ordered operator factors.
	Ops []Op
	// Tensors are the tensor factors (multiplication of which commutes).
	Tensors []Tensor
	// Sums are the summed (dummy) indices, each carrying its range.  Kept
	// sorted, without duplicates.
	Sums []algebra.Index
}

// New constructs a term from its parts.  The summation set is sorted; no
// validation is performed (see Validate).
func New(coeff algebra.Expr, ops []Op, tensors []Tensor, sums []algebra.Index) Term {
	sums = slices.Clone(sums)
	slices.SortFunc(sums, algebra.Index.Cmp)
	//
	return Term{coeff, ops, tensors, sums}
}

// Scalar constructs an operator- and tensor-free term.
func Scalar(coeff algebra.Expr) Term {
	return Term{Coeff: coeff}
}

// Clone returns a deep copy of this term.
func (p Term) Clone() Term {
	tensors := make([]Tensor, len(p.Tensors))
	//
	for i, f := range p.Tensors {
		tensors[i] = f.Clone()
	}
	//
	return Term{p.Coeff, slices.Clone(p.Ops), tensors, slices.Clone(p.Sums)}
}

// Validate checks the structural invariants of this term: the summation set
// contains no duplicates, and every summed index actually occurs in some
// factor (no phantom summations).  Unbound dummies cannot be detected here,
// since dummy-ness is declared by the summation set itself; the einsum
// builder is responsible for not leaving family dummies unbound.
func (p Term) Validate() error {
	for i := 1; i < len(p.Sums); i++ {
		if p.Sums[i] == p.Sums[i-1] {
			return fmt.Errorf("term %s: index %s declared summed twice", p.String(), p.Sums[i].Name)
		}
	}
	//
	for _, idx := range p.Sums {
		if !p.Occurs(idx) {
			return fmt.Errorf("term %s: summed index %s never occurs", p.String(), idx.Name)
		}
	}
	//
	return nil
}

// IsSummed checks whether a given index is a dummy of this term.
func (p Term) IsSummed(idx algebra.Index) bool {
	_, ok := slices.BinarySearchFunc(p.Sums, idx, algebra.Index.Cmp)
	return ok
}

// Occurs checks whether a given index occurs in any factor of this term.
func (p Term) Occurs(idx algebra.Index) bool {
	for _, op := range p.Ops {
		if op.Index == idx {
			return true
		}
	}
	//
	for _, f := range p.Tensors {
		if f.Has(idx) {
			return true
		}
	}
	//
	return false
}

// Indices returns every distinct index occurring in this term, sorted.
func (p Term) Indices() []algebra.Index {
	var res []algebra.Index
	//
	seen := make(map[algebra.Index]bool)
	//
	add := func(idx algebra.Index) {
		if !seen[idx] {
			seen[idx] = true
			res = append(res, idx)
		}
	}
	//
	for _, op := range p.Ops {
		add(op.Index)
	}
	//
	for _, f := range p.Tensors {
		for _, arg := range f.Args {
			add(arg)
		}
	}
	//
	slices.SortFunc(res, algebra.Index.Cmp)
	//
	return res
}

// Externals returns the free (non-summed) indices of this term, sorted.
func (p Term) Externals() []algebra.Index {
	var res []algebra.Index
	//
	for _, idx := range p.Indices() {
		if !p.IsSummed(idx) {
			res = append(res, idx)
		}
	}
	//
	return res
}

// Substitute returns a copy of this term with every occurrence of one index
// replaced by another.  When the replaced index was summed, it is removed
// from the summation set; the replacement is *not* added (callers decide
// whether the merged index remains summed).
func (p Term) Substitute(from, to algebra.Index) Term {
	res := p.Clone()
	//
	for i, op := range res.Ops {
		if op.Index == from {
			res.Ops[i].Index = to
		}
	}
	//
	for i, f := range res.Tensors {
		res.Tensors[i] = f.Substitute(from, to)
	}
	//
	if i, ok := slices.BinarySearchFunc(res.Sums, from, algebra.Index.Cmp); ok {
		res.Sums = slices.Delete(res.Sums, i, i+1)
	}
	//
	return res
}

// Scale returns a copy of this term with its coefficient multiplied by a
// given scalar.
func (p Term) Scale(factor algebra.Expr) Term {
	res := p.Clone()
	res.Coeff = res.Coeff.Mul(factor)
	//
	return res
}

// IsZero checks whether this term's coefficient is the additive identity.
func (p Term) IsZero() bool {
	return p.Coeff.IsZero()
}

func (p Term) String() string {
	var builder strings.Builder
	//
	builder.WriteString(p.Coeff.String())
	//
	if len(p.Sums) > 0 {
		names := make([]string, len(p.Sums))
		for i, idx := range p.Sums {
			names[i] = idx.Name
		}
		//
		builder.WriteString(" sum{")
		builder.WriteString(strings.Join(names, ","))
		builder.WriteString("}")
	}
	//
	for _, op := range p.Ops {
		builder.WriteString(" ")
		builder.WriteString(op.String())
	}
	//
	for _, f := range p.Tensors {
		builder.WriteString(" ")
		builder.WriteString(f.String())
	}
	//
	return builder.String()
}
