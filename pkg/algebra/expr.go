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
	"math/big"
	"slices"
	"strings"
)

// Expr represents an exact scalar expression: a multivariate polynomial over
// free symbols with rational coefficients.  Expressions are kept in normal
// form (monomials sorted by their variables, no zero monomials, no duplicate
// variable lists), hence structural equality coincides with algebraic
// equality.  An uninitialised Expr is zero.
type Expr struct {
	terms []monomial
}

// monomial represents a rational coefficient multiplied by zero or more
// symbols, where repetition encodes multiplicity.
type monomial struct {
	coeff big.Rat
	vars  []string
}

func newMonomial(coeff big.Rat, vars ...string) monomial {
	vars = slices.Clone(vars)
	slices.Sort(vars)
	//
	return monomial{coeff, vars}
}

func (p monomial) clone() monomial {
	var val big.Rat
	//
	val.Set(&p.coeff)
	//
	return monomial{val, slices.Clone(p.vars)}
}

func (p monomial) mul(other monomial) monomial {
	var res monomial
	//
	res.coeff.Mul(&p.coeff, &other.coeff)
	res.vars = append(slices.Clone(p.vars), other.vars...)
	slices.Sort(res.vars)
	//
	return res
}

// Zero returns the additive identity.
func Zero() Expr {
	return Expr{}
}

// One returns the multiplicative identity.
func One() Expr {
	return Int(1)
}

// Int constructs a constant expression from an integer.
func Int(val int64) Expr {
	if val == 0 {
		return Expr{}
	}
	//
	var coeff big.Rat
	//
	coeff.SetInt64(val)
	//
	return Expr{[]monomial{{coeff, nil}}}
}

// Rat constructs a constant expression from a rational num/den.
func Rat(num, den int64) Expr {
	var coeff big.Rat
	//
	coeff.SetFrac64(num, den)
	//
	if coeff.Sign() == 0 {
		return Expr{}
	}
	//
	return Expr{[]monomial{{coeff, nil}}}
}

// Symbol constructs an expression consisting of a single free symbol.
func Symbol(name string) Expr {
	var one big.Rat
	//
	one.SetInt64(1)
	//
	return Expr{[]monomial{newMonomial(one, name)}}
}

// IsZero checks whether this expression is the additive identity.
func (p Expr) IsZero() bool {
	return len(p.terms) == 0
}

// IsOne checks whether this expression is the multiplicative identity.
func (p Expr) IsOne() bool {
	return len(p.terms) == 1 && len(p.terms[0].vars) == 0 &&
		p.terms[0].coeff.Cmp(big.NewRat(1, 1)) == 0
}

// Equal checks algebraic equality of two expressions.  Since expressions are
// normal forms, this is structural equality.
func (p Expr) Equal(other Expr) bool {
	return p.Cmp(other) == 0
}

// Cmp provides a total (and otherwise arbitrary) ordering of expressions,
// used to obtain deterministic canonical forms.
func (p Expr) Cmp(other Expr) int {
	if c := len(p.terms) - len(other.terms); c != 0 {
		return c
	}
	//
	for i := range p.terms {
		l, r := &p.terms[i], &other.terms[i]
		//
		if c := slices.Compare(l.vars, r.vars); c != 0 {
			return c
		} else if c := l.coeff.Cmp(&r.coeff); c != 0 {
			return c
		}
	}
	//
	return 0
}

// Add returns the sum of this expression and another.
func (p Expr) Add(other Expr) Expr {
	res := p.cloneTerms()
	//
	for _, t := range other.terms {
		res = addTerm(res, t)
	}
	//
	return Expr{res}
}

// Neg returns the negation of this expression.
func (p Expr) Neg() Expr {
	res := p.cloneTerms()
	//
	for i := range res {
		res[i].coeff.Neg(&res[i].coeff)
	}
	//
	return Expr{res}
}

// Mul returns the product of this expression and another.
func (p Expr) Mul(other Expr) Expr {
	var res []monomial
	//
	for _, l := range p.terms {
		for _, r := range other.terms {
			res = addTerm(res, l.mul(r))
		}
	}
	//
	return Expr{res}
}

// Substitute replaces free symbols according to the given mapping, returning
// the resulting expression.  Symbols not covered by the mapping are left
// untouched.
func (p Expr) Substitute(mapping map[string]Expr) Expr {
	res := Zero()
	//
	for _, t := range p.terms {
		var coeff big.Rat
		//
		coeff.Set(&t.coeff)
		ith := Expr{[]monomial{{coeff, nil}}}
		//
		for _, v := range t.vars {
			if e, ok := mapping[v]; ok {
				ith = ith.Mul(e)
			} else {
				ith = ith.Mul(Symbol(v))
			}
		}
		//
		res = res.Add(ith)
	}
	//
	return res
}

func (p Expr) String() string {
	var builder strings.Builder
	//
	if len(p.terms) == 0 {
		return "0"
	}
	//
	for i, t := range p.terms {
		coeff := t.coeff.RatString()
		//
		if i != 0 {
			builder.WriteString("+")
		}
		// Various cases to improve readability
		switch {
		case len(t.vars) == 0:
			builder.WriteString(coeff)
		case coeff == "1":
			builder.WriteString(strings.Join(t.vars, "*"))
		default:
			builder.WriteString(coeff)
			builder.WriteString("*")
			builder.WriteString(strings.Join(t.vars, "*"))
		}
	}
	//
	return builder.String()
}

func (p Expr) cloneTerms() []monomial {
	res := make([]monomial, len(p.terms))
	//
	for i, t := range p.terms {
		res[i] = t.clone()
	}
	//
	return res
}

// addTerm merges a single monomial into a sorted monomial list, dropping the
// entry when its coefficient cancels to zero.
func addTerm(terms []monomial, t monomial) []monomial {
	if t.coeff.Sign() == 0 {
		return terms
	}
	// Find insertion point for the variable list.
	i, found := slices.BinarySearchFunc(terms, t, func(l, r monomial) int {
		return slices.Compare(l.vars, r.vars)
	})
	//
	if found {
		ith := &terms[i]
		ith.coeff.Add(&ith.coeff, &t.coeff)
		// Drop cancelled monomial
		if ith.coeff.Sign() == 0 {
			return slices.Delete(terms, i, i+1)
		}
		//
		return terms
	}
	//
	return slices.Insert(terms, i, t.clone())
}
