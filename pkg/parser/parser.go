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

// Package parser translates the s-expression surface syntax into ranges,
// dummy families, symmetry declarations, tensor definitions and bare
// operator expressions.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/consensys/go-wick/pkg/algebra"
	"github.com/consensys/go-wick/pkg/canon"
	"github.com/consensys/go-wick/pkg/sexp"
	"github.com/consensys/go-wick/pkg/term"
)

// Session aggregates everything declared by one input: the range model, the
// dummy-index allocator, the symmetry registry, tensor definitions and bare
// operator expressions.
type Session struct {
	// Ranges declared, by name.
	Ranges map[string]algebra.Range
	// Order of ranges by asymptotic size, largest first.
	Order algebra.Order
	// Alloc holds the declared dummy families.
	Alloc *algebra.Allocator
	// Registry holds the expanded symmetry groups.
	Registry *canon.Registry
	// Defs holds the tensor definitions, in declaration order.
	Defs []term.Definition
	// Exprs holds bare terms given for simplification or expectation values.
	Exprs []term.Term
	// names resolves an index name to its range.
	names map[string]algebra.Range
}

// Parse translates an input text into a session, or fails with an error
// locating the offending declaration.
func Parse(text string) (*Session, error) {
	nodes, err := sexp.ParseAll(text)
	if err != nil {
		return nil, err
	}
	//
	session := &Session{
		Ranges:   make(map[string]algebra.Range),
		Alloc:    algebra.NewAllocator(),
		Registry: canon.NewRegistry(),
		names:    make(map[string]algebra.Range),
	}
	//
	for _, node := range nodes {
		list := node.AsList()
		//
		if list == nil {
			return nil, fmt.Errorf("toplevel declaration expected, found %s", node.String())
		}
		//
		if err := session.declare(list); err != nil {
			return nil, fmt.Errorf("line %d: %w", list.Line, err)
		}
	}
	//
	return session, nil
}

// System assembles the parsed definitions into a coupled system, enforcing
// the definition-order (acyclicity) and external-index invariants.
func (p *Session) System() (term.System, error) {
	return term.NewSystem(p.Defs...)
}

func (p *Session) declare(list *sexp.List) error {
	switch list.Head() {
	case "range":
		return p.declareRange(list)
	case "sizes":
		return p.declareSizes(list)
	case "dummies":
		return p.declareIndices(list, true)
	case "externals":
		return p.declareIndices(list, false)
	case "symm":
		return p.declareSymmetry(list)
	case "def":
		return p.declareDefinition(list)
	case "expr":
		return p.declareExpr(list)
	}
	//
	return fmt.Errorf("unknown declaration %q", list.Head())
}

func (p *Session) declareRange(list *sexp.List) error {
	if list.Len() < 2 || list.Len() > 3 {
		return fmt.Errorf("range expects a name and an optional size")
	}
	//
	name, err := symbolOf(list.Get(1))
	if err != nil {
		return err
	}
	//
	size := ""
	//
	if list.Len() == 3 {
		if size, err = symbolOf(list.Get(2)); err != nil {
			return err
		}
	}
	//
	if _, ok := p.Ranges[name]; ok {
		return fmt.Errorf("range %s already declared", name)
	}
	//
	p.Ranges[name] = algebra.NewRange(name, size)
	//
	return nil
}

func (p *Session) declareSizes(list *sexp.List) error {
	var order []algebra.Range
	//
	for i := 1; i < list.Len(); i++ {
		r, err := p.rangeOf(list.Get(i))
		if err != nil {
			return err
		}
		//
		order = append(order, r)
	}
	//
	p.Order = algebra.NewOrder(order...)
	//
	return nil
}

func (p *Session) declareIndices(list *sexp.List, dummies bool) error {
	if list.Len() < 3 {
		return fmt.Errorf("%s expects a range and one or more index names", list.Head())
	}
	//
	r, err := p.rangeOf(list.Get(1))
	if err != nil {
		return err
	}
	//
	for i := 2; i < list.Len(); i++ {
		name, err := symbolOf(list.Get(i))
		if err != nil {
			return err
		}
		//
		if prev, ok := p.names[name]; ok && prev != r {
			return fmt.Errorf("index %s already bound to range %s", name, prev.Name)
		}
		//
		p.names[name] = r
		//
		if dummies {
			p.Alloc.Declare(r, name)
		}
	}
	//
	return nil
}

func (p *Session) declareSymmetry(list *sexp.List) error {
	if list.Len() < 3 {
		return fmt.Errorf("symm expects a base name, a range signature and generators")
	}
	//
	base, err := symbolOf(list.Get(1))
	if err != nil {
		return err
	}
	//
	signatureList := list.Get(2).AsList()
	if signatureList == nil {
		return fmt.Errorf("symm %s: range signature expected", base)
	}
	//
	var signature []algebra.Range
	//
	for _, e := range signatureList.Elements {
		r, err := p.rangeOf(e)
		if err != nil {
			return err
		}
		//
		signature = append(signature, r)
	}
	//
	var gens []canon.Symmetry
	//
	for i := 3; i < list.Len(); i++ {
		gen, err := parseGenerator(list.Get(i))
		if err != nil {
			return fmt.Errorf("symm %s: %w", base, err)
		}
		//
		gens = append(gens, gen)
	}
	//
	return p.Registry.Declare(base, signature, gens...)
}

func parseGenerator(node sexp.SExp) (canon.Symmetry, error) {
	list := node.AsList()
	//
	if list == nil || list.Len() != 2 || list.Get(0).AsList() == nil {
		return canon.Symmetry{}, fmt.Errorf("generator expects ((positions...) sign)")
	}
	//
	var perm canon.Perm
	//
	for _, e := range list.Get(0).AsList().Elements {
		sym, err := symbolOf(e)
		if err != nil {
			return canon.Symmetry{}, err
		}
		//
		v, err := strconv.ParseUint(sym, 10, 32)
		if err != nil {
			return canon.Symmetry{}, fmt.Errorf("malformed position %q", sym)
		}
		//
		perm = append(perm, uint(v))
	}
	//
	sign, err := symbolOf(list.Get(1))
	if err != nil {
		return canon.Symmetry{}, err
	}
	//
	switch sign {
	case "1", "+1":
		return canon.Symmetry{Perm: perm, Sign: 1}, nil
	case "-1":
		return canon.Symmetry{Perm: perm, Sign: -1}, nil
	}
	//
	return canon.Symmetry{}, fmt.Errorf("malformed sign %q", sign)
}

func (p *Session) declareDefinition(list *sexp.List) error {
	if list.Len() < 3 {
		return fmt.Errorf("def expects a left-hand side and one or more terms")
	}
	//
	lhs, err := p.parseFactor(list.Get(1))
	if err != nil {
		return err
	}
	//
	var terms []term.Term
	//
	for i := 2; i < list.Len(); i++ {
		t, err := p.parseTerm(list.Get(i), lhs.Args)
		if err != nil {
			return fmt.Errorf("definition %s: %w", lhs.Base, err)
		}
		//
		terms = append(terms, t)
	}
	//
	p.Defs = append(p.Defs, term.NewDefinition(lhs, terms...))
	//
	return nil
}

func (p *Session) declareExpr(list *sexp.List) error {
	for i := 1; i < list.Len(); i++ {
		t, err := p.parseTerm(list.Get(i), nil)
		if err != nil {
			return err
		}
		//
		p.Exprs = append(p.Exprs, t)
	}
	//
	return nil
}

// parseTerm parses (term COEFF FACTOR...), inferring summations via the
// Einstein convention against the given external indices.
func (p *Session) parseTerm(node sexp.SExp, externals []algebra.Index) (term.Term, error) {
	list := node.AsList()
	//
	if list == nil || list.Head() != "term" || list.Len() < 2 {
		return term.Term{}, fmt.Errorf("term expected, found %s", node.String())
	}
	//
	coeff, err := parseCoefficient(list.Get(1))
	if err != nil {
		return term.Term{}, err
	}
	//
	var (
		ops     []term.Op
		tensors []term.Tensor
	)
	//
	for i := 2; i < list.Len(); i++ {
		factorList := list.Get(i).AsList()
		if factorList == nil {
			return term.Term{}, fmt.Errorf("factor expected, found %s", list.Get(i).String())
		}
		//
		switch factorList.Head() {
		case "create", "annihilate":
			if factorList.Len() != 2 {
				return term.Term{}, fmt.Errorf("%s expects exactly one index", factorList.Head())
			}
			//
			idx, err := p.indexOf(factorList.Get(1))
			if err != nil {
				return term.Term{}, err
			}
			//
			kind := term.Create
			if factorList.Head() == "annihilate" {
				kind = term.Annihilate
			}
			//
			ops = append(ops, term.NewOp(kind, idx))
		default:
			factor, err := p.parseFactor(factorList)
			if err != nil {
				return term.Term{}, err
			}
			//
			tensors = append(tensors, factor)
		}
	}
	//
	t, err := term.Einsum(coeff, externals, p.Alloc, ops, tensors)
	if err != nil {
		return term.Term{}, err
	}
	// Symmetry declarations fix the range signature of a base; occurrences
	// must honour it.
	if err := p.Registry.CheckTerm(t); err != nil {
		return term.Term{}, err
	}
	//
	return t, nil
}

func (p *Session) parseFactor(node sexp.SExp) (term.Tensor, error) {
	list := node.AsList()
	//
	if list == nil || list.Len() < 1 || list.Get(0).AsSymbol() == nil {
		return term.Tensor{}, fmt.Errorf("tensor factor expected, found %s", node.String())
	}
	//
	var args []algebra.Index
	//
	for i := 1; i < list.Len(); i++ {
		idx, err := p.indexOf(list.Get(i))
		if err != nil {
			return term.Tensor{}, err
		}
		//
		args = append(args, idx)
	}
	//
	return term.NewTensor(list.Head(), args...), nil
}

func (p *Session) indexOf(node sexp.SExp) (algebra.Index, error) {
	name, err := symbolOf(node)
	if err != nil {
		return algebra.Index{}, err
	}
	//
	r, ok := p.names[name]
	if !ok {
		return algebra.Index{}, fmt.Errorf("index %s not declared by any dummies/externals form", name)
	}
	//
	return algebra.NewIndex(name, r), nil
}

func (p *Session) rangeOf(node sexp.SExp) (algebra.Range, error) {
	name, err := symbolOf(node)
	if err != nil {
		return algebra.Range{}, err
	}
	//
	r, ok := p.Ranges[name]
	if !ok {
		return algebra.Range{}, fmt.Errorf("range %s not declared", name)
	}
	//
	return r, nil
}

// parseCoefficient parses a rational literal (e.g. "1/2", "-1") or a free
// symbol (e.g. "g"), optionally negated.
func parseCoefficient(node sexp.SExp) (algebra.Expr, error) {
	sym, err := symbolOf(node)
	if err != nil {
		return algebra.Expr{}, err
	}
	//
	negate := false
	//
	if strings.HasPrefix(sym, "-") && len(sym) > 1 && !isDigit(sym[1]) {
		negate, sym = true, sym[1:]
	}
	//
	var res algebra.Expr
	//
	if num, den, ok := splitRational(sym); ok {
		res = algebra.Rat(num, den)
	} else if looksNumeric(sym) {
		return algebra.Expr{}, fmt.Errorf("malformed coefficient %q", sym)
	} else {
		res = algebra.Symbol(sym)
	}
	//
	if negate {
		res = res.Neg()
	}
	//
	return res, nil
}

func splitRational(sym string) (int64, int64, bool) {
	num, den := sym, "1"
	//
	if i := strings.IndexByte(sym, '/'); i >= 0 {
		num, den = sym[:i], sym[i+1:]
	}
	//
	n, err1 := strconv.ParseInt(num, 10, 64)
	d, err2 := strconv.ParseInt(den, 10, 64)
	//
	if err1 != nil || err2 != nil || d == 0 {
		return 0, 0, false
	}
	//
	return n, d, true
}

// looksNumeric reports whether a symbol starts like a rational literal, in
// which case failing to parse it as one is an error.  Symbols merely
// containing digits (e.g. "g2") remain legal free symbols.
func looksNumeric(sym string) bool {
	if len(sym) == 0 {
		return false
	}
	//
	if (sym[0] == '-' || sym[0] == '+') && len(sym) > 1 {
		return isDigit(sym[1])
	}
	//
	return isDigit(sym[0])
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func symbolOf(node sexp.SExp) (string, error) {
	if s := node.AsSymbol(); s != nil {
		return s.Value, nil
	}
	//
	return "", fmt.Errorf("symbol expected, found %s", node.String())
}
