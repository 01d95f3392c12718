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
package wick

import (
	"testing"

	"github.com/consensys/go-wick/pkg/algebra"
	"github.com/consensys/go-wick/pkg/canon"
	"github.com/consensys/go-wick/pkg/term"
)

var (
	lvl = algebra.NewRange("L", "n")
	//
	lp = algebra.NewIndex("p", lvl)
	lq = algebra.NewIndex("q", lvl)
	lr = algebra.NewIndex("r", lvl)
)

func create(idx algebra.Index) term.Op     { return term.NewOp(term.Create, idx) }
func annihilate(idx algebra.Index) term.Op { return term.NewOp(term.Annihilate, idx) }

// ============================================================================
// Normal ordering
// ============================================================================

func TestNormalOrder_01(t *testing.T) {
	// an already ordered product is untouched
	tm := term.New(algebra.One(), []term.Op{create(lp), annihilate(lq)}, nil, nil)
	res := NormalOrder(tm, term.Fermi)
	//
	if len(res) != 1 || len(res[0].Ops) != 2 {
		t.Fatalf("expected the input back, got %v", res)
	}
}

func TestNormalOrder_02(t *testing.T) {
	// a_p a+_q = -a+_q a_p + delta(p,q), externals left explicit
	tm := term.New(algebra.One(), []term.Op{annihilate(lp), create(lq)}, nil, nil)
	res := NormalOrder(tm, term.Fermi)
	//
	if len(res) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(res))
	}
	//
	var swapped, contracted *term.Term
	//
	for i := range res {
		if len(res[i].Ops) == 2 {
			swapped = &res[i]
		} else {
			contracted = &res[i]
		}
	}
	//
	if swapped == nil || contracted == nil {
		t.Fatal("missing swapped or contracted term")
	}
	//
	if !swapped.Coeff.Equal(algebra.Int(-1)) || swapped.Ops[0].Kind != term.Create {
		t.Error("swapped term wrongly signed or not normal ordered")
	}
	//
	if len(contracted.Tensors) != 1 || contracted.Tensors[0].Base != term.DeltaBase {
		t.Error("contraction term missing its delta")
	}
}

func TestNormalOrder_03(t *testing.T) {
	// bosonic swap carries no sign
	tm := term.New(algebra.One(), []term.Op{annihilate(lp), create(lq)}, nil, nil)
	res := NormalOrder(tm, term.Bose)
	//
	for _, r := range res {
		if len(r.Ops) == 2 && !r.Coeff.IsOne() {
			t.Error("bosonic swap must not change sign")
		}
	}
}

func TestNormalOrder_04(t *testing.T) {
	// a summed contraction index is substituted, not left as a delta
	tm := term.New(algebra.One(),
		[]term.Op{annihilate(lp), create(lq)},
		[]term.Tensor{term.NewTensor("h", lp, lq)},
		[]algebra.Index{lp, lq})
	res := NormalOrder(tm, term.Fermi)
	//
	for _, r := range res {
		if len(r.Ops) == 0 {
			if len(r.Tensors) != 1 || r.Tensors[0].Base != "h" {
				t.Fatalf("unexpected contraction %s", r.String())
			}
			// h[q,q] or h[p,p], with one summation left
			if r.Tensors[0].Args[0] != r.Tensors[0].Args[1] || len(r.Sums) != 1 {
				t.Errorf("contraction should identify the indices, got %s", r.String())
			}
		}
	}
}

func TestNormalOrder_05(t *testing.T) {
	// a_p a+_p with p summed: the contraction collapses to the range size
	tm := term.New(algebra.One(), []term.Op{annihilate(lp), create(lp)}, nil, []algebra.Index{lp})
	res := NormalOrder(tm, term.Fermi)
	//
	for _, r := range res {
		if len(r.Ops) == 0 {
			if len(r.Sums) != 0 || !r.Coeff.Equal(algebra.Symbol("n")) {
				t.Errorf("expected coefficient n, got %s", r.String())
			}
		}
	}
}

func TestNormalOrder_06(t *testing.T) {
	// contraction across different ranges vanishes
	other := algebra.NewRange("M", "m")
	tm := term.New(algebra.One(),
		[]term.Op{annihilate(lp), create(algebra.NewIndex("u", other))}, nil, nil)
	res := NormalOrder(tm, term.Fermi)
	//
	if len(res) != 1 || len(res[0].Ops) != 2 {
		t.Fatalf("expected only the swapped term, got %d terms", len(res))
	}
}

func TestNormalOrder_07(t *testing.T) {
	// a_p a+_q a+_r expands into a fully ordered sum
	tm := term.New(algebra.One(),
		[]term.Op{annihilate(lp), create(lq), create(lr)}, nil, nil)
	//
	for _, r := range NormalOrder(tm, term.Fermi) {
		for i := 0; i+1 < len(r.Ops); i++ {
			if _, out := term.Fermi.Rewrite(r.Ops[i].Kind, r.Ops[i+1].Kind); out {
				t.Errorf("term %s is not normal ordered", r.String())
			}
		}
	}
}

// ============================================================================
// Vacuum expectation
// ============================================================================

func TestVacuum_01(t *testing.T) {
	// <0| a_x a+_y |0> = delta(x,y)
	tm := term.New(algebra.One(), []term.Op{annihilate(lp), create(lq)}, nil, nil)
	res := VacuumExpectation([]term.Term{tm}, term.Fermi, canon.NewRegistry(), 1)
	//
	if len(res) != 1 {
		t.Fatalf("expected 1 term, got %d", len(res))
	}
	//
	if len(res[0].Tensors) != 1 || res[0].Tensors[0].Base != term.DeltaBase {
		t.Errorf("expected a delta, got %s", res[0].String())
	}
}

func TestVacuum_02(t *testing.T) {
	// unmatched parity vanishes
	tm := term.New(algebra.One(), []term.Op{create(lp)}, nil, nil)
	res := VacuumExpectation([]term.Term{tm}, term.Fermi, canon.NewRegistry(), 1)
	//
	if len(res) != 0 {
		t.Errorf("expected nothing, got %d terms", len(res))
	}
}

func TestVacuum_03(t *testing.T) {
	// <0| a+_q a_p |0> = 0: already ordered, never contracts
	tm := term.New(algebra.One(), []term.Op{create(lq), annihilate(lp)}, nil, nil)
	res := VacuumExpectation([]term.Term{tm}, term.Fermi, canon.NewRegistry(), 1)
	//
	if len(res) != 0 {
		t.Errorf("expected nothing, got %d terms", len(res))
	}
}

// ============================================================================
// Simplification
// ============================================================================

func TestSimplify_01(t *testing.T) {
	// equal terms merge
	tm := term.New(algebra.One(), nil,
		[]term.Tensor{term.NewTensor("f", lp, lq)}, []algebra.Index{lp, lq})
	res := Simplify([]term.Term{tm, tm.Clone()}, term.Fermi, canon.NewRegistry(), 2)
	//
	if len(res) != 1 || !res[0].Coeff.Equal(algebra.Int(2)) {
		t.Errorf("expected a single doubled term, got %v", res)
	}
}

func TestSimplify_02(t *testing.T) {
	// cancelling terms vanish
	tm := term.New(algebra.One(), nil, []term.Tensor{term.NewTensor("f", lp)}, []algebra.Index{lp})
	res := Simplify([]term.Term{tm, tm.Scale(algebra.Int(-1))}, term.Fermi, canon.NewRegistry(), 1)
	//
	if len(res) != 0 {
		t.Errorf("expected cancellation, got %d terms", len(res))
	}
}

func TestSimplify_03(t *testing.T) {
	// operator terms survive simplification (unlike the vacuum expectation)
	tm := term.New(algebra.One(), []term.Op{create(lp)}, nil, nil)
	res := Simplify([]term.Term{tm}, term.Fermi, canon.NewRegistry(), 1)
	//
	if len(res) != 1 || len(res[0].Ops) != 1 {
		t.Errorf("expected the operator term back, got %v", res)
	}
}
