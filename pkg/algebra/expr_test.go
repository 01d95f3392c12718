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
	"testing"
)

// ============================================================================
// Constants
// ============================================================================

func TestExpr_01(t *testing.T) {
	checkZero(t, Zero())
}

func TestExpr_02(t *testing.T) {
	checkEqual(t, Int(0), Zero())
}

func TestExpr_03(t *testing.T) {
	checkEqual(t, Rat(0, 5), Zero())
}

func TestExpr_04(t *testing.T) {
	if !One().IsOne() {
		t.Error("expected one")
	}
}

func TestExpr_05(t *testing.T) {
	checkEqual(t, Rat(2, 2), One())
}

func TestExpr_06(t *testing.T) {
	checkEqual(t, Rat(1, 2).Add(Rat(1, 2)), One())
}

// ============================================================================
// Arithmetic
// ============================================================================

func TestExpr_10(t *testing.T) {
	checkZero(t, Int(3).Add(Int(-3)))
}

func TestExpr_11(t *testing.T) {
	checkZero(t, Symbol("n").Add(Symbol("n").Neg()))
}

func TestExpr_12(t *testing.T) {
	// (n + 1) * (n - 1) == n*n - 1
	lhs := Symbol("n").Add(One()).Mul(Symbol("n").Add(Int(-1)))
	rhs := Symbol("n").Mul(Symbol("n")).Add(Int(-1))
	checkEqual(t, lhs, rhs)
}

func TestExpr_13(t *testing.T) {
	// addition commutes
	lhs := Symbol("n").Add(Symbol("m"))
	rhs := Symbol("m").Add(Symbol("n"))
	checkEqual(t, lhs, rhs)
}

func TestExpr_14(t *testing.T) {
	// multiplication commutes
	lhs := Symbol("n").Mul(Symbol("m"))
	rhs := Symbol("m").Mul(Symbol("n"))
	checkEqual(t, lhs, rhs)
}

func TestExpr_15(t *testing.T) {
	checkZero(t, Symbol("n").Mul(Zero()))
}

func TestExpr_16(t *testing.T) {
	// n*(m + 1) == n*m + n
	lhs := Symbol("n").Mul(Symbol("m").Add(One()))
	rhs := Symbol("n").Mul(Symbol("m")).Add(Symbol("n"))
	checkEqual(t, lhs, rhs)
}

// ============================================================================
// Substitution
// ============================================================================

func TestExpr_20(t *testing.T) {
	// n |-> 2 in n*n + n gives 6
	e := Symbol("n").Mul(Symbol("n")).Add(Symbol("n"))
	checkEqual(t, e.Substitute(map[string]Expr{"n": Int(2)}), Int(6))
}

func TestExpr_21(t *testing.T) {
	// unmapped symbols untouched
	e := Symbol("n").Mul(Symbol("m"))
	checkEqual(t, e.Substitute(map[string]Expr{"n": Symbol("k")}), Symbol("k").Mul(Symbol("m")))
}

// ============================================================================
// Printing
// ============================================================================

func TestExpr_30(t *testing.T) {
	checkString(t, Zero(), "0")
}

func TestExpr_31(t *testing.T) {
	checkString(t, Rat(1, 2), "1/2")
}

func TestExpr_32(t *testing.T) {
	checkString(t, Symbol("n"), "n")
}

func TestExpr_33(t *testing.T) {
	checkString(t, Symbol("n").Mul(Int(3)), "3*n")
}

// ============================================================================
// Helpers
// ============================================================================

func checkZero(t *testing.T, e Expr) {
	t.Helper()
	//
	if !e.IsZero() {
		t.Errorf("expected zero, got %s", e.String())
	}
}

func checkEqual(t *testing.T, l, r Expr) {
	t.Helper()
	//
	if !l.Equal(r) {
		t.Errorf("expected %s == %s", l.String(), r.String())
	}
}

func checkString(t *testing.T, e Expr, expected string) {
	t.Helper()
	//
	if s := e.String(); s != expected {
		t.Errorf("expected %q, got %q", expected, s)
	}
}
