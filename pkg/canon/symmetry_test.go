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
	"testing"

	"github.com/consensys/go-wick/pkg/algebra"
	"github.com/consensys/go-wick/pkg/term"
)

// ============================================================================
// Permutations
// ============================================================================

func TestPerm_01(t *testing.T) {
	p := Perm{1, 0, 2}
	args := p.Apply([]algebra.Index{va, vb, vc})
	//
	if args[0] != vb || args[1] != va || args[2] != vc {
		t.Errorf("unexpected application %v", args)
	}
}

func TestPerm_02(t *testing.T) {
	if (Perm{0, 0}).Valid() || (Perm{2, 0}).Valid() {
		t.Error("malformed permutations accepted")
	}
	//
	if !(Perm{1, 0}).Valid() {
		t.Error("valid permutation rejected")
	}
}

// ============================================================================
// Declaration
// ============================================================================

func TestRegistry_01(t *testing.T) {
	// closure of one pair swap is the two-element group
	reg := NewRegistry()
	//
	if err := reg.Declare("t", []algebra.Range{virt, virt}, Symmetry{Perm{1, 0}, -1}); err != nil {
		t.Fatal(err)
	}
	//
	if g := reg.Group("t", 2); len(g) != 2 {
		t.Errorf("expected group of 2, got %d", len(g))
	}
}

func TestRegistry_02(t *testing.T) {
	// closure of two pair exchanges on rank 4
	reg := NewRegistry()
	sig := []algebra.Range{virt, virt, occ, occ}
	err := reg.Declare("t2", sig,
		Symmetry{Perm{1, 0, 2, 3}, -1},
		Symmetry{Perm{0, 1, 3, 2}, -1})
	//
	if err != nil {
		t.Fatal(err)
	}
	//
	if g := reg.Group("t2", 4); len(g) != 4 {
		t.Errorf("expected group of 4, got %d", len(g))
	}
}

func TestRegistry_03(t *testing.T) {
	// undeclared bases have the trivial group
	reg := NewRegistry()
	//
	if g := reg.Group("f", 3); len(g) != 1 || len(g[0].Perm) != 3 {
		t.Error("expected trivial group of rank 3")
	}
}

func TestRegistry_04(t *testing.T) {
	// a generator crossing ranges is rejected
	reg := NewRegistry()
	err := reg.Declare("f", []algebra.Range{virt, occ}, Symmetry{Perm{1, 0}, 1})
	//
	if err == nil {
		t.Error("expected cross-range generator to be rejected")
	}
}

func TestRegistry_05(t *testing.T) {
	// malformed permutations and signs are rejected
	reg := NewRegistry()
	//
	if reg.Declare("f", []algebra.Range{virt, virt}, Symmetry{Perm{0, 0}, 1}) == nil {
		t.Error("expected malformed permutation to be rejected")
	}
	//
	if reg.Declare("g", []algebra.Range{virt, virt}, Symmetry{Perm{1, 0}, 2}) == nil {
		t.Error("expected malformed sign to be rejected")
	}
}

func TestRegistry_06(t *testing.T) {
	// deriving one permutation with both signs is inconsistent
	reg := NewRegistry()
	err := reg.Declare("f", []algebra.Range{virt, virt},
		Symmetry{Perm{1, 0}, 1},
		Symmetry{Perm{1, 0}, -1})
	//
	if err == nil {
		t.Error("expected inconsistent symmetry to be rejected")
	}
}

func TestRegistry_07(t *testing.T) {
	// re-declaration is rejected
	reg := antisymRegistry(t)
	//
	if reg.Declare("t", []algebra.Range{virt, virt}) == nil {
		t.Error("expected re-declaration to be rejected")
	}
}

// ============================================================================
// Occurrence checking
// ============================================================================

func TestRegistry_10(t *testing.T) {
	reg := antisymRegistry(t)
	//
	if err := reg.CheckFactor(term.NewTensor("t", va, vb)); err != nil {
		t.Error(err)
	}
	//
	if reg.CheckFactor(term.NewTensor("t", va, oi)) == nil {
		t.Error("expected range-signature violation to be detected")
	}
	// rank mismatch never matches a declaration
	if err := reg.CheckFactor(term.NewTensor("t", va, vb, vc)); err != nil {
		t.Error(err)
	}
}
