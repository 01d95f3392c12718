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

func TestAllocator_01(t *testing.T) {
	virt := NewRange("V", "v")
	alloc := NewAllocator()
	alloc.Declare(virt, "a", "b")
	//
	if !alloc.IsDummy(NewIndex("a", virt)) {
		t.Error("a should be a dummy")
	}
	//
	if alloc.IsDummy(NewIndex("x", virt)) {
		t.Error("x should not be a dummy")
	}
}

func TestAllocator_02(t *testing.T) {
	// same name over another range is not a dummy
	virt := NewRange("V", "v")
	occ := NewRange("O", "o")
	alloc := NewAllocator()
	alloc.Declare(virt, "a")
	//
	if alloc.IsDummy(NewIndex("a", occ)) {
		t.Error("a over O should not be a dummy")
	}
}

func TestAllocator_03(t *testing.T) {
	// fresh prefers unused family members
	virt := NewRange("V", "v")
	alloc := NewAllocator()
	alloc.Declare(virt, "a", "b")
	//
	avoid := map[Index]bool{NewIndex("a", virt): true}
	//
	if idx := alloc.Fresh(virt, avoid); idx.Name != "b" {
		t.Errorf("expected b, got %s", idx.Name)
	}
}

func TestAllocator_04(t *testing.T) {
	// fresh generates once the family is exhausted
	virt := NewRange("V", "v")
	alloc := NewAllocator()
	alloc.Declare(virt, "a")
	//
	avoid := map[Index]bool{NewIndex("a", virt): true}
	idx := alloc.Fresh(virt, avoid)
	//
	if avoid[idx] || idx.Range != virt {
		t.Errorf("unexpected fresh index %s", idx.Name)
	}
}

func TestIndex_01(t *testing.T) {
	// ordering is by range first, then name
	virt := NewRange("V", "v")
	occ := NewRange("O", "o")
	//
	if NewIndex("z", occ).Cmp(NewIndex("a", virt)) >= 0 {
		t.Error("O indices should order before V indices")
	}
	//
	if NewIndex("a", virt).Cmp(NewIndex("b", virt)) >= 0 {
		t.Error("a should order before b")
	}
}

func TestOrder_01(t *testing.T) {
	virt := NewRange("V", "v")
	occ := NewRange("O", "o")
	order := NewOrder(virt, occ)
	//
	if order.Position(virt) != 0 || order.Position(occ) != 1 {
		t.Error("declared positions wrong")
	}
	// Undeclared ranges come last.
	if order.Position(NewRange("X", "")) != 2 {
		t.Error("undeclared range should come last")
	}
}
