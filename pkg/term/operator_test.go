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

import "testing"

func TestConvention_01(t *testing.T) {
	// only annihilate-create pairs are out of order
	if _, out := Fermi.Rewrite(Annihilate, Create); !out {
		t.Error("a a+ should rewrite")
	}
	//
	if _, out := Fermi.Rewrite(Create, Annihilate); out {
		t.Error("a+ a is already normal ordered")
	}
	//
	if _, out := Fermi.Rewrite(Create, Create); out {
		t.Error("a+ a+ is already normal ordered")
	}
}

func TestConvention_02(t *testing.T) {
	fermi, _ := Fermi.Rewrite(Annihilate, Create)
	bose, _ := Bose.Rewrite(Annihilate, Create)
	//
	if fermi.Sign != -1 || !fermi.Contracts {
		t.Error("fermionic pairs anticommute and contract")
	}
	//
	if bose.Sign != 1 || !bose.Contracts {
		t.Error("bosonic pairs commute and contract")
	}
}
