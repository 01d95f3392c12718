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
package bag

import (
	"testing"

	"github.com/consensys/go-wick/pkg/algebra"
	"github.com/consensys/go-wick/pkg/term"
)

func scalars(vals ...int64) []term.Term {
	res := make([]term.Term, len(vals))
	//
	for i, v := range vals {
		res[i] = term.Scalar(algebra.Int(v))
	}
	//
	return res
}

func TestBag_01(t *testing.T) {
	b := New(scalars(1, 2, 3), 2)
	//
	if b.Size() != 3 {
		t.Errorf("expected 3 terms, got %d", b.Size())
	}
}

func TestBag_02(t *testing.T) {
	// map applies to every term, across partitions
	b := New(scalars(1, 2, 3, 4), 3)
	b.Map(func(tm term.Term) term.Term {
		return tm.Scale(algebra.Int(2))
	})
	//
	total := algebra.Zero()
	//
	for _, tm := range b.Terms() {
		total = total.Add(tm.Coeff)
	}
	//
	if !total.Equal(algebra.Int(20)) {
		t.Errorf("expected total 20, got %s", total.String())
	}
}

func TestBag_03(t *testing.T) {
	// flatmap can both expand and filter
	b := New(scalars(1, 2, 3), 1)
	b.FlatMap(func(tm term.Term) []term.Term {
		if tm.Coeff.Equal(algebra.Int(2)) {
			return nil
		}
		//
		return []term.Term{tm, tm}
	})
	//
	if b.Size() != 4 {
		t.Errorf("expected 4 terms, got %d", b.Size())
	}
}

func TestBag_04(t *testing.T) {
	// materialization caches: later stages only apply to later calls
	calls := 0
	b := New(scalars(1, 2), 1)
	b.Map(func(tm term.Term) term.Term {
		calls++
		return tm
	})
	//
	b.Materialize()
	b.Materialize()
	b.Terms()
	//
	if calls != 2 {
		t.Errorf("expected 2 applications, got %d", calls)
	}
}

func TestBag_05(t *testing.T) {
	// group-reduce merges across partitions
	b := New(scalars(1, 1, 1, 5), 3)
	//
	res := b.GroupReduce(func(tm term.Term) string {
		return tm.Coeff.String()
	}, func(l, r term.Term) term.Term {
		l.Coeff = l.Coeff.Add(r.Coeff)
		return l
	})
	//
	if len(res) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(res))
	}
	//
	total := algebra.Zero()
	for _, tm := range res {
		total = total.Add(tm.Coeff)
	}
	//
	if !total.Equal(algebra.Int(8)) {
		t.Errorf("expected total 8, got %s", total.String())
	}
}

func TestBag_06(t *testing.T) {
	// empty bags behave
	b := New(nil, 0)
	//
	if b.Size() != 0 || len(b.Terms()) != 0 {
		t.Error("empty bag is not empty")
	}
}
