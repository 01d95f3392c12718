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
	"hash/fnv"
	"slices"
	"strings"

	"github.com/consensys/go-wick/pkg/term"
	"github.com/consensys/go-wick/pkg/util"
)

// TermKey wraps a canonical term encoding as something which can be safely
// placed into a hashed map.
type TermKey struct {
	key string
}

// NewTermKey constructs the merge key for an (already canonical) term.
func NewTermKey(t term.Term) TermKey {
	return TermKey{Key(t)}
}

// Equals compares two term keys for equality.
func (p TermKey) Equals(other TermKey) bool {
	return p.key == other.key
}

// Hash generates a 64-bit hashcode from the underlying encoding.
func (p TermKey) Hash() uint64 {
	hash := fnv.New64a()
	hash.Write([]byte(p.key))
	//
	return hash.Sum64()
}

var _ util.Hasher[TermKey] = TermKey{}

// Merge canonicalizes a collection of terms and merges those sharing a
// canonical key by summing their coefficients.  Terms whose merged
// coefficient cancels to the additive identity are dropped.  The result is
// deterministically ordered by canonical key, regardless of input order.
func Merge(terms []term.Term, reg *Registry) []term.Term {
	merged := util.NewMap[TermKey, term.Term](uint(len(terms)))
	//
	for _, t := range terms {
		c := Canonicalize(t, reg)
		//
		if c.IsZero() {
			continue
		}
		//
		key := NewTermKey(c)
		//
		if prev, ok := merged.Get(key); ok {
			prev.Coeff = prev.Coeff.Add(c.Coeff)
			merged.Insert(key, prev)
		} else {
			merged.Insert(key, c)
		}
	}
	//
	var res []term.Term
	//
	merged.Each(func(_ TermKey, t term.Term) {
		if !t.IsZero() {
			res = append(res, t)
		}
	})
	//
	slices.SortFunc(res, func(l, r term.Term) int {
		return strings.Compare(Key(l), Key(r))
	})
	//
	return res
}
