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

	"github.com/consensys/go-wick/pkg/algebra"
)

// Einsum constructs a term from a raw product of factors using the Einstein
// summation convention: every index drawn from a declared dummy family which
// occurs in a factor, but not amongst the given externals, is inferred to be
// summed.  Reusing one index name across two different ranges within a single
// term is rejected, as it almost always indicates a misdeclared factor.
func Einsum(coeff algebra.Expr, externals []algebra.Index, alloc *algebra.Allocator,
	ops []Op, tensors []Tensor) (Term, error) {
	var sums []algebra.Index
	//
	raw := Term{coeff, ops, tensors, nil}
	byName := make(map[string]algebra.Range)
	//
	for _, idx := range raw.Indices() {
		if r, ok := byName[idx.Name]; ok && r != idx.Range {
			return Term{}, fmt.Errorf("index %s bound to both range %s and range %s",
				idx.Name, r.Name, idx.Range.Name)
		}
		//
		byName[idx.Name] = idx.Range
		//
		if !slices.Contains(externals, idx) && alloc.IsDummy(idx) {
			sums = append(sums, idx)
		}
	}
	//
	res := New(coeff, ops, tensors, sums)
	//
	if err := res.Validate(); err != nil {
		return Term{}, err
	}
	//
	return res, nil
}
