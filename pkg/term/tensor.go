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
	"slices"
	"strings"

	"github.com/consensys/go-wick/pkg/algebra"
)

// DeltaBase is the reserved base name for Kronecker deltas left over when a
// vacuum contraction identifies two external indices.  Deltas are symmetric
// rank-2 tensors over a single range.
const DeltaBase = "delta"

// Tensor represents a named array symbol applied to an ordered sequence of
// indices, e.g. t2[a,b,i,j].  Any declared symmetry applies to every
// occurrence of the same base name and rank; symmetries themselves live in
// the canonicalisation registry, not on the factor.
type Tensor struct {
	// Base name of this tensor.
	Base string
	// Args are the ordered index arguments.
	Args []algebra.Index
}

// NewTensor constructs a tensor factor over the given indices.
func NewTensor(base string, args ...algebra.Index) Tensor {
	return Tensor{base, args}
}

// NewDelta constructs a Kronecker delta factor identifying two indices.
func NewDelta(left, right algebra.Index) Tensor {
	return NewTensor(DeltaBase, left, right)
}

// Rank returns the number of index arguments of this factor.
func (p Tensor) Rank() uint {
	return uint(len(p.Args))
}

// Clone returns a deep copy of this factor.
func (p Tensor) Clone() Tensor {
	return Tensor{p.Base, slices.Clone(p.Args)}
}

// Has checks whether a given index occurs amongst the arguments.
func (p Tensor) Has(idx algebra.Index) bool {
	return slices.Contains(p.Args, idx)
}

// Substitute returns a copy of this factor with every occurrence of a given
// index replaced by another.
func (p Tensor) Substitute(from, to algebra.Index) Tensor {
	res := p.Clone()
	//
	for i, arg := range res.Args {
		if arg == from {
			res.Args[i] = to
		}
	}
	//
	return res
}

// ShapeKey returns an encoding of this factor's base, rank and range
// signature.  Factors with equal shape keys are mutually interchangeable
// during canonical reordering.
func (p Tensor) ShapeKey() string {
	var builder strings.Builder
	//
	builder.WriteString(p.Base)
	builder.WriteString("/")
	//
	for _, arg := range p.Args {
		builder.WriteString(arg.Range.Name)
		builder.WriteString(",")
	}
	//
	return builder.String()
}

func (p Tensor) String() string {
	names := make([]string, len(p.Args))
	//
	for i, arg := range p.Args {
		names[i] = arg.Name
	}
	//
	return p.Base + "[" + strings.Join(names, ",") + "]"
}
