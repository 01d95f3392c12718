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

// Definition binds a left-hand-side tensor (with free external indices) to a
// right-hand-side sum of terms, its amplitude.
type Definition struct {
	// LHS tensor being defined.
	LHS Tensor
	// Terms of the amplitude.
	Terms []Term
}

// NewDefinition constructs a definition from its parts.
func NewDefinition(lhs Tensor, terms ...Term) Definition {
	return Definition{lhs, terms}
}

// Clone returns a deep copy of this definition.
func (p Definition) Clone() Definition {
	terms := make([]Term, len(p.Terms))
	//
	for i, t := range p.Terms {
		terms[i] = t.Clone()
	}
	//
	return Definition{p.LHS.Clone(), terms}
}

// Validate checks that every term is well formed and that its external
// indices agree with the left-hand side.  A term may use a strict subset of
// the left-hand-side indices only if it uses none at all (a scalar
// contribution is never valid against an indexed left-hand side).
func (p Definition) Validate() error {
	lhs := slices.Clone(p.LHS.Args)
	slices.SortFunc(lhs, algebra.Index.Cmp)
	//
	for i, t := range p.Terms {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("definition %s, term %d: %w", p.LHS.Base, i, err)
		}
		//
		if ext := t.Externals(); !slices.Equal(ext, lhs) {
			return fmt.Errorf("definition %s, term %d: external indices %v do not match left-hand side %v",
				p.LHS.Base, i, ext, lhs)
		}
	}
	//
	return nil
}

// System is an ordered sequence of tensor definitions, where later
// definitions may reference the left-hand sides of earlier ones.
type System []Definition

// NewSystem constructs a system from the given definitions, enforcing that
// left-hand-side names are unique, that every definition validates, and that
// tensor references between definitions form a DAG (a definition may only
// reference left-hand sides defined strictly before it).
func NewSystem(defs ...Definition) (System, error) {
	defined := make(map[string]int)
	//
	for i, def := range defs {
		if j, ok := defined[def.LHS.Base]; ok {
			return nil, fmt.Errorf("definition %s: left-hand side already defined at position %d", def.LHS.Base, j)
		}
		//
		if err := def.Validate(); err != nil {
			return nil, err
		}
		// Check references are backwards only.
		for ti, t := range def.Terms {
			for _, f := range t.Tensors {
				if f.Base == def.LHS.Base {
					return nil, fmt.Errorf("definition %s, term %d: cyclic self-reference", def.LHS.Base, ti)
				}
			}
		}
		//
		defined[def.LHS.Base] = i
	}
	// Forward references are cyclic by construction of the ordering.
	for i, def := range defs {
		for ti, t := range def.Terms {
			for _, f := range t.Tensors {
				if j, ok := defined[f.Base]; ok && j >= i {
					return nil, fmt.Errorf("definition %s, term %d: reference to %s breaks definition order",
						def.LHS.Base, ti, f.Base)
				}
			}
		}
	}
	//
	return System(defs), nil
}

// Clone returns a deep copy of this system.
func (p System) Clone() System {
	res := make(System, len(p))
	//
	for i, def := range p {
		res[i] = def.Clone()
	}
	//
	return res
}

// TermCount returns the total number of terms across all definitions.
func (p System) TermCount() uint {
	count := uint(0)
	//
	for _, def := range p {
		count += uint(len(def.Terms))
	}
	//
	return count
}
