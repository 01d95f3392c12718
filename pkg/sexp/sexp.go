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

// Package sexp provides the small s-expression surface syntax in which
// ranges, dummy families, symmetries and tensor definitions are written.
package sexp

import "strings"

// SExp is an S-Expression: either a List of zero or more S-Expressions, or a
// Symbol.
type SExp interface {
	// AsList checks whether this S-Expression is a list and, if so, returns
	// it.  Otherwise, it returns nil.
	AsList() *List
	// AsSymbol checks whether this S-Expression is a symbol and, if so,
	// returns it.  Otherwise, it returns nil.
	AsSymbol() *Symbol
	// String generates a string representation.
	String() string
}

// List represents a list of zero or more S-Expressions.
type List struct {
	Elements []SExp
	// Line on which this list opened, for error reporting.
	Line int
}

var _ SExp = (*List)(nil)

// AsList returns the given list.
func (l *List) AsList() *List { return l }

// AsSymbol returns nil for a list.
func (l *List) AsSymbol() *Symbol { return nil }

// Len gets the number of elements in this list.
func (l *List) Len() int { return len(l.Elements) }

// Get the ith element of this list.
func (l *List) Get(i int) SExp { return l.Elements[i] }

// Head returns the leading symbol of this list, or the empty string when the
// list is empty or headed by a sublist.
func (l *List) Head() string {
	if len(l.Elements) > 0 {
		if s := l.Elements[0].AsSymbol(); s != nil {
			return s.Value
		}
	}
	//
	return ""
}

func (l *List) String() string {
	var parts []string
	//
	for _, e := range l.Elements {
		parts = append(parts, e.String())
	}
	//
	return "(" + strings.Join(parts, " ") + ")"
}

// Symbol represents a terminating symbol.
type Symbol struct {
	Value string
	// Line on which this symbol occurred, for error reporting.
	Line int
}

var _ SExp = (*Symbol)(nil)

// AsList returns nil for a symbol.
func (s *Symbol) AsList() *List { return nil }

// AsSymbol returns the given symbol.
func (s *Symbol) AsSymbol() *Symbol { return s }

func (s *Symbol) String() string { return s.Value }
