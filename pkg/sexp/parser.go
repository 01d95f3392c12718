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
package sexp

import (
	"fmt"
	"unicode"
)

// ParseAll converts a given string into zero or more S-expressions, or
// returns an error (carrying the offending line) if the string is malformed.
// Comments run from ';' to end of line.
func ParseAll(text string) ([]SExp, error) {
	p := &parser{text: []rune(text), line: 1}
	//
	var terms []SExp
	//
	for {
		term, err := p.parse()
		//
		if err != nil {
			return nil, err
		} else if term == nil {
			return terms, nil
		}
		//
		terms = append(terms, term)
	}
}

// parser tracks the parse position and current line within the input text.
type parser struct {
	text  []rune
	index int
	line  int
}

func (p *parser) parse() (SExp, error) {
	p.skipWhiteSpace()
	//
	if p.index == len(p.text) {
		return nil, nil
	}
	//
	switch p.text[p.index] {
	case ')':
		return nil, p.errorf("unexpected end-of-list")
	case '(':
		line := p.line
		p.index++
		//
		var elements []SExp
		//
		for {
			p.skipWhiteSpace()
			//
			if p.index == len(p.text) {
				return nil, p.errorf("unexpected end-of-file in list opened on line %d", line)
			} else if p.text[p.index] == ')' {
				p.index++
				return &List{elements, line}, nil
			}
			//
			element, err := p.parse()
			if err != nil {
				return nil, err
			}
			//
			elements = append(elements, element)
		}
	default:
		return p.parseSymbol(), nil
	}
}

func (p *parser) parseSymbol() *Symbol {
	start := p.index
	//
	for p.index < len(p.text) && !isDelimiter(p.text[p.index]) {
		p.index++
	}
	//
	return &Symbol{string(p.text[start:p.index]), p.line}
}

func (p *parser) skipWhiteSpace() {
	for p.index < len(p.text) {
		c := p.text[p.index]
		//
		switch {
		case c == '\n':
			p.line++
			p.index++
		case unicode.IsSpace(c):
			p.index++
		case c == ';':
			// Skip comment to end of line
			for p.index < len(p.text) && p.text[p.index] != '\n' {
				p.index++
			}
		default:
			return
		}
	}
}

func (p *parser) errorf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("line %d: %s", p.line, msg)
}

func isDelimiter(c rune) bool {
	return c == '(' || c == ')' || c == ';' || unicode.IsSpace(c)
}
