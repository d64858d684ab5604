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
package compiler

import (
	"fmt"

	"github.com/consensys/go-semgus/pkg/util/source"
)

// Code classifies a diagnostic according to the stage and check which produced
// it.
type Code uint8

const (
	// PARSE_ERROR indicates a malformed expression tree or command shape.
	PARSE_ERROR Code = iota
	// DUPLICATE_SYMBOL indicates a name declared more than once within its
	// scope.
	DUPLICATE_SYMBOL
	// UNDECLARED_VARIABLE indicates a plain symbol which resolved to nothing
	// in scope.
	UNDECLARED_VARIABLE
	// UNKNOWN_TYPE indicates a reference to an undeclared sort or term type.
	UNKNOWN_TYPE
	// UNKNOWN_NONTERMINAL indicates a reference to an undeclared non-terminal.
	UNKNOWN_NONTERMINAL
	// ARITY_MISMATCH indicates a relation applied to the wrong number of
	// arguments.
	ARITY_MISMATCH
	// SORT_MISMATCH indicates an argument whose sort disagrees with the
	// relation's declared signature.
	SORT_MISMATCH
	// CONFLICTING_RELATION indicates a relation used with a signature other
	// than the one fixed at its declaration.
	CONFLICTING_RELATION
	// UNKNOWN_OBJECTIVE indicates a constraint referencing a name never
	// declared via synth-term.
	UNKNOWN_OBJECTIVE
)

// Category returns the error family this code belongs to (parse, declaration,
// grammar or constraint).
func (c Code) Category() string {
	switch c {
	case PARSE_ERROR:
		return "parse"
	case DUPLICATE_SYMBOL, UNDECLARED_VARIABLE, UNKNOWN_TYPE:
		return "declaration"
	case UNKNOWN_NONTERMINAL, ARITY_MISMATCH, SORT_MISMATCH, CONFLICTING_RELATION:
		return "grammar"
	case UNKNOWN_OBJECTIVE:
		return "constraint"
	}
	// Should be unreachable.
	panic(fmt.Sprintf("unknown diagnostic code (%d)", c))
}

func (c Code) String() string {
	switch c {
	case PARSE_ERROR:
		return "parse error"
	case DUPLICATE_SYMBOL:
		return "duplicate symbol"
	case UNDECLARED_VARIABLE:
		return "undeclared variable"
	case UNKNOWN_TYPE:
		return "unknown type"
	case UNKNOWN_NONTERMINAL:
		return "unknown non-terminal"
	case ARITY_MISMATCH:
		return "arity mismatch"
	case SORT_MISMATCH:
		return "sort mismatch"
	case CONFLICTING_RELATION:
		return "conflicting relation signature"
	case UNKNOWN_OBJECTIVE:
		return "unknown objective"
	}
	// Should be unreachable.
	panic(fmt.Sprintf("unknown diagnostic code (%d)", c))
}

// Diagnostic is a classified syntax error: a category code together with the
// underlying error, which retains the span of the original source text where
// the problem arose.
type Diagnostic struct {
	// Classification of this diagnostic.
	Code Code
	// Underlying error, including source location.
	Err source.SyntaxError
}

// Error implements the error interface.
func (p *Diagnostic) Error() string {
	return fmt.Sprintf("%s:%s: %s", p.Code.Category(), p.Code, p.Err.Error())
}

// Wrap a set of plain syntax errors (e.g. as produced by the expression
// translator) as diagnostics of a given code.
func wrapErrors(code Code, errs []source.SyntaxError) []Diagnostic {
	diags := make([]Diagnostic, len(errs))
	//
	for i, err := range errs {
		diags[i] = Diagnostic{code, err}
	}
	//
	return diags
}
