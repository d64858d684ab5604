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
package chc

import (
	"math/big"

	"github.com/consensys/go-semgus/pkg/util/source/sexp"
)

// Term represents a first-order term (or formula) within a Horn clause or
// constraint.  Terms are fully resolved: every variable occurrence carries its
// sort, and every application is either a primitive or a declared relation.
type Term interface {
	// Sexp converts this term into its S-expression form, as used by the
	// system writer.
	Sexp() sexp.SExp
}

// ============================================================================
// Variable
// ============================================================================

// Var represents an occurrence of a (sorted) variable.  This is also used to
// describe the quantified variables of a clause.
type Var struct {
	Name string
	// Sort of this variable (e.g. "Int", "Bool" or a term sort).
	Sort string
}

// Sexp implementation for Term interface.
func (p *Var) Sexp() sexp.SExp {
	return sexp.NewSymbol(p.Name)
}

// ============================================================================
// Number
// ============================================================================

// Num represents an integer literal.
type Num struct {
	Value *big.Int
}

// NewNum constructs an integer literal from a given int64.
func NewNum(value int64) *Num {
	return &Num{big.NewInt(value)}
}

// Sexp implementation for Term interface.
func (p *Num) Sexp() sexp.SExp {
	return sexp.NewSymbol(p.Value.String())
}

// ============================================================================
// Boolean
// ============================================================================

// Bool represents a boolean literal.
type Bool struct {
	Value bool
}

// Sexp implementation for Term interface.
func (p *Bool) Sexp() sexp.SExp {
	if p.Value {
		return sexp.NewSymbol("true")
	}
	//
	return sexp.NewSymbol("false")
}

// ============================================================================
// Application
// ============================================================================

// App represents the application of a named function symbol (primitive or
// relation) to zero or more arguments.
type App struct {
	Name string
	Args []Term
}

// NewApp constructs an application of a given function symbol.
func NewApp(name string, args ...Term) *App {
	return &App{name, args}
}

// Sexp implementation for Term interface.
func (p *App) Sexp() sexp.SExp {
	elements := make([]sexp.SExp, len(p.Args)+1)
	elements[0] = sexp.NewSymbol(p.Name)
	//
	for i, arg := range p.Args {
		elements[i+1] = arg.Sexp()
	}
	//
	return sexp.NewList(elements)
}

// ============================================================================
// Equality
// ============================================================================

// EqualTerms checks whether two terms are structurally identical.
func EqualTerms(lhs Term, rhs Term) bool {
	return equalTerms(lhs, rhs, nil)
}

// Check structural equality of two terms, modulo a given renaming of variable
// occurrences in the left-hand term.  A nil renaming means identity.
func equalTerms(lhs Term, rhs Term, renaming map[string]string) bool {
	switch l := lhs.(type) {
	case *Var:
		r, ok := rhs.(*Var)
		if !ok {
			return false
		}
		// Apply renaming (if applicable)
		name := l.Name
		if renaming != nil {
			if n, ok := renaming[name]; ok {
				name = n
			}
		}
		//
		return name == r.Name && l.Sort == r.Sort
	case *Num:
		r, ok := rhs.(*Num)
		return ok && l.Value.Cmp(r.Value) == 0
	case *Bool:
		r, ok := rhs.(*Bool)
		return ok && l.Value == r.Value
	case *App:
		r, ok := rhs.(*App)
		if !ok || l.Name != r.Name || len(l.Args) != len(r.Args) {
			return false
		}
		//
		for i := range l.Args {
			if !equalTerms(l.Args[i], r.Args[i], renaming) {
				return false
			}
		}
		//
		return true
	}
	// Should be unreachable.
	panic("unknown term encountered")
}
