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
package ast

import (
	"math/big"

	"github.com/consensys/go-semgus/pkg/util/source/sexp"
)

// Expr represents a formula (or term) appearing within a semantic body or a
// top-level constraint.  Expressions begin life unresolved, and are resolved
// in place by the resolver (e.g. a VariableAccess has its binding assigned).
type Expr interface {
	Node
}

// ============================================================================
// Number
// ============================================================================

// Number represents an (unbounded) integer literal.
type Number struct {
	Value *big.Int
}

// Lisp implementation for Node interface.
func (e *Number) Lisp() sexp.SExp {
	return sexp.NewSymbol(e.Value.String())
}

// ============================================================================
// Boolean
// ============================================================================

// Boolean represents a boolean literal (i.e. true or false).
type Boolean struct {
	Value bool
}

// Lisp implementation for Node interface.
func (e *Boolean) Lisp() sexp.SExp {
	if e.Value {
		return sexp.NewSymbol("true")
	}
	//
	return sexp.NewSymbol("false")
}

// ============================================================================
// VariableAccess
// ============================================================================

// VarKind distinguishes the different kinds of variable a plain symbol can
// resolve to.
type VarKind uint8

const (
	// GRAMMAR_VAR is a variable declared by declare-var within a grammar.
	GRAMMAR_VAR VarKind = iota
	// CHILD_VAR is a term variable bound to a child occurrence of a
	// production, or the production's own term variable.
	CHILD_VAR
	// AUXILIARY_VAR is a variable declared by declare-var at the top level.
	AUXILIARY_VAR
	// OBJECTIVE_VAR is the name of a synthesis objective, standing for the
	// term being synthesised.
	OBJECTIVE_VAR
)

// VarBinding records what a plain symbol resolved to.
type VarBinding struct {
	// Kind of binding.
	Kind VarKind
	// Name of the variable.
	Name string
	// Sort of the variable.
	Sort Sort
}

// VariableAccess represents a plain symbol used within a formula.  Prior to
// resolution the binding is nil.
type VariableAccess struct {
	Name string
	// Binding assigned by the resolver.
	Binding *VarBinding
}

// IsResolved checks whether this access has been resolved yet.
func (e *VariableAccess) IsResolved() bool {
	return e.Binding != nil
}

// Resolve this access against a given binding.
func (e *VariableAccess) Resolve(binding *VarBinding) {
	if e.Binding != nil {
		panic("variable access resolved twice")
	}
	//
	e.Binding = binding
}

// Lisp implementation for Node interface.
func (e *VariableAccess) Lisp() sexp.SExp {
	return sexp.NewSymbol(e.Name)
}

// ============================================================================
// Application
// ============================================================================

// Application represents the application of a named function to zero or more
// arguments.  The name either identifies a primitive (e.g. and, +, <) or a
// semantic relation; which of the two is determined by the resolver.
type Application struct {
	Name string
	Args []Expr
	// Primitive signature, assigned by the resolver when Name identifies a
	// builtin.
	Primitive *Primitive
	// Relation signature, assigned by the resolver when Name identifies a
	// semantic relation.
	Relation *RelationRef
}

// IsResolved checks whether this application has been resolved yet.
func (e *Application) IsResolved() bool {
	return e.Primitive != nil || e.Relation != nil
}

// Lisp implementation for Node interface.
func (e *Application) Lisp() sexp.SExp {
	elements := make([]sexp.SExp, len(e.Args)+1)
	elements[0] = sexp.NewSymbol(e.Name)
	//
	for i, arg := range e.Args {
		elements[i+1] = arg.Lisp()
	}
	//
	return sexp.NewList(elements)
}

// RelationRef records the semantic relation an application resolved to.
type RelationRef struct {
	// Name of the relation.
	Name string
	// Signature of the relation, with the term sort first.
	Signature []Sort
}

// Primitive describes a builtin function symbol.
type Primitive struct {
	Name string
	// Minimum number of arguments accepted.
	MinArity int
	// Maximum number of arguments accepted (or -1 for variadic).
	MaxArity int
}

// ============================================================================
// Free variable traversal
// ============================================================================

// ForEachVariable applies a given callback to every variable access within an
// expression, in left-to-right order.
func ForEachVariable(expr Expr, fn func(*VariableAccess)) {
	switch e := expr.(type) {
	case *VariableAccess:
		fn(e)
	case *Application:
		for _, arg := range e.Args {
			ForEachVariable(arg, fn)
		}
	}
}
