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
	"github.com/consensys/go-semgus/pkg/util/source/sexp"
)

// Problem represents the root of the Abstract Syntax Tree: the ordered
// sequence of top-level commands making up one SemGuS problem description.
type Problem struct {
	Commands []Command
}

// Node provides common functionality across all elements of the Abstract
// Syntax Tree.  For example, it ensures every element can be converted back
// into Lisp form for debugging.  Furthermore, it provides a reference point
// for constructing a suitable source map when reporting syntax errors.
type Node interface {
	// Convert this node into its lisp representation.  This is primarily used
	// for debugging purposes.
	Lisp() sexp.SExp
}

// Command represents a top-level command in a SemGuS problem file (e.g.
// declare-term-type, synth-term, constraint, etc).
type Command interface {
	Node
}

// ============================================================================
// metadata
// ============================================================================

// Metadata represents an inert metadata command.  Its contents are recorded
// verbatim but never consulted by any compilation decision.
type Metadata struct {
	// Key for this metadata entry (e.g. ":author").
	Key string
	// Values recorded for this entry, held in their raw form.
	Values []sexp.SExp
}

// Lisp implementation for Node interface.
func (p *Metadata) Lisp() sexp.SExp {
	elements := []sexp.SExp{sexp.NewSymbol("metadata"), sexp.NewSymbol(p.Key)}
	elements = append(elements, p.Values...)
	//
	return sexp.NewList(elements)
}

// ============================================================================
// declare-term-type
// ============================================================================

// DeclTermType represents the declaration of a new term type.
type DeclTermType struct {
	Name string
}

// Lisp implementation for Node interface.
func (p *DeclTermType) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("declare-term-type"), sexp.NewSymbol(p.Name)})
}

// ============================================================================
// declare-var
// ============================================================================

// DeclVars represents the declaration of one or more variables of a common
// sort.  At the top level, this declares auxiliary global variables; within a
// grammar, it declares the grammar's state variables.
type DeclVars struct {
	Names []string
	// Name of the declared sort (Int, Bool or a term type).
	SortName string
	// Sort resolved from SortName by the resolver.
	Sort Sort
}

// Lisp implementation for Node interface.
func (p *DeclVars) Lisp() sexp.SExp {
	names := make([]sexp.SExp, len(p.Names))
	for i, n := range p.Names {
		names[i] = sexp.NewSymbol(n)
	}
	//
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("declare-var"), sexp.NewList(names), sexp.NewSymbol(p.SortName)})
}

// ============================================================================
// synth-term
// ============================================================================

// SynthTerm represents a synthesis objective: a named term of a given term
// type, together with the grammar defining the candidate terms and their
// semantics.
type SynthTerm struct {
	Name string
	// Name of the term type produced.
	TermTypeName string
	// The grammar owned by this objective.
	Grammar Grammar
}

// Lisp implementation for Node interface.
func (p *SynthTerm) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("synth-term"), sexp.NewSymbol(p.Name),
		sexp.NewSymbol(p.TermTypeName), p.Grammar.Lisp()})
}

// Grammar holds the local declarations of one synth-term block: state
// variables, non-terminals and one production group per non-terminal.
// Variables and non-terminals are invisible outside the block; semantic
// relations become globally visible once the block closes.
type Grammar struct {
	// Variable declarations, in declaration order.
	Vars []*DeclVars
	// Non-terminal declarations, in declaration order.  The first declared
	// non-terminal is the grammar's entry non-terminal.
	NonTerminals []*DeclNonTerminal
	// Production groups, one per non-terminal.
	Groups []*ProductionGroup
}

// Lisp implementation for Node interface.
func (p *Grammar) Lisp() sexp.SExp {
	var elements []sexp.SExp
	//
	for _, v := range p.Vars {
		elements = append(elements, v.Lisp())
	}
	//
	for _, nt := range p.NonTerminals {
		elements = append(elements, nt.Lisp())
	}
	//
	for _, g := range p.Groups {
		elements = append(elements, g.Lisp())
	}
	//
	return sexp.NewList(elements)
}

// DeclNonTerminal represents the declaration of a non-terminal: its name, the
// term type it produces and the signature of its semantic relation.
type DeclNonTerminal struct {
	Name string
	// Name of the term type produced by this non-terminal.
	TermTypeName string
	// Name of the semantic relation.
	RelationName string
	// Declared parameter sorts of the semantic relation, by name.  The first
	// must be the non-terminal's own term type.
	SortNames []string
}

// Lisp implementation for Node interface.
func (p *DeclNonTerminal) Lisp() sexp.SExp {
	sorts := make([]sexp.SExp, len(p.SortNames))
	for i, s := range p.SortNames {
		sorts[i] = sexp.NewSymbol(s)
	}
	//
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("declare-nt"), sexp.NewSymbol(p.Name),
		sexp.NewSymbol(p.TermTypeName),
		sexp.NewList([]sexp.SExp{
			sexp.NewSymbol(p.RelationName), sexp.NewList(sorts)})})
}

// ProductionGroup gives the productions of one non-terminal, along with the
// group header fixing the clause head shared by every production: the
// production term variable, and the grammar variables bound (positionally) to
// the remaining parameters of the semantic relation.
type ProductionGroup struct {
	// Name of the non-terminal this group belongs to.
	NonTerminal string
	// Name of the production term variable (the "head" term argument).
	TermVar string
	// Name of the semantic relation, as written in the header.  Must agree
	// with the non-terminal's declared relation.
	RelationName string
	// Argument names of the head application, starting with TermVar.
	HeadArgs []string
	// Productions of this non-terminal.
	Productions []*Production
}

// Lisp implementation for Node interface.
func (p *ProductionGroup) Lisp() sexp.SExp {
	head := make([]sexp.SExp, len(p.HeadArgs)+1)
	head[0] = sexp.NewSymbol(p.RelationName)
	//
	for i, a := range p.HeadArgs {
		head[i+1] = sexp.NewSymbol(a)
	}
	//
	elements := []sexp.SExp{
		sexp.NewList([]sexp.SExp{
			sexp.NewSymbol(p.NonTerminal), sexp.NewSymbol(p.TermVar)}),
		sexp.NewList(head),
	}
	//
	for _, prod := range p.Productions {
		elements = append(elements, prod.Lisp())
	}
	//
	return sexp.NewList(elements)
}

// Production represents one syntactic alternative of a non-terminal: a
// constructor name, zero or more child occurrences, and one or more semantic
// bodies.  More than one body means alternation: each body yields its own
// Horn clause, all sharing the same head.
type Production struct {
	// Constructor name (e.g. "ITE.Syn").
	Constructor string
	// Child occurrences, in order.  Empty for leaf productions.
	Children []*ChildOccurrence
	// Semantic bodies, in order.
	Bodies []Expr
}

// IsLeaf checks whether this production has any children.
func (p *Production) IsLeaf() bool {
	return len(p.Children) == 0
}

// Lisp implementation for Node interface.
func (p *Production) Lisp() sexp.SExp {
	var head sexp.SExp
	//
	if p.IsLeaf() {
		head = sexp.NewSymbol(p.Constructor)
	} else {
		elements := make([]sexp.SExp, len(p.Children)+1)
		elements[0] = sexp.NewSymbol(p.Constructor)
		//
		for i, c := range p.Children {
			elements[i+1] = c.Lisp()
		}
		//
		head = sexp.NewList(elements)
	}
	//
	elements := []sexp.SExp{head}
	for _, b := range p.Bodies {
		elements = append(elements, b.Lisp())
	}
	//
	return sexp.NewList(elements)
}

// ChildOccurrence binds a fresh term variable to a child of a production,
// where the child is produced by a given non-terminal.  The variable is scoped
// to the enclosing production only.
type ChildOccurrence struct {
	// Name of the non-terminal producing this child.
	NonTerminal string
	// Name of the bound term variable.
	Name string
}

// Lisp implementation for Node interface.
func (p *ChildOccurrence) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol(p.NonTerminal), sexp.NewSymbol(p.Name)})
}

// ============================================================================
// constraint
// ============================================================================

// Constraint represents a top-level constraint: a closed formula over the
// semantic relations of one or more synthesis objectives.
type Constraint struct {
	Formula Expr
}

// Lisp implementation for Node interface.
func (p *Constraint) Lisp() sexp.SExp {
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("constraint"), p.Formula.Lisp()})
}
