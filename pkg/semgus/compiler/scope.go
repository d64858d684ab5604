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
	"github.com/consensys/go-semgus/pkg/semgus/ast"
)

// GlobalScope holds the symbols visible across the whole compilation unit:
// term types, synthesis objectives, semantic relations and auxiliary global
// variables.  The scope only ever grows; entries are never removed.
type GlobalScope struct {
	// Declared term types, with declaration order retained.
	termTypes map[string]bool
	termOrder []string
	// Declared synthesis objectives.
	objectives map[string]*Objective
	objOrder   []*Objective
	// Semantic relations exported from grammars compiled so far.
	relations map[string]*Relation
	relOrder  []*Relation
	// Auxiliary top-level variables.
	auxVars  map[string]*ast.VarBinding
	auxOrder []*ast.VarBinding
}

// Objective records one synthesis objective, together with its (archived)
// grammar scope once the corresponding synth-term block has compiled.
type Objective struct {
	Name string
	// Name of the term type being synthesised.
	TermType string
	// Block is the resolved synth-term command.
	Block *ast.SynthTerm
	// Grammar holds the archived grammar scope.  This is nil whenever the
	// block failed to compile, in which case the objective contributes no
	// clauses.
	Grammar *GrammarScope
}

// Relation records a semantic relation: its name, its signature (term sort
// first) and the non-terminal owning it.
type Relation struct {
	Name string
	// Parameter sorts, with the owning non-terminal's term sort first.
	Signature []ast.Sort
	// Name of the owning non-terminal.
	NonTerminal string
}

// NewGlobalScope constructs an initially empty global scope.
func NewGlobalScope() *GlobalScope {
	return &GlobalScope{
		termTypes:  make(map[string]bool),
		objectives: make(map[string]*Objective),
		relations:  make(map[string]*Relation),
		auxVars:    make(map[string]*ast.VarBinding),
	}
}

// DeclareTermType registers a new term type, returning false if a term type
// of that name already exists.
func (p *GlobalScope) DeclareTermType(name string) bool {
	if p.termTypes[name] {
		return false
	}
	//
	p.termTypes[name] = true
	p.termOrder = append(p.termOrder, name)
	//
	return true
}

// HasTermType checks whether a given term type has been declared.
func (p *GlobalScope) HasTermType(name string) bool {
	return p.termTypes[name]
}

// TermTypes returns the declared term types, in declaration order.
func (p *GlobalScope) TermTypes() []string {
	return p.termOrder
}

// ResolveSort maps a sort name to a sort, returning false if the name is
// neither a builtin sort nor a declared term type.
func (p *GlobalScope) ResolveSort(name string) (ast.Sort, bool) {
	switch {
	case name == "Int":
		return ast.IntSort(), true
	case name == "Bool":
		return ast.BoolSort(), true
	case p.termTypes[name]:
		return ast.TermSort(name), true
	}
	//
	return ast.Sort{}, false
}

// DeclareObjective registers a new synthesis objective, returning false if
// the name is already taken (by another objective, relation or auxiliary
// variable).
func (p *GlobalScope) DeclareObjective(obj *Objective) bool {
	if p.taken(obj.Name) {
		return false
	}
	//
	p.objectives[obj.Name] = obj
	p.objOrder = append(p.objOrder, obj)
	//
	return true
}

// Objective looks up a declared synthesis objective by name.
func (p *GlobalScope) Objective(name string) (*Objective, bool) {
	obj, ok := p.objectives[name]
	return obj, ok
}

// Objectives returns the declared objectives, in declaration order.
func (p *GlobalScope) Objectives() []*Objective {
	return p.objOrder
}

// DeclareRelation exports a semantic relation into the global scope,
// returning false if the name is already taken.
func (p *GlobalScope) DeclareRelation(rel *Relation) bool {
	if p.taken(rel.Name) {
		return false
	}
	//
	p.relations[rel.Name] = rel
	p.relOrder = append(p.relOrder, rel)
	//
	return true
}

// Relation looks up a semantic relation by name.
func (p *GlobalScope) Relation(name string) (*Relation, bool) {
	rel, ok := p.relations[name]
	return rel, ok
}

// Relations returns the exported relations, in declaration order.
func (p *GlobalScope) Relations() []*Relation {
	return p.relOrder
}

// DeclareAuxVar registers an auxiliary top-level variable, returning false if
// the name is already taken.
func (p *GlobalScope) DeclareAuxVar(name string, sort ast.Sort) bool {
	if p.taken(name) {
		return false
	}
	//
	binding := &ast.VarBinding{Kind: ast.AUXILIARY_VAR, Name: name, Sort: sort}
	p.auxVars[name] = binding
	p.auxOrder = append(p.auxOrder, binding)
	//
	return true
}

// AuxVar looks up an auxiliary top-level variable by name.
func (p *GlobalScope) AuxVar(name string) (*ast.VarBinding, bool) {
	binding, ok := p.auxVars[name]
	return binding, ok
}

// AuxVars returns the auxiliary top-level variables, in declaration order.
func (p *GlobalScope) AuxVars() []*ast.VarBinding {
	return p.auxOrder
}

// Check whether a given name is already bound at the global level.
func (p *GlobalScope) taken(name string) bool {
	if _, ok := p.objectives[name]; ok {
		return true
	} else if _, ok := p.relations[name]; ok {
		return true
	} else if _, ok := p.auxVars[name]; ok {
		return true
	}
	//
	return false
}

// ============================================================================
// Grammar Scope
// ============================================================================

// GrammarScope holds the symbols local to one synth-term block: its declared
// variables and non-terminals.  These are invisible outside the block; the
// semantic relations constructed here are exported to the global scope by the
// caller once the block compiles (an explicit hand-over, rather than implicit
// mutation of shared state).
type GrammarScope struct {
	global *GlobalScope
	// Declared grammar variables.
	vars     map[string]*ast.VarBinding
	varOrder []*ast.VarBinding
	// Declared non-terminals.
	nonTerminals map[string]*NonTerminal
	ntOrder      []*NonTerminal
	// Production constructor names, unique across the whole grammar.
	constructors map[string]bool
}

// NonTerminal records a non-terminal of one grammar: its name, the term type
// it produces, and its semantic relation.  Exactly one relation signature is
// fixed at declaration and reused by every production's head clause.
type NonTerminal struct {
	Name string
	// Name of the produced term type.
	TermType string
	// The non-terminal's semantic relation.
	Relation *Relation
	// Group assigned once this non-terminal's production group is resolved.
	Group *ast.ProductionGroup
}

// NewGrammarScope constructs an empty grammar scope nested within the global
// scope.
func NewGrammarScope(global *GlobalScope) *GrammarScope {
	return &GrammarScope{
		global:       global,
		vars:         make(map[string]*ast.VarBinding),
		nonTerminals: make(map[string]*NonTerminal),
		constructors: make(map[string]bool),
	}
}

// Global returns the enclosing global scope.
func (p *GrammarScope) Global() *GlobalScope {
	return p.global
}

// DeclareVar registers a grammar variable, returning false if a variable or
// non-terminal of that name already exists in this grammar.
func (p *GrammarScope) DeclareVar(name string, sort ast.Sort) bool {
	if _, ok := p.vars[name]; ok {
		return false
	} else if _, ok := p.nonTerminals[name]; ok {
		return false
	}
	//
	binding := &ast.VarBinding{Kind: ast.GRAMMAR_VAR, Name: name, Sort: sort}
	p.vars[name] = binding
	p.varOrder = append(p.varOrder, binding)
	//
	return true
}

// Var looks up a grammar variable by name.
func (p *GrammarScope) Var(name string) (*ast.VarBinding, bool) {
	binding, ok := p.vars[name]
	return binding, ok
}

// Vars returns the grammar variables, in declaration order.
func (p *GrammarScope) Vars() []*ast.VarBinding {
	return p.varOrder
}

// DeclareNonTerminal registers a non-terminal, returning false if a
// non-terminal or variable of that name already exists in this grammar.
func (p *GrammarScope) DeclareNonTerminal(nt *NonTerminal) bool {
	if _, ok := p.nonTerminals[nt.Name]; ok {
		return false
	} else if _, ok := p.vars[nt.Name]; ok {
		return false
	}
	//
	p.nonTerminals[nt.Name] = nt
	p.ntOrder = append(p.ntOrder, nt)
	//
	return true
}

// NonTerminal looks up a non-terminal by name.
func (p *GrammarScope) NonTerminal(name string) (*NonTerminal, bool) {
	nt, ok := p.nonTerminals[name]
	return nt, ok
}

// NonTerminals returns the non-terminals, in declaration order.  The first is
// the grammar's entry non-terminal.
func (p *GrammarScope) NonTerminals() []*NonTerminal {
	return p.ntOrder
}

// Relation resolves a relation name against this grammar's non-terminals
// first, then against the global scope.
func (p *GrammarScope) Relation(name string) (*Relation, bool) {
	for _, nt := range p.ntOrder {
		if nt.Relation.Name == name {
			return nt.Relation, true
		}
	}
	//
	return p.global.Relation(name)
}

// DeclareConstructor registers a production constructor name, returning false
// if a production of that name already exists anywhere in this grammar.
func (p *GrammarScope) DeclareConstructor(name string) bool {
	if p.constructors[name] {
		return false
	}
	//
	p.constructors[name] = true
	//
	return true
}

// ============================================================================
// Production Scope
// ============================================================================

// ProductionScope scopes symbol resolution for the semantic bodies of one
// production: the production's child variables and term variable, layered
// over the grammar's variables.  Nothing else is visible, which is what keeps
// variables of other productions (or other grammars) from leaking into a
// clause's quantifier set.
type ProductionScope struct {
	grammar *GrammarScope
	// The production term variable, from the group header.
	termVar *ast.VarBinding
	// Child occurrence variables of the current production.
	children   map[string]*ast.VarBinding
	childOrder []*ast.VarBinding
}

// NewProductionScope constructs a production scope for a group whose term
// variable has a given name and sort.
func NewProductionScope(grammar *GrammarScope, termVar string, sort ast.Sort) *ProductionScope {
	return &ProductionScope{
		grammar:  grammar,
		termVar:  &ast.VarBinding{Kind: ast.CHILD_VAR, Name: termVar, Sort: sort},
		children: make(map[string]*ast.VarBinding),
	}
}

// TermVar returns the binding of the production term variable.
func (p *ProductionScope) TermVar() *ast.VarBinding {
	return p.termVar
}

// Children returns the child variable bindings of the current production, in
// order.
func (p *ProductionScope) Children() []*ast.VarBinding {
	return p.childOrder
}

// ResetChildren clears the child variables, ready for the next production of
// the same group.
func (p *ProductionScope) ResetChildren() {
	p.children = make(map[string]*ast.VarBinding)
	p.childOrder = nil
}

// DeclareChild binds a fresh child term variable, returning false if the name
// collides with an existing grammar variable, the term variable, or another
// child of the same production.
func (p *ProductionScope) DeclareChild(name string, sort ast.Sort) bool {
	if _, ok := p.children[name]; ok {
		return false
	} else if _, ok := p.grammar.Var(name); ok {
		return false
	} else if name == p.termVar.Name {
		return false
	}
	//
	binding := &ast.VarBinding{Kind: ast.CHILD_VAR, Name: name, Sort: sort}
	p.children[name] = binding
	p.childOrder = append(p.childOrder, binding)
	//
	return true
}

// Bind resolves a plain symbol against this production's scope: children
// first, then the term variable, then the grammar's variables.
func (p *ProductionScope) Bind(name string) (*ast.VarBinding, bool) {
	if binding, ok := p.children[name]; ok {
		return binding, true
	} else if name == p.termVar.Name {
		return p.termVar, true
	}
	//
	return p.grammar.Var(name)
}

// Relation resolves a relation name against the enclosing grammar.
func (p *ProductionScope) Relation(name string) (*Relation, bool) {
	return p.grammar.Relation(name)
}
