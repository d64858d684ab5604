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

	"github.com/consensys/go-semgus/pkg/semgus/ast"
	"github.com/consensys/go-semgus/pkg/util/source"
)

// ResolveProblem resolves all symbols within a parsed problem, annotating the
// tree in place and returning the populated global scope.  Commands are
// checked independently of each other, so that a failing command never hides
// diagnostics arising in its siblings.  Within a synth-term block, the first
// error abandons the whole block; such a block contributes no relations or
// clauses, though its objective name remains declared.  Constraints are
// resolved last, once every objective and relation is known.
func ResolveProblem(problem *ast.Problem, srcmaps *source.Maps[ast.Node]) (*GlobalScope, []Diagnostic) {
	var (
		r           = &resolver{NewGlobalScope(), srcmaps}
		diags       []Diagnostic
		constraints []*ast.Constraint
	)
	//
	for _, command := range problem.Commands {
		switch c := command.(type) {
		case *ast.Metadata:
			// Inert
		case *ast.DeclTermType:
			diags = append(diags, r.declareTermType(c)...)
		case *ast.DeclVars:
			diags = append(diags, r.declareAuxVars(c)...)
		case *ast.SynthTerm:
			diags = append(diags, r.resolveSynthTerm(c)...)
		case *ast.Constraint:
			constraints = append(constraints, c)
		}
	}
	//
	for _, c := range constraints {
		diags = append(diags, r.resolveConstraint(c)...)
	}
	//
	return r.scope, diags
}

type resolver struct {
	scope   *GlobalScope
	srcmaps *source.Maps[ast.Node]
}

func (r *resolver) declareTermType(cmd *ast.DeclTermType) []Diagnostic {
	if !r.scope.DeclareTermType(cmd.Name) {
		return r.errors(cmd, DUPLICATE_SYMBOL,
			fmt.Sprintf("term type %s already declared", cmd.Name))
	}
	//
	return nil
}

func (r *resolver) declareAuxVars(cmd *ast.DeclVars) []Diagnostic {
	sort, ok := r.scope.ResolveSort(cmd.SortName)
	//
	if !ok {
		return r.errors(cmd, UNKNOWN_TYPE, fmt.Sprintf("unknown sort %s", cmd.SortName))
	}
	//
	cmd.Sort = sort
	//
	var diags []Diagnostic
	//
	for _, name := range cmd.Names {
		if !r.scope.DeclareAuxVar(name, sort) {
			diags = append(diags, r.errors(cmd, DUPLICATE_SYMBOL,
				fmt.Sprintf("symbol %s already declared", name))...)
		}
	}
	//
	return diags
}

// ============================================================================
// synth-term
// ============================================================================

func (r *resolver) resolveSynthTerm(cmd *ast.SynthTerm) []Diagnostic {
	obj := &Objective{Name: cmd.Name, TermType: cmd.TermTypeName, Block: cmd}
	// Register the objective name regardless of whether the block itself
	// compiles, so that later constraints resolve against it either way.
	if !r.scope.DeclareObjective(obj) {
		return r.errors(cmd, DUPLICATE_SYMBOL,
			fmt.Sprintf("symbol %s already declared", cmd.Name))
	}
	//
	if !r.scope.HasTermType(cmd.TermTypeName) {
		return r.errors(cmd, UNKNOWN_TYPE,
			fmt.Sprintf("unknown term type %s", cmd.TermTypeName))
	}
	//
	grammar, diags := r.resolveGrammar(cmd, &cmd.Grammar)
	//
	if len(diags) != 0 {
		return diags
	}
	// Block compiled; archive the grammar and export its relations.
	obj.Grammar = grammar
	//
	for _, nt := range grammar.NonTerminals() {
		if !r.scope.DeclareRelation(nt.Relation) {
			// Should be unreachable, since declareNonTerminal checks the
			// global namespace before admitting a relation.
			panic(fmt.Sprintf("relation %s already declared globally", nt.Relation.Name))
		}
	}
	//
	return nil
}

func (r *resolver) resolveGrammar(cmd *ast.SynthTerm, g *ast.Grammar) (*GrammarScope, []Diagnostic) {
	grammar := NewGrammarScope(r.scope)
	//
	for _, decl := range g.Vars {
		sort, ok := r.scope.ResolveSort(decl.SortName)
		//
		if !ok {
			return nil, r.errors(decl, UNKNOWN_TYPE, fmt.Sprintf("unknown sort %s", decl.SortName))
		}
		//
		decl.Sort = sort
		//
		for _, name := range decl.Names {
			if !grammar.DeclareVar(name, sort) {
				return nil, r.errors(decl, DUPLICATE_SYMBOL,
					fmt.Sprintf("variable %s already declared", name))
			}
		}
	}
	//
	for _, decl := range g.NonTerminals {
		if diags := r.declareNonTerminal(grammar, decl); len(diags) != 0 {
			return nil, diags
		}
	}
	//
	if len(grammar.NonTerminals()) == 0 {
		return nil, r.errors(cmd, PARSE_ERROR, "grammar declares no non-terminals")
	}
	// The entry non-terminal must produce the objective's term type.
	entry := grammar.NonTerminals()[0]
	//
	if entry.TermType != cmd.TermTypeName {
		return nil, r.errors(cmd, SORT_MISMATCH,
			fmt.Sprintf("entry non-terminal %s produces %s, but objective %s expects %s",
				entry.Name, entry.TermType, cmd.Name, cmd.TermTypeName))
	}
	//
	for _, group := range g.Groups {
		if diags := r.resolveGroup(grammar, group); len(diags) != 0 {
			return nil, diags
		}
	}
	//
	for _, nt := range grammar.NonTerminals() {
		if nt.Group == nil {
			return nil, r.errors(cmd, PARSE_ERROR,
				fmt.Sprintf("non-terminal %s has no production group", nt.Name))
		}
	}
	//
	return grammar, nil
}

func (r *resolver) declareNonTerminal(grammar *GrammarScope, decl *ast.DeclNonTerminal) []Diagnostic {
	if !r.scope.HasTermType(decl.TermTypeName) {
		return r.errors(decl, UNKNOWN_TYPE,
			fmt.Sprintf("unknown term type %s", decl.TermTypeName))
	}
	// Resolve the relation signature.
	signature := make([]ast.Sort, len(decl.SortNames))
	//
	for i, name := range decl.SortNames {
		sort, ok := r.scope.ResolveSort(name)
		//
		if !ok {
			return r.errors(decl, UNKNOWN_TYPE, fmt.Sprintf("unknown sort %s", name))
		}
		//
		signature[i] = sort
	}
	// First parameter must be the non-terminal's own term type.
	if len(signature) == 0 || signature[0] != ast.TermSort(decl.TermTypeName) {
		return r.errors(decl, CONFLICTING_RELATION,
			fmt.Sprintf("relation %s must take a %s term as its first parameter",
				decl.RelationName, decl.TermTypeName))
	}
	// Relation names live in the global namespace.
	if _, ok := grammar.Relation(decl.RelationName); ok || r.scope.taken(decl.RelationName) {
		return r.errors(decl, DUPLICATE_SYMBOL,
			fmt.Sprintf("symbol %s already declared", decl.RelationName))
	}
	//
	nt := &NonTerminal{
		Name:     decl.Name,
		TermType: decl.TermTypeName,
		Relation: &Relation{decl.RelationName, signature, decl.Name},
	}
	//
	if !grammar.DeclareNonTerminal(nt) {
		return r.errors(decl, DUPLICATE_SYMBOL,
			fmt.Sprintf("non-terminal %s already declared", decl.Name))
	}
	//
	return nil
}

func (r *resolver) resolveGroup(grammar *GrammarScope, group *ast.ProductionGroup) []Diagnostic {
	nt, ok := grammar.NonTerminal(group.NonTerminal)
	//
	if !ok {
		return r.errors(group, UNKNOWN_NONTERMINAL,
			fmt.Sprintf("unknown non-terminal %s", group.NonTerminal))
	} else if nt.Group != nil {
		return r.errors(group, DUPLICATE_SYMBOL,
			fmt.Sprintf("non-terminal %s already has a production group", nt.Name))
	}
	// Header relation must agree with the non-terminal's declaration.
	signature := nt.Relation.Signature
	//
	if group.RelationName != nt.Relation.Name {
		return r.errors(group, CONFLICTING_RELATION,
			fmt.Sprintf("non-terminal %s has relation %s, not %s",
				nt.Name, nt.Relation.Name, group.RelationName))
	} else if len(group.HeadArgs) != len(signature) {
		return r.errors(group, ARITY_MISMATCH,
			fmt.Sprintf("relation %s expects %d parameters, found %d",
				nt.Relation.Name, len(signature), len(group.HeadArgs)))
	}
	//
	if _, ok := grammar.Var(group.TermVar); ok {
		return r.errors(group, DUPLICATE_SYMBOL,
			fmt.Sprintf("term variable %s shadows a grammar variable", group.TermVar))
	}
	// State parameters are bound (positionally) to declared grammar variables.
	for i, name := range group.HeadArgs[1:] {
		binding, ok := grammar.Var(name)
		//
		if !ok {
			return r.errors(group, UNDECLARED_VARIABLE,
				fmt.Sprintf("undeclared variable %s", name))
		} else if binding.Sort != signature[i+1] {
			return r.errors(group, SORT_MISMATCH,
				fmt.Sprintf("variable %s has sort %s, but relation %s expects %s",
					name, binding.Sort.String(), nt.Relation.Name, signature[i+1].String()))
		}
	}
	//
	scope := NewProductionScope(grammar, group.TermVar, signature[0])
	//
	for _, production := range group.Productions {
		if diags := r.resolveProduction(scope, production); len(diags) != 0 {
			return diags
		}
	}
	//
	nt.Group = group
	//
	return nil
}

func (r *resolver) resolveProduction(scope *ProductionScope, production *ast.Production) []Diagnostic {
	grammar := scope.grammar
	// Constructors are unique across the whole grammar.
	if !grammar.DeclareConstructor(production.Constructor) {
		return r.errors(production, DUPLICATE_SYMBOL,
			fmt.Sprintf("production %s already declared", production.Constructor))
	}
	//
	scope.ResetChildren()
	//
	for _, child := range production.Children {
		nt, ok := grammar.NonTerminal(child.NonTerminal)
		//
		if !ok {
			return r.errors(child, UNKNOWN_NONTERMINAL,
				fmt.Sprintf("unknown non-terminal %s", child.NonTerminal))
		}
		//
		if !scope.DeclareChild(child.Name, ast.TermSort(nt.TermType)) {
			return r.errors(child, DUPLICATE_SYMBOL,
				fmt.Sprintf("variable %s already declared", child.Name))
		}
	}
	//
	boolSort := ast.BoolSort()
	//
	for _, body := range production.Bodies {
		if _, diags := r.resolveExpr(scope, body, &boolSort); len(diags) != 0 {
			return diags
		}
	}
	//
	return nil
}

// ============================================================================
// constraint
// ============================================================================

func (r *resolver) resolveConstraint(cmd *ast.Constraint) []Diagnostic {
	boolSort := ast.BoolSort()
	//
	_, diags := r.resolveExpr(&globalBinder{r.scope}, cmd.Formula, &boolSort)
	//
	return diags
}

// globalBinder resolves symbols appearing within top-level constraints, where
// only auxiliary variables, objectives and (exported) semantic relations are
// visible.
type globalBinder struct {
	scope *GlobalScope
}

// Bind implementation for the binder interface.
func (p *globalBinder) Bind(name string) (*ast.VarBinding, bool) {
	if binding, ok := p.scope.AuxVar(name); ok {
		return binding, true
	}
	//
	if obj, ok := p.scope.Objective(name); ok {
		return &ast.VarBinding{
			Kind: ast.OBJECTIVE_VAR, Name: name, Sort: ast.TermSort(obj.TermType)}, true
	}
	//
	return nil, false
}

// Relation implementation for the binder interface.
func (p *globalBinder) Relation(name string) (*Relation, bool) {
	return p.scope.Relation(name)
}

// ============================================================================
// Expressions
// ============================================================================

// binder resolves plain symbols and relation names within some context (a
// production's semantic body, or a top-level constraint).
type binder interface {
	Bind(name string) (*ast.VarBinding, bool)
	Relation(name string) (*Relation, bool)
}

// Builtin function symbols, along with their arities.
var primitives = map[string]*ast.Primitive{
	"and": {Name: "and", MinArity: 2, MaxArity: -1},
	"or":  {Name: "or", MinArity: 2, MaxArity: -1},
	"not": {Name: "not", MinArity: 1, MaxArity: 1},
	"=>":  {Name: "=>", MinArity: 2, MaxArity: 2},
	"ite": {Name: "ite", MinArity: 3, MaxArity: 3},
	"=":   {Name: "=", MinArity: 2, MaxArity: 2},
	"<":   {Name: "<", MinArity: 2, MaxArity: 2},
	"<=":  {Name: "<=", MinArity: 2, MaxArity: 2},
	">":   {Name: ">", MinArity: 2, MaxArity: 2},
	">=":  {Name: ">=", MinArity: 2, MaxArity: 2},
	"+":   {Name: "+", MinArity: 2, MaxArity: -1},
	"-":   {Name: "-", MinArity: 1, MaxArity: -1},
	"*":   {Name: "*", MinArity: 2, MaxArity: -1},
}

// Resolve an expression against a given binder, checking it (where an
// expectation exists) against an expected sort, and returning its actual
// sort.  Resolution annotates variable accesses and applications in place.
func (r *resolver) resolveExpr(b binder, expr ast.Expr, expected *ast.Sort) (ast.Sort, []Diagnostic) {
	switch e := expr.(type) {
	case *ast.Number:
		return r.checkSort(e, ast.IntSort(), expected)
	case *ast.Boolean:
		return r.checkSort(e, ast.BoolSort(), expected)
	case *ast.VariableAccess:
		return r.resolveVariable(b, e, expected)
	case *ast.Application:
		return r.resolveApplication(b, e, expected)
	}
	// Should be unreachable.
	panic(fmt.Sprintf("unknown expression (%v)", expr))
}

func (r *resolver) resolveVariable(b binder, e *ast.VariableAccess, expected *ast.Sort) (ast.Sort, []Diagnostic) {
	binding, ok := b.Bind(e.Name)
	//
	if !ok {
		// Where a term was expected, the symbol was presumably intended to name
		// a synthesis objective.
		if expected != nil && expected.IsTerm() {
			return ast.Sort{}, r.errors(e, UNKNOWN_OBJECTIVE,
				fmt.Sprintf("unknown objective %s", e.Name))
		}
		//
		return ast.Sort{}, r.errors(e, UNDECLARED_VARIABLE,
			fmt.Sprintf("undeclared variable %s", e.Name))
	}
	//
	e.Resolve(binding)
	//
	if expected != nil && binding.Sort != *expected {
		if binding.Kind == ast.OBJECTIVE_VAR && expected.IsTerm() {
			return binding.Sort, r.errors(e, UNKNOWN_OBJECTIVE,
				fmt.Sprintf("objective %s has type %s, expected %s",
					e.Name, binding.Sort.String(), expected.String()))
		}
		//
		return binding.Sort, r.errors(e, SORT_MISMATCH,
			fmt.Sprintf("variable %s has sort %s, expected %s",
				e.Name, binding.Sort.String(), expected.String()))
	}
	//
	return binding.Sort, nil
}

func (r *resolver) resolveApplication(b binder, e *ast.Application, expected *ast.Sort) (ast.Sort, []Diagnostic) {
	if primitive, ok := primitives[e.Name]; ok {
		return r.resolvePrimitive(b, e, primitive, expected)
	}
	//
	if relation, ok := b.Relation(e.Name); ok {
		return r.resolveRelation(b, e, relation, expected)
	}
	//
	return ast.Sort{}, r.errors(e, UNDECLARED_VARIABLE,
		fmt.Sprintf("unknown function or relation %s", e.Name))
}

func (r *resolver) resolveRelation(b binder, e *ast.Application, relation *Relation,
	expected *ast.Sort) (ast.Sort, []Diagnostic) {
	//
	if len(e.Args) != len(relation.Signature) {
		return ast.Sort{}, r.errors(e, ARITY_MISMATCH,
			fmt.Sprintf("relation %s expects %d arguments, found %d",
				relation.Name, len(relation.Signature), len(e.Args)))
	}
	//
	var diags []Diagnostic
	//
	for i, arg := range e.Args {
		sort := relation.Signature[i]
		//
		_, errs := r.resolveExpr(b, arg, &sort)
		diags = append(diags, errs...)
	}
	//
	if len(diags) != 0 {
		return ast.Sort{}, diags
	}
	//
	e.Relation = &ast.RelationRef{Name: relation.Name, Signature: relation.Signature}
	//
	return r.checkSort(e, ast.BoolSort(), expected)
}

func (r *resolver) resolvePrimitive(b binder, e *ast.Application, primitive *ast.Primitive,
	expected *ast.Sort) (ast.Sort, []Diagnostic) {
	//
	n := len(e.Args)
	//
	if n < primitive.MinArity || (primitive.MaxArity >= 0 && n > primitive.MaxArity) {
		return ast.Sort{}, r.errors(e, ARITY_MISMATCH,
			fmt.Sprintf("%s expects at least %d arguments, found %d",
				primitive.Name, primitive.MinArity, n))
	}
	//
	var (
		intSort  = ast.IntSort()
		boolSort = ast.BoolSort()
		result   ast.Sort
		diags    []Diagnostic
	)
	//
	switch e.Name {
	case "and", "or", "not", "=>":
		for _, arg := range e.Args {
			_, errs := r.resolveExpr(b, arg, &boolSort)
			diags = append(diags, errs...)
		}
		//
		result = boolSort
	case "<", "<=", ">", ">=":
		for _, arg := range e.Args {
			_, errs := r.resolveExpr(b, arg, &intSort)
			diags = append(diags, errs...)
		}
		//
		result = boolSort
	case "+", "-", "*":
		for _, arg := range e.Args {
			_, errs := r.resolveExpr(b, arg, &intSort)
			diags = append(diags, errs...)
		}
		//
		result = intSort
	case "=":
		// Equality is polymorphic: the left operand fixes the sort.
		lhs, errs := r.resolveExpr(b, e.Args[0], nil)
		diags = append(diags, errs...)
		//
		if len(errs) == 0 {
			_, errs = r.resolveExpr(b, e.Args[1], &lhs)
			diags = append(diags, errs...)
		}
		//
		result = boolSort
	case "ite":
		_, errs := r.resolveExpr(b, e.Args[0], &boolSort)
		diags = append(diags, errs...)
		// Branch sorts must agree; an outer expectation (when present) fixes
		// both, otherwise the first branch does.
		branch := expected
		//
		if branch == nil {
			lhs, errs := r.resolveExpr(b, e.Args[1], nil)
			diags = append(diags, errs...)
			branch = &lhs
			//
			if len(errs) == 0 {
				_, errs = r.resolveExpr(b, e.Args[2], branch)
				diags = append(diags, errs...)
			}
		} else {
			for _, arg := range e.Args[1:] {
				_, errs := r.resolveExpr(b, arg, branch)
				diags = append(diags, errs...)
			}
		}
		//
		result = *branch
	}
	//
	if len(diags) != 0 {
		return ast.Sort{}, diags
	}
	//
	e.Primitive = primitive
	//
	return r.checkSort(e, result, expected)
}

// Check an actual sort against an expected sort (where an expectation exists).
func (r *resolver) checkSort(node ast.Node, actual ast.Sort, expected *ast.Sort) (ast.Sort, []Diagnostic) {
	if expected != nil && actual != *expected {
		return actual, r.errors(node, SORT_MISMATCH,
			fmt.Sprintf("expected %s, found %s", expected.String(), actual.String()))
	}
	//
	return actual, nil
}

// Construct a singleton diagnostic of a given code at a given node.
func (r *resolver) errors(node ast.Node, code Code, msg string) []Diagnostic {
	return []Diagnostic{{code, *r.srcmaps.SyntaxError(node, msg)}}
}
