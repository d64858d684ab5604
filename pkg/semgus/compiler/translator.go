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

	"github.com/consensys/go-semgus/pkg/chc"
	"github.com/consensys/go-semgus/pkg/semgus/ast"
)

// Translate lowers a fully resolved problem into a system of constrained Horn
// clauses.  This must only be called once resolution has completed without
// diagnostics, as it assumes every variable access and application within the
// tree carries a binding.
//
// Clause generation is deterministic: objectives in declaration order, their
// non-terminals in declaration order, productions in group order and bodies
// in written order.  Each body yields exactly one clause.
func Translate(problem *ast.Problem, scope *GlobalScope) *chc.System {
	system := &chc.System{}
	//
	for _, command := range problem.Commands {
		switch c := command.(type) {
		case *ast.Metadata:
			datum := chc.MetaDatum{Key: c.Key}
			//
			for _, v := range c.Values {
				datum.Values = append(datum.Values, v.String(false))
			}
			//
			system.Metadata = append(system.Metadata, datum)
		case *ast.Constraint:
			system.Constraints = append(system.Constraints, translateExpr(c.Formula))
		}
	}
	//
	system.Sorts = append(system.Sorts, scope.TermTypes()...)
	//
	for _, relation := range scope.Relations() {
		decl := chc.RelationDecl{Name: relation.Name}
		//
		for _, sort := range relation.Signature {
			decl.Params = append(decl.Params, sort.String())
		}
		//
		system.Relations = append(system.Relations, decl)
	}
	//
	for _, obj := range scope.Objectives() {
		system.Objectives = append(system.Objectives, chc.VarDecl{
			Name: obj.Name, Sort: obj.TermType})
	}
	//
	for _, v := range scope.AuxVars() {
		system.Vars = append(system.Vars, chc.VarDecl{Name: v.Name, Sort: v.Sort.String()})
	}
	//
	for _, obj := range scope.Objectives() {
		translateGrammar(system, obj.Grammar)
	}
	//
	return system
}

// Translate the clauses of one (compiled) grammar into the system.
func translateGrammar(system *chc.System, grammar *GrammarScope) {
	if grammar == nil {
		return
	}
	//
	for _, nt := range grammar.NonTerminals() {
		for _, production := range nt.Group.Productions {
			for _, body := range production.Bodies {
				clause := translateClause(grammar, nt, production, body)
				system.Clauses = append(system.Clauses, clause)
			}
		}
	}
}

// Translate one semantic body into a clause.  The quantified variables are,
// in order: the production term variable, the header state variables, any
// child variables appearing in the body, and finally any remaining grammar
// variables appearing in the body.
func translateClause(grammar *GrammarScope, nt *NonTerminal, production *ast.Production,
	body ast.Expr) chc.Clause {
	//
	var (
		group     = nt.Group
		signature = nt.Relation.Signature
		seen      = make(map[string]bool)
		clause    chc.Clause
	)
	//
	quantify := func(name, sort string) {
		if !seen[name] {
			seen[name] = true
			clause.Vars = append(clause.Vars, chc.Var{Name: name, Sort: sort})
		}
	}
	//
	quantify(group.TermVar, signature[0].String())
	//
	for i, name := range group.HeadArgs[1:] {
		quantify(name, signature[i+1].String())
	}
	// Determine which locally bound variables the body mentions.
	free := make(map[string]bool)
	//
	ast.ForEachVariable(body, func(v *ast.VariableAccess) {
		if v.Binding.Kind == ast.GRAMMAR_VAR || v.Binding.Kind == ast.CHILD_VAR {
			free[v.Binding.Name] = true
		}
	})
	//
	for _, child := range production.Children {
		if free[child.Name] {
			childNt, _ := grammar.NonTerminal(child.NonTerminal)
			quantify(child.Name, ast.TermSort(childNt.TermType).String())
		}
	}
	//
	for _, v := range grammar.Vars() {
		if free[v.Name] {
			quantify(v.Name, v.Sort.String())
		}
	}
	//
	clause.Body = translateExpr(body)
	clause.Head = translateHead(nt)
	//
	return clause
}

// Construct the head application for a given non-terminal's clauses.
func translateHead(nt *NonTerminal) *chc.App {
	var (
		group     = nt.Group
		signature = nt.Relation.Signature
		head      = &chc.App{Name: nt.Relation.Name}
	)
	//
	for i, name := range group.HeadArgs {
		head.Args = append(head.Args, &chc.Var{Name: name, Sort: signature[i].String()})
	}
	//
	return head
}

// Translate a resolved expression into a term.
func translateExpr(expr ast.Expr) chc.Term {
	switch e := expr.(type) {
	case *ast.Number:
		return &chc.Num{Value: e.Value}
	case *ast.Boolean:
		return &chc.Bool{Value: e.Value}
	case *ast.VariableAccess:
		return &chc.Var{Name: e.Binding.Name, Sort: e.Binding.Sort.String()}
	case *ast.Application:
		app := &chc.App{Name: e.Name}
		//
		for _, arg := range e.Args {
			app.Args = append(app.Args, translateExpr(arg))
		}
		//
		return app
	}
	// Should be unreachable.
	panic(fmt.Sprintf("unknown expression (%v)", expr))
}
