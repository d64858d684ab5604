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
	"math/big"

	"github.com/consensys/go-semgus/pkg/semgus/ast"
	"github.com/consensys/go-semgus/pkg/util/source"
	"github.com/consensys/go-semgus/pkg/util/source/sexp"
)

// ParseSourceFiles parses a set of SemGuS source files into a single problem.
// Commands are accumulated across files, in order.  A command which fails to
// parse is dropped but parsing continues with the next command, so that one
// run surfaces as many problems as possible.  Within a synth-term block,
// however, the first error abandons the whole block.
func ParseSourceFiles(srcfiles []*source.File) (*ast.Problem, *source.Maps[ast.Node], []Diagnostic) {
	var (
		problem ast.Problem
		srcmaps = source.NewMaps[ast.Node]()
		diags   []Diagnostic
	)
	//
	for _, srcfile := range srcfiles {
		terms, srcmap, err := sexp.ParseAll(srcfile)
		// Check for parse error
		if err != nil {
			diags = append(diags, Diagnostic{PARSE_ERROR, *err})
			continue
		}
		//
		parser := NewParser(srcfile, srcmap)
		//
		for _, term := range terms {
			command, errs := parser.ParseCommand(term)
			diags = append(diags, errs...)
			//
			if command != nil {
				problem.Commands = append(problem.Commands, command)
			}
		}
		//
		srcmaps.Join(parser.NodeMap())
	}
	//
	return &problem, srcmaps, diags
}

// Parser converts the S-Expressions of one source file into commands of the
// Abstract Syntax Tree, building a source map of the constructed nodes as it
// goes.
type Parser struct {
	srcfile *source.File
	// Maps S-Expressions into spans in the original source file.
	srcmap *source.Map[sexp.SExp]
	// Translator for formulae appearing in semantic bodies and constraints.
	translator *sexp.Translator[ast.Expr]
	// Maps constructed AST nodes into spans in the original source file.
	nodemap *source.Map[ast.Node]
}

// NewParser constructs a parser for the S-Expressions of a given file.
func NewParser(srcfile *source.File, srcmap *source.Map[sexp.SExp]) *Parser {
	p := &Parser{
		srcfile: srcfile,
		srcmap:  srcmap,
		nodemap: source.NewMap[ast.Node](srcfile),
	}
	//
	p.translator = newFormulaTranslator(srcfile, srcmap)
	//
	return p
}

// NodeMap returns the source map of all nodes constructed by this parser,
// including those of any translated formulae.
func (p *Parser) NodeMap() *source.Map[ast.Node] {
	source.JoinMaps(p.nodemap, p.translator.SourceMap(),
		func(e ast.Expr) ast.Node { return e })
	//
	return p.nodemap
}

// ParseCommand parses one top-level command, returning nil (plus one or more
// diagnostics) if it is malformed.
func (p *Parser) ParseCommand(term sexp.SExp) (ast.Command, []Diagnostic) {
	list := term.AsList()
	//
	if list == nil {
		return nil, p.errors(term, PARSE_ERROR, "malformed command")
	}
	//
	switch {
	case list.MatchSymbols(1, "metadata"):
		return p.parseMetadata(list)
	case list.MatchSymbols(1, "declare-term-type"):
		return p.parseDeclTermType(list)
	case list.MatchSymbols(1, "declare-var"):
		decl, errs := p.parseDeclVars(list)
		// Avoid a non-nil interface wrapping a nil declaration.
		if decl == nil {
			return nil, errs
		}
		//
		return decl, errs
	case list.MatchSymbols(1, "synth-term"):
		return p.parseSynthTerm(list)
	case list.MatchSymbols(1, "constraint"):
		return p.parseConstraint(list)
	}
	//
	return nil, p.errors(term, PARSE_ERROR, "unknown command")
}

func (p *Parser) parseMetadata(list *sexp.List) (ast.Command, []Diagnostic) {
	if list.Len() < 2 || list.Get(1).AsSymbol() == nil {
		return nil, p.errors(list, PARSE_ERROR, "malformed metadata")
	}
	//
	command := &ast.Metadata{
		Key:    list.Get(1).AsSymbol().Value,
		Values: list.Elements[2:],
	}
	//
	p.mapNode(command, list)
	//
	return command, nil
}

func (p *Parser) parseDeclTermType(list *sexp.List) (ast.Command, []Diagnostic) {
	if list.Len() != 2 || list.Get(1).AsSymbol() == nil {
		return nil, p.errors(list, PARSE_ERROR, "malformed term type declaration")
	}
	//
	command := &ast.DeclTermType{Name: list.Get(1).AsSymbol().Value}
	p.mapNode(command, list)
	//
	return command, nil
}

func (p *Parser) parseDeclVars(list *sexp.List) (*ast.DeclVars, []Diagnostic) {
	if list.Len() != 3 || list.Get(1).AsList() == nil || list.Get(2).AsSymbol() == nil {
		return nil, p.errors(list, PARSE_ERROR, "malformed variable declaration")
	}
	//
	names := list.Get(1).AsList()
	//
	if names.Len() == 0 {
		return nil, p.errors(names, PARSE_ERROR, "empty variable declaration")
	}
	//
	command := &ast.DeclVars{SortName: list.Get(2).AsSymbol().Value}
	//
	for _, n := range names.Elements {
		if n.AsSymbol() == nil {
			return nil, p.errors(n, PARSE_ERROR, "expected variable name")
		}
		//
		command.Names = append(command.Names, n.AsSymbol().Value)
	}
	//
	p.mapNode(command, list)
	//
	return command, nil
}

func (p *Parser) parseConstraint(list *sexp.List) (ast.Command, []Diagnostic) {
	if list.Len() != 2 {
		return nil, p.errors(list, PARSE_ERROR, "malformed constraint")
	}
	//
	formula, errs := p.translator.Translate(list.Get(1))
	//
	if len(errs) != 0 {
		return nil, wrapErrors(PARSE_ERROR, errs)
	}
	//
	command := &ast.Constraint{Formula: formula}
	p.mapNode(command, list)
	//
	return command, nil
}

// ============================================================================
// synth-term
// ============================================================================

func (p *Parser) parseSynthTerm(list *sexp.List) (ast.Command, []Diagnostic) {
	if list.Len() != 4 || list.Get(1).AsSymbol() == nil ||
		list.Get(2).AsSymbol() == nil || list.Get(3).AsList() == nil {
		return nil, p.errors(list, PARSE_ERROR, "malformed synth-term")
	}
	//
	command := &ast.SynthTerm{
		Name:         list.Get(1).AsSymbol().Value,
		TermTypeName: list.Get(2).AsSymbol().Value,
	}
	// Parse grammar body, aborting on the first error.
	if errs := p.parseGrammar(list.Get(3).AsList(), &command.Grammar); len(errs) != 0 {
		return nil, errs
	}
	//
	p.mapNode(command, list)
	//
	return command, nil
}

// Parse the body of a grammar: variable declarations, non-terminal
// declarations and production groups, in any interleaving.
func (p *Parser) parseGrammar(list *sexp.List, grammar *ast.Grammar) []Diagnostic {
	for _, term := range list.Elements {
		entry := term.AsList()
		//
		if entry == nil {
			return p.errors(term, PARSE_ERROR, "malformed grammar entry")
		}
		//
		switch {
		case entry.MatchSymbols(1, "declare-var"):
			decl, errs := p.parseDeclVars(entry)
			if len(errs) != 0 {
				return errs
			}
			//
			grammar.Vars = append(grammar.Vars, decl)
		case entry.MatchSymbols(1, "declare-nt"):
			decl, errs := p.parseDeclNonTerminal(entry)
			if len(errs) != 0 {
				return errs
			}
			//
			grammar.NonTerminals = append(grammar.NonTerminals, decl)
		default:
			group, errs := p.parseGroup(entry)
			if len(errs) != 0 {
				return errs
			}
			//
			grammar.Groups = append(grammar.Groups, group)
		}
	}
	//
	return nil
}

func (p *Parser) parseDeclNonTerminal(list *sexp.List) (*ast.DeclNonTerminal, []Diagnostic) {
	if list.Len() != 4 || list.Get(1).AsSymbol() == nil ||
		list.Get(2).AsSymbol() == nil || list.Get(3).AsList() == nil {
		return nil, p.errors(list, PARSE_ERROR, "malformed non-terminal declaration")
	}
	//
	relation := list.Get(3).AsList()
	//
	if relation.Len() != 2 || relation.Get(0).AsSymbol() == nil || relation.Get(1).AsList() == nil {
		return nil, p.errors(relation, PARSE_ERROR, "malformed relation signature")
	}
	//
	decl := &ast.DeclNonTerminal{
		Name:         list.Get(1).AsSymbol().Value,
		TermTypeName: list.Get(2).AsSymbol().Value,
		RelationName: relation.Get(0).AsSymbol().Value,
	}
	//
	for _, s := range relation.Get(1).AsList().Elements {
		if s.AsSymbol() == nil {
			return nil, p.errors(s, PARSE_ERROR, "expected sort name")
		}
		//
		decl.SortNames = append(decl.SortNames, s.AsSymbol().Value)
	}
	//
	p.mapNode(decl, list)
	//
	return decl, nil
}

// Parse a production group, which has the shape ((NT tvar) (Rel tvar args...)
// production+).
func (p *Parser) parseGroup(list *sexp.List) (*ast.ProductionGroup, []Diagnostic) {
	if list.Len() < 3 {
		return nil, p.errors(list, PARSE_ERROR, "malformed production group")
	}
	// Parse the (NT tvar) binder
	binder := list.Get(0).AsList()
	//
	if binder == nil || binder.Len() != 2 || binder.Get(0).AsSymbol() == nil || binder.Get(1).AsSymbol() == nil {
		return nil, p.errors(list.Get(0), PARSE_ERROR, "malformed group binder")
	}
	// Parse the shared head application
	head := list.Get(1).AsList()
	//
	if head == nil || head.Len() < 2 || head.Get(0).AsSymbol() == nil {
		return nil, p.errors(list.Get(1), PARSE_ERROR, "malformed group head")
	}
	//
	group := &ast.ProductionGroup{
		NonTerminal:  binder.Get(0).AsSymbol().Value,
		TermVar:      binder.Get(1).AsSymbol().Value,
		RelationName: head.Get(0).AsSymbol().Value,
	}
	//
	for _, a := range head.Elements[1:] {
		if a.AsSymbol() == nil {
			return nil, p.errors(a, PARSE_ERROR, "expected argument name")
		}
		//
		group.HeadArgs = append(group.HeadArgs, a.AsSymbol().Value)
	}
	//
	if group.HeadArgs[0] != group.TermVar {
		return nil, p.errors(head, PARSE_ERROR, "head must begin with the production term variable")
	}
	//
	for _, term := range list.Elements[2:] {
		production, errs := p.parseProduction(term)
		if len(errs) != 0 {
			return nil, errs
		}
		//
		group.Productions = append(group.Productions, production)
	}
	//
	p.mapNode(group, list)
	//
	return group, nil
}

// Parse a production: either (name body+) for a leaf, or ((name (NT1 v1) ...)
// body+) for an operator.
func (p *Parser) parseProduction(term sexp.SExp) (*ast.Production, []Diagnostic) {
	list := term.AsList()
	//
	if list == nil || list.Len() < 2 {
		return nil, p.errors(term, PARSE_ERROR, "malformed production")
	}
	//
	production := &ast.Production{}
	//
	if symbol := list.Get(0).AsSymbol(); symbol != nil {
		production.Constructor = symbol.Value
	} else {
		head := list.Get(0).AsList()
		//
		if head.Len() < 2 || head.Get(0).AsSymbol() == nil {
			return nil, p.errors(list.Get(0), PARSE_ERROR, "malformed production head")
		}
		//
		production.Constructor = head.Get(0).AsSymbol().Value
		//
		for _, c := range head.Elements[1:] {
			child, errs := p.parseChildOccurrence(c)
			if len(errs) != 0 {
				return nil, errs
			}
			//
			production.Children = append(production.Children, child)
		}
	}
	//
	for _, b := range list.Elements[1:] {
		body, errs := p.translator.Translate(b)
		if len(errs) != 0 {
			return nil, wrapErrors(PARSE_ERROR, errs)
		}
		//
		production.Bodies = append(production.Bodies, body)
	}
	//
	p.mapNode(production, list)
	//
	return production, nil
}

func (p *Parser) parseChildOccurrence(term sexp.SExp) (*ast.ChildOccurrence, []Diagnostic) {
	list := term.AsList()
	//
	if list == nil || list.Len() != 2 || list.Get(0).AsSymbol() == nil || list.Get(1).AsSymbol() == nil {
		return nil, p.errors(term, PARSE_ERROR, "malformed child occurrence")
	}
	//
	child := &ast.ChildOccurrence{
		NonTerminal: list.Get(0).AsSymbol().Value,
		Name:        list.Get(1).AsSymbol().Value,
	}
	//
	p.mapNode(child, list)
	//
	return child, nil
}

// ============================================================================
// Helpers
// ============================================================================

// Register a constructed AST node against the span of its originating
// S-Expression.
func (p *Parser) mapNode(node ast.Node, s sexp.SExp) {
	p.nodemap.Put(node, p.srcmap.Get(s))
}

// Construct a singleton diagnostic of a given code at a given S-Expression.
func (p *Parser) errors(s sexp.SExp, code Code, msg string) []Diagnostic {
	err := p.srcfile.SyntaxError(p.srcmap.Get(s), msg)
	//
	return []Diagnostic{{code, *err}}
}

// Construct the translator used for formulae appearing in semantic bodies and
// constraints.  Symbols are translated into literals where possible, and
// variable accesses otherwise; every list becomes an application, with the
// distinction between primitives and semantic relations left to the resolver.
func newFormulaTranslator(srcfile *source.File, srcmap *source.Map[sexp.SExp]) *sexp.Translator[ast.Expr] {
	t := sexp.NewTranslator[ast.Expr](srcfile, srcmap)
	// Boolean literals
	t.AddSymbolRule(func(value string) (ast.Expr, bool, error) {
		switch value {
		case "true":
			return &ast.Boolean{Value: true}, true, nil
		case "false":
			return &ast.Boolean{Value: false}, true, nil
		}
		//
		return nil, false, nil
	})
	// Integer literals
	t.AddSymbolRule(func(value string) (ast.Expr, bool, error) {
		if number, ok := new(big.Int).SetString(value, 10); ok {
			return &ast.Number{Value: number}, true, nil
		}
		//
		return nil, false, nil
	})
	// Anything else is a variable access.
	t.AddSymbolRule(func(value string) (ast.Expr, bool, error) {
		return &ast.VariableAccess{Name: value}, true, nil
	})
	//
	t.AddDefaultRecursiveListRule(func(head string, args []ast.Expr) (ast.Expr, error) {
		return &ast.Application{Name: head, Args: args}, nil
	})
	//
	return t
}
