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

	"github.com/consensys/go-semgus/pkg/util/source"
	"github.com/consensys/go-semgus/pkg/util/source/sexp"
)

// ParseSystem reads a serialised system back into its structured form.  This
// is the inverse of System.Write, and exists primarily so that emitted clause
// systems can be checked and post-processed by other tooling.
func ParseSystem(srcfile *source.File) (*System, *source.SyntaxError) {
	terms, srcmap, err := sexp.ParseAll(srcfile)
	//
	if err != nil {
		return nil, err
	}
	//
	r := &reader{srcfile, srcmap, &System{}}
	//
	for _, term := range terms {
		if err := r.parseCommand(term); err != nil {
			return nil, err
		}
	}
	//
	return r.system, nil
}

type reader struct {
	srcfile *source.File
	srcmap  *source.Map[sexp.SExp]
	system  *System
}

func (r *reader) parseCommand(term sexp.SExp) *source.SyntaxError {
	list := term.AsList()
	//
	if list == nil {
		return r.error(term, "malformed command")
	}
	//
	switch {
	case list.MatchSymbols(2, "set-info"):
		return r.parseSetInfo(list)
	case list.MatchSymbols(3, "declare-sort"):
		if list.Get(1).AsSymbol() == nil {
			return r.error(list, "malformed sort declaration")
		}
		//
		r.system.Sorts = append(r.system.Sorts, list.Get(1).AsSymbol().Value)
		//
		return nil
	case list.MatchSymbols(2, "declare-rel"):
		return r.parseDeclareRel(list)
	case list.MatchSymbols(3, "declare-objective"):
		decl, err := r.parseVarDecl(list)
		if err == nil {
			r.system.Objectives = append(r.system.Objectives, decl)
		}
		//
		return err
	case list.MatchSymbols(3, "declare-var"):
		decl, err := r.parseVarDecl(list)
		if err == nil {
			r.system.Vars = append(r.system.Vars, decl)
		}
		//
		return err
	case list.MatchSymbols(1, "rule"):
		return r.parseRule(list)
	case list.MatchSymbols(1, "constraint"):
		return r.parseConstraint(list)
	}
	//
	return r.error(term, "unknown command")
}

func (r *reader) parseVarDecl(list *sexp.List) (VarDecl, *source.SyntaxError) {
	if list.Len() != 3 || list.Get(1).AsSymbol() == nil || list.Get(2).AsSymbol() == nil {
		return VarDecl{}, r.error(list, "malformed variable declaration")
	}
	//
	return VarDecl{list.Get(1).AsSymbol().Value, list.Get(2).AsSymbol().Value}, nil
}

func (r *reader) parseSetInfo(list *sexp.List) *source.SyntaxError {
	if list.Len() < 2 || list.Get(1).AsSymbol() == nil {
		return r.error(list, "malformed set-info")
	}
	//
	datum := MetaDatum{Key: list.Get(1).AsSymbol().Value}
	//
	for _, v := range list.Elements[2:] {
		datum.Values = append(datum.Values, v.String(false))
	}
	//
	r.system.Metadata = append(r.system.Metadata, datum)
	//
	return nil
}

func (r *reader) parseDeclareRel(list *sexp.List) *source.SyntaxError {
	if list.Len() != 3 || list.Get(1).AsSymbol() == nil || list.Get(2).AsList() == nil {
		return r.error(list, "malformed relation declaration")
	}
	//
	decl := RelationDecl{Name: list.Get(1).AsSymbol().Value}
	//
	for _, s := range list.Get(2).AsList().Elements {
		if s.AsSymbol() == nil {
			return r.error(s, "malformed parameter sort")
		}
		//
		decl.Params = append(decl.Params, s.AsSymbol().Value)
	}
	//
	r.system.Relations = append(r.system.Relations, decl)
	//
	return nil
}

func (r *reader) parseRule(list *sexp.List) *source.SyntaxError {
	if list.Len() != 2 {
		return r.error(list, "malformed rule")
	}
	//
	var (
		clause      Clause
		implication sexp.SExp = list.Get(1)
	)
	// Strip off quantifier (when present)
	if l := implication.AsList(); l != nil && l.MatchSymbols(1, "forall") {
		if l.Len() != 3 || l.Get(1).AsList() == nil {
			return r.error(l, "malformed quantifier")
		}
		//
		for _, v := range l.Get(1).AsList().Elements {
			decl := v.AsList()
			if decl == nil || decl.Len() != 2 || decl.Get(0).AsSymbol() == nil || decl.Get(1).AsSymbol() == nil {
				return r.error(v, "malformed quantified variable")
			}
			//
			clause.Vars = append(clause.Vars, Var{
				decl.Get(0).AsSymbol().Value, decl.Get(1).AsSymbol().Value})
		}
		//
		implication = l.Get(2)
	}
	// Split the implication
	l := implication.AsList()
	if l == nil || l.Len() != 3 || !l.MatchSymbols(1, "=>") {
		return r.error(implication, "malformed implication")
	}
	//
	body, err := r.parseTerm(l.Get(1), clause.Vars)
	if err != nil {
		return err
	}
	//
	head, err := r.parseTerm(l.Get(2), clause.Vars)
	if err != nil {
		return err
	}
	//
	app, ok := head.(*App)
	if !ok {
		return r.error(l.Get(2), "head must be a relation application")
	}
	//
	clause.Body = body
	clause.Head = app
	r.system.Clauses = append(r.system.Clauses, clause)
	//
	return nil
}

func (r *reader) parseConstraint(list *sexp.List) *source.SyntaxError {
	if list.Len() != 2 {
		return r.error(list, "malformed constraint")
	}
	//
	term, err := r.parseTerm(list.Get(1), nil)
	if err != nil {
		return err
	}
	//
	r.system.Constraints = append(r.system.Constraints, term)
	//
	return nil
}

// Parse a term, resolving variable occurrences against the given quantified
// variables, then against the declared objectives and globals.
func (r *reader) parseTerm(s sexp.SExp, quantified []Var) (Term, *source.SyntaxError) {
	if symbol := s.AsSymbol(); symbol != nil {
		return r.parseAtom(symbol, quantified)
	}
	// Must be an application
	list := s.AsList()
	//
	if list.Len() == 0 || list.Get(0).AsSymbol() == nil {
		return nil, r.error(s, "malformed term")
	}
	//
	app := &App{Name: list.Get(0).AsSymbol().Value}
	//
	for _, arg := range list.Elements[1:] {
		term, err := r.parseTerm(arg, quantified)
		if err != nil {
			return nil, err
		}
		//
		app.Args = append(app.Args, term)
	}
	//
	return app, nil
}

func (r *reader) parseAtom(symbol *sexp.Symbol, quantified []Var) (Term, *source.SyntaxError) {
	name := symbol.Value
	// Literals first
	switch name {
	case "true":
		return &Bool{true}, nil
	case "false":
		return &Bool{false}, nil
	}
	//
	if value, ok := new(big.Int).SetString(name, 10); ok {
		return &Num{value}, nil
	}
	// Quantified variables shadow globals
	for _, v := range quantified {
		if v.Name == name {
			return &Var{v.Name, v.Sort}, nil
		}
	}
	//
	for _, o := range r.system.Objectives {
		if o.Name == name {
			return &Var{o.Name, o.Sort}, nil
		}
	}
	//
	for _, v := range r.system.Vars {
		if v.Name == name {
			return &Var{v.Name, v.Sort}, nil
		}
	}
	//
	return nil, r.error(symbol, "unknown symbol")
}

func (r *reader) error(s sexp.SExp, msg string) *source.SyntaxError {
	return r.srcfile.SyntaxError(r.srcmap.Get(s), msg)
}
