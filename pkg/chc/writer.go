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
	"io"
	"strings"

	"github.com/consensys/go-semgus/pkg/util/source/sexp"
)

// Write serialises this system, one command per line, in a fixedpoint-style
// SMT-LIB flavour: declare-sort / declare-rel / declare-objective /
// declare-var / rule / constraint.  The output can be read back using
// ParseSystem.
func (p *System) Write(w io.Writer) error {
	for _, s := range p.Sexp() {
		if _, err := io.WriteString(w, s.String(true)); err != nil {
			return err
		}
		//
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	//
	return nil
}

// String returns the serialised form of this system.
func (p *System) String() string {
	var builder strings.Builder
	// Builders never error
	_ = p.Write(&builder)
	//
	return builder.String()
}

// Sexp converts this system into its serialised form, one S-expression per
// command.
func (p *System) Sexp() []sexp.SExp {
	var commands []sexp.SExp
	//
	for _, m := range p.Metadata {
		elements := []sexp.SExp{sexp.NewSymbol("set-info"), sexp.NewSymbol(m.Key)}
		for _, v := range m.Values {
			elements = append(elements, sexp.NewSymbol(v))
		}
		//
		commands = append(commands, sexp.NewList(elements))
	}
	//
	for _, s := range p.Sorts {
		commands = append(commands, sexp.NewList([]sexp.SExp{
			sexp.NewSymbol("declare-sort"), sexp.NewSymbol(s), sexp.NewSymbol("0")}))
	}
	//
	for _, r := range p.Relations {
		params := make([]sexp.SExp, len(r.Params))
		for i, s := range r.Params {
			params[i] = sexp.NewSymbol(s)
		}
		//
		commands = append(commands, sexp.NewList([]sexp.SExp{
			sexp.NewSymbol("declare-rel"), sexp.NewSymbol(r.Name), sexp.NewList(params)}))
	}
	//
	for _, o := range p.Objectives {
		commands = append(commands, sexp.NewList([]sexp.SExp{
			sexp.NewSymbol("declare-objective"), sexp.NewSymbol(o.Name), sexp.NewSymbol(o.Sort)}))
	}
	//
	for _, v := range p.Vars {
		commands = append(commands, sexp.NewList([]sexp.SExp{
			sexp.NewSymbol("declare-var"), sexp.NewSymbol(v.Name), sexp.NewSymbol(v.Sort)}))
	}
	//
	for _, c := range p.Clauses {
		commands = append(commands, sexp.NewList([]sexp.SExp{
			sexp.NewSymbol("rule"), c.Sexp()}))
	}
	//
	for _, c := range p.Constraints {
		commands = append(commands, sexp.NewList([]sexp.SExp{
			sexp.NewSymbol("constraint"), c.Sexp()}))
	}
	//
	return commands
}

// Sexp converts this clause into its serialised form, as a universally
// quantified implication.  A clause with no quantified variables is emitted
// without the forall wrapper.
func (p *Clause) Sexp() sexp.SExp {
	implication := sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("=>"), p.Body.Sexp(), p.Head.Sexp()})
	// Check whether quantifier required
	if len(p.Vars) == 0 {
		return implication
	}
	//
	vars := make([]sexp.SExp, len(p.Vars))
	for i, v := range p.Vars {
		vars[i] = sexp.NewList([]sexp.SExp{
			sexp.NewSymbol(v.Name), sexp.NewSymbol(v.Sort)})
	}
	//
	return sexp.NewList([]sexp.SExp{
		sexp.NewSymbol("forall"), sexp.NewList(vars), implication})
}
