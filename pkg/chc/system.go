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

// System is the root output artifact of the compiler (the compilation unit):
// the declared term sorts and relations, the synthesis objectives, the full
// set of Horn clauses and the closed constraints.  A system is immutable once
// compilation succeeds, and is handed whole to the consuming solver.
type System struct {
	// Metadata entries recorded from the source, passed through inertly.
	Metadata []MetaDatum
	// Declared term sorts, in declaration order.
	Sorts []string
	// Declared semantic relations, in declaration order.
	Relations []RelationDecl
	// Synthesis objectives, in declaration order.
	Objectives []VarDecl
	// Auxiliary global variables, implicitly existentially quantified by the
	// consumer solver.
	Vars []VarDecl
	// Horn clauses, in generation order.
	Clauses []Clause
	// Closed constraint formulas making up the synthesis query.
	Constraints []Term
}

// MetaDatum is one recorded metadata entry.  Values are held in rendered form
// since they are never interpreted.
type MetaDatum struct {
	Key    string
	Values []string
}

// RelationDecl declares a semantic relation: its name and parameter sorts,
// with the term sort first.
type RelationDecl struct {
	Name   string
	Params []string
}

// VarDecl declares a named constant or variable of a given sort.
type VarDecl struct {
	Name string
	Sort string
}

// Clause is a single Constrained Horn Clause: an implication body => head,
// universally quantified over the given variables, whose head is a single
// relation application.
type Clause struct {
	// Quantified variables, in order.
	Vars []Var
	// Body formula (a conjunction of relation applications and primitive
	// constraints).
	Body Term
	// Head relation application.
	Head *App
}

// Relation looks up a declared relation by name.
func (p *System) Relation(name string) (RelationDecl, bool) {
	for _, r := range p.Relations {
		if r.Name == name {
			return r, true
		}
	}
	//
	return RelationDecl{}, false
}

// ClausesOf returns the clauses whose head applies a given relation.
func (p *System) ClausesOf(relation string) []Clause {
	var clauses []Clause
	//
	for _, c := range p.Clauses {
		if c.Head.Name == relation {
			clauses = append(clauses, c)
		}
	}
	//
	return clauses
}

// AlphaEquivalent checks whether two clauses are equal up to a consistent
// renaming of their quantified variables.  Quantified variables must
// correspond positionally with identical sorts; all other symbols (relations,
// literals, constants) must match exactly.
func AlphaEquivalent(lhs Clause, rhs Clause) bool {
	if len(lhs.Vars) != len(rhs.Vars) {
		return false
	}
	// Build positional renaming
	renaming := make(map[string]string, len(lhs.Vars))
	//
	for i := range lhs.Vars {
		if lhs.Vars[i].Sort != rhs.Vars[i].Sort {
			return false
		}
		//
		renaming[lhs.Vars[i].Name] = rhs.Vars[i].Name
	}
	//
	return equalTerms(lhs.Body, rhs.Body, renaming) && equalTerms(lhs.Head, rhs.Head, renaming)
}

// AlphaEquivalentSystems checks whether two systems declare identical sorts,
// relations, objectives and constraints, and have pairwise alpha-equivalent
// clauses (in order).
func AlphaEquivalentSystems(lhs *System, rhs *System) bool {
	if len(lhs.Sorts) != len(rhs.Sorts) || len(lhs.Relations) != len(rhs.Relations) ||
		len(lhs.Objectives) != len(rhs.Objectives) || len(lhs.Vars) != len(rhs.Vars) ||
		len(lhs.Clauses) != len(rhs.Clauses) || len(lhs.Constraints) != len(rhs.Constraints) {
		return false
	}
	//
	for i := range lhs.Sorts {
		if lhs.Sorts[i] != rhs.Sorts[i] {
			return false
		}
	}
	//
	for i := range lhs.Relations {
		l, r := lhs.Relations[i], rhs.Relations[i]
		if l.Name != r.Name || len(l.Params) != len(r.Params) {
			return false
		}
		//
		for j := range l.Params {
			if l.Params[j] != r.Params[j] {
				return false
			}
		}
	}
	//
	for i := range lhs.Objectives {
		if lhs.Objectives[i] != rhs.Objectives[i] {
			return false
		}
	}
	//
	for i := range lhs.Vars {
		if lhs.Vars[i] != rhs.Vars[i] {
			return false
		}
	}
	//
	for i := range lhs.Clauses {
		if !AlphaEquivalent(lhs.Clauses[i], rhs.Clauses[i]) {
			return false
		}
	}
	//
	for i := range lhs.Constraints {
		if !EqualTerms(lhs.Constraints[i], rhs.Constraints[i]) {
			return false
		}
	}
	//
	return true
}
