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
	"testing"

	"github.com/consensys/go-semgus/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// R(x) :- x = 0, quantified over x.
func clauseOf(termVar string, stateVar string) Clause {
	return Clause{
		Vars: []Var{{Name: termVar, Sort: "E"}, {Name: stateVar, Sort: "Int"}},
		Body: NewApp("=", &Var{Name: stateVar, Sort: "Int"}, NewNum(0)),
		Head: NewApp("R", &Var{Name: termVar, Sort: "E"}, &Var{Name: stateVar, Sort: "Int"}),
	}
}

func Test_Chc_AlphaEquivalent_01(t *testing.T) {
	assert.True(t, AlphaEquivalent(clauseOf("et", "x"), clauseOf("et", "x")))
}

func Test_Chc_AlphaEquivalent_02(t *testing.T) {
	// Renamed quantified variables
	assert.True(t, AlphaEquivalent(clauseOf("et", "x"), clauseOf("t", "y")))
}

func Test_Chc_AlphaEquivalent_03(t *testing.T) {
	// Sorts must correspond positionally
	lhs := clauseOf("et", "x")
	rhs := clauseOf("t", "y")
	rhs.Vars[1].Sort = "Bool"
	//
	assert.False(t, AlphaEquivalent(lhs, rhs))
}

func Test_Chc_AlphaEquivalent_04(t *testing.T) {
	// Renaming must be consistent with variable positions
	lhs := clauseOf("et", "x")
	rhs := clauseOf("t", "y")
	rhs.Body = NewApp("=", &Var{Name: "t", Sort: "E"}, NewNum(0))
	//
	assert.False(t, AlphaEquivalent(lhs, rhs))
}

func Test_Chc_AlphaEquivalent_05(t *testing.T) {
	// Literals must match exactly
	lhs := clauseOf("et", "x")
	rhs := clauseOf("et", "x")
	rhs.Body = NewApp("=", &Var{Name: "x", Sort: "Int"}, NewNum(1))
	//
	assert.False(t, AlphaEquivalent(lhs, rhs))
}

func Test_Chc_EqualTerms(t *testing.T) {
	lhs := NewApp("and", &Bool{true}, NewApp("<", NewNum(1), NewNum(2)))
	rhs := NewApp("and", &Bool{true}, NewApp("<", NewNum(1), NewNum(2)))
	//
	assert.True(t, EqualTerms(lhs, rhs))
	assert.False(t, EqualTerms(lhs, NewApp("or", &Bool{true})))
}

func testSystem() *System {
	return &System{
		Metadata:   []MetaDatum{{Key: ":author", Values: []string{"tester"}}},
		Sorts:      []string{"E"},
		Relations:  []RelationDecl{{Name: "R", Params: []string{"E", "Int"}}},
		Objectives: []VarDecl{{Name: "f", Sort: "E"}},
		Vars:       []VarDecl{{Name: "d", Sort: "Int"}},
		Clauses: []Clause{
			clauseOf("et", "x"),
			// Quantifier-free clause
			{
				Body: &Bool{true},
				Head: NewApp("R", &Var{Name: "f", Sort: "E"}, NewNum(0)),
			},
		},
		Constraints: []Term{
			NewApp("R", &Var{Name: "f", Sort: "E"}, &Var{Name: "d", Sort: "Int"}),
		},
	}
}

func Test_Chc_Writer(t *testing.T) {
	text := testSystem().String()
	//
	assert.Contains(t, text, "(set-info :author tester)")
	assert.Contains(t, text, "(declare-sort E 0)")
	assert.Contains(t, text, "(declare-rel R (E Int))")
	assert.Contains(t, text, "(declare-objective f E)")
	assert.Contains(t, text, "(declare-var d Int)")
	assert.Contains(t, text, "(rule (forall ((et E) (x Int)) (=> (= x 0) (R et x))))")
	// No forall wrapper without quantified variables
	assert.Contains(t, text, "(rule (=> true (R f 0)))")
	assert.Contains(t, text, "(constraint (R f d))")
}

func Test_Chc_RoundTrip(t *testing.T) {
	system := testSystem()
	//
	srcfile := source.NewFile("test.chc", []byte(system.String()))
	parsed, err := ParseSystem(srcfile)
	require.Nil(t, err)
	//
	assert.True(t, AlphaEquivalentSystems(system, parsed))
}

func Test_Chc_Reader_Invalid_01(t *testing.T) {
	_, err := ParseSystem(source.NewFile("test.chc", []byte("(declare-sort)")))
	assert.NotNil(t, err)
}

func Test_Chc_Reader_Invalid_02(t *testing.T) {
	// Unknown symbols within rules are rejected
	_, err := ParseSystem(source.NewFile("test.chc", []byte("(rule (=> true (R y)))")))
	assert.NotNil(t, err)
}

func Test_Chc_ClausesOf(t *testing.T) {
	system := testSystem()
	//
	assert.Len(t, system.ClausesOf("R"), 2)
	assert.Empty(t, system.ClausesOf("S"))
	//
	_, ok := system.Relation("R")
	assert.True(t, ok)
}
