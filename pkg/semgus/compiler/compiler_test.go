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
	"testing"

	"github.com/consensys/go-semgus/pkg/semgus/ast"
	"github.com/consensys/go-semgus/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseString(t *testing.T, text string) (*ast.Problem, []Diagnostic) {
	srcfile := source.NewFile("test.sem", []byte(text))
	problem, _, diags := ParseSourceFiles([]*source.File{srcfile})
	require.NotNil(t, problem)
	//
	return problem, diags
}

func Test_Parser_Metadata(t *testing.T) {
	problem, diags := parseString(t, "(metadata :author \"jane doe\")")
	require.Empty(t, diags)
	require.Len(t, problem.Commands, 1)
	//
	metadata, ok := problem.Commands[0].(*ast.Metadata)
	require.True(t, ok)
	assert.Equal(t, ":author", metadata.Key)
	assert.Len(t, metadata.Values, 1)
}

func Test_Parser_DeclTermType(t *testing.T) {
	problem, diags := parseString(t, "(declare-term-type E)")
	require.Empty(t, diags)
	//
	decl, ok := problem.Commands[0].(*ast.DeclTermType)
	require.True(t, ok)
	assert.Equal(t, "E", decl.Name)
}

func Test_Parser_DeclVars(t *testing.T) {
	problem, diags := parseString(t, "(declare-var (x y) Int)")
	require.Empty(t, diags)
	//
	decl, ok := problem.Commands[0].(*ast.DeclVars)
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, decl.Names)
	assert.Equal(t, "Int", decl.SortName)
}

func Test_Parser_Constraint(t *testing.T) {
	problem, diags := parseString(t, "(constraint (= x 10))")
	require.Empty(t, diags)
	//
	constraint, ok := problem.Commands[0].(*ast.Constraint)
	require.True(t, ok)
	//
	formula, ok := constraint.Formula.(*ast.Application)
	require.True(t, ok)
	assert.Equal(t, "=", formula.Name)
	require.Len(t, formula.Args, 2)
	//
	_, ok = formula.Args[0].(*ast.VariableAccess)
	assert.True(t, ok)
	//
	number, ok := formula.Args[1].(*ast.Number)
	require.True(t, ok)
	assert.Equal(t, 0, number.Value.Cmp(big.NewInt(10)))
}

func Test_Parser_MalformedCommands(t *testing.T) {
	tests := []string{
		"symbol",
		"(frobnicate x)",
		"(metadata)",
		"(metadata (author) \"x\")",
		"(declare-term-type)",
		"(declare-term-type (E))",
		"(declare-var () Int)",
		"(declare-var x Int)",
		"(synth-term f E)",
		"(constraint)",
	}
	//
	for _, test := range tests {
		_, diags := parseString(t, test)
		assert.NotEmpty(t, diags, test)
		//
		for _, d := range diags {
			assert.Equal(t, PARSE_ERROR, d.Code, test)
		}
	}
}

func Test_Parser_MalformedMetadata(t *testing.T) {
	// Missing key and non-symbol key both name the offending command.
	for _, test := range []string{"(metadata)", "(metadata (author) \"x\")"} {
		_, diags := parseString(t, test)
		require.Len(t, diags, 1, test)
		assert.Equal(t, PARSE_ERROR, diags[0].Code, test)
		assert.Contains(t, diags[0].Err.Message(), "metadata", test)
	}
}

func Test_Parser_CollectAll(t *testing.T) {
	// One diagnostic per failing command; the healthy command survives.
	problem, diags := parseString(t, "(frobnicate) (declare-term-type E) (widget)")
	assert.Len(t, diags, 2)
	assert.Len(t, problem.Commands, 1)
}

func Test_Scope_TermTypes(t *testing.T) {
	scope := NewGlobalScope()
	//
	assert.True(t, scope.DeclareTermType("E"))
	assert.False(t, scope.DeclareTermType("E"))
	assert.True(t, scope.HasTermType("E"))
	assert.Equal(t, []string{"E"}, scope.TermTypes())
}

func Test_Scope_ResolveSort(t *testing.T) {
	scope := NewGlobalScope()
	scope.DeclareTermType("E")
	//
	sort, ok := scope.ResolveSort("Int")
	assert.True(t, ok)
	assert.Equal(t, ast.IntSort(), sort)
	//
	sort, ok = scope.ResolveSort("E")
	assert.True(t, ok)
	assert.True(t, sort.IsTerm())
	//
	_, ok = scope.ResolveSort("F")
	assert.False(t, ok)
}

func Test_Scope_GlobalNamespace(t *testing.T) {
	scope := NewGlobalScope()
	scope.DeclareTermType("E")
	// Objectives, relations and auxiliary variables share one namespace.
	assert.True(t, scope.DeclareObjective(&Objective{Name: "f", TermType: "E"}))
	assert.False(t, scope.DeclareAuxVar("f", ast.IntSort()))
	assert.False(t, scope.DeclareRelation(&Relation{Name: "f"}))
	assert.True(t, scope.DeclareRelation(&Relation{Name: "E.Sem"}))
}

func Test_Scope_Production(t *testing.T) {
	global := NewGlobalScope()
	global.DeclareTermType("E")
	//
	grammar := NewGrammarScope(global)
	require.True(t, grammar.DeclareVar("x", ast.IntSort()))
	//
	scope := NewProductionScope(grammar, "et", ast.TermSort("E"))
	require.True(t, scope.DeclareChild("et1", ast.TermSort("E")))
	// Children shadow nothing
	assert.False(t, scope.DeclareChild("et1", ast.TermSort("E")))
	assert.False(t, scope.DeclareChild("x", ast.TermSort("E")))
	assert.False(t, scope.DeclareChild("et", ast.TermSort("E")))
	// Resolution order: children, term variable, grammar variables
	binding, ok := scope.Bind("et1")
	require.True(t, ok)
	assert.Equal(t, ast.CHILD_VAR, binding.Kind)
	//
	binding, ok = scope.Bind("x")
	require.True(t, ok)
	assert.Equal(t, ast.GRAMMAR_VAR, binding.Kind)
	//
	_, ok = scope.Bind("y")
	assert.False(t, ok)
	// Reset clears children only
	scope.ResetChildren()
	_, ok = scope.Bind("et1")
	assert.False(t, ok)
}

func Test_Diagnostic_Categories(t *testing.T) {
	assert.Equal(t, "parse", PARSE_ERROR.Category())
	assert.Equal(t, "declaration", DUPLICATE_SYMBOL.Category())
	assert.Equal(t, "declaration", UNDECLARED_VARIABLE.Category())
	assert.Equal(t, "declaration", UNKNOWN_TYPE.Category())
	assert.Equal(t, "grammar", UNKNOWN_NONTERMINAL.Category())
	assert.Equal(t, "grammar", ARITY_MISMATCH.Category())
	assert.Equal(t, "grammar", SORT_MISMATCH.Category())
	assert.Equal(t, "grammar", CONFLICTING_RELATION.Category())
	assert.Equal(t, "constraint", UNKNOWN_OBJECTIVE.Category())
}
