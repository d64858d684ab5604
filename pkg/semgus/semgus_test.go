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
package semgus

import (
	"fmt"
	"math/big"
	"os"
	"testing"

	"github.com/consensys/go-semgus/pkg/chc"
	"github.com/consensys/go-semgus/pkg/semgus/compiler"
	"github.com/consensys/go-semgus/pkg/util/source"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Determines the (relative) location of the test directory, where the SemGuS
// problem files are found.
const TestDir = "../../testdata"

// ===================================================================
// Valid Tests
// ===================================================================

func Test_Valid_Max2(t *testing.T) {
	system := CheckValid(t, "max2")
	// One clause per semantic body
	assert.Len(t, system.ClausesOf("E.Sem"), 7)
	assert.Len(t, system.ClausesOf("B.Sem"), 5)
	//
	assert.Equal(t, []string{"E", "B"}, system.Sorts)
	assert.Equal(t, []chc.VarDecl{{Name: "max2", Sort: "E"}}, system.Objectives)
	//
	require.Len(t, system.Constraints, 1)
	//
	expected := chc.NewApp("and",
		chc.NewApp("E.Sem", &chc.Var{Name: "max2", Sort: "E"},
			chc.NewNum(4), chc.NewNum(2), chc.NewNum(4)),
		chc.NewApp("E.Sem", &chc.Var{Name: "max2", Sort: "E"},
			chc.NewNum(2), chc.NewNum(5), chc.NewNum(5)))
	//
	assert.True(t, chc.EqualTerms(expected, system.Constraints[0]))
	// Constraint is closed (only objectives / auxiliary globals remain)
	checkClosed(t, system, system.Constraints[0])
}

func Test_Valid_Max2_LeafClause(t *testing.T) {
	system := CheckValid(t, "max2")
	clause := system.ClausesOf("E.Sem")[0]
	// Quantified over exactly the head variables
	assert.Equal(t, []chc.Var{
		{Name: "et", Sort: "E"},
		{Name: "x", Sort: "Int"},
		{Name: "y", Sort: "Int"},
		{Name: "r", Sort: "Int"},
	}, clause.Vars)
	//
	body := chc.NewApp("=", &chc.Var{Name: "r", Sort: "Int"}, &chc.Var{Name: "x", Sort: "Int"})
	head := chc.NewApp("E.Sem", &chc.Var{Name: "et", Sort: "E"},
		&chc.Var{Name: "x", Sort: "Int"}, &chc.Var{Name: "y", Sort: "Int"},
		&chc.Var{Name: "r", Sort: "Int"})
	//
	assert.True(t, chc.EqualTerms(body, clause.Body))
	assert.True(t, chc.EqualTerms(head, clause.Head))
}

func Test_Valid_Max2_Alternation(t *testing.T) {
	system := CheckValid(t, "max2")
	clauses := system.ClausesOf("E.Sem")
	// Both ITE clauses share an identical head
	assert.True(t, chc.EqualTerms(clauses[5].Head, clauses[6].Head))
	assert.False(t, chc.EqualTerms(clauses[5].Body, clauses[6].Body))
}

func Test_Valid_Max2i_Passthrough(t *testing.T) {
	system := CheckValid(t, "max2i")
	clauses := system.ClausesOf("S.Sem")
	require.Len(t, clauses, 4)
	// The assignment clause evaluates its expression into rx, whilst threading
	// the remaining state components unchanged.
	expected := chc.NewApp("and",
		chc.NewApp("E.Sem", &chc.Var{Name: "et1", Sort: "E"},
			&chc.Var{Name: "x", Sort: "Int"}, &chc.Var{Name: "y", Sort: "Int"},
			&chc.Var{Name: "c", Sort: "Int"}, &chc.Var{Name: "r1", Sort: "Int"}),
		chc.NewApp("=", &chc.Var{Name: "rx", Sort: "Int"}, &chc.Var{Name: "r1", Sort: "Int"}),
		chc.NewApp("=", &chc.Var{Name: "ry", Sort: "Int"}, &chc.Var{Name: "y", Sort: "Int"}),
		chc.NewApp("=", &chc.Var{Name: "rc", Sort: "Int"}, &chc.Var{Name: "c", Sort: "Int"}))
	//
	assert.True(t, chc.EqualTerms(expected, clauses[0].Body))
	// Quantifier order: term variable, header state variables, child
	// variables, remaining grammar variables.
	var names []string
	for _, v := range clauses[0].Vars {
		names = append(names, v.Name)
	}
	//
	assert.Equal(t, []string{"st", "x", "y", "c", "rx", "ry", "rc", "et1", "r1"}, names)
}

func Test_Valid_Max2i_Constraints(t *testing.T) {
	system := CheckValid(t, "max2i")
	require.Len(t, system.Constraints, 2)
	// Auxiliary globals remain free in the query
	assert.Equal(t, []chc.VarDecl{{Name: "dy", Sort: "Int"}, {Name: "dc", Sort: "Int"}}, system.Vars)
	//
	for _, c := range system.Constraints {
		checkClosed(t, system, c)
	}
}

func Test_Valid_Idempotent(t *testing.T) {
	lhs := CheckValid(t, "max2")
	rhs := CheckValid(t, "max2")
	//
	ints := cmp.Comparer(func(a, b *big.Int) bool { return a.Cmp(b) == 0 })
	assert.True(t, cmp.Equal(lhs, rhs, ints))
}

func Test_Valid_RoundTrip_Max2(t *testing.T) {
	CheckRoundTrip(t, CheckValid(t, "max2"))
}

func Test_Valid_RoundTrip_Max2i(t *testing.T) {
	CheckRoundTrip(t, CheckValid(t, "max2i"))
}

func Test_Valid_MultiFile(t *testing.T) {
	srcfiles, err := source.ReadFiles(
		fmt.Sprintf("%s/valid/multi_a.sem", TestDir),
		fmt.Sprintf("%s/valid/multi_b.sem", TestDir))
	require.NoError(t, err)
	//
	system, diags := CompileSourceFiles(srcfiles)
	for _, d := range diags {
		t.Error(d.Error())
	}
	//
	require.NotNil(t, system)
	assert.Len(t, system.ClausesOf("E.Sem"), 2)
	assert.Len(t, system.Constraints, 1)
}

// ===================================================================
// Invalid Tests
// ===================================================================

func Test_Invalid_ParseError_01(t *testing.T) {
	CheckInvalid(t, "parse_error", compiler.PARSE_ERROR)
}

func Test_Invalid_ParseError_02(t *testing.T) {
	CheckInvalid(t, "unknown_command", compiler.PARSE_ERROR)
}

func Test_Invalid_DuplicateSymbol_01(t *testing.T) {
	CheckInvalid(t, "dup_termtype", compiler.DUPLICATE_SYMBOL)
}

func Test_Invalid_DuplicateSymbol_02(t *testing.T) {
	CheckInvalid(t, "dup_var", compiler.DUPLICATE_SYMBOL)
}

func Test_Invalid_DuplicateSymbol_03(t *testing.T) {
	// Relation exported by an earlier grammar blocks redeclaration.
	CheckInvalid(t, "dup_relation", compiler.DUPLICATE_SYMBOL)
}

func Test_Invalid_UnknownType_01(t *testing.T) {
	CheckInvalid(t, "unknown_type", compiler.UNKNOWN_TYPE)
}

func Test_Invalid_UndeclaredVariable_01(t *testing.T) {
	diags := CheckInvalid(t, "bad_relation", compiler.UNDECLARED_VARIABLE)
	// Diagnostic names the offending symbol
	assert.Contains(t, diags[0].Err.Message(), "E.Sm")
}

func Test_Invalid_ArityMismatch_01(t *testing.T) {
	CheckInvalid(t, "bad_arity", compiler.ARITY_MISMATCH)
}

func Test_Invalid_SortMismatch_01(t *testing.T) {
	CheckInvalid(t, "sort_mismatch", compiler.SORT_MISMATCH)
}

func Test_Invalid_ConflictingRelation_01(t *testing.T) {
	CheckInvalid(t, "bad_header", compiler.CONFLICTING_RELATION)
}

func Test_Invalid_ConflictingRelation_02(t *testing.T) {
	CheckInvalid(t, "bad_signature", compiler.CONFLICTING_RELATION)
}

func Test_Invalid_UnknownNonTerminal_01(t *testing.T) {
	CheckInvalid(t, "unknown_nt", compiler.UNKNOWN_NONTERMINAL)
}

func Test_Invalid_UnknownObjective_01(t *testing.T) {
	CheckInvalid(t, "bad_objective", compiler.UNKNOWN_OBJECTIVE)
}

// ===================================================================
// Helpers
// ===================================================================

// CheckValid compiles a given problem file, failing the test on any
// diagnostic.
func CheckValid(t *testing.T, test string) *chc.System {
	srcfile := readSourceFile(t, fmt.Sprintf("%s/valid/%s.sem", TestDir, test))
	//
	system, diags := CompileSourceFile(srcfile)
	//
	for _, d := range diags {
		t.Error(d.Error())
	}
	//
	require.NotNil(t, system)
	//
	return system
}

// CheckInvalid compiles a given problem file, checking it fails with a
// diagnostic of the expected code.
func CheckInvalid(t *testing.T, test string, code compiler.Code) []compiler.Diagnostic {
	t.Parallel()
	//
	srcfile := readSourceFile(t, fmt.Sprintf("%s/invalid/%s.sem", TestDir, test))
	//
	system, diags := CompileSourceFile(srcfile)
	//
	if system != nil {
		t.Fatalf("%s should not have compiled", srcfile.Filename())
	}
	//
	require.NotEmpty(t, diags)
	assert.Equal(t, code, diags[0].Code, diags[0].Error())
	//
	return diags
}

// CheckRoundTrip serialises a system and reads it back, checking the result is
// the same up to renaming of quantified variables.
func CheckRoundTrip(t *testing.T, system *chc.System) {
	srcfile := source.NewFile("roundtrip.chc", []byte(system.String()))
	//
	parsed, err := chc.ParseSystem(srcfile)
	require.Nil(t, err)
	//
	assert.True(t, chc.AlphaEquivalentSystems(system, parsed))
}

// Check a constraint formula is closed: every remaining variable occurrence
// is a declared objective or auxiliary global.
func checkClosed(t *testing.T, system *chc.System, term chc.Term) {
	switch e := term.(type) {
	case *chc.Var:
		for _, o := range system.Objectives {
			if o.Name == e.Name {
				return
			}
		}
		//
		for _, v := range system.Vars {
			if v.Name == e.Name {
				return
			}
		}
		//
		t.Errorf("free variable %s in constraint", e.Name)
	case *chc.App:
		for _, arg := range e.Args {
			checkClosed(t, system, arg)
		}
	}
}

func readSourceFile(t *testing.T, filename string) *source.File {
	bytes, err := os.ReadFile(filename)
	//
	if err != nil {
		t.Fatal(err)
	}
	//
	return source.NewFile(filename, bytes)
}
