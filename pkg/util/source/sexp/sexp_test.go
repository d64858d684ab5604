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
package sexp

import (
	"testing"

	"github.com/consensys/go-semgus/pkg/util/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func srcFile(text string) *source.File {
	return source.NewFile("test.sem", []byte(text))
}

func Test_Sexp_Symbol(t *testing.T) {
	term, srcmap, err := Parse(srcFile("hello"))
	require.Nil(t, err)
	require.NotNil(t, term.AsSymbol())
	assert.Equal(t, "hello", term.AsSymbol().Value)
	assert.Equal(t, source.NewSpan(0, 5), srcmap.Get(term))
}

func Test_Sexp_List(t *testing.T) {
	term, _, err := Parse(srcFile("(a b c)"))
	require.Nil(t, err)
	list := term.AsList()
	require.NotNil(t, list)
	assert.Equal(t, 3, list.Len())
	assert.Equal(t, "(a b c)", list.String(false))
}

func Test_Sexp_Nested(t *testing.T) {
	term, srcmap, err := Parse(srcFile("(a (b c) ())"))
	require.Nil(t, err)
	list := term.AsList()
	require.NotNil(t, list)
	assert.Equal(t, 3, list.Len())
	assert.Equal(t, 2, list.Get(1).AsList().Len())
	assert.Equal(t, 0, list.Get(2).AsList().Len())
	// Inner list spans are recorded too
	assert.Equal(t, source.NewSpan(3, 8), srcmap.Get(list.Get(1)))
}

func Test_Sexp_Quoted(t *testing.T) {
	term, _, err := Parse(srcFile("(meta \"jane doe\")"))
	require.Nil(t, err)
	list := term.AsList()
	require.NotNil(t, list)
	assert.Equal(t, "jane doe", list.Get(1).AsSymbol().Value)
	// Quoting is reintroduced on demand
	assert.Equal(t, "(meta \"jane doe\")", list.String(true))
	assert.Equal(t, "(meta jane doe)", list.String(false))
}

func Test_Sexp_Comments(t *testing.T) {
	terms, _, err := ParseAll(srcFile("; a comment\n(a b) ; trailing\n(c)"))
	require.Nil(t, err)
	assert.Len(t, terms, 2)
}

func Test_Sexp_ParseAll(t *testing.T) {
	terms, _, err := ParseAll(srcFile("(a) (b c) d"))
	require.Nil(t, err)
	require.Len(t, terms, 3)
	assert.NotNil(t, terms[0].AsList())
	assert.NotNil(t, terms[2].AsSymbol())
}

func Test_Sexp_Invalid_01(t *testing.T) {
	_, _, err := ParseAll(srcFile("(a b"))
	assert.NotNil(t, err)
}

func Test_Sexp_Invalid_02(t *testing.T) {
	_, _, err := ParseAll(srcFile(")"))
	assert.NotNil(t, err)
}

func Test_Sexp_Invalid_03(t *testing.T) {
	_, _, err := Parse(srcFile("a b"))
	require.NotNil(t, err)
	assert.Equal(t, "unexpected remainder", err.Message())
}

func Test_Sexp_Translator(t *testing.T) {
	srcfile := srcFile("(add 1 (neg x))")
	term, srcmap, err := Parse(srcfile)
	require.Nil(t, err)
	//
	tr := NewTranslator[string](srcfile, srcmap)
	tr.AddSymbolRule(func(s string) (string, bool, error) {
		return s, true, nil
	})
	tr.AddDefaultRecursiveListRule(func(head string, args []string) (string, error) {
		out := head
		for _, a := range args {
			out += " " + a
		}
		//
		return "(" + out + ")", nil
	})
	//
	out, errs := tr.Translate(term)
	require.Empty(t, errs)
	assert.Equal(t, "(add 1 (neg x))", out)
	// Translated terms are mapped back to their source spans
	assert.Equal(t, source.NewSpan(0, 15), tr.SourceMap().Get(out))
}
