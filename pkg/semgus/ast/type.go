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
package ast

// SortKind distinguishes the kinds of sort over which variables and relation
// parameters range.
type SortKind uint8

const (
	// SORT_INT represents the sort of (unbounded) integers.
	SORT_INT SortKind = iota
	// SORT_BOOL represents the sort of booleans.
	SORT_BOOL
	// SORT_TERM represents the sort of terms of a declared term type.
	SORT_TERM
)

// Sort describes the sort of a variable, literal or relation parameter.  A
// sort is either one of the builtin sorts (Int, Bool) or a declared term type,
// in which case Name identifies the term type in question.
type Sort struct {
	Kind SortKind
	Name string
}

// IntSort returns the sort of integers.
func IntSort() Sort {
	return Sort{SORT_INT, ""}
}

// BoolSort returns the sort of booleans.
func BoolSort() Sort {
	return Sort{SORT_BOOL, ""}
}

// TermSort returns the sort of terms of a given term type.
func TermSort(name string) Sort {
	return Sort{SORT_TERM, name}
}

// IsTerm checks whether this is a term sort.
func (s Sort) IsTerm() bool {
	return s.Kind == SORT_TERM
}

func (s Sort) String() string {
	switch s.Kind {
	case SORT_INT:
		return "Int"
	case SORT_BOOL:
		return "Bool"
	default:
		return s.Name
	}
}
