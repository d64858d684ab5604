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
package source

// Maps provides a mechanism for mapping terms of an AST across multiple
// source files.
type Maps[T comparable] struct {
	// Array of known source maps.
	maps []*Map[T]
}

// NewMaps constructs an (initially empty) set of source maps.  The intention
// is that this is populated as each file is parsed.
func NewMaps[T comparable]() *Maps[T] {
	return &Maps[T]{}
}

// Join a given source map into this set of source maps.  The effect of this
// is that nodes recorded in the given source map can be accessed from this
// set.
func (p *Maps[T]) Join(srcmap *Map[T]) {
	p.maps = append(p.maps, srcmap)
}

// Has checks whether a given node has a mapping in one of the source maps
// embodied within.
func (p *Maps[T]) Has(node T) bool {
	for _, m := range p.maps {
		if m.Has(node) {
			return true
		}
	}
	//
	return false
}

// SyntaxError constructs a syntax error for a given node contained within one
// of the source files managed by this set of source maps.
//
//nolint:revive
func (p *Maps[T]) SyntaxError(node T, msg string) *SyntaxError {
	for _, m := range p.maps {
		if m.Has(node) {
			return m.SyntaxError(node, msg)
		}
	}
	// If we get here, then the node on which the error occurs is not present
	// in any of the source maps.  This should not be possible, provided the
	// parser is implemented correctly.
	panic("missing mapping for source node")
}
