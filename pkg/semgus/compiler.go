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
	"github.com/consensys/go-semgus/pkg/chc"
	"github.com/consensys/go-semgus/pkg/semgus/compiler"
	"github.com/consensys/go-semgus/pkg/util/source"
	log "github.com/sirupsen/logrus"
)

// CompileSourceFiles compiles one or more SemGuS problem files into a system
// of constrained Horn clauses.  Commands are accumulated across files in
// order, as if concatenated.  A system is returned only when compilation
// produces no diagnostics whatsoever; otherwise the diagnostics are returned
// and the system is nil.
func CompileSourceFiles(srcfiles []*source.File) (*chc.System, []compiler.Diagnostic) {
	problem, srcmaps, diags := compiler.ParseSourceFiles(srcfiles)
	//
	log.Debugf("parsed %d commands (%d diagnostics)", len(problem.Commands), len(diags))
	// Resolve whatever parsed, so one run surfaces as much as possible.
	scope, errs := compiler.ResolveProblem(problem, srcmaps)
	diags = append(diags, errs...)
	//
	if len(diags) != 0 {
		return nil, diags
	}
	//
	system := compiler.Translate(problem, scope)
	//
	log.Debugf("generated %d clauses over %d relations", len(system.Clauses), len(system.Relations))
	//
	return system, nil
}

// CompileSourceFile compiles a single SemGuS problem file into a system of
// constrained Horn clauses.
func CompileSourceFile(srcfile *source.File) (*chc.System, []compiler.Diagnostic) {
	return CompileSourceFiles([]*source.File{srcfile})
}
