// Copyright 2025 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package imports finds, adds, removes, and rewrites import/use/include
// statements across the languages synthia understands: named, default,
// namespace, side-effect and require forms for TypeScript/JavaScript;
// simple, from, wildcard and aliased forms for Python; use declarations
// (including nested groups, glob, and rename) for Rust; and #include of
// both system and local forms for C/C++.
package imports

import (
	synerrors "github.com/kraklabs/synthia/internal/errors"
	"github.com/kraklabs/synthia/pkg/lang"
	"github.com/kraklabs/synthia/pkg/location"
)

// Kind classifies one import/use/include statement.
type Kind string

const (
	KindNamed      Kind = "named"
	KindDefault    Kind = "default"
	KindNamespace  Kind = "namespace"
	KindSideEffect Kind = "side_effect"
	KindRequire    Kind = "require"
	KindSimple     Kind = "simple"   // python: import x
	KindFrom       Kind = "from"     // python: from x import y
	KindWildcard   Kind = "wildcard" // python: from x import *
	KindUse        Kind = "use"      // rust
	KindInclude    Kind = "include"  // c/c++
)

// Symbol is one name imported by a statement, with its optional alias.
type Symbol struct {
	Name  string
	Alias string
}

// Statement is one import/use/include statement found in a file.
type Statement struct {
	Source   string
	Symbols  []Symbol
	Location location.Location
	Kind     Kind
	Raw      string
}

// TransactionStager is the subset of *refactor.Transaction's behavior
// the mutating operations need. Defined here rather than imported so
// this package has no dependency on pkg/refactor, which itself calls
// into this package during rename — importing the concrete type would
// be a cycle.
type TransactionStager interface {
	AddOperation(path, original, newContent string) error
}

// Find returns every import statement in path, in source order.
func Find(path string) ([]Statement, error) {
	l := lang.FromExtension(path)
	switch l {
	case lang.TypeScript, lang.JavaScript:
		return findTSJS(path)
	case lang.Python:
		return findPython(path)
	case lang.Rust:
		return findRust(path)
	case lang.C, lang.Cpp:
		return findC(path)
	default:
		return nil, synerrors.NewInputError("unsupported language for import analysis", string(l), "")
	}
}

// Add inserts a new import statement after the last existing import (or
// at the top of the file if none exist), using the language's canonical
// syntax, and stages the result through tx.
func Add(path, source string, symbols []Symbol, kind Kind, tx TransactionStager) error {
	l := lang.FromExtension(path)
	switch l {
	case lang.TypeScript, lang.JavaScript:
		return addTSJS(path, source, symbols, kind, tx)
	case lang.Python:
		return addPython(path, source, symbols, kind, tx)
	case lang.Rust:
		return addRust(path, source, symbols, tx)
	case lang.C, lang.Cpp:
		return addC(path, source, kind, tx)
	default:
		return synerrors.NewInputError("unsupported language for import analysis", string(l), "")
	}
}

// RemoveBySymbol deletes every import statement in path whose imported
// symbols include symbol, staging the result through tx.
func RemoveBySymbol(path, symbol string, tx TransactionStager) error {
	stmts, err := Find(path)
	if err != nil {
		return err
	}
	var toRemove []Statement
	for _, s := range stmts {
		if statementHasSymbol(s, symbol) {
			toRemove = append(toRemove, s)
		}
	}
	if len(toRemove) == 0 {
		return nil
	}
	return removeStatements(path, toRemove, tx)
}

// RewritePath replaces the source path in every import statement whose
// source matches oldSource with newSource, preserving each statement's
// bracket/quote style, and stages the result through tx.
func RewritePath(path, oldSource, newSource string, tx TransactionStager) error {
	l := lang.FromExtension(path)
	switch l {
	case lang.TypeScript, lang.JavaScript:
		return rewritePathTSJS(path, oldSource, newSource, tx)
	case lang.Python:
		return rewritePathPython(path, oldSource, newSource, tx)
	case lang.Rust:
		return rewritePathRust(path, oldSource, newSource, tx)
	case lang.C, lang.Cpp:
		return rewritePathC(path, oldSource, newSource, tx)
	default:
		return synerrors.NewInputError("unsupported language for import analysis", string(l), "")
	}
}

// Rename updates every import statement in path that imports oldName,
// replacing the imported symbol's name (not its alias, if any) with
// newName. Used by rename to keep import statements in sync with a
// renamed declaration when the caller asks for it.
func Rename(path, oldName, newName string, tx TransactionStager) error {
	l := lang.FromExtension(path)
	switch l {
	case lang.TypeScript, lang.JavaScript:
		return renameTSJS(path, oldName, newName, tx)
	case lang.Python:
		return renamePython(path, oldName, newName, tx)
	case lang.Rust:
		return renameRust(path, oldName, newName, tx)
	case lang.C, lang.Cpp:
		return nil // #include has no imported symbol names to rename
	default:
		return synerrors.NewInputError("unsupported language for import analysis", string(l), "")
	}
}

func statementHasSymbol(s Statement, symbol string) bool {
	for _, sym := range s.Symbols {
		if sym.Name == symbol || sym.Alias == symbol {
			return true
		}
	}
	return false
}

