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

// Package query is the unified facade over the semantic-index reader
// and the LSP client: a tagged variant that routes
// find_definition and position-based find_references uniformly,
// regardless of which backend answers a given language.
package query

import (
	"context"
	"fmt"

	synerrors "github.com/kraklabs/synthia/internal/errors"
	"github.com/kraklabs/synthia/pkg/lang"
	"github.com/kraklabs/synthia/pkg/location"
	"github.com/kraklabs/synthia/pkg/lsp"
	"github.com/kraklabs/synthia/pkg/scip"
)

// Backend is the tagged variant: exactly one of Index or LSP is set.
type Backend struct {
	Index *scip.IndexSet
	LSP   *lsp.Manager
}

// ForIndex wraps a loaded semantic index.
func ForIndex(set *scip.IndexSet) Backend { return Backend{Index: set} }

// ForLSP wraps an LSP manager.
func ForLSP(mgr *lsp.Manager) Backend { return Backend{LSP: mgr} }

func (b Backend) isLSP() bool { return b.LSP != nil }

// FindDefinition routes to the semantic index or the LSP client
// depending on which backend is configured, converging on the same
// location.Location shape either way.
func FindDefinition(ctx context.Context, b Backend, l lang.Language, file string, line, column int) (*location.Location, error) {
	if b.isLSP() {
		client, err := b.LSP.Client(ctx, l)
		if err != nil {
			return nil, synerrors.NewBackendError("cannot start language server", err.Error(), "", err)
		}
		locs, err := client.Definition(file, line, column)
		if err != nil {
			return nil, synerrors.NewBackendError("definition request failed", err.Error(), "", err)
		}
		if len(locs) == 0 {
			return nil, synerrors.NewNotFoundError("no definition found", fmt.Sprintf("%s:%d:%d", file, line, column), "")
		}
		return &locs[0], nil
	}
	return b.Index.FindDefinition(file, line, column)
}

// FindReferencesAt performs position-based find_references, which both
// backend variants support.
func FindReferencesAt(ctx context.Context, b Backend, l lang.Language, file string, line, column int, includeDeclarations bool) ([]location.Reference, error) {
	if b.isLSP() {
		client, err := b.LSP.Client(ctx, l)
		if err != nil {
			return nil, synerrors.NewBackendError("cannot start language server", err.Error(), "", err)
		}
		locs, err := client.References(file, line, column, includeDeclarations)
		if err != nil {
			return nil, synerrors.NewBackendError("references request failed", err.Error(), "", err)
		}
		refs := make([]location.Reference, 0, len(locs))
		for _, loc := range locs {
			refs = append(refs, location.Reference{Location: loc, Kind: location.RefGeneric})
		}
		return refs, nil
	}

	symbol, err := b.Index.SymbolAt(file, line, column)
	if err != nil {
		return nil, err
	}
	return b.Index.FindReferencesBySymbol(symbol, includeDeclarations), nil
}

// FindReferencesByName performs name/substring-based find_references.
// Only the semantic-index variant supports this; calling it against an
// LSP backend returns a fixed "unsupported" error.
func FindReferencesByName(b Backend, symbolNameOrSubstring string, includeDeclarations bool) ([]location.Reference, error) {
	if b.isLSP() {
		return nil, synerrors.NewInputError(
			"unsupported; use position-based find_references",
			"name-based find_references requires a semantic index backend",
			"Call find_references with a file/line/column instead.",
		)
	}
	return b.Index.FindReferences(symbolNameOrSubstring, includeDeclarations)
}

// ListFunctions returns every function/method definition in the index.
// Unsupported on an LSP backend, which has no project-wide symbol
// table synthia can enumerate.
func ListFunctions(b Backend) ([]scip.Symbol, error) {
	if b.isLSP() {
		return nil, errUnsupportedOnLSP("functions")
	}
	return b.Index.Symbols(scip.KindFunction, scip.KindMethod), nil
}

// ListClasses returns every class/struct definition in the index.
func ListClasses(b Backend) ([]scip.Symbol, error) {
	if b.isLSP() {
		return nil, errUnsupportedOnLSP("classes")
	}
	return b.Index.Symbols(scip.KindClass, scip.KindStruct), nil
}

// Stats reports document/symbol/occurrence counts for the index.
func Stats(b Backend) (scip.Stats, error) {
	if b.isLSP() {
		return scip.Stats{}, errUnsupportedOnLSP("stats")
	}
	return b.Index.Stats(), nil
}

func errUnsupportedOnLSP(op string) error {
	return synerrors.NewInputError(
		fmt.Sprintf("unsupported; %s requires a semantic index backend", op),
		"this project has no built index, only a running language server",
		"Run `synthia index` first.",
	)
}
