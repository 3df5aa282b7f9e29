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

package refactor

import (
	"context"
	"fmt"

	synerrors "github.com/kraklabs/synthia/internal/errors"
	"github.com/kraklabs/synthia/pkg/lang"
	"github.com/kraklabs/synthia/pkg/location"
	"github.com/kraklabs/synthia/pkg/lsp"
	"github.com/kraklabs/synthia/pkg/query"
)

// BackendFinder adapts a query.Backend + its language into the
// ReferenceFinder interface Rename depends on, so production callers
// wire the real semantic-index/LSP backends while tests construct a fake
// ReferenceFinder directly.
type BackendFinder struct {
	Backend  query.Backend
	Language lang.Language
}

func (f BackendFinder) FindReferences(ctx context.Context, file string, line, column int, includeDeclarations bool) ([]location.Reference, error) {
	return query.FindReferencesAt(ctx, f.Backend, f.Language, file, line, column, includeDeclarations)
}

func (f BackendFinder) PrepareRename(ctx context.Context, file string, line, column int) (bool, error) {
	if f.Backend.LSP == nil {
		return false, synerrors.NewInternalError("prepareRename requires an LSP backend", "", nil)
	}
	client, err := f.Backend.LSP.Client(ctx, f.Language)
	if err != nil {
		return false, fmt.Errorf("starting language server: %w", err)
	}
	return client.PrepareRename(file, line, column)
}

func (f BackendFinder) Rename(ctx context.Context, file string, line, column int, newName string) (lsp.WorkspaceEdit, error) {
	if f.Backend.LSP == nil {
		return lsp.WorkspaceEdit{}, synerrors.NewInternalError("rename requires an LSP backend", "", nil)
	}
	client, err := f.Backend.LSP.Client(ctx, f.Language)
	if err != nil {
		return lsp.WorkspaceEdit{}, fmt.Errorf("starting language server: %w", err)
	}
	return client.Rename(file, line, column, newName)
}
