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

package main

import (
	"context"
	"sync"

	"github.com/kraklabs/synthia/pkg/lang"
	"github.com/kraklabs/synthia/pkg/lsp"
	"github.com/kraklabs/synthia/pkg/query"
	"github.com/kraklabs/synthia/pkg/scip"
)

// projectBackend resolves a query.Backend for a project root, loading
// the semantic index at most once and lazily starting an LSP manager
// only for languages that have no index backend (currently Swift).
// It implements tools.BackendProvider, so the same value backs both
// direct CLI verbs and the semantic_navigate tool under --mcp-server.
type projectBackend struct {
	root string

	mu    sync.Mutex
	index *scip.IndexSet
	lsp   *lsp.Manager
}

func newProjectBackend(root string) *projectBackend {
	return &projectBackend{root: root}
}

func (p *projectBackend) Backend(ctx context.Context, l lang.Language) (query.Backend, error) {
	if l.LSPOnly() {
		p.mu.Lock()
		if p.lsp == nil {
			p.lsp = lsp.NewManager(p.root)
		}
		mgr := p.lsp
		p.mu.Unlock()
		return query.ForLSP(mgr), nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.index == nil {
		set, err := scip.FromProject(p.root)
		if err != nil {
			return query.Backend{}, err
		}
		p.index = set
	}
	return query.ForIndex(p.index), nil
}

// invalidate drops the cached index, forcing the next Backend call to
// reload it from disk. Used after `index` regenerates the files a
// previously loaded IndexSet was built from.
func (p *projectBackend) invalidate() {
	p.mu.Lock()
	p.index = nil
	p.mu.Unlock()
}
