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

package lsp

import (
	"context"
	"fmt"
	"sync"

	"github.com/kraklabs/synthia/pkg/lang"
)

// ServerCommand is the executable and arguments used to start a
// language's server, e.g. {"gopls", []string{"serve"}}.
type ServerCommand struct {
	Command string
	Args    []string
}

// defaultServers is the built-in table of per-language server
// commands; overridable via Manager.Register for project-specific
// toolchains.
var defaultServers = map[lang.Language]ServerCommand{
	lang.Go:         {Command: "gopls", Args: []string{"serve"}},
	lang.TypeScript: {Command: "typescript-language-server", Args: []string{"--stdio"}},
	lang.JavaScript: {Command: "typescript-language-server", Args: []string{"--stdio"}},
	lang.Python:     {Command: "pyright-langserver", Args: []string{"--stdio"}},
	lang.Rust:       {Command: "rust-analyzer"},
	lang.Java:       {Command: "jdtls"},
	lang.C:          {Command: "clangd"},
	lang.Cpp:        {Command: "clangd"},
	lang.Swift:      {Command: "sourcekit-lsp"},
}

// Manager lazily starts one Client per language on first use and owns
// their shutdown: one manager per project root.
type Manager struct {
	root    string
	servers map[lang.Language]ServerCommand

	mu      sync.Mutex
	clients map[lang.Language]*Client
}

// NewManager returns a Manager rooted at root, using the built-in
// per-language server table.
func NewManager(root string) *Manager {
	servers := make(map[lang.Language]ServerCommand, len(defaultServers))
	for k, v := range defaultServers {
		servers[k] = v
	}
	return &Manager{root: root, servers: servers, clients: make(map[lang.Language]*Client)}
}

// Register overrides the server command used for a language.
func (m *Manager) Register(l lang.Language, command string, args ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.servers[l] = ServerCommand{Command: command, Args: args}
}

// Client returns the (lazily started) client for l.
func (m *Manager) Client(ctx context.Context, l lang.Language) (*Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.clients[l]; ok {
		return c, nil
	}
	sc, ok := m.servers[l]
	if !ok {
		return nil, fmt.Errorf("no language server configured for %s", l)
	}
	c, err := Start(ctx, m.root, sc.Command, sc.Args...)
	if err != nil {
		return nil, err
	}
	m.clients[l] = c
	return c, nil
}

// Shutdown gracefully shuts down every started client.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for l, c := range m.clients {
		_ = c.Close()
		delete(m.clients, l)
	}
}
