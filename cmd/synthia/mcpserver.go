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
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kraklabs/synthia/internal/ui"
	"github.com/kraklabs/synthia/pkg/mcpserver"
	"github.com/kraklabs/synthia/pkg/tools"
)

// runMCPServer exposes every built-in tool, including semantic_navigate
// backed by root's own index/LSP state, over stdio until the process
// receives an interrupt.
func runMCPServer(root string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend := newProjectBackend(root)
	registry := tools.NewDefaultRegistry(tools.Options{
		Root:             root,
		ShellTimeout:     30 * time.Second,
		FileReadCap:      1 << 20,
		WebFetchTimeout:  15 * time.Second,
		WebFetchCap:      1 << 20,
		ResultCacheSize:  256,
		AutoInstallIndex: false,
		SemanticBackend:  backend,
	})

	server := mcpserver.New(registry)
	ui.Info(fmt.Sprintf("synthia MCP server ready (%d tools) over stdio", server.ToolCount()))
	if err := server.Run(ctx); err != nil {
		fail(err, false)
	}
}
