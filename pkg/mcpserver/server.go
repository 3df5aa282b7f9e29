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

// Package mcpserver exposes a pkg/tools.Registry over the Model
// Context Protocol, so the same tool set the agent actor drives
// in-process can also be reached by an external MCP client (e.g. an
// editor or a different LLM harness) speaking stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kraklabs/synthia/pkg/tools"
)

const (
	serverName    = "synthia"
	serverVersion = "0.1.0"
)

// Server wraps an *mcp.Server bound to a tool registry: one mcp.Tool
// per registry entry, dispatched straight into the registry's Call —
// no subprocess, since the registry already runs in this process.
type Server struct {
	mcpServer *mcp.Server
	registry  *tools.Registry
}

// New builds a Server with one MCP tool registered per entry in
// registry, in registry.Schemas() order.
func New(registry *tools.Registry) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, &mcp.ServerOptions{
		Instructions: "Synthia exposes source-tree analysis, semantic navigation, refactoring, and shell/file/vcs tools for coding agents.",
	})

	s := &Server{mcpServer: mcpServer, registry: registry}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	for _, schema := range s.registry.Schemas() {
		name := schema.Name
		inputSchema, err := json.Marshal(schema.Parameters)
		if err != nil {
			inputSchema = json.RawMessage(`{"type":"object"}`)
		}

		s.mcpServer.AddTool(&mcp.Tool{
			Name:        name,
			Description: schema.Description,
			InputSchema: inputSchema,
		}, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return s.dispatch(ctx, name, req.Params.Arguments)
		})
	}
}

// dispatch parses rawArgs and calls name on the registry, translating
// both parse failures and tool errors into an IsError result rather
// than a Go error, since the MCP protocol reports tool failures in
// band.
func (s *Server) dispatch(ctx context.Context, name string, rawArgs json.RawMessage) (*mcp.CallToolResult, error) {
	var args map[string]any
	if rawArgs != nil {
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			return errorResult("error parsing arguments: " + err.Error()), nil
		}
	}

	result, err := s.registry.Call(ctx, name, args)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	if result.IsError {
		return errorResult(result.Text), nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: result.Text}},
	}, nil
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

// ToolCount returns the number of tools registered with the MCP
// server.
func (s *Server) ToolCount() int {
	return len(s.registry.Schemas())
}

// Run serves the registry over stdio until the context is canceled or
// the transport closes.
func (s *Server) Run(ctx context.Context) error {
	if err := s.mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
