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

// Package tools implements the built-in tool registry the agent actor
// dispatches into: shell, file read/write/edit, grep, glob, web fetch,
// todo list, version control, semantic navigation, and persistent
// notes.
package tools

import "context"

// ToolResult represents the result of a tool execution.
type ToolResult struct {
	Text    string
	IsError bool
}

// NewResult creates a successful tool result.
func NewResult(text string) *ToolResult {
	return &ToolResult{Text: text}
}

// NewError creates an error tool result.
func NewError(text string) *ToolResult {
	return &ToolResult{Text: text, IsError: true}
}

// Tool is a name, description, JSON-schema for parameters, and an
// async executor. The registry holds a name->Tool mapping and emits
// the schema list in the shape an LLM provider expects.
type Tool struct {
	Name        string
	Description string
	Schema      map[string]any
	Execute     func(ctx context.Context, params map[string]any) (*ToolResult, error)
	// Cacheable marks a tool whose result depends only on its
	// parameters, never on mutable filesystem or external state.
	// Non-cacheable tools bypass the result cache entirely.
	Cacheable bool
}
