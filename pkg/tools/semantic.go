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

package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kraklabs/synthia/pkg/lang"
	"github.com/kraklabs/synthia/pkg/project"
	"github.com/kraklabs/synthia/pkg/query"
)

// BackendProvider resolves the current query.Backend for a given
// file's language, loading or reloading the semantic index as needed.
// The agent actor supplies a concrete implementation bound to its
// active project root.
type BackendProvider interface {
	Backend(ctx context.Context, l lang.Language) (query.Backend, error)
}

// NewSemanticTool returns the "semantic_navigate" built-in: dispatches
// in-process to the query package rather than shelling out to a CLI,
// since the CLI and the agent runtime share the same Go module.
func NewSemanticTool(root string, backends BackendProvider, autoInstall bool) *Tool {
	return &Tool{
		Name:        "semantic_navigate",
		Description: "Code-intelligence operations: index, definition, references, functions, classes, stats.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"operation": map[string]any{
					"type": "string",
					"enum": []string{"index", "definition", "references", "functions", "classes", "stats"},
				},
				"file":                 map[string]any{"type": "string"},
				"line":                 map[string]any{"type": "integer"},
				"column":               map[string]any{"type": "integer"},
				"include_declarations": map[string]any{"type": "boolean"},
			},
			"required": []string{"operation"},
		},
		Execute: func(ctx context.Context, params map[string]any) (*ToolResult, error) {
			op, _ := params["operation"].(string)
			file, _ := params["file"].(string)

			if op == "index" {
				for _, l := range project.DetectLanguages(root) {
					if _, err := project.Reindex(ctx, root, l, autoInstall, nil); err != nil {
						return NewError(fmt.Sprintf("indexing %s: %v", l, err)), nil
					}
				}
				return NewResult("Index rebuilt."), nil
			}

			if file == "" {
				return NewError("Error: 'file' is required for this operation"), nil
			}
			l := lang.FromExtension(file)
			backend, err := backends.Backend(ctx, l)
			if err != nil {
				return NewError(err.Error()), nil
			}

			switch op {
			case "definition":
				line := intParam(params, "line")
				column := intParam(params, "column")
				loc, err := query.FindDefinition(ctx, backend, l, file, line, column)
				if err != nil {
					return NewError(err.Error()), nil
				}
				return prettyJSON(loc)
			case "references":
				line := intParam(params, "line")
				column := intParam(params, "column")
				includeDecl, _ := params["include_declarations"].(bool)
				refs, err := query.FindReferencesAt(ctx, backend, l, file, line, column, includeDecl)
				if err != nil {
					return NewError(err.Error()), nil
				}
				return prettyJSON(refs)
			case "functions":
				syms, err := query.ListFunctions(backend)
				if err != nil {
					return NewError(err.Error()), nil
				}
				return prettyJSON(syms)
			case "classes":
				syms, err := query.ListClasses(backend)
				if err != nil {
					return NewError(err.Error()), nil
				}
				return prettyJSON(syms)
			case "stats":
				stats, err := query.Stats(backend)
				if err != nil {
					return NewError(err.Error()), nil
				}
				return prettyJSON(stats)
			default:
				return NewError(fmt.Sprintf("unknown semantic_navigate operation %q", op)), nil
			}
		},
	}
}

func intParam(params map[string]any, key string) int {
	if v, ok := params[key].(float64); ok {
		return int(v)
	}
	return 0
}

func prettyJSON(v any) (*ToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return NewError(err.Error()), nil
	}
	return NewResult(string(out)), nil
}
