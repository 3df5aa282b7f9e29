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
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// NewNotesTool returns the "persistent_notes" built-in: dispatches to
// an external `synthia-notes` CLI the way other built-ins dispatch to
// external binaries when no in-process path exists, over a closed set
// of operations (context, search, recent, note, decision, gotcha, why).
func NewNotesTool(root, binary string) *Tool {
	if binary == "" {
		binary = "synthia-notes"
	}
	return &Tool{
		Name:        "persistent_notes",
		Description: "Query or append to the project's persistent knowledge base.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"operation": map[string]any{
					"type": "string",
					"enum": []string{"context", "search", "recent", "note", "decision", "gotcha", "why"},
				},
				"text":      map[string]any{"type": "string"},
				"query":     map[string]any{"type": "string"},
				"reasoning": map[string]any{"type": "string"},
				"tags":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
			"required": []string{"operation"},
		},
		Execute: func(ctx context.Context, params map[string]any) (*ToolResult, error) {
			op, _ := params["operation"].(string)
			args := []string{op, "--root", root}

			switch op {
			case "context", "recent":
				// no extra arguments
			case "search", "why":
				query, _ := params["query"].(string)
				if query == "" {
					return NewError("Error: 'query' is required"), nil
				}
				args = append(args, query)
			case "note":
				text, _ := params["text"].(string)
				if text == "" {
					return NewError("Error: 'text' is required"), nil
				}
				args = append(args, text)
			case "decision":
				text, _ := params["text"].(string)
				if text == "" {
					return NewError("Error: 'text' is required"), nil
				}
				args = append(args, text)
				if reasoning, _ := params["reasoning"].(string); reasoning != "" {
					args = append(args, "--reasoning", reasoning)
				}
			case "gotcha":
				text, _ := params["text"].(string)
				if text == "" {
					return NewError("Error: 'text' is required"), nil
				}
				args = append(args, text)
				for _, tag := range stringSlice(params["tags"]) {
					args = append(args, "--tag", tag)
				}
			default:
				return NewError(fmt.Sprintf("unknown persistent_notes operation %q", op)), nil
			}

			if _, err := exec.LookPath(binary); err != nil {
				return NewError(fmt.Sprintf("%s is not installed; persistent notes are unavailable", binary)), nil
			}

			cmd := exec.CommandContext(ctx, binary, args...)
			var stdout, stderr bytes.Buffer
			cmd.Stdout = &stdout
			cmd.Stderr = &stderr
			if err := cmd.Run(); err != nil {
				return NewError(fmt.Sprintf("%s failed: %v\n%s", binary, err, stderr.String())), nil
			}
			return NewResult(stdout.String()), nil
		},
	}
}
