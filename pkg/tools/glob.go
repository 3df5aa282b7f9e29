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
	"strings"
)

// NewGlobTool returns the "glob" built-in: lists files matching a
// pattern under a directory, preferring `fd` when present on PATH and
// falling back to `find` otherwise (mirroring the indexer-binary
// selection dispatch used for external semantic indexers).
func NewGlobTool(root string) *Tool {
	return &Tool{
		Name:        "glob",
		Description: "List files matching a glob pattern.",
		Cacheable:   false,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"pattern": map[string]any{"type": "string"},
				"path":    map[string]any{"type": "string"},
			},
			"required": []string{"pattern"},
		},
		Execute: func(ctx context.Context, params map[string]any) (*ToolResult, error) {
			pattern, _ := params["pattern"].(string)
			if pattern == "" {
				return NewError("Error: 'pattern' is required"), nil
			}
			dir := root
			if p, ok := params["path"].(string); ok && p != "" {
				dir = p
			}
			return runGlob(ctx, dir, pattern)
		},
	}
}

func runGlob(ctx context.Context, dir, pattern string) (*ToolResult, error) {
	var cmd *exec.Cmd
	if _, err := exec.LookPath("fd"); err == nil {
		cmd = exec.CommandContext(ctx, "fd", "--glob", pattern, ".", dir)
	} else {
		cmd = exec.CommandContext(ctx, "find", dir, "-name", pattern)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return NewError(fmt.Sprintf("glob failed: %v\n%s", err, stderr.String())), nil
	}

	out := strings.TrimRight(stdout.String(), "\n")
	if out == "" {
		return NewResult(fmt.Sprintf("No files match `%s` under %s", pattern, dir)), nil
	}
	lines := strings.Split(out, "\n")
	return NewResult(fmt.Sprintf("Found %d file(s):\n%s", len(lines), out)), nil
}
