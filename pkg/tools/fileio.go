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
	"fmt"
	"os"
	"strings"

	"github.com/kraklabs/synthia/pkg/refactor"
)

const defaultReadCap = 256 * 1024 // 256 KiB
const warnAboveBytes = 64 * 1024  // 64 KiB

// NewFileReadTool returns the "file_read" built-in. Reads below
// warnAboveBytes are returned as-is; reads below maxBytes but above
// that threshold are prefixed with a size warning; reads over maxBytes
// are refused with a structured remediation error rather than
// truncated silently.
func NewFileReadTool(maxBytes int) *Tool {
	if maxBytes <= 0 {
		maxBytes = defaultReadCap
	}
	return &Tool{
		Name:        "file_read",
		Description: "Read a UTF-8 text file.",
		Cacheable:   false,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path": map[string]any{"type": "string"},
			},
			"required": []string{"path"},
		},
		Execute: func(ctx context.Context, params map[string]any) (*ToolResult, error) {
			path, _ := params["path"].(string)
			if path == "" {
				return NewError("Error: 'path' is required"), nil
			}

			info, err := os.Stat(path)
			if err != nil {
				return NewError(fmt.Sprintf("Cannot read %s: %v", path, err)), nil
			}
			if int(info.Size()) > maxBytes {
				return NewError(fmt.Sprintf(
					"%s is %d bytes, over the %d byte read cap. Use grep to find the relevant lines, "+
						"or `head`/`tail` via the shell tool to read a slice, or the semantic-navigation "+
						"tool to jump straight to a definition.",
					path, info.Size(), maxBytes,
				)), nil
			}

			content, err := os.ReadFile(path)
			if err != nil {
				return NewError(fmt.Sprintf("Cannot read %s: %v", path, err)), nil
			}
			if len(content) > warnAboveBytes {
				return NewResult(fmt.Sprintf(
					"(%d bytes; consider grep/head for large files)\n\n%s", len(content), string(content),
				)), nil
			}
			return NewResult(string(content)), nil
		},
	}
}

// NewFileWriteTool returns the "file_write" built-in: writes content to
// path, creating parent directories, overwriting silently.
func NewFileWriteTool() *Tool {
	return &Tool{
		Name:        "file_write",
		Description: "Write content to a file, creating parent directories as needed.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path":    map[string]any{"type": "string"},
				"content": map[string]any{"type": "string"},
			},
			"required": []string{"path", "content"},
		},
		Execute: func(ctx context.Context, params map[string]any) (*ToolResult, error) {
			path, _ := params["path"].(string)
			content, _ := params["content"].(string)
			if path == "" {
				return NewError("Error: 'path' is required"), nil
			}
			tx := refactor.New(refactor.Execute)
			original := ""
			if existing, err := os.ReadFile(path); err == nil {
				original = string(existing)
			}
			if err := tx.AddOperation(path, original, content); err != nil {
				return NewError(err.Error()), nil
			}
			if _, err := tx.Commit(); err != nil {
				return NewError(err.Error()), nil
			}
			return NewResult(fmt.Sprintf("Wrote %d bytes to %s", len(content), path)), nil
		},
	}
}

// NewFileEditTool returns the "file_edit" built-in: literal
// old_string -> new_string substitution, staged through the same
// refactor.Transaction the refactoring engine itself uses rather than
// writing directly, so edits get the same atomic-commit/rollback
// guarantee as a rename or inline-variable operation.
func NewFileEditTool() *Tool {
	return &Tool{
		Name:        "file_edit",
		Description: "Replace the first occurrence of old_string with new_string in a file.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path":       map[string]any{"type": "string"},
				"old_string": map[string]any{"type": "string"},
				"new_string": map[string]any{"type": "string"},
			},
			"required": []string{"path", "old_string", "new_string"},
		},
		Execute: func(ctx context.Context, params map[string]any) (*ToolResult, error) {
			path, _ := params["path"].(string)
			oldString, _ := params["old_string"].(string)
			newString, _ := params["new_string"].(string)
			if path == "" || oldString == "" {
				return NewError("Error: 'path' and 'old_string' are required"), nil
			}

			content, err := os.ReadFile(path)
			if err != nil {
				return NewError(fmt.Sprintf("Cannot read %s: %v", path, err)), nil
			}
			original := string(content)
			if !strings.Contains(original, oldString) {
				return NewError(fmt.Sprintf("old_string not found in %s", path)), nil
			}

			updated := strings.Replace(original, oldString, newString, 1)
			tx := refactor.New(refactor.Execute)
			if err := tx.AddOperation(path, original, updated); err != nil {
				return NewError(err.Error()), nil
			}
			if _, err := tx.Commit(); err != nil {
				return NewError(err.Error()), nil
			}
			return NewResult(fmt.Sprintf("Edited %s", path)), nil
		},
	}
}
