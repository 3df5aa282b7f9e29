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
	"regexp"
	"strings"
)

// GrepArgs holds arguments for a regex search.
type GrepArgs struct {
	Pattern       string
	Path          string
	Glob          string
	CaseSensitive bool
	FilesOnly     bool
}

// GrepMatch is one matching line.
type GrepMatch struct {
	FilePath string
	Line     int
	Text     string
}

// EscapeRegex escapes regexp metacharacters, for callers building a
// literal-text search out of user-supplied text.
func EscapeRegex(s string) string {
	return regexp.QuoteMeta(s)
}

// NewGrepTool returns the "grep" built-in: prefers ripgrep when
// available on PATH, otherwise falls back to the system grep (in which
// case a glob filter is ignored, with a warning, since POSIX grep has
// no equivalent flag across all platforms synthia targets).
func NewGrepTool(root string) *Tool {
	return &Tool{
		Name:        "grep",
		Description: "Search file contents with a regular expression.",
		Cacheable:   false,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"pattern":        map[string]any{"type": "string"},
				"path":           map[string]any{"type": "string"},
				"glob":           map[string]any{"type": "string"},
				"case_sensitive": map[string]any{"type": "boolean"},
				"files_only":     map[string]any{"type": "boolean"},
			},
			"required": []string{"pattern"},
		},
		Execute: func(ctx context.Context, params map[string]any) (*ToolResult, error) {
			args := GrepArgs{
				Path: root,
			}
			args.Pattern, _ = params["pattern"].(string)
			if p, ok := params["path"].(string); ok && p != "" {
				args.Path = p
			}
			args.Glob, _ = params["glob"].(string)
			args.CaseSensitive, _ = params["case_sensitive"].(bool)
			args.FilesOnly, _ = params["files_only"].(bool)

			if args.Pattern == "" {
				return NewError("Error: 'pattern' is required"), nil
			}
			return runGrep(ctx, args)
		},
	}
}

func runGrep(ctx context.Context, args GrepArgs) (*ToolResult, error) {
	if _, err := exec.LookPath("rg"); err == nil {
		return grepWithRipgrep(ctx, args)
	}
	return grepWithSystemGrep(ctx, args)
}

func grepWithRipgrep(ctx context.Context, args GrepArgs) (*ToolResult, error) {
	cmdArgs := []string{"--line-number", "--no-heading"}
	if !args.CaseSensitive {
		cmdArgs = append(cmdArgs, "--ignore-case")
	}
	if args.FilesOnly {
		cmdArgs = append(cmdArgs, "--files-with-matches")
	}
	if args.Glob != "" {
		cmdArgs = append(cmdArgs, "--glob", args.Glob)
	}
	cmdArgs = append(cmdArgs, args.Pattern, args.Path)

	cmd := exec.CommandContext(ctx, "rg", cmdArgs...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()

	if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
		return NewResult(fmt.Sprintf("No matches found for `%s`", args.Pattern)), nil
	}
	if err != nil {
		return NewError(fmt.Sprintf("ripgrep failed: %v\n%s", err, stderr.String())), nil
	}
	return formatGrepOutput(args, stdout.String()), nil
}

func grepWithSystemGrep(ctx context.Context, args GrepArgs) (*ToolResult, error) {
	var warning string
	if args.Glob != "" {
		warning = "Warning: glob filter ignored (ripgrep not found on PATH, falling back to system grep).\n"
	}

	cmdArgs := []string{"-r", "-n", "-E"}
	if !args.CaseSensitive {
		cmdArgs = append(cmdArgs, "-i")
	}
	if args.FilesOnly {
		cmdArgs = append(cmdArgs, "-l")
	}
	cmdArgs = append(cmdArgs, args.Pattern, args.Path)

	cmd := exec.CommandContext(ctx, "grep", cmdArgs...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()

	if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
		return NewResult(warning + fmt.Sprintf("No matches found for `%s`", args.Pattern)), nil
	}
	if err != nil {
		return NewError(fmt.Sprintf("grep failed: %v\n%s", err, stderr.String())), nil
	}
	result := formatGrepOutput(args, stdout.String())
	result.Text = warning + result.Text
	return result, nil
}

func formatGrepOutput(args GrepArgs, raw string) *ToolResult {
	raw = strings.TrimRight(raw, "\n")
	if raw == "" {
		return NewResult(fmt.Sprintf("No matches found for `%s`", args.Pattern))
	}
	if args.FilesOnly {
		lines := strings.Split(raw, "\n")
		return NewResult(fmt.Sprintf("Found matches in %d file(s):\n%s", len(lines), raw))
	}
	lines := strings.Split(raw, "\n")
	return NewResult(fmt.Sprintf("Found %d match(es):\n%s", len(lines), raw))
}
