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
	"time"
)

// NewShellTool returns the "shell" built-in: runs one command through
// /bin/sh -c, bounded by timeout, with stdout and stderr combined into
// the result text.
func NewShellTool(timeout time.Duration) *Tool {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Tool{
		Name:        "shell",
		Description: "Execute a shell command and return its combined stdout/stderr.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"command": map[string]any{"type": "string", "description": "Shell command to execute"},
			},
			"required": []string{"command"},
		},
		Execute: func(ctx context.Context, params map[string]any) (*ToolResult, error) {
			command, _ := params["command"].(string)
			if command == "" {
				return NewError("Error: 'command' is required"), nil
			}

			runCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			cmd := exec.CommandContext(runCtx, "/bin/sh", "-c", command)
			var buf bytes.Buffer
			cmd.Stdout = &buf
			cmd.Stderr = &buf

			err := cmd.Run()
			output := buf.String()

			if runCtx.Err() != nil {
				return NewError(fmt.Sprintf(
					"Command timed out after %s. For long-running commands, run them in the background (e.g. append `&` or use `nohup`) and poll for completion instead.\nPartial output:\n%s",
					timeout, output,
				)), nil
			}
			if err != nil {
				return NewError(fmt.Sprintf("Command failed: %v\n%s", err, output)), nil
			}
			return NewResult(output), nil
		},
	}
}
