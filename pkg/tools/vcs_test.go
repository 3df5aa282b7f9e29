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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVCS_InitStatusAddCommitLogRoundTrip(t *testing.T) {
	root := t.TempDir()
	tool := NewVCSTool(root)
	ctx := context.Background()

	result, err := tool.Execute(ctx, map[string]any{"operation": "init"})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	require.NoError(t, os.WriteFile(filepath.Join(root, "hello.txt"), []byte("hi"), 0o644))

	result, err = tool.Execute(ctx, map[string]any{"operation": "status"})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, result.Text, "hello.txt")

	result, err = tool.Execute(ctx, map[string]any{"operation": "add", "files": []any{"hello.txt"}})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	result, err = tool.Execute(ctx, map[string]any{"operation": "diff_staged"})
	require.NoError(t, err)
	assert.Contains(t, result.Text, "hello.txt")

	result, err = tool.Execute(ctx, map[string]any{"operation": "commit", "message": "initial commit"})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, result.Text, "Committed")

	result, err = tool.Execute(ctx, map[string]any{"operation": "log", "limit": float64(5)})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, result.Text, "initial commit")

	result, err = tool.Execute(ctx, map[string]any{"operation": "status"})
	require.NoError(t, err)
	assert.Contains(t, result.Text, "clean")
}

func TestVCS_InitTwiceIsNotAnError(t *testing.T) {
	root := t.TempDir()
	tool := NewVCSTool(root)
	ctx := context.Background()

	_, err := tool.Execute(ctx, map[string]any{"operation": "init"})
	require.NoError(t, err)
	result, err := tool.Execute(ctx, map[string]any{"operation": "init"})
	require.NoError(t, err)
	assert.False(t, result.IsError)
}

func TestVCS_CommitWithoutMessageFails(t *testing.T) {
	root := t.TempDir()
	tool := NewVCSTool(root)
	ctx := context.Background()

	_, err := tool.Execute(ctx, map[string]any{"operation": "init"})
	require.NoError(t, err)

	result, err := tool.Execute(ctx, map[string]any{"operation": "commit"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestVCS_UnknownOperation(t *testing.T) {
	root := t.TempDir()
	tool := NewVCSTool(root)
	result, err := tool.Execute(context.Background(), map[string]any{"operation": "bogus"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
