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

package refactor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/synthia/pkg/lsp"
)

func TestTransaction_DryRunDoesNotWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	tx := New(DryRun)
	require.NoError(t, tx.AddOperation(path, "hello", "goodbye"))

	result, err := tx.Commit()
	require.NoError(t, err)
	assert.True(t, result.Committed)
	assert.True(t, result.Changes[0].Applied)

	content, _ := os.ReadFile(path)
	assert.Equal(t, "hello", string(content))
}

func TestTransaction_ExecuteWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	tx := New(Execute)
	require.NoError(t, tx.AddOperation(path, "hello", "goodbye"))

	result, err := tx.Commit()
	require.NoError(t, err)
	assert.True(t, result.Committed)

	content, _ := os.ReadFile(path)
	assert.Equal(t, "goodbye", string(content))
}

func TestTransaction_RollsBackOnFailure(t *testing.T) {
	dir := t.TempDir()
	okPath := filepath.Join(dir, "ok.txt")
	require.NoError(t, os.WriteFile(okPath, []byte("original"), 0o644))

	// badPath's parent cannot be created: its parent segment is itself
	// a regular file, not a directory.
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	badPath := filepath.Join(blocker, "nested", "bad.txt")

	tx := New(Execute)
	require.NoError(t, tx.AddOperation(okPath, "original", "changed"))
	require.NoError(t, tx.AddOperation(badPath, "", "new"))

	result, err := tx.Commit()
	require.Error(t, err)
	assert.False(t, result.Committed)

	content, _ := os.ReadFile(okPath)
	assert.Equal(t, "original", string(content), "rollback must restore the first operation's original content")
}

func TestTransaction_RejectsAddAfterCommit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	tx := New(Execute)
	require.NoError(t, tx.AddOperation(path, "x", "y"))
	_, err := tx.Commit()
	require.NoError(t, err)

	err = tx.AddOperation(path, "y", "z")
	assert.Error(t, err)
}

func TestApplyWorkspaceEdit_SplicesDescendingAndStaysAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(path, []byte("line one\nline two\nline three\n"), 0o644))

	edit := lsp.WorkspaceEdit{
		Changes: map[string][]lsp.TextEdit{
			"file://" + path: {
				{Range: lsp.Range{Start: lsp.Position{Line: 0, Character: 5}, End: lsp.Position{Line: 0, Character: 8}}, NewText: "ONE"},
				{Range: lsp.Range{Start: lsp.Position{Line: 2, Character: 5}, End: lsp.Position{Line: 2, Character: 10}}, NewText: "THREE"},
			},
		},
	}

	tx := New(Execute)
	require.NoError(t, ApplyWorkspaceEdit(tx, edit))
	result, err := tx.Commit()
	require.NoError(t, err)
	assert.True(t, result.Committed)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line ONE\nline two\nline THREE\n", string(content))
}
