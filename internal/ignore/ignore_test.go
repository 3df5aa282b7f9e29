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

package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsIgnored_Hardcoded(t *testing.T) {
	root := t.TempDir()
	m, err := New(root)
	require.NoError(t, err)

	assert.True(t, m.IsIgnored(filepath.Join(root, "node_modules", "x.js")))
	assert.True(t, m.IsIgnored(filepath.Join(root, "target", "debug", "main")))
	assert.True(t, m.IsIgnored(filepath.Join(root, "index.go.scip")))
	assert.False(t, m.IsIgnored(filepath.Join(root, "src", "main.go")))
}

func TestIsIgnored_Gitignore(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.log\nvendor/\n"), 0o644))

	m, err := New(root)
	require.NoError(t, err)

	assert.True(t, m.IsIgnored(filepath.Join(root, "debug.log")))
	assert.True(t, m.IsIgnored(filepath.Join(root, "vendor", "pkg", "x.go")))
	assert.False(t, m.IsIgnored(filepath.Join(root, "main.go")))
}

func TestWalk_SkipsIgnoredDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules", "dep"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "node_modules", "dep", "x.js"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main"), 0o644))

	m, err := New(root)
	require.NoError(t, err)

	var visited []string
	err = m.Walk(root, func(path string, info os.FileInfo) error {
		rel, _ := filepath.Rel(root, path)
		visited = append(visited, rel)
		return nil
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"main.go"}, visited)
}
