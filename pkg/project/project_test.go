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

package project

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/synthia/pkg/lang"
)

func TestDetectRoot_FindsVCSMarker(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	got, err := DetectRoot(sub)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestDetectRoot_FallsBackToStart(t *testing.T) {
	root := t.TempDir()
	got, err := DetectRoot(root)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestDetectLanguages_TypeScriptOverJavaScript(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "tsconfig.json"), []byte("{}"), 0o644))

	langs := DetectLanguages(root)
	require.Len(t, langs, 1)
	assert.Equal(t, lang.TypeScript, langs[0])
}

func TestDetectLanguages_JavaScriptWithoutTsconfig(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte("{}"), 0o644))

	langs := DetectLanguages(root)
	require.Len(t, langs, 1)
	assert.Equal(t, lang.JavaScript, langs[0])
}

func TestDetectLanguages_MultipleMarkersNoDuplicates(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "requirements.txt"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pyproject.toml"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Cargo.toml"), []byte(""), 0o644))

	langs := DetectLanguages(root)
	assert.ElementsMatch(t, []lang.Language{lang.Python, lang.Rust}, langs)
}

func TestIndexPath_LowercasesLanguage(t *testing.T) {
	assert.Equal(t, filepath.Join("/proj", "index.typescript.scip"), IndexPath("/proj", lang.TypeScript))
}

func TestResolveIndexPath_PrefersCanonicalOverLegacy(t *testing.T) {
	root := t.TempDir()
	canonical := IndexPath(root, lang.Rust)
	legacy := LegacyIndexPath(root)
	require.NoError(t, os.WriteFile(legacy, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(canonical, []byte("x"), 0o644))

	assert.Equal(t, canonical, ResolveIndexPath(root, lang.Rust))
}

func TestResolveIndexPath_FallsBackToLegacy(t *testing.T) {
	root := t.TempDir()
	legacy := LegacyIndexPath(root)
	require.NoError(t, os.WriteFile(legacy, []byte("x"), 0o644))

	assert.Equal(t, legacy, ResolveIndexPath(root, lang.Rust))
}

func TestGenerateMetadata_CountsFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("package a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.go"), []byte("package b"), 0o644))

	meta, err := GenerateMetadata(root)
	require.NoError(t, err)
	assert.Equal(t, 2, meta.FileCount)
	assert.NotZero(t, meta.FilesHash)
}

func TestMetadata_IsStaleAfterChange(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "a.go")
	require.NoError(t, os.WriteFile(file, []byte("package a"), 0o644))

	meta, err := GenerateMetadata(root)
	require.NoError(t, err)

	stale, err := meta.IsStale(root)
	require.NoError(t, err)
	assert.False(t, stale)

	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(file, future, future))

	stale, err = meta.IsStale(root)
	require.NoError(t, err)
	assert.True(t, stale)
}

func TestMetadata_SaveLoadRoundTrip(t *testing.T) {
	root := t.TempDir()
	indexPath := IndexPath(root, lang.Rust)
	require.NoError(t, os.WriteFile(indexPath, []byte("x"), 0o644))

	meta := &Metadata{CreatedAt: time.Now(), FilesHash: 12345, FileCount: 3, IndexerCommand: []string{"rust-analyzer", "scip", "."}}
	require.NoError(t, meta.Save(indexPath))
	assert.True(t, MetadataExists(indexPath))

	loaded, err := LoadMetadata(indexPath)
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), loaded.FilesHash)
	assert.Equal(t, []string{"rust-analyzer", "scip", "."}, loaded.IndexerCommand)
}

func TestCheckStaleness_MissingMetadataIsStale(t *testing.T) {
	root := t.TempDir()
	indexPath := IndexPath(root, lang.Rust)
	require.NoError(t, os.WriteFile(indexPath, []byte("x"), 0o644))

	stalePath, stale, err := CheckStaleness(root, []lang.Language{lang.Rust})
	require.NoError(t, err)
	assert.True(t, stale)
	assert.Equal(t, indexPath, stalePath)
}

func TestCheckStaleness_FreshIndexNotStale(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("package a"), 0o644))
	indexPath := IndexPath(root, lang.Rust)
	require.NoError(t, os.WriteFile(indexPath, []byte("x"), 0o644))

	meta, err := GenerateMetadata(root)
	require.NoError(t, err)
	require.NoError(t, meta.Save(indexPath))

	_, stale, err := CheckStaleness(root, []lang.Language{lang.Rust})
	require.NoError(t, err)
	assert.False(t, stale)
}
