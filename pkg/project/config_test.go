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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/synthia/pkg/lang"
)

func writeConfig(t *testing.T, root, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".synthia"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, configFileName), []byte(contents), 0o644))
}

func TestLoadConfig_MissingFileIsZeroValue(t *testing.T) {
	root := t.TempDir()

	cfg, err := loadConfig(root)
	require.NoError(t, err)
	assert.Empty(t, cfg.Languages)
}

func TestLoadConfig_ParsesLanguageRules(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `
languages:
  - requires: ["go.mod"]
    language: go
  - requires: ["pom.xml"]
    language: java
`)

	cfg, err := loadConfig(root)
	require.NoError(t, err)
	require.Len(t, cfg.Languages, 2)
	assert.Equal(t, []string{"go.mod"}, cfg.Languages[0].Requires)
	assert.Equal(t, lang.Go, cfg.Languages[0].Language)
	assert.Equal(t, lang.Java, cfg.Languages[1].Language)
}

func TestLoadConfig_MalformedYAMLReturnsError(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "languages: [this is not valid: yaml: at all")

	_, err := loadConfig(root)
	assert.Error(t, err)
}

func TestExtraMarkerRules_SkipsUnknownLanguageAndEmptyRequires(t *testing.T) {
	cfg := config{Languages: []configRule{
		{Requires: []string{"go.mod"}, Language: lang.Go},
		{Requires: nil, Language: lang.Java},
		{Requires: []string{"x"}, Language: lang.Unknown},
	}}

	rules := cfg.extraMarkerRules()
	require.Len(t, rules, 1)
	assert.Equal(t, lang.Go, rules[0].language)
}

func TestDetectLanguages_UsesProjectConfigForGo(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module x\n"), 0o644))
	writeConfig(t, root, `
languages:
  - requires: ["go.mod"]
    language: go
`)

	langs := DetectLanguages(root)
	assert.ElementsMatch(t, []lang.Language{lang.Go}, langs)
}

func TestDetectLanguages_ConfigRuleRedundantWithBuiltinIsNotDuplicated(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "Cargo.toml"), []byte(""), 0o644))
	writeConfig(t, root, `
languages:
  - requires: ["Cargo.toml"]
    language: rust
`)

	langs := DetectLanguages(root)
	assert.Equal(t, []lang.Language{lang.Rust}, langs)
}

func TestDetectLanguages_MalformedConfigFallsBackToBuiltins(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "Cargo.toml"), []byte(""), 0o644))
	writeConfig(t, root, "not: [valid: yaml")

	langs := DetectLanguages(root)
	assert.ElementsMatch(t, []lang.Language{lang.Rust}, langs)
}
