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

// Package project locates a project's root, detects which languages it
// contains, and names the semantic index files that live at that root.
package project

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kraklabs/synthia/pkg/lang"
)

// DetectRoot walks up from start looking for a version-control root
// marker (.git). If none is found before reaching the filesystem root,
// it returns start unchanged.
func DetectRoot(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	dir := abs
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		dir = parent
	}
}

// markerRule maps a set of marker files (all of which must be present)
// to the language they indicate. Order matters: more specific rules
// (TypeScript) are checked before the rules they subsume (JavaScript).
type markerRule struct {
	requires []string
	language lang.Language
}

var markerRules = []markerRule{
	{requires: []string{"package.json", "tsconfig.json"}, language: lang.TypeScript},
	{requires: []string{"package.json"}, language: lang.JavaScript},
	{requires: []string{"requirements.txt"}, language: lang.Python},
	{requires: []string{"setup.py"}, language: lang.Python},
	{requires: []string{"pyproject.toml"}, language: lang.Python},
	{requires: []string{"Cargo.toml"}, language: lang.Rust},
}

// DetectLanguages returns every language whose marker files are all
// present at root, in rule-table order with no duplicates. If root has
// a .synthia/config.yaml declaring additional language rules (see
// config.go), those are checked after the built-in table.
func DetectLanguages(root string) []lang.Language {
	rules := markerRules
	cfg, err := loadConfig(root)
	if err != nil {
		slog.Default().Warn("ignoring malformed project config", "error", err)
	} else if extra := cfg.extraMarkerRules(); len(extra) > 0 {
		rules = append(append([]markerRule{}, markerRules...), extra...)
	}

	seen := make(map[lang.Language]bool)
	var langs []lang.Language
	for _, rule := range rules {
		if seen[rule.language] {
			continue
		}
		if allExist(root, rule.requires) {
			seen[rule.language] = true
			langs = append(langs, rule.language)
		}
	}
	return langs
}

func allExist(root string, files []string) bool {
	for _, f := range files {
		if _, err := os.Stat(filepath.Join(root, f)); err != nil {
			return false
		}
	}
	return true
}

// IndexPath returns the canonical index file path for language l at
// root: index.<lowercase-language>.scip.
func IndexPath(root string, l lang.Language) string {
	return filepath.Join(root, fmt.Sprintf("index.%s.scip", strings.ToLower(string(l))))
}

// LegacyIndexPath returns the pre-per-language index filename, still
// accepted as a fallback.
func LegacyIndexPath(root string) string {
	return filepath.Join(root, "index.scip")
}

// ResolveIndexPath returns whichever index file for language l already
// exists on disk — the canonical per-language path, falling back to
// the legacy path — or the canonical path if neither exists yet (for a
// caller about to create one).
func ResolveIndexPath(root string, l lang.Language) string {
	canonical := IndexPath(root, l)
	if _, err := os.Stat(canonical); err == nil {
		return canonical
	}
	if legacy := LegacyIndexPath(root); fileExists(legacy) {
		return legacy
	}
	return canonical
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
