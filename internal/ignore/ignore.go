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

// Package ignore is the one canonical ignore-list shared by every
// component that walks a project tree: the batch regex replacer, the
// file watcher, and the source-tree analyzer's directory-wide
// operations. It layers a project's own .gitignore on top of a fixed
// list of directories and file suffixes every one of those components
// skips regardless of what the project declares.
package ignore

import (
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// hardcodedDirs is always ignored, independent of any .gitignore.
var hardcodedDirs = map[string]bool{
	".git":          true,
	"target":        true,
	"node_modules":  true,
	"dist":          true,
	"build":         true,
	".next":         true,
	"__pycache__":   true,
	".pytest_cache": true,
	".mypy_cache":   true,
	"venv":          true,
	".venv":         true,
}

// Matcher decides whether a path should be skipped while walking a
// project tree.
type Matcher struct {
	root     string
	gitignore *gitignore.GitIgnore
}

// New builds a Matcher for root, loading root/.gitignore if present.
// A missing or unreadable .gitignore is not an error; it just means no
// project-specific patterns apply beyond the hardcoded list.
func New(root string) (*Matcher, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	gi, err := gitignore.CompileIgnoreFile(filepath.Join(absRoot, ".gitignore"))
	if err != nil {
		gi = gitignore.CompileIgnoreLines()
	}
	return &Matcher{root: absRoot, gitignore: gi}, nil
}

// IsIgnored reports whether path (absolute or relative to the
// matcher's root) should be skipped: a hardcoded directory component,
// a .scip index file, or a .gitignore match.
func (m *Matcher) IsIgnored(path string) bool {
	if strings.HasSuffix(path, ".scip") {
		return true
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	for _, part := range strings.Split(filepath.ToSlash(abs), "/") {
		if hardcodedDirs[part] {
			return true
		}
	}

	rel, err := filepath.Rel(m.root, abs)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)
	if m.gitignore.MatchesPath(rel) {
		return true
	}
	return m.gitignore.MatchesPath(rel + "/")
}

// Walk calls fn for every regular file under root that Matcher doesn't
// ignore, skipping whole directories it ignores rather than descending
// into them.
func (m *Matcher) Walk(root string, fn func(path string, info os.FileInfo) error) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != root && m.IsIgnored(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if m.IsIgnored(path) {
			return nil
		}
		return fn(path, info)
	})
}
