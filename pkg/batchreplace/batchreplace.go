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

// Package batchreplace walks a project tree and applies a regex
// substitution line-by-line across every file a glob pattern selects,
// either previewing the change as a structured diff or writing it
// through the refactoring transaction engine.
package batchreplace

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/kraklabs/synthia/internal/ignore"
	"github.com/kraklabs/synthia/pkg/refactor"
)

// Match is one regex match found while scanning a file.
type Match struct {
	File        string
	Line        int
	Column      int
	Original    string
	Replacement string
	FullLine    string
}

// Result is the outcome of a Run call.
type Result struct {
	Matches      []Match
	FilesChanged []string
	Committed    bool
}

// Run walks root (skipping ignored paths per internal/ignore), keeps
// only files whose root-relative path matches glob (empty matches
// everything), and applies pattern/replacement to every matching line.
// In preview mode no file is written. In apply mode, files whose
// content actually changed are written through a refactoring
// transaction, so a failure partway through rolls every write back.
func Run(root string, pattern *regexp.Regexp, replacement, glob string, preview bool) (*Result, error) {
	matcher, err := ignore.New(root)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	var tx *refactor.Transaction
	if !preview {
		tx = refactor.New(refactor.Execute)
	}

	err = matcher.Walk(root, func(path string, info os.FileInfo) error {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		if !matchGlob(glob, rel) {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		lines := strings.Split(string(content), "\n")
		changed := false
		for i, line := range lines {
			locs := pattern.FindAllStringIndex(line, -1)
			if locs == nil {
				continue
			}
			for _, loc := range locs {
				matched := line[loc[0]:loc[1]]
				result.Matches = append(result.Matches, Match{
					File:        rel,
					Line:        i + 1,
					Column:      loc[0] + 1,
					Original:    matched,
					Replacement: pattern.ReplaceAllString(matched, replacement),
					FullLine:    line,
				})
			}
			newLine := pattern.ReplaceAllString(line, replacement)
			if newLine != line {
				changed = true
				lines[i] = newLine
			}
		}

		if changed {
			result.FilesChanged = append(result.FilesChanged, rel)
			if tx != nil {
				newContent := strings.Join(lines, "\n")
				if err := tx.AddOperation(path, string(content), newContent); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if tx != nil {
		if _, err := tx.Commit(); err != nil {
			return nil, err
		}
		result.Committed = true
	}
	return result, nil
}

// matchGlob implements the replacer's narrow glob dialect: within a
// path segment the filepath.Match wildcards apply ("*", "?", "[...]"),
// and a "**/" prefix matches any directory depth before the remaining
// pattern.
func matchGlob(glob, relPath string) bool {
	if glob == "" {
		return true
	}
	if strings.HasPrefix(glob, "**/") {
		rest := glob[len("**/"):]
		parts := strings.Split(relPath, "/")
		for i := range parts {
			suffix := strings.Join(parts[i:], "/")
			if ok, _ := filepath.Match(rest, suffix); ok {
				return true
			}
		}
		return false
	}
	ok, _ := filepath.Match(glob, relPath)
	return ok
}
