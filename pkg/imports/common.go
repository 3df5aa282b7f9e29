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

package imports

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// removeStatements deletes the whole-line span of each statement in
// toRemove from path's content and stages the result through tx. Spans
// are removed back-to-front so earlier line numbers stay valid.
func removeStatements(path string, toRemove []Statement, tx TransactionStager) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	lines := strings.Split(string(raw), "\n")

	sorted := append([]Statement(nil), toRemove...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Location.StartLine > sorted[j].Location.StartLine
	})

	for _, s := range sorted {
		start := s.Location.StartLine - 1
		end := s.Location.EndLine - 1
		if start < 0 || end >= len(lines) || start > end {
			continue
		}
		lines = append(lines[:start], lines[end+1:]...)
	}

	newContent := strings.Join(lines, "\n")
	return tx.AddOperation(path, string(raw), newContent)
}

// insertAfterLastImport splices newLine in after the last import
// statement's line (or at the top of the file if stmts is empty), and
// stages the result through tx.
func insertAfterLastImport(path string, stmts []Statement, newLine string, tx TransactionStager) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	lines := strings.Split(string(raw), "\n")

	insertAt := 0
	for _, s := range stmts {
		if s.Location.EndLine > insertAt {
			insertAt = s.Location.EndLine
		}
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:insertAt]...)
	out = append(out, newLine)
	out = append(out, lines[insertAt:]...)

	return tx.AddOperation(path, string(raw), strings.Join(out, "\n"))
}

// rewriteSourceInLines rewrites every line matching re (the source path
// capture must be the first submatch group) whose captured source
// equals oldSource, replacing it with newSource while preserving the
// surrounding quote/bracket text, and stages the result through tx.
func rewriteSourceInLines(path, oldSource, newSource string, re *regexp.Regexp, tx TransactionStager) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	lines := strings.Split(string(raw), "\n")
	changed := false

	for i, line := range lines {
		loc := re.FindStringSubmatchIndex(line)
		if loc == nil || loc[2] < 0 {
			continue
		}
		captured := line[loc[2]:loc[3]]
		if captured != oldSource {
			continue
		}
		lines[i] = line[:loc[2]] + newSource + line[loc[3]:]
		changed = true
	}
	if !changed {
		return nil
	}
	return tx.AddOperation(path, string(raw), strings.Join(lines, "\n"))
}
