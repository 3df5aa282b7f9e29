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
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kraklabs/synthia/pkg/lsp"
)

// ApplyWorkspaceEdit reduces an LSP workspace edit to transaction
// operations: collect edits per file, sort each file's edits by start
// position descending, splice each into the file's content, and stage
// the result through t so a multi-file edit commits as one atomic
// unit.
func ApplyWorkspaceEdit(t *Transaction, edit lsp.WorkspaceEdit) error {
	perFile := edit.PerFile()
	for uri, edits := range perFile {
		path := uriToPath(uri)
		original, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s for workspace edit: %w", path, err)
		}

		sorted := append([]lsp.TextEdit(nil), edits...)
		sort.Slice(sorted, func(i, j int) bool {
			return startAfter(sorted[i].Range, sorted[j].Range)
		})

		content := string(original)
		for _, e := range sorted {
			content, err = spliceEdit(content, e)
			if err != nil {
				return fmt.Errorf("applying edit to %s: %w", path, err)
			}
		}

		if err := t.AddOperation(path, string(original), content); err != nil {
			return err
		}
	}
	return nil
}

// startAfter reports whether a's range starts after b's, for a
// descending sort (later edits applied first so earlier positions
// stay valid).
func startAfter(a, b lsp.Range) bool {
	if a.Start.Line != b.Start.Line {
		return a.Start.Line > b.Start.Line
	}
	return a.Start.Character > b.Start.Character
}

// spliceEdit replaces the text spanned by e.Range (0-indexed,
// line/character) with e.NewText.
func spliceEdit(content string, e lsp.TextEdit) (string, error) {
	lines := strings.Split(content, "\n")

	startLine, startCol := e.Range.Start.Line, e.Range.Start.Character
	endLine, endCol := e.Range.End.Line, e.Range.End.Character
	if startLine < 0 || startLine >= len(lines) || endLine < 0 || endLine >= len(lines) {
		return "", fmt.Errorf("edit range out of bounds: start=%d end=%d, file has %d lines", startLine, endLine, len(lines))
	}

	if startLine == endLine {
		line := lines[startLine]
		if startCol > len(line) || endCol > len(line) || startCol > endCol {
			return "", fmt.Errorf("edit column out of bounds on line %d", startLine)
		}
		lines[startLine] = line[:startCol] + e.NewText + line[endCol:]
		return strings.Join(lines, "\n"), nil
	}

	startText := lines[startLine][:startCol]
	endText := lines[endLine][endCol:]
	replaced := startText + e.NewText + endText
	newLines := append([]string{}, lines[:startLine]...)
	newLines = append(newLines, replaced)
	newLines = append(newLines, lines[endLine+1:]...)
	return strings.Join(newLines, "\n"), nil
}

func uriToPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return uri
	}
	return filepath.FromSlash(u.Path)
}
