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
	"context"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	synerrors "github.com/kraklabs/synthia/internal/errors"
	"github.com/kraklabs/synthia/pkg/imports"
	"github.com/kraklabs/synthia/pkg/lang"
	"github.com/kraklabs/synthia/pkg/location"
	"github.com/kraklabs/synthia/pkg/lsp"
)

var identifierName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ReferenceFinder is the subset of query.Backend's behavior Rename
// needs; satisfied by *query.Backend-backed helpers, and mocked
// directly in tests without any runtime-patching trick.
type ReferenceFinder interface {
	FindReferences(ctx context.Context, file string, line, column int, includeDeclarations bool) ([]location.Reference, error)
	PrepareRename(ctx context.Context, file string, line, column int) (bool, error)
	Rename(ctx context.Context, file string, line, column int, newName string) (lsp.WorkspaceEdit, error)
}

// RenameRequest describes one rename-symbol invocation.
type RenameRequest struct {
	File          string
	Line          int
	Column        int
	NewName       string
	Language      lang.Language
	UpdateImports bool
	Preview       bool
}

// RenameChange is one per-file change in a preview summary.
type RenameChange struct {
	Path   string
	Line   int
	Column int
	Before string
	After  string
	Risk   string
}

// RenameResult is returned for a preview-mode rename.
type RenameResult struct {
	Changes []RenameChange
}

// Rename resolves the identifier at req's cursor, then either drives an
// LSP rename (for LSP-only languages) or walks the semantic index's
// references and splices each occurrence directly, optionally updating
// import statements that name the old identifier.
func Rename(ctx context.Context, finder ReferenceFinder, req RenameRequest) (*RenameResult, error) {
	if !identifierName.MatchString(req.NewName) {
		return nil, synerrors.NewInputError(
			"invalid new name",
			fmt.Sprintf("%q is not a legal identifier", req.NewName),
			"Use a name matching [A-Za-z_][A-Za-z0-9_]*.",
		)
	}

	content, err := os.ReadFile(req.File)
	if err != nil {
		return nil, synerrors.NewNotFoundError("cannot read file", err.Error(), "")
	}
	oldName, err := identifierAt(string(content), req.Line, req.Column)
	if err != nil {
		return nil, err
	}

	if req.Language.LSPOnly() {
		return renameViaLSP(ctx, finder, req, oldName)
	}
	return renameViaIndex(ctx, finder, req, oldName)
}

func renameViaLSP(ctx context.Context, finder ReferenceFinder, req RenameRequest, oldName string) (*RenameResult, error) {
	ok, err := finder.PrepareRename(ctx, req.File, req.Line, req.Column)
	if err != nil {
		return nil, synerrors.NewBackendError("prepareRename failed", err.Error(), "", err)
	}
	if !ok {
		return nil, synerrors.NewSafetyRefusalError("symbol is not renameable", "the language server returned a null prepareRename range")
	}

	edit, err := finder.Rename(ctx, req.File, req.Line, req.Column, req.NewName)
	if err != nil {
		return nil, synerrors.NewBackendError("rename request failed", err.Error(), "", err)
	}

	tx := modeFor(req)
	if err := ApplyWorkspaceEdit(tx, edit); err != nil {
		return nil, err
	}
	return commitOrPreviewFromDiff(tx, req)
}

func renameViaIndex(ctx context.Context, finder ReferenceFinder, req RenameRequest, oldName string) (*RenameResult, error) {
	refs, err := finder.FindReferences(ctx, req.File, req.Line, req.Column, true)
	if err != nil {
		return nil, err
	}

	byFile := make(map[string][]location.Reference)
	for _, r := range refs {
		byFile[r.Location.Path] = append(byFile[r.Location.Path], r)
	}

	tx := modeFor(req)
	var changes []RenameChange
	for path, fileRefs := range byFile {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, synerrors.NewNotFoundError("cannot read referenced file", err.Error(), "")
		}
		lines := strings.Split(string(content), "\n")
		original := string(content)

		sort.Slice(fileRefs, func(i, j int) bool {
			a, b := fileRefs[i].Location, fileRefs[j].Location
			if a.StartLine != b.StartLine {
				return a.StartLine > b.StartLine
			}
			return a.StartCol > b.StartCol
		})

		for _, ref := range fileRefs {
			lineIdx := ref.Location.StartLine - 1
			if lineIdx < 0 || lineIdx >= len(lines) {
				continue
			}
			line := lines[lineIdx]
			col := ref.Location.StartCol - 1
			start, end, ok := expandIdentifier(line, col)
			if !ok || line[start:end] != oldName {
				continue // stale position: identifier text no longer matches, skip silently
			}
			before := line
			line = line[:start] + req.NewName + line[end:]
			lines[lineIdx] = line
			changes = append(changes, RenameChange{
				Path: path, Line: ref.Location.StartLine, Column: ref.Location.StartCol,
				Before: before, After: line, Risk: riskFor(ref),
			})
		}

		newContent := strings.Join(lines, "\n")
		if newContent != original {
			if err := tx.AddOperation(path, original, newContent); err != nil {
				return nil, err
			}
		}
	}

	if req.UpdateImports {
		for path := range byFile {
			if err := imports.Rename(path, oldName, req.NewName, tx); err != nil {
				return nil, err
			}
		}
	}

	if req.Preview {
		return &RenameResult{Changes: changes}, nil
	}
	if _, err := tx.Commit(); err != nil {
		return nil, err
	}
	return &RenameResult{Changes: changes}, nil
}

func modeFor(req RenameRequest) *Transaction {
	if req.Preview {
		return New(DryRun)
	}
	return New(Execute)
}

// commitOrPreviewFromDiff handles the LSP-backed path, where the
// per-reference line/column detail renameViaIndex tracks isn't
// available — the workspace edit already carries its own ranges, so
// the summary falls back to one coarse change per touched file.
func commitOrPreviewFromDiff(tx *Transaction, req RenameRequest) (*RenameResult, error) {
	previews := tx.Preview()
	out := make([]RenameChange, 0, len(previews))
	for _, p := range previews {
		out = append(out, RenameChange{Path: p.Path, After: p.Diff, Risk: "medium"})
	}
	if req.Preview {
		return &RenameResult{Changes: out}, nil
	}
	if _, err := tx.Commit(); err != nil {
		return nil, err
	}
	return &RenameResult{Changes: out}, nil
}

// riskFor classifies a reference's edit risk: definitions are
// low-risk (the canonical site), everything else is medium (a usage
// whose correctness depends on the reference finder's accuracy).
func riskFor(ref location.Reference) string {
	if ref.Kind == location.RefDefinition {
		return "low"
	}
	return "medium"
}

// identifierAt extracts the maximal run of [A-Za-z0-9_] around the
// 1-indexed (line, column) cursor.
func identifierAt(content string, line, column int) (string, error) {
	lines := strings.Split(content, "\n")
	if line < 1 || line > len(lines) {
		return "", synerrors.NewInputError("position out of range", fmt.Sprintf("line %d", line), "")
	}
	l := lines[line-1]
	col := column - 1
	if col < 0 || col > len(l) {
		return "", synerrors.NewInputError("position out of range", fmt.Sprintf("column %d", column), "")
	}

	start, end, ok := expandIdentifier(l, col)
	if !ok {
		return "", synerrors.NewInputError("no identifier at location", fmt.Sprintf("%d:%d", line, column), "")
	}
	return l[start:end], nil
}

func isIdentChar(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// expandIdentifier expands left/right from col over identifier
// characters, returning the [start, end) byte range. col may point
// one past the end of an identifier (as some indexers emit).
func expandIdentifier(line string, col int) (int, int, bool) {
	if col >= len(line) || !isIdentChar(line[col]) {
		if col > 0 && col-1 < len(line) && isIdentChar(line[col-1]) {
			col--
		} else {
			return 0, 0, false
		}
	}
	start, end := col, col+1
	for start > 0 && isIdentChar(line[start-1]) {
		start--
	}
	for end < len(line) && isIdentChar(line[end]) {
		end++
	}
	return start, end, true
}
