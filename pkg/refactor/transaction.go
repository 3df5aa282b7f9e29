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

// Package refactor implements the refactoring transaction engine and
// the operations built on it: rename, inline-variable, and batch
// regex replace.
package refactor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	synerrors "github.com/kraklabs/synthia/internal/errors"
)

// Mode selects whether Commit writes to disk.
type Mode int

const (
	Execute Mode = iota
	DryRun
)

// operation is one staged per-file write.
type operation struct {
	path     string
	original string
	content  string
}

// Transaction stages single-file text replacements, previews them as a
// diff, and commits atomically with rollback on partial failure. It is
// the exclusive owner of the filesystem writes it performs while open.
type Transaction struct {
	mode      Mode
	ops       []operation
	seen      map[string]string // path -> first-seen original content
	committed bool
}

// New returns an empty transaction in the given mode.
func New(mode Mode) *Transaction {
	return &Transaction{mode: mode, seen: make(map[string]string)}
}

// AddOperation appends a staged replacement for path. The original
// content is snapshotted only the first time a path is seen, so later
// edits to the same file (e.g. descending-order rename splices) chain
// correctly while rollback still restores the pre-transaction content.
func (t *Transaction) AddOperation(path, original, newContent string) error {
	if t.committed {
		return synerrors.NewTransactionError(
			"cannot add operation to a committed transaction",
			fmt.Sprintf("transaction already committed before adding %s", path),
			"",
			nil,
		)
	}
	if _, ok := t.seen[path]; !ok {
		t.seen[path] = original
	}
	t.ops = append(t.ops, operation{path: path, original: original, content: newContent})
	return nil
}

// Change describes one staged operation for preview purposes.
type Change struct {
	Path    string
	Diff    string
	Applied bool
	Error   string
}

// Result is the outcome of Commit.
type Result struct {
	Changes   []Change
	Committed bool
}

// Preview renders a unified-style diff per staged operation without
// touching the filesystem, using diffmatchpatch's line-level diff.
func (t *Transaction) Preview() []Change {
	changes := make([]Change, 0, len(t.ops))
	for _, op := range t.ops {
		changes = append(changes, Change{Path: op.path, Diff: lineDiff(op.original, op.content)})
	}
	return changes
}

// lineDiff renders a compact +/- line diff between two file contents.
func lineDiff(a, b string) string {
	dmp := diffmatchpatch.New()
	aLines, bLines, lineArray := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffMain(aLines, bLines, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var sb strings.Builder
	for _, d := range diffs {
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				sb.WriteString("-" + line + "\n")
			case diffmatchpatch.DiffInsert:
				sb.WriteString("+" + line + "\n")
			}
		}
	}
	return sb.String()
}

// Commit applies every staged operation. In DryRun mode nothing touches
// the filesystem and every operation is reported successful. In
// Execute mode, operations are applied in order; on the first failure,
// already-applied operations are rolled back in reverse from their
// snapshots, and both the primary error and any rollback errors are
// reported. A transaction never applies a single operation partially:
// each write is one os.WriteFile call.
func (t *Transaction) Commit() (*Result, error) {
	if t.committed {
		return nil, synerrors.NewTransactionError("transaction already committed", "", "", nil)
	}

	if t.mode == DryRun {
		changes := make([]Change, 0, len(t.ops))
		for _, op := range t.ops {
			changes = append(changes, Change{Path: op.path, Diff: lineDiff(op.original, op.content), Applied: true})
		}
		t.committed = true
		return &Result{Changes: changes, Committed: true}, nil
	}

	var applied []operation
	changes := make([]Change, 0, len(t.ops))
	for _, op := range t.ops {
		if err := writeFile(op.path, op.content); err != nil {
			rollbackErr := t.rollback(applied)
			changes = append(changes, Change{Path: op.path, Applied: false, Error: err.Error()})
			primary := synerrors.NewTransactionError(
				fmt.Sprintf("failed writing %s", op.path),
				err.Error(),
				"No changes were kept; the transaction was rolled back.",
				err,
			)
			if rollbackErr != nil {
				primary.Cause = primary.Cause + "; rollback error: " + rollbackErr.Error()
			}
			return &Result{Changes: changes, Committed: false}, primary
		}
		changes = append(changes, Change{Path: op.path, Applied: true})
		applied = append(applied, op)
	}

	t.committed = true
	return &Result{Changes: changes, Committed: true}, nil
}

// rollback restores every applied operation's path to its
// first-seen-in-this-transaction content, in reverse order.
func (t *Transaction) rollback(applied []operation) error {
	var firstErr error
	for i := len(applied) - 1; i >= 0; i-- {
		op := applied[i]
		original := t.seen[op.path]
		if err := writeFile(op.path, original); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func writeFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating parent directory for %s: %w", path, err)
		}
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
