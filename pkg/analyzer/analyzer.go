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

// Package analyzer is the source-tree analyzer: it parses a file to
// a concrete syntax tree with Tree-sitter and runs capture-based queries
// over it to find functions, classes, structs, interfaces, and arbitrary
// patterns.
package analyzer

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/kraklabs/synthia/pkg/lang"
	"github.com/kraklabs/synthia/pkg/location"
)

// grammars maps each parseable Language to its Tree-sitter grammar.
// Swift has no entry: it is LSP-only (lang.Swift.LSPOnly() == true) and
// never reaches this table.
var grammars = map[lang.Language]*sitter.Language{
	lang.Go:         golang.GetLanguage(),
	lang.TypeScript: typescript.GetLanguage(),
	lang.JavaScript: javascript.GetLanguage(),
	lang.Python:     python.GetLanguage(),
	lang.Rust:       rust.GetLanguage(),
	lang.Java:       java.GetLanguage(),
	lang.C:          c.GetLanguage(),
	lang.Cpp:        cpp.GetLanguage(),
}

// AnalyzedFile is the result of parsing one file: its CST, raw content,
// and classified language.
type AnalyzedFile struct {
	Path     string
	Language lang.Language
	Content  []byte
	Tree     *sitter.Tree
}

// Close releases the underlying Tree-sitter tree. Callers must call
// this once done with an AnalyzedFile; the CST is not retained beyond
// one analysis.
func (a *AnalyzedFile) Close() {
	if a.Tree != nil {
		a.Tree.Close()
	}
}

// Analyzer runs Tree-sitter parses and capture queries. The zero value
// is ready to use.
type Analyzer struct{}

// New returns a ready-to-use Analyzer.
func New() *Analyzer { return &Analyzer{} }

// AnalyzeFile parses path and returns its CST, content, and language.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*AnalyzedFile, error) {
	l := lang.FromExtension(path)
	if !l.IsKnown() {
		return nil, fmt.Errorf("language not supported: %s", path)
	}
	grammar, ok := grammars[l]
	if !ok {
		return nil, fmt.Errorf("language not supported: %s", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(grammar)
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	return &AnalyzedFile{Path: path, Language: l, Content: content, Tree: tree}, nil
}

// capture runs a Tree-sitter query string against root and invokes fn
// for every (captureName, node) pair in every match, in emission order.
func capture(query string, grammar *sitter.Language, root *sitter.Node, content []byte, fn func(name string, node *sitter.Node)) error {
	q, err := sitter.NewQuery([]byte(query), grammar)
	if err != nil {
		return fmt.Errorf("invalid query: %w", err)
	}
	defer q.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(q, root)

	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, content)
		for _, cap := range match.Captures {
			fn(q.CaptureNameForId(cap.Index), cap.Node)
		}
	}
	return nil
}

// toLocation converts a Tree-sitter node's 0-indexed range to a
// 1-indexed location.Location. This is the sole boundary where CST
// coordinates are converted to the public, 1-indexed contract.
func toLocation(path string, node *sitter.Node) location.Location {
	start := node.StartPoint()
	end := node.EndPoint()
	return location.Location{
		Path:      path,
		StartLine: int(start.Row) + 1,
		StartCol:  int(start.Column) + 1,
		EndLine:   int(end.Row) + 1,
		EndCol:    int(end.Column) + 1,
	}
}

func nodeText(node *sitter.Node, content []byte) string {
	return node.Content(content)
}

// lineAt returns the 0-indexed source line n, or "" if out of range.
func lineAt(content []byte, n int) string {
	lines := strings.Split(string(content), "\n")
	if n < 0 || n >= len(lines) {
		return ""
	}
	return lines[n]
}
