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
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	synerrors "github.com/kraklabs/synthia/internal/errors"
	"github.com/kraklabs/synthia/pkg/lang"
	"github.com/kraklabs/synthia/pkg/lsp"
)

// InlineRequest describes one inline-variable invocation.
type InlineRequest struct {
	File     string
	Line     int
	Column   int
	Language lang.Language
	Preview  bool
}

// InlineChange is one line touched by an inline-variable operation,
// either a usage replaced by the initializer or the declaration line
// removed (reported with an empty After).
type InlineChange struct {
	Path   string
	Line   int
	Before string
	After  string
}

// InlineResult is returned for both preview and commit modes.
type InlineResult struct {
	Changes []InlineChange
}

// CodeActionRunner is the LSP surface Inline needs for LSP-only
// languages: request code actions scoped to the cursor and read back
// whichever one offers to inline.
type CodeActionRunner interface {
	CodeAction(file string, startLine, startCol, endLine, endCol int) (json.RawMessage, error)
}

// Inline locates the variable declaration at req's cursor and replaces
// every later usage with its initializer, then removes the declaration
// line. LSP-only languages instead request a code action whose title
// names "inline" and apply its workspace edit.
func Inline(ctx context.Context, runner CodeActionRunner, req InlineRequest) (*InlineResult, error) {
	if req.Language.LSPOnly() {
		return inlineViaLSP(runner, req)
	}
	return inlineViaAST(ctx, req)
}

func inlineViaLSP(runner CodeActionRunner, req InlineRequest) (*InlineResult, error) {
	raw, err := runner.CodeAction(req.File, req.Line-1, req.Column-1, req.Line-1, req.Column-1)
	if err != nil {
		return nil, synerrors.NewBackendError("code action request failed", err.Error(), "", err)
	}

	var actions []struct {
		Title string             `json:"title"`
		Edit  *lsp.WorkspaceEdit `json:"edit"`
	}
	if err := json.Unmarshal(raw, &actions); err != nil {
		return nil, synerrors.NewParseError("malformed code action response", err.Error(), err)
	}

	for _, a := range actions {
		if !strings.Contains(strings.ToLower(a.Title), "inline") {
			continue
		}
		if a.Edit == nil {
			return nil, synerrors.NewSafetyRefusalError(
				"inline code action has no workspace edit",
				"the language server offered an inline action driven by a follow-up command this client does not execute",
			)
		}
		tx := modeForInline(req)
		if err := ApplyWorkspaceEdit(tx, *a.Edit); err != nil {
			return nil, err
		}
		changes := make([]InlineChange, 0, len(tx.ops))
		for _, p := range tx.Preview() {
			changes = append(changes, InlineChange{Path: p.Path, After: p.Diff})
		}
		if req.Preview {
			return &InlineResult{Changes: changes}, nil
		}
		if _, err := tx.Commit(); err != nil {
			return nil, err
		}
		return &InlineResult{Changes: changes}, nil
	}
	return nil, synerrors.NewSafetyRefusalError("no inline code action available", "the language server offered no code action whose title mentions \"inline\"")
}

func modeForInline(req InlineRequest) *Transaction {
	if req.Preview {
		return New(DryRun)
	}
	return New(Execute)
}

var declarationKinds = map[lang.Language]string{
	lang.TypeScript: "lexical_declaration",
	lang.JavaScript: "lexical_declaration",
	lang.Rust:       "let_declaration",
	lang.Python:     "assignment",
	lang.C:          "declaration",
	lang.Cpp:        "declaration",
}

func inlineGrammar(l lang.Language, path string) (*sitter.Language, error) {
	switch l {
	case lang.TypeScript:
		return typescript.GetLanguage(), nil
	case lang.JavaScript:
		return javascript.GetLanguage(), nil
	case lang.Rust:
		return rust.GetLanguage(), nil
	case lang.Python:
		return python.GetLanguage(), nil
	case lang.C:
		return c.GetLanguage(), nil
	case lang.Cpp:
		return cpp.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("inline-variable not supported for %s", l)
	}
}

func inlineViaAST(ctx context.Context, req InlineRequest) (*InlineResult, error) {
	content, err := os.ReadFile(req.File)
	if err != nil {
		return nil, synerrors.NewNotFoundError("cannot read file", err.Error(), "")
	}
	grammar, err := inlineGrammar(req.Language, req.File)
	if err != nil {
		return nil, synerrors.NewInputError("unsupported language", err.Error(), "")
	}

	parser := sitter.NewParser()
	parser.SetLanguage(grammar)
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, synerrors.NewParseError("parse error", err.Error(), err)
	}
	defer tree.Close()

	offset, err := byteOffsetAt(content, req.Line, req.Column)
	if err != nil {
		return nil, err
	}

	declNode := smallestEnclosingOfType(tree.RootNode(), offset, declarationKinds[req.Language])
	if declNode == nil {
		return nil, synerrors.NewNotFoundError("no variable declaration at location", fmt.Sprintf("%s:%d:%d", req.File, req.Line, req.Column), "")
	}

	name, initializer, mutable, err := extractDeclaration(req.Language, declNode, offset, content)
	if err != nil {
		return nil, err
	}
	if mutable {
		return nil, synerrors.NewSafetyRefusalError(
			"variable is mutable",
			"inlining a mutable binding cannot guarantee the inlined expression evaluates to the same value at each use site",
		)
	}
	if hasSideEffect(initializer) {
		return nil, synerrors.NewSafetyRefusalError(
			"initializer may have side effects",
			"the initializer contains a balanced parenthesis pair (a function call)",
		)
	}

	declLine := int(declNode.StartPoint().Row)
	usages := findUsages(tree.RootNode(), name, declLine, content)
	if len(usages) == 0 {
		return nil, synerrors.NewSafetyRefusalError("declared but never used", "consider removing the declaration instead of inlining it")
	}

	sort.Slice(usages, func(i, j int) bool { return usages[i].StartByte() > usages[j].StartByte() })

	replacement := initializer
	if needsParens(initializer) {
		replacement = "(" + initializer + ")"
	}

	lines := strings.Split(string(content), "\n")
	var changes []InlineChange
	buf := string(content)
	for _, u := range usages {
		if u.Content([]byte(buf)) != name {
			continue // stale, AST and buf no longer correspond at this offset
		}
		line := int(u.StartPoint().Row) + 1
		before := lines[u.StartPoint().Row]
		buf = buf[:u.StartByte()] + replacement + buf[u.EndByte():]
		afterLines := strings.Split(buf, "\n")
		after := ""
		if int(u.StartPoint().Row) < len(afterLines) {
			after = afterLines[u.StartPoint().Row]
		}
		changes = append(changes, InlineChange{Path: req.File, Line: line, Before: before, After: after})
	}

	finalLines := strings.Split(buf, "\n")
	if declLine < 0 || declLine >= len(finalLines) {
		return nil, synerrors.NewInternalError("declaration line out of range after inlining", "", nil)
	}
	declText := finalLines[declLine]
	finalLines = append(finalLines[:declLine], finalLines[declLine+1:]...)
	changes = append(changes, InlineChange{Path: req.File, Line: declLine + 1, Before: declText, After: ""})

	newContent := strings.Join(finalLines, "\n")

	tx := modeForInline(req)
	if err := tx.AddOperation(req.File, string(content), newContent); err != nil {
		return nil, err
	}
	if req.Preview {
		return &InlineResult{Changes: changes}, nil
	}
	if _, err := tx.Commit(); err != nil {
		return nil, err
	}
	return &InlineResult{Changes: changes}, nil
}

func byteOffsetAt(content []byte, line, column int) (uint32, error) {
	lines := strings.Split(string(content), "\n")
	if line < 1 || line > len(lines) {
		return 0, synerrors.NewInputError("position out of range", fmt.Sprintf("line %d", line), "")
	}
	var offset uint32
	for i := 0; i < line-1; i++ {
		offset += uint32(len(lines[i])) + 1
	}
	col := column - 1
	if col < 0 || col > len(lines[line-1]) {
		return 0, synerrors.NewInputError("position out of range", fmt.Sprintf("column %d", column), "")
	}
	return offset + uint32(col), nil
}

// smallestEnclosingOfType returns the deepest node of type t whose byte
// range contains offset.
func smallestEnclosingOfType(root *sitter.Node, offset uint32, t string) *sitter.Node {
	var result *sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if offset < n.StartByte() || offset > n.EndByte() {
			return
		}
		if n.Type() == t {
			result = n
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return result
}

func findIdentifierWithin(n *sitter.Node) *sitter.Node {
	if n.Type() == "identifier" {
		return n
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if found := findIdentifierWithin(n.NamedChild(i)); found != nil {
			return found
		}
	}
	return nil
}

// extractDeclaration returns the declared name, the initializer's
// verbatim (trimmed) text, and whether the binding is mutable.
func extractDeclaration(l lang.Language, declNode *sitter.Node, offset uint32, content []byte) (string, string, bool, error) {
	switch l {
	case lang.TypeScript, lang.JavaScript:
		declarator := smallestEnclosingOfType(declNode, offset, "variable_declarator")
		if declarator == nil {
			return "", "", false, synerrors.NewNotFoundError("no declarator at location", "", "")
		}
		nameNode := declarator.ChildByFieldName("name")
		valueNode := declarator.ChildByFieldName("value")
		if nameNode == nil || valueNode == nil {
			return "", "", false, synerrors.NewInputError("no initializer", "cannot inline a declaration without an initializer", "")
		}
		keyword := declNode.Child(0).Content(content)
		mutable := keyword != "const"
		return nameNode.Content(content), strings.TrimSpace(valueNode.Content(content)), mutable, nil

	case lang.Rust:
		valueNode := declNode.ChildByFieldName("value")
		if valueNode == nil {
			return "", "", false, synerrors.NewInputError("no initializer", "cannot inline a declaration without an initializer", "")
		}
		patternNode := declNode.ChildByFieldName("pattern")
		name := ""
		if patternNode != nil {
			name = patternNode.Content(content)
		}
		mutable := false
		for i := 0; i < int(declNode.ChildCount()); i++ {
			if declNode.Child(i).Type() == "mutable_specifier" {
				mutable = true
			}
		}
		return name, strings.TrimSpace(valueNode.Content(content)), mutable, nil

	case lang.Python:
		leftNode := declNode.ChildByFieldName("left")
		rightNode := declNode.ChildByFieldName("right")
		if leftNode == nil || rightNode == nil {
			return "", "", false, synerrors.NewInputError("no initializer", "cannot inline a declaration without an initializer", "")
		}
		return leftNode.Content(content), strings.TrimSpace(rightNode.Content(content)), true, nil

	case lang.C, lang.Cpp:
		initDecl := smallestEnclosingOfType(declNode, offset, "init_declarator")
		if initDecl == nil {
			return "", "", false, synerrors.NewNotFoundError("no declarator at location", "", "")
		}
		valueNode := initDecl.ChildByFieldName("value")
		declaratorNode := initDecl.ChildByFieldName("declarator")
		if valueNode == nil || declaratorNode == nil {
			return "", "", false, synerrors.NewInputError("no initializer", "cannot inline a declaration without an initializer", "")
		}
		nameNode := findIdentifierWithin(declaratorNode)
		name := declaratorNode.Content(content)
		if nameNode != nil {
			name = nameNode.Content(content)
		}
		mutable := !strings.Contains(declNode.Content(content)[:initDecl.StartByte()-declNode.StartByte()], "const")
		return name, strings.TrimSpace(valueNode.Content(content)), mutable, nil

	default:
		return "", "", false, fmt.Errorf("inline-variable not supported for %s", l)
	}
}

// findUsages collects every identifier node matching name whose start
// line is strictly after declLine (0-indexed), in document order.
func findUsages(root *sitter.Node, name string, declLine int, content []byte) []*sitter.Node {
	var usages []*sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "identifier" && int(n.StartPoint().Row) > declLine && n.Content(content) == name {
			usages = append(usages, n)
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return usages
}

// needsParens reports whether init requires wrapping parentheses when
// substituted in place of an identifier: a top-level arithmetic,
// logical, comparison operator, or an embedded newline.
func needsParens(init string) bool {
	if strings.Contains(init, "\n") {
		return true
	}
	ops := []string{"&&", "||", "==", "!=", "<=", ">=", "+", "-", "*", "/", "%", "<", ">"}
	depth := 0
	for i := 0; i < len(init); i++ {
		switch init[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		default:
			if depth == 0 {
				for _, op := range ops {
					if strings.HasPrefix(init[i:], op) {
						return true
					}
				}
			}
		}
	}
	return false
}

// hasSideEffect applies the conservative "balanced parenthesis pair"
// heuristic for detecting a function call in the initializer.
func hasSideEffect(init string) bool {
	depth := 0
	for _, r := range init {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				return true
			}
		}
	}
	return false
}
