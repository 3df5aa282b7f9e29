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
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/kraklabs/synthia/pkg/location"
)

func tsjsGrammar(path string) *sitter.Language {
	if strings.HasSuffix(path, ".ts") || strings.HasSuffix(path, ".tsx") {
		return typescript.GetLanguage()
	}
	return javascript.GetLanguage()
}

func parseTSJS(path string) (*sitter.Node, []byte, *sitter.Tree, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	parser := sitter.NewParser()
	parser.SetLanguage(tsjsGrammar(path))
	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	return tree.RootNode(), content, tree, nil
}

func findTSJS(path string) ([]Statement, error) {
	root, content, tree, err := parseTSJS(path)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var stmts []Statement
	walkTopLevel(root, func(n *sitter.Node) {
		if n.Type() != "import_statement" {
			return
		}
		stmts = append(stmts, importStatementFromNode(path, n, content))
	})
	stmts = append(stmts, findRequireCalls(path, content)...)
	return stmts, nil
}

// findRequireCalls scans for CommonJS require(...) calls, which
// tree-sitter's import_statement node never captures since require is
// an ordinary call expression rather than dedicated import syntax.
func findRequireCalls(path string, content []byte) []Statement {
	var stmts []Statement
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		m := requireRE.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		stmts = append(stmts, Statement{
			Source:   line[m[2]:m[3]],
			Kind:     KindRequire,
			Raw:      strings.TrimSpace(line),
			Location: lineLocation(path, i+1),
		})
	}
	return stmts
}

func walkTopLevel(root *sitter.Node, fn func(*sitter.Node)) {
	for i := 0; i < int(root.ChildCount()); i++ {
		fn(root.Child(i))
	}
}

func importStatementFromNode(path string, n *sitter.Node, content []byte) Statement {
	s := Statement{
		Location: nodeLocation(path, n),
		Raw:      n.Content(content),
	}

	if sourceNode := findChildOfType(n, "string"); sourceNode != nil {
		s.Source = unquote(sourceNode.Content(content))
	}

	clause := findChildOfType(n, "import_clause")
	if clause == nil {
		s.Kind = KindSideEffect
		return s
	}

	for i := 0; i < int(clause.ChildCount()); i++ {
		c := clause.Child(i)
		switch c.Type() {
		case "identifier":
			s.Kind = KindDefault
			s.Symbols = append(s.Symbols, Symbol{Name: c.Content(content)})
		case "namespace_import":
			s.Kind = KindNamespace
			if id := lastNamedChild(c); id != nil {
				s.Symbols = append(s.Symbols, Symbol{Name: id.Content(content)})
			}
		case "named_imports":
			s.Kind = KindNamed
			for j := 0; j < int(c.NamedChildCount()); j++ {
				spec := c.NamedChild(j)
				if spec.Type() != "import_specifier" {
					continue
				}
				s.Symbols = append(s.Symbols, importSpecifier(spec, content))
			}
		}
	}
	return s
}

func importSpecifier(spec *sitter.Node, content []byte) Symbol {
	names := namedChildren(spec)
	if len(names) == 2 {
		return Symbol{Name: names[0].Content(content), Alias: names[1].Content(content)}
	}
	if len(names) == 1 {
		return Symbol{Name: names[0].Content(content)}
	}
	return Symbol{Name: spec.Content(content)}
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

func lastNamedChild(n *sitter.Node) *sitter.Node {
	if n.NamedChildCount() == 0 {
		return nil
	}
	return n.NamedChild(int(n.NamedChildCount()) - 1)
}

func findChildOfType(n *sitter.Node, t string) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.Type() == t {
			return c
		}
	}
	return nil
}

func nodeLocation(path string, n *sitter.Node) location.Location {
	start, end := n.StartPoint(), n.EndPoint()
	return location.Location{
		Path:      path,
		StartLine: int(start.Row) + 1,
		StartCol:  int(start.Column) + 1,
		EndLine:   int(end.Row) + 1,
		EndCol:    int(end.Column) + 1,
	}
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"' || s[0] == '`') {
		return s[1 : len(s)-1]
	}
	return s
}

var requireRE = regexp.MustCompile(`require\(\s*['"\x60]([^'"\x60]+)['"\x60]\s*\)`)

func addTSJS(path, source string, symbols []Symbol, kind Kind, tx TransactionStager) error {
	stmts, err := findTSJS(path)
	if err != nil {
		return err
	}
	return insertAfterLastImport(path, stmts, renderTSJSImport(source, symbols, kind), tx)
}

func renderTSJSImport(source string, symbols []Symbol, kind Kind) string {
	if kind == KindSideEffect || len(symbols) == 0 {
		return fmt.Sprintf("import %q;", source)
	}
	if kind == KindDefault {
		return fmt.Sprintf("import %s from %q;", symbolText(symbols[0]), source)
	}
	if kind == KindNamespace {
		return fmt.Sprintf("import * as %s from %q;", symbols[0].Name, source)
	}
	parts := make([]string, len(symbols))
	for i, s := range symbols {
		parts[i] = symbolText(s)
	}
	return fmt.Sprintf("import { %s } from %q;", strings.Join(parts, ", "), source)
}

func symbolText(s Symbol) string {
	if s.Alias != "" {
		return fmt.Sprintf("%s as %s", s.Name, s.Alias)
	}
	return s.Name
}

func rewritePathTSJS(path, oldSource, newSource string, tx TransactionStager) error {
	re := regexp.MustCompile(`from\s+['"\x60]([^'"\x60]+)['"\x60]|^import\s+['"\x60]([^'"\x60]+)['"\x60]`)
	return rewriteSourceInLinesMulti(path, oldSource, newSource, re, tx)
}

// rewriteSourceInLinesMulti handles regexes with more than one capture
// group (alternation), using whichever group matched.
func rewriteSourceInLinesMulti(path, oldSource, newSource string, re *regexp.Regexp, tx TransactionStager) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	lines := strings.Split(string(raw), "\n")
	changed := false

	for i, line := range lines {
		loc := re.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		var start, end int
		for g := 1; g*2+1 < len(loc); g++ {
			if loc[g*2] >= 0 {
				start, end = loc[g*2], loc[g*2+1]
				break
			}
		}
		if start == 0 && end == 0 {
			continue
		}
		if line[start:end] != oldSource {
			continue
		}
		lines[i] = line[:start] + newSource + line[end:]
		changed = true
	}
	if !changed {
		return nil
	}
	return tx.AddOperation(path, string(raw), strings.Join(lines, "\n"))
}

func renameTSJS(path, oldName, newName string, tx TransactionStager) error {
	stmts, err := findTSJS(path)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	content := string(raw)
	changed := false
	for _, s := range stmts {
		for _, sym := range s.Symbols {
			if sym.Name != oldName {
				continue
			}
			boundary := regexp.MustCompile(`\b` + regexp.QuoteMeta(oldName) + `\b`)
			if loc := boundary.FindStringIndex(s.Raw); loc != nil {
				content = strings.Replace(content, s.Raw, boundary.ReplaceAllString(s.Raw, newName), 1)
				changed = true
			}
		}
	}
	if !changed {
		return nil
	}
	return tx.AddOperation(path, string(raw), content)
}
