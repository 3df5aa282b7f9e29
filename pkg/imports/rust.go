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
	"github.com/smacker/go-tree-sitter/rust"
)

// findRust locates use_declaration spans with Tree-sitter (so nested
// groups spanning multiple lines are found correctly) and parses each
// span's text directly rather than walking its syntax tree further —
// string-based handling within the statement's line span is acceptable
// for Rust.
func findRust(path string) ([]Statement, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	parser := sitter.NewParser()
	parser.SetLanguage(rust.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	defer tree.Close()

	var stmts []Statement
	walkTopLevel(tree.RootNode(), func(n *sitter.Node) {
		if n.Type() != "use_declaration" {
			return
		}
		raw := n.Content(content)
		body := strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "use")), ";")
		body = strings.TrimSpace(body)

		source := body
		if idx := strings.IndexAny(body, "{*"); idx >= 0 {
			source = strings.TrimSuffix(body[:idx], "::")
		}

		stmts = append(stmts, Statement{
			Source:   source,
			Symbols:  expandUse(body),
			Kind:     KindUse,
			Raw:      raw,
			Location: nodeLocation(path, n),
		})
	})
	return stmts, nil
}

// expandUse recursively flattens a use-declaration body (the text
// between "use " and the trailing ";") into symbols, resolving nested
// `{...}` groups, `as` renames, and glob (`*`) imports.
func expandUse(body string) []Symbol {
	parts := splitTopLevel(body, ',')
	var out []Symbol
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if idx := strings.LastIndex(part, "::{"); idx >= 0 && strings.HasSuffix(part, "}") {
			prefix := part[:idx]
			inner := part[idx+3 : len(part)-1]
			for _, sym := range expandUse(inner) {
				name := sym.Name
				if prefix != "" && name != "" {
					name = prefix + "::" + name
				}
				out = append(out, Symbol{Name: name, Alias: sym.Alias})
			}
			continue
		}
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			out = append(out, expandUse(part[1:len(part)-1])...)
			continue
		}
		if asIdx := strings.Index(part, " as "); asIdx >= 0 {
			full := strings.TrimSpace(part[:asIdx])
			alias := strings.TrimSpace(part[asIdx+4:])
			out = append(out, Symbol{Name: full, Alias: alias})
			continue
		}
		out = append(out, Symbol{Name: part})
	}
	return out
}

// splitTopLevel splits s on sep, ignoring occurrences nested inside
// {}/()/[] groups.
func splitTopLevel(s string, sep byte) []string {
	var out []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		default:
			if s[i] == sep && depth == 0 {
				out = append(out, s[last:i])
				last = i + 1
			}
		}
	}
	out = append(out, s[last:])
	return out
}

func addRust(path, source string, symbols []Symbol, tx TransactionStager) error {
	stmts, err := findRust(path)
	if err != nil {
		return err
	}
	return insertAfterLastImport(path, stmts, renderRustUse(source, symbols), tx)
}

func renderRustUse(source string, symbols []Symbol) string {
	if len(symbols) == 0 {
		return fmt.Sprintf("use %s;", source)
	}
	parts := make([]string, len(symbols))
	for i, s := range symbols {
		if s.Alias != "" {
			parts[i] = fmt.Sprintf("%s as %s", s.Name, s.Alias)
		} else {
			parts[i] = s.Name
		}
	}
	if len(parts) == 1 {
		return fmt.Sprintf("use %s::%s;", source, parts[0])
	}
	return fmt.Sprintf("use %s::{%s};", source, strings.Join(parts, ", "))
}

func rewritePathRust(path, oldSource, newSource string, tx TransactionStager) error {
	re := regexp.MustCompile(`^\s*use\s+([A-Za-z0-9_:]+)`)
	return rewriteSourceInLinesMulti(path, oldSource, newSource, re, tx)
}

func renameRust(path, oldName, newName string, tx TransactionStager) error {
	stmts, err := findRust(path)
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
		if !statementHasSymbol(s, oldName) {
			continue
		}
		boundary := regexp.MustCompile(`\b` + regexp.QuoteMeta(oldName) + `\b`)
		replaced := boundary.ReplaceAllString(s.Raw, newName)
		if replaced == s.Raw {
			// Inside a nested group only the last path segment is spelled out.
			leafOf := func(p string) string {
				if i := strings.LastIndex(p, "::"); i >= 0 {
					return p[i+2:]
				}
				return p
			}
			leaf := regexp.MustCompile(`\b` + regexp.QuoteMeta(leafOf(oldName)) + `\b`)
			replaced = leaf.ReplaceAllString(s.Raw, leafOf(newName))
		}
		if replaced != s.Raw {
			content = strings.Replace(content, s.Raw, replaced, 1)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return tx.AddOperation(path, string(raw), content)
}
