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

package analyzer

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/synthia/pkg/lang"
	"github.com/kraklabs/synthia/pkg/location"
)

// SearchPattern runs a language-specific capture query against path and
// emits one SearchResult per captured node, up to maxResults (0 means
// unlimited).
func (a *Analyzer) SearchPattern(ctx context.Context, path, query string, maxResults int) ([]location.SearchResult, error) {
	af, err := a.AnalyzeFile(ctx, path)
	if err != nil {
		return nil, err
	}
	defer af.Close()

	grammar := grammars[af.Language]
	var results []location.SearchResult
	err = capture(query, grammar, af.Tree.RootNode(), af.Content, func(name string, node *sitter.Node) {
		if maxResults > 0 && len(results) >= maxResults {
			return
		}
		start := int(node.StartPoint().Row)
		results = append(results, location.SearchResult{
			Location:      toLocation(path, node),
			MatchedText:   nodeText(node, af.Content),
			ContextBefore: lineAt(af.Content, start-1),
			ContextAfter:  lineAt(af.Content, int(node.EndPoint().Row)+1),
			Language:      af.Language.String(),
			NodeKind:      node.Type(),
		})
	})
	if err != nil {
		return nil, err
	}
	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

// FunctionInfo is one function/method found by FindFunctions.
type FunctionInfo struct {
	Name       string
	Location   location.Location
	IsPublic   bool
	Parameters []string
	ReturnType string
}

// FindFunctions runs the per-language function query and
// returns each match with a public-visibility heuristic.
func (a *Analyzer) FindFunctions(ctx context.Context, path string) ([]FunctionInfo, error) {
	af, err := a.AnalyzeFile(ctx, path)
	if err != nil {
		return nil, err
	}
	defer af.Close()

	query, ok := functionQueries[af.Language]
	if !ok {
		return nil, nil
	}
	grammar := grammars[af.Language]

	var (
		infos   []FunctionInfo
		current *FunctionInfo
	)
	flush := func() {
		if current != nil {
			infos = append(infos, *current)
			current = nil
		}
	}
	err = capture(query, grammar, af.Tree.RootNode(), af.Content, func(capName string, node *sitter.Node) {
		switch capName {
		case "func", "arrow":
			flush()
			fi := FunctionInfo{
				Location:   toLocation(path, node),
				IsPublic:   isPublic(af.Language, node, af.Content),
				Parameters: extractParameters(node, af.Content),
				ReturnType: extractReturnType(af.Language, node, af.Content),
			}
			current = &fi
		case "name":
			if current != nil {
				current.Name = nodeText(node, af.Content)
			}
		}
	})
	flush()
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 && query != "" {
		return infos, nil
	}
	return infos, nil
}

// FindClasses runs the per-language class/struct/interface query.
// include_nested=false filters symbols whose parent node is itself one
// of that language's container kinds.
func (a *Analyzer) FindClasses(ctx context.Context, path string, includeNested bool) ([]location.Symbol, error) {
	af, err := a.AnalyzeFile(ctx, path)
	if err != nil {
		return nil, err
	}
	defer af.Close()

	query, ok := classQueries[af.Language]
	if !ok {
		return nil, nil
	}
	grammar := grammars[af.Language]
	containerKinds := classContainerKinds[af.Language]

	var (
		symbols []location.Symbol
		current *location.Symbol
		node    *sitter.Node
	)
	flush := func() {
		if current == nil {
			return
		}
		if !includeNested && node != nil && hasContainerAncestor(node, containerKinds) {
			current = nil
			node = nil
			return
		}
		symbols = append(symbols, *current)
		current = nil
		node = nil
	}
	err = capture(query, grammar, af.Tree.RootNode(), af.Content, func(capName string, n *sitter.Node) {
		switch capName {
		case "class":
			flush()
			sym := location.Symbol{
				Location: toLocation(path, n),
				Kind:     symbolKindFor(af.Language, n.Type()),
			}
			current = &sym
			node = n
		case "name":
			if current != nil {
				current.Name = nodeText(n, af.Content)
			}
		}
	})
	flush()
	if err != nil {
		return nil, err
	}
	return symbols, nil
}

func hasContainerAncestor(node *sitter.Node, kinds map[string]bool) bool {
	if kinds == nil {
		return false
	}
	parent := node.Parent()
	for parent != nil {
		if kinds[parent.Type()] {
			return true
		}
		parent = parent.Parent()
	}
	return false
}

func symbolKindFor(l lang.Language, nodeType string) location.SymbolKind {
	switch nodeType {
	case "struct_item", "struct_specifier", "struct_declaration":
		return location.KindStruct
	case "enum_item":
		return location.KindEnum
	case "trait_item", "interface_declaration":
		return location.KindInterface
	case "type_declaration":
		return location.KindStruct
	default:
		return location.KindClass
	}
}

// isPublic applies the per-language visibility heuristic: Rust checks
// for a visibility_modifier child; Python checks for a leading
// underscore; all other languages default to public.
func isPublic(l lang.Language, node *sitter.Node, content []byte) bool {
	switch l {
	case lang.Rust:
		for i := 0; i < int(node.ChildCount()); i++ {
			if node.Child(i).Type() == "visibility_modifier" {
				return true
			}
		}
		return false
	case lang.Python:
		nameNode := node.ChildByFieldName("name")
		if nameNode == nil {
			return true
		}
		text := nodeText(nameNode, content)
		return len(text) == 0 || text[0] != '_'
	default:
		return true
	}
}

// extractParameters returns the raw parameter text fragments for a
// function/method node, split on top-level commas.
func extractParameters(node *sitter.Node, content []byte) []string {
	params := node.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}
	var out []string
	for i := 0; i < int(params.ChildCount()); i++ {
		child := params.Child(i)
		t := child.Type()
		if t == "(" || t == ")" || t == "," {
			continue
		}
		out = append(out, nodeText(child, content))
	}
	return out
}

// extractReturnType returns the raw return-type text, where the
// language's grammar exposes one as a named field.
func extractReturnType(l lang.Language, node *sitter.Node, content []byte) string {
	var field *sitter.Node
	switch l {
	case lang.Go, lang.Rust:
		field = node.ChildByFieldName("result")
		if field == nil {
			field = node.ChildByFieldName("return_type")
		}
	case lang.TypeScript, lang.Java:
		field = node.ChildByFieldName("return_type")
	}
	if field == nil {
		return ""
	}
	return nodeText(field, content)
}
