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
	"github.com/smacker/go-tree-sitter/c"
)

// findC walks preproc_include nodes with Tree-sitter, distinguishing
// system form (<...>) from local form ("...") by the child node type.
func findC(path string) ([]Statement, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	parser := sitter.NewParser()
	parser.SetLanguage(c.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	defer tree.Close()

	var stmts []Statement
	walkTopLevel(tree.RootNode(), func(n *sitter.Node) {
		if n.Type() != "preproc_include" {
			return
		}
		var source string
		system := false
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			switch child.Type() {
			case "system_lib_string":
				source = strings.Trim(child.Content(content), "<>")
				system = true
			case "string_literal":
				source = strings.Trim(child.Content(content), `"`)
			}
		}
		if source == "" {
			return
		}
		stmts = append(stmts, Statement{
			Source:   source,
			Kind:     KindInclude,
			Raw:      n.Content(content),
			Location: nodeLocation(path, n),
			Symbols:  []Symbol{{Name: boolToForm(system)}},
		})
	})
	return stmts, nil
}

func boolToForm(system bool) string {
	if system {
		return "<system>"
	}
	return "\"local\""
}

func addC(path, source string, kind Kind, tx TransactionStager) error {
	stmts, err := findC(path)
	if err != nil {
		return err
	}
	line := fmt.Sprintf("#include \"%s\"", source)
	if kind == KindSystem() {
		line = fmt.Sprintf("#include <%s>", source)
	}
	return insertAfterLastImport(path, stmts, line, tx)
}

// KindSystem is a sentinel Kind value callers of Add pass to request
// the system (<...>) #include form instead of the local ("...") one.
func KindSystem() Kind { return "system_include" }

func rewritePathC(path, oldSource, newSource string, tx TransactionStager) error {
	re := regexp.MustCompile(`#include\s*[<"]([^">]+)[>"]`)
	return rewriteSourceInLines(path, oldSource, newSource, re, tx)
}
