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
	"strings"

	"github.com/kraklabs/synthia/pkg/location"
)

var (
	pyImportRE = regexp.MustCompile(`^(\s*)import\s+(.+?)\s*$`)
	pyFromRE   = regexp.MustCompile(`^(\s*)from\s+(\S+)\s+import\s+(.+?)\s*$`)
)

// findPython scans line-by-line rather than walking a parse tree:
// simple and from-import statements are single-line in the overwhelming
// common case, and the statement's line span is all Find needs to
// report — string-based handling is explicitly acceptable for Python.
func findPython(path string) ([]Statement, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	lines := strings.Split(string(raw), "\n")

	var stmts []Statement
	for i, line := range lines {
		trimmed := strings.TrimRight(line, "\r")
		if m := pyFromRE.FindStringSubmatch(trimmed); m != nil {
			source := m[2]
			rest := strings.Trim(m[3], "()")
			kind := KindFrom
			var symbols []Symbol
			if strings.TrimSpace(rest) == "*" {
				kind = KindWildcard
				symbols = []Symbol{{Name: "*"}}
			} else {
				symbols = parsePySymbols(rest)
			}
			stmts = append(stmts, Statement{
				Source: source, Symbols: symbols, Kind: kind, Raw: trimmed,
				Location: lineLocation(path, i+1),
			})
			continue
		}
		if m := pyImportRE.FindStringSubmatch(trimmed); m != nil {
			names := strings.Split(m[2], ",")
			var symbols []Symbol
			var source string
			for j, n := range names {
				sym := parsePySymbol(strings.TrimSpace(n))
				if j == 0 {
					source = sym.Name
				}
				symbols = append(symbols, sym)
			}
			stmts = append(stmts, Statement{
				Source: source, Symbols: symbols, Kind: KindSimple, Raw: trimmed,
				Location: lineLocation(path, i+1),
			})
		}
	}
	return stmts, nil
}

func parsePySymbols(rest string) []Symbol {
	parts := strings.Split(rest, ",")
	out := make([]Symbol, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, parsePySymbol(p))
	}
	return out
}

func parsePySymbol(s string) Symbol {
	fields := strings.Fields(s)
	if len(fields) == 3 && fields[1] == "as" {
		return Symbol{Name: fields[0], Alias: fields[2]}
	}
	return Symbol{Name: s}
}

func lineLocation(path string, line int) location.Location {
	return location.Location{Path: path, StartLine: line, StartCol: 1, EndLine: line, EndCol: 1}
}

func addPython(path, source string, symbols []Symbol, kind Kind, tx TransactionStager) error {
	stmts, err := findPython(path)
	if err != nil {
		return err
	}
	return insertAfterLastImport(path, stmts, renderPythonImport(source, symbols, kind), tx)
}

func renderPythonImport(source string, symbols []Symbol, kind Kind) string {
	if kind == KindSimple || len(symbols) == 0 {
		return fmt.Sprintf("import %s", source)
	}
	if kind == KindWildcard {
		return fmt.Sprintf("from %s import *", source)
	}
	parts := make([]string, len(symbols))
	for i, s := range symbols {
		if s.Alias != "" {
			parts[i] = fmt.Sprintf("%s as %s", s.Name, s.Alias)
		} else {
			parts[i] = s.Name
		}
	}
	return fmt.Sprintf("from %s import %s", source, strings.Join(parts, ", "))
}

func rewritePathPython(path, oldSource, newSource string, tx TransactionStager) error {
	re := regexp.MustCompile(`^\s*from\s+(\S+)\s+import\s|^\s*import\s+(\S+)`)
	return rewriteSourceInLinesMulti(path, oldSource, newSource, re, tx)
}

func renamePython(path, oldName, newName string, tx TransactionStager) error {
	stmts, err := findPython(path)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	lines := strings.Split(string(raw), "\n")
	changed := false
	boundary := func(name string) *regexp.Regexp { return regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`) }

	for _, s := range stmts {
		if !statementHasSymbol(s, oldName) {
			continue
		}
		idx := s.Location.StartLine - 1
		if idx < 0 || idx >= len(lines) {
			continue
		}
		lines[idx] = boundary(oldName).ReplaceAllString(lines[idx], newName)
		changed = true
	}
	if !changed {
		return nil
	}
	return tx.AddOperation(path, string(raw), strings.Join(lines, "\n"))
}
