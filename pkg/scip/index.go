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

package scip

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	synerrors "github.com/kraklabs/synthia/internal/errors"
	"github.com/kraklabs/synthia/pkg/location"
)

// legacyIndexName is the fallback index file consulted when no
// per-language index.<lang>.scip is present.
const legacyIndexName = "index.scip"

// IndexSet holds every decoded per-language index for a project,
// keyed by the index file's base name, plus a lookup from
// project-relative document path to (which index it lives in, and its
// position within that index's Documents slice).
type IndexSet struct {
	root    string
	indexes []*Index
	byPath  map[string]docRef
}

type docRef struct {
	indexIdx int
	docIdx   int
}

// FromProject loads every index.<lang>.scip file found directly under
// root, falling back to the legacy index.scip name if none match that
// pattern. Fails with ExitIndexMissing if none exist, or
// ExitIndexCorrupt if a found file fails to decode.
func FromProject(root string) (*IndexSet, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, synerrors.NewBackendError(
			"cannot read project root",
			err.Error(),
			"Check that the project root exists and is readable.",
			err,
		)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if name == legacyIndexName || isPerLanguageIndex(name) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, synerrors.NewIndexMissingError(
			"no semantic index found",
			fmt.Sprintf("no index.<lang>.scip or %s under %s", legacyIndexName, root),
		)
	}

	set := &IndexSet{root: root, byPath: make(map[string]docRef)}
	for _, name := range names {
		path := filepath.Join(root, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, synerrors.NewBackendError("cannot read index file", err.Error(), "", err)
		}
		idx, err := Decode(data)
		if err != nil {
			return nil, synerrors.NewIndexCorruptError(
				fmt.Sprintf("index file %s is corrupt", name),
				err.Error(),
				err,
			)
		}
		indexIdx := len(set.indexes)
		set.indexes = append(set.indexes, idx)
		for docIdx, doc := range idx.Documents {
			set.byPath[doc.RelativePath] = docRef{indexIdx: indexIdx, docIdx: docIdx}
		}
	}
	return set, nil
}

// isPerLanguageIndex reports whether name matches index.<lang>.scip,
// e.g. index.go.scip or index.rust.scip.
func isPerLanguageIndex(name string) bool {
	if !strings.HasPrefix(name, "index.") || !strings.HasSuffix(name, ".scip") {
		return false
	}
	lang := strings.TrimSuffix(strings.TrimPrefix(name, "index."), ".scip")
	return lang != ""
}

// relativize converts an absolute or root-relative file path to the
// project-relative form used as Document.RelativePath.
func (s *IndexSet) relativize(file string) string {
	if filepath.IsAbs(file) {
		if rel, err := filepath.Rel(s.root, file); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(file)
}

// SymbolAt implements the first four steps of find_definition's
// algorithm: translate file to a project-relative path, locate its
// document, find the smallest occurrence enclosing (line, column), and
// return its symbol string.
func (s *IndexSet) SymbolAt(file string, line, column int) (string, error) {
	rel := s.relativize(file)
	ref, ok := s.byPath[rel]
	if !ok {
		return "", synerrors.NewNotFoundError(
			"document not found in semantic index",
			fmt.Sprintf("%s is not present in any loaded index", rel),
			"Re-run `synthia index` if this file was added recently.",
		)
	}
	doc := s.indexes[ref.indexIdx].Documents[ref.docIdx]

	target := [2]int32{int32(line - 1), int32(column - 1)}
	occ, ok := smallestEnclosing(doc.Occurrences, target)
	if !ok {
		return "", synerrors.NewNotFoundError(
			"no symbol at position",
			fmt.Sprintf("%s:%d:%d does not fall within any indexed occurrence", rel, line, column),
			"",
		)
	}
	return occ.Symbol, nil
}

// FindDefinition implements the five-step find_definition algorithm:
// locate the occurrence enclosing (line, column), read its
// symbol, then scan every document for the first occurrence of that
// symbol with the definition role bit set.
func (s *IndexSet) FindDefinition(file string, line, column int) (*location.Location, error) {
	symbol, err := s.SymbolAt(file, line, column)
	if err != nil {
		return nil, err
	}

	for _, idx := range s.indexes {
		for _, d := range idx.Documents {
			for _, o := range d.Occurrences {
				if o.Symbol == symbol && o.IsDefinition() {
					loc := occurrenceLocation(d.RelativePath, o)
					return &loc, nil
				}
			}
		}
	}
	return nil, synerrors.NewNotFoundError(
		"definition not found",
		fmt.Sprintf("no occurrence of symbol %q has the definition role set", symbol),
		"",
	)
}

// smallestEnclosing returns the occurrence whose 0-indexed range
// contains point, preferring the smallest such range when more than
// one encloses it (e.g. a call expression nested in a statement).
func smallestEnclosing(occs []Occurrence, point [2]int32) (Occurrence, bool) {
	var (
		best    Occurrence
		haveAny bool
		bestLen int64 = -1
	)
	for _, o := range occs {
		if !rangeContains(o.Range, point) {
			continue
		}
		length := rangeSpan(o.Range)
		if !haveAny || length < bestLen {
			best = o
			bestLen = length
			haveAny = true
		}
	}
	return best, haveAny
}

func rangeContains(r [4]int32, p [2]int32) bool {
	start := [2]int32{r[0], r[1]}
	end := [2]int32{r[2], r[3]}
	if lessPoint(p, start) {
		return false
	}
	if lessPoint(end, p) {
		return false
	}
	return true
}

func lessPoint(a, b [2]int32) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	return a[1] < b[1]
}

// rangeSpan is a coarse ordering measure over ranges used only to pick
// the smallest enclosing one; exact byte length isn't available from
// row/column pairs alone, so this approximates with a weighted
// row/column distance that is monotonic in nesting depth for the
// well-formed (non-overlapping-except-by-nesting) ranges indexers emit.
func rangeSpan(r [4]int32) int64 {
	const colWeight = 1
	const rowWeight = 1 << 20
	rows := int64(r[2]-r[0]) * rowWeight
	cols := int64(r[3] - r[1])
	if r[2] != r[0] {
		cols = int64(r[3]) * colWeight
	}
	return rows + cols
}

func occurrenceLocation(relPath string, o Occurrence) location.Location {
	return location.Location{
		Path:      relPath,
		StartLine: int(o.Range[0]) + 1,
		StartCol:  int(o.Range[1]) + 1,
		EndLine:   int(o.Range[2]) + 1,
		EndCol:    int(o.Range[3]) + 1,
	}
}

// FindReferences scans every occurrence in every document, matching
// the query against either the symbol's short name (last
// whitespace-separated token, backticks stripped) or the full symbol
// string.
func (s *IndexSet) FindReferences(query string, includeDeclarations bool) ([]location.Reference, error) {
	var refs []location.Reference
	for _, idx := range s.indexes {
		for _, doc := range idx.Documents {
			for _, occ := range doc.Occurrences {
				if !symbolMatches(occ.Symbol, query) {
					continue
				}
				if !includeDeclarations && occ.IsDefinition() {
					continue
				}
				kind := location.RefGeneric
				if occ.IsDefinition() {
					kind = location.RefDefinition
				}
				refs = append(refs, location.Reference{
					Location: occurrenceLocation(doc.RelativePath, occ),
					Kind:     kind,
				})
			}
		}
	}
	return refs, nil
}

// FindReferencesBySymbol scans every occurrence for an exact symbol
// string match. Used by position-based find_references, which
// first resolves the exact symbol at a cursor via SymbolAt and must not
// fall back to FindReferences' looser substring matching — a precise
// position should never pull in unrelated symbols that merely share a
// substring.
func (s *IndexSet) FindReferencesBySymbol(symbol string, includeDeclarations bool) []location.Reference {
	var refs []location.Reference
	for _, idx := range s.indexes {
		for _, doc := range idx.Documents {
			for _, occ := range doc.Occurrences {
				if occ.Symbol != symbol {
					continue
				}
				if !includeDeclarations && occ.IsDefinition() {
					continue
				}
				kind := location.RefGeneric
				if occ.IsDefinition() {
					kind = location.RefDefinition
				}
				refs = append(refs, location.Reference{
					Location: occurrenceLocation(doc.RelativePath, occ),
					Kind:     kind,
				})
			}
		}
	}
	return refs
}

// SCIP symbol kinds synthia distinguishes when listing functions and
// classes. Values follow the upstream scip.proto SymbolInformation.Kind
// enum; synthia only needs this small subset.
const (
	KindClass    int32 = 7
	KindStruct   int32 = 49
	KindFunction int32 = 17
	KindMethod   int32 = 26
)

// Symbol is one definition-site symbol surfaced by Symbols.
type Symbol struct {
	Symbol   string
	Name     string
	Kind     int32
	Location location.Location
}

// Symbols returns every symbol definition across the index set whose
// kind is in kinds. An empty kinds list matches every kind.
func (s *IndexSet) Symbols(kinds ...int32) []Symbol {
	want := make(map[int32]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}

	var out []Symbol
	for _, idx := range s.indexes {
		for _, doc := range idx.Documents {
			for _, si := range doc.SymbolInformations {
				if len(want) > 0 && !want[si.Kind] {
					continue
				}
				loc, ok := definitionLocation(doc, si.Symbol)
				if !ok {
					continue
				}
				out = append(out, Symbol{
					Symbol:   si.Symbol,
					Name:     shortName(si.Symbol),
					Kind:     si.Kind,
					Location: loc,
				})
			}
		}
	}
	return out
}

func definitionLocation(doc Document, symbol string) (location.Location, bool) {
	for _, occ := range doc.Occurrences {
		if occ.Symbol == symbol && occ.IsDefinition() {
			return occurrenceLocation(doc.RelativePath, occ), true
		}
	}
	return location.Location{}, false
}

// Stats summarizes the size of a loaded index set.
type Stats struct {
	Documents   int
	Symbols     int
	Occurrences int
}

// Stats reports document, symbol, and occurrence counts across every
// loaded index.
func (s *IndexSet) Stats() Stats {
	var st Stats
	for _, idx := range s.indexes {
		st.Documents += len(idx.Documents)
		for _, doc := range idx.Documents {
			st.Symbols += len(doc.SymbolInformations)
			st.Occurrences += len(doc.Occurrences)
		}
	}
	return st
}

// symbolMatches implements the short-name-or-full-symbol substring/
// equality match.
func symbolMatches(symbol, query string) bool {
	short := shortName(symbol)
	if short == query || strings.Contains(short, query) {
		return true
	}
	return strings.Contains(symbol, query)
}

// shortName extracts the last whitespace-separated token of a SCIP
// symbol string and trims backticks from its two ends; backticks
// inside the token are kept, e.g.
// "scip-go go gopls mypkg `MyType`#Method()." -> "MyType`#Method()."
func shortName(symbol string) string {
	fields := strings.Fields(symbol)
	if len(fields) == 0 {
		return symbol
	}
	last := fields[len(fields)-1]
	return strings.Trim(last, "`")
}
