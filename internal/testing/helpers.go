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

package testing

import (
	"os"
	"path/filepath"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/kraklabs/synthia/pkg/scip"
)

// Wire field numbers for the subset of the SCIP protobuf schema these
// fixtures encode. Mirrors pkg/scip/wire.go's own unexported
// constants — duplicated here rather than exported from that package
// since nothing outside tests needs to construct index bytes.
const (
	fieldIndexDocuments = 3

	fieldDocRelativePath       = 2
	fieldDocOccurrences        = 3
	fieldDocSymbolInformations = 4

	fieldOccRange       = 1
	fieldOccSymbol      = 2
	fieldOccSymbolRoles = 3

	fieldSymInfoSymbol        = 1
	fieldSymInfoDocumentation = 3
)

// FixtureOccurrence is one occurrence to encode into a fixture
// document: an (start_line, start_col, end_line, end_col) range
// referencing Symbol, marked as a definition or not.
type FixtureOccurrence struct {
	Range      [4]int32
	Symbol     string
	Definition bool
}

// FixtureSymbol is one symbol_information entry: a symbol plus its
// documentation string.
type FixtureSymbol struct {
	Symbol        string
	Documentation string
}

// FixtureDoc is one document's worth of fixture data: its relative
// path, occurrences, and symbol informations.
type FixtureDoc struct {
	Path        string
	Occurrences []FixtureOccurrence
	Symbols     []FixtureSymbol
}

// EncodeFixtureIndex hand-assembles a minimal SCIP-shaped protobuf
// message from docs, suitable for writing to an index.<lang>.scip
// file and reading back with scip.FromProject or scip.Decode.
func EncodeFixtureIndex(docs ...FixtureDoc) []byte {
	var idx []byte
	for _, d := range docs {
		idx = protowire.AppendTag(idx, fieldIndexDocuments, protowire.BytesType)
		idx = protowire.AppendBytes(idx, encodeFixtureDoc(d))
	}
	return idx
}

func encodeFixtureDoc(d FixtureDoc) []byte {
	var doc []byte
	doc = protowire.AppendTag(doc, fieldDocRelativePath, protowire.BytesType)
	doc = protowire.AppendString(doc, d.Path)

	for _, occ := range d.Occurrences {
		doc = protowire.AppendTag(doc, fieldDocOccurrences, protowire.BytesType)
		doc = protowire.AppendBytes(doc, encodeFixtureOccurrence(occ))
	}

	for _, sym := range d.Symbols {
		doc = protowire.AppendTag(doc, fieldDocSymbolInformations, protowire.BytesType)
		doc = protowire.AppendBytes(doc, encodeFixtureSymbol(sym))
	}

	return doc
}

func encodeFixtureOccurrence(occ FixtureOccurrence) []byte {
	var rangeBuf []byte
	for _, r := range occ.Range {
		rangeBuf = protowire.AppendVarint(rangeBuf, uint64(r))
	}

	var roles int32
	if occ.Definition {
		roles = scip.RoleDefinition
	}

	var b []byte
	b = protowire.AppendTag(b, fieldOccRange, protowire.BytesType)
	b = protowire.AppendBytes(b, rangeBuf)
	b = protowire.AppendTag(b, fieldOccSymbol, protowire.BytesType)
	b = protowire.AppendString(b, occ.Symbol)
	b = protowire.AppendTag(b, fieldOccSymbolRoles, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(roles))
	return b
}

func encodeFixtureSymbol(sym FixtureSymbol) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldSymInfoSymbol, protowire.BytesType)
	b = protowire.AppendString(b, sym.Symbol)
	if sym.Documentation != "" {
		b = protowire.AppendTag(b, fieldSymInfoDocumentation, protowire.BytesType)
		b = protowire.AppendString(b, sym.Documentation)
	}
	return b
}

// WriteFixtureProject writes docs as a single index.go.scip file
// under a fresh temp directory and returns the directory, ready to
// pass to scip.FromProject.
func WriteFixtureProject(t *testing.T, docs ...FixtureDoc) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "index.go.scip")
	if err := os.WriteFile(path, EncodeFixtureIndex(docs...), 0o644); err != nil {
		t.Fatalf("failed to write fixture index: %v", err)
	}
	return dir
}
