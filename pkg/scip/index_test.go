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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

// encodeTestIndex hand-assembles a minimal SCIP-shaped protobuf message
// with one document, two occurrences (a definition and a call of the
// same symbol), and one symbol_information — enough to exercise
// Decode, FindDefinition, and FindReferences without a real indexer.
func encodeTestIndex(t *testing.T) []byte {
	t.Helper()

	encodeOccurrence := func(rng []int32, symbol string, roles int32) []byte {
		var rangeBuf []byte
		for _, r := range rng {
			rangeBuf = protowire.AppendVarint(rangeBuf, uint64(r))
		}
		var b []byte
		b = protowire.AppendTag(b, fieldOccRange, protowire.BytesType)
		b = protowire.AppendBytes(b, rangeBuf)
		b = protowire.AppendTag(b, fieldOccSymbol, protowire.BytesType)
		b = protowire.AppendString(b, symbol)
		b = protowire.AppendTag(b, fieldOccSymbolRoles, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(roles))
		return b
	}

	def := encodeOccurrence([]int32{0, 5, 0, 12}, "pkg/foo.Bar().", RoleDefinition)
	call := encodeOccurrence([]int32{3, 2, 3, 5}, "pkg/foo.Bar().", 0)

	var symInfo []byte
	symInfo = protowire.AppendTag(symInfo, fieldSymInfoSymbol, protowire.BytesType)
	symInfo = protowire.AppendString(symInfo, "pkg/foo.Bar().")
	symInfo = protowire.AppendTag(symInfo, fieldSymInfoDocumentation, protowire.BytesType)
	symInfo = protowire.AppendString(symInfo, "Bar does a thing.")

	var doc []byte
	doc = protowire.AppendTag(doc, fieldDocRelativePath, protowire.BytesType)
	doc = protowire.AppendString(doc, "pkg/foo/foo.go")
	doc = protowire.AppendTag(doc, fieldDocOccurrences, protowire.BytesType)
	doc = protowire.AppendBytes(doc, def)
	doc = protowire.AppendTag(doc, fieldDocOccurrences, protowire.BytesType)
	doc = protowire.AppendBytes(doc, call)
	doc = protowire.AppendTag(doc, fieldDocSymbolInformations, protowire.BytesType)
	doc = protowire.AppendBytes(doc, symInfo)

	var idx []byte
	idx = protowire.AppendTag(idx, fieldIndexDocuments, protowire.BytesType)
	idx = protowire.AppendBytes(idx, doc)
	return idx
}

func TestDecode(t *testing.T) {
	data := encodeTestIndex(t)
	idx, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, idx.Documents, 1)

	doc := idx.Documents[0]
	assert.Equal(t, "pkg/foo/foo.go", doc.RelativePath)
	require.Len(t, doc.Occurrences, 2)
	assert.True(t, doc.Occurrences[0].IsDefinition())
	assert.False(t, doc.Occurrences[1].IsDefinition())
	require.Len(t, doc.SymbolInformations, 1)
	assert.Equal(t, "Bar does a thing.", doc.SymbolInformations[0].Documentation[0])
}

func writeTestProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.go.scip"), encodeTestIndex(t), 0o644))
	return dir
}

func TestFromProject_MissingIndex(t *testing.T) {
	dir := t.TempDir()
	_, err := FromProject(dir)
	require.Error(t, err)
}

func TestFindDefinition(t *testing.T) {
	dir := writeTestProject(t)
	set, err := FromProject(dir)
	require.NoError(t, err)

	// The call occurrence is at 0-indexed rows 3, cols 2-5; as 1-indexed
	// input that's line 4, column 3.
	loc, err := set.FindDefinition(filepath.Join(dir, "pkg/foo/foo.go"), 4, 3)
	require.NoError(t, err)
	assert.Equal(t, "pkg/foo/foo.go", loc.Path)
	assert.Equal(t, 1, loc.StartLine)
	assert.Equal(t, 6, loc.StartCol)
}

func TestFindDefinition_UnknownDocument(t *testing.T) {
	dir := writeTestProject(t)
	set, err := FromProject(dir)
	require.NoError(t, err)

	_, err = set.FindDefinition(filepath.Join(dir, "nope.go"), 1, 1)
	assert.Error(t, err)
}

func TestFindReferences(t *testing.T) {
	dir := writeTestProject(t)
	set, err := FromProject(dir)
	require.NoError(t, err)

	withDecls, err := set.FindReferences("Bar", true)
	require.NoError(t, err)
	assert.Len(t, withDecls, 2)

	withoutDecls, err := set.FindReferences("Bar", false)
	require.NoError(t, err)
	assert.Len(t, withoutDecls, 1)
}

func TestShortName(t *testing.T) {
	assert.Equal(t, "Method()", shortName("scip-go go gopls mypkg `MyType`#Method()"))
	assert.Equal(t, "Bar().", shortName("pkg/foo.Bar()."))
}
