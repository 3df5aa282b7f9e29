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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/synthia/pkg/scip"
)

func oneFunctionDoc() FixtureDoc {
	return FixtureDoc{
		Path: "pkg/foo/foo.go",
		Symbols: []FixtureSymbol{
			{Symbol: "pkg/foo.Bar().", Documentation: "Bar does a thing."},
		},
		Occurrences: []FixtureOccurrence{
			{Range: [4]int32{0, 5, 0, 12}, Symbol: "pkg/foo.Bar().", Definition: true},
			{Range: [4]int32{3, 2, 3, 5}, Symbol: "pkg/foo.Bar()."},
		},
	}
}

func TestWriteFixtureProject_ReadableByScip(t *testing.T) {
	dir := WriteFixtureProject(t, oneFunctionDoc())

	set, err := scip.FromProject(dir)
	require.NoError(t, err)

	loc, err := set.FindDefinition(filepath.Join(dir, "pkg/foo/foo.go"), 4, 3)
	require.NoError(t, err)
	assert.Equal(t, "pkg/foo/foo.go", loc.Path)
	assert.Equal(t, 1, loc.StartLine)
}

func TestWriteFixtureProject_MultipleDocuments(t *testing.T) {
	dir := WriteFixtureProject(t,
		oneFunctionDoc(),
		FixtureDoc{
			Path: "pkg/baz/baz.go",
			Symbols: []FixtureSymbol{
				{Symbol: "pkg/baz.Qux().", Documentation: "Qux does another thing."},
			},
			Occurrences: []FixtureOccurrence{
				{Range: [4]int32{1, 0, 1, 10}, Symbol: "pkg/baz.Qux().", Definition: true},
			},
		},
	)

	set, err := scip.FromProject(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, set.Stats().Documents)
}

func TestEncodeFixtureIndex_DecodesWithCorrectShape(t *testing.T) {
	data := EncodeFixtureIndex(oneFunctionDoc())
	idx, err := scip.Decode(data)
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
