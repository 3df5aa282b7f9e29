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

package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/synthia/pkg/lsp"
)

func TestFindReferencesByName_UnsupportedOnLSPBackend(t *testing.T) {
	b := ForLSP(lsp.NewManager(t.TempDir()))
	_, err := FindReferencesByName(b, "Foo", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestBackend_IsLSP(t *testing.T) {
	lspBackend := ForLSP(lsp.NewManager(t.TempDir()))
	assert.True(t, lspBackend.isLSP())

	indexBackend := Backend{}
	assert.False(t, indexBackend.isLSP())
}
