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

package lsp

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFrame(t *testing.T) {
	body := `{"jsonrpc":"2.0","id":1,"result":{}}`
	raw := fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(body), body)
	r := bufio.NewReader(strings.NewReader(raw))

	msg, err := readFrame(r)
	require.NoError(t, err)
	assert.JSONEq(t, body, string(msg))
}

func TestReadFrame_MissingLength(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("\r\n{}"))
	_, err := readFrame(r)
	assert.Error(t, err)
}

func TestTransportWrite_Framing(t *testing.T) {
	var buf bytes.Buffer
	tr := &transport{w: &buf, pending: make(map[int64]chan rpcResponse)}

	require.NoError(t, tr.notify("initialized", struct{}{}))

	r := bufio.NewReader(&buf)
	msg, err := readFrame(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","method":"initialized","params":{}}`, string(msg))
}

func TestWorkspaceEdit_PerFile_PrefersDocumentChanges(t *testing.T) {
	we := WorkspaceEdit{
		Changes: map[string][]TextEdit{
			"file:///a.go": {{NewText: "ignored"}},
		},
		DocumentChanges: []TextDocumentEdit{
			{
				TextDocument: OptionalVersionedTextDocumentIdentifier{URI: "file:///a.go"},
				Edits:        []TextEdit{{NewText: "used"}},
			},
		},
	}
	perFile := we.PerFile()
	require.Len(t, perFile["file:///a.go"], 1)
	assert.Equal(t, "used", perFile["file:///a.go"][0].NewText)
}

func TestWorkspaceEdit_PerFile_FallsBackToChanges(t *testing.T) {
	we := WorkspaceEdit{
		Changes: map[string][]TextEdit{
			"file:///a.go": {{NewText: "used"}},
		},
	}
	perFile := we.PerFile()
	require.Len(t, perFile["file:///a.go"], 1)
	assert.Equal(t, "used", perFile["file:///a.go"][0].NewText)
}

func TestDecodeLocations_Single(t *testing.T) {
	raw := []byte(`{"uri":"file:///a.go","range":{"start":{"line":1,"character":2},"end":{"line":1,"character":5}}}`)
	locs := decodeLocations(raw)
	require.Len(t, locs, 1)
	assert.Equal(t, 2, locs[0].StartLine)
	assert.Equal(t, 3, locs[0].StartCol)
}

func TestDecodeLocations_Array(t *testing.T) {
	raw := []byte(`[{"uri":"file:///a.go","range":{"start":{"line":0,"character":0},"end":{"line":0,"character":1}}}]`)
	locs := decodeLocations(raw)
	require.Len(t, locs, 1)
}

func TestDecodeLocations_Null(t *testing.T) {
	assert.Nil(t, decodeLocations([]byte("null")))
	assert.Nil(t, decodeLocations(nil))
}
