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

package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebFetch_ReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello world"))
	}))
	defer srv.Close()

	tool := NewWebFetchTool(5*time.Second, 0)
	result, err := tool.Execute(context.Background(), map[string]any{"url": srv.URL})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, result.Text, "hello world")
}

func TestWebFetch_RejectsNonHTTPScheme(t *testing.T) {
	tool := NewWebFetchTool(5*time.Second, 0)
	result, err := tool.Execute(context.Background(), map[string]any{"url": "ftp://example.com/file"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestWebFetch_RejectsMalformedURL(t *testing.T) {
	tool := NewWebFetchTool(5*time.Second, 0)
	result, err := tool.Execute(context.Background(), map[string]any{"url": "://bad"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestWebFetch_EnforcesSizeCapViaContentLength(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000")
		w.Write(make([]byte, 1000))
	}))
	defer srv.Close()

	tool := NewWebFetchTool(5*time.Second, 100)
	result, err := tool.Execute(context.Background(), map[string]any{"url": srv.URL})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Text, "cap")
}

func TestWebFetch_EnforcesSizeCapViaActualRead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// no Content-Length set, forces the streaming cap check
		w.(http.Flusher).Flush()
		w.Write(make([]byte, 1000))
	}))
	defer srv.Close()

	tool := NewWebFetchTool(5*time.Second, 100)
	result, err := tool.Execute(context.Background(), map[string]any{"url": srv.URL})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestWebFetch_MissingURLErrors(t *testing.T) {
	tool := NewWebFetchTool(5*time.Second, 0)
	result, err := tool.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
