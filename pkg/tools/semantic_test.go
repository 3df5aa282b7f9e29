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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/synthia/pkg/lang"
	"github.com/kraklabs/synthia/pkg/query"
)

type fakeBackendProvider struct {
	err error
}

func (f *fakeBackendProvider) Backend(ctx context.Context, l lang.Language) (query.Backend, error) {
	if f.err != nil {
		return query.Backend{}, f.err
	}
	return query.Backend{}, nil
}

func TestSemantic_MissingFileErrors(t *testing.T) {
	tool := NewSemanticTool(t.TempDir(), &fakeBackendProvider{}, false)
	result, err := tool.Execute(context.Background(), map[string]any{"operation": "definition"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestSemantic_BackendErrorSurfaces(t *testing.T) {
	tool := NewSemanticTool(t.TempDir(), &fakeBackendProvider{err: errors.New("no backend available")}, false)
	result, err := tool.Execute(context.Background(), map[string]any{
		"operation": "definition",
		"file":      "main.go",
		"line":      float64(1),
		"column":    float64(1),
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Text, "no backend available")
}

func TestSemantic_UnknownOperation(t *testing.T) {
	tool := NewSemanticTool(t.TempDir(), &fakeBackendProvider{}, false)
	result, err := tool.Execute(context.Background(), map[string]any{
		"operation": "bogus",
		"file":      "main.go",
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestIntParam_CoercesFloat64(t *testing.T) {
	assert.Equal(t, 42, intParam(map[string]any{"x": float64(42)}, "x"))
	assert.Equal(t, 0, intParam(map[string]any{}, "x"))
}
