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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingTool(name string, cacheable bool, calls *int) *Tool {
	return &Tool{
		Name:      name,
		Cacheable: cacheable,
		Execute: func(ctx context.Context, params map[string]any) (*ToolResult, error) {
			*calls++
			return NewResult("ok"), nil
		},
	}
}

func TestRegistry_UnknownToolErrors(t *testing.T) {
	reg := NewRegistry(0)
	_, err := reg.Call(context.Background(), "nope", nil)
	assert.Error(t, err)
}

func TestRegistry_CacheHitSkipsExecute(t *testing.T) {
	reg := NewRegistry(0)
	calls := 0
	reg.Register(countingTool("cached", true, &calls))

	params := map[string]any{"a": 1, "b": "x"}
	_, err := reg.Call(context.Background(), "cached", params)
	require.NoError(t, err)
	_, err = reg.Call(context.Background(), "cached", params)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestRegistry_NonCacheableAlwaysExecutes(t *testing.T) {
	reg := NewRegistry(0)
	calls := 0
	reg.Register(countingTool("live", false, &calls))

	params := map[string]any{"a": 1}
	_, _ = reg.Call(context.Background(), "live", params)
	_, _ = reg.Call(context.Background(), "live", params)

	assert.Equal(t, 2, calls)
}

func TestRegistry_CacheKeyIgnoresMapOrder(t *testing.T) {
	k1 := cacheKey("t", map[string]any{"a": 1, "b": 2})
	k2 := cacheKey("t", map[string]any{"b": 2, "a": 1})
	assert.Equal(t, k1, k2)
}

func TestRegistry_InvalidateToolRemovesOnlyItsEntries(t *testing.T) {
	reg := NewRegistry(0)
	callsA, callsB := 0, 0
	reg.Register(countingTool("a", true, &callsA))
	reg.Register(countingTool("b", true, &callsB))

	_, _ = reg.Call(context.Background(), "a", map[string]any{"x": 1})
	_, _ = reg.Call(context.Background(), "b", map[string]any{"x": 1})

	reg.InvalidateTool("a")

	_, _ = reg.Call(context.Background(), "a", map[string]any{"x": 1})
	_, _ = reg.Call(context.Background(), "b", map[string]any{"x": 1})

	assert.Equal(t, 2, callsA)
	assert.Equal(t, 1, callsB)
}

func TestRegistry_NamesSorted(t *testing.T) {
	reg := NewRegistry(0)
	reg.Register(&Tool{Name: "zeta"})
	reg.Register(&Tool{Name: "alpha"})
	assert.Equal(t, []string{"alpha", "zeta"}, reg.Names())
}

func TestRegistry_Schemas(t *testing.T) {
	reg := NewRegistry(0)
	reg.Register(&Tool{Name: "one", Description: "does one thing", Schema: map[string]any{"type": "object"}})
	schemas := reg.Schemas()
	require.Len(t, schemas, 1)
	assert.Equal(t, "one", schemas[0].Name)
	assert.Equal(t, "does one thing", schemas[0].Description)
}
