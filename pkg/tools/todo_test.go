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

func TestTodo_ReplacesEntireList(t *testing.T) {
	list := &TodoList{}
	tool := NewTodoTool(list)

	_, err := tool.Execute(context.Background(), map[string]any{
		"items": []any{
			map[string]any{"description": "first", "status": "completed", "active_form": "Doing first"},
		},
	})
	require.NoError(t, err)
	require.Len(t, list.Items(), 1)

	_, err = tool.Execute(context.Background(), map[string]any{
		"items": []any{
			map[string]any{"description": "second", "status": "in_progress", "active_form": "Doing second"},
			map[string]any{"description": "third", "status": "pending", "active_form": "Doing third"},
		},
	})
	require.NoError(t, err)

	items := list.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "second", items[0].Description)
}

func TestTodo_FormattingUsesActiveFormForInProgress(t *testing.T) {
	list := &TodoList{}
	tool := NewTodoTool(list)

	result, err := tool.Execute(context.Background(), map[string]any{
		"items": []any{
			map[string]any{"description": "write tests", "status": "in_progress", "active_form": "Writing tests"},
			map[string]any{"description": "ship it", "status": "completed", "active_form": "Shipping it"},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, result.Text, "[~] Writing tests")
	assert.Contains(t, result.Text, "[x] ship it")
}

func TestTodo_EmptyListMessage(t *testing.T) {
	list := &TodoList{}
	tool := NewTodoTool(list)
	result, err := tool.Execute(context.Background(), map[string]any{"items": []any{}})
	require.NoError(t, err)
	assert.Contains(t, result.Text, "empty")
}
