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
	"fmt"
	"strings"
	"sync"
)

// TodoStatus is one of the three states a todo item can be in.
type TodoStatus string

const (
	TodoPending    TodoStatus = "pending"
	TodoInProgress TodoStatus = "in_progress"
	TodoCompleted  TodoStatus = "completed"
)

// TodoItem is one entry in the agent's working todo list.
type TodoItem struct {
	Description string     `json:"description"`
	Status      TodoStatus `json:"status"`
	ActiveForm  string     `json:"active_form"`
}

// TodoList holds the agent's current todo items. Execute replaces the
// entire list atomically; it is not a diff/patch operation.
type TodoList struct {
	mu    sync.Mutex
	items []TodoItem
}

// Items returns a snapshot of the current list.
func (t *TodoList) Items() []TodoItem {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]TodoItem, len(t.items))
	copy(out, t.items)
	return out
}

// NewTodoTool returns the "todo_write" built-in bound to list.
func NewTodoTool(list *TodoList) *Tool {
	return &Tool{
		Name:        "todo_write",
		Description: "Replace the agent's todo list with a new set of items.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"items": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"description": map[string]any{"type": "string"},
							"status":      map[string]any{"type": "string", "enum": []string{"pending", "in_progress", "completed"}},
							"active_form": map[string]any{"type": "string"},
						},
						"required": []string{"description", "status", "active_form"},
					},
				},
			},
			"required": []string{"items"},
		},
		Execute: func(ctx context.Context, params map[string]any) (*ToolResult, error) {
			raw, _ := params["items"].([]any)
			items := make([]TodoItem, 0, len(raw))
			for _, r := range raw {
				m, ok := r.(map[string]any)
				if !ok {
					continue
				}
				desc, _ := m["description"].(string)
				status, _ := m["status"].(string)
				active, _ := m["active_form"].(string)
				items = append(items, TodoItem{Description: desc, Status: TodoStatus(status), ActiveForm: active})
			}

			list.mu.Lock()
			list.items = items
			list.mu.Unlock()

			return NewResult(formatTodoList(items)), nil
		},
	}
}

func formatTodoList(items []TodoItem) string {
	if len(items) == 0 {
		return "Todo list is empty."
	}
	var sb strings.Builder
	for _, item := range items {
		var mark string
		switch item.Status {
		case TodoCompleted:
			mark = "[x]"
		case TodoInProgress:
			mark = "[~]"
		default:
			mark = "[ ]"
		}
		text := item.Description
		if item.Status == TodoInProgress && item.ActiveForm != "" {
			text = item.ActiveForm
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", mark, text))
	}
	return sb.String()
}
