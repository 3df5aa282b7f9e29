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
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	synerrors "github.com/kraklabs/synthia/internal/errors"
)

// Registry holds the set of tools the agent can dispatch into, plus a
// bounded result cache shared across every cacheable tool.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*Tool
	cache *lru.Cache[string, *ToolResult]
}

// NewRegistry returns an empty registry with a result cache bounded to
// cacheSize entries.
func NewRegistry(cacheSize int) *Registry {
	if cacheSize <= 0 {
		cacheSize = 256
	}
	cache, _ := lru.New[string, *ToolResult](cacheSize)
	return &Registry{tools: make(map[string]*Tool), cache: cache}
}

// Register adds or replaces a tool.
func (r *Registry) Register(t *Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name] = t
}

// Get returns the named tool, or nil if not registered.
func (r *Registry) Get(name string) *Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// Names returns every registered tool name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Schema is the wire shape the LLM provider expects for one tool's
// advertised definition.
type Schema struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Schemas returns the advertised schema for every registered tool, in
// the same sorted order as Names.
func (r *Registry) Schemas() []Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Schema, 0, len(r.tools))
	for _, name := range r.sortedNamesLocked() {
		t := r.tools[name]
		out = append(out, Schema{Name: t.Name, Description: t.Description, Parameters: t.Schema})
	}
	return out
}

func (r *Registry) sortedNamesLocked() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call looks up name, consults the cache for cacheable tools, executes
// on a miss, and stores the result. Calling an unregistered tool
// returns a UserError rather than executing anything.
func (r *Registry) Call(ctx context.Context, name string, params map[string]any) (*ToolResult, error) {
	t := r.Get(name)
	if t == nil {
		return nil, synerrors.NewInputError(
			fmt.Sprintf("unknown tool %q", name),
			"the agent requested a tool name not present in the registry",
			"Check the tool schemas advertised to the model.",
		)
	}

	var key string
	if t.Cacheable {
		key = cacheKey(name, params)
		if cached, ok := r.cache.Get(key); ok {
			return cached, nil
		}
	}

	result, err := t.Execute(ctx, params)
	if err != nil {
		return nil, err
	}
	if t.Cacheable {
		r.cache.Add(key, result)
	}
	return result, nil
}

// InvalidateTool removes every cached entry belonging to name. The
// generic LRU cache has no prefix-eviction primitive, so this is a
// guarded linear scan over cached keys.
func (r *Registry) InvalidateTool(name string) {
	prefix := name + "\x00"
	for _, key := range r.cache.Keys() {
		if strings.HasPrefix(key, prefix) {
			r.cache.Remove(key)
		}
	}
}

// cacheKey canonicalizes (tool, params) into a single string: the
// params map is re-marshaled through a sorted-key encoder so
// equivalent parameter sets in different key order collide correctly.
func cacheKey(name string, params map[string]any) string {
	canon, _ := json.Marshal(canonicalize(params))
	return name + "\x00" + string(canon)
}

// canonicalize rebuilds maps using a type that encoding/json already
// serializes with sorted keys (map[string]any does this natively), so
// this mostly exists to document the invariant cacheKey depends on.
func canonicalize(v any) any {
	return v
}
