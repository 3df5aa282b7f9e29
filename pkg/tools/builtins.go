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

import "time"

// Options configures the set of built-ins NewDefaultRegistry wires up.
type Options struct {
	Root             string
	ShellTimeout     time.Duration
	FileReadCap      int
	WebFetchTimeout  time.Duration
	WebFetchCap      int64
	ResultCacheSize  int
	NotesBinary      string
	AutoInstallIndex bool
	SemanticBackend  BackendProvider
}

// NewDefaultRegistry builds a Registry with every required built-in
// wired against root. SemanticBackend may be nil, in which case
// semantic_navigate is not registered at all.
func NewDefaultRegistry(opts Options) *Registry {
	reg := NewRegistry(opts.ResultCacheSize)

	reg.Register(NewShellTool(opts.ShellTimeout))
	reg.Register(NewFileReadTool(opts.FileReadCap))
	reg.Register(NewFileWriteTool())
	reg.Register(NewFileEditTool())
	reg.Register(NewGrepTool(opts.Root))
	reg.Register(NewGlobTool(opts.Root))
	reg.Register(NewWebFetchTool(opts.WebFetchTimeout, opts.WebFetchCap))
	reg.Register(NewTodoTool(&TodoList{}))
	reg.Register(NewVCSTool(opts.Root))
	if opts.SemanticBackend != nil {
		reg.Register(NewSemanticTool(opts.Root, opts.SemanticBackend, opts.AutoInstallIndex))
	}
	reg.Register(NewNotesTool(opts.Root, opts.NotesBinary))

	return reg
}
