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

package agent

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kraklabs/synthia/pkg/lang"
	"github.com/kraklabs/synthia/pkg/project"
)

const projectContextDirName = ".synthia"
const instructionsFileName = ".SYNTHIA.md"

// ProjectContext carries the project-specific grounding the actor
// folds into its system prompt: custom instructions from .synthia/,
// plus the detected root, languages, and index path tools reason
// about when deciding which tool to reach for.
type ProjectContext struct {
	CustomInstructions string
	SynthiaDir         string

	Root          string
	Languages     []lang.Language
	IndexPaths    map[lang.Language]string
	IndexesExist  map[lang.Language]bool
}

// LoadProjectContext builds a ProjectContext rooted at start. Loading
// is non-fatal: any failure (permissions, missing directory) is logged
// and an empty-but-usable context is returned so the actor can proceed
// without project-specific grounding.
func LoadProjectContext(start string) *ProjectContext {
	root, err := project.DetectRoot(start)
	if err != nil {
		slog.Warn("could not detect project root, continuing without project context", "error", err)
		root = start
	}

	synthiaDir := filepath.Join(root, projectContextDirName)
	if err := os.MkdirAll(synthiaDir, 0o755); err != nil {
		slog.Warn("could not create project context directory", "dir", synthiaDir, "error", err)
		return &ProjectContext{SynthiaDir: synthiaDir, Root: root}
	}

	instructionsPath := filepath.Join(synthiaDir, instructionsFileName)
	if _, err := os.Stat(instructionsPath); os.IsNotExist(err) {
		if err := os.WriteFile(instructionsPath, nil, 0o644); err != nil {
			slog.Warn("could not create instructions file", "path", instructionsPath, "error", err)
		}
	}

	custom := ""
	if content, err := os.ReadFile(instructionsPath); err == nil {
		if trimmed := strings.TrimSpace(string(content)); trimmed != "" {
			custom = string(content)
		}
	} else {
		slog.Warn("could not read project instructions", "path", instructionsPath, "error", err)
	}

	languages := project.DetectLanguages(root)
	indexPaths := make(map[lang.Language]string, len(languages))
	indexExists := make(map[lang.Language]bool, len(languages))
	for _, l := range languages {
		p := project.IndexPath(root, l)
		indexPaths[l] = p
		indexExists[l] = project.MetadataExists(p)
	}

	return &ProjectContext{
		CustomInstructions: custom,
		SynthiaDir:         synthiaDir,
		Root:               root,
		Languages:          languages,
		IndexPaths:         indexPaths,
		IndexesExist:       indexExists,
	}
}

// SystemPromptAddendum renders the context as a block to append to the
// actor's base system prompt. Returns "" when there's nothing to add.
func (pc *ProjectContext) SystemPromptAddendum() string {
	var b strings.Builder

	if len(pc.Languages) > 0 {
		names := make([]string, len(pc.Languages))
		for i, l := range pc.Languages {
			names[i] = string(l)
			if !pc.IndexesExist[l] {
				names[i] += " (no index yet — build one before relying on semantic search)"
			}
		}
		b.WriteString("Project languages detected: ")
		b.WriteString(strings.Join(names, ", "))
		b.WriteString("\n")
	}

	if pc.CustomInstructions != "" {
		b.WriteString("\nProject-specific instructions:\n")
		b.WriteString(pc.CustomInstructions)
		b.WriteString("\n")
	}

	return b.String()
}
