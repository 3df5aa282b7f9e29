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

// Package permission decides, for every tool call the agent actor is
// about to dispatch, whether it is allowed, denied, or needs a prompt,
// based on a project-local settings file.
package permission

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// Decision is the outcome of checking one tool call against the
// project's permission patterns.
type Decision int

const (
	Ask Decision = iota
	Allow
	Deny
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	default:
		return "ask"
	}
}

const settingsRelPath = ".synthia/settings-local.json"

// Manager consults and updates a project's permission settings. One
// Manager guards one project root; the agent actor holds a single
// instance alongside its session.
type Manager struct {
	mu          sync.Mutex
	config      config
	configPath  string
	projectRoot string
}

// New loads (or defaults) the permission settings for projectRoot. A
// missing or corrupt settings file is not an error.
func New(projectRoot string) *Manager {
	configPath := filepath.Join(projectRoot, settingsRelPath)
	return &Manager{
		config:      loadConfig(configPath),
		configPath:  configPath,
		projectRoot: projectRoot,
	}
}

// Check builds the canonical pattern for (tool, params) and decides
// whether it is allowed, denied, or should prompt the user. Deny takes
// priority over allow; anything matching neither is Ask.
func (m *Manager) Check(tool string, params map[string]any) Decision {
	m.mu.Lock()
	defer m.mu.Unlock()

	pattern := m.buildPatternLocked(tool, params)
	if matchesAny(pattern, m.config.Permissions.Deny) {
		return Deny
	}
	if matchesAny(pattern, m.config.Permissions.Allow) {
		return Allow
	}
	return Ask
}

// AddPermission appends pattern to the allow list and persists it
// atomically. Duplicates are ignored.
func (m *Manager) AddPermission(pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.config.addAllow(pattern)
	return m.config.save(m.configPath)
}

// BuildPattern renders the canonical permission-pattern string for a
// tool call, the same string Check and AddPermission compare against.
func (m *Manager) BuildPattern(tool string, params map[string]any) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buildPatternLocked(tool, params)
}

func (m *Manager) buildPatternLocked(tool string, params map[string]any) string {
	switch tool {
	case "bash", "shell":
		cmd, _ := params["command"].(string)
		if cmd == "" {
			return "Bash(unknown:*)"
		}
		return "Bash(" + commandHead(cmd) + ":*)"
	case "read":
		path, _ := params["file_path"].(string)
		if path == "" {
			return "Read(unknown)"
		}
		return "Read(" + m.pathPatternLocked(path) + ")"
	case "write", "edit":
		path, _ := params["file_path"].(string)
		toolName := "Write"
		if tool == "edit" {
			toolName = "Edit"
		}
		if path == "" {
			return toolName + "(unknown)"
		}
		return toolName + "(" + m.pathPatternLocked(path) + ")"
	case "git", "vcs":
		cmd, _ := params["command"].(string)
		parts := strings.Fields(cmd)
		if len(parts) > 1 && parts[0] == "git" {
			return "Git(" + parts[1] + ":*)"
		}
		return "Git(unknown:*)"
	case "webfetch", "web_fetch":
		if raw, ok := params["url"].(string); ok {
			if parsed, err := url.Parse(raw); err == nil && parsed.Hostname() != "" {
				return "WebFetch(domain:" + parsed.Hostname() + ")"
			}
		}
		return "WebFetch(unknown)"
	default:
		// MCP tools and anything else without a dedicated shape match
		// on their bare name.
		return tool
	}
}

// pathPatternLocked normalizes path to an absolute path and prefixes it
// with "//", the marker permission_manager.rs uses for "absolute path".
func (m *Manager) pathPatternLocked(path string) string {
	abs := path
	if !filepath.IsAbs(path) {
		abs = filepath.Join(m.projectRoot, path)
	}
	if strings.HasPrefix(abs, "/") {
		return "/" + abs
	}
	return "//" + abs
}

// SuggestPattern returns a human-readable "don't ask again" phrasing
// for the permission prompt UI to offer.
func (m *Manager) SuggestPattern(tool string, params map[string]any) string {
	switch tool {
	case "bash", "shell":
		cmd, _ := params["command"].(string)
		if cmd == "" {
			return "don't ask again for this command"
		}
		return "don't ask again for '" + commandHead(cmd) + "' commands"
	case "read":
		path, _ := params["file_path"].(string)
		if path == "" {
			return "don't ask again for reads"
		}
		abs := path
		if !filepath.IsAbs(path) {
			abs = filepath.Join(m.projectRoot, path)
		}
		return "don't ask again for reads in " + filepath.Dir(abs) + "/**"
	case "write", "edit":
		path, _ := params["file_path"].(string)
		if path == "" {
			return "don't ask again for edits"
		}
		return "don't ask again for edits to " + path
	default:
		return "don't ask again for this operation"
	}
}

func commandHead(cmd string) string {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return cmd
	}
	return fields[0]
}

func matchesAny(operation string, patterns []string) bool {
	for _, p := range patterns {
		if matches(operation, p) {
			return true
		}
	}
	return false
}

// matches reports whether operation (a canonical Tool(pattern) string)
// is covered by perm, a permission-list entry. perm may be an exact
// match, a "prefix:*" argv match, or a glob over the pattern body.
func matches(operation, perm string) bool {
	if operation == perm {
		return true
	}

	permTool, permPattern, permOK := parsePermission(perm)
	opTool, opValue, opOK := parsePermission(operation)
	if !permOK || !opOK || permTool != opTool {
		return false
	}

	if permPattern == "*" {
		return true
	}
	if strings.HasSuffix(permPattern, ":*") {
		prefix := strings.TrimSuffix(permPattern, ":*")
		return strings.HasPrefix(opValue, prefix)
	}
	if strings.Contains(permPattern, "*") {
		return globMatch(permPattern, opValue)
	}
	return strings.HasPrefix(opValue, permPattern)
}

// parsePermission splits "Tool(pattern)" into ("Tool", "pattern"). A
// bare name with no parens (an MCP tool, or any tool with no params)
// parses to (name, "").
func parsePermission(perm string) (tool, pattern string, ok bool) {
	idx := strings.Index(perm, "(")
	if idx < 0 {
		return perm, "", true
	}
	if !strings.HasSuffix(perm, ")") {
		return "", "", false
	}
	return perm[:idx], perm[idx+1 : len(perm)-1], true
}

// globMatch reports whether value matches a glob pattern where '*'
// matches any run of characters, including path separators — so a
// pattern ending in "/**" covers an entire subtree the way
// path/filepath.Match's single-segment '*' cannot.
func globMatch(pattern, value string) bool {
	var b strings.Builder
	b.WriteString("^")
	for _, r := range pattern {
		if r == '*' {
			b.WriteString(".*")
		} else {
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	re, err := regexp.Compile(b.String())
	if err != nil {
		return false
	}
	return re.MatchString(value)
}
