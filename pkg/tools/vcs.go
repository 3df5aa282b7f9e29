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
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	defaultCommitAuthorName  = "synthia"
	defaultCommitAuthorEmail = "synthia@localhost"
)

// NewVCSTool returns the "vcs" built-in: dispatches to go-git rather
// than shelling out to the `git` binary, over a closed set of
// operations (init, status, diff, log, add, commit, push).
func NewVCSTool(root string) *Tool {
	return &Tool{
		Name:        "vcs",
		Description: "Version control operations: init, status, diff, log, add, commit, push.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"operation": map[string]any{
					"type": "string",
					"enum": []string{"init", "status", "diff_staged", "diff_unstaged", "log", "add", "commit", "push"},
				},
				"files":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"message":      map[string]any{"type": "string"},
				"author_name":  map[string]any{"type": "string"},
				"author_email": map[string]any{"type": "string"},
				"limit":        map[string]any{"type": "integer"},
				"remote":       map[string]any{"type": "string"},
				"branch":       map[string]any{"type": "string"},
			},
			"required": []string{"operation"},
		},
		Execute: func(ctx context.Context, params map[string]any) (*ToolResult, error) {
			op, _ := params["operation"].(string)
			switch op {
			case "init":
				return vcsInit(root)
			case "status":
				return vcsStatus(root)
			case "diff_staged":
				return vcsDiff(root, true)
			case "diff_unstaged":
				return vcsDiff(root, false)
			case "log":
				limit := 10
				if l, ok := params["limit"].(float64); ok && l > 0 {
					limit = int(l)
				}
				return vcsLog(root, limit)
			case "add":
				files := stringSlice(params["files"])
				return vcsAdd(root, files)
			case "commit":
				message, _ := params["message"].(string)
				authorName, _ := params["author_name"].(string)
				authorEmail, _ := params["author_email"].(string)
				return vcsCommit(root, message, authorName, authorEmail)
			case "push":
				remote, _ := params["remote"].(string)
				branch, _ := params["branch"].(string)
				return vcsPush(root, remote, branch)
			default:
				return NewError(fmt.Sprintf("unknown vcs operation %q", op)), nil
			}
		},
	}
}

func stringSlice(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func vcsInit(root string) (*ToolResult, error) {
	if _, err := git.PlainInit(root, false); err != nil {
		if err == git.ErrRepositoryAlreadyExists {
			return NewResult("Repository already initialized."), nil
		}
		return NewError(err.Error()), nil
	}
	return NewResult(fmt.Sprintf("Initialized repository at %s", root)), nil
}

func openRepo(root string) (*git.Repository, error) {
	return git.PlainOpen(root)
}

func vcsStatus(root string) (*ToolResult, error) {
	repo, err := openRepo(root)
	if err != nil {
		return NewError(err.Error()), nil
	}
	wt, err := repo.Worktree()
	if err != nil {
		return NewError(err.Error()), nil
	}
	status, err := wt.Status()
	if err != nil {
		return NewError(err.Error()), nil
	}
	if status.IsClean() {
		return NewResult("Working tree clean."), nil
	}
	var sb strings.Builder
	for path, s := range status {
		sb.WriteString(fmt.Sprintf("%c%c %s\n", s.Staging, s.Worktree, path))
	}
	return NewResult(sb.String()), nil
}

func vcsDiff(root string, staged bool) (*ToolResult, error) {
	repo, err := openRepo(root)
	if err != nil {
		return NewError(err.Error()), nil
	}
	wt, err := repo.Worktree()
	if err != nil {
		return NewError(err.Error()), nil
	}
	status, err := wt.Status()
	if err != nil {
		return NewError(err.Error()), nil
	}

	var sb strings.Builder
	for path, s := range status {
		changed := s.Worktree != git.Unmodified
		if staged {
			changed = s.Staging != git.Unmodified
		}
		if changed {
			sb.WriteString(fmt.Sprintf("%s\n", path))
		}
	}
	if sb.Len() == 0 {
		kind := "unstaged"
		if staged {
			kind = "staged"
		}
		return NewResult(fmt.Sprintf("No %s changes.", kind)), nil
	}
	return NewResult(sb.String()), nil
}

func vcsLog(root string, limit int) (*ToolResult, error) {
	repo, err := openRepo(root)
	if err != nil {
		return NewError(err.Error()), nil
	}
	head, err := repo.Head()
	if err != nil {
		return NewError(err.Error()), nil
	}
	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return NewError(err.Error()), nil
	}

	var sb strings.Builder
	count := 0
	err = iter.ForEach(func(c *object.Commit) error {
		if count >= limit {
			return nil
		}
		sb.WriteString(fmt.Sprintf("%s %s (%s)\n",
			c.Hash.String()[:8],
			firstLine(c.Message),
			c.Author.When.Format(time.RFC3339),
		))
		count++
		return nil
	})
	if err != nil {
		return NewError(err.Error()), nil
	}
	return NewResult(sb.String()), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func vcsAdd(root string, files []string) (*ToolResult, error) {
	repo, err := openRepo(root)
	if err != nil {
		return NewError(err.Error()), nil
	}
	wt, err := repo.Worktree()
	if err != nil {
		return NewError(err.Error()), nil
	}
	if len(files) == 0 {
		if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
			return NewError(err.Error()), nil
		}
		return NewResult("Staged all changes."), nil
	}
	for _, f := range files {
		if _, err := wt.Add(f); err != nil {
			return NewError(fmt.Sprintf("adding %s: %v", f, err)), nil
		}
	}
	return NewResult(fmt.Sprintf("Staged %d file(s).", len(files))), nil
}

func vcsCommit(root, message, authorName, authorEmail string) (*ToolResult, error) {
	if message == "" {
		return NewError("Error: 'message' is required"), nil
	}
	if authorName == "" {
		authorName = defaultCommitAuthorName
	}
	if authorEmail == "" {
		authorEmail = defaultCommitAuthorEmail
	}
	repo, err := openRepo(root)
	if err != nil {
		return NewError(err.Error()), nil
	}
	wt, err := repo.Worktree()
	if err != nil {
		return NewError(err.Error()), nil
	}
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  authorName,
			Email: authorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return NewError(err.Error()), nil
	}
	return NewResult(fmt.Sprintf("Committed %s", hash.String()[:8])), nil
}

func vcsPush(root, remote, branch string) (*ToolResult, error) {
	if remote == "" {
		remote = "origin"
	}
	repo, err := openRepo(root)
	if err != nil {
		return NewError(err.Error()), nil
	}
	opts := &git.PushOptions{RemoteName: remote}
	if branch != "" {
		spec := config.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch))
		opts.RefSpecs = []config.RefSpec{spec}
	}
	if err := repo.Push(opts); err != nil {
		if err == git.NoErrAlreadyUpToDate {
			return NewResult("Everything up-to-date."), nil
		}
		return NewError(err.Error()), nil
	}
	return NewResult(fmt.Sprintf("Pushed to %s", remote)), nil
}
