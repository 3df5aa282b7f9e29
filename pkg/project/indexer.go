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

package project

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	synerrors "github.com/kraklabs/synthia/internal/errors"
	"github.com/kraklabs/synthia/pkg/lang"
)

// IndexerSpec names the external indexer binary for one language: the
// command that generates an index, the command used to probe whether
// it's installed, and how to install it if not.
type IndexerSpec struct {
	Command        []string
	CheckCommand   []string
	InstallCommand []string
	InstallHint    string
}

var indexerTable = map[lang.Language]IndexerSpec{
	lang.TypeScript: {
		Command:        []string{"npx", "@sourcegraph/scip-typescript", "index"},
		CheckCommand:   []string{"npx", "@sourcegraph/scip-typescript", "--help"},
		InstallCommand: []string{"npm", "install", "-g", "@sourcegraph/scip-typescript"},
		InstallHint:    "npm install -g @sourcegraph/scip-typescript",
	},
	lang.JavaScript: {
		Command:        []string{"npx", "@sourcegraph/scip-typescript", "index"},
		CheckCommand:   []string{"npx", "@sourcegraph/scip-typescript", "--help"},
		InstallCommand: []string{"npm", "install", "-g", "@sourcegraph/scip-typescript"},
		InstallHint:    "npm install -g @sourcegraph/scip-typescript",
	},
	lang.Python: {
		Command:        []string{"npx", "@sourcegraph/scip-python", "index", "."},
		CheckCommand:   []string{"npx", "@sourcegraph/scip-python", "--help"},
		InstallCommand: []string{"npm", "install", "-g", "@sourcegraph/scip-python"},
		InstallHint:    "npm install -g @sourcegraph/scip-python",
	},
	lang.Rust: {
		Command:        []string{"rust-analyzer", "scip", "."},
		CheckCommand:   []string{"rust-analyzer", "--version"},
		InstallCommand: []string{"rustup", "component", "add", "rust-analyzer"},
		InstallHint:    "rustup component add rust-analyzer",
	},
}

// RunIndexer spawns the external indexer for language l with root as
// its working directory, auto-installing the binary first if
// autoInstall is set and it isn't already on PATH. It returns the path
// the generated index was renamed to and the argv used to produce it.
func RunIndexer(ctx context.Context, root string, l lang.Language, autoInstall bool, logger *slog.Logger) (string, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	spec, ok := indexerTable[l]
	if !ok {
		return "", nil, synerrors.NewInputError("no indexer registered for language", string(l), "")
	}

	if !commandAvailable(ctx, spec.CheckCommand) {
		if !autoInstall {
			return "", nil, synerrors.NewBackendError(
				fmt.Sprintf("%s indexer is not installed", l),
				fmt.Sprintf("checked with `%s`", strings.Join(spec.CheckCommand, " ")),
				fmt.Sprintf("Install it with: %s", spec.InstallHint),
				nil,
			)
		}
		logger.Info("project.indexer.install.start", "language", string(l), "command", spec.InstallCommand)
		if err := runCommand(ctx, root, spec.InstallCommand); err != nil {
			return "", nil, synerrors.NewBackendError(
				fmt.Sprintf("failed to install %s indexer", l),
				err.Error(),
				fmt.Sprintf("Install it manually with: %s", spec.InstallHint),
				err,
			)
		}
	}

	logger.Info("project.indexer.run.start", "language", string(l), "command", spec.Command)
	if err := runCommand(ctx, root, spec.Command); err != nil {
		return "", nil, synerrors.NewBackendError(fmt.Sprintf("%s indexer failed", l), err.Error(), "", err)
	}

	target := IndexPath(root, l)
	defaultPath := LegacyIndexPath(root)
	if defaultPath != target && fileExists(defaultPath) {
		if err := os.Rename(defaultPath, target); err != nil {
			return "", nil, synerrors.NewBackendError("failed renaming generated index", err.Error(), "", err)
		}
	}
	return target, spec.Command, nil
}

// Reindex runs the indexer for l and regenerates the metadata stamp
// for the index it produced.
func Reindex(ctx context.Context, root string, l lang.Language, autoInstall bool, logger *slog.Logger) (*Metadata, error) {
	target, command, err := RunIndexer(ctx, root, l, autoInstall, logger)
	if err != nil {
		return nil, err
	}
	meta, err := GenerateMetadata(root)
	if err != nil {
		return nil, err
	}
	meta.IndexerCommand = command
	if err := meta.Save(target); err != nil {
		return nil, err
	}
	return meta, nil
}

func commandAvailable(ctx context.Context, argv []string) bool {
	if len(argv) == 0 {
		return false
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	return cmd.Run() == nil
}

func runCommand(ctx context.Context, dir string, argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("empty indexer command")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
