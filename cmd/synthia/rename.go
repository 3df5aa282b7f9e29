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

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	flag "github.com/spf13/pflag"

	synerrors "github.com/kraklabs/synthia/internal/errors"
	"github.com/kraklabs/synthia/internal/output"
	"github.com/kraklabs/synthia/pkg/lang"
	"github.com/kraklabs/synthia/pkg/refactor"
)

func runRenameSymbol(args []string, root string) {
	fs := flag.NewFlagSet("rename-symbol", flag.ExitOnError)
	preview := fs.Bool("preview", false, "Show the rename without writing any file")
	updateImports := fs.Bool("update-imports", false, "Also rewrite import statements naming the old identifier")
	format := fs.String("format", "text", "Output format: text, json, markdown")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: synthia rename-symbol <file> <line> <col> <new-name> [options]

Renames the identifier at the given position and every reference to
it, staged through the refactoring transaction engine.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if err := validateFormat(*format); err != nil {
		fail(err, *format == "json")
	}
	if fs.NArg() != 4 {
		fs.Usage()
		os.Exit(synerrors.ExitInputError)
	}

	file := fs.Arg(0)
	line, err := strconv.Atoi(fs.Arg(1))
	if err != nil {
		fail(synerrors.NewInputError("invalid line", err.Error(), ""), *format == "json")
	}
	col, err := strconv.Atoi(fs.Arg(2))
	if err != nil {
		fail(synerrors.NewInputError("invalid column", err.Error(), ""), *format == "json")
	}
	newName := fs.Arg(3)

	ctx := context.Background()
	l := lang.FromExtension(file)
	backend, err := newProjectBackend(root).Backend(ctx, l)
	if err != nil {
		fail(err, *format == "json")
	}
	finder := refactor.BackendFinder{Backend: backend, Language: l}

	result, err := refactor.Rename(ctx, finder, refactor.RenameRequest{
		File: file, Line: line, Column: col, NewName: newName,
		Language: l, UpdateImports: *updateImports, Preview: *preview,
	})
	if err != nil {
		fail(err, *format == "json")
	}

	table := output.Table{Headers: []string{"file", "line", "column", "before", "after", "risk"}}
	for _, c := range result.Changes {
		table.Rows = append(table.Rows, []string{c.Path, strconv.Itoa(c.Line), strconv.Itoa(c.Column), c.Before, c.After, c.Risk})
	}
	if err := render(renderer{format: *format, json: result, table: table}); err != nil {
		fatalf("writing output: %v", err)
	}
}
