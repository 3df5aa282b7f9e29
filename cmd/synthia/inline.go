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
	"github.com/kraklabs/synthia/pkg/lsp"
	"github.com/kraklabs/synthia/pkg/refactor"
)

func runInlineVariable(args []string, root string) {
	fs := flag.NewFlagSet("inline-variable", flag.ExitOnError)
	preview := fs.Bool("preview", false, "Show the inline without writing any file")
	format := fs.String("format", "text", "Output format: text, json, markdown")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: synthia inline-variable <file> <line> <col> [options]

Inlines the variable declared at the given position into each of its
later usages, then removes the declaration.

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
	if fs.NArg() != 3 {
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

	ctx := context.Background()
	l := lang.FromExtension(file)
	req := refactor.InlineRequest{File: file, Line: line, Column: col, Language: l, Preview: *preview}

	var runner refactor.CodeActionRunner
	if l.LSPOnly() {
		mgr := lsp.NewManager(root)
		client, err := mgr.Client(ctx, l)
		if err != nil {
			fail(err, *format == "json")
		}
		runner = client
	}

	result, err := refactor.Inline(ctx, runner, req)
	if err != nil {
		fail(err, *format == "json")
	}

	table := output.Table{Headers: []string{"file", "line", "before", "after"}}
	for _, c := range result.Changes {
		table.Rows = append(table.Rows, []string{c.Path, strconv.Itoa(c.Line), c.Before, c.After})
	}
	if err := render(renderer{format: *format, json: result, table: table}); err != nil {
		fatalf("writing output: %v", err)
	}
}
