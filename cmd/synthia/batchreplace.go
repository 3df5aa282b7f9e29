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
	"fmt"
	"os"
	"regexp"
	"strconv"

	flag "github.com/spf13/pflag"

	synerrors "github.com/kraklabs/synthia/internal/errors"
	"github.com/kraklabs/synthia/internal/output"
	"github.com/kraklabs/synthia/pkg/batchreplace"
)

func runBatchReplace(args []string, root string) {
	fs := flag.NewFlagSet("batch-replace", flag.ExitOnError)
	path := fs.String("path", root, "Project root to scan")
	glob := fs.String("files", "", "Glob restricting which files are touched (empty matches everything)")
	preview := fs.Bool("preview", false, "Show matches without writing any file")
	format := fs.String("format", "text", "Output format: text, json, markdown")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: synthia batch-replace <pattern> <replacement> [options]

Applies a regex substitution line-by-line across every file --files
selects, writing through the refactoring transaction engine unless
--preview is set.

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
	if fs.NArg() != 2 {
		fs.Usage()
		os.Exit(synerrors.ExitInputError)
	}

	pattern, err := regexp.Compile(fs.Arg(0))
	if err != nil {
		fail(synerrors.NewInputError("invalid pattern", err.Error(), ""), *format == "json")
	}

	result, err := batchreplace.Run(*path, pattern, fs.Arg(1), *glob, *preview)
	if err != nil {
		fail(err, *format == "json")
	}

	table := output.Table{Headers: []string{"file", "line", "original", "replacement"}}
	for _, m := range result.Matches {
		table.Rows = append(table.Rows, []string{m.File, strconv.Itoa(m.Line), m.Original, m.Replacement})
	}
	if err := render(renderer{format: *format, json: result, table: table}); err != nil {
		fatalf("writing output: %v", err)
	}
}
