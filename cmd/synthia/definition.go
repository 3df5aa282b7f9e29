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

	flag "github.com/spf13/pflag"

	synerrors "github.com/kraklabs/synthia/internal/errors"
	"github.com/kraklabs/synthia/internal/output"
	"github.com/kraklabs/synthia/pkg/lang"
	"github.com/kraklabs/synthia/pkg/query"
)

func runDefinition(args []string, root string) {
	fs := flag.NewFlagSet("definition", flag.ExitOnError)
	format := fs.String("format", "text", "Output format: text, json, markdown")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: synthia definition <file:line[:col]> [options]

Emits the definition location of the symbol at the given position, or
nothing ("No results") if there isn't one.

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
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(synerrors.ExitInputError)
	}

	file, line, col, err := parseLocation(fs.Arg(0))
	if err != nil {
		fail(err, *format == "json")
	}

	ctx := context.Background()
	l := lang.FromExtension(file)
	backend, err := newProjectBackend(root).Backend(ctx, l)
	if err != nil {
		fail(err, *format == "json")
	}
	loc, err := query.FindDefinition(ctx, backend, l, file, line, col)
	if err != nil && !isNotFound(err) {
		fail(err, *format == "json")
	}

	table := output.Table{Headers: []string{"location"}}
	var payload any
	if loc != nil {
		table.Rows = [][]string{{loc.String()}}
		payload = loc
	}
	if err := render(renderer{format: *format, json: payload, table: table}); err != nil {
		fatalf("writing output: %v", err)
	}
}
