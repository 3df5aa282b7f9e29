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
	"strings"

	flag "github.com/spf13/pflag"

	synerrors "github.com/kraklabs/synthia/internal/errors"
	"github.com/kraklabs/synthia/internal/output"
	"github.com/kraklabs/synthia/pkg/lang"
	"github.com/kraklabs/synthia/pkg/location"
	"github.com/kraklabs/synthia/pkg/query"
)

func runReferences(args []string, root string) {
	fs := flag.NewFlagSet("references", flag.ExitOnError)
	includeDecl := fs.Bool("include-declarations", false, "Include the defining occurrence in results")
	format := fs.String("format", "text", "Output format: text, json, markdown")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: synthia references <file:line[:col]|symbol> [options]

Finds references to a symbol, either by cursor position
(file:line[:col]) or by name/substring.

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

	ctx := context.Background()
	arg := fs.Arg(0)
	var refs []location.Reference
	var err error

	if strings.Contains(arg, ":") {
		var file string
		var line, col int
		file, line, col, err = parseLocation(arg)
		if err != nil {
			fail(err, *format == "json")
		}
		l := lang.FromExtension(file)
		var backend query.Backend
		backend, err = newProjectBackend(root).Backend(ctx, l)
		if err != nil {
			fail(err, *format == "json")
		}
		refs, err = query.FindReferencesAt(ctx, backend, l, file, line, col, *includeDecl)
	} else {
		// Name-based lookup only works against the index backend, which
		// Backend returns for any language but Swift; the language value
		// itself is otherwise unused here.
		var backend query.Backend
		backend, err = newProjectBackend(root).Backend(ctx, lang.Unknown)
		if err != nil {
			fail(err, *format == "json")
		}
		refs, err = query.FindReferencesByName(backend, arg, *includeDecl)
	}
	if err != nil && !isNotFound(err) {
		fail(err, *format == "json")
	}

	table := output.Table{Headers: []string{"location", "kind", "context"}}
	for _, r := range refs {
		table.Rows = append(table.Rows, []string{r.Location.String(), string(r.Kind), r.Context})
	}
	if err := render(renderer{format: *format, json: refs, table: table}); err != nil {
		fatalf("writing output: %v", err)
	}
}
