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
	"github.com/kraklabs/synthia/pkg/analyzer"
	"github.com/kraklabs/synthia/pkg/lang"
	"github.com/kraklabs/synthia/pkg/location"
)

func runSearchAST(args []string, root string) {
	fs := flag.NewFlagSet("search-ast", flag.ExitOnError)
	path := fs.String("path", root, "File or directory to search")
	extensions := fs.StringArray("extensions", nil, "Restrict to these file extensions (repeatable)")
	maxResults := fs.Int("max-results", 0, "Maximum results to return (0 = unlimited)")
	format := fs.String("format", "text", "Output format: text, json, markdown")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: synthia search-ast <query> [options]

Runs a tree-sitter capture query against every source file under
--path, collecting one result per captured node.

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
	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(synerrors.ExitInputError)
	}
	query := fs.Arg(0)

	ctx := context.Background()
	az := analyzer.New()
	var results []location.SearchResult
	err := walkSourceFiles(*path, func(file string, _ lang.Language) error {
		if !matchesExtensions(file, *extensions) {
			return nil
		}
		remaining := 0
		if *maxResults > 0 {
			remaining = *maxResults - len(results)
			if remaining <= 0 {
				return nil
			}
		}
		found, err := az.SearchPattern(ctx, file, query, remaining)
		if err != nil {
			return nil // unparsable or unsupported file; skip rather than abort the walk
		}
		results = append(results, found...)
		return nil
	})
	if err != nil {
		fail(synerrors.NewNotFoundError("cannot search path", err.Error(), ""), *format == "json")
	}

	table := output.Table{Headers: []string{"location", "kind", "matched_text"}}
	for _, r := range results {
		table.Rows = append(table.Rows, []string{r.Location.String(), r.NodeKind, r.MatchedText})
	}
	if err := render(renderer{format: *format, json: results, table: table}); err != nil {
		fatalf("writing output: %v", err)
	}
}
