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
	"github.com/kraklabs/synthia/pkg/analyzer"
	"github.com/kraklabs/synthia/pkg/lang"
	"github.com/kraklabs/synthia/pkg/location"
)

// runFunctions, runClasses, and runStats all walk the same file set
// (source-tree analysis, not the semantic index) since their flags
// (--include-private, --include-nested, --path) mirror analyzer's own
// per-file operations rather than query's project-wide index reader.

func runFunctions(args []string, root string) {
	fs := flag.NewFlagSet("functions", flag.ExitOnError)
	path := fs.String("path", root, "File or directory to scan")
	includePrivate := fs.Bool("include-private", false, "Include non-exported functions")
	format := fs.String("format", "text", "Output format: text, json, markdown")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: synthia functions [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if err := validateFormat(*format); err != nil {
		fail(err, *format == "json")
	}

	ctx := context.Background()
	az := analyzer.New()
	var fns []analyzer.FunctionInfo
	err := walkSourceFiles(*path, func(file string, _ lang.Language) error {
		found, err := az.FindFunctions(ctx, file)
		if err != nil {
			return nil
		}
		for _, fn := range found {
			if fn.IsPublic || *includePrivate {
				fns = append(fns, fn)
			}
		}
		return nil
	})
	if err != nil {
		fail(synerrors.NewNotFoundError("cannot scan path", err.Error(), ""), *format == "json")
	}

	table := output.Table{Headers: []string{"name", "location", "public", "signature"}}
	for _, fn := range fns {
		table.Rows = append(table.Rows, []string{fn.Name, fn.Location.String(), boolStr(fn.IsPublic), fn.ReturnType})
	}
	if err := render(renderer{format: *format, json: fns, table: table}); err != nil {
		fatalf("writing output: %v", err)
	}
}

func runClasses(args []string, root string) {
	fs := flag.NewFlagSet("classes", flag.ExitOnError)
	path := fs.String("path", root, "File or directory to scan")
	includeNested := fs.Bool("include-nested", false, "Include classes nested inside another class/struct")
	format := fs.String("format", "text", "Output format: text, json, markdown")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: synthia classes [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if err := validateFormat(*format); err != nil {
		fail(err, *format == "json")
	}

	ctx := context.Background()
	az := analyzer.New()
	var syms []location.Symbol
	err := walkSourceFiles(*path, func(file string, _ lang.Language) error {
		found, err := az.FindClasses(ctx, file, *includeNested)
		if err != nil {
			return nil
		}
		syms = append(syms, found...)
		return nil
	})
	if err != nil {
		fail(synerrors.NewNotFoundError("cannot scan path", err.Error(), ""), *format == "json")
	}

	table := output.Table{Headers: []string{"name", "kind", "location"}}
	for _, s := range syms {
		table.Rows = append(table.Rows, []string{s.Name, string(s.Kind), s.Location.String()})
	}
	if err := render(renderer{format: *format, json: syms, table: table}); err != nil {
		fatalf("writing output: %v", err)
	}
}

// fileStats summarizes one file's source-tree analysis for `stats`.
type fileStats struct {
	Path      string `json:"path"`
	Language  string `json:"language"`
	Functions int    `json:"functions"`
	Classes   int    `json:"classes"`
}

func runStats(args []string, root string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	path := fs.String("path", root, "File or directory to scan")
	format := fs.String("format", "text", "Output format: text, json, markdown")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: synthia stats [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if err := validateFormat(*format); err != nil {
		fail(err, *format == "json")
	}

	ctx := context.Background()
	az := analyzer.New()
	var stats []fileStats
	err := walkSourceFiles(*path, func(file string, l lang.Language) error {
		fns, err := az.FindFunctions(ctx, file)
		if err != nil {
			return nil
		}
		classes, err := az.FindClasses(ctx, file, true)
		if err != nil {
			return nil
		}
		stats = append(stats, fileStats{Path: file, Language: l.String(), Functions: len(fns), Classes: len(classes)})
		return nil
	})
	if err != nil {
		fail(synerrors.NewNotFoundError("cannot scan path", err.Error(), ""), *format == "json")
	}

	table := output.Table{Headers: []string{"path", "language", "functions", "classes"}}
	for _, s := range stats {
		table.Rows = append(table.Rows, []string{s.Path, s.Language, strconv.Itoa(s.Functions), strconv.Itoa(s.Classes)})
	}
	if err := render(renderer{format: *format, json: stats, table: table}); err != nil {
		fatalf("writing output: %v", err)
	}
}

func boolStr(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
