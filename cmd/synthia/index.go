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
	"github.com/kraklabs/synthia/pkg/project"
)

// indexReport is one language's indexing outcome, for --format json.
type indexReport struct {
	Language string `json:"language"`
	Indexed  bool   `json:"indexed"`
	Error    string `json:"error,omitempty"`
}

func runIndex(args []string, root string) {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	autoInstall := fs.Bool("auto-install", false, "Install a missing indexer binary automatically")
	languages := fs.StringArray("languages", nil, "Restrict indexing to these languages (repeatable)")
	format := fs.String("format", "text", "Output format: text, json, markdown")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: synthia index [options]

Builds a per-language semantic index (index.<lang>.scip) for every
detected language in the project, or only the languages named by
--languages.

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

	targets := toLanguages(*languages)
	if len(targets) == 0 {
		targets = project.DetectLanguages(root)
	}
	if len(targets) == 0 {
		fail(synerrors.NewInputError("no supported languages detected", root, "Pass --languages explicitly."), *format == "json")
	}

	ctx := context.Background()
	bar := newIndexProgress(len(targets), *format == "json")
	var reports []indexReport
	for _, l := range targets {
		_, err := project.Reindex(ctx, root, l, *autoInstall, nil)
		rep := indexReport{Language: l.String(), Indexed: err == nil}
		if err != nil {
			rep.Error = err.Error()
		}
		reports = append(reports, rep)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	table := output.Table{Headers: []string{"language", "indexed", "error"}}
	for _, r := range reports {
		status := "yes"
		if !r.Indexed {
			status = "no"
		}
		table.Rows = append(table.Rows, []string{r.Language, status, r.Error})
	}
	if err := render(renderer{format: *format, json: reports, table: table}); err != nil {
		fatalf("writing output: %v", err)
	}
}

func toLanguages(names []string) []lang.Language {
	out := make([]lang.Language, 0, len(names))
	for _, n := range names {
		out = append(out, lang.Language(n))
	}
	return out
}
