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

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/synthia/internal/output"
	"github.com/kraklabs/synthia/pkg/lang"
	"github.com/kraklabs/synthia/pkg/project"
)

// knownLanguages lists every language synthia can index, independent
// of what's currently detected in the tree — a stale index left behind
// by a removed toolchain should still be cleared.
var knownLanguages = []lang.Language{
	lang.Rust, lang.TypeScript, lang.JavaScript, lang.Python,
	lang.Go, lang.Java, lang.C, lang.Cpp, lang.Swift,
}

func runClearCache(args []string, root string) {
	fs := flag.NewFlagSet("clear-cache", flag.ExitOnError)
	confirm := fs.Bool("yes", false, "Confirm deletion (required)")
	format := fs.String("format", "text", "Output format: text, json, markdown")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: synthia clear-cache --yes [options]

Deletes the project's on-disk semantic indexes (index.<language>.scip
and their .meta stamps, plus the legacy index.scip) so the next index
or query rebuilds from scratch.

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

	paths := []string{project.LegacyIndexPath(root)}
	for _, l := range knownLanguages {
		paths = append(paths, project.IndexPath(root, l))
	}

	var removed []string
	for _, p := range paths {
		for _, candidate := range []string{p, p + ".meta"} {
			if _, err := os.Stat(candidate); err == nil {
				removed = append(removed, candidate)
			}
		}
	}

	if len(removed) == 0 {
		table := output.Table{Headers: []string{"path"}}
		if err := render(renderer{format: *format, json: struct {
			Removed []string `json:"removed"`
		}{Removed: nil}, table: table}); err != nil {
			fatalf("writing output: %v", err)
		}
		return
	}

	if !*confirm {
		fmt.Fprintf(os.Stderr, "This will delete %d cached index file(s):\n", len(removed))
		for _, p := range removed {
			fmt.Fprintf(os.Stderr, "  %s\n", p)
		}
		fmt.Fprintln(os.Stderr, "Pass --yes to confirm.")
		os.Exit(1)
	}

	for _, p := range removed {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			fatalf("removing %s: %v", p, err)
		}
	}

	table := output.Table{Headers: []string{"path"}}
	for _, p := range removed {
		table.Rows = append(table.Rows, []string{p})
	}
	if err := render(renderer{format: *format, json: struct {
		Removed []string `json:"removed"`
	}{Removed: removed}, table: table}); err != nil {
		fatalf("writing output: %v", err)
	}
}
