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

// Package main implements the synthia CLI: a code-intelligence tool
// over source-tree analysis, the semantic index, the LSP client, and
// the refactoring engine, plus an MCP server mode exposing the same
// operations as tools for an LLM agent.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	synerrors "github.com/kraklabs/synthia/internal/errors"
	"github.com/kraklabs/synthia/internal/output"
)

// renderer bundles a verb's result in both of the shapes output needs:
// the typed value for --format json, and a flattened Table for
// --format text/markdown.
type renderer struct {
	format string
	json   any
	table  output.Table
}

func render(r renderer) error {
	switch r.format {
	case "json":
		return output.JSON(r.json)
	case "markdown":
		return output.Markdown(r.table)
	default:
		return output.Text(r.table)
	}
}

func validateFormat(format string) error {
	switch format {
	case "text", "json", "markdown":
		return nil
	default:
		return synerrors.NewInputError(
			"invalid --format value",
			fmt.Sprintf("%q is not one of text, json, markdown", format),
			"Pass --format text, --format json, or --format markdown.",
		)
	}
}

// parseLocation splits "file:line[:col]" into its parts. Column
// defaults to 1 when omitted.
func parseLocation(spec string) (file string, line, col int, err error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return "", 0, 0, synerrors.NewInputError(
			"invalid location",
			fmt.Sprintf("%q is not file:line[:col]", spec),
			"Pass a location like path/to/file.go:42 or path/to/file.go:42:7.",
		)
	}
	file = parts[0]
	line, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, 0, synerrors.NewInputError("invalid location", "line is not a number", "")
	}
	col = 1
	if len(parts) == 3 {
		col, err = strconv.Atoi(parts[2])
		if err != nil {
			return "", 0, 0, synerrors.NewInputError("invalid location", "column is not a number", "")
		}
	}
	return file, line, col, nil
}

// fail prints err (respecting --format json) and exits with its code.
func fail(err error, jsonOutput bool) {
	synerrors.Fatal(err, jsonOutput)
}

// isNotFound reports whether err is the "no matches" signal a lookup
// raises. The CLI boundary treats this as a successful empty result
// (exit 0), not a failure, distinguishing absence from error.
func isNotFound(err error) bool {
	ue, ok := err.(*synerrors.UserError)
	return ok && ue.ExitCode == synerrors.ExitNotFound
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(synerrors.ExitInputError)
}
