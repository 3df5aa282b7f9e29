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
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version and exit")
		mcpServer   = flag.Bool("mcp-server", false, "Run as an MCP tool server over stdio")
		root        = flag.String("root", ".", "Project root directory")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `synthia - code-intelligence toolkit for AI coding agents

Usage:
  synthia <command> [options]

Commands:
  index            Build per-language semantic indexes
  search-ast        Run a tree-sitter capture query over the project
  definition       Find the definition of a symbol at file:line[:col]
  references       Find references to a symbol
  functions        List functions/methods found by source-tree analysis
  classes          List classes/structs/interfaces
  stats            Summarize functions/classes found per file
  watch            Watch the project and re-index on change
  batch-replace    Regex find/replace across a file glob
  rename-symbol    Rename a symbol and its references
  inline-variable  Inline a variable at its declaration
  clear-cache      Delete the on-disk semantic index files
  completion       Generate a shell completion script

Global Options:
  --root         Project root directory (default ".")
  --mcp-server   Run as an MCP tool server over stdio
  --version      Show version and exit

Every command accepts --format {text,json,markdown}; text is the default.

Examples:
  synthia index --languages go --languages python
  synthia definition pkg/query/query.go:51:6
  synthia references pkg/query/query.go:51:6 --include-declarations
  synthia functions --path pkg/query
  synthia rename-symbol pkg/query/query.go 51 6 FindDef --preview
  synthia batch-replace 'foo' 'bar' --files '**/*.go' --preview
  synthia --mcp-server

`)
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("synthia version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
		os.Exit(0)
	}

	if *mcpServer {
		runMCPServer(*root)
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	command, cmdArgs := args[0], args[1:]
	switch command {
	case "index":
		runIndex(cmdArgs, *root)
	case "search-ast":
		runSearchAST(cmdArgs, *root)
	case "definition":
		runDefinition(cmdArgs, *root)
	case "references":
		runReferences(cmdArgs, *root)
	case "functions":
		runFunctions(cmdArgs, *root)
	case "classes":
		runClasses(cmdArgs, *root)
	case "stats":
		runStats(cmdArgs, *root)
	case "watch":
		runWatch(cmdArgs, *root)
	case "batch-replace":
		runBatchReplace(cmdArgs, *root)
	case "rename-symbol":
		runRenameSymbol(cmdArgs, *root)
	case "inline-variable":
		runInlineVariable(cmdArgs, *root)
	case "clear-cache":
		runClearCache(cmdArgs, *root)
	case "completion":
		runCompletion(cmdArgs)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}
