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

	synerrors "github.com/kraklabs/synthia/internal/errors"
)

const bashCompletionTemplate = `#!/bin/bash
# Bash completion for synthia.
# Installation:
#   source <(synthia completion bash)

_synthia_completion() {
    local cur prev commands
    commands="index search-ast definition references functions classes stats watch batch-replace rename-symbol inline-variable clear-cache completion"

    cur="${COMP_WORDS[COMP_CWORD]}"

    if [[ ${cur} == -* ]] ; then
        COMPREPLY=( $(compgen -W "--version --mcp-server --root --format" -- ${cur}) )
        return 0
    fi

    if [ $COMP_CWORD -eq 1 ]; then
        COMPREPLY=( $(compgen -W "${commands}" -- ${cur}) )
        return 0
    fi

    local cmd="${COMP_WORDS[1]}"
    case "${cmd}" in
        index)
            COMPREPLY=( $(compgen -W "--auto-install --languages --format" -- ${cur}) )
            ;;
        search-ast)
            COMPREPLY=( $(compgen -W "--path --extensions --max-results --format" -- ${cur}) )
            ;;
        references)
            COMPREPLY=( $(compgen -W "--include-declarations --format" -- ${cur}) )
            ;;
        functions)
            COMPREPLY=( $(compgen -W "--path --include-private --format" -- ${cur}) )
            ;;
        classes)
            COMPREPLY=( $(compgen -W "--path --include-nested --format" -- ${cur}) )
            ;;
        stats)
            COMPREPLY=( $(compgen -W "--path --format" -- ${cur}) )
            ;;
        watch)
            COMPREPLY=( $(compgen -W "--debounce --auto-install" -- ${cur}) )
            ;;
        batch-replace)
            COMPREPLY=( $(compgen -W "--path --files --preview --format" -- ${cur}) )
            ;;
        rename-symbol)
            COMPREPLY=( $(compgen -W "--preview --update-imports --format" -- ${cur}) )
            ;;
        inline-variable)
            COMPREPLY=( $(compgen -W "--preview --format" -- ${cur}) )
            ;;
        clear-cache)
            COMPREPLY=( $(compgen -W "--yes --format" -- ${cur}) )
            ;;
        completion)
            if [ $COMP_CWORD -eq 2 ]; then
                COMPREPLY=( $(compgen -W "bash zsh fish" -- ${cur}) )
            fi
            ;;
    esac
}

complete -F _synthia_completion synthia
`

const zshCompletionTemplate = `#compdef synthia

_synthia() {
    local -a commands
    commands=(
        'index:Build per-language semantic indexes'
        'search-ast:Run a tree-sitter capture query'
        'definition:Find a symbol definition'
        'references:Find references to a symbol'
        'functions:List functions/methods'
        'classes:List classes/structs/interfaces'
        'stats:Summarize functions/classes per file'
        'watch:Watch the project and re-index on change'
        'batch-replace:Regex find/replace across a glob'
        'rename-symbol:Rename a symbol and its references'
        'inline-variable:Inline a variable at its declaration'
        'clear-cache:Clear the on-disk semantic index'
        'completion:Generate shell completion script'
    )

    _arguments -C \
        '(- *)--version[Show version and exit]' \
        '--mcp-server[Run as an MCP tool server over stdio]' \
        '--root[Project root directory]:directory:_files -/' \
        '1: :->command' \
        '*:: :->args'

    case $state in
        command)
            _describe 'command' commands
            ;;
        args)
            case $words[1] in
                index)
                    _arguments '--auto-install' '--languages:language:' '--format:format:(text json markdown)'
                    ;;
                search-ast)
                    _arguments '--path:path:_files' '--extensions:ext:' '--max-results:n:' '--format:format:(text json markdown)'
                    ;;
                references)
                    _arguments '--include-declarations' '--format:format:(text json markdown)'
                    ;;
                functions)
                    _arguments '--path:path:_files' '--include-private' '--format:format:(text json markdown)'
                    ;;
                classes)
                    _arguments '--path:path:_files' '--include-nested' '--format:format:(text json markdown)'
                    ;;
                stats)
                    _arguments '--path:path:_files' '--format:format:(text json markdown)'
                    ;;
                watch)
                    _arguments '--debounce:duration:' '--auto-install'
                    ;;
                batch-replace)
                    _arguments '--path:path:_files' '--files:glob:' '--preview' '--format:format:(text json markdown)'
                    ;;
                rename-symbol)
                    _arguments '--preview' '--update-imports' '--format:format:(text json markdown)'
                    ;;
                inline-variable)
                    _arguments '--preview' '--format:format:(text json markdown)'
                    ;;
                clear-cache)
                    _arguments '--yes' '--format:format:(text json markdown)'
                    ;;
                completion)
                    _arguments '1:shell:(bash zsh fish)'
                    ;;
            esac
            ;;
    esac
}

_synthia
`

const fishCompletionTemplate = `# Fish completion for synthia.
# Installation:
#   synthia completion fish | source

complete -c synthia -f -n "__fish_use_subcommand" -a "index" -d "Build per-language semantic indexes"
complete -c synthia -f -n "__fish_use_subcommand" -a "search-ast" -d "Run a tree-sitter capture query"
complete -c synthia -f -n "__fish_use_subcommand" -a "definition" -d "Find a symbol definition"
complete -c synthia -f -n "__fish_use_subcommand" -a "references" -d "Find references to a symbol"
complete -c synthia -f -n "__fish_use_subcommand" -a "functions" -d "List functions/methods"
complete -c synthia -f -n "__fish_use_subcommand" -a "classes" -d "List classes/structs/interfaces"
complete -c synthia -f -n "__fish_use_subcommand" -a "stats" -d "Summarize functions/classes per file"
complete -c synthia -f -n "__fish_use_subcommand" -a "watch" -d "Watch the project and re-index on change"
complete -c synthia -f -n "__fish_use_subcommand" -a "batch-replace" -d "Regex find/replace across a glob"
complete -c synthia -f -n "__fish_use_subcommand" -a "rename-symbol" -d "Rename a symbol and its references"
complete -c synthia -f -n "__fish_use_subcommand" -a "inline-variable" -d "Inline a variable at its declaration"
complete -c synthia -f -n "__fish_use_subcommand" -a "clear-cache" -d "Clear the on-disk semantic index"
complete -c synthia -f -n "__fish_use_subcommand" -a "completion" -d "Generate shell completion script"

complete -c synthia -l version -d "Show version and exit"
complete -c synthia -l mcp-server -d "Run as an MCP tool server over stdio"
complete -c synthia -l root -d "Project root directory" -r

complete -c synthia -n "__fish_seen_subcommand_from completion" -f -a "bash" -d "Generate bash completion script"
complete -c synthia -n "__fish_seen_subcommand_from completion" -f -a "zsh" -d "Generate zsh completion script"
complete -c synthia -n "__fish_seen_subcommand_from completion" -f -a "fish" -d "Generate fish completion script"
`

func runCompletion(args []string) {
	fs := flag.NewFlagSet("completion", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: synthia completion <shell>

Generates a completion script for bash, zsh, or fish.

Examples:
  source <(synthia completion bash)
  synthia completion zsh > "${fpath[1]}/_synthia"
  synthia completion fish | source
`)
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(synerrors.ExitInputError)
	}

	switch fs.Arg(0) {
	case "bash":
		fmt.Print(bashCompletionTemplate)
	case "zsh":
		fmt.Print(zshCompletionTemplate)
	case "fish":
		fmt.Print(fishCompletionTemplate)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shell %q: must be bash, zsh, or fish\n", fs.Arg(0))
		os.Exit(synerrors.ExitInputError)
	}
}
