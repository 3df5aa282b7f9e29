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

// Package errors provides structured error handling for the synthia CLI
// and agent runtime.
//
// UserError carries a message (what went wrong), a cause (why), a fix
// (how to resolve it), and an exit code from a closed taxonomy. All
// fallible operations that can reach the CLI boundary return a
// *UserError so the CLI can print consistent, actionable output in
// text or JSON.
package errors

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Exit codes, one per error kind.
const (
	ExitSuccess       = 0
	ExitInputError    = 1
	ExitNotFound      = 2
	ExitIndexMissing  = 3
	ExitIndexCorrupt  = 4
	ExitBackendError  = 5
	ExitTransaction   = 6
	ExitSafetyRefusal = 7
	ExitTimeout       = 8
	ExitPermission    = 9
	ExitParseError    = 10
	ExitInternal      = 11
)

// UserError represents an error with structured context for end users.
type UserError struct {
	// Message describes what went wrong.
	Message string
	// Cause explains why it happened.
	Cause string
	// Fix suggests how to resolve it.
	Fix string
	// ExitCode is the process exit code for this error kind.
	ExitCode int
	// Err is the wrapped underlying error, if any.
	Err error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UserError) Unwrap() error { return e.Err }

func newErr(code int) func(msg, cause, fix string, err error) *UserError {
	return func(msg, cause, fix string, err error) *UserError {
		return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: code, Err: err}
	}
}

// NewInputError reports a malformed position, pattern, or unsupported
// operation supplied by the caller.
func NewInputError(msg, cause, fix string) *UserError {
	return newErr(ExitInputError)(msg, cause, fix, nil)
}

// NewNotFoundError reports a missing file, symbol, or empty match set.
func NewNotFoundError(msg, cause, fix string) *UserError {
	return newErr(ExitNotFound)(msg, cause, fix, nil)
}

// NewIndexMissingError reports that no semantic index exists yet.
func NewIndexMissingError(msg, cause string) *UserError {
	return newErr(ExitIndexMissing)(msg, cause, "Run `synthia index` to build the semantic index.", nil)
}

// NewIndexCorruptError reports a semantic index that failed to decode.
func NewIndexCorruptError(msg, cause string, err error) *UserError {
	return newErr(ExitIndexCorrupt)(msg, cause, "Run `synthia index --force` to rebuild the index.", err)
}

// NewBackendError reports an LSP server, external indexer, or
// version-control subprocess failure.
func NewBackendError(msg, cause, fix string, err error) *UserError {
	return newErr(ExitBackendError)(msg, cause, fix, err)
}

// NewTransactionError reports a partial-write failure that triggered
// rollback.
func NewTransactionError(msg, cause, fix string, err error) *UserError {
	return newErr(ExitTransaction)(msg, cause, fix, err)
}

// NewSafetyRefusalError reports that a refactoring precondition was not
// met and nothing was written.
func NewSafetyRefusalError(msg, cause string) *UserError {
	return newErr(ExitSafetyRefusal)(msg, cause, "", nil)
}

// NewTimeoutError reports a shell, LSP, or web-fetch timeout.
func NewTimeoutError(msg, cause, fix string) *UserError {
	return newErr(ExitTimeout)(msg, cause, fix, nil)
}

// NewPermissionError reports a permission-manager denial.
func NewPermissionError(msg, cause string) *UserError {
	return newErr(ExitPermission)(msg, cause, "", nil)
}

// NewParseError reports a JSON parse failure that survived the
// three-stage streamed-tool-argument repair pass.
func NewParseError(msg, cause string, err error) *UserError {
	return newErr(ExitParseError)(msg, cause, "", err)
}

// NewInternalError reports an unexpected internal failure (a bug).
func NewInternalError(msg, cause string, err error) *UserError {
	return newErr(ExitInternal)(msg, cause, "This is a bug; please report it.", err)
}

var (
	colorError = color.New(color.FgRed, color.Bold)
	colorCause = color.New(color.FgYellow)
	colorFix   = color.New(color.FgGreen)
)

// Format renders the error for terminal display, colored unless
// noColor is set or $NO_COLOR is present.
func (e *UserError) Format(noColor bool) string {
	originalNoColor := color.NoColor
	defer func() { color.NoColor = originalNoColor }()
	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	var out strings.Builder
	out.WriteString(colorError.Sprint("Error: "))
	out.WriteString(e.Message)
	out.WriteString("\n")
	if e.Cause != "" {
		out.WriteString(colorCause.Sprint("Cause: "))
		out.WriteString(e.Cause)
		out.WriteString("\n")
	}
	if e.Fix != "" {
		out.WriteString(colorFix.Sprint("Fix:   "))
		out.WriteString(e.Fix)
		out.WriteString("\n")
	}
	return out.String()
}

// JSON is the JSON-serializable shape of a UserError.
type JSON struct {
	Error    string `json:"error"`
	Cause    string `json:"cause,omitempty"`
	Fix      string `json:"fix,omitempty"`
	ExitCode int    `json:"exit_code"`
}

// ToJSON converts the UserError to its JSON shape.
func (e *UserError) ToJSON() JSON {
	return JSON{Error: e.Message, Cause: e.Cause, Fix: e.Fix, ExitCode: e.ExitCode}
}

// Fatal prints err (via Format or JSON) and exits with its code. A nil
// err is a no-op and Fatal returns; otherwise it does not return.
func Fatal(err error, jsonOutput bool) {
	if err == nil {
		return
	}
	if ue, ok := err.(*UserError); ok {
		if jsonOutput {
			enc := json.NewEncoder(os.Stderr)
			enc.SetIndent("", "  ")
			_ = enc.Encode(ue.ToJSON())
		} else {
			fmt.Fprint(os.Stderr, ue.Format(false))
		}
		os.Exit(ue.ExitCode)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(ExitInternal)
}
