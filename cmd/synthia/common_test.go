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
	"errors"
	"testing"

	synerrors "github.com/kraklabs/synthia/internal/errors"
)

func TestParseLocation_FileLineOnly(t *testing.T) {
	file, line, col, err := parseLocation("pkg/query/query.go:51")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file != "pkg/query/query.go" || line != 51 || col != 1 {
		t.Fatalf("got file=%q line=%d col=%d", file, line, col)
	}
}

func TestParseLocation_FileLineColumn(t *testing.T) {
	file, line, col, err := parseLocation("pkg/query/query.go:51:6")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file != "pkg/query/query.go" || line != 51 || col != 6 {
		t.Fatalf("got file=%q line=%d col=%d", file, line, col)
	}
}

func TestParseLocation_RejectsMissingLine(t *testing.T) {
	if _, _, _, err := parseLocation("pkg/query/query.go"); err == nil {
		t.Fatal("expected an error for a spec with no line")
	}
}

func TestParseLocation_RejectsNonNumericLine(t *testing.T) {
	if _, _, _, err := parseLocation("pkg/query/query.go:abc"); err == nil {
		t.Fatal("expected an error for a non-numeric line")
	}
}

func TestIsNotFound_MatchesNotFoundExitCode(t *testing.T) {
	err := synerrors.NewNotFoundError("no definition found", "", "")
	if !isNotFound(err) {
		t.Fatal("expected isNotFound to report true for a NotFoundError")
	}
}

func TestIsNotFound_FalseForOtherErrors(t *testing.T) {
	if isNotFound(errors.New("boom")) {
		t.Fatal("expected isNotFound to report false for a plain error")
	}
	if isNotFound(synerrors.NewInputError("bad input", "", "")) {
		t.Fatal("expected isNotFound to report false for an InputError")
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"text", "json", "markdown"} {
		if err := validateFormat(f); err != nil {
			t.Fatalf("expected %q to be valid, got %v", f, err)
		}
	}
	if err := validateFormat("yaml"); err == nil {
		t.Fatal("expected an error for an unsupported format")
	}
}

func TestMatchesExtensions_EmptyAllowListMatchesEverything(t *testing.T) {
	if !matchesExtensions("main.go", nil) {
		t.Fatal("expected an empty allow list to match any file")
	}
}

func TestMatchesExtensions_FiltersByExtension(t *testing.T) {
	if !matchesExtensions("main.go", []string{"go"}) {
		t.Fatal("expected main.go to match extension go")
	}
	if matchesExtensions("main.py", []string{"go"}) {
		t.Fatal("expected main.py not to match extension go")
	}
}
