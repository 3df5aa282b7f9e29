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

package agent

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	synerrors "github.com/kraklabs/synthia/internal/errors"
)

var (
	fencedBlockRE  = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	whitespaceRE   = regexp.MustCompile(`\s+`)
	trailingCommaRE = regexp.MustCompile(`,(\s*[}\]])`)
)

// parseToolArguments decodes a streamed tool call's accumulated
// argument string into a parameter map, tolerating the ways model
// output deviates from strict JSON. Three strategies are tried in
// order; the first that yields valid JSON wins:
//
//  1. Strict parse of the raw text.
//  2. If the text contains a fenced code block, parse its contents.
//  3. A bounded set of repairs — single quotes to double quotes,
//     collapsed whitespace, trailing commas removed — then one more
//     strict parse.
//
// If all three fail, the error carries both the original input and
// the final repaired attempt for diagnosis.
func parseToolArguments(raw string) (map[string]any, error) {
	if m, ok := strictParse(raw); ok {
		return m, nil
	}

	if block, found := extractFencedBlock(raw); found {
		if m, ok := strictParse(block); ok {
			return m, nil
		}
	}

	repaired := repairJSON(raw)
	if m, ok := strictParse(repaired); ok {
		return m, nil
	}

	return nil, synerrors.NewParseError(
		"could not parse tool call arguments as JSON",
		fmt.Sprintf("original: %q; after repair: %q", raw, repaired),
		nil,
	)
}

func strictParse(s string) (map[string]any, bool) {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, false
	}
	return m, true
}

func extractFencedBlock(s string) (string, bool) {
	match := fencedBlockRE.FindStringSubmatch(s)
	if match == nil {
		return "", false
	}
	return strings.TrimSpace(match[1]), true
}

// repairJSON applies a bounded set of textual repairs: single quotes
// to double quotes, collapsed whitespace, and trailing commas removed
// before a closing brace or bracket. It does not attempt to fully
// validate or re-balance the input.
func repairJSON(s string) string {
	s = strings.ReplaceAll(s, "'", "\"")
	s = whitespaceRE.ReplaceAllString(s, " ")
	s = trailingCommaRE.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}
