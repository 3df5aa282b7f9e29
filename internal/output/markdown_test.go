// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestMarkdownTo_EmptyTable(t *testing.T) {
	var buf bytes.Buffer
	if err := MarkdownTo(&buf, Table{Headers: []string{"name"}}); err != nil {
		t.Fatalf("MarkdownTo: %v", err)
	}
	if got := buf.String(); got != "No results.\n" {
		t.Errorf("got %q", got)
	}
}

func TestMarkdownTo_RendersTableWithSeparatorRow(t *testing.T) {
	var buf bytes.Buffer
	table := Table{
		Headers: []string{"name", "kind"},
		Rows:    [][]string{{"NewPipeline", "function"}},
	}
	if err := MarkdownTo(&buf, table); err != nil {
		t.Fatalf("MarkdownTo: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %v", len(lines), lines)
	}
	if lines[0] != "| name | kind |" {
		t.Errorf("header row: %q", lines[0])
	}
	if lines[1] != "| --- | --- |" {
		t.Errorf("separator row: %q", lines[1])
	}
	if lines[2] != "| NewPipeline | function |" {
		t.Errorf("data row: %q", lines[2])
	}
}

func TestMarkdownTo_EscapesPipeInCell(t *testing.T) {
	var buf bytes.Buffer
	table := Table{
		Headers: []string{"text"},
		Rows:    [][]string{{"a|b"}},
	}
	if err := MarkdownTo(&buf, table); err != nil {
		t.Fatalf("MarkdownTo: %v", err)
	}
	if !strings.Contains(buf.String(), `a\|b`) {
		t.Errorf("expected escaped pipe, got: %s", buf.String())
	}
}
