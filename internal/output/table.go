// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package output

// Table is a generic tabular result: column headers plus string rows.
// CLI verbs that return slices of structured records (locations,
// symbols, references) convert their typed result into a Table before
// handing it to Text or Markdown; --format json instead encodes the
// typed result directly, so no information is lost to stringification.
type Table struct {
	Headers []string
	Rows    [][]string
}
