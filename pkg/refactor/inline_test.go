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

package refactor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/synthia/pkg/lang"
)

func writeInlineTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInline_TSConstSimpleUsage(t *testing.T) {
	src := `function run() {
  const greeting = "hello";
  console.log(greeting);
  return greeting;
}
`
	path := writeInlineTemp(t, "a.ts", src)
	res, err := Inline(context.Background(), nil, InlineRequest{
		File: path, Line: 2, Column: 9, Language: lang.TypeScript,
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(out), `console.log("hello")`)
	assert.Contains(t, string(out), `return "hello"`)
	assert.NotContains(t, string(out), "const greeting")
}

func TestInline_TSLetRefusesMutable(t *testing.T) {
	src := `function run() {
  let count = 1;
  console.log(count);
}
`
	path := writeInlineTemp(t, "a.ts", src)
	_, err := Inline(context.Background(), nil, InlineRequest{
		File: path, Line: 2, Column: 7, Language: lang.TypeScript,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutable")
}

func TestInline_TSConstRefusesSideEffect(t *testing.T) {
	src := `function run() {
  const value = compute();
  console.log(value);
}
`
	path := writeInlineTemp(t, "a.ts", src)
	_, err := Inline(context.Background(), nil, InlineRequest{
		File: path, Line: 2, Column: 9, Language: lang.TypeScript,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "side effects")
}

func TestInline_TSConstRefusesUnused(t *testing.T) {
	src := `function run() {
  const unused = 1;
  return 0;
}
`
	path := writeInlineTemp(t, "a.ts", src)
	_, err := Inline(context.Background(), nil, InlineRequest{
		File: path, Line: 2, Column: 9, Language: lang.TypeScript,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "never used")
}

func TestInline_TSParenthesizesArithmeticInitializer(t *testing.T) {
	src := `function run(a, b) {
  const sum = a + b;
  return sum * 2;
}
`
	path := writeInlineTemp(t, "a.ts", src)
	_, err := Inline(context.Background(), nil, InlineRequest{
		File: path, Line: 2, Column: 9, Language: lang.TypeScript,
	})
	require.NoError(t, err)

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(out), "(a + b) * 2")
}

func TestInline_PreviewDoesNotWrite(t *testing.T) {
	src := `function run() {
  const greeting = "hello";
  console.log(greeting);
}
`
	path := writeInlineTemp(t, "a.ts", src)
	res, err := Inline(context.Background(), nil, InlineRequest{
		File: path, Line: 2, Column: 9, Language: lang.TypeScript, Preview: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Changes)

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, src, string(out))
}

func TestInline_RustImmutableLet(t *testing.T) {
	src := `fn run() {
    let total = 42;
    println!("{}", total);
}
`
	path := writeInlineTemp(t, "a.rs", src)
	_, err := Inline(context.Background(), nil, InlineRequest{
		File: path, Line: 2, Column: 9, Language: lang.Rust,
	})
	require.NoError(t, err)

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(out), `println!("{}", 42)`)
	assert.NotContains(t, string(out), "let total")
}

func TestInline_RustMutRefusesMutable(t *testing.T) {
	src := `fn run() {
    let mut total = 42;
    println!("{}", total);
}
`
	path := writeInlineTemp(t, "a.rs", src)
	_, err := Inline(context.Background(), nil, InlineRequest{
		File: path, Line: 2, Column: 13, Language: lang.Rust,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutable")
}

func TestInline_PythonAlwaysRefusesMutable(t *testing.T) {
	src := `def run():
    total = 42
    print(total)
`
	path := writeInlineTemp(t, "a.py", src)
	_, err := Inline(context.Background(), nil, InlineRequest{
		File: path, Line: 2, Column: 5, Language: lang.Python,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutable")
}

func TestInline_CConstSimpleUsage(t *testing.T) {
	src := `int run(void) {
    const int limit = 10;
    return limit + 1;
}
`
	path := writeInlineTemp(t, "a.c", src)
	_, err := Inline(context.Background(), nil, InlineRequest{
		File: path, Line: 2, Column: 15, Language: lang.C,
	})
	require.NoError(t, err)

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(out), "return 10 + 1")
	assert.NotContains(t, string(out), "const int limit")
}
