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

package imports

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	path    string
	content string
}

func (f *fakeTx) AddOperation(path, original, newContent string) error {
	f.path = path
	f.content = newContent
	return nil
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFindTSJS_NamedDefaultNamespaceSideEffect(t *testing.T) {
	src := `import './polyfill';
import React from 'react';
import * as path from 'path';
import { useState, useEffect as useFx } from 'react';

export const x = 1;
`
	path := writeTemp(t, "a.ts", src)
	stmts, err := Find(path)
	require.NoError(t, err)
	require.Len(t, stmts, 4)

	assert.Equal(t, KindSideEffect, stmts[0].Kind)
	assert.Equal(t, "./polyfill", stmts[0].Source)

	assert.Equal(t, KindDefault, stmts[1].Kind)
	assert.Equal(t, "react", stmts[1].Source)
	assert.Equal(t, "React", stmts[1].Symbols[0].Name)

	assert.Equal(t, KindNamespace, stmts[2].Kind)
	assert.Equal(t, "path", stmts[2].Symbols[0].Name)

	assert.Equal(t, KindNamed, stmts[3].Kind)
	require.Len(t, stmts[3].Symbols, 2)
	assert.Equal(t, "useEffect", stmts[3].Symbols[1].Name)
	assert.Equal(t, "useFx", stmts[3].Symbols[1].Alias)
}

func TestFindTSJS_Require(t *testing.T) {
	path := writeTemp(t, "a.js", "const fs = require('fs');\n")
	stmts, err := Find(path)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Equal(t, KindRequire, stmts[0].Kind)
	assert.Equal(t, "fs", stmts[0].Source)
}

func TestRemoveBySymbol_TSJS(t *testing.T) {
	src := "import { useState, useEffect } from 'react';\nimport path from 'path';\n"
	path := writeTemp(t, "a.ts", src)
	tx := &fakeTx{}
	require.NoError(t, RemoveBySymbol(path, "useEffect", tx))
	assert.NotContains(t, tx.content, "useEffect")
	assert.Contains(t, tx.content, "import path from 'path';")
}

func TestRenameTSJS_UpdatesNamedImport(t *testing.T) {
	src := "import { oldName } from './mod';\n"
	path := writeTemp(t, "a.ts", src)
	tx := &fakeTx{}
	require.NoError(t, Rename(path, "oldName", "newName", tx))
	assert.Contains(t, tx.content, "import { newName } from './mod';")
}

func TestFindPython_SimpleFromWildcard(t *testing.T) {
	src := `import os
import numpy as np
from collections import OrderedDict, defaultdict as dd
from typing import *
`
	path := writeTemp(t, "a.py", src)
	stmts, err := Find(path)
	require.NoError(t, err)
	require.Len(t, stmts, 4)

	assert.Equal(t, KindSimple, stmts[0].Kind)
	assert.Equal(t, "os", stmts[0].Source)

	assert.Equal(t, "numpy", stmts[1].Symbols[0].Name)
	assert.Equal(t, "np", stmts[1].Symbols[0].Alias)

	assert.Equal(t, KindFrom, stmts[2].Kind)
	assert.Equal(t, "collections", stmts[2].Source)
	require.Len(t, stmts[2].Symbols, 2)
	assert.Equal(t, "dd", stmts[2].Symbols[1].Alias)

	assert.Equal(t, KindWildcard, stmts[3].Kind)
	assert.Equal(t, "typing", stmts[3].Source)
}

func TestRenamePython_UpdatesFromImport(t *testing.T) {
	path := writeTemp(t, "a.py", "from collections import OrderedDict\n")
	tx := &fakeTx{}
	require.NoError(t, Rename(path, "OrderedDict", "OrderedMap", tx))
	assert.Contains(t, tx.content, "from collections import OrderedMap")
}

func TestFindRust_NestedGroupAndRename(t *testing.T) {
	src := "use std::collections::{HashMap, HashSet as Set};\nuse std::fmt;\n"
	path := writeTemp(t, "a.rs", src)
	stmts, err := Find(path)
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	assert.Equal(t, KindUse, stmts[0].Kind)
	require.Len(t, stmts[0].Symbols, 2)
	assert.Equal(t, "std::collections::HashMap", stmts[0].Symbols[0].Name)
	assert.Equal(t, "std::collections::HashSet", stmts[0].Symbols[1].Name)
	assert.Equal(t, "Set", stmts[0].Symbols[1].Alias)

	tx := &fakeTx{}
	require.NoError(t, Rename(path, "std::collections::HashMap", "std::collections::BTreeMap", tx))
	assert.Contains(t, tx.content, "BTreeMap")
}

func TestFindC_SystemAndLocalIncludes(t *testing.T) {
	src := "#include <stdio.h>\n#include \"local.h\"\n"
	path := writeTemp(t, "a.c", src)
	stmts, err := Find(path)
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	assert.Equal(t, "stdio.h", stmts[0].Source)
	assert.Equal(t, "local.h", stmts[1].Source)
}

func TestRewritePathC_PreservesQuoteStyle(t *testing.T) {
	path := writeTemp(t, "a.c", "#include \"old.h\"\n")
	tx := &fakeTx{}
	require.NoError(t, RewritePath(path, "old.h", "new.h", tx))
	assert.Equal(t, "#include \"new.h\"\n", tx.content)
}

func TestAddTSJS_InsertsAfterLastImport(t *testing.T) {
	path := writeTemp(t, "a.ts", "import a from 'a';\n\nconst x = 1;\n")
	tx := &fakeTx{}
	require.NoError(t, Add(path, "b", []Symbol{{Name: "b"}}, KindNamed, tx))
	assert.Contains(t, tx.content, "import { b } from \"b\";")
}
