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
	"os"
	"path/filepath"

	"github.com/kraklabs/synthia/internal/ignore"
	"github.com/kraklabs/synthia/pkg/lang"
)

// walkSourceFiles calls fn for every file under path that the analyzer
// can parse (a known language by extension), skipping ignored
// directories. If path names a single file, fn runs once for it
// directly regardless of extension.
func walkSourceFiles(path string, fn func(file string, l lang.Language) error) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fn(path, lang.FromExtension(path))
	}

	matcher, err := ignore.New(path)
	if err != nil {
		return err
	}
	return matcher.Walk(path, func(file string, _ os.FileInfo) error {
		l := lang.FromExtension(file)
		if !l.IsKnown() {
			return nil
		}
		return fn(file, l)
	})
}

// matchesExtensions reports whether file's extension is in the allow
// list, or always true if the list is empty.
func matchesExtensions(file string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := filepath.Ext(file)
	for _, e := range extensions {
		if e == ext || "."+e == ext {
			return true
		}
	}
	return false
}
