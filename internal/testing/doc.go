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

// Package testing provides fixture builders shared by this module's
// test suites: writing a minimal hand-encoded SCIP index to a temp
// project directory so pkg/scip, pkg/query, and pkg/agent tests can
// exercise real file-reading code paths without a real indexer
// binary.
//
// # Quick start
//
//	func TestMyFeature(t *testing.T) {
//	    dir := testing.WriteFixtureProject(t, testing.FixtureDoc{
//	        Path: "pkg/foo/foo.go",
//	        Symbols: []testing.FixtureSymbol{
//	            {Symbol: "pkg/foo.Bar().", Documentation: "Bar does a thing."},
//	        },
//	        Occurrences: []testing.FixtureOccurrence{
//	            {Range: [4]int32{0, 5, 0, 12}, Symbol: "pkg/foo.Bar().", Definition: true},
//	            {Range: [4]int32{3, 2, 3, 5}, Symbol: "pkg/foo.Bar()."},
//	        },
//	    })
//
//	    set, err := scip.FromProject(dir)
//	    // ...
//	}
package testing
