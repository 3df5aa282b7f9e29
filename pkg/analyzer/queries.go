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

package analyzer

import "github.com/kraklabs/synthia/pkg/lang"

// functionQueries is the per-language capture-query string for
// find_functions. These strings are part of the observable contract:
// they determine which constructs are "found".
var functionQueries = map[lang.Language]string{
	lang.Rust:       `(function_item name: (identifier) @name) @func`,
	lang.TypeScript: `[(function_declaration name: (identifier) @name) (method_definition name: (property_identifier) @name) (arrow_function) @arrow] @func`,
	lang.JavaScript: `[(function_declaration name: (identifier) @name) (method_definition name: (property_identifier) @name) (arrow_function) @arrow] @func`,
	lang.Python:     `(function_definition name: (identifier) @name) @func`,
	lang.Go:         `[(function_declaration name: (identifier) @name) (method_declaration name: (field_identifier) @name)] @func`,
	lang.Java:       `(method_declaration name: (identifier) @name) @func`,
}

// classQueries is the per-language capture-query for
// find_classes/structs/interfaces.
var classQueries = map[lang.Language]string{
	lang.Rust:       `[(struct_item name: (type_identifier) @name) (enum_item name: (type_identifier) @name) (trait_item name: (type_identifier) @name)] @class`,
	lang.TypeScript: `[(class_declaration name: (type_identifier) @name) (interface_declaration name: (type_identifier) @name)] @class`,
	lang.JavaScript: `(class_declaration name: (identifier) @name) @class`,
	lang.Python:     `(class_definition name: (identifier) @name) @class`,
	lang.Go:         `(type_declaration (type_spec name: (type_identifier) @name)) @class`,
	lang.Java:       `[(class_declaration name: (identifier) @name) (interface_declaration name: (identifier) @name)] @class`,
	lang.C:          `[(struct_specifier name: (type_identifier) @name)] @class`,
	lang.Cpp:        `[(class_specifier name: (type_identifier) @name) (struct_specifier name: (type_identifier) @name)] @class`,
}

// importQueries is the per-language capture-query for import/use/include
// statements. No function in this package runs it, and pkg/imports
// finds statements with its own parsing rather than through this table.
var importQueries = map[lang.Language]string{
	lang.Rust:       `(use_declaration) @import`,
	lang.TypeScript: `(import_statement) @import`,
	lang.JavaScript: `(import_statement) @import`,
	lang.Python:     `[(import_statement) (import_from_statement)] @import`,
	lang.C:          `(preproc_include) @import`,
	lang.Cpp:        `(preproc_include) @import`,
}

// classContainerKinds lists the node kinds the analyzer considers
// "itself a class/struct" for include_nested filtering.
var classContainerKinds = map[lang.Language]map[string]bool{
	lang.Rust:       {"struct_item": true, "enum_item": true, "trait_item": true},
	lang.TypeScript: {"class_declaration": true, "interface_declaration": true},
	lang.JavaScript: {"class_declaration": true},
	lang.Python:     {"class_definition": true},
	lang.Go:         {"type_declaration": true},
	lang.Java:       {"class_declaration": true, "interface_declaration": true},
	lang.C:          {"struct_specifier": true},
	lang.Cpp:        {"class_specifier": true, "struct_specifier": true},
}
