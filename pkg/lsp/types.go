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

// Package lsp is a minimal JSON-RPC 2.0 client for the Language Server
// Protocol, scoped to the operations this client needs: didOpen,
// definition, references, prepareRename, rename, codeAction,
// executeCommand, shutdown.
package lsp

import "encoding/json"

// Position is 0-indexed, matching the wire protocol. Conversion to/from
// synthia's 1-indexed location.Location happens at the client boundary
// (Client.Definition, Client.References, etc.), never inside this file.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

type VersionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
}

type OptionalVersionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version *int   `json:"version,omitempty"`
}

type TextDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int    `json:"version"`
	Text       string `json:"text"`
}

type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

type ReferenceContext struct {
	IncludeDeclaration bool `json:"includeDeclaration"`
}

type ReferenceParams struct {
	TextDocumentPositionParams
	Context ReferenceContext `json:"context"`
}

type RenameParams struct {
	TextDocumentPositionParams
	NewName string `json:"newName"`
}

type PrepareRenameParams = TextDocumentPositionParams

type CodeActionContext struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
}

type CodeActionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Range        Range                  `json:"range"`
	Context      CodeActionContext      `json:"context"`
}

type ExecuteCommandParams struct {
	Command   string            `json:"command"`
	Arguments []json.RawMessage `json:"arguments,omitempty"`
}

type Diagnostic struct {
	Range   Range  `json:"range"`
	Message string `json:"message"`
}

type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

// LocationLink is accepted in definition responses but its extra fields
// (origin/target selection ranges) are ignored — the
// minimal implementation treats it as an empty result rather than
// decoding it fully.
type LocationLink struct {
	TargetURI   string `json:"targetUri"`
	TargetRange Range  `json:"targetRange"`
}

type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

type TextDocumentEdit struct {
	TextDocument OptionalVersionedTextDocumentIdentifier `json:"textDocument"`
	Edits        []TextEdit                              `json:"edits"`
}

// WorkspaceEdit accepts both the legacy `changes` map and the
// `documentChanges` list form.
type WorkspaceEdit struct {
	Changes         map[string][]TextEdit `json:"changes,omitempty"`
	DocumentChanges []TextDocumentEdit    `json:"documentChanges,omitempty"`
}

// PerFile flattens a WorkspaceEdit into file URI -> ordered TextEdits,
// preferring documentChanges over changes when both are present
// (documentChanges takes precedence over the legacy changes map).
func (w WorkspaceEdit) PerFile() map[string][]TextEdit {
	out := make(map[string][]TextEdit)
	if len(w.DocumentChanges) > 0 {
		for _, dc := range w.DocumentChanges {
			out[dc.TextDocument.URI] = append(out[dc.TextDocument.URI], dc.Edits...)
		}
		return out
	}
	for uri, edits := range w.Changes {
		out[uri] = edits
	}
	return out
}

// ClientCapabilities is the fixed capability declaration sent on
// initialize: definition, references, rename, prepareRename, and
// codeAction support, no dynamic registration, no link support.
type ClientCapabilities struct {
	TextDocument TextDocumentClientCapabilities `json:"textDocument"`
}

type TextDocumentClientCapabilities struct {
	Definition DynamicCapability `json:"definition"`
	References DynamicCapability `json:"references"`
	Rename     RenameCapability  `json:"rename"`
	CodeAction DynamicCapability `json:"codeAction"`
}

type DynamicCapability struct {
	DynamicRegistration bool `json:"dynamicRegistration"`
	LinkSupport         bool `json:"linkSupport,omitempty"`
}

type RenameCapability struct {
	DynamicRegistration bool `json:"dynamicRegistration"`
	PrepareSupport      bool `json:"prepareSupport"`
}

type InitializeParams struct {
	ProcessID    *int               `json:"processId"`
	RootURI      string             `json:"rootUri"`
	Capabilities ClientCapabilities `json:"capabilities"`
}

type ServerCapabilities struct {
	DefinitionProvider bool `json:"definitionProvider"`
	ReferencesProvider bool `json:"referencesProvider"`
	RenameProvider     any  `json:"renameProvider"`
	CodeActionProvider any  `json:"codeActionProvider"`
}

type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
}
