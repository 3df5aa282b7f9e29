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

package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/kraklabs/synthia/pkg/location"
)

// Client owns one spawned language-server subprocess and its stdio
// handles exclusively.
type Client struct {
	cmd          *exec.Cmd
	stdin        io.WriteCloser
	transport    *transport
	rootURI      string
	capabilities ServerCapabilities
	openDocs     map[string]int // uri -> version, for didOpen idempotency
}

// Start spawns command (e.g. "gopls", []string{"serve"}), sends
// initialize with root as the project root, and completes the
// initialize/initialized handshake.
func Start(ctx context.Context, root string, command string, args ...string) (*Client, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("lsp: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("lsp: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("lsp: spawning %s: %w", command, err)
	}

	c := &Client{
		cmd:      cmd,
		stdin:    stdin,
		rootURI:  pathToURI(root),
		openDocs: make(map[string]int),
	}
	c.transport = newTransport(stdin, stdout)

	var initResult InitializeResult
	err = c.transport.call("initialize", InitializeParams{
		ProcessID: nil,
		RootURI:   c.rootURI,
		Capabilities: ClientCapabilities{
			TextDocument: TextDocumentClientCapabilities{
				Definition: DynamicCapability{},
				References: DynamicCapability{},
				Rename:     RenameCapability{PrepareSupport: true},
				CodeAction: DynamicCapability{},
			},
		},
	}, &initResult)
	if err != nil {
		_ = cmd.Process.Kill()
		return nil, fmt.Errorf("lsp: initialize: %w", err)
	}
	c.capabilities = initResult.Capabilities

	if err := c.transport.notify("initialized", struct{}{}); err != nil {
		_ = cmd.Process.Kill()
		return nil, fmt.Errorf("lsp: initialized notification: %w", err)
	}
	return c, nil
}

// DidOpen tells the server about a document's current contents. Safe
// to call repeatedly; each call bumps the document's version.
func (c *Client) DidOpen(path, languageID, text string) error {
	uri := pathToURI(path)
	version := c.openDocs[uri] + 1
	c.openDocs[uri] = version
	return c.transport.notify("textDocument/didOpen", DidOpenTextDocumentParams{
		TextDocument: TextDocumentItem{URI: uri, LanguageID: languageID, Version: version, Text: text},
	})
}

// Definition returns the definition location(s) for a 1-indexed
// (line, column) in path. LocationLink responses are treated as empty;
// this client only relies on the minimal Location/Location[] shapes.
func (c *Client) Definition(path string, line, column int) ([]location.Location, error) {
	var raw json.RawMessage
	err := c.transport.call("textDocument/definition", TextDocumentPositionParams{
		TextDocument: TextDocumentIdentifier{URI: pathToURI(path)},
		Position:     toPosition(line, column),
	}, &raw)
	if err != nil {
		return nil, err
	}
	return decodeLocations(raw), nil
}

// References returns every reference location for a 1-indexed
// (line, column) in path.
func (c *Client) References(path string, line, column int, includeDeclaration bool) ([]location.Location, error) {
	var locs []Location
	err := c.transport.call("textDocument/references", ReferenceParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: pathToURI(path)},
			Position:     toPosition(line, column),
		},
		Context: ReferenceContext{IncludeDeclaration: includeDeclaration},
	}, &locs)
	if err != nil {
		return nil, err
	}
	return toSynthiaLocations(locs), nil
}

// PrepareRename asks whether the identifier at (line, column) can be
// renamed. Returns false if the server replies with a null range.
func (c *Client) PrepareRename(path string, line, column int) (bool, error) {
	var raw json.RawMessage
	err := c.transport.call("textDocument/prepareRename", PrepareRenameParams{
		TextDocument: TextDocumentIdentifier{URI: pathToURI(path)},
		Position:     toPosition(line, column),
	}, &raw)
	if err != nil {
		return false, err
	}
	return len(raw) > 0 && string(raw) != "null", nil
}

// Rename requests a workspace edit renaming the identifier at
// (line, column) to newName.
func (c *Client) Rename(path string, line, column int, newName string) (WorkspaceEdit, error) {
	var edit WorkspaceEdit
	err := c.transport.call("textDocument/rename", RenameParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: pathToURI(path)},
			Position:     toPosition(line, column),
		},
		NewName: newName,
	}, &edit)
	return edit, err
}

// CodeAction requests available code actions over a range.
func (c *Client) CodeAction(path string, startLine, startCol, endLine, endCol int) (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.transport.call("textDocument/codeAction", CodeActionParams{
		TextDocument: TextDocumentIdentifier{URI: pathToURI(path)},
		Range: Range{
			Start: toPosition(startLine, startCol),
			End:   toPosition(endLine, endCol),
		},
		Context: CodeActionContext{},
	}, &raw)
	return raw, err
}

// ExecuteCommand runs a server-defined command, e.g. one surfaced by a
// prior CodeAction response.
func (c *Client) ExecuteCommand(command string, args ...json.RawMessage) (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.transport.call("workspace/executeCommand", ExecuteCommandParams{
		Command:   command,
		Arguments: args,
	}, &raw)
	return raw, err
}

// Close runs the graceful shutdown discipline:
// shutdown request, exit notification, bounded wait, then force-kill.
func (c *Client) Close() error {
	_ = c.transport.call("shutdown", nil, nil)
	_ = c.transport.notify("exit", nil)

	done := make(chan error, 1)
	go func() { done <- c.cmd.Wait() }()

	select {
	case <-done:
	case <-time.After(time.Second):
		_ = c.cmd.Process.Kill()
		<-done
	}
	return nil
}

func toPosition(line, column int) Position {
	return Position{Line: line - 1, Character: column - 1}
}

func toSynthiaLocations(locs []Location) []location.Location {
	out := make([]location.Location, 0, len(locs))
	for _, l := range locs {
		out = append(out, fromLSPLocation(l))
	}
	return out
}

func fromLSPLocation(l Location) location.Location {
	return location.Location{
		Path:      uriToPath(l.URI),
		StartLine: l.Range.Start.Line + 1,
		StartCol:  l.Range.Start.Character + 1,
		EndLine:   l.Range.End.Line + 1,
		EndCol:    l.Range.End.Character + 1,
	}
}

// decodeLocations handles the three shapes textDocument/definition may
// return: a single Location, an array of Locations, or LocationLinks
// (treated as empty).
func decodeLocations(raw json.RawMessage) []location.Location {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var single Location
	if err := json.Unmarshal(raw, &single); err == nil && single.URI != "" {
		return []location.Location{fromLSPLocation(single)}
	}

	var many []Location
	if err := json.Unmarshal(raw, &many); err == nil {
		// LocationLink entries decode with an empty uri; drop them.
		kept := many[:0]
		for _, l := range many {
			if l.URI != "" {
				kept = append(kept, l)
			}
		}
		return toSynthiaLocations(kept)
	}

	return nil
}

func pathToURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "file://" + filepath.ToSlash(abs)
}

func uriToPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return uri
	}
	return filepath.FromSlash(u.Path)
}
