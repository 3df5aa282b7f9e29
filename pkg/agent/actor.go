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

// Package agent runs the LLM-driven tool-use loop: it holds a single
// conversation, drives a provider through streaming or non-streaming
// generation, dispatches model-requested tool calls (checking
// permission before every one of them, in parallel when several are
// requested at once), and persists the session as it goes.
package agent

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	synerrors "github.com/kraklabs/synthia/internal/errors"
	"github.com/kraklabs/synthia/pkg/llmprovider"
	"github.com/kraklabs/synthia/pkg/permission"
	"github.com/kraklabs/synthia/pkg/session"
	"github.com/kraklabs/synthia/pkg/tools"
)

// toolPermissionName maps a registered tool's name to the name the
// permission package's pattern builder recognizes. Tools not listed
// here (vcs, web_fetch, grep, glob, ...) already match permission's
// vocabulary or its bare-name fallback.
var toolPermissionName = map[string]string{
	"file_read":  "read",
	"file_write": "write",
	"file_edit":  "edit",
}

func permissionToolName(name string) string {
	if mapped, ok := toolPermissionName[name]; ok {
		return mapped
	}
	return name
}

// Config controls one actor's generation behavior.
type Config struct {
	Model       string
	MaxTokens   int
	Temperature float64
	Streaming   bool
	// AutoSave persists the session after every completed turn.
	AutoSave bool
}

// DefaultConfig returns sensible generation defaults for model.
func DefaultConfig(model string) Config {
	return Config{
		Model:       model,
		MaxTokens:   4096,
		Temperature: 0.7,
		Streaming:   true,
		AutoSave:    true,
	}
}

// Actor is the single writer of one conversation. It owns the
// provider, tool registry, permission manager, session, and context
// manager, and drives them from a command channel to a UI-update
// channel. Run blocks until the command channel is closed or a
// Shutdown command is received.
type Actor struct {
	provider   llmprovider.Provider
	registry   *tools.Registry
	permission *permission.Manager
	context    *ContextManager
	store      *session.Store
	config     Config

	cmdCh chan Command
	uiCh  chan UIUpdate

	conversation []llmprovider.Message
	session      *session.Session
}

// New builds an Actor with a fresh session. store may be nil, in
// which case save/load commands report an error instead of
// persisting.
func New(provider llmprovider.Provider, registry *tools.Registry, perm *permission.Manager, store *session.Store, config Config) *Actor {
	return &Actor{
		provider:   provider,
		registry:   registry,
		permission: perm,
		context:    NewContextManager(provider, 0, 0),
		store:      store,
		config:     config,
		cmdCh:      make(chan Command, 8),
		uiCh:       make(chan UIUpdate, 64),
		session:    session.New(config.Model),
	}
}

// WithSession replaces the actor's session (and seeds the conversation
// from it) before Run starts. Intended for resuming a prior session.
func (a *Actor) WithSession(s *session.Session) *Actor {
	a.session = s
	a.conversation = append([]llmprovider.Message(nil), s.Messages...)
	return a
}

// Commands returns the channel to send commands on.
func (a *Actor) Commands() chan<- Command { return a.cmdCh }

// Updates returns the channel UI updates are emitted on.
func (a *Actor) Updates() <-chan UIUpdate { return a.uiCh }

// SessionID returns the ID of the actor's current session.
func (a *Actor) SessionID() string { return a.session.ID }

func (a *Actor) emit(u UIUpdate) {
	a.uiCh <- u
}

// Run processes commands until the channel is closed or Shutdown is
// received. It should run in its own goroutine; Commands()/Updates()
// are how callers drive and observe it.
func (a *Actor) Run(ctx context.Context) {
	slog.Info("agent actor starting", "session", a.session.ID)

	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-a.cmdCh:
			if !ok {
				return
			}
			if a.handleCommand(ctx, cmd) {
				return
			}
		}
	}
}

// handleCommand processes one command and reports whether the actor
// should stop running.
func (a *Actor) handleCommand(ctx context.Context, cmd Command) (shutdown bool) {
	switch cmd.Kind {
	case CmdSendMessage:
		message := llmprovider.Message{Role: "user", Content: cmd.Text}
		a.conversation = append(a.conversation, message)
		a.session.AddMessage(message)

		if err := a.generateResponse(ctx); err != nil {
			a.emit(UIUpdate{Kind: UIError, Text: "agent error: " + err.Error()})
		}

	case CmdCancel:
		slog.Info("cancellation requested")

	case CmdShutdown:
		a.saveSession("shutdown")
		return true

	case CmdSaveSession:
		if err := a.saveSessionErr(); err != nil {
			a.emit(UIUpdate{Kind: UIError, Text: "failed to save session: " + err.Error()})
		} else {
			a.emit(UIUpdate{Kind: UISessionSaved, SessionID: a.session.ID})
		}

	case CmdNewSession:
		a.saveSession("new session")
		a.session = session.New(a.config.Model)
		a.conversation = nil
		a.emit(UIUpdate{Kind: UISessionLoaded, SessionID: a.session.ID})

	case CmdLoadSession:
		a.loadSession(cmd.SessionID)

	case CmdListSessions:
		a.listSessions()
	}

	return false
}

func (a *Actor) saveSessionErr() error {
	if a.store == nil {
		return synerrors.NewInternalError("no session store configured", "", nil)
	}
	return a.store.Save(a.session)
}

func (a *Actor) saveSession(reason string) {
	if err := a.saveSessionErr(); err != nil {
		slog.Error("failed to save session", "reason", reason, "error", err)
	}
}

func (a *Actor) loadSession(id string) {
	if a.store == nil {
		a.emit(UIUpdate{Kind: UIError, Text: "no session store configured"})
		return
	}

	loaded, err := a.store.Load(id)
	if err != nil {
		a.emit(UIUpdate{Kind: UIError, Text: "failed to load session: " + err.Error()})
		return
	}

	a.saveSession("switching session")
	a.session = loaded
	a.conversation = append([]llmprovider.Message(nil), loaded.Messages...)
	a.emit(UIUpdate{Kind: UISessionLoaded, SessionID: a.session.ID})
}

func (a *Actor) listSessions() {
	if a.store == nil {
		a.emit(UIUpdate{Kind: UIError, Text: "no session store configured"})
		return
	}

	infos, err := a.store.List()
	if err != nil {
		a.emit(UIUpdate{Kind: UIError, Text: "failed to list sessions: " + err.Error()})
		return
	}
	a.emit(UIUpdate{Kind: UISessionList, Sessions: infos})
}

// generateResponse drives one or more generation rounds: a round that
// ends in tool calls feeds their results back in and runs another
// round, until a round produces no tool calls.
func (a *Actor) generateResponse(ctx context.Context) error {
	for {
		compacted, err := a.context.CompactIfNeeded(ctx, a.conversation)
		if err != nil {
			slog.Warn("context compaction failed, continuing uncompacted", "error", err)
		} else {
			a.conversation = compacted
		}

		var toolCalls []llmprovider.ToolCall
		var err2 error
		if a.config.Streaming {
			toolCalls, err2 = a.generateStreaming(ctx)
		} else {
			toolCalls, err2 = a.generateNonStreaming(ctx)
		}
		if err2 != nil {
			return err2
		}

		if len(toolCalls) == 0 {
			a.emit(UIUpdate{Kind: UIComplete})
			if a.config.AutoSave {
				a.saveSession("auto-save")
			}
			return nil
		}

		a.executeToolCalls(ctx, toolCalls)
	}
}

func (a *Actor) chatRequest() llmprovider.ChatRequest {
	var toolDefs []llmprovider.ToolDefinition
	for _, s := range a.registry.Schemas() {
		toolDefs = append(toolDefs, llmprovider.ToolDefinition{Name: s.Name, Description: s.Description, Parameters: s.Parameters})
	}
	return llmprovider.ChatRequest{
		Messages:    a.conversation,
		Model:       a.config.Model,
		MaxTokens:   a.config.MaxTokens,
		Temperature: a.config.Temperature,
		Tools:       toolDefs,
	}
}

func (a *Actor) generateNonStreaming(ctx context.Context) ([]llmprovider.ToolCall, error) {
	resp, err := a.provider.Chat(ctx, a.chatRequest())
	if err != nil {
		return nil, err
	}

	assistantMessage := resp.Message
	a.conversation = append(a.conversation, assistantMessage)
	a.session.AddMessage(assistantMessage)

	if assistantMessage.Content != "" {
		a.emit(UIUpdate{Kind: UIAssistantText, Text: assistantMessage.Content})
	}
	for _, tc := range assistantMessage.ToolCalls {
		a.emit(UIUpdate{Kind: UIToolExecutionStarted, ToolName: tc.Name, ToolID: tc.ID})
	}

	return assistantMessage.ToolCalls, nil
}

func (a *Actor) generateStreaming(ctx context.Context) ([]llmprovider.ToolCall, error) {
	a.emit(UIUpdate{Kind: UIAssistantThinking})

	var accumulatedText string
	started := make(map[string]bool)

	resp, err := a.provider.StreamChat(ctx, a.chatRequest(), func(ev llmprovider.StreamEvent) {
		switch ev.Type {
		case llmprovider.EventTextDelta:
			accumulatedText += ev.TextDelta
			a.emit(UIUpdate{Kind: UIAssistantTextDelta, Text: ev.TextDelta})
		case llmprovider.EventToolCallStart:
			if !started[ev.ToolCallID] {
				started[ev.ToolCallID] = true
				a.emit(UIUpdate{Kind: UIToolExecutionStarted, ToolName: ev.ToolCallName, ToolID: ev.ToolCallID})
			}
		case llmprovider.EventToolCallDone:
			if !started[ev.ToolCallID] {
				started[ev.ToolCallID] = true
				a.emit(UIUpdate{Kind: UIToolExecutionStarted, ToolName: ev.ToolCallName, ToolID: ev.ToolCallID})
			}
		}
	})
	if err != nil {
		a.emit(UIUpdate{Kind: UIError, Text: "stream error: " + err.Error()})
		return nil, err
	}

	assistantMessage := resp.Message
	if assistantMessage.Content == "" {
		assistantMessage.Content = accumulatedText
	}
	a.conversation = append(a.conversation, assistantMessage)
	a.session.AddMessage(assistantMessage)

	return assistantMessage.ToolCalls, nil
}

// executeToolCalls dispatches every requested tool call concurrently,
// checking permission for each before it runs, and appends their
// results back into the conversation in the original request order
// regardless of completion order.
func (a *Actor) executeToolCalls(ctx context.Context, calls []llmprovider.ToolCall) {
	results := make([]llmprovider.Message, len(calls))

	var g errgroup.Group
	for i, tc := range calls {
		i, tc := i, tc
		g.Go(func() error {
			results[i] = a.executeOne(ctx, tc)
			return nil
		})
	}
	_ = g.Wait()

	for _, result := range results {
		a.conversation = append(a.conversation, result)
		a.session.AddMessage(result)
	}
}

// executeOne checks permission for one tool call, suspending on Ask
// until the UI responds, runs the tool if allowed, and returns the
// tool-role message to fold back into the conversation.
func (a *Actor) executeOne(ctx context.Context, tc llmprovider.ToolCall) llmprovider.Message {
	decision := a.checkPermission(tc)
	if decision == permission.Deny {
		return llmprovider.Message{
			Role:       "tool",
			ToolCallID: tc.ID,
			Content:    "permission denied for tool \"" + tc.Name + "\"",
		}
	}

	start := time.Now()
	result, err := a.registry.Call(ctx, tc.Name, tc.Arguments)
	duration := time.Since(start)

	a.emit(UIUpdate{Kind: UIToolExecutionCompleted, ToolName: tc.Name, ToolID: tc.ID, DurationMS: duration.Milliseconds()})

	if err != nil {
		return llmprovider.Message{Role: "tool", ToolCallID: tc.ID, Content: err.Error()}
	}
	return llmprovider.Message{Role: "tool", ToolCallID: tc.ID, Content: result.Text}
}

// checkPermission consults the permission manager and, on Ask,
// suspends via a UIPermissionPrompt update until the UI answers Allow
// or Deny. With no permission manager configured, every call is
// allowed.
func (a *Actor) checkPermission(tc llmprovider.ToolCall) permission.Decision {
	if a.permission == nil {
		return permission.Allow
	}

	permTool := permissionToolName(tc.Name)
	decision := a.permission.Check(permTool, tc.Arguments)
	if decision != permission.Ask {
		return decision
	}

	respond := make(chan permission.Decision, 1)
	a.emit(UIUpdate{
		Kind:             UIPermissionPrompt,
		ToolName:         tc.Name,
		ToolID:           tc.ID,
		SuggestedPattern: a.permission.SuggestPattern(permTool, tc.Arguments),
		Respond:          respond,
	})

	answer := <-respond
	if answer == permission.Allow {
		if err := a.permission.AddPermission(a.permission.BuildPattern(permTool, tc.Arguments)); err != nil {
			slog.Warn("failed to persist permission decision", "tool", tc.Name, "error", err)
		}
	}
	return answer
}
