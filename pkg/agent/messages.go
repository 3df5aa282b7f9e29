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

package agent

import (
	"github.com/kraklabs/synthia/pkg/permission"
	"github.com/kraklabs/synthia/pkg/session"
)

// CommandKind enumerates the closed set of commands the actor accepts.
type CommandKind int

const (
	CmdSendMessage CommandKind = iota
	CmdCancel
	CmdShutdown
	CmdSaveSession
	CmdNewSession
	CmdLoadSession
	CmdListSessions
)

// Command is one message sent to the actor over its command channel.
// Text carries SendMessage's user text; SessionID carries
// LoadSession's target.
type Command struct {
	Kind      CommandKind
	Text      string
	SessionID string
}

// UIUpdateKind enumerates the events the actor reports to the UI.
type UIUpdateKind int

const (
	UIAssistantThinking UIUpdateKind = iota
	UIAssistantText
	UIAssistantTextDelta
	UIToolExecutionStarted
	UIToolExecutionCompleted
	UIPermissionPrompt
	UIError
	UIComplete
	UISessionSaved
	UISessionLoaded
	UISessionList
)

// UIUpdate is one event the actor emits over its UI-update channel.
// Only the fields relevant to Kind are populated.
type UIUpdate struct {
	Kind UIUpdateKind

	Text string // AssistantText, AssistantTextDelta, Error

	ToolName   string // ToolExecutionStarted/Completed, PermissionPrompt
	ToolID     string // ToolExecutionStarted/Completed
	DurationMS int64  // ToolExecutionCompleted

	SessionID string         // SessionSaved, SessionLoaded
	Sessions  []session.Info // SessionList

	// Set on PermissionPrompt. SuggestedPattern is the "don't ask
	// again" phrasing to offer. Respond must receive exactly one of
	// permission.Allow or permission.Deny before the actor resumes.
	SuggestedPattern string
	Respond          chan<- permission.Decision
}
