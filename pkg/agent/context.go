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
	"context"
	"fmt"
	"strings"

	"github.com/kraklabs/synthia/pkg/llmprovider"
)

const (
	defaultMaxMessages      = 100
	defaultSummaryThreshold = 80
)

// ContextManager decides when a conversation is approaching the
// actor's configured context window and, when so, compacts it: the
// oldest messages after the first (system) message are replaced with
// a single LLM-generated summary, keeping the most recent ~60%
// untouched. A hard truncation backstops the summary step for
// conversations that keep growing despite it.
//
// ContextManager holds no conversation state of its own — the actor
// remains the single owner and writer of the conversation;
// CompactIfNeeded takes a snapshot and returns the (possibly shortened) replacement.
type ContextManager struct {
	provider         llmprovider.Provider
	maxMessages      int
	summaryThreshold int
}

// NewContextManager builds a ContextManager. maxMessages and
// summaryThreshold fall back to defaults (100/80) when <= 0; a
// smaller configured context window should pass smaller values here.
func NewContextManager(provider llmprovider.Provider, maxMessages, summaryThreshold int) *ContextManager {
	if maxMessages <= 0 {
		maxMessages = defaultMaxMessages
	}
	if summaryThreshold <= 0 {
		summaryThreshold = defaultSummaryThreshold
	}
	return &ContextManager{provider: provider, maxMessages: maxMessages, summaryThreshold: summaryThreshold}
}

// CompactIfNeeded returns messages unchanged if it's under the summary
// threshold, otherwise a version with its older middle section folded
// into one summary message, further hard-truncated if still over the
// message cap.
func (cm *ContextManager) CompactIfNeeded(ctx context.Context, messages []llmprovider.Message) ([]llmprovider.Message, error) {
	if len(messages) >= cm.summaryThreshold {
		summarized, err := cm.summarizeOldest(ctx, messages)
		if err != nil {
			return messages, err
		}
		messages = summarized
	}

	if len(messages) >= cm.maxMessages {
		toRemove := len(messages) - cm.maxMessages
		truncated := make([]llmprovider.Message, len(messages)-toRemove)
		copy(truncated, messages[toRemove:])
		messages = truncated
	}

	return messages, nil
}

// summarizeOldest keeps the first message (assumed system) and the
// most recent 60% untouched, replacing everything between with one
// system message summarizing it.
func (cm *ContextManager) summarizeOldest(ctx context.Context, messages []llmprovider.Message) ([]llmprovider.Message, error) {
	keepRecent := int(float64(len(messages)) * 0.6)
	start := 1
	end := len(messages) - keepRecent

	if end <= start {
		return messages, nil
	}

	toSummarize := messages[start:end]
	prompt := "Summarize this conversation segment concisely, preserving key decisions, tool calls, and outcomes:\n\n" +
		formatMessagesForSummary(toSummarize)

	resp, err := cm.provider.Chat(ctx, llmprovider.ChatRequest{
		Messages:    []llmprovider.Message{{Role: "user", Content: prompt}},
		Temperature: 0.3,
		MaxTokens:   500,
	})
	if err != nil {
		return nil, err
	}

	summaryText := resp.Message.Content
	if summaryText == "" {
		summaryText = "[Summary generation failed]"
	}

	out := make([]llmprovider.Message, 0, len(messages)-(end-start)+1)
	out = append(out, messages[:start]...)
	out = append(out, llmprovider.Message{
		Role:    "system",
		Content: "[Conversation Summary]: " + summaryText,
	})
	out = append(out, messages[end:]...)
	return out, nil
}

// formatMessagesForSummary renders a message slice into the plain-text
// transcript the summarization prompt is built from.
func formatMessagesForSummary(messages []llmprovider.Message) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		role := roleLabel(m.Role)
		var parts []string
		if m.Content != "" {
			parts = append(parts, m.Content)
		}
		for _, tc := range m.ToolCalls {
			parts = append(parts, fmt.Sprintf("[Called tool: %s]", tc.Name))
		}
		if m.Role == "tool" {
			content := m.Content
			if len(content) > 100 {
				content = content[:100]
			}
			parts = []string{fmt.Sprintf("[Tool result: %s]", content)}
		}
		lines = append(lines, fmt.Sprintf("%s: %s", role, strings.Join(parts, " ")))
	}
	return strings.Join(lines, "\n")
}

func roleLabel(role string) string {
	switch role {
	case "user":
		return "User"
	case "assistant":
		return "Assistant"
	case "system":
		return "System"
	case "tool":
		return "User"
	default:
		return role
	}
}
