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

package llmprovider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider_KnownTypes(t *testing.T) {
	for _, typ := range []string{"mock", "ollama", "openai", "anthropic"} {
		p, err := NewProvider(ProviderConfig{Type: typ})
		require.NoError(t, err)
		require.NotNil(t, p)
	}
}

func TestNewProvider_UnknownType(t *testing.T) {
	_, err := NewProvider(ProviderConfig{Type: "unknown"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown LLM provider type")
}

func TestMockProvider_Chat(t *testing.T) {
	p := &MockProvider{}
	resp, err := p.Chat(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "Hello!"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "assistant", resp.Message.Role)
	assert.Contains(t, resp.Message.Content, "[mock]")
	assert.Equal(t, "stop", resp.FinishReason)
}

func TestMockProvider_StreamChat_EmitsTextThenDone(t *testing.T) {
	p := &MockProvider{}
	var events []StreamEvent
	resp, err := p.StreamChat(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "Hi"}},
	}, func(e StreamEvent) { events = append(events, e) })
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, EventTextDelta, events[0].Type)
	assert.Equal(t, EventDone, events[len(events)-1].Type)
	assert.Equal(t, resp, events[len(events)-1].Response)
}

func TestMockProvider_StreamChat_EmitsToolCalls(t *testing.T) {
	p := &MockProvider{
		ChatFunc: func(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
			return &ChatResponse{
				Message: Message{
					Role:      "assistant",
					ToolCalls: []ToolCall{{ID: "1", Name: "grep", Arguments: map[string]any{"pattern": "foo"}}},
				},
				FinishReason: "tool_use",
				Done:         true,
			}, nil
		},
	}
	var sawStart, sawDone bool
	_, err := p.StreamChat(context.Background(), ChatRequest{}, func(e StreamEvent) {
		if e.Type == EventToolCallStart {
			sawStart = true
		}
		if e.Type == EventToolCallDone {
			sawDone = true
			assert.Equal(t, "grep", e.ToolCallName)
		}
	})
	require.NoError(t, err)
	assert.True(t, sawStart)
	assert.True(t, sawDone)
}

func TestOllamaProvider_Chat_WithToolCalls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"model": "test-model",
			"done": true,
			"message": {
				"role": "assistant",
				"content": "",
				"tool_calls": [{"function": {"name": "grep", "arguments": {"pattern": "foo"}}}]
			},
			"prompt_eval_count": 10,
			"eval_count": 5
		}`))
	}))
	defer server.Close()

	p, err := NewProvider(ProviderConfig{Type: "ollama", BaseURL: server.URL, DefaultModel: "test-model"})
	require.NoError(t, err)

	resp, err := p.Chat(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "find foo"}},
		Tools:    []ToolDefinition{{Name: "grep", Description: "search"}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Message.ToolCalls, 1)
	assert.Equal(t, "grep", resp.Message.ToolCalls[0].Name)
	assert.Equal(t, "tool_use", resp.FinishReason)
}

func TestOllamaProvider_StreamChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"model":"m","done":false,"message":{"role":"assistant","content":"Hel"}}` + "\n"))
		w.Write([]byte(`{"model":"m","done":false,"message":{"role":"assistant","content":"lo"}}` + "\n"))
		w.Write([]byte(`{"model":"m","done":true,"message":{"role":"assistant","content":""},"prompt_eval_count":3,"eval_count":2}` + "\n"))
	}))
	defer server.Close()

	p, err := NewProvider(ProviderConfig{Type: "ollama", BaseURL: server.URL, DefaultModel: "m"})
	require.NoError(t, err)

	var text strings.Builder
	var sawDone bool
	resp, err := p.StreamChat(context.Background(), ChatRequest{Messages: []Message{{Role: "user", Content: "hi"}}}, func(e StreamEvent) {
		if e.Type == EventTextDelta {
			text.WriteString(e.TextDelta)
		}
		if e.Type == EventDone {
			sawDone = true
		}
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello", text.String())
	assert.True(t, sawDone)
	assert.True(t, resp.Done)
}

func TestOpenAIProvider_Chat_WithToolCalls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"choices": [{
				"message": {
					"role": "assistant",
					"content": "",
					"tool_calls": [{"id": "call_1", "function": {"name": "grep", "arguments": "{\"pattern\":\"foo\"}"}}]
				},
				"finish_reason": "tool_calls"
			}],
			"model": "gpt-4",
			"usage": {"prompt_tokens": 20, "completion_tokens": 10, "total_tokens": 30}
		}`))
	}))
	defer server.Close()

	p, err := NewProvider(ProviderConfig{Type: "openai", BaseURL: server.URL, APIKey: "test-key"})
	require.NoError(t, err)

	resp, err := p.Chat(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "find foo"}},
		Tools:    []ToolDefinition{{Name: "grep"}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Message.ToolCalls, 1)
	assert.Equal(t, "grep", resp.Message.ToolCalls[0].Name)
	assert.Equal(t, "foo", resp.Message.ToolCalls[0].Arguments["pattern"])
}

func TestOpenAIProvider_StreamChat_AccumulatesToolCallArguments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		lines := []string{
			`data: {"model":"gpt-4","choices":[{"delta":{"content":"Hi"}}]}`,
			`data: {"model":"gpt-4","choices":[{"delta":{"tool_calls":[{"index":0,"id":"call_1","function":{"name":"grep","arguments":""}}]}}]}`,
			`data: {"model":"gpt-4","choices":[{"delta":{"tool_calls":[{"index":0,"function":{"arguments":"{\"pattern\""}}]}}]}`,
			`data: {"model":"gpt-4","choices":[{"delta":{"tool_calls":[{"index":0,"function":{"arguments":":\"foo\"}"}}]}}]}`,
			`data: {"model":"gpt-4","choices":[{"delta":{},"finish_reason":"tool_calls"}]}`,
			`data: [DONE]`,
		}
		for _, l := range lines {
			w.Write([]byte(l + "\n\n"))
		}
	}))
	defer server.Close()

	p, err := NewProvider(ProviderConfig{Type: "openai", BaseURL: server.URL, APIKey: "test-key"})
	require.NoError(t, err)

	var toolDone *StreamEvent
	resp, err := p.StreamChat(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "find foo"}},
	}, func(e StreamEvent) {
		if e.Type == EventToolCallDone {
			evCopy := e
			toolDone = &evCopy
		}
	})
	require.NoError(t, err)
	require.NotNil(t, toolDone)
	assert.Equal(t, "grep", toolDone.ToolCall.Name)
	assert.Equal(t, "foo", toolDone.ToolCall.Arguments["pattern"])
	assert.Equal(t, "Hi", resp.Message.Content)
	assert.Equal(t, "tool_calls", resp.FinishReason)
}

func TestAnthropicProvider_Chat_WithToolUse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"content": [
				{"type": "text", "text": "Let me check."},
				{"type": "tool_use", "id": "toolu_1", "name": "grep", "input": {"pattern": "foo"}}
			],
			"model": "claude-3-5-sonnet-20241022",
			"stop_reason": "tool_use",
			"usage": {"input_tokens": 15, "output_tokens": 8}
		}`))
	}))
	defer server.Close()

	p, err := NewProvider(ProviderConfig{Type: "anthropic", BaseURL: server.URL, APIKey: "test-key"})
	require.NoError(t, err)

	resp, err := p.Chat(context.Background(), ChatRequest{
		Messages: []Message{{Role: "system", Content: "sys"}, {Role: "user", Content: "find foo"}},
		Tools:    []ToolDefinition{{Name: "grep"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Let me check.", resp.Message.Content)
	require.Len(t, resp.Message.ToolCalls, 1)
	assert.Equal(t, "grep", resp.Message.ToolCalls[0].Name)
	assert.Equal(t, "tool_use", resp.FinishReason)
}

func TestAnthropicProvider_StreamChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lines := []string{
			`data: {"type":"message_start","message":{"model":"claude-3-5-sonnet-20241022","usage":{"input_tokens":5}}}`,
			`data: {"type":"content_block_start","index":0,"content_block":{"type":"text"}}`,
			`data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Hel"}}`,
			`data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"lo"}}`,
			`data: {"type":"content_block_stop","index":0}`,
			`data: {"type":"message_delta","delta":{"stop_reason":"end_turn"},"usage":{"output_tokens":2}}`,
			`data: {"type":"message_stop"}`,
		}
		for _, l := range lines {
			w.Write([]byte(l + "\n\n"))
		}
	}))
	defer server.Close()

	p, err := NewProvider(ProviderConfig{Type: "anthropic", BaseURL: server.URL, APIKey: "test-key"})
	require.NoError(t, err)

	var text strings.Builder
	resp, err := p.StreamChat(context.Background(), ChatRequest{Messages: []Message{{Role: "user", Content: "hi"}}}, func(e StreamEvent) {
		if e.Type == EventTextDelta {
			text.WriteString(e.TextDelta)
		}
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello", text.String())
	assert.Equal(t, "claude-3-5-sonnet-20241022", resp.Model)
}

func TestBuildChatMessages(t *testing.T) {
	msgs := BuildChatMessages(
		"You are a helpful assistant",
		"What is 2+2?",
		Message{Role: "user", Content: "Hi"},
		Message{Role: "assistant", Content: "Hello!"},
	)
	require.Len(t, msgs, 4)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, "What is 2+2?", msgs[len(msgs)-1].Content)
}

func TestQuickGenerate_UsesMockWhenNoCredentials(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	t.Setenv("OLLAMA_BASE_URL", "")
	t.Setenv("OLLAMA_MODEL", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	text, err := QuickGenerate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Contains(t, text, "[mock]")
}
