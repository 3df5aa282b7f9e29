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

// Package llmprovider provides a unified interface for Large Language
// Model providers.
//
// # Supported Providers
//
//   - Ollama: local models, no API key required (default)
//   - OpenAI: GPT-4, GPT-4o-mini, and OpenAI-compatible APIs
//   - Anthropic: Claude models
//   - Mock: for testing without real API calls
//
// # Tool Use and Streaming
//
// [ChatRequest] carries a Tools field; when the model chooses to
// invoke one, the returned [ChatResponse].Message.ToolCalls is
// populated and FinishReason is "tool_use" (the OpenAI provider
// reports the API's own "tool_calls" instead). [Provider.StreamChat]
// delivers the same information incrementally through a
// [StreamEvent] callback: EventTextDelta as text streams in,
// EventToolCallStart/Delta/Done as a tool call's name and JSON
// arguments accumulate, and a final EventDone carrying the same
// aggregate [ChatResponse] Chat would have returned.
//
// # Provider Selection
//
// [DefaultProvider] selects a provider from environment variables,
// checking in order: OLLAMA_HOST/OLLAMA_MODEL, OPENAI_API_KEY,
// ANTHROPIC_API_KEY, falling back to the mock provider.
package llmprovider
