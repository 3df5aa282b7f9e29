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

package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultFetchCap = 1 << 20 // 1 MiB

// NewWebFetchTool returns the "web_fetch" built-in: an HTTPS-or-HTTP
// GET with optional headers, a configurable timeout, and a response
// size cap enforced both by Content-Length and by actual bytes read.
func NewWebFetchTool(timeout time.Duration, maxBytes int64) *Tool {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if maxBytes <= 0 {
		maxBytes = defaultFetchCap
	}
	client := &http.Client{Timeout: timeout}

	return &Tool{
		Name:        "web_fetch",
		Description: "Fetch the contents of a URL over HTTP(S).",
		Cacheable:   false,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"url":     map[string]any{"type": "string"},
				"headers": map[string]any{"type": "object"},
			},
			"required": []string{"url"},
		},
		Execute: func(ctx context.Context, params map[string]any) (*ToolResult, error) {
			rawURL, _ := params["url"].(string)
			if rawURL == "" {
				return NewError("Error: 'url' is required"), nil
			}

			parsed, err := url.Parse(rawURL)
			if err != nil || parsed.Host == "" {
				return NewError(fmt.Sprintf("Malformed URL: %s", rawURL)), nil
			}
			if parsed.Scheme != "http" && parsed.Scheme != "https" {
				return NewError(fmt.Sprintf("Unsupported scheme %q; only http and https are allowed", parsed.Scheme)), nil
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
			if err != nil {
				return NewError(err.Error()), nil
			}
			if headers, ok := params["headers"].(map[string]any); ok {
				for k, v := range headers {
					if s, ok := v.(string); ok {
						req.Header.Set(k, s)
					}
				}
			}

			resp, err := client.Do(req)
			if err != nil {
				return NewError(fmt.Sprintf("Request failed: %v", err)), nil
			}
			defer resp.Body.Close()

			if resp.ContentLength > maxBytes {
				return NewError(fmt.Sprintf(
					"Response declares %d bytes, over the %d byte cap", resp.ContentLength, maxBytes,
				)), nil
			}

			limited := io.LimitReader(resp.Body, maxBytes+1)
			body, err := io.ReadAll(limited)
			if err != nil {
				return NewError(fmt.Sprintf("Reading response failed: %v", err)), nil
			}
			if int64(len(body)) > maxBytes {
				return NewError(fmt.Sprintf("Response exceeded the %d byte cap", maxBytes)), nil
			}

			return NewResult(fmt.Sprintf("Status: %s\n\n%s", resp.Status, string(body))), nil
		},
	}
}
