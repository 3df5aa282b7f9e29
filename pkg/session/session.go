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

// Package session persists agent conversations, one file per session
// under a user-data directory, so the agent actor can resume, list, or
// discard past conversations.
package session

import (
	"math/rand/v2"
	"time"

	"github.com/kraklabs/synthia/pkg/llmprovider"
)

const idSuffixChars = "0123456789abcdefghijklmnopqrstuvwxyz"

// Session is one saved conversation: its messages plus the metadata a
// session list needs without loading every message.
type Session struct {
	ID           string                `json:"id"`
	Name         string                `json:"name,omitempty"`
	CreatedAt    int64                 `json:"created_at"`
	LastModified int64                 `json:"last_modified"`
	Model        string                `json:"model"`
	Messages     []llmprovider.Message `json:"messages"`
}

// New creates a fresh, empty session for model, with a freshly
// generated ID.
func New(model string) *Session {
	now := time.Now().UTC().UnixMilli()
	return &Session{
		ID:           generateID(),
		CreatedAt:    now,
		LastModified: now,
		Model:        model,
		Messages:     []llmprovider.Message{},
	}
}

// AddMessage appends message and bumps LastModified.
func (s *Session) AddMessage(message llmprovider.Message) {
	s.Messages = append(s.Messages, message)
	s.LastModified = time.Now().UTC().UnixMilli()
}

// SetName attaches a friendly name and bumps LastModified.
func (s *Session) SetName(name string) {
	s.Name = name
	s.LastModified = time.Now().UTC().UnixMilli()
}

// Info is the lightweight header list() enumerates, without the full
// message history.
type Info struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	CreatedAt    int64  `json:"created_at"`
	LastModified int64  `json:"last_modified"`
	Model        string `json:"model"`
	MessageCount int    `json:"message_count"`
}

// InfoOf summarizes s into its Info header.
func InfoOf(s *Session) Info {
	return Info{
		ID:           s.ID,
		Name:         s.Name,
		CreatedAt:    s.CreatedAt,
		LastModified: s.LastModified,
		Model:        s.Model,
		MessageCount: len(s.Messages),
	}
}

// generateID builds a sortable-by-creation, collision-resistant ID: a
// timestamp prefix plus a 6-character random suffix.
func generateID() string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = idSuffixChars[rand.IntN(len(idSuffixChars))]
	}
	return timestamp + "_" + string(suffix)
}
