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

package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kraklabs/synthia/pkg/llmprovider"
)

func TestNew_EmptySessionWithMatchingTimestamps(t *testing.T) {
	s := New("test-model")
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "test-model", s.Model)
	assert.Empty(t, s.Messages)
	assert.Equal(t, s.CreatedAt, s.LastModified)
}

func TestAddMessage_AppendsAndBumpsLastModified(t *testing.T) {
	s := New("test-model")
	initial := s.LastModified
	time.Sleep(5 * time.Millisecond)

	s.AddMessage(llmprovider.Message{Role: "user", Content: "Hello"})

	assert.Len(t, s.Messages, 1)
	assert.GreaterOrEqual(t, s.LastModified, initial)
}

func TestInfoOf_SummarizesSession(t *testing.T) {
	s := New("test-model")
	s.AddMessage(llmprovider.Message{Role: "user", Content: "Hi"})

	info := InfoOf(s)
	assert.Equal(t, s.ID, info.ID)
	assert.Equal(t, s.Model, info.Model)
	assert.Equal(t, 1, info.MessageCount)
}

func TestGenerateID_Unique(t *testing.T) {
	id1 := generateID()
	id2 := generateID()
	assert.NotEmpty(t, id1)
	assert.NotEqual(t, id1, id2)
}
