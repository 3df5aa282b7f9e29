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
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/synthia/pkg/llmprovider"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	store, err := NewStore()
	require.NoError(t, err)
	return store
}

func TestStore_SaveAndLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	s := New("test-model")
	s.AddMessage(llmprovider.Message{Role: "user", Content: "Test"})

	require.NoError(t, store.Save(s))

	loaded, err := store.Load(s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, loaded.ID)
	assert.Equal(t, s.Model, loaded.Model)
	assert.Len(t, loaded.Messages, 1)
}

func TestStore_LoadMissingSessionFails(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Load("does-not-exist")
	assert.Error(t, err)
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)
	s := New("test-model")
	require.NoError(t, store.Save(s))

	_, err := store.Load(s.ID)
	require.NoError(t, err)

	require.NoError(t, store.Delete(s.ID))

	_, err = store.Load(s.ID)
	assert.Error(t, err)
}

func TestStore_ListSortedByLastModifiedDescending(t *testing.T) {
	store := newTestStore(t)

	s1 := New("model1")
	require.NoError(t, store.Save(s1))
	time.Sleep(20 * time.Millisecond)

	s2 := New("model2")
	require.NoError(t, store.Save(s2))

	infos, err := store.List()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, s2.ID, infos[0].ID)
	assert.Equal(t, s1.ID, infos[1].ID)
}

func TestStore_ListOnMissingDirectoryReturnsEmpty(t *testing.T) {
	store := newTestStore(t)
	infos, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestStore_MostRecent(t *testing.T) {
	store := newTestStore(t)

	none, err := store.MostRecent()
	require.NoError(t, err)
	assert.Nil(t, none)

	s := New("test-model")
	require.NoError(t, store.Save(s))

	recent, err := store.MostRecent()
	require.NoError(t, err)
	require.NotNil(t, recent)
	assert.Equal(t, s.ID, recent.ID)
}
