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

package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/synthia/pkg/lang"
)

func TestWatcher_DebouncesAndReindexesAffectedLanguage(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("package a"), 0o644))

	w := New(root, 50*time.Millisecond, false, nil)

	var calls int32
	var gotLanguage atomic.Value
	w.SetReindexFunc(func(ctx context.Context, root string, l lang.Language) error {
		atomic.AddInt32(&calls, 1)
		gotLanguage.Store(l)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(root, "b.rs"), []byte("fn main() {}"), 0o644))

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, lang.Rust, gotLanguage.Load())
}

func TestWatcher_DedupsReindexWithinOneSecond(t *testing.T) {
	root := t.TempDir()

	w := New(root, 20*time.Millisecond, false, nil)

	var mu sync.Mutex
	var calls int
	w.SetReindexFunc(func(ctx context.Context, root string, l lang.Language) error {
		mu.Lock()
		calls++
		mu.Unlock()
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Close()

	path := filepath.Join(root, "a.rs")
	require.NoError(t, os.WriteFile(path, []byte("fn a() {}"), 0o644))
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 1
	}, 2*time.Second, 10*time.Millisecond)

	// A second change within the same second should be dropped.
	require.NoError(t, os.WriteFile(path, []byte("fn a() { }"), 0o644))
	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	assert.Equal(t, 1, calls)
	mu.Unlock()
}

func TestWatcher_StartIsIdempotent(t *testing.T) {
	root := t.TempDir()
	w := New(root, 20*time.Millisecond, false, nil)
	ctx := context.Background()

	require.NoError(t, w.Start(ctx))
	defer w.Close()
	firstFsw := w.fsw

	require.NoError(t, w.Start(ctx))
	assert.Same(t, firstFsw, w.fsw)
}

func TestWatcher_StopThenCloseIsSafe(t *testing.T) {
	root := t.TempDir()
	w := New(root, 20*time.Millisecond, false, nil)
	require.NoError(t, w.Start(context.Background()))

	w.Stop()
	w.Stop() // second stop is a no-op
	assert.NoError(t, w.Close())
}
