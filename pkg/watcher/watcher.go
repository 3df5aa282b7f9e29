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

// Package watcher recursively watches a project root for source
// changes, debounces bursts of events, and triggers a re-index per
// affected language.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kraklabs/synthia/internal/ignore"
	"github.com/kraklabs/synthia/pkg/lang"
	"github.com/kraklabs/synthia/pkg/project"
)

// ReindexFunc runs (or is stubbed to run, in tests) a re-index for one
// language. The default wired by New calls project.Reindex.
type ReindexFunc func(ctx context.Context, root string, l lang.Language) error

// Watcher subscribes to filesystem events under a project root and
// debounces them into per-language re-index requests.
type Watcher struct {
	root     string
	debounce time.Duration
	logger   *slog.Logger
	reindex  ReindexFunc

	mu          sync.Mutex
	matcher     *ignore.Matcher
	fsw         *fsnotify.Watcher
	timer       *time.Timer
	pending     map[string]struct{}
	lastReindex map[lang.Language]time.Time
	cancel      context.CancelFunc
	started     bool
	done        chan struct{}
}

// New builds a Watcher for root. debounce is the coalescing window;
// autoInstall controls whether a missing indexer binary is installed
// automatically when a re-index runs.
func New(root string, debounce time.Duration, autoInstall bool, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		root:        root,
		debounce:    debounce,
		logger:      logger,
		pending:     make(map[string]struct{}),
		lastReindex: make(map[lang.Language]time.Time),
		reindex: func(ctx context.Context, root string, l lang.Language) error {
			_, err := project.Reindex(ctx, root, l, autoInstall, logger)
			return err
		},
	}
}

// SetReindexFunc overrides the function run for each debounced
// re-index request. Intended for tests.
func (w *Watcher) SetReindexFunc(fn ReindexFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reindex = fn
}

// Start subscribes to filesystem events under the watcher's root. A
// second call while already started is a no-op.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return nil
	}

	matcher, err := ignore.New(w.root)
	if err != nil {
		return err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := addWatchRecursive(fsw, w.root, matcher); err != nil {
		_ = fsw.Close()
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.matcher = matcher
	w.fsw = fsw
	w.cancel = cancel
	w.started = true
	w.done = make(chan struct{})

	go w.loop(runCtx)
	return nil
}

// Stop cancels the subscription and drops the debouncer. Stopping an
// already-stopped watcher is a no-op.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.started = false
	if w.timer != nil {
		w.timer.Stop()
	}
	w.cancel()
	fsw := w.fsw
	done := w.done
	w.mu.Unlock()

	if fsw != nil {
		_ = fsw.Close()
	}
	if done != nil {
		<-done
	}
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	w.Stop()
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if w.matcher.IsIgnored(event.Name) {
				continue
			}
			w.mu.Lock()
			w.pending[event.Name] = struct{}{}
			if w.timer != nil {
				w.timer.Stop()
			}
			w.timer = time.AfterFunc(w.debounce, func() { w.flush(ctx) })
			w.mu.Unlock()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher.fsnotify.error", "err", err)
		}
	}
}

func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	files := w.pending
	w.pending = make(map[string]struct{})
	matcher := w.matcher
	fsw := w.fsw
	w.mu.Unlock()

	languages := make(map[lang.Language]bool)
	for path := range files {
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			_ = addWatchRecursive(fsw, path, matcher)
			continue
		}
		l := lang.FromExtension(path)
		if l.IsKnown() {
			languages[l] = true
		}
	}

	for l := range languages {
		w.requestReindex(ctx, l)
	}
}

// requestReindex drops the request if a re-index for l completed less
// than a second ago, otherwise runs it and records the completion
// time and metrics.
func (w *Watcher) requestReindex(ctx context.Context, l lang.Language) {
	w.mu.Lock()
	if last, ok := w.lastReindex[l]; ok && time.Since(last) < time.Second {
		w.mu.Unlock()
		return
	}
	reindex := w.reindex
	w.mu.Unlock()

	start := time.Now()
	err := reindex(ctx, w.root, l)
	recordReindex(string(l), time.Since(start))
	if err != nil {
		w.logger.Warn("watcher.reindex.failed", "language", string(l), "err", err)
		return
	}

	w.mu.Lock()
	w.lastReindex[l] = time.Now()
	w.mu.Unlock()
}

func addWatchRecursive(fsw *fsnotify.Watcher, root string, matcher *ignore.Matcher) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && matcher.IsIgnored(path) {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}
