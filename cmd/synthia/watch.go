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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/synthia/internal/ui"
	"github.com/kraklabs/synthia/pkg/watcher"
)

func runWatch(args []string, root string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	debounce := fs.Duration("debounce", 500*time.Millisecond, "Debounce window before re-indexing")
	autoInstall := fs.Bool("auto-install", false, "Install a missing indexer binary automatically")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: synthia watch [options]

Watches the project tree and re-indexes each changed language after
the debounce window elapses. Runs until interrupted.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := watcher.New(root, *debounce, *autoInstall, nil)
	if err := w.Start(ctx); err != nil {
		fail(err, false)
	}
	defer w.Stop()

	ui.Info(fmt.Sprintf("Watching %s (debounce %s). Press Ctrl+C to stop.", root, *debounce))
	<-ctx.Done()
	ui.Info("Stopping watcher.")
}
