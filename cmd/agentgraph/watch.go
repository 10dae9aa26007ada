// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/AleutianAI/AgentGraph/cmd/agentgraph/internal/descriptor"
	"github.com/AleutianAI/AgentGraph/pkg/logging"
)

// watchOps are the operations that trigger a rebuild.
const watchOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// watchAndRun calls run once, then again after each debounced burst of
// descriptor changes in dir, until ctx is done.
//
// A failing run is logged and the loop keeps watching; only watcher setup
// errors are returned. Returns nil when ctx is cancelled.
func watchAndRun(ctx context.Context, dir string, debounce time.Duration, logger *logging.Logger, run func(context.Context) error) error {
	if debounce <= 0 {
		return errors.New("debounce must be positive")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("%w: %s: %v", descriptor.ErrDirNotFound, dir, err)
	}

	runOnce := func() {
		if err := run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("regeneration failed", "error", err)
		}
	}
	runOnce()

	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			logger.Debug("descriptor changed", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
			} else {
				timer.Reset(debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			logger.Info("regenerating after change", "dir", dir)
			runOnce()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

// relevant reports whether event touches a descriptor file.
func relevant(event fsnotify.Event) bool {
	return event.Op&watchOps != 0 && descriptor.IsDescriptorFile(filepath.Base(event.Name))
}
