// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/okapisearch/okapi"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <directory>",
		Short: "Index every file in a directory, then index new files as they appear (changed files already indexed are not re-indexed)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), args[0])
		},
	}
	return cmd
}

func runWatch(ctx context.Context, dir string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	engine, err := okapi.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open engine: %w", err)
	}
	defer engine.Close(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		indexFile(ctx, engine, filepath.Join(dir, e.Name()))
	}

	fmt.Println(render(infoStyle, fmt.Sprintf("watching %s for new or changed files (ctrl-c to stop)", dir)))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				if info, err := os.Stat(event.Name); err == nil && !info.IsDir() {
					indexFile(ctx, engine, event.Name)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("watch error", slog.String("error", err.Error()))
		}
	}
}

// indexFile indexes path under its own path as the caller key. An
// unreadable file or a failed index is logged rather than failing the
// whole watch loop; a path that is already indexed is skipped silently.
func indexFile(ctx context.Context, engine *okapi.Engine, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("skip unreadable file", slog.String("path", path), slog.String("error", err.Error()))
		return
	}

	err = engine.IndexDocument(ctx, path, string(data))
	switch {
	case err == nil:
		fmt.Println(render(successStyle, fmt.Sprintf("indexed %s (%d bytes)", path, len(data))))
	case errors.Is(err, okapi.ErrAlreadyIndexed):
		// Modified files re-trigger fsnotify.Write but the registry has no
		// update path (see okapi.ErrAlreadyIndexed); silently skip.
	default:
		slog.Error("index failed", slog.String("path", path), slog.String("error", err.Error()))
	}
}
