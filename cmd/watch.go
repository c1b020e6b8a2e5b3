package main

import (
	"context"
	"fmt"
	"log/slog"

	"pymove/internal/filesystem"
)

// WatchCmd watches a project tree for filesystem writes that race an
// in-flight motion. spec.md §5 states concurrent motions are unsafe
// and the caller must serialize them; this command is the operator
// tool that makes a violation visible instead of silently corrupting
// a project, using the filesystem layer's fsnotify-backed watcher the
// same way topple's `cmd watch` does for its own compile-on-change
// loop.
type WatchCmd struct {
	Directory string `arg:"" required:"" help:"Project directory to watch"`
}

func (w *WatchCmd) Run(globals *Globals, ctx *context.Context, log *slog.Logger) error {
	fs := filesystem.NewFileSystem(log)

	exists, err := fs.Exists(w.Directory)
	if err != nil {
		return fmt.Errorf("error checking directory: %w", err)
	}
	if !exists {
		return fmt.Errorf("directory does not exist: %s", w.Directory)
	}
	isDir, err := fs.IsDir(w.Directory)
	if err != nil {
		return fmt.Errorf("error checking if path is a directory: %w", err)
	}
	if !isDir {
		return fmt.Errorf("path is not a directory: %s", w.Directory)
	}

	events, err := fs.WatchFiles(*ctx, []string{w.Directory}, true)
	if err != nil {
		return fmt.Errorf("failed to start watching: %w", err)
	}

	fmt.Printf("Watching '%s' — run `pymove move` from another process; concurrent writes during a motion will be flagged here.\n", w.Directory)

	for {
		select {
		case <-(*ctx).Done():
			log.InfoContext(*ctx, "stopping watch due to context cancellation")
			return nil
		case event, ok := <-events:
			if !ok {
				log.InfoContext(*ctx, "event channel closed, stopping watch")
				return nil
			}
			log.WarnContext(*ctx, "filesystem write observed during watch — a concurrent motion may be unsafe",
				slog.String("path", event.Path),
				slog.String("event", event.Type.String()))
		}
	}
}
