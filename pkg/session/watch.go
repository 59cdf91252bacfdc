package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"
)

// Watch reports when the session file at path disappears, which is how a
// sign-out in another process becomes visible. The channel receives at most
// one value per removal and is closed when ctx ends.
func Watch(ctx context.Context, path string, logger *slog.Logger) (<-chan struct{}, error) {
	// Before the first sign-in the directory may not exist yet.
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// The file itself is replaced on every save, so watch its directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	out := make(chan struct{}, 1)
	target := filepath.Clean(path)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				if _, err := os.Stat(target); !errors.Is(err, os.ErrNotExist) {
					continue
				}
				if logger != nil {
					logger.Debug("session file removed", "path", target)
				}
				select {
				case out <- struct{}{}:
				default:
				}
			case wErr, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				if logger != nil {
					logger.Warn("session watcher error", "error", wErr)
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		if logger != nil {
			logger.Error("session watcher panic", "error", err)
		}
	}))

	return out, nil
}
