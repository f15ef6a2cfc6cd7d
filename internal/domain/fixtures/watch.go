package fixtures

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/okian/optiwork/pkg/logger"
)

// Watch monitors dir and calls onChange with a freshly decoded Set each time
// a fixture file is written, created or renamed into place. It runs until ctx
// is cancelled.
//
// A reload that fails to decode is logged and skipped; onChange is not called
// and the previous baseline stays in effect.
func Watch(ctx context.Context, dir string, log logger.Logger, onChange func(*Set)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory rather than single files: editors often save via
	// rename, which replaces the inode a file watch would be bound to.
	if err := watcher.Add(dir); err != nil {
		return err
	}
	log.Info(ctx, "watching fixtures for changes", logger.String("dir", dir))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != ".yaml" {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			set, err := Dir(dir)
			if err != nil {
				log.Error(ctx, "fixture reload failed; keeping previous baseline",
					logger.String("file", event.Name), logger.Error(err))
				continue
			}
			log.Info(ctx, "fixtures reloaded", logger.String("file", event.Name))
			onChange(set)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error(ctx, "fixture watcher error", logger.Error(err))
		}
	}
}
