package document

import (
	"context"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watch observes the document at path and invokes onChange whenever it is
// rewritten, so an updated PDF can be re-extracted. It blocks until ctx is
// canceled.
func Watch(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory: editors commonly replace files by rename,
	// which drops a watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				log.Debug("document changed", "path", path, "op", event.Op)
				onChange()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("document watcher error", "err", err)
		}
	}
}
