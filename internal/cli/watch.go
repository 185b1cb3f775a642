package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay absorbs the burst of events an editor produces for one save.
const settleDelay = 100 * time.Millisecond

// fileWatcher reports writes to a fixed set of files.
type fileWatcher struct {
	watcher *fsnotify.Watcher
	files   map[string]bool
	logger  *slog.Logger
}

func newFileWatcher(paths []string, logger *slog.Logger) (*fileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	fw := &fileWatcher{watcher: watcher, files: make(map[string]bool), logger: logger}
	dirs := make(map[string]bool)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("absolute path: %w", err)
		}
		fw.files[abs] = true

		// Watch the directory (more reliable for editors that do atomic saves)
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("watch directory: %w", err)
		}
		dirs[dir] = true
	}
	return fw, nil
}

// Wait blocks until a watched file is written or created, or ctx is done.
// It returns the path that changed.
func (fw *fileWatcher) Wait(ctx context.Context) (string, error) {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return "", errors.New("file watcher closed")
			}
			if !fw.files[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				fw.logger.Debug("file changed", "event", event.Op.String(), "file", event.Name)
				fw.settle(ctx)
				return event.Name, nil
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return "", errors.New("file watcher closed")
			}
			fw.logger.Error("file watcher error", "error", err)

		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// settle drains events until none arrive for settleDelay.
func (fw *fileWatcher) settle(ctx context.Context) {
	timer := time.NewTimer(settleDelay)
	defer timer.Stop()
	for {
		select {
		case _, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			timer.Reset(settleDelay)
		case <-timer.C:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Close stops watching.
func (fw *fileWatcher) Close() error {
	return fw.watcher.Close()
}
