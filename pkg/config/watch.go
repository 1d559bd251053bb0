package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/sidenote/sidenote/pkg/logging"
)

// Watcher notifies a callback whenever a config file changes on disk. The
// panel uses it to re-run persona resolution without restarting; the rest of
// the configuration stays fixed for the process lifetime.
type Watcher struct {
	watcher *fsnotify.Watcher
	paths   map[string]bool
	logger  logging.Logger
}

// NewWatcher creates a watcher over the given config file paths. Paths that
// do not exist yet are still covered: their parent directories are watched.
func NewWatcher(logger logging.Logger, paths ...string) (*Watcher, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		watcher: fsw,
		paths:   make(map[string]bool, len(paths)),
		logger:  logger,
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		w.paths[abs] = true

		dir := filepath.Dir(abs)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			w.logger.Warn("failed to watch config directory",
				logging.String("dir", dir),
				logging.Err(err),
			)
		}
	}

	return w, nil
}

// Run blocks until the context is done, invoking onChange for every write or
// create event on a watched config file.
func (w *Watcher) Run(ctx context.Context, onChange func(path string)) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if w.paths[abs] {
				onChange(abs)
			}
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
