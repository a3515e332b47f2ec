package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a scenario file whenever it changes on disk.
type Watcher struct {
	path    string
	loader  *Loader
	watcher *fsnotify.Watcher
}

// NewWatcher watches the scenario at path. The file's directory is watched
// rather than the file itself so editors that replace the file atomically
// still trigger reloads.
func NewWatcher(path string, loader *Loader) (*Watcher, error) {
	if loader == nil {
		loader = NewLoader()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		_ = fsw.Close()
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", absPath, err)
	}
	return &Watcher{
		path:    absPath,
		loader:  loader,
		watcher: fsw,
	}, nil
}

// Watch delivers each successful reload to onReload and parse or load
// failures to onError until the context is cancelled. It blocks; run it in
// its own goroutine.
func (w *Watcher) Watch(ctx context.Context, onReload func(*Scenario), onError func(error)) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			scenario, err := w.loader.LoadFile(w.path)
			if err != nil {
				if onError != nil {
					onError(err)
				}
				continue
			}
			if onReload != nil {
				onReload(scenario)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if onError != nil {
				onError(err)
			}
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
