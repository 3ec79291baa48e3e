package prefs

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a preferences file and reloads it on change.
type Watcher struct {
	path      string
	cleanPath string
	watcher   *fsnotify.Watcher
	done      chan struct{}
	stopOnce  sync.Once

	onChange func(Prefs)
	onError  func(err error)
}

type WatchConfig struct {
	OnChange func(p Prefs)
	OnError  func(err error)
}

// Watch starts watching the directory containing path (more reliable than
// watching the file directly: editors replace files on save). Every write or
// create of the file reloads it and invokes OnChange.
func Watch(path string, cfg WatchConfig) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch directory %s: %w", dir, err)
	}

	w := &Watcher{
		path:      path,
		cleanPath: filepath.Clean(path),
		watcher:   fsw,
		done:      make(chan struct{}),
		onChange:  cfg.OnChange,
		onError:   cfg.OnError,
	}
	go w.watchLoop()

	slog.Info("prefs watcher started", "path", path)
	return w, nil
}

// Stop stops the watcher. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		slog.Info("prefs watcher stopped", "path", w.path)
		close(w.done)
		_ = w.watcher.Close()
	})
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if filepath.Clean(event.Name) != w.cleanPath {
				continue
			}
			p, err := Load(w.path)
			if err != nil {
				if w.onError != nil {
					w.onError(err)
				}
				continue
			}
			if w.onChange != nil {
				w.onChange(p)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}
