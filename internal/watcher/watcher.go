// Package watcher reloads configuration when the config file changes on
// disk, so theme and logging tweaks apply without restarting the client.
package watcher

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"mizan/internal/config"
	"mizan/internal/logging"
)

// ReloadHandler receives the freshly loaded configuration.
type ReloadHandler func(cfg *config.Config)

// Watcher monitors the config file and debounces change events. Editors
// often write a file several times in quick succession; only the last write
// within the debounce window triggers a reload.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	debounce  time.Duration
	onReload  ReloadHandler

	mu       sync.Mutex
	pending  *time.Timer
	running  bool
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a watcher for the config file at path. A disabled config
// returns an inert watcher whose Start is a no-op.
func New(path string, cfg config.WatcherConfig) (*Watcher, error) {
	if !cfg.Enabled {
		return &Watcher{}, nil
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	debounceMs := cfg.DebounceMs
	if debounceMs <= 0 {
		debounceMs = config.DefaultWatcherDebounceMs
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		path:      path,
		debounce:  time.Duration(debounceMs) * time.Millisecond,
		done:      make(chan struct{}),
	}, nil
}

// SetOnReload sets the callback invoked after a successful reload.
func (w *Watcher) SetOnReload(handler ReloadHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = handler
}

// Start begins watching. The parent directory is watched rather than the
// file itself because editors replace files by rename, which drops an
// inode-level watch.
func (w *Watcher) Start() error {
	if w.fsWatcher == nil {
		return nil
	}

	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.fsWatcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	go w.processEvents()
	logging.Debug("Config watcher started", "path", w.path)
	return nil
}

// Stop terminates the watcher. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		if w.fsWatcher == nil {
			return
		}
		close(w.done)
		w.fsWatcher.Close()

		w.mu.Lock()
		if w.pending != nil {
			w.pending.Stop()
		}
		w.running = false
		w.mu.Unlock()
	})
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			logging.Warn("Config watcher error", "error", err)
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	select {
	case <-w.done:
		return
	default:
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Warn("Config reload failed", "error", err)
		return
	}
	logging.Info("Configuration reloaded", "path", w.path)

	w.mu.Lock()
	handler := w.onReload
	w.mu.Unlock()
	if handler != nil {
		handler(cfg)
	}
}
