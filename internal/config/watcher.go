package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 300 * time.Millisecond

// Watcher reloads the config file when it changes on disk. Invalid edits
// are logged and skipped so the last good config stays in effect.
type Watcher struct {
	configPath string
	watcher    *fsnotify.Watcher
	onReload   func(*Config)
	logger     *slog.Logger
	debounce   time.Duration

	timerMu       sync.Mutex
	debounceTimer *time.Timer
	closeOnce     sync.Once
}

func NewWatcher(configPath string, onReload func(*Config), logger *slog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	// Editors often replace the file, so watch the directory.
	if err := fsWatcher.Add(filepath.Dir(configPath)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watch config directory: %w", err)
	}

	return &Watcher{
		configPath: filepath.Clean(configPath),
		watcher:    fsWatcher,
		onReload:   onReload,
		logger:     logger,
		debounce:   DefaultDebounce,
	}, nil
}

// Start blocks until ctx is done or the watcher is closed.
func (w *Watcher) Start(ctx context.Context) error {
	defer w.Close()
	defer w.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.configPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.scheduleReload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("config watcher error", "error", err)
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) stopTimer() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
}

func (w *Watcher) reload() {
	cfg, err := LoadFrom(w.configPath)
	if err != nil {
		w.logger.Warn("config change ignored", "error", err, "path", w.configPath)
		return
	}

	w.logger.Info("config reloaded", "path", w.configPath)
	w.onReload(cfg)
}

func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.watcher.Close()
	})
	return err
}
