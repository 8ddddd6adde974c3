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

// DefaultDebounceInterval is the quiet period before a reload runs.
const DefaultDebounceInterval = 250 * time.Millisecond

// Watcher reloads the process-wide configuration when its file changes.
//
// The parent directory is watched rather than the file itself so that
// editors which save by rename are still observed. Bursts of events are
// debounced into a single reload.
type Watcher struct {
	path     string
	interval time.Duration
	logger   *slog.Logger
	reload   func() error

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher creates a watcher for the configuration file at path. reload
// is called after each debounced change; nil uses ReloadConfig.
func NewWatcher(path string, interval time.Duration, logger *slog.Logger, reload func() error) *Watcher {
	if interval <= 0 {
		interval = DefaultDebounceInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	if reload == nil {
		reload = func() error {
			_, err := ReloadConfig()
			return err
		}
	}
	return &Watcher{path: path, interval: interval, logger: logger, reload: reload}
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("failed to resolve %q: %w", w.path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %q: %w", filepath.Dir(abs), err)
	}

	w.logger.Info("config watcher started", "path", abs, "debounce", w.interval)
	defer w.stopTimer()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("config watcher stopped")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != abs || event.Op&fsnotify.Chmod == fsnotify.Chmod {
				continue
			}
			w.logger.Debug("config file event", "op", event.Op.String())
			w.trigger()

		case err, ok := <-fsw.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("config watcher error", "error", err)
		}
	}
}

func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.interval, func() {
		if err := w.reload(); err != nil {
			w.logger.Error("config reload failed", "error", err)
			return
		}
		w.logger.Info("config reloaded", "path", w.path)
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
