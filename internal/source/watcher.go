package source

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce coalesces bursts of write events from editors
const DefaultWatchDebounce = 250 * time.Millisecond

// Watcher signals when a watched service file changes on disk.
// The parent directory is watched so editors that replace the file by rename
// are still noticed.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *log.Logger
	watcher  *fsnotify.Watcher

	changes  chan struct{}
	stopChan chan struct{}
	stopOnce sync.Once

	debounceMu    sync.Mutex
	debounceTimer *time.Timer
}

// NewWatcher starts watching path. Call Stop to release resources.
func NewWatcher(path string, debounce time.Duration, logger *log.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:     abs,
		debounce: debounce,
		logger:   logger,
		watcher:  fw,
		changes:  make(chan struct{}, 1),
		stopChan: make(chan struct{}),
	}
	go w.watchLoop()

	if logger != nil {
		logger.Info("watching service file", "path", abs)
	}
	return w, nil
}

// Changes delivers one value per debounced change. It is closed by Stop.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Stop ends the watch; safe to call more than once
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.watcher.Close()

		w.debounceMu.Lock()
		if w.debounceTimer != nil {
			w.debounceTimer.Stop()
		}
		close(w.changes)
		w.debounceMu.Unlock()
	})
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.debounceSignal()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Error("file watcher error", "err", err)
			}

		case <-w.stopChan:
			return
		}
	}
}

// debounceSignal emits a change once events stop arriving for w.debounce
func (w *Watcher) debounceSignal() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounce, func() {
		w.debounceMu.Lock()
		defer w.debounceMu.Unlock()

		select {
		case <-w.stopChan:
			return
		default:
		}

		// Drop the signal if one is already pending
		select {
		case w.changes <- struct{}{}:
		default:
		}
		if w.logger != nil {
			w.logger.Debug("service file changed", "path", w.path)
		}
	})
}
