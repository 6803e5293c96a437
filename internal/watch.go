package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher rebuilds on manifest changes: it watches directory trees and
// invokes the callback for every modified *.mm.yaml file.
type Watcher struct {
	watcher    *fsnotify.Watcher
	dirs       []string
	onChange   func(path string)
	logger     *zap.Logger
	isWatching bool
	debounce   time.Duration
}

// NewWatcher prepares a watcher over the given directory trees.
func NewWatcher(logger *zap.Logger, dirs []string, onChange func(path string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	return &Watcher{
		watcher:  fsw,
		dirs:     dirs,
		onChange: onChange,
		logger:   logger,
		debounce: 100 * time.Millisecond,
	}, nil
}

// StartWatching registers every directory under the watch roots and
// starts the event loop.
func (w *Watcher) StartWatching() error {
	if w.isWatching {
		return fmt.Errorf("already watching")
	}

	for _, dir := range w.dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return w.watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	w.isWatching = true
	go w.watchLoop()
	return nil
}

// StopWatching ends the event loop and releases the watcher.
func (w *Watcher) StopWatching() error {
	if !w.isWatching {
		w.logger.Warn("not watching")
	}

	w.isWatching = false
	return w.watcher.Close()
}

func (w *Watcher) watchLoop() {
	for w.isWatching {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFileEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleFileEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Write == fsnotify.Write {
		if strings.HasSuffix(event.Name, ".mm.yaml") {
			// wait for a while after file change to consider multiple changes as one
			time.Sleep(w.debounce)
			w.logger.Info("manifest changed", zap.String("path", event.Name))
			w.onChange(event.Name)
		}
	}
}
