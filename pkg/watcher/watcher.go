// Package watcher reloads sidecar annotations edited outside the tool.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// SidecarWatcher watches one sidecar file for external modification and
// triggers a debounced callback. Saves are atomic renames into place, so the
// watch sits on the containing directory and events are filtered down to
// the target file name.
type SidecarWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu       sync.Mutex
	path     string
	dir      string
	paused   bool
	timer    *time.Timer
	callback func(string)
}

// NewSidecarWatcher creates a watcher with the given debounce window.
func NewSidecarWatcher(debounce time.Duration) (*SidecarWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	sw := &SidecarWatcher{watcher: w, debounce: debounce}
	go sw.loop()
	return sw, nil
}

// SetPath switches the watch to a new sidecar file, replacing any previous
// target. The file itself does not have to exist yet.
func (sw *SidecarWatcher) SetPath(path string, callback func(string)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	dir := filepath.Dir(abs)

	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.dir != "" && sw.dir != dir {
		if err := sw.watcher.Remove(sw.dir); err != nil {
			log.WithError(err).WithField("dir", sw.dir).Warn("could not unwatch folder")
		}
		sw.dir = ""
	}
	if sw.dir != dir {
		if err := sw.watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		sw.dir = dir
	}
	sw.path = abs
	sw.callback = callback
	sw.cancelTimerLocked()
	return nil
}

// Pause makes the watcher drop events, so the tool's own saves do not loop
// back as reload notifications.
func (sw *SidecarWatcher) Pause() {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	sw.paused = true
	sw.cancelTimerLocked()
}

// Resume re-enables event delivery after a Pause.
func (sw *SidecarWatcher) Resume() {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	sw.paused = false
}

// Close stops the watcher.
func (sw *SidecarWatcher) Close() error {
	sw.mu.Lock()
	sw.cancelTimerLocked()
	sw.mu.Unlock()
	return sw.watcher.Close()
}

func (sw *SidecarWatcher) loop() {
	for {
		select {
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				sw.handleEvent(event.Name)
			}
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			log.WithError(err).Warn("sidecar watcher error")
		}
	}
}

func (sw *SidecarWatcher) handleEvent(name string) {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.paused || sw.path == "" || filepath.Clean(name) != sw.path {
		return
	}
	path, callback := sw.path, sw.callback
	sw.cancelTimerLocked()
	sw.timer = time.AfterFunc(sw.debounce, func() {
		callback(path)
	})
}

func (sw *SidecarWatcher) cancelTimerLocked() {
	if sw.timer != nil {
		sw.timer.Stop()
		sw.timer = nil
	}
}
