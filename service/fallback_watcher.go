package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"menu-signage/logging"
)

// FallbackWatcher calls onChange when the local fallback catalog file is
// written, created or replaced. Bursts of events within the debounce window
// collapse into one call.
type FallbackWatcher struct {
	path     string
	onChange func()
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

// NewFallbackWatcher watches the directory of path, so editors that replace
// the file by rename are seen too.
func NewFallbackWatcher(path string, onChange func()) (*FallbackWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	return &FallbackWatcher{
		path:     abs,
		onChange: onChange,
		debounce: 500 * time.Millisecond,
		watcher:  w,
	}, nil
}

// Run delivers change notifications until ctx is done, then closes the watcher
func (fw *FallbackWatcher) Run(ctx context.Context) error {
	defer fw.watcher.Close()

	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()

	var pending time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				pending = time.Now()
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			logging.Log.Warnf("⚠️ Fallback catalog watcher error: %v", err)
		case now := <-tick.C:
			if !pending.IsZero() && now.Sub(pending) >= fw.debounce {
				pending = time.Time{}
				logging.Log.Infof("🔄 Fallback catalog changed: %s", fw.path)
				fw.onChange()
			}
		}
	}
}
