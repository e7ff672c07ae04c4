// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch converts Markdown files as they appear in the input
// directory. Events are debounced per file and the handler runs on the
// watcher's own goroutine, so conversions never overlap.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pdiddy/md-convert/internal/logger"
)

// DefaultDebounce is how long a file must be quiet before it is handled.
const DefaultDebounce = 500 * time.Millisecond

// minTick is the shortest interval between pending-event scans.
const minTick = time.Millisecond

// Handler is called with the path of a Markdown file that was created or
// modified.
type Handler func(path string)

// Watcher delivers debounced create and write events for *.md files in one
// directory.
type Watcher struct {
	dir      string
	debounce time.Duration
	handle   Handler
}

// New creates a Watcher for dir. debounce <= 0 selects DefaultDebounce.
func New(dir string, debounce time.Duration, handle Handler) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{dir: dir, debounce: debounce, handle: handle}
}

// Run watches until ctx is cancelled, returning nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	logger.Info("watching %s", w.dir)

	pending := map[string]time.Time{}
	ticker := time.NewTicker(w.tick())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if relevant(ev) {
				logger.Debug("event %s", ev)
				pending[ev.Name] = time.Now()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				logger.Warn("watch events dropped: %v", err)
				continue
			}
			return fmt.Errorf("watching %s: %w", w.dir, err)

		case now := <-ticker.C:
			for _, path := range due(pending, now, w.debounce) {
				delete(pending, path)
				w.handle(path)
			}
		}
	}
}

// tick returns the scan interval: half the debounce, but never below
// minTick.
func (w *Watcher) tick() time.Duration {
	return max(w.debounce/2, minTick)
}

// relevant reports whether ev is a create or write of a Markdown file.
func relevant(ev fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(ev.Name), ".md") {
		return false
	}
	return ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write)
}

// due returns the pending paths quiet for at least debounce, sorted.
func due(pending map[string]time.Time, now time.Time, debounce time.Duration) []string {
	var ready []string
	for path, last := range pending {
		if now.Sub(last) >= debounce {
			ready = append(ready, path)
		}
	}
	sort.Strings(ready)
	return ready
}
