// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package watch reports batches of changed source files under a workspace
// root. Events are debounced so an editor save that touches a file several
// times produces one notification.
// Implements: prd007-watch R1, R2;
//
//	docs/ARCHITECTURE § Watch Mode.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"

	"github.com/petar-djukic/go-codelens/internal/logging"
	"github.com/petar-djukic/go-codelens/internal/workspace"
)

// DefaultDebounce is the quiet period used when Config.Debounce is zero.
const DefaultDebounce = 200 * time.Millisecond

// Event describes one file in a batch.
type Event struct {
	Path    string // slash separated, relative to the root
	Removed bool
}

// Handler receives each debounced batch, sorted by path.
type Handler func(ctx context.Context, events []Event)

// Config configures a Watcher.
type Config struct {
	Root     string
	Debounce time.Duration
	Filter   workspace.Options
	Logger   hclog.Logger
}

// Watcher watches every workspace directory below a root.
type Watcher struct {
	fs       *fsnotify.Watcher
	match    *workspace.Matcher
	debounce time.Duration
	logger   hclog.Logger
}

// New creates a watcher and registers the root and its subdirectories.
func New(cfg Config) (*Watcher, error) {
	m, err := workspace.NewMatcher(cfg.Root, cfg.Filter)
	if err != nil {
		return nil, err
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	w := &Watcher{
		fs:       fsw,
		match:    m,
		debounce: cfg.Debounce,
		logger:   cfg.Logger.Named("watch"),
	}
	if err := w.addTree(m.Root()); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// addTree adds watches for dir and every workspace directory below it.
func (w *Watcher) addTree(dir string) error {
	visited := map[string]bool{}
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return fmt.Errorf("walking %s: %w", dir, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		rel, ok := w.match.Rel(p)
		if !ok || !w.match.Dir(rel) {
			return filepath.SkipDir
		}
		resolved, err := filepath.EvalSymlinks(p)
		if err != nil || visited[resolved] {
			return filepath.SkipDir
		}
		visited[resolved] = true

		if err := w.fs.Add(p); err != nil {
			w.logger.Warn("failed to add watch", "dir", p, "error", err)
		}
		return nil
	})
}

// Run delivers batches to h until ctx is cancelled, then releases the
// watcher. Pending events at shutdown are dropped. Run must be called once.
func (w *Watcher) Run(ctx context.Context, h Handler) error {
	defer w.fs.Close()

	pending := map[string]bool{} // path -> removed
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if rel, removed, keep := w.classify(ev); keep {
				pending[rel] = removed
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]Event, 0, len(pending))
			for p, removed := range pending {
				batch = append(batch, Event{Path: p, Removed: removed})
			}
			pending = map[string]bool{}
			sort.Slice(batch, func(i, j int) bool { return batch[i].Path < batch[j].Path })

			w.logger.Debug("flushing events", "count", len(batch))
			h(ctx, batch)
		}
	}
}

// classify maps an fsnotify event to a workspace file event. New
// directories are watched as a side effect and never reported.
func (w *Watcher) classify(ev fsnotify.Event) (string, bool, bool) {
	rel, ok := w.match.Rel(ev.Name)
	if !ok {
		return "", false, false
	}

	info, err := os.Stat(ev.Name)
	if err != nil {
		// Gone: a remove, or a rename away from this path.
		if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
			return rel, true, w.match.File(rel)
		}
		return "", false, false
	}

	if info.IsDir() {
		if ev.Has(fsnotify.Create) && w.match.Dir(rel) {
			if err := w.addTree(ev.Name); err != nil {
				w.logger.Warn("failed to watch new directory", "dir", rel, "error", err)
			}
		}
		return "", false, false
	}

	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) {
		return "", false, false
	}
	return rel, false, w.match.File(rel)
}
