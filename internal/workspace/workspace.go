// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package workspace finds the source files a directory scan should visit and
// runs per-file work over them with bounded parallelism.
// Implements: prd006-workspace R1 (File Walker), R2 (Parallel Scan);
//
//	docs/ARCHITECTURE.md § Workspace.
package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/sync/errgroup"

	"github.com/petar-djukic/go-codelens/internal/lens"
)

// skipDirs contains directory names that Collect never descends into.
var skipDirs = map[string]bool{
	"vendor":       true,
	".git":         true,
	"node_modules": true,
	"target":       true,
	"dist":         true,
}

// Options filters the files Collect returns.
type Options struct {
	// Include limits results to paths matching at least one doublestar
	// pattern. Empty means every supported file.
	Include []string
	// Exclude drops paths matching any doublestar pattern.
	Exclude []string
	// Accept reports whether a file is scannable. Defaults to files whose
	// extension maps to a dialect.
	Accept func(path string) bool
}

// Validate checks that every glob pattern is well formed.
func (o Options) Validate() error {
	for _, p := range append(append([]string(nil), o.Include...), o.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	return nil
}

// Match reports whether relPath (slash separated) passes the include and
// exclude patterns.
func (o Options) Match(relPath string) bool {
	for _, p := range o.Exclude {
		if ok, _ := doublestar.Match(p, relPath); ok {
			return false
		}
	}
	if len(o.Include) == 0 {
		return true
	}
	for _, p := range o.Include {
		if ok, _ := doublestar.Match(p, relPath); ok {
			return true
		}
	}
	return false
}

func (o Options) accept(path string) bool {
	if o.Accept != nil {
		return o.Accept(path)
	}
	_, ok := lens.ForPath(path)
	return ok
}

// Matcher decides which directories and files under a root are part of the
// workspace. It combines skip dirs, the root .gitignore and Options.
type Matcher struct {
	root string
	opts Options
	gi   *ignore.GitIgnore
}

// NewMatcher validates opts and loads root/.gitignore. A missing or
// unreadable .gitignore ignores nothing.
func NewMatcher(root string, opts Options) (*Matcher, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving directory: %w", err)
	}
	m := &Matcher{root: absRoot, opts: opts}
	if gi, err := ignore.CompileIgnoreFile(filepath.Join(absRoot, ".gitignore")); err == nil {
		m.gi = gi
	}
	return m, nil
}

// Root returns the absolute workspace root.
func (m *Matcher) Root() string { return m.root }

// Rel converts an absolute path below the root to the slash-separated
// relative form the other methods take.
func (m *Matcher) Rel(path string) (string, bool) {
	rel, err := filepath.Rel(m.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// Dir reports whether the directory at rel should be descended into.
func (m *Matcher) Dir(rel string) bool {
	if rel == "." || rel == "" {
		return true
	}
	if skipDirs[path.Base(rel)] {
		return false
	}
	return m.gi == nil || !m.gi.MatchesPath(rel+"/")
}

// File reports whether the file at rel is scannable and selected.
func (m *Matcher) File(rel string) bool {
	if m.gi != nil && m.gi.MatchesPath(rel) {
		return false
	}
	return m.opts.accept(rel) && m.opts.Match(rel)
}

// Collect walks the tree rooted at root and returns the scannable files as
// slash-separated paths relative to root, sorted.
//
// It skips vendor/, .git/, node_modules/, target/ and dist/, and honours the
// .gitignore at root. Unreadable entries are skipped, not reported.
func Collect(root string, opts Options) ([]string, error) {
	m, err := NewMatcher(root, opts)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(m.root)
	if err != nil {
		return nil, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", m.root)
	}

	var paths []string
	err = filepath.WalkDir(m.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		rel, ok := m.Rel(p)
		if !ok {
			return nil
		}
		if d.IsDir() {
			if !m.Dir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && m.File(rel) {
			paths = append(paths, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	sort.Strings(paths)
	return paths, nil
}

// ForEach calls fn for every path with at most concurrency calls in flight.
// The first error cancels the context passed to the remaining calls and is
// returned. If concurrency <= 0 it defaults to runtime.NumCPU().
func ForEach(ctx context.Context, paths []string, concurrency int, fn func(ctx context.Context, path string) error) error {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, p := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, p)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
