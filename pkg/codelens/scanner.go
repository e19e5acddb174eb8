// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd001-lens-interface R2, R5;
//
//	docs/ARCHITECTURE § Lens Interface, Result Cache.
package codelens

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/petar-djukic/go-codelens/internal/cache"
	"github.com/petar-djukic/go-codelens/internal/git"
	"github.com/petar-djukic/go-codelens/internal/lens"
	"github.com/petar-djukic/go-codelens/internal/mask"
	"github.com/petar-djukic/go-codelens/internal/watch"
	"github.com/petar-djukic/go-codelens/internal/workspace"
	"github.com/petar-djukic/go-codelens/pkg/types"
)

// scanner implements Scanner on top of the lens engine.
type scanner struct {
	cfg    Config
	forced *lens.Dialect
	filter workspace.Options
	logger hclog.Logger
}

var _ Scanner = (*scanner)(nil)

// dialectFor picks the dialect for path.
func (s *scanner) dialectFor(path string) (*lens.Dialect, bool) {
	if s.forced != nil {
		return s.forced, true
	}
	return lens.ForPath(path)
}

// selects reports whether a slash-separated relative path belongs in a
// directory or revision scan.
func (s *scanner) selects(rel string) bool {
	if _, ok := lens.ForPath(rel); !ok {
		return false
	}
	return s.filter.Match(rel)
}

// profile names the settings a cached result depends on.
func (s *scanner) profile(d *lens.Dialect) string {
	if s.cfg.MaskComments && mask.Supported(d.Name) {
		return d.Name + "+mask"
	}
	return d.Name
}

// cacheKeyPath makes cache entries independent of the caller's working
// directory.
func cacheKeyPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func (s *scanner) ScanFile(ctx context.Context, path string, content []byte) (*FileResult, error) {
	return s.scanFile(ctx, cacheKeyPath(path), path, content)
}

// scanFile serves a file from the cache or scans it. The cache always holds
// the full result, zero counts included; the zero-count policy is applied
// on the way out so one entry serves both settings.
func (s *scanner) scanFile(ctx context.Context, keyPath, path string, content []byte) (*FileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d, ok := s.dialectFor(path)
	if !ok {
		return &FileResult{Path: path, Lenses: []types.Lens{}}, nil
	}

	key := cache.KeyFor(keyPath, content, s.profile(d))
	all, hit := s.cfg.Cache.Get(key)
	if hit {
		s.logger.Trace("cache hit", "path", path)
	} else {
		var err error
		all, err = s.scan(ctx, d, path, content)
		if err != nil {
			return nil, err
		}
		s.cfg.Cache.Put(key, all)
	}

	return &FileResult{
		Path:     path,
		Language: d.Name,
		Lenses:   s.present(all, path),
		Cached:   hit,
	}, nil
}

// scan runs the engine over content, masked when configured.
func (s *scanner) scan(ctx context.Context, d *lens.Dialect, path string, content []byte) ([]types.Lens, error) {
	opts := lens.ScanOptions{IncludeZero: true}
	text := string(content)

	if s.cfg.MaskComments {
		masked, err := s.mask(ctx, d, path, content)
		if err != nil {
			return nil, err
		}
		if masked != nil {
			return d.ScanMasked(text, string(masked), opts), nil
		}
	}
	return d.Scan(text, opts), nil
}

// mask blanks comments and strings. A nil result with a nil error means
// masking was not possible and the caller should count unmasked text.
func (s *scanner) mask(ctx context.Context, d *lens.Dialect, path string, content []byte) ([]byte, error) {
	if !mask.Supported(d.Name) {
		return nil, nil
	}
	masked, err := mask.Apply(ctx, d.Name, content)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.logger.Warn("masking failed, counting unmasked text", "path", path, "error", err)
		return nil, nil
	}
	return masked, nil
}

// present applies the zero-count policy and stamps the display path.
func (s *scanner) present(all []types.Lens, path string) []types.Lens {
	out := make([]types.Lens, 0, len(all))
	for _, l := range all {
		if l.Count == 0 && !s.cfg.IncludeZero {
			continue
		}
		l.Symbol.FilePath = path
		out = append(out, l)
	}
	return out
}

func (s *scanner) ScanDir(ctx context.Context, root string) ([]FileResult, error) {
	start := time.Now()
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving directory: %w", err)
	}
	paths, err := workspace.Collect(absRoot, s.filter)
	if err != nil {
		return nil, err
	}

	slots := make(map[string]int, len(paths))
	for i, p := range paths {
		slots[p] = i
	}
	results := make([]*FileResult, len(paths))

	err = workspace.ForEach(ctx, paths, s.cfg.Concurrency, func(ctx context.Context, rel string) error {
		abs := filepath.Join(absRoot, filepath.FromSlash(rel))
		content, err := os.ReadFile(abs)
		if err != nil {
			s.logger.Warn("skipping unreadable file", "path", rel, "error", err)
			return nil
		}
		r, err := s.scanFile(ctx, abs, rel, content)
		if err != nil {
			return err
		}
		results[slots[rel]] = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := compact(results)
	s.logger.Debug("scanned directory", "root", absRoot, "files", len(out), "elapsed", time.Since(start))
	return out, nil
}

func (s *scanner) ScanRevision(ctx context.Context, workDir, rev string) ([]FileResult, error) {
	repo, err := git.Open(git.Config{WorkDir: workDir})
	if err != nil {
		return nil, err
	}
	root, err := repo.Root()
	if err != nil {
		return nil, err
	}
	hash, err := repo.Resolve(rev)
	if err != nil {
		return nil, err
	}
	if dirty, err := repo.IsDirty(); err == nil && dirty {
		s.logger.Debug("working tree has uncommitted changes, scanning committed content", "rev", hash)
	}

	files, err := repo.Files(ctx, hash, s.selects)
	if err != nil {
		return nil, fmt.Errorf("reading revision %s: %w", hash, err)
	}

	var mu sync.Mutex
	byPath := make(map[string][]byte, len(files))
	paths := make([]string, len(files))
	for i, f := range files {
		byPath[f.Path] = f.Content
		paths[i] = f.Path
	}
	results := make([]FileResult, 0, len(files))

	err = workspace.ForEach(ctx, paths, s.cfg.Concurrency, func(ctx context.Context, rel string) error {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		r, err := s.scanFile(ctx, abs, rel, byPath[rel])
		if err != nil {
			return err
		}
		mu.Lock()
		results = append(results, *r)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	s.logger.Debug("scanned revision", "rev", hash, "files", len(results))
	return results, nil
}

func (s *scanner) Definitions(ctx context.Context, path string, content []byte) ([]types.Symbol, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d, ok := s.dialectFor(path)
	if !ok {
		return []types.Symbol{}, nil
	}
	syms := d.Extract(string(content))
	for i := range syms {
		syms[i].FilePath = path
	}
	return syms, nil
}

func (s *scanner) References(ctx context.Context, path string, content []byte, name string, kind types.SymbolKind) ([]types.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d, ok := s.dialectFor(path)
	if !ok {
		return []types.Location{}, nil
	}
	text := string(content)
	if s.cfg.MaskComments {
		masked, err := s.mask(ctx, d, path, content)
		if err != nil {
			return nil, err
		}
		if masked != nil {
			text = string(masked)
		}
	}
	return d.FindReferences(text, name, kind), nil
}

func (s *scanner) Invalidate(path string) {
	s.cfg.Cache.Invalidate(cacheKeyPath(path))
}

func (s *scanner) Watch(ctx context.Context, root string, fn WatchFunc) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving directory: %w", err)
	}
	w, err := watch.New(watch.Config{Root: absRoot, Filter: s.filter, Logger: s.logger})
	if err != nil {
		return err
	}

	return w.Run(ctx, func(ctx context.Context, events []watch.Event) {
		var results []FileResult
		var removed []string
		for _, ev := range events {
			abs := filepath.Join(absRoot, filepath.FromSlash(ev.Path))
			if ev.Removed {
				s.cfg.Cache.Invalidate(abs)
				removed = append(removed, ev.Path)
				continue
			}
			content, err := os.ReadFile(abs)
			if err != nil {
				s.logger.Warn("skipping unreadable file", "path", ev.Path, "error", err)
				continue
			}
			r, err := s.scanFile(ctx, abs, ev.Path, content)
			if err != nil {
				s.logger.Warn("rescan failed", "path", ev.Path, "error", err)
				continue
			}
			results = append(results, *r)
		}
		if len(results) > 0 || len(removed) > 0 {
			fn(results, removed)
		}
	})
}

func compact(in []*FileResult) []FileResult {
	out := make([]FileResult, 0, len(in))
	for _, r := range in {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}
