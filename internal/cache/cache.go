// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cache stores lens results between scans so unchanged files are not
// rescanned. Entries are keyed by path and validated against a hash of the
// file content, which callers recompute on every lookup.
// Implements: prd005-result-cache R1-R4;
//
//	docs/ARCHITECTURE § Result Cache.
package cache

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/petar-djukic/go-codelens/pkg/types"
)

// KeyFor builds the cache key for content read from path.
func KeyFor(path string, content []byte, profile string) types.CacheKey {
	return types.CacheKey{
		Path:    path,
		Sum:     xxhash.Sum64(content),
		Profile: profile,
	}
}

// Stats tracks cache effectiveness.
type Stats struct {
	Hits          int
	Misses        int
	Invalidations int
}

// entry stores one file's results with the key they were computed for.
type entry struct {
	sum     uint64
	profile string
	lenses  []types.Lens
}

// Memory is an in-process ResultCache. It is safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	stats   Stats
}

var _ types.ResultCache = (*Memory)(nil)

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entry)}
}

// Get returns the cached lenses for key. A stored entry for the same path
// with a different content hash or profile is a miss.
func (m *Memory) Get(key types.CacheKey) ([]types.Lens, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key.Path]
	if !ok || e.sum != key.Sum || e.profile != key.Profile {
		m.stats.Misses++
		return nil, false
	}
	m.stats.Hits++
	return cloneLenses(e.lenses), true
}

// Put stores lenses for key, replacing any previous entry for the path.
func (m *Memory) Put(key types.CacheKey, lenses []types.Lens) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key.Path] = entry{sum: key.Sum, profile: key.Profile, lenses: cloneLenses(lenses)}
}

// Invalidate drops the entry for path.
func (m *Memory) Invalidate(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[path]; ok {
		delete(m.entries, path)
		m.stats.Invalidations++
	}
}

// Len returns the number of cached files.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Stats returns a snapshot of the counters.
func (m *Memory) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

func cloneLenses(in []types.Lens) []types.Lens {
	if in == nil {
		return nil
	}
	out := make([]types.Lens, len(in))
	copy(out, in)
	return out
}
