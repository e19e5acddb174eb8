// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd005-result-cache R1;
//
//	docs/ARCHITECTURE § Result Cache.
package types

// CacheKey identifies a scan result. Sum is a hash of the file content and
// must be recomputed on every lookup; Profile captures the settings that
// change results (dialect, masking).
type CacheKey struct {
	Path    string
	Sum     uint64
	Profile string
}

// ResultCache stores lens results between scans. Implementations must treat
// an entry whose Sum or Profile differs from the lookup key as a miss.
type ResultCache interface {
	Get(key CacheKey) ([]Lens, bool)
	Put(key CacheKey, lenses []Lens)
	Invalidate(path string)
}
