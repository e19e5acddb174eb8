// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

// FileResult holds the lenses computed for one file.
type FileResult struct {
	Path     string `json:"path"`
	Language string `json:"language"`
	Lenses   []Lens `json:"lenses"`
	Cached   bool   `json:"cached,omitempty"` // served from a ResultCache
}
