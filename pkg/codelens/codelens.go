// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package codelens defines the public interface for go-codelens, which
// annotates each definition in a source file with how many times the file
// refers to it.
// Implements: prd001-lens-interface R1, R2, R3, R6;
//
//	docs/ARCHITECTURE § Lens Interface.
package codelens

import (
	"context"
	"errors"

	"github.com/hashicorp/go-hclog"

	"github.com/petar-djukic/go-codelens/internal/git"
	"github.com/petar-djukic/go-codelens/pkg/types"
)

// Error types for the Scanner API.
//
// Implements: prd001-lens-interface R6.1-R6.3.
var (
	ErrInvalidConfig  = errors.New("invalid config")
	ErrUnknownDialect = errors.New("unknown dialect")
	ErrNoGit          = git.ErrNoGit
)

// Config configures a Scanner.
//
// Implements: prd001-lens-interface R1.1-R1.8.
type Config struct {
	IncludeZero  bool              // Report definitions with no references
	MaskComments bool              // Ignore references inside comments and strings
	Dialect      string            // Force a dialect instead of choosing by extension
	Concurrency  int               // Parallel file scans (default NumCPU)
	Include      []string          // Doublestar patterns selecting files in directory scans
	Exclude      []string          // Doublestar patterns dropping files in directory scans
	Cache        types.ResultCache // Result cache (default in-memory)
	Logger       hclog.Logger      // Logger (default discards)
}

// FileResult holds the lenses computed for one file.
type FileResult = types.FileResult

// WatchFunc receives the files rescanned after a burst of changes and the
// paths that were removed. Paths are relative to the watched root.
type WatchFunc func(results []FileResult, removed []string)

// Scanner computes reference-count lenses.
//
// Implements: prd001-lens-interface R2.1-R2.6.
type Scanner interface {
	// ScanFile returns the lenses for one file's content. The dialect comes
	// from the path's extension unless Config.Dialect is set; a file no
	// dialect handles yields an empty result, not an error.
	ScanFile(ctx context.Context, path string, content []byte) (*FileResult, error)

	// ScanDir scans every selected file below root in parallel. Results
	// are sorted by path, relative to root.
	ScanDir(ctx context.Context, root string) ([]FileResult, error)

	// ScanRevision scans the files committed at rev in the repository
	// containing workDir. Working tree changes are not seen. An empty rev
	// means HEAD.
	ScanRevision(ctx context.Context, workDir, rev string) ([]FileResult, error)

	// Definitions returns the definitions in content in document order.
	Definitions(ctx context.Context, path string, content []byte) ([]types.Symbol, error)

	// References returns the occurrences of name in content that count
	// toward the lens of a definition of the given kind.
	References(ctx context.Context, path string, content []byte, name string, kind types.SymbolKind) ([]types.Location, error)

	// Invalidate drops any cached result for path.
	Invalidate(path string)

	// Watch rescans files below root as they change until ctx is done.
	Watch(ctx context.Context, root string, fn WatchFunc) error
}
