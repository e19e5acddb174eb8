// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd001-lens-interface R4;
//
//	docs/ARCHITECTURE § Lens Interface.
package codelens

import (
	"fmt"
	"runtime"

	"github.com/petar-djukic/go-codelens/internal/cache"
	"github.com/petar-djukic/go-codelens/internal/lens"
	"github.com/petar-djukic/go-codelens/internal/logging"
	"github.com/petar-djukic/go-codelens/internal/workspace"
)

// New validates the config and returns a ready-to-use Scanner.
//
// Implements: prd001-lens-interface R4.1-R4.3.
func New(cfg Config) (Scanner, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	var forced *lens.Dialect
	if cfg.Dialect != "" {
		d, ok := lens.Lookup(cfg.Dialect)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, cfg.Dialect)
		}
		forced = d
	}

	applyDefaults(&cfg)

	return &scanner{
		cfg:    cfg,
		forced: forced,
		filter: workspace.Options{Include: cfg.Include, Exclude: cfg.Exclude},
		logger: cfg.Logger.Named("codelens"),
	}, nil
}

// validateConfig checks field values.
//
// Implements: prd001-lens-interface R1.6-R1.8.
func validateConfig(cfg Config) error {
	if cfg.Concurrency < 0 {
		return fmt.Errorf("Concurrency must not be negative, got %d", cfg.Concurrency)
	}
	opts := workspace.Options{Include: cfg.Include, Exclude: cfg.Exclude}
	if err := opts.Validate(); err != nil {
		return err
	}
	return nil
}

// applyDefaults fills in zero-value fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Concurrency == 0 {
		cfg.Concurrency = runtime.NumCPU()
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewMemory()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}
}
