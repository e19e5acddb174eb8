// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package logging builds the hclog loggers used by go-codelens components.
//
// Configuration is controlled via environment variables:
//   - CODELENS_LOG_LEVEL: trace, debug, info, warn, error (default: warn)
//   - CODELENS_LOG_FORMAT: text, json (default: text)
//
// All logging goes to stderr so stdout carries only scan results.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

const (
	envLevel  = "CODELENS_LOG_LEVEL"
	envFormat = "CODELENS_LOG_FORMAT"
)

// Config holds logging configuration.
type Config struct {
	Name   string
	Level  hclog.Level
	JSON   bool
	Output io.Writer // defaults to os.Stderr
}

// DefaultConfig returns the defaults for the named component.
func DefaultConfig(name string) Config {
	return Config{
		Name:   name,
		Level:  hclog.Warn,
		Output: os.Stderr,
	}
}

// LoadConfigFromEnv returns DefaultConfig with any environment overrides.
func LoadConfigFromEnv(name string) Config {
	cfg := DefaultConfig(name)

	if v := os.Getenv(envLevel); v != "" {
		if lvl := hclog.LevelFromString(strings.ToLower(v)); lvl != hclog.NoLevel {
			cfg.Level = lvl
		}
	}
	if v := os.Getenv(envFormat); strings.EqualFold(v, "json") {
		cfg.JSON = true
	}
	return cfg
}

// New creates a logger from cfg.
func New(cfg Config) hclog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       cfg.Name,
		Level:      cfg.Level,
		Output:     out,
		JSONFormat: cfg.JSON,
	})
}

// Default returns a logger configured from the environment. Command entry
// points use this.
func Default(name string) hclog.Logger {
	return New(LoadConfigFromEnv(name))
}

// Nop returns a logger that discards everything.
func Nop() hclog.Logger {
	return hclog.NewNullLogger()
}
