// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package report renders lens results for people and for tools.
// Implements: prd010-report R1, R2;
//
//	docs/ARCHITECTURE § Report Rendering.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/petar-djukic/go-codelens/pkg/types"
)

// Format names an output layout.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

const maxLineLength = 120

// ParseFormat validates a format name. Empty means FormatText.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text or json)", s)
	}
}

// Config configures rendering.
type Config struct {
	Format Format
	// MaxLines caps the text layout, header included. Files are added
	// whole, in order, until the next one would not fit. Zero means no cap.
	MaxLines int
}

// Summary is the rendered text and what made it in.
type Summary struct {
	Text         string
	FilesShown   int
	TotalFiles   int
	SymbolsShown int
	TotalSymbols int
}

// Text renders results grouped by file:
//
//	codelens (2/2 files, 3/3 symbols)
//	src/lib.rs
//	     1  function add  2 references
//
// Files without lenses are left out of the counts.
//
// Implements: prd010-report R1.1-R1.4.
func Text(results []types.FileResult, maxLines int) *Summary {
	s := &Summary{}
	for _, r := range results {
		if len(r.Lenses) > 0 {
			s.TotalFiles++
			s.TotalSymbols += len(r.Lenses)
		}
	}

	var body strings.Builder
	used := 1 // header
	for _, r := range results {
		if len(r.Lenses) == 0 {
			continue
		}
		if maxLines > 0 && used+1+len(r.Lenses) > maxLines {
			break
		}

		body.WriteString(r.Path + "\n")
		for _, l := range r.Lenses {
			line := fmt.Sprintf("  %4d  %s %s  %s", l.Line(), l.Symbol.Kind, l.Symbol.Name, l.Label)
			if utf8.RuneCountInString(line) > maxLineLength {
				line = string([]rune(line)[:maxLineLength-3]) + "..."
			}
			body.WriteString(line + "\n")
		}
		used += 1 + len(r.Lenses)
		s.FilesShown++
		s.SymbolsShown += len(r.Lenses)
	}

	header := fmt.Sprintf("codelens (%d/%d files, %d/%d symbols)", s.FilesShown, s.TotalFiles, s.SymbolsShown, s.TotalSymbols)
	s.Text = header + "\n" + body.String()
	return s
}

// JSON writes results as an indented JSON array. A nil slice is written as
// an empty array.
func JSON(w io.Writer, results []types.FileResult) error {
	if results == nil {
		results = []types.FileResult{}
	}
	return encode(w, results)
}

// Write renders results to w in the configured format.
func Write(w io.Writer, results []types.FileResult, cfg Config) error {
	switch cfg.Format {
	case FormatJSON:
		return JSON(w, results)
	case FormatText, "":
		_, err := io.WriteString(w, Text(results, cfg.MaxLines).Text)
		return err
	default:
		return fmt.Errorf("unknown format %q", cfg.Format)
	}
}

// Symbols writes definitions one per line as "path:line:column  kind name",
// or as a JSON array.
func Symbols(w io.Writer, syms []types.Symbol, format Format) error {
	if format == FormatJSON {
		if syms == nil {
			syms = []types.Symbol{}
		}
		return encode(w, syms)
	}
	for _, s := range syms {
		if _, err := fmt.Fprintf(w, "%s:%d:%d  %s %s\n", s.FilePath, s.Line, s.Column, s.Kind, s.Name); err != nil {
			return err
		}
	}
	return nil
}

// Locations writes the references found in path one per line followed by
// the lens label, or as a JSON object.
func Locations(w io.Writer, path string, locs []types.Location, format Format, label string) error {
	if format == FormatJSON {
		if locs == nil {
			locs = []types.Location{}
		}
		return encode(w, struct {
			Path       string           `json:"path"`
			References []types.Location `json:"references"`
			Label      string           `json:"label"`
		}{path, locs, label})
	}
	for _, l := range locs {
		if _, err := fmt.Fprintf(w, "%s:%d:%d\n", path, l.Line, l.Column); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, label)
	return err
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	return nil
}
