// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package lens finds top-level symbol definitions in source text and counts
// the textual references to each of them. It is line oriented and purely
// textual: there is no parser, no scope resolution, and no I/O.
// Implements: prd002-lens-engine R1 (Definition Extractor), R2 (Reference
// Counter), R3 (Label Formatter);
//
//	docs/ARCHITECTURE § Lens Engine.
package lens

import (
	"path/filepath"
	"strings"

	"github.com/petar-djukic/go-codelens/pkg/types"
)

// matchMode controls where a rule's keyword may appear on a line.
type matchMode int

const (
	matchContains matchMode = iota // keyword anywhere on the line
	matchPrefix                    // line must start with the keyword
)

// nameMode selects how the symbol name is cut out of the text that follows
// the keyword.
type nameMode int

const (
	nameUntilParen   nameMode = iota // up to the next "("
	nameFirstToken                   // first whitespace-delimited token
	nameUntilTypeSep                 // up to the next ":", "=" or ";"
)

// rule is the strategy for one symbol kind: how its definition lines are
// recognized, how the name is extracted, and how a line is classified as
// the definition when references are counted.
type rule struct {
	kind      types.SymbolKind
	keywords  []string
	match     matchMode
	name      nameMode
	modifiers []string // words skipped between keyword and name
	generics  bool     // keyword may be followed directly by <...>
	topLevel  bool     // only unindented lines define this kind
	needParen bool     // definition line must contain "("
}

// Dialect is an ordered table of kind rules for one language. Rules are
// evaluated in order and the first match wins, so a line yields at most one
// definition.
type Dialect struct {
	Name       string
	Extensions []string

	comments []string // trimmed lines starting with these are not definitions
	exports  []string // trimmed lines starting with these are exported
	rules    []rule

	// exportLists enables "export { a }" and "export default a" statements.
	exportLists bool
}

// Rust is the reference dialect.
var Rust = &Dialect{
	Name:       "rust",
	Extensions: []string{".rs"},
	comments:   []string{"//", "/*", "*"},
	exports:    []string{"pub ", "pub("},
	rules: []rule{
		{kind: types.Function, keywords: []string{"fn"}, name: nameUntilParen, needParen: true},
		{kind: types.Struct, keywords: []string{"struct"}, name: nameFirstToken},
		{kind: types.Enum, keywords: []string{"enum"}, name: nameFirstToken},
		{kind: types.Trait, keywords: []string{"trait"}, name: nameFirstToken},
		{kind: types.Module, keywords: []string{"mod"}, name: nameFirstToken},
		{kind: types.TypeAlias, keywords: []string{"type"}, name: nameFirstToken},
		{kind: types.Impl, keywords: []string{"impl"}, match: matchPrefix, name: nameFirstToken, generics: true},
		{kind: types.Constant, keywords: []string{"const"}, name: nameUntilTypeSep},
		{kind: types.Static, keywords: []string{"static"}, name: nameUntilTypeSep, modifiers: []string{"mut"}},
	},
}

// TypeScript covers .ts and .tsx sources.
var TypeScript = &Dialect{
	Name:        "typescript",
	Extensions:  []string{".ts", ".tsx", ".mts", ".cts"},
	comments:    []string{"//", "/*", "*"},
	exports:     []string{"export "},
	exportLists: true,
	rules: []rule{
		{kind: types.Function, keywords: []string{"function"}, name: nameUntilParen, needParen: true},
		{kind: types.Class, keywords: []string{"class"}, name: nameFirstToken},
		{kind: types.Interface, keywords: []string{"interface"}, name: nameFirstToken},
		{kind: types.Enum, keywords: []string{"enum"}, name: nameFirstToken},
		{kind: types.TypeAlias, keywords: []string{"type"}, name: nameFirstToken},
		{kind: types.Module, keywords: []string{"namespace"}, name: nameFirstToken},
		{kind: types.Constant, keywords: []string{"const"}, name: nameUntilTypeSep, topLevel: true},
		{kind: types.Variable, keywords: []string{"let", "var"}, name: nameUntilTypeSep, topLevel: true},
	},
}

// JavaScript covers plain and module JavaScript sources.
var JavaScript = &Dialect{
	Name:        "javascript",
	Extensions:  []string{".js", ".jsx", ".mjs", ".cjs"},
	comments:    []string{"//", "/*", "*"},
	exports:     []string{"export "},
	exportLists: true,
	rules: []rule{
		{kind: types.Function, keywords: []string{"function"}, name: nameUntilParen, needParen: true},
		{kind: types.Class, keywords: []string{"class"}, name: nameFirstToken},
		{kind: types.Constant, keywords: []string{"const"}, name: nameUntilTypeSep, topLevel: true},
		{kind: types.Variable, keywords: []string{"let", "var"}, name: nameUntilTypeSep, topLevel: true},
	},
}

var dialects = []*Dialect{Rust, TypeScript, JavaScript}

// Dialects returns every registered dialect.
func Dialects() []*Dialect {
	out := make([]*Dialect, len(dialects))
	copy(out, dialects)
	return out
}

// Lookup returns the dialect with the given name.
func Lookup(name string) (*Dialect, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, d := range dialects {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}

// ForPath selects a dialect from the file extension.
func ForPath(path string) (*Dialect, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return nil, false
	}
	for _, d := range dialects {
		for _, e := range d.Extensions {
			if e == ext {
				return d, true
			}
		}
	}
	return nil, false
}

// Kinds lists the symbol kinds this dialect recognizes, in priority order.
func (d *Dialect) Kinds() []types.SymbolKind {
	if d == nil {
		return nil
	}
	kinds := make([]types.SymbolKind, 0, len(d.rules))
	for _, r := range d.rules {
		kinds = append(kinds, r.kind)
	}
	return kinds
}

func (d *Dialect) ruleFor(kind types.SymbolKind) (rule, bool) {
	for _, r := range d.rules {
		if r.kind == kind {
			return r, true
		}
	}
	return rule{}, false
}

func (d *Dialect) isComment(trimmed string) bool {
	for _, c := range d.comments {
		if strings.HasPrefix(trimmed, c) {
			return true
		}
	}
	return false
}

func (d *Dialect) isExported(trimmed string) bool {
	for _, e := range d.exports {
		if strings.HasPrefix(trimmed, e) {
			return true
		}
	}
	return false
}
