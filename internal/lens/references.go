// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd002-lens-engine R2.1-R2.5.
package lens

import (
	"strings"

	"github.com/petar-djukic/go-codelens/pkg/types"
)

// FindReferences returns every whole-identifier occurrence of name in text,
// in document order, skipping lines classified as a definition of name for
// the given kind. Occurrences inside comments and string literals are
// counted; use internal/mask first to exclude them.
//
// Implements: prd002-lens-engine R2.1-R2.3.
func (d *Dialect) FindReferences(text, name string, kind types.SymbolKind) []types.Location {
	if d == nil {
		return nil
	}
	return d.findInLines(splitLines(text), name, kind)
}

func (d *Dialect) findInLines(lines []string, name string, kind types.SymbolKind) []types.Location {
	if name == "" {
		return nil
	}
	needle := []rune(name)

	var locs []types.Location
	for i, line := range lines {
		if !strings.Contains(line, name) {
			continue
		}
		runes := []rune(line)
		checked, isDef := false, false
		for c := indexRunes(runes, needle, 0); c >= 0; c = indexRunes(runes, needle, c+1) {
			if !atBoundary(runes, c, len(needle)) {
				continue
			}
			if !checked {
				isDef = d.IsDefinitionLine(line, name, kind)
				checked = true
			}
			if isDef {
				break
			}
			locs = append(locs, types.Location{Line: i + 1, Column: c + 1})
		}
	}
	return locs
}

// IsDefinitionLine reports whether line counts as the definition of name
// for kind. The test is coarse: the kind's keyword and name must both
// appear on the line (plus "(" for functions), but name is not required to
// be the token that follows the keyword. A use that shares a line with an
// unrelated definition of the same kind is therefore dropped.
//
// Implements: prd002-lens-engine R2.4.
func (d *Dialect) IsDefinitionLine(line, name string, kind types.SymbolKind) bool {
	if d == nil || name == "" || !strings.Contains(line, name) {
		return false
	}
	r, ok := d.ruleFor(kind)
	if !ok {
		return false
	}
	if r.needParen && !strings.Contains(line, "(") {
		return false
	}
	trimmed := strings.TrimSpace(line)
	for _, kw := range r.keywords {
		if _, ok := findKeyword(trimmed, kw, false, r.generics); ok {
			return true
		}
	}
	return false
}
