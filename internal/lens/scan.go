// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd002-lens-engine R3, R4.
package lens

import (
	"strconv"
	"strings"

	"github.com/petar-djukic/go-codelens/pkg/types"
)

// ScanOptions controls which lenses Scan returns.
type ScanOptions struct {
	// IncludeZero keeps definitions that have no references.
	IncludeZero bool
}

// Scan extracts every definition in text and counts its references. Each
// definition is counted independently, so a struct and a same-named impl
// block get separate lenses. Output is in document order.
//
// Implements: prd002-lens-engine R4.1.
func (d *Dialect) Scan(text string, opts ScanOptions) []types.Lens {
	if d == nil {
		return nil
	}
	lines := splitLines(text)
	defs := d.extractLines(lines)

	lenses := make([]types.Lens, 0, len(defs))
	for _, sym := range defs {
		n := len(d.findInLines(lines, sym.Name, sym.Kind))
		if n == 0 && !opts.IncludeZero {
			continue
		}
		lenses = append(lenses, types.Lens{
			Symbol: sym,
			Count:  n,
			Label:  FormatLabel(n),
		})
	}
	return lenses
}

// ScanMasked is Scan over masked, a copy of text in which comments and
// string literals were blanked in place. Definitions and counts come from
// masked; signatures are taken from the same lines of text.
func (d *Dialect) ScanMasked(text, masked string, opts ScanOptions) []types.Lens {
	lenses := d.Scan(masked, opts)
	orig := splitLines(text)
	for i := range lenses {
		if n := lenses[i].Symbol.Line; n <= len(orig) {
			lenses[i].Symbol.Signature = signature(strings.TrimSpace(orig[n-1]))
		}
	}
	return lenses
}

// FormatLabel renders a reference count: "0 references", "1 reference",
// "N references".
//
// Implements: prd002-lens-engine R3.1.
func FormatLabel(n int) string {
	if n == 1 {
		return "1 reference"
	}
	return strconv.Itoa(n) + " references"
}
