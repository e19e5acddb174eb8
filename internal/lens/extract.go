// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd002-lens-engine R1.1-R1.6.
package lens

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/petar-djukic/go-codelens/pkg/types"
)

const maxSignatureLength = 100

// Extract returns the definitions found in text, in document order. Lines
// that match no rule, or whose candidate name is not a valid identifier,
// are skipped. A nil dialect extracts nothing.
//
// Implements: prd002-lens-engine R1.1-R1.4.
func (d *Dialect) Extract(text string) []types.Symbol {
	if d == nil {
		return nil
	}
	return d.extractLines(splitLines(text))
}

func (d *Dialect) extractLines(lines []string) []types.Symbol {
	var defs []types.Symbol
	for i, raw := range lines {
		sym, ok := d.matchLine(raw)
		if !ok {
			continue
		}
		sym.Line = i + 1
		defs = append(defs, sym)
	}
	if d.exportLists && len(defs) > 0 {
		markListedExports(defs, lines)
	}
	return defs
}

// markListedExports flags definitions exported by a separate statement,
// "export { a, b as c }" or "export default a". Re-exports from another
// module are ignored.
func markListedExports(defs []types.Symbol, lines []string) {
	listed := make(map[string]bool)
	for _, raw := range lines {
		for _, name := range exportStatementNames(strings.TrimSpace(raw)) {
			listed[name] = true
		}
	}
	for i := range defs {
		if listed[defs[i].Name] {
			defs[i].Exported = true
		}
	}
}

func exportStatementNames(line string) []string {
	if rest, ok := strings.CutPrefix(line, "export default "); ok {
		name := cutAny(strings.TrimSpace(rest), " \t;,(){")
		if isIdentifier(name) {
			return []string{name}
		}
		return nil
	}
	rest, ok := strings.CutPrefix(line, "export {")
	if !ok {
		rest, ok = strings.CutPrefix(line, "export type {")
	}
	if !ok {
		return nil
	}
	list, tail, _ := strings.Cut(rest, "}")
	if strings.HasPrefix(strings.TrimSpace(tail), "from") {
		return nil
	}
	var names []string
	for _, item := range strings.Split(list, ",") {
		fields := strings.Fields(item)
		if len(fields) > 0 && fields[0] == "type" {
			fields = fields[1:]
		}
		if len(fields) > 0 && isIdentifier(fields[0]) {
			names = append(names, fields[0])
		}
	}
	return names
}

// matchLine tests the dialect's rules against one line in priority order
// and returns the first definition that yields a valid name.
func (d *Dialect) matchLine(raw string) (types.Symbol, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || d.isComment(trimmed) {
		return types.Symbol{}, false
	}
	lead := len(raw) - len(strings.TrimLeftFunc(raw, unicode.IsSpace))

	for _, r := range d.rules {
		if r.topLevel && lead > 0 {
			continue
		}
		name, off, ok := r.extract(trimmed)
		if !ok {
			continue
		}
		return types.Symbol{
			Name:      name,
			Kind:      r.kind,
			Column:    utf8.RuneCountInString(raw[:lead+off]) + 1,
			Signature: signature(trimmed),
			Exported:  d.isExported(trimmed),
		}, true
	}
	return types.Symbol{}, false
}

// extract returns the symbol name this rule finds on a trimmed line and its
// byte offset within the line.
func (r rule) extract(line string) (string, int, bool) {
	for _, kw := range r.keywords {
		start, ok := findKeyword(line, kw, r.match == matchPrefix, r.generics)
		if !ok {
			continue
		}
		name, off := r.cutName(line[start:])
		if isIdentifier(name) {
			return name, start + off, true
		}
	}
	return "", 0, false
}

// cutName applies the rule's name mode to the text following the keyword.
// The text never starts with whitespace, so the name begins at the
// returned offset.
func (r rule) cutName(rest string) (string, int) {
	off := 0
	for _, m := range r.modifiers {
		if !strings.HasPrefix(rest[off:], m) {
			continue
		}
		if ws := leadingSpace(rest[off+len(m):]); ws > 0 {
			off += len(m) + ws
		}
	}
	rest = rest[off:]

	var name string
	switch r.name {
	case nameUntilParen:
		p := strings.IndexByte(rest, '(')
		if p < 0 {
			return "", off
		}
		name = cutAny(rest[:p], "<")
	case nameFirstToken:
		name = cutAny(rest, " \t{<(;:=,")
		// A path such as fmt::Display names no local symbol.
		if strings.HasPrefix(rest[len(name):], "::") {
			return "", off
		}
	case nameUntilTypeSep:
		name = cutAny(rest, ":=;")
	}
	return strings.TrimSpace(name), off
}

// signature shortens a defining line for display.
func signature(line string) string {
	if utf8.RuneCountInString(line) <= maxSignatureLength {
		return line
	}
	runes := []rune(line)
	return string(runes[:maxSignatureLength-3]) + "..."
}
