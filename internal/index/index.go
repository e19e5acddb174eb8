// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package index holds the symbols found across a multi-file scan and
// answers lookups by name, file, and kind.
// Implements: prd004-symbol-index R1, R2;
//
//	docs/ARCHITECTURE.md § Symbol Index.
package index

import (
	"sort"

	"github.com/petar-djukic/go-codelens/pkg/types"
)

// SymbolTable holds every definition from a set of scanned files.
//
// Implements: prd004-symbol-index R1.3 through R1.5.
type SymbolTable struct {
	symbols []types.Symbol
	byName  map[string][]int
	byFile  map[string][]int
	byKind  map[types.SymbolKind][]int
}

// Build creates a SymbolTable. Symbols are ordered by file path, then line,
// then column, whatever order they arrive in.
//
// Implements: prd004-symbol-index R1.1, R1.2.
func Build(symbols []types.Symbol) *SymbolTable {
	st := &SymbolTable{
		symbols: make([]types.Symbol, len(symbols)),
		byName:  make(map[string][]int),
		byFile:  make(map[string][]int),
		byKind:  make(map[types.SymbolKind][]int),
	}
	copy(st.symbols, symbols)
	sort.SliceStable(st.symbols, func(i, j int) bool {
		a, b := st.symbols[i], st.symbols[j]
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})

	for idx, sym := range st.symbols {
		st.byName[sym.Name] = append(st.byName[sym.Name], idx)
		st.byFile[sym.FilePath] = append(st.byFile[sym.FilePath], idx)
		st.byKind[sym.Kind] = append(st.byKind[sym.Kind], idx)
	}
	return st
}

// FromLenses builds a table from the symbols behind a set of lenses.
func FromLenses(lenses []types.Lens) *SymbolTable {
	syms := make([]types.Symbol, len(lenses))
	for i, l := range lenses {
		syms[i] = l.Symbol
	}
	return Build(syms)
}

// All returns every symbol in the table.
func (st *SymbolTable) All() []types.Symbol {
	result := make([]types.Symbol, len(st.symbols))
	copy(result, st.symbols)
	return result
}

// ByName returns all symbols with the given name.
func (st *SymbolTable) ByName(name string) []types.Symbol {
	return st.lookup(st.byName[name])
}

// ByFile returns all symbols declared in the given file path.
func (st *SymbolTable) ByFile(filePath string) []types.Symbol {
	return st.lookup(st.byFile[filePath])
}

// ByKind returns all symbols of the given kind.
func (st *SymbolTable) ByKind(kind types.SymbolKind) []types.Symbol {
	return st.lookup(st.byKind[kind])
}

// Files returns the distinct file paths, sorted.
func (st *SymbolTable) Files() []string {
	files := make([]string, 0, len(st.byFile))
	for f := range st.byFile {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Len returns the total number of symbols.
func (st *SymbolTable) Len() int {
	return len(st.symbols)
}

// Query selects symbols. Zero fields match everything.
type Query struct {
	Name         string
	Kinds        []types.SymbolKind
	ExportedOnly bool
}

// Find returns the symbols matching q in table order.
//
// Implements: prd004-symbol-index R2.1.
func (st *SymbolTable) Find(q Query) []types.Symbol {
	candidates := st.symbols
	if q.Name != "" {
		candidates = st.ByName(q.Name)
	}

	kinds := make(map[types.SymbolKind]bool, len(q.Kinds))
	for _, k := range q.Kinds {
		kinds[k] = true
	}

	var result []types.Symbol
	for _, sym := range candidates {
		if len(kinds) > 0 && !kinds[sym.Kind] {
			continue
		}
		if q.ExportedOnly && !sym.Exported {
			continue
		}
		result = append(result, sym)
	}
	return result
}

// lookup returns symbols at the given indices.
func (st *SymbolTable) lookup(indices []int) []types.Symbol {
	if len(indices) == 0 {
		return nil
	}
	result := make([]types.Symbol, len(indices))
	for i, idx := range indices {
		result[i] = st.symbols[idx]
	}
	return result
}
