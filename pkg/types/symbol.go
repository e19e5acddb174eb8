// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines shared types used across go-codelens packages.
// Implements: prd001-lens-interface R5 (shared types).
package types

import "fmt"

// SymbolKind identifies the category of a code symbol.
type SymbolKind int

const (
	Function  SymbolKind = iota // Function declaration
	Struct                      // Struct type declaration
	Enum                        // Enum declaration
	Trait                       // Trait declaration
	Interface                   // Interface declaration
	Class                       // Class declaration
	Constant                    // Constant declaration
	Static                      // Static item
	Variable                    // Top-level mutable binding
	Impl                        // Impl or extension block
	Module                      // Module or namespace
	TypeAlias                   // Type alias
)

var kindNames = map[SymbolKind]string{
	Function:  "function",
	Struct:    "struct",
	Enum:      "enum",
	Trait:     "trait",
	Interface: "interface",
	Class:     "class",
	Constant:  "constant",
	Static:    "static",
	Variable:  "variable",
	Impl:      "impl",
	Module:    "module",
	TypeAlias: "type_alias",
}

// String returns the human-readable name of the symbol kind.
func (k SymbolKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText encodes the kind by name so JSON output stays readable.
func (k SymbolKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind previously written by MarshalText.
func (k *SymbolKind) UnmarshalText(text []byte) error {
	parsed, ok := ParseKind(string(text))
	if !ok {
		return fmt.Errorf("unknown symbol kind %q", text)
	}
	*k = parsed
	return nil
}

// ParseKind converts a kind name back to a SymbolKind. A few short aliases
// ("fn", "const", "type") are accepted for command-line use.
func ParseKind(name string) (SymbolKind, bool) {
	switch name {
	case "fn", "func":
		return Function, true
	case "const":
		return Constant, true
	case "type", "alias":
		return TypeAlias, true
	case "mod", "namespace":
		return Module, true
	}
	for k, v := range kindNames {
		if v == name {
			return k, true
		}
	}
	return 0, false
}

// Symbol is a definition recognized in a source file. Line always equals
// the line on which the defining pattern matched.
// Implements: prd001-lens-interface R5.3; prd002-lens-engine R1.4.
type Symbol struct {
	Name      string     `json:"name"`
	Kind      SymbolKind `json:"kind"`
	FilePath  string     `json:"path,omitempty"`
	Line      int        `json:"line"`                // 1-based
	Column    int        `json:"column"`              // 1-based, start of the name
	Signature string     `json:"signature,omitempty"` // trimmed defining line
	Exported  bool       `json:"exported,omitempty"`
}

// Location is a single textual reference to a symbol.
type Location struct {
	Line   int `json:"line"`   // 1-based
	Column int `json:"column"` // 1-based, counted in characters
}

// Lens is the annotation produced for one definition: a label anchored to
// the definition's line.
type Lens struct {
	Symbol Symbol `json:"symbol"`
	Count  int    `json:"count"`
	Label  string `json:"label"`
}

// Line returns the anchor line of the lens.
func (l Lens) Line() int {
	return l.Symbol.Line
}
