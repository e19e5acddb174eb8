// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package lens

import (
	"testing"

	"github.com/petar-djukic/go-codelens/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestFindReferences(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		symbol string
		kind   types.SymbolKind
		want   []types.Location
	}{
		{
			name:   "rejects sub-token of longer identifier",
			text:   "fn area() {}\nlet x = calculate_area(1);\nlet y = area();",
			symbol: "area",
			kind:   types.Function,
			want:   []types.Location{{Line: 3, Column: 9}},
		},
		{
			name:   "rejects prefix of longer identifier",
			text:   "const PI: f64 = 3.14;\nlet p = PIE + PI_2;\nlet q = PI;",
			symbol: "PI",
			kind:   types.Constant,
			want:   []types.Location{{Line: 3, Column: 9}},
		},
		{
			name:   "finds every occurrence on a line",
			text:   "struct Rectangle {}\nRectangle(Rectangle),",
			symbol: "Rectangle",
			kind:   types.Struct,
			want:   []types.Location{{Line: 2, Column: 1}, {Line: 2, Column: 11}},
		},
		{
			name:   "resumes one character after a rejected match",
			text:   "xab ab",
			symbol: "ab",
			kind:   types.Function,
			want:   []types.Location{{Line: 1, Column: 5}},
		},
		{
			name:   "path separators are boundaries",
			text:   "let r = Rectangle::new();\nlet s = Shape::Rectangle(r);",
			symbol: "Rectangle",
			kind:   types.Struct,
			want:   []types.Location{{Line: 1, Column: 9}, {Line: 2, Column: 16}},
		},
		{
			name:   "columns count characters not bytes",
			text:   "let é = add(1);",
			symbol: "add",
			kind:   types.Function,
			want:   []types.Location{{Line: 1, Column: 9}},
		},
		{
			name:   "carriage returns are ignored",
			text:   "fn add() {}\r\nadd();\r\n",
			symbol: "add",
			kind:   types.Function,
			want:   []types.Location{{Line: 2, Column: 1}},
		},
		{
			name:   "comments are not masked",
			text:   "fn add() {}\n// calls add\n",
			symbol: "add",
			kind:   types.Function,
			want:   []types.Location{{Line: 2, Column: 10}},
		},
		{
			name:   "no occurrences",
			text:   "fn lonely() {}\n",
			symbol: "lonely",
			kind:   types.Function,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rust.FindReferences(tt.text, tt.symbol, tt.kind)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindReferences_DefinitionLineExcluded(t *testing.T) {
	src := "pub fn helper(x: i32) -> i32 { helper(x - 1) }\nhelper(3);\n"

	got := Rust.FindReferences(src, "helper", types.Function)
	assert.Equal(t, []types.Location{{Line: 2, Column: 1}}, got)
}

// A use that shares a line with a different definition of the same kind is
// classified as a definition line and dropped.
func TestFindReferences_CoarseDefinitionHeuristic(t *testing.T) {
	src := "fn helper() {}\nfn other() { helper() }\n"

	got := Rust.FindReferences(src, "helper", types.Function)
	assert.Empty(t, got)

	// The same use under a different kind is counted.
	got = Rust.FindReferences(src, "helper", types.Constant)
	assert.Len(t, got, 2)
}

func TestFindReferences_EmptyNameAndNilDialect(t *testing.T) {
	assert.Nil(t, Rust.FindReferences("anything", "", types.Function))

	var d *Dialect
	assert.Nil(t, d.FindReferences("fn add() {}\nadd();", "add", types.Function))
}

func TestIsDefinitionLine(t *testing.T) {
	tests := []struct {
		line string
		name string
		kind types.SymbolKind
		want bool
	}{
		{"fn add(a: i32) {", "add", types.Function, true},
		{"fn add {", "add", types.Function, false},
		{"let x = add(1);", "add", types.Function, false},
		{"struct Point {", "Point", types.Struct, true},
		{"impl Point {", "Point", types.Struct, false},
		{"impl Point {", "Point", types.Impl, true},
		{"    impl<T> Point<T> {", "Point", types.Impl, true},
		{"const PI: f64 = 3.0;", "PI", types.Constant, true},
		{"static mut PI: f64 = 3.0;", "PI", types.Static, true},
		{"trait Shape {", "Shape", types.Trait, true},
		{"enum Shape {", "Shape", types.Trait, false},
		{"struct Point {", "Point", types.Class, false},
	}

	for _, tt := range tests {
		t.Run(tt.line+"/"+tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Rust.IsDefinitionLine(tt.line, tt.name, tt.kind))
		})
	}
}
