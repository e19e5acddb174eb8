// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package lens

import (
	"strings"
	"testing"

	"github.com/petar-djukic/go-codelens/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_RustDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantName string
		wantKind types.SymbolKind
		exported bool
	}{
		{name: "function", line: "fn add(a: i32, b: i32) -> i32 {", wantName: "add", wantKind: types.Function},
		{name: "pub function", line: "    pub fn new(name: String) -> Self {", wantName: "new", wantKind: types.Function, exported: true},
		{name: "generic function", line: "fn identity<T>(arg: T) -> T {", wantName: "identity", wantKind: types.Function},
		{name: "const fn prefers function", line: "const fn square(x: u32) -> u32 {", wantName: "square", wantKind: types.Function},
		{name: "struct", line: "struct Rectangle {", wantName: "Rectangle", wantKind: types.Struct},
		{name: "generic struct", line: "pub struct Wrapper<T> {", wantName: "Wrapper", wantKind: types.Struct, exported: true},
		{name: "unit struct", line: "struct Marker;", wantName: "Marker", wantKind: types.Struct},
		{name: "tuple struct", line: "struct Meters(f64);", wantName: "Meters", wantKind: types.Struct},
		{name: "enum", line: "enum Shape {", wantName: "Shape", wantKind: types.Enum},
		{name: "trait", line: "trait Drawable {", wantName: "Drawable", wantKind: types.Trait},
		{name: "trait with bound", line: "pub trait Render: Debug {", wantName: "Render", wantKind: types.Trait, exported: true},
		{name: "module", line: "mod tests {", wantName: "tests", wantKind: types.Module},
		{name: "type alias", line: "type Result<T> = std::result::Result<T, Error>;", wantName: "Result", wantKind: types.TypeAlias},
		{name: "impl", line: "impl Rectangle {", wantName: "Rectangle", wantKind: types.Impl},
		{name: "trait impl", line: "impl Drawable for Rectangle {", wantName: "Drawable", wantKind: types.Impl},
		{name: "generic impl", line: "impl<T: Clone> Display for Wrapper<T> {", wantName: "Display", wantKind: types.Impl},
		{name: "const", line: "const PI: f64 = 3.14159;", wantName: "PI", wantKind: types.Constant},
		{name: "static", line: "static GLOBAL_COUNTER: AtomicUsize = AtomicUsize::new(0);", wantName: "GLOBAL_COUNTER", wantKind: types.Static},
		{name: "static mut", line: "static mut COUNTER: u32 = 0;", wantName: "COUNTER", wantKind: types.Static},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defs := Rust.Extract(tt.line)
			require.Len(t, defs, 1)
			assert.Equal(t, tt.wantName, defs[0].Name)
			assert.Equal(t, tt.wantKind, defs[0].Kind)
			assert.Equal(t, 1, defs[0].Line)
			assert.Equal(t, tt.exported, defs[0].Exported)
		})
	}
}

func TestExtract_RustRejectsNonDefinitions(t *testing.T) {
	lines := []string{
		"let x = add(1, 2);",
		"// fn commented_out(x: i32) {}",
		"/// struct Documented {",
		"fn (x)",
		"myfn helper(x)",
		`let s = "struct 1abc";`,
		"x.impl Foo",
		"let total = impl_count + 1;",
		"struct_field: u32,",
		"",
		"    ",
	}
	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			assert.Empty(t, Rust.Extract(line))
		})
	}
}

func TestExtract_RustPathQualifiedImpl(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{name: "trait path", src: "impl fmt::Display for Wrapper {", want: []string{}},
		{name: "nested path", src: "impl std::ops::Add for Wrapper {}", want: []string{}},
		{name: "generic trait path", src: "impl<T> fmt::Debug for W<T> {", want: []string{}},
		{name: "use stays a reference", src: "use std::fmt;\nstruct Wrapper;", want: []string{"Wrapper"}},
		{name: "plain impl kept", src: "impl fmt::Display for Wrapper {}\nimpl Wrapper {}", want: []string{"Wrapper"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, symbolNames(Rust.Extract(tt.src)))
		})
	}
}

func TestExtract_DocumentOrderAndLines(t *testing.T) {
	src := `// header comment
fn first() {}

struct Second {
    value: i32,
}

impl Second {
    fn third(&self) -> i32 {
        self.value
    }
}
`
	defs := Rust.Extract(src)
	require.Len(t, defs, 4)

	assert.Equal(t, "first", defs[0].Name)
	assert.Equal(t, 2, defs[0].Line)
	assert.Equal(t, "Second", defs[1].Name)
	assert.Equal(t, types.Struct, defs[1].Kind)
	assert.Equal(t, 4, defs[1].Line)
	assert.Equal(t, "Second", defs[2].Name)
	assert.Equal(t, types.Impl, defs[2].Kind)
	assert.Equal(t, 8, defs[2].Line)
	assert.Equal(t, "third", defs[3].Name)
	assert.Equal(t, 9, defs[3].Line)
}

func TestExtract_ColumnAndSignature(t *testing.T) {
	defs := Rust.Extract("    pub fn add(a: i32) -> i32 {")
	require.Len(t, defs, 1)
	assert.Equal(t, 12, defs[0].Column)
	assert.Equal(t, "pub fn add(a: i32) -> i32 {", defs[0].Signature)
}

func TestExtract_LongSignatureTruncated(t *testing.T) {
	line := "fn long_one(" + strings.Repeat("a: i32, ", 20) + ") {}"
	defs := Rust.Extract(line)
	require.Len(t, defs, 1)
	assert.Len(t, []rune(defs[0].Signature), maxSignatureLength)
	assert.Contains(t, defs[0].Signature, "...")
}

func TestExtract_TypeScriptDefinitions(t *testing.T) {
	tests := []struct {
		line     string
		wantName string
		wantKind types.SymbolKind
		exported bool
	}{
		{"export function calculateArea(width: number, height: number): number {", "calculateArea", types.Function, true},
		{"function identity<T>(arg: T): T {", "identity", types.Function, false},
		{"class Rectangle implements Shape, Drawable {", "Rectangle", types.Class, false},
		{"abstract class Animal {", "Animal", types.Class, false},
		{"interface Shape {", "Shape", types.Interface, false},
		{"export type Container<T> = {", "Container", types.TypeAlias, true},
		{"type Point = {", "Point", types.TypeAlias, false},
		{"enum ShapeType {", "ShapeType", types.Enum, false},
		{"namespace Geometry {", "Geometry", types.Module, false},
		{"const PI: number = 3.14159;", "PI", types.Constant, false},
		{"let globalCounter: number = 0;", "globalCounter", types.Variable, false},
		{"var legacy = 1;", "legacy", types.Variable, false},
		{"const multiply = (a: number, b: number): number => a * b;", "multiply", types.Constant, false},
		{"const divide: (a: number, b: number) => number = function(a, b) {", "divide", types.Constant, false},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			defs := TypeScript.Extract(tt.line)
			require.Len(t, defs, 1)
			assert.Equal(t, tt.wantName, defs[0].Name)
			assert.Equal(t, tt.wantKind, defs[0].Kind)
			assert.Equal(t, tt.exported, defs[0].Exported)
		})
	}
}

func TestExtract_TypeScriptSkipsLocals(t *testing.T) {
	src := `function main(): void {
    const rect: Rectangle = new Rectangle(10, 5);
    let area = rect.area();
}
export { Rectangle, calculateArea };
export type { Drawable, Container };
`
	defs := TypeScript.Extract(src)
	require.Len(t, defs, 1)
	assert.Equal(t, "main", defs[0].Name)
}

func TestExtract_JavaScriptDefinitions(t *testing.T) {
	src := `class Shape {}
function calculateArea(w, h) { return w * h; }
const PI = 3.14159;
let counter = 0;
`
	defs := JavaScript.Extract(src)
	require.Len(t, defs, 4)
	assert.Equal(t, []string{"Shape", "calculateArea", "PI", "counter"}, symbolNames(defs))
	assert.Equal(t, types.Variable, defs[3].Kind)
}

func TestExtract_ExportStatements(t *testing.T) {
	tests := []struct {
		name     string
		dialect  *Dialect
		src      string
		exported map[string]bool
	}{
		{
			name:     "export list",
			dialect:  JavaScript,
			src:      "function helper() {}\nfunction hidden() {}\nexport { helper };",
			exported: map[string]bool{"helper": true, "hidden": false},
		},
		{
			name:     "export default",
			dialect:  JavaScript,
			src:      "class App {}\nexport default App;",
			exported: map[string]bool{"App": true},
		},
		{
			name:     "aliased and type list",
			dialect:  TypeScript,
			src:      "interface Shape {}\nclass Circle {}\nexport { Circle as Round };\nexport type { Shape };",
			exported: map[string]bool{"Shape": true, "Circle": true},
		},
		{
			name:     "re-export ignored",
			dialect:  TypeScript,
			src:      "class Local {}\nexport { Local } from './other';",
			exported: map[string]bool{"Local": false},
		},
		{
			name:     "rust ignores export syntax",
			dialect:  Rust,
			src:      "struct Point;\nexport { Point };",
			exported: map[string]bool{"Point": false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defs := tt.dialect.Extract(tt.src)
			require.Len(t, defs, len(tt.exported))
			for _, d := range defs {
				assert.Equal(t, tt.exported[d.Name], d.Exported, d.Name)
			}
		})
	}
}

func TestExtract_NilDialect(t *testing.T) {
	var d *Dialect
	assert.Nil(t, d.Extract("fn add() {}"))
}

func TestLookupAndForPath(t *testing.T) {
	d, ok := Lookup("Rust")
	require.True(t, ok)
	assert.Same(t, Rust, d)

	_, ok = Lookup("cobol")
	assert.False(t, ok)

	tests := []struct {
		path string
		want *Dialect
	}{
		{"src/lib.rs", Rust},
		{"app/main.TS", TypeScript},
		{"web/view.tsx", TypeScript},
		{"index.mjs", JavaScript},
		{"component.jsx", JavaScript},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := ForPath(tt.path)
			require.True(t, ok)
			assert.Same(t, tt.want, got)
		})
	}

	for _, path := range []string{"README.md", "Makefile", "main.go"} {
		_, ok := ForPath(path)
		assert.False(t, ok, path)
	}
}

func symbolNames(syms []types.Symbol) []string {
	names := make([]string, len(syms))
	for i, s := range syms {
		names[i] = s.Name
	}
	return names
}
