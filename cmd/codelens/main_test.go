// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const libRS = `pub struct Point {
    x: i32,
}

pub fn origin() -> Point {
    Point { x: 0 }
}

fn unused() {}

fn main() {
    let p = origin();
    let q: Point = origin();
}
`

// run executes the CLI with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func fixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "lib.rs"), []byte(libRS), 0o644))
	return dir
}

func TestScanCmd_Text(t *testing.T) {
	dir := fixture(t)

	out, err := run(t, "scan", filepath.Join(dir, "src", "lib.rs"))
	require.NoError(t, err)
	assert.Contains(t, out, "codelens (1/1 files, 2/2 symbols)")
	assert.Contains(t, out, "     1  struct Point  3 references")
	assert.Contains(t, out, "     5  function origin  2 references")
	assert.NotContains(t, out, "unused")
}

func TestScanCmd_DirectoryJSONIncludeZero(t *testing.T) {
	dir := fixture(t)

	out, err := run(t, "scan", "--format", "json", "--include-zero", dir)
	require.NoError(t, err)

	var results []struct {
		Path   string `json:"path"`
		Lenses []struct {
			Count int `json:"count"`
		} `json:"lenses"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, filepath.ToSlash(filepath.Join(dir, "src", "lib.rs")), results[0].Path)
	assert.Len(t, results[0].Lenses, 4)
}

func TestScanCmd_CacheDB(t *testing.T) {
	dir := fixture(t)
	db := filepath.Join(t.TempDir(), "cache.db")

	first, err := run(t, "scan", "--cache-db", db, dir)
	require.NoError(t, err)
	second, err := run(t, "scan", "--cache-db", db, dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.FileExists(t, db)
}

func TestScanCmd_Errors(t *testing.T) {
	dir := fixture(t)

	_, err := run(t, "scan", "--format", "xml", dir)
	assert.ErrorContains(t, err, "unknown format")

	_, err = run(t, "scan", "--dialect", "cobol", dir)
	assert.ErrorContains(t, err, "unknown dialect")

	_, err = run(t, "scan", filepath.Join(dir, "missing.rs"))
	assert.Error(t, err)
}

func TestDefsCmd(t *testing.T) {
	dir := fixture(t)

	out, err := run(t, "defs", "--kind", "fn", "--exported", dir)
	require.NoError(t, err)
	lines := nonEmptyLines(out)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "src/lib.rs:5:8  function origin")

	out, err = run(t, "defs", "--name", "unused", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "function unused")

	_, err = run(t, "defs", "--kind", "widget", dir)
	assert.ErrorContains(t, err, "unknown kind")
}

func TestRefsCmd(t *testing.T) {
	dir := fixture(t)
	path := filepath.Join(dir, "src", "lib.rs")

	out, err := run(t, "refs", path, "origin")
	require.NoError(t, err)
	lines := nonEmptyLines(out)
	require.Len(t, lines, 3)
	assert.Equal(t, path+":12:13", lines[0])
	assert.Equal(t, "2 references", lines[2])

	// Point is a struct; the kind is taken from its definition.
	out, err = run(t, "refs", path, "Point")
	require.NoError(t, err)
	assert.Contains(t, out, "3 references")

	_, err = run(t, "refs", path)
	assert.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "codelens "+version+"\n", out)
}

func nonEmptyLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '\n' {
			if i > start {
				lines = append(lines, s[start:i])
			}
			start = i + 1
		}
	}
	return lines
}
