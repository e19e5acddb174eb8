// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package lens

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// splitLines breaks text into lines. Line i of the result is line i+1 of
// the source. A trailing carriage return is dropped from each line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isIdentifier reports whether s is non-empty, made only of letters, digits
// and underscores, and does not start with a digit.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if !isIdentRune(r) {
			return false
		}
		if i == 0 && unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// findKeyword locates kw as a keyword in line: not preceded by an
// identifier character and followed by whitespace (or by a generic
// parameter list when generics is set). It returns the byte offset just
// past the keyword and its trailing whitespace.
func findKeyword(line, kw string, prefixOnly, generics bool) (int, bool) {
	from := 0
	for from <= len(line) {
		i := strings.Index(line[from:], kw)
		if i < 0 {
			return 0, false
		}
		i += from
		if prefixOnly && i != 0 {
			return 0, false
		}
		from = i + 1

		if i > 0 {
			prev, _ := utf8.DecodeLastRuneInString(line[:i])
			if isIdentRune(prev) {
				continue
			}
		}

		end := i + len(kw)
		if generics && strings.HasPrefix(line[end:], "<") {
			gt := matchAngle(line, end)
			if gt < 0 {
				continue
			}
			end = gt + 1
		}
		ws := leadingSpace(line[end:])
		if ws == 0 {
			continue
		}
		return end + ws, true
	}
	return 0, false
}

// matchAngle returns the index of the ">" closing the "<" at open, or -1.
func matchAngle(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func leadingSpace(s string) int {
	n := 0
	for n < len(s) && (s[n] == ' ' || s[n] == '\t') {
		n++
	}
	return n
}

// cutAny returns s up to the first byte found in chars.
func cutAny(s, chars string) string {
	if i := strings.IndexAny(s, chars); i >= 0 {
		return s[:i]
	}
	return s
}

// indexRunes finds needle in haystack starting at from, or returns -1.
func indexRunes(haystack, needle []rune, from int) int {
	n := len(needle)
	for i := from; i+n <= len(haystack); i++ {
		match := true
		for j := 0; j < n; j++ {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// atBoundary reports whether the n runes starting at c form a whole
// identifier: the characters just outside the span are not identifier
// characters.
func atBoundary(runes []rune, c, n int) bool {
	if c > 0 && isIdentRune(runes[c-1]) {
		return false
	}
	if end := c + n; end < len(runes) && isIdentRune(runes[end]) {
		return false
	}
	return true
}
