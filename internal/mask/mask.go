// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package mask blanks out comments and string literals before reference
// counting. Every masked character becomes a single space and newlines are
// kept, so line numbers and character columns of the remaining code do not
// move.
// Implements: prd003-comment-mask R1, R2;
//
//	docs/ARCHITECTURE § Comment Masking.
package mask

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// ErrUnsupported is returned for a language without a grammar.
var ErrUnsupported = errors.New("no grammar for language")

// grammar holds the tree-sitter language and the node types to blank.
type grammar struct {
	lang   *sitter.Language
	masked map[string]bool
	// keep lists child node types that stay visible inside a masked node,
	// such as template substitutions.
	keep map[string]bool
}

var grammars = map[string]*grammar{
	"rust": {
		lang: rust.GetLanguage(),
		masked: map[string]bool{
			"line_comment":       true,
			"block_comment":      true,
			"string_literal":     true,
			"raw_string_literal": true,
			"char_literal":       true,
		},
	},
	"javascript": {
		lang: javascript.GetLanguage(),
		masked: map[string]bool{
			"comment":         true,
			"string":          true,
			"template_string": true,
		},
		keep: map[string]bool{"template_substitution": true},
	},
	"typescript": {
		lang: typescript.GetLanguage(),
		masked: map[string]bool{
			"comment":         true,
			"string":          true,
			"template_string": true,
		},
		keep: map[string]bool{"template_substitution": true},
	},
}

// Supported reports whether language has a grammar.
func Supported(language string) bool {
	_, ok := grammars[language]
	return ok
}

// span is a half-open byte range.
type span struct {
	start, end int
}

// Apply parses content with the grammar for language and returns a copy in
// which comments and string literals are replaced by spaces.
func Apply(ctx context.Context, language string, content []byte) ([]byte, error) {
	g, ok := grammars[language]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, language)
	}

	root, err := sitter.ParseCtx(ctx, content, g.lang)
	if err != nil {
		return nil, fmt.Errorf("parsing %s source: %w", language, err)
	}
	if root == nil {
		return nil, fmt.Errorf("parsing %s source: empty tree", language)
	}

	var spans []span
	collect(root, g, &spans)
	return blank(content, spans), nil
}

// collect walks the tree and records the byte ranges to blank. Masked nodes
// are not descended into, except to carve out children listed in keep.
func collect(n *sitter.Node, g *grammar, spans *[]span) {
	if g.masked[n.Type()] {
		start := int(n.StartByte())
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			if c == nil || !g.keep[c.Type()] {
				continue
			}
			*spans = append(*spans, span{start: start, end: int(c.StartByte())})
			start = int(c.EndByte())
		}
		*spans = append(*spans, span{start: start, end: int(n.EndByte())})
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c != nil {
			collect(c, g, spans)
		}
	}
}

// blank rewrites content with every character inside spans replaced by one
// space. Line breaks survive.
func blank(content []byte, spans []span) []byte {
	if len(spans) == 0 {
		out := make([]byte, len(content))
		copy(out, content)
		return out
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var b strings.Builder
	b.Grow(len(content))
	pos := 0
	for _, s := range spans {
		if s.start < pos {
			s.start = pos
		}
		if s.end > len(content) {
			s.end = len(content)
		}
		if s.start >= s.end {
			continue
		}
		b.Write(content[pos:s.start])
		for i := s.start; i < s.end; {
			r, size := utf8.DecodeRune(content[i:])
			switch r {
			case '\n', '\r':
				b.WriteRune(r)
			default:
				b.WriteByte(' ')
			}
			i += size
		}
		pos = s.end
	}
	b.Write(content[pos:])
	return []byte(b.String())
}
