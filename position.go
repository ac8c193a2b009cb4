package mformula

import (
	"github.com/rivo/uniseg"

	"github.com/halvorsen/mformula/internal/mlex"
)

// Position is the public position wire format (spec.md §6): zero-based
// line number plus a UTF-16-code-unit offset within that line, the shape
// editor clients (LSP-style) report cursor positions in. It is a thin
// alias over the lexer's internal Position so callers never need to
// import internal/mlex directly.
type Position = mlex.Position

// ColumnNumber computes the grapheme-cluster column of codeUnit within
// lineText on demand (spec.md §3 "a parallel columnNumber ... computed on
// demand from the line text using a Unicode-aware grapheme splitter"),
// using the teacher's own indirect dependency github.com/rivo/uniseg
// promoted to direct (see DESIGN.md). Returns the number of whole grapheme
// clusters preceding codeUnit; a codeUnit that falls inside a cluster
// (a surrogate pair split mid-rune, or a position past the end of the
// line) rounds down to that cluster's start.
func ColumnNumber(lineText string, codeUnit int) int {
	if codeUnit <= 0 {
		return 0
	}
	column := 0
	units := 0
	state := -1
	remaining := lineText
	for len(remaining) > 0 {
		var cluster string
		cluster, remaining, _, state = uniseg.FirstGraphemeClusterInString(remaining, state)
		units += utf16UnitsIn(cluster)
		if units > codeUnit {
			return column
		}
		column++
	}
	return column
}

func utf16UnitsIn(s string) int {
	count := 0
	for _, r := range s {
		if r > 0xFFFF {
			count += 2
		} else {
			count++
		}
	}
	return count
}
