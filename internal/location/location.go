// Package location converts between byte offsets and 1-based line/column positions.
package location

import (
	"sort"
	"unicode/utf8"
)

// Index maps byte offsets in a text to lines and columns.
type Index struct {
	text       string
	lineStarts []int // byte offset of the first byte of each line
}

// New builds a line index for text.
func New(text string) *Index {
	starts := make([]int, 1, 64)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Index{text: text, lineStarts: starts}
}

// clamp keeps offset inside [0, len(text)].
func (ix *Index) clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(ix.text) {
		return len(ix.text)
	}
	return offset
}

// Line returns the 1-based line containing offset.
func (ix *Index) Line(offset int) int {
	offset = ix.clamp(offset)
	// largest i with lineStarts[i] <= offset
	i := sort.Search(len(ix.lineStarts), func(i int) bool {
		return ix.lineStarts[i] > offset
	})
	return i
}

// Position returns the 1-based line and column of offset.
// The column counts code points between the line start and offset; an
// offset inside a multibyte rune reports that rune's column.
func (ix *Index) Position(offset int) (line, col int) {
	offset = ix.clamp(offset)
	for offset > 0 && offset < len(ix.text) && !utf8.RuneStart(ix.text[offset]) {
		offset--
	}
	line = ix.Line(offset)
	start := ix.lineStarts[line-1]
	return line, utf8.RuneCountInString(ix.text[start:offset]) + 1
}

// LineStart returns the byte offset where the 1-based line begins.
// Out-of-range lines clamp to the first or last line.
func (ix *Index) LineStart(line int) int {
	if line < 1 {
		return 0
	}
	if line > len(ix.lineStarts) {
		line = len(ix.lineStarts)
	}
	return ix.lineStarts[line-1]
}

// LineEnd returns the byte offset of the newline ending the 1-based line,
// or len(text) for the last line.
func (ix *Index) LineEnd(line int) int {
	if line < 1 {
		line = 1
	}
	if line >= len(ix.lineStarts) {
		return len(ix.text)
	}
	return ix.lineStarts[line] - 1
}
