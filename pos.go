package titan

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Location is a single point in the source text: a 1-based line and
// column together with the byte cursor they correspond to.
type Location struct {
	Line   int32
	Column int32
	Cursor int
	File   string
}

// Span is a (start, end) pair of Locations. Every diagnostic-bearing
// AST node carries one; a Token carries a byte Range instead.
type Span struct {
	Start Location
	End   Location
}

func NewSpan(start, end Location) Span { return Span{Start: start, End: end} }

func (s Span) String() string {
	startLine, startCol := int(s.Start.Line), int(s.Start.Column)
	endLine, endCol := int(s.End.Line), int(s.End.Column)
	if startLine == endLine && startCol == endCol {
		return fmt.Sprintf("%s:%d:%d", s.Start.File, startLine, startCol)
	}
	if startLine == endLine {
		return fmt.Sprintf("%s:%d:%d..%d", s.Start.File, startLine, startCol, endCol)
	}
	return fmt.Sprintf("%s:%d:%d..%d:%d", s.Start.File, startLine, startCol, endLine, endCol)
}

// LineIndex allows fast conversion from byte cursor offsets to
// line/column pairs. It stores the start byte offset of each line
// (0-based) and binary searches line starts to find the enclosing
// line, then counts runes since the line start for the column.
//
// Construction is O(n) over the input; intended to be built once per
// source file and reused for every diagnostic in that file.
type LineIndex struct {
	input     []byte
	file      string
	lineStart []int
}

func NewLineIndex(file string, input []byte) *LineIndex {
	lineStart := make([]int, 1, 64)
	lineStart[0] = 0
	for i, b := range input {
		if b == '\n' {
			lineStart = append(lineStart, i+1)
		}
	}
	return &LineIndex{input: input, file: file, lineStart: lineStart}
}

func (li *LineIndex) Span(r Range) Span {
	return Span{Start: li.LocationAt(r.Start), End: li.LocationAt(r.End)}
}

func (li *LineIndex) LocationAt(cursor int) Location {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(li.input) {
		cursor = len(li.input)
	}

	lineIdx := sort.Search(len(li.lineStart), func(i int) bool {
		return li.lineStart[i] > cursor
	}) - 1
	if lineIdx < 0 {
		lineIdx = 0
	}

	lineStart := li.lineStart[lineIdx]
	col := int32(utf8.RuneCount(li.input[lineStart:cursor])) + 1

	return Location{
		Line:   int32(lineIdx + 1),
		Column: col,
		Cursor: cursor,
		File:   li.file,
	}
}
