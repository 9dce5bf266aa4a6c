package titan

import "fmt"

// Range is a byte-offset [Start, End) slice of the source text. It is
// deliberately kept distinct from Span (line/column): the lexer and
// parser work in Range terms while walking the input, and Spans are
// computed lazily from a Range via a LineIndex only when a diagnostic
// needs to be rendered.
type Range struct{ Start, End int }

func NewRange(start, end int) Range { return Range{Start: start, End: end} }

func (r Range) String() string {
	if r.Start == r.End {
		return fmt.Sprintf("%d", r.Start)
	}
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

func (r Range) Str(input []byte) string { return string(input[r.Start:r.End]) }

func (r Range) Contains(other Range) bool {
	return other.Start >= r.Start && other.End <= r.End
}
