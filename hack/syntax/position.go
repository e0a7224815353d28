package syntax

import "sort"

// Position is a zero-based line and byte column.
type Position struct {
	Line   int
	Column int
}

// LineIndex converts byte offsets of one source text into positions.
type LineIndex struct {
	starts []int
	size   int
}

func NewLineIndex(src string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts, size: len(src)}
}

// Position clamps offset to the text and returns where it falls.
func (x *LineIndex) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > x.size {
		offset = x.size
	}
	line := sort.Search(len(x.starts), func(i int) bool { return x.starts[i] > offset }) - 1
	return Position{Line: line, Column: offset - x.starts[line]}
}

func (x *LineIndex) Lines() int {
	return len(x.starts)
}
