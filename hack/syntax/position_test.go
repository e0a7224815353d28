package syntax

import "testing"

func TestLineIndexPosition(t *testing.T) {
	x := NewLineIndex("ab\ncd\n\nef")
	tests := []struct {
		offset int
		want   Position
	}{
		{0, Position{0, 0}},
		{1, Position{0, 1}},
		{2, Position{0, 2}},
		{3, Position{1, 0}},
		{6, Position{2, 0}},
		{7, Position{3, 0}},
		{9, Position{3, 2}},
		{100, Position{3, 2}},
		{-4, Position{0, 0}},
	}
	for _, tt := range tests {
		if got := x.Position(tt.offset); got != tt.want {
			t.Errorf("Position(%d) = %+v, want %+v", tt.offset, got, tt.want)
		}
	}
	if got := x.Lines(); got != 4 {
		t.Errorf("Lines() = %d, want 4", got)
	}
}
