package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeffwilliams/edcmd/internal/buffer"
)

func TestRecomputePositionAfterErase(t *testing.T) {
	tests := []struct {
		name     string
		pos      Pos
		expected Pos
	}{
		{name: "before", pos: Pos{0, 1}, expected: Pos{0, 1}},
		{name: "at start", pos: Pos{1, 2}, expected: Pos{1, 2}},
		{name: "inside", pos: Pos{2, 0}, expected: Pos{1, 2}},
		{name: "at end", pos: Pos{3, 1}, expected: Pos{1, 2}},
		{name: "same row as end", pos: Pos{3, 5}, expected: Pos{1, 6}},
		{name: "later row", pos: Pos{5, 7}, expected: Pos{3, 7}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := RecomputePositionAfterErase(tc.pos.p(), pos(1, 2), pos(3, 1))
			assert.Equal(t, tc.expected.p(), got)
		})
	}
}

func TestRecomputePositionAfterEraseOfNothing(t *testing.T) {
	for _, p := range []Pos{{0, 0}, {1, 2}, {1, 5}, {4, 0}} {
		assert.Equal(t, p.p(), RecomputePositionAfterErase(p.p(), pos(1, 2), pos(1, 2)))
	}
}

func TestRecomputePositionAfterDotChange(t *testing.T) {
	o1, o2 := pos(1, 2), pos(1, 5)

	tests := []struct {
		name     string
		pos      Pos
		n2       Pos
		expected Pos
	}{
		{name: "before", pos: Pos{0, 9}, n2: Pos{1, 3}, expected: Pos{0, 9}},
		{name: "inside", pos: Pos{1, 3}, n2: Pos{1, 3}, expected: Pos{1, 2}},
		{name: "shrunk same row", pos: Pos{1, 8}, n2: Pos{1, 3}, expected: Pos{1, 6}},
		{name: "grew onto new rows", pos: Pos{1, 8}, n2: Pos{3, 1}, expected: Pos{3, 4}},
		{name: "later row", pos: Pos{4, 2}, n2: Pos{3, 1}, expected: Pos{6, 2}},
		{name: "deleted", pos: Pos{2, 0}, n2: Pos{1, 2}, expected: Pos{2, 0}},
		{name: "deleted same row", pos: Pos{1, 7}, n2: Pos{1, 2}, expected: Pos{1, 4}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := RecomputePositionAfterDotChange(tc.pos.p(), o1, o2, o1, tc.n2.p())
			assert.Equal(t, tc.expected.p(), got)
		})
	}

	moved := RecomputePositionAfterDotChange(pos(4, 2), o1, o2, pos(0, 0), pos(0, 1))
	assert.Equal(t, pos(4, 2), moved, "a relocated dot leaves positions alone")
}

// Pos is shorthand for table entries.
type Pos [2]int

func (p Pos) p() buffer.Position {
	return pos(p[0], p[1])
}
