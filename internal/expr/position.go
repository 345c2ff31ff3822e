package expr

import "github.com/jeffwilliams/edcmd/internal/buffer"

// Spans in this file are half-open: [p1, p2).

// RecomputePositionAfterErase returns where pos ends up after the span [p1, p2)
// is erased. Positions inside the span collapse to p1.
func RecomputePositionAfterErase(pos, p1, p2 buffer.Position) buffer.Position {
	if pos.Less(p1) {
		return pos
	}
	if pos.Less(p2) {
		return p1
	}
	if pos.Row == p2.Row {
		return buffer.Position{Row: p1.Row, Col: p1.Col + pos.Col - p2.Col}
	}
	return buffer.Position{Row: pos.Row - (p2.Row - p1.Row), Col: pos.Col}
}

// RecomputePositionAfterDotChange returns where pos ends up after the text
// spanning [oldP1, oldP2) was replaced by text spanning [newP1, newP2). If the
// start moved the change is not a replacement in place and pos is returned as is.
func RecomputePositionAfterDotChange(pos, oldP1, oldP2, newP1, newP2 buffer.Position) buffer.Position {
	if oldP1 != newP1 {
		return pos
	}
	if pos.LessEq(oldP1) {
		return pos
	}
	if pos.Less(oldP2) {
		return newP1
	}
	if pos.Row == oldP2.Row {
		return buffer.Position{Row: newP2.Row, Col: newP2.Col + pos.Col - oldP2.Col}
	}
	return buffer.Position{Row: pos.Row + newP2.Row - oldP2.Row, Col: pos.Col}
}
