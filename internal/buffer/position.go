package buffer

import "fmt"

// Position is a location in a Buffer. Col is a byte offset into the row and is
// always on a rune boundary. The position (r, len(row r)) is the newline that ends
// row r, or the end of the file when r is the last row.
type Position struct {
	Row, Col int
}

func (p Position) Less(o Position) bool {
	if p.Row != o.Row {
		return p.Row < o.Row
	}
	return p.Col < o.Col
}

func (p Position) LessEq(o Position) bool {
	return p == o || p.Less(o)
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Ordered returns a and b with the smaller first.
func Ordered(a, b Position) (Position, Position) {
	if b.Less(a) {
		return b, a
	}
	return a, b
}
