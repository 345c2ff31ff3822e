package buffer

import (
	"strings"
	"unicode/utf8"

	"github.com/jeffwilliams/edcmd/internal/settings"
)

/*
Buffer is a text document with a cursor and an optional selection. It is a value:
every operation in this package takes a Buffer and returns a new one, and no
operation ever writes into the Content slice or the rows of a Buffer it was given.
Callers must follow the same rule. This is what allows undo snapshots and copies of
a Buffer to share storage.

The selection, when present, is inclusive: it runs from the smaller of Pos and
StartSelection through the larger, and both ends denote characters. A newline
position (see Position) denotes the newline character.
*/
type Buffer struct {
	// Content holds the rows of the document without their newlines. It always
	// has at least one row.
	Content        []string
	Pos            Position
	StartSelection *Position
	Rectangular    bool
	Name           string
	Modified       bool

	undo, redo *snapshot
}

// snapshot is an entry in an undo or redo stack. The stacks are immutable linked
// lists so that copies of a Buffer can push and pop independently.
type snapshot struct {
	content  []string
	pos      Position
	sel      *Position
	modified bool
	next     *snapshot
	depth    int
}

func New(text string) Buffer {
	return Buffer{Content: strings.Split(text, "\n")}
}

func (b Buffer) Text() string {
	return strings.Join(b.Content, "\n")
}

func (b Buffer) Rows() int {
	return len(b.content())
}

func (b Buffer) Line(row int) string {
	c := b.content()
	if row < 0 || row >= len(c) {
		return ""
	}
	return c[row]
}

func (b Buffer) content() []string {
	if len(b.Content) == 0 {
		return []string{""}
	}
	return b.Content
}

func (b Buffer) HasSelection() bool {
	return b.StartSelection != nil
}

// SelectionRange returns the ordered, inclusive ends of the selection.
func (b Buffer) SelectionRange() (p1, p2 Position, ok bool) {
	if b.StartSelection == nil {
		return b.Pos, b.Pos, false
	}
	p1, p2 = Ordered(b.Pos, *b.StartSelection)
	return p1, p2, true
}

// Select makes [p1, p2] the inclusive selection with the cursor on p1.
func (b Buffer) Select(p1, p2 Position) Buffer {
	p1, p2 = Ordered(Clamp(b, p1), Clamp(b, p2))
	b.Pos = p1
	b.StartSelection = &p2
	b.Rectangular = false
	return b
}

// MoveTo places the cursor at p and drops the selection.
func (b Buffer) MoveTo(p Position) Buffer {
	b.Pos = Clamp(b, p)
	b.StartSelection = nil
	b.Rectangular = false
	return b
}

func LastPosition(b Buffer) Position {
	c := b.content()
	r := len(c) - 1
	return Position{r, len(c[r])}
}

// Clamp moves p to the nearest valid position in b.
func Clamp(b Buffer, p Position) Position {
	c := b.content()
	if p.Row < 0 {
		return Position{}
	}
	if p.Row >= len(c) {
		return LastPosition(b)
	}
	line := c[p.Row]
	if p.Col < 0 {
		p.Col = 0
	}
	if p.Col > len(line) {
		p.Col = len(line)
	}
	for p.Col > 0 && p.Col < len(line) && !utf8.RuneStart(line[p.Col]) {
		p.Col--
	}
	return p
}

// NextPosition returns the position one character after p. The end of the file
// has no successor and is returned unchanged.
func NextPosition(b Buffer, p Position) Position {
	p = Clamp(b, p)
	c := b.content()
	line := c[p.Row]
	if p.Col < len(line) {
		_, sz := utf8.DecodeRuneInString(line[p.Col:])
		return Position{p.Row, p.Col + sz}
	}
	if p.Row < len(c)-1 {
		return Position{p.Row + 1, 0}
	}
	return p
}

// PreviousPosition returns the position one character before p. The start of
// the file is returned unchanged.
func PreviousPosition(b Buffer, p Position) Position {
	p = Clamp(b, p)
	c := b.content()
	if p.Col > 0 {
		_, sz := utf8.DecodeLastRuneInString(c[p.Row][:p.Col])
		return Position{p.Row, p.Col - sz}
	}
	if p.Row > 0 {
		return Position{p.Row - 1, len(c[p.Row-1])}
	}
	return p
}

// TextBetween returns the text in the half-open span [p1, p2).
func TextBetween(b Buffer, p1, p2 Position) string {
	p1, p2 = Ordered(Clamp(b, p1), Clamp(b, p2))
	c := b.content()
	if p1.Row == p2.Row {
		return c[p1.Row][p1.Col:p2.Col]
	}

	var sb strings.Builder
	sb.WriteString(c[p1.Row][p1.Col:])
	for r := p1.Row + 1; r < p2.Row; r++ {
		sb.WriteByte('\n')
		sb.WriteString(c[r])
	}
	sb.WriteByte('\n')
	sb.WriteString(c[p2.Row][:p2.Col])
	return sb.String()
}

// Selection returns the selected text, or the empty string when there is no selection.
func Selection(b Buffer, s settings.Settings) string {
	p1, p2, ok := b.SelectionRange()
	if !ok {
		return ""
	}
	return TextBetween(b, p1, NextPosition(b, p2))
}

// Insert inserts text at the cursor, replacing the selection if there is one. The
// cursor ends up after the inserted text with no selection.
func Insert(b Buffer, text string, s settings.Settings, recordUndo bool) Buffer {
	if !b.HasSelection() && text == "" {
		return b
	}
	if recordUndo {
		b = PushUndo(b)
	}
	if b.HasSelection() {
		b = eraseSelection(b)
	}
	if s.UseSpacesForTabs {
		text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", s.TabSpace))
	}
	b.Content, b.Pos = insertAt(b, Clamp(b, b.Pos), text)
	b.StartSelection = nil
	b.Rectangular = false
	b.Modified = true
	return b
}

// Erase erases the selection, or if there is none the character left of the cursor.
func Erase(b Buffer, s settings.Settings, recordUndo bool) Buffer {
	if b.HasSelection() {
		if recordUndo {
			b = PushUndo(b)
		}
		return eraseSelection(b)
	}

	p := Clamp(b, b.Pos)
	prev := PreviousPosition(b, p)
	if prev == p {
		return b
	}
	if recordUndo {
		b = PushUndo(b)
	}
	return eraseBetween(b, prev, p)
}

// EraseRight erases the selection, or if there is none the character under the cursor.
func EraseRight(b Buffer, s settings.Settings, recordUndo bool) Buffer {
	if b.HasSelection() {
		if recordUndo {
			b = PushUndo(b)
		}
		return eraseSelection(b)
	}

	p := Clamp(b, b.Pos)
	next := NextPosition(b, p)
	if next == p {
		return b
	}
	if recordUndo {
		b = PushUndo(b)
	}
	return eraseBetween(b, p, next)
}

func eraseSelection(b Buffer) Buffer {
	p1, p2, _ := b.SelectionRange()
	p1 = Clamp(b, p1)
	return eraseBetween(b, p1, NextPosition(b, p2))
}

// eraseBetween removes the half-open span [p1, p2) and leaves the cursor at p1.
func eraseBetween(b Buffer, p1, p2 Position) Buffer {
	c := b.content()
	content := make([]string, 0, len(c)-(p2.Row-p1.Row))
	content = append(content, c[:p1.Row]...)
	content = append(content, c[p1.Row][:p1.Col]+c[p2.Row][p2.Col:])
	content = append(content, c[p2.Row+1:]...)

	b.Content = content
	b.Pos = p1
	b.StartSelection = nil
	b.Rectangular = false
	b.Modified = true
	return b
}

func insertAt(b Buffer, p Position, text string) (content []string, end Position) {
	c := b.content()
	lines := strings.Split(text, "\n")
	head, tail := c[p.Row][:p.Col], c[p.Row][p.Col:]

	content = make([]string, 0, len(c)+len(lines)-1)
	content = append(content, c[:p.Row]...)
	if len(lines) == 1 {
		content = append(content, head+text+tail)
		end = Position{p.Row, p.Col + len(text)}
	} else {
		last := len(lines) - 1
		content = append(content, head+lines[0])
		content = append(content, lines[1:last]...)
		content = append(content, lines[last]+tail)
		end = Position{p.Row + last, len(lines[last])}
	}
	content = append(content, c[p.Row+1:]...)
	return
}

func (b Buffer) snapshot(next *snapshot) *snapshot {
	depth := 1
	if next != nil {
		depth = next.depth + 1
	}
	return &snapshot{
		content:  b.Content,
		pos:      b.Pos,
		sel:      b.StartSelection,
		modified: b.Modified,
		next:     next,
		depth:    depth,
	}
}

func (b Buffer) restore(s *snapshot) Buffer {
	b.Content = s.content
	b.Pos = s.pos
	b.StartSelection = s.sel
	b.Modified = s.modified
	b.Rectangular = false
	return b
}

// PushUndo records the current state on the undo stack and clears the redo stack.
func PushUndo(b Buffer) Buffer {
	b.undo = b.snapshot(b.undo)
	b.redo = nil
	return b
}

// Undo restores the state recorded by the most recent PushUndo. A Buffer with an
// empty undo stack is returned unchanged.
func Undo(b Buffer, s settings.Settings) Buffer {
	if b.undo == nil {
		return b
	}
	top := b.undo
	b.redo = b.snapshot(b.redo)
	b = b.restore(top)
	b.undo = top.next
	return b
}

func Redo(b Buffer, s settings.Settings) Buffer {
	if b.redo == nil {
		return b
	}
	top := b.redo
	b.undo = b.snapshot(b.undo)
	b = b.restore(top)
	b.redo = top.next
	return b
}

func (b Buffer) CanUndo() bool {
	return b.undo != nil
}

func (b Buffer) CanRedo() bool {
	return b.redo != nil
}

// UndoDepth is the number of states on the undo stack.
func (b Buffer) UndoDepth() int {
	if b.undo == nil {
		return 0
	}
	return b.undo.depth
}
