package expr

import (
	"regexp"
	"regexp/syntax"
	"unicode/utf8"

	"github.com/sarpdag/boyermoore"

	"github.com/jeffwilliams/edcmd/internal/buffer"
)

type compileFunc func(pattern string) (*regexp.Regexp, error)

func compileRegexp(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, runtimeError(InvalidRegex, "%v", err)
	}
	return re, nil
}

// lineMatch is a match of a regular expression within one row. loc holds the
// byte offsets of the match and its submatches as returned by
// FindStringSubmatchIndex.
type lineMatch struct {
	row int
	loc []int
}

func (m lineMatch) start() buffer.Position {
	return buffer.Position{Row: m.row, Col: m.loc[0]}
}

// end is the position just past the match.
func (m lineMatch) end() buffer.Position {
	return buffer.Position{Row: m.row, Col: m.loc[1]}
}

func (m lineMatch) empty() bool {
	return m.loc[0] == m.loc[1]
}

// address converts the match into an inclusive Address.
func (m lineMatch) address(b buffer.Buffer) Address {
	if m.empty() {
		return Address{P1: m.start(), P2: m.start(), NullSelection: true}
	}
	return Address{P1: m.start(), P2: buffer.PreviousPosition(b, m.end())}
}

// Matching is done row by row against the row's own text, so that ^ and $ keep
// their line meaning. A search that starts inside a row keeps one rune of the
// text before it when the pattern looks backwards (^, \b, \B), and a search that
// ends inside a row keeps the rest of the row when the pattern looks forwards ($,
// \b, \B). Otherwise only the text in range is searched, so a match straddling
// the start of the range can't hide one that lies inside it.

// rowMatcher finds the matches of re inside rows.
type rowMatcher struct {
	re *regexp.Regexp
	// head and tail are set when re has assertions about the text before or
	// after a position.
	head, tail bool
}

func newRowMatcher(re *regexp.Regexp) rowMatcher {
	m := rowMatcher{re: re}
	r, err := syntax.Parse(re.String(), syntax.Perl)
	if err != nil {
		m.head, m.tail = true, true
		return m
	}
	m.scan(r)
	return m
}

func (m *rowMatcher) scan(r *syntax.Regexp) {
	switch r.Op {
	case syntax.OpBeginLine, syntax.OpBeginText:
		m.head = true
	case syntax.OpEndLine, syntax.OpEndText:
		m.tail = true
	case syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		m.head, m.tail = true, true
	}
	for _, sub := range r.Sub {
		m.scan(sub)
	}
}

// inRow returns the successive matches in row that start at or after lo and
// end at or before hi.
func (m rowMatcher) inRow(b buffer.Buffer, row, lo, hi int) []lineMatch {
	line := b.Line(row)
	if hi > len(line) {
		hi = len(line)
	}
	if lo > hi {
		return nil
	}
	end := hi
	if m.tail {
		end = len(line)
	}

	var result []lineMatch
	for s := lo; s <= hi; {
		loc := m.find(line, s, end)
		if loc == nil || loc[0] > hi {
			break
		}
		if loc[1] > hi {
			s = nextRuneStart(line, loc[0])
			continue
		}
		result = append(result, lineMatch{row: row, loc: loc})
		if loc[1] > loc[0] {
			s = loc[1]
		} else {
			s = nextRuneStart(line, loc[0])
		}
	}
	return result
}

// find returns the leftmost match in line[:end] starting at or after s, with
// offsets relative to line.
func (m rowMatcher) find(line string, s, end int) []int {
	if !m.head || s == 0 {
		return shiftLoc(m.re.FindStringSubmatchIndex(line[s:end]), s)
	}

	_, size := utf8.DecodeLastRuneInString(line[:s])
	p := s - size
	if loc := shiftLoc(m.re.FindStringSubmatchIndex(line[p:end]), p); loc == nil || loc[0] >= s {
		return loc
	}

	// A match at p hides s. Searching from s puts a false line start at s, so
	// a match found exactly there is skipped.
	loc := shiftLoc(m.re.FindStringSubmatchIndex(line[s:end]), s)
	if loc == nil || loc[0] > s {
		return loc
	}
	if s >= end {
		return nil
	}
	return m.find(line, nextRuneStart(line, s), end)
}

func shiftLoc(loc []int, by int) []int {
	for i := range loc {
		if loc[i] >= 0 {
			loc[i] += by
		}
	}
	return loc
}

func nextRuneStart(line string, i int) int {
	if i >= len(line) {
		return i + 1
	}
	_, size := utf8.DecodeRuneInString(line[i:])
	return i + size
}

// nextMatch finds the first match lying in the half-open span [from, to).
// A zero-length match at to is included.
func nextMatch(re *regexp.Regexp, b buffer.Buffer, from, to buffer.Position) (lineMatch, bool) {
	rm := newRowMatcher(re)
	for row := from.Row; row <= to.Row && row < b.Rows(); row++ {
		lo, hi := spanColumns(b, row, from, to)
		if m := rm.inRow(b, row, lo, hi); len(m) > 0 {
			return m[0], true
		}
	}
	return lineMatch{}, false
}

// containsMatch reports whether a match lies in [from, to). Patterns that are
// plain literals are searched for with Boyer-Moore.
func containsMatch(re *regexp.Regexp, b buffer.Buffer, from, to buffer.Position) bool {
	lit, complete := re.LiteralPrefix()
	if !complete || lit == "" {
		_, ok := nextMatch(re, b, from, to)
		return ok
	}

	needle := []byte(lit)
	for row := from.Row; row <= to.Row && row < b.Rows(); row++ {
		lo, hi := spanColumns(b, row, from, to)
		line := b.Line(row)
		if lo >= hi || hi > len(line) {
			continue
		}
		if boyermoore.Index([]byte(line[lo:hi]), needle) >= 0 {
			return true
		}
	}
	return false
}

func spanColumns(b buffer.Buffer, row int, from, to buffer.Position) (lo, hi int) {
	hi = len(b.Line(row))
	if row == from.Row {
		lo = from.Col
	}
	if row == to.Row && to.Col < hi {
		hi = to.Col
	}
	return
}

// searchForward finds the first match starting at or after from, wrapping
// around to the start of the buffer.
func searchForward(re *regexp.Regexp, b buffer.Buffer, from buffer.Position) (lineMatch, bool) {
	rm := newRowMatcher(re)
	last := b.Rows() - 1
	for row := from.Row; row <= last; row++ {
		lo := 0
		if row == from.Row {
			lo = from.Col
		}
		if m := rm.inRow(b, row, lo, len(b.Line(row))); len(m) > 0 {
			return m[0], true
		}
	}

	for row := 0; row <= from.Row && row <= last; row++ {
		for _, m := range rm.inRow(b, row, 0, len(b.Line(row))) {
			if row == from.Row && m.loc[0] >= from.Col {
				break
			}
			return m, true
		}
	}
	return lineMatch{}, false
}

// searchBackward finds the last match ending at or before from, wrapping
// around to the end of the buffer.
func searchBackward(re *regexp.Regexp, b buffer.Buffer, from buffer.Position) (lineMatch, bool) {
	rm := newRowMatcher(re)
	for row := from.Row; row >= 0; row-- {
		hi := len(b.Line(row))
		if row == from.Row {
			hi = from.Col
		}
		m := rm.inRow(b, row, 0, hi)
		for i := len(m) - 1; i >= 0; i-- {
			if row == from.Row && m[i].loc[0] >= from.Col {
				continue
			}
			return m[i], true
		}
	}

	for row := b.Rows() - 1; row >= from.Row && row >= 0; row-- {
		m := rm.inRow(b, row, 0, len(b.Line(row)))
		for i := len(m) - 1; i >= 0; i-- {
			if row == from.Row && m[i].loc[0] < from.Col {
				break
			}
			return m[i], true
		}
	}
	return lineMatch{}, false
}
